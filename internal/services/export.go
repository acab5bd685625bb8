package services

import (
	"encoding/csv"
	"io"

	"github.com/rummage/shopkeeper/internal/models"
)

// WriteInventoryCSV writes the header row followed by one row per item.
func WriteInventoryCSV(w io.Writer, rows []models.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.ExportHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(exportRecords(rows)); err != nil {
		return err
	}
	return cw.Error()
}
