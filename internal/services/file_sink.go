package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rummage/shopkeeper/internal/models"
	"github.com/rummage/shopkeeper/internal/storage"
)

// CSVFileSink overwrites a local CSV file with each snapshot.
type CSVFileSink struct {
	file *storage.SnapshotFile
}

func NewCSVFileSink(path string) (*CSVFileSink, error) {
	file, err := storage.NewSnapshotFile(path)
	if err != nil {
		return nil, fmt.Errorf("csv sink: %w", err)
	}
	return &CSVFileSink{file: file}, nil
}

func (s *CSVFileSink) Name() string { return "csv:" + s.file.Path() }

func (s *CSVFileSink) Sync(ctx context.Context, rows []models.ExportRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.file.Save(func(w io.Writer) error {
		return WriteInventoryCSV(w, rows)
	})
}

// JSONFileSink overwrites a local JSON file with each snapshot.
type JSONFileSink struct {
	file *storage.SnapshotFile
}

func NewJSONFileSink(path string) (*JSONFileSink, error) {
	file, err := storage.NewSnapshotFile(path)
	if err != nil {
		return nil, fmt.Errorf("json sink: %w", err)
	}
	return &JSONFileSink{file: file}, nil
}

func (s *JSONFileSink) Name() string { return "json:" + s.file.Path() }

func (s *JSONFileSink) Sync(ctx context.Context, rows []models.ExportRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rows == nil {
		rows = []models.ExportRow{}
	}
	return s.file.SaveJSON(rows)
}
