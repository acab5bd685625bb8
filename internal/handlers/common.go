package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/rummage/shopkeeper/internal/middleware"
	"github.com/rummage/shopkeeper/internal/models"
	"github.com/rummage/shopkeeper/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func setCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func writeCSV(w http.ResponseWriter, filename string, header []string, records [][]string) error {
	setCSVHeaders(w, filename)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// writeMutation answers a store mutation. A sink failure still reports
// success because the change is already applied; the failure becomes a
// warning.
func writeMutation(w http.ResponseWriter, r *http.Request, status int, data interface{}, err error, action string) {
	var syncErr *services.SyncError
	if err != nil && errors.As(err, &syncErr) {
		middleware.Logger(r.Context()).Warn("mutation committed but not synced",
			zap.String("action", action),
			zap.String("sink", syncErr.Sink),
			zap.Error(syncErr.Err),
		)
		writeJSON(w, status, models.NewWarningResponse(data, "Saved, but the spreadsheet sync failed: "+syncErr.Err.Error()))
		return
	}
	if err != nil {
		writeServiceError(w, r, err, action)
		return
	}
	writeJSON(w, status, models.NewSuccessResponse(data))
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(verr.Fields))
	case errors.Is(err, services.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item not found"))
	case errors.Is(err, services.ErrPhotoNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Item has no photo"))
	case errors.Is(err, services.ErrCustomerNotFound):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Customer not found"))
	default:
		middleware.Logger(r.Context()).Error("request failed", zap.String("action", action), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to "+action))
	}
}
