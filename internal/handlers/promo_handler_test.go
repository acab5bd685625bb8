package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rummage/shopkeeper/internal/models"
	"github.com/rummage/shopkeeper/internal/services"
)

func TestGeneratePromo_TextMessage(t *testing.T) {
	router := setupTestRouter(services.NewInventoryService(nil, zap.NewNop()))

	w, resp := doJSON(t, router, http.MethodPost, "/api/promos", map[string]string{
		"title":      "Spring Sale",
		"details":    "30% off all toys and jackets!",
		"start_date": "2024-03-01",
		"end_date":   "2024-03-09",
		"platform":   "Text Message",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var promo models.Promo
	decodeData(t, resp, &promo)
	assert.Equal(t, "Spring Sale: 30% off all toys and jackets! (03/01–03/09)", promo.Caption)
}

func TestGeneratePromo_BadDates(t *testing.T) {
	router := setupTestRouter(services.NewInventoryService(nil, zap.NewNop()))

	w, resp := doJSON(t, router, http.MethodPost, "/api/promos", map[string]string{
		"title":      "Spring Sale",
		"start_date": "March 1st",
		"end_date":   "2024-03-09",
		"platform":   "Instagram",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Errors, "start_date")

	w, resp = doJSON(t, router, http.MethodPost, "/api/promos", map[string]string{
		"title":      "Spring Sale",
		"start_date": "2024-03-09",
		"end_date":   "2024-03-01",
		"platform":   "Instagram",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "End date must be after start date", resp.Errors["end_date"])
}

func TestParseDate(t *testing.T) {
	d, ok := parseDate("2024-03-01")
	assert.True(t, ok)
	assert.Equal(t, 2024, d.Year())

	d, ok = parseDate("")
	assert.True(t, ok)
	assert.True(t, d.IsZero())

	_, ok = parseDate("2024-03-01T10:00:00Z")
	assert.True(t, ok)

	_, ok = parseDate("yesterday")
	assert.False(t, ok)
}
