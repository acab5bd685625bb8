package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rummage/shopkeeper/internal/models"
	"github.com/rummage/shopkeeper/internal/services"
)

func TestLoyaltyVisitsAndCard(t *testing.T) {
	router := setupTestRouter(services.NewInventoryService(nil, zap.NewNop()))

	for i := 0; i < 3; i++ {
		w, _ := doJSON(t, router, http.MethodPost, "/api/loyalty/visits", map[string]string{"customer": "Mary Ann"})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, resp := doJSON(t, router, http.MethodPost, "/api/loyalty/visits", map[string]string{"customer": "JD"})
	require.Equal(t, http.StatusOK, w.Code)
	var customer models.Customer
	decodeData(t, resp, &customer)
	assert.Equal(t, 1, customer.Visits)

	w, resp = doJSON(t, router, http.MethodGet, "/api/loyalty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var customers []models.Customer
	decodeData(t, resp, &customers)
	require.Len(t, customers, 2)
	assert.Equal(t, "Mary Ann", customers[0].Name)
	assert.Equal(t, 3, customers[0].Visits)

	w, resp = doJSON(t, router, http.MethodGet, "/api/loyalty/Mary%20Ann/card", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var card models.LoyaltyCard
	decodeData(t, resp, &card)
	assert.True(t, card.RewardReady)
	assert.Contains(t, card.Description, "Loyalty card for Mary Ann")

	w, _ = doJSON(t, router, http.MethodGet, "/api/loyalty/nobody/card", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/loyalty/export.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Customer,Visits\nMary Ann,3\nJD,1\n", rec.Body.String())
}

func TestRecordVisit_RequiresCustomer(t *testing.T) {
	router := setupTestRouter(services.NewInventoryService(nil, zap.NewNop()))

	w, resp := doJSON(t, router, http.MethodPost, "/api/loyalty/visits", map[string]string{"customer": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Errors, "customer")
}

func TestGetCard_NamesWithEscapes(t *testing.T) {
	router := setupTestRouter(services.NewInventoryService(nil, zap.NewNop()))

	for _, name := range []string{"Jo 100%", "A/B"} {
		w, _ := doJSON(t, router, http.MethodPost, "/api/loyalty/visits", map[string]string{"customer": name})
		require.Equal(t, http.StatusOK, w.Code)
	}

	tests := []struct {
		path     string
		customer string
	}{
		{"/api/loyalty/Jo%20100%25/card", "Jo 100%"},
		{"/api/loyalty/A%2FB/card", "A/B"},
	}
	for _, tt := range tests {
		t.Run(tt.customer, func(t *testing.T) {
			w, resp := doJSON(t, router, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var card models.LoyaltyCard
			decodeData(t, resp, &card)
			assert.Equal(t, tt.customer, card.Customer)
		})
	}
}
