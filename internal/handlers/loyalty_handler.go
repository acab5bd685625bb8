package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rummage/shopkeeper/internal/middleware"
	"github.com/rummage/shopkeeper/internal/models"
	"github.com/rummage/shopkeeper/internal/services"
)

type LoyaltyHandler struct {
	loyaltyService *services.LoyaltyService
}

func NewLoyaltyHandler(loyaltyService *services.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltyService: loyaltyService}
}

func (h *LoyaltyHandler) RegisterRoutes(r chi.Router) {
	r.Route("/loyalty", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/visits", h.RecordVisit)
		r.Get("/export.csv", h.ExportCSV)
		r.Get("/{customer}/card", h.GetCard)
	})
}

func (h *LoyaltyHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var req models.RecordVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	customer, err := h.loyaltyService.RecordVisit(req.Customer)
	if err != nil {
		writeServiceError(w, r, err, "record visit")
		return
	}

	middleware.Logger(r.Context()).Info("visit recorded",
		zap.String("customer", customer.Name),
		zap.Int("visits", customer.Visits),
	)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(customer))
}

func (h *LoyaltyHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.loyaltyService.List()))
}

func (h *LoyaltyHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.loyaltyService.Card(customerParam(r))
	if err != nil {
		writeServiceError(w, r, err, "get loyalty card")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(card))
}

func (h *LoyaltyHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if err := writeCSV(w, "loyalty.csv", models.LoyaltyHeader, h.loyaltyService.Records()); err != nil {
		middleware.Logger(r.Context()).Error("writing loyalty export failed", zap.Error(err))
	}
}

// customerParam returns the decoded {customer} path segment. chi matches on
// the raw path when the request carries one, leaving escapes in place.
func customerParam(r *http.Request) string {
	name := chi.URLParam(r, "customer")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
