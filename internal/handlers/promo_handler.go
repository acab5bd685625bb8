package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rummage/shopkeeper/internal/models"
	"github.com/rummage/shopkeeper/internal/services"
)

type PromoHandler struct {
	promoService *services.PromoService
}

func NewPromoHandler(promoService *services.PromoService) *PromoHandler {
	return &PromoHandler{promoService: promoService}
}

func (h *PromoHandler) RegisterRoutes(r chi.Router) {
	r.Post("/promos", h.GeneratePromo)
}

type promoRequestBody struct {
	Title     string `json:"title"`
	Details   string `json:"details"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Platform  string `json:"platform"`
}

func (h *PromoHandler) GeneratePromo(w http.ResponseWriter, r *http.Request) {
	var body promoRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	errors := map[string]string{}
	start, ok := parseDate(body.StartDate)
	if !ok {
		errors["start_date"] = "Start date must be YYYY-MM-DD"
	}
	end, ok := parseDate(body.EndDate)
	if !ok {
		errors["end_date"] = "End date must be YYYY-MM-DD"
	}
	if len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	promo, err := h.promoService.Generate(&models.PromoRequest{
		Title:     body.Title,
		Details:   body.Details,
		StartDate: start,
		EndDate:   end,
		Platform:  models.Platform(body.Platform),
	})
	if err != nil {
		writeServiceError(w, r, err, "generate promo")
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(promo))
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty input is
// returned as the zero time so validation can report it as missing.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
