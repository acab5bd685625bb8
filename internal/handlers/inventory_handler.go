package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rummage/shopkeeper/internal/middleware"
	"github.com/rummage/shopkeeper/internal/models"
	"github.com/rummage/shopkeeper/internal/services"
)

type InventoryHandler struct {
	inventory *services.InventoryService
	maxSizeMB int64
}

func NewInventoryHandler(inventory *services.InventoryService, maxSizeMB int64) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		maxSizeMB: maxSizeMB,
	}
}

func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		r.Get("/export.csv", h.ExportCSV)

		r.Route("/{itemId}", func(r chi.Router) {
			r.Get("/", h.GetItem)
			r.Delete("/", h.DeleteItem)
			r.Post("/toggle-sold", h.ToggleSold)
			r.Get("/photo", h.GetPhoto)
		})
	})
	r.Get("/summary", h.Summary)
	r.Post("/sync", h.Sync)
}

func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status, ok := models.ParseStatusFilter(query.Get("status"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid status filter. Allowed: all, available, sold"))
		return
	}

	items := h.inventory.List(models.ListQuery{Status: status, Query: query.Get("q")})
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.ItemList{
		Items:   items,
		Summary: h.inventory.Summary(),
	}))
}

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(r.Context())

	// Limit request body size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeMB*1024*1024)

	var req *models.CreateItemRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxSizeMB * 1024 * 1024); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
			return
		}
		parsed, fieldErrs, err := parseItemForm(r)
		if err != nil {
			log.Warn("reading item photo failed", zap.Error(err))
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Could not read photo upload"))
			return
		}
		if len(fieldErrs) > 0 {
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(fieldErrs))
			return
		}
		req = parsed
	default:
		req = &models.CreateItemRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
			return
		}
	}

	item, err := h.inventory.Add(r.Context(), req)
	if item == nil && err != nil {
		writeServiceError(w, r, err, "add item")
		return
	}
	writeMutation(w, r, http.StatusCreated, item, err, "add item")
}

func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.Get(chi.URLParam(r, "itemId"))
	if err != nil {
		writeServiceError(w, r, err, "get item")
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(item))
}

func (h *InventoryHandler) ToggleSold(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.ToggleSold(r.Context(), chi.URLParam(r, "itemId"))
	if item == nil && err != nil {
		writeServiceError(w, r, err, "update item")
		return
	}
	writeMutation(w, r, http.StatusOK, item, err, "update item")
}

func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	err := h.inventory.Remove(r.Context(), chi.URLParam(r, "itemId"))
	writeMutation(w, r, http.StatusOK, map[string]string{"message": "Item deleted successfully"}, err, "delete item")
}

func (h *InventoryHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.inventory.Photo(chi.URLParam(r, "itemId"))
	if err != nil {
		writeServiceError(w, r, err, "get photo")
		return
	}

	contentType := photo.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(photo.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Data)
}

func (h *InventoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(h.inventory.Summary()))
}

func (h *InventoryHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	setCSVHeaders(w, "inventory.csv")
	if err := services.WriteInventoryCSV(w, h.inventory.ExportRows()); err != nil {
		middleware.Logger(r.Context()).Error("writing inventory export failed", zap.Error(err))
	}
}

// Sync re-sends the current snapshot, letting the operator retry after a
// sink failure.
func (h *InventoryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Resync(r.Context()); err != nil {
		middleware.Logger(r.Context()).Warn("manual sync failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]int{"rows": h.inventory.Summary().Total}))
}
