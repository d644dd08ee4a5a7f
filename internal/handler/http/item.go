package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/StallReview/internal/service"
	"github.com/utafrali/StallReview/pkg/httputil"
)

// ItemHandler handles HTTP requests for item endpoints.
type ItemHandler struct {
	service *service.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item HTTP handler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{service: svc, logger: logger}
}

// CreateItemRequest is the JSON request body for creating an item. Price is
// an opaque integer amount.
type CreateItemRequest struct {
	StallID  int64  `json:"stall_id" validate:"required,gt=0"`
	ItemName string `json:"item_name" validate:"required,max=255"`
	Price    int64  `json:"price"`
}

// Create handles POST /items/
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), service.CreateItemInput{
		StallID:  req.StallID,
		ItemName: req.ItemName,
		Price:    req.Price,
	})
	var id int64
	if item != nil {
		id = item.ID
	}
	writeWriteResult(w, r, id, err, h.logger)
}

// List handles GET /items/
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

// ListByStall handles GET /items/{stall_id}
func (h *ItemHandler) ListByStall(w http.ResponseWriter, r *http.Request) {
	stallID, ok := httputil.ParseID(w, "stall_id", chi.URLParam(r, "stall_id"))
	if !ok {
		return
	}

	items, err := h.service.ListByStall(r.Context(), stallID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}
