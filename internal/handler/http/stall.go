package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/StallReview/internal/service"
	"github.com/utafrali/StallReview/pkg/httputil"
)

// StallHandler handles HTTP requests for stall endpoints.
type StallHandler struct {
	service *service.StallService
	logger  *slog.Logger
}

// NewStallHandler creates a new stall HTTP handler.
func NewStallHandler(svc *service.StallService, logger *slog.Logger) *StallHandler {
	return &StallHandler{service: svc, logger: logger}
}

// CreateStallRequest is the JSON request body for creating a stall.
type CreateStallRequest struct {
	StallName    string  `json:"stall_name" validate:"required,max=255"`
	OwnerName    string  `json:"owner_name" validate:"required,max=255"`
	ThumbnailURL *string `json:"thumbnail_URL" validate:"omitempty,max=2048"`
}

// UpdateThumbnailRequest is the JSON request body for replacing a stall's
// thumbnail. A null or empty URL clears it.
type UpdateThumbnailRequest struct {
	ThumbnailURL *string `json:"thumbnail_URL" validate:"omitempty,max=2048"`
}

// Create handles POST /stalls/
func (h *StallHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStallRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stall, err := h.service.Create(r.Context(), service.CreateStallInput{
		StallName:    req.StallName,
		OwnerName:    req.OwnerName,
		ThumbnailURL: req.ThumbnailURL,
	})
	var id int64
	if stall != nil {
		id = stall.ID
	}
	writeWriteResult(w, r, id, err, h.logger)
}

// List handles GET /stalls/
func (h *StallHandler) List(w http.ResponseWriter, r *http.Request) {
	stalls, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stalls)
}

// Get handles GET /stalls/{stall_id}
func (h *StallHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, "stall_id", chi.URLParam(r, "stall_id"))
	if !ok {
		return
	}

	stall, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stall)
}

// GetByName handles GET /stalls/by-name/{stall_name}
func (h *StallHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	stall, err := h.service.GetByName(r.Context(), chi.URLParam(r, "stall_name"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stall)
}

// GetByOwner handles GET /stalls/by-owner/{owner_name}
func (h *StallHandler) GetByOwner(w http.ResponseWriter, r *http.Request) {
	stall, err := h.service.GetByOwner(r.Context(), chi.URLParam(r, "owner_name"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stall)
}

// UpdateThumbnail handles PATCH /stalls/{stall_id}/thumbnail
func (h *StallHandler) UpdateThumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, "stall_id", chi.URLParam(r, "stall_id"))
	if !ok {
		return
	}

	var req UpdateThumbnailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stall, err := h.service.UpdateThumbnail(r.Context(), id, req.ThumbnailURL)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stall)
}
