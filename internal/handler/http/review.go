package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/StallReview/internal/domain"
	"github.com/utafrali/StallReview/internal/service"
	"github.com/utafrali/StallReview/pkg/httputil"
	"github.com/utafrali/StallReview/pkg/middleware"
)

// ReviewHandler handles HTTP requests for reviews and rating aggregates.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

// CreateReviewRequest is the JSON request body for creating a review. Any
// user_id in the body is ignored; the author is the authenticated caller.
type CreateReviewRequest struct {
	StallID int64  `json:"stall_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Create handles POST /reviews/
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	var req CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.Create(r.Context(), service.CreateReviewInput{
		StallID: req.StallID,
		UserID:  claims.UserID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, review)
}

// List handles GET /reviews/
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// ListByStall handles GET /reviews/stall/{stall_id}
func (h *ReviewHandler) ListByStall(w http.ResponseWriter, r *http.Request) {
	stallID, ok := httputil.ParseID(w, "stall_id", chi.URLParam(r, "stall_id"))
	if !ok {
		return
	}

	reviews, err := h.service.ListByStall(r.Context(), stallID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// ListByUser handles GET /reviews/user/{user_id}
func (h *ReviewHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseID(w, "user_id", chi.URLParam(r, "user_id"))
	if !ok {
		return
	}

	reviews, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

// TopRanking handles GET /reviews/top-ranking
func (h *ReviewHandler) TopRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.service.TopRanking(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, domain.Ranking{Ranking: ranking})
}

// Average handles GET /reviews/average/{stall_id}
func (h *ReviewHandler) Average(w http.ResponseWriter, r *http.Request) {
	stallID, ok := httputil.ParseID(w, "stall_id", chi.URLParam(r, "stall_id"))
	if !ok {
		return
	}

	summary, err := h.service.Average(r.Context(), stallID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// Delete handles DELETE /reviews/{review_id}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	reviewID, ok := httputil.ParseID(w, "review_id", chi.URLParam(r, "review_id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), reviewID, claims.UserID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
