package http

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/utafrali/StallReview/internal/service"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
	"github.com/utafrali/StallReview/pkg/httputil"
	"github.com/utafrali/StallReview/pkg/middleware"
	"github.com/utafrali/StallReview/pkg/validator"
)

// UserHandler handles registration, the token exchange and user lookups.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// RegisterRequest is the JSON request body for registering a user.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// TokenRequest holds the credentials of a token exchange, sent either as
// form fields or as JSON.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /users/
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	var id int64
	if user != nil {
		id = user.ID
	}
	writeWriteResult(w, r, id, err, h.logger)
}

// List handles GET /users/
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	user, err := h.service.Get(r.Context(), claims.UserID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// Token handles POST /token. Credentials arrive as an OAuth2 password-grant
// form or as a JSON object.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.HTTPStatus(err) == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, token)
}

func (h *UserHandler) readCredentials(w http.ResponseWriter, r *http.Request) (*TokenRequest, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var req TokenRequest
		if !decodeJSON(w, r, &req) {
			return nil, false
		}
		return &req, true

	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", "invalid form body: "+err.Error())
			return nil, false
		}
		req := TokenRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
		if err := validator.Validate(req); err != nil {
			httputil.WriteValidationError(w, err)
			return nil, false
		}
		return &req, true

	default:
		httputil.WriteErrorCode(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE",
			"Content-Type must be application/x-www-form-urlencoded or application/json")
		return nil, false
	}
}
