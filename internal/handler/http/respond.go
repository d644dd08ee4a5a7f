package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/utafrali/StallReview/internal/domain"
	apperrors "github.com/utafrali/StallReview/pkg/errors"
	"github.com/utafrali/StallReview/pkg/httputil"
	"github.com/utafrali/StallReview/pkg/logger"
	"github.com/utafrali/StallReview/pkg/validator"
)

// maxBodyBytes caps request bodies; every payload here is a handful of
// short fields.
const maxBodyBytes = 1 << 20

// decodeJSON decodes and validates the request body into dst. On failure it
// writes the 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}

var outcomeStatus = map[domain.WriteOutcome]int{
	domain.OutcomeCreated:     http.StatusCreated,
	domain.OutcomeConflict:    http.StatusConflict,
	domain.OutcomeInvalid:     http.StatusBadRequest,
	domain.OutcomeUnavailable: http.StatusServiceUnavailable,
	domain.OutcomeFailed:      http.StatusInternalServerError,
}

// writeWriteResult answers a create request with the is_success body. The
// outcome tells a rejected write apart from an unreachable store; the
// status code follows it.
func writeWriteResult(w http.ResponseWriter, r *http.Request, id int64, err error, fallback *slog.Logger) {
	outcome := domain.OutcomeFromError(err)
	result := domain.WriteResult{IsSuccess: outcome.Success(), Outcome: outcome}
	status := outcomeStatus[outcome]

	if err == nil {
		result.ID = id
		httputil.WriteJSON(w, status, result)
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		result.Message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		l.ErrorContext(r.Context(), "create failed",
			slog.String("error", err.Error()),
			slog.String("outcome", string(outcome)),
			slog.String("path", r.URL.Path),
		)
	}

	httputil.WriteJSON(w, status, result)
}
