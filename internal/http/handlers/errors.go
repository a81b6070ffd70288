package handlers

import (
	"errors"
	"net/http"

	"travellink/internal/domain"
	"travellink/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message, field string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Message:   message,
		Field:     field,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr domain.ValidationError
	var derr domain.DocumentError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), verr.Field)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), "")
	case domain.IsGateway(err):
		respondError(c, http.StatusPaymentRequired, "payment_failed", err.Error(), "")
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), "")
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), "")
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), "")
	case errors.As(err, &derr):
		if derr.MissingField() {
			respondError(c, http.StatusUnprocessableEntity, "document_invalid", err.Error(), derr.Field)
			return
		}
		respondError(c, http.StatusInternalServerError, "document_failed", "document generation failed", "")
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", "")
	}
}
