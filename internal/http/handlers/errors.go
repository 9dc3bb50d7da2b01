package handlers

import (
	"context"
	"errors"
	"net/http"

	"restaurantapi/internal/authz"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/http/middleware"
	"restaurantapi/internal/query"
	"restaurantapi/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var forbidden domain.ForbiddenError
	switch {
	case domain.IsValidation(err), query.IsInputError(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsBadRequest(err):
		respondError(c, http.StatusBadRequest, "bad_request", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case errors.As(err, &forbidden):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), gin.H{"reason": forbidden.Reason})
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case authz.IsConfiguration(err):
		utils.LogError(middleware.GetRequestID(c), "authz", "configuration", err)
		respondError(c, http.StatusInternalServerError, "authorization_error", "authorization is misconfigured", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, "request_cancelled", "request was cancelled", nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", "unhandled", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
