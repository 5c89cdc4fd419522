package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexibridge/lexibridge-backend/internal/http/response"
	apperrors "github.com/lexibridge/lexibridge-backend/internal/pkg/errors"
)

// respondServiceError maps service sentinels onto the error envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
