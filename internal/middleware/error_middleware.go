package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkolkov/students-api/internal/app/models/dto"
	"github.com/kkolkov/students-api/internal/pkg/apperrors"
	"github.com/kkolkov/students-api/internal/pkg/logger"
)

// studentNotFoundDetail is the fixed 404 body mandated by the API contract
const studentNotFoundDetail = "Student not found"

// HandleAPIError translates service errors into HTTP responses.
// Controllers delegate every non-nil service error here so the mapping
// lives in one place.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(studentNotFoundDetail))

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrMalformedRow),
		errors.Is(err, apperrors.ErrUnsupportedImportFmt):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))

	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
	}
}
