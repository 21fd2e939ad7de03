package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"videoflix/dto"
	"videoflix/pkg/byterange"
	"videoflix/repository"
	"videoflix/service"
	"videoflix/storage"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrRenditionAbsent),
		errors.Is(err, storage.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, byterange.ErrInvalid),
		errors.Is(err, byterange.ErrMultiRange):
		return http.StatusBadRequest
	case errors.Is(err, byterange.ErrUnsatisfiable):
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts with {"detail": ...}. Unexpected errors are logged and
// never shown to the client.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		detail = "internal error"
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Detail: detail})
}

func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Detail: detail})
}
