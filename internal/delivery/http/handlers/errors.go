package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/bgoldmann/darkstore/internal/delivery/http/response"
	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors to an HTTP status and business code. Unknown errors are internal.
func statusFor(err error) (int, int) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, response.ErrForbidden
	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict, response.ErrConcurrentModified
	case errors.Is(err, domain.ErrInvalidStateTransition), errors.Is(err, domain.ErrUnknownAction):
		return http.StatusUnprocessableEntity, response.ErrInvalidTransition
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity, response.ErrEmptyCart
	case errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest, response.ErrInvalidParam
	default:
		return http.StatusInternalServerError, response.ErrServerInternal
	}
}

// messageFor hides internal error details from callers.
func messageFor(httpCode int, err error) string {
	if httpCode == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

// bindOptionalJSON binds the body when there is one, including chunked bodies of unknown length.
// An empty body leaves req at its zero value.
func bindOptionalJSON(c *gin.Context, req any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
