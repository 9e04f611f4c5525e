package httpHandler

import (
	"errors"
	"net/http"

	"clairity-server/usecases"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecases.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecases.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, usecases.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecases.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecases.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error with its mapped status. Unclassified errors get a
// generic message so internals never leak into a response body.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
