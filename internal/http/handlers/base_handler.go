// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bridget/internal/modules/transform"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeTransformError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, transform.ErrInvalidCoordinate), errors.Is(err, transform.ErrOutOfRange):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, transform.ErrCalculationFailed):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
