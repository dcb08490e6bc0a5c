// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carefinder/internal/modules/facility"
	"carefinder/internal/modules/location"
	"carefinder/internal/types"
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

func writeFacilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, facility.ErrBadRequest), errors.Is(err, types.ErrInvalidPoint):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, location.ErrPermissionDenied):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, location.ErrUnsupported):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, location.ErrTimeout):
		writeError(c, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, facility.ErrRetrieval):
		writeError(c, http.StatusBadGateway, facility.ErrRetrieval.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
