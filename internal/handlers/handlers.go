package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tasktribe/tasktribe-api/internal/errors"
)

// parseIDParam reads a numeric path parameter. On failure it writes the 400
// response itself and returns false.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
