// Package common holds request helpers shared by the controllers.
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/internal/middleware"
	"github.com/wari-app/wari/pkg/responses"
)

// BulkRequest is the body of every batch action.
type BulkRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,max=500,unique,dive,gt=0"`
}

// PathID parses the :id path parameter, answering 404 when it is not a
// positive integer.
func PathID(c *gin.Context, resourceName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		responses.NotFound(c, resourceName)
		return 0, false
	}
	return uint(id), true
}

// MustCaller returns the authenticated caller or answers 401.
func MustCaller(c *gin.Context) (*access.Caller, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		responses.Unauthorized(c, "")
		return nil, false
	}
	return caller, true
}
