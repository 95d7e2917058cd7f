package rmiddleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/internal/middleware"
	"github.com/wari-app/wari/pkg/responses"
)

// Permission gates a route on access.Allowed. The operation is derived from
// the HTTP method unless one is passed explicitly (bulk actions are POSTs
// that are not creates).
func Permission(res access.Resource, op ...access.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.CallerFromContext(c)
		if !ok {
			responses.Unauthorized(c, "")
			return
		}

		operation := operationFor(c.Request.Method)
		if len(op) > 0 {
			operation = op[0]
		}

		if !access.Allowed(caller, operation, res) {
			responses.Forbidden(c, "")
			return
		}
		c.Next()
	}
}

// RoleMiddleware admits callers holding any of the given roles.
func RoleMiddleware(requiredRoles ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.CallerFromContext(c)
		if !ok {
			responses.Unauthorized(c, "")
			return
		}
		for _, role := range requiredRoles {
			if caller.Role == role {
				c.Next()
				return
			}
		}
		responses.Forbidden(c, "")
	}
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(access.RoleAdmin)
}

func operationFor(method string) access.Operation {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return access.OpRead
	case http.MethodPost:
		return access.OpCreate
	case http.MethodPut, http.MethodPatch:
		return access.OpUpdate
	case http.MethodDelete:
		return access.OpDelete
	}
	return access.OpUpdate
}
