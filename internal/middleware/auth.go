package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/responses"
	"github.com/wari-app/wari/pkg/token"
)

const AuthCallerKey = "auth_caller"

type callerRow struct {
	ID       uint
	Username string
	Role     string
	IsActive bool
}

// AuthMiddleware requires a valid access token whose user still exists and
// is active. The caller's role is read from the users table, not the token.
func AuthMiddleware(jwtSecret string, db *gorm.DB, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.Unauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			responses.Unauthorized(c, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := token.ValidateJWT(parts[1], jwtSecret, token.TypeAccess)
		if err != nil {
			responses.Unauthorized(c, "Invalid or expired token: "+err.Error())
			return
		}

		var row callerRow
		err = db.Table("users").
			Select("id, username, role, is_active").
			Where("id = ?", claims.UserID).
			Take(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			responses.SendAppError(c, log, err, "load caller")
			return
		}
		if err != nil || !row.IsActive {
			responses.Unauthorized(c, "User not found or inactive")
			return
		}

		c.Set(AuthCallerKey, &access.Caller{
			UserID:   row.ID,
			Username: row.Username,
			Role:     access.Role(row.Role),
		})
		c.Next()
	}
}

// CallerFromContext returns the identity set by AuthMiddleware.
func CallerFromContext(c *gin.Context) (*access.Caller, bool) {
	v, exists := c.Get(AuthCallerKey)
	if !exists {
		return nil, false
	}
	caller, ok := v.(*access.Caller)
	return caller, ok && caller != nil
}
