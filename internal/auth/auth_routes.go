package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
)

// RegisterAuthRoutes mounts the credential endpoints on /token.
func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	authController := NewAuthController(NewAuthRepository(db), appConfig, log)

	tokens := router.Group("/token")
	{
		tokens.POST("", authController.Login)
		tokens.POST("/refresh", authController.RefreshToken)
	}
}
