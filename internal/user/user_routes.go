package user

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/rmiddleware"
)

// RegisterUserRoutes mounts /users under an authenticated admin group.
func RegisterUserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	userController := NewUserController(NewUserRepository(db), appConfig, log)

	users := router.Group("/users")
	users.GET("/me", userController.Me)

	managed := users.Group("")
	managed.Use(rmiddleware.Permission(access.ResourceUser))
	{
		managed.GET("", userController.ListUsers)
		managed.POST("", userController.CreateUser)
		managed.GET("/:id", userController.GetUser)
		managed.PUT("/:id", userController.UpdateUser)
		managed.PATCH("/:id", userController.UpdateUser)
		managed.DELETE("/:id", userController.DeleteUser)
	}

	bulk := users.Group("")
	bulk.Use(rmiddleware.Permission(access.ResourceUser, access.OpBulk))
	{
		bulk.POST("/make-admin", userController.MakeAdmin)
		bulk.POST("/make-viewer", userController.MakeViewer)
		bulk.POST("/toggle-active", userController.ToggleActive)
	}
}
