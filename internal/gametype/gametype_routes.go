package gametype

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/rmiddleware"
)

func RegisterGameTypeRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	gameTypeController := NewGameTypeController(NewGameTypeRepository(db), appConfig, log)

	gameTypes := router.Group("/game-types")
	gameTypes.Use(rmiddleware.Permission(access.ResourceGameType))
	{
		gameTypes.GET("", gameTypeController.GetAllGameTypes)
		gameTypes.POST("", gameTypeController.CreateGameType)
		gameTypes.GET("/:id", gameTypeController.GetGameTypeByID)
		gameTypes.PUT("/:id", gameTypeController.UpdateGameType)
		gameTypes.PATCH("/:id", gameTypeController.UpdateGameType)
		gameTypes.DELETE("/:id", gameTypeController.DeleteGameType)
	}
}
