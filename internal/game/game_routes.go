package game

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/rmiddleware"
)

func RegisterGameRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	gameController := NewGameController(NewGameRepository(db), appConfig, log)

	games := router.Group("/games")
	crud := games.Group("")
	crud.Use(rmiddleware.Permission(access.ResourceGame))
	{
		crud.GET("", gameController.GetAllGames)
		crud.POST("", gameController.CreateGame)
		crud.GET("/:id", gameController.GetGameByID)
		crud.PUT("/:id", gameController.UpdateGame)
		crud.PATCH("/:id", gameController.UpdateGame)
		crud.DELETE("/:id", gameController.DeleteGame)
	}

	bulk := games.Group("")
	bulk.Use(rmiddleware.Permission(access.ResourceGame, access.OpBulk))
	{
		bulk.POST("/activate", gameController.ActivateGames)
		bulk.POST("/deactivate", gameController.DeactivateGames)
	}
}

// RegisterClientGameRoutes mounts the anonymous, active-only view.
func RegisterClientGameRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	gameController := NewGameController(NewGameRepository(db), appConfig, log)

	games := router.Group("/games")
	games.GET("", gameController.ListActiveGames)
	games.GET("/:id", gameController.GetActiveGame)
}
