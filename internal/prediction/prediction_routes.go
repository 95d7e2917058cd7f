package prediction

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/rmiddleware"
)

func RegisterPredictionRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	predictionController := NewPredictionController(NewPredictionRepository(db), appConfig, log)

	predictions := router.Group("/predictions")
	crud := predictions.Group("")
	crud.Use(rmiddleware.Permission(access.ResourcePrediction))
	{
		crud.GET("", predictionController.GetAllPredictions)
		crud.POST("", predictionController.CreatePrediction)
		crud.GET("/:id", predictionController.GetPredictionByID)
		crud.PUT("/:id", predictionController.UpdatePrediction)
		crud.PATCH("/:id", predictionController.UpdatePrediction)
		crud.DELETE("/:id", predictionController.DeletePrediction)
	}

	bulk := predictions.Group("")
	bulk.Use(rmiddleware.Permission(access.ResourcePrediction, access.OpBulk))
	{
		bulk.POST("/publish", predictionController.PublishPredictions)
		bulk.POST("/unpublish", predictionController.UnpublishPredictions)
	}
}

func RegisterClientPredictionRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	predictionController := NewPredictionController(NewPredictionRepository(db), appConfig, log)

	predictions := router.Group("/predictions")
	predictions.GET("", predictionController.ListPublishedPredictions)
	predictions.GET("/:id", predictionController.GetPublishedPrediction)
}
