package result

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/rmiddleware"
)

func RegisterResultRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	resultController := NewResultController(NewResultRepository(db), appConfig, log)

	results := router.Group("/results")
	crud := results.Group("")
	crud.Use(rmiddleware.Permission(access.ResourceResult))
	{
		crud.GET("", resultController.GetAllResults)
		crud.POST("", resultController.CreateResult)
		crud.GET("/:id", resultController.GetResultByID)
		crud.PUT("/:id", resultController.UpdateResult)
		crud.PATCH("/:id", resultController.UpdateResult)
		crud.DELETE("/:id", resultController.DeleteResult)
	}

	bulk := results.Group("")
	bulk.Use(rmiddleware.Permission(access.ResourceResult, access.OpBulk))
	{
		bulk.POST("/mark-official", resultController.MarkOfficial)
		bulk.POST("/mark-pending", resultController.MarkPending)
	}
}

func RegisterClientResultRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	resultController := NewResultController(NewResultRepository(db), appConfig, log)

	results := router.Group("/results")
	results.GET("", resultController.ListPublicResults)
	results.GET("/:id", resultController.GetPublicResult)
}
