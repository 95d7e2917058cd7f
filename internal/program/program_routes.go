package program

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/rmiddleware"
)

func RegisterProgramRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	programController := NewProgramController(NewProgramRepository(db), appConfig, log)

	programs := router.Group("/programs")
	crud := programs.Group("")
	crud.Use(rmiddleware.Permission(access.ResourceProgram))
	{
		crud.GET("", programController.GetAllPrograms)
		crud.POST("", programController.CreateProgram)
		crud.GET("/:id", programController.GetProgramByID)
		crud.PUT("/:id", programController.UpdateProgram)
		crud.PATCH("/:id", programController.UpdateProgram)
		crud.DELETE("/:id", programController.DeleteProgram)
	}

	bulk := programs.Group("")
	bulk.Use(rmiddleware.Permission(access.ResourceProgram, access.OpBulk))
	{
		bulk.POST("/publish", programController.PublishPrograms)
		bulk.POST("/unpublish", programController.UnpublishPrograms)
	}
}

func RegisterClientProgramRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	programController := NewProgramController(NewProgramRepository(db), appConfig, log)

	programs := router.Group("/programs")
	programs.GET("", programController.ListPublishedPrograms)
	programs.GET("/:id", programController.GetPublishedProgram)
}
