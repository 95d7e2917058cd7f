package country

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/rmiddleware"
)

func RegisterCountryRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, log *logrus.Logger) {
	countryController := NewCountryController(NewCountryRepository(db), appConfig, log)

	countries := router.Group("/countries")
	countries.Use(rmiddleware.Permission(access.ResourceCountry))
	{
		countries.GET("", countryController.GetAllCountries)
		countries.POST("", countryController.CreateCountry)
		countries.GET("/:id", countryController.GetCountryByID)
		countries.PUT("/:id", countryController.UpdateCountry)
		countries.PATCH("/:id", countryController.UpdateCountry)
		countries.DELETE("/:id", countryController.DeleteCountry)
	}
}
