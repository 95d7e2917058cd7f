package routes

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/auth"
	"github.com/wari-app/wari/internal/country"
	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/internal/gametype"
	"github.com/wari-app/wari/internal/middleware"
	"github.com/wari-app/wari/internal/prediction"
	"github.com/wari-app/wari/internal/program"
	"github.com/wari-app/wari/internal/result"
	"github.com/wari-app/wari/internal/user"
	"github.com/wari-app/wari/pkg/responses"
	"github.com/wari-app/wari/pkg/rmiddleware"
	"github.com/wari-app/wari/pkg/validator"
)

// SetupRoutes builds the engine with the token endpoints, the authenticated
// admin family and the anonymous client family.
func SetupRoutes(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *gin.Engine {
	validator.Register()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(corsConfig(cfg)))

	r.NoRoute(func(c *gin.Context) {
		responses.SendError(c, http.StatusNotFound, "Not found.", nil)
	})

	r.GET("/health", func(c *gin.Context) {
		responses.SendSuccess(c, http.StatusOK, "ok", gin.H{"env": cfg.App.Env})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, cfg, log)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db, log))
	{
		user.RegisterUserRoutes(admin, db, cfg, log)
		country.RegisterCountryRoutes(admin, db, cfg, log)
		gametype.RegisterGameTypeRoutes(admin, db, cfg, log)
		game.RegisterGameRoutes(admin, db, cfg, log)
		prediction.RegisterPredictionRoutes(admin, db, cfg, log)
		program.RegisterProgramRoutes(admin, db, cfg, log)
		result.RegisterResultRoutes(admin, db, cfg, log)
	}

	if cfg.App.EnablePprof {
		debug := admin.Group("")
		debug.Use(rmiddleware.AdminMiddleware())
		pprof.RouteRegister(debug, "debug/pprof")
		log.Info("pprof enabled under /api/admin/debug/pprof")
	}

	client := api.Group("/client")
	{
		game.RegisterClientGameRoutes(client, db, cfg, log)
		prediction.RegisterClientPredictionRoutes(client, db, cfg, log)
		program.RegisterClientProgramRoutes(client, db, cfg, log)
		result.RegisterClientResultRoutes(client, db, cfg, log)
	}

	return r
}

// corsConfig allows every origin when ALLOWED_ORIGINS is empty or "*";
// credentials are only allowed with an explicit list.
func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	origins := cfg.Origins()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
