package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/remservice/motor-backoffice/internal/http/middleware"
)

// NewRouter собирает gin-роутер: CORS, логирование запросов и
// маршруты обработчика. Пустой список источников разрешает все.
func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, environment string, allowedOrigins []string, log zerolog.Logger) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	handler.Register(router, authMiddleware)
	return router
}
