package server

import (
	"time"

	httpHandler "viewtrap/interfaces/http"
	"viewtrap/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func InitiateRouter(
	config RouterConfig,
	youtubeHandler httpHandler.IYouTubeHandler,
	cacheHandler httpHandler.ICacheHandler,
	healthHandler httpHandler.IHealthHandler,
) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestContext())

	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.RateLimit(config.RateLimitRPS, config.RateLimitBurst))

	youtube := api.Group("/youtube")
	{
		youtube.GET("/search", youtubeHandler.Search)
		youtube.GET("/trending", youtubeHandler.GetTrendingVideos)
		youtube.GET("/videos", youtubeHandler.GetVideoDetails)
		youtube.GET("/channel/:channelId", youtubeHandler.GetChannelDetails)
		youtube.GET("/channel/:channelId/videos", youtubeHandler.GetChannelVideos)
		youtube.GET("/keys", youtubeHandler.GetKeyStatus)
	}

	api.GET("/cache/stats", cacheHandler.Stats)

	return router
}
