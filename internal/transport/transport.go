package transport

import (
	"net/http"

	"github.com/ds124wfegd/gif-converter/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(handler *ConversionHandler, maxUploadSize int64) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	router.POST("/convert", middleware.MaxBodySize(maxUploadSize), handler.Convert)
	router.GET("/ffmpeg-version", handler.FFmpegVersion)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "gif-converter",
		})
	})

	// anything else is looked up in the public directory
	router.NoRoute(handler.ServePublic)

	return router
}
