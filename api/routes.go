package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Config holds application configuration
type Config struct {
	Port             string
	MaxFileSize      int64
	OperationTimeout time.Duration
	SessionTTL       time.Duration
}

func SetupRoutes(r *gin.Engine, config *Config, sessions *SessionStore) {
	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/page-count", func(c *gin.Context) { HandlePageCount(c, config) })
		apiGroup.POST("/split", func(c *gin.Context) { HandleSplit(c, config) })
		apiGroup.POST("/remove-pages", func(c *gin.Context) { HandleRemovePages(c, config) })
		apiGroup.POST("/merge", func(c *gin.Context) { HandleMerge(c, config) })
		apiGroup.POST("/compress", func(c *gin.Context) { HandleCompress(c, config) })
		apiGroup.POST("/compress/estimate", func(c *gin.Context) { HandleCompressEstimate(c, config) })
		apiGroup.POST("/watermark", func(c *gin.Context) { HandleWatermark(c, config) })
		apiGroup.POST("/metadata", func(c *gin.Context) { HandleMetadata(c, config) })
		apiGroup.POST("/unlock", func(c *gin.Context) { HandleUnlock(c, config) })
		apiGroup.POST("/convert", func(c *gin.Context) { HandleConvert(c, config) })
	}

	organize := r.Group("/api/pdf/organize/sessions")
	{
		organize.POST("", func(c *gin.Context) { HandleCreateSession(c, config, sessions) })
		organize.GET("/:id", func(c *gin.Context) { HandleGetSession(c, sessions) })
		organize.DELETE("/:id", func(c *gin.Context) { HandleDeleteSession(c, sessions) })
		organize.POST("/:id/move", func(c *gin.Context) { HandleMovePage(c, sessions) })
		organize.POST("/:id/swap", func(c *gin.Context) { HandleSwapPage(c, sessions) })
		organize.POST("/:id/sort", func(c *gin.Context) { HandleSortPages(c, sessions) })
		organize.POST("/:id/remove", func(c *gin.Context) { HandleRemoveSlot(c, sessions) })
		organize.POST("/:id/rotate", func(c *gin.Context) { HandleRotatePage(c, sessions) })
		organize.POST("/:id/reset", func(c *gin.Context) { HandleResetOrder(c, sessions) })
		organize.POST("/:id/export", func(c *gin.Context) { HandleExportSession(c, config, sessions) })
	}
}
