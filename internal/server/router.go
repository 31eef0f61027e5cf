package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Handler     *Handler
	CORSOrigins []string
	Logger      *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(CORS(cfg.CORSOrigins))

	h := cfg.Handler
	router.GET("/healthcheck", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/segments", h.ListSegments)
		api.GET("/formats", h.ListFormats)
		api.GET("/constraints", h.ListConstraints)
		api.GET("/samples/:n", h.GetSample)
		api.POST("/generate", h.Generate)
		api.GET("/runs/recent", h.RecentRuns)
		api.GET("/runs/:id", h.GetRun)
	}

	return router
}
