package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates the HTTP router with all endpoints. Endpoints whose
// dependencies are missing from cfg are not registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	if cfg.Verbose {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.TaskQueue, cfg.Watcher, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	if cfg.Watcher != nil {
		status := NewStatusController(cfg.Watcher, cfg.History, cfg.Knowledge)
		api.GET("/status", status.Status)
		api.POST("/scan", status.Scan)
	}

	if cfg.History != nil {
		history := NewHistoryController(cfg.History)
		api.GET("/history", history.List)
	}

	if cfg.Knowledge != nil {
		knowledge := NewKnowledgeController(cfg.Knowledge, cfg.Reindexer, cfg.KnowledgeDir, cfg.NotesDir)
		api.GET("/knowledge/sources", knowledge.Sources)
		api.POST("/reindex", knowledge.Reindex)
	}

	return router
}
