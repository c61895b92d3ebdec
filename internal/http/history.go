package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type HistoryController struct {
	store HistoryStore
}

func NewHistoryController(store HistoryStore) *HistoryController {
	return &HistoryController{store: store}
}

// List handles GET /api/history?limit=50&pass=<id>
func (hc *HistoryController) List(c *gin.Context) {
	if passID := c.Query("pass"); passID != "" {
		events, err := hc.store.ByPass(passID)
		if err != nil {
			respondInternalError(c, err, "history by pass")
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
		return
	}

	limit, ok := parseLimit(c, "limit", defaultHistoryLimit, maxHistoryLimit)
	if !ok {
		return
	}

	events, err := hc.store.Recent(limit)
	if err != nil {
		respondInternalError(c, err, "recent history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
