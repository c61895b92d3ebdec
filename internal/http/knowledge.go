package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type KnowledgeController struct {
	store        KnowledgeStore
	reindexer    Reindexer
	knowledgeDir string
	notesDir     string
}

func NewKnowledgeController(store KnowledgeStore, reindexer Reindexer, knowledgeDir, notesDir string) *KnowledgeController {
	return &KnowledgeController{
		store:        store,
		reindexer:    reindexer,
		knowledgeDir: knowledgeDir,
		notesDir:     notesDir,
	}
}

// Sources handles GET /api/knowledge/sources?prefix=
func (kc *KnowledgeController) Sources(c *gin.Context) {
	sources, err := kc.store.Sources(c.Query("prefix"))
	if err != nil {
		respondInternalError(c, err, "list sources")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources, "count": len(sources)})
}

// Reindex handles POST /api/reindex
func (kc *KnowledgeController) Reindex(c *gin.Context) {
	if kc.reindexer == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}

	taskID, err := kc.reindexer.EnqueueReindex(kc.knowledgeDir, kc.notesDir)
	if err != nil {
		respondInternalError(c, err, "enqueue reindex")
		return
	}
	respondAccepted(c, "reindex queued", gin.H{"task_id": taskID})
}
