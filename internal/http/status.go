package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kendrickl1675/Lecture-Agent/internal/daemon"
	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

// StatusResponse describes the poll loop and its most recent pass.
type StatusResponse struct {
	Running  bool                              `json:"running"`
	Interval string                            `json:"interval"`
	NextRun  *time.Time                        `json:"next_run,omitempty"`
	LastPass *daemon.PassResult                `json:"last_pass,omitempty"`
	Outcomes map[entities.RewriteOutcome]int64 `json:"outcomes,omitempty"`
	Chunks   *int64                            `json:"knowledge_chunks,omitempty"`
}

// StatusController reports on and triggers scan passes.
type StatusController struct {
	watcher   WatcherState
	history   HistoryStore
	knowledge KnowledgeStore
}

func NewStatusController(watcher WatcherState, history HistoryStore, knowledge KnowledgeStore) *StatusController {
	return &StatusController{
		watcher:   watcher,
		history:   history,
		knowledge: knowledge,
	}
}

// Status handles GET /api/status
func (sc *StatusController) Status(c *gin.Context) {
	resp := StatusResponse{
		Running:  sc.watcher.IsRunning(),
		Interval: sc.watcher.Interval().String(),
		NextRun:  sc.watcher.NextRun(),
		LastPass: sc.watcher.LastPass(),
	}

	if sc.history != nil {
		outcomes, err := sc.history.CountByOutcome()
		if err != nil {
			respondInternalError(c, err, "count outcomes")
			return
		}
		resp.Outcomes = outcomes
	}

	if sc.knowledge != nil {
		chunks, err := sc.knowledge.CountChunks()
		if err != nil {
			respondInternalError(c, err, "count chunks")
			return
		}
		resp.Chunks = &chunks
	}

	c.JSON(http.StatusOK, resp)
}

// Scan handles POST /api/scan
// Starts a pass right away; answers 409 while one is already running.
func (sc *StatusController) Scan(c *gin.Context) {
	if err := sc.watcher.RunNow(); err != nil {
		if errors.Is(err, daemon.ErrPassInProgress) {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, daemon.ErrWatcherStopped) {
			respondError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondInternalError(c, err, "run scan")
		return
	}
	respondAccepted(c, "scan started", nil)
}
