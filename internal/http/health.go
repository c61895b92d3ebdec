package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      Pinger
	tasks   Pinger
	watcher WatcherState
	version string
}

func NewHealthController(db, tasks Pinger, watcher WatcherState, version string) *HealthController {
	return &HealthController{
		db:      db,
		tasks:   tasks,
		watcher: watcher,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	ping := func(name string, p Pinger) {
		if p == nil {
			checks[name] = "not configured"
			return
		}
		if err := p.Ping(c.Request.Context()); err != nil {
			checks[name] = "error: " + err.Error()
			status = "unhealthy"
			return
		}
		checks[name] = "ok"
	}
	ping("database", h.db)
	ping("task_queue", h.tasks)

	switch {
	case h.watcher == nil:
		checks["watcher"] = "not configured"
	case h.watcher.IsRunning():
		checks["watcher"] = "running"
	default:
		checks["watcher"] = "stopped"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
