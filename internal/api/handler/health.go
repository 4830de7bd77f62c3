package handler

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/database"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/internal/store"
	"github.com/bizhealth/reportgen/pkg/logger"
)

// History states reported by the health endpoint
const (
	historyOK          = "ok"
	historyDisabled    = "disabled"
	historyUnavailable = "unavailable"
)

// HealthHandler reports liveness and build information
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a health handler. A nil db means history is disabled.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Uptime    int64  `json:"uptime_seconds"`
	History   string `json:"history"`

	TotalRuns int64                     `json:"total_runs,omitempty"`
	Runs      map[model.RunStatus]int64 `json:"runs,omitempty"`
}

// Healthz handles GET /healthz. An unreachable history database turns the
// response into 503 since report builds would no longer be recorded.
func (h *HealthHandler) Healthz(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   consts.Version,
		GitCommit: consts.GitCommit,
		GoVersion: runtime.Version(),
		Uptime:    int64(consts.GetUptime().Seconds()),
		History:   historyDisabled,
	}

	status := http.StatusOK
	if h.db != nil {
		if err := database.HealthCheck(h.db); err != nil {
			logger.Warn("History database health check failed", zap.Error(err))
			resp.Status = "degraded"
			resp.History = historyUnavailable
			status = http.StatusServiceUnavailable
		} else {
			resp.History = historyOK
			h.fillRunCounts(&resp)
		}
	}

	c.JSON(status, resp)
}

// fillRunCounts adds history totals; count failures only cost the totals
func (h *HealthHandler) fillRunCounts(resp *HealthResponse) {
	runs := store.NewStore(h.db).Runs()

	total, err := runs.CountAll()
	if err != nil {
		logger.Warn("Failed to count report runs", zap.Error(err))
		return
	}
	counts, err := runs.CountByStatus()
	if err != nil {
		logger.Warn("Failed to count report runs by status", zap.Error(err))
		return
	}
	resp.TotalRuns = total
	resp.Runs = counts
}
