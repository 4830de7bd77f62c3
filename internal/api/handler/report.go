package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/internal/api/middleware"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/internal/report"
	"github.com/bizhealth/reportgen/internal/store"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	svc *report.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// ReportResponse combines the history record and the metadata sidecar.
// Run is nil when history is disabled; Meta is nil for failed runs.
type ReportResponse struct {
	Run  *model.ReportRun  `json:"run,omitempty"`
	Meta *model.ReportMeta `json:"meta,omitempty"`
}

// ListReportsResponse is a page of history records
type ListReportsResponse struct {
	Items    []model.ReportRun `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CreateReport handles POST /api/v1/reports.
// The body is a ReportContext; query parameters toc, formats,
// primary_color and accent_color override the configuration.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var rc model.ReportContext
	if err := c.ShouldBindJSON(&rc); err != nil {
		_ = c.Error(errors.ErrValidation("invalid request body: " + err.Error()))
		return
	}

	includeTOC, err := parseOptionalBool(c, "toc")
	if err != nil {
		_ = c.Error(err)
		return
	}
	formats, err := parseFormats(c.Query("formats"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	req := report.GenerateRequest{
		Context:    &rc,
		IncludeTOC: includeTOC,
		Formats:    formats,
	}
	primary, accent := c.Query("primary_color"), c.Query("accent_color")
	if primary != "" || accent != "" {
		req.Brand = &model.Brand{PrimaryColor: primary, AccentColor: accent}
	}

	if rc.RunID != "" {
		c.Set(middleware.ContextKeyRunID, rc.RunID)
	}
	generated, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Set(middleware.ContextKeyRunID, generated.RunID)
	logger.Info("Report generated via API",
		zap.String(logger.FieldRunID, generated.RunID),
		zap.String("company", generated.CompanyName),
		zap.Int("warnings", len(generated.Warnings)),
	)

	c.JSON(http.StatusCreated, generated)
}

// ListReports handles GET /api/v1/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := store.RunFilter{
		CompanyName: c.Query("company"),
		Status:      model.RunStatus(c.Query("status")),
		ReportType:  c.Query("report_type"),
	}

	runs, total, err := h.svc.ListRuns(filter, page, pageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if runs == nil {
		runs = []model.ReportRun{}
	}

	c.JSON(http.StatusOK, ListReportsResponse{
		Items:    runs,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetReport handles GET /api/v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ContextKeyRunID, id)
	_, metaPath, err := h.svc.ReportPaths(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var resp ReportResponse
	if h.svc.HistoryEnabled() {
		run, err := h.svc.GetRun(id)
		switch {
		case err == nil:
			resp.Run = run
		case !errors.HasCode(err, errors.ErrCodeNotFound):
			_ = c.Error(err)
			return
		}
	}

	meta, err := report.ReadMeta(metaPath)
	if err != nil && resp.Run == nil {
		_ = c.Error(err)
		return
	}
	resp.Meta = meta

	c.JSON(http.StatusOK, resp)
}

// GetReportHTML handles GET /api/v1/reports/:id/html
func (h *ReportHandler) GetReportHTML(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ContextKeyRunID, id)
	htmlPath, _, err := h.svc.ReportPaths(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if info, err := os.Stat(htmlPath); err != nil || info.IsDir() {
		_ = c.Error(errors.ErrNotFound("report"))
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.File(htmlPath)
}
