// Package router sets up the API routes for server mode.
// For CLI-only usage, the API layer is not required.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/api/handler"
	"github.com/bizhealth/reportgen/internal/api/middleware"
	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/internal/report"
	"github.com/bizhealth/reportgen/internal/store"
)

// Setup configures all API routes. st may be nil when history is disabled;
// metrics may be nil when Prometheus is not served from this router.
func Setup(r *gin.Engine, cfg *config.Config, svc *report.Service, st store.Store, metrics http.Handler) {
	// Apply global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(&middleware.LoggerConfig{
		AccessLog: cfg.Logging.AccessLog,
	}))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(cfg.Server.Debug))

	// Apply OpenTelemetry tracing middleware
	r.Use(otelgin.Middleware(consts.ServiceName))

	healthHandler := handler.NewHealthHandler(nil)
	if st != nil {
		healthHandler = handler.NewHealthHandler(st.DB())
	}
	r.GET("/healthz", healthHandler.Healthz)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	reportHandler := handler.NewReportHandler(svc)
	reports := v1.Group("/reports")
	{
		reports.POST("", reportHandler.CreateReport)
		reports.GET("", reportHandler.ListReports)
		reports.GET("/:id", reportHandler.GetReport)
		reports.GET("/:id/html", reportHandler.GetReportHTML)
	}
}
