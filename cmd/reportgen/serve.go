package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/check"
	"github.com/bizhealth/reportgen/internal/config"
	"github.com/bizhealth/reportgen/internal/database"
	"github.com/bizhealth/reportgen/internal/report"
	"github.com/bizhealth/reportgen/internal/server"
	"github.com/bizhealth/reportgen/internal/store"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
	"github.com/bizhealth/reportgen/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ReportGen HTTP server",
	Long: `Start the HTTP server that builds reports on request and serves
the report history.

The environment is checked before startup. Run the interactive check
first to create a configuration file:
  reportgen check`,
	Run: runServe,
}

func init() {
	registerServeFlags(serveCmd)
}

func registerServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "server host (overrides config)")
	cmd.Flags().Int("port", 0, "server port (overrides config)")
	cmd.Flags().Bool("debug", false, "enable debug mode")
}

// applyServeFlags overrides server configuration with command line flags
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Server.Debug = true
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	}
}

// runServe starts the ReportGen server
func runServe(cmd *cobra.Command, args []string) {
	consts.SetStartedAt(time.Now())

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(errors.ExitCodeConfigValidation)
	}
	applyServeFlags(cmd, cfg)

	checker := check.NewChecker(configPath)
	result := checker.RunNonInteractive(cfg)
	if !result.Success {
		check.PrintCheckResult(result)
		os.Exit(errors.ExitCodeConfigValidation)
	}
	// Warnings don't block startup
	for _, warn := range result.Warnings {
		fmt.Fprintf(os.Stderr, "[WARNING] %s\n", warn)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(os.Stderr)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ReportGen",
		zap.String("version", Version),
	)

	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
	}()

	var dataStore store.Store
	if cfg.History.Enabled {
		if err := database.Init(cfg.History.DBPath); err != nil {
			logger.Fatal("Failed to initialize history database", zap.Error(err))
		}
		defer database.Close()
		dataStore = store.NewStore(database.Get())

		if cfg.History.RetentionDays > 0 {
			cleanup := store.NewHistoryCleanupService(dataStore.Runs(), cfg.History.RetentionDays, cfg.History.CleanupSchedule)
			if err := cleanup.Start(); err != nil {
				logger.Warn("Failed to start history cleanup service", zap.Error(err))
			} else {
				defer cleanup.Stop()
			}
		}
	}

	svc := report.NewService(cfg, dataStore)

	srv := server.New(cfg, svc, dataStore)
	if tel.IsEnabled() {
		srv.SetMetricsHandler(tel.MetricsHandler())
	}
	srv.SetupRoutes()

	if err := srv.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	logger.Info("ReportGen server is running",
		zap.String("address", cfg.Server.Address()),
	)

	port := cfg.Server.Port
	logger.Info(fmt.Sprintf("  Local:   http://localhost:%d/api/v1/reports", port))
	if lanIP := getLocalIP(); lanIP != "" {
		logger.Info(fmt.Sprintf("  Network: http://%s:%d/api/v1/reports", lanIP, port))
	}

	srv.WaitForShutdown()

	logger.Info("ReportGen stopped")
}

// getLocalIP returns the first non-loopback IPv4 address
func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return ""
}
