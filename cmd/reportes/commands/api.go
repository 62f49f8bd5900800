package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grupoandino/reportes/internal/api"
	"github.com/grupoandino/reportes/internal/api/handlers"
	"github.com/grupoandino/reportes/internal/archive"
	"github.com/grupoandino/reportes/internal/indicator"
	"github.com/grupoandino/reportes/internal/report"
	"github.com/grupoandino/reportes/internal/roster"
	"github.com/grupoandino/reportes/internal/scheduler"
	"github.com/grupoandino/reportes/internal/scheduler/jobs"
	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/database"
	"github.com/grupoandino/reportes/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Inicia el servidor HTTP de reportes",
	Long: `Inicia el servidor HTTP que recibe los exportes y genera reportes.

Endpoints:
  GET  /health                    - Health check
  GET  /descargar/{id}            - Descarga un reporte generado
  GET  /base-asesores             - Base de asesores actual
  POST /procesar-calidad          - Reporte de calidad completo
  POST /procesar-llamadas         - Reporte de llamadas (Isabel + VOIP)
  POST /procesar-voip             - Reporte de llamadas solo VOIP
  POST /procesar-admin            - Reporte admin por dia
  POST /procesar-reporteria       - Reporteria consolidada
  POST /actualizar-base-asesores  - Reemplaza la base de asesores

Example:
  go run ./cmd/reportes api
  go run ./cmd/reportes api --port 8085`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "puerto del servidor (default PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing report server")

	// The run archive is optional: without DATABASE_URL the pipeline
	// runs without history.
	var runs *archive.Repository
	if cfg.ArchiveEnabled() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		runs = archive.NewRepository(db.Pool)
		if err := runs.EnsureSchema(cmd.Context()); err != nil {
			return fmt.Errorf("archive schema: %w", err)
		}
		log.Info("Run archive enabled")
	} else {
		log.Info("No database configured, run archive disabled")
	}

	engine := indicator.NewEngine(indicator.DefaultGoals(), indicator.Policy{
		CountPauseInfraction: cfg.Report.CountPauseInfraction,
	})
	builder := report.NewBuilder(engine, log)
	store := roster.NewStore(cfg.Report.RosterPath, log)

	reportHandler := handlers.NewReportHandler(builder, store, runs, cfg.Report, log)
	rosterHandler := handlers.NewRosterHandler(store, cfg.Report.MaxUploadMB, log)
	router := api.NewRouter(reportHandler, rosterHandler, cfg, log)
	server := api.New(cfg, log, router)

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewTempCleanupJob(cfg.Report, log)); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Servidor escuchando en http://localhost:%s\n", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
