package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grupoandino/reportes/internal/scheduler/jobs"
	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/logger"
)

// cleanupCmd sweeps the temp directory once, outside the schedule.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Elimina los archivos temporales vencidos",
	RunE:  runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	job := jobs.NewTempCleanupJob(cfg.Report, log)
	if err := job.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("Limpieza completada")
	return nil
}
