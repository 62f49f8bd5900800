package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grupoandino/reportes/internal/archive"
	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/database"
)

// statusCmd lists recent report runs from the archive.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Muestra las corridas recientes del archivo de reportes",
	RunE:  runStatus,
}

var statusLimit int

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "cuantas corridas mostrar")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.ArchiveEnabled() {
		return fmt.Errorf("no database configured (set DATABASE_URL to enable the run archive)")
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	runs, err := archive.NewRepository(db.Pool).RecentRuns(cmd.Context(), statusLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("Sin corridas registradas")
		return nil
	}

	fmt.Printf("%-38s %-12s %-8s %-10s %s\n", "RUN", "TIPO", "OK", "REGISTROS", "ARCHIVO")
	for _, run := range runs {
		ok := "no"
		if run.Success {
			ok = "si"
		}
		fmt.Printf("%-38s %-12s %-8s %-10d %s\n",
			run.RunID, run.Kind, ok, run.Records, run.Filename)
	}
	return nil
}
