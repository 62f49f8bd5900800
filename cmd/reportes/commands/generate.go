package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/indicator"
	"github.com/grupoandino/reportes/internal/ingest"
	"github.com/grupoandino/reportes/internal/report"
	"github.com/grupoandino/reportes/internal/roster"
	"github.com/grupoandino/reportes/internal/workbook"
	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/logger"
)

// generateCmd runs one report pipeline over local files, without the
// HTTP server.
var generateCmd = &cobra.Command{
	Use:   "generate [calidad|llamadas|admin|reporteria]",
	Short: "Genera un reporte desde archivos locales",
	Long: `Genera un reporte en lote desde archivos locales.

Examples:
  go run ./cmd/reportes generate calidad --operaciones ops.xlsx --asistencia asis.csv
  go run ./cmd/reportes generate llamadas --isabel cdr.csv --voip voip.xlsx
  go run ./cmd/reportes generate admin --admin admin.xlsx
  go run ./cmd/reportes generate reporteria --operaciones ops.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var genPaths struct {
	operations string
	attendance string
	pbx        string
	voip       string
	clock      string
	admin      string
	output     string
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genPaths.operations, "operaciones", "", "exporte de operaciones")
	generateCmd.Flags().StringVar(&genPaths.attendance, "asistencia", "", "log de asistencia")
	generateCmd.Flags().StringVar(&genPaths.pbx, "isabel", "", "detalle de llamadas PBX")
	generateCmd.Flags().StringVar(&genPaths.voip, "voip", "", "log de agentes VOIP")
	generateCmd.Flags().StringVar(&genPaths.clock, "biometrico", "", "log biometrico")
	generateCmd.Flags().StringVar(&genPaths.admin, "admin", "", "exporte admin sin encabezados")
	generateCmd.Flags().StringVar(&genPaths.output, "salida", "", "directorio de salida (default REPORT_OUTPUT_DIR)")
}

// loadFile decodes one local export; an empty path yields nil.
func loadFile(path string, access contracts.Access) (*contracts.Dataset, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.Decode(filepath.Base(path), f, access)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	engine := indicator.NewEngine(indicator.DefaultGoals(), indicator.Policy{
		CountPauseInfraction: cfg.Report.CountPauseInfraction,
	})
	builder := report.NewBuilder(engine, log)
	store := roster.NewStore(cfg.Report.RosterPath, log)

	base, err := store.Load()
	if err != nil {
		log.WithError(err).Warn("Advisor base unavailable")
		base = &contracts.Roster{}
	}

	var rep *contracts.Report
	switch args[0] {
	case "calidad":
		in := report.Inputs{Roster: base}
		if in.Operations, err = loadFile(genPaths.operations, contracts.AccessHeadered); err != nil {
			return err
		}
		if in.Attendance, err = loadFile(genPaths.attendance, contracts.AccessHeadered); err != nil {
			return err
		}
		if in.PBX, err = loadFile(genPaths.pbx, contracts.AccessHeadered); err != nil {
			return err
		}
		if in.VOIP, err = loadFile(genPaths.voip, contracts.AccessHeadered); err != nil {
			return err
		}
		if in.Clock, err = loadFile(genPaths.clock, contracts.AccessHeadered); err != nil {
			return err
		}
		rep, err = builder.BuildQuality(cmd.Context(), in)

	case "llamadas":
		var pbx, voip *contracts.Dataset
		if pbx, err = loadFile(genPaths.pbx, contracts.AccessHeadered); err != nil {
			return err
		}
		if voip, err = loadFile(genPaths.voip, contracts.AccessHeadered); err != nil {
			return err
		}
		rep, err = builder.BuildCalls(cmd.Context(), pbx, voip, base)

	case "admin":
		var admin *contracts.Dataset
		if admin, err = loadFile(genPaths.admin, contracts.AccessPositional); err != nil {
			return err
		}
		rep, err = builder.BuildAdmin(cmd.Context(), admin)

	case "reporteria":
		var ops *contracts.Dataset
		if ops, err = loadFile(genPaths.operations, contracts.AccessHeadered); err != nil {
			return err
		}
		rep, err = builder.BuildReporteria(cmd.Context(), ops, base)

	default:
		return fmt.Errorf("unknown report %q (valid: calidad, llamadas, admin, reporteria)", args[0])
	}
	if err != nil {
		return err
	}

	outDir := genPaths.output
	if outDir == "" {
		outDir = cfg.Report.OutputDir
	}
	path := filepath.Join(outDir, rep.Filename)
	if err := workbook.Save(rep, path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	fmt.Printf("Reporte generado: %s (%d registros)\n", path, rep.Stats.Records)
	return nil
}
