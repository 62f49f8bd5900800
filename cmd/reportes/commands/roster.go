package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/ingest"
	"github.com/grupoandino/reportes/internal/roster"
	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/logger"
)

// rosterCmd groups the advisor base subcommands.
var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Administra la base de asesores",
}

var rosterImportCmd = &cobra.Command{
	Use:   "import <archivo>",
	Short: "Reemplaza la base de asesores desde un exporte",
	Args:  cobra.ExactArgs(1),
	RunE:  runRosterImport,
}

var rosterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Muestra la base de asesores actual",
	RunE:  runRosterShow,
}

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(rosterImportCmd)
	rosterCmd.AddCommand(rosterShowCmd)
}

func rosterStore() (*roster.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return roster.NewStore(cfg.Report.RosterPath, logger.New(cfg)), nil
}

func runRosterImport(cmd *cobra.Command, args []string) error {
	store, err := rosterStore()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ds, err := ingest.Decode(filepath.Base(args[0]), f, contracts.AccessHeadered)
	if err != nil {
		return err
	}
	rs, err := roster.Parse(ds)
	if err != nil {
		return err
	}
	if err := store.Save(rs); err != nil {
		return err
	}

	fmt.Printf("Base de asesores actualizada: %d asesores\n", len(rs.Entries))
	return nil
}

func runRosterShow(cmd *cobra.Command, args []string) error {
	store, err := rosterStore()
	if err != nil {
		return err
	}
	rs, err := store.Load()
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %-8s %-10s %-28s %s\n", "ID", "EXT", "VOIP", "Nombre", "Sede")
	for _, e := range rs.Entries {
		fmt.Printf("%-12s %-8s %-10s %-28s %s\n", e.PersonID, e.Extension, e.VOIPID, e.Name, e.Site)
	}
	fmt.Printf("\n%d asesores\n", len(rs.Entries))
	return nil
}
