// Package commands wires the reportes CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reportes",
	Short: "Motor de reportes operativos de cobranza",
	Long: `Reportes - motor de reportes operativos de cobranza

Concilia los exportes diarios (operaciones, asistencia, llamadas,
biometrico) por asesor y dia, evalua los indicadores de cumplimiento y
emite los libros de calculo con sus formulas.

Usage:
  go run ./cmd/reportes [command]

Examples:
  go run ./cmd/reportes api
  go run ./cmd/reportes generate calidad --operaciones ops.xlsx
  go run ./cmd/reportes roster show
  go run ./cmd/reportes status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
