package main

import (
	"os"

	"github.com/grupoandino/reportes/cmd/reportes/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
