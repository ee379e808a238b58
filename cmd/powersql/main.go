// Package main provides the CLI entry point for PowerSQL.
package main

import (
	"os"

	"github.com/PowerSQL/PowerSQL/internal/cliapp"
)

func main() {
	if err := cliapp.Execute(); err != nil {
		os.Exit(1)
	}
}
