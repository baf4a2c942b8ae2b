// Package main is the entry point of the votboard dashboard.
package main

import (
	"os"

	"github.com/qil-lattice/votboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
