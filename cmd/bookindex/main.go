// Package main provides the entry point for the bookindex CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/bookindex/cmd/bookindex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
