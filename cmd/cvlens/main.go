// Package main is the entry point for the cvlens CLI.
package main

import (
	"os"

	"github.com/cvlens/cvlens/cmd/cvlens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
