package main

import (
	"os"

	"github.com/wonny/roicalc/cmd/roi/commands"
)

// main is the entry point for the ROI CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/roi [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
