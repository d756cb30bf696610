// This is the main entry point for the statepack CLI.
// Build with: go build -o bin/statepack ./cmd/statepack
// Usage: statepack <command> [options]
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
