// Package main provides the entry point for the teacher pack generator CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pack_agent",
	Short: "Teacher pack generator",
	Long:  "Generates printable worksheets, answer keys, and lesson plans from a short teacher request, with credit-based billing for the cloud backend.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
