// Package main provides the entry point for the AI Counselor HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "counselor_agent",
	Short: "AI Counselor HTTP API Server",
	Long:  "AI Counselor backs a student-advising app: onboarding profiles, a university shortlist, a to-do list, and a chat counselor, with structured LLM workflows behind a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
