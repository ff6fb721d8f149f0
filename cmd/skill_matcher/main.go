// Package main provides the skill_matcher command: the HTTP API server and
// offline tools for analyzing job descriptions against resumes and CVs.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skill_matcher",
	Short: "Skill Matcher HTTP API Server",
	Long:  "Skill Matcher extracts skills from job descriptions, resumes and CVs and reports how well a candidate covers a job.",
	// Errors are printed once by main.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
