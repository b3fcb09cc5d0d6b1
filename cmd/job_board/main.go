// Package main provides the job-board CLI and gateway server entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_board",
	Short: "Job board client and gateway",
	Long:  "job_board browses postings, submits resumes, and reviews ranked applicants against a remote job-board backend, either from the terminal or through a local HTTP gateway.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
