package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daniel/job-board/internal/upload"
)

var applyCmd = &cobra.Command{
	Use:   "apply <job-id> <resume-file>",
	Short: "Submit a resume for a job posting",
	Long:  "Submits a PDF or Word resume for the given job. The file type is checked from the content before anything is sent; jobs already applied to are refused.",
	Args:  cobra.ExactArgs(2),
	RunE:  runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	jobID, path := args[0], args[1]

	e, err := newEnv()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading resume: %w", err)
	}

	flow := upload.NewFlow(e.client, e.store,
		upload.WithPhaseHook(e.printer.PrintUploadPhase))

	if err := flow.Select(filepath.Base(path), content); err != nil {
		e.printer.PrintUploadResult(false, flow.ErrorMessage())
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Submitting %s for job %s\n", filepath.Base(path), jobID)
	if err := flow.Start(context.Background(), jobID); err != nil {
		e.printer.PrintUploadResult(false, flow.ErrorMessage())
		return err
	}

	e.printer.PrintUploadResult(true, "")
	return nil
}
