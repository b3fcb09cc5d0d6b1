package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daniel/job-board/internal/applicants"
)

var statusCmd = &cobra.Command{
	Use:   "status <applicant-id> <status>",
	Short: "Set an applicant's review status (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	applicantID := args[0]
	status, ok := applicants.ParseStatus(args[1])
	if !ok {
		return fmt.Errorf("unknown status %q (want Pending, Reviewed, Shortlisted, or Rejected)", args[1])
	}

	e, err := newEnv()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(); err != nil {
		return err
	}

	ctx := context.Background()
	pipeline := applicants.NewPipeline(e.client)
	mirror := pipeline.UpdateStatus(ctx, applicantID, status)
	if err := mirror.Wait(ctx); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if _, err := mirror.State(); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Applicant %s is now %s.\n", applicantID, status)
	return nil
}
