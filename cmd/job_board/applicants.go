package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daniel/job-board/internal/applicants"
	"github.com/daniel/job-board/internal/dashboard"
)

var applicantsCmd = &cobra.Command{
	Use:   "applicants [job-id]",
	Short: "Review ranked applicants for a job (admin only)",
	Long:  "Lists the applicants for the given job (or the first job when omitted), ranked by ATS score. The set can be filtered by status and re-sorted by application date.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runApplicants,
}

var (
	applicantsStatus string
	applicantsSort   string
)

func init() {
	applicantsCmd.Flags().StringVar(&applicantsStatus, "status", applicants.FilterAll, "Filter by status (Pending, Reviewed, Shortlisted, Rejected, all)")
	applicantsCmd.Flags().StringVar(&applicantsSort, "sort", "score", "Sort order: score or date")

	rootCmd.AddCommand(applicantsCmd)
}

func runApplicants(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(); err != nil {
		return err
	}

	mode := applicants.SortByScore
	switch applicantsSort {
	case "score":
	case "date":
		mode = applicants.SortByDate
	default:
		return fmt.Errorf("unknown sort order %q (want score or date)", applicantsSort)
	}

	ctx := context.Background()
	dash := dashboard.New(e.client)
	if err := dash.Refresh(ctx); err != nil {
		return fmt.Errorf("loading dashboard: %w", err)
	}
	if len(args) == 1 {
		if err := dash.Select(ctx, args[0]); err != nil {
			return err
		}
	}

	if job := dash.Selected(); job != nil {
		e.printer.PrintJobDetail(job, false)
	}
	e.printer.PrintApplicants(dash.Applicants(applicantsStatus, mode), dash.Total())
	return nil
}
