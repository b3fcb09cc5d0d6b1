package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daniel/job-board/internal/catalog"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [job-id]",
	Short: "List open positions, or show one posting in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJobs,
}

var jobsSearch string

func init() {
	jobsCmd.Flags().StringVarP(&jobsSearch, "search", "s", "", "Filter by case-insensitive title substring")

	rootCmd.AddCommand(jobsCmd)
}

func runJobs(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	cat := catalog.New(e.client)
	if err := cat.Load(context.Background()); err != nil {
		return fmt.Errorf("loading jobs: %w", err)
	}

	if len(args) == 1 {
		if !cat.Select(args[0]) {
			return fmt.Errorf("no job with id %q", args[0])
		}
		job := cat.Selected()
		e.printer.PrintJobDetail(job, e.store.HasApplied(job.ID))
		return nil
	}

	e.printer.PrintJobs(cat.Search(jobsSearch), e.store.HasApplied)
	return nil
}
