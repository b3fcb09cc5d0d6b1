// Package dashboard wires the admin view together: the job catalog drives
// the selection and the applicant pipeline renders against it. No logic of
// its own beyond the wiring.
package dashboard

import (
	"context"
	"fmt"

	"github.com/daniel/job-board/internal/applicants"
	"github.com/daniel/job-board/internal/backend"
	"github.com/daniel/job-board/internal/catalog"
)

// Dashboard composes the job panel and the applicant pipeline for a single
// admin session.
type Dashboard struct {
	catalog  *catalog.Catalog
	pipeline *applicants.Pipeline
}

// New creates a dashboard over the given backend client.
func New(client *backend.Client) *Dashboard {
	return &Dashboard{
		catalog:  catalog.New(client),
		pipeline: applicants.NewPipeline(client),
	}
}

// Refresh reloads the job catalog and then the applicant pipeline for the
// selected job. A catalog failure keeps the previously shown jobs; the
// pipeline is only reloaded when a job is selected.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if err := d.catalog.Load(ctx); err != nil {
		return err
	}
	selected := d.catalog.Selected()
	if selected == nil {
		return nil
	}
	return d.pipeline.Load(ctx, selected.ID)
}

// Select switches the dashboard to jobID and reloads its applicants. A late
// response for a previous selection is discarded by the pipeline, never
// applied to the new one.
func (d *Dashboard) Select(ctx context.Context, jobID string) error {
	if !d.catalog.Select(jobID) {
		return fmt.Errorf("dashboard: unknown job %q", jobID)
	}
	return d.pipeline.Load(ctx, jobID)
}

// Jobs returns the loaded job list.
func (d *Dashboard) Jobs() []backend.Job {
	return d.catalog.Jobs()
}

// SearchJobs filters the job panel by case-insensitive title substring.
func (d *Dashboard) SearchJobs(query string) []backend.Job {
	return d.catalog.Search(query)
}

// Selected returns the currently selected job, nil before the first load.
func (d *Dashboard) Selected() *backend.Job {
	return d.catalog.Selected()
}

// Applicants returns the visible applicant set for the selected job under
// the given filter and sort mode.
func (d *Dashboard) Applicants(filter string, mode applicants.SortMode) []applicants.Applicant {
	return d.pipeline.Visible(filter, mode)
}

// Total returns the unfiltered applicant count for the selected job.
func (d *Dashboard) Total() int {
	return d.pipeline.Total()
}

// UpdateStatus applies a reviewer transition optimistically and mirrors it
// to the backend.
func (d *Dashboard) UpdateStatus(ctx context.Context, applicantID string, status applicants.Status) *applicants.MirrorCommand {
	return d.pipeline.UpdateStatus(ctx, applicantID, status)
}
