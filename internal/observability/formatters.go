// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/daniel/job-board/internal/applicants"
	"github.com/daniel/job-board/internal/backend"
	"github.com/daniel/job-board/internal/session"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobs outputs the job list with applied markers. applied may be nil.
func (p *Printer) PrintJobs(jobs []backend.Job, applied func(jobID string) bool) {
	if len(jobs) == 0 {
		p.printBox("OPEN POSITIONS", "No jobs available right now.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Jobs available: %d\n\n", len(jobs)))

	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		marker := " "
		if applied != nil && applied(job.ID) {
			marker = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %s — %s\n", marker, job.Title, job.Company))
		sb.WriteString(fmt.Sprintf("  id: %s", job.ID))
		if job.Location != "" {
			sb.WriteString(fmt.Sprintf("  (%s)", job.Location))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(jobs)-maxItemsToShow))
	}

	p.printBox("OPEN POSITIONS", sb.String())
}

// PrintJobDetail outputs a single job with its description.
func (p *Printer) PrintJobDetail(job *backend.Job, applied bool) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	}
	if job.Compensation != "" {
		sb.WriteString(fmt.Sprintf("Pays:     %s\n", job.Compensation))
	}
	sb.WriteString(fmt.Sprintf("Applicants so far: %d\n", job.ApplicantCount))
	if applied {
		sb.WriteString("\nYou have already applied to this job.\n")
	}

	if job.Description != "" {
		sb.WriteString("\n")
		desc := job.Description
		if len(desc) > 200 {
			desc = desc[:197] + "..."
		}
		sb.WriteString(desc)
		sb.WriteString("\n")
	}

	p.printBox("JOB DETAIL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplicants outputs the visible applicant table for a job. total is
// the unfiltered count so a filtered view still shows the full population.
func (p *Printer) PrintApplicants(visible []applicants.Applicant, total int) {
	if total == 0 {
		p.printBox("APPLICANTS", "No applications received yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Showing %d of %d applicants:\n\n", len(visible), total))

	count := min(len(visible), maxItemsToShow)
	for i := 0; i < count; i++ {
		a := visible[i]
		sb.WriteString(fmt.Sprintf("#%d  %s <%s>\n", i+1, a.Name, a.Email))
		sb.WriteString(fmt.Sprintf("    Score: %d  Status: %s  Applied: %s\n", a.AIScore, a.Status, a.AppliedDate))
		if len(a.Skills) > 0 {
			skills := strings.Join(a.Skills, ", ")
			if len(skills) > 40 {
				skills = skills[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", skills))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(visible) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more applicants", len(visible)-maxItemsToShow))
	}

	p.printBox("APPLICANTS", sb.String())
}

// PrintSession outputs who is signed in.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSession(user *session.User) {
	if user == nil {
		fmt.Fprintf(p.out, "Not signed in.\n")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", user.Name))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", user.Email))
	sb.WriteString(fmt.Sprintf("Role:   %s", user.Role))

	p.printBox("SESSION", sb.String())
}

// PrintUploadPhase outputs one line of cosmetic upload progress; wired into
// the upload flow's phase hook.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintUploadPhase(phase string, progress int) {
	width := 20
	filled := progress * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	fmt.Fprintf(p.out, "  [%s] %3d%%  %s\n", bar, progress, phase)
}

// PrintUploadResult outputs the terminal upload outcome.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintUploadResult(succeeded bool, message string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	if succeeded {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ RESUME SUBMITTED")
	} else {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "⚠ UPLOAD FAILED")
		if message != "" {
			if len(message) > boxWidth-4 {
				message = message[:boxWidth-7] + "..."
			}
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, message)
		}
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}
