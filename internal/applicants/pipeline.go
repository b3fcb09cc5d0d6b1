package applicants

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/daniel/job-board/internal/backend"
)

// SortMode selects the ordering of the visible applicant set.
type SortMode string

// Sort modes. Both orderings are descending; ties keep arrival order.
const (
	SortByScore SortMode = "score"
	SortByDate  SortMode = "date"
)

// FilterAll shows every status.
const FilterAll = "all"

// ErrStaleResponse is returned by Load when the response arrived for a job
// that is no longer selected. The response has been discarded; current state
// is untouched.
var ErrStaleResponse = errors.New("applicants: response for a stale job selection discarded")

// MirrorState is the lifecycle of one status-update command against the
// backend mirror.
type MirrorState string

// Mirror command states.
const (
	MirrorPending   MirrorState = "pending"
	MirrorCommitted MirrorState = "committed"
	MirrorFailed    MirrorState = "failed"
)

// MirrorCommand tracks one optimistic status update through its backend
// mirror call. The optimistic local write is never rolled back; a failed
// mirror is recorded here instead.
type MirrorCommand struct {
	ID          uuid.UUID
	ApplicantID string
	Status      Status

	mu    sync.Mutex
	state MirrorState
	err   error
	done  chan struct{}
}

// State returns the command's current mirror state and, when failed, the
// mirror error.
func (c *MirrorCommand) State() (MirrorState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.err
}

// Wait blocks until the mirror call settles or ctx is done.
func (c *MirrorCommand) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *MirrorCommand) settle(err error) {
	c.mu.Lock()
	if err != nil {
		c.state = MirrorFailed
		c.err = err
	} else {
		c.state = MirrorCommitted
	}
	c.mu.Unlock()
	close(c.done)
}

// Pipeline owns the applicant collection for the currently selected job.
// Safe for concurrent use.
type Pipeline struct {
	client *backend.Client

	mu         sync.Mutex
	jobID      string
	applicants []Applicant
	commands   []*MirrorCommand
}

// NewPipeline creates a pipeline over the given backend client.
func NewPipeline(client *backend.Client) *Pipeline {
	return &Pipeline{client: client}
}

// Load fetches and normalizes the applicants for jobID, replacing the current
// collection. An empty jobID short-circuits to an empty collection with no
// network call. Each fetch is tagged with the job it was issued for; if the
// selection changed while the request was in flight, the response is
// discarded and ErrStaleResponse returned.
func (p *Pipeline) Load(ctx context.Context, jobID string) error {
	p.mu.Lock()
	p.jobID = jobID
	if jobID == "" {
		p.applicants = nil
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	raw, err := p.client.ListApplicants(ctx, jobID)
	if err != nil {
		return err
	}

	normalized := make([]Applicant, 0, len(raw))
	for _, record := range raw {
		normalized = append(normalized, Normalize(record, p.client.ResumeFileURL(record.ID)))
	}
	// Default ordering: ATS score descending, stable.
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].AIScore > normalized[j].AIScore
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.jobID != jobID {
		return ErrStaleResponse
	}
	p.applicants = normalized
	return nil
}

// JobID returns the job the collection is currently scoped to.
func (p *Pipeline) JobID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobID
}

// Applicants returns a copy of the full collection in its default ordering.
func (p *Pipeline) Applicants() []Applicant {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Applicant(nil), p.applicants...)
}

// Visible derives the render-ready view: the collection restricted by a
// case-insensitive status filter ("all" keeps everything), re-sorted by the
// given mode. The underlying collection is never mutated and nothing is
// refetched.
func (p *Pipeline) Visible(filter string, mode SortMode) []Applicant {
	p.mu.Lock()
	defer p.mu.Unlock()

	visible := make([]Applicant, 0, len(p.applicants))
	for _, a := range p.applicants {
		if filter == "" || strings.EqualFold(filter, FilterAll) || strings.EqualFold(filter, string(a.Status)) {
			visible = append(visible, a)
		}
	}

	switch mode {
	case SortByDate:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].uploadedAt.After(visible[j].uploadedAt)
		})
	default:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].AIScore > visible[j].AIScore
		})
	}
	return visible
}

// Total returns the size of the unfiltered collection.
func (p *Pipeline) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.applicants)
}

// UpdateStatus applies a reviewer transition optimistically to local state
// and mirrors it to the backend asynchronously. The returned command carries
// the mirror tri-state; a failed mirror is logged and recorded but the local
// write stays (callers may surface the gap to the reviewer).
func (p *Pipeline) UpdateStatus(ctx context.Context, applicantID string, status Status) *MirrorCommand {
	cmd := &MirrorCommand{
		ID:          uuid.New(),
		ApplicantID: applicantID,
		Status:      status,
		state:       MirrorPending,
		done:        make(chan struct{}),
	}

	p.mu.Lock()
	for i := range p.applicants {
		if p.applicants[i].ID == applicantID {
			p.applicants[i].Status = status
			break
		}
	}
	p.commands = append(p.commands, cmd)
	p.mu.Unlock()

	go func() {
		err := p.client.UpdateApplicantStatus(ctx, applicantID, string(status))
		if err != nil {
			log.Printf("applicants: status mirror for %s failed (local state kept): %v", applicantID, err)
		}
		cmd.settle(err)
	}()

	return cmd
}

// Commands returns the status-update commands issued since the pipeline was
// created, newest last.
func (p *Pipeline) Commands() []*MirrorCommand {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*MirrorCommand(nil), p.commands...)
}

// PendingMirrors counts status-update commands whose mirror call has not
// settled yet.
func (p *Pipeline) PendingMirrors() int {
	count := 0
	for _, cmd := range p.Commands() {
		if state, _ := cmd.State(); state == MirrorPending {
			count++
		}
	}
	return count
}
