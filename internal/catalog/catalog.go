// Package catalog holds the job listing view state: the fetched job
// collection and the single selected job driving the detail pane.
package catalog

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/daniel/job-board/internal/backend"
)

// Catalog owns the job collection and the selection. Safe for concurrent use.
type Catalog struct {
	client *backend.Client

	mu         sync.Mutex
	jobs       []backend.Job
	selectedID string
	loadErr    error
}

// New creates an empty catalog over the given backend client.
func New(client *backend.Client) *Catalog {
	return &Catalog{client: client}
}

// Load fetches the job collection. On success the first job becomes the
// default selection when nothing is selected yet. On failure the error is
// recorded as view state and previously loaded jobs are kept.
func (c *Catalog) Load(ctx context.Context) error {
	jobs, err := c.client.ListJobs(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.loadErr = err
		return err
	}
	for i := range jobs {
		jobs[i].Logo = NormalizeLogoURL(jobs[i].Logo)
	}
	c.jobs = jobs
	c.loadErr = nil
	if c.selectedID == "" && len(jobs) > 0 {
		c.selectedID = jobs[0].ID
	}
	return nil
}

// Err returns the error state from the last failed load, nil after a
// successful one.
func (c *Catalog) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Jobs returns a copy of the loaded collection.
func (c *Catalog) Jobs() []backend.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]backend.Job(nil), c.jobs...)
}

// Select replaces the selected-job reference. It has no effect on the list
// itself and reports whether the id names a loaded job.
func (c *Catalog) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, job := range c.jobs {
		if job.ID == id {
			c.selectedID = id
			return true
		}
	}
	return false
}

// Selected returns the selected job, or nil when nothing is selected.
func (c *Catalog) Selected() *backend.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, job := range c.jobs {
		if job.ID == c.selectedID {
			j := job
			return &j
		}
	}
	return nil
}

// Search returns the jobs whose title contains term, case-insensitively.
// An empty term returns the whole collection.
func (c *Catalog) Search(term string) []backend.Job {
	c.mu.Lock()
	defer c.mu.Unlock()

	if term == "" {
		return append([]backend.Job(nil), c.jobs...)
	}
	needle := strings.ToLower(term)
	var matched []backend.Job
	for _, job := range c.jobs {
		if strings.Contains(strings.ToLower(job.Title), needle) {
			matched = append(matched, job)
		}
	}
	return matched
}

// cssColorHex maps the color keywords image services accept to explicit hex
// values. Some backends emit keyword parameters that certain services render
// as transparent; hex always renders.
var cssColorHex = map[string]string{
	"white":  "ffffff",
	"black":  "000000",
	"red":    "ff0000",
	"green":  "008000",
	"blue":   "0000ff",
	"yellow": "ffff00",
	"orange": "ffa500",
	"gray":   "808080",
	"grey":   "808080",
}

// NormalizeLogoURL rewrites a logo URL whose color query parameter is a CSS
// keyword into the explicit hex value. Anything unrecognized is returned
// unchanged.
func NormalizeLogoURL(logo string) string {
	if logo == "" {
		return logo
	}
	parsed, err := url.Parse(logo)
	if err != nil {
		return logo
	}
	query := parsed.Query()
	keyword := strings.ToLower(query.Get("color"))
	hex, known := cssColorHex[keyword]
	if !known {
		return logo
	}
	query.Set("color", hex)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
