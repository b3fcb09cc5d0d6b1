// Package upload drives the resume submission flow: a small state machine
// that runs a cosmetic multi-phase progress sequence and the real multipart
// upload concurrently, and only leaves the uploading state once both have
// settled.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/daniel/job-board/internal/backend"
	"github.com/daniel/job-board/internal/session"
)

// State is the upload flow's current position in its lifecycle.
type State string

// Flow states. Succeeded and Failed return to Idle when the modal closes.
const (
	StateIdle         State = "idle"
	StateFileSelected State = "file-selected"
	StateUploading    State = "uploading"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

// Phases is the fixed cosmetic sequence shown while the upload request runs.
// The sequence advances on a timer independent of network completion.
var Phases = [5]string{
	"Just a minute…",
	"Parsing resume…",
	"Calculating ATS score…",
	"Matching similarity…",
	"Uploading resume…",
}

// Timing defaults. The dismiss delay matches the original UI's two-second
// auto-close after a successful upload.
const (
	DefaultPhaseInterval = 900 * time.Millisecond
	DefaultDismissDelay  = 2 * time.Second
)

// allowedTypes are the resume MIME types accepted before any network call:
// PDF, legacy Word, and OOXML Word.
var allowedTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ValidationError rejects a file before any network activity.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "upload: " + e.Reason
}

// SessionState is what the flow needs from the session store: the bearer
// token and the durable applied-job markers.
type SessionState interface {
	Token() string
	MarkApplied(jobID string) error
	HasApplied(jobID string) bool
}

// Flow is one upload modal's state. A Flow is reusable across modal
// sessions; Close resets it to Idle. Safe for concurrent use.
type Flow struct {
	client  *backend.Client
	session SessionState

	clock         Clock
	phaseInterval time.Duration
	dismissDelay  time.Duration
	phaseHook     func(phase string, progress int)

	mu         sync.Mutex
	state      State
	filename   string
	content    []byte
	phaseIndex int
	errMessage string
	generation uint64 // bumped on every reset so stale auto-dismissals are ignored
}

// Option configures a Flow.
type Option func(*Flow)

// WithClock injects a test clock.
func WithClock(c Clock) Option {
	return func(f *Flow) { f.clock = c }
}

// WithPhaseInterval overrides the cosmetic phase duration.
func WithPhaseInterval(d time.Duration) Option {
	return func(f *Flow) { f.phaseInterval = d }
}

// WithDismissDelay overrides the auto-dismiss delay after success.
func WithDismissDelay(d time.Duration) Option {
	return func(f *Flow) { f.dismissDelay = d }
}

// WithPhaseHook registers a callback invoked on every phase advance, used by
// the CLI to print progress lines.
func WithPhaseHook(hook func(phase string, progress int)) Option {
	return func(f *Flow) { f.phaseHook = hook }
}

// NewFlow creates an idle upload flow.
func NewFlow(client *backend.Client, sess SessionState, opts ...Option) *Flow {
	f := &Flow{
		client:        client,
		session:       sess,
		clock:         realClock{},
		phaseInterval: DefaultPhaseInterval,
		dismissDelay:  DefaultDismissDelay,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the flow's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Progress returns the cosmetic progress percentage: phase index over the
// phase count. Pinned at 100 after success, reset to 0 after failure.
func (f *Flow) Progress() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phaseIndex * 100 / len(Phases)
}

// Phase returns the label of the cosmetic phase currently showing, empty
// outside the uploading state.
func (f *Flow) Phase() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateUploading {
		return ""
	}
	idx := f.phaseIndex
	if idx >= len(Phases) {
		idx = len(Phases) - 1
	}
	return Phases[idx]
}

// ErrorMessage returns the user-visible message for the last rejection or
// failure.
func (f *Flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMessage
}

// Select chooses a file for upload. The MIME type is detected from the
// content itself; anything that is not a PDF or Word document rejects back
// to Idle with an error message and no network call.
func (f *Flow) Select(filename string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateIdle, StateFileSelected, StateFailed:
	default:
		return &ValidationError{Reason: "an upload is already in progress"}
	}

	if len(content) == 0 {
		f.reset(StateIdle, "Please select a file first")
		return &ValidationError{Reason: "no file selected"}
	}

	detected := mimetype.Detect(content)
	if !typeAllowed(detected) {
		f.reset(StateIdle, "Only PDF and Word documents are allowed")
		return &ValidationError{Reason: fmt.Sprintf("file type %s is not allowed", detected.String())}
	}

	f.state = StateFileSelected
	f.filename = filename
	f.content = content
	f.errMessage = ""
	f.phaseIndex = 0
	return nil
}

func typeAllowed(detected *mimetype.MIME) bool {
	for _, allowed := range allowedTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}

// Start submits the selected file for jobID. It fails immediately with an
// authentication error when no access token is stored, without touching the
// network. Otherwise it runs the cosmetic phase timer and the real upload
// concurrently and waits for both before leaving the uploading state:
// network success and a finished timer yield Succeeded (progress pinned at
// 100, job durably marked applied); network failure yields Failed with the
// server's detail message and progress reset to 0. Cancelling ctx (the modal
// closing early) stops the timer leg; nothing leaks.
func (f *Flow) Start(ctx context.Context, jobID string) error {
	f.mu.Lock()
	if f.state != StateFileSelected {
		f.mu.Unlock()
		return &ValidationError{Reason: "no file selected"}
	}
	if f.session.HasApplied(jobID) {
		f.mu.Unlock()
		return &ValidationError{Reason: "already applied to this job"}
	}

	token := f.session.Token()
	if token == "" {
		f.state = StateFailed
		f.errMessage = "No authentication token found. Please log in again."
		f.phaseIndex = 0
		f.mu.Unlock()
		return &session.AuthError{Op: "upload resume"}
	}

	sessionID := uuid.New()
	filename := f.filename
	content := f.content
	f.state = StateUploading
	f.phaseIndex = 0
	f.errMessage = ""
	generation := f.generation
	f.mu.Unlock()

	log.Printf("upload %s: submitting %s for job %s", sessionID, filename, jobID)

	// Two legs, both must settle before the state machine advances. A failed
	// upload does not stop the timer and a finished timer does not end the
	// wait; only ctx cancellation interrupts the cosmetic sequence.
	var g errgroup.Group
	var uploadErr error

	g.Go(func() error {
		return f.runPhases(ctx, generation)
	})
	g.Go(func() error {
		uploadErr = f.client.UploadResume(ctx, token, jobID, filename, bytes.NewReader(content))
		return nil
	})
	timerErr := g.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation != generation {
		// The modal was reset while we were in flight; drop the outcome.
		return timerErr
	}

	if errors.Is(uploadErr, context.Canceled) || errors.Is(timerErr, context.Canceled) {
		// Modal closed early. If the upload had already gone through, the
		// applied marker still sticks.
		if uploadErr == nil {
			if err := f.session.MarkApplied(jobID); err != nil {
				log.Printf("upload %s: recording applied marker: %v", sessionID, err)
			}
		}
		f.reset(StateIdle, "")
		return context.Canceled
	}

	if uploadErr != nil {
		f.state = StateFailed
		f.errMessage = backend.ErrorDetail(uploadErr, "Failed to upload resume")
		f.phaseIndex = 0
		log.Printf("upload %s: failed: %v", sessionID, uploadErr)
		return uploadErr
	}

	f.state = StateSucceeded
	f.phaseIndex = len(Phases)
	if err := f.session.MarkApplied(jobID); err != nil {
		log.Printf("upload %s: recording applied marker: %v", sessionID, err)
	}
	f.scheduleDismiss(generation)
	return nil
}

// runPhases advances the cosmetic sequence on the flow clock, one interval
// per phase, until all phases have shown or ctx is cancelled.
func (f *Flow) runPhases(ctx context.Context, generation uint64) error {
	for i := 1; i <= len(Phases); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.clock.After(f.phaseInterval):
		}

		f.mu.Lock()
		if f.generation != generation {
			f.mu.Unlock()
			return nil
		}
		if f.state == StateUploading {
			f.phaseIndex = i
			hook := f.phaseHook
			progress := i * 100 / len(Phases)
			var label string
			if i < len(Phases) {
				label = Phases[i]
			} else {
				label = Phases[len(Phases)-1]
			}
			f.mu.Unlock()
			if hook != nil {
				hook(label, progress)
			}
			continue
		}
		f.mu.Unlock()
	}
	return nil
}

// scheduleDismiss closes the modal a fixed delay after success. Callers hold
// f.mu.
func (f *Flow) scheduleDismiss(generation uint64) {
	go func() {
		<-f.clock.After(f.dismissDelay)
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.generation == generation && f.state == StateSucceeded {
			f.reset(StateIdle, "")
		}
	}()
}

// Close dismisses the modal, returning the flow to Idle and dropping the
// selected file. Safe to call in any state.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset(StateIdle, "")
}

// reset moves the machine to a terminal-free state. Callers hold f.mu.
func (f *Flow) reset(state State, errMessage string) {
	f.generation++
	f.state = state
	f.filename = ""
	f.content = nil
	f.phaseIndex = 0
	f.errMessage = errMessage
}
