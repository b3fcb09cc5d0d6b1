package applicants

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/job-board/internal/backend"
)

// applicantFixture builds a raw wire record for the fake backend.
func applicantFixture(id, email, uploadedAt string, score int) map[string]any {
	return map[string]any{
		"_id":         id,
		"user_email":  email,
		"uploaded_at": uploadedAt,
		"ai_score":    score,
		"skills":      "Go, SQL",
		"job_id":      "j1",
		"size":        1024,
		"filename":    id + ".pdf",
	}
}

func newTestPipeline(t *testing.T, handler http.HandlerFunc) *Pipeline {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := backend.NewClient(server.URL)
	require.NoError(t, err)
	return NewPipeline(client)
}

func serveApplicants(t *testing.T, records []map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(records))
	}
}

func TestLoad_EmptyJobIDShortCircuits(t *testing.T) {
	pipeline := newTestPipeline(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no network call expected for an empty job id")
	})

	require.NoError(t, pipeline.Load(context.Background(), ""))
	assert.Empty(t, pipeline.Applicants())
}

func TestLoad_DefaultOrderingScoreDescending(t *testing.T) {
	pipeline := newTestPipeline(t, serveApplicants(t, []map[string]any{
		applicantFixture("low", "low@x.com", "2026-01-01T00:00:00Z", 40),
		applicantFixture("high", "high@x.com", "2026-01-02T00:00:00Z", 90),
		applicantFixture("mid", "mid@x.com", "2026-01-03T00:00:00Z", 70),
	}))

	require.NoError(t, pipeline.Load(context.Background(), "j1"))

	got := pipeline.Applicants()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"high", "mid", "low"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, StatusShortlisted, got[0].Status)
	assert.Equal(t, StatusReviewed, got[1].Status)
	assert.Equal(t, StatusPending, got[2].Status)
}

func TestLoad_TiesKeepArrivalOrder(t *testing.T) {
	pipeline := newTestPipeline(t, serveApplicants(t, []map[string]any{
		applicantFixture("first", "a@x.com", "2026-01-01T00:00:00Z", 70),
		applicantFixture("second", "b@x.com", "2026-01-02T00:00:00Z", 70),
		applicantFixture("third", "c@x.com", "2026-01-03T00:00:00Z", 70),
	}))

	require.NoError(t, pipeline.Load(context.Background(), "j1"))

	got := pipeline.Applicants()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestLoad_StaleResponseDiscarded(t *testing.T) {
	// The handler blocks job A's response until job B has been selected,
	// reproducing the select-A-then-B race.
	aStarted := make(chan struct{})
	releaseA := make(chan struct{})
	pipeline := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		jobID := r.URL.Query().Get("jobId")
		if jobID == "jobA" {
			close(aStarted)
			<-releaseA
			_ = json.NewEncoder(w).Encode([]map[string]any{applicantFixture("fromA", "a@x.com", "2026-01-01T00:00:00Z", 50)})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{applicantFixture("fromB", "b@x.com", "2026-01-01T00:00:00Z", 60)})
	})

	var wg sync.WaitGroup
	wg.Add(1)
	var errA error
	go func() {
		defer wg.Done()
		errA = pipeline.Load(context.Background(), "jobA")
	}()

	// Job A's fetch is in flight; select job B, then let A's response land.
	<-aStarted
	require.NoError(t, pipeline.Load(context.Background(), "jobB"))
	close(releaseA)
	wg.Wait()

	assert.ErrorIs(t, errA, ErrStaleResponse)
	got := pipeline.Applicants()
	require.Len(t, got, 1)
	assert.Equal(t, "fromB", got[0].ID, "job A's applicants must not show under job B")
	assert.Equal(t, "jobB", pipeline.JobID())
}

func TestVisible_FilterThenSortKeepsMembership(t *testing.T) {
	pipeline := newTestPipeline(t, serveApplicants(t, []map[string]any{
		applicantFixture("s1", "a@x.com", "2026-01-01T00:00:00Z", 95),
		applicantFixture("s2", "b@x.com", "2026-01-05T00:00:00Z", 85),
		applicantFixture("r1", "c@x.com", "2026-01-03T00:00:00Z", 65),
		applicantFixture("p1", "d@x.com", "2026-01-04T00:00:00Z", 10),
	}))
	require.NoError(t, pipeline.Load(context.Background(), "j1"))

	byScore := pipeline.Visible("shortlisted", SortByScore)
	byDate := pipeline.Visible("Shortlisted", SortByDate)

	ids := func(list []Applicant) map[string]bool {
		set := map[string]bool{}
		for _, a := range list {
			set[a.ID] = true
		}
		return set
	}
	assert.Equal(t, ids(byScore), ids(byDate), "switching sort mode never changes membership")

	require.Len(t, byScore, 2)
	assert.Equal(t, "s1", byScore[0].ID, "score descending")
	assert.Equal(t, "s2", byDate[0].ID, "date descending")
}

func TestVisible_AllAndEmptyFilter(t *testing.T) {
	pipeline := newTestPipeline(t, serveApplicants(t, []map[string]any{
		applicantFixture("a", "a@x.com", "2026-01-01T00:00:00Z", 90),
		applicantFixture("b", "b@x.com", "2026-01-02T00:00:00Z", 10),
	}))
	require.NoError(t, pipeline.Load(context.Background(), "j1"))

	assert.Len(t, pipeline.Visible(FilterAll, SortByScore), 2)
	assert.Len(t, pipeline.Visible("", SortByScore), 2)
	assert.Len(t, pipeline.Visible("rejected", SortByScore), 0)
	assert.Equal(t, 2, pipeline.Total())
}

func TestVisible_DoesNotMutateCollection(t *testing.T) {
	pipeline := newTestPipeline(t, serveApplicants(t, []map[string]any{
		applicantFixture("a", "a@x.com", "2026-01-01T00:00:00Z", 10),
		applicantFixture("b", "b@x.com", "2026-01-02T00:00:00Z", 90),
	}))
	require.NoError(t, pipeline.Load(context.Background(), "j1"))

	before := pipeline.Applicants()
	_ = pipeline.Visible("pending", SortByDate)
	after := pipeline.Applicants()
	assert.Equal(t, before, after)
}

func TestUpdateStatus_OptimisticThenCommitted(t *testing.T) {
	var patched struct {
		sync.Mutex
		path, status string
	}
	pipeline := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			patched.Lock()
			patched.path = r.URL.Path
			patched.status = body["status"]
			patched.Unlock()
			return
		}
		serveApplicants(t, []map[string]any{applicantFixture("a1", "a@x.com", "2026-01-01T00:00:00Z", 50)})(w, r)
	})
	require.NoError(t, pipeline.Load(context.Background(), "j1"))

	cmd := pipeline.UpdateStatus(context.Background(), "a1", StatusShortlisted)

	// Optimistic write is visible immediately, before the mirror settles.
	assert.Equal(t, StatusShortlisted, pipeline.Applicants()[0].Status)

	require.NoError(t, cmd.Wait(context.Background()))
	state, err := cmd.State()
	assert.Equal(t, MirrorCommitted, state)
	assert.NoError(t, err)

	patched.Lock()
	defer patched.Unlock()
	assert.Equal(t, "/api/applicants/a1/status", patched.path)
	assert.Equal(t, "Shortlisted", patched.status)
}

func TestUpdateStatus_MirrorFailureKeepsLocalState(t *testing.T) {
	pipeline := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = fmt.Fprint(w, `{"detail":"mirror down"}`)
			return
		}
		serveApplicants(t, []map[string]any{applicantFixture("a1", "a@x.com", "2026-01-01T00:00:00Z", 50)})(w, r)
	})
	require.NoError(t, pipeline.Load(context.Background(), "j1"))

	cmd := pipeline.UpdateStatus(context.Background(), "a1", StatusRejected)
	require.NoError(t, cmd.Wait(context.Background()))

	state, err := cmd.State()
	assert.Equal(t, MirrorFailed, state)
	require.Error(t, err)
	assert.Equal(t, "mirror down", backend.ErrorDetail(err, ""))

	// No rollback: the optimistic write stays.
	assert.Equal(t, StatusRejected, pipeline.Applicants()[0].Status)
	assert.Equal(t, 0, pipeline.PendingMirrors())
	assert.Len(t, pipeline.Commands(), 1)
}
