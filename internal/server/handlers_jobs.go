package server

import (
	"io"
	"net/http"

	"github.com/daniel/job-board/internal/backend"
	"github.com/daniel/job-board/internal/upload"
)

// listJobsResponse is the body for GET /api/jobs
type listJobsResponse struct {
	Jobs     []jobView `json:"jobs"`
	Count    int       `json:"count"`
	Selected string    `json:"selected,omitempty"`
}

// jobView is a job plus this user's applied marker.
type jobView struct {
	backend.Job
	Applied bool `json:"applied"`
}

// handleListJobs refetches the catalog and returns it, optionally filtered
// by a case-insensitive title search. A refetch failure with a previously
// loaded catalog still serves the stale list.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Load(r.Context()); err != nil && len(s.catalog.Jobs()) == 0 {
		s.errorResponse(w, err, "Failed to load jobs")
		return
	}

	jobs := s.catalog.Search(r.URL.Query().Get("q"))
	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, jobView{Job: job, Applied: s.store.HasApplied(job.ID)})
	}

	resp := listJobsResponse{Jobs: views, Count: len(views)}
	if selected := s.catalog.Selected(); selected != nil {
		resp.Selected = selected.ID
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSelectJob points the public job view at another posting and returns
// its detail.
func (s *Server) handleSelectJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.catalog.Select(id) {
		s.errorResponse(w, &ErrNotFound{Kind: "job", ID: id}, "job not found")
		return
	}

	job := s.catalog.Selected()
	s.jsonResponse(w, http.StatusOK, jobView{Job: *job, Applied: s.store.HasApplied(job.ID)})
}

// handleUploadResume accepts a multipart resume and submits it through the
// upload flow: content-based type check first, then the cosmetic phase
// sequence and the real backend call, responding only when both settle.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "invalid multipart body"}, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "missing file field"}, "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxResumeBytes))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "unreadable file"}, "unreadable file")
		return
	}

	flow := upload.NewFlow(s.client, s.store, s.uploadOpts...)
	if err := flow.Select(header.Filename, content); err != nil {
		s.jsonResponse(w, HTTPStatus(err), map[string]string{"error": flow.ErrorMessage()})
		return
	}

	if err := flow.Start(r.Context(), jobID); err != nil {
		message := flow.ErrorMessage()
		if message == "" {
			message = backend.ErrorDetail(err, err.Error())
		}
		s.jsonResponse(w, HTTPStatus(err), map[string]string{"error": message})
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"status":   "applied",
		"jobId":    jobID,
		"progress": flow.Progress(),
	})
}
