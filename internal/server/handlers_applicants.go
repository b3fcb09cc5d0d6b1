package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/daniel/job-board/internal/applicants"
	"github.com/daniel/job-board/internal/backend"
)

// dashboardResponse is the body for GET /api/dashboard/applicants
type dashboardResponse struct {
	Job        *backend.Job           `json:"job"`
	Total      int                    `json:"total"`
	Applicants []applicants.Applicant `json:"applicants"`
}

// statusUpdateRequest is the body for PATCH /api/applicants/{id}/status
type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// statusUpdateResponse acknowledges an optimistic status write. The mirror
// to the backend settles asynchronously.
type statusUpdateResponse struct {
	CommandID string            `json:"commandId"`
	Applicant string            `json:"applicant"`
	Status    applicants.Status `json:"status"`
	Mirror    string            `json:"mirror"`
}

// handleDashboardApplicants serves the admin view: the selected job's
// applicants, optionally filtered by status and re-sorted. Passing ?jobId=
// switches the selection; a stale fetch for a previous selection is
// discarded, never shown.
func (s *Server) handleDashboardApplicants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var err error
	if jobID := r.URL.Query().Get("jobId"); jobID != "" {
		err = s.dash.Select(ctx, jobID)
	} else {
		err = s.dash.Refresh(ctx)
	}
	if err != nil {
		if errors.Is(err, applicants.ErrStaleResponse) {
			// A newer selection won the race; serve what it loaded.
			err = nil
		} else {
			s.errorResponse(w, err, "Failed to load applicants")
			return
		}
	}

	mode := applicants.SortByScore
	if r.URL.Query().Get("sort") == "date" {
		mode = applicants.SortByDate
	}
	filter := r.URL.Query().Get("status")
	if filter == "" {
		filter = applicants.FilterAll
	}

	s.jsonResponse(w, http.StatusOK, dashboardResponse{
		Job:        s.dash.Selected(),
		Total:      s.dash.Total(),
		Applicants: s.dash.Applicants(filter, mode),
	})
}

// handleUpdateStatus applies a reviewer transition. The local write is
// optimistic; the response is 202 because the backend mirror may still fail
// without rolling the write back.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	applicantID := r.PathValue("id")

	var req statusUpdateRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err, "invalid status update")
		return
	}

	status, ok := applicants.ParseStatus(req.Status)
	if !ok {
		s.errorResponse(w, &ErrValidation{Field: "status", Message: "unknown status " + req.Status}, "unknown status")
		return
	}

	// The mirror call outlives this request; don't tie it to r.Context().
	cmd := s.dash.UpdateStatus(context.WithoutCancel(r.Context()), applicantID, status)

	s.jsonResponse(w, http.StatusAccepted, statusUpdateResponse{
		CommandID: cmd.ID.String(),
		Applicant: applicantID,
		Status:    status,
		Mirror:    "pending",
	})
}
