// Package applicants implements the applicant list derivation pipeline:
// fetch raw records for the selected job, normalize them into a display
// model, classify an initial review status from the ATS score, then filter
// and sort into a render-ready view.
package applicants

import (
	"strings"
	"time"

	"github.com/daniel/job-board/internal/backend"
)

// Status is an applicant's review status.
type Status string

// Review statuses. Rejected is reachable only through an explicit reviewer
// action, never as an initial classification.
const (
	StatusPending     Status = "Pending"
	StatusReviewed    Status = "Reviewed"
	StatusShortlisted Status = "Shortlisted"
	StatusRejected    Status = "Rejected"
)

// ParseStatus maps a case-insensitive status name to its canonical form.
func ParseStatus(s string) (Status, bool) {
	for _, status := range []Status{StatusPending, StatusReviewed, StatusShortlisted, StatusRejected} {
		if strings.EqualFold(s, string(status)) {
			return status, true
		}
	}
	return "", false
}

// Applicant is the normalized display model derived from a raw backend record.
type Applicant struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	AppliedDate string   `json:"appliedDate"`
	ResumeURL   string   `json:"resumeUrl"`
	Status      Status   `json:"status"`
	JobID       string   `json:"jobId"`
	Skills      []string `json:"skills"`
	AIScore     int      `json:"aiScore"`
	FileSize    int64    `json:"fileSize"`
	Filename    string   `json:"filename"`

	// uploadedAt keeps the parsed timestamp for date sorting; zero when the
	// raw value did not parse.
	uploadedAt time.Time
}

// Normalize converts a raw backend record into the display model. resumeURL
// is the backend file endpoint for this applicant.
func Normalize(raw backend.RawApplicant, resumeURL string) Applicant {
	uploadedAt, display := formatUploadDate(raw.UploadedAt)
	return Applicant{
		ID:          raw.ID,
		Name:        ExtractNameFromEmail(raw.UserEmail),
		Email:       raw.UserEmail,
		AppliedDate: display,
		ResumeURL:   resumeURL,
		Status:      ClassifyScore(int(raw.AIScore)),
		JobID:       raw.JobID,
		Skills:      ParseSkills(raw.Skills),
		AIScore:     int(raw.AIScore),
		FileSize:    raw.Size,
		Filename:    raw.Filename,
		uploadedAt:  uploadedAt,
	}
}

// ExtractNameFromEmail derives a display name from the email local-part:
// split on '.', '_', and '-', capitalize each token, join with spaces.
func ExtractNameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	tokens := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, token := range tokens {
		tokens[i] = strings.ToUpper(token[:1]) + token[1:]
	}
	return strings.Join(tokens, " ")
}

// ParseSkills splits a raw comma-separated skill string, trimming whitespace
// and dropping empty tokens.
func ParseSkills(raw string) []string {
	if raw == "" {
		return nil
	}
	var skills []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			skills = append(skills, token)
		}
	}
	return skills
}

// ClassifyScore derives the initial review status from an ATS score:
// 80 and above Shortlisted, 60-79 Reviewed, below 60 Pending.
func ClassifyScore(score int) Status {
	switch {
	case score >= 80:
		return StatusShortlisted
	case score >= 60:
		return StatusReviewed
	default:
		return StatusPending
	}
}

// uploadTimeFormats are the timestamp shapes the backend has been seen using.
var uploadTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formatUploadDate parses a raw upload timestamp and renders it as a locale
// date string. Unparseable input is passed through verbatim with a zero
// sort key.
func formatUploadDate(raw string) (time.Time, string) {
	for _, layout := range uploadTimeFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, t.Format("1/2/2006")
		}
	}
	return time.Time{}, raw
}
