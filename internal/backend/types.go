// Package backend provides a typed HTTP client for the remote job-board API.
// All scoring, parsing, and persistence happen on the backend; this package
// only moves wire shapes back and forth.
package backend

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Job is a job posting as returned by GET /api/jobs. Immutable from the
// client's point of view.
type Job struct {
	ID               string   `json:"_id"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Logo             string   `json:"logo"`
	Description      string   `json:"description"`
	Overview         string   `json:"overview"`
	RequiredSkills   []string `json:"requiredSkills"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	Compensation     string   `json:"compensation"`
	Location         string   `json:"location"`
	Type             string   `json:"type"`
	Experience       string   `json:"experience"`
	ApplicantCount   int      `json:"applicants"`
	IsVerified       bool     `json:"isVerified"`
	IsTrusted        bool     `json:"isTrusted"`
	IsSaved          bool     `json:"isSaved"`
}

// RawApplicant is an applicant record as returned by GET /api/applicants.
// Field shapes follow the backend verbatim; normalization into a display
// model is the applicants package's job.
type RawApplicant struct {
	ID         string `json:"_id"`
	UserEmail  string `json:"user_email"`
	UploadedAt string `json:"uploaded_at"`
	AIScore    Score  `json:"ai_score"`
	Skills     string `json:"skills"`
	JobID      string `json:"job_id"`
	Size       int64  `json:"size"`
	Filename   string `json:"filename"`
}

// Score is an ATS score that the backend serves inconsistently as either a
// JSON number or a numeric string. Anything non-numeric decodes to 0.
type Score int

// UnmarshalJSON accepts numbers, numeric strings, and null.
func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = 0
		return nil
	}
	if len(raw) >= 2 && raw[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*s = 0
			return nil
		}
		raw = strings.TrimSpace(str)
	}
	// Backends have been seen sending floats; truncate like parseInt would.
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		raw = raw[:dot]
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*s = 0
		return nil
	}
	*s = Score(n)
	return nil
}

// AuthUser is the user object inside a signin/signup response.
type AuthUser struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// AuthResponse is the body of a successful POST /api/signin or /api/signup.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	User        *AuthUser `json:"user"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}
