package applicants

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daniel/job-board/internal/backend"
)

func TestExtractNameFromEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{"dot separated", "john.doe@x.com", "John Doe"},
		{"mixed separators", "a_b-c@x.com", "A B C"},
		{"single token", "alice@x.com", "Alice"},
		{"already capitalized", "Bob@x.com", "Bob"},
		{"no at sign", "plainname", "Plainname"},
		{"consecutive separators", "a..b@x.com", "A B"},
		{"empty local part", "@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractNameFromEmail(tt.email))
		})
	}
}

func TestParseSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"trims and drops empties", "Go, , Rust ,", []string{"Go", "Rust"}},
		{"single skill", "Go", []string{"Go"}},
		{"empty string", "", nil},
		{"only separators", " , ,, ", nil},
		{"keeps inner spaces", "Distributed Systems, SQL", []string{"Distributed Systems", "SQL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSkills(tt.input))
		})
	}
}

func TestClassifyScore_Boundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected Status
	}{
		{100, StatusShortlisted},
		{80, StatusShortlisted},
		{79, StatusReviewed},
		{60, StatusReviewed},
		{59, StatusPending},
		{0, StatusPending},
		{-5, StatusPending},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.expected, ClassifyScore(tt.score), "score %d", tt.score)
	}
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("shortlisted")
	assert.True(t, ok)
	assert.Equal(t, StatusShortlisted, status)

	_, ok = ParseStatus("archived")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	raw := backend.RawApplicant{
		ID:         "a1",
		UserEmail:  "john.doe@x.com",
		UploadedAt: "2026-03-05T09:30:00Z",
		AIScore:    85,
		Skills:     "Go, Rust ,",
		JobID:      "j1",
		Size:       2048,
		Filename:   "cv.pdf",
	}

	a := Normalize(raw, "http://backend.local/api/applicant/file?applicantId=a1")
	assert.Equal(t, "John Doe", a.Name)
	assert.Equal(t, "john.doe@x.com", a.Email)
	assert.Equal(t, "3/5/2026", a.AppliedDate)
	assert.Equal(t, StatusShortlisted, a.Status)
	assert.Equal(t, []string{"Go", "Rust"}, a.Skills)
	assert.Equal(t, 85, a.AIScore)
	assert.Equal(t, int64(2048), a.FileSize)
	assert.Contains(t, a.ResumeURL, "applicantId=a1")
	assert.False(t, a.uploadedAt.IsZero())
}

func TestNormalize_UnparseableDatePassedThrough(t *testing.T) {
	raw := backend.RawApplicant{ID: "a1", UserEmail: "x@y.com", UploadedAt: "yesterday", JobID: "j1"}

	a := Normalize(raw, "")
	assert.Equal(t, "yesterday", a.AppliedDate)
	assert.True(t, a.uploadedAt.IsZero())
}

func TestNormalize_ZeroScorePending(t *testing.T) {
	raw := backend.RawApplicant{ID: "a1", UserEmail: "x@y.com", JobID: "j1"}

	a := Normalize(raw, "")
	assert.Equal(t, 0, a.AIScore)
	assert.Equal(t, StatusPending, a.Status)
}
