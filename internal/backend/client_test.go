package backend

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend URL")
}

func TestListJobs_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"j1","title":"Backend Engineer","company":"Acme","applicants":12,"isVerified":true},
			{"_id":"j2","title":"SRE","company":"Globex"}
		]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	jobs, err := client.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "j1", jobs[0].ID)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, 12, jobs[0].ApplicantCount)
	assert.True(t, jobs[0].IsVerified)
}

func TestListJobs_ContractViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Missing required "title" field.
		_, _ = w.Write([]byte(`[{"_id":"j1","company":"Acme"}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.ListJobs(context.Background())
	require.Error(t, err)

	var contractErr *ContractError
	assert.ErrorAs(t, err, &contractErr)
	assert.Contains(t, err.Error(), "title")
}

func TestListJobs_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.ListJobs(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestListApplicants_ScopedToJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/applicants", r.URL.Path)
		assert.Equal(t, "job-42", r.URL.Query().Get("jobId"))
		_, _ = w.Write([]byte(`[
			{"_id":"a1","user_email":"john.doe@x.com","uploaded_at":"2026-03-01T10:00:00Z","ai_score":"85","skills":"Go, Rust","job_id":"job-42","size":2048,"filename":"cv.pdf"},
			{"_id":"a2","user_email":"a_b@x.com","ai_score":62.7,"job_id":"job-42"}
		]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	raw, err := client.ListApplicants(context.Background(), "job-42")
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, Score(85), raw[0].AIScore, "string score should decode")
	assert.Equal(t, Score(62), raw[1].AIScore, "float score should truncate")
	assert.Equal(t, int64(2048), raw[0].Size)
}

func TestScore_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Score
	}{
		{"plain number", `77`, 77},
		{"numeric string", `"91"`, 91},
		{"float", `59.9`, 59},
		{"float string", `"59.9"`, 59},
		{"garbage string", `"n/a"`, 0},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Score
			err := json.Unmarshal([]byte(tt.input), &s)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestSignIn_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/signin", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jane@x.com", req["email"])
		assert.Equal(t, "hunter22", req["password"])

		_, _ = w.Write([]byte(`{"access_token":"tok-1","user":{"email":"jane@x.com","full_name":"Jane Roe","role":"admin"}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	resp, err := client.SignIn(context.Background(), "jane@x.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.AccessToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestSignIn_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid credentials"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.SignIn(context.Background(), "jane@x.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))
	assert.Equal(t, "invalid credentials", ErrorDetail(err, "fallback"))
}

func TestUploadResume_MultipartAndBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload-resume", r.URL.Path)
		assert.Equal(t, "job-7", r.URL.Query().Get("job_id"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "cv.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.UploadResume(context.Background(), "tok-1", "job-7", "cv.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
}

func TestUploadResume_FailureDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"resume already submitted"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.UploadResume(context.Background(), "tok-1", "job-7", "cv.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, "resume already submitted", ErrorDetail(err, ""))
}

func TestUpdateApplicantStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/applicants/a1/status", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Shortlisted", req["status"])

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	require.NoError(t, client.UpdateApplicantStatus(context.Background(), "a1", "Shortlisted"))
}

func TestResumeFileURL(t *testing.T) {
	client, err := NewClient("http://backend.local")
	require.NoError(t, err)
	assert.Equal(t, "http://backend.local/api/applicant/file?applicantId=a1", client.ResumeFileURL("a1"))
}
