package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client talks to the remote job-board backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient swaps the underlying *http.Client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListJobs retrieves the job collection.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	const op = "list jobs"
	body, err := c.get(ctx, op, "/api/jobs", nil)
	if err != nil {
		return nil, err
	}
	if err := validatePayload(jobsSchema, body); err != nil {
		return nil, &APIError{Op: op, Cause: err}
	}
	var jobs []Job
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, &APIError{Op: op, Cause: fmt.Errorf("decoding response: %w", err)}
	}
	return jobs, nil
}

// ListApplicants retrieves the raw applicant records for one job.
func (c *Client) ListApplicants(ctx context.Context, jobID string) ([]RawApplicant, error) {
	const op = "list applicants"
	body, err := c.get(ctx, op, "/api/applicants", url.Values{"jobId": {jobID}})
	if err != nil {
		return nil, err
	}
	if err := validatePayload(applicantsSchema, body); err != nil {
		return nil, &APIError{Op: op, Cause: err}
	}
	var raw []RawApplicant
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{Op: op, Cause: fmt.Errorf("decoding response: %w", err)}
	}
	return raw, nil
}

// SignIn authenticates with the backend and returns the session payload.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.auth(ctx, "sign in", "/api/signin", signInRequest{Email: email, Password: password})
}

// SignUp creates an account and returns the session payload.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*AuthResponse, error) {
	return c.auth(ctx, "sign up", "/api/signup", signUpRequest{Email: email, Password: password, FullName: fullName})
}

func (c *Client) auth(ctx context.Context, op, path string, payload any) (*AuthResponse, error) {
	body, err := c.send(ctx, op, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	var resp AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{Op: op, Cause: fmt.Errorf("decoding response: %w", err)}
	}
	return &resp, nil
}

// UpdateApplicantStatus mirrors a reviewer status transition to the backend.
func (c *Client) UpdateApplicantStatus(ctx context.Context, applicantID, status string) error {
	op := "update applicant status"
	path := fmt.Sprintf("/api/applicants/%s/status", url.PathEscape(applicantID))
	_, err := c.send(ctx, op, http.MethodPatch, path, nil, statusUpdateRequest{Status: status})
	return err
}

// UploadResume submits a resume for one job as multipart form data with a
// bearer token. The file content is read fully before the request is issued.
func (c *Client) UploadResume(ctx context.Context, token, jobID, filename string, content io.Reader) error {
	const op = "upload resume"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return &APIError{Op: op, Cause: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return &APIError{Op: op, Cause: fmt.Errorf("reading resume: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return &APIError{Op: op, Cause: err}
	}

	endpoint := c.baseURL + "/upload-resume?" + url.Values{"job_id": {jobID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return &APIError{Op: op, Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = c.do(op, req)
	return err
}

// ResumeFileURL returns the backend URL serving an applicant's resume file.
func (c *Client) ResumeFileURL(applicantID string) string {
	return c.baseURL + "/api/applicant/file?" + url.Values{"applicantId": {applicantID}}.Encode()
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	return c.send(ctx, op, http.MethodGet, path, query, nil)
}

func (c *Client) send(ctx context.Context, op, method, path string, query url.Values, payload any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Op: op, Cause: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &APIError{Op: op, Cause: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(op, req)
}

// do executes the request and maps transport failures and non-2xx responses
// to *APIError, extracting the backend's {detail} message when present.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Op: op, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Cause: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(body),
		}
	}
	return body, nil
}

// extractDetail pulls the "detail" field out of an error body, falling back
// to empty when the body is not JSON or has no detail.
func extractDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
