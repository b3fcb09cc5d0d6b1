// Package session holds the authenticated user record, persists it across
// process restarts, and applies the access-control contract for protected
// views. The store is an explicit object with an init/hydrate/teardown
// lifecycle; nothing here is global.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/daniel/job-board/internal/backend"
)

// User is the authenticated user record.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RoleAdmin gates the admin dashboard.
const RoleAdmin = "admin"

// Destination names the view a caller should land on after an operation.
type Destination string

// Destinations signalled by the store.
const (
	DestMain           Destination = "main"
	DestLogin          Destination = "login"
	DestAdminDashboard Destination = "admin-dashboard"
)

// AuthError represents a failed login, signup, or a missing/rejected token.
type AuthError struct {
	Op    string
	Cause error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("auth: %s failed", e.Op)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// state is what gets persisted to the client state file. It mirrors what the
// original UI kept in browser storage: token, user record, the display name
// chosen at signup, and the applied-job markers.
type state struct {
	AccessToken    string   `json:"access_token,omitempty"`
	User           *User    `json:"user,omitempty"`
	RememberedName string   `json:"user_name,omitempty"`
	AppliedJobIDs  []string `json:"applied_job_ids,omitempty"`
}

// Store owns the session state. Safe for concurrent use.
type Store struct {
	client *backend.Client
	path   string

	mu    sync.Mutex
	state state
}

// NewStore creates a store persisting to path. Call Hydrate to restore a
// previous session.
func NewStore(client *backend.Client, path string) *Store {
	return &Store{client: client, path: path}
}

// Hydrate restores the session from the state file. A missing or malformed
// file yields an unauthenticated store; Hydrate never fails the caller.
// A restored token that is a JWT with an elapsed exp claim is discarded along
// with the user record (the backend would reject it anyway).
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var restored state
	if err := json.Unmarshal(data, &restored); err != nil {
		log.Printf("session: ignoring malformed state file %s: %v", s.path, err)
		return
	}
	if restored.AccessToken != "" && tokenExpired(restored.AccessToken) {
		log.Printf("session: stored token expired, starting unauthenticated")
		restored.AccessToken = ""
		restored.User = nil
	}
	s.state = restored
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The signing key belongs to the backend, so only the claims are inspected;
// opaque (non-JWT) tokens are kept and left for the backend to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Login authenticates against the backend, persists the session, and returns
// the destination for the caller: the admin dashboard for admins, the main
// view for everyone else. On failure the persisted session is untouched.
func (s *Store) Login(ctx context.Context, email, password string) (Destination, error) {
	resp, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return DestLogin, &AuthError{Op: "login", Cause: err}
	}
	return s.commitSession(resp, email, "")
}

// Signup creates an account, persists the resulting session the same way as
// Login, and remembers the chosen display name for later logins.
func (s *Store) Signup(ctx context.Context, email, password, name string) (Destination, error) {
	resp, err := s.client.SignUp(ctx, email, password, name)
	if err != nil {
		return DestLogin, &AuthError{Op: "signup", Cause: err}
	}
	return s.commitSession(resp, email, name)
}

// commitSession extracts the user record from an auth response, falling back
// field by field: name from the remembered signup name or the email
// local-part, role to "user", email to what the caller typed.
func (s *Store) commitSession(resp *backend.AuthResponse, email, signupName string) (Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := User{Email: email, Role: "user"}
	if resp.User != nil {
		if resp.User.Email != "" {
			user.Email = resp.User.Email
		}
		if resp.User.Role != "" {
			user.Role = resp.User.Role
		}
		user.Name = resp.User.FullName
	}
	if user.Name == "" {
		user.Name = signupName
	}
	if user.Name == "" {
		user.Name = s.state.RememberedName
	}
	if user.Name == "" {
		user.Name = localPart(email)
	}

	s.state.AccessToken = resp.AccessToken
	s.state.User = &user
	if signupName != "" {
		s.state.RememberedName = signupName
	}
	if err := s.persist(); err != nil {
		return DestLogin, &AuthError{Op: "persist session", Cause: err}
	}

	if user.Role == RoleAdmin {
		return DestAdminDashboard, nil
	}
	return DestMain, nil
}

// Logout clears all persisted session state, applied markers included, and
// returns the caller to the main view.
func (s *Store) Logout() (Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return DestMain, fmt.Errorf("clearing session state: %w", err)
	}
	return DestMain, nil
}

// User returns the authenticated user, or nil.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// Token returns the persisted access token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// Authorize applies the access-control contract for a protected view: a
// non-nil user with the required role is allowed; unauthenticated callers are
// sent to the login view, authenticated-but-wrong-role callers to the main
// view.
func (s *Store) Authorize(role string) (Destination, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.User == nil {
		return DestLogin, false
	}
	if s.state.User.Role != role {
		return DestMain, false
	}
	return "", true
}

// MarkApplied durably records that the current user applied to jobID, so the
// upload control stays disabled across restarts.
func (s *Store) MarkApplied(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.state.AppliedJobIDs {
		if id == jobID {
			return nil
		}
	}
	s.state.AppliedJobIDs = append(s.state.AppliedJobIDs, jobID)
	return s.persist()
}

// HasApplied reports whether the current user already applied to jobID.
func (s *Store) HasApplied(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.state.AppliedJobIDs {
		if id == jobID {
			return true
		}
	}
	return false
}

// persist writes the state file. Callers hold s.mu.
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// localPart returns the part of an email address before the @.
func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}
