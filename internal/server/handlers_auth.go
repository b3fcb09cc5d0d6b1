package server

import (
	"net/http"

	"github.com/daniel/job-board/internal/session"
)

// loginRequest is the body for POST /api/auth/login
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// signupRequest is the body for POST /api/auth/signup
type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// sessionResponse is returned by the session endpoints
type sessionResponse struct {
	User     *session.User       `json:"user"`
	Redirect session.Destination `json:"redirect,omitempty"`
}

// handleLogin signs the user in against the backend and persists the
// session. A successful admin login redirects to the dashboard.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err, "invalid login request")
		return
	}

	dest, err := s.store.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.errorResponse(w, err, "Login failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, sessionResponse{User: s.store.User(), Redirect: dest})
}

// handleSignup registers a new account and signs it in.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err, "invalid signup request")
		return
	}

	dest, err := s.store.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.errorResponse(w, err, "Signup failed")
		return
	}

	s.jsonResponse(w, http.StatusCreated, sessionResponse{User: s.store.User(), Redirect: dest})
}

// handleLogout clears the persisted session.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	dest, err := s.store.Logout()
	if err != nil {
		s.errorResponse(w, err, "Logout failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionResponse{Redirect: dest})
}

// handleSession reports who is signed in; user is null when nobody is.
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, sessionResponse{User: s.store.User()})
}
