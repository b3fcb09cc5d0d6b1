package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/daniel/job-board/internal/backend"
	"github.com/daniel/job-board/internal/catalog"
	"github.com/daniel/job-board/internal/config"
	"github.com/daniel/job-board/internal/dashboard"
	"github.com/daniel/job-board/internal/server/ratelimit"
	"github.com/daniel/job-board/internal/session"
	"github.com/daniel/job-board/internal/upload"
)

// maxResumeBytes caps the multipart body accepted on resume uploads.
const maxResumeBytes = 16 << 20

// Server represents the HTTP gateway
type Server struct {
	httpServer  *http.Server
	client      *backend.Client
	store       *session.Store
	catalog     *catalog.Catalog
	dash        *dashboard.Dashboard
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	uploadOpts  []upload.Option
}

// Option configures a Server beyond its environment config.
type Option func(*Server)

// WithUploadOptions forwards options to every upload flow the server
// creates, used by tests to inject a fast clock.
func WithUploadOptions(opts ...upload.Option) Option {
	return func(s *Server) { s.uploadOpts = opts }
}

// New creates a new gateway instance over the configured backend.
func New(cfg config.Config, opts ...Option) (*Server, error) {
	client, err := backend.NewClient(cfg.BackendURL, backend.WithTimeout(cfg.HTTPTimeout))
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}

	store := session.NewStore(client, cfg.StateFile)
	store.Hydrate()

	s := &Server{
		client:      client,
		store:       store,
		catalog:     catalog.New(client),
		dash:        dashboard.New(client),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // uploads wait out the full phase sequence
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler builds the routed and middleware-wrapped handler. Exposed so
// tests can drive the gateway through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Session endpoints
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.handleSession)

	// Public job browsing and resume submission
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("POST /api/jobs/{id}/select", s.handleSelectJob)
	mux.HandleFunc("POST /api/jobs/{id}/resume", s.handleUploadResume)

	// Admin dashboard
	mux.HandleFunc("GET /api/dashboard/applicants", s.requireAdmin(s.handleDashboardApplicants))
	mux.HandleFunc("PATCH /api/applicants/{id}/status", s.requireAdmin(s.handleUpdateStatus))

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Gateway starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Println("Gateway stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// requireAdmin applies the access-control contract to admin views:
// unauthenticated callers are sent back to login, authenticated non-admins
// to the main page.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dest, ok := s.store.Authorize(session.RoleAdmin)
		if !ok {
			status := http.StatusForbidden
			message := "admin access required"
			if dest == session.DestLogin {
				status = http.StatusUnauthorized
				message = "authentication required"
			}
			s.jsonResponse(w, status, map[string]string{
				"error":    message,
				"redirect": string(dest),
			})
			return
		}
		next(w, r)
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response with the status derived from
// the error's type.
func (s *Server) errorResponse(w http.ResponseWriter, err error, fallback string) {
	s.jsonResponse(w, HTTPStatus(err), map[string]string{
		"error": backend.ErrorDetail(err, fallback),
	})
}

// decodeAndValidate decodes a JSON request body into dst and runs struct
// validation, converting the first field failure into an ErrValidation.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &ErrValidation{
				Field:   fieldErrs[0].Field(),
				Message: "failed " + fieldErrs[0].Tag() + " validation",
			}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// Uses the IP from RemoteAddr; X-Forwarded-For is deliberately ignored
// since the gateway fronts a single browser, not a proxy chain.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d", info.Limit, info.Remaining)

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	})
}
