package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/korjavin/druglookup/internal/accounts"
	"github.com/korjavin/druglookup/internal/auth"
	"github.com/korjavin/druglookup/internal/browser"
	"github.com/korjavin/druglookup/internal/drug"
	"github.com/korjavin/druglookup/internal/logging"
	"go.uber.org/zap"
)

// DrugLookup is implemented by *drug.Gateway.
type DrugLookup interface {
	Lookup(ctx context.Context, name string) (*drug.Result, error)
}

type Server struct {
	accounts       accounts.Store
	drugs          DrugLookup
	sessions       *auth.Sessions
	page           *browser.Page
	logger         *zap.Logger
	allowedOrigins []string
}

func New(accts accounts.Store, drugs DrugLookup, sessions *auth.Sessions, logger *zap.Logger, allowedOrigins []string) (*Server, error) {
	page, err := browser.NewPage()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		accounts:       accts,
		drugs:          drugs,
		sessions:       sessions,
		page:           page,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}, nil
}

// noCacheMiddleware adds headers to prevent caching
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Requests(s.logger))
	r.Use(middleware.Recoverer)

	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/drug", s.handleDrug)

		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.sessions.Middleware)
			r.Get("/me", s.handleMe)
			r.Post("/account/username", s.handleRenameAccount)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(noCacheMiddleware)
		r.Post("/signup", s.handleSignupForm)
		r.Post("/login", s.handleLoginForm)
		r.Post("/account/username", s.handleRenameForm)
		r.Post("/logout", s.handleLogoutForm)

		// Anything else is the UI entry point.
		r.Get("/*", s.handleIndex)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
