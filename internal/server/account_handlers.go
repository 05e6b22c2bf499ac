package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/korjavin/druglookup/internal/accounts"
	"github.com/korjavin/druglookup/internal/auth"
	"go.uber.org/zap"
)

type accountResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, accountResponse{Success: false, Message: msg})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	err := s.accounts.CreateAccount(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, accounts.ErrDuplicateUsername):
		fail(w, http.StatusBadRequest, "Username already exists")
		return
	case errors.Is(err, accounts.ErrValidation):
		fail(w, http.StatusBadRequest, "Username and password are required")
		return
	case err != nil:
		s.logger.Error("create account", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.logger.Info("account created", zap.String("username", strings.TrimSpace(req.Username)))
	writeJSON(w, http.StatusOK, accountResponse{Success: true, Message: "Account created! Please login."})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	acc, err := s.accounts.VerifyCredentials(r.Context(), username, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		fail(w, http.StatusBadRequest, "Invalid username or password")
		return
	}
	if err != nil {
		s.logger.Error("verify credentials", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := s.sessions.SetCookie(w, acc.ID); err != nil {
		s.logger.Error("issue session", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{Success: true, Message: "Login successful", Username: acc.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, accountResponse{Success: true, Message: "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	acc, err := s.accounts.Get(r.Context(), auth.AccountIDFromContext(r.Context()))
	if err != nil {
		s.sessions.ClearCookie(w)
		fail(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{Success: true, Username: acc.Username})
}

func (s *Server) handleRenameAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewUsername string `json:"newUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	acc, err := s.accounts.Get(r.Context(), auth.AccountIDFromContext(r.Context()))
	if err != nil {
		s.sessions.ClearCookie(w)
		fail(w, http.StatusUnauthorized, "Current user not found")
		return
	}
	newName := strings.TrimSpace(req.NewUsername)

	err = s.accounts.RenameAccount(r.Context(), acc.Username, newName)
	switch {
	case errors.Is(err, accounts.ErrValidation):
		fail(w, http.StatusBadRequest, "Username cannot be empty")
		return
	case errors.Is(err, accounts.ErrDuplicateUsername):
		fail(w, http.StatusBadRequest, "Username already taken")
		return
	case errors.Is(err, accounts.ErrAccountNotFound):
		s.sessions.ClearCookie(w)
		fail(w, http.StatusUnauthorized, "Current user not found")
		return
	case err != nil:
		s.logger.Error("rename account", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := s.sessions.SetCookie(w, acc.ID); err != nil {
		s.logger.Error("issue session", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Server error")
		return
	}
	s.logger.Info("account renamed", zap.String("id", acc.ID), zap.String("from", acc.Username), zap.String("to", newName))
	writeJSON(w, http.StatusOK, accountResponse{Success: true, Message: "Username updated!", Username: newName})
}
