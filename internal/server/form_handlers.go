package server

import (
	"errors"
	"net/http"

	"github.com/korjavin/druglookup/internal/accounts"
	"github.com/korjavin/druglookup/internal/browser"
	"go.uber.org/zap"
)

// HTML form counterparts of the /api account endpoints. Failures re-render
// the entry page with the message; successful login, rename and logout
// redirect back to it.

func (s *Server) formFail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := browser.PageData{View: browser.Render(nil, browser.DefaultViewState()), AuthError: msg}
	if acc := s.currentAccount(r); acc != nil {
		data.User = acc.Username
	}
	s.renderPage(w, status, data)
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.formFail(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	password := r.PostForm.Get("password")
	username, err := browser.ValidateSignup(r.PostForm.Get("username"), password, r.PostForm.Get("confirm"))
	if err != nil {
		s.formFail(w, r, http.StatusBadRequest, browser.Message(err))
		return
	}

	err = s.accounts.CreateAccount(r.Context(), username, password)
	switch {
	case errors.Is(err, accounts.ErrDuplicateUsername):
		s.formFail(w, r, http.StatusBadRequest, "Username already exists")
		return
	case errors.Is(err, accounts.ErrValidation):
		s.formFail(w, r, http.StatusBadRequest, browser.Message(browser.ErrFieldsRequired))
		return
	case err != nil:
		s.logger.Error("create account", zap.Error(err))
		s.formFail(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	s.logger.Info("account created", zap.String("username", username))
	s.renderPage(w, http.StatusOK, browser.PageData{
		View:     browser.Render(nil, browser.DefaultViewState()),
		AuthInfo: "Account created! Please login.",
	})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.formFail(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	password := r.PostForm.Get("password")
	username, err := browser.ValidateLogin(r.PostForm.Get("username"), password)
	if err != nil {
		s.formFail(w, r, http.StatusBadRequest, browser.Message(err))
		return
	}

	acc, err := s.accounts.VerifyCredentials(r.Context(), username, password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		s.formFail(w, r, http.StatusBadRequest, "Invalid username or password")
		return
	}
	if err != nil {
		s.logger.Error("verify credentials", zap.Error(err))
		s.formFail(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	if err := s.sessions.SetCookie(w, acc.ID); err != nil {
		s.logger.Error("issue session", zap.Error(err))
		s.formFail(w, r, http.StatusInternalServerError, "Server error")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRenameForm(w http.ResponseWriter, r *http.Request) {
	acc := s.currentAccount(r)
	if acc == nil {
		s.sessions.ClearCookie(w)
		s.formFail(w, r, http.StatusUnauthorized, browser.Message(browser.ErrNotLoggedIn))
		return
	}
	if err := r.ParseForm(); err != nil {
		s.formFail(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	newName, err := browser.ValidateRename(r.PostForm.Get("newUsername"))
	if err != nil {
		s.formFail(w, r, http.StatusBadRequest, browser.Message(err))
		return
	}

	err = s.accounts.RenameAccount(r.Context(), acc.Username, newName)
	switch {
	case errors.Is(err, accounts.ErrValidation):
		s.formFail(w, r, http.StatusBadRequest, browser.Message(browser.ErrEmptyUsername))
		return
	case errors.Is(err, accounts.ErrDuplicateUsername):
		s.formFail(w, r, http.StatusBadRequest, "Username already taken")
		return
	case errors.Is(err, accounts.ErrAccountNotFound):
		s.sessions.ClearCookie(w)
		s.formFail(w, r, http.StatusUnauthorized, "Current user not found")
		return
	case err != nil:
		s.logger.Error("rename account", zap.Error(err))
		s.formFail(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	s.logger.Info("account renamed", zap.String("id", acc.ID), zap.String("from", acc.Username), zap.String("to", newName))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogoutForm(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
