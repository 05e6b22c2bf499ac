package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/korjavin/druglookup/internal/accounts"
	"github.com/korjavin/druglookup/internal/browser"
	"github.com/korjavin/druglookup/internal/drug"
	"go.uber.org/zap"
)

func (s *Server) handleDrug(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing `name` query parameter"})
		return
	}

	res, err := s.drugs.Lookup(r.Context(), name)
	if errors.Is(err, drug.ErrEmptyQuery) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing `name` query parameter"})
		return
	}
	if err != nil {
		s.logger.Error("drug lookup failed", zap.String("name", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Server error",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleIndex serves the UI. Query params: q, filter, sort, page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	state := browser.ViewState{
		Filter: browser.ParseFilter(q.Get("filter")),
		Sort:   browser.ParseSortKey(q.Get("sort")),
		Page:   1,
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		state.Page = p
	}

	data := browser.PageData{View: browser.Render(nil, state)}
	if acc := s.currentAccount(r); acc != nil {
		data.User = acc.Username
	}

	if q.Has("q") {
		query := strings.TrimSpace(q.Get("q"))
		res, err := s.lookupForPage(r, query)
		if err != nil {
			data.Error = browser.Message(err)
			data.View.Query = query
		} else {
			data.Searched = true
			data.View = browser.Render(res, state)
			if res.InteractionsError != "" {
				data.Notice = browser.PartialDataNotice
			}
		}
	}

	s.renderPage(w, http.StatusOK, data)
}

// currentAccount resolves the session cookie to a stored account, or nil.
func (s *Server) currentAccount(r *http.Request) *accounts.Account {
	id, ok := s.sessions.AccountID(r)
	if !ok {
		return nil
	}
	acc, err := s.accounts.Get(r.Context(), id)
	if err != nil {
		return nil
	}
	return acc
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data browser.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Render(w, data); err != nil {
		s.logger.Error("render index", zap.Error(err))
	}
}

func (s *Server) lookupForPage(r *http.Request, query string) (*drug.Result, error) {
	if query == "" {
		return nil, browser.ErrEmptyQuery
	}
	res, err := s.drugs.Lookup(r.Context(), query)
	if err != nil {
		s.logger.Warn("drug lookup failed", zap.String("name", query), zap.Error(err))
		return nil, browser.ErrSearchUnavailable
	}
	return res, nil
}
