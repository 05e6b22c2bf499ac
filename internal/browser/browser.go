package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/korjavin/druglookup/internal/drug"
)

var (
	ErrEmptyQuery        = errors.New("empty drug name")
	ErrFieldsRequired    = errors.New("all fields required")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrEmptyUsername     = errors.New("username cannot be empty")
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrSearchUnavailable = errors.New("drug search failed")
)

// PartialDataNotice is shown when matches came back but interactions did not.
const PartialDataNotice = "Interaction data is unavailable right now."

// Message turns an error from the Browser into the text shown next to the
// form or as the page-level error card.
func Message(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyQuery):
		return "Please enter a drug name."
	case errors.Is(err, ErrFieldsRequired):
		return "All fields required"
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, ErrEmptyUsername):
		return "Username cannot be empty"
	case errors.Is(err, ErrNotLoggedIn):
		return "Please log in first"
	case errors.Is(err, ErrSearchUnavailable):
		return "Drug search is unavailable right now. Try another drug name or try again later."
	case errors.As(err, &apiErr):
		return apiErr.Message
	}
	return "Error: " + err.Error()
}

// API is the server surface the browser uses. *APIClient implements it.
type API interface {
	Lookup(ctx context.Context, name string) (*drug.Result, error)
	Signup(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Rename(ctx context.Context, newUsername string) (string, error)
	Logout(ctx context.Context) error
}

// Browser holds the session-local UI state: the logged-in user, the last
// result and the view state.
type Browser struct {
	api    API
	user   string
	result *drug.Result
	state  ViewState
}

func New(api API) *Browser {
	return &Browser{api: api, state: DefaultViewState()}
}

func (b *Browser) User() string         { return b.user }
func (b *Browser) State() ViewState     { return b.state }
func (b *Browser) Result() *drug.Result { return b.result }

// View renders the current state.
func (b *Browser) View() View {
	return Render(b.result, b.state)
}

// ValidateSignup checks the signup form before anything is sent and returns
// the trimmed username.
func ValidateSignup(username, password, confirm string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || confirm == "" {
		return "", ErrFieldsRequired
	}
	if password != confirm {
		return "", ErrPasswordMismatch
	}
	return username, nil
}

// ValidateLogin checks the login form and returns the trimmed username.
func ValidateLogin(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrFieldsRequired
	}
	return username, nil
}

// ValidateRename checks the rename form and returns the trimmed username.
func ValidateRename(newUsername string) (string, error) {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return "", ErrEmptyUsername
	}
	return newUsername, nil
}

func (b *Browser) Signup(ctx context.Context, username, password, confirm string) (string, error) {
	username, err := ValidateSignup(username, password, confirm)
	if err != nil {
		return "", err
	}
	return b.api.Signup(ctx, username, password)
}

func (b *Browser) Login(ctx context.Context, username, password string) error {
	username, err := ValidateLogin(username, password)
	if err != nil {
		return err
	}
	if _, err := b.api.Login(ctx, username, password); err != nil {
		return err
	}
	b.user = username
	return nil
}

func (b *Browser) RenameAccount(ctx context.Context, newUsername string) (string, error) {
	newUsername, err := ValidateRename(newUsername)
	if err != nil {
		return "", err
	}
	if b.user == "" {
		return "", ErrNotLoggedIn
	}
	msg, err := b.api.Rename(ctx, newUsername)
	if err != nil {
		return "", err
	}
	b.user = newUsername
	return msg, nil
}

// Logout forgets the user and every search result.
func (b *Browser) Logout(ctx context.Context) error {
	err := b.api.Logout(ctx)
	b.user = ""
	b.result = nil
	b.state = DefaultViewState()
	return err
}

// Search validates the query locally, fetches a new result and resets to
// page 1. On failure the previous result is kept.
func (b *Browser) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}

	res, err := b.api.Lookup(ctx, query)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return err
		}
		return fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	b.result = res
	b.state.Page = 1
	return nil
}

func (b *Browser) SetFilter(f Filter) {
	b.state.Filter = f
	b.state.Page = 1
}

func (b *Browser) SetSort(k SortKey) {
	b.state.Sort = k
	b.state.Page = 1
}

// GoToPage moves to page, clamped to the available pages.
func (b *Browser) GoToPage(page int) {
	var n int
	if b.result != nil {
		n = len(b.result.Matches)
	}
	b.state.Page = clamp(page, 1, max(PageCount(n), 1))
}
