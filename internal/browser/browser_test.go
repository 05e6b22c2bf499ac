package browser

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/korjavin/druglookup/internal/drug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	result    *drug.Result
	lookupErr error
	loginErr  error
	renameErr error

	lookups []string
	signups []string
	renames []string
}

func (f *fakeAPI) Lookup(ctx context.Context, name string) (*drug.Result, error) {
	f.lookups = append(f.lookups, name)
	return f.result, f.lookupErr
}

func (f *fakeAPI) Signup(ctx context.Context, username, password string) (string, error) {
	f.signups = append(f.signups, username)
	return "Account created! Please login.", nil
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (string, error) {
	return "Logged in", f.loginErr
}

func (f *fakeAPI) Rename(ctx context.Context, newUsername string) (string, error) {
	f.renames = append(f.renames, newUsername)
	return "Username updated!", f.renameErr
}

func (f *fakeAPI) Logout(ctx context.Context) error { return nil }

func aspirinResult() *drug.Result {
	return &drug.Result{
		Query: "aspirin",
		Matches: []drug.Match{
			{Name: "aspirin", RxCUI: "1191"},
			{Name: "aspirin 81 MG Oral Tablet", RxCUI: "243670"},
			{Name: "aspirin 325 MG Oral Tablet", RxCUI: "198466"},
		},
		Interactions: []drug.InteractionPair{
			pair("ibuprofen", "Low"),
			pair("warfarin", "High"),
		},
	}
}

func TestSearch_EmptyQueryNeverCallsServer(t *testing.T) {
	api := &fakeAPI{}
	b := New(api)

	err := b.Search(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, "Please enter a drug name.", Message(err))
	assert.Empty(t, api.lookups)
}

func TestSearch_SeveritySortRendersHighFirst(t *testing.T) {
	b := New(&fakeAPI{result: aspirinResult()})
	require.NoError(t, b.Search(context.Background(), "aspirin"))

	b.SetFilter(FilterAll)
	b.SetSort(SortSeverity)
	v := b.View()

	assert.Len(t, v.Matches, 3)
	require.Len(t, v.Interactions, 2)
	assert.Equal(t, "High", v.Interactions[0].Severity)
	assert.Equal(t, "Low", v.Interactions[1].Severity)
}

func TestPageResets(t *testing.T) {
	res := resultWithMatches(35)
	b := New(&fakeAPI{result: res})
	ctx := context.Background()

	require.NoError(t, b.Search(ctx, "q"))
	b.GoToPage(3)
	assert.Equal(t, 3, b.State().Page)

	b.SetFilter(FilterHigh)
	assert.Equal(t, 1, b.State().Page)

	b.GoToPage(2)
	b.SetSort(SortName)
	assert.Equal(t, 1, b.State().Page)

	b.GoToPage(4)
	require.NoError(t, b.Search(ctx, "q"))
	assert.Equal(t, 1, b.State().Page)

	b.GoToPage(42)
	assert.Equal(t, 4, b.State().Page)
}

func TestSearch_UpstreamFailureKeepsPreviousResult(t *testing.T) {
	api := &fakeAPI{result: aspirinResult()}
	b := New(api)
	ctx := context.Background()
	require.NoError(t, b.Search(ctx, "aspirin"))

	api.lookupErr = &APIError{Status: http.StatusInternalServerError, Message: "Server error"}
	err := b.Search(ctx, "warfarin")
	require.ErrorIs(t, err, ErrSearchUnavailable)
	assert.Contains(t, Message(err), "unavailable")
	assert.Equal(t, "aspirin", b.Result().Query)

	api.lookupErr = errors.New("dial tcp: connection refused")
	assert.ErrorIs(t, b.Search(ctx, "warfarin"), ErrSearchUnavailable)
}

func TestSignup_ClientValidation(t *testing.T) {
	api := &fakeAPI{}
	b := New(api)
	ctx := context.Background()

	_, err := b.Signup(ctx, "alice", "", "")
	assert.Equal(t, "All fields required", Message(err))

	_, err = b.Signup(ctx, "alice", "pw1", "pw2")
	assert.Equal(t, "Passwords do not match", Message(err))
	assert.Empty(t, api.signups)

	msg, err := b.Signup(ctx, " alice ", "pw1", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Account created! Please login.", msg)
	assert.Equal(t, []string{"alice"}, api.signups)
}

func TestLoginRenameLogout(t *testing.T) {
	api := &fakeAPI{result: aspirinResult()}
	b := New(api)
	ctx := context.Background()

	_, err := b.RenameAccount(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, b.Login(ctx, "alice", "pw1"))
	assert.Equal(t, "alice", b.User())

	_, err = b.RenameAccount(ctx, " ")
	assert.Equal(t, "Username cannot be empty", Message(err))

	api.renameErr = &APIError{Status: http.StatusBadRequest, Message: "Username already taken"}
	_, err = b.RenameAccount(ctx, "carol")
	assert.Equal(t, "Username already taken", Message(err))
	assert.Equal(t, "alice", b.User())

	api.renameErr = nil
	_, err = b.RenameAccount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", b.User())

	require.NoError(t, b.Search(ctx, "aspirin"))
	require.NoError(t, b.Logout(ctx))
	assert.Empty(t, b.User())
	assert.Nil(t, b.Result())
	assert.Equal(t, DefaultViewState(), b.State())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := New(&fakeAPI{loginErr: &APIError{Status: http.StatusBadRequest, Message: "Invalid username or password"}})

	err := b.Login(context.Background(), "alice", "wrong")
	assert.Equal(t, "Invalid username or password", Message(err))
	assert.Empty(t, b.User())
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		run     func() (string, error)
		want    string
		wantErr error
	}{
		{"signup ok", func() (string, error) { return ValidateSignup(" alice ", "pw", "pw") }, "alice", nil},
		{"signup blank user", func() (string, error) { return ValidateSignup("  ", "pw", "pw") }, "", ErrFieldsRequired},
		{"signup no confirm", func() (string, error) { return ValidateSignup("alice", "pw", "") }, "", ErrFieldsRequired},
		{"signup mismatch", func() (string, error) { return ValidateSignup("alice", "pw1", "pw2") }, "", ErrPasswordMismatch},
		{"login ok", func() (string, error) { return ValidateLogin("alice ", "pw") }, "alice", nil},
		{"login no password", func() (string, error) { return ValidateLogin("alice", "") }, "", ErrFieldsRequired},
		{"rename ok", func() (string, error) { return ValidateRename(" bob") }, "bob", nil},
		{"rename blank", func() (string, error) { return ValidateRename(" ") }, "", ErrEmptyUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
