package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/korjavin/druglookup/internal/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupTestDB creates a temporary test database
func setupTestDB(t *testing.T) (*Store, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := New(dbPath)
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		store.Close()
		os.Remove(dbPath)
	}

	return store, cleanup
}

func TestNew_UnopenablePath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no-such-dir", "test.db"))
	assert.Error(t, err)
}

func TestLoad_EmptyDatabase(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	list, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSave_ReplacesWholeList(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	first := []accounts.Account{
		{ID: "id-1", Username: "alice", PasswordHash: "h1"},
		{ID: "id-2", Username: "bob", PasswordHash: "h2"},
	}
	require.NoError(t, store.Save(ctx, first))

	second := []accounts.Account{
		{ID: "id-3", Username: "carol", PasswordHash: "h3"},
		{ID: "id-1", Username: "alice", PasswordHash: "h1"},
	}
	require.NoError(t, store.Save(ctx, second))

	list, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, list)
}

func TestSave_DuplicateUsernameRollsBack(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []accounts.Account{{ID: "id-1", Username: "alice", PasswordHash: "h1"}}))

	dup := []accounts.Account{
		{ID: "id-2", Username: "bob", PasswordHash: "h2"},
		{ID: "id-3", Username: "bob", PasswordHash: "h3"},
	}
	assert.Error(t, store.Save(ctx, dup), "expected primary key violation")

	list, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Username)
}

func TestAccountsServiceOnSQLite(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	svc := accounts.NewService(store, accounts.WithHashCost(bcrypt.MinCost))

	require.NoError(t, svc.CreateAccount(ctx, "alice", "pw1"))
	acc, err := svc.VerifyCredentials(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NoError(t, svc.RenameAccount(ctx, "alice", "bob"))

	bob, err := svc.Lookup(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, bob.ID)

	_, err = svc.Lookup(ctx, "alice")
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)

	byID, err := svc.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Username)
}
