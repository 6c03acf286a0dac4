package credentials_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-session-client/credentials"
	"github.com/jrsteele09/go-session-client/users"
)

var testProfile = &users.Profile{
	ID:        "user-1",
	Email:     "john.doe@example.com",
	FirstName: "John",
	LastName:  "Doe",
	Role:      users.RoleClient,
}

func TestStoreSaveAndLoad(t *testing.T) {
	storage := credentials.NewInMemoryStorage()
	store := credentials.NewStore(storage)

	pair := credentials.Pair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	require.NoError(t, store.Save(pair, testProfile))
	require.Equal(t, 3, storage.Len())

	loadedPair, loadedProfile, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, pair, loadedPair)
	require.Equal(t, testProfile, loadedProfile)
}

func TestStoreClear(t *testing.T) {
	storage := credentials.NewInMemoryStorage()
	store := credentials.NewStore(storage)

	require.NoError(t, store.Save(credentials.Pair{AccessToken: "a", RefreshToken: "r"}, testProfile))
	require.NoError(t, store.Clear())
	require.Equal(t, 0, storage.Len())

	_, _, ok := store.Load()
	require.False(t, ok)
}

func TestStoreLoadEmpty(t *testing.T) {
	store := credentials.NewStore(credentials.NewInMemoryStorage())

	_, _, ok := store.Load()
	require.False(t, ok)
}

func TestStoreLoadClearsPartialSet(t *testing.T) {
	storage := credentials.NewInMemoryStorage()
	store := credentials.NewStore(storage)

	// A token without its companion entries must never surface as a
	// session.
	require.NoError(t, storage.Set(credentials.AccessTokenKey, "orphaned"))

	_, _, ok := store.Load()
	require.False(t, ok)
	require.Equal(t, 0, storage.Len())
}

func TestStoreLoadClearsCorruptProfile(t *testing.T) {
	storage := credentials.NewInMemoryStorage()
	store := credentials.NewStore(storage)

	require.NoError(t, storage.Set(credentials.AccessTokenKey, "a"))
	require.NoError(t, storage.Set(credentials.RefreshTokenKey, "r"))
	require.NoError(t, storage.Set(credentials.UserDataKey, "{not json"))

	_, _, ok := store.Load()
	require.False(t, ok)
	require.Equal(t, 0, storage.Len())
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	storage, err := credentials.NewFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, storage.Set("access_token", "a"))
	require.NoError(t, storage.Set("refresh_token", "r"))

	// A fresh instance reads the persisted document.
	reopened, err := credentials.NewFileStorage(path)
	require.NoError(t, err)
	value, ok := reopened.Get("access_token")
	require.True(t, ok)
	require.Equal(t, "a", value)

	require.NoError(t, reopened.Remove("access_token"))
	_, ok = reopened.Get("access_token")
	require.False(t, ok)

	require.NoError(t, reopened.Remove("never-stored"))
}

func TestFileStorageRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	storage, err := credentials.NewFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, storage.Set("k", "v"))

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	_, err = credentials.NewFileStorage(path)
	require.Error(t, err)
}
