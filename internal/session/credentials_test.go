package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRoundTrip(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "nested", "credentials.json"))

	require.NoError(t, store.Save(Credentials{Token: "tok1", Email: "a@x.com"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok1", loaded.Token)
	assert.Equal(t, "a@x.com", loaded.Email)
}

func TestCredentialLoadMissingFile(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Token)
}

func TestCredentialClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewCredentialStore(path)

	require.NoError(t, store.Save(Credentials{Token: "tok1"}))
	require.NoError(t, store.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing again must not fail.
	require.NoError(t, store.Clear())
}

func TestCredentialFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewCredentialStore(path)
	require.NoError(t, store.Save(Credentials{Token: "tok1"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
