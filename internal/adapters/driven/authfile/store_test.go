package authfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

func TestLoad_MissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	captured := time.Now().Add(-time.Hour).Truncate(time.Second)
	in := &domain.Credential{
		SessionCookie: "cookie-value",
		CSRFToken:     "csrf-value",
		BaseURL:       "https://app.datadoghq.com",
		CapturedAt:    captured,
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "cookie-value", out.SessionCookie)
	assert.Equal(t, "csrf-value", out.CSRFToken)
	assert.Equal(t, "https://app.datadoghq.com", out.BaseURL)
	assert.WithinDuration(t, captured, out.CapturedAt, time.Second)
}

func TestLoad_DefaultBaseURL(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	in := &domain.Credential{SessionCookie: "c", CSRFToken: "t"}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBaseURL, out.BaseURL)
}

func TestLoad_IncompleteFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	// A file with only one of the two secrets is not configured.
	content := "session_cookie = \"cookie-only\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0600))

	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSave_RefusesIncompleteCredential(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(&domain.Credential{SessionCookie: "only-cookie"})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSave_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits not meaningful on windows")
	}

	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	in := &domain.Credential{SessionCookie: "c", CSRFToken: "t"}
	require.NoError(t, store.Save(in))

	info, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	in := &domain.Credential{SessionCookie: "c", CSRFToken: "t"}
	require.NoError(t, store.Save(in))

	require.NoError(t, store.Clear())
	_, err = os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-absent file is not an error.
	assert.NoError(t, store.Clear())
}

func TestSave_StampsCaptureTime(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	in := &domain.Credential{SessionCookie: "c", CSRFToken: "t"}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), out.CapturedAt, 5*time.Second)
}
