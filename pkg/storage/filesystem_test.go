package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("state/events.json", []byte(`{"schemaVersion":1}`))
	require.NoError(t, err)
	assert.Equal(t, "state/events.json", name)

	data, err := store.Read("state/events.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"schemaVersion":1}`, string(data))

	_, err = store.SaveStream("state/events.json", strings.NewReader(`{"schemaVersion":2}`))
	require.NoError(t, err)
	data, err = store.Read("state/events.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"schemaVersion":2}`, string(data))

	require.NoError(t, store.Delete("state/events.json"))
	require.NoError(t, store.Delete("state/events.json"))
	_, err = store.Read("state/events.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../outside.json", "/etc/passwd", ""} {
		_, err := store.Save(name, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidPath, name)
	}
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.csv", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save("fresh.csv", []byte("b"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, err = store.Read("fresh.csv")
	assert.NoError(t, err)
}
