package tokens

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/prism/internal/errors"
)

func TestStoreLoadCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": "1"}`), 0644))

	store := NewStore(path)
	_, ok := store.Document()
	assert.False(t, ok)

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, doc.Keys())
	assert.False(t, store.LoadedAt().IsZero())

	require.NoError(t, os.WriteFile(path, []byte(`{"b": "2"}`), 0644))

	cached, err := store.Load()
	require.NoError(t, err)
	assert.Same(t, doc, cached, "Load must not touch the disk once cached")

	reloaded, err := store.Reload()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, reloaded.Keys())
}

func TestStoreReloadFailureKeepsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": "1"}`), 0644))

	store := NewStore(path)
	doc, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"a": `), 0644))
	_, err = store.Reload()
	require.Error(t, err)
	assert.True(t, errors.IsMissingInput(err))

	cached, ok := store.Document()
	require.True(t, ok)
	assert.Same(t, doc, cached)
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, &errors.PrismError{Type: errors.ErrorTypeMissingInput, Code: errors.CodeTokensNotFound}))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1, 2]`), 0644))
	_, err = ReadFile(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &errors.PrismError{Type: errors.ErrorTypeMissingInput, Code: errors.CodeTokensDecode}))
}

func TestNewStoreDefaults(t *testing.T) {
	assert.Equal(t, DefaultPath, NewStore("").Path())

	doc := NewDocument().Set("a", String("1"))
	store := NewStoreFromDocument("x.json", doc)
	got, err := store.Load()
	require.NoError(t, err)
	assert.Same(t, doc, got)
}
