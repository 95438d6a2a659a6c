package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cfg")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("backend.base_url", "http://api:8000"))

	val, ok := store.Get("backend.base_url")
	assert.True(t, ok)
	assert.Equal(t, "http://api:8000", val)
	assert.Equal(t, "http://api:8000", store.GetString("backend.base_url"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("chat.top_k", 8))
	require.NoError(t, store.Set("chat.show_trace", true))
	require.NoError(t, store.Set("backend.rate_limit", 2.5))

	assert.Equal(t, 8, store.GetInt("chat.top_k"))
	assert.True(t, store.GetBool("chat.show_trace"))
	assert.InDelta(t, 2.5, store.GetFloat("backend.rate_limit"), 0.0001)
	assert.InDelta(t, 8.0, store.GetFloat("chat.top_k"), 0.0001)

	// Mismatched types read as zero values.
	assert.Empty(t, store.GetString("chat.top_k"))
	assert.Zero(t, store.GetInt("chat.show_trace"))
	assert.False(t, store.GetBool("missing"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("backend.base_url", "http://api:8000"))
	require.NoError(t, store.Set("chat.top_k", 12))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[backend]")
	assert.Contains(t, string(raw), "[chat]")

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://api:8000", reopened.GetString("backend.base_url"))
	assert.Equal(t, 12, reopened.GetInt("chat.top_k"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("log.file", "/tmp/docfoundry.log"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := "[backend]\nbase_url = \"http://other:9000\"\nrate_limit = 3\n\n[chat]\nmode = \"summarize\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://other:9000", store.GetString("backend.base_url"))
	assert.InDelta(t, 3.0, store.GetFloat("backend.rate_limit"), 0.0001)
	assert.Equal(t, "summarize", store.GetString("chat.mode"))
}

func TestConfigStore_LoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestFlattenUnflatten(t *testing.T) {
	nested := map[string]any{
		"backend": map[string]any{"base_url": "u", "timeout_seconds": int64(3)},
		"top":     "v",
	}
	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{
		"backend.base_url":        "u",
		"backend.timeout_seconds": int64(3),
		"top":                     "v",
	}, flat)
	assert.Equal(t, nested, unflattenMap(flat))
}
