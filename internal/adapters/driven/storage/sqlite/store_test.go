package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, DBFile)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")

	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	for _, table := range []string{"kv", "runs"} {
		var tableExists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&tableExists)
		require.NoError(t, err)
		assert.Equal(t, 1, tableExists, "table %s should exist", table)
	}
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.TokenStore().Save(context.Background(), domain.TokenKey, "jwt"))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	val, err := second.TokenStore().Load(context.Background(), domain.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "jwt", val)
}

func TestStore_MigrateFailureRollsBack(t *testing.T) {
	store := setupTestStore(t)

	bad := fstest.MapFS{
		"002_broken.up.sql": &fstest.MapFile{Data: []byte("CREATE TABLE broken (;")},
	}
	err := store.migrate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.up.sql")

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 2").Scan(&count))
	assert.Zero(t, count)
}

func TestStore_Close(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

// ==================== TokenStore Tests ====================

func TestTokenStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	tokens := setupTestStore(t).TokenStore()

	val, err := tokens.Load(ctx, domain.TokenKey)
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, tokens.Save(ctx, domain.TokenKey, "first"))
	require.NoError(t, tokens.Save(ctx, domain.TokenKey, "second"))

	val, err = tokens.Load(ctx, domain.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "second", val)

	require.NoError(t, tokens.Delete(ctx, domain.TokenKey))
	require.NoError(t, tokens.Delete(ctx, domain.TokenKey))

	val, err = tokens.Load(ctx, domain.TokenKey)
	require.NoError(t, err)
	assert.Empty(t, val)
}

// ==================== RunLog Tests ====================

func TestRunLog_AppendAndList(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunLog()

	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, runs.Append(ctx, domain.RunRecord{
			RunID:     id,
			Message:   "q" + id,
			Answer:    "a" + id,
			Scope:     domain.ScopeSelection{ProjectID: "p1", KBID: "kb1"},
			Citations: i,
			CreatedAt: int64(1700000000 + i),
		}))
	}

	all, err := runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r3", all[0].RunID)
	assert.Equal(t, "r1", all[2].RunID)
	assert.Equal(t, domain.ScopeSelection{ProjectID: "p1", KBID: "kb1"}, all[0].Scope)
	assert.Equal(t, 2, all[0].Citations)
	assert.Equal(t, int64(1700000002), all[0].CreatedAt)

	recent, err := runs.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, []string{"r3", "r2"}, []string{recent[0].RunID, recent[1].RunID})
}

func TestRunLog_Empty(t *testing.T) {
	runs := setupTestStore(t).RunLog()

	list, err := runs.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRunLog_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.RunLog().Append(context.Background(), domain.RunRecord{RunID: "r1", Message: "m"}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	list, err := reopened.RunLog().List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m", list[0].Message)
	_, statErr := os.Stat(reopened.Path())
	assert.NoError(t, statErr)
}
