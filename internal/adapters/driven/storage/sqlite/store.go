package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docfoundry/docfoundry-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
)

// DBFile is the database file name inside the data directory.
const DBFile = "docfoundry.db"

// Store is a unified SQLite-based storage that provides access to
// the store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docfoundry/data/docfoundry.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docfoundry", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)

	// WAL lets the TUI and a CLI invocation share the file.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TokenStore returns the token store backed by the kv table.
func (s *Store) TokenStore() *TokenStore {
	return &TokenStore{store: s}
}

// RunLog returns the run log backed by the runs table.
func (s *Store) RunLog() *RunLog {
	return &RunLog{store: s}
}

// migrate applies every *.up.sql newer than the recorded version, each in
// its own transaction together with its version row.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Token Store ====================

// TokenStore implements driven.TokenStore on the kv table.
type TokenStore struct {
	store *Store
}

var _ driven.TokenStore = (*TokenStore)(nil)

// Load returns the value stored under key, or "" if there is none.
func (t *TokenStore) Load(ctx context.Context, key string) (string, error) {
	var value string
	err := t.store.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", key, err)
	}
	return value, nil
}

// Save stores value under key.
func (t *TokenStore) Save(ctx context.Context, key, value string) error {
	_, err := t.store.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (t *TokenStore) Delete(ctx context.Context, key string) error {
	if _, err := t.store.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// ==================== Run Log ====================

// RunLog implements driven.RunLog on the runs table.
type RunLog struct {
	store *Store
}

var _ driven.RunLog = (*RunLog)(nil)

// Append records one run.
func (l *RunLog) Append(ctx context.Context, rec domain.RunRecord) error {
	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, message, answer, project_id, kb_id, document_id, citations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RunID,
		rec.Message,
		rec.Answer,
		rec.Scope.ProjectID,
		rec.Scope.KBID,
		rec.Scope.DocID,
		rec.Citations,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending run %s: %w", rec.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (l *RunLog) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	query := `
		SELECT run_id, message, answer, project_id, kb_id, document_id, citations, created_at
		FROM runs ORDER BY seq DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Message,
			&rec.Answer,
			&rec.Scope.ProjectID,
			&rec.Scope.KBID,
			&rec.Scope.DocID,
			&rec.Citations,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
