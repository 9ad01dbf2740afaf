// Package sqlite persists matches as JSON documents in SQLite with an
// optimistic version column.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
	"github.com/preston-bernstein/live-scoring-service/internal/store/sqlite/migrations"
)

// Store persists match documents in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// connPragmas run on every pooled connection the driver opens.
var connPragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
}

func dsn(path string) string {
	q := url.Values{"_pragma": connPragmas}
	return path + "?" + q.Encode()
}

// Open opens the database at path, creating parent directories, and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	sqlDB, err := sql.Open("sqlite", dsn(cleanPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

// Create inserts a new match at version 1.
func (s *Store) Create(ctx context.Context, m matches.Match) (matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return matches.Match{}, err
	}
	m.Version = 1
	doc, err := json.Marshal(m)
	if err != nil {
		return matches.Match{}, fmt.Errorf("encode match: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO matches (id, sport, status, version, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.Sport), string(m.Status), m.Version, string(doc),
		toMillis(m.CreatedAt), toMillis(m.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return matches.Match{}, matches.Errorf(matches.KindConflict, "match %s already exists", m.ID)
		}
		return matches.Match{}, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

// Load retrieves a match by id.
func (s *Store) Load(ctx context.Context, id string) (matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return matches.Match{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT version, document FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return matches.Match{}, matches.NotFound(id)
	}
	if err != nil {
		return matches.Match{}, fmt.Errorf("load match %s: %w", id, err)
	}
	return m, nil
}

// Save replaces a match when the stored version equals m.Version and returns
// the saved value with the version bumped.
func (s *Store) Save(ctx context.Context, m matches.Match) (matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return matches.Match{}, err
	}
	expected := m.Version
	m.Version = expected + 1
	doc, err := json.Marshal(m)
	if err != nil {
		return matches.Match{}, fmt.Errorf("encode match: %w", err)
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE matches
		    SET status = ?, version = ?, document = ?, updated_at = ?
		  WHERE id = ? AND version = ?`,
		string(m.Status), m.Version, string(doc), toMillis(m.UpdatedAt),
		m.ID, expected,
	)
	if err != nil {
		return matches.Match{}, fmt.Errorf("save match %s: %w", m.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return matches.Match{}, fmt.Errorf("save match %s: %w", m.ID, err)
	}
	if affected == 1 {
		return m, nil
	}

	var current int64
	err = s.sqlDB.QueryRowContext(ctx, `SELECT version FROM matches WHERE id = ?`, m.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return matches.Match{}, matches.NotFound(m.ID)
	}
	if err != nil {
		return matches.Match{}, fmt.Errorf("save match %s: %w", m.ID, err)
	}
	return matches.Match{}, matches.Errorf(matches.KindConflict, "match %s is at version %d, expected %d", m.ID, current, expected)
}

// List returns matches passing the filter, newest first.
func (s *Store) List(ctx context.Context, f store.ListFilter) ([]matches.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := `SELECT version, document FROM matches WHERE 1 = 1`
	var args []any
	if f.Sport != "" {
		query += ` AND sport = ?`
		args = append(args, string(f.Sport))
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at DESC, id ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	result := make([]matches.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (matches.Match, error) {
	var (
		version int64
		doc     string
	)
	if err := row.Scan(&version, &doc); err != nil {
		return matches.Match{}, err
	}
	var m matches.Match
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return matches.Match{}, fmt.Errorf("decode match: %w", err)
	}
	m.Version = version
	return m, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
