package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/project"
)

// SQLiteStore keeps records in an embedded SQLite database: a local
// project library in a single file, with no server to run. The project
// file is stored as a JSON column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create db dir")
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open db")
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "migrate project store")
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		file     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put saves a record, replacing any record with the same ID.
func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	fileJSON, err := json.Marshal(rec.File)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal project file")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, saved_at, file) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, saved_at = excluded.saved_at, file = excluded.file`,
		rec.ID, rec.Name, rec.SavedAt.UTC().Format(time.RFC3339Nano), string(fileJSON))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "insert project")
	}
	return nil
}

// Get retrieves a record by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, saved_at, file FROM projects WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound(id)
		}
		return nil, err
	}
	return &rec, nil
}

// List returns all records, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, saved_at, file FROM projects ORDER BY id DESC`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list projects")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list projects")
	}
	return out, nil
}

// Delete removes a record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete project")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(id)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var savedAt, fileJSON string

	if err := row.Scan(&rec.ID, &rec.Name, &savedAt, &fileJSON); err != nil {
		if err == sql.ErrNoRows {
			return rec, err
		}
		return rec, errors.Wrap(errors.ErrCodeInternal, err, "scan project row")
	}

	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return rec, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse saved_at")
	}
	rec.SavedAt = t

	var f project.File
	if err := json.Unmarshal([]byte(fileJSON), &f); err != nil {
		return rec, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse project file column")
	}
	rec.File = f

	return rec, nil
}

var _ Store = (*SQLiteStore)(nil)
