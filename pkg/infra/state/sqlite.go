package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS release_states (
	owner      TEXT NOT NULL,
	name       TEXT NOT NULL,
	tag_name   TEXT NOT NULL,
	html_url   TEXT NOT NULL,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (owner, name)
)`

// SQLiteStore keeps release states in a single SQLite table
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and ensures the schema
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database",
			goerr.T(types.ErrTagStorage), goerr.V("path", path))
	}
	// one writer at a time; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to create sqlite schema",
			goerr.T(types.ErrTagStorage), goerr.V("path", path))
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM release_states WHERE owner = ? AND name = ?`,
		repo.Owner, repo.Name,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to query release state",
			goerr.T(types.ErrTagStorage), goerr.V("repo", repo.FullName()))
	}

	desc, err := decodeDescriptor([]byte(payload))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load release state", goerr.V("repo", repo.FullName()))
	}
	return desc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, repo model.TrackedRepository, desc *model.ReleaseDescriptor) error {
	if _, err := recordKey(repo); err != nil {
		return err
	}

	data, err := encodeDescriptor(desc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO release_states (owner, name, tag_name, html_url, payload, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (owner, name) DO UPDATE SET
	tag_name = excluded.tag_name,
	html_url = excluded.html_url,
	payload = excluded.payload,
	updated_at = excluded.updated_at`,
		repo.Owner, repo.Name, desc.TagName, desc.HTMLURL, string(data), time.Now().UTC(),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save release state",
			goerr.T(types.ErrTagStorage), goerr.V("repo", repo.FullName()))
	}
	return nil
}
