// Package store persists text templates and their sketch bindings in a
// SQLite database. Each stored text is an integer id and a template string;
// bindings attach a text to zero or more sketches by name.
package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"

	_ "modernc.org/sqlite"
)

// storageVersion is the schema generation written to new stores. Opening a
// store written by a different generation fails rather than guessing.
const storageVersion = 2

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS texts (
	id       INTEGER PRIMARY KEY,
	template TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bindings (
	text_id INTEGER NOT NULL REFERENCES texts(id) ON DELETE CASCADE,
	sketch  TEXT    NOT NULL,
	PRIMARY KEY (text_id, sketch)
);
`

// Text is one stored template with its sketch bindings.
type Text struct {
	ID       int
	Template string
	Sketches []string
}

// Store is a SQLite-backed text store. It is safe for concurrent use; the
// underlying *sql.DB serializes access.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the store at path and verifies its
// storage version.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ErrOpenStore.Wrap(err).
			With(slog.String("path", path))
	}

	s := &Store{db: db}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return ErrMigrate.Wrap(err)
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return ErrMigrate.Wrap(err)
	}

	var stored string

	err := s.db.QueryRowContext(
		ctx, "SELECT value FROM meta WHERE key = 'storage-version'",
	).Scan(&stored)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(
			ctx,
			"INSERT INTO meta (key, value) VALUES ('storage-version', ?)",
			strconv.Itoa(storageVersion),
		)
		if err != nil {
			return ErrMigrate.Wrap(err)
		}

		return nil

	case err != nil:
		return ErrMigrate.Wrap(err)
	}

	if stored != strconv.Itoa(storageVersion) {
		return ErrStorageVersion.
			With(
				slog.String("stored", stored),
				slog.Int("supported", storageVersion),
			)
	}

	return nil
}

// Put inserts or replaces the template stored under id. Bindings are
// preserved across replacement.
func (s *Store) Put(ctx context.Context, id int, template string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO texts (id, template) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET template = excluded.template`,
		id, template,
	)
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.Int("id", id))
	}

	return nil
}

// Get returns the template stored under id.
func (s *Store) Get(ctx context.Context, id int) (string, error) {
	var template string

	err := s.db.QueryRowContext(
		ctx, "SELECT template FROM texts WHERE id = ?", id,
	).Scan(&template)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", ErrTextNotFound.With(slog.Int("id", id))

	case err != nil:
		return "", ErrQuery.Wrap(err).With(slog.Int("id", id))
	}

	return template, nil
}

// Remove deletes the text stored under id along with its bindings.
func (s *Store) Remove(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM texts WHERE id = ?", id)
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.Int("id", id))
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTextNotFound.With(slog.Int("id", id))
	}

	return nil
}

// Bind attaches the text stored under id to a sketch. Binding the same
// sketch twice is a no-op.
func (s *Store) Bind(ctx context.Context, id int, sketch string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO bindings (text_id, sketch) VALUES (?, ?)
		 ON CONFLICT (text_id, sketch) DO NOTHING`,
		id, sketch,
	)
	if err != nil {
		return ErrQuery.Wrap(err).
			With(slog.Int("id", id), slog.String("sketch", sketch))
	}

	return nil
}

// Unbind detaches the text stored under id from a sketch.
func (s *Store) Unbind(ctx context.Context, id int, sketch string) error {
	_, err := s.db.ExecContext(
		ctx,
		"DELETE FROM bindings WHERE text_id = ? AND sketch = ?",
		id, sketch,
	)
	if err != nil {
		return ErrQuery.Wrap(err).
			With(slog.Int("id", id), slog.String("sketch", sketch))
	}

	return nil
}

// All returns every stored text with its bindings, ordered by id. Sketch
// names within a text are ordered alphabetically.
func (s *Store) All(ctx context.Context) ([]Text, error) {
	rows, err := s.db.QueryContext(
		ctx, "SELECT id, template FROM texts ORDER BY id",
	)
	if err != nil {
		return nil, ErrQuery.Wrap(err)
	}
	defer rows.Close()

	var (
		texts []Text
		index = make(map[int]int)
	)

	for rows.Next() {
		var t Text
		if err := rows.Scan(&t.ID, &t.Template); err != nil {
			return nil, ErrQuery.Wrap(err)
		}

		index[t.ID] = len(texts)
		texts = append(texts, t)
	}

	if err := rows.Err(); err != nil {
		return nil, ErrQuery.Wrap(err)
	}

	bound, err := s.db.QueryContext(
		ctx, "SELECT text_id, sketch FROM bindings ORDER BY text_id, sketch",
	)
	if err != nil {
		return nil, ErrQuery.Wrap(err)
	}
	defer bound.Close()

	for bound.Next() {
		var (
			id     int
			sketch string
		)

		if err := bound.Scan(&id, &sketch); err != nil {
			return nil, ErrQuery.Wrap(err)
		}

		if i, ok := index[id]; ok {
			texts[i].Sketches = append(texts[i].Sketches, sketch)
		}
	}

	if err := bound.Err(); err != nil {
		return nil, ErrQuery.Wrap(err)
	}

	return texts, nil
}

// NextID returns the lowest id greater than every stored id. An empty store
// starts at 1.
func (s *Store) NextID(ctx context.Context) (int, error) {
	var next int

	err := s.db.QueryRowContext(
		ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM texts",
	).Scan(&next)
	if err != nil {
		return 0, ErrQuery.Wrap(err)
	}

	return next, nil
}
