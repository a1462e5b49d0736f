// Package server implements the interface seam SPEC_FULL.md §4.15 carves
// out for the HTTP interactive demo: spec.md §1 places the demo itself out
// of scope, so this package does exactly what sits behind that seam —
// accept a source payload, run driver.Compile, return diagnostics — and
// nothing of a real emitter or UI.
package server

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one row of compile history: a session's source hash, how many
// diagnostics it produced, and when it ran.
type Record struct {
	SessionID   string
	FileName    string
	SourceHash  string
	Diagnostics int
	CompiledAt  time.Time
}

// Store persists compile history through modernc.org/sqlite (pure Go, no
// cgo), indexed by (fileName, sha-of-source). Lookup finds a prior record for
// a payload, but handleCompile does not consult it: every request runs the
// pipeline.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the sqlite database at path. Pass
// ":memory:" for a throwaway store, as the server tests do.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS compiles (
	session_id   TEXT PRIMARY KEY,
	file_name    TEXT NOT NULL,
	source_hash  TEXT NOT NULL,
	diagnostics  INTEGER NOT NULL,
	compiled_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS compiles_hash_idx ON compiles (file_name, source_hash);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// SourceHash returns the hex sha256 of source, the cache key's second half.
func SourceHash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Lookup returns a prior record for (fileName, hash), if one exists, without
// touching the pipeline.
func (s *Store) Lookup(fileName, hash string) (Record, bool, error) {
	row := s.db.QueryRow(
		`SELECT session_id, file_name, source_hash, diagnostics, compiled_at
		 FROM compiles WHERE file_name = ? AND source_hash = ?
		 ORDER BY compiled_at DESC LIMIT 1`,
		fileName, hash,
	)
	var rec Record
	if err := row.Scan(&rec.SessionID, &rec.FileName, &rec.SourceHash, &rec.Diagnostics, &rec.CompiledAt); err != nil {
		if err == sql.ErrNoRows {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return rec, true, nil
}

// Insert records a freshly run compile.
func (s *Store) Insert(rec Record) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO compiles (session_id, file_name, source_hash, diagnostics, compiled_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.SessionID, rec.FileName, rec.SourceHash, rec.Diagnostics, rec.CompiledAt,
	)
	return err
}

// Recent returns the most recent n history records, newest first.
func (s *Store) Recent(n int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT session_id, file_name, source_hash, diagnostics, compiled_at
		 FROM compiles ORDER BY compiled_at DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.SessionID, &rec.FileName, &rec.SourceHash, &rec.Diagnostics, &rec.CompiledAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
