package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no stored position matches a lookup.
var ErrNotFound = errors.New("index: position not found")

// Entry is one stored value position.
type Entry struct {
	File     string
	Pointer  string
	Path     string
	Language string
	Shape    string
	Scalar   string // empty for objects and arrays
	Start    int
	End      int
	Line     int
	Column   int
	Value    string // JSON encoding of a scalar literal, empty otherwise
}

// SyntaxError is a stored parser diagnostic.
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Reader queries an index database. It is safe for concurrent use.
type Reader struct {
	db *sql.DB
}

// Open opens an existing index read-only.
func Open(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(4)
	if _, err := db.Exec("PRAGMA query_only=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set query_only: %w", err)
	}
	return &Reader{db: db}, nil
}

// Close closes the database.
func (r *Reader) Close() error {
	return r.db.Close()
}

const entryColumns = `file, pointer, path, language, shape, COALESCE(scalar, ''), start_byte, end_byte, line, col, COALESCE(value, '')`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	if err := s.Scan(&e.File, &e.Pointer, &e.Path, &e.Language, &e.Shape, &e.Scalar,
		&e.Start, &e.End, &e.Line, &e.Column, &e.Value); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Reader) one(ctx context.Context, query string, args ...any) (*Entry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query position: %w", err)
	}
	return e, nil
}

// ByPointer returns the value stored under an RFC 6901 pointer in file.
func (r *Reader) ByPointer(ctx context.Context, file, pointer string) (*Entry, error) {
	return r.one(ctx, `SELECT `+entryColumns+` FROM positions WHERE file = ? AND pointer = ?`, file, pointer)
}

// At returns the innermost value of file whose span contains offset.
func (r *Reader) At(ctx context.Context, file string, offset int) (*Entry, error) {
	return r.one(ctx, `SELECT `+entryColumns+` FROM positions
		WHERE file = ? AND start_byte <= ? AND ? < end_byte
		ORDER BY end_byte - start_byte ASC, start_byte DESC
		LIMIT 1`, file, offset, offset)
}

// ByPath returns every value stored under a JSONPath, across files, ordered
// by file.
func (r *Reader) ByPath(ctx context.Context, path string) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM positions WHERE path = ? ORDER BY file`, path)
	if err != nil {
		return nil, fmt.Errorf("query path %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Files lists the indexed files in order.
func (r *Reader) Files(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT file FROM positions ORDER BY file`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// SyntaxErrors returns the diagnostics stored for file in source order.
func (r *Reader) SyntaxErrors(ctx context.Context, file string) ([]SyntaxError, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT file, line, col, message FROM syntax_errors WHERE file = ? ORDER BY line, col`, file)
	if err != nil {
		return nil, fmt.Errorf("query syntax errors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SyntaxError
	for rows.Next() {
		var se SyntaxError
		if err := rows.Scan(&se.File, &se.Line, &se.Column, &se.Message); err != nil {
			return nil, fmt.Errorf("scan syntax error: %w", err)
		}
		out = append(out, se)
	}
	return out, rows.Err()
}
