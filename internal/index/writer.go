// Package index stores the position of every value in a set of documents in
// SQLite, keyed by file and JSON pointer.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentic-research/schemawalk/api"
	"github.com/agentic-research/schemawalk/internal/walkers"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("index: writer closed")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS positions (
	file       TEXT NOT NULL,
	pointer    TEXT NOT NULL,
	path       TEXT NOT NULL,
	language   TEXT NOT NULL,
	shape      TEXT NOT NULL,
	scalar     TEXT,
	start_byte INTEGER NOT NULL,
	end_byte   INTEGER NOT NULL,
	line       INTEGER NOT NULL,
	col        INTEGER NOT NULL,
	value      TEXT,
	PRIMARY KEY (file, pointer)
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS syntax_errors (
	file    TEXT NOT NULL,
	line    INTEGER NOT NULL,
	col     INTEGER NOT NULL,
	message TEXT NOT NULL
);
`

// Writer bulk-loads positions. It is safe for concurrent use; writes are
// serialized and committed in batches.
type Writer struct {
	db        *sql.DB
	tx        *sql.Tx
	stmtPos   *sql.Stmt
	stmtErr   *sql.Stmt
	batchSize int
	count     int
	closed    bool
	logger    *slog.Logger
	mu        sync.Mutex
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger for write events.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithBatchSize sets how many rows go into one transaction.
func WithBatchSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// Create opens (or creates) the database at dbPath and prepares it for
// bulk loading.
func Create(dbPath string, opts ...Option) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// one connection so the batch transaction sees every write
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA synchronous = OFF", "PRAGMA journal_mode = MEMORY"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &Writer{
		db:        db,
		batchSize: 10000,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) beginTx() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmtPos, err := tx.Prepare(`
		INSERT OR REPLACE INTO positions
			(file, pointer, path, language, shape, scalar, start_byte, end_byte, line, col, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare positions: %w", err)
	}
	stmtErr, err := tx.Prepare(`INSERT INTO syntax_errors (file, line, col, message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = stmtPos.Close()
		_ = tx.Rollback()
		return fmt.Errorf("prepare syntax_errors: %w", err)
	}
	w.tx, w.stmtPos, w.stmtErr = tx, stmtPos, stmtErr
	return nil
}

func (w *Writer) commitTx() error {
	if w.stmtPos != nil {
		_ = w.stmtPos.Close()
	}
	if w.stmtErr != nil {
		_ = w.stmtErr.Close()
	}
	w.stmtPos, w.stmtErr = nil, nil
	tx := w.tx
	w.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// rotate commits the running batch once it holds batchSize rows. Batches
// only end between documents. A writer that cannot start the next batch is
// closed.
func (w *Writer) rotate(rows int) error {
	w.count += rows
	if w.count < w.batchSize {
		return nil
	}
	committed := w.count
	w.count = 0
	err := w.commitTx()
	if err == nil {
		w.logger.Debug("index batch committed", "rows", committed)
		err = w.beginTx()
	}
	if err != nil {
		w.closed = true
		_ = w.db.Close()
		return err
	}
	return nil
}

// AddDocument replaces everything stored for file with the values and
// syntax errors of doc. Each value is stored under the position its walker
// computes for it. It returns the number of positions written. A document
// that fails part way leaves the rows stored for file untouched.
func (w *Writer) AddDocument(ctx context.Context, file string, doc api.Document, r *api.Registry) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, ErrClosed
	}

	if _, err := w.tx.Exec(`SAVEPOINT document`); err != nil {
		return 0, fmt.Errorf("savepoint for %s: %w", file, err)
	}
	n, rows, err := w.addDocument(ctx, file, doc, r)
	if err != nil {
		if _, rerr := w.tx.Exec(`ROLLBACK TO document`); rerr != nil {
			err = errors.Join(err, fmt.Errorf("rollback %s: %w", file, rerr))
		}
		_, _ = w.tx.Exec(`RELEASE document`)
		return 0, err
	}
	if _, err := w.tx.Exec(`RELEASE document`); err != nil {
		return 0, fmt.Errorf("release savepoint for %s: %w", file, err)
	}
	w.logger.Debug("indexed document", "file", file, "positions", n, "syntax_errors", len(doc.Errors()))
	return n, w.rotate(rows)
}

// addDocument writes doc inside the open savepoint. It returns the number
// of positions and the total number of rows written.
func (w *Writer) addDocument(ctx context.Context, file string, doc api.Document, r *api.Registry) (int, int, error) {
	if err := w.deleteFile(ctx, file); err != nil {
		return 0, 0, err
	}
	rows := 0
	for _, se := range doc.Errors() {
		if _, err := w.stmtErr.ExecContext(ctx, file, se.Line, se.Column, se.Message); err != nil {
			return 0, 0, fmt.Errorf("insert syntax error for %s: %w", file, err)
		}
		rows++
	}

	root, walker, ok := walkers.RootValue(r, doc)
	if !ok {
		w.logger.Debug("no root value", "file", file)
		return 0, rows, nil
	}

	n := 0
	var visit func(v api.ValueAdapter) error
	visit = func(v api.ValueAdapter) error {
		if err := w.insert(ctx, file, doc, walker, v); err != nil {
			return err
		}
		n++
		for _, p := range v.Properties() {
			if val, ok := p.Value(); ok {
				if err := visit(val); err != nil {
					return err
				}
			}
		}
		for _, e := range v.Elements() {
			if err := visit(e); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(root); err != nil {
		return 0, 0, err
	}
	return n, rows + n, nil
}

func (w *Writer) insert(ctx context.Context, file string, doc api.Document, walker api.Walker, v api.ValueAdapter) error {
	node := v.Node()
	pos := walker.FindPosition(node, false, false)
	span := node.Span()
	line, col := api.LineColumn(doc.Source(), span.Start)

	var scalar, value any
	if v.Shape() == api.ShapeScalar {
		scalar = v.Scalar().String()
		if lit, ok := v.Literal(); ok {
			if b, err := json.Marshal(lit); err == nil {
				value = string(b)
			}
		}
	}

	_, err := w.stmtPos.ExecContext(ctx,
		file,
		pos.Pointer(),
		pos.String(),
		string(node.Language()),
		v.Shape().String(),
		scalar,
		span.Start,
		span.End,
		line,
		col,
		value,
	)
	if err != nil {
		return fmt.Errorf("insert %s %s: %w", file, pos.Pointer(), err)
	}
	return nil
}

func (w *Writer) deleteFile(ctx context.Context, file string) error {
	if _, err := w.tx.ExecContext(ctx, `DELETE FROM positions WHERE file = ?`, file); err != nil {
		return fmt.Errorf("delete positions for %s: %w", file, err)
	}
	if _, err := w.tx.ExecContext(ctx, `DELETE FROM syntax_errors WHERE file = ?`, file); err != nil {
		return fmt.Errorf("delete syntax errors for %s: %w", file, err)
	}
	return nil
}

// Close commits pending rows, builds the lookup indexes and closes the
// database. Closing twice returns ErrClosed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	// built after the bulk load
	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_positions_span ON positions(file, start_byte, end_byte)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_path ON positions(path)`,
		`CREATE INDEX IF NOT EXISTS idx_syntax_errors_file ON syntax_errors(file)`,
	} {
		if _, err := w.db.Exec(stmt); err != nil {
			w.logger.Warn("index creation failed", "error", err)
		}
	}
	return w.db.Close()
}
