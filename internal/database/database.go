package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pocketledger/pocketledger/internal/config"
	log "github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrUnavailable = errors.New("storage unavailable")
	ErrConstraint  = errors.New("constraint violation")
	ErrStatement   = errors.New("statement failed")
)

// Error is a classified storage failure. It matches both its Kind and the driver error with errors.Is.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Scanner is the part of *sql.Rows a row callback may use.
type Scanner interface {
	Scan(dest ...any) error
}

// Engine runs single statements against the ledger file. Every call checks out its own
// connection and gives it back before returning.
type Engine struct {
	db *sql.DB
}

// Open opens the SQLite ledger file, creating its directory when needed.
func Open(cfg config.Database) (*Engine, error) {
	if err := ensureDir(cfg.Path); err != nil {
		return nil, &Error{Op: "open", Kind: ErrUnavailable, Err: err}
	}

	db, err := sql.Open("sqlite", dsn(cfg))
	if err != nil {
		return nil, &Error{Op: "open", Kind: ErrUnavailable, Err: err}
	}
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	// sqlite opens files lazily, so read the schema once to prove the file is usable
	var tables int
	err = db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM sqlite_master").Scan(&tables)
	if err != nil {
		db.Close()
		log.Errorf("could not open database %s: %v", cfg.Path, err)
		return nil, &Error{Op: "open", Kind: ErrUnavailable, Err: err}
	}

	return &Engine{db: db}, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func dsn(cfg config.Database) string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout)
}

func (e *Engine) Close() error {
	return e.db.Close()
}

// Stats reports the connection pool state.
func (e *Engine) Stats() sql.DBStats {
	return e.db.Stats()
}

// Exec runs one statement that returns no rows.
func (e *Engine) Exec(ctx context.Context, stmt string, args ...any) (sql.Result, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, &Error{Op: "acquire", Kind: ErrUnavailable, Err: err}
	}
	defer conn.Close()

	result, err := conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, classify("exec", err)
	}
	return result, nil
}

// Query runs one statement and hands every row to scan, in order.
func (e *Engine) Query(ctx context.Context, stmt string, args []any, scan func(Scanner) error) error {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return &Error{Op: "acquire", Kind: ErrUnavailable, Err: err}
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return classify("query", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return &Error{Op: "scan", Kind: ErrStatement, Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return classify("query", err)
	}
	return nil
}

func classify(op string, err error) error {
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return ErrUnavailable
	}

	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return ErrStatement
	}
	// extended result codes keep the primary code in the low byte
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		return ErrConstraint
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR,
		sqlite3.SQLITE_FULL, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT,
		sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH:
		return ErrUnavailable
	default:
		return ErrStatement
	}
}
