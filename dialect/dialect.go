package dialect

import "context"

// Dialect name constants. These are also the string keys used to select a
// dialect.Adapter (see Adapter.Name) and to detect which dialect a *sql.DB was opened under.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Valid reports whether name is one of the three supported dialects.
func Valid(name string) bool {
	switch name {
	case Postgres, MySQL, SQLite:
		return true
	default:
		return false
	}
}

// ExecQuerier is the minimal surface the engine needs from a live
// connection or transaction: execute a statement, or run a query and
// scan the rows back. args/v are typed `any` here (instead of generics)
// to match the shape database/sql itself exposes, and because the engine
// needs to accept either a *sql.Result or a *Rows destination depending
// on the call.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the contract the engine requires from a database connection.
// dialect/sql.Driver is the database/sql-backed implementation; a
// PGlite/better-sqlite3-style in-process engine could implement the same
// interface without going through database/sql at all.
type Driver interface {
	ExecQuerier
	// Tx begins a transaction with default options.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection(s).
	Close() error
	// Dialect returns the dialect name (Postgres, MySQL, or SQLite).
	Dialect() string
}

// Tx extends Driver with the two statements that end a transaction. A Tx
// value is itself a Driver, so nested transactions (savepoints) are
// started the same way as the top-level one.
type Tx interface {
	Driver
	Commit() error
	Rollback() error
}
