// Package dialect provides the database dialect abstraction for the viborm
// query engine.
//
// This package defines the interfaces and types used for database-specific
// operations, allowing the engine to support multiple database backends
// including PostgreSQL, MySQL, and SQLite.
//
// # Supported Dialects
//
// The following dialects are supported:
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Transaction Interface
//
// The Tx interface extends Driver with transaction methods:
//
//	type Tx interface {
//	    Driver
//	    Commit() error
//	    Rollback() error
//	}
//
// # ExecQuerier Interface
//
// The ExecQuerier interface is implemented by both Driver and Tx:
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	}
//
// # Usage
//
// Opening a database connection:
//
//	import (
//	    "github.com/viborm/viborm/dialect"
//	    "github.com/viborm/viborm/dialect/sql"
//	)
//
//	db, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// The returned *sql.Driver satisfies the Driver interface above.
//
// # Sub-packages
//
// The dialect package contains several sub-packages:
//
//   - dialect/sql: the Sql fragment type and the database/sql-backed driver
//   - dialect/sql/postgres, dialect/sql/mysql, dialect/sql/sqlite: the
//     per-dialect Adapter implementations
//   - dialect/sql/schema: schema diffing and DDL generation
//   - dialect/sql/sqlgraph: constraint-error detection
package dialect
