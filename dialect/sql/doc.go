// Package sql provides the parameterized SQL fragment type (Sql), the
// database/sql-backed Driver/Tx/Conn implementation of dialect.Driver, and
// row/statistics accounting used while scanning query results.
//
// # Fragments
//
// Sql is an inert, composable template of text segments and parameter
// values (see fragment.go). Dialect adapters (dialect/sql/postgres,
// dialect/sql/mysql, dialect/sql/sqlite) are the only code that builds
// Sql fragments with SQL semantics; this package only knows how to
// concatenate and render them:
//
//	f := sql.Raw("SELECT 1 WHERE a = ").Append(sql.Value(42))
//	text, params := f.Render(sql.PlaceholderDollar) // "SELECT 1 WHERE a = $1", []any{42}
//
// # Driver
//
// Driver wraps a *database/sql.DB (or *sql.Tx, via Tx) behind the
// dialect.Driver interface the engine compiles against:
//
//	db, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// Nested transactions are expressed as savepoints by engine/txn, layered
// on top of the Tx returned by Driver.Tx/BeginTx.
package sql
