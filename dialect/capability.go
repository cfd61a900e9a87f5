package dialect

// Capabilities describes the dialect-dependent features the planner must
// consult before emitting certain clauses. The planner never hard-codes a
// dialect name to decide this; it always asks the adapter.
type Capabilities struct {
	// SupportsReturning is true for PostgreSQL and SQLite (3.35+); false
	// for MySQL, which has no RETURNING clause.
	SupportsReturning bool

	// SupportsCTEWithMutations is true when a CTE may wrap an INSERT,
	// UPDATE, or DELETE (PostgreSQL, SQLite); false for MySQL.
	SupportsCTEWithMutations bool

	// SupportsFullOuterJoin is true only for PostgreSQL.
	SupportsFullOuterJoin bool

	// SupportsLateralJoins selects the relation-loader strategy: LATERAL
	// joins when true (PostgreSQL), correlated subqueries otherwise.
	SupportsLateralJoins bool

	// SupportsNativeJSON is true for dialects with a first-class JSON
	// type (PostgreSQL's jsonb); MySQL/SQLite serialize JSON to TEXT.
	SupportsNativeJSON bool

	// SupportsNativeArrays is true only for PostgreSQL; MySQL/SQLite
	// simulate arrays with JSON.
	SupportsNativeArrays bool

	// SupportsVector reports whether the vector method group is usable
	// (requires pgvector on PostgreSQL; false elsewhere).
	SupportsVector bool

	// SupportsGeospatial reports whether the geospatial method group is
	// usable (requires PostGIS on PostgreSQL; false elsewhere).
	SupportsGeospatial bool

	// SupportsNativeEnums reports whether the database has a native enum
	// type (PostgreSQL's CREATE TYPE ... ENUM). Every adapter's
	// GetEnumColumnType returns a plain text/varchar column type, and the
	// DDL generator emits no CHECK constraint for the allowed values.
	SupportsNativeEnums bool
}
