// Package dialect defines the contracts the query engine compiles against:
// the Driver/Tx connection surface (see dialect.go) and the Adapter that
// emits every dialect-specific SQL fragment the planner, relation loader,
// and mutation pipeline need. One Adapter implementation exists per
// dialect, under dialect/sql/postgres, dialect/sql/mysql, and
// dialect/sql/sqlite.
//
// Every Adapter method is a total function of its Sql/primitive inputs to
// a Sql fragment: it never inspects parameter *values* to decide what to
// emit (only their declared type), and it never touches a database
// connection. Method groups that a dialect cannot support at all (vector,
// geospatial on MySQL/SQLite) are implemented by a sentinel whose
// error-returning methods return verr.FeatureNotSupported instead of a
// fragment — see dialect/sql/{mysql,sqlite}'s unsupported.go. RETURNING on
// MySQL is not an error: its Returning renders an empty fragment.
package dialect

import (
	"context"

	"github.com/viborm/viborm/dialect/sql"
)

// Identifiers quotes and aliases table/column references.
type Identifiers interface {
	Escape(name string) string
	Column(alias, field string) sql.Sql
	Table(name, alias string) sql.Sql
	Aliased(expr sql.Sql, alias string) sql.Sql
}

// Literals renders constant values as fragments.
type Literals interface {
	Value(v any) sql.Sql
	Null() sql.Sql
	True() sql.Sql
	False() sql.Sql
	List(items []any) sql.Sql
	JSON(v any) (sql.Sql, error)
}

// Operators renders comparison, pattern, membership, and logical fragments.
type Operators interface {
	EQ(lhs, rhs sql.Sql) sql.Sql
	NEQ(lhs, rhs sql.Sql) sql.Sql
	GT(lhs, rhs sql.Sql) sql.Sql
	GTE(lhs, rhs sql.Sql) sql.Sql
	LT(lhs, rhs sql.Sql) sql.Sql
	LTE(lhs, rhs sql.Sql) sql.Sql
	Like(lhs, pattern sql.Sql) sql.Sql
	ILike(lhs, pattern sql.Sql) sql.Sql
	In(lhs sql.Sql, rhs []sql.Sql) sql.Sql
	NotIn(lhs sql.Sql, rhs []sql.Sql) sql.Sql
	IsNull(lhs sql.Sql) sql.Sql
	NotNull(lhs sql.Sql) sql.Sql
	Between(lhs, lo, hi sql.Sql) sql.Sql
	And(preds []sql.Sql) sql.Sql
	Or(preds []sql.Sql) sql.Sql
	Not(p sql.Sql) sql.Sql
	Exists(subquery sql.Sql) sql.Sql
	NotExists(subquery sql.Sql) sql.Sql
}

// Expressions renders arithmetic/string/conditional scalar expressions.
type Expressions interface {
	Add(a, b sql.Sql) sql.Sql
	Sub(a, b sql.Sql) sql.Sql
	Mul(a, b sql.Sql) sql.Sql
	Div(a, b sql.Sql) sql.Sql
	Upper(a sql.Sql) sql.Sql
	Lower(a sql.Sql) sql.Sql
	ConcatExpr(parts []sql.Sql) sql.Sql
	Coalesce(parts []sql.Sql) sql.Sql
	Greatest(parts []sql.Sql) sql.Sql
	Least(parts []sql.Sql) sql.Sql
	Cast(expr sql.Sql, sqlType string) sql.Sql
}

// Aggregates renders the standard SQL aggregate functions.
type Aggregates interface {
	Count(expr sql.Sql) sql.Sql
	CountDistinct(expr sql.Sql) sql.Sql
	Sum(expr sql.Sql) sql.Sql
	Avg(expr sql.Sql) sql.Sql
	Min(expr sql.Sql) sql.Sql
	Max(expr sql.Sql) sql.Sql
}

// JSONOps builds/aggregates/extracts JSON, with BigInt fields cast to TEXT
// first so precision survives the round trip (the result parser restores
// them per spec §4.7).
type JSONOps interface {
	Object(fields map[string]sql.Sql) sql.Sql
	Array(items []sql.Sql) sql.Sql
	EmptyArray() sql.Sql
	Agg(expr sql.Sql, orderBy sql.Sql) sql.Sql
	RowToJSON(alias string) sql.Sql
	ObjectFromColumns(cols map[string]sql.Sql) sql.Sql
	Extract(expr sql.Sql, path string) sql.Sql
	ExtractText(expr sql.Sql, path string) sql.Sql
	CastBigIntText(expr sql.Sql) sql.Sql
}

// ArrayOps builds/queries array-typed columns, simulated with JSON on
// dialects without native arrays.
type ArrayOps interface {
	Literal(items []any) sql.Sql
	Has(col sql.Sql, elem sql.Sql) sql.Sql
	HasEvery(col sql.Sql, elems []sql.Sql) sql.Sql
	HasSome(col sql.Sql, elems []sql.Sql) sql.Sql
	IsEmpty(col sql.Sql) sql.Sql
	Length(col sql.Sql) sql.Sql
	Elem(col sql.Sql, index int) sql.Sql
	Push(col sql.Sql, elem sql.Sql) sql.Sql
	SetAt(col sql.Sql, index int, elem sql.Sql) sql.Sql
}

// OrderOps renders ORDER BY direction/null-ordering fragments.
type OrderOps interface {
	Asc(expr sql.Sql) sql.Sql
	Desc(expr sql.Sql) sql.Sql
	NullsFirst(expr sql.Sql) sql.Sql
	NullsLast(expr sql.Sql) sql.Sql
}

// SelectParts names the components handed to Clauses.AssembleSelect.
type SelectParts struct {
	Columns               []sql.Sql
	From                  sql.Sql
	Joins                 []sql.Sql
	Where                 sql.Sql
	GroupBy               []sql.Sql
	Having                sql.Sql
	OrderBy               []sql.Sql
	Limit                 *int
	Offset                *int
	Distinct              bool
	DistinctColumnAliases []string // non-empty selects DISTINCT ON simulation
}

// Clauses assembles a complete SELECT (or DISTINCT ON simulation) from
// named parts, and renders the individual standalone clause keywords.
type Clauses interface {
	Select(cols []sql.Sql) sql.Sql
	SelectDistinct(cols []sql.Sql) sql.Sql
	From(table sql.Sql) sql.Sql
	Where(pred sql.Sql) sql.Sql
	OrderBy(exprs []sql.Sql) sql.Sql
	Limit(n int) sql.Sql
	Offset(n int) sql.Sql
	GroupBy(exprs []sql.Sql) sql.Sql
	Having(pred sql.Sql) sql.Sql
	AssembleSelect(parts SelectParts) sql.Sql
}

// SetOps renders UPDATE assignment expressions.
type SetOps interface {
	Assign(col sql.Sql, v sql.Sql) sql.Sql
	Increment(col sql.Sql, v sql.Sql) sql.Sql
	Decrement(col sql.Sql, v sql.Sql) sql.Sql
	Multiply(col sql.Sql, v sql.Sql) sql.Sql
	Divide(col sql.Sql, v sql.Sql) sql.Sql
	Push(col sql.Sql, v sql.Sql) sql.Sql
	Unshift(col sql.Sql, v sql.Sql) sql.Sql
}

// RelationFilters wraps a correlated subquery into the EXISTS/NOT EXISTS
// form that implements to-one/to-many relation filters.
type RelationFilters interface {
	Some(subquery sql.Sql) sql.Sql
	Every(subquery sql.Sql) sql.Sql // caller passes the negated-inner subquery
	None(subquery sql.Sql) sql.Sql
	Is(subquery sql.Sql) sql.Sql
	IsNot(subquery sql.Sql) sql.Sql
}

// Subqueries builds scalar and correlated subquery fragments.
type Subqueries interface {
	Scalar(q sql.Sql) sql.Sql
	Correlate(q sql.Sql, alias string) sql.Sql
	ExistsCheck(from sql.Sql, where sql.Sql) sql.Sql
}

// CTEDef names one WITH-clause member.
type CTEDef struct {
	Name  string
	Query sql.Sql
}

// CTEs renders WITH / WITH RECURSIVE clauses.
type CTEs interface {
	With(defs []CTEDef, body sql.Sql) sql.Sql
	Recursive(name string, anchor, recursive, unionAll sql.Sql, body sql.Sql) sql.Sql
}

// OnConflictAction describes what an upsert should do on a conflicting row.
type OnConflictAction struct {
	DoNothing bool
	SetCols   map[string]sql.Sql // ignored when DoNothing
}

// Mutations renders INSERT/UPDATE/DELETE statements and their dialect
// variants (RETURNING, ON CONFLICT / ON DUPLICATE KEY, skip-duplicates).
type Mutations interface {
	// Insert renders "INSERT [modifier] INTO table (cols) VALUES (rows)".
	// modifier splices between "INSERT" and "INTO" (MySQL's "IGNORE" for
	// skip-duplicates); pass sql.Empty everywhere else.
	Insert(table string, columns []string, values [][]sql.Sql, modifier sql.Sql) sql.Sql
	Update(table string, sets []sql.Sql, where sql.Sql) sql.Sql
	Delete(table string, where sql.Sql) sql.Sql
	Returning(columns []string) sql.Sql // Empty on MySQL
	OnConflict(target []string, action OnConflictAction) sql.Sql
	// SkipDuplicates returns a (modifier, suffix) pair: MySQL gets an
	// Insert modifier ("IGNORE"), Postgres/SQLite get a suffix
	// ("ON CONFLICT DO NOTHING") appended after the VALUES list.
	SkipDuplicates() (modifier, suffix sql.Sql)
	LastInsertID() sql.Sql
}

// Joins renders JOIN keywords. LateralLeft must be implemented whenever
// Capabilities().SupportsLateralJoins is true.
type Joins interface {
	Inner(table sql.Sql, on sql.Sql) sql.Sql
	Left(table sql.Sql, on sql.Sql) sql.Sql
	Right(table sql.Sql, on sql.Sql) sql.Sql
	Full(table sql.Sql, on sql.Sql) (sql.Sql, error)
	Cross(table sql.Sql) sql.Sql
	Lateral(table sql.Sql, on sql.Sql) (sql.Sql, error)
	LateralLeft(table sql.Sql, on sql.Sql) (sql.Sql, error)
}

// SetOperations renders UNION/INTERSECT/EXCEPT between two SELECTs.
type SetOperations interface {
	Union(a, b sql.Sql) sql.Sql
	UnionAll(a, b sql.Sql) sql.Sql
	Intersect(a, b sql.Sql) sql.Sql
	Except(a, b sql.Sql) sql.Sql
}

// Vector renders pgvector-style operators. Implementations that lack
// vector support return verr.FeatureNotSupported from L2 and Cosine;
// VectorLiteral, which has no error return, renders an empty fragment.
type Vector interface {
	VectorLiteral(values []float64) sql.Sql
	L2(col sql.Sql, vec sql.Sql) (sql.Sql, error)
	Cosine(col sql.Sql, vec sql.Sql) (sql.Sql, error)
}

// Geospatial renders PostGIS-style predicates. Implementations that lack
// geospatial support return verr.FeatureNotSupported from every predicate;
// Point, which has no error return, renders an empty fragment.
type Geospatial interface {
	Point(lng, lat float64) sql.Sql
	Equals(a, b sql.Sql) (sql.Sql, error)
	Intersects(a, b sql.Sql) (sql.Sql, error)
	Contains(a, b sql.Sql) (sql.Sql, error)
	Within(a, b sql.Sql) (sql.Sql, error)
	Crosses(a, b sql.Sql) (sql.Sql, error)
	Overlaps(a, b sql.Sql) (sql.Sql, error)
	Touches(a, b sql.Sql) (sql.Sql, error)
	Covers(a, b sql.Sql) (sql.Sql, error)
	DWithin(a, b sql.Sql, distance float64) (sql.Sql, error)
}

// Column describes one introspected column, returned by Migrations.Introspect.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
}

// Table describes one introspected table.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	UniqueKeys  [][]string
	ForeignKeys []ForeignKey
}

// ForeignKey describes one introspected foreign-key constraint.
type ForeignKey struct {
	Columns           []string
	RefTable          string
	RefColumns        []string
}

// DDLOp is a single DDL statement emitted by Migrations.GenerateDDL.
type DDLOp struct {
	Description string
	Statement   sql.Sql
}

// Migrations provides the introspection/DDL hooks the (out-of-scope)
// migration tool calls into. executeRaw lets introspection run a raw
// catalog query through the caller's driver without Migrations needing
// its own connection.
type Migrations interface {
	Introspect(ctx context.Context, executeRaw func(ctx context.Context, query string, args []any) ([]map[string]any, error)) ([]Table, error)
	GenerateDDL(desired []Table, current []Table) ([]DDLOp, error)
	MapFieldType(kind string, array bool) (string, error)
	GetDefaultExpression(kind string, generator string) (sql.Sql, error)
	SupportsNativeEnums() bool
	GetEnumColumnType(values []string) (string, error)
}

// ResultMiddleware is the three-stage pluggable hook set the result
// parser (engine/parse) walks per spec §4.7. Each stage receives the raw
// value and a next continuation implementing the default behavior;
// middleware may call next, transform its result, or skip it entirely.
type ResultMiddleware interface {
	ParseResult(raw any, operation string, next func(any) (any, error)) (any, error)
	ParseRelation(value any, relationType string, next func(any) (any, error)) (any, error)
	ParseField(value any, fieldKind string, next func(any) (any, error)) (any, error)
}

// Adapter is the full set of dialect-specific fragment emitters. Every
// implementer (postgres, mysql, sqlite) supplies every method group —
// groups a dialect cannot support at all are satisfied by a sentinel
// whose methods return verr.FeatureNotSupported (Vector/Geospatial on
// MySQL/SQLite; this is why those groups return (Sql, error) rather than
// bare Sql).
type Adapter interface {
	Name() string
	Capabilities() Capabilities

	Identifiers
	Literals
	Operators
	Expressions
	Aggregates
	JSONOps
	ArrayOps
	OrderOps
	Clauses
	SetOps
	RelationFilters
	Subqueries
	CTEs
	Mutations
	Joins
	SetOperations
	Vector
	Geospatial
	Migrations
	ResultMiddleware
}
