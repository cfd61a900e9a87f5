// Package mysql implements dialect.Adapter for MySQL/MariaDB: backtick
// identifiers, JSON-simulated arrays, ON DUPLICATE KEY UPDATE in place of
// RETURNING/ON CONFLICT, and correlated-subquery joins in place of LATERAL.
package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/dialect/sql/internal/sqlutil"
	dschema "github.com/viborm/viborm/dialect/sql/schema"
	"github.com/viborm/viborm/verr"
)

// Adapter is the MySQL dialect.Adapter implementation.
type Adapter struct {
	unsupportedVector
	unsupportedGeospatial
}

// New returns the MySQL adapter.
func New() *Adapter { return &Adapter{} }

func (Adapter) Name() string { return dialect.MySQL }

func (Adapter) Capabilities() dialect.Capabilities {
	return dialect.Capabilities{
		SupportsReturning:        false,
		SupportsCTEWithMutations: false,
		SupportsFullOuterJoin:    false,
		SupportsLateralJoins:     false,
		SupportsNativeJSON:       false,
		SupportsNativeArrays:     false,
		SupportsVector:           false,
		SupportsGeospatial:       false,
		SupportsNativeEnums:      false,
	}
}

// --- identifiers ---

func (Adapter) Escape(name string) string {
	out := make([]byte, 0, len(name)+2)
	out = append(out, '`')
	for i := 0; i < len(name); i++ {
		if name[i] == '`' {
			out = append(out, '`', '`')
			continue
		}
		out = append(out, name[i])
	}
	out = append(out, '`')
	return string(out)
}

func (a Adapter) Column(alias, field string) dsql.Sql {
	if alias == "" {
		return dsql.Raw(a.Escape(field))
	}
	return dsql.Raw(a.Escape(alias) + "." + a.Escape(field))
}

func (a Adapter) Table(name, alias string) dsql.Sql {
	if alias == "" {
		return dsql.Raw(a.Escape(name))
	}
	return dsql.Raw(a.Escape(name) + " AS " + a.Escape(alias))
}

func (a Adapter) Aliased(expr dsql.Sql, alias string) dsql.Sql {
	return expr.Append(dsql.Raw(" AS " + a.Escape(alias)))
}

// --- literals ---

func (Adapter) Value(v any) dsql.Sql { return dsql.Value(v) }
func (Adapter) Null() dsql.Sql       { return dsql.Raw("NULL") }
func (Adapter) True() dsql.Sql       { return dsql.Raw("TRUE") }
func (Adapter) False() dsql.Sql      { return dsql.Raw("FALSE") }

func (a Adapter) List(items []any) dsql.Sql {
	frags := make([]dsql.Sql, len(items))
	for i, it := range items {
		frags[i] = a.Value(it)
	}
	return sqlutil.Paren(sqlutil.JoinComma(frags))
}

func (Adapter) JSON(v any) (dsql.Sql, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return dsql.Empty, err
	}
	return dsql.Raw("CAST(").Append(dsql.Value(string(b))).Append(dsql.Raw(" AS JSON)")), nil
}

// --- operators ---

func (Adapter) EQ(lhs, rhs dsql.Sql) dsql.Sql  { return sqlutil.Infix(lhs, "=", rhs) }
func (Adapter) NEQ(lhs, rhs dsql.Sql) dsql.Sql { return sqlutil.Infix(lhs, "<>", rhs) }
func (Adapter) GT(lhs, rhs dsql.Sql) dsql.Sql  { return sqlutil.Infix(lhs, ">", rhs) }
func (Adapter) GTE(lhs, rhs dsql.Sql) dsql.Sql { return sqlutil.Infix(lhs, ">=", rhs) }
func (Adapter) LT(lhs, rhs dsql.Sql) dsql.Sql  { return sqlutil.Infix(lhs, "<", rhs) }
func (Adapter) LTE(lhs, rhs dsql.Sql) dsql.Sql { return sqlutil.Infix(lhs, "<=", rhs) }
func (Adapter) Like(lhs, pattern dsql.Sql) dsql.Sql { return sqlutil.Infix(lhs, "LIKE", pattern) }

// ILike simulates case-insensitive LIKE by wrapping both sides in LOWER(),
// so the match is case-insensitive whatever the column's collation.
func (Adapter) ILike(lhs, pattern dsql.Sql) dsql.Sql {
	return sqlutil.Infix(sqlutil.Func("LOWER", lhs), "LIKE", sqlutil.Func("LOWER", pattern))
}

func (Adapter) In(lhs dsql.Sql, rhs []dsql.Sql) dsql.Sql {
	return sqlutil.Infix(lhs, "IN", sqlutil.Paren(sqlutil.JoinComma(rhs)))
}

func (Adapter) NotIn(lhs dsql.Sql, rhs []dsql.Sql) dsql.Sql {
	return sqlutil.Infix(lhs, "NOT IN", sqlutil.Paren(sqlutil.JoinComma(rhs)))
}

func (Adapter) IsNull(lhs dsql.Sql) dsql.Sql  { return lhs.Append(dsql.Raw(" IS NULL")) }
func (Adapter) NotNull(lhs dsql.Sql) dsql.Sql { return lhs.Append(dsql.Raw(" IS NOT NULL")) }

func (Adapter) Between(lhs, lo, hi dsql.Sql) dsql.Sql {
	return lhs.Append(dsql.Raw(" BETWEEN ")).Append(lo).Append(dsql.Raw(" AND ")).Append(hi)
}

func (Adapter) And(preds []dsql.Sql) dsql.Sql { return sqlutil.JoinAndOr(preds, "AND", dsql.Raw("TRUE")) }
func (Adapter) Or(preds []dsql.Sql) dsql.Sql  { return sqlutil.JoinAndOr(preds, "OR", dsql.Raw("FALSE")) }
func (Adapter) Not(p dsql.Sql) dsql.Sql       { return sqlutil.Prefix("NOT", sqlutil.Paren(p)) }

func (Adapter) Exists(subquery dsql.Sql) dsql.Sql    { return sqlutil.Prefix("EXISTS", sqlutil.Paren(subquery)) }
func (Adapter) NotExists(subquery dsql.Sql) dsql.Sql { return sqlutil.Prefix("NOT EXISTS", sqlutil.Paren(subquery)) }

// --- expressions ---

func (Adapter) Add(a, b dsql.Sql) dsql.Sql { return sqlutil.Infix(a, "+", b) }
func (Adapter) Sub(a, b dsql.Sql) dsql.Sql { return sqlutil.Infix(a, "-", b) }
func (Adapter) Mul(a, b dsql.Sql) dsql.Sql { return sqlutil.Infix(a, "*", b) }
func (Adapter) Div(a, b dsql.Sql) dsql.Sql { return sqlutil.Infix(a, "/", b) }

func (Adapter) Upper(a dsql.Sql) dsql.Sql { return sqlutil.Func("UPPER", a) }
func (Adapter) Lower(a dsql.Sql) dsql.Sql { return sqlutil.Func("LOWER", a) }

func (Adapter) ConcatExpr(parts []dsql.Sql) dsql.Sql { return sqlutil.Func("CONCAT", parts...) }
func (Adapter) Coalesce(parts []dsql.Sql) dsql.Sql   { return sqlutil.Func("COALESCE", parts...) }
func (Adapter) Greatest(parts []dsql.Sql) dsql.Sql   { return sqlutil.Func("GREATEST", parts...) }
func (Adapter) Least(parts []dsql.Sql) dsql.Sql      { return sqlutil.Func("LEAST", parts...) }

func (Adapter) Cast(expr dsql.Sql, sqlType string) dsql.Sql {
	return dsql.Raw("CAST(").Append(expr).Append(dsql.Raw(" AS " + sqlType + ")"))
}

// --- aggregates ---

func (Adapter) Count(expr dsql.Sql) dsql.Sql { return sqlutil.Func("COUNT", expr) }
func (Adapter) CountDistinct(expr dsql.Sql) dsql.Sql {
	return dsql.Raw("COUNT(DISTINCT ").Append(expr).Append(dsql.Raw(")"))
}
func (Adapter) Sum(expr dsql.Sql) dsql.Sql { return sqlutil.Func("SUM", expr) }
func (Adapter) Avg(expr dsql.Sql) dsql.Sql { return sqlutil.Func("AVG", expr) }
func (Adapter) Min(expr dsql.Sql) dsql.Sql { return sqlutil.Func("MIN", expr) }
func (Adapter) Max(expr dsql.Sql) dsql.Sql { return sqlutil.Func("MAX", expr) }

// --- json (MySQL JSON functions; arrays are simulated as JSON arrays) ---

func (Adapter) Object(fields map[string]dsql.Sql) dsql.Sql {
	args := make([]dsql.Sql, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, dsql.Value(k), v)
	}
	return sqlutil.Func("JSON_OBJECT", args...)
}

func (Adapter) Array(items []dsql.Sql) dsql.Sql { return sqlutil.Func("JSON_ARRAY", items...) }
func (Adapter) EmptyArray() dsql.Sql            { return dsql.Raw("CAST('[]' AS JSON)") }

// Agg simulates a GROUP-scoped JSON array with JSON_ARRAYAGG. MySQL's
// JSON_ARRAYAGG takes no ORDER BY of its own; a correctly ordered result
// requires an ORDER BY on the driving subquery before aggregation, which
// engine/load arranges for by wrapping the correlated subquery.
func (Adapter) Agg(expr dsql.Sql, orderBy dsql.Sql) dsql.Sql {
	return sqlutil.Func("JSON_ARRAYAGG", expr)
}

func (a Adapter) RowToJSON(alias string) dsql.Sql {
	return dsql.Raw("JSON_OBJECT(" + a.Escape(alias) + ".*)")
}

func (a Adapter) ObjectFromColumns(cols map[string]dsql.Sql) dsql.Sql { return a.Object(cols) }

func (Adapter) Extract(expr dsql.Sql, path string) dsql.Sql {
	return sqlutil.Func("JSON_EXTRACT", expr, dsql.Value("$."+path))
}

func (Adapter) ExtractText(expr dsql.Sql, path string) dsql.Sql {
	return sqlutil.Func("JSON_UNQUOTE", sqlutil.Func("JSON_EXTRACT", expr, dsql.Value("$."+path)))
}

func (Adapter) CastBigIntText(expr dsql.Sql) dsql.Sql {
	return dsql.Raw("CAST(").Append(expr).Append(dsql.Raw(" AS CHAR)"))
}

// --- arrays (simulated with JSON) ---

func (Adapter) Literal(items []any) dsql.Sql {
	b, _ := json.Marshal(items)
	return dsql.Raw("CAST(").Append(dsql.Value(string(b))).Append(dsql.Raw(" AS JSON)"))
}

func (Adapter) Has(col dsql.Sql, elem dsql.Sql) dsql.Sql {
	return sqlutil.Func("JSON_CONTAINS", col, sqlutil.Func("JSON_ARRAY", elem))
}

func (a Adapter) HasEvery(col dsql.Sql, elems []dsql.Sql) dsql.Sql {
	preds := make([]dsql.Sql, len(elems))
	for i, e := range elems {
		preds[i] = a.Has(col, e)
	}
	return sqlutil.JoinAndOr(preds, "AND", dsql.Raw("TRUE"))
}

func (a Adapter) HasSome(col dsql.Sql, elems []dsql.Sql) dsql.Sql {
	preds := make([]dsql.Sql, len(elems))
	for i, e := range elems {
		preds[i] = a.Has(col, e)
	}
	return sqlutil.JoinAndOr(preds, "OR", dsql.Raw("FALSE"))
}

func (Adapter) IsEmpty(col dsql.Sql) dsql.Sql {
	return sqlutil.Func("JSON_LENGTH", col).Append(dsql.Raw(" = 0"))
}

func (Adapter) Length(col dsql.Sql) dsql.Sql { return sqlutil.Func("JSON_LENGTH", col) }

func (Adapter) Elem(col dsql.Sql, index int) dsql.Sql {
	return sqlutil.Func("JSON_EXTRACT", col, dsql.Value(fmt.Sprintf("$[%d]", index)))
}

func (Adapter) SetAt(col dsql.Sql, index int, elem dsql.Sql) dsql.Sql {
	return sqlutil.Func("JSON_SET", col, dsql.Value(fmt.Sprintf("$[%d]", index)), elem)
}

// --- orderBy (MySQL has no NULLS FIRST/LAST; simulated with ISNULL()) ---

func (Adapter) Asc(expr dsql.Sql) dsql.Sql  { return expr.Append(dsql.Raw(" ASC")) }
func (Adapter) Desc(expr dsql.Sql) dsql.Sql { return expr.Append(dsql.Raw(" DESC")) }

func (Adapter) NullsFirst(expr dsql.Sql) dsql.Sql {
	return sqlutil.Func("ISNULL", expr).Append(dsql.Raw(" DESC, ")).Append(expr)
}

func (Adapter) NullsLast(expr dsql.Sql) dsql.Sql {
	return sqlutil.Func("ISNULL", expr).Append(dsql.Raw(" ASC, ")).Append(expr)
}

// --- clauses ---

func (Adapter) Select(cols []dsql.Sql) dsql.Sql {
	return dsql.Raw("SELECT ").Append(sqlutil.JoinComma(cols))
}

func (Adapter) SelectDistinct(cols []dsql.Sql) dsql.Sql {
	return dsql.Raw("SELECT DISTINCT ").Append(sqlutil.JoinComma(cols))
}

func (Adapter) From(table dsql.Sql) dsql.Sql { return dsql.Raw("FROM ").Append(table) }
func (Adapter) Where(pred dsql.Sql) dsql.Sql { return dsql.Raw("WHERE ").Append(pred) }
func (Adapter) OrderBy(exprs []dsql.Sql) dsql.Sql {
	return dsql.Raw("ORDER BY ").Append(sqlutil.JoinComma(exprs))
}
func (Adapter) Limit(n int) dsql.Sql  { return dsql.Raw(fmt.Sprintf("LIMIT %d", n)) }
func (Adapter) Offset(n int) dsql.Sql { return dsql.Raw(fmt.Sprintf("OFFSET %d", n)) }
func (Adapter) GroupBy(exprs []dsql.Sql) dsql.Sql {
	return dsql.Raw("GROUP BY ").Append(sqlutil.JoinComma(exprs))
}
func (Adapter) Having(pred dsql.Sql) dsql.Sql { return dsql.Raw("HAVING ").Append(pred) }

// AssembleSelect ignores DistinctColumnAliases: MySQL has no DISTINCT ON,
// and this adapter renders no ROW_NUMBER() replacement for it, so rows
// are not deduplicated by those columns. engine/plan never sets the field.
func (a Adapter) AssembleSelect(parts dialect.SelectParts) dsql.Sql {
	var out dsql.Sql
	if parts.Distinct {
		out = a.SelectDistinct(parts.Columns)
	} else {
		out = a.Select(parts.Columns)
	}
	out = out.Append(dsql.Raw(" ")).Append(a.From(parts.From))
	for _, j := range parts.Joins {
		out = out.Append(dsql.Raw(" ")).Append(j)
	}
	if !parts.Where.IsEmpty() {
		out = out.Append(dsql.Raw(" ")).Append(a.Where(parts.Where))
	}
	if len(parts.GroupBy) > 0 {
		out = out.Append(dsql.Raw(" ")).Append(a.GroupBy(parts.GroupBy))
	}
	if !parts.Having.IsEmpty() {
		out = out.Append(dsql.Raw(" ")).Append(a.Having(parts.Having))
	}
	if len(parts.OrderBy) > 0 {
		out = out.Append(dsql.Raw(" ")).Append(a.OrderBy(parts.OrderBy))
	}
	if parts.Limit != nil {
		out = out.Append(dsql.Raw(" ")).Append(a.Limit(*parts.Limit))
	}
	if parts.Offset != nil {
		out = out.Append(dsql.Raw(" ")).Append(a.Offset(*parts.Offset))
	}
	return out
}

// --- set (update assignments) ---

func (Adapter) Assign(col dsql.Sql, v dsql.Sql) dsql.Sql     { return sqlutil.Infix(col, "=", v) }
func (a Adapter) Increment(col dsql.Sql, v dsql.Sql) dsql.Sql { return a.Assign(col, a.Add(col, v)) }
func (a Adapter) Decrement(col dsql.Sql, v dsql.Sql) dsql.Sql { return a.Assign(col, a.Sub(col, v)) }
func (a Adapter) Multiply(col dsql.Sql, v dsql.Sql) dsql.Sql  { return a.Assign(col, a.Mul(col, v)) }
func (a Adapter) Divide(col dsql.Sql, v dsql.Sql) dsql.Sql    { return a.Assign(col, a.Div(col, v)) }

func (a Adapter) Push(col dsql.Sql, v dsql.Sql) dsql.Sql {
	return sqlutil.Infix(col, "=", sqlutil.Func("JSON_ARRAY_APPEND", col, dsql.Value("$"), v))
}

func (a Adapter) Unshift(col dsql.Sql, v dsql.Sql) dsql.Sql {
	return sqlutil.Infix(col, "=", sqlutil.Func("JSON_ARRAY_INSERT", col, dsql.Value("$[0]"), v))
}

// --- relation filters ---

func (Adapter) Some(subquery dsql.Sql) dsql.Sql { return sqlutil.Prefix("EXISTS", sqlutil.Paren(subquery)) }
func (Adapter) Every(subquery dsql.Sql) dsql.Sql {
	return sqlutil.Prefix("NOT EXISTS", sqlutil.Paren(subquery))
}
func (Adapter) None(subquery dsql.Sql) dsql.Sql {
	return sqlutil.Prefix("NOT EXISTS", sqlutil.Paren(subquery))
}
func (Adapter) Is(subquery dsql.Sql) dsql.Sql    { return sqlutil.Prefix("EXISTS", sqlutil.Paren(subquery)) }
func (Adapter) IsNot(subquery dsql.Sql) dsql.Sql { return sqlutil.Prefix("NOT EXISTS", sqlutil.Paren(subquery)) }

// --- subqueries ---

func (Adapter) Scalar(q dsql.Sql) dsql.Sql { return sqlutil.Paren(q) }
func (a Adapter) Correlate(q dsql.Sql, alias string) dsql.Sql {
	return sqlutil.Paren(q).Append(dsql.Raw(" " + a.Escape(alias)))
}
func (a Adapter) ExistsCheck(from dsql.Sql, where dsql.Sql) dsql.Sql {
	q := dsql.Raw("SELECT 1 ").Append(a.From(from))
	if !where.IsEmpty() {
		q = q.Append(dsql.Raw(" ")).Append(a.Where(where))
	}
	return a.Exists(q)
}

// --- cte (MySQL 8+ supports WITH, but never wrapping an INSERT/UPDATE/DELETE) ---

func (Adapter) With(defs []dialect.CTEDef, body dsql.Sql) dsql.Sql {
	parts := make([]dsql.Sql, len(defs))
	for i, d := range defs {
		parts[i] = dsql.Raw(d.Name + " AS (").Append(d.Query).Append(dsql.Raw(")"))
	}
	return dsql.Raw("WITH ").Append(sqlutil.JoinComma(parts)).Append(dsql.Raw(" ")).Append(body)
}

func (Adapter) Recursive(name string, anchor, recursive, unionAll dsql.Sql, body dsql.Sql) dsql.Sql {
	return dsql.Raw("WITH RECURSIVE " + name + " AS (").
		Append(anchor).Append(unionAll).Append(recursive).
		Append(dsql.Raw(") ")).Append(body)
}

// --- mutations ---

func (a Adapter) Insert(table string, columns []string, values [][]dsql.Sql, modifier dsql.Sql) dsql.Sql {
	cols := make([]dsql.Sql, len(columns))
	for i, c := range columns {
		cols[i] = dsql.Raw(a.Escape(c))
	}
	rows := make([]dsql.Sql, len(values))
	for i, row := range values {
		rows[i] = sqlutil.Paren(sqlutil.JoinComma(row))
	}
	head := dsql.Raw("INSERT ")
	if !modifier.IsEmpty() {
		head = head.Append(modifier).Append(dsql.Raw(" "))
	}
	head = head.Append(dsql.Raw("INTO " + a.Escape(table) + " ("))
	return head.
		Append(sqlutil.JoinComma(cols)).
		Append(dsql.Raw(") VALUES ")).
		Append(sqlutil.JoinComma(rows))
}

func (a Adapter) Update(table string, sets []dsql.Sql, where dsql.Sql) dsql.Sql {
	out := dsql.Raw("UPDATE " + a.Escape(table) + " SET ").Append(sqlutil.JoinComma(sets))
	if !where.IsEmpty() {
		out = out.Append(dsql.Raw(" ")).Append(a.Where(where))
	}
	return out
}

func (a Adapter) Delete(table string, where dsql.Sql) dsql.Sql {
	out := dsql.Raw("DELETE FROM " + a.Escape(table))
	if !where.IsEmpty() {
		out = out.Append(dsql.Raw(" ")).Append(a.Where(where))
	}
	return out
}

// Returning is always empty: MySQL has no RETURNING clause. The mutation
// pipeline falls back to LastInsertID() plus a follow-up SELECT per spec.
func (Adapter) Returning(columns []string) dsql.Sql { return dsql.Empty }

func (a Adapter) OnConflict(target []string, action dialect.OnConflictAction) dsql.Sql {
	if action.DoNothing || len(action.SetCols) == 0 {
		return dsql.Raw(" ON DUPLICATE KEY UPDATE " + a.Escape(target[0]) + " = " + a.Escape(target[0]))
	}
	sets := make([]dsql.Sql, 0, len(action.SetCols))
	for _, col := range sortedSetCols(action.SetCols) {
		sets = append(sets, sqlutil.Infix(dsql.Raw(a.Escape(col)), "=", action.SetCols[col]))
	}
	return dsql.Raw(" ON DUPLICATE KEY UPDATE ").Append(sqlutil.JoinComma(sets))
}

func sortedSetCols(m map[string]dsql.Sql) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (Adapter) SkipDuplicates() (modifier, suffix dsql.Sql) {
	return dsql.Raw("IGNORE"), dsql.Empty
}

func (Adapter) LastInsertID() dsql.Sql { return dsql.Raw("LAST_INSERT_ID()") }

// --- joins (no FULL OUTER JOIN or LATERAL; emulated upstream by the planner) ---

func (a Adapter) Inner(table dsql.Sql, on dsql.Sql) dsql.Sql {
	return dsql.Raw("JOIN ").Append(table).Append(dsql.Raw(" ON ")).Append(on)
}
func (a Adapter) Left(table dsql.Sql, on dsql.Sql) dsql.Sql {
	return dsql.Raw("LEFT JOIN ").Append(table).Append(dsql.Raw(" ON ")).Append(on)
}
func (a Adapter) Right(table dsql.Sql, on dsql.Sql) dsql.Sql {
	return dsql.Raw("RIGHT JOIN ").Append(table).Append(dsql.Raw(" ON ")).Append(on)
}

func (a Adapter) Full(table dsql.Sql, on dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Full")
}

func (a Adapter) Cross(table dsql.Sql) dsql.Sql { return dsql.Raw("CROSS JOIN ").Append(table) }

func (a Adapter) Lateral(table dsql.Sql, on dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "Lateral")
}

func (a Adapter) LateralLeft(table dsql.Sql, on dsql.Sql) (dsql.Sql, error) {
	return dsql.Empty, verr.FeatureNotSupported("mysql", "LateralLeft")
}

// --- set operations ---

func (Adapter) Union(a, b dsql.Sql) dsql.Sql     { return a.Append(dsql.Raw(" UNION ")).Append(b) }
func (Adapter) UnionAll(a, b dsql.Sql) dsql.Sql  { return a.Append(dsql.Raw(" UNION ALL ")).Append(b) }
func (Adapter) Intersect(a, b dsql.Sql) dsql.Sql { return a.Append(dsql.Raw(" INTERSECT ")).Append(b) }
func (Adapter) Except(a, b dsql.Sql) dsql.Sql    { return a.Append(dsql.Raw(" EXCEPT ")).Append(b) }

// --- migrations ---

func (Adapter) Introspect(ctx context.Context, executeRaw func(ctx context.Context, query string, args []any) ([]map[string]any, error)) ([]dialect.Table, error) {
	return nil, verr.NotImplemented("mysql", "Introspect")
}

func (a Adapter) GenerateDDL(desired []dialect.Table, current []dialect.Table) ([]dialect.DDLOp, error) {
	return dschema.GenerateDDL(a.Escape, desired, current)
}

func (Adapter) MapFieldType(kind string, array bool) (string, error) {
	base, ok := myTypes[kind]
	if !ok {
		return "", verr.FeatureNotSupported("mysql", "MapFieldType("+kind+")")
	}
	if array {
		return "json", nil
	}
	return base, nil
}

var myTypes = map[string]string{
	"string": "varchar(191)", "int": "int", "bigInt": "bigint", "float": "double",
	"decimal": "decimal(65,30)", "boolean": "tinyint(1)", "dateTime": "datetime(3)",
	"date": "date", "time": "time", "json": "json", "blob": "longblob", "enum": "varchar(191)",
}

func (Adapter) GetDefaultExpression(kind string, generator string) (dsql.Sql, error) {
	switch generator {
	case "now", "updatedAt":
		return dsql.Raw("CURRENT_TIMESTAMP(3)"), nil
	default:
		return dsql.Empty, nil
	}
}

func (Adapter) SupportsNativeEnums() bool { return false }

func (Adapter) GetEnumColumnType(values []string) (string, error) { return "varchar(191)", nil }

// --- result middleware ---
//
// None of the three dialects need to intercept a stage: engine/parse's
// default walk (the next continuation) already normalizes SQLite/MySQL's
// 0/1 ints to bool, decodes relation columns out of the JSON text/bytes
// engine/load projects them as, and restores BigInt/array columns, so
// every hook here is a pure pass-through to next.

func (Adapter) ParseResult(raw any, operation string, next func(any) (any, error)) (any, error) {
	return next(raw)
}

func (Adapter) ParseRelation(value any, relationType string, next func(any) (any, error)) (any, error) {
	return next(value)
}

func (Adapter) ParseField(value any, fieldKind string, next func(any) (any, error)) (any, error) {
	return next(value)
}

var _ dialect.Adapter = (*Adapter)(nil)
