// Package postgres implements dialect.Adapter for PostgreSQL: native
// arrays and JSONB, ILIKE, RETURNING, DISTINCT ON, LATERAL joins, full
// CTE-with-mutation support, and pgvector/PostGIS operator families.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/dialect"
	"github.com/viborm/viborm/dialect/sql/internal/sqlutil"
	dschema "github.com/viborm/viborm/dialect/sql/schema"
	"github.com/viborm/viborm/verr"
)

// Adapter is the PostgreSQL dialect.Adapter implementation.
type Adapter struct{}

// New returns the PostgreSQL adapter. It carries no state; a single
// package-level instance may be shared across every connection.
func New() *Adapter { return &Adapter{} }

func (Adapter) Name() string { return dialect.Postgres }

func (Adapter) Capabilities() dialect.Capabilities {
	return dialect.Capabilities{
		SupportsReturning:        true,
		SupportsCTEWithMutations: true,
		SupportsFullOuterJoin:    true,
		SupportsLateralJoins:     true,
		SupportsNativeJSON:       true,
		SupportsNativeArrays:     true,
		SupportsVector:           true,
		SupportsGeospatial:       true,
		SupportsNativeEnums:      true,
	}
}

// --- identifiers ---

func (Adapter) Escape(name string) string {
	return `"` + escapeIdent(name) + `"`
}

func escapeIdent(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			out = append(out, '"', '"')
			continue
		}
		out = append(out, name[i])
	}
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
	return dsql.Raw("CAST(").Append(dsql.Value(string(b))).Append(dsql.Raw(" AS JSONB)")), nil
}

// --- operators ---

func (Adapter) EQ(lhs, rhs dsql.Sql) dsql.Sql    { return sqlutil.Infix(lhs, "=", rhs) }
func (Adapter) NEQ(lhs, rhs dsql.Sql) dsql.Sql   { return sqlutil.Infix(lhs, "<>", rhs) }
func (Adapter) GT(lhs, rhs dsql.Sql) dsql.Sql    { return sqlutil.Infix(lhs, ">", rhs) }
func (Adapter) GTE(lhs, rhs dsql.Sql) dsql.Sql   { return sqlutil.Infix(lhs, ">=", rhs) }
func (Adapter) LT(lhs, rhs dsql.Sql) dsql.Sql    { return sqlutil.Infix(lhs, "<", rhs) }
func (Adapter) LTE(lhs, rhs dsql.Sql) dsql.Sql   { return sqlutil.Infix(lhs, "<=", rhs) }
func (Adapter) Like(lhs, pattern dsql.Sql) dsql.Sql  { return sqlutil.Infix(lhs, "LIKE", pattern) }
func (Adapter) ILike(lhs, pattern dsql.Sql) dsql.Sql { return sqlutil.Infix(lhs, "ILIKE", pattern) }

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
func (Adapter) Coalesce(parts []dsql.Sql) dsql.Sql    { return sqlutil.Func("COALESCE", parts...) }
func (Adapter) Greatest(parts []dsql.Sql) dsql.Sql    { return sqlutil.Func("GREATEST", parts...) }
func (Adapter) Least(parts []dsql.Sql) dsql.Sql       { return sqlutil.Func("LEAST", parts...) }

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

// --- json ---

func (Adapter) Object(fields map[string]dsql.Sql) dsql.Sql {
	args := make([]dsql.Sql, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, dsql.Value(k), v)
	}
	return sqlutil.Func("jsonb_build_object", args...)
}

func (Adapter) Array(items []dsql.Sql) dsql.Sql { return sqlutil.Func("jsonb_build_array", items...) }
func (Adapter) EmptyArray() dsql.Sql            { return dsql.Raw("'[]'::jsonb") }

func (Adapter) Agg(expr dsql.Sql, orderBy dsql.Sql) dsql.Sql {
	f := dsql.Raw("jsonb_agg(").Append(expr)
	if !orderBy.IsEmpty() {
		f = f.Append(dsql.Raw(" ORDER BY ")).Append(orderBy)
	}
	return f.Append(dsql.Raw(")"))
}

func (a Adapter) RowToJSON(alias string) dsql.Sql {
	return dsql.Raw("to_jsonb(" + a.Escape(alias) + ".*)")
}

func (a Adapter) ObjectFromColumns(cols map[string]dsql.Sql) dsql.Sql {
	return a.Object(cols)
}

func (Adapter) Extract(expr dsql.Sql, path string) dsql.Sql {
	return expr.Append(dsql.Raw(" -> ")).Append(dsql.Value(path))
}

func (Adapter) ExtractText(expr dsql.Sql, path string) dsql.Sql {
	return expr.Append(dsql.Raw(" ->> ")).Append(dsql.Value(path))
}

func (Adapter) CastBigIntText(expr dsql.Sql) dsql.Sql {
	return dsql.Raw("CAST(").Append(expr).Append(dsql.Raw(" AS TEXT)"))
}

// --- arrays (native PostgreSQL arrays) ---

func (a Adapter) Literal(items []any) dsql.Sql {
	frags := make([]dsql.Sql, len(items))
	for i, it := range items {
		frags[i] = dsql.Value(it)
	}
	return dsql.Raw("ARRAY[").Append(sqlutil.JoinComma(frags)).Append(dsql.Raw("]"))
}

func (Adapter) Has(col dsql.Sql, elem dsql.Sql) dsql.Sql {
	return elem.Append(dsql.Raw(" = ANY(")).Append(col).Append(dsql.Raw(")"))
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
	return dsql.Raw("array_length(").Append(col).Append(dsql.Raw(", 1) IS NULL"))
}

func (Adapter) Length(col dsql.Sql) dsql.Sql {
	return dsql.Raw("array_length(").Append(col).Append(dsql.Raw(", 1)"))
}

func (Adapter) Elem(col dsql.Sql, index int) dsql.Sql {
	return col.Append(dsql.Raw(fmt.Sprintf("[%d]", index+1)))
}

func (Adapter) SetAt(col dsql.Sql, index int, elem dsql.Sql) dsql.Sql {
	return col.Append(dsql.Raw(fmt.Sprintf("[%d] = ", index+1))).Append(elem)
}

// --- orderBy ---

func (Adapter) Asc(expr dsql.Sql) dsql.Sql  { return expr.Append(dsql.Raw(" ASC")) }
func (Adapter) Desc(expr dsql.Sql) dsql.Sql { return expr.Append(dsql.Raw(" DESC")) }
func (Adapter) NullsFirst(expr dsql.Sql) dsql.Sql { return expr.Append(dsql.Raw(" NULLS FIRST")) }
func (Adapter) NullsLast(expr dsql.Sql) dsql.Sql  { return expr.Append(dsql.Raw(" NULLS LAST")) }

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

func (a Adapter) AssembleSelect(parts dialect.SelectParts) dsql.Sql {
	var out dsql.Sql
	if len(parts.DistinctColumnAliases) > 0 {
		cols := make([]dsql.Sql, len(parts.DistinctColumnAliases))
		for i, c := range parts.DistinctColumnAliases {
			cols[i] = dsql.Raw(c)
		}
		out = dsql.Raw("SELECT DISTINCT ON (").Append(sqlutil.JoinComma(cols)).Append(dsql.Raw(") ")).Append(sqlutil.JoinComma(parts.Columns))
	} else if parts.Distinct {
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

func (Adapter) Assign(col dsql.Sql, v dsql.Sql) dsql.Sql    { return sqlutil.Infix(col, "=", v) }
func (a Adapter) Increment(col dsql.Sql, v dsql.Sql) dsql.Sql { return a.Assign(col, a.Add(col, v)) }
func (a Adapter) Decrement(col dsql.Sql, v dsql.Sql) dsql.Sql { return a.Assign(col, a.Sub(col, v)) }
func (a Adapter) Multiply(col dsql.Sql, v dsql.Sql) dsql.Sql  { return a.Assign(col, a.Mul(col, v)) }
func (a Adapter) Divide(col dsql.Sql, v dsql.Sql) dsql.Sql    { return a.Assign(col, a.Div(col, v)) }

func (a Adapter) Push(col dsql.Sql, v dsql.Sql) dsql.Sql {
	return sqlutil.Infix(col, "=", dsql.Raw("array_append(").Append(col).Append(dsql.Raw(", ")).Append(v).Append(dsql.Raw(")")))
}

func (a Adapter) Unshift(col dsql.Sql, v dsql.Sql) dsql.Sql {
	return sqlutil.Infix(col, "=", dsql.Raw("array_prepend(").Append(v).Append(dsql.Raw(", ")).Append(col).Append(dsql.Raw(")")))
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

// --- cte ---

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

func (a Adapter) Returning(columns []string) dsql.Sql {
	if len(columns) == 0 {
		return dsql.Empty
	}
	cols := make([]dsql.Sql, len(columns))
	for i, c := range columns {
		cols[i] = dsql.Raw(a.Escape(c))
	}
	return dsql.Raw(" RETURNING ").Append(sqlutil.JoinComma(cols))
}

func (a Adapter) OnConflict(target []string, action dialect.OnConflictAction) dsql.Sql {
	cols := make([]dsql.Sql, len(target))
	for i, c := range target {
		cols[i] = dsql.Raw(a.Escape(c))
	}
	out := dsql.Raw(" ON CONFLICT (").Append(sqlutil.JoinComma(cols)).Append(dsql.Raw(") "))
	if action.DoNothing || len(action.SetCols) == 0 {
		return out.Append(dsql.Raw("DO NOTHING"))
	}
	sets := make([]dsql.Sql, 0, len(action.SetCols))
	for _, col := range sortedSetCols(action.SetCols) {
		sets = append(sets, sqlutil.Infix(dsql.Raw(a.Escape(col)), "=", action.SetCols[col]))
	}
	return out.Append(dsql.Raw("DO UPDATE SET ")).Append(sqlutil.JoinComma(sets))
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
	return dsql.Empty, dsql.Raw(" ON CONFLICT DO NOTHING")
}

func (Adapter) LastInsertID() dsql.Sql { return dsql.Raw("lastval()") }

// --- joins ---

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
	return dsql.Raw("FULL OUTER JOIN ").Append(table).Append(dsql.Raw(" ON ")).Append(on), nil
}
func (a Adapter) Cross(table dsql.Sql) dsql.Sql {
	return dsql.Raw("CROSS JOIN ").Append(table)
}
func (a Adapter) Lateral(table dsql.Sql, on dsql.Sql) (dsql.Sql, error) {
	return dsql.Raw("JOIN LATERAL ").Append(table).Append(dsql.Raw(" ON ")).Append(on), nil
}
func (a Adapter) LateralLeft(table dsql.Sql, on dsql.Sql) (dsql.Sql, error) {
	return dsql.Raw("LEFT JOIN LATERAL ").Append(table).Append(dsql.Raw(" ON ")).Append(on), nil
}

// --- set operations ---

func (Adapter) Union(a, b dsql.Sql) dsql.Sql     { return a.Append(dsql.Raw(" UNION ")).Append(b) }
func (Adapter) UnionAll(a, b dsql.Sql) dsql.Sql  { return a.Append(dsql.Raw(" UNION ALL ")).Append(b) }
func (Adapter) Intersect(a, b dsql.Sql) dsql.Sql { return a.Append(dsql.Raw(" INTERSECT ")).Append(b) }
func (Adapter) Except(a, b dsql.Sql) dsql.Sql    { return a.Append(dsql.Raw(" EXCEPT ")).Append(b) }

// --- vector (pgvector) ---

func (Adapter) VectorLiteral(values []float64) dsql.Sql {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprintf("%g", v)
	}
	s := "["
	for i, v := range strs {
		if i > 0 {
			s += ","
		}
		s += v
	}
	s += "]"
	return dsql.Raw("'" + s + "'::vector")
}

// L2 and Cosine render pgvector's distance operators. The vector literal
// builder is VectorLiteral, so it does not collide with ArrayOps.Literal.
func (a Adapter) L2(col dsql.Sql, vec dsql.Sql) (dsql.Sql, error) {
	return col.Append(dsql.Raw(" <-> ")).Append(vec), nil
}

func (a Adapter) Cosine(col dsql.Sql, vec dsql.Sql) (dsql.Sql, error) {
	return col.Append(dsql.Raw(" <=> ")).Append(vec), nil
}

// --- geospatial (PostGIS) ---

func (Adapter) Point(lng, lat float64) dsql.Sql {
	return dsql.Raw(fmt.Sprintf("ST_MakePoint(%g, %g)", lng, lat))
}

func geoFunc(name string, a, b dsql.Sql) (dsql.Sql, error) {
	return sqlutil.Func(name, a, b), nil
}

func (Adapter) Equals(a, b dsql.Sql) (dsql.Sql, error)     { return geoFunc("ST_Equals", a, b) }
func (Adapter) Intersects(a, b dsql.Sql) (dsql.Sql, error) { return geoFunc("ST_Intersects", a, b) }
func (Adapter) Contains(a, b dsql.Sql) (dsql.Sql, error)   { return geoFunc("ST_Contains", a, b) }
func (Adapter) Within(a, b dsql.Sql) (dsql.Sql, error)     { return geoFunc("ST_Within", a, b) }
func (Adapter) Crosses(a, b dsql.Sql) (dsql.Sql, error)    { return geoFunc("ST_Crosses", a, b) }
func (Adapter) Overlaps(a, b dsql.Sql) (dsql.Sql, error)   { return geoFunc("ST_Overlaps", a, b) }
func (Adapter) Touches(a, b dsql.Sql) (dsql.Sql, error)    { return geoFunc("ST_Touches", a, b) }
func (Adapter) Covers(a, b dsql.Sql) (dsql.Sql, error)     { return geoFunc("ST_Covers", a, b) }

func (Adapter) DWithin(a, b dsql.Sql, distance float64) (dsql.Sql, error) {
	return sqlutil.Func("ST_DWithin", a, b, dsql.Value(distance)), nil
}

// --- migrations ---

// Introspect is not implemented: it runs no catalog query and returns
// verr.NotImplemented. schema.FromAtlasTable converts an atlas
// schema.Table into a dialect.Table, but no adapter calls it.
func (Adapter) Introspect(ctx context.Context, executeRaw func(ctx context.Context, query string, args []any) ([]map[string]any, error)) ([]dialect.Table, error) {
	return nil, verr.NotImplemented("postgres", "Introspect")
}

// GenerateDDL renders CREATE TABLE/ADD COLUMN statements for the tables
// and columns missing from current via dialect/sql/schema.GenerateDDL,
// which runs Diff first and generates nothing when Diff reports an error.
func (a Adapter) GenerateDDL(desired []dialect.Table, current []dialect.Table) ([]dialect.DDLOp, error) {
	return dschema.GenerateDDL(a.Escape, desired, current)
}

func (Adapter) MapFieldType(kind string, array bool) (string, error) {
	base, ok := pgTypes[kind]
	if !ok {
		return "", verr.FeatureNotSupported("postgres", "MapFieldType("+kind+")")
	}
	if array {
		return base + "[]", nil
	}
	return base, nil
}

var pgTypes = map[string]string{
	"string": "text", "int": "integer", "bigInt": "bigint", "float": "double precision",
	"decimal": "numeric", "boolean": "boolean", "dateTime": "timestamptz", "date": "date",
	"time": "time", "json": "jsonb", "blob": "bytea", "enum": "text", "vector": "vector",
	"geometry": "geometry",
}

func (Adapter) GetDefaultExpression(kind string, generator string) (dsql.Sql, error) {
	switch generator {
	case "now", "updatedAt":
		return dsql.Raw("now()"), nil
	case "uuid":
		return dsql.Raw("gen_random_uuid()"), nil
	default:
		return dsql.Empty, nil
	}
}

func (Adapter) SupportsNativeEnums() bool { return true }

func (Adapter) GetEnumColumnType(values []string) (string, error) {
	return "text", nil // plain text column; the DDL generator emits neither a CHECK constraint nor a CREATE TYPE for the allowed values.
}

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
