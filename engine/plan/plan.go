// Package plan compiles a canonical engine/query payload plus a
// *engine.BuilderContext into a single dsql.Sql statement, per the seven
// step SELECT-path algorithm in spec §4.3: mint the root alias, build the
// predicate, build the projection (delegating relation columns to
// engine/load), build ordering, build pagination, and hand the assembled
// parts to the adapter's Clauses.AssembleSelect.
package plan

import (
	"sort"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/engine"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/verr"
)

// RelationLoader is the engine/load surface the planner needs: correlated
// EXISTS subqueries for relation filters (relationLoader, unexported) plus
// the two projection/ordering hooks a relation column needs. engine/load's
// concrete Loader type satisfies this structurally; plan never imports
// engine/load directly to avoid an import cycle (load imports plan to
// reuse buildWhere's logic over a relation's own filter).
type RelationLoader interface {
	relationLoader

	// SelectRelation renders the column that projects one included
	// relation (a JSON array for to-many, a JSON object or NULL for
	// to-one), aliased so AssembleSelect's caller can find it in the
	// result row by name. When the loader picks the LATERAL strategy
	// (capabilities.SupportsLateralJoins), join is the
	// "LEFT JOIN LATERAL (...) AS alias ON TRUE" fragment to splice into
	// the parent SELECT's FROM clause and col references that alias's
	// projected column; otherwise join is the zero Sql and col is a
	// self-contained correlated scalar subquery.
	SelectRelation(ctx *engine.BuilderContext, rel *schema.RelationSpec, sel *query.RelationSelection) (col dsql.Sql, join dsql.Sql, err error)

	// OrderExpr renders the scalar expression used to ORDER BY a relation
	// (e.g. a correlated MIN/MAX/COUNT subquery) for OrderTerm.Relation.
	OrderExpr(ctx *engine.BuilderContext, rel *schema.RelationSpec, field string) (dsql.Sql, error)
}

// Build compiles a find* operation into a single SELECT statement.
func Build(ctx *engine.BuilderContext, loader RelationLoader, payload *query.FindPayload) (dsql.Sql, error) {
	a := ctx.Adapter

	where, err := buildWhere(ctx, loader, payload.Where)
	if err != nil {
		return dsql.Empty, err
	}

	cols, joins, err := buildSelection(ctx, loader, payload.Selection)
	if err != nil {
		return dsql.Empty, err
	}

	orderBy, reversed, err := buildOrderBy(ctx, loader, payload.OrderBy, payload.Take)
	if err != nil {
		return dsql.Empty, err
	}

	parts := dialectSelectParts(a, ctx, cols, where, orderBy)
	parts.Joins = joins

	take := payload.Take
	if take != nil {
		n := *take
		if n < 0 {
			n = -n
		}
		parts.Limit = &n
	}
	if payload.Skip != nil {
		parts.Offset = payload.Skip
	}
	if ctx.Operation == string(query.FindUnique) || ctx.Operation == string(query.FindUniqueOrThrow) ||
		ctx.Operation == string(query.FindFirst) || ctx.Operation == string(query.FindFirstOrThrow) {
		one := 1
		parts.Limit = &one
	}
	_ = reversed // consumed by engine/parse to un-reverse negative-take result order

	return a.AssembleSelect(parts), nil
}

// BuildCount compiles a count operation: SELECT COUNT(*) FROM ... WHERE.
func BuildCount(ctx *engine.BuilderContext, loader RelationLoader, where *query.Filter) (dsql.Sql, error) {
	a := ctx.Adapter
	pred, err := buildWhere(ctx, loader, where)
	if err != nil {
		return dsql.Empty, err
	}
	countCol := a.Aliased(a.Count(dsql.Raw("*")), "count")
	parts := dialectSelectParts(a, ctx, []dsql.Sql{countCol}, pred, nil)
	return a.AssembleSelect(parts), nil
}

// BuildExist compiles an exist operation: SELECT 1 FROM ... WHERE ... LIMIT 1.
func BuildExist(ctx *engine.BuilderContext, loader RelationLoader, where *query.Filter) (dsql.Sql, error) {
	a := ctx.Adapter
	pred, err := buildWhere(ctx, loader, where)
	if err != nil {
		return dsql.Empty, err
	}
	parts := dialectSelectParts(a, ctx, []dsql.Sql{dsql.Raw("1")}, pred, nil)
	one := 1
	parts.Limit = &one
	return a.AssembleSelect(parts), nil
}

// BuildAggregate compiles an aggregate or groupBy operation, selecting one
// column per requested (AggFunc, field) bucket plus, for groupBy, the
// grouping columns themselves.
func BuildAggregate(ctx *engine.BuilderContext, loader RelationLoader, payload *query.AggregatePayload) (dsql.Sql, error) {
	a := ctx.Adapter
	where, err := buildWhere(ctx, loader, payload.Where)
	if err != nil {
		return dsql.Empty, err
	}

	var cols []dsql.Sql
	var groupCols []dsql.Sql
	for _, field := range payload.GroupBy {
		fs, ok := ctx.Model.Field(field)
		if !ok {
			return dsql.Empty, verr.UnknownField(ctx.Model.Name, field)
		}
		col := a.Column(ctx.Alias, fs.Column())
		cols = append(cols, a.Aliased(col, fs.Name))
		groupCols = append(groupCols, col)
	}

	for _, fn := range sortedAggFuncs(payload.Selected) {
		fields := payload.Selected[fn]
		if fn == query.AggCount && len(fields) == 0 {
			cols = append(cols, a.Aliased(a.Count(dsql.Raw("*")), "_count._all"))
			continue
		}
		for _, field := range fields {
			fs, ok := ctx.Model.Field(field)
			if !ok {
				return dsql.Empty, verr.UnknownField(ctx.Model.Name, field)
			}
			col := a.Column(ctx.Alias, fs.Column())
			alias := string(fn) + "." + fs.Name
			var expr dsql.Sql
			switch fn {
			case query.AggCount:
				expr = a.Count(col)
			case query.AggSum:
				expr = a.Sum(col)
			case query.AggAvg:
				expr = a.Avg(col)
			case query.AggMin:
				expr = a.Min(col)
			case query.AggMax:
				expr = a.Max(col)
			default:
				return dsql.Empty, verr.UnsupportedOperation("engine/plan", ctx.Model.Name, field, string(fn))
			}
			cols = append(cols, a.Aliased(expr, alias))
		}
	}

	having, err := buildWhere(ctx, loader, payload.Having)
	if err != nil {
		return dsql.Empty, err
	}

	orderBy, _, err := buildOrderBy(ctx, loader, payload.OrderBy, payload.Take)
	if err != nil {
		return dsql.Empty, err
	}

	parts := dialectSelectParts(a, ctx, cols, where, orderBy)
	parts.GroupBy = groupCols
	parts.Having = having
	if payload.Take != nil {
		n := *payload.Take
		if n < 0 {
			n = -n
		}
		parts.Limit = &n
	}
	if payload.Skip != nil {
		parts.Offset = payload.Skip
	}
	return a.AssembleSelect(parts), nil
}

func dialectSelectParts(a dialect.Adapter, ctx *engine.BuilderContext, cols []dsql.Sql, where dsql.Sql, orderBy []dsql.Sql) dialect.SelectParts {
	return dialect.SelectParts{
		Columns: cols,
		From:    a.Table(ctx.Model.TableName, ctx.Alias),
		Where:   where,
		OrderBy: orderBy,
	}
}

// buildSelection renders the SELECT column list: scalar fields named by
// Selection.Fields (or every declared scalar, in schema field order, when
// empty) followed by one aggregated column per included relation, visited
// in sorted key order for stable SQL text.
func buildSelection(ctx *engine.BuilderContext, loader RelationLoader, sel query.Selection) (cols []dsql.Sql, joins []dsql.Sql, err error) {
	a := ctx.Adapter

	fieldNames := sel.Fields
	if len(fieldNames) == 0 {
		fieldNames = ctx.Model.FieldOrder
	}
	for _, name := range fieldNames {
		fs, ok := ctx.Model.Field(name)
		if !ok {
			return nil, nil, verr.UnknownField(ctx.Model.Name, name)
		}
		cols = append(cols, a.Aliased(a.Column(ctx.Alias, fs.Column()), fs.Name))
	}

	relNames := make([]string, 0, len(sel.Relations))
	for name := range sel.Relations {
		relNames = append(relNames, name)
	}
	sort.Strings(relNames)

	if ctx.Depth >= engine.MaxIncludeDepth && len(relNames) > 0 {
		return nil, nil, verr.QueryComplexity(ctx.Model.Name, ctx.Depth)
	}

	for _, name := range relNames {
		rel, ok := ctx.Model.Relation(name)
		if !ok {
			return nil, nil, verr.UnknownRelation(ctx.Model.Name, name)
		}
		relSel := sel.Relations[name]
		col, join, err := loader.SelectRelation(ctx, rel, relSel)
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, a.Aliased(col, rel.Name))
		if !join.IsEmpty() {
			joins = append(joins, join)
		}
	}

	return cols, joins, nil
}

// buildOrderBy renders ORDER BY terms. A negative Take reverses every term's
// direction so the LIMIT captures the tail of the logical order; reversed
// reports this so the caller (ultimately engine/parse) can restore the
// requested order in the returned rows.
func buildOrderBy(ctx *engine.BuilderContext, loader RelationLoader, terms []query.OrderTerm, take *int) ([]dsql.Sql, bool, error) {
	a := ctx.Adapter
	reversed := take != nil && *take < 0

	var out []dsql.Sql
	for _, t := range terms {
		var expr dsql.Sql
		if t.Relation != "" {
			rel, ok := ctx.Model.Relation(t.Relation)
			if !ok {
				return nil, false, verr.UnknownRelation(ctx.Model.Name, t.Relation)
			}
			e, err := loader.OrderExpr(ctx, rel, t.Field)
			if err != nil {
				return nil, false, err
			}
			expr = e
		} else {
			fs, ok := ctx.Model.Field(t.Field)
			if !ok {
				return nil, false, verr.UnknownField(ctx.Model.Name, t.Field)
			}
			expr = a.Column(ctx.Alias, fs.Column())
		}

		dir := t.Direction
		if reversed {
			if dir == query.Desc {
				dir = query.Asc
			} else {
				dir = query.Desc
			}
		}
		if dir == query.Desc {
			expr = a.Desc(expr)
		} else {
			expr = a.Asc(expr)
		}
		switch t.Nulls {
		case query.NullsFirst:
			expr = a.NullsFirst(expr)
		case query.NullsLast:
			expr = a.NullsLast(expr)
		}
		out = append(out, expr)
	}
	return out, reversed, nil
}

// BuildOrderBy is buildOrderBy's exported entry point, used by engine/load
// to render ORDER BY terms over a relation's own child context.
func BuildOrderBy(ctx *engine.BuilderContext, loader RelationLoader, terms []query.OrderTerm, take *int) ([]dsql.Sql, bool, error) {
	return buildOrderBy(ctx, loader, terms, take)
}

func sortedAggFuncs(m map[query.AggFunc][]string) []query.AggFunc {
	out := make([]query.AggFunc, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
