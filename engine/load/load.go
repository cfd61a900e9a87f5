// Package load builds the SQL fragments that project and filter a query's
// included relations, per spec §4.4: a LATERAL join per relation when the
// dialect supports it, falling back to a self-contained correlated
// subquery otherwise; plus the EXISTS-body subqueries plan/where.go needs
// for relation filters (some/every/none/is/isNot) and the correlated
// scalar subqueries used to ORDER BY a relation.
package load

import (
	"sort"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/engine"
	"github.com/viborm/viborm/engine/plan"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/verr"
)

// Loader implements plan.RelationLoader.
type Loader struct{}

// New returns a Loader. Loader carries no state; one instance is shared
// across every query a client plans.
func New() *Loader { return &Loader{} }

var _ plan.RelationLoader = (*Loader)(nil)

// link pairs the parent-side and child-side columns that correlate a
// relation's child rows back to one parent row.
type link struct {
	parentCols []string
	childCols  []string
}

// ResolveLink is resolveLink's exported entry point, used by engine/mutate
// to find the same FK-ownership pairing when linking a nested write's
// child rows back to their parent without reimplementing the
// Field/Fields-vs-inverse-edge resolution rule.
func ResolveLink(parent *schema.Model, rel *schema.RelationSpec) (parentCols, childCols []string, err error) {
	lk, err := resolveLink(parent, rel)
	if err != nil {
		return nil, nil, err
	}
	return lk.parentCols, lk.childCols, nil
}

// resolveLink finds which side of a non-many-to-many relation owns the
// foreign key. A relation declared with Field/Fields (OnField non-empty)
// owns it locally; otherwise the owning column lives on the inverse edge
// on the target model, found by matching RefName back to this relation.
func resolveLink(parent *schema.Model, rel *schema.RelationSpec) (link, error) {
	if len(rel.OnField) > 0 {
		ref := rel.RefField
		if len(ref) == 0 {
			ref = rel.Target().PrimaryKey
		}
		return link{parentCols: rel.OnField, childCols: ref}, nil
	}
	target := rel.Target()
	for _, inv := range target.Relations {
		if inv.RefName != rel.Name || len(inv.OnField) == 0 {
			continue
		}
		ref := inv.RefField
		if len(ref) == 0 {
			ref = parent.PrimaryKey
		}
		return link{parentCols: ref, childCols: inv.OnField}, nil
	}
	return link{}, verr.UnknownRelation(parent.Name, rel.Name)
}

// linkPredicate renders the join condition correlating child to parent:
// the direct FK equality for one-to-one/one-to-many/many-to-one, or an
// EXISTS over the junction table for many-to-many.
func linkPredicate(ctx *engine.BuilderContext, child *engine.BuilderContext, rel *schema.RelationSpec) (dsql.Sql, error) {
	a := ctx.Adapter

	if rel.Through != nil {
		if len(ctx.Model.PrimaryKey) == 0 || len(child.Model.PrimaryKey) == 0 {
			return dsql.Empty, verr.UnknownRelation(ctx.Model.Name, rel.Name)
		}
		parentPK := a.Column(ctx.Alias, ctx.Model.PrimaryKey[0])
		childPK := a.Column(child.Alias, child.Model.PrimaryKey[0])
		junctionA := a.Column(rel.Through.Table, rel.Through.ColumnA)
		junctionB := a.Column(rel.Through.Table, rel.Through.ColumnB)
		inner := dsql.Raw("SELECT 1 ").Append(a.From(a.Table(rel.Through.Table, "")))
		where := a.And([]dsql.Sql{a.EQ(junctionA, parentPK), a.EQ(junctionB, childPK)})
		inner = inner.Append(dsql.Raw(" ")).Append(a.Where(where))
		return a.Exists(inner), nil
	}

	lk, err := resolveLink(ctx.Model, rel)
	if err != nil {
		return dsql.Empty, err
	}
	var preds []dsql.Sql
	for i := range lk.parentCols {
		pcol := a.Column(ctx.Alias, lk.parentCols[i])
		ccol := a.Column(child.Alias, lk.childCols[i])
		preds = append(preds, a.EQ(pcol, ccol))
	}
	return a.And(preds), nil
}

// FilterSubquery renders the EXISTS-body ("SELECT 1 FROM child WHERE ...")
// a relation filter wraps via adapter.Some/Every/None/Is/IsNot.
func (l *Loader) FilterSubquery(ctx *engine.BuilderContext, rel *schema.RelationSpec, inner *query.Filter) (dsql.Sql, error) {
	a := ctx.Adapter
	child := ctx.WithChild(rel.Target(), rel.Name)

	linkPred, err := linkPredicate(ctx, child, rel)
	if err != nil {
		return dsql.Empty, err
	}
	filterPred, err := plan.BuildFilter(child, l, inner)
	if err != nil {
		return dsql.Empty, err
	}

	q := dsql.Raw("SELECT 1 ").Append(a.From(a.Table(child.Model.TableName, child.Alias)))
	where := a.And([]dsql.Sql{linkPred, filterPred})
	if !where.IsEmpty() {
		q = q.Append(dsql.Raw(" ")).Append(a.Where(where))
	}
	return q, nil
}

// OrderExpr renders the correlated scalar subquery used to ORDER BY a
// relation: COUNT(*) for a to-many relation (ordering by related-row
// count, the common "order by relation" case), or the named scalar field
// on a to-one relation's single row.
func (l *Loader) OrderExpr(ctx *engine.BuilderContext, rel *schema.RelationSpec, field string) (dsql.Sql, error) {
	a := ctx.Adapter
	child := ctx.WithChild(rel.Target(), rel.Name)
	linkPred, err := linkPredicate(ctx, child, rel)
	if err != nil {
		return dsql.Empty, err
	}

	toMany := rel.Kind == schema.OneToMany || rel.Kind == schema.ManyToMany
	var selected dsql.Sql
	if toMany {
		selected = a.Count(dsql.Raw("*"))
	} else {
		fs, ok := rel.Target().Field(field)
		if !ok {
			return dsql.Empty, verr.UnknownField(rel.Target().Name, field)
		}
		selected = a.Column(child.Alias, fs.Column())
	}

	inner := dsql.Raw("SELECT ").Append(selected).Append(dsql.Raw(" ")).
		Append(a.From(a.Table(child.Model.TableName, child.Alias))).
		Append(dsql.Raw(" ")).Append(a.Where(linkPred))
	if !toMany {
		inner = inner.Append(dsql.Raw(" ")).Append(a.Limit(1))
	}
	return a.Scalar(inner), nil
}

// SelectRelation implements plan.RelationLoader.
func (l *Loader) SelectRelation(ctx *engine.BuilderContext, rel *schema.RelationSpec, sel *query.RelationSelection) (dsql.Sql, dsql.Sql, error) {
	a := ctx.Adapter
	child := ctx.WithChild(rel.Target(), rel.Name)
	toMany := rel.Kind == schema.OneToMany || rel.Kind == schema.ManyToMany

	childSelection := query.Selection{}
	var where *query.Filter
	var orderBy []query.OrderTerm
	var take, skip *int
	if sel != nil {
		childSelection = sel.Selection
		where = sel.Where
		orderBy = sel.OrderBy
		take = sel.Take
		skip = sel.Skip
	}

	rowExpr, nestedJoins, err := buildRowExpr(l, child, childSelection)
	if err != nil {
		return dsql.Empty, dsql.Empty, err
	}

	linkPred, err := linkPredicate(ctx, child, rel)
	if err != nil {
		return dsql.Empty, dsql.Empty, err
	}
	userFilter, err := plan.BuildFilter(child, l, where)
	if err != nil {
		return dsql.Empty, dsql.Empty, err
	}
	rowWhere := a.And([]dsql.Sql{linkPred, userFilter})

	orderExprs, _, err := plan.BuildOrderBy(child, l, orderBy, take)
	if err != nil {
		return dsql.Empty, dsql.Empty, err
	}

	useLateral := ctx.Adapter.Capabilities().SupportsLateralJoins

	if toMany {
		return l.selectToMany(ctx, child, rowExpr, nestedJoins, rowWhere, orderExprs, take, skip, useLateral)
	}
	return l.selectToOne(ctx, child, rowExpr, nestedJoins, rowWhere, orderExprs, useLateral)
}

const relationColumnAlias = "agg"

func (l *Loader) selectToOne(ctx, child *engine.BuilderContext, rowExpr dsql.Sql, nestedJoins []dsql.Sql, where dsql.Sql, orderBy []dsql.Sql, useLateral bool) (dsql.Sql, dsql.Sql, error) {
	a := ctx.Adapter
	one := 1

	if useLateral {
		innerParts := dialectParts(a, child, []dsql.Sql{a.Aliased(rowExpr, relationColumnAlias)}, nestedJoins, where, orderBy, &one, nil)
		table := a.Correlate(a.AssembleSelect(innerParts), child.Alias)
		joinFrag, err := a.LateralLeft(table, dsql.Raw("TRUE"))
		if err != nil {
			return dsql.Empty, dsql.Empty, err
		}
		return a.Column(child.Alias, relationColumnAlias), joinFrag, nil
	}

	innerParts := dialectParts(a, child, []dsql.Sql{rowExpr}, nestedJoins, where, orderBy, &one, nil)
	return a.Scalar(a.AssembleSelect(innerParts)), dsql.Empty, nil
}

func (l *Loader) selectToMany(ctx, child *engine.BuilderContext, rowExpr dsql.Sql, nestedJoins []dsql.Sql, where dsql.Sql, orderBy []dsql.Sql, take, skip *int, useLateral bool) (dsql.Sql, dsql.Sql, error) {
	a := ctx.Adapter

	// The aggregate must fold over an already ordered/limited row set, so
	// when pagination is requested the rows are first materialized by an
	// inner derived SELECT (with its own ORDER BY/LIMIT/OFFSET) and the
	// aggregation reads that derived table without re-ordering; json_agg's
	// own ORDER BY only applies when aggregating directly off the base
	// table. MySQL's and SQLite's aggregates take no ORDER BY, so an
	// ordered relation on those dialects always goes through the derived
	// table.
	if take != nil || skip != nil || (len(orderBy) > 0 && a.Name() != dialect.Postgres) {
		n := take
		var limit *int
		if n != nil {
			v := *n
			if v < 0 {
				v = -v
			}
			limit = &v
		}
		derivedParts := dialectParts(a, child, []dsql.Sql{a.Aliased(rowExpr, "row")}, nestedJoins, where, orderBy, limit, skip)
		derived := a.Correlate(a.AssembleSelect(derivedParts), "rows")
		aggExpr := a.Coalesce([]dsql.Sql{a.Agg(a.Column("rows", "row"), dsql.Empty), a.EmptyArray()})

		if useLateral {
			innerCol := a.Aliased(aggExpr, relationColumnAlias)
			innerSelect := dsql.Raw("SELECT ").Append(innerCol).Append(dsql.Raw(" ")).Append(a.From(derived))
			table := a.Correlate(innerSelect, child.Alias)
			joinFrag, err := a.LateralLeft(table, dsql.Raw("TRUE"))
			if err != nil {
				return dsql.Empty, dsql.Empty, err
			}
			return a.Column(child.Alias, relationColumnAlias), joinFrag, nil
		}
		scalar := a.Scalar(dsql.Raw("SELECT ").Append(aggExpr).Append(dsql.Raw(" ")).Append(a.From(derived)))
		return scalar, dsql.Empty, nil
	}

	aggExpr := a.Coalesce([]dsql.Sql{a.Agg(rowExpr, dsql.Join(orderBy, dsql.Raw(", "))), a.EmptyArray()})

	if useLateral {
		innerParts := dialectParts(a, child, []dsql.Sql{a.Aliased(aggExpr, relationColumnAlias)}, nestedJoins, where, nil, nil, nil)
		table := a.Correlate(a.AssembleSelect(innerParts), child.Alias)
		joinFrag, err := a.LateralLeft(table, dsql.Raw("TRUE"))
		if err != nil {
			return dsql.Empty, dsql.Empty, err
		}
		return a.Column(child.Alias, relationColumnAlias), joinFrag, nil
	}

	innerParts := dialectParts(a, child, []dsql.Sql{aggExpr}, nestedJoins, where, nil, nil, nil)
	return a.Scalar(a.AssembleSelect(innerParts)), dsql.Empty, nil
}

func dialectParts(a dialect.Adapter, ctx *engine.BuilderContext, cols []dsql.Sql, joins []dsql.Sql, where dsql.Sql, orderBy []dsql.Sql, limit, offset *int) dialect.SelectParts {
	return dialect.SelectParts{
		Columns: cols,
		From:    a.Table(ctx.Model.TableName, ctx.Alias),
		Joins:   joins,
		Where:   where,
		OrderBy: orderBy,
		Limit:   limit,
		Offset:  offset,
	}
}

// buildRowExpr renders the JSON object one child row projects: its own
// scalar fields (BigInt cast to TEXT to survive the JSON round trip, per
// spec §4.4/§4.7) plus one entry per further-included relation.
func buildRowExpr(l *Loader, ctx *engine.BuilderContext, sel query.Selection) (dsql.Sql, []dsql.Sql, error) {
	a := ctx.Adapter

	fieldNames := sel.Fields
	if len(fieldNames) == 0 {
		fieldNames = ctx.Model.FieldOrder
	}
	obj := make(map[string]dsql.Sql, len(fieldNames)+len(sel.Relations))
	for _, name := range fieldNames {
		fs, ok := ctx.Model.Field(name)
		if !ok {
			return dsql.Empty, nil, verr.UnknownField(ctx.Model.Name, name)
		}
		col := a.Column(ctx.Alias, fs.Column())
		if fs.Kind == schema.KindBigInt {
			col = a.CastBigIntText(col)
		}
		obj[fs.Name] = col
	}

	relNames := make([]string, 0, len(sel.Relations))
	for name := range sel.Relations {
		relNames = append(relNames, name)
	}
	sort.Strings(relNames)

	if ctx.Depth >= engine.MaxIncludeDepth && len(relNames) > 0 {
		return dsql.Empty, nil, verr.QueryComplexity(ctx.Model.Name, ctx.Depth)
	}

	var joins []dsql.Sql
	for _, name := range relNames {
		rel, ok := ctx.Model.Relation(name)
		if !ok {
			return dsql.Empty, nil, verr.UnknownRelation(ctx.Model.Name, name)
		}
		col, join, err := l.SelectRelation(ctx, rel, sel.Relations[name])
		if err != nil {
			return dsql.Empty, nil, err
		}
		obj[rel.Name] = col
		if !join.IsEmpty() {
			joins = append(joins, join)
		}
	}

	return a.Object(obj), joins, nil
}
