package plan

import (
	"sort"

	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/engine"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/verr"
)

// BuildFilter is buildWhere's exported entry point, used by engine/load to
// render a relation's own nested filter against its child context without
// engine/load reimplementing filter-tree walking.
func BuildFilter(ctx *engine.BuilderContext, loader RelationLoader, f *query.Filter) (dsql.Sql, error) {
	return buildWhere(ctx, loader, f)
}

// buildWhere walks a canonical Filter tree (per spec §4.3) into a single
// predicate fragment, folding AND/OR left-to-right and wrapping NOT, with
// relation quantifiers routed through engine/load's correlated subquery
// builders.
func buildWhere(ctx *engine.BuilderContext, loader relationLoader, f *query.Filter) (dsql.Sql, error) {
	if f.IsZero() {
		return dsql.Empty, nil
	}
	a := ctx.Adapter
	var preds []dsql.Sql

	for _, name := range sortedKeys(f.Fields) {
		ff := f.Fields[name]
		fs, ok := ctx.Model.Field(name)
		if !ok {
			return dsql.Empty, verr.UnknownField(ctx.Model.Name, name)
		}
		p, err := buildFieldFilter(a, ctx.Adapter.Column(ctx.Alias, fs.Column()), ctx.Model.Name, fs, ff)
		if err != nil {
			return dsql.Empty, err
		}
		preds = append(preds, p)
	}

	for _, name := range sortedRelationKeys(f.Relations) {
		rf := f.Relations[name]
		rel, ok := ctx.Model.Relation(name)
		if !ok {
			return dsql.Empty, verr.UnknownRelation(ctx.Model.Name, name)
		}
		p, err := buildRelationFilter(ctx, loader, rel, rf)
		if err != nil {
			return dsql.Empty, err
		}
		preds = append(preds, p)
	}

	for _, sub := range f.And {
		p, err := buildWhere(ctx, loader, &sub)
		if err != nil {
			return dsql.Empty, err
		}
		preds = append(preds, p)
	}
	if len(f.Or) > 0 {
		var orPreds []dsql.Sql
		for _, sub := range f.Or {
			p, err := buildWhere(ctx, loader, &sub)
			if err != nil {
				return dsql.Empty, err
			}
			orPreds = append(orPreds, p)
		}
		preds = append(preds, a.Or(orPreds))
	}
	for _, sub := range f.Not {
		p, err := buildWhere(ctx, loader, &sub)
		if err != nil {
			return dsql.Empty, err
		}
		preds = append(preds, a.Not(p))
	}

	return a.And(preds), nil
}

// relationLoader is the subset of engine/load's API the WHERE builder
// needs: an EXISTS-style correlated subquery over a relation's target,
// filtered by the inner Filter. Declared here (rather than importing
// engine/load directly) to avoid plan<->load import cycles; load.Loader
// satisfies it.
type relationLoader interface {
	FilterSubquery(ctx *engine.BuilderContext, rel *schema.RelationSpec, inner *query.Filter) (dsql.Sql, error)
}

func buildRelationFilter(ctx *engine.BuilderContext, loader relationLoader, rel *schema.RelationSpec, rf query.RelationFilter) (dsql.Sql, error) {
	a := ctx.Adapter
	switch {
	case rf.Is != nil:
		sub, err := loader.FilterSubquery(ctx, rel, rf.Is)
		if err != nil {
			return dsql.Empty, err
		}
		return a.Is(sub), nil
	case rf.IsNot != nil:
		sub, err := loader.FilterSubquery(ctx, rel, rf.IsNot)
		if err != nil {
			return dsql.Empty, err
		}
		return a.IsNot(sub), nil
	case rf.Some != nil:
		sub, err := loader.FilterSubquery(ctx, rel, rf.Some)
		if err != nil {
			return dsql.Empty, err
		}
		return a.Some(sub), nil
	case rf.None != nil:
		sub, err := loader.FilterSubquery(ctx, rel, rf.None)
		if err != nil {
			return dsql.Empty, err
		}
		return a.None(sub), nil
	case rf.Every != nil:
		// every(cond) == NOT EXISTS(children WHERE NOT cond), per spec §4.3.
		negated := query.Filter{Not: []query.Filter{*rf.Every}}
		sub, err := loader.FilterSubquery(ctx, rel, &negated)
		if err != nil {
			return dsql.Empty, err
		}
		return a.Every(sub), nil
	default:
		return dsql.Empty, verr.InvalidFilterShape("engine/plan", ctx.Model.Name, rel.Name, nil)
	}
}

func buildFieldFilter(a interface {
	EQ(l, r dsql.Sql) dsql.Sql
	NEQ(l, r dsql.Sql) dsql.Sql
	GT(l, r dsql.Sql) dsql.Sql
	GTE(l, r dsql.Sql) dsql.Sql
	LT(l, r dsql.Sql) dsql.Sql
	LTE(l, r dsql.Sql) dsql.Sql
	Like(l, r dsql.Sql) dsql.Sql
	ILike(l, r dsql.Sql) dsql.Sql
	In(l dsql.Sql, r []dsql.Sql) dsql.Sql
	NotIn(l dsql.Sql, r []dsql.Sql) dsql.Sql
	IsNull(l dsql.Sql) dsql.Sql
	NotNull(l dsql.Sql) dsql.Sql
	Has(col, elem dsql.Sql) dsql.Sql
	HasEvery(col dsql.Sql, elems []dsql.Sql) dsql.Sql
	HasSome(col dsql.Sql, elems []dsql.Sql) dsql.Sql
	IsEmpty(col dsql.Sql) dsql.Sql
	Value(v any) dsql.Sql
	And(p []dsql.Sql) dsql.Sql
}, col dsql.Sql, modelName string, fs *schema.FieldSpec, ff query.FieldFilter) (dsql.Sql, error) {
	var preds []dsql.Sql
	ops := make([]string, 0, len(ff))
	for op := range ff {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		v := ff[op]
		switch op {
		case "equals":
			if v == nil {
				preds = append(preds, a.IsNull(col))
			} else {
				preds = append(preds, a.EQ(col, a.Value(v)))
			}
		case "not":
			if v == nil {
				preds = append(preds, a.NotNull(col))
			} else {
				preds = append(preds, a.NEQ(col, a.Value(v)))
			}
		case "gt":
			preds = append(preds, a.GT(col, a.Value(v)))
		case "gte":
			preds = append(preds, a.GTE(col, a.Value(v)))
		case "lt":
			preds = append(preds, a.LT(col, a.Value(v)))
		case "lte":
			preds = append(preds, a.LTE(col, a.Value(v)))
		case "contains":
			preds = append(preds, likeOp(a, ff, col, "%"+v.(string)+"%"))
		case "startsWith":
			preds = append(preds, likeOp(a, ff, col, v.(string)+"%"))
		case "endsWith":
			preds = append(preds, likeOp(a, ff, col, "%"+v.(string)))
		case "in":
			preds = append(preds, a.In(col, valueList(a, v)))
		case "notIn":
			preds = append(preds, a.NotIn(col, valueList(a, v)))
		case "has":
			preds = append(preds, a.Has(col, a.Value(v)))
		case "hasEvery":
			preds = append(preds, a.HasEvery(col, valueList(a, v)))
		case "hasSome":
			preds = append(preds, a.HasSome(col, valueList(a, v)))
		case "isEmpty":
			if v == true {
				preds = append(preds, a.IsEmpty(col))
			}
		case "mode":
			// consumed by likeOp via the sibling "contains"/"startsWith"/
			// "endsWith" key; standalone it carries no predicate.
		default:
			return dsql.Empty, verr.UnsupportedOperation("engine/plan", modelName, fs.Name, op)
		}
	}
	return a.And(preds), nil
}

// likeOp chooses ILike over Like when the filter's "mode" key requests
// case-insensitive matching ("insensitive").
func likeOp(a interface {
	Like(l, r dsql.Sql) dsql.Sql
	ILike(l, r dsql.Sql) dsql.Sql
	Value(v any) dsql.Sql
}, ff query.FieldFilter, col dsql.Sql, pattern string) dsql.Sql {
	if mode, _ := ff["mode"].(string); mode == "insensitive" {
		return a.ILike(col, a.Value(pattern))
	}
	return a.Like(col, a.Value(pattern))
}

func valueList(a interface{ Value(v any) dsql.Sql }, v any) []dsql.Sql {
	items, _ := v.([]any)
	out := make([]dsql.Sql, len(items))
	for i, it := range items {
		out[i] = a.Value(it)
	}
	return out
}

// sortedKeys returns a FieldFilter map's keys in sorted order: map
// iteration order is randomized in Go, and identical (schema, query) pairs
// must always compile to textually identical SQL.
func sortedKeys(m map[string]query.FieldFilter) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRelationKeys(m map[string]query.RelationFilter) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
