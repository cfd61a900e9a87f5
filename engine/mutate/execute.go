package mutate

import (
	"context"
	"time"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/dialect/sql/sqlgraph"
	"github.com/viborm/viborm/engine"
	"github.com/viborm/viborm/engine/load"
	"github.com/viborm/viborm/engine/plan"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/verr"
)

// Execute runs a validated WritePlan against drv. If drv is not already a
// transaction, a plan carrying nested writes opens its own transaction and
// commits or rolls it back around dispatch. If drv is already a
// transaction (the caller is composing this write into a larger unit of
// work) and the plan carries nested writes, dispatch instead runs inside a
// savepoint on that transaction (engine.Savepoint), so a failed nested
// write unwinds only this operation rather than the caller's whole
// transaction.
func Execute(ctx context.Context, drv dialect.Driver, p *WritePlan, now time.Time) (map[string]any, error) {
	if tx, already := drv.(dialect.Tx); already && len(p.Nested) > 0 {
		var row map[string]any
		err := engine.Savepoint(ctx, tx, func(ctx context.Context, tx dialect.Tx) error {
			var derr error
			row, derr = dispatch(ctx, tx, p, now)
			return derr
		})
		if err != nil {
			return nil, err
		}
		return row, nil
	}

	exec, owned, err := beginIfNeeded(ctx, drv, p)
	if err != nil {
		return nil, err
	}

	row, err := dispatch(ctx, exec, p, now)
	if owned {
		tx := exec.(dialect.Tx)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		if cerr := tx.Commit(); cerr != nil {
			return nil, verr.Unexpected("engine/mutate", cerr)
		}
		return row, nil
	}
	return row, err
}

func dispatch(ctx context.Context, exec dialect.Driver, p *WritePlan, now time.Time) (map[string]any, error) {
	switch p.Op {
	case query.Create:
		return executeCreate(ctx, exec, p, now)
	case query.Update, query.Upsert:
		return executeUpdate(ctx, exec, p, now)
	case query.Delete, query.DeleteMany:
		return nil, executeDelete(ctx, exec, p)
	default:
		return nil, verr.UnsupportedOperation("engine/mutate", p.Ctx.Model.Name, "", string(p.Op))
	}
}

func beginIfNeeded(ctx context.Context, drv dialect.Driver, p *WritePlan) (dialect.Driver, bool, error) {
	if _, already := drv.(dialect.Tx); already {
		return drv, false, nil
	}
	if len(p.Nested) == 0 {
		return drv, false, nil
	}
	tx, err := drv.Tx(ctx)
	if err != nil {
		return nil, false, verr.Unexpected("engine/mutate", err)
	}
	return tx, true, nil
}

func classifyErr(model string, err error) error {
	if ce := sqlgraph.AsEngineError(model, err); ce != nil {
		return ce
	}
	return verr.Unexpected("engine/mutate", err)
}

// execStatement renders and runs a Statement whose result rows the
// caller doesn't need (deletes, junction writes, plain updates).
func execStatement(ctx context.Context, exec dialect.Driver, a dialect.Adapter, model string, stmt Statement) error {
	text, args := stmt.SQL.Render(placeholderFor(a))
	if err := exec.Exec(ctx, text, args, nil); err != nil {
		return classifyErr(model, err)
	}
	return nil
}

// scanRows drains a Rows cursor into field-name-keyed maps. plan.Build's
// SELECT aliases every scalar column by field name, so rows.Columns()
// already yields the keys callers expect.
func scanRows(rows *dsql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchOne runs a flat findFirst-shaped SELECT (no relation projections)
// and returns its single row, or nil if nothing matched.
func fetchOne(ctx context.Context, exec dialect.Driver, bctx *engine.BuilderContext, model *schema.Model, where *query.Filter) (map[string]any, error) {
	stmt, err := plan.Build(bctx, load.New(), &query.FindPayload{Where: where})
	if err != nil {
		return nil, err
	}
	text, args := stmt.Render(placeholderFor(bctx.Adapter))
	var rows dsql.Rows
	if err := exec.Query(ctx, text, args, &rows); err != nil {
		return nil, classifyErr(model.Name, err)
	}
	defer rows.Close()
	results, err := scanRows(&rows)
	if err != nil {
		return nil, verr.Unexpected("engine/mutate", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// uniqueWhere compiles a nested write's per-target filter the same way
// the read path compiles any filter, so mutate never reimplements the
// operator/relation-quantifier walk.
func uniqueWhere(ctx *engine.BuilderContext, w *query.Filter) (dsql.Sql, error) {
	return plan.BuildFilter(ctx, load.New(), w)
}

// execReturning renders and runs stmt; when the dialect supports
// RETURNING it scans the row back directly, otherwise it runs the bare
// statement and calls fallback to re-fetch the row (MySQL's path).
func execReturning(ctx context.Context, exec dialect.Driver, bctx *engine.BuilderContext, model *schema.Model, stmt Statement, fallback func() (map[string]any, error)) (map[string]any, error) {
	a := bctx.Adapter
	text, args := stmt.SQL.Render(placeholderFor(a))
	if a.Capabilities().SupportsReturning {
		var rows dsql.Rows
		if err := exec.Query(ctx, text, args, &rows); err != nil {
			return nil, classifyErr(model.Name, err)
		}
		defer rows.Close()
		results, err := scanRows(&rows)
		if err != nil {
			return nil, verr.Unexpected("engine/mutate", err)
		}
		if len(results) == 0 {
			return nil, verr.RecordNotFound(model.Name, bctx.Operation)
		}
		return results[0], nil
	}
	if err := exec.Exec(ctx, text, args, nil); err != nil {
		return nil, classifyErr(model.Name, err)
	}
	if fallback == nil {
		return nil, nil
	}
	return fallback()
}

// createOne inserts one row for model and returns the inserted row. On a
// dialect without RETURNING it pulls the generated id with LastInsertID
// and re-fetches the row by primary key.
func createOne(ctx context.Context, exec dialect.Driver, bctx *engine.BuilderContext, model *schema.Model, data map[string]any, now time.Time) (map[string]any, error) {
	a := bctx.Adapter
	stmt, full, err := BuildInsert(bctx, data, nil, now)
	if err != nil {
		return nil, err
	}

	if a.Capabilities().SupportsReturning {
		return execReturning(ctx, exec, bctx, model, stmt, nil)
	}

	text, args := stmt.SQL.Render(placeholderFor(a))
	var res dsql.Result
	if err := exec.Exec(ctx, text, args, &res); err != nil {
		return nil, classifyErr(model.Name, err)
	}
	if len(model.PrimaryKey) == 1 {
		pk := model.PrimaryKey[0]
		if _, already := full[pk]; !already {
			id, err := res.LastInsertId()
			if err != nil {
				return nil, verr.Unexpected("engine/mutate", err)
			}
			full[pk] = id
		}
	}
	return followUpSelect(ctx, exec, bctx, model, full)
}

// followUpSelect re-fetches a row by its primary key values, for
// dialects without RETURNING. It falls back to the in-memory row if the
// model has no declared primary key or the re-fetch turns up nothing.
func followUpSelect(ctx context.Context, exec dialect.Driver, bctx *engine.BuilderContext, model *schema.Model, full map[string]any) (map[string]any, error) {
	if len(model.PrimaryKey) == 0 {
		return full, nil
	}
	w := &query.Filter{Fields: map[string]query.FieldFilter{}}
	for _, pk := range model.PrimaryKey {
		w.Fields[pk] = query.FieldFilter{"equals": full[pk]}
	}
	row, err := fetchOne(ctx, exec, selectCtx(bctx.Adapter, model, bctx.Operation), model, w)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return full, nil
	}
	return row, nil
}

// insertJunctionRows links parentRow to children through a many-to-many
// relation's join table.
func insertJunctionRows(ctx context.Context, exec dialect.Driver, a dialect.Adapter, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, children []map[string]any) error {
	if len(children) == 0 {
		return nil
	}
	if len(parentModel.PrimaryKey) == 0 || len(rel.Target().PrimaryKey) == 0 {
		return verr.UnsupportedOperation("engine/mutate", parentModel.Name, rel.Name, "connect")
	}
	parentID := parentRow[parentModel.PrimaryKey[0]]
	childPK := rel.Target().PrimaryKey[0]

	rows := make([][]dsql.Sql, len(children))
	for i, child := range children {
		rows[i] = []dsql.Sql{a.Value(parentID), a.Value(child[childPK])}
	}
	ins := a.Insert(rel.Through.Table, []string{rel.Through.ColumnA, rel.Through.ColumnB}, rows, dsql.Empty)
	return execStatement(ctx, exec, a, parentModel.Name, Statement{SQL: ins})
}

// resolveLocalFK resolves a create/connect/connectOrCreate nested write
// whose relation owns its FK locally (OnField non-empty) into the child
// row that must exist before the parent's own INSERT can reference it.
func resolveLocalFK(ctx context.Context, exec dialect.Driver, parentCtx *engine.BuilderContext, rel *schema.RelationSpec, nw query.NestedWrite, now time.Time) (map[string]any, error) {
	childModel := rel.Target()
	a := parentCtx.Adapter
	switch nw.Op {
	case query.WriteCreate:
		if len(nw.Data) == 0 {
			return nil, verr.MalformedPayload("engine/mutate", childModel.Name, nil)
		}
		return createOne(ctx, exec, rootCtx(a, childModel, "create"), childModel, nw.Data[0], now)
	case query.WriteConnect:
		if len(nw.Where) == 0 {
			return nil, verr.MalformedPayload("engine/mutate", childModel.Name, nil)
		}
		row, err := fetchOne(ctx, exec, selectCtx(a, childModel, "connect"), childModel, nw.Where[0])
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, verr.RecordNotFound(childModel.Name, "connect")
		}
		return row, nil
	case query.WriteConnectOrCreate:
		if len(nw.Where) > 0 {
			row, err := fetchOne(ctx, exec, selectCtx(a, childModel, "connectOrCreate"), childModel, nw.Where[0])
			if err != nil {
				return nil, err
			}
			if row != nil {
				return row, nil
			}
		}
		if len(nw.Data) == 0 {
			return nil, verr.MalformedPayload("engine/mutate", childModel.Name, nil)
		}
		return createOne(ctx, exec, rootCtx(a, childModel, "create"), childModel, nw.Data[0], now)
	default:
		return nil, verr.UnsupportedOperation("engine/mutate", rel.Name, childModel.Name, string(nw.Op))
	}
}

// executeCreate partitions nested writes into those the parent's own
// INSERT depends on (relations this model owns the FK for, via
// create/connect/connectOrCreate) and those that run once the parent row
// exists (everything else, plus every many-to-many write).
func executeCreate(ctx context.Context, exec dialect.Driver, p *WritePlan, now time.Time) (map[string]any, error) {
	model := p.Ctx.Model
	data := copyMap(p.Data)

	type deferred struct {
		rel *schema.RelationSpec
		nw  query.NestedWrite
	}
	var after []deferred

	for _, nw := range p.Nested {
		rel, ok := model.Relation(nw.Relation)
		if !ok {
			return nil, verr.UnknownRelation(model.Name, nw.Relation)
		}
		ownsFK := rel.Through == nil && len(rel.OnField) > 0
		localOp := nw.Op == query.WriteCreate || nw.Op == query.WriteConnect || nw.Op == query.WriteConnectOrCreate
		if ownsFK && localOp {
			child, err := resolveLocalFK(ctx, exec, p.Ctx, rel, nw, now)
			if err != nil {
				return nil, err
			}
			parentCols, childCols, err := load.ResolveLink(model, rel)
			if err != nil {
				return nil, err
			}
			for i, pc := range parentCols {
				pname, ok := fieldNameForColumn(model, pc)
				if !ok {
					continue
				}
				cname, ok := fieldNameForColumn(rel.Target(), childCols[i])
				if !ok {
					continue
				}
				data[pname] = child[cname]
			}
			continue
		}
		after = append(after, deferred{rel, nw})
	}

	row, err := createOne(ctx, exec, p.Ctx, model, data, now)
	if err != nil {
		return nil, err
	}

	for _, d := range after {
		if err := runNestedWrite(ctx, exec, p.Ctx, model, row, d.rel, d.nw, now); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func executeUpdate(ctx context.Context, exec dialect.Driver, p *WritePlan, now time.Time) (map[string]any, error) {
	model := p.Ctx.Model
	a := p.Ctx.Adapter

	where, err := plan.BuildFilter(p.Ctx, load.New(), p.Where)
	if err != nil {
		return nil, err
	}

	var row map[string]any
	if p.Op == query.Upsert {
		uniqueFields := fieldsFromFilter(p.Where)
		stmt, full, err := BuildUpsert(p.Ctx, p.Data, p.UpdateData, uniqueFields, p.Returning, now)
		if err != nil {
			return nil, err
		}
		row, err = execReturning(ctx, exec, p.Ctx, model, stmt, func() (map[string]any, error) {
			return followUpSelect(ctx, exec, p.Ctx, model, full)
		})
		if err != nil {
			return nil, err
		}
	} else {
		stmt, err := BuildUpdate(p.Ctx, p.UpdateData, where, p.Returning, now)
		if err != nil {
			return nil, err
		}
		row, err = execReturning(ctx, exec, p.Ctx, model, stmt, func() (map[string]any, error) {
			return fetchOne(ctx, exec, selectCtx(a, model, "update"), model, p.Where)
		})
		if err != nil {
			return nil, err
		}
	}

	for _, nw := range p.Nested {
		rel, ok := model.Relation(nw.Relation)
		if !ok {
			return nil, verr.UnknownRelation(model.Name, nw.Relation)
		}
		if err := runNestedWrite(ctx, exec, p.Ctx, model, row, rel, nw, now); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func executeDelete(ctx context.Context, exec dialect.Driver, p *WritePlan) error {
	where, err := plan.BuildFilter(p.Ctx, load.New(), p.Where)
	if err != nil {
		return err
	}
	stmt := BuildDelete(p.Ctx, where)
	return execStatement(ctx, exec, p.Ctx.Adapter, p.Ctx.Model.Name, stmt)
}

// runNestedWrite dispatches one relation's nested write once the parent
// row is known, building the child's own mutation context fresh per op.
func runNestedWrite(ctx context.Context, exec dialect.Driver, parentCtx *engine.BuilderContext, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, nw query.NestedWrite, now time.Time) error {
	target := rel.Target()
	cctx := childCtx(parentCtx, target, rel.Name, string(nw.Op))

	switch nw.Op {
	case query.WriteCreate, query.WriteCreateMany:
		return nestedCreate(ctx, exec, parentModel, parentRow, rel, cctx, nw, now)
	case query.WriteConnect:
		return nestedConnect(ctx, exec, parentModel, parentRow, rel, cctx, nw)
	case query.WriteConnectOrCreate:
		return nestedConnectOrCreate(ctx, exec, parentModel, parentRow, rel, cctx, nw, now)
	case query.WriteDisconnect:
		return nestedDisconnect(ctx, exec, parentModel, parentRow, rel, cctx, nw)
	case query.WriteSet:
		return nestedSet(ctx, exec, parentModel, parentRow, rel, cctx, nw, now)
	case query.WriteUpdate:
		return nestedUpdate(ctx, exec, cctx, nw, now)
	case query.WriteUpdateMany:
		return nestedUpdateMany(ctx, exec, cctx, nw, now)
	case query.WriteUpsert:
		return nestedUpsert(ctx, exec, parentModel, parentRow, rel, cctx, nw, now)
	case query.WriteDelete:
		return nestedDelete(ctx, exec, cctx, nw)
	case query.WriteDeleteMany:
		return nestedDeleteMany(ctx, exec, cctx, nw)
	default:
		return verr.UnsupportedOperation("engine/mutate", parentModel.Name, rel.Name, string(nw.Op))
	}
}

// linkChildToParent fills a non-many-to-many child row's FK field(s)
// from parentRow, returning the field-name-keyed overrides to merge in.
func linkChildToParent(parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, childModel *schema.Model) (map[string]any, error) {
	parentCols, childCols, err := load.ResolveLink(parentModel, rel)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	for i, pc := range parentCols {
		pname, ok := fieldNameForColumn(parentModel, pc)
		if !ok {
			continue
		}
		cname, ok := fieldNameForColumn(childModel, childCols[i])
		if !ok {
			continue
		}
		out[cname] = parentRow[pname]
	}
	return out, nil
}

func nestedCreate(ctx context.Context, exec dialect.Driver, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, cctx *engine.BuilderContext, nw query.NestedWrite, now time.Time) error {
	target := rel.Target()
	link := map[string]any{}
	if rel.Through == nil {
		l, err := linkChildToParent(parentModel, parentRow, rel, target)
		if err != nil {
			return err
		}
		link = l
	}

	created := make([]map[string]any, 0, len(nw.Data))
	for _, row := range nw.Data {
		merged := copyMap(row)
		for k, v := range link {
			merged[k] = v
		}
		child, err := createOne(ctx, exec, rootCtx(cctx.Adapter, target, "create"), target, merged, now)
		if err != nil {
			return err
		}
		created = append(created, child)
	}

	if rel.Through != nil {
		return insertJunctionRows(ctx, exec, cctx.Adapter, parentModel, parentRow, rel, created)
	}
	return nil
}

func nestedConnect(ctx context.Context, exec dialect.Driver, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, cctx *engine.BuilderContext, nw query.NestedWrite) error {
	target := rel.Target()
	a := cctx.Adapter
	var matched []map[string]any
	for _, w := range nw.Where {
		row, err := fetchOne(ctx, exec, selectCtx(a, target, "connect"), target, w)
		if err != nil {
			return err
		}
		if row == nil {
			return verr.RecordNotFound(target.Name, "connect")
		}
		matched = append(matched, row)
	}

	if rel.Through != nil {
		return insertJunctionRows(ctx, exec, a, parentModel, parentRow, rel, matched)
	}

	link, err := linkChildToParent(parentModel, parentRow, rel, target)
	if err != nil {
		return err
	}
	assigns := assignsFromData(link)
	for _, child := range matched {
		where, err := uniqueRowFilter(target, child)
		if err != nil {
			return err
		}
		w, err := uniqueWhere(cctx, where)
		if err != nil {
			return err
		}
		stmt, err := BuildUpdate(cctx, assigns, w, nil, time.Time{})
		if err != nil {
			return err
		}
		if err := execStatement(ctx, exec, a, target.Name, stmt); err != nil {
			return err
		}
	}
	return nil
}

func nestedConnectOrCreate(ctx context.Context, exec dialect.Driver, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, cctx *engine.BuilderContext, nw query.NestedWrite, now time.Time) error {
	if len(nw.Where) == 0 || len(nw.Data) == 0 {
		return verr.MalformedPayload("engine/mutate", rel.Target().Name, nil)
	}
	found, err := fetchOne(ctx, exec, selectCtx(cctx.Adapter, rel.Target(), "connectOrCreate"), rel.Target(), nw.Where[0])
	if err != nil {
		return err
	}
	if found != nil {
		return nestedConnect(ctx, exec, parentModel, parentRow, rel, cctx, query.NestedWrite{Relation: nw.Relation, Op: query.WriteConnect, Where: nw.Where})
	}
	return nestedCreate(ctx, exec, parentModel, parentRow, rel, cctx, query.NestedWrite{Relation: nw.Relation, Op: query.WriteCreate, Data: nw.Data}, now)
}

// disconnectAll clears every existing link from parentRow through rel,
// used by nestedSet before reconnecting the named rows.
func disconnectAll(ctx context.Context, exec dialect.Driver, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, cctx *engine.BuilderContext) error {
	a := cctx.Adapter
	if rel.Through != nil {
		if len(parentModel.PrimaryKey) == 0 {
			return verr.UnsupportedOperation("engine/mutate", parentModel.Name, rel.Name, "set")
		}
		parentID := parentRow[parentModel.PrimaryKey[0]]
		where := a.EQ(a.Column("", rel.Through.ColumnA), a.Value(parentID))
		return execStatement(ctx, exec, a, parentModel.Name, Statement{SQL: a.Delete(rel.Through.Table, where)})
	}

	link, err := linkChildToParent(parentModel, parentRow, rel, rel.Target())
	if err != nil {
		return err
	}
	assigns := make([]query.UpdateAssign, 0, len(link))
	var preds []dsql.Sql
	for field, v := range link {
		fs, ok := rel.Target().Field(field)
		if !ok {
			continue
		}
		preds = append(preds, a.EQ(a.Column("", fs.Column()), a.Value(v)))
		assigns = append(assigns, query.UpdateAssign{Field: field, Op: "set", Value: nil})
	}
	if len(assigns) == 0 {
		return nil
	}
	stmt, err := BuildUpdate(cctx, assigns, a.And(preds), nil, time.Time{})
	if err != nil {
		return err
	}
	return execStatement(ctx, exec, a, rel.Target().Name, stmt)
}

func nestedSet(ctx context.Context, exec dialect.Driver, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, cctx *engine.BuilderContext, nw query.NestedWrite, now time.Time) error {
	if err := disconnectAll(ctx, exec, parentModel, parentRow, rel, cctx); err != nil {
		return err
	}
	return nestedConnect(ctx, exec, parentModel, parentRow, rel, cctx, query.NestedWrite{Relation: nw.Relation, Op: query.WriteConnect, Where: nw.Where})
}

func nestedDisconnect(ctx context.Context, exec dialect.Driver, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, cctx *engine.BuilderContext, nw query.NestedWrite) error {
	a := cctx.Adapter
	target := rel.Target()
	for _, w := range nw.Where {
		child, err := fetchOne(ctx, exec, selectCtx(a, target, "disconnect"), target, w)
		if err != nil {
			return err
		}
		if child == nil {
			continue
		}
		if rel.Through != nil {
			if len(parentModel.PrimaryKey) == 0 || len(target.PrimaryKey) == 0 {
				continue
			}
			parentID := parentRow[parentModel.PrimaryKey[0]]
			childID := child[target.PrimaryKey[0]]
			where := a.And([]dsql.Sql{
				a.EQ(a.Column("", rel.Through.ColumnA), a.Value(parentID)),
				a.EQ(a.Column("", rel.Through.ColumnB), a.Value(childID)),
			})
			if err := execStatement(ctx, exec, a, parentModel.Name, Statement{SQL: a.Delete(rel.Through.Table, where)}); err != nil {
				return err
			}
			continue
		}
		_, childCols, err := load.ResolveLink(parentModel, rel)
		if err != nil {
			return err
		}
		assigns := make([]query.UpdateAssign, 0, len(childCols))
		for _, cc := range childCols {
			cname, ok := fieldNameForColumn(target, cc)
			if !ok {
				continue
			}
			assigns = append(assigns, query.UpdateAssign{Field: cname, Op: "set", Value: nil})
		}
		where, err := uniqueRowFilter(target, child)
		if err != nil {
			return err
		}
		wsql, err := uniqueWhere(cctx, where)
		if err != nil {
			return err
		}
		stmt, err := BuildUpdate(cctx, assigns, wsql, nil, time.Time{})
		if err != nil {
			return err
		}
		if err := execStatement(ctx, exec, a, target.Name, stmt); err != nil {
			return err
		}
	}
	return nil
}

func nestedUpdate(ctx context.Context, exec dialect.Driver, cctx *engine.BuilderContext, nw query.NestedWrite, now time.Time) error {
	if len(nw.Data) == 0 {
		return verr.MalformedPayload("engine/mutate", cctx.Model.Name, nil)
	}
	assigns := assignsFromData(nw.Data[0])
	var where dsql.Sql
	var err error
	if len(nw.Where) > 0 {
		where, err = uniqueWhere(cctx, nw.Where[0])
		if err != nil {
			return err
		}
	}
	stmt, err := BuildUpdate(cctx, assigns, where, nil, now)
	if err != nil {
		return err
	}
	return execStatement(ctx, exec, cctx.Adapter, cctx.Model.Name, stmt)
}

func nestedUpdateMany(ctx context.Context, exec dialect.Driver, cctx *engine.BuilderContext, nw query.NestedWrite, now time.Time) error {
	if len(nw.Data) == 0 {
		return verr.MalformedPayload("engine/mutate", cctx.Model.Name, nil)
	}
	assigns := assignsFromData(nw.Data[0])
	a := cctx.Adapter
	var preds []dsql.Sql
	for _, w := range nw.Where {
		p, err := uniqueWhere(cctx, w)
		if err != nil {
			return err
		}
		preds = append(preds, p)
	}
	stmt, err := BuildUpdate(cctx, assigns, a.Or(preds), nil, now)
	if err != nil {
		return err
	}
	return execStatement(ctx, exec, a, cctx.Model.Name, stmt)
}

func nestedUpsert(ctx context.Context, exec dialect.Driver, parentModel *schema.Model, parentRow map[string]any, rel *schema.RelationSpec, cctx *engine.BuilderContext, nw query.NestedWrite, now time.Time) error {
	if len(nw.Data) == 0 {
		return verr.MalformedPayload("engine/mutate", rel.Target().Name, nil)
	}
	create := copyMap(nw.Data[0])
	if rel.Through == nil {
		link, err := linkChildToParent(parentModel, parentRow, rel, rel.Target())
		if err != nil {
			return err
		}
		for k, v := range link {
			create[k] = v
		}
	}
	var uniqueFields []string
	if len(nw.Where) > 0 {
		uniqueFields = fieldsFromFilter(nw.Where[0])
	}
	assigns := assignsFromData(nw.Data[0])
	stmt, _, err := BuildUpsert(cctx, create, assigns, uniqueFields, nil, now)
	if err != nil {
		return err
	}
	return execStatement(ctx, exec, cctx.Adapter, rel.Target().Name, stmt)
}

func nestedDelete(ctx context.Context, exec dialect.Driver, cctx *engine.BuilderContext, nw query.NestedWrite) error {
	if len(nw.Where) == 0 {
		return nil
	}
	where, err := uniqueWhere(cctx, nw.Where[0])
	if err != nil {
		return err
	}
	return execStatement(ctx, exec, cctx.Adapter, cctx.Model.Name, BuildDelete(cctx, where))
}

func nestedDeleteMany(ctx context.Context, exec dialect.Driver, cctx *engine.BuilderContext, nw query.NestedWrite) error {
	a := cctx.Adapter
	var preds []dsql.Sql
	for _, w := range nw.Where {
		p, err := uniqueWhere(cctx, w)
		if err != nil {
			return err
		}
		preds = append(preds, p)
	}
	return execStatement(ctx, exec, a, cctx.Model.Name, BuildDelete(cctx, a.Or(preds)))
}

// uniqueRowFilter builds an equals-filter over model's primary key
// columns from an already-fetched row, used to re-target a specific
// child row once it has been located by fetchOne.
func uniqueRowFilter(model *schema.Model, row map[string]any) (*query.Filter, error) {
	if len(model.PrimaryKey) == 0 {
		return nil, verr.UnsupportedOperation("engine/mutate", model.Name, "", "connect")
	}
	f := &query.Filter{Fields: map[string]query.FieldFilter{}}
	for _, pk := range model.PrimaryKey {
		f.Fields[pk] = query.FieldFilter{"equals": row[pk]}
	}
	return f, nil
}
