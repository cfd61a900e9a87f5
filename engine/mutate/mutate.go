// Package mutate compiles canonical create/update/upsert/delete payloads
// (engine/query) into dialect Sql statements and drives their execution,
// including the nested-write tree a payload's relations carry. It reuses
// engine/plan's filter compiler for WHERE construction and engine/load's
// FK-ownership resolution for linking nested rows to their parent, so the
// same rules the read path uses govern writes too.
package mutate

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/engine"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/verr"
)

// Statement is one compiled INSERT/UPDATE/DELETE fragment plus the field
// names its RETURNING clause (if any) projects, so the executor knows how
// to label scanned columns.
type Statement struct {
	SQL             dsql.Sql
	ReturningFields []string
}

// rootCtx builds the traversal context for a mutation targeting model
// directly. Unlike a SELECT's synthetic "t0" alias, an INSERT/UPDATE/
// DELETE statement's target table is qualified by its own name: standard
// SQL lets a mutation's target serve as its own implicit range variable,
// which keeps a nested EXISTS subquery's column references unambiguous
// without requiring an AS clause the dialect's Mutations methods don't
// render anyway.
func rootCtx(a dialect.Adapter, model *schema.Model, op string) *engine.BuilderContext {
	return &engine.BuilderContext{
		Model:     model,
		Operation: op,
		Alias:     model.TableName,
		Adapter:   a,
		Aliases:   &engine.AliasGen{},
	}
}

// childCtx derives a mutation context for a relation's target model,
// carrying the parent link forward for correlated constructs a nested
// write's WHERE may need.
func childCtx(parent *engine.BuilderContext, model *schema.Model, relation string, op string) *engine.BuilderContext {
	return &engine.BuilderContext{
		Model:     model,
		Operation: op,
		Alias:     model.TableName,
		Parent:    &engine.ParentRef{Alias: parent.Alias, Relation: relation},
		Adapter:   parent.Adapter,
		Aliases:   &engine.AliasGen{},
		Depth:     parent.Depth + 1,
	}
}

// selectCtx builds a root context for a plain SELECT issued by the
// mutation pipeline itself (connect lookups, RETURNING-less follow-up
// fetches), which does want the usual synthetic alias since these
// statements have a real FROM ... AS clause.
func selectCtx(a dialect.Adapter, model *schema.Model, op string) *engine.BuilderContext {
	return engine.NewRootContext(model, op, a)
}

// placeholderFor picks the parameter-placeholder scheme a Statement must
// be rendered with before it reaches the driver.
func placeholderFor(a dialect.Adapter) dsql.Placeholder {
	if a.Name() == dialect.Postgres {
		return dsql.PlaceholderDollar
	}
	return dsql.PlaceholderQuestion
}

// generate evaluates a default/update generator tag into a concrete
// value.
func generate(gen schema.Generator, now time.Time) (any, error) {
	switch gen {
	case schema.GenUUID:
		return uuid.NewString(), nil
	case schema.GenULID:
		return newULID(now)
	case schema.GenCUID:
		return newCUID()
	case schema.GenNanoID:
		return newNanoID()
	case schema.GenNow, schema.GenUpdatedAt:
		return now, nil
	default:
		return nil, verr.NotImplemented("engine/mutate", "generator "+string(gen))
	}
}

// applyCreateDefaults fills every field absent from data that carries a
// default, evaluating Generator when set and falling back to the literal
// Default otherwise. It never overwrites a field the caller supplied.
func applyCreateDefaults(model *schema.Model, data map[string]any, now time.Time) (map[string]any, error) {
	out := copyMap(data)
	for _, name := range model.FieldOrder {
		if _, ok := out[name]; ok {
			continue
		}
		fs := model.Fields[name]
		if !fs.HasDefault {
			continue
		}
		if fs.Generator != "" {
			v, err := generate(fs.Generator, now)
			if err != nil {
				return nil, err
			}
			out[name] = v
			continue
		}
		out[name] = fs.Default
	}
	return out, nil
}

// applyUpdateGenerators appends a "set" assignment for every field
// carrying an UpdateGenerator that the caller's assigns didn't already
// touch (e.g. updatedAt bumped on every update regardless of payload).
func applyUpdateGenerators(model *schema.Model, assigns []query.UpdateAssign, now time.Time) ([]query.UpdateAssign, error) {
	touched := make(map[string]bool, len(assigns))
	for _, a := range assigns {
		touched[a.Field] = true
	}
	out := assigns
	for _, name := range model.FieldOrder {
		if touched[name] {
			continue
		}
		fs := model.Fields[name]
		if fs.UpdateGenerator == "" {
			continue
		}
		v, err := generate(fs.UpdateGenerator, now)
		if err != nil {
			return nil, err
		}
		out = append(out, query.UpdateAssign{Field: name, Op: "set", Value: v})
	}
	return out, nil
}

// fieldNameForColumn reverses FieldSpec.Column() against model's fields,
// since RelationSpec.OnField/RefField name DB columns while mutation
// payloads are keyed by field name.
func fieldNameForColumn(model *schema.Model, column string) (string, bool) {
	for _, name := range model.FieldOrder {
		if model.Fields[name].Column() == column {
			return name, true
		}
	}
	return "", false
}

// unionFieldNames returns the schema-ordered field names present in any
// of rows, excluding autoincrement fields no row supplied (so the INSERT
// column list omits a serial primary key the database must generate).
func unionFieldNames(model *schema.Model, rows []map[string]any) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			present[k] = true
		}
	}
	out := make([]string, 0, len(present))
	for _, name := range model.FieldOrder {
		if !present[name] {
			continue
		}
		out = append(out, name)
	}
	return out
}

// dbColumns maps schema field names to their storage column names.
func dbColumns(model *schema.Model, fieldNames []string) []string {
	out := make([]string, len(fieldNames))
	for i, name := range fieldNames {
		out[i] = model.Fields[name].Column()
	}
	return out
}

// rowValues renders one VALUES row, NULL-filling any field the row data
// doesn't carry.
func rowValues(a dialect.Adapter, fieldNames []string, data map[string]any) []dsql.Sql {
	out := make([]dsql.Sql, len(fieldNames))
	for i, name := range fieldNames {
		v, ok := data[name]
		if !ok {
			out[i] = a.Null()
			continue
		}
		out[i] = a.Value(v)
	}
	return out
}

// returningColumns maps the requested field names (model.FieldOrder when
// fields is empty) to their storage column names.
func returningColumns(model *schema.Model, fields []string) []string {
	if len(fields) == 0 {
		fields = model.FieldOrder
	}
	return dbColumns(model, fields)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// BuildInsert compiles a single-row INSERT ... RETURNING (or bare INSERT
// on MySQL), applying create defaults first. It returns the finalized row
// data (defaults included) alongside the statement, since the caller
// needs it both to link nested writes and, on MySQL, to re-fetch the row.
func BuildInsert(ctx *engine.BuilderContext, data map[string]any, returning []string, now time.Time) (Statement, map[string]any, error) {
	full, err := applyCreateDefaults(ctx.Model, data, now)
	if err != nil {
		return Statement{}, nil, err
	}
	fieldNames := unionFieldNames(ctx.Model, []map[string]any{full})
	a := ctx.Adapter
	stmt := a.Insert(ctx.Model.TableName, dbColumns(ctx.Model, fieldNames), [][]dsql.Sql{rowValues(a, fieldNames, full)}, dsql.Empty)

	retFields := returning
	if len(retFields) == 0 {
		retFields = ctx.Model.FieldOrder
	}
	if a.Capabilities().SupportsReturning {
		stmt = stmt.Append(a.Returning(dbColumns(ctx.Model, retFields)))
	}
	return Statement{SQL: stmt, ReturningFields: retFields}, full, nil
}

// BuildInsertMany compiles a multi-row INSERT for createMany, applying
// create defaults to each row independently and, when skipDuplicates is
// set, splicing the dialect's modifier/suffix pair around the statement.
func BuildInsertMany(ctx *engine.BuilderContext, rows []map[string]any, skipDuplicates bool, now time.Time) (Statement, []map[string]any, error) {
	a := ctx.Adapter
	full := make([]map[string]any, len(rows))
	for i, row := range rows {
		f, err := applyCreateDefaults(ctx.Model, row, now)
		if err != nil {
			return Statement{}, nil, err
		}
		full[i] = f
	}
	fieldNames := unionFieldNames(ctx.Model, full)
	values := make([][]dsql.Sql, len(full))
	for i, row := range full {
		values[i] = rowValues(a, fieldNames, row)
	}

	modifier := dsql.Empty
	suffix := dsql.Empty
	if skipDuplicates {
		modifier, suffix = a.SkipDuplicates()
	}
	stmt := a.Insert(ctx.Model.TableName, dbColumns(ctx.Model, fieldNames), values, modifier).Append(suffix)
	return Statement{SQL: stmt}, full, nil
}

// BuildUpdate compiles an UPDATE statement, dispatching each assign's Op
// through the adapter's SetOps and appending update-generator fields
// (e.g. updatedAt) the caller's assigns didn't already cover. An
// Immutable field in assigns is rejected.
func BuildUpdate(ctx *engine.BuilderContext, assigns []query.UpdateAssign, where dsql.Sql, returning []string, now time.Time) (Statement, error) {
	a := ctx.Adapter
	assigns, err := applyUpdateGenerators(ctx.Model, assigns, now)
	if err != nil {
		return Statement{}, err
	}
	if len(assigns) == 0 {
		return Statement{}, verr.MalformedPayload("engine/mutate", ctx.Model.Name, nil)
	}

	sets := make([]dsql.Sql, len(assigns))
	for i, asn := range assigns {
		fs, ok := ctx.Model.Field(asn.Field)
		if !ok {
			return Statement{}, verr.UnknownField(ctx.Model.Name, asn.Field)
		}
		if fs.Immutable {
			return Statement{}, verr.UnsupportedOperation("engine/mutate", ctx.Model.Name, asn.Field, "update")
		}
		col := a.Column("", fs.Column())
		v := a.Value(asn.Value)
		switch asn.Op {
		case "", "set":
			sets[i] = a.Assign(col, v)
		case "increment":
			sets[i] = a.Increment(col, v)
		case "decrement":
			sets[i] = a.Decrement(col, v)
		case "multiply":
			sets[i] = a.Multiply(col, v)
		case "divide":
			sets[i] = a.Divide(col, v)
		case "push":
			sets[i] = a.Push(col, v)
		case "unshift":
			sets[i] = a.Unshift(col, v)
		default:
			return Statement{}, verr.UnsupportedOperation("engine/mutate", ctx.Model.Name, asn.Field, asn.Op)
		}
	}

	stmt := a.Update(ctx.Model.TableName, sets, where)
	retFields := returning
	if len(retFields) == 0 {
		retFields = ctx.Model.FieldOrder
	}
	if a.Capabilities().SupportsReturning {
		stmt = stmt.Append(a.Returning(dbColumns(ctx.Model, retFields)))
	}
	return Statement{SQL: stmt, ReturningFields: retFields}, nil
}

// BuildDelete compiles a DELETE statement against where.
func BuildDelete(ctx *engine.BuilderContext, where dsql.Sql) Statement {
	return Statement{SQL: ctx.Adapter.Delete(ctx.Model.TableName, where)}
}

// BuildUpsert compiles an INSERT ... ON CONFLICT (target) DO UPDATE (or
// MySQL's INSERT ... ON DUPLICATE KEY UPDATE), where target is the unique
// columns the payload's where named. It returns the finalized create row
// for the same reason BuildInsert does.
func BuildUpsert(ctx *engine.BuilderContext, create map[string]any, updateAssigns []query.UpdateAssign, uniqueFields []string, returning []string, now time.Time) (Statement, map[string]any, error) {
	a := ctx.Adapter
	full, err := applyCreateDefaults(ctx.Model, create, now)
	if err != nil {
		return Statement{}, nil, err
	}
	fieldNames := unionFieldNames(ctx.Model, []map[string]any{full})
	ins := a.Insert(ctx.Model.TableName, dbColumns(ctx.Model, fieldNames), [][]dsql.Sql{rowValues(a, fieldNames, full)}, dsql.Empty)

	updateAssigns, err = applyUpdateGenerators(ctx.Model, updateAssigns, now)
	if err != nil {
		return Statement{}, nil, err
	}
	setCols := make(map[string]dsql.Sql, len(updateAssigns))
	for _, asn := range updateAssigns {
		fs, ok := ctx.Model.Field(asn.Field)
		if !ok {
			return Statement{}, nil, verr.UnknownField(ctx.Model.Name, asn.Field)
		}
		setCols[fs.Column()] = a.Value(asn.Value)
	}
	action := dialect.OnConflictAction{SetCols: setCols, DoNothing: len(setCols) == 0}
	stmt := ins.Append(a.OnConflict(dbColumns(ctx.Model, uniqueFields), action))

	retFields := returning
	if len(retFields) == 0 {
		retFields = ctx.Model.FieldOrder
	}
	if a.Capabilities().SupportsReturning {
		stmt = stmt.Append(a.Returning(dbColumns(ctx.Model, retFields)))
	}
	return Statement{SQL: stmt, ReturningFields: retFields}, full, nil
}

// assignsFromData turns a plain field->value map (a nested write's Data
// row) into "set" assignments, sorted by field name for deterministic SQL.
func assignsFromData(data map[string]any) []query.UpdateAssign {
	names := make([]string, 0, len(data))
	for k := range data {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]query.UpdateAssign, len(names))
	for i, n := range names {
		out[i] = query.UpdateAssign{Field: n, Op: "set", Value: data[n]}
	}
	return out
}

// fieldsFromFilter extracts the top-level field names a Filter
// constrains, used to recover a nested upsert's unique target from its
// where clause.
func fieldsFromFilter(f *query.Filter) []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
