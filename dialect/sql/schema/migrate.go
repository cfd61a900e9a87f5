// Package schema hosts the migration-support half of the engine's
// Migrations adapter method group: introspection and DDL-diff validation
// shared by the postgres/mysql/sqlite adapters, built on top of
// ariga.io/atlas's schema model instead of a hand-rolled catalog reader.
package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	atlas "ariga.io/atlas/sql/schema"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
)

// FromAtlasTable converts an atlas schema.Table (as returned by an
// ariga.io/atlas sqlclient.Client's Inspector) into the adapter-facing
// dialect.Table shape the engine's Migrations.Introspect returns.
func FromAtlasTable(t *atlas.Table) dialect.Table {
	out := dialect.Table{Name: t.Name}
	for _, c := range t.Columns {
		out.Columns = append(out.Columns, dialect.Column{
			Name:     c.Name,
			Type:     c.Type.Raw,
			Nullable: c.Type.Null,
			Default:  defaultExprString(c.Default),
		})
	}
	if t.PrimaryKey != nil {
		for _, part := range t.PrimaryKey.Parts {
			if part.C != nil {
				out.PrimaryKey = append(out.PrimaryKey, part.C.Name)
			}
		}
	}
	for _, idx := range t.Indexes {
		if !idx.Unique {
			continue
		}
		var cols []string
		for _, part := range idx.Parts {
			if part.C != nil {
				cols = append(cols, part.C.Name)
			}
		}
		out.UniqueKeys = append(out.UniqueKeys, cols)
	}
	for _, fk := range t.ForeignKeys {
		var cols, refCols []string
		for _, c := range fk.Columns {
			cols = append(cols, c.Name)
		}
		for _, c := range fk.RefColumns {
			refCols = append(refCols, c.Name)
		}
		refTable := ""
		if fk.RefTable != nil {
			refTable = fk.RefTable.Name
		}
		out.ForeignKeys = append(out.ForeignKeys, dialect.ForeignKey{
			Columns: cols, RefTable: refTable, RefColumns: refCols,
		})
	}
	return out
}

func defaultExprString(expr atlas.Expr) string {
	if expr == nil {
		return ""
	}
	if lit, ok := expr.(*atlas.Literal); ok {
		return lit.V
	}
	if raw, ok := expr.(*atlas.RawExpr); ok {
		return raw.X
	}
	return ""
}

// Diff computes the breaking/non-breaking change set between two table
// sets using a ValidationResult, so callers (the DDL generator, or an
// external migration tool) can gate on HasBreakingChanges before applying.
func Diff(desired, current []dialect.Table) *ValidationResult {
	res := &ValidationResult{}
	byName := make(map[string]dialect.Table, len(current))
	for _, t := range current {
		byName[t.Name] = t
	}
	for _, want := range desired {
		have, ok := byName[want.Name]
		if !ok {
			continue // new table: CREATE TABLE, never breaking
		}
		haveCols := make(map[string]dialect.Column, len(have.Columns))
		for _, c := range have.Columns {
			haveCols[c.Name] = c
		}
		for _, wc := range want.Columns {
			hc, existed := haveCols[wc.Name]
			if !existed {
				if !wc.Nullable && wc.Default == "" {
					res.Warnings = append(res.Warnings, &ValidationError{
						Table: want.Name, Column: wc.Name,
						Message: "adding a NOT NULL column with no default requires a backfill",
						Breaking: true,
					})
				}
				continue
			}
			if hc.Nullable && !wc.Nullable {
				res.Errors = append(res.Errors, &ValidationError{
					Table: want.Name, Column: wc.Name,
					Message:  "column is becoming NOT NULL; existing NULLs will violate the constraint",
					Breaking: true,
				})
			}
			if hc.Type != wc.Type {
				res.Warnings = append(res.Warnings, &ValidationError{
					Table: want.Name, Column: wc.Name,
					Message:  fmt.Sprintf("column type changing from %s to %s", hc.Type, wc.Type),
					Breaking: true,
				})
			}
		}
		for name := range haveCols {
			if !containsCol(want.Columns, name) {
				res.Warnings = append(res.Warnings, &ValidationError{
					Table: want.Name, Column: name,
					Message:  "column is being dropped",
					Breaking: true,
				})
			}
		}
	}
	return res
}

func containsCol(cols []dialect.Column, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

// RawIntrospector is satisfied by any driver exposing a raw row-returning
// query method; it lets Introspect run catalog queries without depending
// on database/sql directly (so a mock can substitute it in tests).
type RawIntrospector func(ctx context.Context, query string, args []any) ([]map[string]any, error)

// GenerateDDL renders the changes Diff would flag into executable DDL
// statements: CREATE TABLE for tables absent from current, ADD COLUMN for
// columns absent from an existing table. It never drops or alters
// existing columns, mirroring Diff's own refusal to treat those as
// auto-applicable. escape quotes one identifier in the caller's dialect.
// It first runs Diff and refuses to generate DDL at all if Diff reports
// an error (e.g. a column becoming NOT NULL); the caller must resolve
// those by hand before migrating. Breaking changes that Diff reports only
// as warnings (a dropped column, a type change, a NOT NULL column added
// without a default) do not block it.
func GenerateDDL(escape func(string) string, desired, current []dialect.Table) ([]dialect.DDLOp, error) {
	if res := Diff(desired, current); res.HasErrors() {
		return nil, fmt.Errorf("dialect/sql/schema: refusing to generate DDL, breaking changes detected:\n%s", res.String())
	}
	byName := make(map[string]dialect.Table, len(current))
	for _, t := range current {
		byName[t.Name] = t
	}
	var ops []dialect.DDLOp
	for _, want := range desired {
		have, ok := byName[want.Name]
		if !ok {
			ops = append(ops, dialect.DDLOp{
				Description: fmt.Sprintf("create table %s", want.Name),
				Statement:   dsql.Raw(createTableDDL(escape, want)),
			})
			continue
		}
		haveCols := make(map[string]dialect.Column, len(have.Columns))
		for _, c := range have.Columns {
			haveCols[c.Name] = c
		}
		var added []dialect.Column
		for _, wc := range want.Columns {
			if _, existed := haveCols[wc.Name]; !existed {
				added = append(added, wc)
			}
		}
		sort.Slice(added, func(i, j int) bool { return added[i].Name < added[j].Name })
		for _, wc := range added {
			ops = append(ops, dialect.DDLOp{
				Description: fmt.Sprintf("add column %s.%s", want.Name, wc.Name),
				Statement:   dsql.Raw(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", escape(want.Name), columnDDL(escape, wc))),
			})
		}
	}
	return ops, nil
}

func createTableDDL(escape func(string) string, t dialect.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (", escape(t.Name))
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = columnDDL(escape, c)
	}
	b.WriteString(strings.Join(cols, ", "))
	if len(t.PrimaryKey) > 0 {
		pk := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			pk[i] = escape(c)
		}
		fmt.Fprintf(&b, ", PRIMARY KEY (%s)", strings.Join(pk, ", "))
	}
	b.WriteString(")")
	return b.String()
}

func columnDDL(escape func(string) string, c dialect.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", escape(c.Name), c.Type)
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		fmt.Fprintf(&b, " DEFAULT %s", c.Default)
	}
	return b.String()
}
