// Package parse turns the flat, field-name-keyed rows a dialect driver
// returns back into the nested result shape a client expects, per spec
// §4.7. It drives the adapter's three-stage dialect.ResultMiddleware
// (ParseResult, ParseRelation, ParseField) around a default tree walk: a
// top-level stage that shapes a whole result set (single row, row slice,
// scalar count, bool, or reshaped aggregate buckets), then per-relation
// and per-field stages that recurse into the JSON blobs engine/load
// projects relation columns as and coerce each scalar to its schema.Kind.
//
// A dialect adapter whose driver already returns native Go types for
// every column (bool, proper int64, decoded JSON) can leave all three
// hooks as pass-throughs to next; one that needs to correct a driver
// quirk (SQLite's 0/1 ints for bool, MySQL's []byte for BIGINT) overrides
// the matching hook and falls back to next for everything else.
package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/viborm/viborm/dialect"
	dsql "github.com/viborm/viborm/dialect/sql"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/verr"
)

// ScanRows drains a Rows cursor into field-name-keyed maps. plan.Build's
// SELECT aliases every scalar and relation column by field/relation name,
// so rows.Columns() already yields the keys Find expects in each row.
func ScanRows(rows *dsql.Rows) ([]map[string]any, error) {
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

// Find parses the result of a findUnique/findUniqueOrThrow/findFirst/
// findFirstOrThrow/findMany operation. reversed mirrors plan.Build's
// negative-Take convention: the rows arrived in reverse order to let the
// database LIMIT the tail of the requested order, so Find restores the
// caller-visible order before returning. findUnique/findFirst collapse to
// the first parsed row (or nil), raising RecordNotFound for the *OrThrow
// variants when nothing matched; findMany returns every parsed row.
func Find(adapter dialect.ResultMiddleware, model *schema.Model, op query.Operation, sel query.Selection, rows []map[string]any, reversed bool) (any, error) {
	return adapter.ParseResult(rows, string(op), func(raw any) (any, error) {
		rs, _ := raw.([]map[string]any)
		if reversed {
			for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
				rs[i], rs[j] = rs[j], rs[i]
			}
		}
		parsed := make([]map[string]any, 0, len(rs))
		for _, r := range rs {
			pr, err := parseRow(adapter, model, sel, r)
			if err != nil {
				return nil, err
			}
			parsed = append(parsed, pr)
		}
		if op == query.FindMany {
			return parsed, nil
		}
		if len(parsed) == 0 {
			if op.IsOrThrow() {
				return nil, verr.RecordNotFound(model.Name, string(op))
			}
			return nil, nil
		}
		return parsed[0], nil
	})
}

// countColumn matches any spelling of a bare COUNT(*) column a query might
// have used: plan.BuildCount's own "count" alias, or the verbatim
// "COUNT(*)"/"count(*)" a hand-written query might return.
var countColumn = regexp.MustCompile(`(?i)^count(\(.*\))?$`)

// Count parses a count operation's single-row result into the canonical
// {"_result": N} shape (spec §4.7), tolerating any case/spelling of the
// COUNT(*) column name next to plan.BuildCount's own "count" alias.
func Count(adapter dialect.ResultMiddleware, model *schema.Model, row map[string]any) (map[string]any, error) {
	result, err := adapter.ParseResult(row, string(query.Count), func(raw any) (any, error) {
		m, _ := raw.(map[string]any)
		var raw64 any
		for k, v := range m {
			if k == "_result" || countColumn.MatchString(k) {
				raw64 = v
				break
			}
		}
		n, err := toInt64(raw64)
		if err != nil {
			return nil, err
		}
		return map[string]any{"_result": n}, nil
	})
	if err != nil {
		return nil, err
	}
	out, _ := result.(map[string]any)
	return out, nil
}

// Exist parses an exist operation: true iff plan.BuildExist's "SELECT 1 ...
// LIMIT 1" returned a row.
func Exist(adapter dialect.ResultMiddleware, rows []map[string]any) (bool, error) {
	result, err := adapter.ParseResult(rows, string(query.Exist), func(raw any) (any, error) {
		rs, _ := raw.([]map[string]any)
		return len(rs) > 0, nil
	})
	if err != nil {
		return false, err
	}
	b, _ := result.(bool)
	return b, nil
}

// Aggregate parses an aggregate or groupBy operation's rows, reshaping
// plan.BuildAggregate's flat "<fn>.<field>"/"_count._all" aliased columns
// into the nested {_count: {field: n}, _sum: {...}, ...} bucket shape,
// alongside any groupBy columns (aliased by plain field name).
func Aggregate(adapter dialect.ResultMiddleware, op query.Operation, payload *query.AggregatePayload, rows []map[string]any) ([]map[string]any, error) {
	result, err := adapter.ParseResult(rows, string(op), func(raw any) (any, error) {
		rs, _ := raw.([]map[string]any)
		out := make([]map[string]any, 0, len(rs))
		for _, r := range rs {
			reshaped, err := reshapeAggregateRow(payload, r)
			if err != nil {
				return nil, err
			}
			out = append(out, reshaped)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	out, _ := result.([]map[string]any)
	return out, nil
}

func reshapeAggregateRow(payload *query.AggregatePayload, row map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(payload.GroupBy)+len(payload.Selected))
	for _, g := range payload.GroupBy {
		out[g] = row[g]
	}
	for fn, fields := range payload.Selected {
		bucket := map[string]any{}
		if fn == query.AggCount && len(fields) == 0 {
			if v, ok := row["_count._all"]; ok {
				n, err := toInt64(v)
				if err != nil {
					return nil, err
				}
				bucket["_all"] = n
			}
		}
		for _, f := range fields {
			v, ok := row[string(fn)+"."+f]
			if !ok {
				continue
			}
			if fn == query.AggCount {
				n, err := toInt64(v)
				if err != nil {
					return nil, err
				}
				bucket[f] = n
				continue
			}
			bucket[f] = v
		}
		if len(bucket) > 0 {
			out[string(fn)] = bucket
		}
	}
	return out, nil
}

// parseRow walks one flat result row into the nested shape sel describes:
// scalar fields coerced through ParseField, included relations decoded and
// recursed into through ParseRelation.
func parseRow(adapter dialect.ResultMiddleware, model *schema.Model, sel query.Selection, row map[string]any) (map[string]any, error) {
	fieldNames := sel.Fields
	if len(fieldNames) == 0 {
		fieldNames = model.FieldOrder
	}

	out := make(map[string]any, len(fieldNames)+len(sel.Relations))
	for _, name := range fieldNames {
		fs, ok := model.Field(name)
		if !ok {
			return nil, verr.UnknownField(model.Name, name)
		}
		v, err := adapter.ParseField(row[name], fs.Kind.String(), func(in any) (any, error) {
			return defaultScalar(fs, in)
		})
		if err != nil {
			return nil, err
		}
		out[name] = v
	}

	for name, relSel := range sel.Relations {
		rel, ok := model.Relation(name)
		if !ok {
			return nil, verr.UnknownRelation(model.Name, name)
		}
		relType := "one"
		if rel.Kind == schema.OneToMany || rel.Kind == schema.ManyToMany {
			relType = "many"
		}
		v, err := adapter.ParseRelation(row[name], relType, func(in any) (any, error) {
			return defaultRelation(adapter, rel, relSel, relType, in)
		})
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// defaultRelation decodes engine/load's projected relation column (a JSON
// array for a to-many relation, a JSON object or NULL for to-one) and
// recurses parseRow over each child row.
func defaultRelation(adapter dialect.ResultMiddleware, rel *schema.RelationSpec, relSel *query.RelationSelection, relType string, raw any) (any, error) {
	childSel := query.Selection{}
	if relSel != nil {
		childSel = relSel.Selection
	}
	target := rel.Target()

	if relType == "many" {
		rowsIn, err := decodeRelationRows(raw)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, 0, len(rowsIn))
		for _, r := range rowsIn {
			pr, err := parseRow(adapter, target, childSel, r)
			if err != nil {
				return nil, err
			}
			out = append(out, pr)
		}
		return out, nil
	}

	rowIn, err := decodeRelationRow(raw)
	if err != nil {
		return nil, err
	}
	if rowIn == nil {
		return nil, nil
	}
	return parseRow(adapter, target, childSel, rowIn)
}

func decodeRelationRows(raw any) ([]map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return v, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out, nil
	default:
		bs, ok := asBytes(raw)
		if !ok {
			return nil, nil
		}
		if len(bs) == 0 || string(bs) == "null" {
			return nil, nil
		}
		var out []map[string]any
		if err := json.Unmarshal(bs, &out); err != nil {
			return nil, verr.Unexpected("engine/parse", err)
		}
		return out, nil
	}
}

func decodeRelationRow(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		bs, ok := asBytes(raw)
		if !ok {
			return nil, nil
		}
		if len(bs) == 0 || string(bs) == "null" {
			return nil, nil
		}
		var out map[string]any
		if err := json.Unmarshal(bs, &out); err != nil {
			return nil, verr.Unexpected("engine/parse", err)
		}
		return out, nil
	}
}

// defaultScalar coerces one column value to the shape its schema.Kind
// promises, smoothing over the handful of driver-level representations
// that don't already arrive as the right Go type (SQLite/MySQL integer
// booleans, text-encoded bigints, JSON columns scanned as []byte/string).
func defaultScalar(fs *schema.FieldSpec, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if fs.Array {
		return decodeArray(v)
	}
	switch fs.Kind {
	case schema.KindBoolean:
		return toBool(v), nil
	case schema.KindBigInt:
		return toBigInt(v), nil
	case schema.KindJSON:
		return decodeJSON(v)
	case schema.KindBlob:
		if bs, ok := asBytes(v); ok {
			return bs, nil
		}
		return v, nil
	default:
		return v, nil
	}
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		// Relation rows decoded via encoding/json into map[string]any carry
		// every JSON number as float64, including the 0/1 a nested child's
		// boolean column was encoded as.
		return t != 0
	case []byte:
		s := string(t)
		return s == "1" || strings.EqualFold(s, "true")
	case string:
		return t == "1" || strings.EqualFold(t, "true")
	default:
		return false
	}
}

// toBigInt parses the text/byte representation some drivers return for
// BIGINT columns (notably MySQL's []byte rows.Scan default) back into an
// int64; a value outside int64 range or non-numeric is left as a string
// rather than failing the whole parse.
func toBigInt(v any) any {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case []byte:
		if n, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return n
		}
		return string(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
		return t
	default:
		return v
	}
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case []byte:
		n, err := strconv.ParseInt(string(t), 10, 64)
		if err != nil {
			return 0, verr.Unexpected("engine/parse", err)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, verr.Unexpected("engine/parse", err)
		}
		return n, nil
	default:
		return 0, verr.Unexpected("engine/parse", fmt.Errorf("unexpected numeric value type %T", v))
	}
}

func decodeJSON(v any) (any, error) {
	bs, ok := asBytes(v)
	if !ok {
		return v, nil
	}
	var out any
	if err := json.Unmarshal(bs, &out); err != nil {
		return nil, verr.Unexpected("engine/parse", err)
	}
	return out, nil
}

// decodeArray handles an Array field's column value: JSON-encoded on
// dialects that store arrays as a JSON/TEXT column (MySQL, SQLite), or
// Postgres's native "{a,b,c}" text form when the driver doesn't decode
// it for us.
func decodeArray(v any) (any, error) {
	bs, ok := asBytes(v)
	if !ok {
		return v, nil
	}
	s := strings.TrimSpace(string(bs))
	if s == "" {
		return v, nil
	}
	if s[0] == '[' {
		var out []any
		if err := json.Unmarshal(bs, &out); err != nil {
			return nil, verr.Unexpected("engine/parse", err)
		}
		return out, nil
	}
	if s[0] == '{' && s[len(s)-1] == '}' {
		inner := s[1 : len(s)-1]
		if inner == "" {
			return []any{}, nil
		}
		parts := strings.Split(inner, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = strings.Trim(p, `"`)
		}
		return out, nil
	}
	return v, nil
}

func asBytes(v any) ([]byte, bool) {
	switch t := v.(type) {
	case []byte:
		return t, true
	case string:
		return []byte(t), true
	case json.RawMessage:
		return t, true
	default:
		return nil, false
	}
}
