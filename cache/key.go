package cache

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"reflect"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/verr"
)

// DefaultPrefix is the cache key prefix used when Options.Prefix is empty.
const DefaultPrefix = "viborm"

// KeyOptions controls the prefix a derived key is rendered under.
type KeyOptions struct {
	Prefix  string
	Version int
}

func (o KeyOptions) prefix() string {
	p := o.Prefix
	if p == "" {
		p = DefaultPrefix
	}
	if o.Version > 0 {
		p = fmt.Sprintf("%s:v%d", p, o.Version)
	}
	return p
}

// BigInt marks an argument that must hash the way a BigInt would (spec
// §4.8: `"<n>n"`), since Go has no type distinct from int64 to carry that
// intent through Key's stable stringification.
type BigInt int64

// Key derives a cache key per spec §4.8: "prefix:<model>:<operation>:<hash>".
// hash is computed over a stable stringification of args (sorted map keys,
// ISO-8601 timestamps, base64 byte arrays, rejecting functions/channels),
// rendered as 16 hex characters.
func Key(opts KeyOptions, model string, operation query.Operation, args any) (string, error) {
	h, err := hashArgs(args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s:%s", opts.prefix(), model, operation, h), nil
}

// hashArgs stable-stringifies args and hashes the result with FNV-1a/64.
// The spec calls this a "128-bit digest rendered as 16 hex characters",
// which is internally inconsistent (16 hex chars is 64 bits); this
// implementation follows the literal 16-character output, backed by a
// real 64-bit digest rather than a fabricated 128-bit one truncated to
// fit — see DESIGN.md.
func hashArgs(args any) (string, error) {
	canon, err := stableValue(args)
	if err != nil {
		return "", err
	}
	blob, err := msgpack.Marshal(canon)
	if err != nil {
		return "", verr.Unexpected("cache", err)
	}
	sum := fnv.New64a()
	sum.Write(blob)
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// stableValue converts v into a canonical, order-independent shape safe to
// msgpack-encode for hashing: maps become sorted (key, value) pairs,
// time.Time becomes RFC3339Nano, []byte becomes a "base64:" string, BigInt
// becomes "<n>n", and nil map entries are dropped (the closest Go analogue
// of omitting `undefined`). Functions, channels and unsafe pointers are
// rejected outright since they carry no stable identity to hash.
func stableValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return t, nil
	case BigInt:
		return fmt.Sprintf("%dn", int64(t)), nil
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano), nil
	case []byte:
		return "base64:" + base64.StdEncoding.EncodeToString(t), nil
	case map[string]any:
		return stableMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			cv, err := stableValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	default:
		return stableReflect(reflect.ValueOf(v))
	}
}

func stableMap(m map[string]any) (any, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][2]any, 0, len(keys))
	for _, k := range keys {
		if m[k] == nil {
			continue
		}
		cv, err := stableValue(m[k])
		if err != nil {
			return nil, err
		}
		out = append(out, [2]any{k, cv})
	}
	return out, nil
}

func stableReflect(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil, nil
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, verr.UncacheableValue(fmt.Sprintf("value of kind %s has no stable hash representation", rv.Kind()))
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return stableValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cv, err := stableValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case reflect.Map:
		keys := rv.MapKeys()
		byKey := make(map[string]any, len(keys))
		names := make([]string, len(keys))
		for i, k := range keys {
			name := fmt.Sprintf("%v", k.Interface())
			names[i] = name
			byKey[name] = rv.MapIndex(k).Interface()
		}
		sort.Strings(names)
		out := make([][2]any, 0, len(names))
		for _, name := range names {
			cv, err := stableValue(byKey[name])
			if err != nil {
				return nil, err
			}
			out = append(out, [2]any{name, cv})
		}
		return out, nil
	case reflect.Struct:
		t := rv.Type()
		out := make([][2]any, 0, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			cv, err := stableValue(rv.Field(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, [2]any{f.Name, cv})
		}
		return out, nil
	default:
		return fmt.Sprintf("%v", rv.Interface()), nil
	}
}
