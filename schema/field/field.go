// Package field provides fluent builders for the field-state records of
// the schema intermediate representation: kind, nullability, array-ness,
// defaults, identity/uniqueness flags, and validators. Each builder's
// Descriptor method compiles the accumulated state into a
// *schema.FieldSpec.
package field

import (
	"github.com/google/uuid"

	"github.com/viborm/viborm/schema"
)

// Builder accumulates state for a single field before it is compiled via
// Descriptor.
type Builder struct {
	desc *schema.FieldSpec
}

// Descriptor implements schema.Field.
func (b *Builder) Descriptor() *schema.FieldSpec {
	return b.desc
}

func newBuilder(name string, kind schema.Kind) *Builder {
	return &Builder{desc: &schema.FieldSpec{Name: name, Kind: kind}}
}

// Optional marks the field nullable.
func (b *Builder) Optional() *Builder {
	b.desc.Nullable = true
	return b
}

// Array marks the field as holding a homogeneous list of its scalar kind.
func (b *Builder) Array() *Builder {
	b.desc.Array = true
	return b
}

// Unique adds a single-column unique constraint on the field.
func (b *Builder) Unique() *Builder {
	b.desc.IsUnique = true
	return b
}

// Immutable forbids the field from being set on update.
func (b *Builder) Immutable() *Builder {
	b.desc.Immutable = true
	return b
}

// Comment attaches a human-readable description to the FieldSpec. The
// DDL generator emits no SQL column comment for it.
func (b *Builder) Comment(text string) *Builder {
	b.desc.Comment = text
	return b
}

// StorageKey overrides the column name the field is stored under.
func (b *Builder) StorageKey(name string) *Builder {
	b.desc.ColumnName = name
	return b
}

// Default sets a literal default value.
func (b *Builder) Default(v any) *Builder {
	b.desc.HasDefault = true
	b.desc.Default = v
	return b
}

// DefaultFunc sets a default generator tag (uuid/ulid/cuid/nanoid/now),
// evaluated by the mutation pipeline at insert time.
func (b *Builder) DefaultFunc(gen schema.Generator) *Builder {
	b.desc.HasDefault = true
	b.desc.Generator = gen
	return b
}

// UpdateDefault sets a generator tag re-evaluated on every update (used
// for updated_at-style columns).
func (b *Builder) UpdateDefault(gen schema.Generator) *Builder {
	b.desc.UpdateGenerator = gen
	return b
}

// Validate registers a user-supplied validator run before create/update.
func (b *Builder) Validate(v schema.Validator) *Builder {
	b.desc.Validators = append(b.desc.Validators, v)
	return b
}

// Annotations attaches generator/adapter metadata to the field.
func (b *Builder) Annotations(ants ...schema.Annotation) *Builder {
	b.desc.Annotations = schema.MergeAnnotations(b.desc.Annotations, ants...)
	return b
}

// String builds a VARCHAR/TEXT field.
func String(name string) *Builder {
	return newBuilder(name, schema.KindString)
}

// Text is an alias for String: it builds the same KindString field, and
// no annotation or column type distinguishes it from String.
func Text(name string) *Builder {
	return newBuilder(name, schema.KindString)
}

// Int builds a native-width integer field.
func Int(name string) *Builder {
	return newBuilder(name, schema.KindInt)
}

// Int64 is an alias for Int; both compile to KindInt, the Go
// representation is always int64.
func Int64(name string) *Builder {
	return newBuilder(name, schema.KindInt)
}

// BigInt builds a field whose values exceed safe 53-bit float precision
// and must round-trip through JSON aggregation via a TEXT cast.
func BigInt(name string) *Builder {
	return newBuilder(name, schema.KindBigInt)
}

// Float builds a floating point field.
func Float(name string) *Builder {
	return newBuilder(name, schema.KindFloat)
}

// Float64 is an alias for Float.
func Float64(name string) *Builder {
	return newBuilder(name, schema.KindFloat)
}

// Decimal builds an exact-precision decimal field. engine/parse returns
// its values as the driver delivers them; they are not converted to
// shopspring/decimal.Decimal.
func Decimal(name string) *Builder {
	return newBuilder(name, schema.KindDecimal)
}

// Bool builds a boolean field.
func Bool(name string) *Builder {
	return newBuilder(name, schema.KindBoolean)
}

// Time builds a timestamp field (date + time, with timezone semantics
// left to the dialect's column type).
func Time(name string) *Builder {
	return newBuilder(name, schema.KindDateTime)
}

// Date builds a date-only field.
func Date(name string) *Builder {
	return newBuilder(name, schema.KindDate)
}

// TimeOfDay builds a time-only field.
func TimeOfDay(name string) *Builder {
	return newBuilder(name, schema.KindTime)
}

// JSON builds a JSON field, decoded to any (or json.RawMessage when the
// caller opts out of eager decoding).
func JSON(name string) *Builder {
	return newBuilder(name, schema.KindJSON)
}

// Bytes builds a binary blob field.
func Bytes(name string) *Builder {
	return newBuilder(name, schema.KindBlob)
}

// EnumBuilder adds the allowed-value set on top of Builder.
type EnumBuilder struct {
	*Builder
}

// Values declares the enum's allowed values.
func (b *EnumBuilder) Values(values ...string) *EnumBuilder {
	b.desc.EnumValues = values
	return b
}

// Enum builds an enum field, represented in Go as string.
func Enum(name string) *EnumBuilder {
	return &EnumBuilder{Builder: newBuilder(name, schema.KindEnum)}
}

// Vector builds a fixed-width float vector field for similarity search.
func Vector(name string) *Builder {
	return newBuilder(name, schema.KindVector)
}

// Geometry builds a geometry field, represented in Go as a WKT string.
func Geometry(name string) *Builder {
	return newBuilder(name, schema.KindGeometry)
}

// UUID builds a string-kind field defaulted to a generated UUID.
func UUID(name string) *Builder {
	b := newBuilder(name, schema.KindString)
	b.desc.HasDefault = true
	b.desc.Generator = schema.GenUUID
	return b
}

// ID builds an auto-increment primary-key field. Use UUIDID for a
// UUID-keyed model instead.
func ID(name string) *Builder {
	b := newBuilder(name, schema.KindBigInt)
	b.desc.IsID = true
	b.desc.IsUnique = true
	b.desc.IsAutoincrement = true
	b.desc.Immutable = true
	return b
}

// UUIDID builds a UUID primary-key field, defaulted via google/uuid at
// insert time.
func UUIDID(name string) *Builder {
	b := newBuilder(name, schema.KindString)
	b.desc.IsID = true
	b.desc.IsUnique = true
	b.desc.Immutable = true
	b.desc.HasDefault = true
	b.desc.Generator = schema.GenUUID
	b.desc.Default = uuid.Nil
	return b
}
