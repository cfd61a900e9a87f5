// Package schema defines the in-memory intermediate representation the
// planner, loader and mutation pipeline compile against: models, fields,
// relations, indexes, and the annotation mechanism used to attach
// adapter- or dialect-facing metadata to any of them.
//
// Concrete schema definitions are written with the fluent builders in
// schema/field, schema/edge, schema/index and schema/mixin; Build walks a
// definition's Fields/Edges/Indexes/Mixin methods and compiles them into
// a *Model.
package schema

import (
	"fmt"

	"github.com/go-openapi/inflect"
)

// Annotation attaches generator- or adapter-facing metadata to a field,
// edge, index or model. Name identifies the annotation's family so two
// annotations of the same family can be merged when mixins compose.
type Annotation interface {
	Name() string
}

// Merger lets an annotation combine with another of the same Name when
// mixins and schema-level annotations are layered on top of one another.
// The receiver is the base value; other is the overriding value.
type Merger interface {
	Merge(other Annotation) Annotation
}

// CommentAnnotation carries a human-readable comment. The DDL generator
// in dialect/sql/schema emits no SQL COMMENT for it.
type CommentAnnotation struct {
	Text string
}

// Name implements Annotation.
func (CommentAnnotation) Name() string { return "Comment" }

// Merge implements Merger; a non-empty override replaces the base text.
func (a *CommentAnnotation) Merge(other Annotation) Annotation {
	if o, ok := other.(*CommentAnnotation); ok && o.Text != "" {
		return o
	}
	return a
}

// Comment builds a CommentAnnotation.
func Comment(text string) *CommentAnnotation {
	return &CommentAnnotation{Text: text}
}

// MergeAnnotations folds incoming annotations over base, applying Merger
// where both sides share a Name and simply appending otherwise.
func MergeAnnotations(base []Annotation, incoming ...Annotation) []Annotation {
	out := append([]Annotation(nil), base...)
	for _, in := range incoming {
		merged := false
		for i, b := range out {
			if b.Name() != in.Name() {
				continue
			}
			if m, ok := b.(Merger); ok {
				out[i] = m.Merge(in)
			} else {
				out[i] = in
			}
			merged = true
			break
		}
		if !merged {
			out = append(out, in)
		}
	}
	return out
}

// Kind enumerates the scalar field kinds a column may hold.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindDecimal
	KindBigInt
	KindBoolean
	KindDateTime
	KindDate
	KindTime
	KindJSON
	KindBlob
	KindEnum
	KindVector
	KindGeometry
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindBigInt:
		return "bigInt"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "dateTime"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindJSON:
		return "json"
	case KindBlob:
		return "blob"
	case KindEnum:
		return "enum"
	case KindVector:
		return "vector"
	case KindGeometry:
		return "geometry"
	default:
		return "invalid"
	}
}

// Generator names a well-known default-value generator tag.
type Generator string

const (
	GenUUID      Generator = "uuid"
	GenULID      Generator = "ulid"
	GenCUID      Generator = "cuid"
	GenNanoID    Generator = "nanoid"
	GenNow       Generator = "now"
	GenUpdatedAt Generator = "updatedAt"
)

// Validator is a user-supplied predicate over a decoded field value,
// invoked by the mutation pipeline before a create/update is planned.
type Validator func(value any) error

// FieldSpec is the compiled state of a single field, per the field-state
// record in the data model: kind, nullability, array-ness, default, and
// identity/uniqueness flags.
type FieldSpec struct {
	Name            string
	Kind            Kind
	EnumValues      []string
	Nullable        bool
	Array           bool
	HasDefault      bool
	Default         any
	Generator       Generator
	UpdateGenerator Generator
	IsID            bool
	IsUnique        bool
	IsAutoincrement bool
	Immutable       bool
	ColumnName      string
	Validators      []Validator
	Comment         string
	Annotations     []Annotation
}

// Column returns the field's storage column name: the explicit
// ColumnName override if set, otherwise the underscored field name.
func (f *FieldSpec) Column() string {
	if f.ColumnName != "" {
		return f.ColumnName
	}
	return inflect.Underscore(f.Name)
}

// Validate checks the field-state invariants from the data model.
func (f *FieldSpec) Validate() error {
	if f.IsID && f.Array {
		return fmt.Errorf("field %q: id field cannot be array", f.Name)
	}
	if f.IsID && !f.IsUnique {
		f.IsUnique = true
	}
	return nil
}

// RelationKind enumerates the four relation cardinalities.
type RelationKind uint8

const (
	RelationInvalid RelationKind = iota
	OneToOne
	OneToMany
	ManyToOne
	ManyToMany
)

// Junction describes the join table backing a many-to-many relation.
type Junction struct {
	Table   string
	ColumnA string
	ColumnB string
}

// StorageKey overrides the default-derived naming for an edge's backing
// table, columns, or foreign-key constraint symbol.
type StorageKey struct {
	Table   string
	Columns []string
	Symbols []string
}

// RelationSpec is the compiled state of a relation: cardinality, the
// lazily-resolved target model (supporting cyclic schema graphs), the
// local/foreign column pairing, and an optional junction descriptor.
type RelationSpec struct {
	Name        string
	Kind        RelationKind
	Target      func() *Model
	TargetName  string
	OnField     []string
	RefField    []string
	Through     *Junction
	StorageKey  *StorageKey
	Inverse     bool
	RefName     string
	Unique      bool
	Required    bool
	Immutable   bool
	Comment     string
	Annotations []Annotation
}

// IndexSpec is the compiled state of a declared index or unique
// constraint.
type IndexSpec struct {
	Name        string
	Columns     []string
	Unique      bool
	IndexType   string
	Annotations []Annotation
}

// Field is implemented by any field builder; Descriptor compiles the
// builder's accumulated state into a FieldSpec.
type Field interface {
	Descriptor() *FieldSpec
}

// Edge is implemented by any edge builder.
type Edge interface {
	Descriptor() *RelationSpec
}

// Index is implemented by any index builder.
type Index interface {
	Descriptor() *IndexSpec
}

// Mixin bundles reusable fields, edges, and indexes that a schema
// definition can embed.
type Mixin interface {
	Fields() []Field
	Edges() []Edge
	Indexes() []Index
}

// Definition is implemented by a concrete schema (a Go type describing
// one model). Edges, Indexes, Mixins, Annotations and Table are optional;
// embed Schema to get zero-value defaults for all of them.
type Definition interface {
	Fields() []Field
}

type edgesProvider interface{ Edges() []Edge }
type indexesProvider interface{ Indexes() []Index }
type mixinsProvider interface{ Mixin() []Mixin }
type annotationsProvider interface{ Annotations() []Annotation }
type tableProvider interface{ Table() string }

// Schema is embedded by concrete schema definitions to supply zero-value
// defaults for every optional method.
type Schema struct{}

func (Schema) Edges() []Edge             { return nil }
func (Schema) Indexes() []Index          { return nil }
func (Schema) Mixin() []Mixin            { return nil }
func (Schema) Annotations() []Annotation { return nil }

// Model is the compiled intermediate representation the planner, loader
// and mutation pipeline consult: table name, the ordered field map,
// the relation map, compound primary key, unique constraints, and
// indexes.
type Model struct {
	Name        string
	TableName   string
	Fields      map[string]*FieldSpec
	FieldOrder  []string
	Relations   map[string]*RelationSpec
	PrimaryKey  []string
	Uniques     [][]string
	Indexes     []*IndexSpec
	Annotations []Annotation
}

// Field looks up a compiled field by name.
func (m *Model) Field(name string) (*FieldSpec, bool) {
	f, ok := m.Fields[name]
	return f, ok
}

// Relation looks up a compiled relation by name.
func (m *Model) Relation(name string) (*RelationSpec, bool) {
	r, ok := m.Relations[name]
	return r, ok
}

// Build compiles a schema definition (plus its mixins) into a *Model.
// name is the definition's Go type name, used to derive the table name
// (via inflect pluralization) unless the definition overrides it via a
// Table() method.
func Build(name string, def Definition) *Model {
	m := &Model{
		Name:      name,
		TableName: inflect.Pluralize(inflect.Underscore(name)),
		Fields:    map[string]*FieldSpec{},
		Relations: map[string]*RelationSpec{},
	}
	if tp, ok := def.(tableProvider); ok {
		if t := tp.Table(); t != "" {
			m.TableName = t
		}
	}

	var mixins []Mixin
	if mp, ok := def.(mixinsProvider); ok {
		mixins = mp.Mixin()
	}
	for _, mx := range mixins {
		addFields(m, mx.Fields())
		addEdges(m, mx.Edges())
		addIndexes(m, mx.Indexes())
	}
	addFields(m, def.Fields())
	if ep, ok := def.(edgesProvider); ok {
		addEdges(m, ep.Edges())
	}
	if ip, ok := def.(indexesProvider); ok {
		addIndexes(m, ip.Indexes())
	}
	if ap, ok := def.(annotationsProvider); ok {
		m.Annotations = MergeAnnotations(m.Annotations, ap.Annotations()...)
	}
	return m
}

func addFields(m *Model, fields []Field) {
	for _, f := range fields {
		spec := f.Descriptor()
		if _, exists := m.Fields[spec.Name]; !exists {
			m.FieldOrder = append(m.FieldOrder, spec.Name)
		}
		m.Fields[spec.Name] = spec
		if spec.IsID {
			m.PrimaryKey = []string{spec.Name}
		}
		if spec.IsUnique && !spec.IsID {
			m.Uniques = append(m.Uniques, []string{spec.Name})
		}
	}
}

func addEdges(m *Model, edges []Edge) {
	for _, e := range edges {
		spec := e.Descriptor()
		m.Relations[spec.Name] = spec
	}
}

func addIndexes(m *Model, indexes []Index) {
	for _, i := range indexes {
		m.Indexes = append(m.Indexes, i.Descriptor())
	}
}
