package mixin

import (
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/schema/field"
)

// Schema is the default implementation of schema.Mixin; embed it in a
// custom mixin and override the methods you need.
type Schema struct{}

func (Schema) Fields() []schema.Field  { return nil }
func (Schema) Edges() []schema.Edge    { return nil }
func (Schema) Indexes() []schema.Index { return nil }

var _ schema.Mixin = (*Schema)(nil)

// ID adds an auto-incrementing int64 primary key named "id".
type ID struct{ Schema }

func (ID) Fields() []schema.Field {
	return []schema.Field{field.ID("id")}
}

// UUIDID adds a UUID primary key named "id", generated at insert time.
type UUIDID struct{ Schema }

func (UUIDID) Fields() []schema.Field {
	return []schema.Field{field.UUIDID("id")}
}

// Time adds created_at and updated_at timestamps. created_at is set
// once and immutable; updated_at is re-stamped on every update.
type Time struct{ Schema }

func (Time) Fields() []schema.Field {
	return []schema.Field{
		field.Time("created_at").DefaultFunc(schema.GenNow).Immutable().
			Comment("timestamp when the row was created"),
		field.Time("updated_at").DefaultFunc(schema.GenNow).UpdateDefault(schema.GenUpdatedAt).
			Comment("timestamp when the row was last updated"),
	}
}

// CreateTime adds only created_at.
type CreateTime struct{ Schema }

func (CreateTime) Fields() []schema.Field {
	return []schema.Field{
		field.Time("created_at").DefaultFunc(schema.GenNow).Immutable(),
	}
}

// UpdateTime adds only updated_at.
type UpdateTime struct{ Schema }

func (UpdateTime) Fields() []schema.Field {
	return []schema.Field{
		field.Time("updated_at").DefaultFunc(schema.GenNow).UpdateDefault(schema.GenUpdatedAt),
	}
}

// SoftDelete adds a nullable deleted_at column. A non-nil value marks
// the row deleted without removing it. Neither the engine's delete
// operations nor its queries interpret the column; no default filter
// excludes soft-deleted rows.
type SoftDelete struct{ Schema }

func (SoftDelete) Fields() []schema.Field {
	return []schema.Field{
		field.Time("deleted_at").Optional().
			Comment("set when the row is soft-deleted; nil means active"),
	}
}

// TimeSoftDelete combines Time and SoftDelete.
type TimeSoftDelete struct{ Schema }

func (TimeSoftDelete) Fields() []schema.Field {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// TenantID adds a required tenant_id column for row-level multi-tenant
// isolation.
type TenantID struct{ Schema }

func (TenantID) Fields() []schema.Field {
	return []schema.Field{
		field.BigInt("tenant_id").Comment("owning tenant"),
	}
}

// AnnotateFields wraps a mixin, layering annotations onto every field it
// contributes.
func AnnotateFields(m schema.Mixin, annotations ...schema.Annotation) schema.Mixin {
	return fieldAnnotator{Mixin: m, annotations: annotations}
}

// AnnotateEdges wraps a mixin, layering annotations onto every edge it
// contributes.
func AnnotateEdges(m schema.Mixin, annotations ...schema.Annotation) schema.Mixin {
	return edgeAnnotator{Mixin: m, annotations: annotations}
}

type fieldAnnotator struct {
	schema.Mixin
	annotations []schema.Annotation
}

func (a fieldAnnotator) Fields() []schema.Field {
	fields := a.Mixin.Fields()
	for _, f := range fields {
		desc := f.Descriptor()
		desc.Annotations = schema.MergeAnnotations(desc.Annotations, a.annotations...)
	}
	return fields
}

type edgeAnnotator struct {
	schema.Mixin
	annotations []schema.Annotation
}

func (a edgeAnnotator) Edges() []schema.Edge {
	edges := a.Mixin.Edges()
	for _, e := range edges {
		desc := e.Descriptor()
		desc.Annotations = schema.MergeAnnotations(desc.Annotations, a.annotations...)
	}
	return edges
}

var (
	_ schema.Mixin = fieldAnnotator{}
	_ schema.Mixin = edgeAnnotator{}
)
