// Package index provides fluent builders for a schema definition's
// declared indexes and unique constraints. Each builder's Descriptor
// method compiles the accumulated state into a *schema.IndexSpec.
package index

import "github.com/viborm/viborm/schema"

// Builder accumulates state for one index before it is compiled.
type Builder struct {
	desc *schema.IndexSpec
}

// Descriptor implements schema.Index.
func (b *Builder) Descriptor() *schema.IndexSpec {
	return b.desc
}

// Fields declares an index over the given columns, in order.
func Fields(columns ...string) *Builder {
	return &Builder{desc: &schema.IndexSpec{Columns: columns}}
}

// Unique marks the index as a unique constraint.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// StorageKey overrides the generated index name.
func (b *Builder) StorageKey(name string) *Builder {
	b.desc.Name = name
	return b
}

// IndexType records a non-default index type (e.g. "gin", "gist",
// "hash") on the IndexSpec. Neither the DDL generator nor the adapters
// read it.
func (b *Builder) IndexType(kind string) *Builder {
	b.desc.IndexType = kind
	return b
}

// Annotations attaches generator/adapter metadata to the index.
func (b *Builder) Annotations(ants ...schema.Annotation) *Builder {
	b.desc.Annotations = schema.MergeAnnotations(b.desc.Annotations, ants...)
	return b
}
