// Package edge provides fluent builders for the relation-state records
// of the schema intermediate representation: cardinality, the lazily
// resolved target model, local/foreign field pairing, and many-to-many
// junction descriptors. Each builder's Descriptor method compiles the
// accumulated state into a *schema.RelationSpec.
package edge

import "github.com/viborm/viborm/schema"

// Builder accumulates state for one edge before it is compiled.
type Builder struct {
	desc *schema.RelationSpec
}

// Descriptor implements schema.Edge.
func (b *Builder) Descriptor() *schema.RelationSpec {
	return b.desc
}

// To declares a forward edge: name is the field exposed on the owning
// model, target lazily resolves the associated model (a func so cyclic
// schema graphs compile: target models may reference each other).
func To(name string, target func() *schema.Model) *Builder {
	return &Builder{desc: &schema.RelationSpec{
		Name:   name,
		Kind:   schema.OneToMany,
		Target: target,
	}}
}

// From declares an inverse (many-to-one, by default) edge. Ref must name
// the forward edge on the target model this one mirrors.
func From(name string, target func() *schema.Model) *Builder {
	b := To(name, target)
	b.desc.Inverse = true
	b.desc.Kind = schema.ManyToOne
	return b
}

// Ref names the forward edge this inverse edge mirrors.
func (b *Builder) Ref(name string) *Builder {
	b.desc.RefName = name
	return b
}

// Unique marks a to-one edge (one-to-one, or the single-owner side of a
// many-to-one relation).
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	if !b.desc.Inverse {
		b.desc.Kind = schema.OneToOne
	}
	return b
}

// Required marks the edge NOT NULL on the owning side.
func (b *Builder) Required() *Builder {
	b.desc.Required = true
	return b
}

// Immutable forbids the edge from being reassigned on update.
func (b *Builder) Immutable() *Builder {
	b.desc.Immutable = true
	return b
}

// Comment attaches a human-readable description.
func (b *Builder) Comment(text string) *Builder {
	b.desc.Comment = text
	return b
}

// Field names the local column backing a many-to-one / one-to-one edge.
func (b *Builder) Field(column string) *Builder {
	b.desc.OnField = []string{column}
	return b
}

// Fields names a compound local column set.
func (b *Builder) Fields(columns ...string) *Builder {
	b.desc.OnField = columns
	return b
}

// Through declares a many-to-many edge backed by the named junction
// table. The through argument is accepted but neither stored nor called;
// the compiled Junction records only the table name.
func (b *Builder) Through(table string, through func() *schema.Model) *Builder {
	b.desc.Kind = schema.ManyToMany
	b.desc.Through = &schema.Junction{Table: table}
	return b
}

// StorageKey overrides the default-derived join-table/column/constraint
// naming for the edge.
func (b *Builder) StorageKey(opts ...Option) *Builder {
	key := &StorageKey{}
	for _, opt := range opts {
		opt(key)
	}
	b.desc.StorageKey = key
	return b
}

// Annotations attaches generator/adapter metadata to the edge.
func (b *Builder) Annotations(ants ...schema.Annotation) *Builder {
	b.desc.Annotations = schema.MergeAnnotations(b.desc.Annotations, ants...)
	return b
}
