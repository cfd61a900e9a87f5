package edge

import "github.com/viborm/viborm/schema"

// Annotation is a builtin edge annotation, named "Edges", that carries a
// struct tag. This module has no code generator, and nothing in it reads
// StructTag.
type Annotation struct {
	// StructTag holds a struct tag string. For example:
	//
	//	edge.Annotation{
	//		StructTag: `json:"pet_edges"`
	//	}
	//
	StructTag string
}

// Name describes the annotation name.
func (Annotation) Name() string {
	return "Edges"
}

// Merge implements the schema.Merger interface.
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	var ant Annotation
	switch other := other.(type) {
	case Annotation:
		ant = other
	case *Annotation:
		if other != nil {
			ant = *other
		}
	default:
		return a
	}
	if tag := ant.StructTag; tag != "" {
		a.StructTag = tag
	}
	return a
}

var (
	_ schema.Annotation = (*Annotation)(nil)
	_ schema.Merger     = (*Annotation)(nil)
)
