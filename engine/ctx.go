// Package engine wires the schema IR, dialect adapter, and driver into
// the planner/loader/mutator/parser pipeline, and owns the per-query
// alias generator and the savepoint-serialized transaction wrapper.
package engine

import (
	"fmt"

	"github.com/viborm/viborm/dialect"
	"github.com/viborm/viborm/schema"
)

// AliasGen mints short, monotonically increasing table aliases ("t0",
// "t1", ...) for a single query. The planner owns one instance per root
// Build call; it is never shared across queries.
type AliasGen struct {
	next int
}

// Next returns the next alias in sequence.
func (g *AliasGen) Next() string {
	a := fmt.Sprintf("t%d", g.next)
	g.next++
	return a
}

// BuilderContext is per-node traversal state threaded down through the
// planner, loader, and mutation pipeline. It is immutable at each level:
// children are produced by copying with overrides via the With* methods,
// never by mutating a shared value in place.
type BuilderContext struct {
	Model     *schema.Model
	Operation string
	Alias     string
	Parent    *ParentRef
	Field     string // projected field name, when this node is a scalar/relation leaf
	Adapter   dialect.Adapter
	Aliases   *AliasGen
	Depth     int
}

// ParentRef names the parent alias and the relation that produced this
// child node, so correlated subqueries can reference parent_alias.col.
type ParentRef struct {
	Alias    string
	Relation string
}

// NewRootContext starts a fresh builder context for a new top-level plan.
func NewRootContext(model *schema.Model, operation string, adapter dialect.Adapter) *BuilderContext {
	gen := &AliasGen{}
	return &BuilderContext{
		Model:     model,
		Operation: operation,
		Alias:     gen.Next(),
		Adapter:   adapter,
		Aliases:   gen,
	}
}

// WithChild derives a context for a relation traversal: a new alias, the
// target model, and a ParentRef back to this node.
func (c *BuilderContext) WithChild(target *schema.Model, relation string) *BuilderContext {
	child := *c
	child.Model = target
	child.Field = ""
	child.Parent = &ParentRef{Alias: c.Alias, Relation: relation}
	child.Alias = c.Aliases.Next()
	child.Depth = c.Depth + 1
	return &child
}

// WithField derives a context pinned to one projected field, for filter
// construction that needs to know which leaf it is building.
func (c *BuilderContext) WithField(name string) *BuilderContext {
	child := *c
	child.Field = name
	return &child
}

// MaxIncludeDepth bounds self-referential include/select trees per spec
// §4.4 ("refuses self-include past depth 10").
const MaxIncludeDepth = 10
