package mutate

import (
	"github.com/viborm/viborm/dialect"
	"github.com/viborm/viborm/engine"
	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/verr"
)

// WritePlan is a validated, not-yet-executed mutation: the target model
// and root context, the flattened scalar data/assigns, the target filter
// (update/upsert/delete), and the relation tree's nested writes. Plan
// only validates shape; Execute does the actual building and running,
// since a nested write's statement often depends on a sibling statement's
// result (a generated child id, a resolved connect target).
type WritePlan struct {
	Ctx        *engine.BuilderContext
	Op         query.Operation
	Data       map[string]any
	UpdateData []query.UpdateAssign
	Where      *query.Filter
	Nested     []query.NestedWrite
	Returning  []string
}

// Plan validates a MutatePayload against model's schema and compiles it
// into a WritePlan: every Data/UpdateData field must resolve to a real
// column, and every nested write's Op must be one its relation's
// cardinality supports.
func Plan(a dialect.Adapter, model *schema.Model, op query.Operation, payload *query.MutatePayload) (*WritePlan, error) {
	for name := range payload.Data {
		if _, ok := model.Field(name); !ok {
			return nil, verr.UnknownField(model.Name, name)
		}
	}
	for _, asn := range payload.UpdateData {
		if _, ok := model.Field(asn.Field); !ok {
			return nil, verr.UnknownField(model.Name, asn.Field)
		}
	}
	for _, nw := range payload.Nested {
		rel, ok := model.Relation(nw.Relation)
		if !ok {
			return nil, verr.UnknownRelation(model.Name, nw.Relation)
		}
		if err := validateWriteOp(model, rel, nw.Op); err != nil {
			return nil, err
		}
	}

	return &WritePlan{
		Ctx:        rootCtx(a, model, string(op)),
		Op:         op,
		Data:       payload.Data,
		UpdateData: payload.UpdateData,
		Where:      payload.Where,
		Nested:     payload.Nested,
		Returning:  payload.Selection.Fields,
	}, nil
}

// toManyOnly names the nested-write verbs that only make sense against a
// to-many relation (they operate on a set of child rows, not a single
// one).
var toManyOnly = map[query.WriteOp]bool{
	query.WriteCreateMany: true,
	query.WriteUpdateMany: true,
	query.WriteDeleteMany: true,
	query.WriteSet:        true,
}

func validateWriteOp(model *schema.Model, rel *schema.RelationSpec, op query.WriteOp) error {
	isToMany := rel.Kind == schema.OneToMany || rel.Kind == schema.ManyToMany
	if toManyOnly[op] && !isToMany {
		return verr.UnsupportedOperation("engine/mutate", model.Name, rel.Name, string(op))
	}
	switch op {
	case query.WriteCreate, query.WriteConnect, query.WriteConnectOrCreate,
		query.WriteDisconnect, query.WriteUpdate, query.WriteUpsert, query.WriteDelete,
		query.WriteCreateMany, query.WriteUpdateMany, query.WriteDeleteMany, query.WriteSet:
		return nil
	default:
		return verr.UnsupportedOperation("engine/mutate", model.Name, rel.Name, string(op))
	}
}
