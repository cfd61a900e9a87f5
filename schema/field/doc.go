// Package field provides fluent builders for the fields of a schema
// definition.
//
//	field.String("name")
//	field.Int64("count")
//	field.Float64("price").Optional()
//	field.Bool("is_active").Default(false)
//	field.Time("created_at")
//	field.Enum("status").Values("active", "suspended")
//	field.UUIDID("id")
//
// Each builder accumulates state and compiles it via Descriptor into a
// *schema.FieldSpec, the record the planner and dialect adapters consult.
package field
