// Package query defines the canonical, schema-validated query description
// the planner consumes: the engine never sees client-facing shorthand
// (e.g. a bare scalar standing in for `{equals: v}`) — that normalization
// is the validation layer's job, out of scope here per spec.
package query

// Operation enumerates every operation the engine plans for.
type Operation string

const (
	FindUnique        Operation = "findUnique"
	FindUniqueOrThrow Operation = "findUniqueOrThrow"
	FindFirst         Operation = "findFirst"
	FindFirstOrThrow  Operation = "findFirstOrThrow"
	FindMany          Operation = "findMany"
	Create            Operation = "create"
	CreateMany        Operation = "createMany"
	Update            Operation = "update"
	UpdateMany        Operation = "updateMany"
	Upsert            Operation = "upsert"
	Delete            Operation = "delete"
	DeleteMany        Operation = "deleteMany"
	Count             Operation = "count"
	Aggregate         Operation = "aggregate"
	GroupBy           Operation = "groupBy"
	Exist             Operation = "exist"
)

// IsOrThrow reports whether zero matching rows must raise RecordNotFound.
func (o Operation) IsOrThrow() bool {
	return o == FindUniqueOrThrow || o == FindFirstOrThrow
}

// IsRead reports whether the operation is cacheable per spec §4.8 ("exactly
// the read operations").
func (o Operation) IsRead() bool {
	switch o {
	case FindUnique, FindUniqueOrThrow, FindFirst, FindFirstOrThrow, FindMany,
		Count, Aggregate, GroupBy, Exist:
		return true
	default:
		return false
	}
}

// FieldFilter is a canonical per-field operator map, e.g. {"equals": 7} or
// {"gt": 7, "lt": 20}. Recognized keys: equals, not, in, notIn, lt, lte,
// gt, gte, contains, startsWith, endsWith, mode (case-insensitive flag for
// string filters), has, hasEvery, hasSome, isEmpty (array filters).
type FieldFilter map[string]any

// RelationFilter wraps a nested Filter under one of the five relation
// quantifiers (is, isNot, some, every, none); exactly one field is set.
type RelationFilter struct {
	Is    *Filter
	IsNot *Filter
	Some  *Filter
	Every *Filter
	None  *Filter
}

// Filter is the canonical WHERE tree: a conjunction of field filters,
// relation filters, and nested logical groups.
type Filter struct {
	And       []Filter
	Or        []Filter
	Not       []Filter
	Fields    map[string]FieldFilter
	Relations map[string]RelationFilter
}

// IsZero reports an empty filter (degrades to TRUE in a WHERE position).
func (f *Filter) IsZero() bool {
	if f == nil {
		return true
	}
	return len(f.And) == 0 && len(f.Or) == 0 && len(f.Not) == 0 &&
		len(f.Fields) == 0 && len(f.Relations) == 0
}

// OrderDirection is the sort direction for one OrderBy term.
type OrderDirection string

const (
	Asc  OrderDirection = "asc"
	Desc OrderDirection = "desc"
)

// NullOrder controls NULLS FIRST/LAST; zero value means dialect default.
type NullOrder string

const (
	NullsDefault NullOrder = ""
	NullsFirst   NullOrder = "first"
	NullsLast    NullOrder = "last"
)

// OrderTerm orders by either a scalar field or a nested relation's
// aggregate/field (Relation non-empty selects the latter).
type OrderTerm struct {
	Field     string
	Relation  string // non-empty: order by a correlated scalar on this relation
	Direction OrderDirection
	Nulls     NullOrder
}

// Selection describes which scalar fields and which relations (each with
// its own nested Selection) a query returns.
type Selection struct {
	Fields    []string // empty means "all declared scalars"
	Relations map[string]*RelationSelection
}

// RelationSelection is one included/selected relation: its own filter,
// ordering, pagination, and nested projection.
type RelationSelection struct {
	Where     *Filter
	OrderBy   []OrderTerm
	Take      *int
	Skip      *int
	Selection Selection
}

// FindPayload is the validated input to a find* operation.
type FindPayload struct {
	Where     *Filter
	Selection Selection
	OrderBy   []OrderTerm
	Take      *int
	Skip      *int
}

// WriteOp is one nested-write verb attached to a relation inside a
// mutation payload.
type WriteOp string

const (
	WriteCreate          WriteOp = "create"
	WriteCreateMany      WriteOp = "createMany"
	WriteConnect         WriteOp = "connect"
	WriteConnectOrCreate WriteOp = "connectOrCreate"
	WriteDisconnect      WriteOp = "disconnect"
	WriteSet             WriteOp = "set"
	WriteUpdate          WriteOp = "update"
	WriteUpdateMany      WriteOp = "updateMany"
	WriteUpsert          WriteOp = "upsert"
	WriteDelete          WriteOp = "delete"
	WriteDeleteMany      WriteOp = "deleteMany"
)

// NestedWrite is one relation's requested mutation inside a create/update
// payload, e.g. `posts: { create: [...], connect: [...] }`.
type NestedWrite struct {
	Relation string
	Op       WriteOp
	Data     []map[string]any // scalar field values for create/createMany rows
	Where    []*Filter        // unique lookups for connect/disconnect/update/delete targets
	SkipDuplicates bool
}

// UpdateAssign is one SET-clause operation dispatched through
// adapter.SetOps per spec §4.5.
type UpdateAssign struct {
	Field string
	Op    string // "set", "increment", "decrement", "multiply", "divide", "push", "unshift"
	Value any
}

// MutatePayload is the validated input to create/update/upsert/delete and
// their *Many variants.
type MutatePayload struct {
	Where        *Filter // update/upsert/delete target; ignored by create
	Data         map[string]any
	UpdateData   []UpdateAssign
	CreateData   []map[string]any // createMany rows
	Nested       []NestedWrite
	SkipDuplicates bool
	Selection    Selection
}

// AggFunc names one aggregate bucket requested by an aggregate/groupBy
// payload.
type AggFunc string

const (
	AggCount AggFunc = "_count"
	AggSum   AggFunc = "_sum"
	AggAvg   AggFunc = "_avg"
	AggMin   AggFunc = "_min"
	AggMax   AggFunc = "_max"
)

// AggregatePayload is the validated input to aggregate/groupBy.
type AggregatePayload struct {
	Where   *Filter
	OrderBy []OrderTerm
	Take    *int
	Skip    *int
	GroupBy []string // non-empty selects groupBy semantics
	Having  *Filter
	// Selected maps each requested bucket to the field names it aggregates;
	// AggCount with a nil/empty field list means COUNT(*).
	Selected map[AggFunc][]string
}
