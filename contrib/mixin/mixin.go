// Package mixin provides optional mixins beyond the common ones in
// schema/mixin: alternate primary-key generators and an optimistic
// concurrency field.
//
// Usage:
//
//	import "github.com/viborm/viborm/contrib/mixin"
//
//	func (Order) Mixin() []schema.Mixin {
//	    return []schema.Mixin{
//	        mixin.ULIDID{},
//	        mixin.Versioned{},
//	    }
//	}
package mixin

import (
	"github.com/viborm/viborm/schema"
	"github.com/viborm/viborm/schema/field"
	smixin "github.com/viborm/viborm/schema/mixin"
)

// ULIDID adds a ULID-keyed primary key, lexicographically sortable by
// creation time unlike a random UUID.
type ULIDID struct{ smixin.Schema }

func (ULIDID) Fields() []schema.Field {
	return []schema.Field{
		field.String("id").DefaultFunc(schema.GenULID).Immutable(),
	}
}

var _ schema.Mixin = (*ULIDID)(nil)

// CUIDID adds a CUID-keyed primary key.
type CUIDID struct{ smixin.Schema }

func (CUIDID) Fields() []schema.Field {
	return []schema.Field{
		field.String("id").DefaultFunc(schema.GenCUID).Immutable(),
	}
}

var _ schema.Mixin = (*CUIDID)(nil)

// NanoIDID adds a NanoID-keyed primary key.
type NanoIDID struct{ smixin.Schema }

func (NanoIDID) Fields() []schema.Field {
	return []schema.Field{
		field.String("id").DefaultFunc(schema.GenNanoID).Immutable(),
	}
}

var _ schema.Mixin = (*NanoIDID)(nil)

// Versioned adds an integer version column, incremented on every update
// by application code enforcing optimistic-concurrency checks; the
// engine itself applies no special semantics to the column name.
type Versioned struct{ smixin.Schema }

func (Versioned) Fields() []schema.Field {
	return []schema.Field{
		field.Int("version").Default(1),
	}
}

var _ schema.Mixin = (*Versioned)(nil)
