// Package mixin provides reusable schema components: common fields,
// edges, and indexes shared across schema definitions.
//
//	type User struct{ schema.Schema }
//
//	func (User) Mixin() []schema.Mixin {
//	    return []schema.Mixin{
//	        mixin.ID{},
//	        mixin.Time{},
//	    }
//	}
//
// Common mixins (created_at/updated_at, soft delete, tenant isolation)
// live here; application-specific ones embed mixin.Schema and override
// Fields/Edges/Indexes.
package mixin
