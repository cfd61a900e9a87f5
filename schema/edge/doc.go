// Package edge provides fluent builders for the relations of a schema
// definition.
//
//	// One-to-many (default)
//	edge.To("posts", Post.Model)
//
//	// One-to-one
//	edge.To("profile", Profile.Model).Unique()
//
//	// Many-to-one, mirroring a forward edge on the target
//	edge.From("author", User.Model).Ref("posts").Unique()
//
//	// Many-to-many through a join table
//	edge.To("groups", Group.Model).Through("user_groups", nil)
//
// target is a lazily-evaluated getter (typically a registry lookup) so
// two schemas may reference each other without an initialization-order
// dependency.
//
// StorageKey overrides the default-derived join-table, column, or
// foreign-key constraint naming:
//
//	edge.From("owner", User.Model).Ref("pets").Unique().
//	    StorageKey(edge.Column("owner_id"))
//
//	edge.To("groups", Group.Model).
//	    StorageKey(edge.Table("user_groups"), edge.Columns("user_id", "group_id"))
package edge
