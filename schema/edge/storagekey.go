package edge

import "github.com/viborm/viborm/schema"

// StorageKey is the compiled naming-override record for an edge.
type StorageKey = schema.StorageKey

// Option mutates a StorageKey being built by the Builder.StorageKey method.
type Option func(*StorageKey)

// Table overrides the junction table name for a many-to-many edge.
func Table(name string) Option {
	return func(k *StorageKey) { k.Table = name }
}

// Column overrides the single local column name for a to-one edge.
func Column(name string) Option {
	return func(k *StorageKey) { k.Columns = []string{name} }
}

// Columns overrides the junction table's A/B column names for a
// many-to-many edge.
func Columns(a, b string) Option {
	return func(k *StorageKey) { k.Columns = []string{a, b} }
}

// Symbol overrides the foreign-key constraint name for a to-one edge.
func Symbol(name string) Option {
	return func(k *StorageKey) { k.Symbols = []string{name} }
}

// Symbols overrides the junction table's A/B foreign-key constraint
// names for a many-to-many edge.
func Symbols(a, b string) Option {
	return func(k *StorageKey) { k.Symbols = []string{a, b} }
}
