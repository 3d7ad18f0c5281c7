package store

// DataStore is the contract the command layer programs against.
type DataStore interface {
	// String operations
	SetString(key, value string)
	GetString(key string) (string, error)

	// Generic key operations
	Del(key string) bool
	Exists(key string) bool
	Type(key string) DataType
	Keys() []string
	FlushAll()

	// Typed accessors: OrCreate variants materialize an empty value on
	// an absent key, Lookup variants never mutate.
	HashOrCreate(key string) (*Hash, error)
	LookupHash(key string) (*Hash, error)
	ListOrCreate(key string) (*List, error)
	LookupList(key string) (*List, error)
	SetOrCreate(key string) (*Set, error)
	LookupSet(key string) (*Set, error)
	SortedSetOrCreate(key string) (*SortedSet, error)
	LookupSortedSet(key string) (*SortedSet, error)

	// Compound removals that drop the key once its container empties
	RPop(key string) (string, error)
	SRem(key, member string) (int, error)
	HDel(key string, fields ...string) (int, error)
}

var _ DataStore = (*DB)(nil)
