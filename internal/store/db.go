package store

import (
	"hash/maphash"
	"sync"
)

const (
	shardCount = 256
	shardMask  = shardCount - 1
)

// Item is a stored value: a tag plus exactly one populated variant.
type Item struct {
	Type  DataType
	Value string
	List  *List
	Set   *Set
	Hash  *Hash
	ZSet  *SortedSet
}

type shard struct {
	_  [64]byte
	mu sync.RWMutex
	m  map[string]Item
	_  [64]byte
}

// DB is the top-level mapping from key to tagged value, sharded to keep
// lock contention low under concurrent callers.
type DB struct {
	shards [shardCount]*shard
	seed   maphash.Seed
}

// NewDB creates an empty database.
func NewDB() *DB {
	db := &DB{seed: maphash.MakeSeed()}
	for i := 0; i < shardCount; i++ {
		db.shards[i] = &shard{m: make(map[string]Item, 64)}
	}
	return db
}

func (db *DB) shardIndex(key string) uint64 {
	var h maphash.Hash
	h.SetSeed(db.seed)
	_, _ = h.WriteString(key)
	return h.Sum64() & shardMask
}

func (db *DB) shardFor(key string) *shard { return db.shards[db.shardIndex(key)] }

// SetString stores a string value, replacing whatever was at the key.
func (db *DB) SetString(key, value string) {
	s := db.shardFor(key)
	it := Item{Type: TypeString, Value: value}

	s.mu.Lock()
	s.m[key] = it
	s.mu.Unlock()
}

// GetString returns the string at key. An absent key yields the empty
// string with no error; a key of another kind yields WrongTypeError.
func (db *DB) GetString(key string) (string, error) {
	s := db.shardFor(key)
	s.mu.RLock()
	it, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return "", nil
	}
	if it.Type != TypeString {
		return "", &WrongTypeError{Key: key, Want: TypeString, Got: it.Type}
	}
	return it.Value, nil
}

// Del removes the entry at key if present. Returns whether it existed.
func (db *DB) Del(key string) bool {
	s := db.shardFor(key)
	s.mu.Lock()
	_, ok := s.m[key]
	if ok {
		delete(s.m, key)
	}
	s.mu.Unlock()
	return ok
}

// Exists reports whether an entry is present at key.
func (db *DB) Exists(key string) bool {
	s := db.shardFor(key)
	s.mu.RLock()
	_, ok := s.m[key]
	s.mu.RUnlock()
	return ok
}

// Type returns the kind of the value at key, or TypeNone if absent.
func (db *DB) Type(key string) DataType {
	s := db.shardFor(key)
	s.mu.RLock()
	it, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return TypeNone
	}
	return it.Type
}

// Keys returns a snapshot of every key in the database.
func (db *DB) Keys() []string {
	res := make([]string, 0, 64)
	for _, s := range db.shards {
		s.mu.RLock()
		for k := range s.m {
			res = append(res, k)
		}
		s.mu.RUnlock()
	}
	return res
}

// FlushAll removes every entry of every type. All shard locks are taken
// up front so the flush is atomic against concurrent commands.
func (db *DB) FlushAll() {
	for _, s := range db.shards {
		s.mu.Lock()
	}
	for _, s := range db.shards {
		s.m = make(map[string]Item, 64)
	}
	for _, s := range db.shards {
		s.mu.Unlock()
	}
}

// HashOrCreate returns the hash at key, creating it if the key is
// absent. A key of another kind yields WrongTypeError.
func (db *DB) HashOrCreate(key string) (*Hash, error) {
	s := db.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[key]
	if !ok {
		h := NewHash()
		s.m[key] = Item{Type: TypeHash, Hash: h}
		return h, nil
	}
	if it.Type != TypeHash {
		return nil, &WrongTypeError{Key: key, Want: TypeHash, Got: it.Type}
	}
	return it.Hash, nil
}

// LookupHash returns the hash at key, or nil if the key is absent.
// Read paths never materialize an entry.
func (db *DB) LookupHash(key string) (*Hash, error) {
	s := db.shardFor(key)
	s.mu.RLock()
	it, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if it.Type != TypeHash {
		return nil, &WrongTypeError{Key: key, Want: TypeHash, Got: it.Type}
	}
	return it.Hash, nil
}

// ListOrCreate returns the list at key, creating it if absent.
func (db *DB) ListOrCreate(key string) (*List, error) {
	s := db.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[key]
	if !ok {
		l := NewList()
		s.m[key] = Item{Type: TypeList, List: l}
		return l, nil
	}
	if it.Type != TypeList {
		return nil, &WrongTypeError{Key: key, Want: TypeList, Got: it.Type}
	}
	return it.List, nil
}

// LookupList returns the list at key, or nil if the key is absent.
func (db *DB) LookupList(key string) (*List, error) {
	s := db.shardFor(key)
	s.mu.RLock()
	it, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if it.Type != TypeList {
		return nil, &WrongTypeError{Key: key, Want: TypeList, Got: it.Type}
	}
	return it.List, nil
}

// SetOrCreate returns the set at key, creating it if absent.
func (db *DB) SetOrCreate(key string) (*Set, error) {
	s := db.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[key]
	if !ok {
		st := NewSet()
		s.m[key] = Item{Type: TypeSet, Set: st}
		return st, nil
	}
	if it.Type != TypeSet {
		return nil, &WrongTypeError{Key: key, Want: TypeSet, Got: it.Type}
	}
	return it.Set, nil
}

// LookupSet returns the set at key, or nil if the key is absent.
func (db *DB) LookupSet(key string) (*Set, error) {
	s := db.shardFor(key)
	s.mu.RLock()
	it, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if it.Type != TypeSet {
		return nil, &WrongTypeError{Key: key, Want: TypeSet, Got: it.Type}
	}
	return it.Set, nil
}

// SortedSetOrCreate returns the sorted set at key, creating it if
// absent.
func (db *DB) SortedSetOrCreate(key string) (*SortedSet, error) {
	s := db.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[key]
	if !ok {
		z := NewSortedSet()
		s.m[key] = Item{Type: TypeSortedSet, ZSet: z}
		return z, nil
	}
	if it.Type != TypeSortedSet {
		return nil, &WrongTypeError{Key: key, Want: TypeSortedSet, Got: it.Type}
	}
	return it.ZSet, nil
}

// LookupSortedSet returns the sorted set at key, or nil if the key is
// absent.
func (db *DB) LookupSortedSet(key string) (*SortedSet, error) {
	s := db.shardFor(key)
	s.mu.RLock()
	it, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if it.Type != TypeSortedSet {
		return nil, &WrongTypeError{Key: key, Want: TypeSortedSet, Got: it.Type}
	}
	return it.ZSet, nil
}

// RPop removes and returns the tail element of the list at key. The key
// itself is dropped once the pop empties the list. An absent key yields
// ErrKeyNotFound. The shard lock is held across the pop and the drop so
// the command is atomic.
func (db *DB) RPop(key string) (string, error) {
	s := db.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	if it.Type != TypeList {
		return "", &WrongTypeError{Key: key, Want: TypeList, Got: it.Type}
	}
	element, popped := it.List.RPop()
	if !popped {
		// An empty list should not persist, but drop it either way.
		delete(s.m, key)
		return "", ErrKeyNotFound
	}
	if it.List.Len() == 0 {
		delete(s.m, key)
	}
	return element, nil
}

// SRem removes a member from the set at key, dropping the key once the
// set empties. Removing from an absent key is a no-op.
func (db *DB) SRem(key, member string) (int, error) {
	s := db.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[key]
	if !ok {
		return 0, nil
	}
	if it.Type != TypeSet {
		return 0, &WrongTypeError{Key: key, Want: TypeSet, Got: it.Type}
	}
	removed := it.Set.Remove(member)
	if it.Set.Card() == 0 {
		delete(s.m, key)
	}
	return removed, nil
}

// HDel removes fields from the hash at key, dropping the key once the
// hash empties. Deleting from an absent key is a no-op.
func (db *DB) HDel(key string, fields ...string) (int, error) {
	s := db.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[key]
	if !ok {
		return 0, nil
	}
	if it.Type != TypeHash {
		return 0, &WrongTypeError{Key: key, Want: TypeHash, Got: it.Type}
	}
	removed := it.Hash.Del(fields...)
	if it.Hash.Len() == 0 {
		delete(s.m, key)
	}
	return removed, nil
}
