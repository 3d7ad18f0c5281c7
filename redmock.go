// Package redmock is an in-process, single-node stand-in for a remote
// data-structure server. It reproduces the externally observable
// per-type command semantics (string, hash, list, set, sorted set) over
// a single key space, so code written against a networked instance can
// run where none is available.
package redmock

import (
	"regexp"
	"strings"

	"redmock/internal/logger"
	"redmock/internal/store"
)

// Client owns the key space and exposes the per-type command set.
// Every command is synchronous and atomic with respect to its key;
// failed commands are no-ops on the store.
type Client struct {
	db    *store.DB
	locks *lockTable
}

// New returns a fresh, usable Client. Substitute it wherever a real
// remote client would otherwise be constructed.
func New() *Client {
	return &Client{
		db:    store.NewDB(),
		locks: newLockTable(),
	}
}

// Type returns one of "hash", "string", "set", "list", "sorted-set" or
// "none", inferred from the value currently stored at key.
func (c *Client) Type(key string) string {
	return c.db.Type(key).String()
}

// Exists reports whether an entry is present at key.
func (c *Client) Exists(key string) bool {
	return c.db.Exists(key)
}

// Del removes the entry at key regardless of its kind. Removing an
// absent key is a no-op. Returns whether an entry was removed.
func (c *Client) Del(key string) bool {
	return c.db.Del(key)
}

// Keys returns every key whose full text matches pattern, where '*' is
// the only supported wildcard and matches any substring. Other glob
// metacharacters fail with ErrNotSupported.
func (c *Client) Keys(pattern string) ([]string, error) {
	if strings.ContainsAny(pattern, "?[]") {
		return nil, ErrNotSupported
	}

	// Anchored full-string match, '*' mapped to '.*'.
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re, err := regexp.Compile("^" + strings.Join(parts, ".*") + "$")
	if err != nil {
		return nil, newUsageError("invalid key pattern " + pattern)
	}

	matched := make([]string, 0)
	for _, key := range c.db.Keys() {
		if re.MatchString(key) {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

// FlushDB atomically empties the whole key space, all keys, all types.
func (c *Client) FlushDB() {
	c.db.FlushAll()
}

// ===== Strings =====

// Set stores a string value at key, replacing any previous value.
func (c *Client) Set(key, value string) {
	c.db.SetString(key, value)
}

// Get returns the string at key, or the empty string when the key is
// absent. Absence is not an error; a key of another kind fails with
// TypeMismatchError.
func (c *Client) Get(key string) (string, error) {
	return c.db.GetString(key)
}

// ===== Hashes =====

// HSet upserts one field of the hash at key, creating the hash when the
// key is absent.
func (c *Client) HSet(key, field, value string) error {
	h, err := c.db.HashOrCreate(key)
	if err != nil {
		return err
	}
	h.Set(field, value)
	return nil
}

// HMSet upserts every field/value pair from mapping, creating the hash
// when the key is absent.
func (c *Client) HMSet(key string, mapping map[string]string) error {
	if len(mapping) == 0 {
		return newUsageError("HMSET requires at least one field/value pair")
	}
	h, err := c.db.HashOrCreate(key)
	if err != nil {
		return err
	}
	h.SetAll(mapping)
	return nil
}

// HGet returns the value of field, or the empty string when the field
// or the key is absent.
func (c *Client) HGet(key, field string) (string, error) {
	h, err := c.db.LookupHash(key)
	if err != nil || h == nil {
		return "", err
	}
	value, _ := h.Get(field)
	return value, nil
}

// HGetAll returns the full field to value mapping at key, empty when
// the key is absent.
func (c *Client) HGetAll(key string) (map[string]string, error) {
	h, err := c.db.LookupHash(key)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return map[string]string{}, nil
	}
	return h.GetAll(), nil
}

// HLen returns the field count at key, 0 when the key is absent.
func (c *Client) HLen(key string) (int, error) {
	h, err := c.db.LookupHash(key)
	if err != nil || h == nil {
		return 0, err
	}
	return h.Len(), nil
}

// HDel removes fields from the hash at key, dropping the key once the
// hash empties. Returns the count removed.
func (c *Client) HDel(key string, fields ...string) (int, error) {
	if len(fields) == 0 {
		return 0, newUsageError("HDEL requires at least one field")
	}
	return c.db.HDel(key, fields...)
}

// ===== Lists =====

// RPush appends values to the tail of the list at key, creating the
// list when the key is absent. Argument order is preserved. Returns the
// resulting length.
func (c *Client) RPush(key string, values ...string) (int, error) {
	if len(values) == 0 {
		return 0, newUsageError("RPUSH requires at least one value")
	}
	l, err := c.db.ListOrCreate(key)
	if err != nil {
		return 0, err
	}
	return l.RPush(values...), nil
}

// RPop removes and returns the tail element of the list at key. The key
// itself disappears once the pop empties the list. An absent key fails
// with ErrKeyNotFound.
func (c *Client) RPop(key string) (string, error) {
	return c.db.RPop(key)
}

// LRange returns the inclusive slice [start, stop] of the list at key.
// Negative indices count from the tail. An absent key behaves as an
// empty list and is not created.
func (c *Client) LRange(key string, start, stop int) ([]string, error) {
	l, err := c.db.LookupList(key)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return []string{}, nil
	}
	return l.Range(start, stop), nil
}

// ===== Sets =====

// SAdd adds members to the set at key, creating the set when the key is
// absent. Adding an existing member is a no-op. Returns the count of
// newly added members.
func (c *Client) SAdd(key string, members ...string) (int, error) {
	if len(members) == 0 {
		return 0, newUsageError("SADD requires at least one member")
	}
	s, err := c.db.SetOrCreate(key)
	if err != nil {
		return 0, err
	}
	return s.Add(members...), nil
}

// SRem removes a member from the set at key, dropping the key once the
// set empties. Removing an absent member or key is a no-op.
func (c *Client) SRem(key, member string) (int, error) {
	return c.db.SRem(key, member)
}

// SMembers returns the full member set at key, empty when the key is
// absent.
func (c *Client) SMembers(key string) ([]string, error) {
	s, err := c.db.LookupSet(key)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return []string{}, nil
	}
	return s.Members(), nil
}

// SRandMember returns one member chosen uniformly at random from the
// set at key. An empty or absent set fails with ErrEmptyCollection.
func (c *Client) SRandMember(key string) (string, error) {
	s, err := c.db.LookupSet(key)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", ErrEmptyCollection
	}
	member, ok := s.RandMember()
	if !ok {
		return "", ErrEmptyCollection
	}
	return member, nil
}

// ===== Sorted sets =====

// ZAdd upserts every member/score pair into the sorted set at name,
// creating it when absent. Returns the count of newly inserted members.
func (c *Client) ZAdd(name string, pairs map[string]float64) (int, error) {
	if len(pairs) == 0 {
		return 0, newUsageError("ZADD requires at least one member/score pair")
	}
	z, err := c.db.SortedSetOrCreate(name)
	if err != nil {
		return 0, err
	}
	return z.Add(pairs), nil
}

// ZAddLegacy is the old single member/score call form.
//
// Deprecated: pass a map to ZAdd instead.
func (c *Client) ZAddLegacy(name, member string, score float64) (int, error) {
	logger.Warnf("ZADD with a single member/score pair is deprecated, pass a map instead")
	return c.ZAdd(name, map[string]float64{member: score})
}

// ZScore returns the score of member in the sorted set at name. An
// absent set or member fails with ErrKeyNotFound; there is no empty
// default here, unlike Get.
func (c *Client) ZScore(name, member string) (float64, error) {
	z, err := c.db.LookupSortedSet(name)
	if err != nil {
		return 0, err
	}
	if z == nil {
		return 0, ErrKeyNotFound
	}
	score, ok := z.Score(member)
	if !ok {
		return 0, ErrKeyNotFound
	}
	return score, nil
}

// ZCard returns the member count at name, 0 when the key is absent.
func (c *Client) ZCard(name string) (int, error) {
	z, err := c.db.LookupSortedSet(name)
	if err != nil || z == nil {
		return 0, err
	}
	return z.Card(), nil
}

// ZRevRange returns up to num members of the sorted set at name ordered
// by descending score, starting at logical offset start. Ties are
// broken by member identity. Negative start or num count from the end
// of the range. With withScores, the result alternates member and
// formatted score. An absent key behaves as an empty set.
func (c *Client) ZRevRange(name string, start, num int, withScores bool) ([]string, error) {
	z, err := c.db.LookupSortedSet(name)
	if err != nil {
		return nil, err
	}
	if z == nil {
		return []string{}, nil
	}

	selected := z.RevRange(start, num)
	res := make([]string, 0, len(selected)*2)
	for _, ms := range selected {
		res = append(res, ms.Member)
		if withScores {
			res = append(res, store.FormatScore(ms.Score))
		}
	}
	return res, nil
}
