package store

import (
	"math/rand"
	"sort"
	"strconv"
	"sync"

	"redmock/internal/logger"
)

// DataType identifies the concrete kind of value stored at a key.
type DataType int

const (
	TypeNone DataType = iota
	TypeString
	TypeList
	TypeSet
	TypeHash
	TypeSortedSet
)

// String returns the type name reported by the TYPE command.
func (t DataType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	case TypeHash:
		return "hash"
	case TypeSortedSet:
		return "sorted-set"
	default:
		return "none"
	}
}

// List is an ordered sequence of string elements backed by a recentered
// slice so both ends support cheap push and pop.
type List struct {
	mu    sync.RWMutex
	items []string
	head  int // index of first element
	tail  int // index of last element + 1
	cap   int
}

// NewList creates an empty list.
func NewList() *List {
	initialCap := 16
	return &List{
		items: make([]string, initialCap),
		head:  initialCap / 2,
		tail:  initialCap / 2,
		cap:   initialCap,
	}
}

// RPush appends elements to the tail, preserving argument order.
// Returns the resulting length.
func (l *List) RPush(elements ...string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tail+len(elements) > l.cap {
		l.grow(0, len(elements))
	}

	for _, element := range elements {
		l.items[l.tail] = element
		l.tail++
	}

	length := l.tail - l.head
	logger.Debugf("RPUSH added %d elements, list length: %d", len(elements), length)
	return length
}

// LPush prepends elements to the head. The first argument ends up
// leftmost.
func (l *List) LPush(elements ...string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.head-len(elements) < 0 {
		l.grow(len(elements), 0)
	}

	for i := len(elements) - 1; i >= 0; i-- {
		l.head--
		l.items[l.head] = elements[i]
	}

	length := l.tail - l.head
	logger.Debugf("LPUSH added %d elements, list length: %d", len(elements), length)
	return length
}

// grow expands the backing slice and recenters the elements, guaranteeing
// at least headSpace free slots before the head and tailSpace after the
// tail so a pending bulk push fits on its side.
func (l *List) grow(headSpace, tailSpace int) {
	currentLen := l.tail - l.head
	newCap := l.cap * 2
	for newCap < currentLen+headSpace+tailSpace+16 {
		newCap *= 2
	}

	newItems := make([]string, newCap)
	newHead := (newCap - currentLen - tailSpace + headSpace) / 2
	if newHead < headSpace {
		newHead = headSpace
	}
	if newHead+currentLen+tailSpace > newCap {
		newHead = newCap - currentLen - tailSpace
	}
	copy(newItems[newHead:], l.items[l.head:l.tail])

	l.items = newItems
	l.head = newHead
	l.tail = newHead + currentLen
	l.cap = newCap
}

// RPop removes and returns the tail element. The second return value is
// false when the list is empty.
func (l *List) RPop() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.head >= l.tail {
		return "", false
	}

	l.tail--
	element := l.items[l.tail]
	l.items[l.tail] = "" // clear reference for GC

	logger.Debugf("RPOP returned %q, list length: %d", element, l.tail-l.head)
	return element, true
}

// LPop removes and returns the head element.
func (l *List) LPop() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.head >= l.tail {
		return "", false
	}

	element := l.items[l.head]
	l.items[l.head] = ""
	l.head++

	logger.Debugf("LPOP returned %q, list length: %d", element, l.tail-l.head)
	return element, true
}

// Len returns the number of elements.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tail - l.head
}

// Range returns elements from start to stop inclusive. Negative indices
// count from the tail, -1 being the last element.
func (l *List) Range(start, stop int) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	length := l.tail - l.head
	if length == 0 {
		return []string{}
	}

	if start < 0 {
		start = length + start
	}
	if stop < 0 {
		stop = length + stop
	}

	if start < 0 {
		start = 0
	}
	if start >= length || start > stop {
		return []string{}
	}
	if stop >= length {
		stop = length - 1
	}

	actualStart := l.head + start
	actualStop := l.head + stop + 1

	result := make([]string, actualStop-actualStart)
	copy(result, l.items[actualStart:actualStop])
	return result
}

// Set is an unordered collection of unique string members.
type Set struct {
	mu    sync.RWMutex
	items map[string]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{items: make(map[string]struct{})}
}

// Add inserts members, ignoring ones already present. Returns the count
// of newly inserted members.
func (s *Set) Add(members ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, member := range members {
		if _, exists := s.items[member]; !exists {
			s.items[member] = struct{}{}
			added++
		}
	}

	logger.Debugf("SADD added %d new members, set size: %d", added, len(s.items))
	return added
}

// Remove deletes members if present. Returns the count removed.
func (s *Set) Remove(members ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, member := range members {
		if _, exists := s.items[member]; exists {
			delete(s.items, member)
			removed++
		}
	}

	logger.Debugf("SREM removed %d members, set size: %d", removed, len(s.items))
	return removed
}

// IsMember reports whether member is in the set.
func (s *Set) IsMember(member string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.items[member]
	return exists
}

// Members returns a snapshot of all members in no particular order.
func (s *Set) Members() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]string, 0, len(s.items))
	for member := range s.items {
		members = append(members, member)
	}
	return members
}

// Card returns the number of members.
func (s *Set) Card() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// RandMember returns one member chosen uniformly at random. The second
// return value is false when the set is empty. Map iteration order is
// not uniform, so the index is drawn first and the iteration merely
// counts up to it.
func (s *Set) RandMember() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.items) == 0 {
		return "", false
	}

	idx := rand.Intn(len(s.items))
	i := 0
	for member := range s.items {
		if i == idx {
			return member, true
		}
		i++
	}
	return "", false
}

// Hash is a mapping from field name to string value.
type Hash struct {
	mu     sync.RWMutex
	fields map[string]string
}

// NewHash creates an empty hash.
func NewHash() *Hash {
	return &Hash{fields: make(map[string]string)}
}

// Set upserts one field. Returns true if the field was new.
func (h *Hash) Set(field, value string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, exists := h.fields[field]
	h.fields[field] = value

	logger.Debugf("HSET %s = %q (existed: %v)", field, value, exists)
	return !exists
}

// SetAll upserts every field/value pair from the given mapping.
func (h *Hash) SetAll(mapping map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for field, value := range mapping {
		h.fields[field] = value
	}
	logger.Debugf("HMSET upserted %d fields, hash size: %d", len(mapping), len(h.fields))
}

// Get returns the value of a field. The second return value is false
// when the field is absent.
func (h *Hash) Get(field string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	value, exists := h.fields[field]
	return value, exists
}

// Del removes fields. Returns the count removed.
func (h *Hash) Del(fields ...string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for _, field := range fields {
		if _, exists := h.fields[field]; exists {
			delete(h.fields, field)
			removed++
		}
	}
	return removed
}

// GetAll returns a copy of the full field to value mapping.
func (h *Hash) GetAll() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string]string, len(h.fields))
	for field, value := range h.fields {
		result[field] = value
	}
	return result
}

// Len returns the number of fields.
func (h *Hash) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.fields)
}

// MemberScore pairs a sorted set member with its score.
type MemberScore struct {
	Member string
	Score  float64
}

// FormatScore renders a score the way range replies do.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// SortedSet maps unique members to numeric scores and serves range
// queries ordered by score. The sorted view is rebuilt lazily: writes
// mark it dirty and the next range query pays for the sort.
type SortedSet struct {
	mu     sync.RWMutex
	scores map[string]float64
	order  []MemberScore
	dirty  bool
}

// NewSortedSet creates an empty sorted set.
func NewSortedSet() *SortedSet {
	return &SortedSet{scores: make(map[string]float64), order: make([]MemberScore, 0)}
}

// Add upserts members with scores. Returns the count of new insertions.
func (z *SortedSet) Add(pairs map[string]float64) int {
	z.mu.Lock()
	defer z.mu.Unlock()

	added := 0
	for member, score := range pairs {
		if _, exists := z.scores[member]; !exists {
			added++
		}
		z.scores[member] = score
	}
	z.dirty = true

	logger.Debugf("ZADD upserted %d pairs, set size: %d", len(pairs), len(z.scores))
	return added
}

// Remove deletes members. Returns the count removed.
func (z *SortedSet) Remove(members ...string) int {
	z.mu.Lock()
	defer z.mu.Unlock()

	removed := 0
	for _, m := range members {
		if _, ok := z.scores[m]; ok {
			delete(z.scores, m)
			removed++
		}
	}
	if removed > 0 {
		z.dirty = true
	}
	return removed
}

// Card returns the number of members.
func (z *SortedSet) Card() int {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return len(z.scores)
}

// Score returns the score of a member. The second return value is false
// when the member is absent.
func (z *SortedSet) Score(member string) (float64, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	s, ok := z.scores[member]
	return s, ok
}

// RevRange returns up to num members starting at logical offset start of
// the descending-by-score ordering. Ties are broken by member identity.
// Note num is a count, not an end index. Negative start or num address
// offsets from the end of the range, so start=-2 with num=1 yields the
// second-to-last member of the descending view.
func (z *SortedSet) RevRange(start, num int) []MemberScore {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.dirty {
		z.rebuild()
	}

	n := len(z.order)
	if n == 0 {
		return []MemberScore{}
	}
	stop := start + num
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop > n {
		stop = n
	}
	if stop <= start {
		return []MemberScore{}
	}

	// order is ascending; walk it backwards for the descending view.
	res := make([]MemberScore, 0, stop-start)
	for i := start; i < stop; i++ {
		res = append(res, z.order[n-1-i])
	}
	return res
}

// rebuild recomputes the ascending (score, member) order slice.
// Caller must hold the write lock.
func (z *SortedSet) rebuild() {
	n := len(z.scores)
	if cap(z.order) < n {
		z.order = make([]MemberScore, 0, n)
	} else {
		z.order = z.order[:0]
	}
	for m, s := range z.scores {
		z.order = append(z.order, MemberScore{Member: m, Score: s})
	}
	sort.Slice(z.order, func(i, j int) bool {
		if z.order[i].Score == z.order[j].Score {
			return z.order[i].Member < z.order[j].Member
		}
		return z.order[i].Score < z.order[j].Score
	})
	z.dirty = false
}
