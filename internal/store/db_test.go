package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDBSetGetString(t *testing.T) {
	db := NewDB()

	db.SetString("key1", "value1")
	value, err := db.GetString("key1")
	require.NoError(t, err)
	require.Equal(t, "value1", value)

	// Absent key yields the empty string, not an error
	value, err = db.GetString("nonexistent")
	require.NoError(t, err)
	require.Equal(t, "", value)
}

func TestDBDel(t *testing.T) {
	db := NewDB()

	db.SetString("key1", "value1")
	require.True(t, db.Exists("key1"))

	require.True(t, db.Del("key1"))
	require.False(t, db.Exists("key1"))

	require.False(t, db.Del("nonexistent"))
}

func TestDBType(t *testing.T) {
	db := NewDB()

	require.Equal(t, TypeNone, db.Type("missing"))

	db.SetString("s", "v")
	require.Equal(t, TypeString, db.Type("s"))

	_, err := db.ListOrCreate("l")
	require.NoError(t, err)
	require.Equal(t, TypeList, db.Type("l"))

	_, err = db.SetOrCreate("set")
	require.NoError(t, err)
	require.Equal(t, TypeSet, db.Type("set"))

	_, err = db.HashOrCreate("h")
	require.NoError(t, err)
	require.Equal(t, TypeHash, db.Type("h"))

	_, err = db.SortedSetOrCreate("z")
	require.NoError(t, err)
	require.Equal(t, TypeSortedSet, db.Type("z"))
}

func TestDBWrongType(t *testing.T) {
	db := NewDB()
	db.SetString("s", "v")

	_, err := db.ListOrCreate("s")
	var wrongType *WrongTypeError
	require.ErrorAs(t, err, &wrongType)
	require.Equal(t, TypeList, wrongType.Want)
	require.Equal(t, TypeString, wrongType.Got)

	_, err = db.LookupHash("s")
	require.ErrorAs(t, err, &wrongType)

	_, err = db.GetString("s")
	require.NoError(t, err)

	// The failed commands left the key untouched
	require.Equal(t, TypeString, db.Type("s"))
	value, err := db.GetString("s")
	require.NoError(t, err)
	require.Equal(t, "v", value)
}

func TestDBLookupNeverCreates(t *testing.T) {
	db := NewDB()

	h, err := db.LookupHash("h")
	require.NoError(t, err)
	require.Nil(t, h)

	l, err := db.LookupList("l")
	require.NoError(t, err)
	require.Nil(t, l)

	s, err := db.LookupSet("s")
	require.NoError(t, err)
	require.Nil(t, s)

	z, err := db.LookupSortedSet("z")
	require.NoError(t, err)
	require.Nil(t, z)

	// None of the reads materialized an entry
	require.Empty(t, db.Keys())
}

func TestDBOrCreateReturnsSameValue(t *testing.T) {
	db := NewDB()

	h1, err := db.HashOrCreate("h")
	require.NoError(t, err)
	h1.Set("f", "v")

	h2, err := db.HashOrCreate("h")
	require.NoError(t, err)
	value, ok := h2.Get("f")
	require.True(t, ok)
	require.Equal(t, "v", value)
}

func TestDBRPopLifecycle(t *testing.T) {
	db := NewDB()

	l, err := db.ListOrCreate("q")
	require.NoError(t, err)
	l.RPush("1", "2")

	element, err := db.RPop("q")
	require.NoError(t, err)
	require.Equal(t, "2", element)
	require.True(t, db.Exists("q"))

	// Popping the last element drops the key itself
	element, err = db.RPop("q")
	require.NoError(t, err)
	require.Equal(t, "1", element)
	require.False(t, db.Exists("q"))

	_, err = db.RPop("q")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDBRPopWrongType(t *testing.T) {
	db := NewDB()
	db.SetString("s", "v")

	_, err := db.RPop("s")
	var wrongType *WrongTypeError
	require.ErrorAs(t, err, &wrongType)
	require.True(t, db.Exists("s"))
}

func TestDBSRemLifecycle(t *testing.T) {
	db := NewDB()

	s, err := db.SetOrCreate("tags")
	require.NoError(t, err)
	s.Add("a", "b")

	removed, err := db.SRem("tags", "a")
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.True(t, db.Exists("tags"))

	removed, err = db.SRem("tags", "b")
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.False(t, db.Exists("tags"))

	// Removing from an absent key is a silent no-op
	removed, err = db.SRem("tags", "c")
	require.NoError(t, err)
	require.Equal(t, 0, removed)
}

func TestDBHDelLifecycle(t *testing.T) {
	db := NewDB()

	h, err := db.HashOrCreate("profile")
	require.NoError(t, err)
	h.SetAll(map[string]string{"name": "x", "age": "3"})

	removed, err := db.HDel("profile", "name")
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.True(t, db.Exists("profile"))

	removed, err = db.HDel("profile", "age", "missing")
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.False(t, db.Exists("profile"))
}

func TestDBKeysAndFlush(t *testing.T) {
	db := NewDB()

	db.SetString("a", "1")
	db.SetString("b", "2")
	_, err := db.SetOrCreate("c")
	require.NoError(t, err)

	keys := db.Keys()
	require.ElementsMatch(t, []string{"a", "b", "c"}, keys)

	db.FlushAll()
	require.Empty(t, db.Keys())
	require.False(t, db.Exists("a"))
}

func TestDBConcurrentAccess(t *testing.T) {
	db := NewDB()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d-%d", id, j)
				db.SetString(key, "v")
				_, err := db.GetString(key)
				if err != nil {
					t.Error(err)
					return
				}
				db.Del(key)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, db.Keys())
}

func TestDBErrorsAreDistinguishable(t *testing.T) {
	db := NewDB()
	db.SetString("s", "v")

	_, err := db.RPop("missing")
	require.True(t, errors.Is(err, ErrKeyNotFound))

	_, err = db.RPop("s")
	require.False(t, errors.Is(err, ErrKeyNotFound))
}
