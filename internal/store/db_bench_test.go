package store

import (
	"strconv"
	"testing"
)

func BenchmarkDBSetString(b *testing.B) {
	db := NewDB()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		db.SetString("key-"+strconv.Itoa(i%1000), "value")
	}
}

func BenchmarkDBGetString(b *testing.B) {
	db := NewDB()
	for i := 0; i < 1000; i++ {
		db.SetString("key-"+strconv.Itoa(i), "value")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = db.GetString("key-" + strconv.Itoa(i%1000))
	}
}

func BenchmarkDBGetStringParallel(b *testing.B) {
	db := NewDB()
	for i := 0; i < 1000; i++ {
		db.SetString("key-"+strconv.Itoa(i), "value")
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = db.GetString("key-" + strconv.Itoa(i%1000))
			i++
		}
	})
}

func BenchmarkDBHashOrCreate(b *testing.B) {
	db := NewDB()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, _ := db.HashOrCreate("key-" + strconv.Itoa(i%100))
		h.Set("field", "value")
	}
}

func BenchmarkDBRPopCycle(b *testing.B) {
	db := NewDB()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l, _ := db.ListOrCreate("queue")
		l.RPush("job")
		_, _ = db.RPop("queue")
	}
}

func BenchmarkDBKeys(b *testing.B) {
	db := NewDB()
	for i := 0; i < 10000; i++ {
		db.SetString("key-"+strconv.Itoa(i), "value")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		db.Keys()
	}
}
