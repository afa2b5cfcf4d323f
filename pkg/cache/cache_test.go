package cache

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCache_GetPut(t *testing.T) {
	c := New()

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"map", "apod:2024-01-01", map[string]string{"title": "M31"}},
		{"string", "neo:feed", "raw"},
		{"bytes", "epic:natural", []byte(`[{"image":"x"}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Put(tt.key, tt.value, t0)

			e, ok := c.Get(tt.key)
			if !ok {
				t.Fatal("Get() returned false for existing key")
			}
			if !reflect.DeepEqual(e.Value, tt.value) {
				t.Errorf("Get() value = %v, want %v", e.Value, tt.value)
			}
			if !e.StoredAt.Equal(t0) {
				t.Errorf("StoredAt = %v, want %v", e.StoredAt, t0)
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c := New()
	if _, ok := c.Get("missing"); ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_PutOverwrites(t *testing.T) {
	c := New()
	c.Put("k", "old", t0)
	c.Put("k", "new", t0.Add(time.Minute))

	e, _ := c.Get("k")
	if e.Value != "new" {
		t.Errorf("value = %v, want new", e.Value)
	}
	if !e.StoredAt.Equal(t0.Add(time.Minute)) {
		t.Errorf("StoredAt = %v, want refreshed timestamp", e.StoredAt)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestIsFresh(t *testing.T) {
	e := Entry{Value: "v", StoredAt: t0}
	ttl := 1000 * time.Millisecond

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just stored", t0, true},
		{"half ttl", t0.Add(500 * time.Millisecond), true},
		{"exactly ttl", t0.Add(ttl), false},
		{"past ttl", t0.Add(1500 * time.Millisecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFresh(e, tt.now, ttl); got != tt.want {
				t.Errorf("IsFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCache_ClearEmpties(t *testing.T) {
	c := New()
	for i := range 10 {
		c.Put(fmt.Sprintf("k%d", i), i, t0)
	}
	if c.Size() != 10 {
		t.Fatalf("Size() = %d, want 10", c.Size())
	}

	c.Clear()

	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", c.Size())
	}
	if _, ok := c.Get("k3"); ok {
		t.Error("Get() after Clear returned an entry")
	}
}

func TestCache_SizeIncludesStale(t *testing.T) {
	c := New()
	c.Put("old", 1, t0)
	c.Put("new", 2, t0.Add(2*time.Hour))

	now := t0.Add(2*time.Hour + time.Minute)
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
	if got := c.CountFresh(now, time.Hour); got != 1 {
		t.Errorf("CountFresh() = %d, want 1", got)
	}
	// Stale entries are not removed by reads.
	if _, ok := c.Get("old"); !ok {
		t.Error("stale entry should still be present")
	}
}

func TestCache_IdempotentReads(t *testing.T) {
	c := New()
	c.Put("k", []byte(`{"a":1}`), t0)

	first, _ := c.Get("k")
	for range 5 {
		again, ok := c.Get("k")
		if !ok || !reflect.DeepEqual(again, first) {
			t.Fatalf("Get() = %v, %v; want %v", again, ok, first)
		}
	}
}

func TestCache_Delete(t *testing.T) {
	c := New()
	c.Put("a", 1, t0)
	c.Put("b", 2, t0)
	c.Delete("a")
	c.Delete("missing")

	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Keys() = %v, want [b]", got)
	}
}

func TestCache_Keys(t *testing.T) {
	c := New()
	for _, k := range []string{"neo:b", "apod:a", "donki:c"} {
		c.Put(k, k, t0)
	}
	want := []string{"apod:a", "donki:c", "neo:b"}
	if got := c.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", j%10)
				c.Put(key, i, t0)
				c.Get(key)
				c.Size()
			}
		}(i)
	}
	wg.Wait()

	if c.Size() != 10 {
		t.Errorf("Size() = %d, want 10", c.Size())
	}
}

func TestEntry_Age(t *testing.T) {
	e := Entry{StoredAt: t0}
	if got := e.Age(t0.Add(90 * time.Second)); got != 90*time.Second {
		t.Errorf("Age() = %v, want 90s", got)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		parts     []string
		want      string
	}{
		{"namespace only", "apod", nil, "apod"},
		{"one part", "apod", []string{"2024-01-01"}, "apod:2024-01-01"},
		{"many parts", "mars", []string{"curiosity", "sol=1000"}, "mars:curiosity:sol=1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.namespace, tt.parts...); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyHashesLongParts(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	k := Key("catalog", string(long))
	if len(k) != len("catalog:")+64 {
		t.Errorf("Key() length = %d, want hashed part", len(k))
	}
	if k != Key("catalog", string(long)) {
		t.Error("Key() should be deterministic")
	}
}

func TestNamespace(t *testing.T) {
	if got := Namespace("apod:2024-01-01"); got != "apod" {
		t.Errorf("Namespace() = %q, want apod", got)
	}
	if got := Namespace("plain"); got != "plain" {
		t.Errorf("Namespace() = %q, want plain", got)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
