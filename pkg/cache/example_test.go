package cache_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/orbit/pkg/cache"
)

func ExampleCache() {
	c := cache.New()
	stored := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	key := cache.Key("apod", "2024-01-01")
	c.Put(key, `{"title":"The Andromeda Galaxy"}`, stored)

	entry, ok := c.Get(key)
	fmt.Println("Found:", ok)
	fmt.Println("Fresh after 30m:", cache.IsFresh(entry, stored.Add(30*time.Minute), time.Hour))
	fmt.Println("Fresh after 2h:", cache.IsFresh(entry, stored.Add(2*time.Hour), time.Hour))
	fmt.Println("Size:", c.Size())

	c.Clear()
	fmt.Println("Size after clear:", c.Size())
	// Output:
	// Found: true
	// Fresh after 30m: true
	// Fresh after 2h: false
	// Size: 1
	// Size after clear: 0
}
