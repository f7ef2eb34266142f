package geocode

import (
	"strings"
	"sync"

	"github.com/couchcryptid/natal-chart-service/internal/domain"
)

// cache memoizes geocoding outcomes for the lifetime of the process.
// Both successful resolutions and definitive not-found results are stored,
// so a key that exhausted every provider once never triggers network calls
// again. Entries are unbounded and never expire: coordinates of named
// places do not change, and avoiding repeat calls against rate-limited
// providers matters more than staleness.
type cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	coords domain.Coordinates
	found  bool // false marks a negative entry
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

func (c *cache) get(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *cache) putPositive(key string, coords domain.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{coords: coords, found: true}
}

func (c *cache) putNegative(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{}
}

// cacheKey normalizes a location triple into a case-insensitive,
// whitespace-collapsed "city,province,country" key.
func cacheKey(country, province, city string) string {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return norm(city) + "," + norm(province) + "," + norm(country)
}
