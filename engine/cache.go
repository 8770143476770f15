package engine

import "servicemap/catalog"

// DefaultCacheCap bounds memory growth of the merged result set.
const DefaultCacheCap = 3000

// Cache holds the merged result set, most-recently-fetched first, with at
// most one entry per record ID. Owned exclusively by the engine loop;
// renderers only ever see copies of derived subsets.
type Cache struct {
	cap     int
	records []catalog.ServiceRecord
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCap
	}
	return &Cache{cap: capacity}
}

// Records returns the cached records, newest fetch first. The slice is
// shared; callers must not mutate it.
func (c *Cache) Records() []catalog.ServiceRecord {
	return c.records
}

func (c *Cache) Len() int { return len(c.records) }

// Replace discards everything and keeps the new page in server order.
// Used when the filter state changed: residue fetched under the old
// filters must never survive.
func (c *Cache) Replace(page []catalog.ServiceRecord) {
	c.records = dedupe(page, nil)
	c.truncate()
}

// Merge folds a page fetched under unchanged filters into the cache.
// Fresh records win: a record re-fetched under a new viewport moves to
// the front and its fields are overwritten, since provider details can
// change between fetches. Eviction is oldest-fetched first.
func (c *Cache) Merge(page []catalog.ServiceRecord) {
	c.records = dedupe(page, c.records)
	c.truncate()
}

// Clear empties the cache. Triggered by connectivity loss and by filter
// changes that invalidate time-sensitive results.
func (c *Cache) Clear() {
	c.records = nil
}

// dedupe concatenates page and old, keeping the first occurrence of each
// ID.
func dedupe(page, old []catalog.ServiceRecord) []catalog.ServiceRecord {
	seen := make(map[string]struct{}, len(page)+len(old))
	out := make([]catalog.ServiceRecord, 0, len(page)+len(old))
	for _, r := range page {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	for _, r := range old {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (c *Cache) truncate() {
	if len(c.records) > c.cap {
		c.records = c.records[:c.cap]
	}
}
