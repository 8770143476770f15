package engine

import (
	"fmt"
	"testing"

	"servicemap/catalog"
)

func rec(id string) catalog.ServiceRecord {
	return catalog.ServiceRecord{ID: id, Name: "svc-" + id}
}

func recs(prefix string, n int) []catalog.ServiceRecord {
	out := make([]catalog.ServiceRecord, n)
	for i := range out {
		out[i] = rec(fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

func ids(records []catalog.ServiceRecord) map[string]int {
	out := make(map[string]int, len(records))
	for i, r := range records {
		out[r.ID] = i
	}
	return out
}

func TestMergePrependsAndDedupes(t *testing.T) {
	c := NewCache(100)
	c.Replace([]catalog.ServiceRecord{rec("a"), rec("b"), rec("c")})

	fresh := catalog.ServiceRecord{ID: "b", Name: "updated"}
	c.Merge([]catalog.ServiceRecord{rec("d"), fresh})

	got := c.Records()
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	order := ids(got)
	if order["d"] != 0 || order["b"] != 1 {
		t.Fatalf("fresh records must be front-loaded, got order %v", order)
	}
	if order["a"] != 2 || order["c"] != 3 {
		t.Fatalf("surviving records must keep relative order, got %v", order)
	}
	// Re-fetched records carry fresh fields; hours change upstream.
	if got[1].Name != "updated" {
		t.Fatalf("record b not overwritten: %+v", got[1])
	}
}

func TestMergeNoDuplicateIDs(t *testing.T) {
	c := NewCache(100)
	c.Replace(recs("x", 10))
	c.Merge(append(recs("x", 5), recs("y", 5)...))

	seen := map[string]bool{}
	for _, r := range c.Records() {
		if seen[r.ID] {
			t.Fatalf("duplicate id %q after merge", r.ID)
		}
		seen[r.ID] = true
	}
	if c.Len() != 15 {
		t.Fatalf("len = %d, want 15", c.Len())
	}
}

func TestMergeCapEvictsOldestFetched(t *testing.T) {
	c := NewCache(3000)
	c.Replace(recs("old", 2000))
	c.Merge(recs("new", 1500))

	if c.Len() != 3000 {
		t.Fatalf("len = %d, want 3000", c.Len())
	}
	order := ids(c.Records())
	for i := 0; i < 1500; i++ {
		if _, ok := order[fmt.Sprintf("new-%d", i)]; !ok {
			t.Fatalf("new-%d missing after cap enforcement", i)
		}
	}
	// First 1500 of the old page survive, the oldest-positioned 500 go.
	if _, ok := order["old-1499"]; !ok {
		t.Fatal("old-1499 should survive")
	}
	if _, ok := order["old-1500"]; ok {
		t.Fatal("old-1500 should be evicted")
	}
	if _, ok := order["old-1999"]; ok {
		t.Fatal("old-1999 should be evicted")
	}
}

func TestReplaceDropsResidue(t *testing.T) {
	c := NewCache(100)
	c.Replace(recs("f1", 10))
	c.Replace(recs("f2", 3))

	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	order := ids(c.Records())
	for id := range order {
		if id[:2] != "f2" {
			t.Fatalf("residue %q survived wholesale replace", id)
		}
	}
	// Server order preserved.
	if order["f2-0"] != 0 || order["f2-1"] != 1 || order["f2-2"] != 2 {
		t.Fatalf("server order not preserved: %v", order)
	}
}

func TestClear(t *testing.T) {
	c := NewCache(10)
	c.Replace(recs("a", 5))
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("len = %d after clear, want 0", c.Len())
	}
}
