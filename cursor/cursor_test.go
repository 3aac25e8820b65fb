package cursor

import (
	"testing"

	"github.com/relux-works/flatdoc/doc"
)

func sampleDocs(n int) []doc.Document {
	out := make([]doc.Document, n)
	for i := 0; i < n; i++ {
		out[i] = doc.Document{
			"_id":   i,
			"count": int64(i),
		}
	}
	return out
}

func TestNew_EmptyQueryEquivalence(t *testing.T) {
	items := sampleDocs(100)
	c, err := New(items, nil, 0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Count() != 100 {
		t.Errorf("Count() = %d, want 100", c.Count())
	}
}

func TestSort_Ascending(t *testing.T) {
	items := sampleDocs(100)
	c, err := New(items, []SortSpec{{Field: "count", Direction: Asc}}, 0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	first, _ := c.At(0)
	second, _ := c.At(1)
	last, _ := c.At(99)
	if first["count"] != int64(0) || second["count"] != int64(1) || last["count"] != int64(99) {
		t.Errorf("ascending sort out of order: %v %v %v", first["count"], second["count"], last["count"])
	}
}

func TestSort_Descending(t *testing.T) {
	items := sampleDocs(100)
	c, err := New(items, []SortSpec{{Field: "count", Direction: Desc}}, 0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	first, _ := c.At(0)
	if first["count"] != int64(99) {
		t.Errorf("descending sort: first = %v, want 99", first["count"])
	}
}

func TestSort_MultiKeyStability(t *testing.T) {
	items := []doc.Document{
		{"_id": "a", "group": "x", "rank": int64(2)},
		{"_id": "b", "group": "x", "rank": int64(1)},
		{"_id": "c", "group": "y", "rank": int64(1)},
		{"_id": "d", "group": "x", "rank": int64(1)},
	}
	c, err := New(items, []SortSpec{
		{Field: "group", Direction: Asc},
		{Field: "rank", Direction: Asc},
	}, 0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var order []string
	for i := 0; i < c.Count(); i++ {
		d, _ := c.At(i)
		order = append(order, d["_id"].(string))
	}
	want := []string{"b", "d", "a", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestPaginate_SkipAndLimit(t *testing.T) {
	items := sampleDocs(10)
	c, err := New(items, nil, 2, 3)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", c.Count())
	}
	first, _ := c.At(0)
	if first["count"] != int64(2) {
		t.Errorf("first after skip=2 = %v, want 2", first["count"])
	}
}

func TestPaginate_LimitGreaterThanCountIsNoOp(t *testing.T) {
	items := sampleDocs(5)
	c, err := New(items, nil, 0, 100)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Count() != 5 {
		t.Errorf("Count() = %d, want 5", c.Count())
	}
}

func TestPaginate_SkipWithoutLimitIsNoOp(t *testing.T) {
	items := sampleDocs(5)
	c, err := New(items, nil, 3, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Count() != 5 {
		t.Errorf("skip without limit should be a no-op, Count() = %d, want 5", c.Count())
	}
}

func TestNextHasNext(t *testing.T) {
	items := sampleDocs(2)
	c, err := New(items, nil, 0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !c.HasNext() {
		t.Fatal("expected HasNext true before first Next")
	}
	if _, err := c.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !c.HasNext() {
		t.Fatal("expected HasNext true before second Next")
	}
	if _, err := c.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if c.HasNext() {
		t.Fatal("expected HasNext false at end")
	}
	if _, err := c.Next(); err == nil {
		t.Fatal("expected out-of-range error advancing past end")
	}
}

func TestFromMapping(t *testing.T) {
	specs, err := FromMapping(map[string]int{"count": 1})
	if err != nil {
		t.Fatalf("FromMapping error = %v", err)
	}
	if len(specs) != 1 || specs[0].Field != "count" || specs[0].Direction != Asc {
		t.Errorf("FromMapping = %+v", specs)
	}

	if _, err := FromMapping(map[string]int{"a": 1, "b": -1}); err == nil {
		t.Fatal("expected error for multi-entry mapping")
	}
}

func TestSort_CrossTypeHeterogeneousCollectionNeverFails(t *testing.T) {
	items := []doc.Document{
		{"_id": 1, "v": nil},
		{"_id": 2, "v": int64(5)},
		{"_id": 3, "v": "s"},
		{"_id": 4, "v": doc.Document{"k": int64(1)}},
		{"_id": 5, "v": []any{int64(1), int64(2)}},
		{"_id": 6, "v": true},
		{"_id": 7, "v": []any{}},
	}
	c, err := New(items, []SortSpec{{Field: "v", Direction: Asc}}, 0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Count() != len(items) {
		t.Fatalf("Count() = %d, want %d", c.Count(), len(items))
	}
}
