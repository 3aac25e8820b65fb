package doc

import "testing"

func TestCompareForSort_CrossTypeClasses(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int // sign only
	}{
		{"missing < numeric", nil, int64(1), -1},
		{"numeric < string", int64(1), "a", -1},
		{"string < document", "a", Document{"x": 1}, -1},
		// CompareForSort reduces a list to its minimum element when
		// ascending, so a list of lists is needed to keep a list-class key.
		{"document < list", Document{"x": 1}, []any{[]any{1}}, -1},
		{"list < boolean", []any{[]any{1}}, true, -1},
		{"empty list below missing", []any{}, nil, -1},
		{"false < true", false, true, -1},
		{"numeric equal", int64(5), float64(5), 0},
		{"string lexicographic", "abc", "abd", -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CompareForSort(tc.a, tc.b, false)
			if sign(got) != tc.want {
				t.Errorf("CompareForSort(%v, %v) = %d, want sign %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCompareForSort_ListReduction(t *testing.T) {
	a := []any{int64(5), int64(1), int64(9)}
	b := int64(3)

	// Ascending: list reduces to its minimum (1), which is < 3.
	if c := CompareForSort(a, b, false); sign(c) != -1 {
		t.Errorf("ascending: CompareForSort(%v, %v) = %d, want -1", a, b, c)
	}

	// Descending: list reduces to its maximum (9), which is > 3.
	if c := CompareForSort(a, b, true); sign(c) != 1 {
		t.Errorf("descending: CompareForSort(%v, %v) = %d, want 1", a, b, c)
	}
}

func TestCompareForSort_EmptyListUnaffectedByDirection(t *testing.T) {
	empty := []any{}
	if c := CompareForSort(empty, nil, false); sign(c) != -1 {
		t.Errorf("ascending: empty list vs nil = %d, want -1", c)
	}
	if c := CompareForSort(empty, nil, true); sign(c) != -1 {
		t.Errorf("descending: empty list vs nil = %d, want -1", c)
	}
}

func TestCompareForSort_DocumentOrderedWalk(t *testing.T) {
	d1 := Document{"a": int64(1), "b": "x"}
	d2 := Document{"a": int64(1), "b": "y"}
	if c := CompareForSort(d1, d2, false); sign(c) != -1 {
		t.Errorf("CompareForSort(%v, %v) = %d, want -1", d1, d2, c)
	}
	if c := CompareForSort(d1, d1, false); c != 0 {
		t.Errorf("CompareForSort(%v, %v) = %d, want 0", d1, d1, c)
	}
}

func TestCompareForSort_DocumentOrderedWalkClassBeforeKey(t *testing.T) {
	// "z" sorts before "a" by class (numeric < string) even though "a" sorts
	// before "z" by key, so a class-first walk and a key-first walk disagree
	// on which entry is compared first.
	d1 := Document{"a": "text", "z": int64(1)}
	d2 := Document{"a": "text", "z": "also-text"}
	if c := CompareForSort(d1, d2, false); sign(c) != -1 {
		t.Errorf("CompareForSort(%v, %v) = %d, want -1 (numeric z sorts before string z)", d1, d2, c)
	}

	d3 := Document{"value": int64(100)}
	d4 := Document{"value": "apple"}
	if c := CompareForSort(d3, d4, false); sign(c) != -1 {
		t.Errorf("CompareForSort(%v, %v) = %d, want -1 (numeric class below string class)", d3, d4, c)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestResolveForSort_DotPath(t *testing.T) {
	d := Document{"a": Document{"b": int64(42)}}
	if v := ResolveForSort(d, "a.b", false); v != int64(42) {
		t.Errorf("ResolveForSort = %v, want 42", v)
	}
	if v := ResolveForSort(d, "a.missing", false); v != nil {
		t.Errorf("ResolveForSort(missing) = %v, want nil", v)
	}
}

func TestResolveForSort_SingleElementListAscending(t *testing.T) {
	d := Document{"items": []any{Document{"n": int64(7)}}}
	if v := ResolveForSort(d, "items.n", false); v != int64(7) {
		t.Errorf("ResolveForSort = %v, want 7", v)
	}
}

func TestResolveForSort_MultiElementListAscendingFails(t *testing.T) {
	d := Document{"items": []any{Document{"n": int64(1)}, Document{"n": int64(2)}}}
	if v := ResolveForSort(d, "items.n", false); v != nil {
		t.Errorf("ResolveForSort(ascending, multi-element) = %v, want nil", v)
	}
}

func TestResolveForSort_MultiElementListDescendingScans(t *testing.T) {
	d := Document{"items": []any{Document{"other": "x"}, Document{"n": int64(2)}}}
	if v := ResolveForSort(d, "items.n", true); v != int64(2) {
		t.Errorf("ResolveForSort(descending) = %v, want 2", v)
	}
}
