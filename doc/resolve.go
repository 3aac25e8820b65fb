package doc

import "strings"

// ResolveForSort resolves a dot-separated field path against the document
// for sort-key extraction. Unlike Get, it applies MongoDB's single-element-
// list convenience when a path component meets a list value:
//
//   - ascending: if the list has exactly one document element and that
//     element contains the next key, descend into it.
//   - descending: scan the list in order and descend into the first
//     element that contains the next key.
//
// When the path fails to resolve (missing key, list with no matching
// element, or a non-traversable intermediate value), the result is nil —
// sorted below all typed values per the cross-type order's missing class.
func ResolveForSort(d Document, path string, descending bool) any {
	var cur any = d
	for _, part := range strings.Split(path, ".") {
		if lst, ok := cur.([]any); ok {
			next, found := descendList(lst, part, descending)
			if !found {
				return nil
			}
			cur = next
			continue
		}

		m, ok := asDocument(cur)
		if !ok {
			return nil
		}
		v, ok := m[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// descendList applies the single-element (ascending) / first-match
// (descending) list descent convenience for one path component.
func descendList(lst []any, part string, descending bool) (any, bool) {
	if !descending {
		if len(lst) != 1 {
			return nil, false
		}
		m, ok := asDocument(lst[0])
		if !ok {
			return nil, false
		}
		v, ok := m[part]
		return v, ok
	}

	for _, elem := range lst {
		m, ok := asDocument(elem)
		if !ok {
			continue
		}
		if v, ok := m[part]; ok {
			return v, true
		}
	}
	return nil, false
}
