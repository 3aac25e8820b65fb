// Package doc defines the document value model shared by flatdoc's query,
// cursor, and store packages: an unordered string-keyed map of heterogeneous
// values, with dot-path traversal through nested documents and lists.
package doc

import "strings"

// Document is an unordered mapping from string keys to values. Values are
// one of: nil, bool, int64, float64, string, []any, or a nested Document.
type Document map[string]any

// Clone returns a shallow copy of the document. Nested documents and lists
// are shared, not deep-copied; callers that mutate nested structures in
// place must clone those themselves.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ID returns the document's "_id" field as a string, or "" if absent or
// not a string.
func (d Document) ID() string {
	v, ok := d["_id"]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Get resolves a dot-separated field path against the document, descending
// through nested documents. It does not apply the list-descent convenience
// rules used by sort field extraction (see ResolveForSort); it is the plain
// lookup used by predicate evaluation, where list membership is handled
// by the AnyOf/AllOf predicate leaves instead of by path descent.
func (d Document) Get(path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = d
	for _, part := range parts {
		m, ok := cur.(Document)
		if !ok {
			if mm, ok2 := cur.(map[string]any); ok2 {
				m = Document(mm)
			} else {
				return nil, false
			}
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// asDocument normalizes a map[string]any into a Document so nested maps
// produced by generic JSON decoding traverse the same as native Documents.
func asDocument(v any) (Document, bool) {
	switch m := v.(type) {
	case Document:
		return m, true
	case map[string]any:
		return Document(m), true
	default:
		return nil, false
	}
}
