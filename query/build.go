package query

import (
	"strings"

	"github.com/relux-works/flatdoc/doc"
	"github.com/relux-works/flatdoc/flatdocerr"
)

// Build translates a query document into a Predicate. An empty or nil
// filter produces MatchAll. Keys are either operator names ("$and",
// "$or") or field paths (including dot-paths); all predicates produced at
// one level are combined by conjunction.
//
// Design note: the source this behavior is drawn from threads "prevKey"
// and "lastPrevKey" through a generic recursive walk so that, deep inside
// a $not block, it can recover which field the enclosing comparison was
// against. This implementation instead passes the field path directly
// into the operator-block builder (buildFieldOps) that handles $not, so
// the same context is preserved without needing a second trailing key —
// explicit recursion naming the field at each call site makes the
// generic bookkeeping unnecessary.
func Build(filter doc.Document) (Predicate, error) {
	if len(filter) == 0 {
		return MatchAll(), nil
	}
	return buildLevel(filter, "")
}

// buildLevel builds the conjunction of predicates for one query-document
// level. fieldPrefix is prepended (dot-joined) to bare field keys found at
// this level; it is reset to "" when descending into a $and/$or sub-query,
// since those sub-queries name fields absolutely, not relative to the
// enclosing path.
func buildLevel(level doc.Document, fieldPrefix string) (Predicate, error) {
	var parts []Predicate

	for key, val := range level {
		if strings.HasPrefix(key, "$") {
			p, err := buildLogical(key, val)
			if err != nil {
				return Predicate{}, err
			}
			parts = append(parts, p)
			continue
		}

		fullField := key
		if fieldPrefix != "" {
			fullField = fieldPrefix + "." + key
		}

		p, err := buildField(fullField, val)
		if err != nil {
			return Predicate{}, err
		}
		parts = append(parts, p)
	}

	if len(parts) == 0 {
		return MatchAll(), nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return And(parts), nil
}

// buildLogical handles a top-level (or sub-query-level) operator key:
// $and/$or fold their sub-query list into a single predicate. Any other
// operator at a position with no enclosing field (including $not, and
// comparison operators like $gte) is a programming error per the spec.
func buildLogical(op string, val any) (Predicate, error) {
	switch op {
	case "$and", "$or":
		list, ok := val.([]any)
		if !ok {
			return Predicate{}, flatdocerr.Newf(flatdocerr.Invalid, "%s requires a list of sub-queries", op)
		}
		children := make([]Predicate, 0, len(list))
		for _, item := range list {
			sub, ok := asDocument(item)
			if !ok {
				return Predicate{}, flatdocerr.Newf(flatdocerr.Invalid, "%s sub-query must be a document", op)
			}
			p, err := buildLevel(sub, "")
			if err != nil {
				return Predicate{}, err
			}
			children = append(children, p)
		}
		if op == "$and" {
			return And(children), nil
		}
		return Or(children), nil
	default:
		return Predicate{}, flatdocerr.Newf(flatdocerr.Invalid, "operator %q has no enclosing field", op)
	}
}

// buildField builds the predicate for one field key's value: a scalar
// becomes an implicit $eq leaf; a document with any operator-prefixed key
// becomes an operator block on this field; any other document is a
// nested-document match, recursed into with fullField as the new prefix.
func buildField(field string, val any) (Predicate, error) {
	sub, isDoc := asDocument(val)
	if !isDoc {
		return Predicate{Kind: KindEq, Field: field, Value: val}, nil
	}

	if isOperatorBlock(sub) {
		return buildFieldOps(field, sub)
	}

	return buildLevel(sub, field)
}

// isOperatorBlock reports whether any key in a sub-document is operator-
// prefixed. Go maps carry no key order, so unlike a reference
// implementation that inspects only the "first" key, this checks all keys
// for consistency: a document mixing operator and field keys is treated
// as an operator block if any key is operator-prefixed, matching the
// spec's intent that {field: {$op: v}} is never ambiguous with a nested
// document match in practice (operator and field keys are not mixed).
func isOperatorBlock(d doc.Document) bool {
	for key := range d {
		if strings.HasPrefix(key, "$") {
			return true
		}
	}
	return false
}

// buildFieldOps builds the conjunction of comparison leaves described by
// an operator block on a single field, e.g. {$gt: 10, $lte: 50}.
func buildFieldOps(field string, ops doc.Document) (Predicate, error) {
	var parts []Predicate

	for op, val := range ops {
		switch op {
		case "$eq":
			parts = append(parts, Predicate{Kind: KindEq, Field: field, Value: val})
		case "$ne":
			parts = append(parts, Predicate{Kind: KindNe, Field: field, Value: val})
		case "$gt":
			parts = append(parts, Predicate{Kind: KindGt, Field: field, Value: val})
		case "$gte":
			parts = append(parts, Predicate{Kind: KindGte, Field: field, Value: val})
		case "$lt":
			parts = append(parts, Predicate{Kind: KindLt, Field: field, Value: val})
		case "$lte":
			parts = append(parts, Predicate{Kind: KindLte, Field: field, Value: val})
		case "$in":
			list, ok := val.([]any)
			if !ok {
				return Predicate{}, flatdocerr.New(flatdocerr.Invalid, "$in requires a list")
			}
			parts = append(parts, Predicate{Kind: KindAnyOf, Field: field, Value: list})
		case "$all":
			list, ok := val.([]any)
			if !ok {
				return Predicate{}, flatdocerr.New(flatdocerr.Invalid, "$all requires a list")
			}
			parts = append(parts, Predicate{Kind: KindAllOf, Field: field, Value: list})
		case "$regex":
			pattern, ok := val.(string)
			if !ok {
				return Predicate{}, flatdocerr.New(flatdocerr.Invalid, "$regex requires a string")
			}
			re, err := compileFullMatch(pattern)
			if err != nil {
				return Predicate{}, err
			}
			parts = append(parts, Predicate{Kind: KindRegex, Field: field, Regex: re})
		case "$not":
			inverted, err := buildNot(field, val)
			if err != nil {
				return Predicate{}, err
			}
			parts = append(parts, inverted...)
		default:
			// Unknown $-operator at a field position: ignored (no-op),
			// preserving backward compatibility of the surface.
		}
	}

	if len(parts) == 0 {
		return MatchAll(), nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return And(parts), nil
}

// buildNot inverts the comparison(s) named inside a $not sub-query by
// rewriting them directly, since the storage collaborator has no direct
// negation primitive: $gte rewrites to $lt, $gt to $lte, $lte to $gt,
// $lt to $gte, $ne to $eq, $eq to $ne. A $not value that is not an
// operator document (e.g. a list — a compound sub-query) is left
// unsupported per the source's own documented ambiguity here; it is
// rejected rather than guessed at.
func buildNot(field string, val any) ([]Predicate, error) {
	sub, ok := asDocument(val)
	if !ok {
		return nil, flatdocerr.New(flatdocerr.Invalid, "$not requires an operator sub-query document")
	}

	var out []Predicate
	for op, opVal := range sub {
		switch op {
		case "$gte":
			out = append(out, Predicate{Kind: KindLt, Field: field, Value: opVal})
		case "$gt":
			out = append(out, Predicate{Kind: KindLte, Field: field, Value: opVal})
		case "$lte":
			out = append(out, Predicate{Kind: KindGt, Field: field, Value: opVal})
		case "$lt":
			out = append(out, Predicate{Kind: KindGte, Field: field, Value: opVal})
		case "$ne":
			out = append(out, Predicate{Kind: KindEq, Field: field, Value: opVal})
		case "$eq":
			out = append(out, Predicate{Kind: KindNe, Field: field, Value: opVal})
		default:
			return nil, flatdocerr.Newf(flatdocerr.Invalid, "$not does not support inverting %q", op)
		}
	}
	return out, nil
}

// asDocument normalizes a value into a doc.Document if it is map-shaped.
func asDocument(v any) (doc.Document, bool) {
	switch m := v.(type) {
	case doc.Document:
		return m, true
	case map[string]any:
		return doc.Document(m), true
	default:
		return nil, false
	}
}
