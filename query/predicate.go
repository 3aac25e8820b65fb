// Package query implements the Predicate Builder: translation of
// MongoDB-style query documents into an opaque, evaluable Predicate tree.
//
// Grounded on the teacher package's filter.go (predicate-from-args
// construction folded by conjunction) and ast.go (a small recursive AST of
// statements/args), generalized from the teacher's flat key=value DSL to
// the spec's recursive operator-tree query documents.
package query

import (
	"regexp"

	"github.com/relux-works/flatdoc/doc"
)

// Kind identifies a Predicate node's variant.
type Kind int

const (
	KindEq Kind = iota
	KindNe
	KindGt
	KindGte
	KindLt
	KindLte
	KindAnyOf // $in
	KindAllOf // $all
	KindRegex
	KindAnd
	KindOr
)

// Predicate is the opaque tree produced by Build. Leaf variants compare a
// single field path against a literal value or regex; interior variants
// (And, Or) compose child predicates. There is no Not variant — negation
// is resolved at build time by rewriting the enclosed comparison (see
// build.go), since the storage collaborator this package targets has no
// direct negation primitive.
type Predicate struct {
	Kind     Kind
	Field    string
	Value    any // scalar for Eq/Ne/Gt/Gte/Lt/Lte; []any for AnyOf/AllOf
	Regex    *regexp.Regexp
	Children []Predicate
}

// Eval evaluates the predicate against a document.
func (p Predicate) Eval(d doc.Document) bool {
	switch p.Kind {
	case KindAnd:
		for _, c := range p.Children {
			if !c.Eval(d) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range p.Children {
			if c.Eval(d) {
				return true
			}
		}
		return false
	}

	fieldVal, _ := d.Get(p.Field)

	switch p.Kind {
	case KindEq:
		return matchEqualOrContains(fieldVal, p.Value)
	case KindNe:
		return !matchEqualOrContains(fieldVal, p.Value)
	case KindGt:
		return doc.Compare(fieldVal, p.Value) > 0
	case KindGte:
		return doc.Compare(fieldVal, p.Value) >= 0
	case KindLt:
		return doc.Compare(fieldVal, p.Value) < 0
	case KindLte:
		return doc.Compare(fieldVal, p.Value) <= 0
	case KindAnyOf:
		targets, _ := p.Value.([]any)
		for _, target := range targets {
			if matchEqualOrContains(fieldVal, target) {
				return true
			}
		}
		return false
	case KindAllOf:
		elems, ok := fieldVal.([]any)
		if !ok {
			return false
		}
		targets, _ := p.Value.([]any)
		for _, target := range targets {
			if !containsEqual(elems, target) {
				return false
			}
		}
		return true
	case KindRegex:
		s, ok := fieldVal.(string)
		if !ok || p.Regex == nil {
			return false
		}
		return p.Regex.MatchString(s)
	default:
		return false
	}
}

// matchEqualOrContains implements the spec's list-field matching
// convenience: a positive comparison against a field matches either the
// scalar equality or, when the stored value is a list, membership in
// that list.
func matchEqualOrContains(fieldVal, target any) bool {
	if elems, ok := fieldVal.([]any); ok {
		return containsEqual(elems, target)
	}
	return doc.Compare(fieldVal, target) == 0
}

func containsEqual(elems []any, target any) bool {
	for _, e := range elems {
		if doc.Compare(e, target) == 0 {
			return true
		}
	}
	return false
}

// And builds a conjunction predicate.
func And(children []Predicate) Predicate {
	return Predicate{Kind: KindAnd, Children: children}
}

// Or builds a disjunction predicate.
func Or(children []Predicate) Predicate {
	return Predicate{Kind: KindOr, Children: children}
}

// MatchAll returns the canonical "match everything" sentinel: _id != "-1".
// Returned for an empty query document so the downstream contract — a
// collection is always given a predicate — stays uniform.
func MatchAll() Predicate {
	return Predicate{Kind: KindNe, Field: "_id", Value: "-1"}
}
