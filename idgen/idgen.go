// Package idgen generates the "_id" identifiers flatdoc assigns when a
// caller inserts a document without one.
//
// Grounded on spec.md §6 ("a 32-character hex string derived from a
// time-ordered unique identifier with hyphens removed"): github.com/google/uuid
// (a dependency this corpus's service repos already carry — see
// bargom-codeai's go.mod) provides NewV7, a time-ordered UUID per RFC
// 9562. Stripping its hyphens gives exactly the 32-hex-char, time-ordered
// identifier the spec asks for, with no hand-rolled ULID/Snowflake
// generator needed.
package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a fresh, time-ordered 32-character hex identifier.
func New() string {
	id := uuid.Must(uuid.NewV7())
	return strings.ReplaceAll(id.String(), "-", "")
}
