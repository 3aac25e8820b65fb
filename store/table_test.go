package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relux-works/flatdoc/doc"
	"github.com/relux-works/flatdoc/query"
)

func TestTable_InsertAssignsMonotonicIDs(t *testing.T) {
	tbl := NewTable()
	ids := tbl.InsertMultiple([]doc.Document{{"n": 1}, {"n": 2}, {"n": 3}})
	for i, id := range ids {
		assert.Equalf(t, int64(i), id, "ids[%d]", i)
	}
	assert.Equal(t, int64(3), tbl.Insert(doc.Document{"n": 4}))
}

func TestTable_SearchReturnsClones(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(doc.Document{"_id": "1", "n": 1})

	results := tbl.Search(query.MatchAll())
	results[0]["n"] = 999

	again := tbl.Search(query.MatchAll())
	assert.EqualValues(t, 1, again[0]["n"], "mutating a search result leaked into storage")
}

func TestTable_RemoveReturnsDeletedCount(t *testing.T) {
	tbl := NewTable()
	tbl.InsertMultiple([]doc.Document{
		{"_id": "1", "flag": true},
		{"_id": "2", "flag": false},
		{"_id": "3", "flag": true},
	})

	pred := query.Predicate{Kind: query.KindEq, Field: "flag", Value: true}
	deleted := tbl.Remove(pred)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_ResetCounterRestartsIDs(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(doc.Document{"n": 1})
	tbl.Insert(doc.Document{"n": 2})
	tbl.Remove(query.MatchAll())
	tbl.ResetCounter()

	assert.Equal(t, int64(0), tbl.Insert(doc.Document{"n": 3}))
}
