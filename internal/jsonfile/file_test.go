package jsonfile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/relux-works/flatdoc/doc"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "db.json")

	type payload struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	want := payload{Name: "x", N: 3}

	if err := WriteJSON(path, want); err != nil {
		t.Fatalf("WriteJSON error = %v", err)
	}

	var got payload
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON error = %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadJSON_MissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	var out map[string]any
	if err := ReadJSON(filepath.Join(dir, "missing.json"), &out); err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if out != nil {
		t.Errorf("expected zero-value map, got %v", out)
	}
}

func TestEncodeDecodeValue_DateTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	doc := map[string]any{
		"created": now,
		"nested":  map[string]any{"updated": now},
		"list":    []any{now},
	}

	encoded := EncodeValue(doc).(map[string]any)
	decoded := DecodeValue(encoded).(map[string]any)

	got, ok := decoded["created"].(time.Time)
	if !ok || !got.Equal(now) {
		t.Errorf("created = %v, want %v", decoded["created"], now)
	}
	nested := decoded["nested"].(map[string]any)
	if gotN, ok := nested["updated"].(time.Time); !ok || !gotN.Equal(now) {
		t.Errorf("nested.updated = %v, want %v", nested["updated"], now)
	}
	list := decoded["list"].([]any)
	if gotL, ok := list[0].(time.Time); !ok || !gotL.Equal(now) {
		t.Errorf("list[0] = %v, want %v", list[0], now)
	}
}

// TestEncodeDecodeValue_NestedDocTypeRoundTrip guards against EncodeValue's
// type switch missing doc.Document (a named type with the same underlying
// shape as map[string]any, produced by every sub-document literal in this
// codebase, e.g. doc.Document{"address": doc.Document{...}}).
func TestEncodeDecodeValue_NestedDocTypeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	d := doc.Document{
		"address": doc.Document{"updated": now},
	}

	encoded := EncodeValue(map[string]any(d)).(map[string]any)
	decoded := DecodeValue(encoded).(map[string]any)

	nested, ok := decoded["address"].(map[string]any)
	if !ok {
		t.Fatalf("address = %T, want map[string]any", decoded["address"])
	}
	got, ok := nested["updated"].(time.Time)
	if !ok || !got.Equal(now) {
		t.Errorf("address.updated = %v, want %v", nested["updated"], now)
	}
}
