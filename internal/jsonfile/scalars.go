package jsonfile

import (
	"time"

	"github.com/relux-works/flatdoc/doc"
)

// dateTypeTag is the short type name used to tag non-JSON scalars (dates)
// on disk, per spec §6 ("serialized via pluggable serializers tagged by a
// short type name at write time and reconstructed at read time") and
// tinymongo's serializers.py, which tags date values the same way.
const dateTypeTag = "datetime"

// EncodeValue recursively walks a decoded document value, replacing
// time.Time scalars with their tagged on-disk form so encoding/json can
// serialize them and DecodeValue can reconstruct them on read.
func EncodeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return map[string]any{"__type": dateTypeTag, "value": t.UTC().Format(time.RFC3339Nano)}
	case doc.Document:
		return EncodeValue(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = EncodeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = EncodeValue(val)
		}
		return out
	default:
		return v
	}
}

// DecodeValue recursively walks a value freshly unmarshaled from disk,
// reconstructing any tagged datetime scalars back into time.Time.
func DecodeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if tag, ok := t["__type"].(string); ok && tag == dateTypeTag && len(t) == 2 {
			if s, ok := t["value"].(string); ok {
				if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
					return parsed
				}
			}
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = DecodeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = DecodeValue(val)
		}
		return out
	default:
		return v
	}
}
