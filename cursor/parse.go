package cursor

import "github.com/relux-works/flatdoc/flatdocerr"

// DirectionFromInt validates a raw direction value (+1 or -1) and converts
// it to a SortDirection. Any other value fails with invalid-argument.
func DirectionFromInt(d int) (SortDirection, error) {
	switch d {
	case 1:
		return Asc, nil
	case -1:
		return Desc, nil
	default:
		return Asc, flatdocerr.Newf(flatdocerr.Invalid, "sort direction must be 1 or -1, got %d", d)
	}
}

// FieldDirection builds a single-key sort spec from a field path plus a
// raw direction argument — accepted sort-specification form (2).
func FieldDirection(field string, direction int) ([]SortSpec, error) {
	dir, err := DirectionFromInt(direction)
	if err != nil {
		return nil, err
	}
	return []SortSpec{{Field: field, Direction: dir}}, nil
}

// FromMapping builds a sort spec from a single-entry {field: direction}
// mapping — accepted sort-specification form (3). Any size other than
// exactly one entry fails with invalid-argument, since a mapping has no
// defined key order to fall back to for multi-key sorts.
func FromMapping(m map[string]int) ([]SortSpec, error) {
	if len(m) != 1 {
		return nil, flatdocerr.Newf(flatdocerr.Invalid, "mapping sort spec must have exactly one entry, got %d", len(m))
	}
	for field, direction := range m {
		return FieldDirection(field, direction)
	}
	panic("unreachable")
}

// FromPairs builds a sort spec from an ordered list of (field, direction)
// pairs — accepted sort-specification form (1), applied left-to-right.
func FromPairs(pairs [][2]any) ([]SortSpec, error) {
	specs := make([]SortSpec, 0, len(pairs))
	for _, pair := range pairs {
		field, ok := pair[0].(string)
		if !ok || field == "" {
			return nil, flatdocerr.New(flatdocerr.Invalid, "sort pair requires a non-empty field path")
		}
		direction, ok := pair[1].(int)
		if !ok {
			return nil, flatdocerr.New(flatdocerr.Invalid, "sort pair requires an integer direction")
		}
		dir, err := DirectionFromInt(direction)
		if err != nil {
			return nil, err
		}
		specs = append(specs, SortSpec{Field: field, Direction: dir})
	}
	return specs, nil
}
