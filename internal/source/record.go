package source

import (
	"fmt"
	"strings"
)

// RawRecord is one source row after column-role mapping. RawDate holds the
// untyped date cell (string, float64 serial, or nil when the mapping has no
// date column); the caller owns normalization. Email is already trimmed and
// lowercased, which fixes the identity key's case policy at the extraction
// boundary.
type RawRecord struct {
	Row        int
	RawDate    any
	Name       string
	Email      string
	Department string
}

// Mapping assigns roles to source columns.
type Mapping string

const (
	// MappingDated expects {date, name, email, department}.
	MappingDated Mapping = "dated"
	// MappingUndated expects {name, email, department}; the seen date
	// defaults to the day the pipeline runs.
	MappingUndated Mapping = "undated"
	// MappingIgnoreFirst expects {ignored, name, email, department}.
	MappingIgnoreFirst Mapping = "ignore-first"
)

// ParseMapping converts a configuration string into a Mapping.
func ParseMapping(value string) (Mapping, error) {
	switch Mapping(strings.ToLower(strings.TrimSpace(value))) {
	case MappingDated, "":
		return MappingDated, nil
	case MappingUndated:
		return MappingUndated, nil
	case MappingIgnoreFirst:
		return MappingIgnoreFirst, nil
	default:
		return "", fmt.Errorf("unknown column mapping %q (expected dated, undated, or ignore-first)", value)
	}
}

// Columns reports how many columns the mapping requires.
func (m Mapping) Columns() int {
	if m == MappingUndated {
		return 3
	}
	return 4
}

// HasDate reports whether the mapping carries a date column.
func (m Mapping) HasDate() bool {
	return m == MappingDated
}

// apply projects a full-width row onto the mapping's roles. Shape has
// already been validated by the reader.
func (m Mapping) apply(row int, fields []string) RawRecord {
	record := RawRecord{Row: row}
	switch m {
	case MappingUndated:
		record.Name = strings.TrimSpace(fields[0])
		record.Email = normalizeEmail(fields[1])
		record.Department = strings.TrimSpace(fields[2])
	case MappingIgnoreFirst:
		record.Name = strings.TrimSpace(fields[1])
		record.Email = normalizeEmail(fields[2])
		record.Department = strings.TrimSpace(fields[3])
	default:
		record.RawDate = strings.TrimSpace(fields[0])
		record.Name = strings.TrimSpace(fields[1])
		record.Email = normalizeEmail(fields[2])
		record.Department = strings.TrimSpace(fields[3])
	}
	return record
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
