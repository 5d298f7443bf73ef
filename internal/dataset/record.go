package dataset

import "strings"

// Record is one flattened row: field name to scalar or list-of-names value.
type Record map[string]interface{}

// Merge combines two records into a new one; fields of b win on collision.
func Merge(a, b Record) Record {
	merged := make(Record, len(a)+len(b))
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range b {
		merged[k] = v
	}
	return merged
}

// JoinValues collapses a name list into a single table cell. A single
// element stays a bare value with no delimiter.
func JoinValues(values []string) string {
	return strings.Join(values, ", ")
}

// Flatten returns a copy with every list value collapsed via JoinValues,
// ready for tabular storage.
func (r Record) Flatten() Record {
	flat := make(Record, len(r))
	for k, v := range r {
		if list, ok := v.([]string); ok {
			flat[k] = JoinValues(list)
			continue
		}
		flat[k] = v
	}
	return flat
}
