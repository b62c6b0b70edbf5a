package aggregate

import "strconv"

// Merge joins a historical and a predicted table at cutoff: years up to and
// including cutoff come from hist, later years from pred. Labels that are not
// integers are dropped.
func Merge(hist, pred Table, cutoff int) Table {
	out := make(Table, len(hist)+len(pred))
	for y, v := range hist {
		if n, err := strconv.Atoi(y); err == nil && n <= cutoff {
			out[y] = v
		}
	}
	for y, v := range pred {
		if n, err := strconv.Atoi(y); err == nil && n > cutoff {
			out[y] = v
		}
	}
	return out
}

// MergeAll merges per-entity tables over the union of entities.
func MergeAll(hist, pred map[string]Table, cutoff int) map[string]Table {
	out := make(map[string]Table, len(hist))
	for e, t := range hist {
		out[e] = Merge(t, pred[e], cutoff)
	}
	for e, t := range pred {
		if _, done := out[e]; !done {
			out[e] = Merge(nil, t, cutoff)
		}
	}
	return out
}
