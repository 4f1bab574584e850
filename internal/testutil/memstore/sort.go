package memstore

import "sort"

// sortRows orders rows by cmp, NULLs last in both directions, then by id
// in the same direction. cmp reports ok=false when either value is NULL
// and then returns the NULLs-last order directly.
func sortRows[T any](rows []T, desc bool, cmp func(a, b T) (int, bool), id func(T) int64) {
	sort.SliceStable(rows, func(i, j int) bool {
		c, ok := cmp(rows[i], rows[j])
		if ok && desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		t := cmpInt(id(rows[i]), id(rows[j]))
		if desc {
			t = -t
		}
		return t < 0
	})
}

func nullOrder(aNull, bNull bool) int {
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	default:
		return -1
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
