package slices

// Map returns a new slice created by applying mapFunc to each element of s.
func Map[S ~[]E, E any, V any](s S, mapFunc func(E) V) []V {
	if s == nil {
		return nil
	}
	rv := make([]V, len(s))
	for i, e := range s {
		rv[i] = mapFunc(e)
	}
	return rv
}

// Filter returns a new slice containing only the elements of s for which predicate returns true.
// Ordering is preserved.
func Filter[S ~[]E, E any](s S, predicate func(E) bool) S {
	if s == nil {
		return nil
	}
	rv := make(S, 0, len(s))
	for _, e := range s {
		if predicate(e) {
			rv = append(rv, e)
		}
	}
	return rv
}

// Unique returns a copy of s with duplicate elements removed, keeping only the first occurrence.
func Unique[S ~[]E, E comparable](s S) S {
	if s == nil {
		return nil
	}
	rv := make(S, 0)
	seen := make(map[E]bool)
	for _, v := range s {
		if !seen[v] {
			rv = append(rv, v)
			seen[v] = true
		}
	}
	return rv
}
