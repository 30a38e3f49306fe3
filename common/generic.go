package common

// Contains returns whether `v` is in `slice`.
func Contains[T comparable](slice []T, v T) bool {
	return Index(slice, v) != -1
}

// Index returns the position of the first `v` in `slice`, or -1.
func Index[T comparable](slice []T, v T) int {
	for i := range slice {
		if slice[i] == v {
			return i
		}
	}
	return -1
}

// Without returns a copy of slice with every element matching fn removed.
func Without[T any](slice []T, fn func(T) bool) []T {
	out := make([]T, 0, len(slice))
	for _, v := range slice {
		if !fn(v) {
			out = append(out, v)
		}
	}
	return out
}
