package domain

// CoalesceStr returns the first non-empty string, or "".
func CoalesceStr(vals ...string) string {
	return firstNonZero(vals)
}

// IntFromPtrWithDefault returns the value of the first non-nil pointer, or
// fallback when all are nil.
func IntFromPtrWithDefault(fallback int, ptrs ...*int) int {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

func firstNonZero[T comparable](vals []T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
