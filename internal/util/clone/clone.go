package clone

func TrivialPtr[T any](a *T) *T {
	if a == nil {
		return nil
	}
	b := *a
	return &b
}

func TrivialSlice[T any](a []T) []T {
	if a == nil {
		return nil
	}
	res := make([]T, len(a))
	copy(res, a)
	return res
}
