package ptr

// Ptr возвращает указатель на копию v.
func Ptr[T any](v T) *T {
	return &v
}

// Value разыменовывает p; для nil возвращает нулевое значение.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
