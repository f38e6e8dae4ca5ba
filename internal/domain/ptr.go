package domain

// Ptr returns a pointer to v. Used to fill nullable row fields.
func Ptr[T any](v T) *T {
	return &v
}
