package pointers

// Ptr returns the pointer to the input parameter
func Ptr[T any](v T) *T {
	return &v
}

// NonEmpty maps "" to nil. Provider payloads use empty strings where the
// orders table wants NULL.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
