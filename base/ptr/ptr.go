package ptr

// String return a pointer to the input value
func String(value string) *string {
	return &value
}

// Bool return a pointer to the input value
func Bool(value bool) *bool {
	return &value
}

// Int32 return a pointer to the input value
func Int32(value int32) *int32 {
	return &value
}

// Uint64 return a pointer to the input value
func Uint64(value uint64) *uint64 {
	return &value
}

// BoolValue dereferences p, a nil pointer yields fallback
func BoolValue(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

// Int32Value dereferences p, a nil pointer yields fallback
func Int32Value(p *int32, fallback int32) int32 {
	if p == nil {
		return fallback
	}
	return *p
}
