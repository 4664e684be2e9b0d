package models

// IntPtr returns a pointer to the given integer.
func IntPtr(i int) *int {
	return &i
}

// Float64Ptr returns a pointer to the given float.
// Used for optional sampling parameters where 0 differs from "not set".
func Float64Ptr(f float64) *float64 {
	return &f
}
