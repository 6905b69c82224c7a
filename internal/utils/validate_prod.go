//go:build !debug_framegraph

package utils

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_framegraph build tag is present
func DebugValidate(validatable Validatable) {
}
