// Package uid generates identifiers used for request correlation and token IDs.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
