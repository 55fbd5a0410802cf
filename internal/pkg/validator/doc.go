// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface; V10Validator is the
// go-playground/validator implementation with English messages.
package validator

// Validator validates a struct according to its tags.
type Validator interface {
	Validate(data any) error
}
