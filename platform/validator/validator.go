// Package validator wraps go-playground/validator behind a small injectable
// type so handlers and the tool-call dispatcher share one rule set.
package validator

import "github.com/go-playground/validator/v10"

// Validator validates request DTOs and AI tool-call arguments against
// their struct tags.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance.
// Custom rules can be registered using RegisterValidation.
func New() *Validator {
	return &Validator{
		v: validator.New(),
	}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
