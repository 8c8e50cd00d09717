package domain

import "fmt"

// ValidationError is a user-facing problem with a single input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
