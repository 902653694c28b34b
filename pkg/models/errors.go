package models

// ValidationError reports a payload whose shape does not match the expected
// model. It is never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
