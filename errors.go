package tinyrisks

// ValidationError reports client input that failed validation. The HTTP
// error handler maps it to a 400 response carrying the message verbatim,
// so messages here are part of the API contract.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
