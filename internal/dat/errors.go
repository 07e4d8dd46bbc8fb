package dat

import "fmt"

// ParseError reports a descriptor that is well-formed JSON but does not
// carry a required key, or carries a key of the wrong type.
type ParseError struct {
	File    string // source filename, may be empty
	Key     string
	Message string // e.g. `Missing key "uid"`
	Cause   error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = fmt.Sprintf("%s: %s", e.File, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("dat parse error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("dat parse error: %s", msg)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func missingKey(key string) *ParseError {
	return &ParseError{Key: key, Message: fmt.Sprintf("Missing key %q", key)}
}

func invalidKey(key string) *ParseError {
	return &ParseError{Key: key, Message: fmt.Sprintf("Invalid key %q", key)}
}

func malformedKey(key string, cause error) *ParseError {
	return &ParseError{Key: key, Message: fmt.Sprintf("Malformed key %q", key), Cause: cause}
}

// SyntaxError reports a descriptor that could not be decoded as a JSON object.
type SyntaxError struct {
	File    string
	Message string
	Cause   error
}

func (e *SyntaxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to decode %s: %s: %v", e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to decode %s: %s", e.File, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}
