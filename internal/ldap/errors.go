package ldap

import (
	"errors"
	"fmt"
	"strings"
)

// URLComponent identifies the production of an LDAP URL a parse error was raised in.
type URLComponent string

const (
	ComponentScheme     URLComponent = "scheme"
	ComponentHostPort   URLComponent = "hostport"
	ComponentDN         URLComponent = "dn"
	ComponentAttributes URLComponent = "attributes"
	ComponentScope      URLComponent = "scope"
	ComponentFilter     URLComponent = "filter"
	ComponentExtensions URLComponent = "extensions"
	ComponentTrailing   URLComponent = "trailing"
	ComponentUnknown    URLComponent = "unknown"
)

var (
	// ErrEmptyInput is returned by ParseBytes for a nil or empty buffer.
	ErrEmptyInput = errors.New("empty LDAP URL")

	// ErrInvalidDN marks a failure reported by the DN parser.
	ErrInvalidDN = errors.New("invalid DN")

	// ErrInvalidFilter marks a failure reported by the filter compiler.
	ErrInvalidFilter = errors.New("invalid search filter")
)

// EncodingError reports an LDAP URL that does not match the RFC 2255 grammar.
type EncodingError struct {
	Component URLComponent // Production that failed
	Position  int          // Byte offset into the input
	Message   string       // Human-readable message
	Input     string       // Input being parsed (if applicable)
	Cause     error        // Underlying error
}

func (e *EncodingError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("invalid LDAP URL %s at position %d", e.Component, e.Position))

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	if e.Input != "" {
		parts = append(parts, fmt.Sprintf("URL: %s", e.Input))
	}

	return strings.Join(parts, " - ")
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// GetComponent returns the URL component the error was raised in.
func (e *EncodingError) GetComponent() URLComponent {
	return e.Component
}

// DecodingError reports a malformed percent-encoded sequence.
type DecodingError struct {
	Position int // Byte offset of the offending '%' within the decoded segment
	Message  string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("invalid percent-encoding at position %d: %s", e.Position, e.Message)
}

// NewEncodingError creates a new encoding error for the given component.
func NewEncodingError(component URLComponent, position int, message string) *EncodingError {
	return &EncodingError{
		Component: component,
		Position:  position,
		Message:   message,
	}
}

// WrapError attaches component and position context to err. Errors that are
// already an *EncodingError are returned unchanged.
func WrapError(component URLComponent, position int, err error) error {
	if err == nil {
		return nil
	}

	var encErr *EncodingError
	if errors.As(err, &encErr) {
		return encErr
	}

	wrapped := &EncodingError{
		Component: component,
		Position:  position,
		Cause:     err,
	}

	// Decoding positions are relative to the segment being decoded
	var decErr *DecodingError
	if errors.As(err, &decErr) {
		wrapped.Position = position + decErr.Position
	}

	return wrapped
}

// GetErrorComponent returns the URL component an error was raised in.
func GetErrorComponent(err error) URLComponent {
	if err == nil {
		return ComponentUnknown
	}

	var encErr *EncodingError
	if errors.As(err, &encErr) {
		return encErr.GetComponent()
	}

	return ComponentUnknown
}

// IsEncodingError checks if an error was raised by the URL grammar.
func IsEncodingError(err error) bool {
	var encErr *EncodingError
	return errors.As(err, &encErr)
}

// IsDecodingError checks if an error was caused by a malformed percent-encoded sequence.
func IsDecodingError(err error) bool {
	var decErr *DecodingError
	return errors.As(err, &decErr)
}

// IsDelegatedValidationError checks if an error was reported by the DN parser
// or the filter compiler rather than by the URL grammar itself.
func IsDelegatedValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDN) || errors.Is(err, ErrInvalidFilter)
}
