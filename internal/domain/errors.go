// Package domain defines core types, interfaces, and errors for dashengine.
package domain

import "fmt"

// DefinitionNotFoundError indicates the requested identifier has no backing
// definition file.
type DefinitionNotFoundError struct {
	Identifier string
	Err        error
}

func (e *DefinitionNotFoundError) Error() string {
	return fmt.Sprintf("query definition %q not found", e.Identifier)
}

func (e *DefinitionNotFoundError) Unwrap() error { return e.Err }

// DefinitionParseError indicates a definition file exists but is not valid
// YAML or is missing a required key. It carries the parse diagnostic.
type DefinitionParseError struct {
	Identifier string
	Err        error
}

func (e *DefinitionParseError) Error() string {
	return fmt.Sprintf("parse query definition %q: %v", e.Identifier, e.Err)
}

func (e *DefinitionParseError) Unwrap() error { return e.Err }

// ClientInitializationError indicates the warehouse client could not be
// constructed (bad credentials or configuration).
type ClientInitializationError struct {
	Err error
}

func (e *ClientInitializationError) Error() string {
	return fmt.Sprintf("initialize warehouse client: %v", e.Err)
}

func (e *ClientInitializationError) Unwrap() error { return e.Err }

// QueryExecutionError indicates the warehouse rejected or failed the
// submitted query. The warehouse's own error detail is attached.
type QueryExecutionError struct {
	Identifier string
	Err        error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("execute query %q: %v", e.Identifier, e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrDefinitionNotFound creates a DefinitionNotFoundError for an identifier.
func ErrDefinitionNotFound(identifier string, err error) *DefinitionNotFoundError {
	return &DefinitionNotFoundError{Identifier: identifier, Err: err}
}

// ErrDefinitionParse creates a DefinitionParseError carrying the diagnostic.
func ErrDefinitionParse(identifier string, err error) *DefinitionParseError {
	return &DefinitionParseError{Identifier: identifier, Err: err}
}

// ErrClientInitialization creates a ClientInitializationError.
func ErrClientInitialization(err error) *ClientInitializationError {
	return &ClientInitializationError{Err: err}
}

// ErrQueryExecution creates a QueryExecutionError for an identifier.
func ErrQueryExecution(identifier string, err error) *QueryExecutionError {
	return &QueryExecutionError{Identifier: identifier, Err: err}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
