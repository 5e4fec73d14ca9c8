package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeLLM represents LLM analysis errors
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeIngest represents thread parsing errors
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when the Neo4j store is
// unreachable or authentication fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph statement fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrNodeNotFound is returned when a relationship references an
// identifier that does not resolve to a node in the store
type ErrNodeNotFound struct {
	*BaseError
	NodeID string
}

func NewNodeNotFound(nodeID string) *ErrNodeNotFound {
	return &ErrNodeNotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("node not found: %s", nodeID), nil),
		NodeID:    nodeID,
	}
}

// ErrUnknownRelationship is returned when a relationship type outside
// the schema vocabulary is requested
type ErrUnknownRelationship struct {
	*BaseError
	RelType string
}

func NewUnknownRelationship(relType string) *ErrUnknownRelationship {
	return &ErrUnknownRelationship{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("unknown relationship type: %s", relType), nil),
		RelType:   relType,
	}
}

// ErrRelationshipProperty is returned when a relationship property key
// outside the fixed schema for its type is supplied
type ErrRelationshipProperty struct {
	*BaseError
	RelType string
	Key     string
}

func NewRelationshipProperty(relType, key string) *ErrRelationshipProperty {
	return &ErrRelationshipProperty{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("property %q not allowed on relationship %s", key, relType), nil),
		RelType:   relType,
		Key:       key,
	}
}

// LLM Errors

// ErrLLMRequestFailed is returned when an LLM analysis request fails
type ErrLLMRequestFailed struct {
	*BaseError
	Model string
	Task  string
}

func NewLLMRequestFailed(model, task string, err error) *ErrLLMRequestFailed {
	return &ErrLLMRequestFailed{
		BaseError: NewBaseError(ErrorTypeLLM, fmt.Sprintf("LLM request failed: %s", task), err),
		Model:     model,
		Task:      task,
	}
}

// Ingest Errors

// ErrThreadLoadFailed is returned when a thread file cannot be read or
// decoded
type ErrThreadLoadFailed struct {
	*BaseError
	Path string
}

func NewThreadLoadFailed(path string, err error) *ErrThreadLoadFailed {
	return &ErrThreadLoadFailed{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("failed to load thread: %s", path), err),
		Path:      path,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	if wrapper, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapper.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}
