package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeNotFound = errors.New("edge not found")
	ErrInvalidID    = errors.New("invalid ID")
	ErrSelfEndpoint = errors.New("edge endpoint does not exist")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op      string // Operation that failed (e.g., "CreateEdge", "DeleteNode")
	Entity  string // Entity type (e.g., "node", "edge")
	ID      uint64 // Entity ID (if applicable)
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// NodeNotFoundError creates a node not found error.
func NodeNotFoundError(op string, nodeID uint64) error {
	return &GraphError{Op: op, Entity: "node", ID: nodeID, Cause: ErrNodeNotFound}
}

// EdgeNotFoundError creates an edge not found error.
func EdgeNotFoundError(op string, edgeID uint64) error {
	return &GraphError{Op: op, Entity: "edge", ID: edgeID, Cause: ErrEdgeNotFound}
}

// EndpointError creates an error for an edge referencing a missing endpoint.
func EndpointError(op string, nodeID uint64) error {
	return &GraphError{Op: op, Entity: "edge", ID: nodeID, Cause: ErrSelfEndpoint, Context: "endpoint"}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) || errors.Is(err, ErrEdgeNotFound)
}
