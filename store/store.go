// Package store is the boundary to wherever saved assignments live. The
// computations never call it; callers fetch first and hand plain values to
// the capacity and assignment packages.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cyp0633/libcapacity/assignment"
	"github.com/cyp0633/libcapacity/capacity"
)

// Store persists commitments and assignment groups.
type Store interface {
	// CommitmentsFor returns every saved commitment of a responsible party,
	// in the order they were first saved.
	CommitmentsFor(ctx context.Context, responsibleID string) ([]capacity.Commitment, error)
	// Groups returns the saved groups with the given key, in the order they
	// were first saved.
	Groups(ctx context.Context, key assignment.Key) ([]assignment.Group, error)
	// PutCommitment saves c, replacing any commitment with the same ID.
	PutCommitment(ctx context.Context, c capacity.Commitment) error
	// PutGroup saves g, replacing any group with the same ID.
	PutGroup(ctx context.Context, g assignment.Group) error
	// Delete removes the commitment and the group with the given ID.
	// It returns ErrNotFound when neither exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrorType classifies store errors.
type ErrorType string

const (
	ErrNotFound     ErrorType = "not_found"
	ErrInvalidInput ErrorType = "invalid_input"
	ErrUnavailable  ErrorType = "unavailable"
)

// Error is returned by Store implementations.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsType reports whether err is a store *Error of type t.
func IsType(err error, t ErrorType) bool {
	var se *Error
	return errors.As(err, &se) && se.Type == t
}
