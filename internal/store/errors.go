package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every LookupError.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicate is matched by every DuplicateEntityError.
	ErrDuplicate = errors.New("duplicate entity")
	// ErrSelfRelation is returned when a faction is paired with itself.
	ErrSelfRelation = errors.New("faction cannot hold a relation with itself")
)

// LookupError reports a query for an id that is not in the store.
type LookupError struct {
	Kind string
	ID   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateEntityError reports a second registration of the same id.
type DuplicateEntityError struct {
	Kind string
	ID   string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("%s %q already registered", e.Kind, e.ID)
}

// Is reports whether target is ErrDuplicate.
func (e *DuplicateEntityError) Is(target error) bool {
	return target == ErrDuplicate
}
