// Package ownership guards access to user-owned resources.
//
// A resource that exists but belongs to somebody else is reported exactly
// like a resource that does not exist.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/agenda-app/server/internal/storage"
)

// Kind names a user-owned resource type.
type Kind string

const (
	KindCalendar  Kind = "calendar"
	KindTaskGroup Kind = "task group"
	KindEvent     Kind = "event"
	KindTask      Kind = "task"
)

// ErrNotFound matches every *NotFoundError through errors.Is.
var ErrNotFound = errors.New("resource not found")

// NotFoundError names the resource kind that was absent or not owned.
type NotFoundError struct {
	Kind Kind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d does not exist or does not belong to the user", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// LookupFunc finds a resource by id restricted to its owner.
type LookupFunc[T any] func(ctx context.Context, id, userID int64) (*T, error)

// Check returns the resource with the given id when it belongs to userID.
func Check[T any](ctx context.Context, kind Kind, id, userID int64, lookup LookupFunc[T]) (*T, error) {
	resource, err := lookup(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Kind: kind, ID: id}
		}
		return nil, fmt.Errorf("lookup %s %d: %w", kind, id, err)
	}
	if resource == nil {
		return nil, &NotFoundError{Kind: kind, ID: id}
	}
	return resource, nil
}
