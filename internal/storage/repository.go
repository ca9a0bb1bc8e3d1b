package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrIntegrityViolation wraps constraint failures reported by the database.
	ErrIntegrityViolation = errors.New("integrity violation")
)

// TxCommitter finishes a transaction started by a repository's BeginTx.
// Rollback after Commit is a no-op.
type TxCommitter interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
