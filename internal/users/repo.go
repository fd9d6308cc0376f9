package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the query.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a unique constraint (username or email)
	// would be violated.
	ErrDuplicate = errors.New("username or email already registered")
)

// Update carries the mutable user fields; nil means leave unchanged.
type Update struct {
	Username *string
	Email    *string
}

// Repo defines persistence operations for users.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
	Update(ctx context.Context, id string, upd Update) (User, error)
	Delete(ctx context.Context, id string) error
}
