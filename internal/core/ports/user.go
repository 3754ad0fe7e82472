package ports

import (
	"context"

	"github.com/chatly/user-service/internal/core/domain/user"
	"github.com/google/uuid"
)

// UserRepository defines the interface for the persistent user store.
// Create must rely on the store's unique constraint on email as the
// authoritative duplicate guard and return identity.ErrAlreadyExists when
// it fires; GetByEmail and GetByID return identity.ErrNotFound for misses.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	List(ctx context.Context, limit, offset int) ([]*user.User, error)
}
