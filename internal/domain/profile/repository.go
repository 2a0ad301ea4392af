package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository abstracts profile persistence.
type Repository interface {
	Create(ctx context.Context, p Profile) error
	Get(ctx context.Context, id uuid.UUID) (Profile, bool, error)
	ListByOwner(ctx context.Context, owner string) ([]Profile, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
