package repository

import (
	"context"

	"evenapp/internal/domain/entity"
)

// UserRepository is the identity provider's read side.
type UserRepository interface {
	// GetByUID returns nil, nil when the uid is unknown.
	GetByUID(ctx context.Context, uid string) (*entity.User, error)
}
