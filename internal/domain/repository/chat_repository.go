package repository

import (
	"context"

	"evenapp/internal/domain/entity"
)

// ChatRepository is read-only from the review engine's point of view.
type ChatRepository interface {
	// GetMessagesBetweenUsers returns the messages of the direct thread
	// shared by a and b, oldest first. No thread means no messages.
	GetMessagesBetweenUsers(ctx context.Context, uidA, uidB string) ([]*entity.Message, error)
}
