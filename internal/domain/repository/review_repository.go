package repository

import (
	"context"

	"evenapp/internal/domain/entity"
)

type ReviewRepository interface {
	// Create fails with errors.AlreadyReviewed when the pair already has a review.
	Create(ctx context.Context, review *entity.Review) error
	// GetByPair returns nil, nil when the pair has no review.
	GetByPair(ctx context.Context, reviewerUID, targetUID string) (*entity.Review, error)
	ListByTarget(ctx context.Context, targetUID string, limit, offset int) ([]*entity.Review, int64, error)
	RatingStats(ctx context.Context, targetUID string) (entity.RatingStats, error)
}
