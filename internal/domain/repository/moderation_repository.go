package repository

import (
	"context"
	"time"

	"evenapp/internal/domain/entity"
)

type WeekWindowRepository interface {
	// Get returns nil, nil when the user has no window yet.
	Get(ctx context.Context, uid string) (*entity.WeekWindow, error)
	// GetOrCreateForUpdate returns the user's window, inserting a fresh one
	// starting at now if absent, and locks it until the surrounding
	// transaction ends.
	GetOrCreateForUpdate(ctx context.Context, uid string, now time.Time) (*entity.WeekWindow, error)
	Save(ctx context.Context, window *entity.WeekWindow) error
}

type StrikeRepository interface {
	// NextStrikeNumber serialises concurrent strikes for uid within the
	// current transaction and returns count+1.
	NextStrikeNumber(ctx context.Context, uid string) (int, error)
	Create(ctx context.Context, strike *entity.Strike) error
	ListByUser(ctx context.Context, uid string) ([]*entity.Strike, error)
}

type EmergencyGrantRepository interface {
	// Get returns nil, nil when no grant row exists.
	Get(ctx context.Context, reviewerUID, targetUID string) (*entity.EmergencyGrant, error)
	// MarkUsed upserts the grant as used. It fails with
	// errors.EmergencyAlreadyUsed if the grant was already consumed.
	MarkUsed(ctx context.Context, reviewerUID, targetUID, phone string, at time.Time) (*entity.EmergencyGrant, error)
}

// TxManager runs fn in one store transaction. Repositories called with the
// ctx passed to fn join that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
