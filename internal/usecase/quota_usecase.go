package usecase

import (
	"context"
	"time"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
)

type WeeklyQuotaUseCase struct {
	windowRepo repository.WeekWindowRepository
	now        func() time.Time
}

func NewWeeklyQuotaUseCase(windowRepo repository.WeekWindowRepository) *WeeklyQuotaUseCase {
	return &WeeklyQuotaUseCase{
		windowRepo: windowRepo,
		now:        utcNow,
	}
}

// GetOrCreateWindow returns the user's current window, creating it on first
// use and resetting it in place once expired. Inside a transaction the row
// stays locked until commit.
func (uc *WeeklyQuotaUseCase) GetOrCreateWindow(ctx context.Context, uid string) (*entity.WeekWindow, error) {
	now := uc.now()

	window, err := uc.windowRepo.GetOrCreateForUpdate(ctx, uid, now)
	if err != nil {
		return nil, err
	}

	if window.ResetIfExpired(now) {
		if err := uc.windowRepo.Save(ctx, window); err != nil {
			return nil, err
		}
	}

	return window, nil
}

// RecordUse consumes one slot of a window obtained from GetOrCreateWindow.
func (uc *WeeklyQuotaUseCase) RecordUse(ctx context.Context, window *entity.WeekWindow) error {
	window.ReviewsUsed++
	return uc.windowRepo.Save(ctx, window)
}

// GetUsage never writes. A missing or expired window reports a full quota.
func (uc *WeeklyQuotaUseCase) GetUsage(ctx context.Context, uid string) (entity.WeekUsage, error) {
	window, err := uc.windowRepo.Get(ctx, uid)
	if err != nil {
		return entity.WeekUsage{}, err
	}

	if window == nil || window.Expired(uc.now()) {
		return entity.WeekUsage{Used: 0, Remaining: entity.WeeklyReviewLimit}, nil
	}

	return entity.WeekUsage{
		Used:      window.ReviewsUsed,
		Remaining: window.Remaining(),
	}, nil
}
