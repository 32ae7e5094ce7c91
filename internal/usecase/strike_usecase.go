package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
	"evenapp/pkg/logger"
)

type StrikeUseCase struct {
	strikeRepo repository.StrikeRepository
	reviewRepo repository.ReviewRepository
	txManager  repository.TxManager
	notifier   Notifier
	now        func() time.Time
}

func NewStrikeUseCase(
	strikeRepo repository.StrikeRepository,
	reviewRepo repository.ReviewRepository,
	txManager repository.TxManager,
	notifier Notifier,
) *StrikeUseCase {
	return &StrikeUseCase{
		strikeRepo: strikeRepo,
		reviewRepo: reviewRepo,
		txManager:  txManager,
		notifier:   notifierOrNop(notifier),
		now:        utcNow,
	}
}

// IssueStrike appends the next strike for uid and returns its number. The
// penalty strike also files a SYSTEM review against uid in the same
// transaction.
func (uc *StrikeUseCase) IssueStrike(ctx context.Context, uid, reason string) (int, error) {
	now := uc.now()
	var strike *entity.Strike

	err := uc.txManager.RunInTx(ctx, func(ctx context.Context) error {
		number, err := uc.strikeRepo.NextStrikeNumber(ctx, uid)
		if err != nil {
			return err
		}

		strike = entity.NewStrike(uid, reason, number, now)
		strike.ID = uuid.New().String()
		if err := uc.strikeRepo.Create(ctx, strike); err != nil {
			return err
		}

		if number != entity.PenaltyStrikeNumber {
			return nil
		}
		return uc.filePenaltyReview(ctx, uid, now)
	})
	if err != nil {
		return 0, err
	}

	logger.WithFields(logger.Fields{
		"uid":           uid,
		"strike_number": strike.StrikeNumber,
		"timeout_hours": strike.TimeoutHours,
		"reason":        reason,
	}).Warn("strike issued")

	uc.notifier.Notify(uid, EventStrikeIssued, strike)

	return strike.StrikeNumber, nil
}

func (uc *StrikeUseCase) filePenaltyReview(ctx context.Context, uid string, now time.Time) error {
	// Strike numbers are serialised per user, so this check cannot race.
	existing, err := uc.reviewRepo.GetByPair(ctx, entity.SystemReviewerUID, uid)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Warn("penalty review for %s already exists, skipping", uid)
		return nil
	}

	penalty := entity.NewPenaltyReview(uid, now)
	penalty.ID = uuid.New().String()
	return uc.reviewRepo.Create(ctx, penalty)
}

// ListStrikes returns the ledger oldest first, with the latest running
// timeout if any.
func (uc *StrikeUseCase) ListStrikes(ctx context.Context, uid string) (*entity.StrikeSummary, error) {
	strikes, err := uc.strikeRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if strikes == nil {
		strikes = []*entity.Strike{}
	}

	summary := &entity.StrikeSummary{Strikes: strikes}
	now := uc.now()
	for i := len(strikes) - 1; i >= 0; i-- {
		if strikes[i].Active(now) {
			summary.ActiveTimeout = strikes[i]
			break
		}
	}

	return summary, nil
}
