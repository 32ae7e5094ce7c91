package usecase

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
	"evenapp/internal/domain/service"
	"evenapp/pkg/errors"
	"evenapp/pkg/logger"
)

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	chatRepo   repository.ChatRepository
	txManager  repository.TxManager
	quota      *WeeklyQuotaUseCase
	strikes    *StrikeUseCase
	grants     *EmergencyGrantUseCase
	filter     *service.ContentFilter
	notifier   Notifier
	now        func() time.Time
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	chatRepo repository.ChatRepository,
	txManager repository.TxManager,
	quota *WeeklyQuotaUseCase,
	strikes *StrikeUseCase,
	grants *EmergencyGrantUseCase,
	filter *service.ContentFilter,
	notifier Notifier,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		chatRepo:   chatRepo,
		txManager:  txManager,
		quota:      quota,
		strikes:    strikes,
		grants:     grants,
		filter:     filter,
		notifier:   notifierOrNop(notifier),
		now:        utcNow,
	}
}

type SubmitReviewInput struct {
	TargetUID string
	Rating    int
	Comment   string
	Type      entity.ReviewType
	// PhoneNumberSnapshot is what the client believes the reviewer's phone
	// is. The stored snapshot always comes from the identity provider.
	PhoneNumberSnapshot string
}

// SubmitReview runs the eligibility checks in order and stops at the first
// failure. Nothing is written unless every check passes, except for
// flagged content, which rolls back the review and issues a strike instead.
func (uc *ReviewUseCase) SubmitReview(ctx context.Context, reviewerUID string, input SubmitReviewInput) (*entity.Review, error) {
	if input.Type == "" {
		input.Type = entity.ReviewTypeNormal
	}

	if reviewerUID == input.TargetUID {
		return nil, errors.SelfReview()
	}

	reviewer, err := uc.userRepo.GetByUID(ctx, reviewerUID)
	if err != nil {
		return nil, err
	}
	if reviewer == nil {
		return nil, errors.UserNotFound(reviewerUID)
	}

	target, err := uc.userRepo.GetByUID(ctx, input.TargetUID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors.UserNotFound(input.TargetUID)
	}

	existing, err := uc.reviewRepo.GetByPair(ctx, reviewerUID, input.TargetUID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// An earlier emergency review is the consumed grant itself.
		if input.Type == entity.ReviewTypeEmergency && existing.Type == entity.ReviewTypeEmergency {
			return nil, errors.EmergencyAlreadyUsed()
		}
		return nil, errors.AlreadyReviewed(nil)
	}

	if err := uc.checkTypeEligibility(ctx, reviewer, input); err != nil {
		return nil, err
	}

	if input.Type != entity.ReviewTypeNormal && (input.Rating < entity.MinRating || input.Rating > entity.MaxRating) {
		return nil, errors.RatingOutOfRange(entity.MinRating, entity.MaxRating)
	}

	flagged := uc.filter.IsFlagged(input.Comment)

	review := &entity.Review{
		ID:          uuid.New().String(),
		ReviewerUID: reviewerUID,
		TargetUID:   input.TargetUID,
		Rating:      input.Rating,
		Comment:     input.Comment,
		Type:        input.Type,
		Approved:    true,
		CreatedAt:   uc.now(),
	}

	err = uc.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var window *entity.WeekWindow
		if input.Type == entity.ReviewTypeNormal {
			w, err := uc.quota.GetOrCreateWindow(ctx, reviewerUID)
			if err != nil {
				return err
			}
			window = w
			if window.Exhausted() {
				return errors.WeeklyQuotaExceeded()
			}
			if r := window.NextRatingRange(); !r.Contains(input.Rating) {
				return errors.RatingOutOfRange(r.Min, r.Max)
			}
		}

		if flagged {
			// Strike number is filled in after rollback.
			return errors.ContentFlagged(0)
		}

		if err := uc.reviewRepo.Create(ctx, review); err != nil {
			return err
		}

		if window != nil {
			if err := uc.quota.RecordUse(ctx, window); err != nil {
				return err
			}
		}

		if input.Type == entity.ReviewTypeEmergency {
			if _, err := uc.grants.MarkUsed(ctx, reviewerUID, input.TargetUID, reviewer.Phone); err != nil {
				return err
			}
		}
		return nil
	})

	if errors.Is(err, errors.CodeContentFlagged) {
		return nil, uc.rejectFlagged(ctx, reviewerUID, input.TargetUID)
	}
	if err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"review_id": review.ID,
		"reviewer":  reviewerUID,
		"target":    input.TargetUID,
		"type":      review.Type,
		"rating":    review.Rating,
	}).Info("review accepted")

	uc.notifier.Notify(input.TargetUID, EventReviewReceived, review)

	return review, nil
}

func (uc *ReviewUseCase) checkTypeEligibility(ctx context.Context, reviewer *entity.User, input SubmitReviewInput) error {
	if input.Type == entity.ReviewTypeEmergency {
		grant, err := uc.grants.GetGrant(ctx, reviewer.UID, input.TargetUID)
		if err != nil {
			return err
		}
		if grant != nil && grant.Used {
			return errors.EmergencyAlreadyUsed()
		}
		if !reviewer.HasVerifiedPhone() {
			return errors.PhoneRequired()
		}
		return nil
	}

	messages, err := uc.chatRepo.GetMessagesBetweenUsers(ctx, reviewer.UID, input.TargetUID)
	if err != nil {
		return err
	}
	exchange := entity.CountExchange(messages, reviewer.UID, input.TargetUID)

	if input.Type == entity.ReviewTypeReport {
		if !exchange.Inbound() {
			return errors.InsufficientMessageHistory("You can only report someone who has messaged you")
		}
		return nil
	}

	if !exchange.TwoWay() {
		return errors.InsufficientMessageHistory("You need at least 2 messages each way before reviewing this user")
	}
	return nil
}

func (uc *ReviewUseCase) rejectFlagged(ctx context.Context, reviewerUID, targetUID string) error {
	number, err := uc.strikes.IssueStrike(ctx, reviewerUID, entity.KeywordViolationReason)
	if err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"reviewer":      reviewerUID,
		"target":        targetUID,
		"strike_number": number,
	}).Warn("review rejected by keyword moderation")

	return errors.ContentFlagged(number)
}

// ListReviewsForUser returns reviews received by uid, newest first.
func (uc *ReviewUseCase) ListReviewsForUser(ctx context.Context, uid string, page, limit int) ([]*entity.Review, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return uc.reviewRepo.ListByTarget(ctx, uid, limit, offset)
}

// GetAverageRating rounds to one decimal; Average is nil without reviews.
func (uc *ReviewUseCase) GetAverageRating(ctx context.Context, uid string) (entity.RatingStats, error) {
	stats, err := uc.reviewRepo.RatingStats(ctx, uid)
	if err != nil {
		return entity.RatingStats{}, err
	}
	if stats.Count == 0 || stats.Average == nil {
		return entity.RatingStats{Count: stats.Count}, nil
	}

	rounded := math.Round(*stats.Average*10) / 10
	stats.Average = &rounded
	return stats, nil
}

func (uc *ReviewUseCase) GetWeeklyUsage(ctx context.Context, uid string) (entity.WeekUsage, error) {
	return uc.quota.GetUsage(ctx, uid)
}
