package memory

import (
	"context"
	"sort"
	"time"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
	"evenapp/pkg/errors"
)

type reviewRepository struct {
	s *Store
}

func NewReviewRepository(s *Store) repository.ReviewRepository {
	return &reviewRepository{s: s}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.s.write(ctx, func() error {
		key := pairKey{review.ReviewerUID, review.TargetUID}
		if _, exists := r.s.pairs[key]; exists {
			return errors.AlreadyReviewed(nil)
		}
		r.s.reviews[review.ID] = *review
		r.s.pairs[key] = review.ID
		return nil
	})
}

func (r *reviewRepository) GetByPair(ctx context.Context, reviewerUID, targetUID string) (*entity.Review, error) {
	var found *entity.Review
	r.s.read(ctx, func() {
		if id, ok := r.s.pairs[pairKey{reviewerUID, targetUID}]; ok {
			review := r.s.reviews[id]
			found = &review
		}
	})
	return found, nil
}

func (r *reviewRepository) ListByTarget(ctx context.Context, targetUID string, limit, offset int) ([]*entity.Review, int64, error) {
	var matched []*entity.Review
	r.s.read(ctx, func() {
		for _, review := range r.s.reviews {
			if review.TargetUID == targetUID {
				review := review
				matched = append(matched, &review)
			}
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*entity.Review{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *reviewRepository) RatingStats(ctx context.Context, targetUID string) (entity.RatingStats, error) {
	var sum, count int64
	r.s.read(ctx, func() {
		for _, review := range r.s.reviews {
			if review.TargetUID == targetUID {
				sum += int64(review.Rating)
				count++
			}
		}
	})

	stats := entity.RatingStats{Count: count}
	if count > 0 {
		avg := float64(sum) / float64(count)
		stats.Average = &avg
	}
	return stats, nil
}

type weekWindowRepository struct {
	s *Store
}

func NewWeekWindowRepository(s *Store) repository.WeekWindowRepository {
	return &weekWindowRepository{s: s}
}

func (r *weekWindowRepository) Get(ctx context.Context, uid string) (*entity.WeekWindow, error) {
	var found *entity.WeekWindow
	r.s.read(ctx, func() {
		if w, ok := r.s.windows[uid]; ok {
			found = &w
		}
	})
	return found, nil
}

func (r *weekWindowRepository) GetOrCreateForUpdate(ctx context.Context, uid string, now time.Time) (*entity.WeekWindow, error) {
	var window entity.WeekWindow
	err := r.s.write(ctx, func() error {
		w, ok := r.s.windows[uid]
		if !ok {
			w = *entity.NewWeekWindow(uid, now)
			r.s.windows[uid] = w
		}
		window = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *weekWindowRepository) Save(ctx context.Context, window *entity.WeekWindow) error {
	return r.s.write(ctx, func() error {
		if window.ReviewsUsed > entity.WeeklyReviewLimit {
			return errors.WeeklyQuotaExceeded()
		}
		r.s.windows[window.UserUID] = *window
		return nil
	})
}

type strikeRepository struct {
	s *Store
}

func NewStrikeRepository(s *Store) repository.StrikeRepository {
	return &strikeRepository{s: s}
}

func (r *strikeRepository) NextStrikeNumber(ctx context.Context, uid string) (int, error) {
	var n int
	r.s.read(ctx, func() {
		n = len(r.s.strikes[uid]) + 1
	})
	return n, nil
}

func (r *strikeRepository) Create(ctx context.Context, strike *entity.Strike) error {
	return r.s.write(ctx, func() error {
		for _, existing := range r.s.strikes[strike.UserUID] {
			if existing.StrikeNumber == strike.StrikeNumber {
				return errors.Conflict("strike number already issued")
			}
		}
		r.s.strikes[strike.UserUID] = append(r.s.strikes[strike.UserUID], *strike)
		return nil
	})
}

func (r *strikeRepository) ListByUser(ctx context.Context, uid string) ([]*entity.Strike, error) {
	var out []*entity.Strike
	r.s.read(ctx, func() {
		for _, s := range r.s.strikes[uid] {
			s := s
			out = append(out, &s)
		}
	})
	return out, nil
}

type emergencyGrantRepository struct {
	s *Store
}

func NewEmergencyGrantRepository(s *Store) repository.EmergencyGrantRepository {
	return &emergencyGrantRepository{s: s}
}

func (r *emergencyGrantRepository) Get(ctx context.Context, reviewerUID, targetUID string) (*entity.EmergencyGrant, error) {
	var found *entity.EmergencyGrant
	r.s.read(ctx, func() {
		if g, ok := r.s.grants[pairKey{reviewerUID, targetUID}]; ok {
			found = &g
		}
	})
	return found, nil
}

func (r *emergencyGrantRepository) MarkUsed(ctx context.Context, reviewerUID, targetUID, phone string, at time.Time) (*entity.EmergencyGrant, error) {
	var grant entity.EmergencyGrant
	err := r.s.write(ctx, func() error {
		key := pairKey{reviewerUID, targetUID}
		g, ok := r.s.grants[key]
		if !ok {
			g = entity.EmergencyGrant{ReviewerUID: reviewerUID, TargetUID: targetUID, CreatedAt: at}
		}
		if g.Used {
			return errors.EmergencyAlreadyUsed()
		}
		usedAt := at
		g.Used = true
		g.UsedAt = &usedAt
		g.PhoneNumberSnapshot = phone
		r.s.grants[key] = g
		grant = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}
