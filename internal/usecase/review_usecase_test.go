package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evenapp/internal/domain/entity"
	"evenapp/pkg/errors"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, code), "expected %s, got %v", code, err)
}

func TestSubmitReview_NormalHappyPath(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	h.addUser("bob", "")
	h.converse("alice", "bob")

	review, err := h.review.SubmitReview(context.Background(), "alice", normal("bob", 8))
	require.NoError(t, err)

	assert.NotEmpty(t, review.ID)
	assert.True(t, review.Approved)
	assert.Equal(t, entity.ReviewTypeNormal, review.Type)
	assert.Equal(t, h.clock.Now(), review.CreatedAt)

	usage, err := h.review.GetWeeklyUsage(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.WeekUsage{Used: 1, Remaining: 2}, usage)

	events := h.notifier.For("bob")
	require.Len(t, events, 1)
	assert.Equal(t, EventReviewReceived, events[0].event)
}

func TestSubmitReview_DefaultsToNormal(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	h.addUser("bob", "")

	_, err := h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "bob", Rating: 8})
	assertCode(t, err, errors.CodeInsufficientMessageHistory)
}

func TestSubmitReview_SelfReview(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "+15550001111")

	for _, typ := range []entity.ReviewType{entity.ReviewTypeNormal, entity.ReviewTypeEmergency, entity.ReviewTypeReport} {
		_, err := h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "alice", Rating: 5, Type: typ})
		assertCode(t, err, errors.CodeSelfReview)
	}
}

func TestSubmitReview_UserNotFound(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")

	_, err := h.review.SubmitReview(context.Background(), "alice", normal("ghost", 5))
	assertCode(t, err, errors.CodeUserNotFound)

	_, err = h.review.SubmitReview(context.Background(), "ghost", normal("alice", 5))
	assertCode(t, err, errors.CodeUserNotFound)
}

func TestSubmitReview_AlreadyReviewedAnyType(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "+15550001111")
	h.addUser("bob", "")
	h.converse("alice", "bob")

	_, err := h.review.SubmitReview(context.Background(), "alice", normal("bob", 8))
	require.NoError(t, err)

	for _, in := range []SubmitReviewInput{
		normal("bob", 9),
		{TargetUID: "bob", Rating: 3, Type: entity.ReviewTypeReport},
		{TargetUID: "bob", Rating: 3, Type: entity.ReviewTypeEmergency},
	} {
		_, err := h.review.SubmitReview(context.Background(), "alice", in)
		assertCode(t, err, errors.CodeAlreadyReviewed)
	}

	// The reverse direction is a different pair.
	_, err = h.review.SubmitReview(context.Background(), "bob", normal("alice", 7))
	assert.NoError(t, err)
}

func TestSubmitReview_MessageHistoryByType(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "+15550001111")
	h.addUser("bob", "")
	h.addUser("carol", "")
	h.addUser("dave", "")

	// No messages at all.
	_, err := h.review.SubmitReview(context.Background(), "alice", normal("bob", 8))
	assertCode(t, err, errors.CodeInsufficientMessageHistory)
	_, err = h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "bob", Rating: 2, Type: entity.ReviewTypeReport})
	assertCode(t, err, errors.CodeInsufficientMessageHistory)

	// Emergency ignores message history.
	_, err = h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "bob", Rating: 1, Type: entity.ReviewTypeEmergency})
	assert.NoError(t, err)

	// One inbound message is enough for a report, not for a normal review.
	h.chats.Send("carol", "alice", 1)
	_, err = h.review.SubmitReview(context.Background(), "alice", normal("carol", 8))
	assertCode(t, err, errors.CodeInsufficientMessageHistory)
	_, err = h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "carol", Rating: 2, Type: entity.ReviewTypeReport})
	assert.NoError(t, err)

	// Outbound-only traffic does not allow a report.
	h.chats.Send("alice", "dave", 5)
	_, err = h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "dave", Rating: 2, Type: entity.ReviewTypeReport})
	assertCode(t, err, errors.CodeInsufficientMessageHistory)

	// Two each way unlocks a normal review; one short on either side does not.
	h.chats.Send("dave", "alice", 1)
	_, err = h.review.SubmitReview(context.Background(), "alice", normal("dave", 8))
	assertCode(t, err, errors.CodeInsufficientMessageHistory)
	h.chats.Send("dave", "alice", 1)
	_, err = h.review.SubmitReview(context.Background(), "alice", normal("dave", 8))
	assert.NoError(t, err)
}

func TestSubmitReview_WeeklyQuota(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	targets := []string{"t1", "t2", "t3", "t4", "t5"}
	for _, uid := range targets {
		h.addUser(uid, "")
		h.converse("alice", uid)
	}

	for _, uid := range targets[:3] {
		_, err := h.review.SubmitReview(context.Background(), "alice", normal(uid, 7))
		require.NoError(t, err)
	}

	_, err := h.review.SubmitReview(context.Background(), "alice", normal("t4", 7))
	assertCode(t, err, errors.CodeWeeklyQuotaExceeded)

	usage, err := h.quota.GetUsage(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.WeekUsage{Used: 3, Remaining: 0}, usage)

	// Still inside the window at exactly windowEnd.
	h.clock.Advance(entity.WeekWindowLength)
	_, err = h.review.SubmitReview(context.Background(), "alice", normal("t4", 7))
	assertCode(t, err, errors.CodeWeeklyQuotaExceeded)

	h.clock.Advance(time.Second)
	_, err = h.review.SubmitReview(context.Background(), "alice", normal("t4", 7))
	require.NoError(t, err)

	window, err := h.windows.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, window.ReviewsUsed)
	assert.Equal(t, h.clock.Now(), window.WindowStart)
	assert.Equal(t, h.clock.Now().Add(entity.WeekWindowLength), window.WindowEnd)
}

func TestSubmitReview_QuotaOnlyCountsNormalReviews(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "+15550001111")
	h.addUser("bob", "")
	h.addUser("carol", "")
	h.chats.Send("carol", "alice", 1)

	_, err := h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "bob", Rating: 1, Type: entity.ReviewTypeEmergency})
	require.NoError(t, err)
	_, err = h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "carol", Rating: 1, Type: entity.ReviewTypeReport})
	require.NoError(t, err)

	window, err := h.windows.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, window)
}

// The second slot of a window has a higher floor than the first and third.
// This mirrors existing product behaviour and may be revisited.
func TestSubmitReview_RatingFloorByPosition(t *testing.T) {
	tests := []struct {
		position int
		rating   int
		wantErr  bool
	}{
		{0, 2, true},
		{0, 3, false},
		{0, 10, false},
		{1, 4, true},
		{1, 5, false},
		{2, 2, true},
		{2, 3, false},
		{0, 11, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("position %d rating %d", tt.position, tt.rating), func(t *testing.T) {
			h := newHarness(t)
			h.addUser("alice", "")
			for i := 0; i <= tt.position; i++ {
				uid := fmt.Sprintf("t%d", i)
				h.addUser(uid, "")
				h.converse("alice", uid)
			}
			for i := 0; i < tt.position; i++ {
				_, err := h.review.SubmitReview(context.Background(), "alice", normal(fmt.Sprintf("t%d", i), 9))
				require.NoError(t, err)
			}

			_, err := h.review.SubmitReview(context.Background(), "alice", normal(fmt.Sprintf("t%d", tt.position), tt.rating))
			if tt.wantErr {
				assertCode(t, err, errors.CodeRatingOutOfRange)
				usage, _ := h.quota.GetUsage(context.Background(), "alice")
				assert.Equal(t, tt.position, usage.Used)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSubmitReview_RatingBoundsForOtherTypes(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "+15550001111")
	h.addUser("bob", "")

	for _, rating := range []int{0, 11} {
		_, err := h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "bob", Rating: rating, Type: entity.ReviewTypeEmergency})
		assertCode(t, err, errors.CodeRatingOutOfRange)
	}

	grant, err := h.grants.GetGrant(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Nil(t, grant)
}

func TestSubmitReview_FlaggedContentIssuesStrike(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	h.addUser("bob", "")
	h.converse("alice", "bob")

	in := normal("bob", 8)
	in.Comment = "What a SHITty experience"
	_, err := h.review.SubmitReview(context.Background(), "alice", in)
	assertCode(t, err, errors.CodeContentFlagged)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 1, appErr.Details["strikeNumber"])

	existing, err := h.reviews.GetByPair(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Nil(t, existing)

	usage, err := h.quota.GetUsage(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Used)

	summary, err := h.strikes.ListStrikes(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, summary.Strikes, 1)
	assert.Equal(t, entity.KeywordViolationReason, summary.Strikes[0].Reason)
	assert.Equal(t, 24, summary.Strikes[0].TimeoutHours)

	// A clean retry is accepted.
	in.Comment = "Great trade, fast reply"
	_, err = h.review.SubmitReview(context.Background(), "alice", in)
	assert.NoError(t, err)
}

func TestSubmitReview_EarlierGatesWinOverModeration(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	h.addUser("bob", "")

	in := normal("bob", 8)
	in.Comment = "kys"
	_, err := h.review.SubmitReview(context.Background(), "alice", in)
	assertCode(t, err, errors.CodeInsufficientMessageHistory)

	summary, err := h.strikes.ListStrikes(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, summary.Strikes)
}

func TestSubmitReview_ThirdFlagFilesPenaltyReview(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	h.addUser("bob", "")
	h.addUser("carol", "")
	h.converse("alice", "bob")
	h.converse("carol", "alice")

	_, err := h.review.SubmitReview(context.Background(), "carol", normal("alice", 9))
	require.NoError(t, err)

	in := normal("bob", 8)
	in.Comment = "you bitch"
	for want := 1; want <= 3; want++ {
		_, err := h.review.SubmitReview(context.Background(), "alice", in)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, want, appErr.Details["strikeNumber"])
	}

	penalty, err := h.reviews.GetByPair(context.Background(), entity.SystemReviewerUID, "alice")
	require.NoError(t, err)
	require.NotNil(t, penalty)
	assert.Equal(t, entity.PenaltyRating, penalty.Rating)
	assert.True(t, penalty.Approved)

	// The review alice received from carol is untouched.
	fromCarol, err := h.reviews.GetByPair(context.Background(), "carol", "alice")
	require.NoError(t, err)
	require.NotNil(t, fromCarol)
	assert.Equal(t, 9, fromCarol.Rating)

	stats, err := h.review.GetAverageRating(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	require.NotNil(t, stats.Average)
	assert.Equal(t, 5.5, *stats.Average)
}

func TestSubmitReview_Emergency(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "+15550001111")
	h.addUser("bob", "")

	in := SubmitReviewInput{TargetUID: "bob", Rating: 1, Type: entity.ReviewTypeEmergency, PhoneNumberSnapshot: "+19999999999"}
	review, err := h.review.SubmitReview(context.Background(), "alice", in)
	require.NoError(t, err)
	assert.Equal(t, entity.ReviewTypeEmergency, review.Type)

	grant, err := h.grants.GetGrant(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.True(t, grant.Used)
	assert.Equal(t, "+15550001111", grant.PhoneNumberSnapshot)
	require.NotNil(t, grant.UsedAt)
	assert.Equal(t, h.clock.Now(), *grant.UsedAt)

	h.clock.Advance(365 * 24 * time.Hour)
	_, err = h.review.SubmitReview(context.Background(), "alice", in)
	assertCode(t, err, errors.CodeEmergencyAlreadyUsed)
}

func TestSubmitReview_EmergencyRequiresPhone(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	h.addUser("bob", "")

	_, err := h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "bob", Rating: 1, Type: entity.ReviewTypeEmergency})
	assertCode(t, err, errors.CodePhoneRequired)

	// The grant stays available after the failed attempt.
	status, err := h.grants.GetStatus(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.True(t, status.Available)

	h.addUser("alice", "+15550001111")
	_, err = h.review.SubmitReview(context.Background(), "alice", SubmitReviewInput{TargetUID: "bob", Rating: 1, Type: entity.ReviewTypeEmergency})
	assert.NoError(t, err)
}

func TestSubmitReview_ConcurrentSamePair(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	h.addUser("bob", "")
	h.converse("alice", "bob")

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.review.SubmitReview(context.Background(), "alice", normal("bob", 7))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	accepted := 0
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		assert.True(t, errors.Is(err, errors.CodeAlreadyReviewed), "unexpected error %v", err)
	}
	assert.Equal(t, 1, accepted)

	usage, err := h.quota.GetUsage(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, usage.Used)
}

func TestSubmitReview_ConcurrentQuota(t *testing.T) {
	h := newHarness(t)
	h.addUser("alice", "")
	for i := 0; i < 10; i++ {
		uid := fmt.Sprintf("t%d", i)
		h.addUser(uid, "")
		h.converse("alice", uid)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.review.SubmitReview(context.Background(), "alice", normal(fmt.Sprintf("t%d", i), 9))
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, entity.WeeklyReviewLimit, accepted)
}

func TestListReviewsForUser_NewestFirst(t *testing.T) {
	h := newHarness(t)
	h.addUser("bob", "")
	for i := 0; i < 3; i++ {
		uid := fmt.Sprintf("r%d", i)
		h.addUser(uid, "")
		h.converse(uid, "bob")
		_, err := h.review.SubmitReview(context.Background(), uid, normal("bob", 6+i))
		require.NoError(t, err)
		h.clock.Advance(time.Minute)
	}

	reviews, total, err := h.review.ListReviewsForUser(context.Background(), "bob", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, reviews, 2)
	assert.Equal(t, "r2", reviews[0].ReviewerUID)
	assert.Equal(t, "r1", reviews[1].ReviewerUID)

	reviews, _, err = h.review.ListReviewsForUser(context.Background(), "bob", 2, 2)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "r0", reviews[0].ReviewerUID)
}

func TestGetAverageRating(t *testing.T) {
	h := newHarness(t)
	h.addUser("bob", "")

	stats, err := h.review.GetAverageRating(context.Background(), "bob")
	require.NoError(t, err)
	assert.Nil(t, stats.Average)
	assert.Equal(t, int64(0), stats.Count)

	for i, rating := range []int{7, 8, 8} {
		uid := fmt.Sprintf("r%d", i)
		h.addUser(uid, "")
		h.converse(uid, "bob")
		_, err := h.review.SubmitReview(context.Background(), uid, normal("bob", rating))
		require.NoError(t, err)
	}

	stats, err = h.review.GetAverageRating(context.Background(), "bob")
	require.NoError(t, err)
	require.NotNil(t, stats.Average)
	assert.Equal(t, 7.7, *stats.Average)
	assert.Equal(t, int64(3), stats.Count)
}
