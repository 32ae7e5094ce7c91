package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekWindow_ResetIfExpired(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := NewWeekWindow("u1", start)
	w.ReviewsUsed = 3

	assert.False(t, w.ResetIfExpired(w.WindowEnd), "window is still current at its end instant")
	assert.Equal(t, 3, w.ReviewsUsed)

	later := w.WindowEnd.Add(time.Second)
	assert.True(t, w.ResetIfExpired(later))
	assert.Equal(t, 0, w.ReviewsUsed)
	assert.Equal(t, later, w.WindowStart)
	assert.Equal(t, later.Add(WeekWindowLength), w.WindowEnd)
}

func TestWeekWindow_Remaining(t *testing.T) {
	w := NewWeekWindow("u1", time.Now())
	assert.Equal(t, 3, w.Remaining())

	w.ReviewsUsed = 2
	assert.Equal(t, 1, w.Remaining())
	assert.False(t, w.Exhausted())

	w.ReviewsUsed = 3
	assert.Equal(t, 0, w.Remaining())
	assert.True(t, w.Exhausted())
}

// The second slot requiring 5+ looks like an upstream copy-paste slip but is
// the observed behaviour, so it is pinned here.
func TestWeekWindow_NextRatingRange_ByPosition(t *testing.T) {
	w := NewWeekWindow("u1", time.Now())

	cases := []struct {
		used   int
		accept []int
		reject []int
	}{
		{used: 0, accept: []int{3, 7, 10}, reject: []int{2, 11}},
		{used: 1, accept: []int{5, 10}, reject: []int{4, 3}},
		{used: 2, accept: []int{3, 10}, reject: []int{2}},
	}

	for _, tc := range cases {
		w.ReviewsUsed = tc.used
		r := w.NextRatingRange()
		for _, rating := range tc.accept {
			assert.True(t, r.Contains(rating), "position %d should accept %d", tc.used, rating)
		}
		for _, rating := range tc.reject {
			assert.False(t, r.Contains(rating), "position %d should reject %d", tc.used, rating)
		}
	}
}

func TestParseReviewType(t *testing.T) {
	typ, ok := ParseReviewType("")
	assert.True(t, ok)
	assert.Equal(t, ReviewTypeNormal, typ)

	typ, ok = ParseReviewType("emergency")
	assert.True(t, ok)
	assert.Equal(t, ReviewTypeEmergency, typ)

	_, ok = ParseReviewType("superlike")
	assert.False(t, ok)
}
