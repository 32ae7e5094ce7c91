package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStrike_TimeoutSchedule(t *testing.T) {
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

	cases := map[int]int{1: 24, 2: 72, 3: 168, 4: 0, 9: 0}
	for number, hours := range cases {
		s := NewStrike("u1", KeywordViolationReason, number, now)
		assert.Equal(t, hours, s.TimeoutHours, "strike %d", number)
		assert.Equal(t, now.Add(time.Duration(hours)*time.Hour), s.TimeoutExpiresAt, "strike %d", number)
	}
}

func TestStrike_Active(t *testing.T) {
	now := time.Now()
	s := NewStrike("u1", "spam", 1, now)

	assert.True(t, s.Active(now.Add(23*time.Hour)))
	assert.False(t, s.Active(now.Add(25*time.Hour)))

	fourth := NewStrike("u1", "spam", 4, now)
	assert.False(t, fourth.Active(now))
}

func TestNewPenaltyReview(t *testing.T) {
	r := NewPenaltyReview("offender", time.Now())

	assert.Equal(t, SystemReviewerUID, r.ReviewerUID)
	assert.Equal(t, "offender", r.TargetUID)
	assert.Equal(t, PenaltyRating, r.Rating)
	assert.True(t, r.Approved)
}

func TestCountExchange(t *testing.T) {
	msgs := []*Message{
		{SenderID: "a"}, {SenderID: "b"}, {SenderID: "a"}, {SenderID: "system"},
	}

	ex := CountExchange(msgs, "a", "b")
	assert.Equal(t, 2, ex.FromReviewer)
	assert.Equal(t, 1, ex.FromTarget)
	assert.False(t, ex.TwoWay())
	assert.True(t, ex.Inbound())

	msgs = append(msgs, &Message{SenderID: "b"})
	assert.True(t, CountExchange(msgs, "a", "b").TwoWay())
}

func TestChat_IsBetween(t *testing.T) {
	c := &Chat{Participants: []string{"b", "a"}}
	assert.True(t, c.IsBetween("a", "b"))
	assert.False(t, c.IsBetween("a", "c"))

	group := &Chat{Participants: []string{"a", "b", "c"}}
	assert.False(t, group.IsBetween("a", "b"))
}
