package entity

import "time"

// StrikeTimeoutHours maps strike number to review timeout. Numbers past the
// table carry no timeout.
var StrikeTimeoutHours = map[int]int{
	1: 24,
	2: 72,
	3: 168,
}

const (
	// PenaltyStrikeNumber is the strike that also files a SYSTEM review.
	PenaltyStrikeNumber = 3
	PenaltyRating       = 2
	PenaltyComment      = "Automatic penalty: repeated community guideline violations"

	KeywordViolationReason = "Keyword moderation violation"
)

func TimeoutHoursFor(strikeNumber int) int {
	return StrikeTimeoutHours[strikeNumber]
}

// Strike is an append-only ledger entry.
type Strike struct {
	ID               string    `json:"id" db:"id"`
	UserUID          string    `json:"user_uid" db:"user_uid"`
	Reason           string    `json:"reason" db:"reason"`
	StrikeNumber     int       `json:"strike_number" db:"strike_number"`
	TimeoutHours     int       `json:"timeout_hours" db:"timeout_hours"`
	TimeoutExpiresAt time.Time `json:"timeout_expires_at" db:"timeout_expires_at"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

func NewStrike(uid, reason string, strikeNumber int, now time.Time) *Strike {
	hours := TimeoutHoursFor(strikeNumber)
	return &Strike{
		UserUID:          uid,
		Reason:           reason,
		StrikeNumber:     strikeNumber,
		TimeoutHours:     hours,
		TimeoutExpiresAt: now.Add(time.Duration(hours) * time.Hour),
		CreatedAt:        now,
	}
}

func (s *Strike) Active(now time.Time) bool {
	return s.TimeoutExpiresAt.After(now)
}

// NewPenaltyReview builds the SYSTEM review filed against a user on their
// penalty strike.
func NewPenaltyReview(targetUID string, now time.Time) *Review {
	return &Review{
		ReviewerUID:  SystemReviewerUID,
		TargetUID:    targetUID,
		Rating:       PenaltyRating,
		Comment:      PenaltyComment,
		Type:         ReviewTypeReport,
		Approved:     true,
		StrikeIssued: true,
		CreatedAt:    now,
	}
}

// StrikeSummary is a user's ledger plus whatever timeout is still running.
type StrikeSummary struct {
	Strikes       []*Strike `json:"strikes"`
	ActiveTimeout *Strike   `json:"active_timeout,omitempty"`
}
