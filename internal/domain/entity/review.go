package entity

import (
	"time"
)

type ReviewType string

const (
	ReviewTypeNormal    ReviewType = "normal"
	ReviewTypeEmergency ReviewType = "emergency"
	ReviewTypeReport    ReviewType = "report"
)

// SystemReviewerUID is the reviewer of penalty reviews issued by moderation.
const SystemReviewerUID = "SYSTEM"

// Absolute rating bounds for every review type.
const (
	MinRating = 1
	MaxRating = 10
)

// ParseReviewType maps an empty value to normal.
func ParseReviewType(s string) (ReviewType, bool) {
	switch ReviewType(s) {
	case "", ReviewTypeNormal:
		return ReviewTypeNormal, true
	case ReviewTypeEmergency:
		return ReviewTypeEmergency, true
	case ReviewTypeReport:
		return ReviewTypeReport, true
	}
	return "", false
}

// Review is one reviewer's verdict on a target. A (ReviewerUID, TargetUID)
// pair has at most one review.
type Review struct {
	ID          string     `json:"id" db:"id"`
	ReviewerUID string     `json:"reviewer_uid" db:"reviewer_uid"`
	TargetUID   string     `json:"target_uid" db:"target_uid"`
	Rating      int        `json:"rating" db:"rating"`
	Comment     string     `json:"comment" db:"comment"`
	Type        ReviewType `json:"type" db:"type"`

	FlaggedByKeyword bool `json:"flagged_by_keyword" db:"flagged_by_keyword"`
	// Reserved: nothing sets FlaggedByLLM or PendingHumanReview yet.
	FlaggedByLLM       bool `json:"flagged_by_llm" db:"flagged_by_llm"`
	PendingHumanReview bool `json:"pending_human_review" db:"pending_human_review"`

	Approved     bool      `json:"approved" db:"approved"`
	Rejected     bool      `json:"rejected" db:"rejected"`
	StrikeIssued bool      `json:"strike_issued" db:"strike_issued"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RatingStats summarises the reviews a user has received.
type RatingStats struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}
