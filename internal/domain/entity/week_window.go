package entity

import "time"

const (
	WeeklyReviewLimit = 3
	WeekWindowLength  = 7 * 24 * time.Hour
)

type RatingRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r RatingRange) Contains(rating int) bool {
	return rating >= r.Min && rating <= r.Max
}

// windowRatingRanges is indexed by how many normal reviews the window has
// already used. The second slot is stricter than the first and third; that
// asymmetry is kept deliberately until product confirms otherwise.
var windowRatingRanges = [WeeklyReviewLimit]RatingRange{
	{Min: 3, Max: 10},
	{Min: 5, Max: 10},
	{Min: 3, Max: 10},
}

// WeekWindow is a user's rolling 7-day normal-review allowance. Each user
// has one row that is reset in place when it expires.
type WeekWindow struct {
	UserUID     string    `json:"user_uid" db:"user_uid"`
	WindowStart time.Time `json:"window_start" db:"window_start"`
	WindowEnd   time.Time `json:"window_end" db:"window_end"`
	ReviewsUsed int       `json:"reviews_used" db:"reviews_used"`
}

func NewWeekWindow(uid string, now time.Time) *WeekWindow {
	return &WeekWindow{
		UserUID:     uid,
		WindowStart: now,
		WindowEnd:   now.Add(WeekWindowLength),
	}
}

// Expired is strict: a window is still current at exactly WindowEnd.
func (w *WeekWindow) Expired(now time.Time) bool {
	return now.After(w.WindowEnd)
}

// ResetIfExpired restarts the window at now and reports whether it did.
func (w *WeekWindow) ResetIfExpired(now time.Time) bool {
	if !w.Expired(now) {
		return false
	}
	w.WindowStart = now
	w.WindowEnd = now.Add(WeekWindowLength)
	w.ReviewsUsed = 0
	return true
}

func (w *WeekWindow) Exhausted() bool {
	return w.ReviewsUsed >= WeeklyReviewLimit
}

func (w *WeekWindow) Remaining() int {
	if w.Exhausted() {
		return 0
	}
	return WeeklyReviewLimit - w.ReviewsUsed
}

// NextRatingRange is the range the next normal review must fall in.
// It is only meaningful while the window is not exhausted.
func (w *WeekWindow) NextRatingRange() RatingRange {
	pos := w.ReviewsUsed
	if pos < 0 {
		pos = 0
	}
	if pos >= WeeklyReviewLimit {
		pos = WeeklyReviewLimit - 1
	}
	return windowRatingRanges[pos]
}

// WeekUsage is the read model returned to clients.
type WeekUsage struct {
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}
