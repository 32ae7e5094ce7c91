package usecase

import "time"

// Notifier pushes a realtime event to a connected user. Delivery is best
// effort and must not block.
type Notifier interface {
	Notify(userID, event string, payload interface{})
}

// Realtime event names.
const (
	EventReviewReceived = "review.received"
	EventStrikeIssued   = "strike.issued"
)

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

func utcNow() time.Time {
	return time.Now().UTC()
}
