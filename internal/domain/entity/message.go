package entity

import "time"

type Message struct {
	ID        string    `json:"id" firestore:"id"`
	ChatID    string    `json:"chat_id" firestore:"chatId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Content   string    `json:"content" firestore:"content"`
	Type      string    `json:"type" firestore:"type"` // "text", "image", "system"
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// MessageExchange counts directional traffic between a reviewer and a target.
type MessageExchange struct {
	FromReviewer int
	FromTarget   int
}

// CountExchange tallies messages by sender. Messages from anyone else (system
// messages, group members) are ignored.
func CountExchange(messages []*Message, reviewerUID, targetUID string) MessageExchange {
	var ex MessageExchange
	for _, m := range messages {
		switch m.SenderID {
		case reviewerUID:
			ex.FromReviewer++
		case targetUID:
			ex.FromTarget++
		}
	}
	return ex
}

// Minimum directional counts for review eligibility.
const (
	NormalReviewMinEach = 2
	ReportMinFromTarget = 1
)

// TwoWay reports whether both sides sent at least NormalReviewMinEach.
func (e MessageExchange) TwoWay() bool {
	return e.FromReviewer >= NormalReviewMinEach && e.FromTarget >= NormalReviewMinEach
}

// Inbound reports whether the target wrote to the reviewer at least once.
func (e MessageExchange) Inbound() bool {
	return e.FromTarget >= ReportMinFromTarget
}
