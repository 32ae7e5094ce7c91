package entity

import "time"

type Chat struct {
	ID            string    `json:"id" firestore:"id"`
	Participants  []string  `json:"participants" firestore:"participants"`
	Type          string    `json:"type" firestore:"type"` // "direct", "group"
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
}

// IsBetween reports whether the chat is a thread shared by exactly a and b.
func (c *Chat) IsBetween(a, b string) bool {
	if len(c.Participants) != 2 {
		return false
	}
	p0, p1 := c.Participants[0], c.Participants[1]
	return (p0 == a && p1 == b) || (p0 == b && p1 == a)
}
