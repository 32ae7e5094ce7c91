package memory

import (
	"context"
	"sync"
	"time"

	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
)

// UserDirectory is a seedable identity source.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

var _ repository.UserRepository = (*UserDirectory)(nil)

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[string]entity.User)}
}

func (d *UserDirectory) Put(u entity.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.UID] = u
}

func (d *UserDirectory) GetByUID(ctx context.Context, uid string) (*entity.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[uid]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// ChatLog is a seedable chat source holding one direct thread per pair.
type ChatLog struct {
	mu      sync.RWMutex
	threads map[pairKey][]entity.Message
}

var _ repository.ChatRepository = (*ChatLog)(nil)

func NewChatLog() *ChatLog {
	return &ChatLog{threads: make(map[pairKey][]entity.Message)}
}

func threadKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Send appends n messages from sender to recipient.
func (c *ChatLog) Send(sender, recipient string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := threadKey(sender, recipient)
	for i := 0; i < n; i++ {
		c.threads[key] = append(c.threads[key], entity.Message{
			SenderID:  sender,
			Type:      "text",
			CreatedAt: time.Now(),
		})
	}
}

func (c *ChatLog) GetMessagesBetweenUsers(ctx context.Context, uidA, uidB string) ([]*entity.Message, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	thread := c.threads[threadKey(uidA, uidB)]
	out := make([]*entity.Message, 0, len(thread))
	for i := range thread {
		m := thread[i]
		out = append(out, &m)
	}
	return out, nil
}
