package usecase

import (
	"sync"
	"testing"
	"time"

	"evenapp/internal/adapter/repository/memory"
	"evenapp/internal/domain/entity"
	"evenapp/internal/domain/repository"
	"evenapp/internal/domain/service"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type sentEvent struct {
	userID  string
	event   string
	payload interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(userID, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{userID, event, payload})
}

func (n *recordingNotifier) For(userID string) []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEvent
	for _, e := range n.events {
		if e.userID == userID {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	clock    *fakeClock
	users    *memory.UserDirectory
	chats    *memory.ChatLog
	reviews  repository.ReviewRepository
	windows  repository.WeekWindowRepository
	notifier *recordingNotifier

	quota   *WeeklyQuotaUseCase
	strikes *StrikeUseCase
	grants  *EmergencyGrantUseCase
	review  *ReviewUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	h := &harness{
		clock:    &fakeClock{t: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)},
		users:    memory.NewUserDirectory(),
		chats:    memory.NewChatLog(),
		reviews:  memory.NewReviewRepository(store),
		windows:  memory.NewWeekWindowRepository(store),
		notifier: &recordingNotifier{},
	}

	h.quota = NewWeeklyQuotaUseCase(h.windows)
	h.strikes = NewStrikeUseCase(memory.NewStrikeRepository(store), h.reviews, store, h.notifier)
	h.grants = NewEmergencyGrantUseCase(memory.NewEmergencyGrantRepository(store))
	h.review = NewReviewUseCase(
		h.reviews, h.users, h.chats, store,
		h.quota, h.strikes, h.grants,
		service.NewContentFilter(nil),
		h.notifier,
	)

	h.quota.now = h.clock.Now
	h.strikes.now = h.clock.Now
	h.grants.now = h.clock.Now
	h.review.now = h.clock.Now

	return h
}

func (h *harness) addUser(uid, phone string) {
	h.users.Put(entity.User{UID: uid, Phone: phone})
}

// converse seeds a two-way exchange that satisfies normal reviews.
func (h *harness) converse(a, b string) {
	h.chats.Send(a, b, entity.NormalReviewMinEach)
	h.chats.Send(b, a, entity.NormalReviewMinEach)
}

func normal(target string, rating int) SubmitReviewInput {
	return SubmitReviewInput{TargetUID: target, Rating: rating, Type: entity.ReviewTypeNormal}
}
