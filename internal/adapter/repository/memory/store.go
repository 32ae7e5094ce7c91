// Package memory keeps every review-engine table in process memory. It backs
// STORAGE_DRIVER=memory for local development and the use case tests.
package memory

import (
	"context"
	"sync"

	"evenapp/internal/domain/entity"
)

type pairKey struct {
	reviewer string
	target   string
}

type txCtxKey struct{}

// Store holds the tables. Transactions, and any read or write made outside
// one, are serialised on txMu, so nothing outside a transaction observes its
// uncommitted rows.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	reviews map[string]entity.Review
	pairs   map[pairKey]string
	windows map[string]entity.WeekWindow
	strikes map[string][]entity.Strike
	grants  map[pairKey]entity.EmergencyGrant
}

func NewStore() *Store {
	return &Store{
		reviews: make(map[string]entity.Review),
		pairs:   make(map[pairKey]string),
		windows: make(map[string]entity.WeekWindow),
		strikes: make(map[string][]entity.Strike),
		grants:  make(map[pairKey]entity.EmergencyGrant),
	}
}

// RunInTx runs fn holding the store-wide transaction lock and restores the
// previous state if fn fails. Calls made with an in-transaction ctx join it.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txCtxKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Ping satisfies the readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txCtxKey{}).(bool)
	return v
}

// read waits for any running transaction unless ctx is inside it, so
// readers never see uncommitted rows.
func (s *Store) read(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// write also takes the transaction lock when ctx is not already inside one,
// so single writes cannot interleave with a running transaction.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

type snapshot struct {
	reviews map[string]entity.Review
	pairs   map[pairKey]string
	windows map[string]entity.WeekWindow
	strikes map[string][]entity.Strike
	grants  map[pairKey]entity.EmergencyGrant
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		reviews: make(map[string]entity.Review, len(s.reviews)),
		pairs:   make(map[pairKey]string, len(s.pairs)),
		windows: make(map[string]entity.WeekWindow, len(s.windows)),
		strikes: make(map[string][]entity.Strike, len(s.strikes)),
		grants:  make(map[pairKey]entity.EmergencyGrant, len(s.grants)),
	}
	for k, v := range s.reviews {
		snap.reviews[k] = v
	}
	for k, v := range s.pairs {
		snap.pairs[k] = v
	}
	for k, v := range s.windows {
		snap.windows[k] = v
	}
	for k, v := range s.strikes {
		snap.strikes[k] = append([]entity.Strike(nil), v...)
	}
	for k, v := range s.grants {
		snap.grants[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = snap.reviews
	s.pairs = snap.pairs
	s.windows = snap.windows
	s.strikes = snap.strikes
	s.grants = snap.grants
}
