package session

import (
	"context"
	"sync"
	"time"

	"restaurant-ordering-api/cart"
)

// maxSweepInterval bounds how often Update scans for expired carts.
const maxSweepInterval = time.Minute

type memoryEntry struct {
	cart    *cart.Cart
	expires time.Time
}

// MemoryStore keeps carts in process. Updates are serialized by one mutex.
// A cart expires ttl after its last update, the same sliding window the
// Redis store applies; ttl <= 0 keeps carts forever.
type MemoryStore struct {
	policy cart.Policy
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	carts     map[string]memoryEntry
	nextSweep time.Time
}

func NewMemoryStore(policy cart.Policy, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		policy: policy,
		ttl:    ttl,
		now:    time.Now,
		carts:  make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id, s.now()), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := s.get(id, now)
	if err := fn(c); err != nil {
		return nil, err
	}
	c.Touch()
	entry := memoryEntry{cart: c.Clone()}
	if s.ttl > 0 {
		entry.expires = now.Add(s.ttl)
	}
	s.carts[id] = entry
	s.sweep(now)
	return c, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

func (s *MemoryStore) get(id string, now time.Time) *cart.Cart {
	if e, ok := s.carts[id]; ok {
		if !s.expired(e, now) {
			return e.cart.Clone()
		}
		delete(s.carts, id)
	}
	return cart.New(s.policy)
}

func (s *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// sweep drops expired carts, at most once per sweep interval.
func (s *MemoryStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Before(s.nextSweep) {
		return
	}
	for id, e := range s.carts {
		if s.expired(e, now) {
			delete(s.carts, id)
		}
	}
	s.nextSweep = now.Add(min(s.ttl, maxSweepInterval))
}
