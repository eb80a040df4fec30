package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Entries expire ttl after their last
// save.
type MemoryStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	snaps map[string]Snapshot
	locks map[string]memoryLock
}

type memoryLock struct {
	token   string
	expires time.Time
}

// NewMemoryStore constructs a MemoryStore. A non-positive ttl keeps entries
// forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		now:   time.Now,
		snaps: make(map[string]Snapshot),
		locks: make(map[string]memoryLock),
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	snap, ok := s.snaps[id]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if s.ttl > 0 && s.now().Sub(snap.UpdatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.snaps, id)
		s.mu.Unlock()
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *MemoryStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap.UpdatedAt = s.now()
	s.mu.Lock()
	s.snaps[snap.ID] = snap
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.snaps, id)
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Lock(ctx context.Context, id, token string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if held, ok := s.locks[id]; ok && now.Before(held.expires) {
		return false, nil
	}
	s.locks[id] = memoryLock{token: token, expires: now.Add(ttl)}
	return true, nil
}

func (s *MemoryStore) Refresh(ctx context.Context, id, token string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	held, ok := s.locks[id]
	if !ok || held.token != token || !now.Before(held.expires) {
		return false, nil
	}
	held.expires = now.Add(ttl)
	s.locks[id] = held
	return true, nil
}

func (s *MemoryStore) Unlock(ctx context.Context, id, token string) error {
	s.mu.Lock()
	if held, ok := s.locks[id]; ok && held.token == token {
		delete(s.locks, id)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Locked(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	held, ok := s.locks[id]
	s.mu.RUnlock()
	return ok && s.now().Before(held.expires), nil
}

var _ Store = (*MemoryStore)(nil)
