package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rbbhati/solar-estimator/internal/model"
)

// DefaultTTL é o tempo de inatividade após o qual uma sessão expira
const DefaultTTL = 30 * time.Minute

// Store is an in-memory session store with sliding TTL
type Store struct {
	mu       sync.RWMutex
	items    map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

type entry struct {
	state      *State
	expiration time.Time
}

// NewStore creates a store and starts the janitor goroutine
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		items:    make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	// Start cleanup goroutine
	go s.cleanup(time.Minute)

	return s
}

// TTL retorna o tempo de vida configurado
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create abre uma nova sessão com id aleatório
func (s *Store) Create() State {
	now := s.now()
	state := New(uuid.NewString(), now)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[state.ID] = &entry{state: state, expiration: now.Add(s.ttl)}
	return *state.clone()
}

// Get retorna uma cópia do estado da sessão
func (s *Store) Get(id string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[id]
	if !ok || s.now().After(e.expiration) {
		return State{}, model.ErrSessionNotFound
	}
	return *e.state.clone(), nil
}

// Update aplica fn sobre uma cópia do estado e só grava se fn não falhar.
// Cada atualização renova o prazo de expiração.
func (s *Store) Update(id string, fn func(*State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.items[id]
	if !ok || now.After(e.expiration) {
		return State{}, model.ErrSessionNotFound
	}

	next := e.state.clone()
	if err := fn(next); err != nil {
		return *e.state.clone(), err
	}
	next.UpdatedAt = now

	e.state = next
	e.expiration = now.Add(s.ttl)
	return *next.clone(), nil
}

// Delete removes a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
}

// cleanup periodically removes expired sessions
func (s *Store) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopChan:
			return
		}
	}
}

// removeExpired removes all expired sessions and returns how many were dropped
func (s *Store) removeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.items {
		if now.After(e.expiration) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// Size returns the number of sessions in the store
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
