package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Registry keeps live sessions in memory and falls back to the store for ones it has not seen.
type Registry struct {
	store Store

	mu       sync.Mutex
	sessions map[uuid.UUID]*State
}

// NewRegistry returns a Registry. A nil store keeps sessions in memory only.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store, sessions: make(map[uuid.UUID]*State)}
}

func (r *Registry) Create(ctx context.Context) *State {
	s := New(uuid.New())
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	SaveBestEffort(ctx, r.store, s)
	return s
}

// Get returns the live session or loads it from the store.
func (r *Registry) Get(ctx context.Context, id uuid.UUID) (*State, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		return s, nil
	}
	if r.store == nil {
		return nil, ErrNotFound
	}
	loaded, err := LoadState(ctx, r.store, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	r.sessions[id] = loaded
	return loaded, nil
}

// Save persists a session, logging failures.
func (r *Registry) Save(ctx context.Context, s *State) {
	SaveBestEffort(ctx, r.store, s)
}

// Reset clears a session in place and drops its stored snapshots.
func (r *Registry) Reset(ctx context.Context, id uuid.UUID) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Reset()
	if r.store == nil {
		return nil
	}
	if err := Clear(ctx, r.store, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
