package checkout

import (
	"sync"

	"go-retail-pos/internal/receipt"
	"go-retail-pos/internal/ws"

	"github.com/google/uuid"
)

// Registry holds the open till sessions of this process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	committer Committer
	publisher ws.Publisher
	store     receipt.Store
}

func NewRegistry(committer Committer, publisher ws.Publisher, store receipt.Store) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		committer: committer,
		publisher: publisher,
		store:     store,
	}
}

func (r *Registry) Create(cashier string) *Session {
	s := NewSession(uuid.NewString(), cashier, r.committer, r.publisher, r.store)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOwned returns the session only when cashier opened it. An empty cashier skips the
// check. Someone else's session is reported as not found.
func (r *Registry) GetOwned(id, cashier string) (*Session, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if cashier != "" && s.Cashier() != cashier {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove refuses to drop a session whose sale is being committed.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.State() == StateProcessing {
		return ErrCheckoutInProgress
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
