package ratelimit

import (
	"sync"
	"time"
)

// DomainState is the per-domain pacing bookkeeping. States are value
// objects: stores hand out copies, never shared pointers.
type DomainState struct {
	LastRequestTime time.Time
	RequestCount    int
	WindowStart     time.Time
	IsRateLimited   bool
	BackoffUntil    time.Time
}

// Store abstracts the per-domain state map so limiters can be isolated
// per test instead of sharing process-wide globals.
type Store interface {
	Get(domain string) (DomainState, bool)
	Set(domain string, state DomainState)
	Evict(domain string)
}

// MemoryStore is the default mutex-guarded in-memory store. Lost updates
// under concurrency only degrade throttling accuracy, not correctness.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]DomainState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]DomainState)}
}

func (ms *MemoryStore) Get(domain string) (DomainState, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	state, ok := ms.states[domain]
	return state, ok
}

func (ms *MemoryStore) Set(domain string, state DomainState) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.states[domain] = state
}

func (ms *MemoryStore) Evict(domain string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.states, domain)
}
