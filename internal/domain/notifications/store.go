package notifications

import "sync"

// MemoryStore keeps undelivered notifications per session, oldest dropped first once
// MaxPending is reached.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[string][]Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: map[string][]Notification{}}
}

func (s *MemoryStore) Push(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := append(s.pending[n.SessionID], n)
	if len(queue) > MaxPending {
		queue = queue[len(queue)-MaxPending:]
	}
	s.pending[n.SessionID] = queue
}

func (s *MemoryStore) Drain(sessionID string) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending[sessionID]
	delete(s.pending, sessionID)
	if out == nil {
		return []Notification{}
	}
	return out
}

func (s *MemoryStore) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.pending, sessionID)
	s.mu.Unlock()
}
