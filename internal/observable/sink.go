package observable

import "sync"

// Sink is a broadcast point without replay: subscribers receive values
// published after they attach, in arrival order. Publishing with no
// subscribers silently drops the value. The error sink of the search
// pipeline is a Sink[error].
type Sink[T any] struct {
	notifyMu sync.Mutex
	mu       sync.Mutex
	subs     []subscriber[T]
	nextID   int
}

// NewSink creates an empty Sink.
func NewSink[T any]() *Sink[T] {
	return &Sink[T]{}
}

// Publish delivers v to all current subscribers in subscription order.
// Concurrent publishers are serialised so subscribers observe arrival
// order.
func (s *Sink[T]) Publish(v T) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn for future publications. No replay occurs. The
// returned func removes the subscription.
func (s *Sink[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.subs {
			if s.subs[i].id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
	}
}
