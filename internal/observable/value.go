package observable

import "sync"

// Source is the read side shared by Value and Derived: a synchronous
// current-value getter plus a replay-latest subscription.
type Source[T any] interface {
	// Current returns the most recently stored value.
	Current() T

	// Subscribe registers fn and synchronously invokes it once with the
	// current value before returning. The returned func removes the
	// subscription.
	Subscribe(fn func(T)) func()
}

// subscriber pairs a registration id with its callback so unsubscribe
// can remove exactly one entry while preserving subscription order.
type subscriber[T any] struct {
	id int
	fn func(T)
}

// Value is a mutable slot whose writes notify subscribers in subscription
// order. Subscriptions have replay-latest semantics: a new subscriber is
// immediately called with the current value, so late subscribers always
// see the state that existed before they attached.
//
// Notification delivery is serialised: concurrent writers take turns, and
// each write's store is visible before any of its notifications run.
// Callbacks must not call Set or Subscribe on the same Value.
type Value[T any] struct {
	notifyMu sync.Mutex // serialises notification delivery
	mu       sync.Mutex // guards current, subs, nextID
	current  T
	subs     []subscriber[T]
	nextID   int
	eq       func(a, b T) bool
}

// Ensure Value implements Source.
var _ Source[int] = (*Value[int])(nil)

// NewValue creates a Value holding initial. Every Set notifies, even when
// the new value equals the old one.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// NewDistinctValue creates a Value that suppresses notification when the
// written value equals the stored one.
func NewDistinctValue[T comparable](initial T) *Value[T] {
	v := NewValue(initial)
	v.eq = func(a, b T) bool { return a == b }
	return v
}

// Current returns the most recently stored value.
func (v *Value[T]) Current() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores val and notifies all subscribers with it, in subscription
// order. Writes never fail.
func (v *Value[T]) Set(val T) {
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()

	v.mu.Lock()
	if v.eq != nil && v.eq(v.current, val) {
		v.mu.Unlock()
		return
	}
	v.current = val
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(val)
	}
}

// Subscribe registers fn and synchronously delivers the current value to
// it before returning. The returned func unsubscribes; it is safe to call
// more than once.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.notifyMu.Lock()

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	cur := v.current
	v.mu.Unlock()

	fn(cur)
	v.notifyMu.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i := range v.subs {
			if v.subs[i].id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				break
			}
		}
	}
}
