package observable

// Derived is a read-only property computed from one or more upstream
// sources. It recomputes whenever an upstream emits and republishes the
// result to its own subscribers, keeping the last computed value
// available synchronously. It owns no state beyond that value.
type Derived[T any] struct {
	out   *Value[T]
	stops []func()
}

// Ensure Derived implements Source.
var _ Source[bool] = (*Derived[bool])(nil)

// Derive builds a Derived over a single upstream. The transform runs once
// immediately (replay-latest on the upstream) to seed the computed value,
// then again for every upstream emission.
func Derive[U, T any](src Source[U], transform func(U) T) *Derived[T] {
	d := &Derived[T]{out: NewValue(*new(T))}
	stop := src.Subscribe(func(u U) {
		d.out.Set(transform(u))
	})
	d.stops = append(d.stops, stop)
	return d
}

// DeriveDistinct is Derive with equality suppression on the computed
// value: upstream emissions that compute to the same result do not
// renotify downstream subscribers.
func DeriveDistinct[U any, T comparable](src Source[U], transform func(U) T) *Derived[T] {
	d := &Derived[T]{out: NewDistinctValue(*new(T))}
	// Seed before the subscription below so the initial compute is never
	// suppressed by the zero value already stored.
	d.out.current = transform(src.Current())
	stop := src.Subscribe(func(u U) {
		d.out.Set(transform(u))
	})
	d.stops = append(d.stops, stop)
	return d
}

// Derive2 builds a Derived over two upstreams. Either upstream emitting
// triggers a recompute from both current values.
func Derive2[A, B, T any](a Source[A], b Source[B], transform func(A, B) T) *Derived[T] {
	d := &Derived[T]{out: NewValue(*new(T))}
	recompute := func() {
		d.out.Set(transform(a.Current(), b.Current()))
	}
	d.stops = append(d.stops, a.Subscribe(func(A) { recompute() }))
	d.stops = append(d.stops, b.Subscribe(func(B) { recompute() }))
	return d
}

// Current returns the last computed value.
func (d *Derived[T]) Current() T {
	return d.out.Current()
}

// Subscribe registers fn with replay-latest semantics, as in Value.
func (d *Derived[T]) Subscribe(fn func(T)) func() {
	return d.out.Subscribe(fn)
}

// Close detaches the property from its upstreams. Existing subscribers
// keep the last computed value but receive no further notifications.
func (d *Derived[T]) Close() {
	for _, stop := range d.stops {
		stop()
	}
	d.stops = nil
}
