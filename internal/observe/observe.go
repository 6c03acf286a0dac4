// Package observe provides a last-value-caching publish/subscribe cell:
// one owner publishes, any number of subscribers receive every update plus
// the value held at subscription time.
package observe

import "sync"

// Value holds a current value and an observer list.
type Value[T any] struct {
	lock    sync.Mutex
	current T
	subs    map[int]func(T)
	nextID  int
}

// NewValue returns a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.current
}

// Set stores val and notifies every subscriber. Callbacks run on the
// caller's goroutine, outside the holder's lock; subscribers must not call
// Set back.
func (v *Value[T]) Set(val T) {
	v.lock.Lock()
	v.current = val
	callbacks := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		callbacks = append(callbacks, fn)
	}
	v.lock.Unlock()

	for _, fn := range callbacks {
		fn(val)
	}
}

// Subscribe registers fn and invokes it immediately with the current
// value. The returned cancel removes the subscription; cancelling more
// than once is harmless.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.lock.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	current := v.current
	v.lock.Unlock()

	fn(current)

	return func() {
		v.lock.Lock()
		defer v.lock.Unlock()
		delete(v.subs, id)
	}
}
