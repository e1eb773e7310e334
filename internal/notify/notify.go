// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package notify provides listener lists which tolerate listeners
// removing themselves, or others, while being notified.
package notify

import (
	"slices"
	"sync"
)

// Listener is called when whatever it subscribed to changes.
type Listener func()

type entry struct {
	id uint64
	fn Listener
}

// List is an ordered set of listeners. The zero value is ready to use.
type List struct {
	mu      sync.Mutex
	nextID  uint64
	entries []entry
}

// Add registers fn and returns a func which removes it again.
// The returned func is idempotent.
func (l *List) Add(fn Listener) (remove func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.entries = append(l.entries, entry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			l.remove(id)
		})
	}
}

func (l *List) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = slices.DeleteFunc(l.entries, func(e entry) bool {
		return e.id == id
	})
	if len(l.entries) == 0 {
		l.entries = nil
	}
}

// Len returns the number of registered listeners.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Snapshot returns the currently registered listeners in registration order.
// The returned slice is not affected by later calls to Add or remove.
func (l *List) Snapshot() []Listener {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return nil
	}
	fns := make([]Listener, len(l.entries))
	for i, e := range l.entries {
		fns[i] = e.fn
	}
	return fns
}

// Notify calls every listener registered at the time of the call.
// Listeners are called outside of the lists lock.
func (l *List) Notify() {
	Call(l.Snapshot())
}

// Call invokes each listener in order.
func Call(fns []Listener) {
	for _, fn := range fns {
		fn()
	}
}
