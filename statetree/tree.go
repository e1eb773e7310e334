// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package statetree tracks per-path form state and listeners.
//
// A [Tree] holds one node per [fieldpath.Path] which currently has
// errors, a blurred flag or listeners. Nodes are created on demand and
// removed as soon as nothing references them anymore, so the size of
// the tree is bounded by the paths somebody currently cares about.
//
// Each node has three independent listener channels: value, errors and
// blurred. Error and blurred listeners fire when that nodes own state
// changes. Value listeners fire through [Tree.NotifyValueChanged] which
// cascades the change to ancestors and descendants of the changed path.
//
// A Tree is not safe for concurrent use.
package statetree

import (
	"slices"

	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/internal/notify"
)

// Listener is called when the state it subscribed to changes.
type Listener = notify.Listener

// Tree is the per-path state store of a form.
type Tree struct {
	root *node
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{root: &node{}}
}

func (t *Tree) lookup(p fieldpath.Path) *node {
	n := t.root
	for i := range p.Len() {
		n = n.child(p.Step(i))
		if n == nil {
			return nil
		}
	}
	return n
}

func (t *Tree) ensure(p fieldpath.Path) *node {
	n := t.root
	for i := range p.Len() {
		n = n.childOrCreate(p.Step(i))
	}
	return n
}

// prune removes empty nodes along p starting from its deepest node
// and stopping at the first node which is still needed.
func (t *Tree) prune(p fieldpath.Path) {
	trail := make([]*node, 0, p.Len()+1)
	trail = append(trail, t.root)

	n := t.root
	for i := range p.Len() {
		n = n.child(p.Step(i))
		if n == nil {
			break
		}
		trail = append(trail, n)
	}

	for i := len(trail) - 1; i > 0; i-- {
		if !trail[i].isEmpty() {
			return
		}
		trail[i-1].removeChild(p.Step(i - 1))
	}
}

// NodeCount returns the number of nodes in the tree, including the root.
func (t *Tree) NodeCount() int {
	count := 0
	t.root.walk(func(*node) { count++ })
	return count
}

// Errors returns the error messages currently set at p.
// It returns nil if there are none.
func (t *Tree) Errors(p fieldpath.Path) []string {
	n := t.lookup(p)
	if n == nil {
		return nil
	}
	return slices.Clone(n.errors)
}

// SetErrors replaces the error messages at p. A nil or empty
// slice clears them.
func (t *Tree) SetErrors(p fieldpath.Path, msgs []string) {
	if len(msgs) == 0 {
		n := t.lookup(p)
		if n == nil {
			return
		}
		n.errors = nil
		listeners := n.errorListeners.Snapshot()
		t.prune(p)
		notify.Call(listeners)
		return
	}

	n := t.ensure(p)
	n.errors = slices.Clone(msgs)
	n.errorListeners.Notify()
}

// AppendErrors adds error messages to the ones already set at p.
func (t *Tree) AppendErrors(p fieldpath.Path, msgs ...string) {
	if len(msgs) == 0 {
		return
	}

	n := t.ensure(p)
	n.errors = append(slices.Clip(n.errors), msgs...)
	n.errorListeners.Notify()
}

// ClearAllErrors removes the error messages from every node in the tree.
// The error listeners of each node which had errors are notified.
func (t *Tree) ClearAllErrors() {
	var listeners []Listener
	t.root.walk(func(n *node) {
		if len(n.errors) == 0 {
			return
		}
		n.errors = nil
		listeners = append(listeners, n.errorListeners.Snapshot()...)
	})
	t.root.pruneDescendants()
	notify.Call(listeners)
}

// HasError reports whether any node in the tree has error messages.
func (t *Tree) HasError() bool {
	return hasError(t.root)
}

func hasError(n *node) bool {
	if len(n.errors) > 0 {
		return true
	}
	for _, c := range n.props {
		if hasError(c) {
			return true
		}
	}
	for _, c := range n.elems {
		if hasError(c) {
			return true
		}
	}
	return false
}

// Blurred reports whether p has been marked as blurred.
func (t *Tree) Blurred(p fieldpath.Path) bool {
	n := t.lookup(p)
	return n != nil && n.blurred
}

// SetBlurred updates the blurred flag of p.
//
// Marking a path as blurred also marks every ancestor of it, so containers
// can tell that one of their descendants was blurred. The blurred listeners
// of every marked node are notified. Clearing the flag only affects p itself.
func (t *Tree) SetBlurred(p fieldpath.Path, blurred bool) {
	if !blurred {
		n := t.lookup(p)
		if n == nil {
			return
		}
		n.blurred = false
		listeners := n.blurredListeners.Snapshot()
		t.prune(p)
		notify.Call(listeners)
		return
	}

	n := t.root
	n.blurred = true
	listeners := n.blurredListeners.Snapshot()
	for i := range p.Len() {
		n = n.childOrCreate(p.Step(i))
		n.blurred = true
		listeners = append(listeners, n.blurredListeners.Snapshot()...)
	}
	notify.Call(listeners)
}

// BlurAll marks the root and every path the tree currently tracks as blurred.
// A path is tracked while it has listeners, errors or a blurred flag. The
// blurred listeners of every node which was not blurred yet are notified.
func (t *Tree) BlurAll() {
	var listeners []Listener
	t.root.walk(func(n *node) {
		if n.blurred {
			return
		}
		n.blurred = true
		listeners = append(listeners, n.blurredListeners.Snapshot()...)
	})
	notify.Call(listeners)
}

// SubscribeToValue registers fn to be called whenever the value at p may have changed.
func (t *Tree) SubscribeToValue(p fieldpath.Path, fn Listener) (unsubscribe func()) {
	return t.subscribe(p, fn, func(n *node) *notify.List { return &n.valueListeners })
}

// SubscribeToErrors registers fn to be called whenever the error messages at p change.
func (t *Tree) SubscribeToErrors(p fieldpath.Path, fn Listener) (unsubscribe func()) {
	return t.subscribe(p, fn, func(n *node) *notify.List { return &n.errorListeners })
}

// SubscribeToBlurred registers fn to be called whenever the blurred flag of p is set.
func (t *Tree) SubscribeToBlurred(p fieldpath.Path, fn Listener) (unsubscribe func()) {
	return t.subscribe(p, fn, func(n *node) *notify.List { return &n.blurredListeners })
}

func (t *Tree) subscribe(p fieldpath.Path, fn Listener, list func(*node) *notify.List) func() {
	n := t.ensure(p)
	remove := list(n).Add(fn)
	return func() {
		remove()
		t.prune(p)
	}
}
