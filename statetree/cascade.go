// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package statetree

import (
	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/internal/notify"
)

// NotifyValueChanged tells the tree the value at p has been replaced and
// root is the new form value.
//
// The value listeners of every ancestor of p, of p itself and of every
// descendant of p are notified exactly once, ancestors first.
//
// Replacing the root clears the errors and blurred flags of every node.
// Replacing any other path keeps the state of p itself and of every
// descendant which still exists in root, while the state of descendants
// which no longer exist is cleared. This way errors never leak onto data
// which merely reuses a stale path, e.g. after removing an array element.
//
// State is updated before any listener is called so listeners always
// observe the outcome of the whole cascade.
func (t *Tree) NotifyValueChanged(p fieldpath.Path, root any) {
	var target *node
	var valueListeners []Listener

	n := t.root
	for i := 0; ; i++ {
		if i == p.Len() {
			target = n
			break
		}
		valueListeners = append(valueListeners, n.valueListeners.Snapshot()...)

		n = n.child(p.Step(i))
		if n == nil {
			break
		}
	}

	var cleared clearedListeners
	if target != nil {
		target.walk(func(n *node) {
			valueListeners = append(valueListeners, n.valueListeners.Snapshot()...)
		})

		if p.IsRoot() {
			target.walk(cleared.clear)
		} else {
			v, err := p.Get(root)
			if err != nil {
				v = nil
			}
			clearStale(target, v, &cleared)
		}
		target.pruneDescendants()
		t.prune(p)
	}

	notify.Call(valueListeners)
	notify.Call(cleared.errors)
	notify.Call(cleared.blurred)
}

type clearedListeners struct {
	errors  []Listener
	blurred []Listener
}

func (c *clearedListeners) clear(n *node) {
	if len(n.errors) > 0 {
		n.errors = nil
		c.errors = append(c.errors, n.errorListeners.Snapshot()...)
	}
	if n.blurred {
		n.blurred = false
		c.blurred = append(c.blurred, n.blurredListeners.Snapshot()...)
	}
}

// clearStale clears the state of every descendant of n whose location
// does not exist in v, the new value at n.
func clearStale(n *node, v any, cleared *clearedListeners) {
	for _, c := range n.children() {
		cv, ok := c.step.Lookup(v)
		if !ok {
			c.node.walk(cleared.clear)
			continue
		}
		clearStale(c.node, cv, cleared)
	}
}
