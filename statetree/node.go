// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package statetree

import (
	"maps"
	"slices"

	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/internal/notify"
)

type node struct {
	props map[string]*node
	elems map[int]*node

	errors  []string
	blurred bool

	valueListeners   notify.List
	errorListeners   notify.List
	blurredListeners notify.List
}

func (n *node) child(s fieldpath.Step) *node {
	if s.Kind() == fieldpath.IndexStep {
		return n.elems[s.Index()]
	}
	return n.props[s.Name()]
}

func (n *node) childOrCreate(s fieldpath.Step) *node {
	if c := n.child(s); c != nil {
		return c
	}

	c := &node{}
	if s.Kind() == fieldpath.IndexStep {
		if n.elems == nil {
			n.elems = make(map[int]*node)
		}
		n.elems[s.Index()] = c
		return c
	}
	if n.props == nil {
		n.props = make(map[string]*node)
	}
	n.props[s.Name()] = c
	return c
}

func (n *node) removeChild(s fieldpath.Step) {
	if s.Kind() == fieldpath.IndexStep {
		delete(n.elems, s.Index())
		if len(n.elems) == 0 {
			n.elems = nil
		}
		return
	}
	delete(n.props, s.Name())
	if len(n.props) == 0 {
		n.props = nil
	}
}

type childEntry struct {
	step fieldpath.Step
	node *node
}

// children returns the direct children of n, properties sorted by name
// followed by elements sorted by index.
func (n *node) children() []childEntry {
	cs := make([]childEntry, 0, len(n.props)+len(n.elems))
	for _, name := range slices.Sorted(maps.Keys(n.props)) {
		cs = append(cs, childEntry{step: fieldpath.Property(name), node: n.props[name]})
	}
	for _, i := range slices.Sorted(maps.Keys(n.elems)) {
		cs = append(cs, childEntry{step: fieldpath.Index(i), node: n.elems[i]})
	}
	return cs
}

// walk visits n and all of its descendants in pre-order.
func (n *node) walk(f func(*node)) {
	f(n)
	for _, c := range n.children() {
		c.node.walk(f)
	}
}

func (n *node) hasState() bool {
	return len(n.errors) > 0 || n.blurred
}

func (n *node) hasListeners() bool {
	return n.valueListeners.Len() > 0 || n.errorListeners.Len() > 0 || n.blurredListeners.Len() > 0
}

func (n *node) isEmpty() bool {
	return len(n.props) == 0 && len(n.elems) == 0 && !n.hasState() && !n.hasListeners()
}

// pruneDescendants removes every empty node below n, bottom-up.
func (n *node) pruneDescendants() {
	for _, c := range n.children() {
		c.node.pruneDescendants()
		if c.node.isEmpty() {
			n.removeChild(c.step)
		}
	}
}
