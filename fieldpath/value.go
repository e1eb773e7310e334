// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fieldpath

import (
	"fmt"
	"maps"
	"slices"
)

// ResolutionError occurs when a [Path] step does not fit the shape of the
// data it is applied to e.g. an index step applied to an object.
type ResolutionError struct {
	// At is the prefix of the path which resolved to the mismatched value.
	At     Path
	Reason string
}

// Error implements the error interface.
func (e ResolutionError) Error() string {
	return fmt.Sprintf("%s %s", e.At, e.Reason)
}

const (
	reasonNotArray    = "is not an array"
	reasonNotObject   = "is not an object"
	reasonArrayObject = "is an array, not an object"
)

// resolve applies a single step to cur. The returned bool is false when
// the step lands on a hole i.e. a nil value, missing key or index past
// the end of an array.
func resolve(cur any, s Step) (any, bool, string) {
	switch s.kind {
	case IndexStep:
		arr, ok := cur.([]any)
		if !ok {
			return nil, false, reasonNotArray
		}
		if s.index >= len(arr) {
			return nil, false, ""
		}
		return arr[s.index], true, ""
	default:
		switch x := cur.(type) {
		case map[string]any:
			v, ok := x[s.name]
			return v, ok, ""
		case []any:
			return nil, false, reasonArrayObject
		default:
			return nil, false, reasonNotObject
		}
	}
}

// Lookup applies s to v. It reports false when v has no such key or
// element, or when s does not fit the shape of v.
func (s Step) Lookup(v any) (any, bool) {
	child, ok, reason := resolve(v, s)
	return child, ok && reason == ""
}

// Get descends into root one step at a time and returns the value p points at.
//
// Reading through a nil value or a missing key returns nil without an error.
// A step which does not fit the shape of the data returns a [ResolutionError].
func (p Path) Get(root any) (any, error) {
	cur := root
	for i, s := range p.steps {
		if cur == nil {
			return nil, nil
		}
		v, _, reason := resolve(cur, s)
		if reason != "" {
			return nil, ResolutionError{At: Path{steps: p.steps[:i:i]}, Reason: reason}
		}
		cur = v
	}
	return cur, nil
}

// Exists reports whether every step of p resolves to a present key or
// array element in root. A nil value stored under a present key still exists.
func (p Path) Exists(root any) bool {
	cur := root
	for _, s := range p.steps {
		v, ok, reason := resolve(cur, s)
		if !ok || reason != "" {
			return false
		}
		cur = v
	}
	return true
}

// With returns a copy of root where the value at p has been replaced by v.
//
// Only the objects and arrays along p are copied, every other subtree of
// root is shared with the returned value. Missing objects and arrays along
// p are created. root itself is never modified.
func (p Path) With(root, v any) (any, error) {
	return p.setAt(root, 0, v)
}

func (p Path) setAt(cur any, depth int, v any) (any, error) {
	if depth == len(p.steps) {
		return v, nil
	}

	s := p.steps[depth]
	fail := func(reason string) error {
		return ResolutionError{At: Path{steps: p.steps[:depth:depth]}, Reason: reason}
	}

	switch s.kind {
	case IndexStep:
		var arr []any
		switch x := cur.(type) {
		case nil:
		case []any:
			arr = x
		default:
			return nil, fail(reasonNotArray)
		}

		var child any
		if s.index < len(arr) {
			child = arr[s.index]
		}
		nv, err := p.setAt(child, depth+1, v)
		if err != nil {
			return nil, err
		}

		n := max(len(arr), s.index+1)
		out := make([]any, n)
		copy(out, arr)
		out[s.index] = nv
		return out, nil
	default:
		var obj map[string]any
		switch x := cur.(type) {
		case nil:
		case map[string]any:
			obj = x
		case []any:
			return nil, fail(reasonArrayObject)
		default:
			return nil, fail(reasonNotObject)
		}

		nv, err := p.setAt(obj[s.name], depth+1, v)
		if err != nil {
			return nil, err
		}

		out := maps.Clone(obj)
		if out == nil {
			out = make(map[string]any, 1)
		}
		out[s.name] = nv
		return out, nil
	}
}

// Without returns a copy of root where the value at p has been removed.
// Removing an array element shifts every following element down by one.
// Removing from a location which does not exist returns root unchanged.
func (p Path) Without(root any) (any, error) {
	last, ok := p.Last()
	if !ok {
		return nil, nil
	}
	parent := p.Parent()
	container, err := parent.Get(root)
	if err != nil {
		return nil, err
	}

	switch x := container.(type) {
	case map[string]any:
		if last.kind != PropertyStep {
			return nil, ResolutionError{At: parent, Reason: reasonNotArray}
		}
		if _, ok := x[last.name]; !ok {
			return root, nil
		}
		out := maps.Clone(x)
		delete(out, last.name)
		return parent.With(root, out)
	case []any:
		if last.kind != IndexStep {
			return nil, ResolutionError{At: parent, Reason: reasonArrayObject}
		}
		if last.index >= len(x) {
			return root, nil
		}
		return parent.With(root, slices.Delete(slices.Clone(x), last.index, last.index+1))
	default:
		return root, nil
	}
}
