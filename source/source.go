// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package source layers initial form values from maps, files and the environment.
//
// Every [Source] writes its values into a [Store] one leaf at a time, so
// when sources are layered with [Read] a later source only overrides the
// leaves it actually defines. Arrays are treated as leaves and replaced
// as a whole.
package source

import (
	"github.com/z5labs/formstate/fieldpath"
)

// Store receives the values of a [Source].
type Store interface {
	Set(fieldpath.Path, any) error
}

// Source is anything which can write form values into a [Store].
type Source interface {
	Apply(Store) error
}

// Map is a [Source] backed by an in memory object value.
type Map map[string]any

// Apply implements the [Source] interface.
func (m Map) Apply(store Store) error {
	return setAll(store, fieldpath.Root(), fieldpath.Normalize(map[string]any(m)))
}

// Value is a [Source] which sets the whole root to v.
// It is mostly useful for top level arrays.
type Value struct {
	V any
}

// Apply implements the [Source] interface.
func (src Value) Apply(store Store) error {
	return store.Set(fieldpath.Root(), fieldpath.Normalize(src.V))
}

func setAll(store Store, p fieldpath.Path, v any) error {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return store.Set(p, v)
	}
	for key, child := range obj {
		err := setAll(store, p.WithProperty(key), child)
		if err != nil {
			return err
		}
	}
	return nil
}

type valueStore struct {
	root any
}

// Set implements the [Store] interface.
func (s *valueStore) Set(p fieldpath.Path, v any) error {
	root, err := p.With(s.root, v)
	if err != nil {
		return err
	}
	s.root = root
	return nil
}

// Read applies every source, in order, to a single value and returns it.
// Subsequent sources override the leaves of previous sources.
func Read(srcs ...Source) (any, error) {
	store := &valueStore{}
	for _, src := range srcs {
		err := src.Apply(store)
		if err != nil {
			return nil, err
		}
	}
	return store.root, nil
}
