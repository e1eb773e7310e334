// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package field provides path bound views over form state.
package field

import (
	"github.com/z5labs/formstate/fieldpath"
)

// Access is everything a [Handle] needs from the form it belongs to.
type Access interface {
	Value(fieldpath.Path) (any, error)
	SetValue(fieldpath.Path, any) error
	UpdateValue(fieldpath.Path, func(any) any) error
	SubscribeToValue(fieldpath.Path, func()) (unsubscribe func())

	Errors(fieldpath.Path) []string
	SetErrors(fieldpath.Path, []string)
	SubscribeToErrors(fieldpath.Path, func()) (unsubscribe func())

	Blurred(fieldpath.Path) bool
	SetBlurred(fieldpath.Path, bool)
	SubscribeToBlurred(fieldpath.Path, func()) (unsubscribe func())
}

// Handle is a lightweight view of a single location in a form.
//
// A Handle holds no state of its own, it only forwards to its [Access]
// with its path, so they are cheap to create and can simply be dropped
// when no longer needed.
type Handle struct {
	path   fieldpath.Path
	access Access
}

// New returns a [Handle] for the given path of access.
func New(access Access, path fieldpath.Path) Handle {
	return Handle{
		path:   path,
		access: access,
	}
}

// Path returns the location h points at.
func (h Handle) Path() fieldpath.Path {
	return h.path
}

// Property returns a [Handle] for the given key of the object at h.
func (h Handle) Property(name string) Handle {
	return New(h.access, h.path.WithProperty(name))
}

// Element returns a [Handle] for the given element of the array at h.
func (h Handle) Element(i int) Handle {
	return New(h.access, h.path.WithIndex(i))
}

// Equal reports whether h and other point at the same location of the same form.
func (h Handle) Equal(other Handle) bool {
	return h.access == other.access && h.path.Equal(other.path)
}

// Value returns the current value at h.
func (h Handle) Value() (any, error) {
	return h.access.Value(h.path)
}

// SetValue replaces the value at h.
func (h Handle) SetValue(v any) error {
	return h.access.SetValue(h.path, v)
}

// UpdateValue replaces the value at h with the result of f applied to the current value.
func (h Handle) UpdateValue(f func(any) any) error {
	return h.access.UpdateValue(h.path, f)
}

// SubscribeToValue registers fn to be called whenever the value at h may have changed.
func (h Handle) SubscribeToValue(fn func()) (unsubscribe func()) {
	return h.access.SubscribeToValue(h.path, fn)
}

// Errors returns the error messages at h. It never returns nil.
func (h Handle) Errors() []string {
	errs := h.access.Errors(h.path)
	if errs == nil {
		return []string{}
	}
	return errs
}

// SetErrors replaces the error messages at h.
func (h Handle) SetErrors(errs []string) {
	h.access.SetErrors(h.path, errs)
}

// SubscribeToErrors registers fn to be called whenever the errors at h change.
func (h Handle) SubscribeToErrors(fn func()) (unsubscribe func()) {
	return h.access.SubscribeToErrors(h.path, fn)
}

// Blurred reports whether h, or one of its descendants, has been blurred.
func (h Handle) Blurred() bool {
	return h.access.Blurred(h.path)
}

// SetBlurred updates the blurred flag of h.
func (h Handle) SetBlurred(blurred bool) {
	h.access.SetBlurred(h.path, blurred)
}

// SubscribeToBlurred registers fn to be called whenever the blurred flag of h changes.
func (h Handle) SubscribeToBlurred(fn func()) (unsubscribe func()) {
	return h.access.SubscribeToBlurred(h.path, fn)
}
