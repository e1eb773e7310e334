// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fieldpath provides immutable paths into tree-shaped form data.
//
// Form data is modelled the same way encoding/json decodes into an any:
// objects are map[string]any, arrays are []any and everything else is a
// leaf value. A [Path] is an ordered sequence of property and index steps
// which can be used to read a value out of such a tree ([Path.Get]) or
// to produce a new tree with a single location replaced ([Path.With]).
package fieldpath

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// RootName is how the zero length [Path] renders itself.
const RootName = "<form-root>"

// StepKind distinguishes object property steps from array index steps.
type StepKind int

const (
	// PropertyStep selects a key of an object value.
	PropertyStep StepKind = iota

	// IndexStep selects an element of an array value.
	IndexStep
)

// Step is a single element of a [Path].
type Step struct {
	kind  StepKind
	name  string
	index int
}

// Property returns a [Step] selecting the given object key.
func Property(name string) Step {
	return Step{kind: PropertyStep, name: name}
}

// Index returns a [Step] selecting the given array element.
func Index(i int) Step {
	if i < 0 {
		panic(fmt.Sprintf("fieldpath: negative array index %d", i))
	}
	return Step{kind: IndexStep, index: i}
}

// Kind reports whether the step is a property or index step.
func (s Step) Kind() StepKind {
	return s.kind
}

// Name returns the object key of a property step.
func (s Step) Name() string {
	return s.name
}

// Index returns the array position of an index step.
func (s Step) Index() int {
	return s.index
}

// String implements the [fmt.Stringer] interface.
func (s Step) String() string {
	if s.kind == IndexStep {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.name
}

// Path identifies a location inside of form data. The zero value is the root.
//
// Paths are never modified in place so they can be freely shared.
type Path struct {
	steps []Step
}

// Root returns the zero length [Path].
func Root() Path {
	return Path{}
}

// Of returns a [Path] made up of the given steps.
func Of(steps ...Step) Path {
	return Path{steps: slices.Clone(steps)}
}

// WithProperty returns a new [Path] extended by a property step.
func (p Path) WithProperty(name string) Path {
	return p.with(Property(name))
}

// WithIndex returns a new [Path] extended by an index step.
func (p Path) WithIndex(i int) Path {
	return p.with(Index(i))
}

// WithStep returns a new [Path] extended by the given step.
func (p Path) WithStep(s Step) Path {
	return p.with(s)
}

func (p Path) with(s Step) Path {
	// Clip forces append to copy so sibling paths never share a backing array.
	return Path{steps: append(slices.Clip(p.steps), s)}
}

// IsRoot reports whether p has no steps.
func (p Path) IsRoot() bool {
	return len(p.steps) == 0
}

// Len returns the number of steps in p.
func (p Path) Len() int {
	return len(p.steps)
}

// Step returns the i'th step of p.
func (p Path) Step(i int) Step {
	return p.steps[i]
}

// Steps returns a copy of the steps which make up p.
func (p Path) Steps() []Step {
	return slices.Clone(p.steps)
}

// Last returns the final step of p. It returns false for the root.
func (p Path) Last() (Step, bool) {
	if len(p.steps) == 0 {
		return Step{}, false
	}
	return p.steps[len(p.steps)-1], true
}

// SliceRangeError occurs when [Path.SliceTo] is given a step count
// outside of the paths length.
type SliceRangeError struct {
	Path Path
	N    int
}

// Error implements the error interface.
func (e SliceRangeError) Error() string {
	return fmt.Sprintf("cannot slice %s to %d steps: path only has %d steps", e.Path, e.N, e.Path.Len())
}

// SliceTo returns the prefix of p made up of its first n steps.
func (p Path) SliceTo(n int) (Path, error) {
	if n < 0 || n > len(p.steps) {
		return Path{}, SliceRangeError{Path: p, N: n}
	}
	return Path{steps: p.steps[:n:n]}, nil
}

// Parent returns p without its final step. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p.steps) == 0 {
		return p
	}
	return Path{steps: p.steps[: len(p.steps)-1 : len(p.steps)-1]}
}

// Equal reports whether p and other are made of the same steps.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.steps, other.steps)
}

// Compare orders paths depth first: an ancestor sorts before its
// descendants, property steps sort before index steps, properties
// sort by name and indexes numerically. It returns -1, 0 or +1.
func (p Path) Compare(other Path) int {
	return slices.CompareFunc(p.steps, other.steps, compareSteps)
}

func compareSteps(a, b Step) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	if a.kind == PropertyStep {
		return strings.Compare(a.name, b.name)
	}
	return cmp.Compare(a.index, b.index)
}

// HasPrefix reports whether prefix is an ancestor of, or equal to, p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.steps) > len(p.steps) {
		return false
	}
	return slices.Equal(p.steps[:len(prefix.steps)], prefix.steps)
}

// String renders p the way it would be written in code e.g. foo[2].bar.
// The root renders as [RootName].
func (p Path) String() string {
	if len(p.steps) == 0 {
		return RootName
	}

	var sb strings.Builder
	for i, s := range p.steps {
		if s.kind == PropertyStep && i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}
