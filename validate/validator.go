// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package validate runs validators over form data and reports path tagged issues.
//
// Validators are declared in the same shape as the data they validate:
//
//   - [Func] validates a single value.
//   - [Object] validates the keys of an object and, optionally, the object as a whole.
//   - [Array] validates each element of an array and, optionally, the array as a whole.
//   - [Lazy] defers building a validator until it is used, which allows
//     validators for recursive data to refer to themselves.
//
// [Run] walks the data alongside the validator, calls every [Func] concurrently
// and collects their messages as [Issue]s tagged with the [fieldpath.Path]
// of the value they were reported for.
package validate

import (
	"context"
	"fmt"

	"github.com/z5labs/formstate/fieldpath"
)

// Issue is a validation failure for a single location of form data.
type Issue struct {
	Path    fieldpath.Path
	Message string
}

// String implements the [fmt.Stringer] interface.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Validator is implemented by [Func], [Object], [Array] and [Lazy].
type Validator interface {
	isValidator()
}

// Func validates a single value. root is the whole form value which
// allows for validating a value against other fields.
//
// Returning no messages means the value is valid. A returned error
// is not a validation failure, it aborts the whole validation run.
type Func func(ctx context.Context, value, root any) ([]string, error)

func (Func) isValidator() {}

// Message adapts a func returning a single message into a [Func].
// An empty message means the value is valid.
func Message(f func(value, root any) string) Func {
	return func(_ context.Context, value, root any) ([]string, error) {
		msg := f(value, root)
		if msg == "" {
			return nil, nil
		}
		return []string{msg}, nil
	}
}

// Messages adapts a func returning any number of messages into a [Func].
func Messages(f func(value, root any) []string) Func {
	return func(_ context.Context, value, root any) ([]string, error) {
		return f(value, root), nil
	}
}

// Object validates object values. Fields are only walked when the value
// is a map[string]any, any other value including nil only runs Self.
type Object struct {
	// Self validates the object as a whole and reports at the objects path.
	Self Func

	// Fields validates the value under each key at the path of that key.
	Fields map[string]Validator
}

func (Object) isValidator() {}

// Array validates array values.
type Array struct {
	// Self validates the array as a whole and reports at the arrays path.
	Self Func

	// Each validates every element at the path of that element.
	Each Validator
}

func (Array) isValidator() {}

// Lazy builds a validator on use. It is needed to describe recursive data.
type Lazy func() Validator

func (Lazy) isValidator() {}

// DuplicateKeyError occurs when [NewObject] is given the same field key twice.
type DuplicateKeyError struct {
	Key string
}

// Error implements the error interface.
func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("validator already registered for key: %s", e.Key)
}

// ObjectOption configures the [Object] built by [NewObject].
type ObjectOption func(*objectBuilder)

type objectBuilder struct {
	obj  Object
	errs []error
}

// Field registers the validator for a key of the object.
func Field(key string, v Validator) ObjectOption {
	return func(b *objectBuilder) {
		if _, exists := b.obj.Fields[key]; exists {
			b.errs = append(b.errs, DuplicateKeyError{Key: key})
			return
		}
		b.obj.Fields[key] = v
	}
}

// Self registers the validator for the object as a whole.
func Self(f Func) ObjectOption {
	return func(b *objectBuilder) {
		b.obj.Self = f
	}
}

// NewObject builds an [Object] from the given options. Registering
// the same key more than once returns a [DuplicateKeyError].
func NewObject(opts ...ObjectOption) (Object, error) {
	b := &objectBuilder{
		obj: Object{Fields: make(map[string]Validator)},
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errs) > 0 {
		return Object{}, b.errs[0]
	}
	return b.obj, nil
}
