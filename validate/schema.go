// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package validate

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/z5labs/formstate/fieldpath"
)

// SchemaIssue is a single failure reported by a [Schema].
//
// Path holds property names as strings and array positions as integers.
type SchemaIssue struct {
	Path    []any
	Message string
}

// SchemaResult is the outcome of validating with a [Schema].
// A nil Issues slice means the value is valid.
type SchemaResult struct {
	Issues []SchemaIssue
}

// Schema is an externally defined validator, e.g. a JSON Schema document.
type Schema interface {
	Validate(ctx context.Context, value any) (SchemaResult, error)
}

// SchemaFunc is a func implementation of [Schema].
type SchemaFunc func(ctx context.Context, value any) (SchemaResult, error)

// Validate implements the [Schema] interface.
func (f SchemaFunc) Validate(ctx context.Context, value any) (SchemaResult, error) {
	return f(ctx, value)
}

// UnsupportedPathPartError occurs when a [SchemaIssue] path contains
// something other than a property name or an array position.
type UnsupportedPathPartError struct {
	Part any
}

// Error implements the error interface.
func (e UnsupportedPathPartError) Error() string {
	return fmt.Sprintf("unsupported schema path part: %v (%T)", e.Part, e.Part)
}

// PathFromSegments converts the path of a [SchemaIssue] into a [fieldpath.Path].
//
// Strings become property steps. Non-negative integers, of any integer
// type or as integral floats, become index steps.
func PathFromSegments(segments []any) (fieldpath.Path, error) {
	p := fieldpath.Root()
	for _, seg := range segments {
		if name, ok := seg.(string); ok {
			p = p.WithProperty(name)
			continue
		}

		i, ok := indexOf(seg)
		if !ok {
			return fieldpath.Path{}, UnsupportedPathPartError{Part: seg}
		}
		p = p.WithIndex(i)
	}
	return p, nil
}

func indexOf(seg any) (int, bool) {
	rv := reflect.ValueOf(seg)
	switch {
	case rv.CanInt():
		i := rv.Int()
		if i < 0 || i > math.MaxInt {
			return 0, false
		}
		return int(i), true
	case rv.CanUint():
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	case rv.CanFloat():
		f := rv.Float()
		if f < 0 || f != math.Trunc(f) || f >= math.MaxInt {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

func runSchema(ctx context.Context, s Schema, value any) ([]Issue, error) {
	res, err := s.Validate(ctx, value)
	if err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(res.Issues))
	for _, si := range res.Issues {
		p, err := PathFromSegments(si.Path)
		if err != nil {
			return nil, err
		}
		issues = append(issues, Issue{Path: p, Message: si.Message})
	}
	return issues, nil
}
