// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package validate

import (
	"context"
	"fmt"
	"sync"

	"github.com/z5labs/formstate/fieldpath"

	"golang.org/x/sync/errgroup"
)

// ValidatorError occurs when a [Func] returns an error instead of messages.
type ValidatorError struct {
	Path  fieldpath.Path
	Cause error
}

// Error implements the error interface.
func (e ValidatorError) Error() string {
	return fmt.Sprintf("validator for %s failed: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ValidatorError) Unwrap() error {
	return e.Cause
}

// Run validates value with v and every schema.
//
// Every [Func] and every [Schema] is started on its own goroutine before
// any of them is waited on. The returned issues are complete but their
// order is not stable between runs. v may be nil to only run schemas.
//
// If any validator or schema returns an error, the context passed to
// the others is cancelled and the first error is returned.
func Run(ctx context.Context, value any, v Validator, schemas ...Schema) ([]Issue, error) {
	g, gctx := errgroup.WithContext(ctx)

	c := &collector{}
	if v != nil {
		w := &walker{
			ctx:  gctx,
			g:    g,
			root: value,
			out:  c,
		}
		w.walk(value, v, fieldpath.Root())
	}

	for _, schema := range schemas {
		g.Go(func() error {
			issues, err := runSchema(gctx, schema, value)
			if err != nil {
				return err
			}
			c.add(issues...)
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return c.issues, nil
}

type collector struct {
	mu     sync.Mutex
	issues []Issue
}

func (c *collector) add(issues ...Issue) {
	if len(issues) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, issues...)
}

type walker struct {
	ctx  context.Context
	g    *errgroup.Group
	root any
	out  *collector
}

func (w *walker) walk(value any, v Validator, p fieldpath.Path) {
	switch x := v.(type) {
	case Lazy:
		if x == nil {
			return
		}
		w.walk(value, x(), p)
	case Func:
		w.call(x, value, p)
	case Array:
		w.call(x.Self, value, p)
		if x.Each == nil {
			return
		}
		arr, ok := value.([]any)
		if !ok {
			return
		}
		for i, elem := range arr {
			w.walk(elem, x.Each, p.WithIndex(i))
		}
	case Object:
		w.call(x.Self, value, p)

		obj, ok := value.(map[string]any)
		if !ok {
			return
		}
		for key, fv := range x.Fields {
			w.walk(obj[key], fv, p.WithProperty(key))
		}
	}
}

func (w *walker) call(f Func, value any, p fieldpath.Path) {
	if f == nil {
		return
	}
	w.g.Go(func() error {
		msgs, err := f(w.ctx, value, w.root)
		if err != nil {
			return ValidatorError{Path: p, Cause: err}
		}

		issues := make([]Issue, 0, len(msgs))
		for _, msg := range msgs {
			issues = append(issues, Issue{Path: p, Message: msg})
		}
		w.out.add(issues...)
		return nil
	})
}
