// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package form ties a value root, its state tree and its validators together.
//
// A [Form] owns the current value of a form and the per location errors and
// blurred flags describing it. Values are never mutated in place, every write
// replaces the root and notifies the listeners of the affected locations.
// Use [Form.Field] to get a [field.Handle] to bind to a specific location.
//
// A Form must only be used from a single goroutine. Validators are the one
// exception, they are run concurrently against an immutable snapshot of the value.
package form

import (
	"log/slog"
	"sync/atomic"

	"github.com/z5labs/formstate/field"
	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/internal/notify"
	"github.com/z5labs/formstate/pkg/slogfield"
	"github.com/z5labs/formstate/source"
	"github.com/z5labs/formstate/statetree"
	"github.com/z5labs/formstate/validate"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/z5labs/formstate/form"

// Option configures a [Form].
type Option func(*options)

type options struct {
	initial   func() (any, error)
	validator validate.Validator
	schemas   []validate.Schema
	log       *slog.Logger
	tp        trace.TracerProvider
	mp        metric.MeterProvider
}

// InitialValue sets the value the form starts with and is reset to.
func InitialValue(v any) Option {
	return func(o *options) {
		o.initial = func() (any, error) {
			return v, nil
		}
	}
}

// InitialValueFunc sets a func which supplies the value the form starts
// with. It is called again every time the form is reset.
func InitialValueFunc(f func() (any, error)) Option {
	return func(o *options) {
		o.initial = f
	}
}

// InitialSources layers the given sources into the value the form starts
// with. Sources consume their readers, so they are read once and the
// resulting value is reused every time the form is reset.
func InitialSources(srcs ...source.Source) Option {
	return func(o *options) {
		var (
			read bool
			v    any
			err  error
		)
		o.initial = func() (any, error) {
			if !read {
				v, err = source.Read(srcs...)
				read = true
			}
			return v, err
		}
	}
}

// Validator sets the native validator of the form.
func Validator(v validate.Validator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// Schemas adds external schemas the form is validated against.
func Schemas(schemas ...validate.Schema) Option {
	return func(o *options) {
		o.schemas = append(o.schemas, schemas...)
	}
}

// Logger sets the logger of the form. Logs are discarded by default.
func Logger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// TracerProvider sets the provider of the tracer used to trace validation
// and submission. The global provider is used by default.
func TracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// MeterProvider sets the provider of the meter used to record validation
// metrics. The global provider is used by default.
func MeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.mp = mp
	}
}

// Form is the state of a single form instance.
type Form struct {
	id        string
	log       *slog.Logger
	tracer    trace.Tracer
	issues    metric.Int64Counter
	submits   metric.Int64Counter
	initial   func() (any, error)
	validator validate.Validator
	schemas   []validate.Schema

	value any
	tree  *statetree.Tree

	submitting          atomic.Bool
	submission          Submission
	submissionListeners notify.List
}

// New initializes a [Form].
func New(opts ...Option) (*Form, error) {
	o := &options{
		initial: func() (any, error) { return nil, nil },
		log:     slog.New(slog.DiscardHandler),
		tp:      otel.GetTracerProvider(),
		mp:      otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(o)
	}

	meter := o.mp.Meter(instrumentationName)
	issues, err := meter.Int64Counter(
		"formstate.validate.issues",
		metric.WithDescription("Number of issues found by form validation."),
	)
	if err != nil {
		return nil, err
	}
	submits, err := meter.Int64Counter(
		"formstate.submit.attempts",
		metric.WithDescription("Number of form submissions which were not dropped."),
	)
	if err != nil {
		return nil, err
	}

	v, err := o.initial()
	if err != nil {
		return nil, InitialValueError{Cause: err}
	}

	id := uuid.NewString()
	f := &Form{
		id:        id,
		log:       o.log.With(slogfield.FormID(id)),
		tracer:    o.tp.Tracer(instrumentationName),
		issues:    issues,
		submits:   submits,
		initial:   o.initial,
		validator: o.validator,
		schemas:   o.schemas,
		value:     fieldpath.Normalize(v),
		tree:      statetree.New(),
	}
	return f, nil
}

// ID uniquely identifies f. It is attached to every log record and span.
func (f *Form) ID() string {
	return f.id
}

// Field returns the [field.Handle] for the root of the form.
func (f *Form) Field() field.Handle {
	return field.New(f, fieldpath.Root())
}

// Data returns the current value root.
func (f *Form) Data() any {
	return f.value
}

// SetData replaces the whole value root. All errors and blurred flags are cleared.
func (f *Form) SetData(v any) {
	f.value = fieldpath.Normalize(v)
	f.log.Debug("replaced form data")
	f.tree.NotifyValueChanged(fieldpath.Root(), f.value)
}

// Reset replaces the value root with a freshly supplied initial value
// and forgets any previous submission.
func (f *Form) Reset() error {
	v, err := f.initial()
	if err != nil {
		return InitialValueError{Cause: err}
	}
	f.SetData(v)
	f.setSubmission(Submission{})
	return nil
}

// HasErrors reports whether any location of the form has errors.
func (f *Form) HasErrors() bool {
	return f.tree.HasError()
}

// Value implements the [field.Access] interface.
func (f *Form) Value(p fieldpath.Path) (any, error) {
	return p.Get(f.value)
}

// SetValue implements the [field.Access] interface.
func (f *Form) SetValue(p fieldpath.Path, v any) error {
	if p.IsRoot() {
		f.SetData(v)
		return nil
	}

	root, err := p.With(f.value, fieldpath.Normalize(v))
	if err != nil {
		return err
	}
	f.value = root
	f.log.Debug("set form value", slogfield.Path(slogfield.PathKey, p), slogfield.Any(slogfield.ValueKey, v))
	f.tree.NotifyValueChanged(p, root)
	return nil
}

// UpdateValue implements the [field.Access] interface.
func (f *Form) UpdateValue(p fieldpath.Path, fn func(any) any) error {
	v, err := p.Get(f.value)
	if err != nil {
		return err
	}
	return f.SetValue(p, fn(v))
}

// SubscribeToValue implements the [field.Access] interface.
func (f *Form) SubscribeToValue(p fieldpath.Path, fn func()) func() {
	return f.tree.SubscribeToValue(p, fn)
}

// Errors implements the [field.Access] interface.
func (f *Form) Errors(p fieldpath.Path) []string {
	return f.tree.Errors(p)
}

// SetErrors implements the [field.Access] interface.
func (f *Form) SetErrors(p fieldpath.Path, errs []string) {
	f.tree.SetErrors(p, errs)
}

// SubscribeToErrors implements the [field.Access] interface.
func (f *Form) SubscribeToErrors(p fieldpath.Path, fn func()) func() {
	return f.tree.SubscribeToErrors(p, fn)
}

// Blurred implements the [field.Access] interface.
func (f *Form) Blurred(p fieldpath.Path) bool {
	return f.tree.Blurred(p)
}

// SetBlurred implements the [field.Access] interface.
func (f *Form) SetBlurred(p fieldpath.Path, blurred bool) {
	f.tree.SetBlurred(p, blurred)
}

// SubscribeToBlurred implements the [field.Access] interface.
func (f *Form) SubscribeToBlurred(p fieldpath.Path, fn func()) func() {
	return f.tree.SubscribeToBlurred(p, fn)
}
