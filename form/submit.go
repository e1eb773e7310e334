// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package form

import (
	"context"
	"fmt"

	"github.com/z5labs/formstate/internal/try"
	"github.com/z5labs/formstate/pkg/slogfield"
	"github.com/z5labs/formstate/validate"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InitialValueError occurs when the initial value of a form cannot be supplied.
type InitialValueError struct {
	Cause error
}

// Error implements the error interface.
func (e InitialValueError) Error() string {
	return fmt.Sprintf("failed to supply initial form value: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InitialValueError) Unwrap() error {
	return e.Cause
}

// SubmitError is the uniform failure of a submission. Cause is either the
// error validation failed with, the error returned by the [SubmitFunc] or
// a [try.PanicError] holding what the [SubmitFunc] panicked with.
type SubmitError struct {
	Cause error
}

// Error implements the error interface.
func (e SubmitError) Error() string {
	return fmt.Sprintf("failed to submit form: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SubmitError) Unwrap() error {
	return e.Cause
}

// SubmitState is the stage a submission is in.
type SubmitState int

const (
	// Idle means nothing has been submitted since the form was created or reset.
	Idle SubmitState = iota

	// Submitting means a submission is in flight.
	Submitting

	// Invalid means the last submission found validation issues
	// and so the data was never handed to the [SubmitFunc].
	Invalid

	// Failed means the last submission failed with a [SubmitError].
	Failed

	// Submitted means the last submission succeeded.
	Submitted
)

// String implements the [fmt.Stringer] interface.
func (s SubmitState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Invalid:
		return "invalid"
	case Failed:
		return "failed"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("SubmitState(%d)", int(s))
	}
}

// Submission describes the latest submission of a form.
type Submission struct {
	State SubmitState

	// Attempts counts the submissions, which were not dropped,
	// since the form was created or reset.
	Attempts int

	// Issues holds the validation issues of an [Invalid] submission.
	Issues []validate.Issue

	// Err holds the [SubmitError] of a [Failed] submission.
	Err error
}

// SubmitFunc receives the data of a form which passed validation.
type SubmitFunc func(ctx context.Context, data any) error

// Submission returns the state of the latest submission.
func (f *Form) Submission() Submission {
	return f.submission
}

// SubscribeToSubmission registers fn to be called whenever the submission state changes.
func (f *Form) SubscribeToSubmission(fn func()) (unsubscribe func()) {
	return f.submissionListeners.Add(fn)
}

func (f *Form) setSubmission(s Submission) {
	f.submission = s
	f.submissionListeners.Notify()
}

// Submit validates the form, marks the form root and every location with
// listeners or errors as blurred and, if no issues were found, hands the
// current data to fn.
//
// Only one submission may be in flight at a time. Calling Submit while
// another submission is in flight does nothing.
//
// Submit never returns the failure of a submission. It is recorded in
// [Form.Submission] instead, which listeners registered with
// [Form.SubscribeToSubmission] are notified of.
func (f *Form) Submit(ctx context.Context, fn SubmitFunc) {
	if !f.submitting.CompareAndSwap(false, true) {
		f.log.DebugContext(ctx, "dropped submission since another is in flight")
		return
	}
	defer f.submitting.Store(false)

	spanCtx, span := f.tracer.Start(ctx, "form.submit", trace.WithAttributes(
		attribute.String("form.id", f.id),
	))
	defer span.End()

	attempts := f.submission.Attempts + 1
	f.submits.Add(spanCtx, 1)
	f.setSubmission(Submission{State: Submitting, Attempts: attempts})

	issues, err := f.Validate(spanCtx)
	f.tree.BlurAll()
	if err != nil {
		f.fail(spanCtx, span, attempts, err)
		return
	}
	if len(issues) > 0 {
		f.log.InfoContext(spanCtx, "form submission has issues", slogfield.Int("issues", len(issues)))
		f.setSubmission(Submission{State: Invalid, Attempts: attempts, Issues: issues})
		return
	}

	err = callSubmitFunc(spanCtx, fn, f.value)
	if err != nil {
		f.fail(spanCtx, span, attempts, err)
		return
	}

	f.log.InfoContext(spanCtx, "submitted form")
	f.setSubmission(Submission{State: Submitted, Attempts: attempts})
}

func (f *Form) fail(ctx context.Context, span trace.Span, attempts int, cause error) {
	err := SubmitError{Cause: cause}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	f.log.ErrorContext(ctx, "failed to submit form", slogfield.Error(err))
	f.setSubmission(Submission{State: Failed, Attempts: attempts, Err: err})
}

func callSubmitFunc(ctx context.Context, fn SubmitFunc, data any) (err error) {
	defer try.Recover(&err)

	return fn(ctx, data)
}
