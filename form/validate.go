// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package form

import (
	"context"
	"slices"

	"github.com/z5labs/formstate/pkg/slogfield"
	"github.com/z5labs/formstate/validate"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Validate runs every validator and schema of the form against the current
// value and replaces all errors of the form with the issues found.
//
// If a validator or schema fails, the errors of the form are left untouched.
func (f *Form) Validate(ctx context.Context) ([]validate.Issue, error) {
	spanCtx, span := f.tracer.Start(ctx, "form.validate", trace.WithAttributes(
		attribute.String("form.id", f.id),
	))
	defer span.End()

	issues, err := validate.Run(spanCtx, f.value, f.validator, f.schemas...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.log.ErrorContext(spanCtx, "failed to validate form", slogfield.Error(err))
		return nil, err
	}

	// Run does not order its issues so sort them to keep the errors of each
	// location in a predictable order.
	slices.SortStableFunc(issues, func(a, b validate.Issue) int {
		return a.Path.Compare(b.Path)
	})

	f.tree.ClearAllErrors()
	for _, issue := range issues {
		f.tree.AppendErrors(issue.Path, issue.Message)
	}

	span.SetAttributes(attribute.Int("form.validate.issues", len(issues)))
	f.issues.Add(spanCtx, int64(len(issues)), metric.WithAttributes(
		attribute.String("form.id", f.id),
	))
	f.log.InfoContext(spanCtx, "validated form", slogfield.Int("issues", len(issues)))
	return issues, nil
}
