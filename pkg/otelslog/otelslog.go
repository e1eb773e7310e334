// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog correlates form logs with OpenTelemetry traces.
//
// Records logged with a context holding a valid span get the trace and span
// id attached. Optionally, records are also added as events to that span so
// the issues and values logged while validating or submitting a form can be
// read straight from the trace.
package otelslog

import (
	"context"
	"log/slog"
	"slices"

	"github.com/z5labs/formstate/pkg/slogfield"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Record attributes written by the form packages are renamed to the
// attribute names used on form spans.
var spanAttrNames = map[string]string{
	slogfield.PathKey:   "form.path",
	slogfield.FormIDKey: "form.id",
}

// Option configures a [Handler].
type Option func(*Handler)

// SpanEvents adds every record at or above lvl as an event to the recording
// span found in the context of the record. Records below the level of the
// wrapped handler still become events, they are just not forwarded.
func SpanEvents(lvl slog.Leveler) Option {
	return func(h *Handler) {
		h.events = lvl
	}
}

// Handler is an OpenTelemetry aware slog.Handler.
type Handler struct {
	next   slog.Handler
	events slog.Leveler

	group string
	attrs []attribute.KeyValue
}

// NewHandler returns a [Handler] which forwards to h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	oh := &Handler{next: h}
	for _, opt := range opts {
		opt(oh)
	}
	return oh
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl) || h.recordsEvent(ctx, lvl)
}

func (h *Handler) recordsEvent(ctx context.Context, lvl slog.Level) bool {
	if h.events == nil || lvl < h.events.Level() {
		return false
	}
	return trace.SpanFromContext(ctx).IsRecording()
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return h.forward(ctx, record)
	}

	if h.recordsEvent(ctx, record.Level) {
		attrs := slices.Clone(h.attrs)
		record.Attrs(func(a slog.Attr) bool {
			attrs = appendSpanAttrs(attrs, h.group, a)
			return true
		})
		span.AddEvent(record.Message, trace.WithAttributes(attrs...))
	}

	r := record.Clone()
	r.AddAttrs(
		slogfield.String("trace_id", spanCtx.TraceID().String()),
		slogfield.String("span_id", spanCtx.SpanID().String()),
	)
	return h.forward(ctx, r)
}

func (h *Handler) forward(ctx context.Context, record slog.Record) error {
	if !h.next.Enabled(ctx, record.Level) {
		return nil
	}
	return h.next.Handle(ctx, record)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	oh := h.clone(h.next.WithAttrs(attrs))
	for _, a := range attrs {
		oh.attrs = appendSpanAttrs(oh.attrs, h.group, a)
	}
	return oh
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	oh := h.clone(h.next.WithGroup(name))
	oh.group = h.group + name + "."
	return oh
}

func (h *Handler) clone(next slog.Handler) *Handler {
	return &Handler{
		next:   next,
		events: h.events,
		group:  h.group,
		attrs:  slices.Clip(h.attrs),
	}
}

func appendSpanAttrs(kvs []attribute.KeyValue, group string, a slog.Attr) []attribute.KeyValue {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		prefix := group
		if a.Key != "" {
			prefix = group + a.Key + "."
		}
		for _, ga := range v.Group() {
			kvs = appendSpanAttrs(kvs, prefix, ga)
		}
		return kvs
	}

	key := group + a.Key
	if name, ok := spanAttrNames[key]; ok {
		key = name
	}

	switch v.Kind() {
	case slog.KindBool:
		return append(kvs, attribute.Bool(key, v.Bool()))
	case slog.KindInt64:
		return append(kvs, attribute.Int64(key, v.Int64()))
	case slog.KindFloat64:
		return append(kvs, attribute.Float64(key, v.Float64()))
	default:
		return append(kvs, attribute.String(key, v.String()))
	}
}
