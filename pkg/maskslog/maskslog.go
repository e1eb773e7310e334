// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides an slog.Handler which redacts sensitive form values.
//
// Records are expected to carry the location of a form value under [PathKey],
// rendered by [fieldpath.Path.String], and the value itself under [ValueKey].
package maskslog

import (
	"context"
	"log/slog"

	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/pkg/slogfield"
)

const (
	// PathKey is the attribute key holding the location of a logged value.
	PathKey = slogfield.PathKey

	// ValueKey is the attribute key holding a logged form value.
	ValueKey = slogfield.ValueKey
)

// Option configures a [Handler].
type Option func(*Handler)

// Path marks the value at p, and every value below it, as sensitive.
func Path(p fieldpath.Path) Option {
	return func(h *Handler) {
		h.paths = append(h.paths, p)
	}
}

// Mask overrides how sensitive values are redacted. [AnonymousStringAttr] is the default.
func Mask(f func(slog.Attr) slog.Attr) Option {
	return func(h *Handler) {
		h.mask = f
	}
}

// AnonymousStringAttr replaces the value of any slog.Attr with the string "****".
func AnonymousStringAttr(a slog.Attr) slog.Attr {
	return slog.String(a.Key, "****")
}

// Handler is an slog.Handler.
type Handler struct {
	slog  slog.Handler
	paths []fieldpath.Path
	mask  func(slog.Attr) slog.Attr
}

// NewHandler returns a [Handler] which forwards to h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	mh := &Handler{
		slog: h,
		mask: AnonymousStringAttr,
	}
	for _, opt := range opts {
		opt(mh)
	}
	return mh
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.paths) == 0 || !h.sensitive(record) {
		return h.slog.Handle(ctx, record)
	}

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		if a.Key == ValueKey {
			a = h.mask(a)
		}
		attrs = append(attrs, a)
		return true
	})

	nr := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	nr.AddAttrs(attrs...)
	return h.slog.Handle(ctx, nr)
}

func (h *Handler) sensitive(record slog.Record) bool {
	var found bool
	record.Attrs(func(a slog.Attr) bool {
		if a.Key != PathKey {
			return true
		}

		p, err := fieldpath.Parse(a.Value.String())
		if err != nil {
			// unparseable locations are masked rather than risk leaking them
			found = true
			return false
		}
		for _, sp := range h.paths {
			if p.HasPrefix(sp) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		slog:  h.slog.WithAttrs(attrs),
		paths: h.paths,
		mask:  h.mask,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog:  h.slog.WithGroup(name),
		paths: h.paths,
		mask:  h.mask,
	}
}
