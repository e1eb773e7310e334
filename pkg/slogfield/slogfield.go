// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides typed [slog.Attr] constructors for form state.
package slogfield

import (
	"log/slog"
	"time"

	"github.com/z5labs/formstate/fieldpath"
)

// Keys of the attributes the form packages log values and their locations under.
const (
	PathKey   = "path"
	ValueKey  = "value"
	FormIDKey = "form_id"
)

// Any returns an slog.Attr for the supplied value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Error returns an slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Strings returns an slog.Attr for a slice of strings.
func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Path returns an slog.Attr for a form location rendered in its
// dotted notation, e.g. users[2].name.
func Path(key string, p fieldpath.Path) slog.Attr {
	return slog.String(key, p.String())
}

// FormID returns an slog.Attr identifying a form instance.
func FormID(id string) slog.Attr {
	return slog.String(FormIDKey, id)
}
