// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package jsonschema adapts JSON Schema documents into [validate.Schema]s.
package jsonschema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/z5labs/formstate/validate"

	js "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultURL is the resource location schemas are registered under
// when no other is given with [URL].
const DefaultURL = "formstate://schema.json"

// InvalidSchemaError occurs when the schema document cannot be
// parsed or compiled.
type InvalidSchemaError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid json schema: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidSchemaError) Unwrap() error {
	return e.Cause
}

// Option configures a [Schema].
type Option func(*Schema)

// URL sets the resource location of the schema document. Relative
// $ref's within the document are resolved against it.
func URL(url string) Option {
	return func(s *Schema) {
		s.url = url
	}
}

// AssertFormat enables validation of the "format" keyword.
func AssertFormat() Option {
	return func(s *Schema) {
		s.assertFormat = true
	}
}

// Language sets the language messages are rendered in. English is the default.
func Language(tag language.Tag) Option {
	return func(s *Schema) {
		s.printer = message.NewPrinter(tag)
	}
}

// Schema is a compiled JSON Schema document which implements [validate.Schema].
type Schema struct {
	url          string
	assertFormat bool
	printer      *message.Printer

	compiled *js.Schema
}

// New reads and compiles the JSON Schema document from r.
func New(r io.Reader, opts ...Option) (*Schema, error) {
	s := &Schema{
		url:     DefaultURL,
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := js.UnmarshalJSON(r)
	if err != nil {
		return nil, InvalidSchemaError{Cause: err}
	}

	c := js.NewCompiler()
	if s.assertFormat {
		c.AssertFormat()
	}
	err = c.AddResource(s.url, doc)
	if err != nil {
		return nil, InvalidSchemaError{Cause: err}
	}

	compiled, err := c.Compile(s.url)
	if err != nil {
		return nil, InvalidSchemaError{Cause: err}
	}
	s.compiled = compiled
	return s, nil
}

// Validate implements the [validate.Schema] interface.
//
// Every leaf failure is reported as its own issue. A missing required
// property is reported at the path of the property instead of at the
// object which is missing it.
func (s *Schema) Validate(ctx context.Context, value any) (validate.SchemaResult, error) {
	if err := ctx.Err(); err != nil {
		return validate.SchemaResult{}, err
	}

	err := s.compiled.Validate(value)
	if err == nil {
		return validate.SchemaResult{}, nil
	}

	var verr *js.ValidationError
	if !errors.As(err, &verr) {
		return validate.SchemaResult{}, err
	}

	var issues []validate.SchemaIssue
	for _, leaf := range leaves(verr, nil) {
		issues = append(issues, s.issuesFor(leaf, value)...)
	}
	return validate.SchemaResult{Issues: issues}, nil
}

func leaves(verr *js.ValidationError, acc []*js.ValidationError) []*js.ValidationError {
	if len(verr.Causes) == 0 {
		return append(acc, verr)
	}
	for _, cause := range verr.Causes {
		acc = leaves(cause, acc)
	}
	return acc
}

func (s *Schema) issuesFor(verr *js.ValidationError, value any) []validate.SchemaIssue {
	loc := segments(verr.InstanceLocation, value)

	required, ok := verr.ErrorKind.(*kind.Required)
	if !ok {
		return []validate.SchemaIssue{{
			Path:    loc,
			Message: verr.ErrorKind.LocalizedString(s.printer),
		}}
	}

	issues := make([]validate.SchemaIssue, 0, len(required.Missing))
	for _, name := range required.Missing {
		path := append(loc[:len(loc):len(loc)], name)
		msg := (&kind.Required{Missing: []string{name}}).LocalizedString(s.printer)
		issues = append(issues, validate.SchemaIssue{Path: path, Message: msg})
	}
	return issues
}

// segments converts a JSON pointer style location into path segments.
// Tokens addressing into an array become ints.
func segments(location []string, value any) []any {
	segs := make([]any, 0, len(location))
	cur := value
	for _, tok := range location {
		switch x := cur.(type) {
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(x) {
				segs = append(segs, tok)
				cur = nil
				continue
			}
			segs = append(segs, i)
			cur = x[i]
		case map[string]any:
			segs = append(segs, tok)
			cur = x[tok]
		default:
			segs = append(segs, tok)
			cur = nil
		}
	}
	return segs
}
