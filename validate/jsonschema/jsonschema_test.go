// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jsonschema

import (
	"context"
	"strings"
	"testing"

	"github.com/z5labs/formstate/validate"

	"github.com/stretchr/testify/assert"
)

const signupSchema = `{
	"type": "object",
	"required": ["name", "email"],
	"properties": {
		"name": {"type": "string", "minLength": 3},
		"email": {"type": "string"},
		"tags": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

func TestNew(t *testing.T) {
	t.Run("will return an InvalidSchemaError", func(t *testing.T) {
		t.Run("if the document is not json", func(t *testing.T) {
			_, err := New(strings.NewReader(`{`))

			var iserr InvalidSchemaError
			if !assert.ErrorAs(t, err, &iserr) {
				return
			}
		})

		t.Run("if the document is not a valid schema", func(t *testing.T) {
			_, err := New(strings.NewReader(`{"type": 5}`))

			var iserr InvalidSchemaError
			if !assert.ErrorAs(t, err, &iserr) {
				return
			}
		})
	})
}

func TestSchema_Validate(t *testing.T) {
	t.Run("will return no issues", func(t *testing.T) {
		t.Run("if the value is valid", func(t *testing.T) {
			s, err := New(strings.NewReader(signupSchema))
			if !assert.Nil(t, err) {
				return
			}

			res, err := s.Validate(context.Background(), map[string]any{
				"name":  "michael",
				"email": "michael@example.com",
				"tags":  []any{"a", "b"},
			})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Nil(t, res.Issues) {
				return
			}
		})
	})

	t.Run("will report missing properties at the path of the property", func(t *testing.T) {
		s, err := New(strings.NewReader(signupSchema))
		if !assert.Nil(t, err) {
			return
		}

		res, err := s.Validate(context.Background(), map[string]any{"name": "michael"})
		if !assert.Nil(t, err) {
			return
		}

		expected := []validate.SchemaIssue{
			{Path: []any{"email"}, Message: "missing property 'email'"},
		}
		if !assert.Equal(t, expected, res.Issues) {
			return
		}
	})

	t.Run("will report array positions as ints", func(t *testing.T) {
		s, err := New(strings.NewReader(signupSchema))
		if !assert.Nil(t, err) {
			return
		}

		res, err := s.Validate(context.Background(), map[string]any{
			"name":  "michael",
			"email": "michael@example.com",
			"tags":  []any{"a", true},
		})
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Len(t, res.Issues, 1) {
			return
		}
		if !assert.Equal(t, []any{"tags", 1}, res.Issues[0].Path) {
			return
		}
		if !assert.Contains(t, res.Issues[0].Message, "want string") {
			return
		}
	})

	t.Run("will return the context error", func(t *testing.T) {
		t.Run("if the context is already cancelled", func(t *testing.T) {
			s, err := New(strings.NewReader(signupSchema))
			if !assert.Nil(t, err) {
				return
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err = s.Validate(ctx, map[string]any{})
			if !assert.ErrorIs(t, err, context.Canceled) {
				return
			}
		})
	})

	t.Run("will integrate with validate.Run", func(t *testing.T) {
		s, err := New(strings.NewReader(signupSchema))
		if !assert.Nil(t, err) {
			return
		}

		issues, err := validate.Run(context.Background(), map[string]any{
			"name":  "mi",
			"email": "michael@example.com",
		}, nil, s)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Len(t, issues, 1) {
			return
		}
		if !assert.Equal(t, "name", issues[0].Path.String()) {
			return
		}
		if !assert.Equal(t, "minLength: got 2, want 3", issues[0].Message) {
			return
		}
	})
}
