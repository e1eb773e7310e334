// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/z5labs/formstate/fieldpath"

	"github.com/stretchr/testify/assert"
)

func TestRead(t *testing.T) {
	t.Run("will return nil", func(t *testing.T) {
		t.Run("if no sources are given", func(t *testing.T) {
			v, err := Read()
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Nil(t, v) {
				return
			}
		})
	})

	t.Run("will override only the leaves defined by later sources", func(t *testing.T) {
		defaults := Map{
			"user": map[string]any{
				"name":  "",
				"email": "",
			},
			"tags": []string{"a", "b"},
		}
		overrides := FromYaml(strings.NewReader(`
user:
  name: michael
tags:
  - c
`))

		v, err := Read(defaults, overrides)
		if !assert.Nil(t, err) {
			return
		}

		expected := map[string]any{
			"user": map[string]any{
				"name":  "michael",
				"email": "",
			},
			"tags": []any{"c"},
		}
		if !assert.Equal(t, expected, v) {
			return
		}
	})

	t.Run("will layer json over yaml", func(t *testing.T) {
		v, err := Read(
			FromYaml(strings.NewReader("count: 1\nname: a\n")),
			FromJson(strings.NewReader(`{"count": 2}`)),
		)
		if !assert.Nil(t, err) {
			return
		}

		expected := map[string]any{
			"count": float64(2),
			"name":  "a",
		}
		if !assert.Equal(t, expected, v) {
			return
		}
	})

	t.Run("will support top level arrays", func(t *testing.T) {
		v, err := Read(FromJson(strings.NewReader(`[{"id": "a"}]`)))
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, []any{map[string]any{"id": "a"}}, v) {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the yaml is invalid", func(t *testing.T) {
			_, err := Read(FromYaml(strings.NewReader("a: [")))

			var yerr InvalidYamlError
			if !assert.ErrorAs(t, err, &yerr) {
				return
			}
		})

		t.Run("if the json is invalid", func(t *testing.T) {
			_, err := Read(FromJson(strings.NewReader("{")))

			var jerr InvalidJsonError
			if !assert.ErrorAs(t, err, &jerr) {
				return
			}
		})

		t.Run("if a later source changes the shape of an earlier one", func(t *testing.T) {
			_, err := Read(
				Value{V: map[string]any{"tags": []any{"a"}}},
				Map{"tags": map[string]any{"first": "a"}},
			)

			var rerr fieldpath.ResolutionError
			if !assert.ErrorAs(t, err, &rerr) {
				return
			}
		})
	})
}

func TestEnv_Apply(t *testing.T) {
	env := Env{
		prefix: "FORM_",
		environ: func() []string {
			return []string{
				"FORM_USER__NAME=michael",
				"FORM_TITLE=manager",
				"HOME=/root",
				"FORM_",
				"malformed",
			}
		},
	}

	v, err := Read(env)
	if !assert.Nil(t, err) {
		return
	}

	expected := map[string]any{
		"USER":  map[string]any{"NAME": "michael"},
		"TITLE": "manager",
	}
	if !assert.Equal(t, expected, v) {
		return
	}
}

func TestRenderTextTemplate(t *testing.T) {
	t.Run("will render the template with registered funcs", func(t *testing.T) {
		r := RenderTextTemplate(
			strings.NewReader(`name: {{ upper "michael" }}`),
			TemplateFunc("upper", strings.ToUpper),
		)

		v, err := Read(FromYaml(r))
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"name": "MICHAEL"}, v) {
			return
		}
	})

	t.Run("will use custom delimiters", func(t *testing.T) {
		r := RenderTextTemplate(
			strings.NewReader(`{"name": "<< print "dwight" >>"}`),
			TemplateDelims("<<", ">>"),
		)

		v, err := Read(FromJson(r))
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"name": "dwight"}, v) {
			return
		}
	})

	t.Run("will return a TextTemplateParseError", func(t *testing.T) {
		t.Run("if the template is malformed", func(t *testing.T) {
			r := RenderTextTemplate(strings.NewReader(`{{ unknown }}`))

			_, err := io.ReadAll(r)

			var perr TextTemplateParseError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
		})
	})

	t.Run("will return a TextTemplateExecError", func(t *testing.T) {
		t.Run("if a template func fails", func(t *testing.T) {
			failure := errors.New("lookup failed")
			r := RenderTextTemplate(
				strings.NewReader(`{{ fail }}`),
				TemplateFunc("fail", func() (string, error) { return "", failure }),
			)

			_, err := io.ReadAll(r)

			var eerr TextTemplateExecError
			if !assert.ErrorAs(t, err, &eerr) {
				return
			}
			if !assert.ErrorIs(t, err, failure) {
				return
			}
		})
	})
}

type fsFunc func(string) (fs.File, error)

func (f fsFunc) Open(path string) (fs.File, error) {
	return f(path)
}

func TestFileReader_Read(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the fs.FS fails to open the file", func(t *testing.T) {
			openErr := errors.New("failed to open")
			fsys := fsFunc(func(string) (fs.File, error) {
				return nil, openErr
			})

			r := NewFileReader(fsys, "form.yaml")
			_, err := io.ReadAll(r)
			if !assert.ErrorIs(t, err, openErr) {
				return
			}
		})

		t.Run("if read after being closed", func(t *testing.T) {
			fsys := fstest.MapFS{
				"form.yaml": &fstest.MapFile{Data: []byte("name: a")},
			}

			r := NewFileReader(fsys, "form.yaml")
			_, err := io.ReadAll(r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Nil(t, r.Close()) {
				return
			}

			_, err = r.Read(make([]byte, 1))
			if !assert.ErrorIs(t, err, fs.ErrClosed) {
				return
			}
		})
	})

	t.Run("will be closed by the source reading it", func(t *testing.T) {
		fsys := fstest.MapFS{
			"form.yaml": &fstest.MapFile{Data: []byte("name: a")},
		}

		r := NewFileReader(fsys, "form.yaml")
		v, err := Read(FromYaml(r))
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"name": "a"}, v) {
			return
		}
		if !assert.Nil(t, r.file) {
			return
		}
	})
}

func TestFileReader_Close(t *testing.T) {
	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if Close is called before the underlying file has been opened", func(t *testing.T) {
			fsys := fsFunc(func(string) (fs.File, error) {
				return nil, nil
			})

			r := NewFileReader(fsys, "form.yaml")
			err := r.Close()
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}
