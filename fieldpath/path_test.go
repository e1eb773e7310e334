// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_String(t *testing.T) {
	testCases := []struct {
		Name     string
		Path     Path
		Expected string
	}{
		{
			Name:     "root",
			Path:     Root(),
			Expected: "<form-root>",
		},
		{
			Name:     "single property",
			Path:     Root().WithProperty("foo"),
			Expected: "foo",
		},
		{
			Name:     "nested properties and indexes",
			Path:     Root().WithProperty("foo").WithIndex(2).WithProperty("bar"),
			Expected: "foo[2].bar",
		},
		{
			Name:     "leading index",
			Path:     Root().WithIndex(0).WithProperty("id"),
			Expected: "[0].id",
		},
		{
			Name:     "consecutive indexes",
			Path:     Root().WithProperty("grid").WithIndex(1).WithIndex(3),
			Expected: "grid[1][3]",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			assert.Equal(t, testCase.Expected, testCase.Path.String())
		})
	}
}

func TestPath_WithProperty(t *testing.T) {
	t.Run("will not modify the receiver", func(t *testing.T) {
		t.Run("if two paths are derived from the same parent", func(t *testing.T) {
			parent := Root().WithProperty("a").WithProperty("b")

			left := parent.WithProperty("left")
			right := parent.WithProperty("right")

			if !assert.Equal(t, "a.b", parent.String()) {
				return
			}
			if !assert.Equal(t, "a.b.left", left.String()) {
				return
			}
			if !assert.Equal(t, "a.b.right", right.String()) {
				return
			}
		})

		t.Run("if the parent was produced by SliceTo", func(t *testing.T) {
			full := Root().WithProperty("a").WithProperty("b").WithProperty("c")
			prefix, err := full.SliceTo(1)
			if !assert.Nil(t, err) {
				return
			}

			_ = prefix.WithProperty("z")

			if !assert.Equal(t, "a.b.c", full.String()) {
				return
			}
		})
	})
}

func TestPath_IsRoot(t *testing.T) {
	assert.True(t, Root().IsRoot())
	assert.True(t, Path{}.IsRoot())
	assert.False(t, Root().WithIndex(0).IsRoot())
}

func TestPath_SliceTo(t *testing.T) {
	p := Root().WithProperty("foo").WithIndex(2).WithProperty("bar")

	t.Run("will return a prefix", func(t *testing.T) {
		t.Run("if n is within the path length", func(t *testing.T) {
			prefix, err := p.SliceTo(2)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "foo[2]", prefix.String()) {
				return
			}
		})

		t.Run("if n is zero", func(t *testing.T) {
			prefix, err := p.SliceTo(0)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, prefix.IsRoot()) {
				return
			}
		})

		t.Run("if n is equal to the path length", func(t *testing.T) {
			prefix, err := p.SliceTo(3)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, prefix.Equal(p)) {
				return
			}
		})
	})

	t.Run("will return a SliceRangeError", func(t *testing.T) {
		t.Run("if n is greater than the path length", func(t *testing.T) {
			_, err := p.SliceTo(4)

			var serr SliceRangeError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}
			if !assert.Equal(t, 4, serr.N) {
				return
			}
			if !assert.NotEmpty(t, serr.Error()) {
				return
			}
		})

		t.Run("if n is negative", func(t *testing.T) {
			_, err := p.SliceTo(-1)

			var serr SliceRangeError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}
		})
	})
}

func TestPath_Equal(t *testing.T) {
	a := Root().WithProperty("users").WithIndex(1)
	b := Of(Property("users"), Index(1))
	c := Root().WithProperty("users").WithProperty("1")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Root()))
}

func TestPath_HasPrefix(t *testing.T) {
	p := Root().WithProperty("user").WithProperty("name")

	assert.True(t, p.HasPrefix(Root()))
	assert.True(t, p.HasPrefix(Root().WithProperty("user")))
	assert.True(t, p.HasPrefix(p))
	assert.False(t, p.HasPrefix(Root().WithProperty("name")))
	assert.False(t, Root().WithProperty("user").HasPrefix(p))
}

func TestPath_Compare(t *testing.T) {
	user := Root().WithProperty("user")

	assert.Equal(t, 0, user.Compare(Root().WithProperty("user")))
	assert.Equal(t, -1, Root().Compare(user))
	assert.Equal(t, -1, user.Compare(user.WithProperty("name")))
	assert.Equal(t, -1, Root().WithProperty("a").Compare(Root().WithProperty("b")))
	assert.Equal(t, -1, Root().WithIndex(2).Compare(Root().WithIndex(10)))
	assert.Equal(t, 1, Root().WithIndex(0).Compare(Root().WithProperty("z")))
}

func TestPath_Parent(t *testing.T) {
	p := Root().WithProperty("foo").WithIndex(2)

	assert.Equal(t, "foo", p.Parent().String())
	assert.True(t, Root().Parent().IsRoot())
}

func TestIndex(t *testing.T) {
	t.Run("will panic", func(t *testing.T) {
		t.Run("if the index is negative", func(t *testing.T) {
			assert.Panics(t, func() {
				Root().WithIndex(-1)
			})
		})
	})
}

func TestParse(t *testing.T) {
	testCases := []string{
		"foo",
		"foo[2].bar",
		"[0].id",
		"users[1][3]",
		"a.b.c",
	}

	for _, s := range testCases {
		t.Run(s, func(t *testing.T) {
			p, err := Parse(s)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, s, p.String()) {
				return
			}
		})
	}

	t.Run("will return the root", func(t *testing.T) {
		for _, s := range []string{"", RootName} {
			p, err := Parse(s)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, p.IsRoot()) {
				return
			}
		}
	})

	t.Run("will return a ParseError", func(t *testing.T) {
		invalid := []string{
			"foo[",
			"foo[-1]",
			"foo[x]",
			"foo..bar",
			"foo.",
			".foo",
		}

		for _, s := range invalid {
			_, err := Parse(s)

			var perr ParseError
			if !assert.ErrorAs(t, err, &perr, s) {
				return
			}
		}
	})
}
