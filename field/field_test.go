// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package field

import (
	"testing"

	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/statetree"

	"github.com/stretchr/testify/assert"
)

type memoryAccess struct {
	value any
	tree  *statetree.Tree
}

func newMemoryAccess(v any) *memoryAccess {
	return &memoryAccess{
		value: v,
		tree:  statetree.New(),
	}
}

func (m *memoryAccess) Value(p fieldpath.Path) (any, error) {
	return p.Get(m.value)
}

func (m *memoryAccess) SetValue(p fieldpath.Path, v any) error {
	root, err := p.With(m.value, v)
	if err != nil {
		return err
	}
	m.value = root
	m.tree.NotifyValueChanged(p, root)
	return nil
}

func (m *memoryAccess) UpdateValue(p fieldpath.Path, f func(any) any) error {
	v, err := p.Get(m.value)
	if err != nil {
		return err
	}
	return m.SetValue(p, f(v))
}

func (m *memoryAccess) SubscribeToValue(p fieldpath.Path, fn func()) func() {
	return m.tree.SubscribeToValue(p, fn)
}

func (m *memoryAccess) Errors(p fieldpath.Path) []string {
	return m.tree.Errors(p)
}

func (m *memoryAccess) SetErrors(p fieldpath.Path, errs []string) {
	m.tree.SetErrors(p, errs)
}

func (m *memoryAccess) SubscribeToErrors(p fieldpath.Path, fn func()) func() {
	return m.tree.SubscribeToErrors(p, fn)
}

func (m *memoryAccess) Blurred(p fieldpath.Path) bool {
	return m.tree.Blurred(p)
}

func (m *memoryAccess) SetBlurred(p fieldpath.Path, blurred bool) {
	m.tree.SetBlurred(p, blurred)
}

func (m *memoryAccess) SubscribeToBlurred(p fieldpath.Path, fn func()) func() {
	return m.tree.SubscribeToBlurred(p, fn)
}

func TestHandle_Property(t *testing.T) {
	t.Run("will derive a handle for the nested path", func(t *testing.T) {
		access := newMemoryAccess(nil)
		root := New(access, fieldpath.Root())

		h := root.Property("users").Element(2).Property("name")

		assert.Equal(t, "users[2].name", h.Path().String())
	})

	t.Run("will not change the parent handle", func(t *testing.T) {
		access := newMemoryAccess(nil)
		user := New(access, fieldpath.Root()).Property("user")

		_ = user.Property("name")
		_ = user.Property("email")

		assert.Equal(t, "user", user.Path().String())
	})
}

func TestHandle_Equal(t *testing.T) {
	a := newMemoryAccess(nil)
	b := newMemoryAccess(nil)

	assert.True(t, New(a, fieldpath.Root()).Property("x").Equal(New(a, fieldpath.Root().WithProperty("x"))))
	assert.False(t, New(a, fieldpath.Root()).Property("x").Equal(New(b, fieldpath.Root().WithProperty("x"))))
	assert.False(t, New(a, fieldpath.Root()).Property("x").Equal(New(a, fieldpath.Root().WithProperty("y"))))
}

func TestHandle_SetValue(t *testing.T) {
	t.Run("will be visible through the parent handle", func(t *testing.T) {
		access := newMemoryAccess(map[string]any{"user": map[string]any{"name": "michael"}})
		root := New(access, fieldpath.Root())

		err := root.Property("user").Property("name").SetValue("dwight")
		if !assert.Nil(t, err) {
			return
		}

		v, err := root.Property("user").Value()
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, map[string]any{"name": "dwight"}, v) {
			return
		}
	})

	t.Run("will notify value listeners of the field and its parent", func(t *testing.T) {
		access := newMemoryAccess(map[string]any{})
		root := New(access, fieldpath.Root())
		name := root.Property("name")

		nameCalls := 0
		name.SubscribeToValue(func() { nameCalls++ })
		rootCalls := 0
		root.SubscribeToValue(func() { rootCalls++ })

		err := name.SetValue("x")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, 1, nameCalls) {
			return
		}
		if !assert.Equal(t, 1, rootCalls) {
			return
		}
	})
}

func TestHandle_UpdateValue(t *testing.T) {
	access := newMemoryAccess(map[string]any{"count": 1})
	count := New(access, fieldpath.Root()).Property("count")

	err := count.UpdateValue(func(v any) any {
		return v.(int) + 1
	})
	if !assert.Nil(t, err) {
		return
	}

	v, err := count.Value()
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 2, v)
}

func TestHandle_Errors(t *testing.T) {
	t.Run("will return an empty non-nil slice", func(t *testing.T) {
		t.Run("if the field has no errors", func(t *testing.T) {
			access := newMemoryAccess(nil)
			errs := New(access, fieldpath.Root()).Property("name").Errors()

			if !assert.NotNil(t, errs) {
				return
			}
			if !assert.Empty(t, errs) {
				return
			}
		})
	})

	t.Run("will notify error listeners", func(t *testing.T) {
		access := newMemoryAccess(nil)
		name := New(access, fieldpath.Root()).Property("name")

		calls := 0
		unsubscribe := name.SubscribeToErrors(func() { calls++ })

		name.SetErrors([]string{"required"})
		unsubscribe()
		name.SetErrors(nil)

		if !assert.Equal(t, 1, calls) {
			return
		}
		if !assert.Empty(t, name.Errors()) {
			return
		}
	})
}

func TestHandle_SetBlurred(t *testing.T) {
	access := newMemoryAccess(nil)
	user := New(access, fieldpath.Root()).Property("user")
	name := user.Property("name")

	calls := 0
	user.SubscribeToBlurred(func() { calls++ })

	name.SetBlurred(true)

	assert.True(t, name.Blurred())
	assert.True(t, user.Blurred())
	assert.False(t, user.Property("email").Blurred())
	assert.Equal(t, 1, calls)
}
