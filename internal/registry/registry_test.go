package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_crm/internal/common"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("b", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("b", 2)
	require.NoError(t, err)
	assert.False(t, isNew)

	r.MustRegister("a", 3)

	v, ok := r.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"a", "b"}, r.Keys())

	_, err = r.Register("", 0)
	assert.True(t, errors.Is(err, common.ErrInvalidRequest))
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry[string]()
	r.MustRegister("x", "value")

	var cleaned string
	deleted, err := r.Clear("x", func(v string) error {
		cleaned = v
		return nil
	})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "value", cleaned)

	deleted, err = r.Clear("x", nil)
	require.NoError(t, err)
	assert.False(t, deleted)
}
