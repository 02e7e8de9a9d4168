package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(time.Minute, 0)
	defer c.Stop()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.removeExpired()
	assert.Equal(t, 0, c.Len())
}

func TestCache_DeletePrefix(t *testing.T) {
	c := NewCache(time.Minute, 0)
	defer c.Stop()

	c.Set("notifications:user:1:list:all", "x")
	c.Set("notifications:user:1:unread", 3)
	c.Set("notifications:user:12:unread", 1)

	assert.Equal(t, 2, c.DeletePrefix("notifications:user:1:"))
	_, ok := c.Get("notifications:user:12:unread")
	assert.True(t, ok)
}

func TestCache_StopIsIdempotent(t *testing.T) {
	c := NewCache(time.Minute, time.Millisecond)
	c.Stop()
	c.Stop()
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, Unique([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, Unique([]string{}))
	assert.True(t, Contains([]string{"a", "b"}, "b"))
}
