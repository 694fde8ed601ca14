package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 42, 0)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, c.Len())

	_, ok = c.Get("absent")
	assert.False(t, ok)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", "v", time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheOverwrite(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 1, 0)
	c.Set("k", 2, 0)
	v, _ := c.Get("k")
	assert.Equal(t, 2, v)
}
