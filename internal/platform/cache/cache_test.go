package cache

import (
	"testing"

	"otnanalyzer/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, Key("f6f6", "16320"), Key("f6f6", "16320"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.NotEqual(t, Key("ab"), Key("ab", ""))
}

func TestLRU(t *testing.T) {
	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss"))

	c := New[string](2)
	c.Add(1, "one")
	c.Add(2, "two")
	_, _ = c.Get(1) // 1 is now most recent
	c.Add(3, "three")

	_, ok := c.Get(2)
	assert.False(t, ok, "2 should have been evicted")
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "one", v)
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, hits+2, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")))

	c.Remove(1)
	assert.Equal(t, 1, c.Len())
	c.Remove(42)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestDisabled(t *testing.T) {
	c := New[int](0)
	assert.Nil(t, c)
	c.Add(1, 1)
	c.Remove(1)
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Purge()
}
