package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquireMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	assert.True(t, c.TryAcquireMemory(60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	assert.False(t, c.TryAcquireMemory(50), "reservation above the limit must be denied")
	assert.Equal(t, int64(60), c.MemoryUsage())

	c.ReleaseMemory(60)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(100))
}

func TestUnlimitedController(t *testing.T) {
	c := NewController(Config{})
	assert.True(t, c.TryAcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
}

func TestNilControllerIsUnlimited(t *testing.T) {
	var c *Controller
	assert.True(t, c.TryAcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.NoError(t, c.WaitBlit(context.Background(), 1<<20))
}

func TestWaitBlitRespectsContext(t *testing.T) {
	c := NewController(Config{BlitBytesPerSec: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Burst capacity is 1 byte/s, so a large request cannot be satisfied
	// before the deadline.
	err := c.WaitBlit(ctx, 1<<20)
	require.Error(t, err)
}
