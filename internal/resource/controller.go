// Package resource provides the optional budget controller consulted by
// the tape on growth and by blit encoding for byte-rate limiting.
//
// A nil *Controller is valid and means "unlimited"; every method is
// nil-safe so callers never have to branch on configuration.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for tape capacity across all
	// registries sharing this controller. If 0, no limit is enforced
	// (only tracking).
	MemoryLimitBytes int64

	// BlitBytesPerSec caps the throughput of blit encoding.
	// If 0, unlimited.
	BlitBytesPerSec int64
}

// Controller manages a shared memory budget and blit throughput.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	blitLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.BlitBytesPerSec > 0 {
		c.blitLimiter = rate.NewLimiter(rate.Limit(cfg.BlitBytesPerSec), int(cfg.BlitBytesPerSec))
	}

	return c
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
// Tape growth is synchronous and must never block, so there is no
// blocking variant.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// WaitBlit waits until the blit rate limit allows n more bytes.
func (c *Controller) WaitBlit(ctx context.Context, n int) error {
	if c == nil || c.blitLimiter == nil || n <= 0 {
		return nil
	}
	return c.blitLimiter.WaitN(ctx, n)
}
