package fieldtape

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement it to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordSet is called after each Set. bytes is the value's byte
	// length, err is nil on success.
	RecordSet(bytes int, duration time.Duration, err error)

	// RecordGet is called after each Get or GetByHandle.
	RecordGet(duration time.Duration, err error)

	// RecordRemove is called after each effective Remove. moved is the
	// number of tape bytes shifted by the compaction.
	RecordRemove(moved int, duration time.Duration)

	// RecordBlit is called after each blit encode. raw and encoded are
	// the tape size and the framed output size in bytes.
	RecordBlit(raw, encoded int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSet(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordGet(time.Duration, error)            {}
func (NoopMetricsCollector) RecordRemove(int, time.Duration)           {}
func (NoopMetricsCollector) RecordBlit(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external
// dependencies.
type BasicMetricsCollector struct {
	SetCount       atomic.Int64
	SetErrors      atomic.Int64
	SetBytes       atomic.Int64
	SetTotalNanos  atomic.Int64
	GetCount       atomic.Int64
	GetErrors      atomic.Int64
	GetTotalNanos  atomic.Int64
	RemoveCount    atomic.Int64
	BytesMoved     atomic.Int64
	BlitCount      atomic.Int64
	BlitErrors     atomic.Int64
	BlitRawBytes   atomic.Int64
	BlitOutBytes   atomic.Int64
}

// RecordSet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSet(bytes int, duration time.Duration, err error) {
	b.SetCount.Add(1)
	b.SetBytes.Add(int64(bytes))
	b.SetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SetErrors.Add(1)
	}
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(moved int, duration time.Duration) {
	b.RemoveCount.Add(1)
	b.BytesMoved.Add(int64(moved))
}

// RecordBlit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlit(raw, encoded int, duration time.Duration, err error) {
	b.BlitCount.Add(1)
	b.BlitRawBytes.Add(int64(raw))
	b.BlitOutBytes.Add(int64(encoded))
	if err != nil {
		b.BlitErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SetCount:     b.SetCount.Load(),
		SetErrors:    b.SetErrors.Load(),
		SetBytes:     b.SetBytes.Load(),
		SetAvgNanos:  avg(b.SetTotalNanos.Load(), b.SetCount.Load()),
		GetCount:     b.GetCount.Load(),
		GetErrors:    b.GetErrors.Load(),
		GetAvgNanos:  avg(b.GetTotalNanos.Load(), b.GetCount.Load()),
		RemoveCount:  b.RemoveCount.Load(),
		BytesMoved:   b.BytesMoved.Load(),
		BlitCount:    b.BlitCount.Load(),
		BlitErrors:   b.BlitErrors.Load(),
		BlitRawBytes: b.BlitRawBytes.Load(),
		BlitOutBytes: b.BlitOutBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SetCount     int64
	SetErrors    int64
	SetBytes     int64
	SetAvgNanos  int64
	GetCount     int64
	GetErrors    int64
	GetAvgNanos  int64
	RemoveCount  int64
	BytesMoved   int64
	BlitCount    int64
	BlitErrors   int64
	BlitRawBytes int64
	BlitOutBytes int64
}
