package algebra

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics
// from the arithmetic and compression kernels. Implement it to integrate with
// monitoring systems; implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordMulVec is called after each matrix-vector or vector-matrix
	// product. nonzeros is the operand's stored entry count.
	RecordMulVec(duration time.Duration, nonzeros int)

	// RecordMul is called after each matrix-matrix product. nonzeros is the
	// entry count of the result.
	RecordMul(duration time.Duration, nonzeros int)

	// RecordCompress is called after each sparse-to-compressed transition.
	// kept and dropped count the entries that survived and the entries
	// filtered by the zero tolerance.
	RecordCompress(duration time.Duration, kept, dropped int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMulVec(time.Duration, int)        {}
func (NoopMetricsCollector) RecordMul(time.Duration, int)           {}
func (NoopMetricsCollector) RecordCompress(time.Duration, int, int) {}

// BasicMetricsCollector provides simple in-memory metrics collection, useful
// for debugging and benchmarking without external dependencies.
type BasicMetricsCollector struct {
	MulVecCount      atomic.Int64
	MulVecTotalNanos atomic.Int64
	MulCount         atomic.Int64
	MulTotalNanos    atomic.Int64
	CompressCount    atomic.Int64
	EntriesKept      atomic.Int64
	EntriesDropped   atomic.Int64
}

func (c *BasicMetricsCollector) RecordMulVec(d time.Duration, _ int) {
	c.MulVecCount.Add(1)
	c.MulVecTotalNanos.Add(int64(d))
}

func (c *BasicMetricsCollector) RecordMul(d time.Duration, _ int) {
	c.MulCount.Add(1)
	c.MulTotalNanos.Add(int64(d))
}

func (c *BasicMetricsCollector) RecordCompress(_ time.Duration, kept, dropped int) {
	c.CompressCount.Add(1)
	c.EntriesKept.Add(int64(kept))
	c.EntriesDropped.Add(int64(dropped))
}

// AverageMulVec returns the mean duration of recorded matrix-vector products.
func (c *BasicMetricsCollector) AverageMulVec() time.Duration {
	n := c.MulVecCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.MulVecTotalNanos.Load() / n)
}
