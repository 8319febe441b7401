package algebra

// DefaultTolerance is the magnitude below which an entry is treated as
// structurally absent, unless overridden with WithTolerance.
const DefaultTolerance = 1e-8

type options struct {
	tolerance float64
	workers   int
	metrics   MetricsCollector
}

func defaultOptions() options {
	return options{
		tolerance: DefaultTolerance,
		workers:   1,
		metrics:   NoopMetricsCollector{},
	}
}

// Option configures matrix construction behavior. Options are carried by the
// matrix for its whole lifetime and are inherited by matrices derived from it
// (clones, reshapes, products).
type Option func(*options)

// WithTolerance sets the zero tolerance: any entry whose magnitude does not
// exceed eps is suppressed on insertion and dropped on compression. Negative
// values are clamped to zero.
func WithTolerance(eps float64) Option {
	return func(o *options) {
		if eps < 0 {
			eps = 0
		}
		o.tolerance = eps
	}
}

// WithWorkers sets the number of goroutines used for data-parallel passes
// over the flat value sequence in compressed mode (scalar scaling, norm
// reductions). Values below 1 disable parallelism.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithMetricsCollector sets the metrics hook invoked by the arithmetic and
// compression kernels. If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}
