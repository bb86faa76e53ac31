// Package metrics exposes Prometheus instruments for the rendezvous server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Read outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeCanceled  = "canceled"
	OutcomeTimeout   = "timeout"
	OutcomeClosed    = "closed"
)

type Metrics struct {
	writes   prometheus.Counter
	reads    *prometheus.CounterVec
	readWait prometheus.Histogram
	channels prometheus.GaugeFunc

	gatherer prometheus.Gatherer
}

// New registers the rendezvous instruments on reg. channels is polled on
// every scrape to report the number of open channels; it may be nil.
func New(reg *prometheus.Registry, channels func() int) *Metrics {
	m := &Metrics{
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rendezvous_writes_total",
			Help: "Values written to rendezvous channels.",
		}),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rendezvous_reads_total",
			Help: "Read requests by outcome.",
		}, []string{"outcome"}),
		readWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rendezvous_read_wait_seconds",
			Help:    "Time a read request waited for a value.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		gatherer: reg,
	}

	if channels == nil {
		channels = func() int { return 0 }
	}
	m.channels = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rendezvous_channels",
		Help: "Channels currently known to the hub.",
	}, func() float64 { return float64(channels()) })

	reg.MustRegister(m.writes, m.reads, m.readWait, m.channels)

	// Pre-create outcome series so they are exported from the first scrape.
	for _, o := range []string{OutcomeDelivered, OutcomeCanceled, OutcomeTimeout, OutcomeClosed} {
		m.reads.WithLabelValues(o)
	}

	return m
}

func (m *Metrics) ObserveWrite() {
	m.writes.Inc()
}

func (m *Metrics) ObserveRead(outcome string, waited time.Duration) {
	m.reads.WithLabelValues(outcome).Inc()
	if outcome == OutcomeDelivered {
		m.readWait.Observe(waited.Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
