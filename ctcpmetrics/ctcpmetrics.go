// Package ctcpmetrics adapts ctcp.MetricsCollector onto Prometheus, the way
// the runZeroInc-conniver/runZeroInc-sockstats exporter packages adapt Linux
// tcp_info onto Prometheus: a handful of counters and gauges registered
// against a caller-supplied prometheus.Registerer, with no dependency on any
// particular HTTP exposition framework.
package ctcpmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cs144/ctcp"
)

// Collector implements ctcp.MetricsCollector by registering a small set of
// counters and gauges with Prometheus. The zero value is not usable; build
// one with New.
type Collector struct {
	segmentsSent     *prometheus.CounterVec
	segmentsReceived *prometheus.CounterVec
	segmentsDropped  prometheus.Counter
	retransmits      prometheus.Counter
	bytesDelivered   prometheus.Counter
	connsOpened      prometheus.Counter
	connsClosed      *prometheus.CounterVec
	liveConns        prometheus.Gauge
}

// New creates a Collector and registers its metrics with reg under the
// given namespace (e.g. "ctcp"). reg is typically prometheus.DefaultRegisterer
// or a prometheus.NewRegistry() dedicated to tests.
func New(reg prometheus.Registerer, namespace string) *Collector {
	c := &Collector{
		segmentsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_sent_total",
			Help:      "Segments transmitted, labeled by flag combination.",
		}, []string{"flags"}),
		segmentsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_received_total",
			Help:      "Segments accepted off the wire, labeled by flag combination.",
		}, []string{"flags"}),
		segmentsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_dropped_total",
			Help:      "Inbound segments discarded for failing checksum or framing validation, or for acking bytes never sent.",
		}),
		retransmits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retransmits_total",
			Help:      "Retransmissions of the oldest unacknowledged segment.",
		}),
		bytesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_delivered_total",
			Help:      "Payload bytes handed to the application sink, in order.",
		}),
		connsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_opened_total",
			Help:      "Connections registered via Registry.Init.",
		}),
		connsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_closed_total",
			Help:      "Connections destroyed, labeled by teardown cause.",
		}, []string{"cause"}),
		liveConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_live",
			Help:      "Connections currently registered.",
		}),
	}
	reg.MustRegister(
		c.segmentsSent,
		c.segmentsReceived,
		c.segmentsDropped,
		c.retransmits,
		c.bytesDelivered,
		c.connsOpened,
		c.connsClosed,
		c.liveConns,
	)
	return c
}

var _ ctcp.MetricsCollector = (*Collector)(nil)

func (c *Collector) ObserveSegmentSent(flags ctcp.Flags, dataLen int) {
	c.segmentsSent.WithLabelValues(flags.String()).Inc()
}

func (c *Collector) ObserveSegmentReceived(flags ctcp.Flags, dataLen int) {
	c.segmentsReceived.WithLabelValues(flags.String()).Inc()
}

func (c *Collector) ObserveSegmentDropped() {
	c.segmentsDropped.Inc()
}

func (c *Collector) ObserveRetransmit() {
	c.retransmits.Inc()
}

func (c *Collector) ObserveBytesDelivered(n int) {
	c.bytesDelivered.Add(float64(n))
}

func (c *Collector) ObserveConnOpened() {
	c.connsOpened.Inc()
}

func (c *Collector) ObserveConnClosed(cause ctcp.TeardownCause) {
	c.connsClosed.WithLabelValues(cause.String()).Inc()
}

func (c *Collector) ObserveRegistrySize(n int) {
	c.liveConns.Set(float64(n))
}
