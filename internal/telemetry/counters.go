// Package telemetry wires a private Prometheus registry for in-process
// counters. The registry is never bound to an HTTP listener — this
// reader does no networking — it is only ever flushed as text
// exposition format into the diagnostic sink at clean shutdown.
package telemetry

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Counters holds every metric this reader emits.
type Counters struct {
	registry *prometheus.Registry

	EventsTotal       *prometheus.CounterVec
	DecodeErrorsTotal prometheus.Counter
	UnknownOrderTotal *prometheus.CounterVec
	DuplicateAddTotal prometheus.Counter
}

// New registers every counter on a fresh, unexposed registry.
func New() *Counters {
	reg := prometheus.NewRegistry()

	c := &Counters{
		registry: reg,
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "depthfeed_events_total",
			Help: "Events applied to the order book, by wire msg_type.",
		}, []string{"type"}),
		DecodeErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depthfeed_decode_errors_total",
			Help: "Fatal decode failures (truncated record, unknown msg_type, msg_size mismatch).",
		}),
		UnknownOrderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "depthfeed_unknown_order_total",
			Help: "Operations that referenced an order_id absent from the index, by operation.",
		}, []string{"op"}),
		DuplicateAddTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "depthfeed_duplicate_add_total",
			Help: "ADD events rejected because order_id was already resting.",
		}),
	}

	reg.MustRegister(c.EventsTotal, c.DecodeErrorsTotal, c.UnknownOrderTotal, c.DuplicateAddTotal)
	return c
}

// IncUnknownOrder implements book.Metrics.
func (c *Counters) IncUnknownOrder(op string) { c.UnknownOrderTotal.WithLabelValues(op).Inc() }

// IncDuplicateAdd implements book.Metrics.
func (c *Counters) IncDuplicateAdd() { c.DuplicateAddTotal.Inc() }

// IncEvent records one applied event of the given wire msg_type.
func (c *Counters) IncEvent(msgType string) { c.EventsTotal.WithLabelValues(msgType).Inc() }

// IncDecodeError records one fatal decode failure.
func (c *Counters) IncDecodeError() { c.DecodeErrorsTotal.Inc() }

// WriteSummary flushes every registered metric family as Prometheus text
// exposition format to w. Used once, after the event loop returns (clean
// end of stream or fatal decode error), to append a summary to debug.log.
func (c *Counters) WriteSummary(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
