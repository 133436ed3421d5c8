package telegram

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of telegram_requests_total.
const (
	OutcomeOK        = "ok"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
	OutcomeCanceled  = "canceled"
)

// InstrumentedTransport records Prometheus metrics for every call passing
// through it.
type InstrumentedTransport struct {
	next     Transport
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewInstrumentedTransport wraps next and registers its collectors with reg.
// A nil reg leaves the collectors unregistered.
func NewInstrumentedTransport(next Transport, reg prometheus.Registerer) (*InstrumentedTransport, error) {
	t := &InstrumentedTransport{
		next: next,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telegram",
			Name:      "requests_total",
			Help:      "Bot API calls by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "telegram",
			Name:      "request_duration_seconds",
			Help:      "Bot API call latency, long polls included.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{t.requests, t.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// Call implements Transport.
func (t *InstrumentedTransport) Call(ctx context.Context, method string, payload []byte) ([]byte, error) {
	start := time.Now()
	raw, err := t.next.Call(ctx, method, payload)
	t.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	t.requests.WithLabelValues(method, outcome(raw, err)).Inc()
	return raw, err
}

func outcome(raw []byte, err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case err != nil:
		return OutcomeTransport
	}
	resp, derr := decodeEnvelope(raw)
	if derr != nil {
		return OutcomeTransport
	}
	if !resp.OK {
		return OutcomeRejected
	}
	return OutcomeOK
}
