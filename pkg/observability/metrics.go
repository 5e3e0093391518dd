package observability

import (
	"context"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts validations by outcome and records their latency.
type Metrics struct {
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concerto_validations_total",
				Help: "Total number of validations by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "concerto_validation_duration_seconds",
				Help:    "Duration of validation calls",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"result"},
		),
	}
	for _, c := range []prometheus.Collector{m.validations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidationEnd: func(_ context.Context, e *domain.ValidationEvent) {
			result := Result(e)
			m.validations.WithLabelValues(result).Inc()
			m.duration.WithLabelValues(result).Observe(e.Duration.Seconds())
		},
	}
}

// Result labels an event: "valid" or the error kind code.
func Result(e *domain.ValidationEvent) string {
	if e.Err == nil {
		return "valid"
	}
	if k := e.ErrorKind(); k != 0 {
		return k.Code()
	}
	return "error"
}

// Chain runs several hook sets in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidationStart: func(ctx context.Context, e *domain.ValidationEvent) {
			for _, h := range hooks {
				if h.OnValidationStart != nil {
					h.OnValidationStart(ctx, e)
				}
			}
		},
		OnValidationEnd: func(ctx context.Context, e *domain.ValidationEvent) {
			for _, h := range hooks {
				if h.OnValidationEnd != nil {
					h.OnValidationEnd(ctx, e)
				}
			}
		},
	}
}
