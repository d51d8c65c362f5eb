package engine

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts validation runs and failed rules.
// A nil *Metrics records nothing.
type Metrics struct {
	validations *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
// Counters already registered with reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "validator",
			Name:      "validations_total",
			Help:      "Validation runs by result.",
		}, []string{"result"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "validator",
			Name:      "field_failures_total",
			Help:      "Failed field checks by rule tag.",
		}, []string{"rule"}),
	}

	var err error
	if m.validations, err = register(reg, m.validations); err != nil {
		return nil, err
	}
	if m.failures, err = register(reg, m.failures); err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *Metrics) observe(passed bool) {
	if m == nil {
		return
	}
	result := "fail"
	if passed {
		result = "pass"
	}
	m.validations.WithLabelValues(result).Inc()
}

func (m *Metrics) failure(rule string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(rule).Inc()
}

// Validations exposes the run counter, mainly for tests and dashboards.
func (m *Metrics) Validations() *prometheus.CounterVec {
	return m.validations
}

// Failures exposes the per-rule failure counter.
func (m *Metrics) Failures() *prometheus.CounterVec {
	return m.failures
}
