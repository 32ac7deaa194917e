// Package metrics counts tracker operations and persistence failures in a
// private Prometheus registry.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the tracker counters.
type Metrics struct {
	registry            *prometheus.Registry
	operations          *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
}

// New creates the counters and registers them in a fresh registry. Characters
// not allowed in metric names are replaced with underscores.
func New(namespace string) *Metrics {
	namespace = sanitize(namespace)
	if namespace == "" {
		namespace = "tracker"
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Tracker operations by name and result.",
		}, []string{"operation", "result"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Failed document loads and saves.",
		}, []string{"op", "document"}),
	}
	m.registry.MustRegister(m.operations, m.persistenceFailures)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// PersistenceFailure counts a failed load or save.
func (m *Metrics) PersistenceFailure(op, document string) {
	m.persistenceFailures.WithLabelValues(op, document).Inc()
}

// Operation counts one tracker operation.
func (m *Metrics) Operation(name, result string) {
	m.operations.WithLabelValues(name, result).Inc()
}

// Report renders every non-zero counter as "name{labels} value" lines,
// sorted for stable output.
func (m *Metrics) Report() (string, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			value := metric.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), value))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
