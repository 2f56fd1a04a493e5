package prommetrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromMetrics implements the redisconn.Metrics interface using Prometheus.
// Hand it to a ClientResources to expose connection-factory statistics.
type PromMetrics struct {
	initTotal    *prometheus.CounterVec
	pingTotal    *prometheus.CounterVec
	closeTotal   *prometheus.CounterVec
	initDuration prometheus.Histogram
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return fmt.Errorf("register collector: %w", err)
	}
	return nil
}

// New creates a PromMetrics instance and registers all metrics with the
// provided registry. Namespace and subsystem prefix the metric names.
//
// Metrics registered:
//   - {namespace}_{subsystem}_init_total{mode, result} - client constructions by topology and result
//   - {namespace}_{subsystem}_ping_total{result} - ping probes by result
//   - {namespace}_{subsystem}_close_total{result} - client shutdowns by result
//   - {namespace}_{subsystem}_init_duration_seconds - histogram of init duration
func New(reg prometheus.Registerer, namespace, subsystem string) (*PromMetrics, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is nil")
	}

	pm := &PromMetrics{
		initTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "init_total", Help: "Client constructions by topology mode and result",
		}, []string{"mode", "result"}),

		pingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "ping_total", Help: "Ping probes by result",
		}, []string{"result"}),

		closeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "close_total", Help: "Client shutdowns by result",
		}, []string{"result"}),

		initDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "init_duration_seconds",
			Help:    "Duration of client construction",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}

	for _, c := range []prometheus.Collector{pm.initTotal, pm.pingTotal, pm.closeTotal, pm.initDuration} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}

	return pm, nil
}

func (m *PromMetrics) InitObserved(mode, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.initTotal.WithLabelValues(mode, result).Inc()
	m.initDuration.Observe(elapsed.Seconds())
}

func (m *PromMetrics) PingObserved(result string) {
	if m == nil {
		return
	}
	m.pingTotal.WithLabelValues(result).Inc()
}

func (m *PromMetrics) CloseObserved(result string) {
	if m == nil {
		return
	}
	m.closeTotal.WithLabelValues(result).Inc()
}
