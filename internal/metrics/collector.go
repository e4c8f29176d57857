// Package metrics exports simulation counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/napolitain/rts-core/internal/engine"
	"github.com/napolitain/rts-core/internal/models"
)

const (
	// Namespace for all metrics
	namespace = "rts"
	// Subsystem for simulation metrics
	subsystem = "sim"
)

// Collector implements engine.Recorder on top of Prometheus metrics
type Collector struct {
	ticksTotal     prometheus.Counter
	units          prometheus.Gauge
	liveWork       prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	workTotal      *prometheus.CounterVec
	resourcesTotal *prometheus.CounterVec
}

var _ engine.Recorder = (*Collector)(nil)

// NewCollector creates the simulation metrics
func NewCollector() *Collector {
	return &Collector{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ticks_total",
			Help:      "Simulation ticks processed",
		}),
		units: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "units",
			Help:      "Units alive after the last tick",
		}),
		liveWork: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "work_items",
			Help:      "Stopped and active work items after the last tick",
		}),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Player requests by type and status",
			},
			[]string{"request", "status"},
		),
		workTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "work_finished_total",
				Help:      "Work items that completed or were cancelled, by kind",
			},
			[]string{"kind", "outcome"},
		),
		resourcesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resources_credited_total",
				Help:      "Resources credited to players from deposits and refunds",
			},
			[]string{"resource"},
		),
	}
}

// Register registers all simulation metrics with reg
func (c *Collector) Register(reg prometheus.Registerer) error {
	metrics := []prometheus.Collector{
		c.ticksTotal,
		c.units,
		c.liveWork,
		c.requestsTotal,
		c.workTotal,
		c.resourcesTotal,
	}
	for _, metric := range metrics {
		if err := reg.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) TickAdvanced(_ int64, units, liveWork int) {
	c.ticksTotal.Inc()
	c.units.Set(float64(units))
	c.liveWork.Set(float64(liveWork))
}

func (c *Collector) RequestHandled(request string, status engine.Status) {
	c.requestsTotal.WithLabelValues(request, status.String()).Inc()
}

func (c *Collector) WorkFinished(kind engine.WorkKind, cancelled bool) {
	outcome := "completed"
	if cancelled {
		outcome = "cancelled"
	}
	c.workTotal.WithLabelValues(kind.String(), outcome).Inc()
}

func (c *Collector) ResourcesCredited(_ models.PlayerID, amount models.Resources) {
	for _, rt := range models.AllResourceTypes() {
		if n := amount.Get(rt); n > 0 {
			c.resourcesTotal.WithLabelValues(rt.String()).Add(float64(n))
		}
	}
}
