package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus instruments for the dispatch and
// billing core behind a private registry.
type Collector struct {
	reg *prometheus.Registry

	TripsCreated   prometheus.Counter
	TripsStarted   prometheus.Counter
	TripsCompleted prometheus.Counter

	PositionReports prometheus.Counter
	TrackPoints     prometheus.Counter

	InvoicesCreated prometheus.Counter
	InvoicedAmount  prometheus.Counter

	RatePerKm prometheus.Gauge
}

// NewCollector creates and registers all instruments.
func NewCollector(ratePerKm float64) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TripsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_trips_created_total",
			Help: "Total trips created (pending).",
		}),
		TripsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_trips_started_total",
			Help: "Total trips transitioned to in_progress.",
		}),
		TripsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_trips_completed_total",
			Help: "Total trips completed and invoiced.",
		}),
		PositionReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_position_reports_total",
			Help: "Total vehicle position reports received.",
		}),
		TrackPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_track_points_total",
			Help: "Total durable track points appended.",
		}),
		InvoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_invoices_created_total",
			Help: "Total invoices created.",
		}),
		InvoicedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_invoiced_amount_total",
			Help: "Cumulative invoiced amount.",
		}),
		RatePerKm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_distance_rate_per_km",
			Help: "Configured fallback rate per kilometer.",
		}),
	}

	reg.MustRegister(
		c.TripsCreated, c.TripsStarted, c.TripsCompleted,
		c.PositionReports, c.TrackPoints,
		c.InvoicesCreated, c.InvoicedAmount,
		c.RatePerKm,
	)

	c.RatePerKm.Set(ratePerKm)

	return c
}

// Handler returns the HTTP handler serving the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
