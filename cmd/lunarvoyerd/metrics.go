package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// simCollector bundles the Prometheus metrics of the simulation loop.
type simCollector struct {
	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	Burns        prometheus.Counter
	BurnDeltaV   prometheus.Counter
	HazardsLive  prometheus.Gauge
	Collisions   prometheus.Counter
	Dose         prometheus.Gauge
	StormActive  prometheus.Gauge
	FuelKg       prometheus.Gauge
	AltitudeKm   prometheus.Gauge
	Clients      prometheus.Gauge
}

// newSimCollector registers the simulation metrics against reg, defaulting
// to the global Prometheus registry when nil.
func newSimCollector(reg prometheus.Registerer) *simCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &simCollector{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_ticks_total",
			Help: "Total number of simulation ticks advanced.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sim_tick_duration_seconds",
			Help:    "Wall-clock duration of one simulation tick.",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),
		Burns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_burns_total",
			Help: "Total number of burns applied.",
		}),
		BurnDeltaV: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_burn_delta_v_ms_total",
			Help: "Total delta-v delivered by burns, in m/s.",
		}),
		HazardsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_hazards_live",
			Help: "Current number of live hazards.",
		}),
		Collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_hazard_collisions_total",
			Help: "Total number of tick-sampled hazard collisions.",
		}),
		Dose: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_radiation_dose_rate",
			Help: "Radiation dose rate at the craft position.",
		}),
		StormActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_storm_active",
			Help: "Whether a severe radiation storm is in effect (0 or 1).",
		}),
		FuelKg: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_fuel_kg",
			Help: "Fuel left aboard the craft, in kg.",
		}),
		AltitudeKm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_altitude_km",
			Help: "Craft altitude above the primary, in km.",
		}),
		Clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_clients_connected",
			Help: "Connected websocket clients.",
		}),
	}
	reg.MustRegister(c.Ticks, c.TickDuration, c.Burns, c.BurnDeltaV, c.HazardsLive,
		c.Collisions, c.Dose, c.StormActive, c.FuelKg, c.AltitudeKm, c.Clients)
	return c
}
