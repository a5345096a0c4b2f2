// lunarvoyerd runs the simulation as a daemon: it advances the craft and the
// hazard field on a fixed tick, broadcasts JSON snapshots to websocket
// clients, accepts burn commands from them, and serves Prometheus metrics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManmathX/lunarvoyer"
)

var (
	scenarioPath string
	addr         string
	withZone     bool
)

func init() {
	flag.StringVar(&scenarioPath, "scenario", "", "path to a YAML scenario (built-in default when empty)")
	flag.StringVar(&addr, "addr", ":8877", "listen address for /ws and /metrics")
	flag.BoolVar(&withZone, "zone", false, "park a perturbation zone on the hazard shell")
}

// snapshot is the document broadcast to every client after each tick.
type snapshot struct {
	Tick        uint64       `json:"tick"`
	SimTime     time.Time    `json:"sim_time"`
	Craft       craftView    `json:"craft"`
	Hazards     []hazardView `json:"hazards"`
	DoseRate    float64      `json:"dose_rate"`
	StormActive bool         `json:"storm_active"`
	Collisions  []string     `json:"collisions,omitempty"`
	Events      []string     `json:"events,omitempty"`
}

type craftView struct {
	Name       string             `json:"name"`
	Mass       float64            `json:"mass"`
	Fuel       float64            `json:"fuel"`
	Position   lunarvoyer.Vector3 `json:"position"`
	Velocity   lunarvoyer.Vector3 `json:"velocity"`
	AltitudeKm float64            `json:"altitude_km"`
	SMA        float64            `json:"sma"`
	Ecc        float64            `json:"ecc"`
	IncDeg     float64            `json:"inc_deg"`
	RAANDeg    float64            `json:"raan_deg"`
	Burning    bool               `json:"burning"`
}

type hazardView struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Position  lunarvoyer.Vector3 `json:"position"`
	Radius    float64            `json:"radius"`
	Intensity float64            `json:"intensity"`
	// Omitted for hazards which never expire: JSON carries no +Inf.
	TimeRemaining *float64            `json:"time_remaining,omitempty"`
	KpIndex       float64             `json:"kp_index,omitempty"`
	Velocity      *lunarvoyer.Vector3 `json:"velocity,omitempty"`
}

// viewOfHazard flattens a hazard for the wire.
func viewOfHazard(h lunarvoyer.Hazard) hazardView {
	info := h.Info()
	v := hazardView{
		ID:        info.ID,
		Kind:      h.Kind().String(),
		Position:  info.Position,
		Radius:    info.Radius,
		Intensity: info.Intensity,
	}
	if !math.IsInf(info.TimeRemaining, 1) {
		ttl := info.TimeRemaining
		v.TimeRemaining = &ttl
	}
	switch hz := h.(type) {
	case lunarvoyer.RadiationStorm:
		v.KpIndex = hz.KpIndex
	case lunarvoyer.Debris:
		vel := hz.Velocity
		v.Velocity = &vel
	case lunarvoyer.PerturbationZone:
		// The RTN force stays server side.
	default:
		panic(fmt.Errorf("unsupported hazard %T", h))
	}
	return v
}

// simulation owns the whole mission state. The tick loop in main is its only
// writer; clients only ever see marshaled snapshots.
type simulation struct {
	scenario lunarvoyer.Scenario
	primary  lunarvoyer.CelestialBody
	perts    lunarvoyer.Perturbations
	sc       lunarvoyer.Spacecraft
	hazards  []lunarvoyer.Hazard
	events   lunarvoyer.EventLog
	rng      *rand.Rand
	simTime  time.Time
	tick     uint64
	inside   map[string]bool
	log      kitlog.Logger
	metrics  *simCollector
}

func newSimulation(scn lunarvoyer.Scenario, logger kitlog.Logger, metrics *simCollector) (*simulation, error) {
	sc, primary, perts, err := scn.Realize()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(scn.Hazards.Seed))
	s := &simulation{
		scenario: scn,
		primary:  primary,
		perts:    perts,
		sc:       sc,
		hazards:  lunarvoyer.GenerateHazards(scn.Hazards.Count, now, rng),
		rng:      rng,
		simTime:  now,
		inside:   make(map[string]bool),
		log:      logger,
		metrics:  metrics,
	}
	if withZone {
		zone := lunarvoyer.PerturbationZone{
			HazardInfo: lunarvoyer.HazardInfo{
				ID:            fmt.Sprintf("zone-%d-00", now.Unix()),
				Position:      lunarvoyer.Vector3{X: 7},
				Radius:        2,
				Duration:      math.Inf(1),
				TimeRemaining: math.Inf(1),
			},
			Force: lunarvoyer.Vector3{X: 5e-9}, // gentle radial push, units/s²
		}
		s.hazards = append(s.hazards, zone)
		s.perts.Arbitrary = s.zoneForces
	}
	s.events.Append(lunarvoyer.MissionEvent{DT: now, Category: lunarvoyer.SystemEvent,
		Detail: fmt.Sprintf("scenario %s started with %d hazards", scn.Name, len(s.hazards))})
	return s, nil
}

// zoneForces sums the inertial force of every perturbation zone containing
// the craft. Wired into Perturbations.Arbitrary when -zone is set.
func (s *simulation) zoneForces(sc lunarvoyer.Spacecraft) lunarvoyer.Vector3 {
	var total lunarvoyer.Vector3
	for _, h := range s.hazards {
		zone, ok := h.(lunarvoyer.PerturbationZone)
		if !ok {
			continue
		}
		if sc.Position.DistanceTo(zone.Info().Position) <= zone.Info().Radius {
			total = total.Add(zone.InertialForce(sc.Elements))
		}
	}
	return total
}

// step advances the simulation by Δt simulated seconds and returns the
// snapshot to broadcast.
func (s *simulation) step(Δt float64) snapshot {
	defer func(start time.Time) {
		s.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}(time.Now())
	s.tick++
	s.simTime = s.simTime.Add(time.Duration(Δt * float64(time.Second)))

	if s.perts.ThirdBody != nil && s.perts.ThirdBody.Name == "Moon" {
		// The engine configuration picks the live ephemeris or the static
		// mean distance.
		moon := lunarvoyer.MoonAt(s.simTime, s.scenario.KmPerUnit)
		s.perts.ThirdBody = &moon
	}

	s.sc = lunarvoyer.PropagateKepler(s.sc, s.primary, Δt, s.perts)

	before := make(map[string]bool, len(s.hazards))
	for _, h := range s.hazards {
		before[h.Info().ID] = true
	}
	s.hazards = lunarvoyer.AdvanceHazards(s.hazards, Δt)
	live := 0
	for _, h := range s.hazards {
		delete(before, h.Info().ID)
		if h.Kind() != lunarvoyer.PerturbationKind {
			live++
		}
	}
	for id := range before {
		delete(s.inside, id)
		s.events.Append(lunarvoyer.MissionEvent{DT: s.simTime, Category: lunarvoyer.HazardEvent,
			Detail: fmt.Sprintf("%s expired", id)})
	}
	if deficit := s.scenario.Hazards.Count - live; deficit > 0 {
		fresh := lunarvoyer.GenerateHazards(deficit, s.simTime, s.rng)
		s.hazards = append(s.hazards, fresh...)
		s.events.Append(lunarvoyer.MissionEvent{DT: s.simTime, Category: lunarvoyer.HazardEvent,
			Detail: fmt.Sprintf("field replenished with %d hazards", deficit)})
	}

	var hitIDs []string
	for _, hit := range lunarvoyer.Collisions(s.sc.Position, s.hazards) {
		id := hit.Info().ID
		hitIDs = append(hitIDs, id)
		if s.inside[id] {
			continue // still in the same sphere, already reported
		}
		s.inside[id] = true
		s.metrics.Collisions.Inc()
		detail := fmt.Sprintf("entered %s", id)
		if debris, ok := hit.(lunarvoyer.Debris); ok {
			detail = fmt.Sprintf("entered %s (p=%.3f)", id, lunarvoyer.CollisionProbability(s.sc.Position, s.sc.Velocity, debris))
		}
		s.events.Append(lunarvoyer.MissionEvent{DT: s.simTime, Category: lunarvoyer.HazardEvent, Detail: detail})
		s.log.Log("level", "warning", "subsys", "sim", "collision", id, "tick", s.tick)
	}
	hitNow := make(map[string]bool, len(hitIDs))
	for _, id := range hitIDs {
		hitNow[id] = true
	}
	for id := range s.inside {
		if !hitNow[id] {
			delete(s.inside, id)
		}
	}

	dose := lunarvoyer.RadiationDose(s.sc.Position, s.hazards)
	storm := lunarvoyer.StormActive(s.hazards)

	s.metrics.Ticks.Inc()
	s.metrics.HazardsLive.Set(float64(len(s.hazards)))
	s.metrics.Dose.Set(dose)
	if storm {
		s.metrics.StormActive.Set(1)
	} else {
		s.metrics.StormActive.Set(0)
	}
	s.metrics.FuelKg.Set(s.sc.Fuel)
	s.metrics.AltitudeKm.Set(s.sc.Elements.Altitude)

	views := make([]hazardView, len(s.hazards))
	for k, h := range s.hazards {
		views[k] = viewOfHazard(h)
	}
	// A burn shows on exactly one snapshot: latch the flag, then clear it.
	burning := s.sc.Burning
	s.sc.Burning = false
	return snapshot{
		Tick:    s.tick,
		SimTime: s.simTime,
		Craft: craftView{
			Name:       s.sc.Name,
			Mass:       s.sc.Mass,
			Fuel:       s.sc.Fuel,
			Position:   s.sc.Position,
			Velocity:   s.sc.Velocity,
			AltitudeKm: s.sc.Elements.Altitude,
			SMA:        s.sc.Elements.SMA,
			Ecc:        s.sc.Elements.Ecc,
			IncDeg:     lunarvoyer.Rad2deg(s.sc.Elements.Inc),
			RAANDeg:    lunarvoyer.Rad2deg(s.sc.Elements.RAAN),
			Burning:    burning,
		},
		Hazards:     views,
		DoseRate:    dose,
		StormActive: storm,
		Collisions:  hitIDs,
		Events:      s.lastEvents(6),
	}
}

// applyBurn fires the engine from a client request.
func (s *simulation) applyBurn(req burnRequest) {
	sc, actualΔv, fuelUsed := lunarvoyer.ApplyBurn(s.sc, s.primary, req.Direction, req.DeltaVMs)
	if actualΔv == 0 {
		s.log.Log("level", "warning", "subsys", "sim", "burn", "ignored", "Δv(m/s)", req.DeltaVMs, "fuel(kg)", s.sc.Fuel)
		return
	}
	s.sc = sc
	s.metrics.Burns.Inc()
	s.metrics.BurnDeltaV.Add(actualΔv)
	s.events.Append(lunarvoyer.MissionEvent{DT: s.simTime, Category: lunarvoyer.BurnEvent,
		Detail: fmt.Sprintf("burned %.1f kg", fuelUsed), ΔV: actualΔv})
	s.log.Log("level", "info", "subsys", "sim", "burn", "applied", "Δv(m/s)", actualΔv, "fuel(kg)", s.sc.Fuel)
}

func (s *simulation) lastEvents(n int) []string {
	all := s.events.All()
	if len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]string, len(all))
	for k, e := range all {
		out[k] = e.String()
	}
	return out
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "app", "lunarvoyerd")

	scn := lunarvoyer.DefaultScenario()
	if scenarioPath != "" {
		var err error
		scn, err = lunarvoyer.LoadScenario(scenarioPath)
		if err != nil {
			logger.Log("level", "critical", "msg", "could not load scenario", "err", err)
			os.Exit(1)
		}
	}

	metrics := newSimCollector(nil)
	sim, err := newSimulation(scn, logger, metrics)
	if err != nil {
		logger.Log("level", "critical", "msg", "could not realize scenario", "err", err)
		os.Exit(1)
	}
	if tb := sim.perts.ThirdBody; tb != nil && tb.Name == "Moon" && os.Getenv("LUNARVOYER_CONFIG") == "" {
		logger.Log("level", "critical", "msg", "environment variable `LUNARVOYER_CONFIG` is missing or empty (the Moon refresh reads it)")
		os.Exit(1)
	}

	hub := newHub(logger, metrics)
	go hub.run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Log("level", "info", "msg", "listening", "addr", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Log("level", "critical", "msg", "server failed", "err", err)
			os.Exit(1)
		}
	}()

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)

	// Wall ticks every TickSeconds; each advances TickSeconds×Warp simulated
	// seconds.
	Δt := scn.TickSeconds * scn.Warp
	ticker := time.NewTicker(time.Duration(scn.TickSeconds * float64(time.Second)))
	defer ticker.Stop()
	logger.Log("level", "info", "msg", "simulation started", "scenario", scn.Name,
		"craft", sim.sc.Name, "warp", scn.Warp, "Δt(s)", Δt)

	for {
		select {
		case <-ticker.C:
			snap := sim.step(Δt)
			payload, err := json.Marshal(snap)
			if err != nil {
				panic(fmt.Errorf("could not marshal snapshot: %s", err))
			}
			hub.broadcast <- payload
		case burn := <-hub.commands:
			sim.applyBurn(burn)
		case <-sigC:
			logger.Log("level", "notice", "msg", "shutting down", "ticks", sim.tick, "events", sim.events.Len())
			for _, e := range sim.events.All() {
				fmt.Println(e)
			}
			return
		}
	}
}
