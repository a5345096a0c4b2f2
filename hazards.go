package lunarvoyer

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// HazardKind defines an enum of hazard kinds.
type HazardKind uint8

const (
	// RadiationKind marks solar radiation storms.
	RadiationKind HazardKind = iota + 1
	// DebrisKind marks drifting debris clouds.
	DebrisKind
	// PerturbationKind marks zones carrying an RTN force. Reserved.
	PerturbationKind
)

// String implements the Stringer interface.
func (k HazardKind) String() string {
	switch k {
	case RadiationKind:
		return "radiation"
	case DebrisKind:
		return "debris"
	case PerturbationKind:
		return "perturbation"
	default:
		panic("unknown hazard kind")
	}
}

// KpStormThreshold is the planetary Kp index at or above which a radiation
// storm counts as severe.
const KpStormThreshold = 7.0

// Generation scales, expressed in visualization units (cf. VizKmPerUnit)
// and seconds.
const (
	hazardShellRadius = 7.0 // geocentric radius the field scatters around
	hazardShellσ      = 0.5
	stormMinRadius    = 1.0
	stormMaxRadius    = 3.0
	stormMinIntensity = 10.0 // dose rate at the storm center
	stormMaxIntensity = 100.0
	stormMinDuration  = 300.0
	stormMaxDuration  = 1800.0
	debrisMinRadius   = 0.05
	debrisMaxRadius   = 0.2
	debrisMinSpeed    = 0.004 // 4 km/s at the visualization scale
	debrisMaxSpeed    = 0.008
	debrisMinMass     = 1.0 // kg
	debrisMaxMass     = 500.0
)

// HazardInfo carries the fields every hazard kind shares. Distances are in
// the simulation's units and durations in seconds.
type HazardInfo struct {
	ID            string
	Position      Vector3
	Radius        float64
	Intensity     float64
	Duration      float64 // math.Inf(1) for hazards which never expire
	TimeRemaining float64
}

// Hazard is the closed set of transient threats. The concrete kinds all live
// in this package and the operations below switch exhaustively over them.
type Hazard interface {
	Kind() HazardKind
	Info() HazardInfo
	isHazard()
}

// RadiationStorm is a solar radiation event. It holds still until it expires.
type RadiationStorm struct {
	HazardInfo
	KpIndex float64
}

// Kind implements Hazard.
func (h RadiationStorm) Kind() HazardKind { return RadiationKind }

// Info implements Hazard.
func (h RadiationStorm) Info() HazardInfo { return h.HazardInfo }

func (h RadiationStorm) isHazard() {}

// Severe returns whether this storm reaches the severe Kp threshold.
func (h RadiationStorm) Severe() bool { return h.KpIndex >= KpStormThreshold }

// Debris is a drifting debris cloud. It never expires on its own.
type Debris struct {
	HazardInfo
	Velocity Vector3 // units/s
	Mass     float64 // kg
}

// Kind implements Hazard.
func (h Debris) Kind() HazardKind { return DebrisKind }

// Info implements Hazard.
func (h Debris) Info() HazardInfo { return h.HazardInfo }

func (h Debris) isHazard() {}

// PerturbationZone carries an RTN-frame force for craft inside it. Reserved
// kind: the generator never emits one and Advance keeps it in place.
type PerturbationZone struct {
	HazardInfo
	Force Vector3 // RTN frame, units/s²
}

// Kind implements Hazard.
func (h PerturbationZone) Kind() HazardKind { return PerturbationKind }

// Info implements Hazard.
func (h PerturbationZone) Info() HazardInfo { return h.HazardInfo }

func (h PerturbationZone) isHazard() {}

// InertialForce expresses the zone's RTN force in the inertial frame for a
// craft at the given elements. Plug it into Perturbations.Arbitrary to make
// a zone push on a coasting craft.
func (h PerturbationZone) InertialForce(el OrbitalElements) Vector3 {
	u := el.ArgPeriapsis + el.TrueAnomaly
	return Rot313Vec(-u, -el.Inc, -el.RAAN, h.Force)
}

// GenerateHazards procedurally creates count hazards scattered on a shell
// around the primary. Every random figure is drawn from rng, so an identical
// seed replays the identical field. Kinds alternate on a coin flip between
// radiation storms and debris.
func GenerateHazards(count int, epoch time.Time, rng *rand.Rand) []Hazard {
	shellNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{hazardShellσ * hazardShellσ}), rng)
	if !ok {
		panic("NOK in Gaussian")
	}
	hazards := make([]Hazard, 0, count)
	for k := 0; k < count; k++ {
		shell := hazardShellRadius + shellNoise.Rand(nil)[0]
		θ := math.Acos(2*rng.Float64() - 1)
		φ := 2 * math.Pi * rng.Float64()
		pos := Spherical2Cartesian(shell, θ, φ)
		if rng.Float64() < 0.5 {
			duration := stormMinDuration + rng.Float64()*(stormMaxDuration-stormMinDuration)
			hazards = append(hazards, RadiationStorm{
				HazardInfo{
					ID:            fmt.Sprintf("radiation-%d-%02d", epoch.Unix(), k),
					Position:      pos,
					Radius:        stormMinRadius + rng.Float64()*(stormMaxRadius-stormMinRadius),
					Intensity:     stormMinIntensity + rng.Float64()*(stormMaxIntensity-stormMinIntensity),
					Duration:      duration,
					TimeRemaining: duration,
				},
				4 + 5*rng.Float64(), // Kp in [4, 9)
			})
		} else {
			speed := debrisMinSpeed + rng.Float64()*(debrisMaxSpeed-debrisMinSpeed)
			vel := Spherical2Cartesian(speed, math.Acos(2*rng.Float64()-1), 2*math.Pi*rng.Float64())
			forever := math.Inf(1)
			hazards = append(hazards, Debris{
				HazardInfo{
					ID:            fmt.Sprintf("debris-%d-%02d", epoch.Unix(), k),
					Position:      pos,
					Radius:        debrisMinRadius + rng.Float64()*(debrisMaxRadius-debrisMinRadius),
					Intensity:     1 + 9*rng.Float64(),
					Duration:      forever,
					TimeRemaining: forever,
				},
				vel,
				debrisMinMass + rng.Float64()*(debrisMaxMass-debrisMinMass),
			})
		}
	}
	return hazards
}

// AdvanceHazards ages every hazard by Δt seconds and returns the survivors
// in a fresh slice. Debris drifts along its velocity; storms and zones hold
// still. A hazard whose time remaining falls to zero or below is dropped.
func AdvanceHazards(hazards []Hazard, Δt float64) []Hazard {
	out := make([]Hazard, 0, len(hazards))
	for _, h := range hazards {
		switch hz := h.(type) {
		case RadiationStorm:
			hz.TimeRemaining -= Δt
			if hz.TimeRemaining <= 0 {
				continue
			}
			out = append(out, hz)
		case Debris:
			hz.TimeRemaining -= Δt // Inf stays Inf
			if hz.TimeRemaining <= 0 {
				continue
			}
			hz.Position = hz.Position.Add(hz.Velocity.Scale(Δt))
			out = append(out, hz)
		case PerturbationZone:
			hz.TimeRemaining -= Δt
			if hz.TimeRemaining <= 0 {
				continue
			}
			out = append(out, hz)
		default:
			panic(fmt.Errorf("unsupported hazard %T", h))
		}
	}
	return out
}

// Collisions returns the hazards whose sphere contains the given position,
// boundary included.
func Collisions(pos Vector3, hazards []Hazard) []Hazard {
	var hits []Hazard
	for _, h := range hazards {
		info := h.Info()
		if pos.DistanceTo(info.Position) <= info.Radius {
			hits = append(hits, h)
		}
	}
	return hits
}

// RadiationDose returns the total dose rate at the given position. Each
// storm containing the position contributes its intensity with a linear
// falloff, full at the center and zero at the edge.
func RadiationDose(pos Vector3, hazards []Hazard) float64 {
	var dose float64
	for _, h := range hazards {
		storm, ok := h.(RadiationStorm)
		if !ok {
			continue
		}
		d := pos.DistanceTo(storm.Position)
		if d > storm.Radius {
			continue
		}
		dose += storm.Intensity * (1 - d/storm.Radius)
	}
	return dose
}

// StormActive reports whether any severe radiation storm is in effect.
func StormActive(hazards []Hazard) bool {
	for _, h := range hazards {
		if storm, ok := h.(RadiationStorm); ok && storm.Severe() {
			return true
		}
	}
	return false
}

// CollisionProbability estimates the chance of the given debris striking a
// craft at pos moving at vel. Pure heuristic: proximity dominates, closing
// speed saturates at 10 velocity units.
func CollisionProbability(pos, vel Vector3, d Debris) float64 {
	dist := pos.DistanceTo(d.Position)
	relSpeed := vel.Sub(d.Velocity).Norm()
	return (1 / (1 + dist)) * math.Min(1, relSpeed/10)
}
