package lunarvoyer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
	"github.com/soniakeys/meeus/moonposition"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
	// VizKmPerUnit is the visualization scale: one rendered unit spans 1000 km.
	VizKmPerUnit = 1000.0
)

// CelestialBody defines a gravitating body of the simulation.
// Distances are expressed in the body's unit system: KmPerUnit records how
// many kilometers one unit spans (1 for raw kilometers). Position is in the
// frame centered on the simulation's primary.
type CelestialBody struct {
	Name      string
	Radius    float64 // units
	Mass      float64 // kg
	μ         float64 // units³/s²
	SOI       float64 // With respect to the primary, units
	KmPerUnit float64
	Position  Vector3 // units
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialBody) GM() float64 {
	return c.μ
}

// MetersPerUnit returns how many meters one of this body's units spans.
func (c CelestialBody) MetersPerUnit() float64 {
	return c.KmPerUnit * 1e3
}

// AltitudeKm returns the altitude in kilometers above the surface for a
// radial distance expressed in this body's units. Altitude stays in km
// regardless of the unit scale.
func (c CelestialBody) AltitudeKm(r float64) float64 {
	return (r - c.Radius) * c.KmPerUnit
}

// InUnits returns this body re-expressed in a system where one unit spans
// kmPerUnit kilometers. μ scales with the cube of the distance factor.
func (c CelestialBody) InUnits(kmPerUnit float64) CelestialBody {
	f := c.KmPerUnit / kmPerUnit
	return CelestialBody{c.Name, c.Radius * f, c.Mass, c.μ * math.Pow(f, 3), c.SOI * f, kmPerUnit, c.Position.Scale(f)}
}

// String implements the Stringer interface.
func (c CelestialBody) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial body is the same.
func (c *CelestialBody) Equals(b CelestialBody) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.μ == b.μ && c.SOI == b.SOI && c.KmPerUnit == b.KmPerUnit
}

// EphemerisAt returns a copy of this body with its geocentric position set
// for the given date. Only the Moon carries an ephemeris; every other body
// keeps a fixed position by construction, so asking is a caller bug.
func (c CelestialBody) EphemerisAt(dt time.Time) CelestialBody {
	if c.Name != "Moon" {
		panic(fmt.Errorf("no ephemeris for %s", c.Name))
	}
	λ, β, Δ := moonposition.Position(julian.TimeToJD(dt))
	// Get the Cartesian coordinates from L,B,R.
	sβ, cβ := math.Sincos(β.Rad())
	sλ, cλ := math.Sincos(λ.Rad())
	R := Vector3{Δ * cβ * cλ, Δ * cβ * sλ, Δ * sβ}
	c.Position = R.Scale(1 / c.KmPerUnit)
	return c
}

// MoonAt returns the Moon for the given date in the given unit system. When
// the engine configuration enables the live ephemeris the position comes
// from it, otherwise the static mean-distance position is kept.
func MoonAt(dt time.Time, kmPerUnit float64) CelestialBody {
	moon := Moon
	if lvConfig().liveMoon {
		moon = moon.EphemerisAt(dt)
	}
	return moon.InUnits(kmPerUnit)
}

// CelestialBodyFromString returns the body from its name
func CelestialBodyFromString(name string) (CelestialBody, error) {
	switch strings.ToLower(name) {
	case "earth":
		return Earth, nil
	case "moon":
		return Moon, nil
	case "sun":
		return Sun, nil
	default:
		return CelestialBody{}, fmt.Errorf("undefined body '%s'", name)
	}
}

/* Definitions */

// Sun is our closest star.
var Sun = CelestialBody{"Sun", 695700, 1.98892e30, 1.32712440017987e11, -1, 1, Vector3{X: AU}}

// Earth is home.
var Earth = CelestialBody{"Earth", 6378.1363, 5.97237e24, 3.986004418e5, 924645.0, 1, Vector3{}}

// Moon is the first stop on the way out. Its default position is the static
// mean distance along +X; EphemerisAt refreshes it when a date matters.
var Moon = CelestialBody{"Moon", 1737.4, 7.342e22, 4902.799, 66183, 1, Vector3{X: 384400}}
