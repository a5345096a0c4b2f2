package lunarvoyer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e1                          // 20 km
	velocityε     = 1e-6                         // in km/s
)

// OrbitalElements defines an orbit via its classical elements.
// Angles are stored in radians. Altitude is kept in kilometers for display
// regardless of the distance unit the other fields use.
type OrbitalElements struct {
	SMA          float64 // semi major axis, units
	Ecc          float64 // eccentricity
	Inc          float64 // inclination, rad
	RAAN         float64 // right ascension of the ascending node, rad
	ArgPeriapsis float64 // argument of periapsis, rad
	TrueAnomaly  float64 // rad, measured from the node line (cf. StateToElements)
	MeanAnomaly  float64 // rad
	Altitude     float64 // km above the primary's surface
}

// NewElements creates a set of elements, clamping the circular and equatorial
// singularities.
// WARNING: Angles must be in degrees not radians.
func NewElements(a, e, i, Ω, ω, ν float64) OrbitalElements {
	if e < eccentricityε {
		e = eccentricityε
	}
	if i < 5e-3 {
		i = 5e-3 // 0.005 degrees, same floor as angleε
	}
	νRad := Deg2rad(ν)
	return OrbitalElements{a, e, Deg2rad(i), Deg2rad(Ω), Deg2rad(ω), νRad, νRad, 0}
}

// Energyξ returns the specific mechanical energy ξ.
func (el OrbitalElements) Energyξ(μ float64) float64 {
	return -μ / (2 * el.SMA)
}

// SemiParameter returns the semi parameter.
func (el OrbitalElements) SemiParameter() float64 {
	return el.SMA * (1 - el.Ecc*el.Ecc)
}

// Apoapsis returns the apoapsis radius.
func (el OrbitalElements) Apoapsis() float64 {
	return el.SMA * (1 + el.Ecc)
}

// Periapsis returns the periapsis radius.
func (el OrbitalElements) Periapsis() float64 {
	return el.SMA * (1 - el.Ecc)
}

// RNorm returns the norm of the radius vector, but without computing the
// radius vector itself.
func (el OrbitalElements) RNorm() float64 {
	return el.SemiParameter() / (1 + el.Ecc*math.Cos(el.TrueAnomaly))
}

// VNorm returns the norm of the velocity vector via vis-viva, but without
// computing the velocity vector itself.
func (el OrbitalElements) VNorm(μ float64) float64 {
	if floats.EqualWithinAbs(el.Ecc, 0, eccentricityε) {
		return math.Sqrt(μ / el.RNorm())
	}
	return math.Sqrt(2 * (μ/el.RNorm() + el.Energyξ(μ)))
}

// SinCosE returns the eccentric anomaly trig functions (sin and cos).
func (el OrbitalElements) SinCosE() (sinE, cosE float64) {
	sinν, cosν := math.Sincos(el.TrueAnomaly)
	denom := 1 + el.Ecc*cosν
	sinE = math.Sqrt(1-el.Ecc*el.Ecc) * sinν / denom
	cosE = (el.Ecc + cosν) / denom
	return
}

// MeanMotion returns the mean motion n. Panics on a non-positive semi major
// axis: only closed orbits propagate here.
func (el OrbitalElements) MeanMotion(μ float64) float64 {
	if el.SMA <= 0 {
		panic("non-positive semi major axis")
	}
	return math.Sqrt(μ / math.Pow(el.SMA, 3))
}

// Period returns the period of this orbit.
func (el OrbitalElements) Period(μ float64) time.Duration {
	// time.Duration does not trivially handle fractions of a second, hence
	// the convoluted computation.
	seconds := 2 * math.Pi * math.Sqrt(math.Pow(el.SMA, 3)/μ)
	duration, _ := time.ParseDuration(fmt.Sprintf("%.6fs", seconds))
	return duration
}

// String implements the stringer interface.
func (el OrbitalElements) String() string {
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ν=%.3f h=%.1fkm", el.SMA, el.Ecc, Rad2deg(el.Inc), Rad2deg(el.RAAN), Rad2deg(el.TrueAnomaly), el.Altitude)
}

// Equals returns whether two element sets describe the same orbit with free
// anomaly. Use StrictlyEquals to also check the anomaly.
func (el OrbitalElements) Equals(o OrbitalElements) (bool, error) {
	if !floats.EqualWithinAbs(el.SMA, o.SMA, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(el.Ecc, o.Ecc, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !floats.EqualWithinAbs(el.Inc, o.Inc, angleε) {
		return false, errors.New("inclination invalid")
	}
	if !floats.EqualWithinAbs(el.RAAN, o.RAAN, angleε) && !floats.EqualWithinAbs(math.Abs(el.RAAN-o.RAAN), 2*math.Pi, angleε) {
		// The node angle wraps, e.g. 2π-1e-9 and 0 are the same node.
		return false, errors.New("RAAN invalid")
	}
	return true, nil
}

// StrictlyEquals returns whether two element sets are identical.
func (el OrbitalElements) StrictlyEquals(o OrbitalElements) (bool, error) {
	νa := math.Mod(el.TrueAnomaly+2*math.Pi, 2*math.Pi)
	νb := math.Mod(o.TrueAnomaly+2*math.Pi, 2*math.Pi)
	if !floats.EqualWithinAbs(νa, νb, angleε) && !floats.EqualWithinAbs(math.Abs(νa-νb), 2*math.Pi, angleε) {
		return false, errors.New("true anomaly invalid")
	}
	return el.Equals(o)
}

// ElementsToState returns the inertial position and velocity vectors for the
// given elements around the given body.
func ElementsToState(el OrbitalElements, body CelestialBody) (R, V Vector3) {
	μ := body.GM()
	p := el.SemiParameter()
	sinν, cosν := math.Sincos(el.TrueAnomaly)
	R = Vector3{p * cosν / (1 + el.Ecc*cosν), p * sinν / (1 + el.Ecc*cosν), 0}
	V = Vector3{-math.Sqrt(μ/p) * sinν, math.Sqrt(μ/p) * (el.Ecc + cosν), 0}
	R = PQW2ECI(el.Inc, el.ArgPeriapsis, el.RAAN, R)
	V = PQW2ECI(el.Inc, el.ArgPeriapsis, el.RAAN, V)
	return
}

// StateToElements returns the orbital elements for the given inertial state
// around the given body.
//
// The argument of periapsis is deliberately collapsed to zero: the anomaly is
// measured from the ascending node (from +X when equatorial) and doubles as
// the mean anomaly. This is exact for circular orbits and an approximation
// for eccentric ones, matching how the rest of the simulation reasons about
// position angles.
func StateToElements(R, V Vector3, body CelestialBody) OrbitalElements {
	// From Vallado's RV2COE, page 113.
	μ := body.GM()
	hVec := R.Cross(V)
	n := Vector3{Z: 1}.Cross(hVec)
	v := V.Norm()
	r := R.Norm()
	ξ := (v*v)/2 - μ/r
	a := -μ / (2 * ξ)
	eVec := R.Scale((v*v - μ/r) / μ).Sub(V.Scale(R.Dot(V) / μ))
	e := eVec.Norm()
	if e >= 1 {
		fmt.Println("[warning] parabolic and hyperpolic orbits not fully supported")
	}
	i := math.Acos(hVec.Z / hVec.Norm())
	nNorm := n.Norm()
	equatorial := floats.EqualWithinAbs(nNorm, 0, 1e-12)
	var Ω float64
	if equatorial {
		Ω = 0 // The node line vanishes.
	} else {
		Ω = math.Acos(n.X / nNorm)
		if n.Y < 0 {
			Ω = 2*math.Pi - Ω
		}
	}
	var cosν float64
	if equatorial {
		cosν = R.X / r
	} else {
		cosν = n.Dot(R) / (nNorm * r)
	}
	if abscosν := math.Abs(cosν); abscosν > 1 && floats.EqualWithinAbs(abscosν, 1, 1e-12) {
		cosν = sign(cosν) // Rounding pushed cosν out of [-1, 1].
	}
	ν := math.Acos(cosν)
	if (equatorial && R.Y < 0) || (!equatorial && R.Z < 0) {
		ν = 2*math.Pi - ν
	}
	// Fix rounding errors.
	i = math.Mod(i, 2*math.Pi)
	Ω = math.Mod(Ω, 2*math.Pi)
	ν = math.Mod(ν, 2*math.Pi)

	return OrbitalElements{a, e, i, Ω, 0, ν, ν, body.AltitudeKm(r)}
}

// Helper functions go here.

// Radii2ae returns the semi major axis and the eccentricity from the radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
