package lunarvoyer

import "math"

const (
	keplerε       = 1e-12 // convergence on the eccentric anomaly
	keplerMaxIter = 8     // hard cap, keeps the solve constant time
)

// solveKepler returns the eccentric anomaly E verifying M = E - e·sinE, via
// a Newton iteration seeded at the mean anomaly. Panics for non-elliptical
// eccentricities.
func solveKepler(M, e float64) float64 {
	if e >= 1 {
		panic("Kepler's equation only solved for closed orbits")
	}
	E := M
	for iter := 0; iter < keplerMaxIter; iter++ {
		sinE, cosE := math.Sincos(E)
		ΔE := (E - e*sinE - M) / (1 - e*cosE)
		E -= ΔE
		if math.Abs(ΔE) < keplerε {
			break
		}
	}
	return E
}

// trueAnomalyFromE recovers the true anomaly from the eccentric anomaly,
// wrapped to [0, 2π).
func trueAnomalyFromE(E, e float64) float64 {
	sinE2, cosE2 := math.Sincos(E / 2)
	ν := 2 * math.Atan2(math.Sqrt(1+e)*sinE2, math.Sqrt(1-e)*cosE2)
	return math.Mod(ν+2*math.Pi, 2*math.Pi)
}

// PropagateKepler coasts the craft along its two-body orbit around primary
// for Δt seconds and returns the new craft. The element step comes first;
// when perturbations are set, the resulting Cartesian state is then nudged
// by one semi-implicit Euler step and the altitude reflects the nudged
// radius, while a, e, i, Ω keep their two-body values. The Burning display
// flag rides along untouched: clearing it belongs to the snapshot owner.
func PropagateKepler(sc Spacecraft, primary CelestialBody, Δt float64, perts Perturbations) Spacecraft {
	el := sc.Elements
	n := el.MeanMotion(primary.GM())
	M := math.Mod(el.MeanAnomaly+n*Δt, 2*math.Pi)
	if M < 0 {
		M += 2 * math.Pi
	}
	E := solveKepler(M, el.Ecc)
	el.MeanAnomaly = M
	el.TrueAnomaly = trueAnomalyFromE(E, el.Ecc)
	R, V := ElementsToState(el, primary)
	if !perts.isEmpty() {
		sc.Position, sc.Velocity = R, V
		acc := perts.Accel(sc)
		// Semi-implicit: the position update uses the updated velocity.
		V = V.Add(acc.Scale(Δt))
		R = R.Add(V.Scale(Δt))
	}
	el.Altitude = primary.AltitudeKm(R.Norm())
	sc.Elements = el
	sc.Position = R
	sc.Velocity = V
	return sc
}
