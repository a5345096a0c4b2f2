package lunarvoyer

import (
	"fmt"
	"math"
	"time"
)

// Hohmann computes the Hohmann transfer between two circular orbits of radii
// rI and rF about the given body. It returns the departure and arrival speeds
// on the transfer ellipse and the time of flight.
func Hohmann(rI, rF float64, body CelestialBody) (vDeparture, vArrival float64, tof time.Duration) {
	aTransfer := 0.5 * (rI + rF)
	vDeparture = math.Sqrt((2 * body.GM() / rI) - (body.GM() / aTransfer))
	vArrival = math.Sqrt((2 * body.GM() / rF) - (body.GM() / aTransfer))
	tof = time.Duration(math.Pi*math.Sqrt(math.Pow(aTransfer, 3)/body.GM())) * time.Second
	return
}

// HohmannDeltaV returns the two impulses of a Hohmann transfer between
// circular orbits of radii r1 and r2, in the velocity units implied by μ.
// Both are zero when r1 == r2, and both are negative for an inward transfer.
func HohmannDeltaV(r1, r2, μ float64) (Δv1, Δv2 float64) {
	Δv1 = math.Sqrt(μ/r1) * (math.Sqrt(2*r2/(r1+r2)) - 1)
	Δv2 = math.Sqrt(μ/r2) * (1 - math.Sqrt(2*r1/(r1+r2)))
	return
}

// HohmannTOF returns the time of flight of the Hohmann transfer between
// circular orbits of radii r1 and r2, i.e. half the transfer ellipse.
func HohmannTOF(r1, r2, μ float64) time.Duration {
	aTransfer := 0.5 * (r1 + r2)
	seconds := math.Pi * math.Sqrt(math.Pow(aTransfer, 3)/μ)
	duration, _ := time.ParseDuration(fmt.Sprintf("%.6fs", seconds))
	return duration
}

// OrbitPoints returns a lazy, restartable and finite sweep of n positions
// along the given orbit, the true anomaly covering [0, 2π) in uniform steps.
// Iterating the returned sequence again restarts the sweep. The sequence has
// the shape of iter.Seq[Vector3], spelled structurally so the module builds
// on toolchains predating the iter package.
func OrbitPoints(el OrbitalElements, body CelestialBody, n int) func(yield func(Vector3) bool) {
	return func(yield func(Vector3) bool) {
		for k := 0; k < n; k++ {
			pt := el
			pt.TrueAnomaly = 2 * math.Pi * float64(k) / float64(n)
			R, _ := ElementsToState(pt, body)
			if !yield(R) {
				return
			}
		}
	}
}
