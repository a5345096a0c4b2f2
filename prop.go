package lunarvoyer

import "math"

const (
	// G0 is the standard gravity in m/s².
	G0 = 9.81
	// BurnIsp is the specific impulse of the onboard engine in seconds.
	// Every burn of the simulation uses this one engine.
	BurnIsp = 300.0
)

// DeltaVFromMasses returns the Δv in m/s delivered by burning from an initial
// to a final mass at the given specific impulse (Tsiolkovsky equation).
// Panics unless mi >= mf > 0.
func DeltaVFromMasses(mi, mf, isp float64) float64 {
	if mf <= 0 || mi < mf {
		panic("masses must verify mi >= mf > 0")
	}
	return isp * G0 * math.Log(mi/mf)
}

// FuelForDeltaV returns the fuel mass in kg which a craft of the given total
// mass consumes to deliver Δv m/s at the given specific impulse.
func FuelForDeltaV(Δv, mass, isp float64) float64 {
	return mass * (1 - math.Exp(-Δv/(isp*G0)))
}

// ApplyBurn performs an instantaneous burn of Δv m/s along direction and
// returns the new craft, the Δv actually delivered and the fuel spent in kg.
// A zero direction or non-positive Δv is a no-op. When the tank holds less
// than the burn needs, the whole tank burns and the Δv is clamped to what
// those masses deliver, leaving the fuel at exactly zero. The orbital
// elements are recomputed from the post-burn state around primary.
func ApplyBurn(sc Spacecraft, primary CelestialBody, direction Vector3, Δv float64) (Spacecraft, float64, float64) {
	dir := direction.Unit()
	if dir == (Vector3{}) || Δv <= 0 {
		return sc, 0, 0
	}
	fuelUsed := FuelForDeltaV(Δv, sc.Mass, BurnIsp)
	actualΔv := Δv
	if fuelUsed > sc.Fuel {
		actualΔv = DeltaVFromMasses(sc.Mass, sc.Mass-sc.Fuel, BurnIsp)
		fuelUsed = sc.Fuel
	}
	if actualΔv == 0 {
		return sc, 0, 0 // Dry tank.
	}
	sc.Velocity = sc.Velocity.Add(dir.Scale(actualΔv / primary.MetersPerUnit()))
	sc.Mass -= fuelUsed
	sc.Fuel -= fuelUsed
	sc.Elements = StateToElements(sc.Position, sc.Velocity, primary)
	sc.Burning = true
	return sc, actualΔv, fuelUsed
}
