package lunarvoyer

import "fmt"

// Spacecraft defines a vehicle of the simulation. It is a value type: every
// maneuver and propagation returns a new craft instead of mutating this one.
type Spacecraft struct {
	Name     string
	Mass     float64 // total wet mass, kg
	Fuel     float64 // fuel mass, kg
	Position Vector3 // units
	Velocity Vector3 // units/s
	Elements OrbitalElements
	Burning  bool // display flag: ApplyBurn sets it, the snapshot owner clears it
}

// DryMass returns the mass of the craft without any fuel.
func (sc Spacecraft) DryMass() float64 {
	return sc.Mass - sc.Fuel
}

// String implements the Stringer interface.
func (sc Spacecraft) String() string {
	return fmt.Sprintf("%s (m=%.1fkg f=%.1fkg) %s", sc.Name, sc.Mass, sc.Fuel, sc.Elements)
}

// NewSpacecraft returns a craft on the given orbit around the given body.
// Panics on a non-positive dry mass.
func NewSpacecraft(name string, dryMass, fuelMass float64, el OrbitalElements, body CelestialBody) Spacecraft {
	if dryMass <= 0 {
		panic("dry mass must be positive")
	}
	R, V := ElementsToState(el, body)
	el.Altitude = body.AltitudeKm(R.Norm())
	return Spacecraft{name, dryMass + fuelMass, fuelMass, R, V, el, false}
}
