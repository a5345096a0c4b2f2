package lunarvoyer

import "math"

// pertDistanceε floors the separation to a perturbing body so the inverse
// cube stays finite, in units.
const pertDistanceε = 1e-6

// Perturbations defines which perturbations to account for while coasting.
type Perturbations struct {
	ThirdBody *CelestialBody              // the 3rd body which is perturbing the spacecraft
	Arbitrary func(sc Spacecraft) Vector3 // additional arbitrary perturbation, units/s²
}

func (p Perturbations) isEmpty() bool {
	return p.ThirdBody == nil && p.Arbitrary == nil
}

// Accel returns the perturbing acceleration on the given craft, in units/s².
// Only the direct gravitational term of the third body is applied.
func (p Perturbations) Accel(sc Spacecraft) Vector3 {
	var acc Vector3
	if p.ThirdBody != nil {
		Δr := p.ThirdBody.Position.Sub(sc.Position)
		d := Δr.Norm()
		if d < pertDistanceε {
			d = pertDistanceε
		}
		acc = acc.Add(Δr.Scale(p.ThirdBody.GM() / math.Pow(d, 3)))
	}
	if p.Arbitrary != nil {
		acc = acc.Add(p.Arbitrary(sc))
	}
	return acc
}
