package lunarvoyer

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

const (
	deg2rad = math.Pi / 180
)

// Vector3 is a Cartesian triple in the simulation's distance units.
// All operations return new values.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by f.
func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{v.X * f, v.Y * f, v.Z * f}
}

// Dot returns the inner product of v and w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v x w.
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X} // Cross product R x V.
}

// Norm returns the Euclidean norm of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Unit returns the unit vector of v. The zero vector stays zero.
func (v Vector3) Unit() Vector3 {
	n := v.Norm()
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return Vector3{}
	}
	return Vector3{v.X / n, v.Y / n, v.Z / n}
}

// DistanceTo returns the straight-line distance between v and w.
func (v Vector3) DistanceTo(w Vector3) float64 {
	return v.Sub(w).Norm()
}

// Slice returns v as a 3x1 slice.
func (v Vector3) Slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("[%.6f %.6f %.6f]", v.X, v.Y, v.Z)
}

// vector3FromSlice builds a Vector3 from the first three components of s.
func vector3FromSlice(s []float64) Vector3 {
	return Vector3{s[0], s[1], s[2]}
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Spherical2Cartesian returns the provided spherical coordinates (r, θ, φ) in Cartesian.
func Spherical2Cartesian(r, θ, φ float64) Vector3 {
	sθ, cθ := math.Sincos(θ)
	sφ, cφ := math.Sincos(φ)
	return Vector3{r * sθ * cφ, r * sθ * sφ, r * cθ}
}

// Cartesian2Spherical returns the provided Cartesian coordinates vector in spherical.
func Cartesian2Spherical(v Vector3) (r, θ, φ float64) {
	r = v.Norm()
	if r == 0 {
		return 0, 0, 0
	}
	θ = math.Acos(v.Z / r)
	φ = math.Atan2(v.Y, v.X)
	return
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
