package lunarvoyer

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestCross(t *testing.T) {
	i := Vector3{X: 1}
	j := Vector3{Y: 1}
	k := Vector3{Z: 1}
	if i.Cross(j) != k {
		t.Fatal("i x j != k")
	}
	if j.Cross(k) != i {
		t.Fatal("j x k != i")
	}
	if !vectorsEqual(Vector3{2, 3, 4}.Cross(Vector3{5, 6, 7}), Vector3{-3, 6, -3}) {
		t.Fatal("cross fail")
	}
	// From Vallado
	if !vectorsEqual(Vector3{6524.834, 6862.875, 6448.296}.Cross(Vector3{4.901327, 5.533756, -1.976341}),
		Vector3{-4.924667792015100e4, 4.450050424118601e4, 0.246964476137900e4}) {
		t.Fatal("cross fail")
	}
}

func TestVectorOps(t *testing.T) {
	v := Vector3{5, 6, 7}
	w := Vector3{7, 6, 5}
	if v.Add(w) != (Vector3{12, 12, 12}) {
		t.Fatal("add fail")
	}
	if v.Sub(w) != (Vector3{-2, 0, 2}) {
		t.Fatal("sub fail")
	}
	if v.Scale(2) != (Vector3{10, 12, 14}) {
		t.Fatal("scale fail")
	}
	if v.Dot(w) != 5*7+6*6+7*5 {
		t.Fatal("dot fail")
	}
	if v.Norm() != math.Sqrt(110) || v.Norm() != w.Norm() {
		t.Fatal("norm of [5 6 7] and permutation is invalid")
	}
	if (Vector3{}).Norm() != 0 {
		t.Fatal("norm of a nil vector was not nil")
	}
	if (Vector3{}).Unit() != (Vector3{}) {
		t.Fatal("unit of a nil vector was not nil")
	}
	u := v.Unit()
	if !floats.EqualWithinAbs(u.Norm(), 1, 1e-12) {
		t.Fatalf("|unit| = %f", u.Norm())
	}
	if !floats.EqualWithinAbs(v.DistanceTo(w), math.Sqrt(8), 1e-12) {
		t.Fatal("distance fail")
	}
	s := v.Slice()
	if len(s) != 3 || s[0] != 5 || s[1] != 6 || s[2] != 7 {
		t.Fatal("slice fail")
	}
	if vector3FromSlice(s) != v {
		t.Fatal("fromSlice fail")
	}
	if sign(10) != 1 || sign(-10) != -1 || sign(0) != 1 {
		t.Fatal("sign fail")
	}
}

func TestAngles(t *testing.T) {
	for i := 0.0; i <= 360; i += 0.5 {
		if ok, _ := anglesEqual(Deg2rad(i), Deg2rad(Rad2deg(Deg2rad(i)))); i < 360 && !ok {
			t.Fatalf("incorrect conversion for %3.2f", i)
		} else if i == 360 && Rad2deg(Deg2rad(i)) != 0 {
			t.Fatalf("incorrect conversion for %3.2f", i)
		}
	}
	if ok, _ := anglesEqual(Deg2rad(1), Deg2rad(Rad2deg(Deg2rad(-359.)))); !ok {
		t.Fatal("incorrect conversion for -359")
	}
	if ok, _ := anglesEqual(Deg2rad(180), Deg2rad(Rad2deg(Deg2rad(-180.)))); !ok {
		t.Fatal("incorrect conversion for -180")
	}
	if ok, _ := anglesEqual(math.Pi/3, Deg2rad(Rad2deg(-5*math.Pi/3))); !ok {
		t.Fatal("incorrect conversion for -pi/3")
	}
}

func TestSpherical2Cartisean(t *testing.T) {
	incr := math.Pi / 10
	for r := 0.0; r < 1000; r += 100 {
		for θ := incr; θ < math.Pi; θ += incr {
			for φ := incr; φ < 2*math.Pi; φ += incr {
				br, bθ, bφ := Cartesian2Spherical(Spherical2Cartesian(r, θ, φ))
				if r == 0.0 {
					if br != 0 || bθ != 0 || bφ != 0 {
						t.Fatal("zero norm should return zero vector")
					}
					continue
				}
				if !floats.EqualWithinAbs(r, br, 1e-12) {
					t.Fatalf("r incorrect (%f != %f)", r, br)
				}
				if ok, err := anglesEqual(θ, bθ); !ok {
					t.Fatalf("θ incorrect (%f != %f) %s", θ, bθ, err)
				}
				if ok, err := anglesEqual(φ, bφ); !ok {
					t.Fatalf("φ incorrect (%f != %f) %s", φ, bφ, err)
				}
			}
		}
	}
}
