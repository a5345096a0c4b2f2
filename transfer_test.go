package lunarvoyer

import (
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestHohmannDeltaV(t *testing.T) {
	μ := Earth.GM()
	// LEO to GEO.
	Δv1, Δv2 := HohmannDeltaV(6678, 42164, μ)
	if !floats.EqualWithinAbs(Δv1, 2.425769028306859, 1e-9) {
		t.Fatalf("departure Δv invalid: %.12f km/s", Δv1)
	}
	if !floats.EqualWithinAbs(Δv2, 1.4668387152844526, 1e-9) {
		t.Fatalf("arrival Δv invalid: %.12f km/s", Δv2)
	}
	// Same orbit: nothing to do.
	if Δv1, Δv2 := HohmannDeltaV(42164, 42164, μ); Δv1 != 0 || Δv2 != 0 {
		t.Fatalf("transfer onto itself costs Δv: %f %f", Δv1, Δv2)
	}
	// Inward transfers mirror the outward ones with flipped signs.
	in1, in2 := HohmannDeltaV(42164, 6678, μ)
	if !floats.EqualWithinAbs(in1, -Δv2, 1e-12) || !floats.EqualWithinAbs(in2, -Δv1, 1e-12) {
		t.Fatalf("inward transfer not mirrored: %f %f", in1, in2)
	}
	if in1 >= 0 || in2 >= 0 {
		t.Fatal("inward impulses must be negative")
	}
}

func TestHohmannTOF(t *testing.T) {
	tof := HohmannTOF(6678, 42164, Earth.GM())
	if !floats.EqualWithinAbs(tof.Seconds(), 18990.051838, 1e-3) {
		t.Fatalf("time of flight invalid: %s", tof)
	}
}

func TestHohmann(t *testing.T) {
	μ := Earth.GM()
	vDep, vArr, tof := Hohmann(6678, 42164, Earth)
	// Consistency with the impulse form.
	Δv1, Δv2 := HohmannDeltaV(6678, 42164, μ)
	vc1 := OrbitalElements{SMA: 6678, Ecc: eccentricityε, TrueAnomaly: 0}.VNorm(μ)
	vc2 := OrbitalElements{SMA: 42164, Ecc: eccentricityε, TrueAnomaly: 0}.VNorm(μ)
	if !floats.EqualWithinAbs(vDep-vc1, Δv1, 1e-3) {
		t.Fatalf("departure speeds inconsistent: %f vs %f", vDep-vc1, Δv1)
	}
	if !floats.EqualWithinAbs(vc2-vArr, Δv2, 1e-3) {
		t.Fatalf("arrival speeds inconsistent: %f vs %f", vc2-vArr, Δv2)
	}
	if tof != 18990*time.Second {
		t.Fatalf("time of flight invalid: %s", tof)
	}
}

func TestOrbitPoints(t *testing.T) {
	el := NewElements(26000, 0.3, 28.5, 40, 0, 0)
	n := 16
	seq := OrbitPoints(el, Earth, n)
	count := 0
	var first Vector3
	seq(func(pt Vector3) bool {
		if count == 0 {
			first = pt
		}
		r := pt.Norm()
		if r < el.Periapsis()*(1-1e-9) || r > el.Apoapsis()*(1+1e-9) {
			t.Fatalf("point %d off the orbit: r=%f", count, r)
		}
		count++
		return true
	})
	if count != n {
		t.Fatalf("expected %d points, got %d", n, count)
	}
	// The sweep restarts from periapsis.
	seq(func(pt Vector3) bool {
		if pt != first {
			t.Fatalf("sweep did not restart: %+v vs %+v", pt, first)
		}
		return false
	})
	// Early termination stops the generator.
	count = 0
	seq(func(Vector3) bool {
		count++
		if count == 3 {
			return false
		}
		return true
	})
	if count != 3 {
		t.Fatalf("early break failed: %d", count)
	}
}
