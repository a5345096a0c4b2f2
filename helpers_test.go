package lunarvoyer

import (
	"fmt"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b Vector3) bool {
	return floats.EqualWithinRel(a.X, b.X, 1e-3) && floats.EqualWithinRel(a.Y, b.Y, 1e-3) && floats.EqualWithinRel(a.Z, b.Z, 1e-3)
}

// vecWithin compares component wise with an absolute tolerance, which works
// near zero where a relative comparison cannot.
func vecWithin(a, b Vector3, tol float64) bool {
	return floats.EqualWithinAbs(a.X, b.X, tol) && floats.EqualWithinAbs(a.Y, b.Y, tol) && floats.EqualWithinAbs(a.Z, b.Z, tol)
}

//anglesEqual returns whether two angles in Radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < angleε || diff > 2*math.Pi-angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Abs(Rad2deg(diff)))
}
