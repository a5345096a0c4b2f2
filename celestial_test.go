package lunarvoyer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestCelestialObject(t *testing.T) {
	for _, body := range []CelestialBody{Sun, Earth, Moon} {
		if body.GM() != body.μ {
			t.Fatalf("GM not returning μ for %s", body)
		}
		if !strings.Contains(body.String(), body.Name) {
			t.Fatalf("string of %s does not contain its name", body.Name)
		}
		if !body.Equals(body) {
			t.Fatalf("%s not equal to itself", body)
		}
	}
	if Earth.Equals(Moon) {
		t.Fatal("Earth equals Moon")
	}
	if Earth.MetersPerUnit() != 1e3 {
		t.Fatal("Earth does not default to kilometers")
	}
}

func TestCelestialFromString(t *testing.T) {
	for _, name := range []string{"Earth", "earth", "Moon", "Sun"} {
		if _, err := CelestialBodyFromString(name); err != nil {
			t.Fatalf("%s not found: %s", name, err)
		}
	}
	if _, err := CelestialBodyFromString("Vulcan"); err == nil {
		t.Fatal("Vulcan exists")
	}
}

func TestInUnits(t *testing.T) {
	viz := Earth.InUnits(VizKmPerUnit)
	if !floats.EqualWithinAbs(viz.Radius, Earth.Radius/VizKmPerUnit, 1e-12) {
		t.Fatalf("radius not rescaled: %f", viz.Radius)
	}
	if !floats.EqualWithinAbs(viz.GM(), Earth.GM()/math.Pow(VizKmPerUnit, 3), 1e-12) {
		t.Fatalf("μ not rescaled by the cube: %f", viz.GM())
	}
	if viz.KmPerUnit != VizKmPerUnit || viz.MetersPerUnit() != VizKmPerUnit*1e3 {
		t.Fatal("unit scale not recorded")
	}
	if viz.Mass != Earth.Mass {
		t.Fatal("mass should not rescale")
	}
	// Altitude stays in kilometers in both systems.
	altKm := Earth.AltitudeKm(Earth.Radius + 500)
	altViz := viz.AltitudeKm(viz.Radius + 500/VizKmPerUnit)
	if !floats.EqualWithinAbs(altKm, 500, 1e-9) || !floats.EqualWithinAbs(altViz, 500, 1e-9) {
		t.Fatalf("altitudes: %f km and %f km", altKm, altViz)
	}
	// Round trip back to kilometers.
	back := viz.InUnits(1)
	if back.Name != Earth.Name || !floats.EqualWithinRel(back.Radius, Earth.Radius, 1e-14) || !floats.EqualWithinRel(back.GM(), Earth.GM(), 1e-14) {
		t.Fatal("round trip through the visualization scale failed")
	}
}

func TestMoonEphemeris(t *testing.T) {
	dt := time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC)
	moon := Moon.EphemerisAt(dt)
	d := moon.Position.Norm()
	// The geocentric distance oscillates between perigee and apogee.
	if d < 356000 || d > 407000 {
		t.Fatalf("lunar distance %f km out of range", d)
	}
	vizMoon := Moon.InUnits(VizKmPerUnit).EphemerisAt(dt)
	if !floats.EqualWithinAbs(vizMoon.Position.Norm(), d/VizKmPerUnit, 1e-9) {
		t.Fatal("ephemeris does not honor the unit scale")
	}
	assertPanic(t, func() {
		Earth.EphemerisAt(dt)
	})
}

func TestMoonAt(t *testing.T) {
	dt := time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC)
	cfgLoaded = true
	config = _lvconfig{liveMoon: false}
	static := MoonAt(dt, VizKmPerUnit)
	if !floats.EqualWithinAbs(static.Position.Norm(), 384400/VizKmPerUnit, 1e-9) {
		t.Fatalf("static Moon not at the mean distance: %f", static.Position.Norm())
	}
	config = _lvconfig{liveMoon: true}
	live := MoonAt(dt, VizKmPerUnit)
	if floats.EqualWithinAbs(live.Position.Norm(), 384400/VizKmPerUnit, 1e-9) {
		t.Fatal("live Moon stuck at the mean distance")
	}
}
