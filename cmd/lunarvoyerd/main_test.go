package main

import (
	"bytes"
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ManmathX/lunarvoyer"
)

// The tick loop reads the engine configuration through MoonAt, so point it
// at a throwaway conf.toml with the live ephemeris on.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "lunarvoyerd")
	if err != nil {
		panic(err)
	}
	conf := "[general]\noutput_path = \"" + dir + "\"\n\n[ephemeris]\nlive_moon = true\n"
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte(conf), 0644); err != nil {
		panic(err)
	}
	os.Setenv("LUNARVOYER_CONFIG", dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func testSimulation(t *testing.T) *simulation {
	t.Helper()
	sim, err := newSimulation(lunarvoyer.DefaultScenario(), kitlog.NewNopLogger(), newSimCollector(prometheus.NewRegistry()))
	if err != nil {
		t.Fatal(err)
	}
	return sim
}

// The default field scatters debris and the -zone flag parks a zone, and both
// never expire. The wire document must omit their time remaining instead of
// handing +Inf to the JSON encoder.
func TestSnapshotMarshalsEveryHazard(t *testing.T) {
	scn := lunarvoyer.DefaultScenario()
	rng := rand.New(rand.NewSource(scn.Hazards.Seed))
	hazards := lunarvoyer.GenerateHazards(scn.Hazards.Count, time.Now(), rng)
	hazards = append(hazards, lunarvoyer.PerturbationZone{
		HazardInfo: lunarvoyer.HazardInfo{ID: "zone-00", Radius: 2, Duration: math.Inf(1), TimeRemaining: math.Inf(1)},
		Force:      lunarvoyer.Vector3{X: 5e-9},
	})
	views := make([]hazardView, len(hazards))
	debris := 0
	for k, h := range hazards {
		views[k] = viewOfHazard(h)
		switch h.(type) {
		case lunarvoyer.Debris:
			debris++
			if views[k].TimeRemaining != nil {
				t.Fatalf("%s must not carry a time remaining", views[k].ID)
			}
			if views[k].Velocity == nil {
				t.Fatalf("%s lost its velocity", views[k].ID)
			}
		case lunarvoyer.RadiationStorm:
			if views[k].TimeRemaining == nil {
				t.Fatalf("%s lost its time remaining", views[k].ID)
			}
		case lunarvoyer.PerturbationZone:
			if views[k].TimeRemaining != nil {
				t.Fatalf("%s must not carry a time remaining", views[k].ID)
			}
		}
	}
	if debris == 0 {
		t.Fatal("the default seed should scatter debris")
	}
	payload, err := json.Marshal(snapshot{Tick: 1, SimTime: time.Now(), Hazards: views})
	if err != nil {
		t.Fatalf("snapshot refused by the JSON encoder: %s", err)
	}
	if !bytes.Contains(payload, []byte(`"time_remaining"`)) {
		t.Fatal("storms should still publish their time remaining")
	}
}

// A burn lands between ticks; the next snapshot must show it, and only that
// one.
func TestSnapshotShowsBurnOnce(t *testing.T) {
	sim := testSimulation(t)
	if snap := sim.step(1); snap.Craft.Burning {
		t.Fatal("burning shown without a burn")
	}
	sim.applyBurn(burnRequest{Direction: sim.sc.Velocity, DeltaVMs: 5})
	if !sim.sc.Burning {
		t.Fatal("burn did not raise the display flag")
	}
	if snap := sim.step(1); !snap.Craft.Burning {
		t.Fatal("burn not visible on the next snapshot")
	}
	if snap := sim.step(1); snap.Craft.Burning {
		t.Fatal("burn still visible after one snapshot")
	}
}

// Each tick routes the Moon through the configuration-aware ephemeris.
func TestStepRefreshesTheMoon(t *testing.T) {
	sim := testSimulation(t)
	static := sim.perts.ThirdBody.Position
	sim.step(1)
	if sim.perts.ThirdBody.Position == static {
		t.Fatal("third body stuck at the static mean distance")
	}
	if r := sim.perts.ThirdBody.Position.Norm(); r < 350 || r > 410 {
		t.Fatalf("moon distance out of range: %f units", r)
	}
}
