package lunarvoyer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes the initial setup of a simulation, as loaded from YAML.
// Distances are in kilometers and angles in degrees: the scenario is meant
// to be written by hand, Realize converts into simulation units.
type Scenario struct {
	Name      string  `yaml:"name"`
	KmPerUnit float64 `yaml:"km_per_unit"`
	Body      string  `yaml:"body"`
	Craft     struct {
		Name string  `yaml:"name"`
		Dry  float64 `yaml:"dry"`  // kg
		Fuel float64 `yaml:"fuel"` // kg
	} `yaml:"craft"`
	Orbit struct {
		SMA     float64 `yaml:"sma"` // km
		Ecc     float64 `yaml:"ecc"`
		Inc     float64 `yaml:"inc"`      // deg
		RAAN    float64 `yaml:"raan"`     // deg
		ArgPeri float64 `yaml:"arg_peri"` // deg
		Anomaly float64 `yaml:"anomaly"`  // deg
	} `yaml:"orbit"`
	Hazards struct {
		Count int   `yaml:"count"`
		Seed  int64 `yaml:"seed"`
	} `yaml:"hazards"`
	TickSeconds float64 `yaml:"tick_seconds"` // simulated seconds per tick before warp
	Warp        float64 `yaml:"warp"`
	ThirdBody   string  `yaml:"third_body"` // empty for pure two-body motion
}

// DefaultScenario returns the standard starting point: a lightly eccentric
// low Earth orbit at the visualization scale, Moon tugging, a handful of
// hazards.
func DefaultScenario() Scenario {
	s := Scenario{Name: "leo-start", KmPerUnit: VizKmPerUnit, Body: "Earth", ThirdBody: "Moon", TickSeconds: 1, Warp: 60}
	s.Craft.Name = "LV-1"
	s.Craft.Dry = 1000
	s.Craft.Fuel = 500
	s.Orbit.SMA = 6671
	s.Orbit.Ecc = 0.01
	s.Orbit.Inc = 28.5
	s.Hazards.Count = 6
	s.Hazards.Seed = 42
	return s
}

// LoadScenario reads a scenario from a YAML file, filling the blanks with
// the defaults of DefaultScenario.
func LoadScenario(path string) (Scenario, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	s := DefaultScenario()
	if err := yaml.Unmarshal(f, &s); err != nil {
		return Scenario{}, err
	}
	if s.KmPerUnit <= 0 {
		s.KmPerUnit = VizKmPerUnit
	}
	if s.TickSeconds <= 0 {
		s.TickSeconds = 1
	}
	if s.Warp <= 0 {
		s.Warp = 1
	}
	return s, nil
}

// Realize builds the simulation pieces the scenario describes: the primary
// re-expressed in the scenario's unit system, the craft on its initial
// orbit, and the perturbations to coast with.
func (s Scenario) Realize() (Spacecraft, CelestialBody, Perturbations, error) {
	body, err := CelestialBodyFromString(s.Body)
	if err != nil {
		return Spacecraft{}, CelestialBody{}, Perturbations{}, err
	}
	primary := body.InUnits(s.KmPerUnit)
	el := NewElements(s.Orbit.SMA/s.KmPerUnit, s.Orbit.Ecc, s.Orbit.Inc, s.Orbit.RAAN, s.Orbit.ArgPeri, s.Orbit.Anomaly)
	sc := NewSpacecraft(s.Craft.Name, s.Craft.Dry, s.Craft.Fuel, el, primary)
	var perts Perturbations
	if s.ThirdBody != "" {
		third, err := CelestialBodyFromString(s.ThirdBody)
		if err != nil {
			return Spacecraft{}, CelestialBody{}, Perturbations{}, fmt.Errorf("third body: %s", err)
		}
		scaled := third.InUnits(s.KmPerUnit)
		perts.ThirdBody = &scaled
	}
	return sc, primary, perts, nil
}
