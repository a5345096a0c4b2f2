package lunarvoyer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// ExportConfig configures the exporting of a propagation.
type ExportConfig struct {
	Filename     string
	AsXYZV       bool
	AsCSV        bool
	Timestamp    bool
	CSVAppend    func(st State) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string         // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsXYZV && !c.AsCSV
}

// createInterpolatedFile returns a file which requires a defer close statement!
func createInterpolatedFile(filename string, stamped bool, stateDT time.Time) *os.File {
	config := lvConfig()
	if stamped {
		t := time.Now()
		filename = fmt.Sprintf("%s/prop-%s-%d-%02d-%02dT%02d.%02d.%02d.xyzv", config.outputDir, filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/prop-%s.xyzv", config.outputDir, filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Position and velocity are in the simulation's units
#   Simulation time start (UTC): %s`, time.Now(), stateDT.UTC()))
	return f
}

// createElementsCSVFile returns a file which requires a defer close statement!
func createElementsCSVFile(filename string, conf ExportConfig, stateDT time.Time) *os.File {
	config := lvConfig()
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/orbital-elements-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", config.outputDir, filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/orbital-elements-%s.csv", config.outputDir, filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are a, e, i, Ω, ν. All angles are in degrees.
#   Simulation time start (UTC): %s
time,a,e,i,Omega,nu,altitude,fuel`, time.Now(), stateDT.UTC()))
	if conf.CSVAppendHdr != nil {
		f.WriteString("," + conf.CSVAppendHdr())
	}
	return f
}

// StreamStates streams the states of a propagation to the configured files.
// It returns when the channel closes, at most one record per StepSize of
// simulation time.
func StreamStates(conf ExportConfig, stateChan <-chan (State)) {
	var prevState *State
	var f, fAsCSV *os.File
	for state := range stateChan {
		if prevState == nil {
			if conf.AsXYZV {
				f = createInterpolatedFile(conf.Filename, conf.Timestamp, state.DT)
				defer f.Close()
			}
			if conf.AsCSV {
				fAsCSV = createElementsCSVFile(conf.Filename, conf, state.DT)
				defer fAsCSV.Close()
			}
		} else if state.DT.Sub(prevState.DT) < StepSize {
			// Only write one datapoint per propagation step.
			continue
		}
		st := state
		prevState = &st
		if conf.AsXYZV {
			jd := julian.TimeToJD(state.DT)
			R, V := state.SC.Position, state.SC.Velocity
			asTxt := fmt.Sprintf("%f %f %f %f %f %f %f", jd, R.X, R.Y, R.Z, V.X, V.Y, V.Z)
			if _, err := f.WriteString("\n" + asTxt); err != nil {
				panic(err)
			}
		}
		if conf.AsCSV {
			el := state.SC.Elements
			asTxt := fmt.Sprintf("%s,%.3f,%.6f,%.3f,%.3f,%.3f,%.3f,%.3f", state.DT.UTC().Format("2006-01-02 15:04:05"), el.SMA, el.Ecc, Rad2deg(el.Inc), Rad2deg(el.RAAN), Rad2deg(el.TrueAnomaly), el.Altitude, state.SC.Fuel)
			if conf.CSVAppend != nil {
				asTxt += "," + conf.CSVAppend(state)
			}
			if _, err := fAsCSV.WriteString("\n" + asTxt); err != nil {
				panic(err)
			}
		}
	}
	if prevState != nil {
		if conf.AsXYZV {
			f.WriteString(fmt.Sprintf("\n# Simulation time end (UTC): %s\n", prevState.DT.UTC()))
		}
		if conf.AsCSV {
			fAsCSV.WriteString(fmt.Sprintf("\n# Simulation time end (UTC): %s\n", prevState.DT.UTC()))
		}
	}
}

// orbitPathPoint is one JSON record of an exported orbit path.
type orbitPathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ExportOrbitPathJSON writes n positions swept along the given orbit to a
// JSON file for the rendering side, and returns the full path written.
func ExportOrbitPathJSON(el OrbitalElements, body CelestialBody, n int, filename string) (string, error) {
	pts := make([]orbitPathPoint, 0, n)
	OrbitPoints(el, body, n)(func(pos Vector3) bool {
		pts = append(pts, orbitPathPoint{pos.X, pos.Y, pos.Z})
		return true
	})
	fullPath := fmt.Sprintf("%s/path-%s.json", lvConfig().outputDir, filename)
	f, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(pts); err != nil {
		return "", err
	}
	return fullPath, nil
}
