package lunarvoyer

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
)

const (
	// StepSize is the default step size of propagation.
	StepSize = 10 * time.Second
)

var wg sync.WaitGroup

/* Handles the continuous propagations. */

// Mission propagates a coasting craft in Cartesian space with an RK4
// integrator, for when the per-tick element stepping is too coarse (e.g.
// verifying a transfer arc). Burns stay impulsive: apply them on the vehicle
// between two PropagateUntil calls.
type Mission struct {
	Vehicle                    *Spacecraft // As pointer because the craft advances during propagation.
	Primary                    CelestialBody
	StartDT, StopDT, CurrentDT time.Time
	perts                      Perturbations
	step                       time.Duration
	stopChan                   chan (bool)
	histChan                   chan<- (State)
	logger                     kitlog.Logger
	done, collided             bool
}

// State stores one propagated state.
type State struct {
	DT time.Time
	SC Spacecraft
}

// NewMission is the same as NewPreciseMission with the default step size.
func NewMission(s *Spacecraft, primary CelestialBody, start, end time.Time, perts Perturbations, conf ExportConfig) *Mission {
	return NewPreciseMission(s, primary, start, end, perts, StepSize, conf)
}

// NewPreciseMission returns a new Mission instance with the provided time step.
func NewPreciseMission(s *Spacecraft, primary CelestialBody, start, end time.Time, perts Perturbations, step time.Duration, conf ExportConfig) *Mission {
	// If no filepath is provided, then no output will be written.
	var histChan chan (State)
	if !conf.IsUseless() {
		histChan = make(chan (State), 1000) // a 1k entry buffer
		wg.Add(1)
		go func() {
			defer wg.Done()
			StreamStates(conf, histChan)
		}()
	}
	// Must switch to UTC as all ephemeris data is in UTC.
	if start.Location() != time.UTC {
		start = start.UTC()
	}
	if end.Location() != time.UTC {
		end = end.UTC()
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	a := &Mission{s, primary, start, end, start, perts, step, make(chan (bool), 1), histChan, logger, false, false}
	// Write the first data point.
	if histChan != nil {
		histChan <- State{a.CurrentDT, *s}
	}

	if end.Before(start) {
		a.logger.Log("level", "warning", "subsys", "astro", "message", "no end date")
	}

	return a
}

// LogStatus reports the status of the propagation and vehicle.
func (a *Mission) LogStatus() {
	a.logger.Log("level", "info", "subsys", "astro", "date", a.CurrentDT, "fuel(kg)", a.Vehicle.Fuel, "orbit", a.Vehicle.Elements)
}

// PropagateUntil propagates until the given time is reached.
func (a *Mission) PropagateUntil(dt time.Time) {
	a.StopDT = dt
	a.Propagate()
}

// Propagate starts the propagation.
func (a *Mission) Propagate() {
	// Add a ticker status report based on the duration of the simulation.
	a.LogStatus()
	ticker := time.NewTicker(10 * time.Second)
	go func() {
		for range ticker.C {
			if a.done {
				break
			}
			a.LogStatus()
		}
	}()
	vInit := a.Vehicle.Velocity.Norm()
	ode.NewRK4(0, a.step.Seconds(), a).Solve() // Blocking.
	vFinal := a.Vehicle.Velocity.Norm()
	a.done = true
	ticker.Stop()
	duration := a.CurrentDT.Sub(a.StartDT)
	durStr := duration.String()
	if duration.Hours() > 24 {
		durStr += fmt.Sprintf(" (~%.3fd)", duration.Hours()/24)
	}
	a.logger.Log("level", "notice", "subsys", "astro", "status", "finished", "duration", durStr, "Δv(units/s)", math.Abs(vFinal-vInit))
	a.LogStatus()
	wg.Wait() // Don't return until we're done writing all the files.
}

// StopPropagation is used to stop the propagation before it is completed.
func (a *Mission) StopPropagation() {
	a.stopChan <- true
}

// Stop implements the stop call of the integrator. To stop the propagation, call StopPropagation().
func (a *Mission) Stop(t float64) bool {
	select {
	case <-a.stopChan:
		if a.histChan != nil {
			close(a.histChan)
		}
		return true // Stop because there is a request to stop.
	default:
		a.CurrentDT = a.CurrentDT.Add(a.step)
		if a.StopDT.Before(a.StartDT) {
			// No end date: a hard limit is set on a ten year propagation.
			if a.CurrentDT.After(a.StartDT.Add(24 * 3652.5 * time.Hour)) {
				a.logger.Log("level", "critical", "subsys", "astro", "status", "killed")
				if a.histChan != nil {
					close(a.histChan)
				}
				return true
			}
			return false
		}
		if a.CurrentDT.Sub(a.StopDT).Nanoseconds() > 0 {
			if a.histChan != nil {
				close(a.histChan)
			}
			return true // Stop, we've reached the end of the simulation.
		}
	}
	return false
}

// GetState returns the state for the integrator.
func (a *Mission) GetState() (s []float64) {
	s = make([]float64, 6)
	for i, val := range a.Vehicle.Position.Slice() {
		s[i] = val
	}
	for i, val := range a.Vehicle.Velocity.Slice() {
		s[i+3] = val
	}
	return
}

// SetState sets the updated state.
func (a *Mission) SetState(t float64, s []float64) {
	if a.histChan != nil {
		a.histChan <- State{a.CurrentDT, *a.Vehicle}
	}

	R := vector3FromSlice(s[0:3])
	V := vector3FromSlice(s[3:6])
	a.Vehicle.Position = R
	a.Vehicle.Velocity = V
	a.Vehicle.Elements = StateToElements(R, V, a.Primary)

	// Orbit sanity checks and warnings.
	if rNorm := R.Norm(); !a.collided && rNorm < a.Primary.Radius {
		a.collided = true
		a.logger.Log("level", "critical", "subsys", "astro", "collided", a.Primary.Name, "dt", a.CurrentDT, "r", rNorm, "radius", a.Primary.Radius)
	} else if a.collided && rNorm > a.Primary.Radius*1.1 {
		// Now further than the 10% dead zone
		a.collided = false
		a.logger.Log("level", "critical", "subsys", "astro", "revived", a.Primary.Name, "dt", a.CurrentDT)
	}
}

// Func is the integration function: two-body gravity plus perturbations.
func (a *Mission) Func(t float64, f []float64) (fDot []float64) {
	fDot = make([]float64, 6) // init return vector
	R := vector3FromSlice(f[0:3])
	V := vector3FromSlice(f[3:6])
	bodyAcc := -a.Primary.GM() / math.Pow(R.Norm(), 3)
	tmpSC := *a.Vehicle
	tmpSC.Position = R
	tmpSC.Velocity = V
	pert := a.perts.Accel(tmpSC)
	// d\vec{R}/dt
	fDot[0] = f[3]
	fDot[1] = f[4]
	fDot[2] = f[5]
	// d\vec{V}/dt
	fDot[3] = bodyAcc*f[0] + pert.X
	fDot[4] = bodyAcc*f[1] + pert.Y
	fDot[5] = bodyAcc*f[2] + pert.Z
	for i := 0; i < 6; i++ {
		if math.IsNaN(fDot[i]) {
			panic(fmt.Errorf("fDot[%d]=NaN @ dt=%s\nR=%+v\tV=%+v", i, a.CurrentDT, R, V))
		}
	}
	return
}
