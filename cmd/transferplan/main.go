// transferplan sizes a Hohmann transfer from a TOML plan: both impulses, the
// fuel they cost, the time of flight. It can also verify the arc by numerical
// propagation and export the trajectory for rendering.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
	"github.com/spf13/viper"

	"github.com/ManmathX/lunarvoyer"
)

const defaultPlan = "~~unset~~"

var (
	plan    string
	verbose bool
)

func init() {
	// Read flags
	flag.StringVar(&plan, "plan", defaultPlan, "transfer plan TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	// Load plan
	if plan == defaultPlan {
		log.Fatal("no plan provided")
	}
	plan = strings.Replace(plan, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(plan)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", plan, err)
	}

	// Read transfer parameters
	bodyName := viper.GetString("transfer.body")
	body, err := lunarvoyer.CelestialBodyFromString(bodyName)
	if err != nil {
		log.Fatalf("could not understand body `%s`: %s", bodyName, err)
	}
	kmPerUnit := viper.GetFloat64("transfer.km_per_unit")
	if kmPerUnit <= 0 {
		kmPerUnit = 1
	}
	body = body.InUnits(kmPerUnit)
	rInit := viper.GetFloat64("transfer.r_init") / kmPerUnit
	rFinal := viper.GetFloat64("transfer.r_final") / kmPerUnit
	if rInit <= 0 || rFinal <= 0 {
		log.Fatalf("radii must be positive (r_init=%f, r_final=%f)", rInit, rFinal)
	}
	inc := viper.GetFloat64("transfer.inc")
	startDT := confReadJDEorTime("transfer.start")
	if startDT.IsZero() {
		startDT = time.Now().UTC()
	}
	if verbose {
		log.Printf("[conf] %s transfer of %.1f km -> %.1f km starting %s\n", body.Name, rInit*kmPerUnit, rFinal*kmPerUnit, startDT)
	}

	// Read spacecraft
	scName := viper.GetString("spacecraft.name")
	dryMass := viper.GetFloat64("spacecraft.dry")
	fuelMass := viper.GetFloat64("spacecraft.fuel")

	// Size the transfer.
	Δv1, Δv2 := lunarvoyer.HohmannDeltaV(rInit, rFinal, body.GM())
	tof := lunarvoyer.HohmannTOF(rInit, rFinal, body.GM())
	Δv1Ms := math.Abs(Δv1) * body.MetersPerUnit()
	Δv2Ms := math.Abs(Δv2) * body.MetersPerUnit()
	fuel1 := lunarvoyer.FuelForDeltaV(Δv1Ms, dryMass+fuelMass, lunarvoyer.BurnIsp)
	fuel2 := lunarvoyer.FuelForDeltaV(Δv2Ms, dryMass+fuelMass-fuel1, lunarvoyer.BurnIsp)

	var events lunarvoyer.EventLog
	events.Append(lunarvoyer.MissionEvent{DT: startDT, Category: lunarvoyer.TransferEvent,
		Detail: fmt.Sprintf("departure burn sized for %s (%.1f kg)", scName, fuel1), ΔV: Δv1Ms})
	events.Append(lunarvoyer.MissionEvent{DT: startDT.Add(tof), Category: lunarvoyer.TransferEvent,
		Detail: fmt.Sprintf("arrival burn sized for %s (%.1f kg)", scName, fuel2), ΔV: Δv2Ms})

	log.Printf("Δv1=%.1f m/s\tΔv2=%.1f m/s\ttotal=%.1f m/s", Δv1Ms, Δv2Ms, Δv1Ms+Δv2Ms)
	log.Printf("fuel: %.1f kg + %.1f kg = %.1f kg (%.1f kg aboard)", fuel1, fuel2, fuel1+fuel2, fuelMass)
	log.Printf("time of flight: %s", tof)
	if fuel1+fuel2 > fuelMass {
		log.Printf("[WARNING] plan needs %.1f kg more fuel than aboard", fuel1+fuel2-fuelMass)
	}

	if viper.GetBool("verify.enabled") {
		verify(scName, dryMass, fuelMass, rInit, rFinal, inc, Δv1, Δv2, startDT, tof, body, &events)
	}

	for _, e := range events.All() {
		fmt.Println(e)
	}
}

// verify propagates the transfer arc numerically: departure burn, RK4 coast
// for the time of flight, arrival burn, and reports how far the reached orbit
// is from the target.
func verify(scName string, dryMass, fuelMass, rInit, rFinal, inc, Δv1, Δv2 float64, startDT time.Time, tof time.Duration, body lunarvoyer.CelestialBody, events *lunarvoyer.EventLog) {
	step := viper.GetDuration("verify.step")
	if step == 0 {
		step = lunarvoyer.StepSize
	}
	var conf lunarvoyer.ExportConfig
	if viper.GetBool("verify.export") {
		conf = lunarvoyer.ExportConfig{Filename: scName, AsXYZV: true, AsCSV: true}
	}

	el := lunarvoyer.NewElements(rInit, 0, inc, 0, 0, 0)
	sc := lunarvoyer.NewSpacecraft(scName, dryMass, fuelMass, el, body)
	vDep, vArr, _ := lunarvoyer.Hohmann(rInit, rFinal, body)

	dir := sc.Velocity.Unit()
	if Δv1 < 0 {
		dir = dir.Scale(-1)
	}
	sc, applied1, burned1 := lunarvoyer.ApplyBurn(sc, body, dir, math.Abs(Δv1)*body.MetersPerUnit())
	events.Append(lunarvoyer.MissionEvent{DT: startDT, Category: lunarvoyer.BurnEvent,
		Detail: fmt.Sprintf("departure burn (%.1f kg)", burned1), ΔV: applied1})
	log.Printf("departure speed: %.6f units/s (transfer ellipse: %.6f)", sc.Velocity.Norm(), vDep)

	lunarvoyer.NewPreciseMission(&sc, body, startDT, startDT.Add(tof), lunarvoyer.Perturbations{}, step, conf).Propagate()
	log.Printf("arrival speed: %.6f units/s (transfer ellipse: %.6f)", sc.Velocity.Norm(), vArr)

	dir = sc.Velocity.Unit()
	if Δv2 < 0 {
		dir = dir.Scale(-1)
	}
	sc, applied2, burned2 := lunarvoyer.ApplyBurn(sc, body, dir, math.Abs(Δv2)*body.MetersPerUnit())
	events.Append(lunarvoyer.MissionEvent{DT: startDT.Add(tof), Category: lunarvoyer.BurnEvent,
		Detail: fmt.Sprintf("arrival burn (%.1f kg)", burned2), ΔV: applied2})

	smaErrKm := math.Abs(sc.Elements.SMA-rFinal) * body.KmPerUnit
	log.Printf("reached orbit: %s", sc.Elements)
	log.Printf("SMA error: %.3f km, eccentricity: %.6f, fuel left: %.1f kg", smaErrKm, sc.Elements.Ecc, sc.Fuel)

	if n := viper.GetInt("verify.pathpoints"); n > 0 {
		path, err := lunarvoyer.ExportOrbitPathJSON(sc.Elements, body, n, scName)
		if err != nil {
			log.Fatalf("could not export the orbit path: %s", err)
		}
		log.Printf("orbit path written to %s", path)
	}
}

func confReadJDEorTime(key string) (dt time.Time) {
	jde := viper.GetFloat64(key)
	if jde == 0 {
		dt = viper.GetTime(key)
	} else {
		dt = julian.JDToTime(jde)
	}
	return
}
