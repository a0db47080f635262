// Example: propagation, Lambert transfer, and constellation demo
//
// Builds an Earth system, propagates a LEO spacecraft under a Cowell
// force model (J2 oblateness plus atmospheric drag and lift), solves a
// Lambert transfer between two sample position vectors, checks a ground
// station's horizon crossings during the propagation, and lays out a
// small Walker-delta constellation.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/astrocore/astro/astrolog"
	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/eom"
	"github.com/astrocore/astro/event"
	"github.com/astrocore/astro/force"
	"github.com/astrocore/astro/integrator"
	"github.com/astrocore/astro/lambert"
	"github.com/astrocore/astro/metrics"
	"github.com/astrocore/astro/platform"
	"github.com/astrocore/astro/state"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

// ECI tags the demo's inertial frame; the core never mixes vectors
// across distinct tag types, so one zero-sized type suffices for an
// entire run.
type ECI struct{}

const earthID bodies.ID = "earth"

func main() {
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	orbits := flag.Float64("orbits", 1.0, "number of orbital periods to propagate")
	flag.Parse()

	logger := astrolog.New(*logLevel, os.Stdout)
	log := astrolog.Entry(logger, "astrodemo")
	recorder := metrics.New(prometheus.NewRegistry())

	sys := earthSystem()
	epoch := astrotime.FromJD(2460310.5) // 2024-01-01 00:00 UTC

	sc, err := leoSpacecraft(sys, epoch)
	if err != nil {
		log.WithError(err).Fatal("failed to build spacecraft")
	}
	log.WithField("spacecraft_id", sc.ID()).Info("constructed spacecraft")

	kep, err := sc.CurrentState().GetKeplerian()
	if err != nil {
		log.WithError(err).Fatal("failed to read initial elements")
	}
	mu := mustMu(sys)
	period := units.DurationFromSeconds(2 * math.Pi * math.Sqrt(math.Pow(kep.A.Km(), 3)/mu))

	fmt.Printf("Initial semi-major axis: %.3f km, eccentricity: %.5f\n", kep.A.Km(), kep.E)
	fmt.Printf("Propagating %.1f orbit(s) (~%.1f minutes)\n\n", *orbits, period.Minutes()**orbits)

	forces := force.NewModel().
		Add(&force.Oblateness{
			BodyID: earthID, Degree: 2, Order: 0,
			Cnm: [][]float64{nil, nil, {-4.84165371736e-4}}, // normalized C20 = -J2/sqrt(5)
		}).
		Add(&force.Atmospheric{BodyID: earthID})

	gs, err := platform.NewGroundStation[ECI]("Canberra", mustBody(sys), units.AngleFromDegrees(-35.4), units.AngleFromDegrees(149.0), units.LengthFromKm(0.7))
	if err != nil {
		log.WithError(err).Fatal("failed to build ground station")
	}
	horizon := event.NewHorizonCrossing[ECI](gs.GroundPoint(), units.AngleFromDegrees(10))

	ig := integrator.NewAdaptive[ECI](sys, integrator.RKF45, 1e-9, 1e-9)
	hist, err := ig.Propagate(epoch, period.Scale(*orbits), eom.NewCowell[ECI](sys, forces), sc, true, []integrator.Event[ECI]{horizon})
	if err != nil {
		log.WithError(err).Fatal("propagation failed")
	}
	recorder.StepsAccepted.Add(float64(hist.Len()))

	fmt.Printf("Recorded %d history entries\n", hist.Len())
	dates := hist.EventDates(horizon.Name())
	fmt.Printf("Event %q fired %d time(s)\n", horizon.Name(), len(dates))
	for _, d := range dates {
		fmt.Printf("  %s\n", d.String())
	}

	if final, ferr := hist.Nearest(epoch.Add(period.Scale(*orbits))); ferr == nil {
		if cart, cerr := final.Elements.GetCartesian(); cerr == nil {
			fmt.Printf("\nFinal position (km): (%.3f, %.3f, %.3f)\n", cart.Position.X, cart.Position.Y, cart.Position.Z)
		}
	}

	demoLambert(mu, log)
	demoConstellation(sys, epoch, log)
}

func earthSystem() *bodies.System {
	sys := bodies.NewSystem(earthID)
	sys.AddBody(&bodies.CelestialBody{
		ID: earthID, Name: "Earth", Kind: bodies.Planet,
		Mu:                 units.GravParamFromKm3S2(398600.4418),
		EquatorialRadiusKm: 6378.137,
		PolarRadiusKm:      6356.752,
		CrashRadiusKm:      6378.137,
		J2:                 1.08262668e-3,
		RotationRateRadPerSec: 7.2921159e-5,
		Atmosphere: []bodies.AtmosphereLayer{
			{AltitudeKm: 0, RefDensityKgM3: 1.225, ScaleHeightKm: 8.5},
			{AltitudeKm: 200, RefDensityKgM3: 2.789e-10, ScaleHeightKm: 37.5},
			{AltitudeKm: 600, RefDensityKgM3: 1.137e-13, ScaleHeightKm: 71.8},
		},
	})
	return sys
}

func leoSpacecraft(sys *bodies.System, epoch astrotime.Date) (*platform.Spacecraft[ECI], error) {
	mu := mustMu(sys)
	r := 6378.137 + 500.0
	v := math.Sqrt(mu / r)
	initial := state.State[ECI]{
		Elements: elements.FromCartesian(elements.Cartesian[ECI]{
			Position: vector.New[ECI](r, 0, 0),
			Velocity: vector.New[ECI](0, v, 0.1*v),
		}),
		Date:   epoch,
		System: sys,
	}
	return platform.NewSpacecraft("Demo-1", initial, platform.SpacecraftConfig{
		Mass: units.MassFromKg(450), RamArea: units.AreaFromM2(3.2), DragCoeff: 2.2,
		LiftArea: units.AreaFromM2(0.5), LiftCoeff: 0.05,
		SolarArea: units.AreaFromM2(6), ReflectivityCoeff: 1.4,
	})
}

func demoLambert(mu float64, log *logrus.Entry) {
	r0 := vector.New[ECI](5000, 10000, 2100)
	rf := vector.New[ECI](-14600, 2500, 7000)
	v0, vf, err := lambert.Solve(r0, rf, units.DurationFromSeconds(3600), units.GravParamFromKm3S2(mu), true)
	if err != nil {
		log.WithError(err).Warn("lambert solve failed")
		return
	}
	fmt.Printf("\nLambert transfer departure velocity (km/s): (%.4f, %.4f, %.4f)\n", v0.X, v0.Y, v0.Z)
	fmt.Printf("Lambert transfer arrival velocity (km/s):   (%.4f, %.4f, %.4f)\n", vf.X, vf.Y, vf.Z)
}

func demoConstellation(sys *bodies.System, epoch astrotime.Date, log *logrus.Entry) {
	mu := mustMu(sys)
	a := 7200.0
	v := math.Sqrt(mu / a)
	seed := state.State[ECI]{
		Elements: elements.FromCartesian(elements.Cartesian[ECI]{
			Position: vector.New[ECI](a, 0, 0),
			Velocity: vector.New[ECI](0, v, 0),
		}),
		Date:   epoch,
		System: sys,
	}
	cfg := platform.WalkerConfig{
		Total: 12, Planes: 3, Phasing: 1,
		A: units.LengthFromKm(a), I: units.AngleFromDegrees(55),
	}
	scCfg := platform.SpacecraftConfig{
		Mass: units.MassFromKg(120), RamArea: units.AreaFromM2(1), DragCoeff: 2.2,
		LiftArea: units.AreaFromM2(0.2), LiftCoeff: 0.02,
		SolarArea: units.AreaFromM2(2), ReflectivityCoeff: 1.3,
	}
	constellation, err := platform.NewWalkerConstellation[ECI](cfg, seed, sys, "walker", scCfg)
	if err != nil {
		log.WithError(err).Warn("constellation construction failed")
		return
	}
	fmt.Printf("\nWalker constellation: %d satellites across %d planes\n", len(constellation.Spacecraft()), len(constellation.Shells[0].Planes))
	for _, sc := range constellation.Spacecraft() {
		fmt.Printf("  %s (id %s)\n", sc.Name(), sc.ID())
	}
}

func mustBody(sys *bodies.System) *bodies.CelestialBody {
	b, err := sys.GetCentralBody()
	if err != nil {
		panic(err)
	}
	return b
}

func mustMu(sys *bodies.System) float64 {
	mu, err := sys.GetMu()
	if err != nil {
		panic(err)
	}
	return mu.Km3S2()
}
