package force

import (
	"math"
	"testing"

	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

type fakeVehicle struct {
	mass, ramArea, cd, liftArea, cl, solarArea, cr float64
}

func (v fakeVehicle) MassKg() float64                  { return v.mass }
func (v fakeVehicle) RamAreaM2() float64               { return v.ramArea }
func (v fakeVehicle) DragCoefficient() float64         { return v.cd }
func (v fakeVehicle) LiftAreaM2() float64              { return v.liftArea }
func (v fakeVehicle) LiftCoefficient() float64         { return v.cl }
func (v fakeVehicle) SolarAreaM2() float64             { return v.solarArea }
func (v fakeVehicle) ReflectivityCoefficient() float64 { return v.cr }

func leoSystem() *bodies.System {
	s := bodies.NewSystem("earth")
	s.AddBody(&bodies.CelestialBody{
		ID:                 "earth",
		Mu:                 units.GravParamFromKm3S2(398600.4418),
		EquatorialRadiusKm: 6378.137,
		Atmosphere: []bodies.AtmosphereLayer{
			{AltitudeKm: 0, RefDensityKgM3: 1.225, ScaleHeightKm: 8.5},
			{AltitudeKm: 300, RefDensityKgM3: 1.916e-11, ScaleHeightKm: 53.6},
		},
	})
	return s
}

func TestModel_ComputeTotal_SumsForces(t *testing.T) {
	m := NewModel()
	m.Add(constForce{a: vector.New[Tag](1, 0, 0)})
	m.Add(constForce{a: vector.New[Tag](0, 2, 0)})

	total, err := m.ComputeTotal(2451545.0, vector.Zero[Tag](), vector.Zero[Tag](), fakeVehicle{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total.X != 1 || total.Y != 2 {
		t.Fatalf("total = %v, want (1,2,0)", total)
	}
}

type constForce struct{ a vector.V[Tag] }

func (c constForce) ComputeAcceleration(jdTDB float64, pos, vel vector.V[Tag], veh Vehicle, sys *bodies.System) (vector.V[Tag], error) {
	return c.a, nil
}

func TestAtmospheric_ZeroAboveNoAtmosphere(t *testing.T) {
	sys := bodies.NewSystem("moon")
	sys.AddBody(&bodies.CelestialBody{ID: "moon", EquatorialRadiusKm: 1737.4})
	af := &Atmospheric{BodyID: "moon"}
	pos := vector.New[Tag](1837.4, 0, 0)
	vel := vector.New[Tag](0, 1.6, 0)
	a, err := af.ComputeAcceleration(2451545.0, pos, vel, fakeVehicle{mass: 500, ramArea: 2, cd: 2.2}, sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Norm() != 0 {
		t.Fatalf("expected zero drag for airless body, got %v", a)
	}
}

func TestAtmospheric_OpposesVelocity(t *testing.T) {
	sys := leoSystem()
	af := &Atmospheric{BodyID: "earth"}
	pos := vector.New[Tag](6678.137, 0, 0) // 300 km altitude
	vel := vector.New[Tag](0, 7.7, 0)
	a, err := af.ComputeAcceleration(2451545.0, pos, vel, fakeVehicle{mass: 500, ramArea: 2, cd: 2.2}, sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Norm() == 0 {
		t.Fatalf("expected nonzero drag at 300km")
	}
	// Drag should have a negative component roughly opposite velocity's Y.
	if a.Y >= 0 {
		t.Fatalf("expected drag to oppose along-track velocity, got a.Y=%v", a.Y)
	}
}

func TestSolarRadiationPressure_ZeroInUmbra(t *testing.T) {
	sys := bodies.NewSystem("earth")
	sys.AddBody(&bodies.CelestialBody{
		ID: "earth", EquatorialRadiusKm: 6378.137,
		Mean: &bodies.MeanElements{}, // fixed at the origin for this fixture
	})
	sys.AddBody(&bodies.CelestialBody{
		ID: "sun",
		Mean: &bodies.MeanElements{
			SemiMajorAxisKm: units_AUToKm(),
		},
		ReferenceEpochJD: 2451545.0,
	})
	srp := &SolarRadiationPressure{SunID: "sun", OccultingID: "earth", SolarPressureAt1AU: units.AccelerationFromKmPerSec2(4.56e-9)}
	// Vehicle positioned directly opposite the (degenerate, along +X) Sun
	// direction, deep in the cylindrical shadow.
	pos := vector.New[Tag](-7000, 0, 0)
	vel := vector.Zero[Tag]()
	a, err := srp.ComputeAcceleration(2451545.0, pos, vel, fakeVehicle{mass: 500, solarArea: 10, cr: 1.3}, sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Norm() != 0 {
		t.Fatalf("expected zero SRP acceleration while occulted, got %v", a)
	}
}

func TestSolarRadiationPressure_NonzeroWhenLit(t *testing.T) {
	sys := bodies.NewSystem("earth")
	sys.AddBody(&bodies.CelestialBody{
		ID: "earth", EquatorialRadiusKm: 6378.137,
		Mean: &bodies.MeanElements{},
	})
	sys.AddBody(&bodies.CelestialBody{
		ID:               "sun",
		Mean:             &bodies.MeanElements{SemiMajorAxisKm: units_AUToKm()},
		ReferenceEpochJD: 2451545.0,
	})
	srp := &SolarRadiationPressure{SunID: "sun", OccultingID: "earth", SolarPressureAt1AU: units.AccelerationFromKmPerSec2(4.56e-9)}
	// Vehicle on the sunward side of Earth: unobstructed line of sight.
	pos := vector.New[Tag](7000, 0, 0)
	vel := vector.Zero[Tag]()
	a, err := srp.ComputeAcceleration(2451545.0, pos, vel, fakeVehicle{mass: 500, solarArea: 10, cr: 1.3}, sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Norm() == 0 {
		t.Fatalf("expected nonzero SRP acceleration when lit")
	}
	// Force should point away from the Sun (anti-Sun), i.e. -X here.
	if a.X >= 0 {
		t.Fatalf("expected anti-Sun acceleration along -X, got %v", a)
	}
}

func units_AUToKm() float64 { return units.AUToKm }

func TestNBody_ZeroWithNoOtherBodies(t *testing.T) {
	sys := bodies.NewSystem("earth")
	sys.AddBody(&bodies.CelestialBody{ID: "earth", Mu: units.GravParamFromKm3S2(398600.4418)})
	nb := &NBody{CentralID: "earth"}
	a, err := nb.ComputeAcceleration(2451545.0, vector.New[Tag](7000, 0, 0), vector.Zero[Tag](), fakeVehicle{}, sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Norm() != 0 {
		t.Fatalf("expected zero perturbation with no third bodies, got %v", a)
	}
}

func TestOblateness_NonzeroInEquatorialPlane(t *testing.T) {
	sys := bodies.NewSystem("earth")
	sys.AddBody(&bodies.CelestialBody{
		ID: "earth", Mu: units.GravParamFromKm3S2(398600.4418), EquatorialRadiusKm: 6378.137,
	})
	ob := &Oblateness{
		BodyID: "earth", Degree: 2, Order: 0,
		Cnm: [][]float64{nil, nil, {-1.08263e-3}},
	}
	a, err := ob.ComputeAcceleration(2451545.0, vector.New[Tag](7000, 0, 0), vector.Zero[Tag](), fakeVehicle{}, sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Norm() == 0 {
		t.Fatalf("expected nonzero J2 perturbation in equatorial plane")
	}
}

func TestOblateness_ZeroRadius(t *testing.T) {
	sys := bodies.NewSystem("earth")
	sys.AddBody(&bodies.CelestialBody{ID: "earth", Mu: units.GravParamFromKm3S2(398600.4418)})
	ob := &Oblateness{BodyID: "earth", Degree: 2, Cnm: [][]float64{nil, nil, {-1.08263e-3}}}
	a, err := ob.ComputeAcceleration(2451545.0, vector.Zero[Tag](), vector.Zero[Tag](), fakeVehicle{}, sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Norm() != 0 {
		t.Fatalf("expected zero at r=0 guard, got %v", a)
	}
	_ = math.Pi
}
