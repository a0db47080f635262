package bodies

import (
	"math"
	"testing"

	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/units"
)

func earthSystem() *System {
	s := NewSystem("earth")
	s.AddBody(&CelestialBody{
		ID:                 "earth",
		Name:               "Earth",
		Kind:               Planet,
		Mu:                 units.GravParamFromKm3S2(398600.4418),
		EquatorialRadiusKm: 6378.137,
		CrashRadiusKm:      6378.137,
		Atmosphere: []AtmosphereLayer{
			{AltitudeKm: 0, RefDensityKgM3: 1.225, ScaleHeightKm: 8.5},
			{AltitudeKm: 100, RefDensityKgM3: 5.6e-7, ScaleHeightKm: 5.9},
			{AltitudeKm: 500, RefDensityKgM3: 6.0e-13, ScaleHeightKm: 60.0},
		},
	})
	return s
}

func TestSystem_GetCentralBody(t *testing.T) {
	s := earthSystem()
	b, err := s.GetCentralBody()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != "earth" {
		t.Fatalf("got %v, want earth", b.ID)
	}
}

func TestSystem_GetMu(t *testing.T) {
	s := earthSystem()
	mu, err := s.GetMu()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(mu.Km3S2()-398600.4418) > 1e-6 {
		t.Fatalf("mu = %v, want 398600.4418", mu.Km3S2())
	}
}

func TestSystem_GetBody_Missing(t *testing.T) {
	s := earthSystem()
	_, err := s.GetBody("mars")
	if !errkind.Is(err, errkind.MissingBody) {
		t.Fatalf("expected MissingBody, got %v", err)
	}
}

func TestSystem_BodiesStableOrder(t *testing.T) {
	s := earthSystem()
	s.AddBody(&CelestialBody{ID: "moon", Name: "Moon"})
	s.AddBody(&CelestialBody{ID: "sun", Name: "Sun"})
	first := s.Bodies()
	second := s.Bodies()
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 bodies, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("iteration order not stable at index %d", i)
		}
	}
}

func TestAtmosphericDensity_GroundLevel(t *testing.T) {
	s := earthSystem()
	b, _ := s.GetCentralBody()
	rho := b.AtmosphericDensity(0)
	if math.Abs(rho-1.225) > 1e-9 {
		t.Fatalf("ground density = %v, want 1.225", rho)
	}
}

func TestAtmosphericDensity_DecaysWithAltitude(t *testing.T) {
	s := earthSystem()
	b, _ := s.GetCentralBody()
	low := b.AtmosphericDensity(10)
	high := b.AtmosphericDensity(50)
	if !(low > high) {
		t.Fatalf("density should decay with altitude: low=%v high=%v", low, high)
	}
}

func TestAtmosphericDensity_NoAtmosphere(t *testing.T) {
	b := &CelestialBody{ID: "moon"}
	if got := b.AtmosphericDensity(100); got != 0 {
		t.Fatalf("expected 0 density for airless body, got %v", got)
	}
}

func TestOrbitalElementsAt_NoMeanElements(t *testing.T) {
	b := &CelestialBody{ID: "x"}
	_, _, _, _, _, _, err := b.OrbitalElementsAt(2451545.0)
	if !errkind.Is(err, errkind.OutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
}

func TestOrbitalElementsAt_SecularExtrapolation(t *testing.T) {
	b := &CelestialBody{
		ID:               "earth-like",
		ReferenceEpochJD: 2451545.0,
		Mean: &MeanElements{
			SemiMajorAxisKm:   149598023,
			Eccentricity:      0.0167,
			EccentricityRate:  -0.00004,
			InclinationRad:    0,
			MeanLongitudeRad:  100.46 * math.Pi / 180,
			MeanLongitudeRate: 35999.37 * math.Pi / 180 / 36525,
		},
	}
	a, e, i, _, _, meanAnom, err := b.OrbitalElementsAt(2451545.0 + 36525)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != 149598023 {
		t.Fatalf("a should be unchanged (no rate), got %v", a)
	}
	if math.Abs(e-(0.0167-0.00004)) > 1e-9 {
		t.Fatalf("e after one century = %v, want %v", e, 0.0167-0.00004)
	}
	if i != 0 {
		t.Fatalf("inclination should remain 0, got %v", i)
	}
	_ = meanAnom
}

func TestEphemerisAt_NoneBound(t *testing.T) {
	b := &CelestialBody{ID: "x"}
	_, _, err := b.EphemerisAt(2451545.0)
	if !errkind.Is(err, errkind.OutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
}

func TestGetRelativePosition_SecularFallback(t *testing.T) {
	s := earthSystem()
	s.AddBody(&CelestialBody{
		ID:               "venus",
		ReferenceEpochJD: 2451545.0,
		Mean: &MeanElements{
			SemiMajorAxisKm:  108208000,
			Eccentricity:     0.0068,
			InclinationRad:   3.39 * math.Pi / 180,
			MeanLongitudeRad: 181.98 * math.Pi / 180,
		},
	})
	s.AddBody(&CelestialBody{
		ID:               "earth-bary",
		ReferenceEpochJD: 2451545.0,
		Mean: &MeanElements{
			SemiMajorAxisKm:  149598023,
			Eccentricity:     0.0167,
			MeanLongitudeRad: 100.46 * math.Pi / 180,
		},
	})
	v, err := s.GetRelativePosition(2451545.0, "earth-bary", "venus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Norm() == 0 {
		t.Fatalf("expected nonzero relative position")
	}
}
