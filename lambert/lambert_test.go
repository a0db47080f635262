package lambert

import (
	"math"
	"testing"

	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

type testFrame struct{}

const muEarth = 398600.4418

func closeEnough(got, want, relTol float64) bool {
	if want == 0 {
		return math.Abs(got) < relTol
	}
	return math.Abs((got-want)/want) < relTol
}

// TestSolve_Vallado_Example7_5 reproduces Vallado's worked Lambert example:
// r0=(5000,10000,2100) km, rf=(-14600,2500,7000) km, dt=3600s, prograde.
func TestSolve_Vallado_Example7_5(t *testing.T) {
	r0 := vector.New[testFrame](5000, 10000, 2100)
	rf := vector.New[testFrame](-14600, 2500, 7000)
	dt := units.DurationFromSeconds(3600)
	mu := units.GravParamFromKm3S2(muEarth)

	v0, vf, err := Solve(r0, rf, dt, mu, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantV0 := [3]float64{-5.9925, 1.9254, 3.2456}
	wantVf := [3]float64{-3.3125, -4.1966, -0.3852}

	gotV0 := v0.Array()
	gotVf := vf.Array()
	for i := 0; i < 3; i++ {
		if !closeEnough(gotV0[i], wantV0[i], 1e-6) {
			t.Errorf("v0[%d] = %v, want %v", i, gotV0[i], wantV0[i])
		}
		if !closeEnough(gotVf[i], wantVf[i], 1e-6) {
			t.Errorf("vf[%d] = %v, want %v", i, gotVf[i], wantVf[i])
		}
	}
}

// TestSolve_Retrograde checks that flipping prograde selects the long way
// around for the same geometry, producing a different solution.
func TestSolve_Retrograde(t *testing.T) {
	r0 := vector.New[testFrame](5000, 10000, 2100)
	rf := vector.New[testFrame](-14600, 2500, 7000)
	dt := units.DurationFromSeconds(3600)
	mu := units.GravParamFromKm3S2(muEarth)

	proV0, _, err := Solve(r0, rf, dt, mu, true)
	if err != nil {
		t.Fatalf("unexpected error (prograde): %v", err)
	}
	retroV0, _, err := Solve(r0, rf, dt, mu, false)
	if err != nil {
		t.Fatalf("unexpected error (retrograde): %v", err)
	}

	diff := proV0.Sub(retroV0).Norm()
	if diff < 1.0 {
		t.Fatalf("expected prograde and retrograde solutions to differ substantially, diff = %v km/s", diff)
	}
}

// TestSolve_RecoversCircularMotion checks a quarter-period coplanar
// transfer between two points on the same circular orbit: since the true
// path is the circle itself, the recovered departure and arrival
// velocities should match the known circular-motion velocity vectors
// exactly (to numerical tolerance), not merely their magnitudes.
func TestSolve_RecoversCircularMotion(t *testing.T) {
	mu := units.GravParamFromKm3S2(muEarth)
	r := 7000.0
	circularSpeed := math.Sqrt(muEarth / r)
	period := 2 * math.Pi * math.Sqrt(r*r*r/muEarth)

	r0 := vector.New[testFrame](r, 0, 0)
	rf := vector.New[testFrame](0, r, 0)
	dt := units.DurationFromSeconds(period / 4)

	v0, vf, err := Solve(r0, rf, dt, mu, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantV0 := [3]float64{0, circularSpeed, 0}
	wantVf := [3]float64{-circularSpeed, 0, 0}
	gotV0, gotVf := v0.Array(), vf.Array()
	for i := 0; i < 3; i++ {
		if math.Abs(gotV0[i]-wantV0[i]) > 1e-6 {
			t.Errorf("v0[%d] = %v, want %v", i, gotV0[i], wantV0[i])
		}
		if math.Abs(gotVf[i]-wantVf[i]) > 1e-6 {
			t.Errorf("vf[%d] = %v, want %v", i, gotVf[i], wantVf[i])
		}
	}
}

func TestSolve_ZeroLengthVector_ReturnsError(t *testing.T) {
	mu := units.GravParamFromKm3S2(muEarth)
	r0 := vector.New[testFrame](0, 0, 0)
	rf := vector.New[testFrame](7000, 0, 0)
	_, _, err := Solve(r0, rf, units.DurationFromSeconds(600), mu, true)
	if err == nil {
		t.Fatalf("expected an error for a zero-length position vector")
	}
	if !errkind.Is(err, errkind.ConversionSingularity) {
		t.Fatalf("expected ConversionSingularity, got %v", err)
	}
}
