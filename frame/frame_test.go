package frame

import (
	"math"
	"testing"
	"time"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/errkind"
)

func TestIdentity_IsOrthonormal(t *testing.T) {
	if !Identity().IsOrthonormal(1e-12) {
		t.Fatalf("identity DCM should be orthonormal")
	}
}

func TestRotationZ_Orthonormal(t *testing.T) {
	for _, theta := range []float64{0, 0.3, math.Pi / 2, math.Pi, 5.2} {
		d := RotationZ(theta)
		if !d.IsOrthonormal(1e-12) {
			t.Fatalf("RotationZ(%v) not orthonormal", theta)
		}
	}
}

func TestRotationZ_ZeroIsIdentity(t *testing.T) {
	d := RotationZ(0)
	rows := d.Rows()
	id := Identity().Rows()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(rows[i][j]-id[i][j]) > 1e-12 {
				t.Fatalf("RotationZ(0) != identity at [%d][%d]: got %v", i, j, rows[i][j])
			}
		}
	}
}

func TestDCM_TransposeIsInverse(t *testing.T) {
	d := RotationZ(1.234)
	prod := d.Mul(d.T())
	if !prod.IsOrthonormal(1e-9) {
		t.Fatalf("d * d^T should be identity-like orthonormal")
	}
	rows := prod.Rows()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(rows[i][j]-want) > 1e-9 {
				t.Fatalf("d*d^T[%d][%d] = %v, want %v", i, j, rows[i][j], want)
			}
		}
	}
}

func TestECIToECEF_RoundTrip(t *testing.T) {
	date := astrotime.FromTime(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	toECEF := ECIToECEF(date)
	toECI := ECEFToECI(date)
	v := [3]float64{7000, 0, 0}
	ecef := toECEF.Apply(v)
	back := toECI.Apply(ecef)
	for i := 0; i < 3; i++ {
		if math.Abs(back[i]-v[i]) > 1e-6 {
			t.Fatalf("round trip ECI->ECEF->ECI mismatch at %d: got %v, want %v", i, back[i], v[i])
		}
	}
}

func TestDynamicDCM_RTN_Orthonormal(t *testing.T) {
	r := [3]float64{7000, 0, 0}
	v := [3]float64{0, 7.5, 0.1}
	d, err := DynamicDCM(RTN, r, v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsOrthonormal(1e-9) {
		t.Fatalf("RTN DCM not orthonormal")
	}
}

func TestDynamicDCM_AllKindsOrthonormal(t *testing.T) {
	r := [3]float64{7000, 1000, 500}
	v := [3]float64{-0.5, 7.2, 1.1}
	for _, kind := range []DynamicKind{RTN, RIC, LVLH, VNB} {
		d, err := DynamicDCM(kind, r, v)
		if err != nil {
			t.Fatalf("kind %v: unexpected error: %v", kind, err)
		}
		if !d.IsOrthonormal(1e-9) {
			t.Fatalf("kind %v: DCM not orthonormal", kind)
		}
	}
}

func TestDynamicDCM_ZeroPosition(t *testing.T) {
	_, err := DynamicDCM(RTN, [3]float64{0, 0, 0}, [3]float64{1, 0, 0})
	if !errkind.Is(err, errkind.ConversionSingularity) {
		t.Fatalf("expected ConversionSingularity, got %v", err)
	}
}

func TestDynamicDCM_ParallelRV(t *testing.T) {
	_, err := DynamicDCM(RTN, [3]float64{1, 0, 0}, [3]float64{2, 0, 0})
	if !errkind.Is(err, errkind.ConversionSingularity) {
		t.Fatalf("expected ConversionSingularity for parallel r,v, got %v", err)
	}
}

func TestCompose_ChainingThroughIntermediateMatchesDirect(t *testing.T) {
	// dcmA/dcmB/dcmC are each frame's DCM to a shared reference inertial
	// frame. Transforming A -> B -> C should match the direct A -> C
	// transform, the associativity property the frame composition rules
	// require.
	dcmA := RotationZ(0.3)
	dcmB := RotationY(0.6)
	dcmC := RotationX(0.9)

	aToB := Compose(dcmA, dcmB)
	bToC := Compose(dcmB, dcmC)
	viaB := bToC.Mul(aToB)

	direct := Compose(dcmA, dcmC)

	vr, dr := viaB.Rows(), direct.Rows()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(vr[i][j]-dr[i][j]) > 1e-9 {
				t.Fatalf("chained vs direct composition mismatch at [%d][%d]: %v vs %v", i, j, vr[i][j], dr[i][j])
			}
		}
	}
}
