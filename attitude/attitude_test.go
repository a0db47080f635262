package attitude

import (
	"math"
	"testing"

	"github.com/astrocore/astro/vector"
)

type testFrame struct{}

func closeEnough(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestIdentity_NormIsOne(t *testing.T) {
	q := Identity()
	if !closeEnough(q.Norm(), 1, 1e-12) {
		t.Fatalf("Identity().Norm() = %v, want 1", q.Norm())
	}
}

func TestFromAxisAngle_90DegreesAboutZ_RotatesXToY(t *testing.T) {
	axis := vector.New[testFrame](0, 0, 1)
	q := FromAxisAngle(axis, math.Pi/2)

	x := vector.New[testFrame](1, 0, 0)
	got := Rotate[testFrame, testFrame](q, x)

	if !closeEnough(got.X, 0, 1e-9) || !closeEnough(got.Y, 1, 1e-9) || !closeEnough(got.Z, 0, 1e-9) {
		t.Fatalf("rotated vector = %+v, want approximately (0, 1, 0)", got)
	}
}

func TestFromAxisAngle_ZeroAxis_ReturnsIdentity(t *testing.T) {
	axis := vector.New[testFrame](0, 0, 0)
	q := FromAxisAngle(axis, math.Pi/3)
	if q != Identity() {
		t.Fatalf("FromAxisAngle with zero axis = %+v, want Identity()", q)
	}
}

func TestToDCM_FromDCM_RoundTrip(t *testing.T) {
	axis := vector.New[testFrame](1, 1, 1)
	q := FromAxisAngle(axis, 1.2345)

	d := q.ToDCM()
	recovered := FromDCM(d)

	// Quaternion and its negation represent the same rotation; compare
	// via the rotated-vector effect rather than raw components.
	v := vector.New[testFrame](0.3, -0.7, 0.5)
	want := Rotate[testFrame, testFrame](q, v)
	got := Rotate[testFrame, testFrame](recovered, v)

	if !closeEnough(got.X, want.X, 1e-9) || !closeEnough(got.Y, want.Y, 1e-9) || !closeEnough(got.Z, want.Z, 1e-9) {
		t.Fatalf("round-tripped rotation = %+v, want %+v", got, want)
	}
}

func TestDCM_IsOrthonormal(t *testing.T) {
	axis := vector.New[testFrame](0.2, 0.4, 0.9)
	q := FromAxisAngle(axis, 2.1)
	if !q.ToDCM().IsOrthonormal(1e-9) {
		t.Fatalf("ToDCM() is not orthonormal")
	}
}

func TestMul_ComposesRotations(t *testing.T) {
	zAxis := vector.New[testFrame](0, 0, 1)
	q1 := FromAxisAngle(zAxis, math.Pi/2)
	q2 := FromAxisAngle(zAxis, math.Pi/2)

	combined := q2.Mul(q1) // apply q1 first, then q2: net 180 degrees about Z
	want := FromAxisAngle(zAxis, math.Pi)

	v := vector.New[testFrame](1, 0, 0)
	got := Rotate[testFrame, testFrame](combined, v)
	expected := Rotate[testFrame, testFrame](want, v)

	if !closeEnough(got.X, expected.X, 1e-9) || !closeEnough(got.Y, expected.Y, 1e-9) {
		t.Fatalf("composed rotation = %+v, want %+v", got, expected)
	}
}

func TestSlerp_AtEndpoints(t *testing.T) {
	zAxis := vector.New[testFrame](0, 0, 1)
	a := Identity()
	b := FromAxisAngle(zAxis, math.Pi/2)

	start := Slerp(a, b, 0)
	end := Slerp(a, b, 1)

	if !closeEnough(start.Norm(), 1, 1e-9) {
		t.Fatalf("Slerp(0) not unit: norm = %v", start.Norm())
	}
	v := vector.New[testFrame](1, 0, 0)
	gotStart := Rotate[testFrame, testFrame](start, v)
	gotEnd := Rotate[testFrame, testFrame](end, v)
	wantEnd := Rotate[testFrame, testFrame](b, v)

	if !closeEnough(gotStart.X, 1, 1e-9) || !closeEnough(gotStart.Y, 0, 1e-9) {
		t.Fatalf("Slerp(0) rotation = %+v, want identity", gotStart)
	}
	if !closeEnough(gotEnd.X, wantEnd.X, 1e-9) || !closeEnough(gotEnd.Y, wantEnd.Y, 1e-9) {
		t.Fatalf("Slerp(1) rotation = %+v, want %+v", gotEnd, wantEnd)
	}
}

func TestSlerp_Midpoint_HalvesTheAngle(t *testing.T) {
	zAxis := vector.New[testFrame](0, 0, 1)
	a := Identity()
	b := FromAxisAngle(zAxis, math.Pi/2)

	mid := Slerp(a, b, 0.5)
	want := FromAxisAngle(zAxis, math.Pi/4)

	v := vector.New[testFrame](1, 0, 0)
	got := Rotate[testFrame, testFrame](mid, v)
	expected := Rotate[testFrame, testFrame](want, v)

	if !closeEnough(got.X, expected.X, 1e-9) || !closeEnough(got.Y, expected.Y, 1e-9) {
		t.Fatalf("Slerp(0.5) rotation = %+v, want %+v", got, expected)
	}
}

func TestNewBoresight_RejectsZeroDirection(t *testing.T) {
	_, err := NewBoresight(vector.New[testFrame](0, 0, 0), vector.New[testFrame](0, 0, 0))
	if err == nil {
		t.Fatalf("expected an error for a zero-length boresight direction")
	}
}

func TestNewBoresight_NormalizesDirection(t *testing.T) {
	b, err := NewBoresight(vector.New[testFrame](0, 0, 5), vector.New[testFrame](0.1, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closeEnough(b.Direction.Norm(), 1, 1e-12) {
		t.Fatalf("Direction.Norm() = %v, want 1", b.Direction.Norm())
	}
}

func TestBoresight_PointingAt_AppliesRotation(t *testing.T) {
	b, err := NewBoresight(vector.New[testFrame](1, 0, 0), vector.New[testFrame](0, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	zAxis := vector.New[testFrame](0, 0, 1)
	q := FromAxisAngle(zAxis, math.Pi/2)

	dir, _ := b.PointingAt(q)
	if !closeEnough(dir.X, 0, 1e-9) || !closeEnough(dir.Y, 1, 1e-9) {
		t.Fatalf("rotated boresight direction = %+v, want approximately (0, 1, 0)", dir)
	}
}
