package riseset

import (
	"math"
	"testing"
)

func mustArray(t *testing.T, bounds ...float64) Array {
	t.Helper()
	a, err := New(bounds...)
	if err != nil {
		t.Fatalf("unexpected error constructing Array%v: %v", bounds, err)
	}
	return a
}

func assertEqual(t *testing.T, got, want Array) {
	t.Helper()
	gb, wb := got.Bounds(), want.Bounds()
	if len(gb) != len(wb) {
		t.Fatalf("bounds length = %v, want %v (got %v, want %v)", len(gb), len(wb), gb, wb)
	}
	for i := range gb {
		if math.Abs(gb[i]-wb[i]) > 1e-12 {
			t.Fatalf("bounds[%d] = %v, want %v (got %v, want %v)", i, gb[i], wb[i], gb, wb)
		}
	}
}

func TestNew_RejectsOddLength(t *testing.T) {
	if _, err := New(0, 1, 2); err == nil {
		t.Fatalf("expected an error for an odd-length bounds list")
	}
}

func TestNew_RejectsNonAscending(t *testing.T) {
	if _, err := New(2, 1); err == nil {
		t.Fatalf("expected an error for a descending pair")
	}
	if _, err := New(1, 1); err == nil {
		t.Fatalf("expected an error for a degenerate zero-length interval")
	}
}

func TestUnion_SimpleOverlap(t *testing.T) {
	a := mustArray(t, 0, 2)
	b := mustArray(t, 1, 2)
	want := mustArray(t, 0, 2)
	assertEqual(t, a.Union(b), want)
	assertEqual(t, b.Union(a), want)
}

func TestUnion_Varied(t *testing.T) {
	a := mustArray(t, 0, 3)
	b := mustArray(t, 1, 2, 3, 4)
	want := mustArray(t, 0, 4)
	assertEqual(t, a.Union(b), want)
	assertEqual(t, b.Union(a), want)
}

func TestUnion_NoOverlap(t *testing.T) {
	a := mustArray(t, 0, 1, 2, 3)
	b := mustArray(t, 1, 2, 3, 4)
	want := mustArray(t, 0, 4)
	assertEqual(t, a.Union(b), want)
	assertEqual(t, b.Union(a), want)
}

func TestUnion_WithEmpty(t *testing.T) {
	a := mustArray(t, 0, 1)
	b := Empty()
	want := mustArray(t, 0, 1)
	assertEqual(t, a.Union(b), want)
	assertEqual(t, b.Union(a), want)
}

func TestIntersect_Simple(t *testing.T) {
	a := mustArray(t, 0, 2)
	b := mustArray(t, 1, 2)
	want := mustArray(t, 1, 2)
	assertEqual(t, a.Intersect(b), want)
	assertEqual(t, b.Intersect(a), want)
}

func TestIntersect_Varied(t *testing.T) {
	a := mustArray(t, 0, 3)
	b := mustArray(t, 1, 2, 3, 4)
	want := mustArray(t, 1, 2)
	assertEqual(t, a.Intersect(b), want)
	assertEqual(t, b.Intersect(a), want)
}

func TestIntersect_NoOverlap(t *testing.T) {
	a := mustArray(t, 0, 1, 2, 3)
	b := mustArray(t, 1, 2, 3, 4)
	want := Empty()
	assertEqual(t, a.Intersect(b), want)
	assertEqual(t, b.Intersect(a), want)
}

func TestIntersect_WithEmpty(t *testing.T) {
	a := mustArray(t, 0, 1)
	b := Empty()
	want := Empty()
	assertEqual(t, a.Intersect(b), want)
	assertEqual(t, b.Intersect(a), want)
}

func TestDifference_Simple(t *testing.T) {
	a := mustArray(t, 0, 2)
	b := mustArray(t, 1, 2)
	assertEqual(t, a.Difference(b), mustArray(t, 0, 1))
	assertEqual(t, b.Difference(a), Empty())
}

func TestDifference_Varied(t *testing.T) {
	a := mustArray(t, 0, 3)
	b := mustArray(t, 1, 2, 3, 4)
	assertEqual(t, a.Difference(b), mustArray(t, 0, 1, 2, 3))
	assertEqual(t, b.Difference(a), mustArray(t, 3, 4))
}

func TestDifference_NoOverlap(t *testing.T) {
	a := mustArray(t, 0, 1, 2, 3)
	b := mustArray(t, 1, 2, 3, 4)
	assertEqual(t, a.Difference(b), a)
	assertEqual(t, b.Difference(a), b)
}

func TestDifference_WithEmpty(t *testing.T) {
	a := mustArray(t, 0, 1)
	b := Empty()
	assertEqual(t, a.Difference(b), a)
	assertEqual(t, b.Difference(a), b)
}

func TestProperty5_UnionIntersectDifference(t *testing.T) {
	a := mustArray(t, 0, 2)
	b := mustArray(t, 1, 2)
	assertEqual(t, a.Union(b), mustArray(t, 0, 2))
	assertEqual(t, a.Intersect(b), mustArray(t, 1, 2))
	assertEqual(t, a.Difference(b), mustArray(t, 0, 1))

	c := mustArray(t, 0, 1, 2, 3)
	d := mustArray(t, 1, 2, 3, 4)
	assertEqual(t, c.Union(d), mustArray(t, 0, 4))
	assertEqual(t, c.Intersect(d), Empty())
	assertEqual(t, c.Difference(d), c)
}

func TestGap_MinMaxMean(t *testing.T) {
	a := mustArray(t, 0, 1, 3, 4, 10, 11)
	// Gaps: 3-1=2, 10-4=6.
	min, err := a.Gap(StatMin)
	if err != nil || min != 2 {
		t.Fatalf("min gap = %v, err %v, want 2", min, err)
	}
	max, err := a.Gap(StatMax)
	if err != nil || max != 6 {
		t.Fatalf("max gap = %v, err %v, want 6", max, err)
	}
	mean, err := a.Gap(StatMean)
	if err != nil || mean != 4 {
		t.Fatalf("mean gap = %v, err %v, want 4", mean, err)
	}
}

func TestGap_SingleIntervalIsZero(t *testing.T) {
	a := mustArray(t, 0, 1)
	g, err := a.Gap(StatMean)
	if err != nil || g != 0 {
		t.Fatalf("gap = %v, err %v, want 0", g, err)
	}
}

func TestAccessTime_MinMaxMean(t *testing.T) {
	a := mustArray(t, 0, 1, 3, 6, 10, 11)
	// Durations: 1, 3, 1.
	min, err := a.AccessTime(StatMin)
	if err != nil || min != 1 {
		t.Fatalf("min access time = %v, err %v, want 1", min, err)
	}
	max, err := a.AccessTime(StatMax)
	if err != nil || max != 3 {
		t.Fatalf("max access time = %v, err %v, want 3", max, err)
	}
	mean, err := a.AccessTime(StatMean)
	want := (1.0 + 3.0 + 1.0) / 3.0
	if err != nil || math.Abs(mean-want) > 1e-12 {
		t.Fatalf("mean access time = %v, err %v, want %v", mean, err, want)
	}
}

func TestAccessTime_EmptyIsZero(t *testing.T) {
	a := Empty()
	d, err := a.AccessTime(StatMean)
	if err != nil || d != 0 {
		t.Fatalf("access time = %v, err %v, want 0", d, err)
	}
}
