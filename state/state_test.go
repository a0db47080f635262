package state

import (
	"testing"
	"time"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/units"
)

type testFrame struct{}

func dateAt(days float64) astrotime.Date {
	return astrotime.FromTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).Add(units.DurationFromDays(days))
}

func kepState(a float64, d astrotime.Date) State[testFrame] {
	return State[testFrame]{
		Elements: elements.FromKeplerian[testFrame](elements.Keplerian{A: units.LengthFromKm(a)}),
		Date:     d,
	}
}

func TestHistory_InsertAndAt(t *testing.T) {
	h := NewHistory[testFrame]()
	d0 := dateAt(0)
	h.Insert(kepState(7000, d0))
	got, err := h.At(d0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k, _ := got.Elements.GetKeplerian()
	if k.A.Km() != 7000 {
		t.Fatalf("got A=%v, want 7000", k.A.Km())
	}
}

func TestHistory_StrictAscendingOrder(t *testing.T) {
	h := NewHistory[testFrame]()
	h.Insert(kepState(9000, dateAt(2)))
	h.Insert(kepState(7000, dateAt(0)))
	h.Insert(kepState(8000, dateAt(1)))

	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
	prev := h.entries[0].date
	for _, e := range h.entries[1:] {
		if !prev.Before(e.date) {
			t.Fatalf("entries not in strict ascending order")
		}
		prev = e.date
	}
}

func TestHistory_At_Missing(t *testing.T) {
	h := NewHistory[testFrame]()
	h.Insert(kepState(7000, dateAt(0)))
	_, err := h.At(dateAt(5))
	if !errkind.Is(err, errkind.StateHistoryEmpty) {
		t.Fatalf("expected StateHistoryEmpty, got %v", err)
	}
}

func TestHistory_Nearest(t *testing.T) {
	h := NewHistory[testFrame]()
	h.Insert(kepState(7000, dateAt(0)))
	h.Insert(kepState(9000, dateAt(10)))

	got, err := h.Nearest(dateAt(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k, _ := got.Elements.GetKeplerian()
	if k.A.Km() != 7000 {
		t.Fatalf("Nearest(3) should pick date 0's state, got A=%v", k.A.Km())
	}
}

func TestHistory_Nearest_Empty(t *testing.T) {
	h := NewHistory[testFrame]()
	_, err := h.Nearest(dateAt(0))
	if !errkind.Is(err, errkind.StateHistoryEmpty) {
		t.Fatalf("expected StateHistoryEmpty, got %v", err)
	}
}

func TestHistory_Interpolate(t *testing.T) {
	h := NewHistory[testFrame]()
	h.Insert(kepState(7000, dateAt(0)))
	h.Insert(kepState(9000, dateAt(10)))

	mid, err := h.Interpolate(dateAt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k, _ := mid.Elements.GetKeplerian()
	if k.A.Km() != 8000 {
		t.Fatalf("interpolated A = %v, want 8000", k.A.Km())
	}
}

func TestHistory_Interpolate_OutsideSpan(t *testing.T) {
	h := NewHistory[testFrame]()
	h.Insert(kepState(7000, dateAt(0)))
	h.Insert(kepState(9000, dateAt(10)))

	_, err := h.Interpolate(dateAt(20))
	if !errkind.Is(err, errkind.StateHistoryEmpty) {
		t.Fatalf("expected StateHistoryEmpty, got %v", err)
	}
}

func TestHistory_EventRecording(t *testing.T) {
	h := NewHistory[testFrame]()
	d := dateAt(3)
	h.RecordEvent("apoapsis-burn", d)
	dates := h.EventDates("apoapsis-burn")
	if len(dates) != 1 || !dates[0].Equal(d) {
		t.Fatalf("expected recorded event date %v, got %v", d, dates)
	}
	if h.EventDates("never-fired") != nil {
		t.Fatalf("expected nil for an event that never fired")
	}
}
