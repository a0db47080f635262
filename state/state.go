// Package state implements State and StateHistory, the date-indexed
// record of a vehicle's orbital elements as it propagates. Lookup and
// interpolation are grounded on goeph's search package's sorted-slice
// nearest-neighbor convention (search.FindDiscrete operates over a
// strictly ordered sample list the same way StateHistory's Dates do).
package state

import (
	"sort"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/errkind"
)

// State bundles an element set with the Date it was recorded at and the
// System it was computed in.
type State[F any] struct {
	Elements elements.OrbitalElements[F]
	Date     astrotime.Date
	System   *bodies.System
}

// entry is one recorded (Date, State) pair, kept in a history's sorted slice.
type entry[F any] struct {
	date  astrotime.Date
	state State[F]
}

// History is an ordered Date -> State mapping plus an event-name ->
// ordered Dates mapping, per spec's StateHistory contract.
type History[F any] struct {
	entries []entry[F]
	events  map[string][]astrotime.Date
}

// NewHistory constructs an empty StateHistory.
func NewHistory[F any]() *History[F] {
	return &History[F]{events: make(map[string][]astrotime.Date)}
}

// Insert records a state at its Date, keeping entries sorted in strict
// ascending Date order; a state at an already-recorded Date replaces the
// existing entry.
func (h *History[F]) Insert(s State[F]) {
	idx := sort.Search(len(h.entries), func(i int) bool {
		return !h.entries[i].date.Before(s.Date)
	})
	e := entry[F]{date: s.Date, state: s}
	if idx < len(h.entries) && h.entries[idx].date.Equal(s.Date) {
		h.entries[idx] = e
		return
	}
	h.entries = append(h.entries, entry[F]{})
	copy(h.entries[idx+1:], h.entries[idx:])
	h.entries[idx] = e
}

// RecordEvent appends date to the ordered list of firing dates for the
// named event.
func (h *History[F]) RecordEvent(name string, date astrotime.Date) {
	h.events[name] = append(h.events[name], date)
}

// EventDates returns the ordered firing dates recorded for name, or nil
// if the event never fired.
func (h *History[F]) EventDates(name string) []astrotime.Date {
	return h.events[name]
}

// Len returns the number of recorded states.
func (h *History[F]) Len() int { return len(h.entries) }

// At returns the exact recorded state at date, or errkind.StateHistoryEmpty
// if no entry exists at that date.
func (h *History[F]) At(date astrotime.Date) (State[F], error) {
	idx := sort.Search(len(h.entries), func(i int) bool {
		return !h.entries[i].date.Before(date)
	})
	if idx < len(h.entries) && h.entries[idx].date.Equal(date) {
		return h.entries[idx].state, nil
	}
	return State[F]{}, errkind.New(errkind.StateHistoryEmpty, "state.History.At", "no entry recorded at the requested date")
}

// Nearest returns the recorded state with the Date closest to the query,
// or errkind.StateHistoryEmpty if the history is empty.
func (h *History[F]) Nearest(date astrotime.Date) (State[F], error) {
	if len(h.entries) == 0 {
		return State[F]{}, errkind.New(errkind.StateHistoryEmpty, "state.History.Nearest", "history has no entries")
	}
	idx := sort.Search(len(h.entries), func(i int) bool {
		return !h.entries[i].date.Before(date)
	})
	if idx == 0 {
		return h.entries[0].state, nil
	}
	if idx == len(h.entries) {
		return h.entries[len(h.entries)-1].state, nil
	}
	before := h.entries[idx-1]
	after := h.entries[idx]
	if date.Sub(before.date).Seconds() <= after.date.Sub(date).Seconds() {
		return before.state, nil
	}
	return after.state, nil
}

// surrounding locates the pair of entries (lo, hi) with lo.date <= date
// <= hi.date, failing with StateHistoryEmpty when date falls outside
// the recorded span or the history has fewer than two entries.
func (h *History[F]) surrounding(date astrotime.Date) (entry[F], entry[F], error) {
	if len(h.entries) < 2 {
		return entry[F]{}, entry[F]{}, errkind.New(errkind.StateHistoryEmpty, "state.History.surrounding", "fewer than two entries recorded")
	}
	idx := sort.Search(len(h.entries), func(i int) bool {
		return !h.entries[i].date.Before(date)
	})
	if idx == 0 || idx == len(h.entries) {
		return entry[F]{}, entry[F]{}, errkind.New(errkind.StateHistoryEmpty, "state.History.surrounding", "requested date outside the recorded span")
	}
	return h.entries[idx-1], h.entries[idx], nil
}

// Interpolate returns the element-set's own interpolation of the two
// entries surrounding date, per spec's "linear interpolation at an
// arbitrary date via the element-set's own interpolate operation".
func (h *History[F]) Interpolate(date astrotime.Date) (State[F], error) {
	lo, hi, err := h.surrounding(date)
	if err != nil {
		if exact, exErr := h.At(date); exErr == nil {
			return exact, nil
		}
		return State[F]{}, err
	}
	oe, err := elements.Interpolate(lo.state.Elements, hi.state.Elements, lo.date.JD(), hi.date.JD(), date.JD())
	if err != nil {
		return State[F]{}, err
	}
	return State[F]{Elements: oe, Date: date, System: lo.state.System}, nil
}
