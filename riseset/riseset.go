// Package riseset implements the rise/set interval algebra: a sorted,
// non-overlapping list of closed [rise, set] intervals supporting
// Union, Intersect, and Difference, plus the gap/access-time summary
// statistics an access-analysis layer builds on top of a propagated
// visibility window list. Grounded on waveguide's RiseSetArray (the
// flat alternating rise/set boundary representation, its even-length
// and strictly-ascending construction invariant, and its gap/
// access_time statistics) and astrea's riseset_utils test suite (the
// exact union/intersection/difference merge semantics, including how
// touching intervals combine).
package riseset

import (
	"sort"

	"github.com/astrocore/astro/errkind"
)

// Array is a sorted list of non-overlapping closed intervals, stored as
// alternating rise, set boundary values in strictly ascending order.
type Array struct {
	bounds []float64
}

// New constructs an Array from a flat list of alternating rise, set
// values. The list must have even length and be strictly ascending;
// otherwise an errkind error is returned, per RiseSetArray's own
// validate_risesets/validate_riseset checks.
func New(bounds ...float64) (Array, error) {
	if len(bounds)%2 != 0 {
		return Array{}, errkind.New(errkind.Unknown, "riseset.New", "bounds must have an even number of values")
	}
	cp := append([]float64(nil), bounds...)
	for i := 1; i < len(cp); i++ {
		if cp[i] <= cp[i-1] {
			return Array{}, errkind.New(errkind.Unknown, "riseset.New", "bounds must be strictly ascending")
		}
	}
	return Array{bounds: cp}, nil
}

// Empty returns the empty Array.
func Empty() Array { return Array{} }

// Len returns the number of intervals.
func (a Array) Len() int { return len(a.bounds) / 2 }

// IsEmpty reports whether the Array has no intervals.
func (a Array) IsEmpty() bool { return len(a.bounds) == 0 }

// Interval returns the i'th interval's rise and set boundaries.
func (a Array) Interval(i int) (rise, set float64) {
	return a.bounds[2*i], a.bounds[2*i+1]
}

// Bounds returns the flat alternating rise/set boundary slice.
func (a Array) Bounds() []float64 {
	return append([]float64(nil), a.bounds...)
}

type event struct {
	t      float64
	delta  int
	source int // 0 = a, 1 = b
}

func taggedEvents(bounds []float64, source int) []event {
	evs := make([]event, 0, len(bounds))
	for i := 0; i+1 < len(bounds); i += 2 {
		evs = append(evs, event{t: bounds[i], delta: 1, source: source})
		evs = append(evs, event{t: bounds[i+1], delta: -1, source: source})
	}
	return evs
}

// combine sweeps the boundary events of a and b in time order, applying
// rises before sets at identical timestamps so touching or overlapping
// intervals merge correctly, and emits a boundary each time keep's
// verdict over (inA, inB) flips.
func combine(a, b Array, keep func(inA, inB bool) bool) Array {
	events := append(taggedEvents(a.bounds, 0), taggedEvents(b.bounds, 1)...)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].t != events[j].t {
			return events[i].t < events[j].t
		}
		return events[i].delta > events[j].delta
	})

	var out []float64
	countA, countB := 0, 0
	active := false
	i := 0
	for i < len(events) {
		t := events[i].t
		for i < len(events) && events[i].t == t {
			if events[i].source == 0 {
				countA += events[i].delta
			} else {
				countB += events[i].delta
			}
			i++
		}
		now := keep(countA > 0, countB > 0)
		if now && !active {
			out = append(out, t)
			active = true
		} else if !now && active {
			out = append(out, t)
			active = false
		}
	}
	return Array{bounds: out}
}

// Union returns the set of values covered by either a or b.
func (a Array) Union(b Array) Array {
	return combine(a, b, func(inA, inB bool) bool { return inA || inB })
}

// Intersect returns the set of values covered by both a and b.
func (a Array) Intersect(b Array) Array {
	return combine(a, b, func(inA, inB bool) bool { return inA && inB })
}

// Difference returns the set of values covered by a but not by b.
func (a Array) Difference(b Array) Array {
	return combine(a, b, func(inA, inB bool) bool { return inA && !inB })
}

// Stat selects the aggregate applied by Gap and AccessTime.
type Stat int

const (
	StatMin Stat = iota
	StatMax
	StatMean
)

// Gap returns the requested statistic over the gaps between consecutive
// intervals (Len()-1 gaps); zero for an Array with fewer than two
// intervals.
func (a Array) Gap(stat Stat) (float64, error) {
	n := a.Len()
	if n <= 1 {
		return 0, nil
	}
	var result float64
	for i := 0; i < n-1; i++ {
		_, set := a.Interval(i)
		nextRise, _ := a.Interval(i + 1)
		g := nextRise - set
		var err error
		result, err = accumulate(stat, result, g, i)
		if err != nil {
			return 0, err
		}
	}
	if stat == StatMean {
		result /= float64(n - 1)
	}
	return result, nil
}

// AccessTime returns the requested statistic over each interval's
// duration; zero for an empty Array.
func (a Array) AccessTime(stat Stat) (float64, error) {
	n := a.Len()
	if n == 0 {
		return 0, nil
	}
	var result float64
	for i := 0; i < n; i++ {
		rise, set := a.Interval(i)
		d := set - rise
		var err error
		result, err = accumulate(stat, result, d, i)
		if err != nil {
			return 0, err
		}
	}
	if stat == StatMean {
		result /= float64(n)
	}
	return result, nil
}

func accumulate(stat Stat, running, value float64, index int) (float64, error) {
	switch stat {
	case StatMin:
		if index == 0 || value < running {
			return value, nil
		}
		return running, nil
	case StatMax:
		if index == 0 || value > running {
			return value, nil
		}
		return running, nil
	case StatMean:
		return running + value, nil
	default:
		return 0, errkind.New(errkind.Unknown, "riseset.accumulate", "unknown statistic")
	}
}
