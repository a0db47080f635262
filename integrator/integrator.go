// Package integrator implements the adaptive embedded Runge-Kutta
// propagation loop: stage evaluation against a Tableau, step-size
// control per the error-test formulas this core documents, fixed-step
// mode, per-step event detection via bisection, and StateHistory
// recording. The bisection root-finder is grounded on goeph's
// search.FindDiscrete (coarse bracket, then repeated bisection to a
// convergence tolerance); the stepping loop itself follows the
// classical embedded-RK step/accept/reject cycle rather than any single
// example file, since none of the pack's repos implement a numerical
// integrator. The optional Budget uses golang.org/x/time/rate the way
// Bwooce-latency-space's proxy paces per-key traffic, applied here to
// per-step-attempt pacing and wall-time/step-count ceilings instead of
// network throttling.
package integrator

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/eom"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/state"
	"github.com/astrocore/astro/units"
)

// Vehicle is the minimal state-mutation surface the integrator needs: the
// force/EOM read surface (eom.Vehicle) plus get/set of the vehicle's
// current orbital-element state, which Propagate mutates in place as it
// advances.
type Vehicle[F any] interface {
	eom.Vehicle
	CurrentState() elements.OrbitalElements[F]
	SetCurrentState(elements.OrbitalElements[F])
}

// Event is the contract a registered event must satisfy: a scalar value
// function whose sign change marks a crossing, and a modifier invoked
// once the crossing time is located.
type Event[F any] interface {
	Name() string
	Value(jdTDB float64, s elements.OrbitalElements[F], sys *bodies.System) (float64, error)
	Modify(veh Vehicle[F]) error
}

// Default step-size control constants, per this core's documented
// recommendation.
const (
	DefaultSafety        = 0.9
	DefaultHMinFactor    = 0.1
	DefaultHMaxFactor    = 5.0
	DefaultHRejectFactor = 0.5
	DefaultMaxRejects    = 50
)

// Integrator advances a Vehicle's state through an EquationsOfMotion
// using a selected Butcher tableau, in either adaptive or fixed-step mode.
type Integrator[F any] struct {
	System  *bodies.System
	Tableau Tableau

	Adaptive bool
	AbsTol   float64
	RelTol   float64

	FixedStep units.Duration

	Safety        float64
	HMinFactor    float64
	HMaxFactor    float64
	HRejectFactor float64
	HMinFloor     units.Duration
	HMaxCeil      units.Duration
	MaxRejects    int

	EventTolerance units.Duration

	// Budget, when set, bounds a single Propagate call's wall-clock time
	// and step-attempt count, and paces step attempts so a pathological
	// step-size collapse can't spin a hot loop. Nil means unbounded,
	// matching every existing caller's behavior.
	Budget *Budget
}

// Budget caps a Propagate call's resource consumption. MaxWallTime and
// MaxSteps are independent ceilings; either one tripping aborts the
// propagation with errkind.BudgetExceeded. Construct with NewBudget
// rather than a struct literal so the rate limiter is initialized.
type Budget struct {
	MaxWallTime time.Duration
	MaxSteps    int

	limiter *rate.Limiter
}

// NewBudget constructs a Budget bounding wall time and step count, and
// pacing step attempts at maxStepsPerSecond so an integrator stuck
// rejecting steps can't busy-loop.
func NewBudget(maxWallTime time.Duration, maxSteps int, maxStepsPerSecond rate.Limit) *Budget {
	return &Budget{
		MaxWallTime: maxWallTime,
		MaxSteps:    maxSteps,
		limiter:     rate.NewLimiter(maxStepsPerSecond, 1),
	}
}

// checkBudget is called once per step attempt in Propagate's main loop.
// It paces the attempt against the rate limiter (if any), then checks
// both ceilings, returning errkind.BudgetExceeded on the first breach.
func (ig *Integrator[F]) checkBudget(start time.Time, attempts int) error {
	b := ig.Budget
	if b == nil {
		return nil
	}
	if b.limiter != nil {
		if err := b.limiter.Wait(context.Background()); err != nil {
			return errkind.New(errkind.BudgetExceeded, "integrator.Propagate", "step-rate limiter wait failed: "+err.Error())
		}
	}
	if b.MaxWallTime > 0 && time.Since(start) > b.MaxWallTime {
		return errkind.New(errkind.BudgetExceeded, "integrator.Propagate", "wall-clock time budget exceeded")
	}
	if b.MaxSteps > 0 && attempts > b.MaxSteps {
		return errkind.New(errkind.BudgetExceeded, "integrator.Propagate", "step-count budget exceeded")
	}
	return nil
}

// NewAdaptive constructs an adaptive-step Integrator with this core's
// recommended step-control constants.
func NewAdaptive[F any](sys *bodies.System, tableau Tableau, absTol, relTol float64) *Integrator[F] {
	return &Integrator[F]{
		System: sys, Tableau: tableau, Adaptive: true,
		AbsTol: absTol, RelTol: relTol,
		Safety: DefaultSafety, HMinFactor: DefaultHMinFactor, HMaxFactor: DefaultHMaxFactor,
		HRejectFactor: DefaultHRejectFactor, MaxRejects: DefaultMaxRejects,
		HMinFloor:      units.DurationFromSeconds(1e-3),
		HMaxCeil:       units.DurationFromDays(1),
		EventTolerance: units.DurationFromSeconds(1e-3),
	}
}

// NewFixedStep constructs a fixed-step Integrator using tableau's
// high-order weights with a constant step h.
func NewFixedStep[F any](sys *bodies.System, tableau Tableau, h units.Duration) *Integrator[F] {
	return &Integrator[F]{
		System: sys, Tableau: tableau, Adaptive: false, FixedStep: h,
		EventTolerance: units.DurationFromSeconds(1e-3),
	}
}

// stageDerivatives evaluates the K stage derivatives of the Tableau starting
// from (t, y) with candidate step h, returning each stage's derivative
// in eqm's native variant.
func stageDerivatives[F any](eqm eom.EquationsOfMotion[F], veh Vehicle[F], t astrotime.Date, y elements.OrbitalElements[F], h units.Duration, tab Tableau) ([]elements.OrbitalElements[F], error) {
	k := make([]elements.OrbitalElements[F], tab.Stages)
	for i := 0; i < tab.Stages; i++ {
		stageState := y
		if i > 0 {
			accum := elements.ScaleBy(k[0], tab.A[i][0])
			for j := 1; j < i; j++ {
				if tab.A[i][j] == 0 {
					continue
				}
				term := elements.ScaleBy(k[j], tab.A[i][j])
				var err error
				accum, err = elements.Add(accum, term)
				if err != nil {
					return nil, err
				}
			}
			delta := elements.ScaleBy(accum, h.Seconds())
			var err error
			stageState, err = elements.Add(y, delta)
			if err != nil {
				return nil, err
			}
		}
		stageDate := t.Add(units.DurationFromSeconds(tab.C[i] * h.Seconds()))
		deriv, err := eqm.Evaluate(stageDate.TDB(), stageState, veh)
		if err != nil {
			return nil, err
		}
		k[i] = deriv
	}
	return k, nil
}

// combine forms y + h * sum(weights[i] * k[i]).
func combine[F any](y elements.OrbitalElements[F], k []elements.OrbitalElements[F], weights []float64, h units.Duration) (elements.OrbitalElements[F], error) {
	accum := elements.ScaleBy(k[0], weights[0])
	for i := 1; i < len(k); i++ {
		if weights[i] == 0 {
			continue
		}
		term := elements.ScaleBy(k[i], weights[i])
		var err error
		accum, err = elements.Add(accum, term)
		if err != nil {
			return elements.OrbitalElements[F]{}, err
		}
	}
	delta := elements.ScaleBy(accum, h.Seconds())
	return elements.Add(y, delta)
}

// trialState evaluates a single RK step of size dt from (t, y), used both
// for committing an accepted step and for bisecting to an event crossing
// time within an already-accepted step window.
func trialState[F any](eqm eom.EquationsOfMotion[F], veh Vehicle[F], t astrotime.Date, y elements.OrbitalElements[F], dt units.Duration, tab Tableau) (elements.OrbitalElements[F], error) {
	k, err := stageDerivatives(eqm, veh, t, y, dt, tab)
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	return combine(y, k, tab.BHigh, dt)
}

// errorRMS computes the step's estimated error per this core's
// documented scale: s_i = absTol + relTol*max(|y_i|,|yPrev_i|),
// error = rms_i(|y_i - yHat_i| / s_i).
func errorRMS[F any](yHigh, yLow elements.OrbitalElements[F], absTol, relTol float64) (float64, error) {
	a, err := toVector(yHigh)
	if err != nil {
		return 0, err
	}
	b, err := toVector(yLow)
	if err != nil {
		return 0, err
	}
	var sumSq float64
	for i := range a {
		scale := absTol + relTol*math.Max(math.Abs(a[i]), math.Abs(b[i]))
		if scale == 0 {
			scale = absTol
		}
		if scale == 0 {
			scale = 1e-12
		}
		r := (a[i] - b[i]) / scale
		sumSq += r * r
	}
	return math.Sqrt(sumSq / float64(len(a))), nil
}

// toVector flattens an OrbitalElements' active variant into six floats in
// a fixed per-variant order, purely for the error-norm computation.
func toVector[F any](oe elements.OrbitalElements[F]) ([6]float64, error) {
	return oe.ToVector()
}

type eventCrossing[F any] struct {
	event Event[F]
	tStar astrotime.Date
	yStar elements.OrbitalElements[F]
}

// findCrossings checks every registered event for a sign change across
// [t, t+h] and, for each one found, bisects to the crossing time within
// EventTolerance, grounded on goeph's search.FindDiscrete bisection loop.
func (ig *Integrator[F]) findCrossings(eqm eom.EquationsOfMotion[F], veh Vehicle[F], t astrotime.Date, y elements.OrbitalElements[F], h units.Duration, yEnd elements.OrbitalElements[F], events []Event[F]) ([]eventCrossing[F], error) {
	var crossings []eventCrossing[F]
	for _, ev := range events {
		vLo, err := ev.Value(t.TDB(), y, ig.System)
		if err != nil {
			return nil, err
		}
		tEnd := t.Add(h)
		vHi, err := ev.Value(tEnd.TDB(), yEnd, ig.System)
		if err != nil {
			return nil, err
		}
		if !signChanged(vLo, vHi) {
			continue
		}
		lo, hi := 0.0, h.Seconds()
		vAtLo := vLo
		for hi-lo > ig.EventTolerance.Seconds() {
			mid := (lo + hi) / 2
			yMid, err := trialState(eqm, veh, t, y, units.DurationFromSeconds(mid), ig.Tableau)
			if err != nil {
				return nil, err
			}
			tMid := t.Add(units.DurationFromSeconds(mid))
			vMid, err := ev.Value(tMid.TDB(), yMid, ig.System)
			if err != nil {
				return nil, err
			}
			if signChanged(vAtLo, vMid) {
				hi = mid
			} else {
				lo = mid
				vAtLo = vMid
			}
		}
		tStar := t.Add(units.DurationFromSeconds(hi))
		yStar, err := trialState(eqm, veh, t, y, units.DurationFromSeconds(hi), ig.Tableau)
		if err != nil {
			return nil, err
		}
		crossings = append(crossings, eventCrossing[F]{event: ev, tStar: tStar, yStar: yStar})
	}
	sort.Slice(crossings, func(i, j int) bool { return crossings[i].tStar.Before(crossings[j].tStar) })
	return crossings, nil
}

func signChanged(a, b float64) bool {
	if a == 0 || b == 0 {
		return true
	}
	return (a < 0) != (b < 0)
}

// Propagate advances veh's state from epoch across span, per the loop
// this package documents: convert to the EOM's element set, step, test
// error (adaptive mode), detect and resolve event crossings, record
// history, repeat until span is exhausted.
func (ig *Integrator[F]) Propagate(epoch astrotime.Date, span units.Duration, eqm eom.EquationsOfMotion[F], veh Vehicle[F], storeHistory bool, events []Event[F]) (*state.History[F], error) {
	hist := state.NewHistory[F]()
	target := epoch.Add(span)

	y, err := veh.CurrentState().In(eqm.SetID(), ig.System)
	if err != nil {
		return nil, err
	}
	t := epoch

	if err := ig.checkCrash(y); err != nil {
		return nil, err
	}
	hist.Insert(state.State[F]{Elements: y, Date: t, System: ig.System})

	h := ig.initialStep(span)
	rejects := 0
	budgetStart := time.Now()
	attempts := 0

	for t.Before(target) {
		attempts++
		if err := ig.checkBudget(budgetStart, attempts); err != nil {
			return nil, err
		}

		remaining := target.Sub(t)
		if h.Seconds() > remaining.Seconds() {
			h = remaining
		}
		if h.Seconds() <= 0 {
			break
		}

		k, err := stageDerivatives(eqm, veh, t, y, h, ig.Tableau)
		if err != nil {
			return nil, err
		}
		yHigh, err := combine(y, k, ig.Tableau.BHigh, h)
		if err != nil {
			return nil, err
		}

		if ig.Adaptive {
			yLow, err := combine(y, k, ig.Tableau.BLow, h)
			if err != nil {
				return nil, err
			}
			errEst, err := errorRMS(yHigh, yLow, ig.AbsTol, ig.RelTol)
			if err != nil {
				return nil, err
			}
			p := float64(ig.Tableau.Order)
			if errEst > 1 {
				rejects++
				factor := math.Max(ig.HRejectFactor, ig.Safety*math.Pow(errEst, -1/(p+1)))
				h = h.Scale(factor)
				if h.Seconds() < ig.HMinFloor.Seconds() || rejects > ig.MaxRejects {
					return nil, errkind.New(errkind.IntegratorDivergence, "integrator.Propagate", "adaptive step fell below the minimum floor")
				}
				continue
			}
			rejects = 0
			factor := math.Min(ig.HMaxFactor, math.Max(ig.HMinFactor, ig.Safety*math.Pow(errEst, -1/(p+1))))
			nextH := h.Scale(factor)
			if nextH.Seconds() > ig.HMaxCeil.Seconds() {
				nextH = ig.HMaxCeil
			}
			hUsed := h
			crossings, err := ig.findCrossings(eqm, veh, t, y, hUsed, yHigh, events)
			if err != nil {
				return nil, err
			}
			if len(crossings) > 0 {
				first := crossings[0]
				hist.RecordEvent(first.event.Name(), first.tStar)
				veh.SetCurrentState(first.yStar)
				if err := first.event.Modify(veh); err != nil {
					return nil, err
				}
				t = first.tStar
				y = veh.CurrentState()
				if err := ig.checkCrash(y); err != nil {
					return nil, err
				}
				hist.Insert(state.State[F]{Elements: y, Date: t, System: ig.System})
				h = nextH
				continue
			}

			t = t.Add(hUsed)
			y = yHigh
			veh.SetCurrentState(y)
			if err := ig.checkCrash(y); err != nil {
				return nil, err
			}
			if storeHistory || !t.Before(target) {
				hist.Insert(state.State[F]{Elements: y, Date: t, System: ig.System})
			}
			h = nextH
			continue
		}

		// Fixed-step mode: accept unconditionally, still run event detection.
		crossings, err := ig.findCrossings(eqm, veh, t, y, h, yHigh, events)
		if err != nil {
			return nil, err
		}
		if len(crossings) > 0 {
			first := crossings[0]
			hist.RecordEvent(first.event.Name(), first.tStar)
			veh.SetCurrentState(first.yStar)
			if err := first.event.Modify(veh); err != nil {
				return nil, err
			}
			t = first.tStar
			y = veh.CurrentState()
			if err := ig.checkCrash(y); err != nil {
				return nil, err
			}
			hist.Insert(state.State[F]{Elements: y, Date: t, System: ig.System})
			continue
		}

		t = t.Add(h)
		y = yHigh
		veh.SetCurrentState(y)
		if err := ig.checkCrash(y); err != nil {
			return nil, err
		}
		if storeHistory || !t.Before(target) {
			hist.Insert(state.State[F]{Elements: y, Date: t, System: ig.System})
		}
	}

	return hist, nil
}

func (ig *Integrator[F]) initialStep(span units.Duration) units.Duration {
	if !ig.Adaptive {
		return ig.FixedStep
	}
	guess := span.Scale(0.01)
	if guess.Seconds() < ig.HMinFloor.Seconds() {
		guess = ig.HMinFloor
	}
	return guess
}

func (ig *Integrator[F]) checkCrash(y elements.OrbitalElements[F]) error {
	body, err := ig.System.GetCentralBody()
	if err != nil {
		return err
	}
	if body.CrashRadiusKm <= 0 {
		return nil
	}
	cart, err := y.In(elements.CartesianSet, ig.System)
	if err != nil {
		return err
	}
	c, err := cart.GetCartesian()
	if err != nil {
		return err
	}
	if c.Position.Norm() <= body.CrashRadiusKm {
		return errkind.New(errkind.BodyCrash, "integrator.Propagate", "position fell within the central body's crash radius")
	}
	return nil
}
