// Package eom implements the equations-of-motion layer: the functions
// that turn an orbital-element state plus a force model into the
// time-derivative the integrator steps forward. Each variant is grounded
// on astrea's propagation/equations_of_motion sources (TwoBody's inertial
// point-mass acceleration, Cowell's Cartesian accumulation of ForceModel
// output, the Keplerian and Equinoctial variation-of-parameters (VoP)
// formulations, and the J2-only mean-element VoP used for fast coarse
// propagation).
package eom

import (
	"math"

	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/force"
	"github.com/astrocore/astro/frame"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

// Vehicle is the force-evaluation surface an EquationsOfMotion needs from
// the propagated vehicle.
type Vehicle = force.Vehicle

// EquationsOfMotion evaluates the time-derivative of a state in its own
// element representation. The returned value reuses the same Variant
// struct as state (same SetID): its numeric fields hold rates rather
// than quantities, which works because Keplerian/Equinoctial/Cartesian's
// Add/Sub/Scale operations are plain vector-space arithmetic over their
// six underlying floats regardless of what those floats mean.
type EquationsOfMotion[F any] interface {
	SetID() elements.SetID
	Evaluate(jdTDB float64, state elements.OrbitalElements[F], veh Vehicle) (elements.OrbitalElements[F], error)
}

// retag reinterprets a vector tagged with one frame as tagged with
// another. Callers only use this to bridge a caller-chosen inertial-frame
// tag F to force.Tag, the single inertial frame every Force operates in;
// the two are conventionally the same frame, just named differently at
// different layers of the module.
func retag[A, B any](v vector.V[A]) vector.V[B] {
	return vector.New[B](v.X, v.Y, v.Z)
}

// TwoBody is the unperturbed Keplerian point-mass acceleration:
// a = -mu * r / |r|^3.
type TwoBody[F any] struct {
	System *bodies.System
}

// NewTwoBody constructs a TwoBody equations-of-motion evaluator bound to
// sys's central-body gravitational parameter.
func NewTwoBody[F any](sys *bodies.System) *TwoBody[F] {
	return &TwoBody[F]{System: sys}
}

func (tb *TwoBody[F]) SetID() elements.SetID { return elements.CartesianSet }

func (tb *TwoBody[F]) Evaluate(jdTDB float64, state elements.OrbitalElements[F], veh Vehicle) (elements.OrbitalElements[F], error) {
	c, err := state.GetCartesian()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	mu, err := tb.System.GetMu()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	r := c.Position.Norm()
	if r == 0 {
		return elements.OrbitalElements[F]{}, errkind.New(errkind.ConvergenceFailure, "eom.TwoBody.Evaluate", "position is zero")
	}
	accelScale := -mu.Km3S2() / (r * r * r)
	accel := c.Position.Scale(accelScale)
	return elements.FromCartesian(elements.Cartesian[F]{Position: c.Velocity, Velocity: accel}), nil
}

// Cowell integrates Cartesian state directly, summing the central-body
// point-mass term with every perturbation in Forces.
type Cowell[F any] struct {
	System *bodies.System
	Forces *force.Model
}

// NewCowell constructs a Cowell equations-of-motion evaluator.
func NewCowell[F any](sys *bodies.System, forces *force.Model) *Cowell[F] {
	return &Cowell[F]{System: sys, Forces: forces}
}

func (c *Cowell[F]) SetID() elements.SetID { return elements.CartesianSet }

func (c *Cowell[F]) Evaluate(jdTDB float64, state elements.OrbitalElements[F], veh Vehicle) (elements.OrbitalElements[F], error) {
	cart, err := state.GetCartesian()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	mu, err := c.System.GetMu()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	r := cart.Position.Norm()
	if r == 0 {
		return elements.OrbitalElements[F]{}, errkind.New(errkind.ConvergenceFailure, "eom.Cowell.Evaluate", "position is zero")
	}
	twoBodyAccel := cart.Position.Scale(-mu.Km3S2() / (r * r * r))

	var pert vector.V[F]
	if c.Forces != nil {
		pertF, err := c.Forces.ComputeTotal(jdTDB, retag[F, force.Tag](cart.Position), retag[F, force.Tag](cart.Velocity), veh, c.System)
		if err != nil {
			return elements.OrbitalElements[F]{}, err
		}
		pert = retag[force.Tag, F](pertF)
	}

	return elements.FromCartesian(elements.Cartesian[F]{
		Position: cart.Velocity,
		Velocity: twoBodyAccel.Add(pert),
	}), nil
}

// rtnPerturbation decomposes a perturbing inertial-frame acceleration
// into RTN (radial, transverse, normal) components at the given state,
// as goeph/astrea's VoP formulations all do before applying the Gauss
// variational equations.
func rtnPerturbation[F any](pos, vel vector.V[F], accel vector.V[F]) (radial, transverse, normal float64, err error) {
	dcm, err := frame.DynamicDCM(frame.RTN, pos.Array(), vel.Array())
	if err != nil {
		return 0, 0, 0, err
	}
	rtn := dcm.Apply(accel.Array())
	return rtn[0], rtn[1], rtn[2], nil
}

// computePerturbation evaluates the bound force model (if any) in the
// inertial frame and decomposes it into RTN components.
func computePerturbation[F any](jdTDB float64, sys *bodies.System, forces *force.Model, cart elements.Cartesian[F], veh Vehicle) (radial, transverse, normal float64, err error) {
	if forces == nil {
		return 0, 0, 0, nil
	}
	accelF, err := forces.ComputeTotal(jdTDB, retag[F, force.Tag](cart.Position), retag[F, force.Tag](cart.Velocity), veh, sys)
	if err != nil {
		return 0, 0, 0, err
	}
	accel := retag[force.Tag, F](accelF)
	return rtnPerturbation(cart.Position, cart.Velocity, accel)
}

// KeplerianVoP is the Gauss variation-of-parameters form over classical
// Keplerian elements, grounded on astrea's KeplerianVop.cpp.
type KeplerianVoP[F any] struct {
	System *bodies.System
	Forces *force.Model
}

// NewKeplerianVoP constructs a Keplerian VoP equations-of-motion evaluator.
func NewKeplerianVoP[F any](sys *bodies.System, forces *force.Model) *KeplerianVoP[F] {
	return &KeplerianVoP[F]{System: sys, Forces: forces}
}

func (k *KeplerianVoP[F]) SetID() elements.SetID { return elements.KeplerianSet }

func (k *KeplerianVoP[F]) Evaluate(jdTDB float64, state elements.OrbitalElements[F], veh Vehicle) (elements.OrbitalElements[F], error) {
	kep, err := state.GetKeplerian()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	mu, err := k.System.GetMu()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	muVal := mu.Km3S2()

	cartOE, err := state.In(elements.CartesianSet, k.System)
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	cart, err := cartOE.GetCartesian()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}

	radialPert, tangentialPert, normalPert, err := computePerturbation(jdTDB, k.System, k.Forces, cart, veh)
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}

	a := kep.A.Km()
	ecc := kep.E
	if ecc < eccentricityGuard {
		ecc = eccentricityGuard
	}
	inc := kep.I.Radians()
	if inc < inclinationGuard {
		inc = inclinationGuard
	}
	w := kep.ArgP.Radians()
	theta := kep.TrueAnom.Radians()
	u := w + theta

	cosTA, sinTA := math.Cos(theta), math.Sin(theta)
	cosU, sinU := math.Cos(u), math.Sin(u)

	r := cart.Position.Norm()
	h := math.Sqrt(muVal * a * (1 - ecc*ecc))
	hSq := h * h
	hOverRSq := h / (r * r)

	dhdt := r * tangentialPert
	deccdt := h/muVal*sinTA*radialPert + 1.0/(muVal*h)*((hSq+muVal*r)*cosTA+muVal*ecc*r)*tangentialPert
	dadt := 2.0 / (muVal * (1 - ecc*ecc)) * (h*dhdt + a*muVal*ecc*deccdt)
	dincdt := r / h * cosU * normalPert
	dthetadt := hOverRSq + (1/(ecc*h))*((hSq/muVal)*cosTA*radialPert-(hSq/muVal+r)*sinTA*tangentialPert)
	draandt := r * sinU / (h * math.Sin(inc)) * normalPert
	dwdt := -dthetadt + (hOverRSq - draandt*math.Cos(inc))

	return elements.FromKeplerian[F](elements.Keplerian{
		A:        units.LengthFromKm(dadt),
		E:        deccdt,
		I:        units.AngleFromRadians(dincdt),
		RAAN:     units.AngleFromRadians(draandt),
		ArgP:     units.AngleFromRadians(dwdt),
		TrueAnom: units.AngleFromRadians(dthetadt),
	}), nil
}

// EquinoctialVoP is the Gauss VoP form over equinoctial elements, which
// has no singularity at zero eccentricity or inclination; grounded on
// astrea's EquinoctialVop.cpp.
type EquinoctialVoP[F any] struct {
	System *bodies.System
	Forces *force.Model
}

// NewEquinoctialVoP constructs an Equinoctial VoP equations-of-motion evaluator.
func NewEquinoctialVoP[F any](sys *bodies.System, forces *force.Model) *EquinoctialVoP[F] {
	return &EquinoctialVoP[F]{System: sys, Forces: forces}
}

func (e *EquinoctialVoP[F]) SetID() elements.SetID { return elements.EquinoctialSet }

func (e *EquinoctialVoP[F]) Evaluate(jdTDB float64, state elements.OrbitalElements[F], veh Vehicle) (elements.OrbitalElements[F], error) {
	eq, err := state.GetEquinoctial()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	mu, err := e.System.GetMu()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	muVal := mu.Km3S2()

	cartOE, err := state.In(elements.CartesianSet, e.System)
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	cart, err := cartOE.GetCartesian()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}

	radialPert, tangentialPert, normalPert, err := computePerturbation(jdTDB, e.System, e.Forces, cart, veh)
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}

	p := eq.P.Km()
	f, g, h, k := eq.F, eq.G, eq.H, eq.K
	L := eq.L.Radians()

	cosL, sinL := math.Cos(L), math.Sin(L)
	termA := math.Sqrt(p / muVal)
	termB := 1.0 + f*cosL + g*sinL
	sSq := 1.0 + h*h + k*k
	termC := (h*sinL - k*cosL) / termB
	termD := termA * sSq / (2.0 * termB)

	dpdt := 2.0 * p / termB * termA * tangentialPert
	dfdt := termA * (radialPert*sinL + ((termB+1)*cosL+f)/termB*tangentialPert - g*termC*normalPert)
	dgdt := termA * (-radialPert*cosL + ((termB+1)*sinL+g)/termB*tangentialPert + f*termC*normalPert)
	dhdt := termD * cosL * normalPert
	dkdt := termD * sinL * normalPert
	dLdt := math.Sqrt(muVal*p)*termB*termB/(p*p) + termA*termC*normalPert

	return elements.FromEquinoctial[F](elements.Equinoctial{
		P: units.LengthFromKm(dpdt),
		F: dfdt,
		G: dgdt,
		H: dhdt,
		K: dkdt,
		L: units.AngleFromRadians(dLdt),
	}), nil
}

// J2MeanVoP propagates only the secular nodal and apsidal precession
// caused by the central body's J2 term, holding semi-major axis and
// eccentricity fixed; it is a fast, coarse alternative to Cowell for
// long-duration mean-element propagation, grounded on astrea's
// J2MeanVop.cpp.
type J2MeanVoP[F any] struct {
	System *bodies.System
}

// NewJ2MeanVoP constructs a J2-only mean-element equations-of-motion evaluator.
func NewJ2MeanVoP[F any](sys *bodies.System) *J2MeanVoP[F] {
	return &J2MeanVoP[F]{System: sys}
}

func (j *J2MeanVoP[F]) SetID() elements.SetID { return elements.KeplerianSet }

func (j *J2MeanVoP[F]) Evaluate(jdTDB float64, state elements.OrbitalElements[F], veh Vehicle) (elements.OrbitalElements[F], error) {
	kep, err := state.GetKeplerian()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	body, err := j.System.GetCentralBody()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	muVal := body.Mu.Km3S2()
	j2 := body.J2
	re := body.EquatorialRadiusKm

	cartOE, err := state.In(elements.CartesianSet, j.System)
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}
	cart, err := cartOE.GetCartesian()
	if err != nil {
		return elements.OrbitalElements[F]{}, err
	}

	a := kep.A.Km()
	ecc := kep.E
	if ecc < eccentricityGuard {
		ecc = eccentricityGuard
	}
	inc := kep.I.Radians()
	if inc < inclinationGuard {
		inc = inclinationGuard
	}
	w := kep.ArgP.Radians()
	theta := kep.TrueAnom.Radians()

	x, y, z := cart.Position.X, cart.Position.Y, cart.Position.Z
	r := cart.Position.Norm()

	nHat := cart.Position.Cross(cart.Velocity).Unit()

	termA := -1.5 * j2 * muVal * re * re / (r * r * r * r * r)
	termB := z * z / (r * r)
	accelObl := vector.New[F](
		termA*(1.0-5.0*termB)*x,
		termA*(1.0-5.0*termB)*y,
		termA*(1.0-3.0*termB)*z,
	)
	normalPert := accelObl.Dot(nHat)

	h := math.Sqrt(muVal * a * (1 - ecc*ecc))
	u := w + theta
	cosU, sinU := math.Cos(u), math.Sin(u)

	dthetadt := h / (r * r)
	draandt := r * sinU / (h * math.Sin(inc)) * normalPert
	dwdt := -draandt * math.Cos(inc)
	dincdt := r / h * cosU * normalPert
	if inc <= inclinationGuard && dincdt <= inclinationGuard {
		dincdt = 0
	}

	return elements.FromKeplerian[F](elements.Keplerian{
		A:        units.LengthFromKm(0),
		E:        0,
		I:        units.AngleFromRadians(dincdt),
		RAAN:     units.AngleFromRadians(draandt),
		ArgP:     units.AngleFromRadians(dwdt),
		TrueAnom: units.AngleFromRadians(dthetadt),
	}), nil
}

const (
	eccentricityGuard = 1e-6
	inclinationGuard  = 1e-6
)
