// Package elements implements the three orbital-element representations
// (Cartesian, Keplerian, Equinoctial) behind a single tagged-union
// OrbitalElements container, plus conversions between them. The
// Cartesian<->Keplerian conversion follows goeph's
// elements.FromStateVector (eccentricity-vector construction, node-vector
// quadrant tie-breaks, circular/equatorial fallbacks) and kepler.Orbit's
// perifocal rotation for the inverse direction.
package elements

import (
	"math"

	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

// eccentricityFloor is the tolerance below which an eccentricity (or an
// inclination's distance from 0/pi) is treated as exactly singular, per
// spec's documented tie-break rules.
const eccentricityFloor = 1e-10

// SetID names one of the three concrete element representations.
type SetID int

const (
	CartesianSet SetID = iota
	KeplerianSet
	EquinoctialSet
)

func (s SetID) String() string {
	switch s {
	case CartesianSet:
		return "cartesian"
	case KeplerianSet:
		return "keplerian"
	case EquinoctialSet:
		return "equinoctial"
	default:
		return "unknown"
	}
}

// Variant is implemented by each concrete element representation.
type Variant interface {
	SetID() SetID
}

// Cartesian stores position and velocity in a named inertial frame F.
type Cartesian[F any] struct {
	Position vector.V[F] // km
	Velocity vector.V[F] // km/s
}

func (Cartesian[F]) SetID() SetID { return CartesianSet }

// Add returns the componentwise sum of two Cartesian states.
func (c Cartesian[F]) Add(o Cartesian[F]) Cartesian[F] {
	return Cartesian[F]{Position: c.Position.Add(o.Position), Velocity: c.Velocity.Add(o.Velocity)}
}

// Sub returns the componentwise difference of two Cartesian states.
func (c Cartesian[F]) Sub(o Cartesian[F]) Cartesian[F] {
	return Cartesian[F]{Position: c.Position.Sub(o.Position), Velocity: c.Velocity.Sub(o.Velocity)}
}

// Scale returns c scaled by s.
func (c Cartesian[F]) Scale(s float64) Cartesian[F] {
	return Cartesian[F]{Position: c.Position.Scale(s), Velocity: c.Velocity.Scale(s)}
}

// CartesianPartial is the time-derivative of a Cartesian state: velocity
// and acceleration, produced by dividing a Cartesian by a Duration.
type CartesianPartial[F any] struct {
	Velocity     vector.V[F] // km/s
	Acceleration vector.V[F] // km/s^2
}

// DivDuration returns the time-derivative of c over dt.
func (c Cartesian[F]) DivDuration(dt units.Duration) CartesianPartial[F] {
	inv := 1 / dt.Seconds()
	return CartesianPartial[F]{
		Velocity:     c.Position.Scale(inv),
		Acceleration: c.Velocity.Scale(inv),
	}
}

// Keplerian stores the six classical orbital elements. Angles are stored
// wrapped to [0, 2*pi) except for hyperbolic/parabolic true anomaly,
// which may fall outside that range.
type Keplerian struct {
	A          units.Length // semi-major axis
	E          float64      // eccentricity
	I          units.Angle  // inclination
	RAAN       units.Angle  // right ascension of ascending node
	ArgP       units.Angle  // argument of periapsis
	TrueAnom   units.Angle  // true anomaly
	Degenerate bool         // set when a conversion degraded at a documented singularity
}

func (Keplerian) SetID() SetID { return KeplerianSet }

// Add returns the componentwise sum of two Keplerian element sets.
func (k Keplerian) Add(o Keplerian) Keplerian {
	return Keplerian{
		A: k.A.Add(o.A), E: k.E + o.E,
		I: k.I.Add(o.I), RAAN: k.RAAN.Add(o.RAAN),
		ArgP: k.ArgP.Add(o.ArgP), TrueAnom: k.TrueAnom.Add(o.TrueAnom),
	}
}

// Sub returns the componentwise difference of two Keplerian element sets.
func (k Keplerian) Sub(o Keplerian) Keplerian {
	return Keplerian{
		A: k.A.Sub(o.A), E: k.E - o.E,
		I: k.I.Sub(o.I), RAAN: k.RAAN.Sub(o.RAAN),
		ArgP: k.ArgP.Sub(o.ArgP), TrueAnom: k.TrueAnom.Sub(o.TrueAnom),
	}
}

// Scale returns k scaled by s.
func (k Keplerian) Scale(s float64) Keplerian {
	return Keplerian{
		A: k.A.Scale(s), E: k.E * s,
		I: k.I.Scale(s), RAAN: k.RAAN.Scale(s),
		ArgP: k.ArgP.Scale(s), TrueAnom: k.TrueAnom.Scale(s),
	}
}

// Equinoctial stores the nonsingular equinoctial element set.
type Equinoctial struct {
	P units.Length // semi-latus rectum
	F float64      // e*cos(argp+raan)
	G float64      // e*sin(argp+raan)
	H float64      // tan(i/2)*cos(raan)
	K float64      // tan(i/2)*sin(raan)
	L units.Angle  // true longitude
}

func (Equinoctial) SetID() SetID { return EquinoctialSet }

// Add returns the componentwise sum of two equinoctial element sets.
func (e Equinoctial) Add(o Equinoctial) Equinoctial {
	return Equinoctial{P: e.P.Add(o.P), F: e.F + o.F, G: e.G + o.G, H: e.H + o.H, K: e.K + o.K, L: e.L.Add(o.L)}
}

// Sub returns the componentwise difference of two equinoctial element sets.
func (e Equinoctial) Sub(o Equinoctial) Equinoctial {
	return Equinoctial{P: e.P.Sub(o.P), F: e.F - o.F, G: e.G - o.G, H: e.H - o.H, K: e.K - o.K, L: e.L.Sub(o.L)}
}

// Scale returns e scaled by s.
func (e Equinoctial) Scale(s float64) Equinoctial {
	return Equinoctial{P: e.P.Scale(s), F: e.F * s, G: e.G * s, H: e.H * s, K: e.K * s, L: e.L.Scale(s)}
}

// OrbitalElements is the tagged-variant container spec.md's unified
// element type describes, parametrized by the inertial frame its
// Cartesian variant (when active) is expressed in.
type OrbitalElements[F any] struct {
	variant Variant
}

// FromCartesian wraps a Cartesian state.
func FromCartesian[F any](c Cartesian[F]) OrbitalElements[F] {
	return OrbitalElements[F]{variant: c}
}

// FromKeplerian wraps a Keplerian element set.
func FromKeplerian[F any](k Keplerian) OrbitalElements[F] {
	return OrbitalElements[F]{variant: k}
}

// FromEquinoctial wraps an Equinoctial element set.
func FromEquinoctial[F any](e Equinoctial) OrbitalElements[F] {
	return OrbitalElements[F]{variant: e}
}

// SetID reports which concrete variant is active.
func (o OrbitalElements[F]) SetID() SetID { return o.variant.SetID() }

// GetCartesian borrows the Cartesian variant, failing if the active
// variant differs.
func (o OrbitalElements[F]) GetCartesian() (Cartesian[F], error) {
	c, ok := o.variant.(Cartesian[F])
	if !ok {
		return Cartesian[F]{}, errkind.New(errkind.VariantMismatch, "elements.OrbitalElements.GetCartesian", "active variant is not cartesian")
	}
	return c, nil
}

// GetKeplerian borrows the Keplerian variant, failing if the active
// variant differs.
func (o OrbitalElements[F]) GetKeplerian() (Keplerian, error) {
	k, ok := o.variant.(Keplerian)
	if !ok {
		return Keplerian{}, errkind.New(errkind.VariantMismatch, "elements.OrbitalElements.GetKeplerian", "active variant is not keplerian")
	}
	return k, nil
}

// GetEquinoctial borrows the Equinoctial variant, failing if the active
// variant differs.
func (o OrbitalElements[F]) GetEquinoctial() (Equinoctial, error) {
	e, ok := o.variant.(Equinoctial)
	if !ok {
		return Equinoctial{}, errkind.New(errkind.VariantMismatch, "elements.OrbitalElements.GetEquinoctial", "active variant is not equinoctial")
	}
	return e, nil
}

// ToVector serializes the active variant to a fixed-length numeric
// vector: (x, y, z, vx, vy, vz) km and km/s for Cartesian; (a, e, i,
// RAAN, argP, trueAnom) km and radians for Keplerian; (p, f, g, h, k, L)
// km, dimensionless, and radians for Equinoctial. Used by callers that
// need a variant-agnostic digest of a state, such as a stable id hash.
func (o OrbitalElements[F]) ToVector() ([6]float64, error) {
	switch o.SetID() {
	case CartesianSet:
		c, err := o.GetCartesian()
		if err != nil {
			return [6]float64{}, err
		}
		return [6]float64{c.Position.X, c.Position.Y, c.Position.Z, c.Velocity.X, c.Velocity.Y, c.Velocity.Z}, nil
	case KeplerianSet:
		k, err := o.GetKeplerian()
		if err != nil {
			return [6]float64{}, err
		}
		return [6]float64{k.A.Km(), k.E, k.I.Radians(), k.RAAN.Radians(), k.ArgP.Radians(), k.TrueAnom.Radians()}, nil
	case EquinoctialSet:
		e, err := o.GetEquinoctial()
		if err != nil {
			return [6]float64{}, err
		}
		return [6]float64{e.P.Km(), e.F, e.G, e.H, e.K, e.L.Radians()}, nil
	default:
		return [6]float64{}, errkind.New(errkind.VariantMismatch, "elements.OrbitalElements.ToVector", "unrecognized variant")
	}
}

// In returns a new OrbitalElements whose active variant is target,
// converting via Cartesian as the common pivot representation when
// target and the current variant differ. sys supplies the gravitational
// parameter the conversion needs.
func (o OrbitalElements[F]) In(target SetID, sys *bodies.System) (OrbitalElements[F], error) {
	if o.SetID() == target {
		return o, nil
	}
	mu, err := sys.GetMu()
	if err != nil {
		return OrbitalElements[F]{}, err
	}

	cart, err := o.asCartesian(mu)
	if err != nil {
		return OrbitalElements[F]{}, err
	}

	switch target {
	case CartesianSet:
		return FromCartesian(cart), nil
	case KeplerianSet:
		k := CartesianToKeplerian(cart.Position.Array(), cart.Velocity.Array(), mu.Km3S2())
		return FromKeplerian[F](k), nil
	case EquinoctialSet:
		k := CartesianToKeplerian(cart.Position.Array(), cart.Velocity.Array(), mu.Km3S2())
		eq := KeplerianToEquinoctial(k)
		return FromEquinoctial[F](eq), nil
	default:
		return OrbitalElements[F]{}, errkind.New(errkind.VariantMismatch, "elements.OrbitalElements.In", "unknown target set id")
	}
}

// ConvertInPlace replaces o's variant with its equivalent T, a no-op if
// already T.
func (o *OrbitalElements[F]) ConvertInPlace(target SetID, sys *bodies.System) error {
	next, err := o.In(target, sys)
	if err != nil {
		return err
	}
	*o = next
	return nil
}

func (o OrbitalElements[F]) asCartesian(mu units.GravParam) (Cartesian[F], error) {
	switch v := o.variant.(type) {
	case Cartesian[F]:
		return v, nil
	case Keplerian:
		pos, vel := KeplerianToCartesian(v, mu.Km3S2())
		return Cartesian[F]{Position: vector.FromArray[F](pos), Velocity: vector.FromArray[F](vel)}, nil
	case Equinoctial:
		k := EquinoctialToKeplerian(v)
		pos, vel := KeplerianToCartesian(k, mu.Km3S2())
		return Cartesian[F]{Position: vector.FromArray[F](pos), Velocity: vector.FromArray[F](vel)}, nil
	default:
		return Cartesian[F]{}, errkind.New(errkind.VariantMismatch, "elements.asCartesian", "unrecognized variant")
	}
}

// Add returns a+b; fails if the variants differ.
func Add[F any](a, b OrbitalElements[F]) (OrbitalElements[F], error) {
	if a.SetID() != b.SetID() {
		return OrbitalElements[F]{}, errkind.New(errkind.VariantMismatch, "elements.Add", "operands have different element sets")
	}
	switch av := a.variant.(type) {
	case Cartesian[F]:
		return FromCartesian(av.Add(b.variant.(Cartesian[F]))), nil
	case Keplerian:
		return FromKeplerian[F](av.Add(b.variant.(Keplerian))), nil
	case Equinoctial:
		return FromEquinoctial[F](av.Add(b.variant.(Equinoctial))), nil
	default:
		return OrbitalElements[F]{}, errkind.New(errkind.VariantMismatch, "elements.Add", "unrecognized variant")
	}
}

// Sub returns a-b; fails if the variants differ.
func Sub[F any](a, b OrbitalElements[F]) (OrbitalElements[F], error) {
	if a.SetID() != b.SetID() {
		return OrbitalElements[F]{}, errkind.New(errkind.VariantMismatch, "elements.Sub", "operands have different element sets")
	}
	switch av := a.variant.(type) {
	case Cartesian[F]:
		return FromCartesian(av.Sub(b.variant.(Cartesian[F]))), nil
	case Keplerian:
		return FromKeplerian[F](av.Sub(b.variant.(Keplerian))), nil
	case Equinoctial:
		return FromEquinoctial[F](av.Sub(b.variant.(Equinoctial))), nil
	default:
		return OrbitalElements[F]{}, errkind.New(errkind.VariantMismatch, "elements.Sub", "unrecognized variant")
	}
}

// ScaleBy returns a*s, componentwise, variant preserved.
func ScaleBy[F any](a OrbitalElements[F], s float64) OrbitalElements[F] {
	switch av := a.variant.(type) {
	case Cartesian[F]:
		return FromCartesian(av.Scale(s))
	case Keplerian:
		return FromKeplerian[F](av.Scale(s))
	case Equinoctial:
		return FromEquinoctial[F](av.Scale(s))
	default:
		return a
	}
}

// Interpolate linearly interpolates between a (at t1) and b (at t2) to
// target, failing if the variants differ. Angular components are
// unwrapped to a continuous branch around a before interpolating, then
// rewrapped to [0, 2*pi).
func Interpolate[F any](a, b OrbitalElements[F], t1, t2, target float64) (OrbitalElements[F], error) {
	if a.SetID() != b.SetID() {
		return OrbitalElements[F]{}, errkind.New(errkind.VariantMismatch, "elements.Interpolate", "operands have different element sets")
	}
	if t2 == t1 {
		return a, nil
	}
	frac := (target - t1) / (t2 - t1)

	switch av := a.variant.(type) {
	case Cartesian[F]:
		bv := b.variant.(Cartesian[F])
		pos := av.Position.Add(bv.Position.Sub(av.Position).Scale(frac))
		vel := av.Velocity.Add(bv.Velocity.Sub(av.Velocity).Scale(frac))
		return FromCartesian(Cartesian[F]{Position: pos, Velocity: vel}), nil
	case Keplerian:
		bv := b.variant.(Keplerian)
		k := Keplerian{
			A:    units.LengthFromKm(av.A.Km() + (bv.A.Km()-av.A.Km())*frac),
			E:    av.E + (bv.E-av.E)*frac,
			I:    lerpAngle(av.I, bv.I, frac),
			RAAN: lerpAngle(av.RAAN, bv.RAAN, frac),
			ArgP: lerpAngle(av.ArgP, bv.ArgP, frac),
			TrueAnom: lerpAngle(av.TrueAnom, bv.TrueAnom, frac),
		}
		return FromKeplerian[F](k), nil
	case Equinoctial:
		bv := b.variant.(Equinoctial)
		e := Equinoctial{
			P: units.LengthFromKm(av.P.Km() + (bv.P.Km()-av.P.Km())*frac),
			F: av.F + (bv.F-av.F)*frac,
			G: av.G + (bv.G-av.G)*frac,
			H: av.H + (bv.H-av.H)*frac,
			K: av.K + (bv.K-av.K)*frac,
			L: lerpAngle(av.L, bv.L, frac),
		}
		return FromEquinoctial[F](e), nil
	default:
		return OrbitalElements[F]{}, errkind.New(errkind.VariantMismatch, "elements.Interpolate", "unrecognized variant")
	}
}

// lerpAngle interpolates an angle by first unwrapping b onto the branch
// nearest a, then rewrapping the result to [0, 2*pi).
func lerpAngle(a, b units.Angle, frac float64) units.Angle {
	diff := b.Sub(a).WrappedSigned()
	return a.Add(diff.Scale(frac)).Wrapped()
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func wrap2Pi(x float64) float64 {
	v := math.Mod(x, 2*math.Pi)
	if v < 0 {
		v += 2 * math.Pi
	}
	return v
}
