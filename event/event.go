// Package event implements the two events this core specifies:
// ImpulsiveBurn, which fires at apoapsis and applies an instantaneous
// velocity-aligned delta-v from a vehicle's attached thrusters, and
// HorizonCrossing, which reports (without mutating the vehicle) when a
// satellite rises or sets relative to a ground point's horizon. Both
// satisfy integrator.Event[F] structurally; grounded on astrea's
// ImpulsiveBurn (perigee/apoapsis-triggered instantaneous along-track
// burn sized from attached thruster impulsive delta-v capacity).
package event

import (
	"math"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/frame"
	"github.com/astrocore/astro/integrator"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

// jdTDBToDate recovers an approximate astrotime.Date (a UTC-JD clock)
// from a TDB Julian date, by inverting TT->UTC and treating TDB-TT's
// sub-millisecond periodic term as TT for the purpose of the single
// inversion (that term is far smaller than the minute-level TT-UTC
// offset it is chained with).
func jdTDBToDate(jdTDB float64) astrotime.Date {
	jdTT := jdTDB - astrotime.TDBMinusTT(jdTDB)/astrotime.SecPerDay
	jdUTC := astrotime.TTToUTC(jdTT)
	return astrotime.FromJD(jdUTC)
}

// Thruster is the minimal capability an ImpulsiveBurn needs from a
// vehicle's attached payloads: its own contribution to the vehicle's
// total impulsive delta-v capacity.
type Thruster interface {
	ImpulsiveDeltaV() units.Velocity
}

// ThrusterHolder is implemented by vehicles that expose their attached
// thrusters for an ImpulsiveBurn to sum.
type ThrusterHolder interface {
	Thrusters() []Thruster
}

// ImpulsiveBurn fires at apoapsis (true anomaly = pi) and applies an
// instantaneous delta-v along the velocity unit vector, sized from the
// sum of the vehicle's attached thrusters' impulsive delta-v capacity.
// A vehicle with no ThrusterHolder capability (or zero attached
// thrusters) still fires the event but applies zero delta-v.
type ImpulsiveBurn[F any] struct {
	Sys *bodies.System
}

// NewImpulsiveBurn constructs an ImpulsiveBurn event evaluated in sys.
func NewImpulsiveBurn[F any](sys *bodies.System) *ImpulsiveBurn[F] {
	return &ImpulsiveBurn[F]{Sys: sys}
}

func (b *ImpulsiveBurn[F]) Name() string { return "impulsive-burn" }

// Value returns (nu - pi), wrapped into [-pi, pi], which crosses zero when
// the vehicle passes apoapsis.
func (b *ImpulsiveBurn[F]) Value(jdTDB float64, s elements.OrbitalElements[F], sys *bodies.System) (float64, error) {
	k, err := s.In(elements.KeplerianSet, sys)
	if err != nil {
		return 0, err
	}
	kep, err := k.GetKeplerian()
	if err != nil {
		return 0, err
	}
	v := kep.TrueAnom.Radians() - math.Pi
	for v > math.Pi {
		v -= 2 * math.Pi
	}
	for v < -math.Pi {
		v += 2 * math.Pi
	}
	return v, nil
}

// Modify applies the burn: delta-v equal to the sum of attached
// thrusters' impulsive capacity, directed along the current velocity
// unit vector.
func (b *ImpulsiveBurn[F]) Modify(veh integrator.Vehicle[F]) error {
	cart, err := veh.CurrentState().In(elements.CartesianSet, b.Sys)
	if err != nil {
		return err
	}
	c, err := cart.GetCartesian()
	if err != nil {
		return err
	}
	var dv units.Velocity
	if holder, ok := veh.(ThrusterHolder); ok {
		for _, th := range holder.Thrusters() {
			dv = dv.Add(th.ImpulsiveDeltaV())
		}
	}
	if dv.KmPerSec() == 0 {
		return nil
	}
	vHat := c.Velocity.Unit()
	newVel := c.Velocity.Add(vHat.Scale(dv.KmPerSec()))
	veh.SetCurrentState(elements.FromCartesian(elements.Cartesian[F]{Position: c.Position, Velocity: newVel}))
	return nil
}

// GroundPoint is a fixed point on a celestial body's surface, given in
// that body's body-fixed frame.
type GroundPoint[F any] struct {
	BodyID       bodies.ID
	PositionECEF vector.V[F] // km, body-fixed frame
}

// HorizonCrossing reports (value-only, modifier is a no-op) when a
// vehicle rises above or sets below a ground point's horizon at a given
// minimum elevation angle. Value is (r . n_hat - r_body / cos(minElev)),
// per this core's documented horizon-test formula: n_hat is the ground
// point's zenith direction and the subtracted term is the slant-range
// threshold at which a satellite radially at the body's surface radius
// would sit exactly at minElev above the horizon.
type HorizonCrossing[F any] struct {
	Point        GroundPoint[F]
	MinElevation units.Angle
}

// NewHorizonCrossing constructs a HorizonCrossing event for the given
// ground point and minimum elevation.
func NewHorizonCrossing[F any](point GroundPoint[F], minElev units.Angle) *HorizonCrossing[F] {
	return &HorizonCrossing[F]{Point: point, MinElevation: minElev}
}

func (h *HorizonCrossing[F]) Name() string { return "horizon-crossing:" + string(h.Point.BodyID) }

func (h *HorizonCrossing[F]) Value(jdTDB float64, s elements.OrbitalElements[F], sys *bodies.System) (float64, error) {
	body, err := sys.GetBody(h.Point.BodyID)
	if err != nil {
		return 0, err
	}
	cart, err := s.In(elements.CartesianSet, sys)
	if err != nil {
		return 0, err
	}
	c, err := cart.GetCartesian()
	if err != nil {
		return 0, err
	}
	if h.Point.PositionECEF.Norm() == 0 {
		return 0, errkind.New(errkind.ConversionSingularity, "event.HorizonCrossing.Value", "ground point has zero position")
	}
	date := jdTDBToDate(jdTDB)
	eciDCM := frame.ECEFToECI(date)
	nHatArr := eciDCM.Apply(h.Point.PositionECEF.Unit().Array())
	nHat := vector.FromArray[F](nHatArr)

	threshold := body.EquatorialRadiusKm / math.Cos(h.MinElevation.Radians())
	return c.Position.Dot(nHat) - threshold, nil
}

func (h *HorizonCrossing[F]) Modify(veh integrator.Vehicle[F]) error {
	return nil
}
