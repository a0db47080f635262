// Package platform implements the vehicle and ground-point types a
// simulation assembles into constellations: Spacecraft (an orbiting
// platform satisfying integrator.Vehicle and force.Vehicle), GroundStation
// (a fixed body-fixed point, required to make event.HorizonCrossing
// meaningful), PayloadPlatform (a Spacecraft additionally carrying an
// ordered list of boresight-equipped payloads), and the Plane/Shell/
// Constellation grouping with Walker-delta construction. Spacecraft is
// grounded on waveguide's Viewer/Spacecraft wrapper (name, id, mass/area/
// coefficient bundle, inertial position and velocity accessors);
// GroundStation is grounded on waveguide's GroundPoint (parent body,
// latitude/longitude/altitude, stable id).
package platform

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/attitude"
	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/elements"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/event"
	"github.com/astrocore/astro/state"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

// idNamespace scopes this package's name-based (SHA-1, version 5) stable
// ids, so hashing the same (name, initial-state digest) pair always
// produces the same id, satisfying "the same vehicle run twice with
// identical inputs produces identical ids" without depending on a
// random source.
var idNamespace = uuid.MustParse("6f1f5b7e-2f0a-4e9a-9c3e-9b6a7d2f0c41")

// digest builds the name-based hash input shared by every platform's
// stable id: the platform's name, its System's central body, and the
// six floats of its initial element vector.
func digest(name string, centralID bodies.ID, vec [6]float64) []byte {
	return []byte(fmt.Sprintf("%s|%s|%.12e|%.12e|%.12e|%.12e|%.12e|%.12e",
		name, centralID, vec[0], vec[1], vec[2], vec[3], vec[4], vec[5]))
}

// Spacecraft is an orbiting platform: a name, stable id, initial state,
// mutable current state, mass/area/coefficient bundle for the force
// models, an owned StateHistory, and an optional list of attached
// thrusters an event.ImpulsiveBurn can sum.
type Spacecraft[F any] struct {
	name string
	id   string

	Mass              units.Mass
	RamArea           units.Area
	DragCoeff         float64
	LiftArea          units.Area
	LiftCoeff         float64
	SolarArea         units.Area
	ReflectivityCoeff float64

	System  *bodies.System
	initial state.State[F]
	current elements.OrbitalElements[F]
	history *state.History[F]

	thrusters []event.Thruster
}

// SpacecraftConfig bundles a Spacecraft's mass/area/coefficient surface,
// the fixed physical properties the force models read every step.
type SpacecraftConfig struct {
	Mass              units.Mass
	RamArea           units.Area
	DragCoeff         float64
	LiftArea          units.Area
	LiftCoeff         float64
	SolarArea         units.Area
	ReflectivityCoeff float64
}

// NewSpacecraft constructs a Spacecraft with the given name and initial
// state, recording that state as both the initial and current state and
// as the first entry of an owned StateHistory.
func NewSpacecraft[F any](name string, initial state.State[F], cfg SpacecraftConfig, thrusters ...event.Thruster) (*Spacecraft[F], error) {
	vec, err := initial.Elements.ToVector()
	if err != nil {
		return nil, err
	}
	var centralID bodies.ID
	if initial.System != nil {
		if body, berr := initial.System.GetCentralBody(); berr == nil {
			centralID = body.ID
		}
	}
	id := uuid.NewSHA1(idNamespace, digest(name, centralID, vec)).String()

	hist := state.NewHistory[F]()
	hist.Insert(initial)

	return &Spacecraft[F]{
		name:              name,
		id:                id,
		Mass:              cfg.Mass,
		RamArea:           cfg.RamArea,
		DragCoeff:         cfg.DragCoeff,
		LiftArea:          cfg.LiftArea,
		LiftCoeff:         cfg.LiftCoeff,
		SolarArea:         cfg.SolarArea,
		ReflectivityCoeff: cfg.ReflectivityCoeff,
		System:            initial.System,
		initial:           initial,
		current:           initial.Elements,
		history:           hist,
		thrusters:         thrusters,
	}, nil
}

// Name returns the spacecraft's name.
func (s *Spacecraft[F]) Name() string { return s.name }

// ID returns the spacecraft's stable id.
func (s *Spacecraft[F]) ID() string { return s.id }

// MassKg, RamAreaM2, DragCoefficient, LiftAreaM2, LiftCoefficient,
// SolarAreaM2, and ReflectivityCoefficient satisfy force.Vehicle.
func (s *Spacecraft[F]) MassKg() float64                  { return s.Mass.Kg() }
func (s *Spacecraft[F]) RamAreaM2() float64               { return s.RamArea.M2() }
func (s *Spacecraft[F]) DragCoefficient() float64         { return s.DragCoeff }
func (s *Spacecraft[F]) LiftAreaM2() float64              { return s.LiftArea.M2() }
func (s *Spacecraft[F]) LiftCoefficient() float64         { return s.LiftCoeff }
func (s *Spacecraft[F]) SolarAreaM2() float64             { return s.SolarArea.M2() }
func (s *Spacecraft[F]) ReflectivityCoefficient() float64 { return s.ReflectivityCoeff }

// CurrentState and SetCurrentState satisfy integrator.Vehicle.
func (s *Spacecraft[F]) CurrentState() elements.OrbitalElements[F] { return s.current }
func (s *Spacecraft[F]) SetCurrentState(oe elements.OrbitalElements[F]) { s.current = oe }

// InitialState returns the state the spacecraft was constructed with.
func (s *Spacecraft[F]) InitialState() state.State[F] { return s.initial }

// History returns the spacecraft's owned StateHistory. A propagation
// that records history should insert into this same History so
// InertialPositionAt/InertialVelocityAt can look dates up afterward.
func (s *Spacecraft[F]) History() *state.History[F] { return s.history }

// Thrusters satisfies event.ThrusterHolder.
func (s *Spacecraft[F]) Thrusters() []event.Thruster { return s.thrusters }

// InertialPositionAt returns the spacecraft's position at date, drawn
// from its recorded history via the element set's own interpolation.
func (s *Spacecraft[F]) InertialPositionAt(date astrotime.Date) (vector.V[F], error) {
	st, err := s.history.Interpolate(date)
	if err != nil {
		return vector.V[F]{}, err
	}
	cart, err := st.Elements.In(elements.CartesianSet, s.System)
	if err != nil {
		return vector.V[F]{}, err
	}
	c, err := cart.GetCartesian()
	if err != nil {
		return vector.V[F]{}, err
	}
	return c.Position, nil
}

// InertialVelocityAt returns the spacecraft's velocity at date, drawn
// from its recorded history via the element set's own interpolation.
func (s *Spacecraft[F]) InertialVelocityAt(date astrotime.Date) (vector.V[F], error) {
	st, err := s.history.Interpolate(date)
	if err != nil {
		return vector.V[F]{}, err
	}
	cart, err := st.Elements.In(elements.CartesianSet, s.System)
	if err != nil {
		return vector.V[F]{}, err
	}
	c, err := cart.GetCartesian()
	if err != nil {
		return vector.V[F]{}, err
	}
	return c.Velocity, nil
}

// InertialAccelerationAt returns the spacecraft's acceleration at date,
// by default a central finite difference of InertialVelocityAt over a
// small step, per the vehicle contract's "numeric differentiation of the
// [velocity accessor]" fallback.
func (s *Spacecraft[F]) InertialAccelerationAt(date astrotime.Date) (vector.V[F], error) {
	const halfStep = 0.5 // seconds
	dt := units.DurationFromSeconds(halfStep)
	vPlus, err := s.InertialVelocityAt(date.Add(dt))
	if err != nil {
		return vector.V[F]{}, err
	}
	vMinus, err := s.InertialVelocityAt(date.Add(dt.Scale(-1)))
	if err != nil {
		return vector.V[F]{}, err
	}
	return vPlus.Sub(vMinus).Scale(1 / (2 * halfStep)), nil
}

// GroundStation is a fixed body-fixed point, carried as both a convenient
// latitude/longitude/altitude description and the resulting body-fixed
// Cartesian position.
type GroundStation[F any] struct {
	name string
	id   string

	BodyID       bodies.ID
	LatitudeRad  float64
	LongitudeRad float64
	AltitudeKm   float64
	PositionECEF vector.V[F]
}

// NewGroundStation constructs a GroundStation at the given geodetic
// coordinates on body, using body's equatorial and polar radii to derive
// the ellipsoid flattening (WGS84 for Earth, whatever the System
// registered for other bodies), per the ellipsoidal geodetic-to-ECEF
// construction goeph's coord.GeodeticToICRF uses before its further
// precession/nutation steps (out of scope here; this core stops at the
// body-fixed frame, per frame's stated simple-Earth-rotation
// approximation).
func NewGroundStation[F any](name string, body *bodies.CelestialBody, lat, lon units.Angle, alt units.Length) (*GroundStation[F], error) {
	if body.EquatorialRadiusKm == 0 {
		return nil, errkind.New(errkind.ConversionSingularity, "platform.NewGroundStation", "body has zero equatorial radius")
	}
	a := body.EquatorialRadiusKm
	b := body.PolarRadiusKm
	if b == 0 {
		b = a
	}
	flattening := (a - b) / a
	e2 := flattening * (2 - flattening)

	latRad, lonRad := lat.Radians(), lon.Radians()
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)

	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	altKm := alt.Km()

	x := (n + altKm) * cosLat * cosLon
	y := (n + altKm) * cosLat * sinLon
	z := (n*(1-e2) + altKm) * sinLat

	pos := vector.New[F](x, y, z)
	id := uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s|%s|%.9f|%.9f|%.6f", name, body.ID, latRad, lonRad, altKm))).String()

	return &GroundStation[F]{
		name: name, id: id,
		BodyID: body.ID, LatitudeRad: latRad, LongitudeRad: lonRad, AltitudeKm: altKm,
		PositionECEF: pos,
	}, nil
}

// Name returns the ground station's name.
func (g *GroundStation[F]) Name() string { return g.name }

// ID returns the ground station's stable id.
func (g *GroundStation[F]) ID() string { return g.id }

// GroundPoint returns the event package's GroundPoint describing this
// station, suitable for constructing an event.HorizonCrossing.
func (g *GroundStation[F]) GroundPoint() event.GroundPoint[F] {
	return event.GroundPoint[F]{BodyID: g.BodyID, PositionECEF: g.PositionECEF}
}

// Payload is the capability a PayloadPlatform's payload type must offer:
// its own fixed boresight direction and mounting offset, expressed in
// the platform's body-fixed dynamic frame.
type Payload[F any] interface {
	Boresight() attitude.Boresight[F]
}

// PayloadPlatform is a Spacecraft that additionally owns an ordered list
// of payloads, each carrying a boresight direction and attachment offset
// in the platform's body-fixed dynamic frame, per spec.md's
// PayloadPlatform<P> ("a vehicle that additionally owns an ordered list
// of payloads P"). Attitude rotates that body-fixed frame into the
// platform's parent inertial frame; a platform that never calls SetAttitude
// keeps attitude.Identity(), i.e. body-fixed coincides with inertial.
type PayloadPlatform[F any, P Payload[F]] struct {
	*Spacecraft[F]

	Payloads []P
	attitude attitude.Quaternion
}

// NewPayloadPlatform wraps an existing Spacecraft with an ordered payload
// list, starting at the identity attitude.
func NewPayloadPlatform[F any, P Payload[F]](sc *Spacecraft[F], payloads ...P) *PayloadPlatform[F, P] {
	return &PayloadPlatform[F, P]{
		Spacecraft: sc,
		Payloads:   payloads,
		attitude:   attitude.Identity(),
	}
}

// Attitude returns the platform's current body-fixed-to-inertial
// quaternion.
func (p *PayloadPlatform[F, P]) Attitude() attitude.Quaternion { return p.attitude }

// SetAttitude updates the platform's body-fixed-to-inertial rotation,
// e.g. after a slew maneuver completes.
func (p *PayloadPlatform[F, P]) SetAttitude(q attitude.Quaternion) { p.attitude = q }

// PayloadPointing returns payload index i's boresight direction and
// mounting offset rotated into the platform's parent inertial frame by
// the platform's current attitude.
func (p *PayloadPlatform[F, P]) PayloadPointing(i int) (direction, offset vector.V[F], err error) {
	if i < 0 || i >= len(p.Payloads) {
		return vector.V[F]{}, vector.V[F]{}, errkind.New(errkind.ConversionSingularity, "platform.PayloadPointing", "payload index out of range")
	}
	direction, offset = p.Payloads[i].Boresight().PointingAt(p.attitude)
	return direction, offset, nil
}
