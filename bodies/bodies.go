// Package bodies implements celestial bodies and the System that holds
// them, grounded in goeph's kepler.Orbit (secular element propagation,
// perifocal-to-ecliptic rotation) and spk.go's Chebyshev ephemeris
// evaluator. Where goeph hard-codes the Sun as center, System generalizes
// to an arbitrary central body per vehicle's frame of reference.
package bodies

import (
	"fmt"
	"math"
	"sort"

	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

// ID identifies a body within a System.
type ID string

// Kind classifies a body's role.
type Kind int

const (
	Star Kind = iota
	Planet
	Moon
	Asteroid
	Spacecraft
)

// AtmosphereLayer is one entry in a piecewise-exponential atmosphere table.
type AtmosphereLayer struct {
	AltitudeKm    float64
	RefDensityKgM3 float64
	ScaleHeightKm float64
}

// OuterPlanetCorrection carries the second-order expansion coefficients
// applied to the outer planets' secular element extrapolation (three
// Keplerian-like corrections plus one frequency), per the documented
// coefficient pack in spec.md section 4.4.
type OuterPlanetCorrection struct {
	B, C, S float64 // Keplerian-like amplitude corrections
	F       float64 // the associated frequency, rad/century
}

// Ephemeris evaluates Chebyshev-interpolated position and velocity for a
// body, grounded in goeph's spk package.
type Ephemeris interface {
	PositionVelocity(jdTDB float64) (pos, vel [3]float64, err error)
}

// MeanElements are the six mean Keplerian elements at a reference epoch,
// plus their secular (per-Julian-century) rates.
type MeanElements struct {
	SemiMajorAxisKm    float64
	SemiMajorAxisRate  float64
	Eccentricity       float64
	EccentricityRate   float64
	InclinationRad     float64
	InclinationRate    float64
	MeanLongitudeRad   float64
	MeanLongitudeRate  float64
	LongPeriapsisRad   float64
	LongPeriapsisRate  float64
	LongAscNodeRad     float64
	LongAscNodeRate    float64
}

// CelestialBody is a single body in a System.
type CelestialBody struct {
	ID              ID
	Name            string
	Kind            Kind
	ParentID        ID
	Mu              units.GravParam
	Mass            units.Mass
	EquatorialRadiusKm float64
	PolarRadiusKm      float64
	CrashRadiusKm      float64
	J2, J3          float64
	AxialTiltRad    float64
	RotationRateRadPerSec float64
	SiderealPeriodSec     float64
	ReferenceEpochJD      float64

	Mean       *MeanElements
	OuterCorr  *OuterPlanetCorrection
	Atmosphere []AtmosphereLayer // sorted ascending by AltitudeKm
	Ephem      Ephemeris
}

// AtmosphericDensity returns the density in kg/m^3 at the given altitude
// (km), by selecting the largest table entry whose altitude does not
// exceed the query and extrapolating exponentially above it. Bodies with
// no atmosphere table return 0.
func (b *CelestialBody) AtmosphericDensity(altitudeKm float64) float64 {
	if len(b.Atmosphere) == 0 {
		return 0
	}
	idx := 0
	for i, layer := range b.Atmosphere {
		if layer.AltitudeKm <= altitudeKm {
			idx = i
		} else {
			break
		}
	}
	ref := b.Atmosphere[idx]
	if ref.ScaleHeightKm == 0 {
		return ref.RefDensityKgM3
	}
	return ref.RefDensityKgM3 * math.Exp((ref.AltitudeKm-altitudeKm)/ref.ScaleHeightKm)
}

// OrbitalElementsAt computes Keplerian elements at date by linear secular
// extrapolation from the body's mean elements, with an optional
// second-order correction for outer planets. Returns the six classical
// elements: a (km), e, i (rad), raan (rad), argp (rad), mean anomaly (rad).
func (b *CelestialBody) OrbitalElementsAt(jdTDB float64) (a, e, i, raan, argp, meanAnom float64, err error) {
	if b.Mean == nil {
		return 0, 0, 0, 0, 0, 0, errkind.New(errkind.OutOfRange, "bodies.OrbitalElementsAt", fmt.Sprintf("body %s has no mean-element table", b.ID))
	}
	T := (jdTDB - b.ReferenceEpochJD) / 36525.0
	m := b.Mean

	a = m.SemiMajorAxisKm + m.SemiMajorAxisRate*T
	e = m.Eccentricity + m.EccentricityRate*T
	i = m.InclinationRad + m.InclinationRate*T
	raan = m.LongAscNodeRad + m.LongAscNodeRate*T
	longPeri := m.LongPeriapsisRad + m.LongPeriapsisRate*T
	meanLon := m.MeanLongitudeRad + m.MeanLongitudeRate*T

	if b.OuterCorr != nil {
		c := b.OuterCorr
		meanLon += c.B*T*T + c.C*math.Cos(c.F*T) + c.S*math.Sin(c.F*T)
	}

	argp = longPeri - raan
	meanAnom = meanLon - longPeri
	return a, e, i, raan, argp, meanAnom, nil
}

// EphemerisAt returns Chebyshev-evaluated position/velocity if an
// ephemeris is bound, or errkind.OutOfRange otherwise.
func (b *CelestialBody) EphemerisAt(jdTDB float64) (pos, vel [3]float64, err error) {
	if b.Ephem == nil {
		return pos, vel, errkind.New(errkind.OutOfRange, "bodies.EphemerisAt", fmt.Sprintf("body %s has no bound ephemeris", b.ID))
	}
	return b.Ephem.PositionVelocity(jdTDB)
}

// System is an ordered collection of bodies with a designated central body.
type System struct {
	central ID
	bodies  map[ID]*CelestialBody
	order   []ID
}

// NewSystem constructs a System whose central body is centralID. The
// central body need not already be registered; AddBody must still be
// called for it before use.
func NewSystem(centralID ID) *System {
	return &System{central: centralID, bodies: make(map[ID]*CelestialBody)}
}

// AddBody registers a body, keeping the order list sorted by ID for
// deterministic iteration.
func (s *System) AddBody(b *CelestialBody) {
	if _, exists := s.bodies[b.ID]; !exists {
		s.order = append(s.order, b.ID)
		sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })
	}
	s.bodies[b.ID] = b
}

// GetCentralBody returns the System's central body.
func (s *System) GetCentralBody() (*CelestialBody, error) {
	return s.GetBody(s.central)
}

// GetMu returns the central body's gravitational parameter.
func (s *System) GetMu() (units.GravParam, error) {
	b, err := s.GetCentralBody()
	if err != nil {
		return 0, err
	}
	return b.Mu, nil
}

// GetBody looks up a body by id, failing with errkind.MissingBody when absent.
func (s *System) GetBody(id ID) (*CelestialBody, error) {
	b, ok := s.bodies[id]
	if !ok {
		return nil, errkind.New(errkind.MissingBody, "bodies.System.GetBody", fmt.Sprintf("no body registered with id %q", id))
	}
	return b, nil
}

// Bodies returns all registered bodies in stable ID order.
func (s *System) Bodies() []*CelestialBody {
	out := make([]*CelestialBody, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bodies[id])
	}
	return out
}

// GetRelativePosition returns the position of "to" relative to "from" at
// date, in the solar-system-barycenter ICRF frame, computed from each
// body's ephemeris when bound, falling back to secular Keplerian elements
// converted to Cartesian via a minimal two-body solve otherwise.
func (s *System) GetRelativePosition(jdTDB float64, from, to ID) (vector.V[struct{}], error) {
	pFrom, err := s.barycentricPosition(jdTDB, from)
	if err != nil {
		return vector.V[struct{}]{}, err
	}
	pTo, err := s.barycentricPosition(jdTDB, to)
	if err != nil {
		return vector.V[struct{}]{}, err
	}
	return pTo.Sub(pFrom), nil
}

func (s *System) barycentricPosition(jdTDB float64, id ID) (vector.V[struct{}], error) {
	b, err := s.GetBody(id)
	if err != nil {
		return vector.V[struct{}]{}, err
	}
	if b.Ephem != nil {
		pos, _, err := b.Ephem.PositionVelocity(jdTDB)
		if err != nil {
			return vector.V[struct{}]{}, err
		}
		return vector.FromArray[struct{}](pos), nil
	}
	if b.Mean == nil {
		return vector.V[struct{}]{}, errkind.New(errkind.OutOfRange, "bodies.System.barycentricPosition", fmt.Sprintf("body %s has neither ephemeris nor mean elements", id))
	}
	a, e, i, raan, argp, M, err := b.OrbitalElementsAt(jdTDB)
	if err != nil {
		return vector.V[struct{}]{}, err
	}
	pos, _, err := keplerianToCartesian(a, e, i, raan, argp, M, float64(s.centralMuOrSun()))
	if err != nil {
		return vector.V[struct{}]{}, err
	}
	return vector.FromArray[struct{}](pos), nil
}

func (s *System) centralMuOrSun() units.GravParam {
	if mu, err := s.GetMu(); err == nil {
		return mu
	}
	return units.GravParamFromKm3S2(1.32712440018e11) // Sun, km^3/s^2
}

// keplerianToCartesian is a minimal elliptical-orbit solver used only to
// seed barycentric positions for bodies propagated by mean elements
// rather than a bound ephemeris; it solves Kepler's equation by
// Newton-Raphson the way goeph's kepler.Orbit.solveElliptic does.
func keplerianToCartesian(a, e, i, raan, argp, M, mu float64) (pos, vel [3]float64, err error) {
	if e >= 1.0 {
		return pos, vel, errkind.New(errkind.ConvergenceFailure, "bodies.keplerianToCartesian", "only elliptical mean-element bodies are supported")
	}
	Mw := math.Mod(M, 2*math.Pi)
	if Mw > math.Pi {
		Mw -= 2 * math.Pi
	} else if Mw < -math.Pi {
		Mw += 2 * math.Pi
	}
	E := Mw
	for iter := 0; iter < 50; iter++ {
		f := E - e*math.Sin(E) - Mw
		fp := 1 - e*math.Cos(E)
		dE := -f / fp
		E += dE
		if math.Abs(dE) < 1e-14 {
			break
		}
	}
	cosE, sinE := math.Cos(E), math.Sin(E)
	r := a * (1 - e*cosE)
	nu := math.Atan2(math.Sqrt(1-e*e)*sinE, cosE-e)

	xPQW := r * math.Cos(nu)
	yPQW := r * math.Sin(nu)
	n := math.Sqrt(mu / (a * a * a))
	xdPQW := -a * n * sinE / (1 - e*cosE)
	ydPQW := a * n * math.Sqrt(1-e*e) * cosE / (1 - e*cosE)

	sinO, cosO := math.Sincos(raan)
	sinW, cosW := math.Sincos(argp)
	sinI, cosI := math.Sincos(i)

	r11 := cosO*cosW - sinO*sinW*cosI
	r12 := -cosO*sinW - sinO*cosW*cosI
	r21 := sinO*cosW + cosO*sinW*cosI
	r22 := -sinO*sinW + cosO*cosW*cosI
	r31 := sinW * sinI
	r32 := cosW * sinI

	pos = [3]float64{
		r11*xPQW + r12*yPQW,
		r21*xPQW + r22*yPQW,
		r31*xPQW + r32*yPQW,
	}
	vel = [3]float64{
		r11*xdPQW + r12*ydPQW,
		r21*xdPQW + r22*ydPQW,
		r31*xdPQW + r32*ydPQW,
	}
	return pos, vel, nil
}
