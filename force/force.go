// Package force implements the perturbation force models a Cowell-type
// equation of motion sums. Oblateness evaluates the full normalized
// spherical-harmonic geopotential to degree N, order M via a
// hand-rolled normalized associated-Legendre recurrence (no package in
// the example pack, including gonum, carries an associated-Legendre or
// spherical-harmonic-gravity routine, so this is stdlib math rather
// than a displaced library call); the solar radiation pressure umbra
// test is grounded in goeph's coord.IsSunlit line-sphere intersection.
package force

import (
	"math"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/bodies"
	"github.com/astrocore/astro/frame"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

// Tag is the zero-sized inertial-frame tag every Force operates in; the
// core treats "the force model's inertial frame" as a single frame
// throughout a propagation.
type Tag struct{}

// Vehicle is the minimal read surface a Force needs from the propagated
// vehicle: mass and reference areas/coefficients.
type Vehicle interface {
	MassKg() float64
	RamAreaM2() float64
	DragCoefficient() float64
	LiftAreaM2() float64
	LiftCoefficient() float64
	SolarAreaM2() float64
	ReflectivityCoefficient() float64
}

// Force computes a perturbing acceleration in the inertial frame.
type Force interface {
	ComputeAcceleration(jdTDB float64, pos, vel vector.V[Tag], veh Vehicle, sys *bodies.System) (vector.V[Tag], error)
}

// Model is an ordered container of Force instances.
type Model struct {
	forces []Force
}

// NewModel constructs an empty force model.
func NewModel() *Model { return &Model{} }

// Add appends a Force to the model, preserving evaluation order.
func (m *Model) Add(f Force) *Model {
	m.forces = append(m.forces, f)
	return m
}

// ComputeTotal sums every Force's contribution.
func (m *Model) ComputeTotal(jdTDB float64, pos, vel vector.V[Tag], veh Vehicle, sys *bodies.System) (vector.V[Tag], error) {
	total := vector.Zero[Tag]()
	for _, f := range m.forces {
		a, err := f.ComputeAcceleration(jdTDB, pos, vel, veh, sys)
		if err != nil {
			return vector.V[Tag]{}, err
		}
		total = total.Add(a)
	}
	return total, nil
}

// Oblateness computes the spherical-harmonic gravity perturbation beyond
// the central-body point-mass term, from a normalized coefficient table
// (Cnm, Snm) to degree N, order M. RotationRateRadPerSec on the body
// drives the body-fixed longitude used by tesseral (m>0) terms; the
// core carries no dedicated prime-meridian epoch, so the body-fixed
// frame is taken to coincide with the inertial frame at J2000 and spin
// uniformly from there.
type Oblateness struct {
	BodyID          bodies.ID
	Degree          int
	Order           int
	Cnm, Snm        [][]float64 // indexed [n][m], normalized, n in [0,Degree], m in [0,n]
	EquatorRadiusKm float64
}

// gravGradientStepKm is the central-difference step used to differentiate
// the geopotential. Small enough to resolve tesseral structure at LEO
// altitudes, large enough to avoid float64 cancellation noise.
const gravGradientStepKm = 1e-3

// ComputeAcceleration evaluates the oblateness perturbation as the
// negative gradient of the geopotential disturbing function, built from
// a normalized associated-Legendre recurrence over the full (Cnm, Snm)
// table. The gradient is taken numerically (central differences in the
// body-fixed frame) rather than from a closed-form partial-derivative
// identity, then rotated back to the inertial frame.
func (o *Oblateness) ComputeAcceleration(jdTDB float64, pos, vel vector.V[Tag], veh Vehicle, sys *bodies.System) (vector.V[Tag], error) {
	body, err := sys.GetBody(o.BodyID)
	if err != nil {
		return vector.V[Tag]{}, err
	}
	mu := body.Mu.Km3S2()
	r := pos.Norm()
	if r == 0 || o.Degree < 2 {
		return vector.Zero[Tag](), nil
	}
	re := o.EquatorRadiusKm
	if re == 0 {
		re = body.EquatorialRadiusKm
	}

	theta := bodyFixedAngle(jdTDB, body)
	toBodyFixed := frame.RotationZ(theta)
	posBF := toBodyFixed.Apply([3]float64{pos.X, pos.Y, pos.Z})

	h := gravGradientStepKm
	dUdx := (geopotential(posBF[0]+h, posBF[1], posBF[2], mu, re, o.Degree, o.Order, o.Cnm, o.Snm) -
		geopotential(posBF[0]-h, posBF[1], posBF[2], mu, re, o.Degree, o.Order, o.Cnm, o.Snm)) / (2 * h)
	dUdy := (geopotential(posBF[0], posBF[1]+h, posBF[2], mu, re, o.Degree, o.Order, o.Cnm, o.Snm) -
		geopotential(posBF[0], posBF[1]-h, posBF[2], mu, re, o.Degree, o.Order, o.Cnm, o.Snm)) / (2 * h)
	dUdz := (geopotential(posBF[0], posBF[1], posBF[2]+h, mu, re, o.Degree, o.Order, o.Cnm, o.Snm) -
		geopotential(posBF[0], posBF[1], posBF[2]-h, mu, re, o.Degree, o.Order, o.Cnm, o.Snm)) / (2 * h)

	// acceleration = grad(U); U here is the disturbing potential, and
	// force = +grad(U) follows the same sign convention as the
	// central-body term (acceleration = -grad(-mu/r)).
	accelBF := [3]float64{dUdx, dUdy, dUdz}
	accelInertial := toBodyFixed.T().Apply(accelBF)

	return vector.New[Tag](accelInertial[0], accelInertial[1], accelInertial[2]), nil
}

// bodyFixedAngle returns the rotation angle from the inertial frame to
// the body-fixed frame at jdTDB, under the simplifying assumption that
// the two frames coincide at J2000 and the body spins at a constant
// rate thereafter.
func bodyFixedAngle(jdTDB float64, body *bodies.CelestialBody) float64 {
	elapsedSec := (jdTDB - astrotime.J2000JD) * astrotime.SecPerDay
	return body.RotationRateRadPerSec * elapsedSec
}

// geopotential evaluates the disturbing (non-central) part of the
// spherical-harmonic gravitational potential at the body-fixed point
// (x, y, z):
//
//	U = (mu/r) * sum_{n=2}^{N} sum_{m=0}^{min(n,M)} (Re/r)^n *
//	    Pbar_nm(sin(phi)) * (Cnm*cos(m*lambda) + Snm*sin(m*lambda))
//
// phi is body-fixed latitude, lambda body-fixed longitude.
func geopotential(x, y, z, mu, re float64, degree, order int, cnm, snm [][]float64) float64 {
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return 0
	}
	u := z / r // sin(phi)
	cosPhi := math.Sqrt(math.Max(0, 1-u*u))
	lambda := math.Atan2(y, x)

	pbar := normalizedLegendre(u, cosPhi, degree, order)

	var sum float64
	rRatio := re / r
	rPow := rRatio * rRatio // (Re/r)^2, seeded for n=2
	for n := 2; n <= degree; n++ {
		mMax := order
		if n < mMax {
			mMax = n
		}
		var inner float64
		for m := 0; m <= mMax; m++ {
			var c, s float64
			if n < len(cnm) && m < len(cnm[n]) {
				c = cnm[n][m]
			}
			if snm != nil && n < len(snm) && m < len(snm[n]) {
				s = snm[n][m]
			}
			if c == 0 && s == 0 {
				continue
			}
			inner += pbar[n][m] * (c*math.Cos(float64(m)*lambda) + s*math.Sin(float64(m)*lambda))
		}
		sum += rPow * inner
		rPow *= rRatio
	}
	return (mu / r) * sum
}

// normalizedLegendre evaluates the 4-pi fully-normalized associated
// Legendre functions Pbar_nm(u) for all 0<=m<=min(n,order), 0<=n<=degree,
// via the standard forward-column recurrence (e.g. Montenbruck & Gill,
// "Satellite Orbits", sec. 3.2.4). u = sin(latitude), cosPhi = cos(latitude).
func normalizedLegendre(u, cosPhi float64, degree, order int) [][]float64 {
	p := make([][]float64, degree+1)
	for n := range p {
		p[n] = make([]float64, degree+2)
	}
	p[0][0] = 1
	maxM := order
	if degree < maxM {
		maxM = degree
	}
	for m := 0; m <= maxM; m++ {
		if m > 0 {
			p[m][m] = cosPhi * math.Sqrt(float64(2*m+1)/float64(2*m)) * p[m-1][m-1]
		}
		if m+1 <= degree {
			p[m+1][m] = u * math.Sqrt(float64(2*m+3)) * p[m][m]
		}
		for n := m + 2; n <= degree; n++ {
			a := math.Sqrt(float64((2*n-1)*(2*n+1)) / float64((n-m)*(n+m)))
			b := math.Sqrt(float64((2*n+1)*(n+m-1)*(n-m-1)) / float64((2*n-3)*(n-m)*(n+m)))
			p[n][m] = a*u*p[n-1][m] - b*p[n-2][m]
		}
	}
	return p
}

// Atmospheric computes drag and lift from a body's exponential atmosphere
// table: v_rel = v - omega_body x r, drag = -1/2 Cd (A/m) rho |v_rel| v_rel.
type Atmospheric struct {
	BodyID bodies.ID
}

func (a *Atmospheric) ComputeAcceleration(jdTDB float64, pos, vel vector.V[Tag], veh Vehicle, sys *bodies.System) (vector.V[Tag], error) {
	body, err := sys.GetBody(a.BodyID)
	if err != nil {
		return vector.V[Tag]{}, err
	}
	r := pos.Norm()
	altitude := r - body.EquatorialRadiusKm
	rho := body.AtmosphericDensity(altitude) // kg/m^3
	if rho == 0 {
		return vector.Zero[Tag](), nil
	}

	omega := vector.New[Tag](0, 0, body.RotationRateRadPerSec)
	vRel := vel.Sub(omega.Cross(pos))
	vRelMag := vRel.Norm()
	if vRelMag == 0 {
		return vector.Zero[Tag](), nil
	}

	massKg := veh.MassKg()
	if massKg == 0 {
		return vector.Zero[Tag](), nil
	}

	// Drag: convert km/s to m/s for a consistent SI force balance, then
	// back to km/s^2 for the acceleration's native unit.
	vRelMs := vRelMag * 1000.0
	vRelVecMs := vRel.Scale(1000.0)
	dragScalar := -0.5 * veh.DragCoefficient() * (veh.RamAreaM2() / massKg) * rho * vRelMs
	dragAccelMs2 := vRelVecMs.Scale(dragScalar)
	dragAccelKmS2 := dragAccelMs2.Scale(1.0 / 1000.0)

	// Lift: along the radial direction, proportional to the full
	// relative speed squared.
	radialUnit := pos.Unit()
	liftCoeff := 0.5 * veh.LiftCoefficient() * (veh.LiftAreaM2() / massKg) * rho * vRelMs * vRelMs
	liftAccelKmS2 := radialUnit.Scale(liftCoeff / 1e6)

	return dragAccelKmS2.Add(liftAccelKmS2), nil
}

// SolarRadiationPressure computes an anti-Sun acceleration scaled by the
// lit fraction, using a cylindrical umbra/penumbra test grounded in
// goeph's coord.IsSunlit line-sphere intersection.
type SolarRadiationPressure struct {
	SunID          bodies.ID
	OccultingID    bodies.ID
	SolarPressureAt1AU units.Acceleration // base pressure-derived acceleration scale at 1 AU
}

func (s *SolarRadiationPressure) ComputeAcceleration(jdTDB float64, pos, vel vector.V[Tag], veh Vehicle, sys *bodies.System) (vector.V[Tag], error) {
	sunRel, err := sys.GetRelativePosition(jdTDB, s.OccultingID, s.SunID)
	if err != nil {
		return vector.V[Tag]{}, err
	}
	sunVec := vector.New[Tag](sunRel.X, sunRel.Y, sunRel.Z)
	toSun := sunVec.Sub(pos)
	distKm := toSun.Norm()
	if distKm == 0 {
		return vector.Zero[Tag](), nil
	}

	// A body cannot occult its own light: when the occulting body and the
	// sun coincide there is no umbra to test for.
	lit := 1.0
	if s.OccultingID != s.SunID {
		occulting, err := sys.GetBody(s.OccultingID)
		if err != nil {
			return vector.V[Tag]{}, err
		}
		lit = litFraction(pos, toSun, occulting.EquatorialRadiusKm)
	}
	if lit == 0 {
		return vector.Zero[Tag](), nil
	}

	distAU := distKm / units.AUToKm
	pressureScale := s.SolarPressureAt1AU.KmPerSec2() / (distAU * distAU)

	massKg := veh.MassKg()
	if massKg == 0 {
		return vector.Zero[Tag](), nil
	}
	magnitude := lit * pressureScale * veh.ReflectivityCoefficient() * veh.SolarAreaM2() / massKg

	antiSun := toSun.Unit().Neg()
	return antiSun.Scale(magnitude), nil
}

// litFraction returns 1.0 if the vehicle at pos has line of sight to the
// sun direction toSun (unobstructed by a sphere of the given radius
// centered at the origin), 0.0 if fully occulted. Penumbra gradation is
// not modeled; the boundary is a binary cylindrical shadow test per
// Vallado's simplified construction.
func litFraction(pos, toSun vector.V[Tag], occultingRadiusKm float64) float64 {
	if occultingRadiusKm <= 0 {
		return 1.0
	}
	sunDist := toSun.Norm()
	if sunDist == 0 {
		return 1.0
	}
	dir := toSun.Unit()
	// Earth center relative to the vehicle is -pos.
	center := pos.Neg()
	b := 2 * dir.Dot(center)
	c := center.Dot(center) - occultingRadiusKm*occultingRadiusKm
	disc := b*b - 4*c
	if disc < 0 {
		return 1.0
	}
	sq := math.Sqrt(disc)
	near := (b - sq) / 2
	far := (b + sq) / 2
	if far < 0 || near > sunDist {
		return 1.0
	}
	return 0.0
}

// NBody computes the classic third-body perturbation with indirect term
// for every registered non-central body.
type NBody struct {
	CentralID bodies.ID
	Exclude   map[bodies.ID]bool
}

func (nb *NBody) ComputeAcceleration(jdTDB float64, pos, vel vector.V[Tag], veh Vehicle, sys *bodies.System) (vector.V[Tag], error) {
	total := vector.Zero[Tag]()
	for _, b := range sys.Bodies() {
		if b.ID == nb.CentralID || (nb.Exclude != nil && nb.Exclude[b.ID]) {
			continue
		}
		rel, err := sys.GetRelativePosition(jdTDB, nb.CentralID, b.ID)
		if err != nil {
			continue
		}
		rCbToB := vector.New[Tag](rel.X, rel.Y, rel.Z)
		rScToB := rCbToB.Sub(pos)

		dScToB := rScToB.Norm()
		dCbToB := rCbToB.Norm()
		if dScToB == 0 || dCbToB == 0 {
			continue
		}

		mu := b.Mu.Km3S2()
		term := rScToB.Scale(1 / (dScToB * dScToB * dScToB)).Sub(rCbToB.Scale(1 / (dCbToB * dCbToB * dCbToB)))
		total = total.Add(term.Scale(mu))
	}
	return total, nil
}
