package elements

import (
	"math"

	"github.com/astrocore/astro/units"
)

// CartesianToKeplerian converts a Cartesian state (km, km/s) to classical
// Keplerian elements, following goeph's elements.FromStateVector: build
// the eccentricity vector, clamp it below eccentricityFloor to exactly
// circular, fall back to the node vector for equatorial orbits, and use
// the r.v sign / orbit-normal sign for quadrant tie-breaks.
func CartesianToKeplerian(posKm, velKmPerSec [3]float64, muKm3s2 float64) Keplerian {
	r := norm(posKm)
	v := norm(velKmPerSec)

	hVec := cross(posKm, velKmPerSec)
	h := norm(hVec)

	rdv := dot(posKm, velKmPerSec)
	factor := v*v - muKm3s2/r
	eVec := [3]float64{
		(factor*posKm[0] - rdv*velKmPerSec[0]) / muKm3s2,
		(factor*posKm[1] - rdv*velKmPerSec[1]) / muKm3s2,
		(factor*posKm[2] - rdv*velKmPerSec[2]) / muKm3s2,
	}
	e := norm(eVec)
	degenerate := false
	if e < eccentricityFloor {
		e = 0
		eVec = [3]float64{0, 0, 0}
		degenerate = true
	}

	nVec := [3]float64{-hVec[1], hVec[0], 0}
	n := norm(nVec)

	p := 0.0
	if h != 0 {
		p = h * h / muKm3s2
	}

	var a float64
	e2 := e * e
	if math.Abs(e-1.0) < eccentricityFloor {
		a = math.Inf(1)
	} else if h != 0 {
		a = p / (1.0 - e2)
	}

	incCos := 1.0
	if h != 0 {
		incCos = hVec[2] / h
	}
	inc := math.Acos(clamp(incCos, -1, 1))
	if math.Abs(inc) < eccentricityFloor || math.Abs(inc-math.Pi) < eccentricityFloor {
		degenerate = true
	}

	var omega float64
	if n > eccentricityFloor {
		omega = math.Atan2(nVec[1], nVec[0])
		if omega < 0 {
			omega += 2 * math.Pi
		}
	} else {
		degenerate = true
	}

	nu := trueAnomalyFromState(eVec, e, nVec, n, posKm, velKmPerSec, r, rdv)
	w := argPeriapsisFromState(eVec, e, nVec, n, posKm, velKmPerSec)

	return Keplerian{
		A:          units.LengthFromKm(a),
		E:          e,
		I:          units.AngleFromRadians(inc),
		RAAN:       units.AngleFromRadians(wrap2Pi(omega)),
		ArgP:       units.AngleFromRadians(wrap2Pi(w)),
		TrueAnom:   units.AngleFromRadians(wrap2Pi(nu)),
		Degenerate: degenerate,
	}
}

func trueAnomalyFromState(eVec [3]float64, e float64, nVec [3]float64, n float64, pos, vel [3]float64, r, rdv float64) float64 {
	if e > eccentricityFloor {
		nu := angleBetween(eVec, pos)
		if rdv < 0 {
			nu = 2*math.Pi - nu
		}
		return nu
	}
	if n < eccentricityFloor {
		nu := math.Acos(clamp(pos[0]/r, -1, 1))
		if vel[0] > 0 {
			nu = 2*math.Pi - nu
		}
		return nu
	}
	nu := angleBetween(nVec, pos)
	if pos[2] < 0 {
		nu = 2*math.Pi - nu
	}
	return nu
}

func argPeriapsisFromState(eVec [3]float64, e float64, nVec [3]float64, n float64, pos, vel [3]float64) float64 {
	if e < eccentricityFloor {
		return 0
	}
	if n > eccentricityFloor {
		w := angleBetween(nVec, eVec)
		if eVec[2] < 0 {
			w = 2*math.Pi - w
		}
		return w
	}
	w := math.Atan2(eVec[1], eVec[0])
	if w < 0 {
		w += 2 * math.Pi
	}
	crossRV := cross(pos, vel)
	if crossRV[2] < 0 {
		w = 2*math.Pi - w
	}
	return w
}

// KeplerianToCartesian converts Keplerian elements to a Cartesian state
// (km, km/s), via the perifocal rotation through argp, i, raan, the
// inverse of goeph's kepler.Orbit rotation construction.
func KeplerianToCartesian(k Keplerian, muKm3s2 float64) (pos, vel [3]float64) {
	a := k.A.Km()
	e := k.E
	i := k.I.Radians()
	raan := k.RAAN.Radians()
	argp := k.ArgP.Radians()
	nu := k.TrueAnom.Radians()

	p := a * (1 - e*e)
	if e >= 1.0-eccentricityFloor {
		// Hyperbolic: take |a(1-e^2)| so the semi-latus rectum is
		// positive whichever sign convention a was given with.
		p = math.Abs(a * (1 - e*e))
	}

	cosNu, sinNu := math.Cos(nu), math.Sin(nu)
	r := p / (1 + e*cosNu)
	xPQW := r * cosNu
	yPQW := r * sinNu

	h := math.Sqrt(muKm3s2 * p)
	xdPQW := -muKm3s2 / h * sinNu
	ydPQW := muKm3s2 / h * (e + cosNu)

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
	return pos, vel
}

// KeplerianToEquinoctial converts per the algebraic definitions
// f = e*cos(argp+raan), g = e*sin(argp+raan), h = tan(i/2)*cos(raan),
// k = tan(i/2)*sin(raan), L = raan+argp+nu. Inclination is clamped away
// from pi by eccentricityFloor since tan(i/2) is singular there.
func KeplerianToEquinoctial(k Keplerian) Equinoctial {
	i := k.I.Radians()
	if math.Pi-i < eccentricityFloor {
		i = math.Pi - eccentricityFloor
	}
	raan := k.RAAN.Radians()
	argp := k.ArgP.Radians()
	nu := k.TrueAnom.Radians()

	omegaPlusW := argp + raan
	tanHalfI := math.Tan(i / 2)

	return Equinoctial{
		P: units.LengthFromKm(k.A.Km() * (1 - k.E*k.E)),
		F: k.E * math.Cos(omegaPlusW),
		G: k.E * math.Sin(omegaPlusW),
		H: tanHalfI * math.Cos(raan),
		K: tanHalfI * math.Sin(raan),
		L: units.AngleFromRadians(wrap2Pi(raan + argp + nu)),
	}
}

// EquinoctialToKeplerian inverts KeplerianToEquinoctial.
func EquinoctialToKeplerian(e Equinoctial) Keplerian {
	ecc := math.Hypot(e.F, e.G)
	raan := math.Atan2(e.K, e.H)
	if math.Hypot(e.H, e.K) < eccentricityFloor {
		raan = 0
	}
	argpPlusOmega := math.Atan2(e.G, e.F)
	argp := argpPlusOmega - raan
	tanHalfI := math.Hypot(e.H, e.K)
	i := 2 * math.Atan(tanHalfI)
	nu := e.L.Radians() - raan - argp

	var a float64
	if ecc < 1.0-eccentricityFloor {
		a = e.P.Km() / (1 - ecc*ecc)
	} else {
		a = math.Inf(1)
	}

	return Keplerian{
		A:        units.LengthFromKm(a),
		E:        ecc,
		I:        units.AngleFromRadians(i),
		RAAN:     units.AngleFromRadians(wrap2Pi(raan)),
		ArgP:     units.AngleFromRadians(wrap2Pi(argp)),
		TrueAnom: units.AngleFromRadians(wrap2Pi(nu)),
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}

func angleBetween(a, b [3]float64) float64 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return math.Acos(clamp(dot(a, b)/(na*nb), -1, 1))
}
