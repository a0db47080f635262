// Package lambert solves the two-position boundary-value problem: given a
// departure position, an arrival position, and a time of flight, find the
// departure and arrival velocities of the connecting conic. Implemented
// with the universal-variable z-iteration, grounded on the original
// source's solve_rr (not its solve_rv overloads, which propagate an
// initial-value problem forward in time rather than solving a two-point
// boundary-value problem).
package lambert

import (
	"math"

	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/units"
	"github.com/astrocore/astro/vector"
)

const (
	maxIterations = 1e4
	tolerance     = 1e-8
)

// stumpff evaluates the Stumpff functions C(z) and S(z), branching on the
// sign of z per the universal-variable formulation (elliptic for z>0,
// hyperbolic for z<0, parabolic at z=0).
func stumpff(z float64) (c, s float64) {
	switch {
	case z > 1e-6:
		sq := math.Sqrt(z)
		return (1 - math.Cos(sq)) / z, (sq - math.Sin(sq)) / (sq * sq * sq)
	case z < -1e-6:
		sq := math.Sqrt(-z)
		return (1 - math.Cosh(sq)) / z, (math.Sinh(sq) - sq) / (sq * sq * sq)
	default:
		return 0.5, 1.0 / 6.0
	}
}

// Solve finds the departure velocity v0 (at r0) and arrival velocity vf (at
// rf) of the conic that connects r0 to rf in time dt under gravitational
// parameter mu. prograde selects the short way around when the transfer
// angle is ambiguous (true anomaly increasing with the orbit's own angular
// momentum direction rather than the other way around the ellipse).
func Solve[F any](r0, rf vector.V[F], dt units.Duration, mu units.GravParam, prograde bool) (v0, vf vector.V[F], err error) {
	r0Mag, rfMag := r0.Norm(), rf.Norm()
	if r0Mag == 0 || rfMag == 0 {
		return v0, vf, errkind.New(errkind.ConversionSingularity, "lambert.Solve", "zero-length position vector")
	}

	cosDTheta := r0.Dot(rf) / (r0Mag * rfMag)
	if cosDTheta > 1 {
		cosDTheta = 1
	} else if cosDTheta < -1 {
		cosDTheta = -1
	}
	dtheta := math.Acos(cosDTheta)

	crossZ := r0.Array()[0]*rf.Array()[1] - r0.Array()[1]*rf.Array()[0]
	if crossZ >= 0 {
		if !prograde {
			dtheta = 2*math.Pi - dtheta
		}
	} else {
		if prograde {
			dtheta = 2*math.Pi - dtheta
		}
	}

	sqrtMu := math.Sqrt(mu.Km3S2())
	A := math.Sin(dtheta) * math.Sqrt(r0Mag*rfMag/(1-cosDTheta))
	if A == 0 {
		return v0, vf, errkind.New(errkind.ConversionSingularity, "lambert.Solve", "transfer angle makes the geometry parameter singular")
	}

	tSec := dt.Seconds()

	z := 0.0
	var y float64
	converged := false
	for it := 0; it < maxIterations; it++ {
		c, s := stumpff(z)
		if c == 0 {
			return v0, vf, errkind.New(errkind.ConvergenceFailure, "lambert.Solve", "Stumpff C(z) vanished during iteration")
		}
		y = r0Mag + rfMag + A*(z*s-1)/math.Sqrt(c)

		F := math.Pow(y/c, 1.5)*s + A*math.Sqrt(y) - sqrtMu*tSec

		var dF float64
		if math.Abs(z) < 1e-6 {
			dF = math.Sqrt2/40*math.Pow(y, 1.5) + A/8*(math.Sqrt(y)+A*math.Sqrt(1/(2*y)))
		} else {
			dF = math.Pow(y/c, 1.5)*(1/(2*z)*(c-3*s/(2*c))+3*s*s/(4*c)) + A/8*(3*s/c*math.Sqrt(y)+A*math.Sqrt(c/y))
		}
		if dF == 0 {
			return v0, vf, errkind.New(errkind.ConvergenceFailure, "lambert.Solve", "zero derivative during universal-variable iteration")
		}

		zn := z - F/dF
		var relErr float64
		if z != 0 {
			relErr = math.Abs((zn - z) / z)
		} else {
			relErr = math.Abs(zn - z)
		}
		z = zn
		if relErr < tolerance {
			converged = true
			break
		}
	}
	if !converged {
		return v0, vf, errkind.New(errkind.ConvergenceFailure, "lambert.Solve", "universal-variable iteration did not converge")
	}

	c, s := stumpff(z)
	y = r0Mag + rfMag + A*(z*s-1)/math.Sqrt(c)

	f := 1 - y/r0Mag
	g := A * math.Sqrt(y) / sqrtMu
	gdot := 1 - y/rfMag
	if g == 0 {
		return v0, vf, errkind.New(errkind.ConversionSingularity, "lambert.Solve", "degenerate transfer (g=0)")
	}
	invG := 1 / g

	v0 = rf.Sub(r0.Scale(f)).Scale(invG)
	vf = rf.Scale(gdot).Sub(r0).Scale(invG)
	return v0, vf, nil
}
