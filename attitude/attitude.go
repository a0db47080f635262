// Package attitude implements unit-quaternion attitude representation,
// supplementing spec.md's force models (SRP boresight, atmospheric lift)
// and PayloadPlatform's boresight bookkeeping with the angular-element
// type the original distillation's source carries
// (original_source/astrea/astro/astro/state/angular_elements/Quaternion.cpp)
// but spec.md's distilled Data Model omits. The scalar-first/vector-part
// split, norm/unit, and componentwise arithmetic below follow that file's
// Quaternion class; DCM conversion and SLERP are supplemented from the
// standard attitude-kinematics formulas since the original file only goes
// as far as interpolation of raw components.
package attitude

import (
	"math"

	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/frame"
	"github.com/astrocore/astro/vector"
)

// Quaternion is a scalar-first unit quaternion: q0 + q1*i + q2*j + q3*k.
type Quaternion struct {
	Q0, Q1, Q2, Q3 float64
}

// Identity returns the no-rotation quaternion.
func Identity() Quaternion {
	return Quaternion{Q0: 1}
}

// New constructs a Quaternion from its four components, scalar first.
func New(q0, q1, q2, q3 float64) Quaternion {
	return Quaternion{Q0: q0, Q1: q1, Q2: q2, Q3: q3}
}

// FromAxisAngle builds the quaternion representing a rotation of angle
// (radians) about the given axis. A zero-length axis returns Identity.
func FromAxisAngle[F any](axis vector.V[F], angle float64) Quaternion {
	u := axis.Unit()
	if u.NormSquared() == 0 {
		return Identity()
	}
	half := angle / 2
	s, c := math.Sincos(half)
	return Quaternion{Q0: c, Q1: u.X * s, Q2: u.Y * s, Q3: u.Z * s}
}

// Norm returns the quaternion's Euclidean norm, following
// Quaternion::norm (sqrt(q0^2 + |qVec|^2)).
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.Q0*q.Q0 + q.Q1*q.Q1 + q.Q2*q.Q2 + q.Q3*q.Q3)
}

// Unit returns q normalized to unit length, following Quaternion::unit.
// The zero quaternion maps to Identity rather than producing NaN
// components, matching vector.V's zero-vector convention for Unit.
func (q Quaternion) Unit() Quaternion {
	n := q.Norm()
	if n == 0 {
		return Identity()
	}
	return Quaternion{Q0: q.Q0 / n, Q1: q.Q1 / n, Q2: q.Q2 / n, Q3: q.Q3 / n}
}

// Add returns q + other, following Quaternion::operator+.
func (q Quaternion) Add(other Quaternion) Quaternion {
	return Quaternion{q.Q0 + other.Q0, q.Q1 + other.Q1, q.Q2 + other.Q2, q.Q3 + other.Q3}
}

// Sub returns q - other, following Quaternion::operator-.
func (q Quaternion) Sub(other Quaternion) Quaternion {
	return Quaternion{q.Q0 - other.Q0, q.Q1 - other.Q1, q.Q2 - other.Q2, q.Q3 - other.Q3}
}

// Scale returns q * s, following Quaternion::operator*(Unitless).
func (q Quaternion) Scale(s float64) Quaternion {
	return Quaternion{q.Q0 * s, q.Q1 * s, q.Q2 * s, q.Q3 * s}
}

// Conjugate returns q's conjugate (negated vector part).
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.Q0, -q.Q1, -q.Q2, -q.Q3}
}

// Mul returns the Hamilton product q * other, composing rotations so
// that applying the result to a vector is equivalent to applying other
// first, then q.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		Q0: q.Q0*other.Q0 - q.Q1*other.Q1 - q.Q2*other.Q2 - q.Q3*other.Q3,
		Q1: q.Q0*other.Q1 + q.Q1*other.Q0 + q.Q2*other.Q3 - q.Q3*other.Q2,
		Q2: q.Q0*other.Q2 - q.Q1*other.Q3 + q.Q2*other.Q0 + q.Q3*other.Q1,
		Q3: q.Q0*other.Q3 + q.Q1*other.Q2 - q.Q2*other.Q1 + q.Q3*other.Q0,
	}
}

// ToVector returns the quaternion's four components, scalar first,
// following Quaternion::to_vector.
func (q Quaternion) ToVector() [4]float64 {
	return [4]float64{q.Q0, q.Q1, q.Q2, q.Q3}
}

// ToDCM returns the direction-cosine matrix representing the same
// rotation as the unit form of q.
func (q Quaternion) ToDCM() frame.DCM {
	u := q.Unit()
	q0, q1, q2, q3 := u.Q0, u.Q1, u.Q2, u.Q3
	return frame.NewDCM([3][3]float64{
		{1 - 2*(q2*q2+q3*q3), 2 * (q1*q2 - q0*q3), 2 * (q1*q3 + q0*q2)},
		{2 * (q1*q2 + q0*q3), 1 - 2*(q1*q1+q3*q3), 2 * (q2*q3 - q0*q1)},
		{2 * (q1*q3 - q0*q2), 2 * (q2*q3 + q0*q1), 1 - 2*(q1*q1+q2*q2)},
	})
}

// FromDCM recovers a unit quaternion representing the rotation encoded
// by d, via Shepperd's method (largest-diagonal-term branch selection to
// avoid the sqrt-of-a-small-or-negative-number instability near the
// trace's sign changes).
func FromDCM(d frame.DCM) Quaternion {
	r := d.Rows()
	trace := r[0][0] + r[1][1] + r[2][2]

	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return Quaternion{
			Q0: 0.25 / s,
			Q1: (r[2][1] - r[1][2]) * s,
			Q2: (r[0][2] - r[2][0]) * s,
			Q3: (r[1][0] - r[0][1]) * s,
		}
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := 2 * math.Sqrt(1+r[0][0]-r[1][1]-r[2][2])
		return Quaternion{
			Q0: (r[2][1] - r[1][2]) / s,
			Q1: 0.25 * s,
			Q2: (r[0][1] + r[1][0]) / s,
			Q3: (r[0][2] + r[2][0]) / s,
		}
	case r[1][1] > r[2][2]:
		s := 2 * math.Sqrt(1+r[1][1]-r[0][0]-r[2][2])
		return Quaternion{
			Q0: (r[0][2] - r[2][0]) / s,
			Q1: (r[0][1] + r[1][0]) / s,
			Q2: 0.25 * s,
			Q3: (r[1][2] + r[2][1]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+r[2][2]-r[0][0]-r[1][1])
		return Quaternion{
			Q0: (r[1][0] - r[0][1]) / s,
			Q1: (r[0][2] + r[2][0]) / s,
			Q2: (r[1][2] + r[2][1]) / s,
			Q3: 0.25 * s,
		}
	}
}

// Rotate applies q's rotation to a tagged vector expressed in frame A,
// producing the vector expressed in frame B, via q * (0, v) * q^-1.
func Rotate[A, B any](q Quaternion, v vector.V[A]) vector.V[B] {
	return frame.RotateVector[A, B](q.ToDCM(), v)
}

// Slerp spherically interpolates between q and other at fraction t in
// [0, 1], following the standard shortest-arc construction: the dot
// product's sign is flipped when negative so the interpolation takes
// the short way around the 4-sphere, and a near-parallel pair falls back
// to linear interpolation (then renormalizes) to avoid the 0/sin(theta)
// singularity.
func Slerp(q, other Quaternion, t float64) Quaternion {
	a, b := q.Unit(), other.Unit()
	dot := a.Q0*b.Q0 + a.Q1*b.Q1 + a.Q2*b.Q2 + a.Q3*b.Q3
	if dot < 0 {
		b = b.Scale(-1)
		dot = -dot
	}
	if dot > 1-1e-9 {
		return a.Scale(1 - t).Add(b.Scale(t)).Unit()
	}
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return a.Scale(wa).Add(b.Scale(wb)).Unit()
}

// Interpolate linearly interpolates q's components toward other's by
// fraction t and renormalizes, following Quaternion::interpolate's
// componentwise construction (there, one-dimensional math::interpolate
// per component). Prefer Slerp for evenly-paced angular motion; this is
// kept as the componentwise analogue of the original's approach.
func Interpolate(q, other Quaternion, t float64) Quaternion {
	return q.Scale(1 - t).Add(other.Scale(t)).Unit()
}

// Boresight describes a payload's fixed pointing direction and mounting
// offset within its platform's body-fixed dynamic frame, per spec.md's
// PayloadPlatform definition ("each carrying a boresight direction and
// attachment offset expressed in the platform's body-fixed dynamic
// frame").
type Boresight[F any] struct {
	Direction vector.V[F]
	Offset    vector.V[F]
}

// NewBoresight validates direction as non-degenerate and returns a
// Boresight pointing along its unit vector.
func NewBoresight[F any](direction, offset vector.V[F]) (Boresight[F], error) {
	if direction.NormSquared() == 0 {
		return Boresight[F]{}, errkind.New(errkind.ConversionSingularity, "attitude.NewBoresight", "boresight direction must be non-zero")
	}
	return Boresight[F]{Direction: direction.Unit(), Offset: offset}, nil
}

// PointingAt rotates the boresight's direction and offset by q. Both
// results keep the boresight's own frame tag F; the caller interprets
// them in the frame q rotates into (typically the platform's parent
// inertial or dynamic frame).
func (b Boresight[F]) PointingAt(q Quaternion) (direction, offset vector.V[F]) {
	return Rotate[F, F](q, b.Direction), Rotate[F, F](q, b.Offset)
}
