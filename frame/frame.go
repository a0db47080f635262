// Package frame implements reference frames and direction-cosine-matrix
// (DCM) transformations between them. The rotation construction follows
// goeph's coord package (frames.go's fixed rotation matrices, altaz.go's
// chained Rz/Ry composition), generalized from goeph's plain [3][3]float64
// to gonum/mat.Dense so composition and transpose are library operations
// rather than hand-unrolled index loops.
package frame

import (
	"math"

	"github.com/astrocore/astro/astrotime"
	"github.com/astrocore/astro/errkind"
	"github.com/astrocore/astro/vector"
	"gonum.org/v1/gonum/mat"
)

// Axis identifies the kind of axes a Frame uses.
type Axis int

const (
	// ICRFInertial axes are aligned with the International Celestial
	// Reference Frame, centered on an origin body.
	ICRFInertial Axis = iota
	// J2000Inertial axes are treated as identical to ICRFInertial at this
	// core's accuracy level.
	J2000Inertial
	// BodyFixed axes rotate with the origin body (ECEF for Earth).
	BodyFixed
	// Dynamic axes are derived from a platform's instantaneous position
	// and velocity: RTN, RIC, LVLH, or VNB.
	Dynamic
)

func (a Axis) String() string {
	switch a {
	case ICRFInertial:
		return "icrf"
	case J2000Inertial:
		return "j2000"
	case BodyFixed:
		return "body-fixed"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// DynamicKind names one of the four specified dynamic-frame instances.
type DynamicKind int

const (
	// RTN: radial, along-track, orbit-normal.
	RTN DynamicKind = iota
	// RIC: radial, in-track, cross-track.
	RIC
	// LVLH: local vertical, local horizontal.
	LVLH
	// VNB: velocity, normal, bi-normal.
	VNB
)

// DCM is a direction cosine matrix, backed by a 3x3 gonum matrix.
type DCM struct {
	m *mat.Dense
}

// Identity returns the 3x3 identity DCM.
func Identity() DCM {
	return DCM{m: mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})}
}

// NewDCM builds a DCM from row-major elements.
func NewDCM(rows [3][3]float64) DCM {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, rows[i][j])
		}
	}
	return DCM{m: d}
}

// RotationZ returns the DCM that rotates by angle theta (radians) about
// the Z axis: R_z(theta) = [cosθ sinθ 0; -sinθ cosθ 0; 0 0 1], the same
// convention goeph's Altaz uses for its Earth-rotation step.
func RotationZ(theta float64) DCM {
	s, c := math.Sincos(theta)
	return NewDCM([3][3]float64{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	})
}

// RotationY returns the DCM that rotates by angle theta (radians) about
// the Y axis.
func RotationY(theta float64) DCM {
	s, c := math.Sincos(theta)
	return NewDCM([3][3]float64{
		{c, 0, -s},
		{0, 1, 0},
		{s, 0, c},
	})
}

// RotationX returns the DCM that rotates by angle theta (radians) about
// the X axis.
func RotationX(theta float64) DCM {
	s, c := math.Sincos(theta)
	return NewDCM([3][3]float64{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	})
}

// Mul returns d * other (apply other's rotation first, then d's).
func (d DCM) Mul(other DCM) DCM {
	var out mat.Dense
	out.Mul(d.m, other.m)
	return DCM{m: &out}
}

// T returns the transpose of d, which for an orthonormal DCM is also its
// inverse.
func (d DCM) T() DCM {
	var out mat.Dense
	out.CloneFrom(d.m.T())
	return DCM{m: &out}
}

// Rows returns the DCM's elements in row-major form.
func (d DCM) Rows() [3][3]float64 {
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = d.m.At(i, j)
		}
	}
	return r
}

// Apply rotates the plain-array vector v by d: out = d * v.
func (d DCM) Apply(v [3]float64) [3]float64 {
	in := mat.NewVecDense(3, v[:])
	var out mat.VecDense
	out.MulVec(d.m, in)
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// IsOrthonormal reports whether d * d^T is the identity within tol,
// satisfying the core's DCM orthonormality invariant.
func (d DCM) IsOrthonormal(tol float64) bool {
	prod := d.Mul(d.T())
	id := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(prod.m.At(i, j)-id.m.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}

// RotateVector rotates a tagged vector v (in frame A) by d, producing a
// vector tagged with frame B. Frame tags are supplied as type parameters
// by the caller, since the DCM itself carries no frame identity.
func RotateVector[A, B any](d DCM, v vector.V[A]) vector.V[B] {
	return vector.FromArray[B](d.Apply(v.Array()))
}

// ECIToECEF returns the DCM rotating Earth-centered-inertial (ICRF/J2000)
// vectors into Earth-centered-Earth-fixed vectors at date, via GMST about
// the Z axis. Precession and nutation are out of scope per the frame
// contract; this is the acknowledged multi-km accuracy limit for Earth.
func ECIToECEF(date astrotime.Date) DCM {
	return RotationZ(date.GMST().Radians())
}

// ECEFToECI is the inverse of ECIToECEF.
func ECEFToECI(date astrotime.Date) DCM {
	return ECIToECEF(date).T()
}

// DynamicDCM builds the DCM rotating from an inertial frame into the
// dynamic frame of the given kind, given position r and velocity v
// expressed in that inertial frame (both as plain arrays). Degenerate
// geometry (zero r, zero v, or r parallel to v) raises
// errkind.ConversionSingularity.
func DynamicDCM(kind DynamicKind, r, v [3]float64) (DCM, error) {
	rv := vector.FromArray[struct{}](r)
	vv := vector.FromArray[struct{}](v)

	rn := rv.Norm()
	if rn == 0 {
		return DCM{}, errkind.New(errkind.ConversionSingularity, "frame.DynamicDCM", "zero position vector")
	}
	rhat := rv.Unit()

	h := rv.Cross(vv)
	hn := h.Norm()
	if hn == 0 {
		return DCM{}, errkind.New(errkind.ConversionSingularity, "frame.DynamicDCM", "position and velocity are parallel; orbit-normal undefined")
	}
	hhat := h.Unit()

	var xAxis, yAxis, zAxis vector.V[struct{}]
	switch kind {
	case RTN:
		xAxis = rhat
		zAxis = hhat
		yAxis = zAxis.Cross(xAxis)
	case RIC:
		xAxis = rhat
		zAxis = hhat
		// In-track: velocity direction projected orthogonal to radial.
		vProj := vv.Sub(rhat.Scale(vv.Dot(rhat)))
		if vProj.Norm() == 0 {
			return DCM{}, errkind.New(errkind.ConversionSingularity, "frame.DynamicDCM", "velocity has no in-track component")
		}
		yAxis = vProj.Unit()
	case LVLH:
		zAxis = rhat.Neg()
		xAxis = hhat.Neg().Cross(zAxis)
		yAxis = hhat.Neg()
	case VNB:
		vn := vv.Norm()
		if vn == 0 {
			return DCM{}, errkind.New(errkind.ConversionSingularity, "frame.DynamicDCM", "zero velocity vector")
		}
		xAxis = vv.Unit()
		zAxis = hhat
		yAxis = zAxis.Cross(xAxis)
	default:
		return DCM{}, errkind.New(errkind.ConversionSingularity, "frame.DynamicDCM", "unknown dynamic frame kind")
	}

	rows := [3][3]float64{xAxis.Array(), yAxis.Array(), zAxis.Array()}
	return NewDCM(rows), nil
}

// Compose returns the DCM that rotates directly from frame A's reference
// inertial frame into frame B, given each frame's DCM to its own
// reference inertial frame: dcmB * dcmA^T, per the frame package's
// second transformation-algebra rule (shared origin, differing axis).
func Compose(dcmA, dcmB DCM) DCM {
	return dcmB.Mul(dcmA.T())
}
