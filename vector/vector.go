// Package vector implements frame-tagged 3-vectors. The arithmetic core
// (dot, cross, norm, scale) is adapted from goeph's coord package
// (dot3/length3/scale3/sub3/add3 over plain [3]float64), generalized here
// with a zero-sized frame-tag type parameter so the compiler rejects
// arithmetic between vectors expressed in different frames at the call
// site, instead of goeph's untyped [3]float64 which allows any mixing.
package vector

import "math"

// V is a 3-vector tagged with a frame type F. F carries no data; it exists
// purely so the Go type system distinguishes, say, V[ICRF] from V[ECEF].
// Frame conversion is the job of the frame package, never of V itself.
type V[F any] struct {
	X, Y, Z float64
}

// New constructs a tagged vector from components.
func New[F any](x, y, z float64) V[F] {
	return V[F]{X: x, Y: y, Z: z}
}

// Zero returns the zero vector in frame F.
func Zero[F any]() V[F] { return V[F]{} }

// Add returns v + other.
func (v V[F]) Add(other V[F]) V[F] {
	return V[F]{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v V[F]) Sub(other V[F]) V[F] {
	return V[F]{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v V[F]) Scale(s float64) V[F] {
	return V[F]{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v V[F]) Neg() V[F] { return v.Scale(-1) }

// Dot returns the scalar (inner) product of v and other.
func (v V[F]) Dot(other V[F]) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the vector (cross) product v x other.
func (v V[F]) Cross(other V[F]) V[F] {
	return V[F]{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Norm returns the Euclidean length of v.
func (v V[F]) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// NormSquared returns the squared Euclidean length of v, avoiding the
// sqrt when only a comparison is needed.
func (v V[F]) NormSquared() float64 {
	return v.Dot(v)
}

// Unit returns v normalized to unit length. The zero vector maps to
// itself rather than producing NaN components, matching goeph's
// defensive handling in length3-based normalizations.
func (v V[F]) Unit() V[F] {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Angle returns the unsigned angle between v and other, in radians.
func (v V[F]) Angle(other V[F]) float64 {
	n1, n2 := v.Norm(), other.Norm()
	if n1 == 0 || n2 == 0 {
		return 0
	}
	cosTheta := v.Dot(other) / (n1 * n2)
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}
	return math.Acos(cosTheta)
}

// Array returns the vector's components as a plain array, for interop
// with gonum's mat package.
func (v V[F]) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// FromArray constructs a tagged vector from a plain array.
func FromArray[F any](a [3]float64) V[F] {
	return V[F]{X: a[0], Y: a[1], Z: a[2]}
}
