package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector is a point or direction in 3D space.
type Vector = r3.Vec

// Some pre-defined vectors.
var (
	Origin = Vector{}
	XAxis  = Vector{X: 1}
	YAxis  = Vector{Y: 1}
	ZAxis  = Vector{Z: 1}
)

// V is a shortcut for creating a vector.
func V(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Add returns a+b.
func Add(a, b Vector) Vector { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vector) Vector { return r3.Sub(a, b) }

// Scale returns f·v.
func Scale(f float64, v Vector) Vector { return r3.Scale(f, v) }

// Neg returns -v.
func Neg(v Vector) Vector { return r3.Scale(-1, v) }

// Dot returns the scalar product.
func Dot(a, b Vector) float64 { return r3.Dot(a, b) }

// Cross returns the vector product a×b.
func Cross(a, b Vector) Vector { return r3.Cross(a, b) }

// Length returns the euclidean length of v.
func Length(v Vector) float64 { return r3.Norm(v) }

// Dist returns the distance between two points.
func Dist(a, b Vector) float64 { return r3.Norm(r3.Sub(a, b)) }

// Mid returns the mid point between two points.
func Mid(a, b Vector) Vector { return r3.Scale(0.5, r3.Add(a, b)) }

// Lerp interpolates linearly between a (t=0) and b (t=1).
func Lerp(a, b Vector, t float64) Vector {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// MulComponents multiplies two vectors component-wise.
func MulComponents(a, b Vector) Vector {
	return Vector{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// Normalize returns v scaled to unit length. A null vector is returned
// unchanged.
func Normalize(v Vector) Vector {
	if r3.Norm(v) == 0 {
		return v
	}
	return r3.Unit(v)
}

// IsNull checks if v is shorter than Epsilon.
func IsNull(v Vector) bool {
	return r3.Norm(v) < Epsilon()
}

// Equal checks if two vectors are equal within Epsilon.
func Equal(a, b Vector) bool {
	return r3.Norm(r3.Sub(a, b)) < Epsilon()
}

// Coincident checks if two points are closer than Tolerance.
func Coincident(a, b Vector) bool {
	return r3.Norm(r3.Sub(a, b)) < Tolerance()
}

// Angle returns the unsigned angle between two vectors in [0, π].
func Angle(a, b Vector) float64 {
	la, lb := r3.Norm(a), r3.Norm(b)
	if la == 0 || lb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// SignedAngle returns the angle from a to b, measured counter-clockwise
// around normal n, in (-π, π].
func SignedAngle(a, b, n Vector) float64 {
	ang := Angle(a, b)
	if r3.Dot(r3.Cross(a, b), n) < 0 {
		return -ang
	}
	return ang
}

// IsParallel checks if two directions are parallel or anti-parallel.
func IsParallel(a, b Vector) bool {
	return r3.Norm(r3.Cross(Normalize(a), Normalize(b))) < Epsilon()
}

// Project returns the projection of v onto direction dir.
func Project(v, dir Vector) Vector {
	l2 := r3.Dot(dir, dir)
	if l2 == 0 {
		return Vector{}
	}
	return r3.Scale(r3.Dot(v, dir)/l2, dir)
}

// ProjectOnPlane projects point p along the plane normal onto the plane
// through base with normal n.
func ProjectOnPlane(p, base, n Vector) Vector {
	n = Normalize(n)
	return r3.Sub(p, r3.Scale(r3.Dot(r3.Sub(p, base), n), n))
}

// Perpendicular returns a unit vector perpendicular to v. The result is
// deterministic and always lies in the world XY plane.
func Perpendicular(v Vector) Vector {
	u, _ := PlaneBasis(v)
	return u
}

// PlaneBasis returns unit vectors u, v spanning the plane with normal
// axis, with u×v = axis. u is chosen in the world XY plane; for an axis
// parallel to Z, u is the X axis.
func PlaneBasis(axis Vector) (u, v Vector) {
	axis = Normalize(axis)
	if r3.Norm(r3.Cross(axis, ZAxis)) > Epsilon() {
		u = r3.Unit(r3.Cross(ZAxis, axis))
	} else {
		u = XAxis
	}
	v = Normalize(r3.Cross(axis, u))
	return u, v
}

// Rotate rotates v by angle around axis through the origin.
func Rotate(v Vector, angle float64, axis Vector) Vector {
	return NewRotation(axis, angle).Apply(v)
}

// RotateAround rotates point p by angle around an axis through center.
func RotateAround(p Vector, angle float64, axis, center Vector) Vector {
	return r3.Add(center, Rotate(r3.Sub(p, center), angle, axis))
}

// ClosestOnLine returns the point on the infinite line through a with
// direction dir closest to p.
func ClosestOnLine(p, a, dir Vector) Vector {
	return r3.Add(a, Project(r3.Sub(p, a), dir))
}

// ClosestOnSegment returns the point on segment a–b closest to p, and the
// segment parameter in [0,1].
func ClosestOnSegment(p, a, b Vector) (Vector, float64) {
	ab := r3.Sub(b, a)
	l2 := r3.Dot(ab, ab)
	if l2 == 0 {
		return a, 0
	}
	t := r3.Dot(r3.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return r3.Add(a, r3.Scale(t, ab)), t
}

// DistanceToLine returns the distance of p to the infinite line through a
// with direction dir.
func DistanceToLine(p, a, dir Vector) float64 {
	return Dist(p, ClosestOnLine(p, a, dir))
}

// Collinear checks if three points lie on a common line.
func Collinear(a, b, c Vector) bool {
	return r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) < Epsilon()*math.Max(1, Dist(a, c))
}

// Round rounds the components of v to a number of decimals.
func Round(v Vector, decimals int) Vector {
	f := math.Pow(10, float64(decimals))
	r := func(x float64) float64 {
		x = math.Round(x*f) / f
		if x == 0 {
			return 0
		}
		return x
	}
	return Vector{X: r(v.X), Y: r(v.Y), Z: r(v.Z)}
}

// VString formats a vector for tracing.
func VString(v Vector) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}
