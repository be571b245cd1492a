package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotation is a rotation in 3D space, represented as a unit quaternion.
// The zero value acts as the identity.
type Rotation struct {
	q quat.Number
}

// Identity is the rotation which leaves every vector unchanged.
func Identity() Rotation {
	return Rotation{q: quat.Number{Real: 1}}
}

// NewRotation creates a rotation by angle (radians) around axis.
// A null axis yields the identity.
func NewRotation(axis Vector, angle float64) Rotation {
	if r3.Norm(axis) == 0 {
		return Identity()
	}
	a := r3.Unit(axis)
	s, c := math.Sincos(angle / 2)
	return Rotation{q: quat.Number{Real: c, Imag: s * a.X, Jmag: s * a.Y, Kmag: s * a.Z}}
}

// RotationFromBasis creates the rotation taking the world axes X, Y, Z to
// the orthonormal basis (u, v, w).
func RotationFromBasis(u, v, w Vector) Rotation {
	m := [3][3]float64{
		{u.X, v.X, w.X},
		{u.Y, v.Y, w.Y},
		{u.Z, v.Z, w.Z},
	}
	var q quat.Number
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{Real: 0.25 * s,
			Imag: (m[2][1] - m[1][2]) / s,
			Jmag: (m[0][2] - m[2][0]) / s,
			Kmag: (m[1][0] - m[0][1]) / s}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := math.Sqrt(1+m[0][0]-m[1][1]-m[2][2]) * 2
		q = quat.Number{Real: (m[2][1] - m[1][2]) / s,
			Imag: 0.25 * s,
			Jmag: (m[0][1] + m[1][0]) / s,
			Kmag: (m[0][2] + m[2][0]) / s}
	case m[1][1] > m[2][2]:
		s := math.Sqrt(1+m[1][1]-m[0][0]-m[2][2]) * 2
		q = quat.Number{Real: (m[0][2] - m[2][0]) / s,
			Imag: (m[0][1] + m[1][0]) / s,
			Jmag: 0.25 * s,
			Kmag: (m[1][2] + m[2][1]) / s}
	default:
		s := math.Sqrt(1+m[2][2]-m[0][0]-m[1][1]) * 2
		q = quat.Number{Real: (m[1][0] - m[0][1]) / s,
			Imag: (m[0][2] + m[2][0]) / s,
			Jmag: (m[1][2] + m[2][1]) / s,
			Kmag: 0.25 * s}
	}
	return Rotation{q: normalizeQ(q)}
}

// RotationBetween returns the shortest rotation taking direction a to
// direction b.
func RotationBetween(a, b Vector) Rotation {
	a, b = Normalize(a), Normalize(b)
	axis := r3.Cross(a, b)
	if r3.Norm(axis) < Epsilon() {
		if r3.Dot(a, b) > 0 {
			return Identity()
		}
		return NewRotation(Perpendicular(a), math.Pi)
	}
	return NewRotation(axis, Angle(a, b))
}

func normalizeQ(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

func (r Rotation) quat() quat.Number {
	if r.q == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return r.q
}

// Apply rotates vector v.
func (r Rotation) Apply(v Vector) Vector {
	q := r.quat()
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	p = quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// Multiply returns the rotation r∘o, i.e. o is applied first.
func (r Rotation) Multiply(o Rotation) Rotation {
	return Rotation{q: normalizeQ(quat.Mul(r.quat(), o.quat()))}
}

// Inverse returns the inverse rotation.
func (r Rotation) Inverse() Rotation {
	return Rotation{q: quat.Conj(r.quat())}
}

// Angle returns the rotation angle in [0, π].
func (r Rotation) Angle() float64 {
	q := r.quat()
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return 2 * math.Acos(math.Min(1, q.Real))
}

// Axis returns the rotation axis. The identity reports the Z axis.
func (r Rotation) Axis() Vector {
	q := r.quat()
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	a := Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	if r3.Norm(a) < 1e-12 {
		return ZAxis
	}
	return r3.Unit(a)
}

// IsIdentity checks if r leaves vectors unchanged.
func (r Rotation) IsIdentity() bool {
	return r.Angle() < Epsilon()
}

// Equal checks if two rotations are equal within Epsilon.
func (r Rotation) Equal(o Rotation) bool {
	return r.Inverse().Multiply(o).IsIdentity()
}

// Basis returns the images of the world X, Y, Z axes.
func (r Rotation) Basis() (u, v, w Vector) {
	return r.Apply(XAxis), r.Apply(YAxis), r.Apply(ZAxis)
}

func (r Rotation) String() string {
	return fmt.Sprintf("Rotation(axis=%s, angle=%.4g°)", VString(r.Axis()), r.Angle()*180/math.Pi)
}

// --- Placement -------------------------------------------------------------

// Placement positions an object in space: a rotation followed by a
// translation to Base.
type Placement struct {
	Base     Vector
	Rotation Rotation
}

// NewPlacement creates a placement.
func NewPlacement(base Vector, rot Rotation) Placement {
	return Placement{Base: base, Rotation: rot}
}

// IdentityPlacement returns the placement at the origin without rotation.
func IdentityPlacement() Placement {
	return Placement{Rotation: Identity()}
}

// Translation returns a placement which only translates.
func Translation(v Vector) Placement {
	return Placement{Base: v, Rotation: Identity()}
}

// Apply maps a point from local to global coordinates.
func (pl Placement) Apply(p Vector) Vector {
	return r3.Add(pl.Rotation.Apply(p), pl.Base)
}

// ApplyDir maps a direction (ignoring the translation).
func (pl Placement) ApplyDir(d Vector) Vector {
	return pl.Rotation.Apply(d)
}

// ApplyInverse maps a point from global to local coordinates.
func (pl Placement) ApplyInverse(p Vector) Vector {
	return pl.Rotation.Inverse().Apply(r3.Sub(p, pl.Base))
}

// Multiply returns pl∘o, i.e. o is applied first.
func (pl Placement) Multiply(o Placement) Placement {
	return Placement{
		Base:     pl.Apply(o.Base),
		Rotation: pl.Rotation.Multiply(o.Rotation),
	}
}

// Inverse returns the inverse placement.
func (pl Placement) Inverse() Placement {
	inv := pl.Rotation.Inverse()
	return Placement{Base: inv.Apply(Neg(pl.Base)), Rotation: inv}
}

// IsIdentity checks if pl neither rotates nor translates.
func (pl Placement) IsIdentity() bool {
	return IsNull(pl.Base) && pl.Rotation.IsIdentity()
}

// Equal checks two placements for equality.
func (pl Placement) Equal(o Placement) bool {
	return Equal(pl.Base, o.Base) && pl.Rotation.Equal(o.Rotation)
}

// Matrix returns the placement as an affine matrix.
func (pl Placement) Matrix() Matrix {
	u, v, w := pl.Rotation.Basis()
	return Matrix{
		{u.X, v.X, w.X, pl.Base.X},
		{u.Y, v.Y, w.Y, pl.Base.Y},
		{u.Z, v.Z, w.Z, pl.Base.Z},
	}
}

func (pl Placement) String() string {
	return fmt.Sprintf("Placement[base=%s, %s]", VString(pl.Base), pl.Rotation)
}
