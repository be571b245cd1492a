package geom

import (
	"math"
)

// Matrix is an affine 3D transformation: a 3×3 linear part plus a
// translation column.
type Matrix [3][4]float64

// IdentityMatrix returns the identity transformation.
func IdentityMatrix() Matrix {
	return Matrix{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}
}

// ScaleMatrix scales by s (per axis) about center.
func ScaleMatrix(s Vector, center Vector) Matrix {
	return Matrix{
		{s.X, 0, 0, center.X * (1 - s.X)},
		{0, s.Y, 0, center.Y * (1 - s.Y)},
		{0, 0, s.Z, center.Z * (1 - s.Z)},
	}
}

// MirrorMatrix reflects at the plane through point with normal n.
func MirrorMatrix(point, n Vector) Matrix {
	n = Normalize(n)
	var m Matrix
	nn := [3]float64{n.X, n.Y, n.Z}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := 0.0
			if i == j {
				d = 1
			}
			m[i][j] = d - 2*nn[i]*nn[j]
		}
	}
	// translation: p' = M p + 2 (point·n) n
	k := 2 * Dot(point, n)
	m[0][3], m[1][3], m[2][3] = k*n.X, k*n.Y, k*n.Z
	return m
}

// Apply transforms a point.
func (m Matrix) Apply(p Vector) Vector {
	return Vector{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// ApplyDir transforms a direction (linear part only).
func (m Matrix) ApplyDir(d Vector) Vector {
	return Vector{
		X: m[0][0]*d.X + m[0][1]*d.Y + m[0][2]*d.Z,
		Y: m[1][0]*d.X + m[1][1]*d.Y + m[1][2]*d.Z,
		Z: m[2][0]*d.X + m[2][1]*d.Y + m[2][2]*d.Z,
	}
}

// Multiply returns m∘o, i.e. o is applied first.
func (m Matrix) Multiply(o Matrix) Matrix {
	var r Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			s := 0.0
			for k := 0; k < 3; k++ {
				s += m[i][k] * o[k][j]
			}
			if j == 3 {
				s += m[i][3]
			}
			r[i][j] = s
		}
	}
	return r
}

// Determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// UniformScale checks if the linear part is a rotation times a uniform
// scale factor (possibly mirrored). It returns the factor.
func (m Matrix) UniformScale() (float64, bool) {
	c := [3]Vector{
		{X: m[0][0], Y: m[1][0], Z: m[2][0]},
		{X: m[0][1], Y: m[1][1], Z: m[2][1]},
		{X: m[0][2], Y: m[1][2], Z: m[2][2]},
	}
	s := Length(c[0])
	eps := Epsilon() * math.Max(1, s)
	if math.Abs(Length(c[1])-s) > eps || math.Abs(Length(c[2])-s) > eps {
		return s, false
	}
	if math.Abs(Dot(c[0], c[1])) > eps || math.Abs(Dot(c[1], c[2])) > eps || math.Abs(Dot(c[0], c[2])) > eps {
		return s, false
	}
	return s, true
}
