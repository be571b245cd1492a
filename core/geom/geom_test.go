package geom

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestRotationAxisAngle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.geom")
	defer teardown()
	//
	r := NewRotation(ZAxis, math.Pi/2)
	v := r.Apply(XAxis)
	assert.True(t, Equal(v, YAxis), "expected X to rotate to Y, is %s", VString(v))
	assert.InDelta(t, math.Pi/2, r.Angle(), 1e-9)
	assert.True(t, Equal(ZAxis, r.Axis()))
	assert.True(t, r.Multiply(r.Inverse()).IsIdentity())
	var zero Rotation
	assert.True(t, Equal(zero.Apply(XAxis), XAxis))
}

func TestRotationFromBasis(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.geom")
	defer teardown()
	//
	u, v, w := YAxis, Neg(XAxis), ZAxis
	r := RotationFromBasis(u, v, w)
	assert.True(t, Equal(r.Apply(XAxis), u))
	assert.True(t, Equal(r.Apply(YAxis), v))
	assert.True(t, Equal(r.Apply(ZAxis), w))
	// a basis with trace < 0
	u, v, w = Neg(XAxis), Neg(YAxis), ZAxis
	r = RotationFromBasis(u, v, w)
	assert.True(t, Equal(r.Apply(XAxis), u))
	assert.True(t, Equal(r.Apply(YAxis), v))
	ab := RotationBetween(XAxis, Neg(XAxis))
	assert.True(t, Equal(ab.Apply(XAxis), Neg(XAxis)))
}

func TestPlacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.geom")
	defer teardown()
	//
	pl := NewPlacement(V(10, 0, 0), NewRotation(ZAxis, math.Pi/2))
	p := pl.Apply(V(1, 0, 0))
	assert.True(t, Equal(p, V(10, 1, 0)), "is %s", VString(p))
	assert.True(t, Equal(pl.ApplyInverse(p), V(1, 0, 0)))
	assert.True(t, pl.Multiply(pl.Inverse()).IsIdentity())
	m := pl.Matrix()
	assert.True(t, Equal(m.Apply(V(1, 0, 0)), p))
}

func TestMatrices(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.geom")
	defer teardown()
	//
	m := MirrorMatrix(V(5, 0, 0), XAxis)
	assert.True(t, Equal(m.Apply(V(0, 3, 0)), V(10, 3, 0)))
	assert.InDelta(t, -1.0, m.Determinant(), 1e-12)
	s := ScaleMatrix(V(2, 2, 2), V(1, 1, 0))
	f, uniform := s.UniformScale()
	assert.True(t, uniform)
	assert.InDelta(t, 2.0, f, 1e-12)
	assert.True(t, Equal(s.Apply(V(2, 1, 0)), V(3, 1, 0)))
	_, uniform = ScaleMatrix(V(2, 1, 1), Origin).UniformScale()
	assert.False(t, uniform)
	c := s.Multiply(m)
	assert.True(t, Equal(c.Apply(V(0, 3, 0)), s.Apply(m.Apply(V(0, 3, 0)))))
}

func TestVectorHelpers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.geom")
	defer teardown()
	//
	assert.InDelta(t, -math.Pi/2, SignedAngle(YAxis, XAxis, ZAxis), 1e-12)
	assert.True(t, Collinear(V(0, 0, 0), V(1, 1, 0), V(3, 3, 0)))
	q, tt := ClosestOnSegment(V(5, 5, 0), V(0, 0, 0), V(10, 0, 0))
	assert.True(t, Equal(q, V(5, 0, 0)))
	assert.InDelta(t, 0.5, tt, 1e-12)
	bb := NewBoundBox(V(0, 0, 0), V(2, -1, 3))
	assert.True(t, bb.Contains(V(1, 0, 1), 0))
	assert.InDelta(t, math.Sqrt(14), bb.DiagonalLength(), 1e-12)
	assert.True(t, Equal(Perpendicular(ZAxis), XAxis))
	u, v := PlaneBasis(Neg(YAxis))
	assert.True(t, Equal(u, XAxis), "u = %s", VString(u))
	assert.True(t, Equal(v, ZAxis), "v = %s", VString(v))
}
