package sketch

import (
	"math"
	"testing"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(s *Sketch, w, h float64) {
	s.AddGeometry(
		Line(arithm.P(0, 0), arithm.P(w, 0)),
		Line(arithm.P(w, 0), arithm.P(w, h)),
		Line(arithm.P(w, h), arithm.P(0, h)),
		Line(arithm.P(0, h), arithm.P(0, 0)),
	)
}

func TestSketchShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.sketch")
	defer teardown()
	//
	doc := document.New("test")
	obj, err := Make(doc, "", geom.Translation(geom.V(0, 0, 5)))
	require.NoError(t, err)
	sk := obj.Proxy.(*Sketch)
	box(sk, 4, 2)
	sk.AddGeometry(Circle(arithm.P(10, 0), 1))
	require.NoError(t, doc.RecomputeObject(obj.Handle()))
	assert.Equal(t, kernel.CompoundShape, obj.Shape.Type())
	assert.Equal(t, 2, len(obj.Shape.Wires()))
	assert.Equal(t, 5, len(obj.Shape.Edges()))
	assert.InDelta(t, 12+2*math.Pi, obj.Shape.Length(), 1e-6)
	bb := obj.Shape.BoundBox()
	assert.InDelta(t, 5, bb.Min.Z, 1e-9)
	assert.InDelta(t, 5, bb.Max.Z, 1e-9)
}

func TestConstructionGeometryHasNoEdges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.sketch")
	defer teardown()
	//
	doc := document.New("test")
	obj, err := Make(doc, "", geom.IdentityPlacement())
	require.NoError(t, err)
	sk := obj.Proxy.(*Sketch)
	g := Line(arithm.P(0, 0), arithm.P(1, 1))
	g.Construction = true
	sk.AddGeometry(g, Line(arithm.P(0, 0), arithm.P(3, 0)))
	require.NoError(t, doc.RecomputeObject(obj.Handle()))
	assert.Equal(t, 1, len(obj.Shape.Edges()))
	assert.InDelta(t, 3, obj.Shape.Length(), 1e-9)
}

func TestConstraints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.sketch")
	defer teardown()
	//
	sk := &Sketch{}
	box(sk, 4, 2)
	c := sk.AddGeometry(Circle(arithm.P(10, 0), 1.5), Arc(arithm.P(0, 10), 1.5, 0, math.Pi/2))
	for i := 0; i < 4; i++ {
		_, err := sk.AddConstraint(NewCoincident(i, End, (i+1)%4, Start))
		require.NoError(t, err)
	}
	_, err := sk.AddConstraint(NewCoincident(0, Start, 9, Start))
	assert.Error(t, err)
	assert.True(t, sk.IsSatisfied(NewHorizontal(0)))
	assert.False(t, sk.IsSatisfied(NewVertical(0)))
	assert.True(t, sk.IsSatisfied(NewVertical(1)))
	assert.True(t, sk.IsSatisfied(NewEqual(0, 2)))
	assert.False(t, sk.IsSatisfied(NewEqual(0, 1)))
	assert.True(t, sk.IsSatisfied(NewRadius(c, 1.5)))
	assert.True(t, sk.IsSatisfied(NewEqual(c, c+1)))
	for _, con := range sk.Constraints {
		assert.True(t, sk.IsSatisfied(con), con.String())
	}
}

func TestInternalAlignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.sketch")
	defer teardown()
	//
	sk := &Sketch{}
	poles := []arithm.Pair{arithm.P(0, 0), arithm.P(1, 2), arithm.P(3, 2), arithm.P(4, 0)}
	sp := sk.AddGeometry(Spline(poles, 3, false))
	for i, p := range poles {
		g := Point(p)
		g.Construction = true
		pt := sk.AddGeometry(g)
		_, err := sk.AddConstraint(NewInternalAlignment(pt, sp, i))
		require.NoError(t, err)
	}
	for _, c := range sk.Constraints {
		assert.True(t, sk.IsSatisfied(c))
	}
	e, err := sk.Geometry[sp].Edge()
	require.NoError(t, err)
	assert.True(t, geom.Equal(geom.V(4, 0, 0), e.End()))
}

func TestMovePoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.sketch")
	defer teardown()
	//
	sk := &Sketch{}
	box(sk, 4, 2)
	arc := sk.AddGeometry(Arc(arithm.P(0, 0), 2, 0, math.Pi/2))
	assert.NoError(t, sk.MovePoint(1, Start, arithm.P(5, 0)))
	assert.NoError(t, sk.MovePoint(0, End, arithm.P(5, 0)))
	assert.True(t, sk.IsSatisfied(NewCoincident(0, End, 1, Start)))
	assert.NoError(t, sk.MovePoint(arc, End, arithm.P(-3, 0)))
	assert.InDelta(t, math.Pi, sk.Geometry[arc].Last, 1e-9)
	assert.Error(t, sk.MovePoint(arc+1, Start, arithm.P(0, 0)))
	assert.Error(t, sk.MovePoint(0, Mid, arithm.P(0, 0)))
	// vertices: 4 lines with 2 ends each, the arc with both ends and center
	assert.Equal(t, 11, len(sk.Vertices()))
}

func TestGlobalLocal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.sketch")
	defer teardown()
	//
	doc := document.New("test")
	pl := geom.NewPlacement(geom.V(1, 2, 3), geom.NewRotation(geom.XAxis, math.Pi/2))
	obj, err := Make(doc, "", pl)
	require.NoError(t, err)
	v := Global(obj, arithm.P(1, 1))
	assert.True(t, geom.Equal(geom.V(2, 2, 4), v), geom.VString(v))
	p := Local(obj, v).C()
	assert.InDelta(t, 1, real(p), 1e-9)
	assert.InDelta(t, 1, imag(p), 1e-9)
}
