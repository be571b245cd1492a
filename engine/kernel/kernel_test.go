package kernel

import (
	"math"
	"testing"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func square(t *testing.T, x, y, size float64) *Wire {
	w, err := MakePolygon([]geom.Vector{
		geom.V(x, y, 0), geom.V(x+size, y, 0), geom.V(x+size, y+size, 0), geom.V(x, y+size, 0),
	}, true)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestLineAndPolygon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	l, err := MakeLine(geom.V(0, 0, 0), geom.V(3, 4, 0))
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, l.Length(), 1e-9)
	assert.True(t, geom.Equal(l.Mid(), geom.V(1.5, 2, 0)))
	_, err = MakeLine(geom.V(1, 1, 1), geom.V(1, 1, 1))
	assert.Equal(t, core.EGEOMETRY, core.Code(err))
	//
	w := square(t, 0, 0, 10)
	assert.True(t, w.IsClosed())
	assert.Len(t, w.Edges(), 4)
	assert.InDelta(t, 40.0, w.Length(), 1e-9)
	f, err := MakeFace(w)
	assert.NoError(t, err)
	assert.InDelta(t, 100.0, f.Area(), 1e-9)
	assert.True(t, geom.Equal(f.Normal(), geom.ZAxis), "normal is %s", geom.VString(f.Normal()))
	assert.True(t, geom.Equal(f.Centroid(), geom.V(5, 5, 0)))
	s := f.Shape()
	assert.Equal(t, FaceShape, s.Type())
	assert.Len(t, s.Edges(), 4)
	assert.Len(t, s.Vertexes(), 4)
	assert.True(t, s.IsPlanar())
}

func TestFaceWithHole(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	f, err := MakeFace(square(t, 2, 2, 6), square(t, 0, 0, 10))
	assert.NoError(t, err)
	assert.Len(t, f.Holes(), 1)
	assert.InDelta(t, 64.0, f.Area(), 1e-9)
	_, err = MakeFace(&Wire{edges: square(t, 0, 0, 10).Edges()[:3]})
	assert.Error(t, err)
}

func TestCircleAndArc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	c, err := MakeCircle(geom.Origin, geom.ZAxis, 5)
	assert.NoError(t, err)
	assert.True(t, c.IsClosed())
	assert.InDelta(t, 10*math.Pi, c.Length(), 1e-9)
	arc, err := MakeArc(geom.Origin, geom.ZAxis, geom.XAxis, 5, 0, math.Pi/2)
	assert.NoError(t, err)
	assert.InDelta(t, 5*math.Pi/2, arc.Length(), 1e-9)
	assert.True(t, geom.Equal(arc.Start(), geom.V(5, 0, 0)))
	assert.True(t, geom.Equal(arc.End(), geom.V(0, 5, 0)))
	a3, err := MakeArc3Points(geom.V(5, 0, 0), geom.V(0, 5, 0), geom.V(-5, 0, 0))
	assert.NoError(t, err)
	cc, ok := a3.Circle()
	assert.True(t, ok)
	assert.True(t, geom.Equal(cc.Center, geom.Origin))
	assert.InDelta(t, 5*math.Pi, a3.Length(), 1e-9)
	_, err = MakeArc3Points(geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(2, 0, 0))
	assert.Error(t, err)
}

func TestHalfDiscArea(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	arc, _ := MakeArc(geom.Origin, geom.ZAxis, geom.XAxis, 5, 0, math.Pi)
	line, _ := MakeLine(geom.V(-5, 0, 0), geom.V(5, 0, 0))
	w, err := MakeWire([]*Edge{arc, line})
	assert.NoError(t, err)
	assert.True(t, w.IsClosed())
	f, err := MakeFace(w)
	assert.NoError(t, err)
	assert.InDelta(t, 25*math.Pi/2, f.Area(), 1e-3)
}

func TestSplineInterpolatesNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	nodes := []geom.Vector{geom.V(0, 0, 0), geom.V(3, 4, 0), geom.V(7, 1, 0), geom.V(10, 5, 0)}
	for _, a := range []float64{0, 0.5, 1} {
		e, err := MakeBSpline(nodes, a, false)
		assert.NoError(t, err)
		sp := e.Curve().(*BSpline)
		for i, n := range nodes {
			p := sp.Value(sp.Knots[i])
			assert.True(t, geom.Equal(p, n), "a=%g: node %d is %s", a, i, geom.VString(p))
		}
		assert.True(t, geom.Equal(e.Start(), nodes[0]))
		assert.True(t, geom.Equal(e.End(), nodes[3]))
	}
	closed, err := MakeBSpline(nodes, 0.5, true)
	assert.NoError(t, err)
	assert.True(t, closed.IsClosed())
	_, err = MakeBSpline(append(nodes, nodes[0]), 0.5, true)
	assert.Error(t, err, "closed spline must not repeat its first node")
}

func TestBezier(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	poles := []geom.Vector{geom.V(0, 0, 0), geom.V(5, 10, 0), geom.V(10, 0, 0)}
	e, err := MakeBezier(poles, 2)
	assert.NoError(t, err)
	assert.True(t, geom.Equal(e.Start(), poles[0]))
	assert.True(t, geom.Equal(e.End(), poles[2]))
	assert.True(t, geom.Equal(e.Mid(), geom.V(5, 5, 0)), "mid is %s", geom.VString(e.Mid()))
	_, err = MakeBezier(append(poles, geom.V(12, 0, 0)), 2)
	assert.Error(t, err)
}

func TestFilletAndChamfer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	pts := []geom.Vector{geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0), geom.V(0, 10, 0)}
	edges, err := FilletPolyline(pts, true, 1)
	assert.NoError(t, err)
	assert.Len(t, edges, 8)
	w, err := MakeWire(edges)
	assert.NoError(t, err)
	assert.True(t, w.IsClosed())
	assert.InDelta(t, 32+2*math.Pi, w.Length(), 1e-6)
	//
	edges, err = ChamferPolyline(pts, true, math.Sqrt2)
	assert.NoError(t, err)
	assert.Len(t, edges, 8)
	w, _ = MakeWire(edges)
	assert.InDelta(t, 32+4*math.Sqrt2, w.Length(), 1e-6)
	// collinear corners stay sharp
	edges, err = FilletPolyline([]geom.Vector{geom.V(0, 0, 0), geom.V(5, 0, 0), geom.V(10, 0, 0)}, false, 1)
	assert.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestEdgeHelpers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	l, _ := MakeLine(geom.V(0, 0, 0), geom.V(10, 0, 0))
	pts := l.Discretize(3)
	assert.Len(t, pts, 3)
	assert.True(t, geom.Equal(pts[1], geom.V(5, 0, 0)))
	r := l.Reversed()
	assert.True(t, geom.Equal(r.Start(), geom.V(10, 0, 0)))
	assert.True(t, r.IsSame(l))
	assert.InDelta(t, 2.0, l.DistanceTo(geom.V(4, 2, 0)), 1e-6)
	tr := l.Trimmed(0.2, 0.5)
	assert.InDelta(t, 3.0, tr.Length(), 1e-9)
}

func TestExtrudePrism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	f, _ := MakeFace(square(t, 0, 0, 10))
	solid, err := Extrude(f.Shape(), geom.V(0, 0, 5))
	assert.NoError(t, err)
	assert.Equal(t, SolidShape, solid.Type())
	assert.Len(t, solid.Faces(), 6)
	assert.Len(t, solid.Edges(), 12)
	assert.InDelta(t, 500.0, solid.Volume(), 1e-9)
	assert.InDelta(t, 400.0, solid.Area(), 1e-9)
	bb := solid.BoundBox()
	assert.True(t, geom.Equal(bb.Size(), geom.V(10, 10, 5)))
	moved := solid.Translated(geom.V(1, 2, 3))
	assert.True(t, geom.Equal(moved.BoundBox().Center(), geom.V(6, 7, 5.5)))
	_, err = Extrude(f.Shape(), geom.V(1, 0, 0))
	assert.Error(t, err)
}

func TestShellAndSolid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	f, _ := MakeFace(square(t, 0, 0, 10))
	box, _ := Extrude(f.Shape(), geom.V(0, 0, 10))
	shell, err := MakeShell(box.Faces())
	assert.NoError(t, err)
	assert.True(t, shell.IsClosed())
	solid, err := MakeSolid(shell)
	assert.NoError(t, err)
	assert.InDelta(t, 1000.0, solid.Volume(), 1e-6)
	open, _ := MakeShell(box.Faces()[:5])
	assert.False(t, open.IsClosed())
	_, err = MakeSolid(open)
	assert.Error(t, err)
}
