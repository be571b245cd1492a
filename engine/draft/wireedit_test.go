package draft

import (
	"math"
	"testing"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func pointsOf(obj *document.Object) []geom.Vector {
	return *obj.Proxy.(PointList).PointsRef()
}

func assertPoints(t *testing.T, want, got []geom.Vector) {
	t.Helper()
	if !assert.Equal(t, len(want), len(got), "number of points") {
		return
	}
	for i := range want {
		assert.True(t, geom.Equal(want[i], got[i]), "point %d: want %s, have %s",
			i, geom.VString(want[i]), geom.VString(got[i]))
	}
}

func TestMoveVertexAndEdge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	sq := square(t, doc, 10, false)
	assert.NoError(t, MoveVertex(sq, 2, geom.V(1, 1, 0)))
	assert.True(t, geom.Equal(pointsOf(sq)[2], geom.V(11, 11, 0)))
	assert.NoError(t, MoveEdge(sq, 3, geom.V(-1, 0, 0)))
	pts := pointsOf(sq)
	assert.True(t, geom.Equal(pts[3], geom.V(-1, 10, 0)))
	assert.True(t, geom.Equal(pts[0], geom.V(-1, 0, 0)), "closing edge ends at point 0")
	assert.True(t, geom.Equal(sq.Proxy.(*Wire).Start, geom.V(-1, 0, 0)))
	assert.Equal(t, core.EINVALID, core.Code(MoveEdge(sq, 4, geom.XAxis)))
	//
	rect, _ := MakeRectangle(doc, 1, 1)
	assert.Equal(t, core.EPRECONDITION, core.Code(MoveVertex(rect, 0, geom.XAxis)))
}

func TestRotateAndScaleVertex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	sq := square(t, doc, 10, false)
	assert.NoError(t, RotateVertex(sq, 1, geom.Origin, geom.ZAxis, math.Pi/2))
	assert.True(t, geom.Equal(pointsOf(sq)[1], geom.V(0, 10, 0)))
	assert.NoError(t, ScaleEdge(sq, 1, geom.Origin, geom.V(2, 2, 1)))
	pts := pointsOf(sq)
	assert.True(t, geom.Equal(pts[1], geom.V(0, 20, 0)))
	assert.True(t, geom.Equal(pts[2], geom.V(20, 20, 0)))
	assert.NoError(t, ScaleVertex(sq, 3, geom.V(0, 10, 0), geom.V(1, 0, 1)))
	assert.True(t, geom.Equal(pointsOf(sq)[3], geom.V(0, 10, 0)))
}

func TestCopyEdges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	sq := square(t, doc, 10, false)
	n := doc.Len()
	lines, err := CopyMovedEdges(sq, []int{0, 2}, geom.V(0, 0, 5))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, n+2, doc.Len())
	assert.True(t, geom.Equal(lines[0].Shape.Edges()[0].Start(), geom.V(0, 0, 5)))
	rotated, err := CopyRotatedEdges(sq, []int{0}, geom.Origin, geom.ZAxis, math.Pi)
	assert.NoError(t, err)
	assert.True(t, geom.Equal(rotated[0].Shape.Edges()[0].End(), geom.V(-10, 0, 0)))
	scaled, err := CopyScaledEdges(sq, []int{1}, geom.Origin, geom.V(0.5, 0.5, 1))
	assert.NoError(t, err)
	assert.InDelta(t, 5, scaled[0].Shape.Length(), eps)
}

func TestJoinWires(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	a, _ := MakeLine(doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	b, _ := MakeLine(doc, geom.V(0, 1, 0), geom.V(1, 0, 0))
	c, _ := MakeLine(doc, geom.V(0, 1, 0), geom.V(0, 0, 0))
	far, _ := MakeLine(doc, geom.V(5, 5, 0), geom.V(6, 5, 0))
	ok, err := JoinTwoWires(a, far)
	assert.NoError(t, err)
	assert.False(t, ok)
	ok, err = JoinWires([]*document.Object{a, b, c})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, doc.Get(b.Handle()))
	assert.Nil(t, doc.Get(c.Handle()))
	w := a.Proxy.(*Wire)
	assert.True(t, w.Closed)
	assert.Equal(t, 3, len(w.Points))
	assert.InDelta(t, 2+math.Sqrt2, w.Length, eps)
}

func TestSplitWires(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	w, _ := MakeWire(doc, []geom.Vector{geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0)}, false)
	second, err := SplitOpenWire(w, geom.V(5, 0, 0), 0)
	if err != nil {
		t.Fatal(err)
	}
	assertPoints(t, []geom.Vector{geom.V(0, 0, 0), geom.V(5, 0, 0)}, pointsOf(w))
	assert.Equal(t, 3, len(pointsOf(second)))
	assert.InDelta(t, 15, second.Proxy.(*Wire).Length, eps)
	//
	sq := square(t, doc, 10, false)
	assert.NoError(t, SplitClosedWire(sq, 1))
	assert.False(t, sq.Proxy.(*Wire).Closed)
	assertPoints(t, []geom.Vector{
		geom.V(10, 10, 0), geom.V(0, 10, 0), geom.V(0, 0, 0), geom.V(10, 0, 0),
	}, pointsOf(sq))
	assert.InDelta(t, 30, sq.Proxy.(*Wire).Length, eps)
	assert.Equal(t, core.EPRECONDITION, core.Code(SplitClosedWire(sq, 0)))
}
