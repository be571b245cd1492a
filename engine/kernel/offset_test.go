package kernel

import (
	"math"
	"testing"

	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestOffsetSquare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	w := square(t, 0, 0, 10) // counter-clockwise around Z
	out, err := OffsetWire(w, -1, geom.ZAxis, JoinMiter)
	assert.NoError(t, err)
	assert.True(t, out.IsClosed())
	assert.Len(t, out.Edges(), 4)
	f, err := MakeFace(out)
	assert.NoError(t, err)
	assert.InDelta(t, 144.0, f.Area(), 1e-6)
	in, err := OffsetWire(w, 1, geom.ZAxis, JoinMiter)
	assert.NoError(t, err)
	f, _ = MakeFace(in)
	assert.InDelta(t, 64.0, f.Area(), 1e-6)
}

func TestOffsetRounded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	w := square(t, 0, 0, 10)
	out, err := OffsetWire(w, -1, geom.ZAxis, JoinArc)
	assert.NoError(t, err)
	assert.Len(t, out.Edges(), 8)
	assert.InDelta(t, 40+2*math.Pi, out.Length(), 1e-6)
	f, err := MakeFace(out)
	assert.NoError(t, err)
	assert.InDelta(t, 100+40+math.Pi, f.Area(), 1e-3)
}

func TestOffsetFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	f, _ := MakeFace(square(t, 0, 0, 10))
	grown, err := OffsetFace(f, 1, JoinMiter)
	assert.NoError(t, err)
	assert.InDelta(t, 144.0, grown.Area(), 1e-6)
	shrunk, err := OffsetFace(f, -2, JoinMiter)
	assert.NoError(t, err)
	assert.InDelta(t, 36.0, shrunk.Area(), 1e-6)
}

func TestOffsetCircle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	c, _ := MakeCircle(geom.V(1, 2, 0), geom.ZAxis, 5)
	w, _ := MakeWire([]*Edge{c})
	out, err := OffsetWire(w, -2, geom.ZAxis, JoinMiter)
	assert.NoError(t, err)
	oc, ok := out.Edges()[0].Circle()
	assert.True(t, ok)
	assert.InDelta(t, 7.0, oc.Radius, 1e-9)
	assert.True(t, geom.Equal(oc.Center, geom.V(1, 2, 0)))
	_, err = OffsetWire(w, 6, geom.ZAxis, JoinMiter)
	assert.Error(t, err)
}

func TestOffsetOpenWire(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	w, _ := MakePolygon([]geom.Vector{geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0)}, false)
	out, err := OffsetWire(w, 1, geom.ZAxis, JoinMiter)
	assert.NoError(t, err)
	assert.True(t, geom.Equal(out.Start(), geom.V(0, 1, 0)), "start is %s", geom.VString(out.Start()))
	assert.True(t, geom.Equal(out.End(), geom.V(9, 10, 0)), "end is %s", geom.VString(out.End()))
	assert.InDelta(t, 18.0, out.Length(), 1e-9)
}

func TestTrimEdge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.kernel")
	defer teardown()
	//
	l, _ := MakeLine(geom.V(0, 0, 0), geom.V(10, 0, 0))
	tr, err := TrimEdge(l, geom.V(4, 0, 0), false)
	assert.NoError(t, err)
	assert.True(t, geom.Equal(tr.Start(), geom.V(4, 0, 0)))
	assert.True(t, geom.Equal(tr.End(), geom.V(10, 0, 0)))
	ext, err := TrimEdge(l, geom.V(15, 0, 0), true)
	assert.NoError(t, err)
	assert.InDelta(t, 15.0, ext.Length(), 1e-9)
}
