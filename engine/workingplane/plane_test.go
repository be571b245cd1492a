package workingplane

import (
	"math"
	"testing"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPlane(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.wp")
	defer teardown()
	//
	p := New()
	assert.True(t, p.IsWeak())
	assert.True(t, p.IsGlobal())
	assert.True(t, p.IsValid())
	assert.True(t, p.IsOrtho())
	assert.True(t, Active() == Active())
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.wp")
	defer teardown()
	//
	p := New()
	err := p.AlignToPointAndAxis(geom.V(1, 2, 3), geom.V(1, 1, 1), 0.5)
	assert.NoError(t, err)
	assert.True(t, p.IsValid())
	for _, v := range []geom.Vector{geom.V(0, 0, 0), geom.V(3, -4, 0), geom.V(1.5, 2, 7)} {
		g := p.GetGlobalCoords(v)
		assert.True(t, geom.Equal(p.GetLocalCoords(g), v), "round trip of %s", geom.VString(v))
	}
	pl := p.GetPlacement()
	assert.True(t, geom.Equal(pl.Apply(geom.V(2, 5, 0)), p.GetGlobalCoords(geom.V(2, 5, 0))))
}

func TestAlignToPointAndAxis(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.wp")
	defer teardown()
	//
	p := New()
	assert.NoError(t, p.AlignToPointAndAxis(geom.Origin, geom.Neg(geom.YAxis), 2))
	assert.False(t, p.IsWeak())
	assert.True(t, geom.Equal(p.U, geom.XAxis), "u is %s", geom.VString(p.U))
	assert.True(t, geom.Equal(p.V, geom.ZAxis), "v is %s", geom.VString(p.V))
	assert.True(t, geom.Equal(p.Position, geom.V(0, -2, 0)))
	assert.InDelta(t, 0.0, p.GetDeviation(), 1e-9)
	err := p.AlignToPointAndAxis(geom.Origin, geom.Vector{}, 0)
	assert.Equal(t, core.EGEOMETRY, core.Code(err))
	assert.True(t, geom.Equal(p.Axis, geom.Neg(geom.YAxis)), "failed alignment leaves the plane unchanged")
	// u stays in world XY for tilted axes
	assert.NoError(t, p.AlignToPointAndAxis(geom.Origin, geom.V(1, 0, 1), 0))
	assert.InDelta(t, 0.0, p.U.Z, 1e-9)
	assert.Equal(t, "axis", p.GetClosestAxis(geom.V(1, 0, 1.1)))
}

func TestAlignTo3Points(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.wp")
	defer teardown()
	//
	p := New()
	assert.NoError(t, p.AlignTo3Points(geom.V(0, 0, 5), geom.V(1, 0, 5), geom.V(0, 1, 5), 0))
	assert.True(t, geom.Equal(p.Axis, geom.ZAxis))
	assert.True(t, geom.Equal(p.Position, geom.V(0, 0, 5)))
	err := p.AlignTo3Points(geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(2, 0, 0), 0)
	assert.Error(t, err)
	assert.True(t, geom.Equal(p.Position, geom.V(0, 0, 5)))
}

func TestAlignToFaceAndEdges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.wp")
	defer teardown()
	//
	w, _ := kernel.MakePolygon([]geom.Vector{
		geom.V(0, 0, 0), geom.V(0, 10, 0), geom.V(0, 10, 10), geom.V(0, 0, 10),
	}, true)
	f, err := kernel.MakeFace(w)
	assert.NoError(t, err)
	p := New()
	assert.NoError(t, p.AlignToFace(f, 0))
	assert.True(t, geom.IsParallel(p.Axis, geom.XAxis))
	assert.True(t, geom.Equal(p.Position, geom.V(0, 5, 5)))
	//
	p = New()
	assert.NoError(t, p.AlignToEdges(w.Edges()))
	assert.True(t, geom.IsParallel(p.Axis, geom.XAxis))
	assert.True(t, geom.Equal(p.U, geom.YAxis))
	assert.True(t, p.IsValid())
	l, _ := kernel.MakeLine(geom.V(0, 0, 0), geom.V(1, 0, 0))
	assert.Error(t, p.AlignToEdges([]*kernel.Edge{l}))
	//
	sel := []*kernel.Shape{kernel.MakeVertex(geom.V(0, 0, 1)), kernel.MakeVertex(geom.V(1, 0, 1)),
		kernel.MakeVertex(geom.V(0, 1, 1))}
	assert.NoError(t, p.AlignToSelection(sel, 0))
	assert.True(t, geom.Equal(p.Axis, geom.ZAxis))
	assert.NoError(t, p.AlignToSelection([]*kernel.Shape{f.Shape()}, 1))
	assert.True(t, geom.IsParallel(p.Axis, geom.XAxis))
}

func TestSaveRestore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.wp")
	defer teardown()
	//
	p := New()
	p.Setup(geom.XAxis, geom.V(5, 0, 0), false) // weak plane follows the view
	assert.True(t, geom.Equal(p.Axis, geom.XAxis))
	assert.True(t, p.IsWeak())
	p.Restore()
	assert.True(t, p.IsGlobal())
	assert.Equal(t, 0, p.Saved())
	//
	assert.NoError(t, p.AlignToPointAndAxis(geom.Origin, geom.YAxis, 0))
	p.Setup(geom.XAxis, geom.Origin, false) // sticky plane does not
	assert.True(t, geom.Equal(p.Axis, geom.YAxis))
	p.Restore()
	// restoring a weak state keeps the plane sticky
	q := New()
	q.Save()
	assert.NoError(t, q.AlignToPointAndAxis(geom.Origin, geom.XAxis, 0))
	q.Restore()
	assert.False(t, q.IsWeak())
	assert.True(t, q.IsGlobal())
	q.Restore() // empty stack is a no-op
	assert.True(t, q.IsGlobal())
}

func TestSnapAndProject(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.wp")
	defer teardown()
	//
	p := New()
	s := p.SnapToGrid(geom.V(1.4, 2.6, 3))
	assert.True(t, geom.Equal(s, geom.V(1, 3, 3)))
	pp := p.ProjectPoint(geom.V(1, 2, 3), geom.Vector{})
	assert.True(t, geom.Equal(pp, geom.V(1, 2, 0)))
	pp = p.ProjectPoint(geom.V(0, 0, 2), geom.V(1, 0, 1))
	assert.True(t, geom.Equal(pp, geom.V(-2, 0, 0)))
	pr := p.Project2D(geom.V(3, 4, 5))
	assert.InDelta(t, 3.0, real(pr.C()), 1e-9)
	assert.True(t, geom.Equal(p.From2D(pr), geom.V(3, 4, 0)))
	p.SetFromPlacement(geom.NewPlacement(geom.V(1, 1, 1), geom.NewRotation(geom.ZAxis, math.Pi/2)), false)
	assert.True(t, geom.Equal(p.U, geom.YAxis))
	assert.True(t, geom.IsNull(p.Position))
}
