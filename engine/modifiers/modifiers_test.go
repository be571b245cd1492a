package modifiers

import (
	"math"
	"testing"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/draft/engine/sketch"
	"github.com/npillmayer/draft/engine/workingplane"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

func line(t *testing.T, doc *document.Document, p1, p2 geom.Vector) *document.Object {
	obj, err := draft.MakeLine(doc, p1, p2)
	require.NoError(t, err)
	return obj
}

func points(obj *document.Object) []geom.Vector {
	return *obj.Proxy.(draft.PointList).PointsRef()
}

func assertPoint(t *testing.T, expected, actual geom.Vector) {
	t.Helper()
	assert.True(t, geom.Equal(expected, actual), "expected %s, have %s", geom.VString(expected), geom.VString(actual))
}

func TestMoveUpdatesPoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	pt, err := draft.MakePoint(doc, geom.V(1, 1, 1))
	require.NoError(t, err)
	res, err := Move([]*document.Object{pt}, geom.V(1, 2, 3), false)
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	p := pt.Proxy.(*draft.Point)
	assert.InDelta(t, 2, p.X, eps)
	assert.InDelta(t, 3, p.Y, eps)
	assert.InDelta(t, 4, p.Z, eps)
	//
	res, err = Move([]*document.Object{pt}, geom.V(-2, 0, 0), true)
	require.NoError(t, err)
	require.Equal(t, 1, len(res.Added))
	cp := doc.Get(res.Added[0])
	assertPoint(t, geom.V(0, 3, 4), cp.Proxy.(*draft.Point).Position())
	assertPoint(t, geom.V(2, 3, 4), p.Position())
}

func TestMoveGroup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	g := doc.AddGroup("Group")
	l := line(t, doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	require.NoError(t, doc.AddToGroup(g.Handle(), l.Handle()))
	_, err := Move([]*document.Object{g}, geom.V(0, 5, 0), false)
	require.NoError(t, err)
	assertPoint(t, geom.V(0, 5, 0), l.Shape.Edges()[0].Start())
}

func TestRotateAndScale(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	l := line(t, doc, geom.V(1, 0, 0), geom.V(2, 0, 0))
	_, err := Rotate([]*document.Object{l}, 90, geom.Origin, geom.ZAxis, false)
	require.NoError(t, err)
	e := l.Shape.Edges()[0]
	assertPoint(t, geom.V(0, 1, 0), e.Start())
	assertPoint(t, geom.V(0, 2, 0), e.End())
	//
	c, err := draft.MakeCircle(doc, 2, 0, 0)
	require.NoError(t, err)
	_, err = Scale([]*document.Object{c}, geom.V(3, 3, 3), geom.Origin, false)
	require.NoError(t, err)
	assert.InDelta(t, 6, c.Proxy.(*draft.Circle).Radius, eps)
	//
	rect, err := draft.MakeRectangle(doc, 10, 5)
	require.NoError(t, err)
	_, err = Scale([]*document.Object{rect}, geom.V(2, 1, 1), geom.Origin, false)
	require.NoError(t, err)
	assert.InDelta(t, 20, rect.Proxy.(*draft.Rectangle).Length, eps)
	assert.InDelta(t, 5, rect.Proxy.(*draft.Rectangle).Height, eps)
	//
	poly, err := draft.MakePolygon(doc, 6, 2, true)
	require.NoError(t, err)
	res, err := Scale([]*document.Object{poly}, geom.V(2, 1, 1), geom.Origin, false)
	require.NoError(t, err)
	require.Equal(t, 1, len(res.Added))
	assert.Nil(t, doc.Get(poly.Handle()), "non-uniformly scaled polygon is replaced")
	bb := doc.Get(res.Added[0]).Shape.BoundBox()
	assert.InDelta(t, 8, bb.Max.X-bb.Min.X, eps)
	//
	_, err = Scale([]*document.Object{rect}, geom.V(0, 1, 1), geom.Origin, false)
	assert.True(t, core.Is(err, core.EPRECONDITION))
}

func TestMirror(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	l := line(t, doc, geom.V(1, 0, 0), geom.V(2, 0, 0))
	l.Label = "Edge"
	res, err := Mirror([]*document.Object{l}, geom.Origin, geom.V(0, 1, 0), geom.ZAxis)
	require.NoError(t, err)
	require.Equal(t, 1, len(res.Added))
	m := doc.Get(res.Added[0])
	assert.Equal(t, "Edge (Mirror)", m.Label)
	assert.Equal(t, "Mirroring", m.ProxyType())
	bb := m.Shape.BoundBox()
	assert.InDelta(t, -2, bb.Min.X, eps)
	assert.InDelta(t, -1, bb.Max.X, eps)
	//
	_, err = Mirror([]*document.Object{l}, geom.Origin, geom.Origin, geom.ZAxis)
	assert.True(t, core.Is(err, core.EINVARIANT))
	_, err = Mirror([]*document.Object{l}, geom.Origin, geom.V(0, 0, 1), geom.ZAxis)
	assert.True(t, core.Is(err, core.EINVARIANT))
}

func TestFilterObjectsForModifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	a := line(t, doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	b := line(t, doc, geom.V(0, 1, 0), geom.V(1, 1, 0))
	b.SetEditorMode("Placement", document.ReadOnly)
	objs := FilterObjectsForModifiers([]*document.Object{a, b, nil})
	require.Equal(t, 1, len(objs))
	assert.Equal(t, a, objs[0])
}

func TestOffsetKeepsType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	rect, err := draft.MakeRectangle(doc, 10, 10, draft.WithFace(true))
	require.NoError(t, err)
	_, err = Offset(rect, 1, OffsetOptions{})
	require.NoError(t, err)
	r := rect.Proxy.(*draft.Rectangle)
	assert.InDelta(t, 12, r.Length, eps)
	assert.InDelta(t, 12, r.Height, eps)
	assert.InDelta(t, 144, rect.Shape.Area(), eps)
	assertPoint(t, geom.V(-1, -1, 0), rect.Placement.Base)
	//
	c, err := draft.MakeCircle(doc, 5, 0, 0)
	require.NoError(t, err)
	_, err = Offset(c, 2, OffsetOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 7, c.Proxy.(*draft.Circle).Radius, eps)
	_, err = Offset(c, -10, OffsetOptions{})
	assert.True(t, core.Is(err, core.EGEOMETRY))
	assert.InDelta(t, 7, c.Proxy.(*draft.Circle).Radius, eps)
}

func TestOffsetCopy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	sq, err := draft.MakeWire(doc, []geom.Vector{
		geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0), geom.V(0, 10, 0),
	}, true, draft.WithFace(true))
	require.NoError(t, err)
	res, err := Offset(sq, -2, OffsetOptions{Copy: true})
	require.NoError(t, err)
	require.Equal(t, 1, len(res.Added))
	cp := doc.Get(res.Added[0])
	assert.InDelta(t, 36, cp.Shape.Area(), eps)
	assert.InDelta(t, 100, sq.Shape.Area(), eps)
	assertPoint(t, geom.V(2, 2, 0), points(cp)[0])
}

func TestOffsetOpenWire(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	l := line(t, doc, geom.V(0, 0, 0), geom.V(10, 0, 0))
	_, err := Offset(l, 2, OffsetOptions{})
	require.NoError(t, err)
	pts := points(l)
	require.Equal(t, 2, len(pts))
	assert.InDelta(t, 2, math.Abs(pts[0].Y), eps)
	assert.InDelta(t, pts[0].Y, pts[1].Y, eps)
	assert.InDelta(t, 10, geom.Dist(pts[0], pts[1]), eps)
}

func TestOffsetBind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	sq, err := draft.MakeWire(doc, []geom.Vector{
		geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0), geom.V(0, 10, 0),
	}, true, draft.WithFace(false))
	require.NoError(t, err)
	res, err := Offset(sq, 1, OffsetOptions{Bind: true, Copy: true})
	require.NoError(t, err)
	require.Equal(t, 1, len(res.Added))
	ring := doc.Get(res.Added[0])
	require.Equal(t, 1, len(ring.Shape.Faces()))
	assert.InDelta(t, 44, ring.Shape.Area(), eps)
	assert.Equal(t, 1, len(ring.Shape.Faces()[0].Holes()))
}

func TestTrimex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	l := line(t, doc, geom.V(0, 0, 0), geom.V(10, 0, 0))
	ref, err := kernel.MakeLine(geom.V(4, -5, 0), geom.V(4, 5, 0))
	require.NoError(t, err)
	_, err = Trimex(l, 0, geom.V(1, 0, 0), TrimOptions{Ref: ref})
	require.NoError(t, err)
	pts := points(l)
	assertPoint(t, geom.V(4, 0, 0), pts[0])
	assertPoint(t, geom.V(10, 0, 0), pts[1])
	// extend to the pick point
	_, err = Trimex(l, 0, geom.V(12, 1, 0), TrimOptions{})
	require.NoError(t, err)
	assertPoint(t, geom.V(12, 0, 0), points(l)[1])
	// forced length
	_, err = Trimex(l, 0, geom.V(11, 0, 0), TrimOptions{Force: 3})
	require.NoError(t, err)
	assertPoint(t, geom.V(7, 0, 0), points(l)[1])
	// reference edge parallel to the line
	par, _ := kernel.MakeLine(geom.V(0, 1, 0), geom.V(1, 1, 0))
	_, err = Trimex(l, 0, geom.V(1, 0, 0), TrimOptions{Ref: par})
	assert.True(t, core.Is(err, core.EGEOMETRY))
}

func TestTrimexWireWithDuplicatePoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	w, err := draft.MakeWire(doc, []geom.Vector{
		geom.V(0, 0, 0), geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0),
	}, false)
	require.NoError(t, err)
	require.Equal(t, 2, len(w.Shape.Edges()))
	_, err = Trimex(w, 1, geom.V(10, 6, 0), TrimOptions{})
	require.NoError(t, err)
	pts := points(w)
	require.Equal(t, 3, len(pts))
	assertPoint(t, geom.V(0, 0, 0), pts[0])
	assertPoint(t, geom.V(10, 0, 0), pts[1])
	assertPoint(t, geom.V(10, 6, 0), pts[2])
	//
	a, err := draft.MakeWire(doc, []geom.Vector{geom.V(0, 0, 0), geom.V(0, 0, 0), geom.V(3, 0, 0)}, false)
	require.NoError(t, err)
	b := line(t, doc, geom.V(5, 1, 0), geom.V(5, 4, 0))
	_, err = TrimBetween(a, b)
	require.NoError(t, err)
	pts = points(a)
	require.Equal(t, 2, len(pts))
	assertPoint(t, geom.V(0, 0, 0), pts[0])
	assertPoint(t, geom.V(5, 0, 0), pts[1])
}

func TestTrimexArc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	arc, err := draft.MakeCircle(doc, 5, 0, 90)
	require.NoError(t, err)
	_, err = Trimex(arc, 0, geom.V(-3, 4, 0), TrimOptions{})
	require.NoError(t, err)
	c := arc.Proxy.(*draft.Circle)
	assert.InDelta(t, 0, c.FirstAngle, eps)
	assert.InDelta(t, math.Atan2(4, -3)*180/math.Pi, c.LastAngle, 1e-6)
}

func TestTrimBetween(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	a := line(t, doc, geom.V(0, 0, 0), geom.V(3, 0, 0))
	b := line(t, doc, geom.V(5, 1, 0), geom.V(5, 4, 0))
	_, err := TrimBetween(a, b)
	require.NoError(t, err)
	assertPoint(t, geom.V(5, 0, 0), points(a)[1])
	assertPoint(t, geom.V(5, 0, 0), points(b)[0])
	c := line(t, doc, geom.V(0, 2, 0), geom.V(3, 2, 0))
	_, err = TrimBetween(a, c)
	assert.True(t, core.Is(err, core.EGEOMETRY))
}

func TestExtrudeFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	rect, err := draft.MakeRectangle(doc, 2, 3, draft.WithFace(true))
	require.NoError(t, err)
	res, err := ExtrudeFace(rect, 4, nil)
	require.NoError(t, err)
	ext := doc.Get(res.Added[0])
	assert.InDelta(t, 24, ext.Shape.Volume(), eps)
	assert.False(t, rect.View.Visibility)
	l := line(t, doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	_, err = ExtrudeFace(l, 1, nil)
	assert.True(t, core.Is(err, core.EPRECONDITION))
}

func TestStretch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	wp := workingplane.New()
	rect, err := draft.MakeRectangle(doc, 10, 5)
	require.NoError(t, err)
	w, err := draft.MakeWire(doc, []geom.Vector{geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0)}, false)
	require.NoError(t, err)
	rg := NewRegion(arithm.P(12, 11), arithm.P(8, -1), wp)
	_, err = Stretch([]*document.Object{rect, w}, rg, geom.V(3, 0, 0))
	require.NoError(t, err)
	assert.InDelta(t, 13, rect.Proxy.(*draft.Rectangle).Length, eps)
	pts := points(w)
	assertPoint(t, geom.V(0, 0, 0), pts[0])
	assertPoint(t, geom.V(13, 0, 0), pts[1])
	assertPoint(t, geom.V(13, 10, 0), pts[2])
	// a single corner turns the rectangle into a wire
	rg = NewRegion(arithm.P(-1, -1), arithm.P(1, 1), wp)
	res, err := Stretch([]*document.Object{rect}, rg, geom.V(1, 1, 0))
	require.NoError(t, err)
	assert.Nil(t, doc.Get(rect.Handle()))
	require.Equal(t, 1, len(res.Added))
	nw := doc.Get(res.Added[0])
	assert.Equal(t, "Wire", nw.ProxyType())
	assertPoint(t, geom.V(1, 1, 0), nw.Placement.Apply(points(nw)[0]))
}

func TestUpgradeFusesTwoRectangles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	a, err := draft.MakeRectangle(doc, 10, 10, draft.WithFace(true))
	require.NoError(t, err)
	b, err := draft.MakeRectangle(doc, 10, 10, draft.WithFace(true),
		draft.WithPlacement(geom.Translation(geom.V(5, 5, 0))))
	require.NoError(t, err)
	res, err := Upgrade([]*document.Object{a, b}, Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found 2 objects: fusing them")
	objs := res.Objects(doc)
	require.Equal(t, 1, len(objs))
	assert.Equal(t, "Wire", objs[0].ProxyType())
	assert.InDelta(t, 175, objs[0].Shape.Area(), eps)
	assert.False(t, a.View.Visibility)
	assert.False(t, b.View.Visibility)
}

func TestUpgradeWireSteps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	w, err := draft.MakeWire(doc, []geom.Vector{
		geom.V(0, 0, 0), geom.V(4, 0, 0), geom.V(4, 4, 0),
	}, false, draft.WithFace(false))
	require.NoError(t, err)
	res, err := Upgrade([]*document.Object{w}, Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found 1 open wire: closing it")
	assert.True(t, w.Proxy.(*draft.Wire).Closed)
	//
	res, err = Upgrade([]*document.Object{w}, Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found closed wires: creating faces")
	assert.InDelta(t, 8, w.Shape.Area(), eps)
}

func TestUpgradeEdgesToWire(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	a := line(t, doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	b := line(t, doc, geom.V(1, 1, 0), geom.V(1, 0, 0))
	res, err := Upgrade([]*document.Object{a, b}, Options{Delete: true})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found several edges: wiring them")
	objs := res.Objects(doc)
	require.Equal(t, 1, len(objs))
	assert.Equal(t, 3, len(points(objs[0])))
	assert.Nil(t, doc.Get(a.Handle()))
	assert.Nil(t, doc.Get(b.Handle()))
	//
	res, err = Upgrade(objs, Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found 1 open wire: closing it")
}

func TestUpgradeNothingToDo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	l := line(t, doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	res, err := Upgrade([]*document.Object{l}, Options{})
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.Contains(t, res.Messages, "Unable to upgrade these objects")
}

func TestForcedRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	assert.Equal(t, "closeGroupWires", RuleNames(true)[0])
	assert.Equal(t, "explode", RuleNames(false)[0])
	doc := document.New("test")
	a := line(t, doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	b := line(t, doc, geom.V(1, 0, 0), geom.V(1, 1, 0))
	res, err := Upgrade([]*document.Object{a, b}, Options{Force: "makeCompound", Delete: true})
	require.NoError(t, err)
	objs := res.Objects(doc)
	require.Equal(t, 1, len(objs))
	assert.Equal(t, kernel.CompoundShape, objs[0].Shape.Type())
	//
	_, err = Upgrade(objs, Options{Force: "noSuchRule"})
	assert.True(t, core.Is(err, core.EINVALID))
	_, err = Downgrade(objs, Options{Force: "explode"})
	assert.True(t, core.Is(err, core.EPRECONDITION))
}

func TestDowngradeSolidToFaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	base, err := kernel.MakePlane(2, 3, geom.Origin, geom.ZAxis)
	require.NoError(t, err)
	solid, err := kernel.Extrude(base.Shape(), geom.V(0, 0, 4))
	require.NoError(t, err)
	box := doc.AddObject(document.PartFeature, "Box", nil)
	box.Shape = solid
	k := len(solid.Faces())
	res, err := Downgrade([]*document.Object{box}, Options{Delete: true})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found several faces: splitting them")
	faces := res.Objects(doc)
	require.Equal(t, k, len(faces))
	var bb geom.BoundBox
	for i, f := range faces {
		fb := f.Shape.BoundBox()
		if i == 0 {
			bb = fb
			continue
		}
		bb.Min = geom.V(math.Min(bb.Min.X, fb.Min.X), math.Min(bb.Min.Y, fb.Min.Y), math.Min(bb.Min.Z, fb.Min.Z))
		bb.Max = geom.V(math.Max(bb.Max.X, fb.Max.X), math.Max(bb.Max.Y, fb.Max.Y), math.Max(bb.Max.Z, fb.Max.Z))
	}
	assertPoint(t, solid.BoundBox().Min, bb.Min)
	assertPoint(t, solid.BoundBox().Max, bb.Max)
	assert.Nil(t, doc.Get(box.Handle()))
}

func TestDowngradeChain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	rect, err := draft.MakeRectangle(doc, 4, 2, draft.WithFace(true))
	require.NoError(t, err)
	res, err := Downgrade([]*document.Object{rect}, Options{Delete: true})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found 1 face: extracting its wires")
	wires := res.Objects(doc)
	require.Equal(t, 1, len(wires))
	res, err = Downgrade(wires, Options{Delete: true})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found only wires: extracting their edges")
	edges := res.Objects(doc)
	assert.Equal(t, 4, len(edges))
	res, err = Downgrade(edges[:1], Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "No more downgrade possible")
}

func TestDowngradeBlockAndCut(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	a, err := draft.MakeRectangle(doc, 10, 10, draft.WithFace(true))
	require.NoError(t, err)
	b, err := draft.MakeRectangle(doc, 2, 2, draft.WithFace(true),
		draft.WithPlacement(geom.Translation(geom.V(4, 4, 0))))
	require.NoError(t, err)
	blk, err := draft.MakeBlock(doc, []document.Handle{a.Handle(), b.Handle()})
	require.NoError(t, err)
	res, err := Downgrade([]*document.Object{blk}, Options{Delete: true})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found 1 block: exploding it")
	assert.Nil(t, doc.Get(blk.Handle()))
	assert.True(t, a.View.Visibility)
	//
	res, err = Downgrade([]*document.Object{a, b}, Options{})
	require.NoError(t, err)
	assert.Contains(t, res.Messages, "Found 2 objects: subtracting them")
	cut := res.Objects(doc)[0]
	assert.Equal(t, "Cut", cut.ProxyType())
	assert.InDelta(t, 96, cut.Shape.Area(), eps)
}

func TestShapifyDraftifyRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	pts := []geom.Vector{geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0), geom.V(0, 10, 0)}
	w, err := draft.MakeWire(doc, pts, true, draft.WithFace(false))
	require.NoError(t, err)
	res, err := Shapify(w)
	require.NoError(t, err)
	assert.Nil(t, doc.Get(w.Handle()))
	feat := res.Objects(doc)[0]
	assert.Nil(t, feat.Proxy)
	//
	res, err = Draftify([]*document.Object{feat}, false, true)
	require.NoError(t, err)
	objs := res.Objects(doc)
	require.Equal(t, 1, len(objs))
	back := points(objs[0])
	require.Equal(t, len(pts), len(back))
	for i := range pts {
		assertPoint(t, pts[i], objs[0].Placement.Apply(back[i]))
	}
	assert.True(t, objs[0].Proxy.(*draft.Wire).Closed)
	assert.Nil(t, doc.Get(feat.Handle()))
}

func TestDraftifyCircle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	e, err := kernel.MakeCircle(geom.V(1, 2, 0), geom.ZAxis, 3)
	require.NoError(t, err)
	feat := doc.AddObject(document.PartFeature, "Circle", nil)
	feat.Shape = e.Shape()
	res, err := Upgrade([]*document.Object{feat}, Options{})
	require.NoError(t, err)
	// a closed lone edge is a closed wire: it gets a face
	assert.Contains(t, res.Messages, "Found closed wires: creating faces")
	res, err = Draftify([]*document.Object{feat}, false, false)
	require.NoError(t, err)
	c := res.Objects(doc)[0]
	assert.Equal(t, "Circle", c.ProxyType())
	assert.InDelta(t, 3, c.Proxy.(*draft.Circle).Radius, eps)
	assertPoint(t, geom.V(1, 2, 0), c.Placement.Base)
}

func TestExplodeJoinSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	a := line(t, doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	b := line(t, doc, geom.V(1, 0, 0), geom.V(1, 1, 0))
	res, err := Join([]*document.Object{a, b})
	require.NoError(t, err)
	assert.Equal(t, 1, len(res.Deleted))
	assert.Equal(t, 3, len(points(a)))
	res, err = Split(a, 0, geom.V(0.5, 0, 0))
	require.NoError(t, err)
	require.Equal(t, 1, len(res.Added))
	assert.Equal(t, 2, len(points(a)))
	//
	blk, err := draft.MakeBlock(doc, []document.Handle{a.Handle()})
	require.NoError(t, err)
	assert.False(t, a.View.Visibility)
	_, err = Explode(blk)
	require.NoError(t, err)
	assert.True(t, a.View.Visibility)
	assert.Nil(t, doc.Get(blk.Handle()))
	_, err = Explode(a)
	assert.True(t, core.Is(err, core.EPRECONDITION))
}

func TestMakeArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	rect, err := draft.MakeRectangle(doc, 1, 1, draft.WithFace(true))
	require.NoError(t, err)
	res, err := MakeArray(rect, ArrayParams{
		Kind:      OrthoArray,
		IntervalX: geom.V(2, 0, 0), IntervalY: geom.V(0, 2, 0), IntervalZ: geom.V(0, 0, 2),
		NumberX: 3, NumberY: 2, NumberZ: 1,
	})
	require.NoError(t, err)
	arr := res.Objects(doc)[0]
	assert.Equal(t, 6, len(arr.Shape.Faces()))
	assert.False(t, rect.View.Visibility)
}

func TestMakeSketch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.modifiers")
	defer teardown()
	//
	doc := document.New("test")
	rect, err := draft.MakeRectangle(doc, 4, 2)
	require.NoError(t, err)
	c, err := draft.MakeCircle(doc, 1, 0, 0, draft.WithPlacement(geom.Translation(geom.V(10, 0, 0))))
	require.NoError(t, err)
	res, err := MakeSketch([]*document.Object{rect, c}, SketchOptions{Constraints: true, Delete: true})
	require.NoError(t, err)
	obj := res.Objects(doc)[0]
	sk := obj.Proxy.(*sketch.Sketch)
	assert.Equal(t, 5, len(sk.Geometry))
	// 4 coincidences, 4 orientations, 1 radius
	assert.Equal(t, 9, len(sk.Constraints))
	for _, con := range sk.Constraints {
		assert.True(t, sk.IsSatisfied(con), con.String())
	}
	assert.Equal(t, 5, len(obj.Shape.Edges()))
	assert.Nil(t, doc.Get(rect.Handle()))
	assert.Nil(t, doc.Get(c.Handle()))
}
