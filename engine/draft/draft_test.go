package draft

import (
	"math"
	"testing"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/workingplane"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-6

func square(t *testing.T, doc *document.Document, size float64, face bool) *document.Object {
	obj, err := MakeWire(doc, []geom.Vector{
		geom.V(0, 0, 0), geom.V(size, 0, 0), geom.V(size, size, 0), geom.V(0, size, 0),
	}, true, WithFace(face))
	if err != nil {
		t.Fatalf("cannot create square: %v", err)
	}
	return obj
}

func TestRectangle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, err := MakeRectangle(doc, 40, 20, WithFace(true))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "Rectangle", rect.ProxyType())
	assert.InDelta(t, 800, rect.Shape.Area(), eps)
	assert.Equal(t, 1, len(rect.Shape.Faces()))
	assert.Equal(t, 4, len(rect.Shape.Edges()))
	assert.InDelta(t, 800, rect.Proxy.(*Rectangle).Area, eps)
	assert.True(t, doc.IsSelected(rect.Handle()))
	//
	flat, err := MakeRectangle(doc, 0, 20)
	assert.NoError(t, err)
	assert.False(t, flat.HasShape(), "rectangle without extent has no shape")
}

func TestRectangleGrid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, err := MakeRectangle(doc, 30, 20, WithFace(true))
	if err != nil {
		t.Fatal(err)
	}
	assert.NoError(t, rect.SetProperty("Rows", 2))
	assert.NoError(t, rect.SetProperty("Columns", 3))
	assert.NoError(t, doc.Recompute())
	assert.Equal(t, 6, len(rect.Shape.Faces()))
	assert.InDelta(t, 600, rect.Shape.Area(), eps)
}

func TestWire(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	w := square(t, doc, 10, true)
	assert.InDelta(t, 100, w.Shape.Area(), eps)
	assert.Equal(t, 1, len(w.Shape.Faces()))
	wire := w.Proxy.(*Wire)
	sum := 0.0
	for _, e := range w.Shape.Edges() {
		sum += e.Length()
	}
	assert.InDelta(t, wire.Length, sum, eps)
	assert.InDelta(t, 40, wire.Length, eps)
	assert.True(t, geom.Equal(wire.Start, geom.V(0, 0, 0)))
	assert.True(t, geom.Equal(wire.End, geom.V(0, 10, 0)))
	//
	_, err := MakeWire(doc, []geom.Vector{geom.V(1, 1, 1)}, false)
	assert.Equal(t, core.EPRECONDITION, core.Code(err))
	_, err = MakeWire(nil, []geom.Vector{geom.V(0, 0, 0), geom.V(1, 0, 0)}, false)
	assert.Error(t, err, "no active document")
}

func TestWirePlacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	pl := geom.Translation(geom.V(5, 5, 0))
	line, err := MakeLine(doc, geom.V(5, 5, 0), geom.V(15, 5, 0), WithPlacement(pl))
	if err != nil {
		t.Fatal(err)
	}
	w := line.Proxy.(*Wire)
	assert.True(t, geom.Equal(w.Points[0], geom.Origin), "points are stored in the local frame")
	assert.True(t, geom.Equal(line.Shape.Edges()[0].End(), geom.V(15, 5, 0)))
}

func TestArc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	arc, err := MakeCircle(doc, 5, 0, 90)
	if err != nil {
		t.Fatal(err)
	}
	assert.InDelta(t, 5*math.Pi/2, arc.Shape.Length(), 1e-9)
	assert.False(t, arc.Proxy.(*Circle).IsFull())
	//
	dim, err := MakeLinkedDimension(doc, []document.LinkSub{
		{Object: arc.Handle(), Subs: []string{"Edge1"}},
	}, geom.V(10, 10, 0), true)
	if err != nil {
		t.Fatal(err)
	}
	d := dim.Proxy.(*Dimension)
	assert.InDelta(t, 10.0, d.Distance, eps)
	assert.Equal(t, "Ø10", d.Text)
	assert.Equal(t, document.ReadOnly, dim.GetEditorMode("Distance"))
}

func TestCircle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	c, err := MakeCircle(doc, 2, 0, 0, WithFace(true))
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, c.Proxy.(*Circle).IsFull())
	assert.InDelta(t, 4*math.Pi, c.Proxy.(*Circle).Area, 1e-3)
	//
	assert.NoError(t, c.SetProperty("FirstAngle", 450.0))
	assert.NoError(t, doc.Recompute())
	assert.InDelta(t, 90, c.Proxy.(*Circle).FirstAngle, eps, "angles are normalized")
	//
	_, err = MakeCircle(doc, 0, 0, 0)
	assert.Equal(t, core.EPRECONDITION, core.Code(err))
}

func TestLinearDimension(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	dim, err := MakeDimension(doc, geom.V(0, 0, 0), geom.V(3, 4, 0), geom.V(0, 8, 0))
	if err != nil {
		t.Fatal(err)
	}
	d := dim.Proxy.(*Dimension)
	assert.InDelta(t, 5, d.Distance, eps)
	assert.Equal(t, "5", d.Text)
	//
	assert.NoError(t, dim.SetProperty("Direction", geom.XAxis))
	assert.NoError(t, dim.SetProperty("ShowUnit", true))
	assert.NoError(t, doc.Recompute())
	assert.InDelta(t, 3, d.Distance, eps)
	assert.Equal(t, "3 mm", d.Text)
}

func TestAngularDimension(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	dim, err := MakeAngularDimension(doc, geom.Origin, 350, 20, geom.V(5, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	ad := dim.Proxy.(*AngularDimension)
	assert.InDelta(t, 30, ad.Angle, eps)
	assert.True(t, dim.HasShape())
}

func TestPolygon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	p, err := MakePolygon(doc, 4, 1, false, WithFace(true))
	if err != nil {
		t.Fatal(err)
	}
	assert.InDelta(t, 4, p.Shape.Area(), 1e-6, "circumscribed square around unit circle")
	assert.NoError(t, p.SetProperty("FacesNumber", 2))
	assert.Equal(t, core.EINVARIANT, core.Code(doc.RecomputeObject(p.Handle())))
	assert.False(t, p.IsValid())
}

func TestBSplineClosed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	pts := []geom.Vector{geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(10, 10, 0), geom.V(0, 0, 0)}
	bs, err := MakeBSpline(doc, pts, true, WithFace(false))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 3, len(bs.Proxy.(*BSpline).Points), "repeated point is dropped")
	assert.NoError(t, bs.SetProperty("Points", pts))
	err = doc.RecomputeObject(bs.Handle())
	assert.Equal(t, core.EINVARIANT, core.Code(err))
}

func TestBezCurve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	pts := []geom.Vector{
		geom.V(0, 0, 0), geom.V(1, 1, 0), geom.V(2, 1, 0), geom.V(3, 0, 0),
		geom.V(4, -1, 0), geom.V(5, -1, 0), geom.V(6, 0, 0),
	}
	obj, err := MakeBezCurve(doc, pts, 3, false, WithFace(false))
	if err != nil {
		t.Fatal(err)
	}
	bz := obj.Proxy.(*BezCurve)
	assert.Equal(t, 2, bz.Segments())
	assert.Equal(t, 1, len(bz.Continuity))
	assert.True(t, geom.Equal(obj.Shape.Edges()[0].End(), geom.V(6, 0, 0)))
	//
	assert.NoError(t, obj.SetProperty("Points", pts[:6]))
	assert.Equal(t, core.EINVARIANT, core.Code(doc.RecomputeObject(obj.Handle())))
}

func TestSymmetricPoles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	p1, p2 := SymmetricPoles(geom.V(0, 0, 0), geom.V(-1, 1, 0), geom.V(3, 0, 0))
	assert.InDelta(t, geom.Dist(p1, geom.Origin), geom.Dist(p2, geom.Origin), eps)
	assert.True(t, geom.Collinear(p1, geom.Origin, p2))
}

func TestOrthoArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, _ := MakeRectangle(doc, 10, 5, WithFace(true))
	arr, err := MakeOrthoArray(doc, rect.Handle(), geom.V(20, 0, 0), geom.V(0, 10, 0), geom.V(0, 0, 0), 3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	a := arr.Proxy.(*Array)
	assert.Equal(t, 6, a.Count)
	assert.Equal(t, 6, len(a.PlacementList))
	assert.InDelta(t, 300, arr.Shape.Area(), eps)
	bb := arr.Shape.BoundBox()
	assert.InDelta(t, 50, bb.Size().X, eps)
}

func TestOrthoArrayExpanded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, _ := MakeRectangle(doc, 10, 5, WithFace(true))
	arr, err := MakeOrthoArray(doc, rect.Handle(), geom.V(20, 0, 0), geom.V(0, 10, 0), geom.V(0, 0, 0), 3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	a := arr.Proxy.(*Array)
	assert.Empty(t, a.Elements)
	assert.NoError(t, arr.SetProperty("ExpandArray", true))
	assert.NoError(t, doc.Recompute())
	assert.False(t, arr.HasShape(), "elements replace the combined shape")
	elements := func() []*document.Object {
		var els []*document.Object
		for _, in := range arr.InList() {
			if el := doc.Get(in); el.IsA("ArrayElement") {
				els = append(els, el)
			}
		}
		return els
	}
	els := elements()
	if !assert.Equal(t, 6, len(els)) {
		return
	}
	for _, el := range els {
		i := el.Proxy.(*ArrayElement).Index
		assert.True(t, el.Placement.Equal(a.PlacementList[i]), "placement of element %d", i)
		assert.InDelta(t, 50, el.Shape.Area(), eps)
		want := a.PlacementList[i].Apply(geom.Origin)
		assert.True(t, geom.Equal(want, el.Shape.BoundBox().Min), "element %d sits at its placement", i)
	}
	//
	assert.NoError(t, arr.SetProperty("NumberX", 2))
	assert.NoError(t, arr.SetProperty("IntervalY", geom.V(0, 30, 0)))
	assert.NoError(t, doc.Recompute())
	els = elements()
	if !assert.Equal(t, 4, len(els)) {
		return
	}
	assert.Equal(t, 4, len(a.Elements))
	for _, el := range els {
		i := el.Proxy.(*ArrayElement).Index
		assert.True(t, el.Placement.Equal(a.PlacementList[i]), "placement of element %d after recompute", i)
	}
	//
	assert.NoError(t, arr.SetProperty("ExpandArray", false))
	assert.NoError(t, doc.Recompute())
	assert.Empty(t, elements())
	assert.Empty(t, a.Elements)
	assert.InDelta(t, 200, arr.Shape.Area(), eps)
}

func TestOrthoArrayRejectsEmptyCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, _ := MakeRectangle(doc, 10, 5)
	_, err := MakeOrthoArray(doc, rect.Handle(), geom.V(20, 0, 0), geom.V(0, 10, 0), geom.V(0, 0, 0), 0, 2, 1)
	assert.Equal(t, core.EINVARIANT, core.Code(err))
	a := newArray(document.NoObject, "ortho")
	a.NumberY = -1
	_, err = a.Placements()
	assert.Equal(t, core.EINVARIANT, core.Code(err))
}

func TestPolarArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	line, _ := MakeLine(doc, geom.V(5, 0, 0), geom.V(10, 1, 0))
	arr, err := MakePolarArray(doc, line.Handle(), 6, 360, geom.Origin, geom.ZAxis)
	if err != nil {
		t.Fatal(err)
	}
	a := arr.Proxy.(*Array)
	assert.Equal(t, 6, a.Count)
	for k, pl := range a.PlacementList {
		ang := float64(k) * math.Pi / 3
		x := pl.ApplyDir(geom.XAxis)
		assert.True(t, geom.Equal(x, geom.V(math.Cos(ang), math.Sin(ang), 0)), "placement %d", k)
	}
	bb := arr.Shape.BoundBox()
	rotated := arr.Shape.Rotated(geom.Origin, geom.ZAxis, math.Pi/3).BoundBox()
	assert.True(t, bb.Equal(rotated, 1e-6), "array is symmetric under 60° rotation")
	assert.InDelta(t, 0, bb.Center().X, 1e-6)
	assert.InDelta(t, 0, bb.Center().Y, 1e-6)
}

func TestPolarArrayOpenAngle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	a := newArray(document.NoObject, "polar")
	a.NumberPolar, a.Angle = 3, 90
	pls, err := a.Placements()
	assert.NoError(t, err)
	last := pls[2].ApplyDir(geom.XAxis)
	assert.True(t, geom.Equal(last, geom.YAxis), "end points are inclusive for partial angles")
}

func TestCircularArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	a := newArray(document.NoObject, "circular")
	a.RadialDistance, a.TangentialDistance, a.NumberCircles = 10, 10, 3
	pls, err := a.Placements()
	assert.NoError(t, err)
	assert.Equal(t, 1+6+12, len(pls))
	a.Symmetry = 4
	pls, _ = a.Placements()
	assert.Equal(t, 1+4+12, len(pls))
	p := pls[1].Apply(geom.Origin)
	assert.InDelta(t, 10, geom.Length(p), eps, "first ring at radial distance")
}

func TestPathArrayClosed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	path, err := MakeWire(doc, []geom.Vector{
		geom.V(0, 0, 0), geom.V(40, 0, 0), geom.V(40, 20, 0), geom.V(0, 20, 0),
	}, true, WithFace(false))
	if err != nil {
		t.Fatal(err)
	}
	base, _ := MakeLine(doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	pa, err := MakePathArray(doc, base.Handle(), path.Handle(), nil, 4, true)
	if err != nil {
		t.Fatal(err)
	}
	proxy := pa.Proxy.(*PathArray)
	w, err := proxy.pathWire(doc)
	assert.NoError(t, err)
	pls, err := proxy.Placements(w)
	assert.NoError(t, err)
	expected := []geom.Vector{geom.V(0, 0, 0), geom.V(30, 0, 0), geom.V(40, 20, 0), geom.V(10, 20, 0)}
	for i, pl := range pls {
		assert.InDelta(t, 0, geom.Dist(pl.Base, expected[i]), 1e-3, "placement %d", i)
	}
	x := pls[1].ApplyDir(geom.XAxis)
	assert.True(t, geom.Equal(x, geom.XAxis), "aligned with the tangent")
	assert.Equal(t, 4, len(pa.Shape.Edges()))
	//
	assert.NoError(t, pa.SetProperty("Count", 1))
	assert.Equal(t, core.EINVARIANT, core.Code(doc.RecomputeObject(pa.Handle())))
}

func TestPointArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	pts := square(t, doc, 10, false)
	base, _ := MakeCircle(doc, 1, 0, 0, WithFace(false))
	arr, err := MakePointArray(doc, base.Handle(), pts.Handle())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 4, arr.Proxy.(*PointArray).Count)
	bb := arr.Shape.BoundBox()
	assert.InDelta(t, 12, bb.Size().X, 1e-3)
}

func TestClone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, _ := MakeRectangle(doc, 4, 2, WithFace(true))
	cl, err := MakeClone(doc, []document.Handle{rect.Handle()}, geom.V(2, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, document.Part2DObject, cl.TypeID)
	assert.InDelta(t, 32, cl.Shape.Area(), eps)
	//
	assert.NoError(t, rect.SetProperty("Length", 8.0))
	assert.NoError(t, doc.Recompute())
	assert.InDelta(t, 64, cl.Shape.Area(), eps, "clone follows its source")
}

func TestBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	a, _ := MakeRectangle(doc, 1, 1, WithFace(true))
	b, _ := MakeRectangle(doc, 2, 2, WithFace(true))
	blk, err := MakeBlock(doc, []document.Handle{a.Handle(), b.Handle()})
	if err != nil {
		t.Fatal(err)
	}
	assert.InDelta(t, 5, blk.Shape.Area(), eps)
	assert.False(t, a.View.Visibility)
	assert.Error(t, doc.RemoveObject(a.Handle(), false), "block components are referenced")
}

func TestLayer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	layer, err := MakeLayer(doc, "")
	if err != nil {
		t.Fatal(err)
	}
	doc.ActiveGroup = layer.Handle()
	line, _ := MakeLine(doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	assert.Equal(t, layer, doc.GroupOf(line.Handle()))
	assert.NoError(t, layer.SetProperty("LineColor", 0xff0000ff))
	assert.NoError(t, doc.Recompute())
	assert.Equal(t, uint32(0xff0000ff), line.View.LineColor)
	assert.NoError(t, doc.RemoveObject(line.Handle(), false), "layer membership is no dependency")
}

func TestLabel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, _ := MakeRectangle(doc, 4, 2, WithFace(true))
	lbl, err := MakeLabel(doc, geom.V(1, 1, 0), geom.V(5, 5, 0),
		document.LinkSub{Object: rect.Handle()}, LabelArea, nil)
	if err != nil {
		t.Fatal(err)
	}
	l := lbl.Proxy.(*Label)
	assert.Equal(t, []string{"8 mm²"}, l.Text)
	assert.Equal(t, 3, len(l.Points))
	assert.True(t, geom.Equal(l.Points[1], geom.V(6, 5, 0)))
	//
	assert.NoError(t, lbl.SetProperty("LabelType", LabelName))
	assert.NoError(t, lbl.SetProperty("Target", document.LinkSub{Object: rect.Handle(), Subs: []string{"Edge1"}}))
	assert.NoError(t, doc.Recompute())
	assert.Equal(t, []string{rect.Name}, l.Text)
	assert.NoError(t, lbl.SetProperty("LabelType", LabelLength))
	assert.NoError(t, doc.Recompute())
	assert.Equal(t, []string{"4 mm"}, l.Text)
}

func TestText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	txt, err := MakeText(doc, []string{"one", "two"}, geom.V(0, 10, 0))
	if err != nil {
		t.Fatal(err)
	}
	pos := txt.Proxy.(*Text).LinePositions(txt, 2, 1.5)
	assert.True(t, geom.Equal(pos[1], geom.V(0, 7, 0)), "lines run top-down")
}

func TestShapeString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	ss, err := MakeShapeString(doc, "HI", "", 10, 0, WithFace(true))
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, ss.HasShape())
	assert.True(t, len(ss.Shape.Faces()) >= 2)
	bb := ss.Shape.BoundBox()
	assert.True(t, bb.Size().Y <= 10+eps)
	_, err = MakeShapeString(doc, "x", "", 0, 0)
	assert.Equal(t, core.EPRECONDITION, core.Code(err))
}

func TestShape2DView(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, _ := MakeRectangle(doc, 4, 2, WithFace(true))
	view, err := MakeShape2DView(doc, rect.Handle(), geom.ZAxis, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 4, len(view.Shape.Edges()))
	assert.InDelta(t, 12, view.Shape.Length(), eps)
	//
	assert.NoError(t, view.SetProperty("Projection", geom.Vector{}))
	assert.Equal(t, core.EINVARIANT, core.Code(doc.RecomputeObject(view.Handle())))
}

func TestFacebinder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	rect, _ := MakeRectangle(doc, 4, 2, WithFace(true))
	fb, err := MakeFacebinder(doc, []document.LinkSub{{Object: rect.Handle(), Subs: []string{"Face1"}}})
	if err != nil {
		t.Fatal(err)
	}
	assert.InDelta(t, 8, fb.Proxy.(*Facebinder).Area, eps)
	assert.NoError(t, fb.SetProperty("Extrusion", 3.0))
	assert.NoError(t, doc.Recompute())
	assert.InDelta(t, 24, fb.Shape.Volume(), 1e-6)
}

func TestWorkingPlaneProxy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.objects")
	defer teardown()
	//
	doc := document.New("test")
	line, _ := MakeLine(doc, geom.V(0, 0, 0), geom.V(1, 0, 0))
	plane := workingplane.New()
	assert.NoError(t, plane.AlignToPointAndAxis(geom.Origin, geom.YAxis, 0))
	obj, err := MakeWorkingPlaneProxy(doc, plane)
	if err != nil {
		t.Fatal(err)
	}
	wp := obj.Proxy.(*WorkingPlaneProxy)
	assert.True(t, wp.VisibilityMap[line.Name])
	line.View.Visibility = false
	assert.NoError(t, obj.SetProperty("RestoreState", true))
	other := workingplane.New()
	assert.NoError(t, other.AlignToPointAndAxis(geom.Origin, geom.XAxis, 0))
	wp.Apply(obj, other)
	assert.True(t, geom.Equal(other.GetNormal(), geom.YAxis))
	assert.True(t, line.View.Visibility)
}
