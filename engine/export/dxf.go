package export

import (
	"fmt"
	"io"
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/units"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
	"seehuhn.de/go/geom/vec"
)

// dxfWriter emits group code / value pairs.
type dxfWriter struct {
	w    *errWriter
	view *View
}

func (dw *dxfWriter) group(code int, value string) {
	fmt.Fprintf(dw.w, "%3d\n%s\n", code, value)
}

func (dw *dxfWriter) float(code int, x float64) {
	dw.group(code, num(x))
}

// point writes a point with codes base, base+10 and base+20.
func (dw *dxfWriter) point(base int, p vec.Vec2) {
	dw.float(base, p.X)
	dw.float(base+10, p.Y)
	dw.float(base+20, 0)
}

func (dw *dxfWriter) entity(kind, layer string) {
	dw.group(0, kind)
	dw.group(8, layer)
}

// DXF writes the DXF entities of an object, projected along dir. Objects of
// unknown type write nothing.
func DXF(w io.Writer, obj *document.Object, dir geom.Vector) error {
	if obj == nil {
		return core.Error(core.EPRECONDITION, "no object to export")
	}
	dw := &dxfWriter{w: &errWriter{w: w}, view: NewView(dir)}
	dw.object(obj)
	return dw.w.err
}

// DXFDocument writes a minimal DXF file holding an ENTITIES section with
// all visible objects.
func DXFDocument(w io.Writer, objs []*document.Object, dir geom.Vector) error {
	dw := &dxfWriter{w: &errWriter{w: w}, view: NewView(dir)}
	dw.group(0, "SECTION")
	dw.group(2, "ENTITIES")
	n := 0
	for _, obj := range objs {
		if obj == nil || (obj.View != nil && !obj.View.Visibility) {
			continue
		}
		dw.object(obj)
		n++
	}
	dw.group(0, "ENDSEC")
	dw.group(0, "EOF")
	tracer().Debugf("exported %d objects to DXF", n)
	return dw.w.err
}

// layerName returns the name of the layer holding obj, or layer 0.
func layerName(obj *document.Object) string {
	if doc := obj.Document(); doc != nil {
		if g := doc.GroupOf(obj.Handle()); g != nil && g.IsA("Layer") {
			return g.Label
		}
	}
	return "0"
}

// styleOf returns the style of an object, or the default style.
func styleOf(obj *document.Object) *document.ViewObject {
	if obj.View != nil {
		return obj.View
	}
	return document.NewViewObject()
}

func (dw *dxfWriter) object(obj *document.Object) {
	layer := layerName(obj)
	h := styleOf(obj).FontSize
	switch p := obj.Proxy.(type) {
	case *draft.Dimension:
		dw.dimension(obj, p)
	case *draft.Text:
		dw.texts(layer, p.LinePositions(obj, h, 1), p.Text, h)
	case *draft.Label:
		dw.polyline(layer, p.Points, false)
		dw.texts(layer, labelLines(obj, p, h), p.Text, h)
	case *draft.AngularDimension:
		dw.shape(layer, obj.Shape)
		dw.texts(layer, []geom.Vector{p.Dimline}, []string{p.Text}, h)
	case *draft.Point:
		dw.entity("POINT", layer)
		dw.point(10, dw.view.Project(p.Position()))
	default:
		if !obj.HasShape() {
			tracer().Errorf("no DXF export for %s of type %s", obj.Name, obj.ProxyType())
			return
		}
		dw.shape(layer, obj.Shape)
	}
}

// dimension writes a linear dimension as an aligned DIMENSION entity.
func (dw *dxfWriter) dimension(obj *document.Object, d *draft.Dimension) {
	if !obj.HasShape() || len(obj.Shape.Edges()) == 0 {
		tracer().Errorf("dimension %s has no geometry, not exported", obj.Name)
		return
	}
	dimline := obj.Shape.Edges()[0]
	dw.entity("DIMENSION", "0")
	dw.group(3, "Standard")
	dw.point(10, dw.view.Project(dimline.End()))
	dw.point(11, dw.view.Project(dimline.Mid()))
	dw.group(70, "1")
	dw.group(1, d.Text)
	dw.point(13, dw.view.Project(d.Start))
	dw.point(14, dw.view.Project(d.End))
}

// texts writes one TEXT entity per line.
func (dw *dxfWriter) texts(layer string, at []geom.Vector, lines []string, h float64) {
	for i, line := range lines {
		if i >= len(at) {
			break
		}
		dw.entity("TEXT", layer)
		dw.point(10, dw.view.Project(at[i]))
		dw.float(40, h)
		dw.group(1, line)
		dw.group(7, "Standard")
	}
}

// polyline writes world points as a LWPOLYLINE.
func (dw *dxfWriter) polyline(layer string, pts []geom.Vector, closed bool) {
	if len(pts) < 2 {
		return
	}
	proj := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		proj[i] = dw.view.Project(p)
	}
	dw.lwpolyline(layer, proj, closed)
}

func (dw *dxfWriter) lwpolyline(layer string, pts []vec.Vec2, closed bool) {
	dw.entity("LWPOLYLINE", layer)
	dw.group(90, fmt.Sprint(len(pts)))
	flag := "0"
	if closed {
		flag = "1"
	}
	dw.group(70, flag)
	for _, p := range pts {
		dw.float(10, p.X)
		dw.float(20, p.Y)
	}
}

// shape writes the projection of a shape. Chains of straight edges become
// polylines; all other edges are written one by one.
func (dw *dxfWriter) shape(layer string, s *kernel.Shape) {
	if s.IsNull() {
		return
	}
	var loose []*kernel.Edge
	for _, chain := range kernel.SortEdges(dw.view.ProjectEdges(s.Edges())) {
		if len(chain) < 2 || !straight(chain) {
			loose = append(loose, chain...)
			continue
		}
		w, err := kernel.MakeWire(chain)
		if err != nil {
			loose = append(loose, chain...)
			continue
		}
		pts := w.Points()
		closed := w.IsClosed()
		if closed && len(pts) > 1 && geom.Coincident(pts[0], pts[len(pts)-1]) {
			pts = pts[:len(pts)-1]
		}
		proj := make([]vec.Vec2, len(pts))
		for i, p := range pts {
			proj[i] = vec.Vec2{X: p.X, Y: p.Y}
		}
		dw.lwpolyline(layer, proj, closed)
	}
	for _, e := range loose {
		dw.edge(layer, e)
	}
}

func straight(edges []*kernel.Edge) bool {
	for _, e := range edges {
		if _, ok := e.Line(); !ok {
			return false
		}
	}
	return true
}

func flat(p geom.Vector) vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}

// edge writes a single projected edge.
func (dw *dxfWriter) edge(layer string, e *kernel.Edge) {
	if _, ok := e.Line(); ok {
		dw.entity("LINE", layer)
		dw.point(10, flat(e.Start()))
		dw.point(11, flat(e.End()))
		return
	}
	if c, ok := e.Circle(); ok && c.IsCircle() {
		if e.IsClosed() {
			dw.entity("CIRCLE", layer)
			dw.point(10, flat(c.Center))
			dw.float(40, c.Radius)
			return
		}
		// DXF arcs run counter-clockwise
		s, t := flat(e.Start()), flat(e.End())
		if turn(s, flat(e.Mid()), t) < 0 {
			s, t = t, s
		}
		center := flat(c.Center)
		dw.entity("ARC", layer)
		dw.point(10, center)
		dw.float(40, c.Radius)
		dw.float(50, degrees(s.Sub(center)))
		dw.float(51, degrees(t.Sub(center)))
		return
	}
	pts := e.Polyline()
	closed := e.IsClosed()
	if closed {
		pts = pts[:len(pts)-1]
	}
	proj := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		proj[i] = flat(p)
	}
	dw.lwpolyline(layer, proj, closed)
}

// degrees returns the direction of v in degrees within [0,360).
func degrees(v vec.Vec2) float64 {
	a := units.Degrees(math.Atan2(v.Y, v.X))
	if a < 0 {
		a += 360
	}
	return a
}
