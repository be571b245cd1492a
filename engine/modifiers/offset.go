package modifiers

import (
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/draft/engine/workingplane"
)

// OffsetOptions control Offset.
type OffsetOptions struct {
	Copy bool // keep the original and create a new object
	Sym  bool // offset by d/2 to both sides
	Bind bool // connect original and offset to a face
	Occ  bool // let the kernel offset the shape, rounding convex corners
}

// Offset moves the outline of a planar object by distance d. Closed
// outlines grow for positive distances and shrink for negative ones; open
// wires are offset to the left of their direction for positive distances.
//
// Rectangles, circles, polygons, wires and B-splines keep their type.
// Other objects, and every offset in Sym, Bind or Occ mode, result in a
// plain feature carrying the offset shape.
func Offset(obj *document.Object, d float64, opts OffsetOptions) (*Result, error) {
	if obj == nil || obj.Document() == nil {
		return nil, core.Error(core.EPRECONDITION, "no object to offset")
	}
	if !obj.HasShape() {
		return nil, core.Error(core.EPRECONDITION, "%s has no shape to offset", obj.Name)
	}
	doc := obj.Document()
	n := planeNormal(obj.Shape)
	return run(doc, "Offset", true, func(r *Result) error {
		if !opts.Sym && !opts.Bind && !opts.Occ && offsetsParametric(obj) {
			target := obj
			if opts.Copy {
				target = copyObject(obj)
				r.add(target)
			}
			return offsetParametric(target, d, n)
		}
		s, err := offsetShape(obj.Shape, d, n, opts)
		if err != nil {
			return err
		}
		r.add(newFeature(doc, "Offset", s, obj))
		if !opts.Copy {
			r.remove(obj)
		}
		return nil
	})
}

// planeNormal returns the normal of a planar shape, or the axis of the
// working plane.
func planeNormal(s *kernel.Shape) geom.Vector {
	if _, n, ok := s.Plane(); ok {
		return n
	}
	return workingplane.Active().GetNormal()
}

// offsetsParametric is true for entities whose parameters survive an
// offset.
func offsetsParametric(obj *document.Object) bool {
	switch p := obj.Proxy.(type) {
	case *draft.Rectangle, *draft.Circle, *draft.Polygon, *draft.BSpline:
		return true
	case *draft.Wire:
		return p.FilletRadius == 0 && p.ChamferSize == 0 && p.Subdivisions == 0 &&
			p.Base == document.NoObject && len(p.Points) > 1
	}
	return false
}

func offsetParametric(obj *document.Object, d float64, n geom.Vector) error {
	switch p := obj.Proxy.(type) {
	case *draft.Rectangle:
		corners, err := offsetPolygon(globalPoints(obj, p.Corners()), true, d, n)
		if err != nil {
			return err
		}
		if len(corners) != 4 {
			return core.Error(core.EGEOMETRY, "offset of %s is not a rectangle", obj.Name)
		}
		// project the diagonal onto the sides
		u := obj.Placement.ApplyDir(geom.XAxis)
		v := obj.Placement.ApplyDir(geom.YAxis)
		diag := geom.Sub(corners[2], corners[0])
		pl := obj.Placement
		pl.Base = corners[0]
		if err := obj.SetProperty("Placement", pl); err != nil {
			return err
		}
		if err := obj.SetProperty("Length", geom.Dot(diag, u)); err != nil {
			return err
		}
		return obj.SetProperty("Height", geom.Dot(diag, v))
	case *draft.Circle:
		r := p.Radius + d
		if r <= geom.Epsilon() {
			return core.Error(core.EGEOMETRY, "offset %g collapses %s", d, obj.Name)
		}
		return obj.SetProperty("Radius", r)
	case *draft.Polygon:
		r := p.Radius + d // the apothem grows by d
		if p.DrawMode.Is("inscribed") {
			r = p.Radius + d/math.Cos(math.Pi/float64(p.FacesNumber))
		}
		if r <= geom.Epsilon() {
			return core.Error(core.EGEOMETRY, "offset %g collapses %s", d, obj.Name)
		}
		return obj.SetProperty("Radius", r)
	case *draft.Wire:
		pts, err := offsetPolygon(globalPoints(obj, p.Points), p.Closed, d, n)
		if err != nil {
			return err
		}
		return obj.SetProperty("Points", localPoints(obj, pts))
	case *draft.BSpline:
		pts, err := offsetNodes(obj, p, d, n)
		if err != nil {
			return err
		}
		return obj.SetProperty("Points", localPoints(obj, pts))
	}
	return core.Error(core.EPRECONDITION, "cannot offset %s parametrically", obj.Name)
}

func localPoints(obj *document.Object, pts []geom.Vector) []geom.Vector {
	l := make([]geom.Vector, len(pts))
	for i, p := range pts {
		l[i] = obj.Placement.ApplyInverse(p)
	}
	return l
}

// signedArea is the area enclosed by a polygon, positive if it runs
// counter-clockwise around n.
func signedArea(pts []geom.Vector, n geom.Vector) float64 {
	var a geom.Vector
	for i, p := range pts {
		a = geom.Add(a, geom.Cross(p, pts[(i+1)%len(pts)]))
	}
	return geom.Dot(a, geom.Normalize(n)) / 2
}

// growSign returns the factor turning a distance into a kernel offset
// which grows a closed outline.
func growSign(pts []geom.Vector, closed bool, n geom.Vector) float64 {
	if closed && signedArea(pts, n) > 0 {
		return -1 // the left side is the inside
	}
	return 1
}

// offsetPolygon offsets a polyline. The offset points correspond to the
// input points.
func offsetPolygon(pts []geom.Vector, closed bool, d float64, n geom.Vector) ([]geom.Vector, error) {
	w, err := kernel.MakePolygon(pts, closed)
	if err != nil {
		return nil, err
	}
	ow, err := kernel.OffsetWire(w, growSign(pts, closed, n)*d, n, kernel.JoinMiter)
	if err != nil {
		return nil, err
	}
	return ow.Points(), nil
}

// offsetNodes moves every node of a spline by d, perpendicular to the
// curve at the node.
func offsetNodes(obj *document.Object, b *draft.BSpline, d float64, n geom.Vector) ([]geom.Vector, error) {
	nodes := globalPoints(obj, b.Points)
	edges := obj.Shape.Edges()
	if len(edges) != 1 {
		return nil, core.Error(core.EGEOMETRY, "%s is not a single curve", obj.Name)
	}
	e := edges[0]
	knots, err := draft.GetSplineParameters(b)
	if err != nil {
		return nil, err
	}
	sign := growSign(nodes, b.Closed, n)
	out := make([]geom.Vector, len(nodes))
	for i, p := range nodes {
		u := e.EdgeParameter(knots[i])
		left := geom.Normalize(geom.Cross(n, e.TangentAt(u)))
		out[i] = geom.Add(p, geom.Scale(sign*d, left))
	}
	return out, nil
}

// wiresOf returns the wires of a shape. Edges outside of wires are chained
// to wires.
func wiresOf(s *kernel.Shape) []*kernel.Wire {
	if ws := s.Wires(); len(ws) > 0 {
		return ws
	}
	var ws []*kernel.Wire
	for _, chain := range kernel.SortEdges(s.Edges()) {
		if w, err := kernel.MakeWire(chain); err == nil {
			ws = append(ws, w)
		}
	}
	return ws
}

// offsetShape offsets all faces or, if there are none, all wires of a
// shape.
func offsetShape(s *kernel.Shape, d float64, n geom.Vector, opts OffsetOptions) (*kernel.Shape, error) {
	join := kernel.JoinMiter
	if opts.Occ {
		join = kernel.JoinArc
	}
	var parts []*kernel.Shape
	if faces := s.Faces(); len(faces) > 0 && !opts.Sym && !opts.Bind {
		for _, f := range faces {
			of, err := kernel.OffsetFace(f, d, join)
			if err != nil {
				return nil, err
			}
			parts = append(parts, of.Shape())
		}
	} else {
		for _, w := range wiresOf(s) {
			p, err := offsetWire(w, d, n, join, opts)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
	}
	switch len(parts) {
	case 0:
		return nil, core.Error(core.EGEOMETRY, "nothing to offset")
	case 1:
		return parts[0], nil
	}
	return kernel.MakeCompound(parts...), nil
}

func offsetWire(w *kernel.Wire, d float64, n geom.Vector, join kernel.JoinType, opts OffsetOptions) (*kernel.Shape, error) {
	sign := growSign(w.Polyline(), w.IsClosed(), n)
	off := func(dist float64) (*kernel.Wire, error) {
		return kernel.OffsetWire(w, sign*dist, n, join)
	}
	if opts.Sym {
		a, err := off(d / 2)
		if err != nil {
			return nil, err
		}
		b, err := off(-d / 2)
		if err != nil {
			return nil, err
		}
		if opts.Bind {
			return bindWires(a, b)
		}
		return kernel.MakeCompound(a.Shape(), b.Shape()), nil
	}
	o, err := off(d)
	if err != nil {
		return nil, err
	}
	if opts.Bind {
		return bindWires(w, o)
	}
	return o.Shape(), nil
}

// bindWires creates a face between two wires. Closed wires bound a ring,
// open wires are connected at their ends.
func bindWires(a, b *kernel.Wire) (*kernel.Shape, error) {
	if a.IsClosed() && b.IsClosed() {
		f, err := kernel.MakeFace(a, b)
		if err != nil {
			return nil, err
		}
		return f.Shape(), nil
	}
	edges := append([]*kernel.Edge(nil), a.Edges()...)
	if !geom.Coincident(a.End(), b.End()) {
		l, err := kernel.MakeLine(a.End(), b.End())
		if err != nil {
			return nil, err
		}
		edges = append(edges, l)
	}
	edges = append(edges, b.Reversed().Edges()...)
	if !geom.Coincident(b.Start(), a.Start()) {
		l, err := kernel.MakeLine(b.Start(), a.Start())
		if err != nil {
			return nil, err
		}
		edges = append(edges, l)
	}
	w, err := kernel.MakeWire(edges)
	if err != nil {
		return nil, err
	}
	f, err := kernel.MakeFace(w)
	if err != nil {
		return nil, err
	}
	return f.Shape(), nil
}
