package modifiers

import (
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/units"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
)

// TrimOptions control Trimex.
type TrimOptions struct {
	Ref   *kernel.Edge // trim or extend up to this edge, taken as infinite
	Alt   bool         // move the end farther from the pick point
	Force float64      // if positive, the resulting length of a straight edge
}

// Trimex trims or extends edge number e of an object. The end of the edge
// nearest to pick is moved: onto the reference edge if one is given, else
// to the projection of pick onto the (extended) edge.
//
// Wires, lines and arcs keep their type; a rectangle changes its
// dimensions.
func Trimex(obj *document.Object, e int, pick geom.Vector, opts TrimOptions) (*Result, error) {
	if obj == nil || obj.Document() == nil || !obj.HasShape() {
		return nil, core.Error(core.EPRECONDITION, "no object with a shape to trim")
	}
	edges := obj.Shape.Edges()
	if e < 0 || e >= len(edges) {
		return nil, core.Error(core.EINVALID, "%s has no edge %d", obj.Name, e)
	}
	edge := edges[e]
	atEnd := geom.Dist(pick, edge.End()) < geom.Dist(pick, edge.Start())
	if opts.Alt {
		atEnd = !atEnd
	}
	q, err := trimPoint(edge, atEnd, pick, opts)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("trimex %s edge %d: moving %s end to %s", obj.Name, e, endName(atEnd), geom.VString(q))
	return run(obj.Document(), "Trimex", false, func(r *Result) error {
		return moveEdgeEnd(obj, e, atEnd, q)
	})
}

func endName(atEnd bool) string {
	if atEnd {
		return "last"
	}
	return "first"
}

// trimPoint finds the new position of an end of an edge.
func trimPoint(edge *kernel.Edge, atEnd bool, pick geom.Vector, opts TrimOptions) (geom.Vector, error) {
	fixed, moving := edge.End(), edge.Start()
	if atEnd {
		fixed, moving = moving, fixed
	}
	var q geom.Vector
	if opts.Ref != nil {
		pts := kernel.Intersect(edge, opts.Ref, true, true)
		if len(pts) == 0 {
			return q, core.Error(core.EGEOMETRY, "edges do not intersect")
		}
		q = nearest(pts, moving)
	} else {
		q = kernel.ProjectPointOnEdge(pick, edge, true)
	}
	if _, ok := edge.Line(); ok && opts.Force > 0 {
		dir := geom.Normalize(geom.Sub(q, fixed))
		if geom.IsNull(dir) {
			dir = geom.Normalize(geom.Sub(moving, fixed))
		}
		q = geom.Add(fixed, geom.Scale(opts.Force, dir))
	}
	if geom.Coincident(q, fixed) {
		return q, core.Error(core.EGEOMETRY, "trimming would collapse the edge")
	}
	return q, nil
}

func nearest(pts []geom.Vector, p geom.Vector) geom.Vector {
	best, dmin := pts[0], math.Inf(1)
	for _, q := range pts {
		if d := geom.Dist(p, q); d < dmin {
			best, dmin = q, d
		}
	}
	return best
}

// moveEdgeEnd moves the start (or end) of edge e of an entity to world
// point q.
func moveEdgeEnd(obj *document.Object, e int, atEnd bool, q geom.Vector) error {
	local := obj.Placement.ApplyInverse(q)
	switch p := obj.Proxy.(type) {
	case *draft.Wire:
		if p.FilletRadius > 0 || p.ChamferSize > 0 || p.Subdivisions > 0 {
			return core.Error(core.EPRECONDITION, "cannot trim %s with rounded corners or subdivisions", obj.Name)
		}
		// edges are numbered along the deduplicated point list
		pts := kernel.DedupPoints(p.Points, p.Closed)
		if e >= len(pts) {
			return core.Error(core.EINVALID, "%s has no edge %d", obj.Name, e)
		}
		i := e
		if atEnd {
			i = (e + 1) % len(pts)
		}
		pts[i] = local
		return obj.SetProperty("Points", pts)
	case *draft.Circle:
		if p.IsFull() {
			return core.Error(core.EPRECONDITION, "cannot trim the full circle %s", obj.Name)
		}
		angle := units.Degrees(math.Atan2(local.Y, local.X))
		if atEnd {
			return obj.SetProperty("LastAngle", angle)
		}
		return obj.SetProperty("FirstAngle", angle)
	case *draft.Rectangle:
		return trimRectangle(obj, p, e, atEnd, local)
	}
	return core.Error(core.EPRECONDITION, "cannot trim objects of type %s", obj.ProxyType())
}

// trimRectangle moves the side of a rectangle opposite to edge e's moving
// corner. Moving a side at the local origin shifts the placement.
func trimRectangle(obj *document.Object, r *draft.Rectangle, e int, atEnd bool, q geom.Vector) error {
	c := e
	if atEnd {
		c = (e + 1) % 4
	}
	corner := r.Corners()[c]
	size, axis, coord, cq := "Length", geom.XAxis, corner.X, q.X
	if e%2 == 1 {
		size, axis, coord, cq = "Height", geom.YAxis, corner.Y, q.Y
	}
	cur := r.Length
	if size == "Height" {
		cur = r.Height
	}
	if math.Abs(coord) > geom.Epsilon() { // far side
		if math.Abs(cq) < geom.Tolerance() {
			return core.Error(core.EGEOMETRY, "trimming would collapse %s", obj.Name)
		}
		return obj.SetProperty(size, cq)
	}
	if math.Abs(cur-cq) < geom.Tolerance() {
		return core.Error(core.EGEOMETRY, "trimming would collapse %s", obj.Name)
	}
	pl := obj.Placement
	pl.Base = geom.Add(pl.Base, pl.ApplyDir(geom.Scale(cq, axis)))
	if err := obj.SetProperty("Placement", pl); err != nil {
		return err
	}
	return obj.SetProperty(size, cur-cq)
}

// TrimBetween trims or extends two straight edges so that they meet at
// their intersection. The end of each edge nearer to the intersection is
// moved.
func TrimBetween(a, b *document.Object) (*Result, error) {
	doc, err := documentOf([]*document.Object{a, b})
	if err != nil {
		return nil, err
	}
	ea, err := singleEdge(a)
	if err != nil {
		return nil, err
	}
	eb, err := singleEdge(b)
	if err != nil {
		return nil, err
	}
	pts := kernel.Intersect(ea, eb, true, true)
	if len(pts) != 1 {
		return nil, core.Error(core.EGEOMETRY, "%s and %s intersect in %d points, need exactly 1", a.Name, b.Name, len(pts))
	}
	q := pts[0]
	return run(doc, "Trim", false, func(r *Result) error {
		for _, obj := range []*document.Object{a, b} {
			e := obj.Shape.Edges()[0]
			atEnd := geom.Dist(q, e.End()) < geom.Dist(q, e.Start())
			if err := moveEdgeEnd(obj, 0, atEnd, q); err != nil {
				return err
			}
		}
		return nil
	})
}

func singleEdge(obj *document.Object) (*kernel.Edge, error) {
	if !obj.HasShape() || len(obj.Shape.Edges()) != 1 {
		return nil, core.Error(core.EPRECONDITION, "%s is not a single edge", obj.Name)
	}
	return obj.Shape.Edges()[0], nil
}

// ExtrudeFace extrudes the single face of an object by dist along dir, or
// along the face normal if dir is nil. The result is a new feature; the
// original is hidden.
func ExtrudeFace(obj *document.Object, dist float64, dir *geom.Vector) (*Result, error) {
	if obj == nil || obj.Document() == nil || !obj.HasShape() {
		return nil, core.Error(core.EPRECONDITION, "no object with a shape to extrude")
	}
	faces := obj.Shape.Faces()
	if len(faces) != 1 {
		return nil, core.Error(core.EPRECONDITION, "%s has %d faces, need exactly 1", obj.Name, len(faces))
	}
	d := faces[0].Normal()
	if dir != nil {
		d = *dir
	}
	if geom.IsNull(d) || math.Abs(dist) < geom.Epsilon() {
		return nil, core.Error(core.EPRECONDITION, "extrusion vector is null")
	}
	v := geom.Scale(dist, geom.Normalize(d))
	return run(obj.Document(), "Extrude", false, func(r *Result) error {
		solid, err := kernel.Extrude(faces[0].Shape(), v)
		if err != nil {
			return err
		}
		ext := newFeature(obj.Document(), "Extrusion", solid, obj)
		r.add(ext)
		hide(obj)
		return nil
	})
}
