package modifiers

import (
	"math"
	"math/cmplx"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/draft/engine/sketch"
	"github.com/npillmayer/draft/engine/workingplane"
)

// SketchOptions control MakeSketch.
type SketchOptions struct {
	Name        string // name of the new sketch
	Constraints bool   // add coincidence, orientation and radius constraints
	Delete      bool   // delete the converted objects
}

// MakeSketch converts planar objects into a single sketch. All objects
// must lie in a common plane, which becomes the plane of the sketch.
func MakeSketch(objs []*document.Object, opts SketchOptions) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	pl, err := sketchPlacement(objs)
	if err != nil {
		return nil, err
	}
	return run(doc, "Make sketch", opts.Delete, func(r *Result) error {
		obj, err := sketch.Make(doc, opts.Name, pl)
		if err != nil {
			return err
		}
		b := &sketcher{obj: obj, sk: obj.Proxy.(*sketch.Sketch), constrain: opts.Constraints,
			radii: make(map[float64]int)}
		for _, o := range objs {
			if err := b.convert(o); err != nil {
				return err
			}
			r.remove(o)
		}
		tracer().Infof("sketch %s: %d geometries, %d constraints", obj.Name, len(b.sk.Geometry), len(b.sk.Constraints))
		r.add(obj)
		return nil
	})
}

// sketchPlacement finds the common plane of objects. The sketch origin is
// the projection of the world origin onto that plane.
func sketchPlacement(objs []*document.Object) (geom.Placement, error) {
	var pts []geom.Vector
	for _, obj := range objs {
		if obj.HasShape() {
			pts = append(pts, obj.Shape.Vertexes()...)
			for _, e := range obj.Shape.Edges() {
				pts = append(pts, e.Mid())
			}
		}
	}
	origin, n, ok := kernel.FindPlane(pts)
	if !ok {
		if len(pts) == 0 {
			return geom.Placement{}, core.Error(core.EPRECONDITION, "no geometry to put into a sketch")
		}
		wp := workingplane.Active()
		origin, n = wp.Position, wp.GetNormal()
		for _, p := range pts {
			if math.Abs(geom.Dot(geom.Sub(p, origin), n)) > geom.Tolerance() {
				return geom.Placement{}, core.Error(core.EGEOMETRY, "objects do not lie in a common plane")
			}
		}
	}
	u, v := geom.PlaneBasis(n)
	base := geom.ProjectOnPlane(geom.Origin, origin, n)
	return geom.NewPlacement(base, geom.RotationFromBasis(u, v, geom.Normalize(n))), nil
}

// sketcher adds the geometry of objects to a sketch.
type sketcher struct {
	obj       *document.Object
	sk        *sketch.Sketch
	constrain bool
	radii     map[float64]int // rounded radius → first circle with it
}

func (b *sketcher) local(v geom.Vector) arithm.Pair {
	return sketch.Local(b.obj, v)
}

func (b *sketcher) constraint(c sketch.Constraint) {
	if !b.constrain {
		return
	}
	if _, err := b.sk.AddConstraint(c); err != nil {
		tracer().Errorf("cannot add constraint %s: %v", c, err)
	}
}

func (b *sketcher) convert(obj *document.Object) error {
	switch p := obj.Proxy.(type) {
	case *draft.Rectangle:
		b.polyline(globalPoints(obj, p.Corners()), true)
		return nil
	case *draft.Wire:
		if p.FilletRadius == 0 && p.ChamferSize == 0 {
			b.polyline(globalPoints(obj, kernel.DedupPoints(p.Points, p.Closed)), p.Closed)
			return nil
		}
	case *draft.BSpline:
		b.spline(globalPoints(obj, p.Points), 0, p.Closed)
		return nil
	case *draft.BezCurve:
		b.spline(globalPoints(obj, p.Points), p.Degree, p.Closed)
		return nil
	case *draft.Point:
		b.sk.AddGeometry(sketch.Point(b.local(p.Position())))
		return nil
	}
	if !obj.HasShape() {
		tracer().Infof("%s has no shape, not added to sketch", obj.Name)
		return nil
	}
	for _, e := range obj.Shape.Edges() {
		if err := b.edge(e); err != nil {
			return err
		}
	}
	return nil
}

// polyline adds connected lines with coincidence constraints between them.
func (b *sketcher) polyline(pts []geom.Vector, closed bool) {
	n := len(pts) - 1
	if closed {
		n++
	}
	if n < 1 {
		return
	}
	first := -1
	for i := 0; i < n; i++ {
		a, c := b.local(pts[i]), b.local(pts[(i+1)%len(pts)])
		g := b.sk.AddGeometry(sketch.Line(a, c))
		if first < 0 {
			first = g
		} else {
			b.constraint(sketch.NewCoincident(g-1, sketch.End, g, sketch.Start))
		}
		b.orientation(g, a, c)
	}
	if closed {
		b.constraint(sketch.NewCoincident(first+n-1, sketch.End, first, sketch.Start))
	}
}

// orientation constrains axis-parallel lines.
func (b *sketcher) orientation(g int, a, c arithm.Pair) {
	d := c.C() - a.C()
	switch {
	case math.Abs(imag(d)) < geom.Tolerance():
		b.constraint(sketch.NewHorizontal(g))
	case math.Abs(real(d)) < geom.Tolerance():
		b.constraint(sketch.NewVertical(g))
	}
}

// spline adds a spline and construction points at its nodes or poles.
func (b *sketcher) spline(pts []geom.Vector, degree int, closed bool) {
	loc := make([]arithm.Pair, len(pts))
	for i, p := range pts {
		loc[i] = b.local(p)
	}
	sp := b.sk.AddGeometry(sketch.Spline(loc, degree, closed))
	if !b.constrain {
		return
	}
	for i, p := range loc {
		pt := sketch.Point(p)
		pt.Construction = true
		b.constraint(sketch.NewInternalAlignment(b.sk.AddGeometry(pt), sp, i))
	}
}

// circle adds a radius constraint for the first circle of a radius and
// equality constraints for the others.
func (b *sketcher) circle(g int, r float64) {
	prec := parameters.Global().Int(parameters.Precision)
	f := math.Pow(10, float64(prec))
	key := math.Round(r*f) / f
	if first, ok := b.radii[key]; ok {
		b.constraint(sketch.NewEqual(first, g))
		return
	}
	b.radii[key] = g
	b.constraint(sketch.NewRadius(g, key))
}

// edge adds the geometry of a single edge.
func (b *sketcher) edge(e *kernel.Edge) error {
	if _, ok := e.Line(); ok {
		a, c := b.local(e.Start()), b.local(e.End())
		b.orientation(b.sk.AddGeometry(sketch.Line(a, c)), a, c)
		return nil
	}
	if circ, ok := e.Circle(); ok {
		center := b.local(circ.Center)
		if !circ.IsCircle() {
			xdir := b.local(geom.Add(circ.Center, circ.XDir)).C() - center.C()
			b.sk.AddGeometry(sketch.Ellipse(center, circ.Radius, circ.Minor, cmplx.Phase(xdir)))
			return nil
		}
		var g int
		if e.IsClosed() {
			g = b.sk.AddGeometry(sketch.Circle(center, circ.Radius))
		} else {
			s, t := e.Start(), e.End()
			if e.IsReversed() {
				s, t = t, s
			}
			// arcs run counter-clockwise in the sketch
			if geom.Dot(circ.Axis, b.obj.Placement.ApplyDir(geom.ZAxis)) < 0 {
				s, t = t, s
			}
			first := cmplx.Phase(b.local(s).C() - center.C())
			last := cmplx.Phase(b.local(t).C() - center.C())
			g = b.sk.AddGeometry(sketch.Arc(center, circ.Radius, first, last))
		}
		b.circle(g, circ.Radius)
		return nil
	}
	pts := e.Polyline()
	closed := e.IsClosed()
	if closed {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 {
		return core.Error(core.EGEOMETRY, "cannot convert degenerate edge %s", e)
	}
	b.spline(pts, 0, closed)
	return nil
}
