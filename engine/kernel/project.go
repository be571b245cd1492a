package kernel

import (
	"math"
	"sort"

	"github.com/npillmayer/draft/core/geom"
)

// ViewMatrix returns the transformation projecting world coordinates along
// dir onto the XY plane. The plane's u and v directions become the X and Y
// axes.
func ViewMatrix(dir geom.Vector) geom.Matrix {
	u, v := geom.PlaneBasis(dir)
	return geom.Matrix{
		{u.X, u.Y, u.Z, 0},
		{v.X, v.Y, v.Z, 0},
		{0, 0, 0, 0},
	}
}

// ProjectEdge projects an edge along dir onto the XY view plane. Edges
// seen end-on vanish, circles seen edge-on become lines.
func ProjectEdge(e *Edge, dir geom.Vector) []*Edge {
	dir = geom.Normalize(dir)
	m := ViewMatrix(dir)
	if c, ok := e.Circle(); ok && c.IsCircle() {
		cos := geom.Dot(c.Axis, dir)
		switch {
		case math.Abs(math.Abs(cos)-1) < geom.Epsilon():
			axis := geom.ZAxis
			if cos < 0 {
				axis = geom.Neg(axis)
			}
			a1, a2 := e.Angles()
			xdir := m.ApplyDir(c.XDir)
			arc, err := MakeArc(m.Apply(c.Center), axis, xdir, c.Radius, a1, a2)
			if err != nil {
				return nil
			}
			return []*Edge{arc}
		case math.Abs(cos) < geom.Epsilon():
			return projectFlat(e, m)
		}
	}
	if l, ok := e.Line(); ok {
		p1, p2 := m.Apply(l.P1), m.Apply(l.P2)
		line, err := MakeLine(p1, p2)
		if err != nil {
			return nil
		}
		return []*Edge{line}
	}
	if _, ok := e.Circle(); ok {
		// conics seen at an angle
		pts := e.Discretize(e.samples() + 1)
		for i := range pts {
			pts[i] = m.Apply(pts[i])
		}
		closed := e.IsClosed()
		if closed {
			pts = pts[:len(pts)-1]
		}
		sp, err := MakeBSpline(pts, 1, closed)
		if err != nil {
			return projectFlat(e, m)
		}
		return []*Edge{sp}
	}
	pe := e.Transformed(m) // exact for splines and Bézier curves
	if pe.Length() < geom.Epsilon() {
		return nil
	}
	return []*Edge{pe}
}

// projectFlat projects an edge seen edge-on, yielding the straight segment
// between its extreme points.
func projectFlat(e *Edge, m geom.Matrix) []*Edge {
	pts := e.Polyline()
	for i := range pts {
		pts[i] = m.Apply(pts[i])
	}
	a, b := pts[0], pts[0]
	dmax := 0.0
	for _, p := range pts {
		for _, q := range pts {
			if d := geom.Dist(p, q); d > dmax {
				a, b, dmax = p, q, d
			}
		}
	}
	l, err := MakeLine(a, b)
	if err != nil {
		return nil
	}
	return []*Edge{l}
}

// Projection is the result of a hidden line projection.
type Projection struct {
	Visible []*Edge
	Hidden  []*Edge
}

// Groups returns the projected edges in ten groups: visible sharp, smooth,
// sewn, outline and iso edges, followed by the same for hidden edges. Only
// the sharp groups are populated.
func (p Projection) Groups() [][]*Edge {
	g := make([][]*Edge, 10)
	g[0], g[5] = p.Visible, p.Hidden
	return g
}

// Shape returns visible (and optionally hidden) edges as a compound.
func (p Projection) Shape(hidden bool) *Shape {
	var shapes []*Shape
	for _, e := range p.Visible {
		shapes = append(shapes, e.Shape())
	}
	if hidden {
		for _, e := range p.Hidden {
			shapes = append(shapes, e.Shape())
		}
	}
	return MakeCompound(shapes...)
}

// ProjectEx projects a shape along dir (pointing towards the viewer) onto
// the XY view plane, separating visible from hidden edges. An edge is
// visible if one of its faces faces the viewer; loose edges are always
// visible. Occlusion between different faces is not computed.
func ProjectEx(s *Shape, dir geom.Vector) Projection {
	var proj Projection
	if geom.IsNull(dir) {
		return proj
	}
	dir = geom.Normalize(dir)
	type adj struct {
		edge    *Edge
		visible bool
	}
	var all []adj
	note := func(e *Edge, visible bool) {
		for i := range all {
			if all[i].edge.IsSame(e) {
				all[i].visible = all[i].visible || visible
				return
			}
		}
		all = append(all, adj{edge: e, visible: visible})
	}
	var loose []*Edge
	collectLoose(s, &loose)
	for _, f := range s.Faces() {
		front := facesViewer(f, dir)
		for _, e := range f.Edges() {
			note(e, front)
		}
	}
	for _, e := range loose {
		note(e, true)
	}
	for _, a := range all {
		pe := ProjectEdge(a.edge, dir)
		if a.visible {
			proj.Visible = append(proj.Visible, pe...)
		} else {
			proj.Hidden = append(proj.Hidden, pe...)
		}
	}
	tracer().Debugf("projection: %d visible, %d hidden edges", len(proj.Visible), len(proj.Hidden))
	return proj
}

// Project returns the visible projected edges of a shape as a compound.
func Project(s *Shape, dir geom.Vector) *Shape {
	return ProjectEx(s, dir).Shape(false)
}

func collectLoose(s *Shape, into *[]*Edge) {
	switch s.Type() {
	case EdgeShape, WireShape:
		*into = append(*into, s.Edges()...)
	case CompoundShape:
		for _, c := range s.children {
			collectLoose(c, into)
		}
	}
}

func facesViewer(f *Face, dir geom.Vector) bool {
	if f.IsPlanar() {
		return geom.Dot(f.normal, dir) > geom.Epsilon()
	}
	for i := 0; i <= 8; i++ {
		if geom.Dot(f.NormalAt(float64(i)/8), dir) > geom.Epsilon() {
			return true
		}
	}
	return false
}

// Section cuts a shape with the plane through point with normal n. The
// section lines are returned as a compound of wires.
func Section(s *Shape, point, n geom.Vector) *Shape {
	n = geom.Normalize(n)
	var segs []*Edge
	for _, f := range s.Faces() {
		if f.IsPlanar() {
			var loops [][]geom.Vector
			for _, w := range f.Wires() {
				loops = append(loops, w.Polyline())
			}
			segs = append(segs, sectionLoops(loops, f.normal, point, n)...)
			continue
		}
		// extrusion faces are cut as a strip of planar quadrilaterals
		pts := f.profile.Polyline()
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			quad := []geom.Vector{a, b, geom.Add(b, f.dir), geom.Add(a, f.dir)}
			qn := geom.Normalize(geom.Cross(geom.Sub(b, a), f.dir))
			segs = append(segs, sectionLoops([][]geom.Vector{quad}, qn, point, n)...)
		}
	}
	var wires []*Shape
	for _, chain := range SortEdges(segs) {
		w, err := MakeWire(chain)
		if err != nil {
			continue
		}
		wires = append(wires, mergeCollinear(w).Shape())
	}
	tracer().Debugf("section yields %d wires", len(wires))
	return MakeCompound(wires...)
}

// sectionLoops intersects the boundary loops of a planar region with a
// plane. The crossing points are sorted along the cut line and paired.
func sectionLoops(loops [][]geom.Vector, fn, point, n geom.Vector) []*Edge {
	dir := geom.Cross(fn, n)
	if geom.IsNull(dir) {
		return nil // region parallel to the cutting plane
	}
	side := func(p geom.Vector) float64 {
		d := geom.Dot(geom.Sub(p, point), n)
		if math.Abs(d) < geom.Epsilon() {
			return geom.Epsilon() // vertices on the plane count as above
		}
		return d
	}
	var hits []geom.Vector
	for _, loop := range loops {
		for i := range loop {
			a, b := loop[i], loop[(i+1)%len(loop)]
			da, db := side(a), side(b)
			if da*db < 0 {
				hits = append(hits, geom.Lerp(a, b, da/(da-db)))
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		return geom.Dot(hits[i], dir) < geom.Dot(hits[j], dir)
	})
	var segs []*Edge
	for i := 0; i+1 < len(hits); i += 2 {
		if l, err := MakeLine(hits[i], hits[i+1]); err == nil {
			segs = append(segs, l)
		}
	}
	return segs
}
