package kernel

import (
	"math"

	"github.com/npillmayer/draft/core/geom"
)

// JoinType selects how offset edges are connected at corners.
type JoinType int

// Join types
const (
	JoinMiter JoinType = iota // extend edges until they meet
	JoinArc                   // round convex corners
)

// OffsetWire offsets a planar wire by distance d within the plane with
// normal n. Positive distances offset to the left of the wire's direction,
// i.e. towards n × tangent. For a wire running counter-clockwise around n
// this is the inside.
func OffsetWire(w *Wire, d float64, n geom.Vector, join JoinType) (*Wire, error) {
	if math.Abs(d) < geom.Epsilon() {
		return w.Copy(), nil
	}
	n = geom.Normalize(n)
	var offs []*Edge
	for _, e := range w.edges {
		oe, err := offsetEdge(e, d, n)
		if err != nil {
			return nil, err
		}
		offs = append(offs, oe)
	}
	closed := w.IsClosed()
	cnt := len(offs)
	joins := cnt - 1
	if closed {
		joins = cnt
	}
	// corner j sits between offs[j] and offs[j+1]
	extra := make([][]*Edge, cnt)
	for j := 0; j < joins; j++ {
		k := (j + 1) % cnt
		a, b := offs[j], offs[k]
		if geom.Coincident(a.End(), b.Start()) {
			continue
		}
		turn := geom.Dot(geom.Cross(w.edges[j].TangentAt(1), w.edges[k].TangentAt(0)), n)
		convex := turn*d < 0
		if convex && join == JoinArc {
			v := w.edges[j].End()
			arc, err := arcBetween(v, a.End(), b.Start(), n, d)
			if err == nil {
				extra[j] = append(extra[j], arc)
				continue
			}
		}
		v := w.edges[j].End()
		p, ok := nearestPoint(Intersect(a, b, true, true), v)
		if ok {
			na, e1 := withEnds(a, a.Start(), p)
			nb, e2 := withEnds(b, p, b.End())
			if e1 == nil && e2 == nil {
				offs[j], offs[k] = na, nb
				continue
			}
		}
		// fall back to a bevel
		if l, err := MakeLine(a.End(), b.Start()); err == nil {
			extra[j] = append(extra[j], l)
		}
	}
	var edges []*Edge
	for j, e := range offs {
		edges = append(edges, e)
		edges = append(edges, extra[j]...)
	}
	return &Wire{edges: edges}, nil
}

// OffsetFace grows (d > 0) or shrinks (d < 0) a planar face.
func OffsetFace(f *Face, d float64, join JoinType) (*Face, error) {
	if !f.IsPlanar() {
		return nil, geometryError("cannot offset non-planar face")
	}
	// outer runs counter-clockwise: growing means offsetting to the right
	outer, err := OffsetWire(f.outer, -d, f.normal, join)
	if err != nil {
		return nil, err
	}
	wires := []*Wire{outer}
	for _, h := range f.holes { // holes run clockwise
		hw, err := OffsetWire(h, -d, f.normal, join)
		if err != nil {
			return nil, err
		}
		wires = append(wires, hw)
	}
	return MakeFaceWithNormal(f.normal, wires...)
}

func offsetEdge(e *Edge, d float64, n geom.Vector) (*Edge, error) {
	if l, ok := e.Line(); ok {
		left := geom.Normalize(geom.Cross(n, l.Direction()))
		shift := geom.Scale(d, left)
		return MakeLine(geom.Add(l.P1, shift), geom.Add(l.P2, shift))
	}
	if c, ok := e.Circle(); ok && c.IsCircle() {
		r := c.Radius + d // clockwise arcs have their center on the right
		if geom.Dot(c.Axis, n) > 0 {
			r = c.Radius - d
		}
		if r < geom.Epsilon() {
			return nil, geometryError("offset %g collapses arc of radius %g", d, c.Radius)
		}
		a1, a2 := e.Angles()
		return MakeArc(c.Center, c.Axis, c.XDir, r, a1, a2)
	}
	pts := e.Polyline()
	for i := range pts {
		u := float64(i) / float64(len(pts)-1)
		left := geom.Normalize(geom.Cross(n, e.TangentAt(u)))
		pts[i] = geom.Add(pts[i], geom.Scale(d, left))
	}
	closed := e.IsClosed()
	if closed {
		pts = pts[:len(pts)-1]
	}
	return MakeBSpline(pts, 1, closed)
}

// arcBetween creates the rounding arc around corner v from p to q.
func arcBetween(v, p, q, n geom.Vector, d float64) (*Edge, error) {
	r := geom.Dist(v, p)
	axis := n
	if d > 0 { // rounding on the left side turns clockwise
		axis = geom.Neg(n)
	}
	xdir := geom.Sub(p, v)
	c := &Circle{Center: v, Axis: axis, XDir: geom.Normalize(xdir), Radius: r, Minor: r}
	a2 := c.Parameter(q)
	if a2 < geom.Epsilon() {
		return nil, geometryError("degenerate rounding arc")
	}
	return NewEdge(c, 0, a2), nil
}

// withEnds returns an edge on the same curve with new end points.
func withEnds(e *Edge, start, end geom.Vector) (*Edge, error) {
	if _, ok := e.Line(); ok {
		return MakeLine(start, end)
	}
	if c, ok := e.Circle(); ok && c.IsCircle() {
		a1, a2 := c.Parameter(start), c.Parameter(end)
		if e.IsClosed() && geom.Coincident(start, end) {
			return MakeArc(c.Center, c.Axis, c.XDir, c.Radius, a1, a1+2*math.Pi)
		}
		return MakeArc(c.Center, c.Axis, c.XDir, c.Radius, a1, a2)
	}
	u0, u1 := e.ClosestParameter(start), e.ClosestParameter(end)
	if u1-u0 < geom.Epsilon() {
		return nil, geometryError("cannot trim edge to empty range")
	}
	return e.Trimmed(u0, u1), nil
}

// TrimEdge returns an edge on the same curve, with its start or end point
// replaced by p. p is expected on the (extended) curve.
func TrimEdge(e *Edge, p geom.Vector, atEnd bool) (*Edge, error) {
	if atEnd {
		return withEnds(e, e.Start(), p)
	}
	return withEnds(e, p, e.End())
}

func nearestPoint(pts []geom.Vector, ref geom.Vector) (geom.Vector, bool) {
	if len(pts) == 0 {
		return geom.Vector{}, false
	}
	best := pts[0]
	for _, p := range pts[1:] {
		if geom.Dist(p, ref) < geom.Dist(best, ref) {
			best = p
		}
	}
	return best, true
}
