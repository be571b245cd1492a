package kernel

import (
	"math"

	"github.com/npillmayer/draft/core/geom"
)

// Intersect returns the intersection points of two edges. If infinite1
// (infinite2) is set, the first (second) edge is extended: lines become
// infinite lines, arcs become full circles.
func Intersect(e1, e2 *Edge, infinite1, infinite2 bool) []geom.Vector {
	var cand []geom.Vector
	l1, isL1 := e1.Line()
	l2, isL2 := e2.Line()
	c1, isC1 := e1.Circle()
	c2, isC2 := e2.Circle()
	isC1 = isC1 && c1.IsCircle()
	isC2 = isC2 && c2.IsCircle()
	switch {
	case isL1 && isL2:
		if p, ok := intersectLines(l1.P1, l1.Direction(), l2.P1, l2.Direction()); ok {
			cand = append(cand, p)
		}
	case isL1 && isC2:
		cand = intersectLineCircle(l1.P1, l1.Direction(), c2)
	case isC1 && isL2:
		cand = intersectLineCircle(l2.P1, l2.Direction(), c1)
	case isC1 && isC2:
		cand = intersectCircles(c1, c2)
	default:
		cand = intersectPolylines(e1, e2)
		infinite1, infinite2 = false, false
	}
	var result []geom.Vector
	tol := geom.Tolerance()
	for _, p := range cand {
		if !infinite1 && e1.DistanceTo(p) > tol {
			continue
		}
		if !infinite2 && e2.DistanceTo(p) > tol {
			continue
		}
		result = appendUnique(result, p)
	}
	return result
}

// IntersectShapes intersects all edges of two shapes.
func IntersectShapes(a, b *Shape) []geom.Vector {
	var result []geom.Vector
	for _, e1 := range a.Edges() {
		for _, e2 := range b.Edges() {
			result = appendUnique(result, Intersect(e1, e2, false, false)...)
		}
	}
	return result
}

// intersectLines intersects two infinite lines given by point and unit
// direction. Parallel lines and skew lines farther apart than the tolerance
// do not intersect.
func intersectLines(p1, d1, p2, d2 geom.Vector) (geom.Vector, bool) {
	s, t, ok := closestParams(p1, d1, p2, d2)
	if !ok {
		return geom.Vector{}, false
	}
	q1 := geom.Add(p1, geom.Scale(s, d1))
	q2 := geom.Add(p2, geom.Scale(t, d2))
	if geom.Dist(q1, q2) > geom.Tolerance() {
		return geom.Vector{}, false
	}
	return geom.Mid(q1, q2), true
}

// closestParams returns the parameters of the closest points of two lines.
func closestParams(p1, d1, p2, d2 geom.Vector) (float64, float64, bool) {
	w := geom.Sub(p1, p2)
	a, b, c := geom.Dot(d1, d1), geom.Dot(d1, d2), geom.Dot(d2, d2)
	d, e := geom.Dot(d1, w), geom.Dot(d2, w)
	den := a*c - b*b
	if math.Abs(den) < geom.Epsilon()*geom.Epsilon() {
		return 0, 0, false
	}
	return (b*e - c*d) / den, (a*e - b*d) / den, true
}

func intersectLineCircle(p, dir geom.Vector, c *Circle) []geom.Vector {
	n := c.Axis
	tol := geom.Tolerance()
	if math.Abs(geom.Dot(dir, n)) > geom.Epsilon() {
		// line pierces the circle plane
		t := geom.Dot(geom.Sub(c.Center, p), n) / geom.Dot(dir, n)
		q := geom.Add(p, geom.Scale(t, dir))
		if math.Abs(geom.Dist(q, c.Center)-c.Radius) < tol {
			return []geom.Vector{q}
		}
		return nil
	}
	if math.Abs(geom.Dot(geom.Sub(p, c.Center), n)) > tol {
		return nil // parallel to the circle plane
	}
	q := geom.ClosestOnLine(c.Center, p, dir)
	d := geom.Dist(q, c.Center)
	if d > c.Radius+tol {
		return nil
	}
	if d > c.Radius-geom.Epsilon() {
		return []geom.Vector{q} // tangent
	}
	h := math.Sqrt(c.Radius*c.Radius - d*d)
	return []geom.Vector{geom.Sub(q, geom.Scale(h, dir)), geom.Add(q, geom.Scale(h, dir))}
}

func intersectCircles(c1, c2 *Circle) []geom.Vector {
	tol := geom.Tolerance()
	if !geom.IsParallel(c1.Axis, c2.Axis) ||
		math.Abs(geom.Dot(geom.Sub(c2.Center, c1.Center), c1.Axis)) > tol {
		return nil // only coplanar circles are supported
	}
	d := geom.Dist(c1.Center, c2.Center)
	r1, r2 := c1.Radius, c2.Radius
	if d < geom.Epsilon() || d > r1+r2+tol || d < math.Abs(r1-r2)-tol {
		return nil
	}
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	dir := geom.Normalize(geom.Sub(c2.Center, c1.Center))
	m := geom.Add(c1.Center, geom.Scale(a, dir))
	h2 := r1*r1 - a*a
	if h2 < geom.Epsilon() {
		return []geom.Vector{m}
	}
	h := math.Sqrt(h2)
	perp := geom.Normalize(geom.Cross(c1.Axis, dir))
	return []geom.Vector{geom.Add(m, geom.Scale(h, perp)), geom.Sub(m, geom.Scale(h, perp))}
}

// intersectPolylines intersects discretizations of two edges and refines
// the hits on the first edge.
func intersectPolylines(e1, e2 *Edge) []geom.Vector {
	p1, p2 := e1.Polyline(), e2.Polyline()
	var result []geom.Vector
	for i := 0; i+1 < len(p1); i++ {
		for j := 0; j+1 < len(p2); j++ {
			a, b := p1[i], p1[i+1]
			c, d := p2[j], p2[j+1]
			s, t, ok := closestParams(a, geom.Sub(b, a), c, geom.Sub(d, c))
			if !ok || s < -geom.Epsilon() || s > 1+geom.Epsilon() || t < -geom.Epsilon() || t > 1+geom.Epsilon() {
				continue
			}
			q1 := geom.Lerp(a, b, s)
			q2 := geom.Lerp(c, d, t)
			if geom.Dist(q1, q2) > geom.Tolerance() {
				continue
			}
			q := e1.PointAt(e1.ClosestParameter(geom.Mid(q1, q2)))
			result = appendUnique(result, q)
		}
	}
	return result
}

// ProjectPointOnEdge returns the point on an edge (extended if infinite)
// closest to p.
func ProjectPointOnEdge(p geom.Vector, e *Edge, infinite bool) geom.Vector {
	if infinite {
		if l, ok := e.Line(); ok {
			return geom.ClosestOnLine(p, l.P1, l.Direction())
		}
		if c, ok := e.Circle(); ok && c.IsCircle() {
			d := geom.Sub(geom.ProjectOnPlane(p, c.Center, c.Axis), c.Center)
			if geom.IsNull(d) {
				return e.Start()
			}
			return geom.Add(c.Center, geom.Scale(c.Radius, geom.Normalize(d)))
		}
	}
	return e.PointAt(e.ClosestParameter(p))
}
