package kernel

import (
	"math/cmplx"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/arithm/jhobby"
	"github.com/npillmayer/draft/core/geom"
)

// MakeSmoothBezier creates a cubic Bézier curve through a set of coplanar
// knots. The control points are chosen by John Hobby's algorithm, which
// yields pleasing curves without user supplied tangents. Closed curves
// return to the first knot, which must not be repeated.
func MakeSmoothBezier(knots []geom.Vector, closed bool) (*Edge, error) {
	knots = DedupPoints(knots, closed)
	if len(knots) < 2 || (closed && len(knots) < 3) {
		return nil, geometryError("smooth curve needs more knots, have %d", len(knots))
	}
	origin, n, ok := FindPlane(knots)
	if !ok {
		for _, k := range knots[2:] {
			if !geom.Collinear(knots[0], knots[1], k) {
				return nil, geometryError("knots of smooth curve are not coplanar")
			}
		}
		origin, n = knots[0], geom.Perpendicular(geom.Sub(knots[1], knots[0]))
	}
	pf := newPlaneFrame(origin, n)
	var path jhobby.HobbyPath
	var controls jhobby.SplineControls
	var ka jhobby.KnotAdder = jhobby.Nullpath()
	var ja jhobby.JoinAdder
	for i, k := range knots {
		p := pf.to2D(k)
		ja = ka.Knot(arithm.P(p.X, p.Y))
		if i+1 < len(knots) || closed {
			ka = ja.Curve()
		}
	}
	if closed {
		path, controls = ka.Cycle()
	} else {
		path, controls = ja.End()
	}
	controls = jhobby.FindHobbyControls(path, controls)
	poles := hobbyPoles(path, controls, pf)
	tracer().Debugf("smooth curve through %d knots has %d poles", len(knots), len(poles))
	return MakeBezier(poles, 3)
}

// hobbyPoles walks the knots of a Hobby path and collects the Bézier poles
// of its segments.
func hobbyPoles(path jhobby.HobbyPath, controls jhobby.SplineControls, pf planeFrame) []geom.Vector {
	to3D := func(p arithm.Pair) geom.Vector {
		x, y := real(p.C()), imag(p.C())
		return geom.Add(pf.origin, geom.Add(geom.Scale(x, pf.u), geom.Scale(y, pf.v)))
	}
	segs := path.N() - 1
	if path.IsCycle() {
		segs = path.N()
	}
	poles := []geom.Vector{to3D(path.Z(0))}
	for i := 1; i <= segs; i++ {
		z0, z1 := path.Z(i-1), path.Z(i%path.N())
		c1, c2 := controls.PostControl(i-1), controls.PreControl(i%path.N())
		if cmplx.IsNaN(c1.C()) || cmplx.IsNaN(c2.C()) { // straight segment
			c1 = arithm.Pair(z0.C() + (z1.C()-z0.C())/3)
			c2 = arithm.Pair(z0.C() + 2*(z1.C()-z0.C())/3)
		}
		poles = append(poles, to3D(c1), to3D(c2), to3D(z1))
	}
	return poles
}
