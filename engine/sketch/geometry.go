package sketch

import (
	"math"
	"math/cmplx"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/kernel"
)

// Kind is the type of a sketch geometry.
type Kind int

// Geometry kinds
const (
	KindLine Kind = iota
	KindCircle
	KindArc
	KindEllipse
	KindSpline
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "LineSegment"
	case KindCircle:
		return "Circle"
	case KindArc:
		return "ArcOfCircle"
	case KindEllipse:
		return "Ellipse"
	case KindSpline:
		return "BSplineCurve"
	case KindPoint:
		return "Point"
	}
	return "<unknown geometry>"
}

// PointPos selects a point of a geometry.
type PointPos int

// Point positions
const (
	NoPos PointPos = iota
	Start
	End
	Mid // center of circles, arcs and ellipses
)

// Geometry is a single element of a sketch, in sketch coordinates.
//
// Lines hold their end points, circles, arcs and ellipses their center.
// Splines with Degree 0 interpolate their points, otherwise the points are
// the poles of Bézier segments of that degree.
type Geometry struct {
	Kind         Kind
	Points       []arithm.Pair
	Radius       float64 // radius, or major radius of ellipses
	Minor        float64
	Angle        float64 // direction of the major axis, radians
	First, Last  float64 // arc range, radians
	Degree       int
	Closed       bool
	Construction bool
}

// Line is a line segment.
func Line(a, b arithm.Pair) Geometry {
	return Geometry{Kind: KindLine, Points: []arithm.Pair{a, b}}
}

// Circle is a full circle.
func Circle(center arithm.Pair, r float64) Geometry {
	return Geometry{Kind: KindCircle, Points: []arithm.Pair{center}, Radius: r}
}

// Arc is a counter-clockwise arc from angle first to last (radians).
func Arc(center arithm.Pair, r, first, last float64) Geometry {
	return Geometry{Kind: KindArc, Points: []arithm.Pair{center}, Radius: r, First: first, Last: last}
}

// Ellipse is a full ellipse with its major axis turned by angle.
func Ellipse(center arithm.Pair, major, minor, angle float64) Geometry {
	return Geometry{Kind: KindEllipse, Points: []arithm.Pair{center}, Radius: major, Minor: minor, Angle: angle}
}

// Spline is a spline curve, see Geometry.
func Spline(pts []arithm.Pair, degree int, closed bool) Geometry {
	return Geometry{Kind: KindSpline, Points: append([]arithm.Pair(nil), pts...), Degree: degree, Closed: closed}
}

// Point is a lone point.
func Point(p arithm.Pair) Geometry {
	return Geometry{Kind: KindPoint, Points: []arithm.Pair{p}}
}

func to3D(p arithm.Pair) geom.Vector {
	c := p.C()
	return geom.V(real(c), imag(c), 0)
}

func to2D(v geom.Vector) arithm.Pair {
	return arithm.P(v.X, v.Y)
}

func dist(a, b arithm.Pair) float64 {
	return cmplx.Abs(a.C() - b.C())
}

// At returns a point of the geometry.
func (g Geometry) At(pos PointPos) (arithm.Pair, bool) {
	if len(g.Points) == 0 {
		return arithm.Pair(0), false
	}
	switch g.Kind {
	case KindLine:
		switch pos {
		case Start:
			return g.Points[0], true
		case End:
			return g.Points[1], true
		case Mid:
			return arithm.Pair((g.Points[0].C() + g.Points[1].C()) / 2), true
		}
	case KindCircle, KindEllipse:
		if pos == Mid {
			return g.Points[0], true
		}
	case KindArc:
		c := g.Points[0].C()
		switch pos {
		case Start:
			return arithm.Pair(c + cmplx.Rect(g.Radius, g.First)), true
		case End:
			return arithm.Pair(c + cmplx.Rect(g.Radius, g.Last)), true
		case Mid:
			return g.Points[0], true
		}
	case KindSpline:
		switch pos {
		case Start:
			return g.Points[0], true
		case End:
			if g.Closed {
				return g.Points[0], true
			}
			return g.Points[len(g.Points)-1], true
		}
	case KindPoint:
		if pos == Start || pos == Mid {
			return g.Points[0], true
		}
	}
	return arithm.Pair(0), false
}

// Edge builds the curve of the geometry in sketch coordinates. Points have
// no edge.
func (g Geometry) Edge() (*kernel.Edge, error) {
	pts := make([]geom.Vector, len(g.Points))
	for i, p := range g.Points {
		pts[i] = to3D(p)
	}
	switch g.Kind {
	case KindLine:
		return kernel.MakeLine(pts[0], pts[1])
	case KindCircle:
		return kernel.MakeCircle(pts[0], geom.ZAxis, g.Radius)
	case KindArc:
		return kernel.MakeArc(pts[0], geom.ZAxis, geom.XAxis, g.Radius, g.First, g.Last)
	case KindEllipse:
		xdir := geom.V(math.Cos(g.Angle), math.Sin(g.Angle), 0)
		return kernel.MakeEllipse(pts[0], geom.ZAxis, xdir, g.Radius, g.Minor)
	case KindSpline:
		if g.Degree == 0 {
			return kernel.MakeBSpline(pts, 1, g.Closed)
		}
		if g.Closed {
			pts = append(pts, pts[0])
		}
		return kernel.MakeBezier(pts, g.Degree)
	}
	return nil, core.Error(core.EINVALID, "%s geometry has no edge", g.Kind)
}

// Moved returns a copy of the geometry with one of its points moved.
// Moving the center moves circles, arcs and ellipses as a whole; moving an
// end point of an arc changes its angle.
func (g Geometry) Moved(pos PointPos, to arithm.Pair) (Geometry, error) {
	h := g
	h.Points = append([]arithm.Pair(nil), g.Points...)
	switch {
	case g.Kind == KindLine && pos == Start, g.Kind == KindPoint, g.Kind == KindSpline && pos == Start:
		h.Points[0] = to
	case g.Kind == KindLine && pos == End:
		h.Points[1] = to
	case g.Kind == KindSpline && pos == End && !g.Closed:
		h.Points[len(h.Points)-1] = to
	case (g.Kind == KindCircle || g.Kind == KindArc || g.Kind == KindEllipse) && pos == Mid:
		h.Points[0] = to
	case g.Kind == KindArc && pos == Start:
		h.First = cmplx.Phase(to.C() - g.Points[0].C())
	case g.Kind == KindArc && pos == End:
		h.Last = cmplx.Phase(to.C() - g.Points[0].C())
	default:
		return g, core.Error(core.EINVALID, "cannot move point %d of %s", pos, g.Kind)
	}
	return h, nil
}
