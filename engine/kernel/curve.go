package kernel

import (
	"fmt"
	"math"

	"github.com/npillmayer/draft/core/geom"
)

// CurveType denotes the geometry underlying an edge.
type CurveType int

// Curve types
const (
	LineCurve CurveType = iota
	CircleCurve
	EllipseCurve
	BSplineCurve
	BezierCurve
)

func (ct CurveType) String() string {
	switch ct {
	case LineCurve:
		return "Line"
	case CircleCurve:
		return "Circle"
	case EllipseCurve:
		return "Ellipse"
	case BSplineCurve:
		return "BSplineCurve"
	case BezierCurve:
		return "BezierCurve"
	}
	return "<unknown curve>"
}

// Curve is an unbounded or periodic curve, parameterized over an interval.
type Curve interface {
	Type() CurveType
	Range() (float64, float64)         // natural parameter range
	Value(t float64) geom.Vector       // point at parameter t
	Derivative(t float64) geom.Vector  // first derivative at t
	transform(m geom.Matrix) (Curve, bool)
}

// --- Line ------------------------------------------------------------------

// Line is the straight curve through P1 (t=0) and P2 (t=1).
type Line struct {
	P1, P2 geom.Vector
}

// Type is part of interface Curve.
func (l *Line) Type() CurveType { return LineCurve }

// Range is part of interface Curve.
func (l *Line) Range() (float64, float64) { return 0, 1 }

// Value is part of interface Curve.
func (l *Line) Value(t float64) geom.Vector { return geom.Lerp(l.P1, l.P2, t) }

// Derivative is part of interface Curve.
func (l *Line) Derivative(t float64) geom.Vector { return geom.Sub(l.P2, l.P1) }

// Direction returns the unit direction of the line.
func (l *Line) Direction() geom.Vector { return geom.Normalize(geom.Sub(l.P2, l.P1)) }

func (l *Line) transform(m geom.Matrix) (Curve, bool) {
	return &Line{P1: m.Apply(l.P1), P2: m.Apply(l.P2)}, true
}

// --- Circle and ellipse ----------------------------------------------------

// Circle is a circle or an ellipse. The curve runs counter-clockwise around
// Axis, starting at parameter 0 in direction XDir. For circles, Minor equals
// Radius.
type Circle struct {
	Center geom.Vector
	Axis   geom.Vector
	XDir   geom.Vector
	Radius float64 // major radius
	Minor  float64
}

// YDir returns the direction of parameter π/2.
func (c *Circle) YDir() geom.Vector {
	return geom.Normalize(geom.Cross(c.Axis, c.XDir))
}

// IsCircle is false for ellipses.
func (c *Circle) IsCircle() bool {
	return math.Abs(c.Radius-c.Minor) < geom.Epsilon()
}

// Type is part of interface Curve.
func (c *Circle) Type() CurveType {
	if c.IsCircle() {
		return CircleCurve
	}
	return EllipseCurve
}

// Range is part of interface Curve.
func (c *Circle) Range() (float64, float64) { return 0, 2 * math.Pi }

// Value is part of interface Curve.
func (c *Circle) Value(t float64) geom.Vector {
	s, co := math.Sincos(t)
	p := geom.Add(c.Center, geom.Scale(c.Radius*co, c.XDir))
	return geom.Add(p, geom.Scale(c.Minor*s, c.YDir()))
}

// Derivative is part of interface Curve.
func (c *Circle) Derivative(t float64) geom.Vector {
	s, co := math.Sincos(t)
	return geom.Add(geom.Scale(-c.Radius*s, c.XDir), geom.Scale(c.Minor*co, c.YDir()))
}

// Parameter returns the angle parameter of the point on the curve closest to
// p (exact for circles).
func (c *Circle) Parameter(p geom.Vector) float64 {
	d := geom.Sub(p, c.Center)
	x := geom.Dot(d, c.XDir) / c.Radius
	y := geom.Dot(d, c.YDir()) / c.Minor
	a := math.Atan2(y, x)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func (c *Circle) transform(m geom.Matrix) (Curve, bool) {
	s, uniform := m.UniformScale()
	if !uniform {
		return nil, false
	}
	x := geom.Normalize(m.ApplyDir(c.XDir))
	y := geom.Normalize(m.ApplyDir(c.YDir()))
	return &Circle{
		Center: m.Apply(c.Center),
		Axis:   geom.Normalize(geom.Cross(x, y)),
		XDir:   x,
		Radius: c.Radius * s,
		Minor:  c.Minor * s,
	}, true
}

// --- Interpolating B-spline ------------------------------------------------

// BSpline is a cubic spline interpolating Nodes at parameters Knots. Periodic
// splines close from the last node back to the first one; the closing node
// is implicit.
type BSpline struct {
	Nodes    []geom.Vector
	Knots    []float64 // len(Nodes) knots, plus one for periodic splines
	Periodic bool
	m        []geom.Vector // second derivatives at the knots
}

// Type is part of interface Curve.
func (b *BSpline) Type() CurveType { return BSplineCurve }

// Range is part of interface Curve.
func (b *BSpline) Range() (float64, float64) {
	return b.Knots[0], b.Knots[len(b.Knots)-1]
}

func (b *BSpline) node(i int) geom.Vector {
	return b.Nodes[i%len(b.Nodes)]
}

func (b *BSpline) span(t float64) int {
	n := len(b.Knots) - 1
	for i := 0; i < n-1; i++ {
		if t < b.Knots[i+1] {
			return i
		}
	}
	return n - 1
}

// Value is part of interface Curve.
func (b *BSpline) Value(t float64) geom.Vector {
	i := b.span(t)
	t0, t1 := b.Knots[i], b.Knots[i+1]
	h := t1 - t0
	a, c := t1-t, t-t0
	p0, p1 := b.node(i), b.node(i+1)
	m0, m1 := b.m[i], b.m[i+1]
	r := geom.Scale(a*a*a/(6*h), m0)
	r = geom.Add(r, geom.Scale(c*c*c/(6*h), m1))
	r = geom.Add(r, geom.Scale(a, geom.Sub(geom.Scale(1/h, p0), geom.Scale(h/6, m0))))
	r = geom.Add(r, geom.Scale(c, geom.Sub(geom.Scale(1/h, p1), geom.Scale(h/6, m1))))
	return r
}

// Derivative is part of interface Curve.
func (b *BSpline) Derivative(t float64) geom.Vector {
	i := b.span(t)
	t0, t1 := b.Knots[i], b.Knots[i+1]
	h := t1 - t0
	a, c := t1-t, t-t0
	p0, p1 := b.node(i), b.node(i+1)
	m0, m1 := b.m[i], b.m[i+1]
	r := geom.Scale(-a*a/(2*h), m0)
	r = geom.Add(r, geom.Scale(c*c/(2*h), m1))
	r = geom.Sub(r, geom.Sub(geom.Scale(1/h, p0), geom.Scale(h/6, m0)))
	r = geom.Add(r, geom.Sub(geom.Scale(1/h, p1), geom.Scale(h/6, m1)))
	return r
}

func (b *BSpline) transform(m geom.Matrix) (Curve, bool) {
	nodes := make([]geom.Vector, len(b.Nodes))
	for i, p := range b.Nodes {
		nodes[i] = m.Apply(p)
	}
	// interpolation is linear in the nodes for fixed knots
	sp := &BSpline{Nodes: nodes, Knots: append([]float64(nil), b.Knots...), Periodic: b.Periodic}
	sp.solve()
	return sp, true
}

// --- Bézier ----------------------------------------------------------------

// Bezier is a chain of Bézier segments of equal degree. Segment k uses poles
// k·Degree … (k+1)·Degree and is parameterized over [k, k+1].
type Bezier struct {
	Poles  []geom.Vector
	Degree int
}

// Type is part of interface Curve.
func (bz *Bezier) Type() CurveType { return BezierCurve }

// Segments returns the number of Bézier segments.
func (bz *Bezier) Segments() int {
	return (len(bz.Poles) - 1) / bz.Degree
}

// Range is part of interface Curve.
func (bz *Bezier) Range() (float64, float64) { return 0, float64(bz.Segments()) }

func (bz *Bezier) segment(t float64) (int, float64) {
	n := bz.Segments()
	k := int(math.Floor(t))
	if k >= n {
		k = n - 1
	}
	if k < 0 {
		k = 0
	}
	return k, t - float64(k)
}

// Value is part of interface Curve.
func (bz *Bezier) Value(t float64) geom.Vector {
	k, u := bz.segment(t)
	pts := make([]geom.Vector, bz.Degree+1)
	copy(pts, bz.Poles[k*bz.Degree:(k+1)*bz.Degree+1])
	for r := bz.Degree; r > 0; r-- { // de Casteljau
		for i := 0; i < r; i++ {
			pts[i] = geom.Lerp(pts[i], pts[i+1], u)
		}
	}
	return pts[0]
}

// Derivative is part of interface Curve.
func (bz *Bezier) Derivative(t float64) geom.Vector {
	k, u := bz.segment(t)
	d := bz.Degree
	pts := make([]geom.Vector, d)
	for i := 0; i < d; i++ {
		pts[i] = geom.Scale(float64(d), geom.Sub(bz.Poles[k*d+i+1], bz.Poles[k*d+i]))
	}
	for r := d - 1; r > 0; r-- {
		for i := 0; i < r; i++ {
			pts[i] = geom.Lerp(pts[i], pts[i+1], u)
		}
	}
	return pts[0]
}

func (bz *Bezier) transform(m geom.Matrix) (Curve, bool) {
	poles := make([]geom.Vector, len(bz.Poles))
	for i, p := range bz.Poles {
		poles[i] = m.Apply(p)
	}
	return &Bezier{Poles: poles, Degree: bz.Degree}, true
}

// --- Edge ------------------------------------------------------------------

// Edge is a bounded piece of a curve. Its orientation runs from parameter
// First to parameter Last, or the other way round if the edge is reversed.
type Edge struct {
	curve       Curve
	first, last float64
	reversed    bool
}

// NewEdge creates an edge on a curve, bounded by curve parameters first and
// last (first < last).
func NewEdge(c Curve, first, last float64) *Edge {
	return &Edge{curve: c, first: first, last: last}
}

// Curve returns the curve underlying an edge.
func (e *Edge) Curve() Curve { return e.curve }

// Type returns the type of the underlying curve.
func (e *Edge) Type() CurveType { return e.curve.Type() }

// Parameters returns the curve parameter range of the edge.
func (e *Edge) Parameters() (first, last float64) { return e.first, e.last }

// IsReversed is true if the edge runs against its curve.
func (e *Edge) IsReversed() bool { return e.reversed }

// CurveParameter maps u ∈ [0,1] along the edge's orientation to a curve
// parameter.
func (e *Edge) CurveParameter(u float64) float64 {
	if e.reversed {
		u = 1 - u
	}
	return e.first + u*(e.last-e.first)
}

// EdgeParameter maps a curve parameter to u ∈ [0,1] along the edge.
func (e *Edge) EdgeParameter(t float64) float64 {
	u := (t - e.first) / (e.last - e.first)
	if e.reversed {
		u = 1 - u
	}
	return u
}

// PointAt returns the point at u ∈ [0,1] along the edge.
func (e *Edge) PointAt(u float64) geom.Vector {
	return e.curve.Value(e.CurveParameter(u))
}

// TangentAt returns the unit tangent at u ∈ [0,1], in edge orientation.
func (e *Edge) TangentAt(u float64) geom.Vector {
	d := geom.Normalize(e.curve.Derivative(e.CurveParameter(u)))
	if e.reversed {
		return geom.Neg(d)
	}
	return d
}

// Start returns the first point of the edge.
func (e *Edge) Start() geom.Vector { return e.PointAt(0) }

// End returns the last point of the edge.
func (e *Edge) End() geom.Vector { return e.PointAt(1) }

// Mid returns the point at the parameter mid point.
func (e *Edge) Mid() geom.Vector { return e.PointAt(0.5) }

// IsClosed is true if start and end point coincide.
func (e *Edge) IsClosed() bool {
	return geom.Coincident(e.Start(), e.End())
}

// Line returns the line of a line edge, oriented like the edge.
func (e *Edge) Line() (*Line, bool) {
	if _, ok := e.curve.(*Line); !ok {
		return nil, false
	}
	return &Line{P1: e.Start(), P2: e.End()}, true
}

// Circle returns the circle or ellipse of an edge. The circle's axis is
// flipped for reversed edges, so that the edge always runs
// counter-clockwise around the returned axis.
func (e *Edge) Circle() (*Circle, bool) {
	c, ok := e.curve.(*Circle)
	if !ok {
		return nil, false
	}
	if !e.reversed {
		return c, true
	}
	return &Circle{Center: c.Center, Axis: geom.Neg(c.Axis), XDir: c.XDir,
		Radius: c.Radius, Minor: c.Minor}, true
}

// Angles returns start and end angle of a circular edge, relative to the
// XDir of the circle returned by Circle(). The end angle is greater than the
// start angle.
func (e *Edge) Angles() (float64, float64) {
	if _, ok := e.curve.(*Circle); !ok {
		return 0, 0
	}
	if !e.reversed {
		return e.first, e.last
	}
	// the mirrored frame measures angles negatively
	a1, a2 := -e.last, -e.first
	if a1 < 0 {
		a1 += 2 * math.Pi
		a2 += 2 * math.Pi
	}
	return a1, a2
}

// Sweep returns the angular span of a circular edge.
func (e *Edge) Sweep() float64 {
	if _, ok := e.curve.(*Circle); !ok {
		return 0
	}
	return e.last - e.first
}

// Reversed returns a copy of the edge with opposite orientation.
func (e *Edge) Reversed() *Edge {
	return &Edge{curve: e.curve, first: e.first, last: e.last, reversed: !e.reversed}
}

// Copy returns a shallow copy of the edge. Curves are immutable.
func (e *Edge) Copy() *Edge {
	c := *e
	return &c
}

// Trimmed returns the part of the edge between u0 and u1 (edge parameters).
func (e *Edge) Trimmed(u0, u1 float64) *Edge {
	if u0 > u1 {
		u0, u1 = u1, u0
	}
	t0, t1 := e.CurveParameter(u0), e.CurveParameter(u1)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return &Edge{curve: e.curve, first: t0, last: t1, reversed: e.reversed}
}

// Transformed returns an edge mapped by an affine transformation. Curves
// which cannot be mapped exactly (circles under non-uniform scaling) are
// approximated by an interpolating spline.
func (e *Edge) Transformed(m geom.Matrix) *Edge {
	if c, ok := e.curve.transform(m); ok {
		return &Edge{curve: c, first: e.first, last: e.last, reversed: e.reversed}
	}
	n := 8 * int(math.Ceil(4*(e.last-e.first)/math.Pi))
	pts := e.Discretize(n + 1)
	closed := e.IsClosed()
	if closed {
		pts = pts[:len(pts)-1]
	}
	for i := range pts {
		pts[i] = m.Apply(pts[i])
	}
	sp, err := MakeBSpline(pts, 1, closed)
	if err != nil {
		tracer().Errorf("cannot transform edge: %v", err)
		return e.Copy()
	}
	return sp
}

// Placed returns the edge moved by a placement.
func (e *Edge) Placed(pl geom.Placement) *Edge {
	return e.Transformed(pl.Matrix())
}

// Length returns the arc length of the edge.
func (e *Edge) Length() float64 {
	switch c := e.curve.(type) {
	case *Line:
		return geom.Dist(c.P1, c.P2) * (e.last - e.first)
	case *Circle:
		if c.IsCircle() {
			return c.Radius * (e.last - e.first)
		}
	}
	return e.integrateLength(0, 1)
}

// LengthTo returns the arc length from the start of the edge to parameter u.
func (e *Edge) LengthTo(u float64) float64 {
	return e.integrateLength(0, u)
}

// integrateLength uses composite Simpson integration over |c'(t)|.
func (e *Edge) integrateLength(u0, u1 float64) float64 {
	if u1 <= u0 {
		return 0
	}
	n := e.samples()
	if n%2 == 1 {
		n++
	}
	h := (u1 - u0) / float64(n)
	dt := e.last - e.first
	f := func(u float64) float64 {
		return geom.Length(e.curve.Derivative(e.CurveParameter(u))) * dt
	}
	sum := f(u0) + f(u1)
	for i := 1; i < n; i++ {
		w := 2.0
		if i%2 == 1 {
			w = 4
		}
		sum += w * f(u0+float64(i)*h)
	}
	return sum * h / 3
}

// samples returns a sample count adequate for the curve's complexity.
func (e *Edge) samples() int {
	switch c := e.curve.(type) {
	case *Line:
		return 2
	case *Circle:
		return 16 + int(64*(e.last-e.first)/(2*math.Pi))
	case *BSpline:
		return 32 * (len(c.Knots) - 1)
	case *Bezier:
		return 32 * c.Segments()
	}
	return 64
}

// Discretize returns n points (n ≥ 2) at equidistant edge parameters.
func (e *Edge) Discretize(n int) []geom.Vector {
	if n < 2 {
		n = 2
	}
	pts := make([]geom.Vector, n)
	for i := 0; i < n; i++ {
		pts[i] = e.PointAt(float64(i) / float64(n-1))
	}
	return pts
}

// DiscretizeByLength returns points along the edge spaced at most seglen
// apart, measured along the curve. Lines always yield their endpoints only.
func (e *Edge) DiscretizeByLength(seglen float64) []geom.Vector {
	if _, ok := e.curve.(*Line); ok {
		return []geom.Vector{e.Start(), e.End()}
	}
	if seglen <= 0 {
		return e.Polyline()
	}
	l := e.Length()
	n := int(math.Ceil(l / seglen))
	if n < 1 {
		n = 1
	}
	table := e.arcTable()
	pts := make([]geom.Vector, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = e.PointAt(table.param(l * float64(i) / float64(n)))
	}
	return pts
}

// PointAtDistance returns the point at arc length d from the start.
func (e *Edge) PointAtDistance(d float64) geom.Vector {
	return e.PointAt(e.ParameterAtDistance(d))
}

// ParameterAtDistance returns the edge parameter at arc length d.
func (e *Edge) ParameterAtDistance(d float64) float64 {
	switch c := e.curve.(type) {
	case *Line:
		return d / e.Length()
	case *Circle:
		if c.IsCircle() {
			return d / e.Length()
		}
	}
	return e.arcTable().param(d)
}

// Polyline returns a default discretization, used for clipping and
// bounding boxes.
func (e *Edge) Polyline() []geom.Vector {
	if _, ok := e.curve.(*Line); ok {
		return []geom.Vector{e.Start(), e.End()}
	}
	return e.Discretize(e.samples() + 1)
}

type arcTable struct {
	u, s []float64
}

func (e *Edge) arcTable() arcTable {
	n := e.samples() * 4
	t := arcTable{u: make([]float64, n+1), s: make([]float64, n+1)}
	prev := e.PointAt(0)
	for i := 1; i <= n; i++ {
		u := float64(i) / float64(n)
		p := e.PointAt(u)
		t.u[i] = u
		t.s[i] = t.s[i-1] + geom.Dist(prev, p)
		prev = p
	}
	return t
}

func (t arcTable) param(d float64) float64 {
	n := len(t.s) - 1
	if d <= 0 {
		return 0
	}
	if d >= t.s[n] {
		return 1
	}
	lo, hi := 0, n
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if t.s[mid] < d {
			lo = mid
		} else {
			hi = mid
		}
	}
	f := (d - t.s[lo]) / (t.s[hi] - t.s[lo])
	return t.u[lo] + f*(t.u[hi]-t.u[lo])
}

// ClosestParameter returns the edge parameter of the point closest to p.
func (e *Edge) ClosestParameter(p geom.Vector) float64 {
	switch c := e.curve.(type) {
	case *Line:
		_, u := geom.ClosestOnSegment(p, e.Start(), e.End())
		return u
	case *Circle:
		if c.IsCircle() {
			t := c.Parameter(p)
			for t < e.first-geom.Epsilon() {
				t += 2 * math.Pi
			}
			if t <= e.last+geom.Epsilon() {
				return math.Max(0, math.Min(1, e.EdgeParameter(t)))
			}
			if geom.Dist(p, e.Start()) < geom.Dist(p, e.End()) {
				return 0
			}
			return 1
		}
	}
	n := e.samples() * 2
	best, bestd := 0.0, math.Inf(1)
	for i := 0; i <= n; i++ {
		u := float64(i) / float64(n)
		if d := geom.Dist(p, e.PointAt(u)); d < bestd {
			best, bestd = u, d
		}
	}
	// refine by bisection around the best sample
	h := 1.0 / float64(n)
	for k := 0; k < 30; k++ {
		h /= 2
		for _, u := range []float64{best - h, best + h} {
			if u < 0 || u > 1 {
				continue
			}
			if d := geom.Dist(p, e.PointAt(u)); d < bestd {
				best, bestd = u, d
			}
		}
	}
	return best
}

// DistanceTo returns the distance of p to the edge.
func (e *Edge) DistanceTo(p geom.Vector) float64 {
	return geom.Dist(p, e.PointAt(e.ClosestParameter(p)))
}

// IsSame checks if two edges have the same endpoints and mid point,
// regardless of orientation.
func (e *Edge) IsSame(o *Edge) bool {
	if !geom.Coincident(e.Mid(), o.Mid()) {
		return false
	}
	return (geom.Coincident(e.Start(), o.Start()) && geom.Coincident(e.End(), o.End())) ||
		(geom.Coincident(e.Start(), o.End()) && geom.Coincident(e.End(), o.Start()))
}

func (e *Edge) String() string {
	return fmt.Sprintf("Edge<%s %s→%s>", e.Type(), geom.VString(e.Start()), geom.VString(e.End()))
}

// Shape wraps an edge into a shape.
func (e *Edge) Shape() *Shape {
	return &Shape{typ: EdgeShape, edge: e}
}
