package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Continuity values at the joints of Bézier segments
const (
	Sharp     = 0 // no continuity
	Tangent   = 1 // G1, poles on a common tangent
	Symmetric = 2 // poles point-symmetric about the knot
)

// BezCurve is a multi-segment Bézier curve. Points holds the poles;
// segment k runs from Points[k·Degree] to Points[(k+1)·Degree]. A closed
// curve returns to its first point, which is not repeated.
type BezCurve struct {
	Points     []geom.Vector
	Degree     int
	Continuity []int
	Closed     bool
	MakeFace   bool
	Area       float64
}

// Type is "BezCurve".
func (bz *BezCurve) Type() string { return "BezCurve" }

// Properties returns the property table.
func (bz *BezCurve) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropVectorList, "Points", "Draft", "The points of the Bezier curve", &bz.Points),
		document.P(document.PropInteger, "Degree", "Draft", "The degree of the Bezier function", &bz.Degree),
		document.P(document.PropIntList, "Continuity", "Draft", "Continuity", &bz.Continuity),
		document.P(document.PropBool, "Closed", "Draft", "If the Bezier curve should be closed or not", &bz.Closed),
		document.P(document.PropBool, "MakeFace", "Draft", "Create a face if this curve is closed", &bz.MakeFace),
		document.P(document.PropArea, "Area", "Draft", "The area of this object", &bz.Area),
	}
}

// PointsRef gives access to the poles.
func (bz *BezCurve) PointsRef() *[]geom.Vector { return &bz.Points }

// IsClosed tells if the curve is closed.
func (bz *BezCurve) IsClosed() bool { return bz.Closed }

// Segments returns the number of segments, or 0 if the poles do not fit the
// degree.
func (bz *BezCurve) Segments() int {
	n := len(bz.Points)
	if bz.Degree < 1 || n < 2 {
		return 0
	}
	if bz.Closed {
		if n%bz.Degree != 0 {
			return 0
		}
		return n / bz.Degree
	}
	if (n-1)%bz.Degree != 0 {
		return 0
	}
	return (n - 1) / bz.Degree
}

func (bz *BezCurve) poles() []geom.Vector {
	if bz.Closed {
		return append(append([]geom.Vector{}, bz.Points...), bz.Points[0])
	}
	return bz.Points
}

// Execute rebuilds the curve.
func (bz *BezCurve) Execute(obj *document.Object) error {
	bz.Area = 0
	if len(bz.Points) < 2 {
		publish(obj, nil)
		return nil
	}
	segs := bz.Segments()
	if segs == 0 {
		return core.Error(core.EINVARIANT, "%s: %d points do not fit Bézier segments of degree %d",
			obj.Name, len(bz.Points), bz.Degree)
	}
	bz.fixContinuity(segs)
	e, err := kernel.MakeBezier(bz.poles(), bz.Degree)
	if err != nil {
		return err
	}
	shape := e.Shape()
	if bz.Closed && bz.MakeFace {
		w, err := kernel.MakeWire([]*kernel.Edge{e})
		if err == nil {
			var f *kernel.Face
			if f, err = kernel.MakeFace(w); err == nil {
				shape = f.Shape()
				bz.Area = f.Area()
			}
		}
		if err != nil {
			tracer().Infof("%s: cannot make a face, keeping the curve: %v", obj.Name, err)
		}
	}
	publish(obj, shape)
	return nil
}

// fixContinuity makes the continuity list match the number of joints.
func (bz *BezCurve) fixContinuity(segs int) {
	joints := segs - 1
	if bz.Closed {
		joints++
	}
	for len(bz.Continuity) < joints {
		bz.Continuity = append(bz.Continuity, Sharp)
	}
	bz.Continuity = bz.Continuity[:joints]
}

// OnChanged resets the continuity when the degree changes and adjusts the
// poles when the curve is opened or closed.
func (bz *BezCurve) OnChanged(obj *document.Object, prop string) {
	switch prop {
	case "Degree":
		ResetContinuity(bz)
	case "Closed":
		CloseBezier(bz)
	}
}

// ResetContinuity sets all joints to sharp.
func ResetContinuity(bz *BezCurve) {
	bz.Continuity = nil
	if segs := bz.Segments(); segs > 0 {
		bz.fixContinuity(segs)
	}
}

// CloseBezier adjusts the poles to the Closed flag. Closing a curve drops
// a repeated first point and inserts poles on the closing segment until
// the pole count is a multiple of the degree. Opening a curve keeps the
// closing segment by repeating the first point.
func CloseBezier(bz *BezCurve) {
	n := len(bz.Points)
	if bz.Degree < 1 || n < 2 {
		return
	}
	if !bz.Closed {
		if n%bz.Degree == 0 {
			bz.Points = append(bz.Points, bz.Points[0])
		}
		ResetContinuity(bz)
		return
	}
	if geom.Coincident(bz.Points[0], bz.Points[n-1]) {
		bz.Points = bz.Points[:n-1]
		n--
	}
	if k := (bz.Degree - n%bz.Degree) % bz.Degree; k > 0 {
		first, last := bz.Points[0], bz.Points[n-1]
		for i := 1; i <= k; i++ {
			bz.Points = append(bz.Points, geom.Lerp(last, first, float64(i)/float64(k+1)))
		}
	}
	ResetContinuity(bz)
}

// SymmetricPoles returns the poles around a knot made point-symmetric
// about the knot. Their common length is the mean of the original lengths.
func SymmetricPoles(knot, p1, p2 geom.Vector) (geom.Vector, geom.Vector) {
	d1, d2 := geom.Sub(p1, knot), geom.Sub(p2, knot)
	ma := (geom.Length(d1) + geom.Length(d2)) / 2
	dir := geom.Normalize(geom.Sub(d1, d2))
	if geom.IsNull(dir) {
		return p1, p2
	}
	return geom.Add(knot, geom.Scale(ma, dir)), geom.Sub(knot, geom.Scale(ma, dir))
}

// TangentPoles returns the poles around a knot moved onto a common tangent,
// keeping their distances to the knot. If both poles lie on the same side
// of the knot, the symmetric poles are returned.
func TangentPoles(knot, p1, p2 geom.Vector) (geom.Vector, geom.Vector) {
	d1, d2 := geom.Sub(p1, knot), geom.Sub(p2, knot)
	if geom.Dot(d1, d2) > 0 {
		return SymmetricPoles(knot, p1, p2)
	}
	dir := geom.Normalize(geom.Sub(d1, d2))
	if geom.IsNull(dir) {
		return p1, p2
	}
	return geom.Add(knot, geom.Scale(geom.Length(d1), dir)), geom.Sub(knot, geom.Scale(geom.Length(d2), dir))
}

// SetContinuity sets the continuity at joint k, i.e. at the knot starting
// segment k+1, and moves the adjacent poles accordingly. For closed curves
// the last joint is the first point.
func (bz *BezCurve) SetContinuity(k, cont int) error {
	segs := bz.Segments()
	if segs == 0 {
		return core.Error(core.EINVARIANT, "poles do not fit the degree")
	}
	bz.fixContinuity(segs)
	if k < 0 || k >= len(bz.Continuity) {
		return core.Error(core.EINVALID, "no joint %d", k)
	}
	n := len(bz.Points)
	ki := ((k + 1) * bz.Degree) % n
	prev, next := (ki-1+n)%n, (ki+1)%n
	knot, p1, p2 := bz.Points[ki], bz.Points[prev], bz.Points[next]
	switch cont {
	case Sharp:
	case Tangent:
		bz.Points[prev], bz.Points[next] = TangentPoles(knot, p1, p2)
	case Symmetric:
		bz.Points[prev], bz.Points[next] = SymmetricPoles(knot, p1, p2)
	default:
		return core.Error(core.EINVALID, "invalid continuity %d", cont)
	}
	bz.Continuity[k] = cont
	return nil
}

// MakeBezCurve creates a Bézier curve from global poles.
func MakeBezCurve(doc *document.Document, pts []geom.Vector, degree int, closed bool, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	if len(pts) < 2 {
		return nil, core.Error(core.EPRECONDITION, "a Bézier curve needs at least 2 points, have %d", len(pts))
	}
	if degree < 1 {
		degree = len(pts) - 1
	}
	bz := &BezCurve{Points: c.local(pts), Degree: degree, Closed: closed, MakeFace: c.makeFace()}
	if closed {
		CloseBezier(bz)
	}
	ResetContinuity(bz)
	return create(doc, document.Part2DObject, bz, c)
}

// MakeSmoothBezCurve creates a cubic Bézier curve through global knots,
// with control points chosen for a smooth shape.
func MakeSmoothBezCurve(doc *document.Document, knots []geom.Vector, closed bool, opts ...Option) (*document.Object, error) {
	e, err := kernel.MakeSmoothBezier(knots, closed)
	if err != nil {
		return nil, err
	}
	poles := e.Curve().(*kernel.Bezier).Poles
	if closed {
		poles = poles[:len(poles)-1]
	}
	c := settings(opts)
	bz := &BezCurve{Points: c.local(poles), Degree: 3, Closed: closed, MakeFace: c.makeFace()}
	ResetContinuity(bz)
	for i := range bz.Continuity {
		bz.Continuity[i] = Tangent
	}
	return create(doc, document.Part2DObject, bz, c)
}
