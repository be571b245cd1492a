package draft

import (
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// BSpline is a cubic spline interpolating its points.
type BSpline struct {
	Points           []geom.Vector
	Closed           bool
	MakeFace         bool
	Parameterization float64
	Area             float64
}

// Type is "BSpline".
func (b *BSpline) Type() string { return "BSpline" }

// Properties returns the property table.
func (b *BSpline) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropVectorList, "Points", "Draft", "The points of the B-spline", &b.Points),
		document.P(document.PropBool, "Closed", "Draft", "If the B-spline is closed or not", &b.Closed),
		document.P(document.PropBool, "MakeFace", "Draft", "Create a face if this spline is closed", &b.MakeFace),
		document.P(document.PropFloat, "Parameterization", "Draft", "Parameterization factor", &b.Parameterization),
		document.P(document.PropArea, "Area", "Draft", "The area of this object", &b.Area),
	}
}

// PointsRef gives access to the points.
func (b *BSpline) PointsRef() *[]geom.Vector { return &b.Points }

// IsClosed tells if the spline is periodic.
func (b *BSpline) IsClosed() bool { return b.Closed }

// Execute rebuilds the spline. A closed spline must not repeat its first
// point at the end.
func (b *BSpline) Execute(obj *document.Object) error {
	b.Area = 0
	if len(b.Points) < 2 {
		publish(obj, nil)
		return nil
	}
	n := len(b.Points)
	if b.Closed && geom.Coincident(b.Points[0], b.Points[n-1]) {
		return core.Error(core.EINVARIANT, "%s: closed B-spline repeats its first point", obj.Name)
	}
	if b.Closed && n < 3 {
		return core.Error(core.EINVARIANT, "%s: closed B-spline needs at least 3 points", obj.Name)
	}
	var e *kernel.Edge
	var err error
	if n == 2 {
		e, err = kernel.MakeLine(b.Points[0], b.Points[1])
	} else {
		e, err = kernel.MakeBSpline(b.Points, b.Parameterization, b.Closed)
	}
	if err != nil {
		return err
	}
	shape := e.Shape()
	if b.Closed && b.MakeFace {
		w, err := kernel.MakeWire([]*kernel.Edge{e})
		if err == nil {
			var f *kernel.Face
			if f, err = kernel.MakeFace(w); err == nil {
				shape = f.Shape()
				b.Area = f.Area()
			}
		}
		if err != nil {
			tracer().Infof("%s: cannot make a face, keeping the curve: %v", obj.Name, err)
		}
	}
	publish(obj, shape)
	return nil
}

// OnChanged keeps the parameterization within [0, 1].
func (b *BSpline) OnChanged(obj *document.Object, prop string) {
	if prop == "Parameterization" {
		b.Parameterization = math.Max(0, math.Min(1, b.Parameterization))
	}
}

// GetParameterFromV0 returns the edge parameter at a distance from the
// start of an edge.
func GetParameterFromV0(e *kernel.Edge, distance float64) float64 {
	return e.ParameterAtDistance(distance)
}

// GetSplineParameters returns the knots of the spline interpolating the
// points of a B-spline entity.
func GetSplineParameters(b *BSpline) ([]float64, error) {
	return kernel.SplineKnots(b.Points, b.Parameterization, b.Closed)
}

// MakeBSpline creates a spline through global points. For closed splines a
// repeated first point at the end is dropped.
func MakeBSpline(doc *document.Document, pts []geom.Vector, closed bool, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	if len(pts) < 2 {
		return nil, core.Error(core.EPRECONDITION, "a B-spline needs at least 2 points, have %d", len(pts))
	}
	if closed && len(pts) > 2 && geom.Coincident(pts[0], pts[len(pts)-1]) {
		tracer().Infof("closed B-spline repeats its first point, dropping the last point")
		pts = pts[:len(pts)-1]
	}
	return create(doc, document.Part2DObject, &BSpline{
		Points:   c.local(pts),
		Closed:   closed,
		MakeFace: c.makeFace(),
	}, c)
}
