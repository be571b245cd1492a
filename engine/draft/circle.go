package draft

import (
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/units"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Circle is a circle or, if the angles differ, a counter-clockwise arc from
// FirstAngle to LastAngle. Angles are in degrees.
type Circle struct {
	Radius        float64
	FirstAngle    float64
	LastAngle     float64
	MakeFace      bool
	Circumference float64
	Area          float64
}

// Type is "Circle".
func (c *Circle) Type() string { return "Circle" }

// Properties returns the property table.
func (c *Circle) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLength, "Radius", "Draft", "Radius of the circle", &c.Radius),
		document.P(document.PropAngle, "FirstAngle", "Draft", "Start angle of the arc", &c.FirstAngle),
		document.P(document.PropAngle, "LastAngle", "Draft", "End angle of the arc (for a full circle, give it same value as First Angle)", &c.LastAngle),
		document.P(document.PropBool, "MakeFace", "Draft", "Create a face", &c.MakeFace),
		document.P(document.PropLength, "Circumference", "Draft", "The length of the edge", &c.Circumference),
		document.P(document.PropArea, "Area", "Draft", "The area of this object", &c.Area),
	}
}

// IsFull tells if the circle is not an arc.
func (c *Circle) IsFull() bool {
	return math.Abs(units.NormalizeDeg(c.FirstAngle)-units.NormalizeDeg(c.LastAngle)) < geom.Epsilon()
}

// Edge returns the circle edge in the local frame.
func (c *Circle) Edge() (*kernel.Edge, error) {
	if c.IsFull() {
		return kernel.MakeCircle(geom.Origin, geom.ZAxis, c.Radius)
	}
	return kernel.MakeArc(geom.Origin, geom.ZAxis, geom.XAxis, c.Radius,
		units.Radians(c.FirstAngle), units.Radians(c.LastAngle))
}

// Execute rebuilds the circle. Only full circles are filled.
func (c *Circle) Execute(obj *document.Object) error {
	if c.Radius <= 0 {
		return core.Error(core.EINVARIANT, "%s: radius must be positive, is %g", obj.Name, c.Radius)
	}
	c.FirstAngle = units.NormalizeDeg(c.FirstAngle)
	c.LastAngle = units.NormalizeDeg(c.LastAngle)
	e, err := c.Edge()
	if err != nil {
		return err
	}
	c.Circumference, c.Area = e.Length(), 0
	shape := e.Shape()
	if c.IsFull() {
		w, err := kernel.MakeWire([]*kernel.Edge{e})
		if err != nil {
			return err
		}
		shape = w.Shape()
		if c.MakeFace {
			f, err := kernel.MakeFace(w)
			if err != nil {
				return err
			}
			shape = f.Shape()
			c.Area = f.Area()
		}
	}
	publish(obj, shape)
	return nil
}

// MakeCircle creates a circle or arc centered at the origin of the
// placement. Angles are in degrees.
func MakeCircle(doc *document.Document, radius, first, last float64, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	if radius <= 0 {
		return nil, core.Error(core.EPRECONDITION, "radius must be positive, is %g", radius)
	}
	return create(doc, document.Part2DObject, &Circle{
		Radius:     radius,
		FirstAngle: first,
		LastAngle:  last,
		MakeFace:   c.makeFace(),
	}, c)
}

// MakeCircleFromEdge creates a circle or arc entity matching a circular
// edge.
func MakeCircleFromEdge(doc *document.Document, e *kernel.Edge, opts ...Option) (*document.Object, error) {
	circ, ok := e.Circle()
	if !ok || !circ.IsCircle() {
		return nil, core.Error(core.EPRECONDITION, "edge is not circular")
	}
	rot := geom.RotationFromBasis(circ.XDir, circ.YDir(), circ.Axis)
	opts = append(opts, WithPlacement(geom.NewPlacement(circ.Center, rot)))
	first, last := 0.0, 0.0
	if !e.IsClosed() {
		a1, a2 := e.Angles()
		first, last = units.Degrees(a1), units.Degrees(a2)
	}
	return MakeCircle(doc, circ.Radius, first, last, opts...)
}

// Ellipse is an ellipse with its major axis along local X.
type Ellipse struct {
	MajorRadius float64
	MinorRadius float64
	FirstAngle  float64
	LastAngle   float64
	MakeFace    bool
	Area        float64
}

// Type is "Ellipse".
func (el *Ellipse) Type() string { return "Ellipse" }

// Properties returns the property table.
func (el *Ellipse) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLength, "MajorRadius", "Draft", "The major radius of the ellipse", &el.MajorRadius),
		document.P(document.PropLength, "MinorRadius", "Draft", "The minor radius of the ellipse", &el.MinorRadius),
		document.P(document.PropAngle, "FirstAngle", "Draft", "Start angle of the elliptical arc", &el.FirstAngle),
		document.P(document.PropAngle, "LastAngle", "Draft", "End angle of the elliptical arc", &el.LastAngle),
		document.P(document.PropBool, "MakeFace", "Draft", "Create a face", &el.MakeFace),
		document.P(document.PropArea, "Area", "Draft", "The area of this object", &el.Area),
	}
}

// Execute rebuilds the ellipse.
func (el *Ellipse) Execute(obj *document.Object) error {
	if el.MinorRadius > el.MajorRadius {
		return core.Error(core.EINVARIANT, "%s: minor radius is greater than major radius", obj.Name)
	}
	if el.MinorRadius <= 0 {
		return core.Error(core.EINVARIANT, "%s: radii must be positive", obj.Name)
	}
	e, err := kernel.MakeEllipse(geom.Origin, geom.ZAxis, geom.XAxis, el.MajorRadius, el.MinorRadius)
	if err != nil {
		return err
	}
	el.Area = 0
	first, last := units.NormalizeDeg(el.FirstAngle), units.NormalizeDeg(el.LastAngle)
	if math.Abs(first-last) > geom.Epsilon() {
		a1, a2 := units.Radians(first), units.Radians(last)
		if a2 < a1 {
			a2 += 2 * math.Pi
		}
		publish(obj, kernel.NewEdge(e.Curve(), a1, a2).Shape())
		return nil
	}
	w, err := kernel.MakeWire([]*kernel.Edge{e})
	if err != nil {
		return err
	}
	shape := w.Shape()
	if el.MakeFace {
		f, err := kernel.MakeFace(w)
		if err != nil {
			return err
		}
		shape = f.Shape()
		el.Area = f.Area()
	}
	publish(obj, shape)
	return nil
}

// MakeEllipse creates an ellipse centered at the origin of the placement.
// The larger of the radii becomes the major radius; if the second radius
// is the larger one, the ellipse is turned by 90°.
func MakeEllipse(doc *document.Document, r1, r2 float64, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	if r1 <= 0 || r2 <= 0 {
		return nil, core.Error(core.EPRECONDITION, "ellipse radii must be positive")
	}
	if r2 > r1 {
		r1, r2 = r2, r1
		pl := c.pl()
		pl.Rotation = pl.Rotation.Multiply(geom.NewRotation(geom.ZAxis, math.Pi/2))
		c.placement = &pl
	}
	return create(doc, document.Part2DObject, &Ellipse{
		MajorRadius: r1,
		MinorRadius: r2,
		MakeFace:    c.makeFace(),
	}, c)
}
