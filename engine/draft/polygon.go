package draft

import (
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Polygon is a regular polygon centered at the local origin.
type Polygon struct {
	FacesNumber  int
	Radius       float64
	DrawMode     document.Enum
	FilletRadius float64
	ChamferSize  float64
	MakeFace     bool
	Area         float64
}

// Type is "Polygon".
func (p *Polygon) Type() string { return "Polygon" }

// Properties returns the property table.
func (p *Polygon) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropInteger, "FacesNumber", "Draft", "Number of faces", &p.FacesNumber),
		document.P(document.PropLength, "Radius", "Draft", "Radius of the control circle", &p.Radius),
		document.P(document.PropEnum, "DrawMode", "Draft", "How the polygon must be drawn from the control circle", &p.DrawMode),
		document.P(document.PropLength, "FilletRadius", "Draft", "Radius to use to fillet the corners", &p.FilletRadius),
		document.P(document.PropLength, "ChamferSize", "Draft", "Size of the chamfer to give to the corners", &p.ChamferSize),
		document.P(document.PropBool, "MakeFace", "Draft", "Create a face", &p.MakeFace),
		document.P(document.PropArea, "Area", "Draft", "The area of this object", &p.Area),
	}
}

// CornerRadius returns the distance of the corners from the center. In
// circumscribed mode the control circle touches the sides.
func (p *Polygon) CornerRadius() float64 {
	if p.DrawMode.Is("circumscribed") {
		return p.Radius / math.Cos(math.Pi/float64(p.FacesNumber))
	}
	return p.Radius
}

// Corners returns the corner points in the local frame.
func (p *Polygon) Corners() []geom.Vector {
	r := p.CornerRadius()
	delta := 2 * math.Pi / float64(p.FacesNumber)
	pts := make([]geom.Vector, p.FacesNumber)
	for i := range pts {
		a := float64(i) * delta
		pts[i] = geom.V(r*math.Cos(a), r*math.Sin(a), 0)
	}
	return pts
}

// Execute rebuilds the polygon.
func (p *Polygon) Execute(obj *document.Object) error {
	if p.FacesNumber < 3 {
		return core.Error(core.EINVARIANT, "%s: a polygon needs at least 3 faces, has %d", obj.Name, p.FacesNumber)
	}
	if p.Radius <= 0 {
		return core.Error(core.EINVARIANT, "%s: radius must be positive", obj.Name)
	}
	wire, err := polyline(p.Corners(), true, p.FilletRadius, p.ChamferSize)
	if err != nil {
		return err
	}
	p.Area = 0
	shape := wire.Shape()
	if p.MakeFace {
		f, err := kernel.MakeFace(wire)
		if err != nil {
			return err
		}
		shape = f.Shape()
		p.Area = f.Area()
	}
	publish(obj, shape)
	return nil
}

// MakePolygon creates a regular polygon. With inscribed set the corners lie
// on the circle of the given radius, otherwise the sides touch it.
func MakePolygon(doc *document.Document, faces int, radius float64, inscribed bool, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	if faces < 3 {
		return nil, core.Error(core.EPRECONDITION, "a polygon needs at least 3 faces, have %d", faces)
	}
	mode := document.NewEnum("inscribed", "circumscribed")
	if !inscribed {
		mode.Value = "circumscribed"
	}
	return create(doc, document.Part2DObject, &Polygon{
		FacesNumber:  faces,
		Radius:       radius,
		DrawMode:     mode,
		MakeFace:     c.makeFace(),
		FilletRadius: c.fillet,
		ChamferSize:  c.chamfer,
	}, c)
}

// Point is a single vertex.
type Point struct {
	X, Y, Z float64
}

// Type is "Point".
func (pt *Point) Type() string { return "Point" }

// Properties returns the property table.
func (pt *Point) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropDistance, "X", "Draft", "X location", &pt.X),
		document.P(document.PropDistance, "Y", "Draft", "Y location", &pt.Y),
		document.P(document.PropDistance, "Z", "Draft", "Z location", &pt.Z),
	}
}

// Position returns the location as a vector.
func (pt *Point) Position() geom.Vector {
	return geom.V(pt.X, pt.Y, pt.Z)
}

// Execute places the vertex. The placement follows the location.
func (pt *Point) Execute(obj *document.Object) error {
	obj.Placement.Base = pt.Position()
	obj.Shape = kernel.MakeVertex(pt.Position())
	return nil
}

// OnChanged moves the point with its placement.
func (pt *Point) OnChanged(obj *document.Object, prop string) {
	if prop == "Placement" {
		pt.X, pt.Y, pt.Z = obj.Placement.Base.X, obj.Placement.Base.Y, obj.Placement.Base.Z
	}
}

// MakePoint creates a point entity.
func MakePoint(doc *document.Document, p geom.Vector, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	pl := geom.Translation(p)
	c.placement = &pl
	return create(doc, document.FeaturePython, &Point{X: p.X, Y: p.Y, Z: p.Z}, c)
}
