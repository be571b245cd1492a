package draft

import (
	"math"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Rectangle spans Length along the local X axis and Height along Y.
type Rectangle struct {
	Length       float64
	Height       float64
	FilletRadius float64
	ChamferSize  float64
	MakeFace     bool
	Rows         int
	Columns      int
	Area         float64
}

// Type is "Rectangle".
func (r *Rectangle) Type() string { return "Rectangle" }

// Properties returns the property table.
func (r *Rectangle) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropDistance, "Length", "Draft", "Length of the rectangle", &r.Length),
		document.P(document.PropDistance, "Height", "Draft", "Height of the rectangle", &r.Height),
		document.P(document.PropLength, "FilletRadius", "Draft", "Radius to use to fillet the corners", &r.FilletRadius),
		document.P(document.PropLength, "ChamferSize", "Draft", "Size of the chamfer to give to the corners", &r.ChamferSize),
		document.P(document.PropBool, "MakeFace", "Draft", "Create a face", &r.MakeFace),
		document.P(document.PropInteger, "Rows", "Draft", "Horizontal subdivisions of this rectangle", &r.Rows),
		document.P(document.PropInteger, "Columns", "Draft", "Vertical subdivisions of this rectangle", &r.Columns),
		document.P(document.PropArea, "Area", "Draft", "The area of this object", &r.Area),
	}
}

// Corners returns the corner points in the local frame.
func (r *Rectangle) Corners() []geom.Vector {
	return []geom.Vector{
		geom.V(0, 0, 0), geom.V(r.Length, 0, 0), geom.V(r.Length, r.Height, 0), geom.V(0, r.Height, 0),
	}
}

// Execute rebuilds the rectangle. A rectangle without extent has no shape.
func (r *Rectangle) Execute(obj *document.Object) error {
	r.Area = 0
	if math.Abs(r.Length*r.Height) < geom.Epsilon() {
		tracer().Infof("%s has zero extent, no shape", obj.Name)
		publish(obj, nil)
		return nil
	}
	if r.Rows > 1 || r.Columns > 1 {
		shape, err := r.grid()
		if err != nil {
			return err
		}
		r.Area = math.Abs(r.Length * r.Height)
		publish(obj, shape)
		return nil
	}
	wire, err := polyline(r.Corners(), true, r.FilletRadius, r.ChamferSize)
	if err != nil {
		return err
	}
	shape := wire.Shape()
	if r.MakeFace {
		face, err := kernel.MakeFace(wire)
		if err != nil {
			return err
		}
		shape = face.Shape()
		r.Area = face.Area()
	}
	publish(obj, shape)
	return nil
}

// grid builds the cells of a subdivided rectangle.
func (r *Rectangle) grid() (*kernel.Shape, error) {
	rows, cols := max(r.Rows, 1), max(r.Columns, 1)
	dx, dy := r.Length/float64(cols), r.Height/float64(rows)
	var faces []*kernel.Face
	var wires []*kernel.Shape
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			x, y := float64(i)*dx, float64(j)*dy
			w, err := kernel.MakePolygon([]geom.Vector{
				geom.V(x, y, 0), geom.V(x+dx, y, 0), geom.V(x+dx, y+dy, 0), geom.V(x, y+dy, 0),
			}, true)
			if err != nil {
				return nil, err
			}
			if !r.MakeFace {
				wires = append(wires, w.Shape())
				continue
			}
			f, err := kernel.MakeFace(w)
			if err != nil {
				return nil, err
			}
			faces = append(faces, f)
		}
	}
	if r.MakeFace {
		return kernel.MakeShell(faces)
	}
	return kernel.MakeCompound(wires...), nil
}

// MakeRectangle creates a rectangle. The placement positions its lower
// left corner.
func MakeRectangle(doc *document.Document, length, height float64, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	if math.IsNaN(length) || math.IsNaN(height) {
		return nil, core.Error(core.EPRECONDITION, "invalid rectangle size")
	}
	r := &Rectangle{
		Length:       length,
		Height:       height,
		MakeFace:     c.makeFace(),
		FilletRadius: c.fillet,
		ChamferSize:  c.chamfer,
	}
	return create(doc, document.Part2DObject, r, c)
}

// MakeRectangleFromPoints creates a rectangle from its four corners, given
// counter-clockwise starting at the corner which becomes the origin.
func MakeRectangleFromPoints(doc *document.Document, pts []geom.Vector, opts ...Option) (*document.Object, error) {
	if len(pts) != 4 {
		return nil, core.Error(core.EPRECONDITION, "a rectangle needs 4 corners, have %d", len(pts))
	}
	u, v := geom.Sub(pts[1], pts[0]), geom.Sub(pts[3], pts[0])
	if geom.IsNull(u) || geom.IsNull(v) || math.Abs(geom.Dot(geom.Normalize(u), geom.Normalize(v))) > geom.Epsilon() {
		return nil, core.Error(core.EPRECONDITION, "corners do not form a rectangle")
	}
	rot := geom.RotationFromBasis(geom.Normalize(u), geom.Normalize(v), geom.Normalize(geom.Cross(u, v)))
	opts = append(opts, WithPlacement(geom.NewPlacement(pts[0], rot)))
	return MakeRectangle(doc, geom.Length(u), geom.Length(v), opts...)
}
