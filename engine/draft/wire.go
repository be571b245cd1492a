package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// PointList is implemented by entities defined by a list of points in
// their local frame.
type PointList interface {
	PointsRef() *[]geom.Vector
	IsClosed() bool
}

// Wire is a polyline, optionally closed and filled.
type Wire struct {
	Points       []geom.Vector
	Closed       bool
	MakeFace     bool
	FilletRadius float64
	ChamferSize  float64
	Subdivisions int
	Base         document.Handle
	Tool         document.Handle
	Start        geom.Vector
	End          geom.Vector
	Length       float64
	Area         float64
}

// Type is "Wire".
func (w *Wire) Type() string { return "Wire" }

// Properties returns the property table.
func (w *Wire) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropVectorList, "Points", "Draft", "The vertices of the wire", &w.Points),
		document.P(document.PropBool, "Closed", "Draft", "If the wire is closed or not", &w.Closed),
		document.P(document.PropBool, "MakeFace", "Draft", "Create a face if the wire is closed", &w.MakeFace),
		document.P(document.PropLength, "FilletRadius", "Draft", "Radius to use to fillet the corners", &w.FilletRadius),
		document.P(document.PropLength, "ChamferSize", "Draft", "Size of the chamfer to give to the corners", &w.ChamferSize),
		document.P(document.PropInteger, "Subdivisions", "Draft", "The number of subdivisions of each edge", &w.Subdivisions),
		document.P(document.PropLink, "Base", "Draft", "The base object is the wire, it's formed from 2 objects", &w.Base),
		document.P(document.PropLink, "Tool", "Draft", "The tool object is the wire, it's formed from 2 objects", &w.Tool),
		document.P(document.PropVector, "Start", "Draft", "The start point of this line", &w.Start),
		document.P(document.PropVector, "End", "Draft", "The end point of this line", &w.End),
		document.P(document.PropLength, "Length", "Draft", "The length of this line", &w.Length),
		document.P(document.PropArea, "Area", "Draft", "The area of this object", &w.Area),
	}
}

// PointsRef gives access to the points.
func (w *Wire) PointsRef() *[]geom.Vector { return &w.Points }

// IsClosed tells if the wire is closed.
func (w *Wire) IsClosed() bool { return w.Closed }

// Execute rebuilds the polyline from its points.
func (w *Wire) Execute(obj *document.Object) error {
	if w.Base != document.NoObject && w.Tool != document.NoObject {
		if err := w.fromBaseAndTool(obj); err != nil {
			return err
		}
	}
	w.Length, w.Area = 0, 0
	pts := kernel.DedupPoints(w.Points, w.Closed)
	if len(pts) < 2 {
		publish(obj, nil)
		return nil
	}
	closed := w.Closed && len(pts) > 2
	if w.Subdivisions > 0 {
		pts = subdivide(pts, closed, w.Subdivisions)
	}
	wire, err := polyline(pts, closed, w.FilletRadius, w.ChamferSize)
	if err != nil {
		return err
	}
	w.Length = wire.Length()
	shape := wire.Shape()
	if closed && w.MakeFace {
		if face, err := kernel.MakeFace(wire); err == nil {
			shape = face.Shape()
			w.Area = face.Area()
		} else {
			tracer().Infof("%s: cannot make a face, keeping the wire: %v", obj.Name, err)
		}
	}
	w.syncEnds()
	publish(obj, shape)
	return nil
}

// OnChanged keeps Start and End in sync with the points.
func (w *Wire) OnChanged(obj *document.Object, prop string) {
	switch prop {
	case "Start":
		if len(w.Points) > 0 {
			w.Points[0] = w.Start
		}
	case "End":
		if len(w.Points) > 1 {
			w.Points[len(w.Points)-1] = w.End
		}
	case "Points":
		w.syncEnds()
	}
}

func (w *Wire) syncEnds() {
	if len(w.Points) > 0 {
		w.Start = w.Points[0]
		w.End = w.Points[len(w.Points)-1]
	}
}

// fromBaseAndTool sets the points from the fusion of two objects.
func (w *Wire) fromBaseAndTool(obj *document.Object) error {
	base, err := linkedShape(obj, w.Base, "base")
	if err != nil {
		return err
	}
	tool, err := linkedShape(obj, w.Tool, "tool")
	if err != nil {
		return err
	}
	var outline *kernel.Wire
	if len(base.Faces()) > 0 && len(tool.Faces()) > 0 {
		fused, err := kernel.Fuse(base, tool)
		if err != nil {
			return err
		}
		faces := fused.RemoveSplitter().Faces()
		if len(faces) != 1 || len(faces[0].Holes()) > 0 {
			return core.Error(core.EGEOMETRY, "%s: fusion of base and tool is not a simple face", obj.Name)
		}
		outline = faces[0].OuterWire()
	} else {
		edges := append(append([]*kernel.Edge{}, base.Edges()...), tool.Edges()...)
		sorted := kernel.SortEdges(edges)
		if len(sorted) != 1 {
			return core.Error(core.EGEOMETRY, "%s: base and tool do not form a single wire", obj.Name)
		}
		if outline, err = kernel.MakeWire(sorted[0]); err != nil {
			return err
		}
	}
	pts := outline.Points()
	w.Closed = outline.IsClosed()
	w.Points = make([]geom.Vector, len(pts))
	for i, p := range pts {
		w.Points[i] = obj.Placement.ApplyInverse(p)
	}
	return nil
}

// polyline builds a straight-edged wire, rounding or cutting its corners
// if requested. Fillets take precedence over chamfers.
func polyline(pts []geom.Vector, closed bool, fillet, chamfer float64) (*kernel.Wire, error) {
	var edges []*kernel.Edge
	var err error
	switch {
	case fillet > 0:
		edges, err = kernel.FilletPolyline(pts, closed, fillet)
	case chamfer > 0:
		edges, err = kernel.ChamferPolyline(pts, closed, chamfer)
	default:
		return kernel.MakePolygon(pts, closed)
	}
	if err != nil {
		return nil, err
	}
	return kernel.MakeWire(edges)
}

// subdivide inserts n evenly spaced points into every segment.
func subdivide(pts []geom.Vector, closed bool, n int) []geom.Vector {
	segs := len(pts) - 1
	if closed {
		segs++
	}
	var out []geom.Vector
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		out = append(out, a)
		for k := 1; k <= n; k++ {
			out = append(out, geom.Lerp(a, b, float64(k)/float64(n+1)))
		}
	}
	if !closed {
		out = append(out, pts[len(pts)-1])
	}
	return out
}

// MakeWire creates a polyline through global points.
func MakeWire(doc *document.Document, pts []geom.Vector, closed bool, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	if len(pts) < 2 {
		return nil, core.Error(core.EPRECONDITION, "a wire needs at least 2 points, have %d", len(pts))
	}
	w := &Wire{
		Points:       c.local(pts),
		Closed:       closed,
		MakeFace:     c.makeFace(),
		FilletRadius: c.fillet,
		ChamferSize:  c.chamfer,
	}
	w.syncEnds()
	return create(doc, document.Part2DObject, w, c)
}

// MakeWireFromShape creates a polyline from the vertices of a wire.
func MakeWireFromShape(doc *document.Document, wire *kernel.Wire, opts ...Option) (*document.Object, error) {
	if wire == nil {
		return nil, core.Error(core.EPRECONDITION, "no wire given")
	}
	return MakeWire(doc, wire.Points(), wire.IsClosed(), opts...)
}

// MakeLine creates a straight line, i.e. a wire with 2 points.
func MakeLine(doc *document.Document, p1, p2 geom.Vector, opts ...Option) (*document.Object, error) {
	if geom.Coincident(p1, p2) {
		return nil, core.Error(core.EPRECONDITION, "line end points coincide")
	}
	return MakeWire(doc, []geom.Vector{p1, p2}, false, opts...)
}

// MakeFusedWire creates a closed wire following the outline of the fusion
// of two objects. The wire stays linked to both of them.
func MakeFusedWire(doc *document.Document, base, tool document.Handle, opts ...Option) (*document.Object, error) {
	c := settings(opts)
	if base == document.NoObject || tool == document.NoObject || base == tool {
		return nil, core.Error(core.EPRECONDITION, "a fused wire needs two different objects")
	}
	w := &Wire{Base: base, Tool: tool, Closed: true, MakeFace: c.makeFace()}
	return create(doc, document.Part2DObject, w, c)
}
