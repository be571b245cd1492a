package sketch

import (
	"github.com/npillmayer/arithm"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Property types of sketches
const (
	PropGeometryList   document.PropertyType = "GeometryList"
	PropConstraintList document.PropertyType = "ConstraintList"
)

// Sketch is the proxy of a sketch object.
type Sketch struct {
	Geometry    []Geometry
	Constraints []Constraint
}

// Type is "Sketch".
func (s *Sketch) Type() string { return "Sketch" }

// Properties returns the property table.
func (s *Sketch) Properties() []document.Property {
	return []document.Property{
		document.P(PropGeometryList, "Geometry", "Sketch", "The geometry of the sketch", &s.Geometry),
		document.P(PropConstraintList, "Constraints", "Sketch", "The constraints of the sketch", &s.Constraints),
	}
}

// AddGeometry appends geometry and returns the index of the first element
// added.
func (s *Sketch) AddGeometry(gs ...Geometry) int {
	i := len(s.Geometry)
	s.Geometry = append(s.Geometry, gs...)
	return i
}

// AddConstraint appends a constraint and returns its index. Constraints
// referring to unknown geometry are rejected.
func (s *Sketch) AddConstraint(c Constraint) (int, error) {
	for _, i := range c.geometries() {
		if i < 0 || i >= len(s.Geometry) {
			return -1, core.Error(core.EINVALID, "constraint %s refers to unknown geometry %d", c, i)
		}
	}
	s.Constraints = append(s.Constraints, c)
	return len(s.Constraints) - 1, nil
}

// Vertex is a point of a sketch geometry.
type Vertex struct {
	Geo int
	Pos PointPos
	At  arithm.Pair
}

// Vertices lists the end points of all geometries plus the centers of
// circles, arcs and ellipses.
func (s *Sketch) Vertices() []Vertex {
	var vs []Vertex
	for i, g := range s.Geometry {
		for _, pos := range []PointPos{Start, End, Mid} {
			if g.Kind == KindLine && pos == Mid {
				continue
			}
			if g.Kind == KindSpline && g.Closed && pos == End {
				continue
			}
			if p, ok := g.At(pos); ok {
				vs = append(vs, Vertex{Geo: i, Pos: pos, At: p})
			}
		}
	}
	return vs
}

// MovePoint moves a point of a geometry.
func (s *Sketch) MovePoint(geo int, pos PointPos, to arithm.Pair) error {
	if geo < 0 || geo >= len(s.Geometry) {
		return core.Error(core.EINVALID, "no geometry %d in sketch", geo)
	}
	g, err := s.Geometry[geo].Moved(pos, to)
	if err != nil {
		return err
	}
	s.Geometry[geo] = g
	return nil
}

// Global returns the world position of a sketch point.
func Global(obj *document.Object, p arithm.Pair) geom.Vector {
	return obj.Placement.Apply(to3D(p))
}

// Local returns the sketch coordinates of a world point. The distance from
// the sketch plane is dropped.
func Local(obj *document.Object, v geom.Vector) arithm.Pair {
	return to2D(obj.Placement.ApplyInverse(v))
}

// Execute builds wires from the edges of all geometry which is not
// construction geometry.
func (s *Sketch) Execute(obj *document.Object) error {
	var edges []*kernel.Edge
	var points []*kernel.Shape
	for i, g := range s.Geometry {
		if g.Construction {
			continue
		}
		if g.Kind == KindPoint {
			points = append(points, kernel.MakeVertex(to3D(g.Points[0])))
			continue
		}
		e, err := g.Edge()
		if err != nil {
			return core.WrapError(err, core.EGEOMETRY, "%s: geometry %d is invalid", obj.Name, i)
		}
		edges = append(edges, e)
	}
	var shapes []*kernel.Shape
	for _, chain := range kernel.SortEdges(edges) {
		w, err := kernel.MakeWire(chain)
		if err != nil {
			return core.WrapError(err, core.EGEOMETRY, "%s: cannot build wire", obj.Name)
		}
		shapes = append(shapes, w.Shape())
	}
	shapes = append(shapes, points...)
	tracer().Debugf("%s: %d geometries yield %d shapes", obj.Name, len(s.Geometry), len(shapes))
	var local *kernel.Shape
	switch len(shapes) {
	case 0:
		obj.Shape = nil
		return nil
	case 1:
		local = shapes[0]
	default:
		local = kernel.MakeCompound(shapes...)
	}
	obj.Shape = local.Transformed(obj.Placement)
	return nil
}

// Make creates an empty sketch with a placement. A nil document selects
// the active one.
func Make(doc *document.Document, name string, pl geom.Placement) (*document.Object, error) {
	if doc == nil {
		doc = document.Active()
	}
	if doc == nil {
		return nil, core.Error(core.EPRECONDITION, "no active document, aborting")
	}
	if name == "" {
		name = "Sketch"
	}
	var obj *document.Object
	err := doc.Transact("Create Sketch", func() error {
		obj = doc.AddObject(document.SketchObject, name, &Sketch{})
		obj.Placement = pl
		return doc.RecomputeObject(obj.Handle())
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
