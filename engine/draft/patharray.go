package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// PathArray distributes copies of a base object along a path.
type PathArray struct {
	Base     document.Handle
	PathObj  document.Handle
	PathSubs []string
	Count    int
	Xlate    geom.Vector
	Align    bool
	Normal   geom.Vector
}

// Type is "PathArray".
func (pa *PathArray) Type() string { return "PathArray" }

// Properties returns the property table.
func (pa *PathArray) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLink, "Base", "Objects", "The base object that must be duplicated", &pa.Base),
		document.P(document.PropLink, "PathObj", "Objects", "The path object along which to distribute objects", &pa.PathObj),
		document.P(document.PropStringList, "PathSubs", "Objects", "Selected edges of the path object", &pa.PathSubs),
		document.P(document.PropInteger, "Count", "Objects", "Number of copies", &pa.Count),
		document.P(document.PropVector, "Xlate", "Alignment", "Additional translation of each copy", &pa.Xlate),
		document.P(document.PropBool, "Align", "Alignment", "Orient the copies along the path", &pa.Align),
		document.P(document.PropVector, "Normal", "Alignment", "Normal used when the path does not define a plane", &pa.Normal),
	}
}

// pathWire returns the wire the copies are distributed on.
func (pa *PathArray) pathWire(doc *document.Document) (*kernel.Wire, error) {
	shapes, err := SubShapes(doc, document.LinkSub{Object: pa.PathObj, Subs: pa.PathSubs})
	if err != nil {
		return nil, err
	}
	var edges []*kernel.Edge
	for _, s := range shapes {
		edges = append(edges, s.Edges()...)
	}
	if len(edges) == 0 {
		return nil, core.Error(core.EPRECONDITION, "path has no edges")
	}
	chains := kernel.SortEdges(edges)
	return kernel.MakeWire(chains[0])
}

// Placements computes one placement per copy, spaced evenly by arc length.
func (pa *PathArray) Placements(w *kernel.Wire) ([]geom.Placement, error) {
	if pa.Count < 2 {
		return nil, core.Error(core.EINVARIANT, "path array needs at least 2 copies, has %d", pa.Count)
	}
	total := w.Length()
	step := total / float64(pa.Count-1)
	if w.IsClosed() {
		step = total / float64(pa.Count)
	}
	n := pa.Normal
	if _, pn, ok := w.Shape().Plane(); ok {
		n = pn
	}
	pls := make([]geom.Placement, pa.Count)
	for i := range pls {
		p, tangent := pointOnWire(w, step*float64(i))
		rot := geom.Identity()
		if pa.Align {
			rot = alignedRotation(tangent, n)
		}
		pls[i] = geom.NewPlacement(p, rot)
	}
	return pls, nil
}

// pointOnWire returns the point and tangent at arc length d.
func pointOnWire(w *kernel.Wire, d float64) (geom.Vector, geom.Vector) {
	edges := w.Edges()
	for i, e := range edges {
		l := e.Length()
		if d <= l || i == len(edges)-1 {
			if d > l {
				d = l
			}
			u := e.ParameterAtDistance(d)
			return e.PointAt(u), e.TangentAt(u)
		}
		d -= l
	}
	return geom.Origin, geom.XAxis
}

// alignedRotation maps X to the tangent and Z to the normal.
func alignedRotation(tangent, n geom.Vector) geom.Rotation {
	if geom.IsNull(tangent) || geom.IsNull(n) || geom.IsParallel(tangent, n) {
		tracer().Infof("cannot align copy to path, tangent %s normal %s", geom.VString(tangent), geom.VString(n))
		return geom.Identity()
	}
	x := geom.Normalize(tangent)
	z := geom.Normalize(geom.Sub(n, geom.Project(n, x)))
	y := geom.Cross(z, x)
	return geom.RotationFromBasis(x, y, z)
}

// Execute places copies of the base along the path.
func (pa *PathArray) Execute(obj *document.Object) error {
	doc := obj.Document()
	base := doc.Get(pa.Base)
	if base == nil || !base.HasShape() {
		return core.Error(core.EPRECONDITION, "%s: base has no shape", obj.Name)
	}
	w, err := pa.pathWire(doc)
	if err != nil {
		return core.WrapError(err, core.EPRECONDITION, "%s: invalid path", obj.Name)
	}
	pls, err := pa.Placements(w)
	if err != nil {
		return core.WrapError(err, core.Code(err), "%s: %s", obj.Name, core.UserMessage(err))
	}
	local := base.Shape.Translated(geom.Neg(base.Placement.Base)).Translated(pa.Xlate)
	copies := make([]*kernel.Shape, len(pls))
	for i, pl := range pls {
		copies[i] = local.Transformed(pl)
	}
	publish(obj, kernel.MakeCompound(copies...))
	return nil
}

// MakePathArray creates count copies of base along the edges of a path
// object. Empty subs use every edge of the path.
func MakePathArray(doc *document.Document, base, path document.Handle, subs []string, count int, align bool, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if doc.Get(base) == nil || doc.Get(path) == nil {
		return nil, core.Error(core.EPRECONDITION, "path array needs a base and a path")
	}
	pa := &PathArray{
		Base: base, PathObj: path, PathSubs: subs,
		Count: count, Align: align, Normal: geom.ZAxis,
	}
	obj, err := create(doc, document.PartFeature, pa, settings(opts))
	if err != nil {
		return nil, err
	}
	FormatObject(obj, doc.Get(base))
	return obj, nil
}

// PointArray places a copy of a base object at each point of another
// object.
type PointArray struct {
	Base           document.Handle
	PointObject    document.Handle
	Count          int
	ExtraPlacement geom.Placement
}

// Type is "PointArray".
func (pa *PointArray) Type() string { return "PointArray" }

// Properties returns the property table.
func (pa *PointArray) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLink, "Base", "Objects", "Base object that will be duplicated", &pa.Base),
		document.P(document.PropLink, "PointObject", "Objects", "Object containing points used to distribute the copies", &pa.PointObject),
		document.P(document.PropInteger, "Count", "Objects", "Number of copies in the array", &pa.Count),
		document.P(document.PropPlacement, "ExtraPlacement", "Objects", "Additional placement applied to each copy", &pa.ExtraPlacement),
	}
}

// Points collects the target points. Objects with a point list provide
// their points, groups provide the positions of their members, any other
// shape its vertexes.
func (pa *PointArray) Points(doc *document.Document) ([]geom.Vector, error) {
	src := doc.Get(pa.PointObject)
	if src == nil {
		return nil, core.Error(core.EMISSING, "point object does not exist")
	}
	if pl, ok := src.Proxy.(PointList); ok {
		var pts []geom.Vector
		for _, p := range *pl.PointsRef() {
			pts = append(pts, src.Placement.Apply(p))
		}
		return pts, nil
	}
	if document.IsGroup(src) {
		var pts []geom.Vector
		for _, m := range doc.GroupContents(src.Handle(), false) {
			if pt, ok := m.Proxy.(*Point); ok {
				pts = append(pts, pt.Position())
			} else if m.HasShape() && m.Shape.Type() == kernel.VertexShape {
				pts = append(pts, m.Shape.Point())
			}
		}
		return pts, nil
	}
	if !src.HasShape() {
		return nil, core.Error(core.EPRECONDITION, "%s has no points", src.Name)
	}
	return src.Shape.Vertexes(), nil
}

// Execute places copies at the points.
func (pa *PointArray) Execute(obj *document.Object) error {
	doc := obj.Document()
	base, err := linkedShape(obj, pa.Base, "base")
	if err != nil {
		return err
	}
	pts, err := pa.Points(doc)
	if err != nil {
		return core.WrapError(err, core.Code(err), "%s: %s", obj.Name, core.UserMessage(err))
	}
	pa.Count = len(pts)
	if len(pts) == 0 {
		publish(obj, nil)
		return nil
	}
	local := base.Transformed(pa.ExtraPlacement)
	copies := make([]*kernel.Shape, len(pts))
	for i, p := range pts {
		copies[i] = local.Translated(p)
	}
	publish(obj, kernel.MakeCompound(copies...))
	return nil
}

// MakePointArray creates a copy of base at every point of ptobj.
func MakePointArray(doc *document.Document, base, ptobj document.Handle, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if doc.Get(base) == nil || doc.Get(ptobj) == nil {
		return nil, core.Error(core.EPRECONDITION, "point array needs a base and a point object")
	}
	pa := &PointArray{Base: base, PointObject: ptobj, ExtraPlacement: geom.IdentityPlacement()}
	obj, err := create(doc, document.PartFeature, pa, settings(opts))
	if err != nil {
		return nil, err
	}
	obj.SetEditorMode("Count", document.ReadOnly)
	FormatObject(obj, doc.Get(base))
	return obj, nil
}
