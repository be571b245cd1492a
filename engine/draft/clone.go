package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Clone reproduces the shapes of other objects, optionally scaled.
type Clone struct {
	Objects []document.Handle
	Scale   geom.Vector
	Fuse    bool
}

// Type is "Clone".
func (cl *Clone) Type() string { return "Clone" }

// Properties returns the property table.
func (cl *Clone) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLinkList, "Objects", "Draft", "The objects included in this clone", &cl.Objects),
		document.P(document.PropVector, "Scale", "Draft", "The scale factor of this clone", &cl.Scale),
		document.P(document.PropBool, "Fuse", "Draft", "If Clones includes several objects, set True for fusion or False for compound", &cl.Fuse),
	}
}

// Execute copies and scales the source shapes. A 2D clone rejects
// sources which are not flat.
func (cl *Clone) Execute(obj *document.Object) error {
	shapes, err := sourceShapes(obj.Document(), cl.Objects)
	if err != nil {
		return core.WrapError(err, core.Code(err), "%s: %s", obj.Name, core.UserMessage(err))
	}
	if len(shapes) == 0 {
		publish(obj, nil)
		return nil
	}
	if obj.TypeID == document.Part2DObject {
		for _, s := range shapes {
			if !isFlat(s) {
				return core.Error(core.EINVARIANT, "%s: a 2D clone cannot copy non-planar shapes", obj.Name)
			}
		}
	}
	unit := geom.V(1, 1, 1)
	for i, s := range shapes {
		if geom.Equal(cl.Scale, unit) || geom.IsNull(cl.Scale) {
			shapes[i] = s.Copy()
		} else {
			shapes[i] = s.TransformGeometry(geom.ScaleMatrix(cl.Scale, geom.Origin))
		}
	}
	publish(obj, joinShapes(shapes, cl.Fuse))
	return nil
}

// sourceShapes collects the shapes of linked objects, descending into
// groups.
func sourceShapes(doc *document.Document, hs []document.Handle) ([]*kernel.Shape, error) {
	var shapes []*kernel.Shape
	for _, h := range hs {
		src := doc.Get(h)
		if src == nil {
			return nil, core.Error(core.EMISSING, "linked object %d does not exist", h)
		}
		if document.IsGroup(src) {
			for _, m := range doc.GroupContents(h, true) {
				if m.HasShape() {
					shapes = append(shapes, m.Shape)
				}
			}
			continue
		}
		if !src.HasShape() {
			return nil, core.Error(core.EPRECONDITION, "%s has no shape", src.Name)
		}
		shapes = append(shapes, src.Shape)
	}
	return shapes, nil
}

// joinShapes combines shapes. With fuse set a boolean union is attempted,
// falling back to a compound.
func joinShapes(shapes []*kernel.Shape, fuse bool) *kernel.Shape {
	if len(shapes) == 1 {
		return shapes[0]
	}
	if fuse {
		if fused, err := kernel.MultiFuse(shapes); err == nil {
			return fused.RemoveSplitter()
		} else {
			tracer().Infof("cannot fuse %d shapes, using a compound: %v", len(shapes), err)
		}
	}
	return kernel.MakeCompound(shapes...)
}

// isFlat tells if a shape lies in a plane. Straight shapes and vertices
// count as flat.
func isFlat(s *kernel.Shape) bool {
	if s.IsPlanar() {
		return true
	}
	if len(s.Faces()) > 0 {
		return false
	}
	for _, e := range s.Edges() {
		if e.Type() != kernel.LineCurve {
			return false
		}
	}
	vs := s.Vertexes()
	for i := 2; i < len(vs); i++ {
		if !geom.Collinear(vs[0], vs[1], vs[i]) {
			return false
		}
	}
	return true
}

// MakeClone creates a clone of objects. The clone is 2D if all sources
// are flat, unless forced to be a plain feature.
func MakeClone(doc *document.Document, objs []document.Handle, scale geom.Vector, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, core.Error(core.EPRECONDITION, "nothing to clone")
	}
	shapes, err := sourceShapes(doc, objs)
	if err != nil {
		return nil, err
	}
	typeID := document.Part2DObject
	for _, s := range shapes {
		if !isFlat(s) {
			typeID = document.PartFeature
		}
	}
	if geom.IsNull(scale) {
		scale = geom.V(1, 1, 1)
	}
	c := settings(opts)
	obj, err := create(doc, typeID, &Clone{Objects: append([]document.Handle{}, objs...), Scale: scale}, c)
	if err != nil {
		return nil, err
	}
	if prefix := parameters.Global().String(parameters.ClonePrefix); prefix != "" {
		obj.Label = prefix + doc.Get(objs[0]).Label
	}
	if len(objs) == 1 {
		FormatObject(obj, doc.Get(objs[0]))
	}
	return obj, nil
}
