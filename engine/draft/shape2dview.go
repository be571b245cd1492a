package draft

import (
	"sort"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Shape2DView projections modes
const (
	ModeSolid           = "Solid"
	ModeIndividualFaces = "Individual Faces"
	ModeCutlines        = "Cutlines"
	ModeCutfaces        = "Cutfaces"
)

// Shape2DView is a flat projection of another object.
type Shape2DView struct {
	Base           document.Handle
	Projection     geom.Vector
	ProjectionMode document.Enum
	FaceNumbers    []int
	HiddenLines    bool
	FuseArch       bool
	Tessellation   bool
	SegmentLength  float64
	InPlace        bool
	VisibleOnly    bool
	Sources        []document.Handle
}

// Type is "Shape2DView".
func (v *Shape2DView) Type() string { return "Shape2DView" }

// Properties returns the property table.
func (v *Shape2DView) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLink, "Base", "Draft", "The base object this 2D view must represent", &v.Base),
		document.P(document.PropVector, "Projection", "Draft", "The projection vector of this object", &v.Projection),
		document.P(document.PropEnum, "ProjectionMode", "Draft", "The way the viewed object must be projected", &v.ProjectionMode),
		document.P(document.PropIntList, "FaceNumbers", "Draft", "The indices of the faces to be projected in Individual Faces mode", &v.FaceNumbers),
		document.P(document.PropBool, "HiddenLines", "Draft", "Show hidden lines", &v.HiddenLines),
		document.P(document.PropBool, "FuseArch", "Draft", "Fuse wall and structure objects of same material", &v.FuseArch),
		document.P(document.PropBool, "Tessellation", "Draft", "Tessellate curves to polylines", &v.Tessellation),
		document.P(document.PropFloat, "SegmentLength", "Draft", "Length of line segments when tessellating", &v.SegmentLength),
		document.P(document.PropBool, "InPlace", "Draft", "Leave cut faces at the section plane instead of projecting them", &v.InPlace),
		document.P(document.PropBool, "VisibleOnly", "Draft", "Recompute only while visible", &v.VisibleOnly),
		document.P(document.PropLinkList, "Sources", "Draft", "Objects cut in Cutlines and Cutfaces modes, all solids if empty", &v.Sources),
	}
}

// Execute projects the base object.
func (v *Shape2DView) Execute(obj *document.Object) error {
	if v.VisibleOnly && obj.View != nil && !obj.View.Visibility {
		return nil
	}
	if geom.IsNull(v.Projection) {
		return core.Error(core.EINVARIANT, "%s: projection vector is null", obj.Name)
	}
	base, err := linkedShape(obj, v.Base, "base")
	if err != nil {
		return err
	}
	var shape *kernel.Shape
	switch v.ProjectionMode.Value {
	case ModeSolid:
		shape = kernel.ProjectEx(base, v.Projection).Shape(v.HiddenLines)
	case ModeIndividualFaces:
		faces := base.Faces()
		var sel []*kernel.Shape
		for _, i := range v.FaceNumbers {
			if i >= 0 && i < len(faces) {
				sel = append(sel, faces[i].Shape())
			}
		}
		if len(sel) == 0 {
			publish(obj, nil)
			return nil
		}
		shape = kernel.ProjectEx(kernel.MakeCompound(sel...), v.Projection).Shape(v.HiddenLines)
	case ModeCutlines, ModeCutfaces:
		if shape, err = v.cut(obj, base); err != nil {
			return err
		}
	default:
		return core.Error(core.EINVALID, "%s: unknown projection mode %q", obj.Name, v.ProjectionMode.Value)
	}
	if v.Tessellation && v.SegmentLength > 0 && !shape.IsNull() {
		shape = tessellate(shape, v.SegmentLength)
	}
	publish(obj, shape)
	return nil
}

// cut sections the source solids with the plane of the base face.
func (v *Shape2DView) cut(obj *document.Object, base *kernel.Shape) (*kernel.Shape, error) {
	faces := base.Faces()
	if len(faces) == 0 || !faces[0].IsPlanar() {
		return nil, core.Error(core.EPRECONDITION, "%s: cut modes need a planar section face", obj.Name)
	}
	point, n := faces[0].Centroid(), faces[0].Normal()
	solids, err := v.sourceSolids(obj)
	if err != nil {
		return nil, err
	}
	var parts []*kernel.Shape
	for _, s := range solids {
		sec := kernel.Section(s, point, n)
		if v.ProjectionMode.Is(ModeCutlines) {
			parts = append(parts, kernel.Project(sec, n))
			continue
		}
		for _, w := range sec.Wires() {
			if !w.IsClosed() {
				continue
			}
			if !v.InPlace {
				pw, err := projectWire(w, n)
				if err != nil {
					tracer().Infof("%s: cannot project section wire: %v", obj.Name, err)
					continue
				}
				w = pw
			}
			f, err := kernel.MakeFace(w)
			if err != nil {
				tracer().Infof("%s: cannot make face from section: %v", obj.Name, err)
				continue
			}
			parts = append(parts, f.Shape())
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return kernel.MakeCompound(parts...), nil
}

// sourceSolids collects the solids to cut. With FuseArch set, solids of
// equal material are fused.
func (v *Shape2DView) sourceSolids(obj *document.Object) ([]*kernel.Shape, error) {
	doc := obj.Document()
	srcs := doc.Resolve(v.Sources)
	if len(srcs) == 0 {
		for _, o := range doc.Objects() {
			if o.HasShape() && len(o.Shape.Solids()) > 0 && o.Handle() != obj.Handle() {
				srcs = append(srcs, o)
			}
		}
	}
	byMaterial := make(map[string][]*kernel.Shape)
	var solids []*kernel.Shape
	for _, o := range srcs {
		if !o.HasShape() {
			continue
		}
		if v.FuseArch {
			byMaterial[o.Material] = append(byMaterial[o.Material], o.Shape.Solids()...)
		} else {
			solids = append(solids, o.Shape.Solids()...)
		}
	}
	materials := make([]string, 0, len(byMaterial))
	for m := range byMaterial {
		materials = append(materials, m)
	}
	sort.Strings(materials)
	for _, m := range materials {
		group := byMaterial[m]
		if len(group) == 1 {
			solids = append(solids, group[0])
			continue
		}
		fused, err := kernel.MultiFuse(group)
		if err != nil {
			tracer().Infof("cannot fuse solids of material %q: %v", m, err)
			solids = append(solids, group...)
			continue
		}
		solids = append(solids, fused.Solids()...)
	}
	return solids, nil
}

// projectWire flattens a wire into the view plane of direction n.
func projectWire(w *kernel.Wire, n geom.Vector) (*kernel.Wire, error) {
	var edges []*kernel.Edge
	for _, e := range w.Edges() {
		edges = append(edges, kernel.ProjectEdge(e, n)...)
	}
	return kernel.MakeWire(edges)
}

// tessellate replaces curved edges by polylines.
func tessellate(s *kernel.Shape, seglen float64) *kernel.Shape {
	var parts []*kernel.Shape
	for _, e := range s.Edges() {
		if e.Type() == kernel.LineCurve {
			parts = append(parts, e.Shape())
			continue
		}
		w, err := kernel.MakePolygon(e.DiscretizeByLength(seglen), false)
		if err != nil {
			continue
		}
		parts = append(parts, w.Shape())
	}
	return kernel.MakeCompound(parts...)
}

// MakeShape2DView creates a projection of base along dir. Face indices
// select Individual Faces mode.
func MakeShape2DView(doc *document.Document, base document.Handle, dir geom.Vector, faces []int, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if doc.Get(base) == nil {
		return nil, core.Error(core.EPRECONDITION, "2D view needs a base object")
	}
	if geom.IsNull(dir) {
		dir = geom.ZAxis
	}
	v := &Shape2DView{
		Base:           base,
		Projection:     dir,
		ProjectionMode: document.NewEnum(ModeSolid, ModeIndividualFaces, ModeCutlines, ModeCutfaces),
		SegmentLength:  0.05,
		InPlace:        true,
	}
	if len(faces) > 0 {
		v.ProjectionMode.Value = ModeIndividualFaces
		v.FaceNumbers = append([]int{}, faces...)
	}
	return create(doc, document.Part2DObject, v, settings(opts))
}
