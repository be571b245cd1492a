package modifiers

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
)

// --- Draftify --------------------------------------------------------------

// Draftify turns the shapes of objects into drafting entities. Every
// connected group of edges becomes one entity: a circle for a single
// circular edge, a wire if all edges are straight, and a plain feature
// otherwise. With makeBlock set, the new entities are bundled into a
// block. The originals are deleted if del is set.
func Draftify(objs []*document.Object, makeBlock, del bool) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	return run(doc, "Draftify", del, func(r *Result) error {
		return draftify(r, objs, makeBlock)
	})
}

func draftify(r *Result, objs []*document.Object, makeBlock bool) error {
	var created []*document.Object
	for _, obj := range objs {
		if !obj.HasShape() {
			continue
		}
		filled := len(obj.Shape.Faces()) > 0
		for _, cluster := range kernel.ClusterEdges(obj.Shape.Edges()) {
			nobj, err := draftifyEdges(obj, cluster, filled)
			if err != nil {
				return err
			}
			nobj.View.DisplayMode = "Flat Lines"
			created = append(created, nobj)
		}
		r.remove(obj)
	}
	r.add(created...)
	if makeBlock && len(created) > 1 {
		hs := make([]document.Handle, len(created))
		for i, c := range created {
			hs[i] = c.Handle()
		}
		blk, err := draft.MakeBlock(created[0].Document(), hs)
		if err != nil {
			return err
		}
		r.add(blk)
	}
	return nil
}

func draftifyEdges(origin *document.Object, edges []*kernel.Edge, filled bool) (*document.Object, error) {
	doc := origin.Document()
	opts := []draft.Option{draft.WithFace(filled)}
	if len(edges) == 1 {
		if c, ok := edges[0].Circle(); ok && c.IsCircle() {
			obj, err := draft.MakeCircleFromEdge(doc, edges[0], opts...)
			if err != nil {
				return nil, err
			}
			draft.FormatObject(obj, origin)
			return obj, nil
		}
	}
	chains := kernel.SortEdges(edges)
	if len(chains) == 1 {
		w, err := kernel.MakeWire(chains[0])
		if err != nil {
			return nil, err
		}
		if w.IsLinear() {
			obj, err := draft.MakeWireFromShape(doc, w, opts...)
			if err != nil {
				return nil, err
			}
			draft.FormatObject(obj, origin)
			return obj, nil
		}
		return newFeature(doc, origin.Name, w.Shape(), origin), nil
	}
	shapes := make([]*kernel.Shape, len(edges))
	for i, e := range edges {
		shapes[i] = e.Shape()
	}
	return newFeature(doc, origin.Name, kernel.MakeCompound(shapes...), origin), nil
}

// --- Shapify ---------------------------------------------------------------

// Shapify replaces a parametric object by a plain feature carrying a copy
// of its shape. The feature is named after the kind of shape.
func Shapify(obj *document.Object) (*Result, error) {
	if obj == nil || obj.Document() == nil {
		return nil, core.Error(core.EPRECONDITION, "no object to shapify")
	}
	if !obj.HasShape() {
		return nil, core.Error(core.EPRECONDITION, "%s has no shape", obj.Name)
	}
	return run(obj.Document(), "Shapify", true, func(r *Result) error {
		shapify(r, obj)
		return nil
	})
}

func shapify(r *Result, obj *document.Object) *document.Object {
	s := obj.Shape.Copy()
	feat := newFeature(obj.Document(), shapeName(s, obj.Name), s, obj)
	feat.Label = obj.Label
	r.add(feat)
	r.remove(obj)
	return feat
}

// shapeName describes a shape by its topology.
func shapeName(s *kernel.Shape, fallback string) string {
	switch {
	case len(s.Solids()) == 1 && s.Type() == kernel.SolidShape:
		return "Solid"
	case len(s.Solids()) > 1:
		return "Compound"
	case len(s.Shells()) > 0:
		return "Shell"
	case len(s.Faces()) == 1:
		return "Face"
	case len(s.Faces()) > 1:
		return "Compound"
	case len(s.Wires()) == 1:
		return "Wire"
	case len(s.Edges()) == 1:
		if c, ok := s.Edges()[0].Circle(); ok && c.IsCircle() {
			return "Circle"
		}
		return "Line"
	}
	return fallback
}

// --- Booleans --------------------------------------------------------------

// Fusion is the union of two objects.
type Fusion struct {
	Base   document.Handle
	Tool   document.Handle
	Refine bool
}

// Type is "Fusion".
func (f *Fusion) Type() string { return "Fusion" }

// Properties returns the property table.
func (f *Fusion) Properties() []document.Property {
	return booleanProperties(&f.Base, &f.Tool, &f.Refine)
}

// Execute fuses the shapes of base and tool.
func (f *Fusion) Execute(obj *document.Object) error {
	return executeBoolean(obj, f.Base, f.Tool, f.Refine, kernel.Fuse)
}

// Subtraction is an object with another one cut away.
type Subtraction struct {
	Base   document.Handle
	Tool   document.Handle
	Refine bool
}

// Type is "Cut".
func (s *Subtraction) Type() string { return "Cut" }

// Properties returns the property table.
func (s *Subtraction) Properties() []document.Property {
	return booleanProperties(&s.Base, &s.Tool, &s.Refine)
}

// Execute cuts the shape of tool from the shape of base.
func (s *Subtraction) Execute(obj *document.Object) error {
	return executeBoolean(obj, s.Base, s.Tool, s.Refine, kernel.Cut)
}

func booleanProperties(base, tool *document.Handle, refine *bool) []document.Property {
	return []document.Property{
		document.P(document.PropLink, "Base", "Boolean", "The first operand", base),
		document.P(document.PropLink, "Tool", "Boolean", "The second operand", tool),
		document.P(document.PropBool, "Refine", "Boolean", "Merge coplanar faces of the result", refine),
	}
}

func executeBoolean(obj *document.Object, base, tool document.Handle, refine bool,
	op func(a, b *kernel.Shape) (*kernel.Shape, error)) error {
	//
	doc := obj.Document()
	a, b := doc.Get(base), doc.Get(tool)
	if a == nil || b == nil {
		return core.Error(core.EMISSING, "%s: operand missing", obj.Name)
	}
	if !a.HasShape() || !b.HasShape() {
		return core.Error(core.EPRECONDITION, "%s: operand without shape", obj.Name)
	}
	s, err := op(a.Shape, b.Shape)
	if err != nil {
		return err
	}
	if refine {
		s = s.RemoveSplitter()
	}
	obj.Shape = s
	return nil
}

// Fuse creates the union of two objects. Two coplanar filled outlines
// without holes become a closed wire linked to both; otherwise a fusion
// object is created. The operands are hidden.
func Fuse(a, b *document.Object) (*Result, error) {
	doc, err := documentOf([]*document.Object{a, b})
	if err != nil {
		return nil, err
	}
	return run(doc, "Fusion", false, func(r *Result) error {
		return fuse(r, a, b)
	})
}

func fuse(r *Result, a, b *document.Object) error {
	doc := a.Document()
	if fusesToOutline(a, b) {
		w, err := draft.MakeFusedWire(doc, a.Handle(), b.Handle(), draft.WithFace(true))
		if err == nil {
			inherit(w, a)
			hide(a, b)
			r.add(w)
			return nil
		}
		tracer().Debugf("cannot fuse %s and %s to a wire: %v", a.Name, b.Name, err)
	}
	f := doc.AddObject(document.PartFeature, "Fusion", &Fusion{Base: a.Handle(), Tool: b.Handle(), Refine: true})
	inherit(f, a)
	hide(a, b)
	r.add(f)
	return nil
}

// fusesToOutline is true for two coplanar faces which fuse to a single
// face without holes.
func fusesToOutline(a, b *document.Object) bool {
	if !a.HasShape() || !b.HasShape() {
		return false
	}
	fa, fb := a.Shape.Faces(), b.Shape.Faces()
	if len(fa) != 1 || len(fb) != 1 || !coplanar(append(fa, fb...)) {
		return false
	}
	if len(fa[0].Holes()) > 0 || len(fb[0].Holes()) > 0 {
		return false
	}
	u, err := kernel.Fuse(a.Shape, b.Shape)
	if err != nil {
		return false
	}
	faces := u.RemoveSplitter().Faces()
	return len(faces) == 1 && len(faces[0].Holes()) == 0
}

// coplanar is true if all faces are planar and lie in a common plane.
func coplanar(faces []*kernel.Face) bool {
	if len(faces) == 0 {
		return false
	}
	f0 := faces[0]
	for _, f := range faces {
		if !f.IsPlanar() || !geom.IsParallel(f.Normal(), f0.Normal()) {
			return false
		}
		d := geom.Dot(geom.Sub(f.Origin(), f0.Origin()), geom.Normalize(f0.Normal()))
		if d > geom.Tolerance() || d < -geom.Tolerance() {
			return false
		}
	}
	return true
}

// Cut subtracts tool from base. The operands are hidden.
func Cut(base, tool *document.Object) (*Result, error) {
	doc, err := documentOf([]*document.Object{base, tool})
	if err != nil {
		return nil, err
	}
	return run(doc, "Cut", false, func(r *Result) error {
		cut(r, base, tool)
		return nil
	})
}

func cut(r *Result, base, tool *document.Object) {
	c := base.Document().AddObject(document.PartFeature, "Cut", &Subtraction{Base: base.Handle(), Tool: tool.Handle()})
	inherit(c, base)
	hide(base, tool)
	r.add(c)
}

// --- Blocks, wires and arrays ---------------------------------------------

// Explode dissolves a block. Its components become visible again.
func Explode(block *document.Object) (*Result, error) {
	if block == nil || block.Document() == nil {
		return nil, core.Error(core.EPRECONDITION, "no block to explode")
	}
	b, ok := block.Proxy.(*draft.Block)
	if !ok {
		return nil, core.Error(core.EPRECONDITION, "%s is not a block", block.Name)
	}
	return run(block.Document(), "Explode", true, func(r *Result) error {
		for _, c := range block.Document().Resolve(b.Components) {
			if c.View != nil {
				c.View.Visibility = true
			}
		}
		r.remove(block)
		return nil
	})
}

// Join joins wires sharing end points into as few wires as possible.
// Joined wires are removed from the document.
func Join(objs []*document.Object) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	return run(doc, "Join", false, func(r *Result) error {
		joined, err := draft.JoinWires(objs)
		if err != nil {
			return err
		}
		if !joined {
			tracer().Infof("no wires to join")
		}
		for _, obj := range objs {
			if doc.Get(obj.Handle()) == nil {
				r.remove(obj)
			}
		}
		return nil
	})
}

// Split splits a wire at edge e. An open wire is split at point at into
// two wires; a closed wire is opened by removing edge e.
func Split(obj *document.Object, e int, at geom.Vector) (*Result, error) {
	if obj == nil || obj.Document() == nil {
		return nil, core.Error(core.EPRECONDITION, "no wire to split")
	}
	pl, ok := obj.Proxy.(draft.PointList)
	if !ok {
		return nil, core.Error(core.EPRECONDITION, "%s is not a wire", obj.Name)
	}
	return run(obj.Document(), "Split", false, func(r *Result) error {
		if pl.IsClosed() {
			return draft.SplitClosedWire(obj, e)
		}
		w, err := draft.SplitOpenWire(obj, at, e)
		if err != nil {
			return err
		}
		r.add(w)
		return nil
	})
}

// ArrayKind selects the layout of an array.
type ArrayKind int

// Array layouts
const (
	OrthoArray ArrayKind = iota
	PolarArray
	CircularArray
)

// ArrayParams describe an array. Only the fields of the selected layout are
// used.
type ArrayParams struct {
	Kind ArrayKind
	// ortho
	IntervalX, IntervalY, IntervalZ geom.Vector
	NumberX, NumberY, NumberZ       int
	// polar and circular
	Center, Axis geom.Vector
	// polar
	NumberPolar int
	Angle       float64
	// circular
	RadialDistance, TangentialDistance float64
	NumberCircles, Symmetry            int
	Fuse                               bool
}

// MakeArray creates an array of base. The base object is hidden.
func MakeArray(base *document.Object, p ArrayParams) (*Result, error) {
	if base == nil || base.Document() == nil {
		return nil, core.Error(core.EPRECONDITION, "no base object for array")
	}
	doc := base.Document()
	return run(doc, "Array", false, func(r *Result) error {
		var arr *document.Object
		var err error
		switch p.Kind {
		case OrthoArray:
			arr, err = draft.MakeOrthoArray(doc, base.Handle(), p.IntervalX, p.IntervalY, p.IntervalZ,
				p.NumberX, p.NumberY, p.NumberZ)
		case PolarArray:
			arr, err = draft.MakePolarArray(doc, base.Handle(), p.NumberPolar, p.Angle, p.Center, p.Axis)
		case CircularArray:
			arr, err = draft.MakeCircularArray(doc, base.Handle(), p.RadialDistance, p.TangentialDistance,
				p.NumberCircles, p.Symmetry, p.Center, p.Axis)
		default:
			err = core.Error(core.EINVALID, "unknown array kind %d", p.Kind)
		}
		if err != nil {
			return err
		}
		if p.Fuse {
			if err := arr.SetProperty("Fuse", true); err != nil {
				return err
			}
		}
		hide(base)
		r.add(arr)
		return nil
	})
}
