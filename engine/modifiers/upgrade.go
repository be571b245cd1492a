package modifiers

import (
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/draft/engine/sketch"
)

// Upgrade joins the selected objects into higher-level objects: edges into
// wires, closed wires into faces, faces into shells and solids. The first
// applicable rule is applied, see RuleNames(true) for the rules in order.
func Upgrade(objs []*document.Object, opts Options) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	a := analyze(objs)
	return run(doc, "Upgrade", opts.Delete, func(r *Result) error {
		return applyRules(r, upgradeRules, a, opts.Force, "Unable to upgrade these objects")
	})
}

var upgradeRules = []rule{
	{"closeGroupWires", func(a *analysis) bool { return len(a.groups) > 0 }, closeGroupWires},
	{"makeShapes", func(a *analysis) bool { return len(a.meshes) > 0 }, makeShapes},
	{"makeSolid", func(a *analysis) bool {
		return facesOnly(a) && len(a.objs) == 1 && len(a.faces) > 3 && !coplanar(a.faces) &&
			len(a.objs[0].Shape.Solids()) == 0
	}, makeSolid},
	{"makeFusion", func(a *analysis) bool {
		return facesOnly(a) && len(a.objs) == 2 && !a.curves
	}, makeFusion},
	{"makeShell", func(a *analysis) bool {
		return facesOnly(a) && len(a.objs) > 2 && len(a.faces) > 1
	}, makeShell},
	{"joinFaces", func(a *analysis) bool {
		return facesOnly(a) && len(a.faces) > 1 && coplanar(a.faces)
	}, joinFaces},
	{"draftify", func(a *analysis) bool {
		return facesOnly(a) && len(a.objs) == 1 && a.objs[0].Proxy == nil
	}, draftifyOne},
	{"makeSketchFace", func(a *analysis) bool {
		return len(a.objs) == 1 && a.objs[0].IsA("Sketch") && len(a.faces) == 0 &&
			len(a.closedWires) > 0 && len(a.openWires) == 0 && len(a.loneEdges) == 0
	}, makeSketchFace},
	{"turnToLine", func(a *analysis) bool {
		return len(a.objs) == 1 && len(a.edges) == 1 && len(a.loneEdges) == 1
	}, turnToLine},
	{"makeFaces", func(a *analysis) bool {
		return a.onlyWires() && len(a.closedWires) > 0 && len(a.openWires) == 0 && len(a.loneEdges) == 0
	}, makeFaces},
	{"closeWire", func(a *analysis) bool {
		return a.onlyWires() && len(a.openWires) == 1 && len(a.closedWires) == 0 && len(a.loneEdges) == 0
	}, closeWire},
	{"makeWires", func(a *analysis) bool {
		return a.onlyWires() && len(a.openWires) > 0 && len(a.openWires)+len(a.loneEdges) > 1 && len(a.closedWires) == 0
	}, makeWires},
	{"makeWire", func(a *analysis) bool {
		return a.onlyWires() && len(a.loneEdges) > 1 && len(a.openWires) == 0 && len(a.closedWires) == 0
	}, makeWire},
	{"makeCompound", func(a *analysis) bool { return len(a.objs) > 1 }, makeCompound},
}

// facesOnly is true for a selection of faces without any edges outside of
// faces.
func facesOnly(a *analysis) bool {
	return len(a.faces) > 0 && len(a.loneEdges) == 0 && len(a.openWires) == 0 && len(a.closedWires) == 0
}

func closeGroupWires(r *Result, a *analysis) (bool, error) {
	closed := 0
	for _, g := range a.groups {
		for _, obj := range g.Document().GroupContents(g.Handle(), true) {
			w, ok := obj.Proxy.(*draft.Wire)
			if !ok || w.Closed || len(w.Points) < 3 {
				continue
			}
			if err := obj.SetProperty("Closed", true); err != nil {
				return false, err
			}
			closed++
		}
	}
	if closed == 0 {
		return false, nil
	}
	r.note("Found %d groups: closing %d open objects inside", len(a.groups), closed)
	return true, nil
}

func makeShapes(r *Result, a *analysis) (bool, error) {
	for _, m := range a.meshes {
		if !m.HasShape() {
			continue
		}
		r.add(newFeature(m.Document(), "Shape", m.Shape.Copy(), m))
		r.remove(m)
	}
	if len(r.Added) == 0 {
		return false, nil
	}
	r.note("Found %d meshes: turning them into shapes", len(a.meshes))
	return true, nil
}

func makeSolid(r *Result, a *analysis) (bool, error) {
	shell, err := kernel.MakeShell(a.faces)
	if err != nil {
		return false, nil
	}
	solid, err := kernel.MakeSolid(shell)
	if err != nil {
		tracer().Debugf("no solid: %v", err)
		return false, nil
	}
	obj := a.objs[0]
	r.add(newFeature(obj.Document(), "Solid", solid, obj))
	r.remove(obj)
	r.note("Found 1 solidifiable object: solidifying it")
	return true, nil
}

func makeFusion(r *Result, a *analysis) (bool, error) {
	if len(a.objs) != 2 {
		return false, nil
	}
	if err := fuse(r, a.objs[0], a.objs[1]); err != nil {
		return false, err
	}
	r.note("Found 2 objects: fusing them")
	return true, nil
}

func makeShell(r *Result, a *analysis) (bool, error) {
	shell, err := kernel.MakeShell(a.faces)
	if err != nil {
		return false, nil
	}
	r.add(newFeature(a.objs[0].Document(), "Shell", shell, a.objs[0]))
	r.remove(a.objs...)
	r.note("Found %d objects: creating a shell", len(a.objs))
	return true, nil
}

func joinFaces(r *Result, a *analysis) (bool, error) {
	shapes := make([]*kernel.Shape, len(a.faces))
	for i, f := range a.faces {
		shapes[i] = f.Shape()
	}
	u, err := kernel.MultiFuse(shapes)
	if err != nil {
		return false, nil
	}
	u = u.RemoveSplitter()
	origin := a.objs[0]
	doc := origin.Document()
	faces := u.Faces()
	if len(faces) == 1 && len(faces[0].Holes()) == 0 && faces[0].OuterWire().IsLinear() {
		w, err := draft.MakeWireFromShape(doc, faces[0].OuterWire(), draft.WithFace(true))
		if err != nil {
			return false, err
		}
		draft.FormatObject(w, origin)
		r.add(w)
	} else {
		r.add(newFeature(doc, "Union", u, origin))
	}
	r.remove(a.objs...)
	r.note("Found several coplanar objects or faces: creating one face")
	return true, nil
}

func draftifyOne(r *Result, a *analysis) (bool, error) {
	if len(a.objs) != 1 {
		return false, nil
	}
	if err := draftify(r, a.objs, false); err != nil {
		return false, err
	}
	r.note("Found 1 non-parametric object: draftifying it")
	return true, nil
}

func makeSketchFace(r *Result, a *analysis) (bool, error) {
	obj := a.objs[0]
	if _, ok := obj.Proxy.(*sketch.Sketch); !ok {
		return false, nil
	}
	f, err := kernel.MakeFace(a.closedWires...)
	if err != nil {
		tracer().Debugf("sketch %s has no face: %v", obj.Name, err)
		return false, nil
	}
	r.add(newFeature(obj.Document(), "Face", f.Shape(), obj))
	hide(obj)
	r.note("Found 1 closed sketch object: creating a face from it")
	return true, nil
}

func turnToLine(r *Result, a *analysis) (bool, error) {
	obj := a.objs[0]
	if _, ok := obj.Proxy.(draft.PointList); ok {
		return false, nil // already a line
	}
	e := a.edges[0]
	if _, ok := e.Line(); !ok {
		return false, nil
	}
	l, err := draft.MakeLine(obj.Document(), e.Start(), e.End())
	if err != nil {
		return false, err
	}
	draft.FormatObject(l, obj)
	r.add(l)
	r.remove(obj)
	r.note("Found 1 linear object: converting to line")
	return true, nil
}

func makeFaces(r *Result, a *analysis) (bool, error) {
	done := 0
	for _, obj := range a.objs {
		if !obj.HasShape() {
			continue
		}
		if mf, err := obj.GetProperty("MakeFace"); err == nil && obj.Proxy != nil {
			if !mf.(bool) {
				if err := obj.SetProperty("MakeFace", true); err != nil {
					return false, err
				}
				done++
			}
			continue
		}
		for _, w := range wiresOf(obj.Shape) {
			if !w.IsClosed() {
				continue
			}
			f, err := kernel.MakeFace(w)
			if err != nil {
				tracer().Debugf("%s: no face: %v", obj.Name, err)
				continue
			}
			r.add(newFeature(obj.Document(), "Face", f.Shape(), obj))
			r.remove(obj)
			done++
		}
	}
	if done == 0 {
		return false, nil
	}
	r.note("Found closed wires: creating faces")
	return true, nil
}

func closeWire(r *Result, a *analysis) (bool, error) {
	if len(a.openWires) != 1 || len(a.objs) != 1 {
		return false, nil
	}
	obj := a.objs[0]
	if w, ok := obj.Proxy.(*draft.Wire); ok && len(w.Points) > 2 && w.Base == document.NoObject {
		if err := obj.SetProperty("Closed", true); err != nil {
			return false, err
		}
		r.note("Found 1 open wire: closing it")
		return true, nil
	}
	w := a.openWires[0]
	l, err := kernel.MakeLine(w.End(), w.Start())
	if err != nil {
		return false, nil
	}
	closed, err := kernel.MakeWire(append(append([]*kernel.Edge(nil), w.Edges()...), l))
	if err != nil {
		return false, nil
	}
	nobj, err := wireObject(obj, closed)
	if err != nil {
		return false, err
	}
	r.add(nobj)
	r.remove(obj)
	r.note("Found 1 open wire: closing it")
	return true, nil
}

// wireObject creates a wire entity for a straight-edged wire, or a plain
// feature otherwise.
func wireObject(origin *document.Object, w *kernel.Wire) (*document.Object, error) {
	if w.IsLinear() {
		obj, err := draft.MakeWireFromShape(origin.Document(), w)
		if err != nil {
			return nil, err
		}
		draft.FormatObject(obj, origin)
		return obj, nil
	}
	return newFeature(origin.Document(), "Wire", w.Shape(), origin), nil
}

// chainEdges joins edges to wires. It fails if the edges do not form fewer
// wires than given.
func chainEdges(r *Result, a *analysis, edges []*kernel.Edge, pieces int) (int, error) {
	chains := kernel.SortEdges(edges)
	if len(chains) >= pieces {
		return 0, nil
	}
	for _, chain := range chains {
		w, err := kernel.MakeWire(chain)
		if err != nil {
			return 0, nil
		}
		obj, err := wireObject(a.objs[0], w)
		if err != nil {
			return 0, err
		}
		r.add(obj)
	}
	r.remove(a.objs...)
	return len(chains), nil
}

func makeWires(r *Result, a *analysis) (bool, error) {
	var edges []*kernel.Edge
	for _, w := range a.openWires {
		edges = append(edges, w.Edges()...)
	}
	edges = append(edges, a.loneEdges...)
	n, err := chainEdges(r, a, edges, len(a.openWires)+len(a.loneEdges))
	if err != nil || n == 0 {
		return false, err
	}
	r.note("Found several open wires: joining them")
	return true, nil
}

func makeWire(r *Result, a *analysis) (bool, error) {
	if len(kernel.SortEdges(a.loneEdges)) != 1 {
		return false, nil
	}
	n, err := chainEdges(r, a, a.loneEdges, len(a.loneEdges))
	if err != nil || n == 0 {
		return false, err
	}
	r.note("Found several edges: wiring them")
	return true, nil
}

func makeCompound(r *Result, a *analysis) (bool, error) {
	shapes := kernelShapes(a.objs)
	if len(shapes) < 2 {
		return false, nil
	}
	r.add(newFeature(a.objs[0].Document(), "Compound", kernel.MakeCompound(shapes...), a.objs[0]))
	r.remove(a.objs...)
	r.note("Found several non-treatable objects: creating compound")
	return true, nil
}
