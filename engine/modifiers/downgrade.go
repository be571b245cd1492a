package modifiers

import (
	"fmt"

	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
)

// Downgrade breaks the selected objects into lower-level objects: blocks
// into their components, solids into faces, faces into wires, wires into
// edges. The first applicable rule is applied, see RuleNames(false) for
// the rules in order.
func Downgrade(objs []*document.Object, opts Options) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	a := analyze(objs)
	return run(doc, "Downgrade", opts.Delete, func(r *Result) error {
		return applyRules(r, downgradeRules, a, opts.Force, "No more downgrade possible")
	})
}

var downgradeRules = []rule{
	{"explode", func(a *analysis) bool {
		return len(a.objs) == 1 && a.objs[0].IsA("Block")
	}, explodeBlock},
	{"splitCompounds", func(a *analysis) bool {
		return len(a.objs) == 1 && a.objs[0].HasShape() && len(a.objs[0].Shape.Solids()) > 1
	}, splitCompounds},
	{"shapify", func(a *analysis) bool {
		return len(a.objs) == 1 && isParametric(a.objs[0])
	}, shapifyOne},
	{"cut2", func(a *analysis) bool { return len(a.objs) == 2 }, cut2},
	{"splitFaces", func(a *analysis) bool {
		return len(a.objs) == 1 && len(a.faces) > 1
	}, splitFaces},
	{"cutFaces", func(a *analysis) bool {
		return len(a.objs) > 1 && len(a.faces) > 1
	}, cutFaces},
	{"getWire", func(a *analysis) bool {
		return len(a.objs) == 1 && len(a.faces) == 1
	}, getWire},
	{"splitWires", func(a *analysis) bool {
		return len(a.faces) == 0 && len(a.openWires)+len(a.closedWires) > 0
	}, splitWires},
}

func explodeBlock(r *Result, a *analysis) (bool, error) {
	block := a.objs[0]
	b, ok := block.Proxy.(*draft.Block)
	if !ok {
		return false, nil
	}
	for _, c := range block.Document().Resolve(b.Components) {
		if c.View != nil {
			c.View.Visibility = true
		}
	}
	hide(block)
	r.remove(block)
	r.note("Found 1 block: exploding it")
	return true, nil
}

func splitCompounds(r *Result, a *analysis) (bool, error) {
	obj := a.objs[0]
	for _, s := range obj.Shape.Solids() {
		r.add(newFeature(obj.Document(), "Solid", s.Copy(), obj))
	}
	r.remove(obj)
	r.note("Found 1 multi-solids compound: exploding it")
	return true, nil
}

func shapifyOne(r *Result, a *analysis) (bool, error) {
	if !a.objs[0].HasShape() {
		return false, nil
	}
	shapify(r, a.objs[0])
	r.note("Found 1 parametric object: breaking its dependencies")
	return true, nil
}

func cut2(r *Result, a *analysis) (bool, error) {
	if len(a.objs) != 2 || !a.objs[0].HasShape() || !a.objs[1].HasShape() {
		return false, nil
	}
	cut(r, a.objs[0], a.objs[1])
	r.note("Found 2 objects: subtracting them")
	return true, nil
}

func splitFaces(r *Result, a *analysis) (bool, error) {
	obj := a.objs[0]
	regs := parameters.Global()
	for i, f := range a.faces {
		nf := newFeature(obj.Document(), "Face", f.Shape().Copy(), obj)
		if regs.Bool(parameters.KeepFaceNames) {
			nf.Label = fmt.Sprintf("%s.Face%d", obj.Label, i+1)
		}
		if !regs.Bool(parameters.KeepFaceColors) {
			draft.FormatObject(nf, nil)
		}
		r.add(nf)
	}
	r.remove(obj)
	r.note("Found several faces: splitting them")
	return true, nil
}

func cutFaces(r *Result, a *analysis) (bool, error) {
	acc := a.faces[0].Shape()
	for _, f := range a.faces[1:] {
		c, err := kernel.Cut(acc, f.Shape())
		if err != nil {
			tracer().Debugf("cannot subtract faces: %v", err)
			return false, nil
		}
		acc = c
	}
	r.add(newFeature(a.objs[0].Document(), "Subtraction", acc, a.objs[0]))
	r.remove(a.objs...)
	r.note("Found several objects: subtracting them from the first one")
	return true, nil
}

func getWire(r *Result, a *analysis) (bool, error) {
	obj := a.objs[0]
	for _, w := range a.faces[0].Wires() {
		r.add(newFeature(obj.Document(), "Wire", w.Copy().Shape(), obj))
	}
	r.remove(obj)
	r.note("Found 1 face: extracting its wires")
	return true, nil
}

func splitWires(r *Result, a *analysis) (bool, error) {
	split := false
	for _, obj := range a.objs {
		if !obj.HasShape() {
			continue
		}
		edges := obj.Shape.Edges()
		if len(edges) < 2 {
			continue
		}
		for _, e := range edges {
			r.add(newFeature(obj.Document(), "Edge", e.Copy().Shape(), obj))
		}
		r.remove(obj)
		split = true
	}
	if !split {
		return false, nil
	}
	r.note("Found only wires: extracting their edges")
	return true, nil
}
