package modifiers

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Options control Upgrade and Downgrade.
type Options struct {
	Delete bool   // delete the objects made obsolete
	Force  string // apply the named rule, whatever the selection is
}

// A rule is one step of an upgrade or downgrade. apply returns false if it
// cannot produce a result; it must not change anything in this case.
type rule struct {
	name  string
	match func(a *analysis) bool
	apply func(r *Result, a *analysis) (bool, error)
}

// analysis classifies the geometry of a selection.
type analysis struct {
	objs        []*document.Object // selection without groups and meshes
	groups      []*document.Object
	meshes      []*document.Object
	faces       []*kernel.Face
	closedWires []*kernel.Wire // wires not bounding a face
	openWires   []*kernel.Wire // open wires with more than one edge
	loneEdges   []*kernel.Edge // open edges outside of multi-edge wires
	edges       []*kernel.Edge
	curves      bool // any edge is not straight
}

func analyze(objs []*document.Object) *analysis {
	a := &analysis{}
	for _, obj := range objs {
		switch {
		case document.IsGroup(obj):
			a.groups = append(a.groups, obj)
			continue
		case obj.TypeID == document.MeshFeature:
			a.meshes = append(a.meshes, obj)
			continue
		}
		a.objs = append(a.objs, obj)
		if !obj.HasShape() {
			continue
		}
		s := obj.Shape
		for _, e := range s.Edges() {
			a.edges = append(a.edges, e)
			if _, ok := e.Line(); !ok {
				a.curves = true
			}
		}
		if faces := s.Faces(); len(faces) > 0 {
			a.faces = append(a.faces, faces...)
			continue
		}
		for _, w := range wiresOf(s) {
			switch {
			case w.IsClosed():
				a.closedWires = append(a.closedWires, w)
			case len(w.Edges()) == 1:
				a.loneEdges = append(a.loneEdges, w.Edges()[0])
			default:
				a.openWires = append(a.openWires, w)
			}
		}
	}
	tracer().Debugf("selection: %d objects, %d groups, %d meshes, %d faces, %d closed wires, %d open wires, %d lone edges",
		len(a.objs), len(a.groups), len(a.meshes), len(a.faces), len(a.closedWires), len(a.openWires), len(a.loneEdges))
	return a
}

// onlyWires is true if the selection holds no faces and nothing else but
// wires and edges.
func (a *analysis) onlyWires() bool {
	return len(a.faces) == 0 && len(a.groups) == 0 && len(a.meshes) == 0
}

// applyRules fires the first matching rule which produces a result. A
// forced rule is applied without matching.
func applyRules(r *Result, rules []rule, a *analysis, force, fail string) error {
	if force != "" {
		for _, rl := range rules {
			if rl.name != force {
				continue
			}
			ok, err := rl.apply(r, a)
			if err != nil {
				return err
			}
			if !ok {
				return core.Error(core.EPRECONDITION, "%s cannot be applied to the selection", force)
			}
			return nil
		}
		return core.Error(core.EINVALID, "no such rule: %s", force)
	}
	for _, rl := range rules {
		if !rl.match(a) {
			continue
		}
		ok, err := rl.apply(r, a)
		if err != nil {
			return err
		}
		if ok {
			tracer().Debugf("rule %s applied", rl.name)
			return nil
		}
		tracer().Debugf("rule %s matched but produced nothing", rl.name)
	}
	r.note("%s", fail)
	return nil
}

// RuleNames lists the rules of upgrade or downgrade which may be forced.
func RuleNames(up bool) []string {
	rules := downgradeRules
	if up {
		rules = upgradeRules
	}
	names := make([]string, len(rules))
	for i, rl := range rules {
		names[i] = rl.name
	}
	return names
}
