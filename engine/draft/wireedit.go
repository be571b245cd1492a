package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
)

// Wire editing operates on the points of objects implementing PointList.
// Positions and displacements are given in global coordinates; indices
// are 0-based. Edge i runs from point i to point i+1, the closing edge of
// a closed wire ends at point 0.

func editable(obj *document.Object) (PointList, []geom.Vector, error) {
	if obj == nil {
		return nil, nil, core.Error(core.EPRECONDITION, "no object to edit")
	}
	pl, ok := obj.Proxy.(PointList)
	if !ok {
		return nil, nil, core.Error(core.EPRECONDITION, "%s is not an editable wire", obj.Name)
	}
	pts := append([]geom.Vector{}, *pl.PointsRef()...)
	return pl, pts, nil
}

// edgeEnds returns the point indices of edge i.
func edgeEnds(pl PointList, n, i int) (int, int, error) {
	edges := n - 1
	if pl.IsClosed() {
		edges = n
	}
	if i < 0 || i >= edges {
		return 0, 0, core.Error(core.EINVALID, "edge index %d out of range [0,%d)", i, edges)
	}
	return i, (i + 1) % n, nil
}

// update stores new points and recomputes the object.
func update(obj *document.Object, pts []geom.Vector) error {
	doc := obj.Document()
	return doc.Transact("Edit "+obj.Name, func() error {
		if err := obj.SetProperty("Points", pts); err != nil {
			return err
		}
		return doc.RecomputeObject(obj.Handle())
	})
}

// editPoints applies f to the local points with the given indices.
func editPoints(obj *document.Object, idx []int, f func(geom.Vector) geom.Vector) error {
	_, pts, err := editable(obj)
	if err != nil {
		return err
	}
	seen := make(map[int]bool)
	for _, i := range idx {
		if i < 0 || i >= len(pts) {
			return core.Error(core.EINVALID, "point index %d out of range [0,%d)", i, len(pts))
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		g := obj.Placement.Apply(pts[i])
		pts[i] = obj.Placement.ApplyInverse(f(g))
	}
	return update(obj, pts)
}

func edgePoints(obj *document.Object, edges []int) ([]int, error) {
	pl, pts, err := editable(obj)
	if err != nil {
		return nil, err
	}
	var idx []int
	for _, e := range edges {
		i, j, err := edgeEnds(pl, len(pts), e)
		if err != nil {
			return nil, err
		}
		idx = append(idx, i, j)
	}
	return idx, nil
}

func moveBy(v geom.Vector) func(geom.Vector) geom.Vector {
	return func(p geom.Vector) geom.Vector { return geom.Add(p, v) }
}

func rotateAbout(center, axis geom.Vector, angle float64) func(geom.Vector) geom.Vector {
	return func(p geom.Vector) geom.Vector { return geom.RotateAround(p, angle, axis, center) }
}

func scaleAbout(center, factor geom.Vector) func(geom.Vector) geom.Vector {
	return func(p geom.Vector) geom.Vector {
		return geom.Add(center, geom.MulComponents(geom.Sub(p, center), factor))
	}
}

// MoveVertex displaces one point.
func MoveVertex(obj *document.Object, i int, v geom.Vector) error {
	return editPoints(obj, []int{i}, moveBy(v))
}

// MoveEdge displaces both end points of an edge.
func MoveEdge(obj *document.Object, e int, v geom.Vector) error {
	idx, err := edgePoints(obj, []int{e})
	if err != nil {
		return err
	}
	return editPoints(obj, idx, moveBy(v))
}

// RotateVertex rotates one point around an axis through center. The angle
// is in radians.
func RotateVertex(obj *document.Object, i int, center, axis geom.Vector, angle float64) error {
	return editPoints(obj, []int{i}, rotateAbout(center, axis, angle))
}

// RotateEdge rotates both end points of an edge.
func RotateEdge(obj *document.Object, e int, center, axis geom.Vector, angle float64) error {
	idx, err := edgePoints(obj, []int{e})
	if err != nil {
		return err
	}
	return editPoints(obj, idx, rotateAbout(center, axis, angle))
}

// ScaleVertex scales the position of one point relative to center.
func ScaleVertex(obj *document.Object, i int, center, factor geom.Vector) error {
	return editPoints(obj, []int{i}, scaleAbout(center, factor))
}

// ScaleEdge scales both end points of an edge relative to center.
func ScaleEdge(obj *document.Object, e int, center, factor geom.Vector) error {
	idx, err := edgePoints(obj, []int{e})
	if err != nil {
		return err
	}
	return editPoints(obj, idx, scaleAbout(center, factor))
}

// copyEdges creates a line for each edge with transformed end points.
func copyEdges(obj *document.Object, edges []int, f func(geom.Vector) geom.Vector) ([]*document.Object, error) {
	pl, pts, err := editable(obj)
	if err != nil {
		return nil, err
	}
	var lines []*document.Object
	for _, e := range edges {
		i, j, err := edgeEnds(pl, len(pts), e)
		if err != nil {
			return lines, err
		}
		p1 := f(obj.Placement.Apply(pts[i]))
		p2 := f(obj.Placement.Apply(pts[j]))
		line, err := MakeLine(obj.Document(), p1, p2)
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CopyMovedEdges creates displaced copies of edges as lines.
func CopyMovedEdges(obj *document.Object, edges []int, v geom.Vector) ([]*document.Object, error) {
	return copyEdges(obj, edges, moveBy(v))
}

// CopyRotatedEdges creates rotated copies of edges as lines.
func CopyRotatedEdges(obj *document.Object, edges []int, center, axis geom.Vector, angle float64) ([]*document.Object, error) {
	return copyEdges(obj, edges, rotateAbout(center, axis, angle))
}

// CopyScaledEdges creates scaled copies of edges as lines.
func CopyScaledEdges(obj *document.Object, edges []int, center, factor geom.Vector) ([]*document.Object, error) {
	return copyEdges(obj, edges, scaleAbout(center, factor))
}

func globalPoints(obj *document.Object, pts []geom.Vector) []geom.Vector {
	g := make([]geom.Vector, len(pts))
	for i, p := range pts {
		g[i] = obj.Placement.Apply(p)
	}
	return g
}

func reversed(pts []geom.Vector) []geom.Vector {
	r := make([]geom.Vector, len(pts))
	for i, p := range pts {
		r[len(pts)-1-i] = p
	}
	return r
}

// JoinTwoWires appends the points of b to a if the wires share an end
// point. On success b is removed from the document and true is returned.
// Closed wires are never joined.
func JoinTwoWires(a, b *document.Object) (bool, error) {
	pla, pa, err := editable(a)
	if err != nil {
		return false, err
	}
	plb, pb, err := editable(b)
	if err != nil {
		return false, err
	}
	if pla.IsClosed() || plb.IsClosed() || len(pa) < 2 || len(pb) < 2 {
		return false, nil
	}
	ga, gb := globalPoints(a, pa), globalPoints(b, pb)
	same := func(p, q geom.Vector) bool { return geom.Coincident(p, q) }
	var joined []geom.Vector
	switch {
	case same(ga[len(ga)-1], gb[0]):
		joined = append(ga, gb[1:]...)
	case same(ga[len(ga)-1], gb[len(gb)-1]):
		joined = append(ga, reversed(gb)[1:]...)
	case same(ga[0], gb[0]):
		joined = append(reversed(ga), gb[1:]...)
	case same(ga[0], gb[len(gb)-1]):
		joined = append(gb, ga[1:]...)
	default:
		return false, nil
	}
	closed := len(joined) > 3 && same(joined[0], joined[len(joined)-1])
	if closed {
		joined = joined[:len(joined)-1]
	}
	local := make([]geom.Vector, len(joined))
	for i, p := range joined {
		local[i] = a.Placement.ApplyInverse(p)
	}
	doc := a.Document()
	err = doc.Transact("Join wires", func() error {
		if err := a.SetProperty("Points", local); err != nil {
			return err
		}
		if closed {
			if err := a.SetProperty("Closed", true); err != nil {
				return err
			}
		}
		if err := doc.RemoveObject(b.Handle(), false); err != nil {
			return err
		}
		return doc.RecomputeObject(a.Handle())
	})
	if err != nil {
		return false, err
	}
	tracer().Debugf("joined %s into %s", b.Name, a.Name)
	return true, nil
}

// JoinWires joins wires pairwise until no more joins are possible. It
// returns true if at least one join happened.
func JoinWires(objs []*document.Object) (bool, error) {
	wires := append([]*document.Object{}, objs...)
	done := false
	for changed := true; changed; {
		changed = false
	outer:
		for i := 0; i < len(wires); i++ {
			for j := i + 1; j < len(wires); j++ {
				ok, err := JoinTwoWires(wires[i], wires[j])
				if err != nil {
					return done, err
				}
				if ok {
					wires = append(wires[:j], wires[j+1:]...)
					changed, done = true, true
					break outer
				}
			}
		}
	}
	return done, nil
}

// SplitOpenWire splits a wire at a point on edge e. The object keeps the
// first part, the second part becomes a new wire, which is returned.
func SplitOpenWire(obj *document.Object, p geom.Vector, e int) (*document.Object, error) {
	pl, pts, err := editable(obj)
	if err != nil {
		return nil, err
	}
	if pl.IsClosed() {
		return nil, core.Error(core.EPRECONDITION, "%s is closed, cannot split as open wire", obj.Name)
	}
	i, j, err := edgeEnds(pl, len(pts), e)
	if err != nil {
		return nil, err
	}
	g := globalPoints(obj, pts)
	var first, second []geom.Vector
	switch {
	case geom.Coincident(p, g[i]):
		first, second = g[:i+1], g[i:]
	case geom.Coincident(p, g[j]):
		first, second = g[:j+1], g[j:]
	default:
		first = append(append([]geom.Vector{}, g[:i+1]...), p)
		second = append([]geom.Vector{p}, g[j:]...)
	}
	if len(first) < 2 || len(second) < 2 {
		return nil, core.Error(core.EINVALID, "cannot split %s at its end point", obj.Name)
	}
	local := make([]geom.Vector, len(first))
	for k, q := range first {
		local[k] = obj.Placement.ApplyInverse(q)
	}
	if err := update(obj, local); err != nil {
		return nil, err
	}
	return MakeWire(obj.Document(), second, false)
}

// SplitClosedWire opens a closed wire by removing edge e. The points are
// rotated to start at the end of the removed edge.
func SplitClosedWire(obj *document.Object, e int) error {
	pl, pts, err := editable(obj)
	if err != nil {
		return err
	}
	if !pl.IsClosed() {
		return core.Error(core.EPRECONDITION, "%s is not closed", obj.Name)
	}
	_, j, err := edgeEnds(pl, len(pts), e)
	if err != nil {
		return err
	}
	open := append(append([]geom.Vector{}, pts[j:]...), pts[:j]...)
	doc := obj.Document()
	return doc.Transact("Split "+obj.Name, func() error {
		if err := obj.SetProperty("Closed", false); err != nil {
			return err
		}
		if err := obj.SetProperty("Points", open); err != nil {
			return err
		}
		return doc.RecomputeObject(obj.Handle())
	})
}
