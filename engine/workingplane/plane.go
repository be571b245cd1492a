package workingplane

import (
	"fmt"
	"math"
	"sync"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/arithm"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/kernel"
)

// State is a snapshot of a plane, without its stack.
type State struct {
	U, V, Axis geom.Vector
	Position   geom.Vector
	Offset     float64
	Weak       bool
}

// Plane is a working plane.
type Plane struct {
	State
	stack *arraystack.Stack
}

var activePlane *Plane

var activePlaneCreation sync.Once

// Active returns the process-wide working plane.
func Active() *Plane {
	activePlaneCreation.Do(func() {
		activePlane = New()
	})
	return activePlane
}

// New creates a weak plane aligned to the world XY plane.
func New() *Plane {
	p := &Plane{stack: arraystack.New()}
	p.State = State{U: geom.XAxis, V: geom.YAxis, Axis: geom.ZAxis, Weak: true}
	return p
}

// Reset aligns the plane to the world XY plane through the origin. The weak
// flag is left untouched.
func (p *Plane) Reset() {
	weak := p.Weak
	p.State = State{U: geom.XAxis, V: geom.YAxis, Axis: geom.ZAxis, Weak: weak}
}

// IsWeak is true if the plane has not been set explicitly.
func (p *Plane) IsWeak() bool {
	return p.Weak
}

// SetState replaces the plane geometry by a stored state. A sticky plane
// never becomes weak again.
func (p *Plane) SetState(s State) {
	weak := p.Weak && s.Weak
	p.State = s
	p.Weak = weak
}

// --- Alignment -------------------------------------------------------------

// AlignToPointAndAxis aligns the plane to the plane through point with normal
// axis, shifted by offset along the axis. u is chosen in the world XY plane
// if possible, else it is the world X axis.
func (p *Plane) AlignToPointAndAxis(point, axis geom.Vector, offset float64) error {
	if geom.IsNull(axis) {
		return core.Error(core.EGEOMETRY, "cannot align working plane to null axis")
	}
	p.align(point, axis, geom.Vector{}, offset)
	p.Weak = false
	tracer().Debugf("working plane aligned to %s", p)
	return nil
}

// AlignToPointAxisAndUp works like AlignToPointAndAxis, but takes v from up,
// projected onto the plane.
func (p *Plane) AlignToPointAxisAndUp(point, axis, up geom.Vector, offset float64) error {
	if geom.IsNull(axis) {
		return core.Error(core.EGEOMETRY, "cannot align working plane to null axis")
	}
	p.align(point, axis, up, offset)
	p.Weak = false
	return nil
}

func (p *Plane) align(point, axis, up geom.Vector, offset float64) {
	axis = geom.Normalize(axis)
	u, v := geom.PlaneBasis(axis)
	if !geom.IsNull(up) && !geom.IsParallel(up, axis) {
		v = geom.Normalize(geom.Sub(up, geom.Project(up, axis)))
		u = geom.Cross(v, axis)
	}
	p.U, p.V, p.Axis = u, v, axis
	p.Offset = offset
	p.Position = geom.Add(point, geom.Scale(offset, axis))
}

// alignToBasis adopts an orthonormal frame.
func (p *Plane) alignToBasis(origin, u, axis geom.Vector) {
	p.Axis = geom.Normalize(axis)
	p.U = geom.Normalize(geom.Sub(u, geom.Project(u, p.Axis)))
	p.V = geom.Cross(p.Axis, p.U)
	p.Position = origin
	p.Offset = 0
	p.Weak = false
}

// AlignToFace aligns the plane to a planar face: the origin is the center of
// the face's bounding box, the axis its normal.
func (p *Plane) AlignToFace(face *kernel.Face, offset float64) error {
	if face == nil {
		return core.Error(core.EPRECONDITION, "no face to align working plane to")
	}
	if !face.IsPlanar() {
		return core.Error(core.EGEOMETRY, "cannot align working plane to non-planar face")
	}
	center := face.Shape().BoundBox().Center()
	return p.AlignToPointAndAxis(center, face.Normal(), offset)
}

// AlignToEdges fits a plane through a set of coplanar edges. u follows the
// first edge.
func (p *Plane) AlignToEdges(edges []*kernel.Edge) error {
	if len(edges) == 0 {
		return core.Error(core.EPRECONDITION, "no edges to align working plane to")
	}
	var pts []geom.Vector
	for _, e := range edges {
		pts = append(pts, e.Start(), e.Mid(), e.End())
	}
	_, n, ok := kernel.FindPlane(pts)
	if !ok {
		return core.Error(core.EGEOMETRY, "edges do not define a plane")
	}
	u := edges[0].TangentAt(0)
	if geom.IsParallel(u, n) {
		u, _ = geom.PlaneBasis(n)
	}
	p.alignToBasis(edges[0].Start(), u, n)
	tracer().Debugf("working plane aligned to %d edges: %s", len(edges), p)
	return nil
}

// AlignTo3Points aligns the plane to the plane through three points, with
// u pointing from p1 to p2.
func (p *Plane) AlignTo3Points(p1, p2, p3 geom.Vector, offset float64) error {
	if geom.Coincident(p1, p2) || geom.Collinear(p1, p2, p3) {
		return core.Error(core.EGEOMETRY, "cannot align working plane to collinear points")
	}
	u := geom.Sub(p2, p1)
	n := geom.Cross(u, geom.Sub(p3, p1))
	p.alignToBasis(p1, u, n)
	p.Offset = offset
	p.Position = geom.Add(p1, geom.Scale(offset, p.Axis))
	return nil
}

// AlignToSelection aligns the plane to a selection: a single face, three
// vertices or a planar set of edges.
func (p *Plane) AlignToSelection(sel []*kernel.Shape, offset float64) error {
	if len(sel) == 0 {
		return core.Error(core.EPRECONDITION, "empty selection")
	}
	var verts []geom.Vector
	var faces []*kernel.Face
	var edges []*kernel.Edge
	for _, s := range sel {
		switch s.Type() {
		case kernel.VertexShape:
			verts = append(verts, s.Point())
		case kernel.FaceShape:
			faces = append(faces, s.Face())
		default:
			faces = append(faces, s.Faces()...)
			edges = append(edges, s.Edges()...)
		}
	}
	switch {
	case len(faces) == 1 && len(verts) == 0:
		return p.AlignToFace(faces[0], offset)
	case len(verts) == 3 && len(faces) == 0 && len(edges) == 0:
		return p.AlignTo3Points(verts[0], verts[1], verts[2], offset)
	case len(faces) == 0 && len(edges) > 0:
		return p.AlignToEdges(edges)
	}
	return core.Error(core.EGEOMETRY, "cannot align working plane to selection")
}

// SetFromPlacement adopts the rotation of a placement. With rebase, the
// origin is moved to the placement's base as well.
func (p *Plane) SetFromPlacement(pl geom.Placement, rebase bool) {
	u, v, w := pl.Rotation.Basis()
	p.U, p.V, p.Axis = u, v, w
	if rebase {
		p.Position = pl.Base
	}
}

// AlignToPlacementOf aligns the plane to the placement of an object.
func (p *Plane) AlignToPlacementOf(pl geom.Placement) {
	p.SetFromPlacement(pl, true)
	p.Weak = false
}

// --- Save and restore ------------------------------------------------------

// Save pushes the current plane state.
func (p *Plane) Save() {
	p.stack.Push(p.State)
}

// Restore pops the last saved plane state. Restoring never makes a sticky
// plane weak.
func (p *Plane) Restore() {
	s, ok := p.stack.Pop()
	if !ok {
		tracer().Infof("working plane: nothing to restore")
		return
	}
	p.SetState(s.(State))
}

// Saved returns the number of saved states.
func (p *Plane) Saved() int {
	return p.stack.Size()
}

// Setup is called on tool entry. It saves the plane and, if the plane is
// weak or force is set, aligns it to the view direction through point.
// The weak flag is not changed.
func (p *Plane) Setup(direction, point geom.Vector, force bool) {
	p.Save()
	if (p.Weak || force) && !geom.IsNull(direction) {
		p.align(point, direction, geom.Vector{}, 0)
		tracer().Debugf("working plane set up to view: %s", p)
	}
}

// --- Coordinates -----------------------------------------------------------

// GetGlobalCoords converts plane coordinates to world coordinates.
func (p *Plane) GetGlobalCoords(local geom.Vector) geom.Vector {
	return geom.Add(p.Position, p.GetGlobalRot(local))
}

// GetLocalCoords converts world coordinates to plane coordinates.
func (p *Plane) GetLocalCoords(global geom.Vector) geom.Vector {
	return p.GetLocalRot(geom.Sub(global, p.Position))
}

// GetGlobalRot converts a direction from plane to world coordinates.
func (p *Plane) GetGlobalRot(local geom.Vector) geom.Vector {
	return geom.Add(geom.Scale(local.X, p.U),
		geom.Add(geom.Scale(local.Y, p.V), geom.Scale(local.Z, p.Axis)))
}

// GetLocalRot converts a direction from world to plane coordinates.
func (p *Plane) GetLocalRot(global geom.Vector) geom.Vector {
	return geom.V(geom.Dot(global, p.U), geom.Dot(global, p.V), geom.Dot(global, p.Axis))
}

// GetRotation returns the rotation taking the world basis to the plane
// basis.
func (p *Plane) GetRotation() geom.Rotation {
	return geom.RotationFromBasis(p.U, p.V, p.Axis)
}

// GetPlacement returns the plane as a placement.
func (p *Plane) GetPlacement() geom.Placement {
	return geom.NewPlacement(p.Position, p.GetRotation())
}

// GetNormal returns the plane's axis.
func (p *Plane) GetNormal() geom.Vector {
	return p.Axis
}

// ProjectPoint projects a point onto the plane along direction. A null
// direction projects along the plane's axis.
func (p *Plane) ProjectPoint(pt, direction geom.Vector) geom.Vector {
	if geom.IsNull(direction) || math.Abs(geom.Dot(direction, p.Axis)) < geom.Epsilon() {
		return geom.ProjectOnPlane(pt, p.Position, p.Axis)
	}
	d := geom.Dot(geom.Sub(p.Position, pt), p.Axis) / geom.Dot(direction, p.Axis)
	return geom.Add(pt, geom.Scale(d, direction))
}

// Project2D returns the in-plane coordinates of a point.
func (p *Plane) Project2D(pt geom.Vector) arithm.Pair {
	l := p.GetLocalCoords(pt)
	return arithm.P(l.X, l.Y)
}

// From2D returns the world point for in-plane coordinates.
func (p *Plane) From2D(pr arithm.Pair) geom.Vector {
	c := pr.C()
	return p.GetGlobalCoords(geom.V(real(c), imag(c), 0))
}

// SnapToGrid moves a point to the nearest grid node of the plane. The
// distance from the plane is kept.
func (p *Plane) SnapToGrid(pt geom.Vector) geom.Vector {
	spacing := parameters.Global().Float(parameters.GridSpacing)
	if spacing <= 0 {
		return pt
	}
	l := p.GetLocalCoords(pt)
	l.X = math.Round(l.X/spacing) * spacing
	l.Y = math.Round(l.Y/spacing) * spacing
	return p.GetGlobalCoords(l)
}

// IsGlobal is true if the plane is the world XY plane through the origin.
func (p *Plane) IsGlobal() bool {
	return geom.Equal(p.U, geom.XAxis) && geom.Equal(p.V, geom.YAxis) &&
		geom.Equal(p.Axis, geom.ZAxis) && geom.IsNull(p.Position)
}

// IsOrtho is true if the plane's axis is parallel to a world axis.
func (p *Plane) IsOrtho() bool {
	for _, a := range []geom.Vector{geom.XAxis, geom.YAxis, geom.ZAxis} {
		if geom.IsParallel(p.Axis, a) {
			return true
		}
	}
	return false
}

// GetClosestAxis returns the name of the plane axis ("u", "v" or "axis")
// closest in direction to v.
func (p *Plane) GetClosestAxis(v geom.Vector) string {
	names := []string{"u", "v", "axis"}
	axes := []geom.Vector{p.U, p.V, p.Axis}
	best, bestAngle := 0, math.Inf(1)
	for i, a := range axes {
		ang := geom.Angle(v, a)
		if ang > math.Pi/2 {
			ang = math.Pi - ang
		}
		if ang < bestAngle {
			best, bestAngle = i, ang
		}
	}
	return names[best]
}

// GetDeviation returns the angle between u and the default u for the
// plane's axis.
func (p *Plane) GetDeviation() float64 {
	u, _ := geom.PlaneBasis(p.Axis)
	return geom.SignedAngle(u, p.U, p.Axis)
}

// IsValid checks that u, v and axis form a right-handed orthonormal basis.
func (p *Plane) IsValid() bool {
	eps := geom.Epsilon()
	for _, a := range []geom.Vector{p.U, p.V, p.Axis} {
		if math.Abs(geom.Length(a)-1) > eps {
			return false
		}
	}
	if math.Abs(geom.Dot(p.U, p.V)) > eps || math.Abs(geom.Dot(p.U, p.Axis)) > eps {
		return false
	}
	return geom.Equal(geom.Cross(p.U, p.V), p.Axis)
}

func (p *Plane) String() string {
	w := "sticky"
	if p.Weak {
		w = "weak"
	}
	return fmt.Sprintf("Plane[pos=%s, u=%s, v=%s, axis=%s, %s]", geom.VString(p.Position),
		geom.VString(p.U), geom.VString(p.V), geom.VString(p.Axis), w)
}
