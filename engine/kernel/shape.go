package kernel

import (
	"fmt"
	"math"

	"github.com/npillmayer/draft/core/geom"
)

// ShapeType is the topological type of a shape.
type ShapeType int

// Shape types, ordered by topological dimension.
const (
	NullShape ShapeType = iota
	VertexShape
	EdgeShape
	WireShape
	FaceShape
	ShellShape
	SolidShape
	CompoundShape
)

func (st ShapeType) String() string {
	switch st {
	case NullShape:
		return "Null"
	case VertexShape:
		return "Vertex"
	case EdgeShape:
		return "Edge"
	case WireShape:
		return "Wire"
	case FaceShape:
		return "Face"
	case ShellShape:
		return "Shell"
	case SolidShape:
		return "Solid"
	case CompoundShape:
		return "Compound"
	}
	return "<unknown shape type>"
}

// --- Wire ------------------------------------------------------------------

// Wire is a chain of connected edges.
type Wire struct {
	edges []*Edge
}

// Edges returns the edges of a wire in chain order.
func (w *Wire) Edges() []*Edge { return w.edges }

// Start returns the first point of the wire.
func (w *Wire) Start() geom.Vector { return w.edges[0].Start() }

// End returns the last point of the wire.
func (w *Wire) End() geom.Vector { return w.edges[len(w.edges)-1].End() }

// IsClosed is true if the chain returns to its start point.
func (w *Wire) IsClosed() bool {
	if len(w.edges) == 0 {
		return false
	}
	return geom.Coincident(w.Start(), w.End())
}

// Length returns the sum of the edge lengths.
func (w *Wire) Length() float64 {
	l := 0.0
	for _, e := range w.edges {
		l += e.Length()
	}
	return l
}

// Points returns the chain of edge endpoints, without repeating the start
// point for closed wires.
func (w *Wire) Points() []geom.Vector {
	pts := make([]geom.Vector, 0, len(w.edges)+1)
	for _, e := range w.edges {
		pts = append(pts, e.Start())
	}
	if !w.IsClosed() && len(w.edges) > 0 {
		pts = append(pts, w.End())
	}
	return pts
}

// Polyline returns a discretization of the wire. For closed wires the start
// point is not repeated.
func (w *Wire) Polyline() []geom.Vector {
	var pts []geom.Vector
	for _, e := range w.edges {
		p := e.Polyline()
		pts = append(pts, p[:len(p)-1]...)
	}
	if !w.IsClosed() && len(w.edges) > 0 {
		pts = append(pts, w.End())
	}
	return pts
}

// Reversed returns the wire traversed backwards.
func (w *Wire) Reversed() *Wire {
	edges := make([]*Edge, len(w.edges))
	for i, e := range w.edges {
		edges[len(w.edges)-1-i] = e.Reversed()
	}
	return &Wire{edges: edges}
}

// Transformed maps a wire by an affine transformation.
func (w *Wire) Transformed(m geom.Matrix) *Wire {
	edges := make([]*Edge, len(w.edges))
	for i, e := range w.edges {
		edges[i] = e.Transformed(m)
	}
	return &Wire{edges: edges}
}

// Copy returns a copy of the wire.
func (w *Wire) Copy() *Wire {
	edges := make([]*Edge, len(w.edges))
	for i, e := range w.edges {
		edges[i] = e.Copy()
	}
	return &Wire{edges: edges}
}

// IsLinear is true if every edge of the wire is a line.
func (w *Wire) IsLinear() bool {
	for _, e := range w.edges {
		if e.Type() != LineCurve {
			return false
		}
	}
	return true
}

// signedArea returns the area enclosed by a closed wire, positive if the
// wire runs counter-clockwise around n. Lines and circular arcs are exact,
// other curves are discretized.
func (w *Wire) signedArea(n geom.Vector) float64 {
	if len(w.edges) == 0 {
		return 0
	}
	n = geom.Normalize(n)
	ref := w.Start()
	var sum geom.Vector
	corr := 0.0
	for _, e := range w.edges {
		var pts []geom.Vector
		if c, ok := e.Circle(); ok && c.IsCircle() {
			pts = []geom.Vector{e.Start(), e.End()}
			th := e.Sweep()
			seg := 0.5 * c.Radius * c.Radius * (th - math.Sin(th))
			if geom.Dot(c.Axis, n) < 0 {
				seg = -seg
			}
			corr += seg
		} else {
			pts = e.Polyline()
		}
		for i := 0; i+1 < len(pts); i++ {
			a, b := geom.Sub(pts[i], ref), geom.Sub(pts[i+1], ref)
			sum = geom.Add(sum, geom.Cross(a, b))
		}
	}
	return 0.5*geom.Dot(sum, n) + corr
}

// Shape wraps a wire into a shape.
func (w *Wire) Shape() *Shape {
	return &Shape{typ: WireShape, wire: w}
}

func (w *Wire) String() string {
	return fmt.Sprintf("Wire<%d edges, closed=%v>", len(w.edges), w.IsClosed())
}

// --- Face ------------------------------------------------------------------

// SurfaceType is the type of surface supporting a face.
type SurfaceType int

// Surface types
const (
	PlaneSurface     SurfaceType = iota
	ExtrusionSurface             // a profile edge swept along a vector
)

// Face is a bounded surface. Planar faces are bounded by an outer wire
// running counter-clockwise around the normal and by clockwise holes.
// Extrusion faces are the lateral faces of prisms with curved profiles.
type Face struct {
	surface SurfaceType
	outer   *Wire
	holes   []*Wire
	normal  geom.Vector
	origin  geom.Vector
	profile *Edge       // for extrusion surfaces
	dir     geom.Vector // for extrusion surfaces
	flipped bool        // extrusion surfaces: normal = -(tangent × dir)
}

// Surface returns the surface type.
func (f *Face) Surface() SurfaceType { return f.surface }

// IsPlanar is true for faces on a plane.
func (f *Face) IsPlanar() bool { return f.surface == PlaneSurface }

// OuterWire returns the outer boundary.
func (f *Face) OuterWire() *Wire { return f.outer }

// Holes returns the inner boundaries.
func (f *Face) Holes() []*Wire { return f.holes }

// Wires returns outer wire and holes.
func (f *Face) Wires() []*Wire {
	return append([]*Wire{f.outer}, f.holes...)
}

// Edges returns the edges of all boundaries.
func (f *Face) Edges() []*Edge {
	var edges []*Edge
	for _, w := range f.Wires() {
		edges = append(edges, w.edges...)
	}
	return edges
}

// Normal returns the face normal. For extrusion faces the normal at the
// middle of the profile is returned.
func (f *Face) Normal() geom.Vector {
	if f.surface == PlaneSurface {
		return f.normal
	}
	return f.NormalAt(0.5)
}

// NormalAt returns the normal of an extrusion face at profile parameter u.
func (f *Face) NormalAt(u float64) geom.Vector {
	if f.surface == PlaneSurface {
		return f.normal
	}
	n := geom.Normalize(geom.Cross(f.profile.TangentAt(u), f.dir))
	if f.flipped {
		return geom.Neg(n)
	}
	return n
}

// Origin returns a point on the plane of a planar face.
func (f *Face) Origin() geom.Vector { return f.origin }

// Profile returns profile edge and extrusion vector of an extrusion face.
func (f *Face) Profile() (*Edge, geom.Vector) { return f.profile, f.dir }

// Area returns the surface area.
func (f *Face) Area() float64 {
	if f.surface == ExtrusionSurface {
		if f.profile.Type() == LineCurve {
			return f.profile.Length() * geom.Length(geom.Cross(f.profile.TangentAt(0), f.dir))
		}
		pts := f.profile.Discretize(f.profile.samples() + 1)
		a := 0.0
		for i := 0; i+1 < len(pts); i++ {
			a += geom.Length(geom.Cross(geom.Sub(pts[i+1], pts[i]), f.dir))
		}
		return a
	}
	a := math.Abs(f.outer.signedArea(f.normal))
	for _, h := range f.holes {
		a -= math.Abs(h.signedArea(f.normal))
	}
	return a
}

// Centroid returns the center of mass of a planar face, or the mid point of
// an extrusion face.
func (f *Face) Centroid() geom.Vector {
	if f.surface == ExtrusionSurface {
		return geom.Add(f.profile.Mid(), geom.Scale(0.5, f.dir))
	}
	// area-weighted triangle fan over discretized boundaries
	var c geom.Vector
	total := 0.0
	ref := f.outer.Start()
	for _, w := range f.Wires() { // holes run clockwise and subtract
		pts := w.Polyline()
		for j := 0; j < len(pts); j++ {
			a, b := pts[j], pts[(j+1)%len(pts)]
			ar := 0.5 * geom.Dot(geom.Cross(geom.Sub(a, ref), geom.Sub(b, ref)), f.normal)
			centroid := geom.Scale(1.0/3, geom.Add(ref, geom.Add(a, b)))
			c = geom.Add(c, geom.Scale(ar, centroid))
			total += ar
		}
	}
	if math.Abs(total) < geom.Epsilon() {
		return geom.NewBoundBox(f.outer.Polyline()...).Center()
	}
	return geom.Scale(1/total, c)
}

// Reversed returns the face with opposite normal.
func (f *Face) Reversed() *Face {
	g := *f
	if f.surface == PlaneSurface {
		g.normal = geom.Neg(f.normal)
		g.outer = f.outer.Reversed()
		g.holes = make([]*Wire, len(f.holes))
		for i, h := range f.holes {
			g.holes[i] = h.Reversed()
		}
	} else {
		g.flipped = !f.flipped
	}
	return &g
}

// Transformed maps a face by an affine transformation.
func (f *Face) Transformed(m geom.Matrix) *Face {
	g := &Face{surface: f.surface, outer: f.outer.Transformed(m)}
	for _, h := range f.holes {
		g.holes = append(g.holes, h.Transformed(m))
	}
	if f.surface == ExtrusionSurface {
		g.profile = f.profile.Transformed(m)
		g.dir = m.ApplyDir(f.dir)
		g.flipped = f.flipped
		if m.Determinant() < 0 {
			g.flipped = !g.flipped
		}
		return g
	}
	g.origin = m.Apply(f.origin)
	u, v := geom.PlaneBasis(f.normal)
	g.normal = geom.Normalize(geom.Cross(m.ApplyDir(u), m.ApplyDir(v)))
	return g
}

// Copy returns a copy of the face.
func (f *Face) Copy() *Face {
	return f.Transformed(geom.IdentityMatrix())
}

// Shape wraps a face into a shape.
func (f *Face) Shape() *Shape {
	return &Shape{typ: FaceShape, face: f}
}

func (f *Face) String() string {
	if f.surface == ExtrusionSurface {
		return fmt.Sprintf("Face<extrusion of %s>", f.profile)
	}
	return fmt.Sprintf("Face<plane n=%s, %d holes>", geom.VString(f.normal), len(f.holes))
}

// --- Shape -----------------------------------------------------------------

// prism records how a solid has been created by extrusion.
type prism struct {
	base *Face
	dir  geom.Vector
}

// Shape is the opaque topological entity handed out by the kernel.
type Shape struct {
	typ      ShapeType
	vertex   geom.Vector
	edge     *Edge
	wire     *Wire
	face     *Face
	faces    []*Face  // shells and solids
	children []*Shape // compounds
	prism    *prism
}

// Type returns the topological type of a shape. A nil shape is a null shape.
func (s *Shape) Type() ShapeType {
	if s == nil {
		return NullShape
	}
	return s.typ
}

// IsNull is true for nil shapes, empty compounds and other shapes without
// geometry.
func (s *Shape) IsNull() bool {
	if s == nil || s.typ == NullShape {
		return true
	}
	if s.typ == CompoundShape {
		for _, c := range s.children {
			if !c.IsNull() {
				return false
			}
		}
		return true
	}
	return false
}

// Point returns the location of a vertex shape.
func (s *Shape) Point() geom.Vector { return s.vertex }

// Edge returns the edge of an edge shape.
func (s *Shape) Edge() *Edge { return s.edge }

// Wire returns the wire of a wire shape.
func (s *Shape) Wire() *Wire { return s.wire }

// Face returns the face of a face shape.
func (s *Shape) Face() *Face { return s.face }

// Children returns the members of a compound.
func (s *Shape) Children() []*Shape {
	if s == nil {
		return nil
	}
	return s.children
}

// Prism returns base face and extrusion vector of a solid created by
// extrusion.
func (s *Shape) Prism() (*Face, geom.Vector, bool) {
	if s == nil || s.prism == nil {
		return nil, geom.Vector{}, false
	}
	return s.prism.base, s.prism.dir, true
}

// Edges returns all edges of a shape. Edges shared by faces of a shell or
// solid are reported once.
func (s *Shape) Edges() []*Edge {
	switch s.Type() {
	case EdgeShape:
		return []*Edge{s.edge}
	case WireShape:
		return s.wire.edges
	case FaceShape:
		return s.face.Edges()
	case ShellShape, SolidShape:
		var edges []*Edge
		for _, f := range s.faces {
			for _, e := range f.Edges() {
				if !containsEdge(edges, e) {
					edges = append(edges, e)
				}
			}
		}
		return edges
	case CompoundShape:
		var edges []*Edge
		for _, c := range s.children {
			edges = append(edges, c.Edges()...)
		}
		return edges
	}
	return nil
}

func containsEdge(edges []*Edge, e *Edge) bool {
	for _, x := range edges {
		if x.IsSame(e) {
			return true
		}
	}
	return false
}

// Wires returns all wires of a shape.
func (s *Shape) Wires() []*Wire {
	switch s.Type() {
	case WireShape:
		return []*Wire{s.wire}
	case FaceShape:
		return s.face.Wires()
	case ShellShape, SolidShape:
		var wires []*Wire
		for _, f := range s.faces {
			wires = append(wires, f.Wires()...)
		}
		return wires
	case CompoundShape:
		var wires []*Wire
		for _, c := range s.children {
			wires = append(wires, c.Wires()...)
		}
		return wires
	}
	return nil
}

// Faces returns all faces of a shape.
func (s *Shape) Faces() []*Face {
	switch s.Type() {
	case FaceShape:
		return []*Face{s.face}
	case ShellShape, SolidShape:
		return s.faces
	case CompoundShape:
		var faces []*Face
		for _, c := range s.children {
			faces = append(faces, c.Faces()...)
		}
		return faces
	}
	return nil
}

// Solids returns the solids contained in a shape.
func (s *Shape) Solids() []*Shape {
	switch s.Type() {
	case SolidShape:
		return []*Shape{s}
	case CompoundShape:
		var solids []*Shape
		for _, c := range s.children {
			solids = append(solids, c.Solids()...)
		}
		return solids
	}
	return nil
}

// Shells returns the shells contained in a shape. Solids report their
// boundary as a shell.
func (s *Shape) Shells() []*Shape {
	switch s.Type() {
	case ShellShape:
		return []*Shape{s}
	case SolidShape:
		return []*Shape{{typ: ShellShape, faces: s.faces}}
	case CompoundShape:
		var shells []*Shape
		for _, c := range s.children {
			shells = append(shells, c.Shells()...)
		}
		return shells
	}
	return nil
}

// Vertexes returns the distinct endpoints of all edges.
func (s *Shape) Vertexes() []geom.Vector {
	if s.Type() == VertexShape {
		return []geom.Vector{s.vertex}
	}
	if s.Type() == CompoundShape {
		var pts []geom.Vector
		for _, c := range s.children {
			pts = appendUnique(pts, c.Vertexes()...)
		}
		return pts
	}
	var pts []geom.Vector
	for _, e := range s.Edges() {
		pts = appendUnique(pts, e.Start(), e.End())
	}
	return pts
}

func appendUnique(pts []geom.Vector, qs ...geom.Vector) []geom.Vector {
	for _, q := range qs {
		found := false
		for _, p := range pts {
			if geom.Coincident(p, q) {
				found = true
				break
			}
		}
		if !found {
			pts = append(pts, q)
		}
	}
	return pts
}

// BoundBox returns the bounding box of a shape.
func (s *Shape) BoundBox() geom.BoundBox {
	var bb geom.BoundBox
	switch s.Type() {
	case NullShape:
		return bb
	case VertexShape:
		return geom.NewBoundBox(s.vertex)
	case CompoundShape:
		for _, c := range s.children {
			bb = bb.Union(c.BoundBox())
		}
		return bb
	}
	for _, e := range s.Edges() {
		for _, p := range e.Polyline() {
			bb = bb.Add(p)
		}
	}
	return bb
}

// Length returns the sum of the lengths of all edges.
func (s *Shape) Length() float64 {
	l := 0.0
	for _, e := range s.Edges() {
		l += e.Length()
	}
	return l
}

// Area returns the sum of the areas of all faces.
func (s *Shape) Area() float64 {
	a := 0.0
	for _, f := range s.Faces() {
		a += f.Area()
	}
	return a
}

// Volume returns the sum of the volumes of all solids.
func (s *Shape) Volume() float64 {
	v := 0.0
	for _, sol := range s.Solids() {
		v += sol.solidVolume()
	}
	return v
}

func (s *Shape) solidVolume() float64 {
	if s.prism != nil {
		return s.prism.base.Area() * math.Abs(geom.Dot(s.prism.dir, s.prism.base.normal))
	}
	// divergence theorem, faces are oriented outwards
	v := 0.0
	for _, f := range s.faces {
		if f.IsPlanar() {
			v += geom.Dot(f.origin, f.normal) * f.Area()
			continue
		}
		pts := f.profile.Discretize(f.profile.samples() + 1)
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			n := geom.Cross(geom.Sub(b, a), f.dir)
			if f.flipped {
				n = geom.Neg(n)
			}
			c := geom.Add(geom.Mid(a, b), geom.Scale(0.5, f.dir))
			v += geom.Dot(c, n)
		}
	}
	return math.Abs(v / 3)
}

// IsClosed checks if a wire or edge is closed, or if every edge of a shell
// is shared by two faces. Solids are always closed.
func (s *Shape) IsClosed() bool {
	switch s.Type() {
	case EdgeShape:
		return s.edge.IsClosed()
	case WireShape:
		return s.wire.IsClosed()
	case FaceShape:
		return false
	case SolidShape:
		return true
	case ShellShape:
		return shellIsClosed(s.faces)
	case CompoundShape:
		if len(s.children) == 0 {
			return false
		}
		for _, c := range s.children {
			if !c.IsClosed() {
				return false
			}
		}
		return true
	}
	return false
}

func shellIsClosed(faces []*Face) bool {
	var all []*Edge
	for _, f := range faces {
		all = append(all, f.Edges()...)
	}
	if len(all) == 0 {
		return false
	}
	for i, e := range all {
		shared := 0
		for j, o := range all {
			if i != j && e.IsSame(o) {
				shared++
			}
		}
		if shared == 0 {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of a shape.
func (s *Shape) Copy() *Shape {
	return s.TransformGeometry(geom.IdentityMatrix())
}

// TransformGeometry maps a shape by an arbitrary affine transformation.
// Circles under non-uniform scaling become splines.
func (s *Shape) TransformGeometry(m geom.Matrix) *Shape {
	if s == nil {
		return nil
	}
	r := &Shape{typ: s.typ}
	switch s.typ {
	case VertexShape:
		r.vertex = m.Apply(s.vertex)
	case EdgeShape:
		r.edge = s.edge.Transformed(m)
	case WireShape:
		r.wire = s.wire.Transformed(m)
	case FaceShape:
		r.face = s.face.Transformed(m)
	case ShellShape, SolidShape:
		r.faces = make([]*Face, len(s.faces))
		for i, f := range s.faces {
			r.faces[i] = f.Transformed(m)
		}
		if s.prism != nil {
			r.prism = &prism{base: s.prism.base.Transformed(m), dir: m.ApplyDir(s.prism.dir)}
		}
	case CompoundShape:
		r.children = make([]*Shape, len(s.children))
		for i, c := range s.children {
			r.children[i] = c.TransformGeometry(m)
		}
	}
	return r
}

// Transformed returns the shape moved by a placement.
func (s *Shape) Transformed(pl geom.Placement) *Shape {
	return s.TransformGeometry(pl.Matrix())
}

// Translated returns the shape moved by v.
func (s *Shape) Translated(v geom.Vector) *Shape {
	return s.Transformed(geom.Translation(v))
}

// Rotated returns the shape rotated by angle (radians) around an axis
// through center.
func (s *Shape) Rotated(center, axis geom.Vector, angle float64) *Shape {
	rot := geom.NewRotation(axis, angle)
	pl := geom.NewPlacement(geom.Sub(center, rot.Apply(center)), rot)
	return s.Transformed(pl)
}

// Reversed reverses the orientation of edges, wires and faces.
func (s *Shape) Reversed() *Shape {
	switch s.Type() {
	case EdgeShape:
		return s.edge.Reversed().Shape()
	case WireShape:
		return s.wire.Reversed().Shape()
	case FaceShape:
		return s.face.Reversed().Shape()
	case CompoundShape:
		r := &Shape{typ: CompoundShape}
		for _, c := range s.children {
			r.children = append(r.children, c.Reversed())
		}
		return r
	}
	return s.Copy()
}

// Normal returns the normal of a planar shape.
func (s *Shape) Normal() (geom.Vector, bool) {
	if s.Type() == FaceShape && s.face.IsPlanar() {
		return s.face.normal, true
	}
	_, n, ok := s.Plane()
	return n, ok
}

// IsPlanar checks if all edges of a shape lie in a common plane.
func (s *Shape) IsPlanar() bool {
	_, _, ok := s.Plane()
	return ok
}

// Plane returns a point and normal of the plane containing all edges of a
// shape. Straight or empty shapes do not define a plane.
func (s *Shape) Plane() (geom.Vector, geom.Vector, bool) {
	switch s.Type() {
	case VertexShape, NullShape:
		return geom.Vector{}, geom.Vector{}, false
	case FaceShape:
		if s.face.IsPlanar() {
			return s.face.origin, s.face.normal, true
		}
	}
	var pts []geom.Vector
	for _, e := range s.Edges() {
		if c, ok := e.Circle(); ok {
			pts = append(pts, e.Start(), e.Mid(), e.End(), c.Center, geom.Add(c.Center, c.XDir), geom.Add(c.Center, c.YDir()))
			continue
		}
		pts = append(pts, e.Polyline()...)
	}
	return FindPlane(pts)
}

// String gives a short description of a shape.
func (s *Shape) String() string {
	switch s.Type() {
	case NullShape:
		return "Shape<null>"
	case VertexShape:
		return fmt.Sprintf("Vertex%s", geom.VString(s.vertex))
	case EdgeShape:
		return s.edge.String()
	case WireShape:
		return s.wire.String()
	case FaceShape:
		return s.face.String()
	case CompoundShape:
		return fmt.Sprintf("Compound<%d>", len(s.children))
	}
	return fmt.Sprintf("%s<%d faces>", s.typ, len(s.faces))
}
