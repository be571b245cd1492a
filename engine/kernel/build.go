package kernel

import (
	"math"
	"sort"

	"github.com/npillmayer/draft/core/geom"
)

// MakeVertex creates a vertex shape.
func MakeVertex(p geom.Vector) *Shape {
	return &Shape{typ: VertexShape, vertex: p}
}

// MakeLine creates a straight edge. Coincident points are rejected.
func MakeLine(p1, p2 geom.Vector) (*Edge, error) {
	if geom.Dist(p1, p2) < geom.Epsilon() {
		return nil, geometryError("cannot create line between coincident points %s", geom.VString(p1))
	}
	return NewEdge(&Line{P1: p1, P2: p2}, 0, 1), nil
}

// MakePolygon creates a wire of straight edges through a point list.
// Consecutive duplicate points are skipped.
func MakePolygon(pts []geom.Vector, closed bool) (*Wire, error) {
	var edges []*Edge
	for i := 0; i+1 < len(pts); i++ {
		if geom.Coincident(pts[i], pts[i+1]) {
			continue
		}
		e, _ := MakeLine(pts[i], pts[i+1])
		edges = append(edges, e)
	}
	if closed && len(pts) > 2 && !geom.Coincident(pts[len(pts)-1], pts[0]) {
		e, _ := MakeLine(pts[len(pts)-1], pts[0])
		edges = append(edges, e)
	}
	if len(edges) == 0 {
		return nil, geometryError("polygon needs at least 2 distinct points")
	}
	return &Wire{edges: edges}, nil
}

// MakeCircle creates a full circle around axis.
func MakeCircle(center, axis geom.Vector, radius float64) (*Edge, error) {
	return MakeArc(center, axis, geom.Vector{}, radius, 0, 2*math.Pi)
}

// MakeArc creates a circular arc from angle a1 to a2 (radians), measured
// counter-clockwise around axis from xdir. A null xdir selects the default
// direction for the axis. If a2 ≤ a1, a2 is advanced by a full turn.
func MakeArc(center, axis, xdir geom.Vector, radius, a1, a2 float64) (*Edge, error) {
	if radius < geom.Epsilon() {
		return nil, geometryError("circle radius must be positive, is %g", radius)
	}
	c, err := makeConic(center, axis, xdir, radius, radius)
	if err != nil {
		return nil, err
	}
	for a2 <= a1+geom.Epsilon() {
		a2 += 2 * math.Pi
	}
	return NewEdge(c, a1, a2), nil
}

// MakeEllipse creates a full ellipse with major radius along xdir.
func MakeEllipse(center, axis, xdir geom.Vector, major, minor float64) (*Edge, error) {
	if minor < geom.Epsilon() || major < minor {
		return nil, geometryError("invalid ellipse radii %g, %g", major, minor)
	}
	c, err := makeConic(center, axis, xdir, major, minor)
	if err != nil {
		return nil, err
	}
	return NewEdge(c, 0, 2*math.Pi), nil
}

func makeConic(center, axis, xdir geom.Vector, r1, r2 float64) (*Circle, error) {
	if geom.IsNull(axis) {
		return nil, geometryError("circle axis must not be null")
	}
	axis = geom.Normalize(axis)
	if geom.IsNull(xdir) {
		xdir, _ = geom.PlaneBasis(axis)
	} else {
		xdir = geom.Normalize(geom.Sub(xdir, geom.Project(xdir, axis)))
		if geom.IsNull(xdir) {
			return nil, geometryError("circle x-direction is parallel to axis")
		}
	}
	return &Circle{Center: center, Axis: axis, XDir: xdir, Radius: r1, Minor: r2}, nil
}

// MakeArc3Points creates the circular arc through three points.
func MakeArc3Points(p1, p2, p3 geom.Vector) (*Edge, error) {
	center, axis, ok := circumcenter(p1, p2, p3)
	if !ok {
		return nil, geometryError("arc through collinear points")
	}
	r := geom.Dist(center, p1)
	c := &Circle{Center: center, Axis: axis, XDir: geom.Normalize(geom.Sub(p1, center)), Radius: r, Minor: r}
	a3 := c.Parameter(p3)
	if a3 < geom.Epsilon() {
		a3 = 2 * math.Pi
	}
	return NewEdge(c, 0, a3), nil
}

// circumcenter returns center and normal of the circle through three points.
// The normal is oriented such that p1→p2→p3 runs counter-clockwise.
func circumcenter(p1, p2, p3 geom.Vector) (geom.Vector, geom.Vector, bool) {
	a, b := geom.Sub(p2, p1), geom.Sub(p3, p1)
	n := geom.Cross(a, b)
	nn := geom.Dot(n, n)
	if nn < geom.Epsilon()*geom.Epsilon() {
		return geom.Vector{}, geom.Vector{}, false
	}
	// p1 + (|a|² (b×n) + |b|² (n×a)) / 2|n|²
	t := geom.Add(geom.Scale(geom.Dot(a, a), geom.Cross(b, n)), geom.Scale(geom.Dot(b, b), geom.Cross(n, a)))
	return geom.Add(p1, geom.Scale(1/(2*nn), t)), geom.Normalize(n), true
}

// FindPlane fits a plane through a set of points. It fails for fewer than
// three non-collinear points and for points deviating from the plane by more
// than the tolerance.
func FindPlane(pts []geom.Vector) (geom.Vector, geom.Vector, bool) {
	if len(pts) < 3 {
		return geom.Vector{}, geom.Vector{}, false
	}
	p0 := pts[0]
	var p1 geom.Vector
	dmax := 0.0
	for _, p := range pts {
		if d := geom.Dist(p, p0); d > dmax {
			p1, dmax = p, d
		}
	}
	if dmax < geom.Epsilon() {
		return geom.Vector{}, geom.Vector{}, false
	}
	dir := geom.Sub(p1, p0)
	var p2 geom.Vector
	dmax = 0
	for _, p := range pts {
		if d := geom.DistanceToLine(p, p0, dir); d > dmax {
			p2, dmax = p, d
		}
	}
	if dmax < geom.Epsilon() {
		return geom.Vector{}, geom.Vector{}, false
	}
	n := geom.Normalize(geom.Cross(dir, geom.Sub(p2, p0)))
	// prefer normals pointing into the positive half space
	if geom.Dot(n, geom.V(1e-3, 1e-2, 1)) < 0 {
		n = geom.Neg(n)
	}
	for _, p := range pts {
		if math.Abs(geom.Dot(geom.Sub(p, p0), n)) > geom.Tolerance() {
			return geom.Vector{}, geom.Vector{}, false
		}
	}
	return p0, n, true
}

// MakeWire chains edges to a wire. Edges are taken in the given order and
// flipped where necessary; gaps make the operation fail.
func MakeWire(edges []*Edge) (*Wire, error) {
	if len(edges) == 0 {
		return nil, geometryError("cannot create wire without edges")
	}
	chain := []*Edge{edges[0]}
	if len(edges) > 1 {
		// orient the first edge towards the second one
		e0, e1 := edges[0], edges[1]
		if !touches(e0.End(), e1) && touches(e0.Start(), e1) {
			chain[0] = e0.Reversed()
		}
	}
	for _, e := range edges[1:] {
		end := chain[len(chain)-1].End()
		switch {
		case geom.Coincident(end, e.Start()):
			chain = append(chain, e)
		case geom.Coincident(end, e.End()):
			chain = append(chain, e.Reversed())
		default:
			return nil, geometryError("edges are not connected at %s", geom.VString(end))
		}
	}
	return &Wire{edges: chain}, nil
}

func touches(p geom.Vector, e *Edge) bool {
	return geom.Coincident(p, e.Start()) || geom.Coincident(p, e.End())
}

// SortEdges orders an unordered set of edges into chains. Each chain is
// connected end to start; edges are reversed where necessary. Open chains
// start at a free end.
func SortEdges(edges []*Edge) [][]*Edge {
	rest := append([]*Edge(nil), edges...)
	var chains [][]*Edge
	for len(rest) > 0 {
		// prefer starting at an edge end which has no neighbour
		start := 0
		for i, e := range rest {
			if degree(rest, e.Start()) == 1 {
				start = i
				break
			}
			if degree(rest, e.End()) == 1 {
				rest[i] = e.Reversed()
				start = i
				break
			}
		}
		chain := []*Edge{rest[start]}
		rest = append(rest[:start], rest[start+1:]...)
		for grown := true; grown; {
			grown = false
			end := chain[len(chain)-1].End()
			for i, e := range rest {
				if geom.Coincident(end, e.Start()) {
					chain = append(chain, e)
				} else if geom.Coincident(end, e.End()) {
					chain = append(chain, e.Reversed())
				} else {
					continue
				}
				rest = append(rest[:i], rest[i+1:]...)
				grown = true
				break
			}
		}
		chains = append(chains, chain)
	}
	return chains
}

func degree(edges []*Edge, p geom.Vector) int {
	d := 0
	for _, e := range edges {
		if geom.Coincident(p, e.Start()) {
			d++
		}
		if geom.Coincident(p, e.End()) {
			d++
		}
	}
	return d
}

// ClusterEdges partitions edges into connected clusters. Edges are
// connected if they share an endpoint.
func ClusterEdges(edges []*Edge) [][]*Edge {
	n := len(edges)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := edges[i], edges[j]
			if touches(a.Start(), b) || touches(a.End(), b) {
				parent[find(i)] = find(j)
			}
		}
	}
	index := make(map[int]int)
	var clusters [][]*Edge
	for i, e := range edges {
		r := find(i)
		k, ok := index[r]
		if !ok {
			k = len(clusters)
			index[r] = k
			clusters = append(clusters, nil)
		}
		clusters[k] = append(clusters[k], e)
	}
	return clusters
}

// MakeFace creates a planar face from closed wires. The wire enclosing the
// largest area becomes the outer boundary, all others are holes.
func MakeFace(wires ...*Wire) (*Face, error) {
	if len(wires) == 0 {
		return nil, geometryError("cannot create face without wires")
	}
	var pts []geom.Vector
	for _, w := range wires {
		if !w.IsClosed() {
			return nil, geometryError("cannot create face from open wire")
		}
		pts = append(pts, (&Shape{typ: WireShape, wire: w}).planePoints()...)
	}
	origin, n, ok := FindPlane(pts)
	if !ok {
		return nil, geometryError("cannot create face from non-planar wires")
	}
	sorted := append([]*Wire(nil), wires...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].signedArea(n)) > math.Abs(sorted[j].signedArea(n))
	})
	outer := sorted[0]
	if math.Abs(outer.signedArea(n)) < geom.Epsilon() {
		return nil, geometryError("cannot create face of zero area")
	}
	if outer.signedArea(n) < 0 {
		outer = outer.Reversed()
	}
	f := &Face{surface: PlaneSurface, outer: outer, normal: n, origin: origin}
	for _, h := range sorted[1:] {
		if h.signedArea(n) > 0 {
			h = h.Reversed()
		}
		f.holes = append(f.holes, h)
	}
	return f, nil
}

// MakeFaceWithNormal creates a planar face, orienting it towards normal n.
func MakeFaceWithNormal(n geom.Vector, wires ...*Wire) (*Face, error) {
	f, err := MakeFace(wires...)
	if err != nil {
		return nil, err
	}
	if geom.Dot(f.normal, n) < 0 {
		f = f.Reversed()
	}
	return f, nil
}

func (s *Shape) planePoints() []geom.Vector {
	var pts []geom.Vector
	for _, e := range s.Edges() {
		if c, ok := e.Circle(); ok {
			pts = append(pts, e.Start(), e.Mid(), e.End(), geom.Add(c.Center, c.XDir), geom.Add(c.Center, c.YDir()), c.Center)
			continue
		}
		pts = append(pts, e.Polyline()...)
	}
	return pts
}

// MakePlane creates a rectangular face of size length × width in the plane
// through origin with normal n. The rectangle extends along the plane's
// u and v directions.
func MakePlane(length, width float64, origin, n geom.Vector) (*Face, error) {
	if length < geom.Epsilon() || width < geom.Epsilon() {
		return nil, geometryError("plane dimensions must be positive")
	}
	u, v := geom.PlaneBasis(n)
	pts := []geom.Vector{
		origin,
		geom.Add(origin, geom.Scale(length, u)),
		geom.Add(geom.Add(origin, geom.Scale(length, u)), geom.Scale(width, v)),
		geom.Add(origin, geom.Scale(width, v)),
	}
	w, _ := MakePolygon(pts, true)
	return MakeFaceWithNormal(n, w)
}

// MakeShell groups faces to a shell.
func MakeShell(faces []*Face) (*Shape, error) {
	if len(faces) == 0 {
		return nil, geometryError("cannot create shell without faces")
	}
	return &Shape{typ: ShellShape, faces: append([]*Face(nil), faces...)}, nil
}

// MakeSolid creates a solid from a closed shell. Face normals are oriented
// away from the center of the shell, which is exact for convex shells.
func MakeSolid(shell *Shape) (*Shape, error) {
	if shell.Type() == SolidShape {
		return shell.Copy(), nil
	}
	faces := shell.Faces()
	if !shellIsClosed(faces) {
		return nil, geometryError("cannot create solid from open shell")
	}
	center := shell.BoundBox().Center()
	oriented := make([]*Face, len(faces))
	for i, f := range faces {
		c := f.Centroid()
		if geom.Dot(f.Normal(), geom.Sub(c, center)) < 0 {
			f = f.Reversed()
		}
		oriented[i] = f
	}
	return &Shape{typ: SolidShape, faces: oriented}, nil
}

// MakeCompound groups shapes. Null shapes are dropped.
func MakeCompound(shapes ...*Shape) *Shape {
	c := &Shape{typ: CompoundShape}
	for _, s := range shapes {
		if !s.IsNull() {
			c.children = append(c.children, s)
		}
	}
	return c
}

// Extrude sweeps a shape along a vector. Vertices become lines, edges become
// faces, wires become shells and planar faces become prism solids.
func Extrude(s *Shape, dir geom.Vector) (*Shape, error) {
	if geom.IsNull(dir) {
		return nil, geometryError("extrusion vector must not be null")
	}
	switch s.Type() {
	case VertexShape:
		e, err := MakeLine(s.vertex, geom.Add(s.vertex, dir))
		if err != nil {
			return nil, err
		}
		return e.Shape(), nil
	case EdgeShape:
		return lateralFace(s.edge, dir).Shape(), nil
	case WireShape:
		var faces []*Face
		for _, e := range s.wire.edges {
			faces = append(faces, lateralFace(e, dir))
		}
		return MakeShell(faces)
	case FaceShape:
		return extrudeFace(s.face, dir)
	case CompoundShape:
		var parts []*Shape
		for _, c := range s.children {
			x, err := Extrude(c, dir)
			if err != nil {
				return nil, err
			}
			parts = append(parts, x)
		}
		return MakeCompound(parts...), nil
	}
	return nil, geometryError("cannot extrude %s", s.Type())
}

// lateralFace sweeps an edge. Line edges yield planar quadrilaterals, curved
// edges extrusion faces. The normal is tangent × dir.
func lateralFace(e *Edge, dir geom.Vector) *Face {
	top := e.Transformed(geom.Translation(dir).Matrix())
	l1, _ := MakeLine(e.End(), top.End())
	l2, _ := MakeLine(top.Start(), e.Start())
	w := &Wire{edges: []*Edge{e, l1, top.Reversed(), l2}}
	if e.Type() == LineCurve {
		n := geom.Normalize(geom.Cross(e.TangentAt(0), dir))
		return &Face{surface: PlaneSurface, outer: w, normal: n, origin: e.Start()}
	}
	return &Face{surface: ExtrusionSurface, outer: w, profile: e, dir: dir}
}

func extrudeFace(f *Face, dir geom.Vector) (*Shape, error) {
	if !f.IsPlanar() {
		return nil, geometryError("cannot extrude non-planar face")
	}
	h := geom.Dot(dir, f.normal)
	if math.Abs(h) < geom.Epsilon() {
		return nil, geometryError("extrusion vector lies in the face plane")
	}
	base := f
	if h < 0 { // make the extrusion run along the base normal
		base = f.Reversed()
	}
	bottom := base.Reversed()
	top := base.Transformed(geom.Translation(dir).Matrix())
	faces := []*Face{bottom, top}
	for _, w := range base.Wires() {
		for _, e := range w.edges {
			faces = append(faces, lateralFace(e, dir))
		}
	}
	return &Shape{typ: SolidShape, faces: faces, prism: &prism{base: base, dir: dir}}, nil
}
