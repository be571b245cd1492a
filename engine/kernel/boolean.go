package kernel

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/draft/core/geom"
)

// planeFrame maps between 3D points on a plane and 2D clipping coordinates.
type planeFrame struct {
	origin, u, v, n geom.Vector
}

func newPlaneFrame(origin, n geom.Vector) planeFrame {
	u, v := geom.PlaneBasis(n)
	return planeFrame{origin: origin, u: u, v: v, n: geom.Normalize(n)}
}

// snap rounds clipping coordinates to suppress float noise on shared edges.
func snap(x float64) float64 {
	const grid = 1e-9
	return math.Round(x/grid) * grid
}

func (pf planeFrame) to2D(p geom.Vector) polyclip.Point {
	d := geom.Sub(p, pf.origin)
	return polyclip.Point{X: snap(geom.Dot(d, pf.u)), Y: snap(geom.Dot(d, pf.v))}
}

func (pf planeFrame) to3D(p polyclip.Point) geom.Vector {
	return geom.Add(pf.origin, geom.Add(geom.Scale(p.X, pf.u), geom.Scale(p.Y, pf.v)))
}

func (pf planeFrame) contains(f *Face) bool {
	if !f.IsPlanar() || !geom.IsParallel(f.normal, pf.n) {
		return false
	}
	return math.Abs(geom.Dot(geom.Sub(f.origin, pf.origin), pf.n)) < geom.Tolerance()
}

func (pf planeFrame) polygon(f *Face) polyclip.Polygon {
	var poly polyclip.Polygon
	for _, w := range f.Wires() {
		var c polyclip.Contour
		for _, p := range w.Polyline() {
			c = append(c, pf.to2D(p))
		}
		poly = append(poly, c)
	}
	return poly
}

func (pf planeFrame) union(faces []*Face) polyclip.Polygon {
	var acc polyclip.Polygon
	for i, f := range faces {
		if i == 0 {
			acc = pf.polygon(f)
			continue
		}
		acc = acc.Construct(polyclip.UNION, pf.polygon(f))
	}
	return acc
}

// faces converts a clipping result back to planar faces. Contours nested
// at odd depth are holes of their innermost enclosing contour.
func (pf planeFrame) faces(poly polyclip.Polygon) []*Face {
	var contours []polyclip.Contour
	for _, c := range poly {
		c = simplifyContour(c)
		if len(c) >= 3 && math.Abs(contourArea(c)) > geom.Epsilon() {
			contours = append(contours, c)
		}
	}
	depth := make([]int, len(contours))
	parent := make([]int, len(contours))
	for i, c := range contours {
		parent[i] = -1
		mid := polyclip.Point{X: (c[0].X + c[1].X) / 2, Y: (c[0].Y + c[1].Y) / 2}
		for j, o := range contours {
			if i == j || !pointInContour(mid, o) {
				continue
			}
			depth[i]++
			if parent[i] < 0 || math.Abs(contourArea(o)) < math.Abs(contourArea(contours[parent[i]])) {
				parent[i] = j
			}
		}
	}
	var faces []*Face
	for i, c := range contours {
		if depth[i]%2 == 1 {
			continue
		}
		wires := []*Wire{pf.wire(c)}
		for j, h := range contours {
			if depth[j]%2 == 1 && parent[j] == i {
				wires = append(wires, pf.wire(h))
			}
		}
		f, err := MakeFaceWithNormal(pf.n, wires...)
		if err != nil {
			tracer().Errorf("dropping clipped contour: %v", err)
			continue
		}
		faces = append(faces, f)
	}
	return faces
}

func (pf planeFrame) wire(c polyclip.Contour) *Wire {
	pts := make([]geom.Vector, len(c))
	for i, p := range c {
		pts[i] = pf.to3D(p)
	}
	w, _ := MakePolygon(pts, true)
	return w
}

// simplifyContour removes duplicate and collinear points.
func simplifyContour(c polyclip.Contour) polyclip.Contour {
	eps := geom.Epsilon()
	changed := true
	for changed && len(c) >= 3 {
		changed = false
		for i := 0; i < len(c); i++ {
			a, b, d := c[(i+len(c)-1)%len(c)], c[i], c[(i+1)%len(c)]
			dx1, dy1 := b.X-a.X, b.Y-a.Y
			dx2, dy2 := d.X-b.X, d.Y-b.Y
			dup := math.Hypot(dx1, dy1) < eps
			cross := dx1*dy2 - dy1*dx2
			l := math.Hypot(dx1, dy1) * math.Hypot(dx2, dy2)
			collinear := l > 0 && math.Abs(cross)/l < eps && dx1*dx2+dy1*dy2 > 0
			if dup || collinear {
				c = append(c[:i:i], c[i+1:]...)
				changed = true
				break
			}
		}
	}
	return c
}

func contourArea(c polyclip.Contour) float64 {
	a := 0.0
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func pointInContour(p polyclip.Point, c polyclip.Contour) bool {
	in := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				in = !in
			}
		}
	}
	return in
}

// booleanFaces combines two sets of coplanar faces.
func booleanFaces(a, b []*Face, op polyclip.Op) ([]*Face, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, geometryError("boolean operation needs faces on both sides")
	}
	if !a[0].IsPlanar() {
		return nil, geometryError("boolean operation needs planar faces")
	}
	pf := newPlaneFrame(a[0].origin, a[0].normal)
	for _, f := range append(append([]*Face(nil), a...), b...) {
		if !pf.contains(f) {
			return nil, geometryError("faces are not coplanar")
		}
	}
	result := pf.union(a).Construct(op, pf.union(b))
	return pf.faces(result), nil
}

type boolOp int

const (
	opFuse boolOp = iota
	opCut
	opCommon
)

func (op boolOp) clip() polyclip.Op {
	switch op {
	case opCut:
		return polyclip.DIFFERENCE
	case opCommon:
		return polyclip.INTERSECTION
	}
	return polyclip.UNION
}

func (op boolOp) String() string {
	return [...]string{"fuse", "cut", "common"}[op]
}

// Fuse unites two shapes.
func Fuse(a, b *Shape) (*Shape, error) {
	return boolean(a, b, opFuse)
}

// Cut subtracts b from a.
func Cut(a, b *Shape) (*Shape, error) {
	return boolean(a, b, opCut)
}

// Common intersects two shapes.
func Common(a, b *Shape) (*Shape, error) {
	return boolean(a, b, opCommon)
}

// MultiFuse unites a list of shapes.
func MultiFuse(shapes []*Shape) (*Shape, error) {
	if len(shapes) == 0 {
		return nil, geometryError("nothing to fuse")
	}
	acc := shapes[0]
	for _, s := range shapes[1:] {
		r, err := Fuse(acc, s)
		if err != nil {
			return nil, err
		}
		acc = r
	}
	return acc, nil
}

func boolean(a, b *Shape, op boolOp) (*Shape, error) {
	if a.IsNull() || b.IsNull() {
		return nil, geometryError("%s of null shape", op)
	}
	sa, sb := a.Solids(), b.Solids()
	if len(sa) > 0 || len(sb) > 0 {
		return booleanPrisms(sa, sb, op)
	}
	fa, fb := a.Faces(), b.Faces()
	if len(fa) == 0 && len(fb) == 0 && op == opFuse {
		return MakeCompound(a.Copy(), b.Copy()), nil
	}
	faces, err := booleanFaces(fa, fb, op.clip())
	if err != nil {
		tracer().Errorf("%s failed: %v", op, err)
		return nil, err
	}
	tracer().Debugf("%s of %d and %d faces yields %d faces", op, len(fa), len(fb), len(faces))
	return facesShape(faces), nil
}

func facesShape(faces []*Face) *Shape {
	if len(faces) == 1 {
		return faces[0].Shape()
	}
	var shapes []*Shape
	for _, f := range faces {
		shapes = append(shapes, f.Shape())
	}
	return MakeCompound(shapes...)
}

// booleanPrisms handles solids extruded from coplanar profiles along the
// same vector.
func booleanPrisms(sa, sb []*Shape, op boolOp) (*Shape, error) {
	if len(sa) == 0 || len(sb) == 0 {
		return nil, geometryError("%s of solid and non-solid", op)
	}
	var dir geom.Vector
	var fa, fb []*Face
	collect := func(solids []*Shape, into *[]*Face) error {
		for _, s := range solids {
			base, d, ok := s.Prism()
			if !ok {
				return geometryError("%s of general solids is not supported", op)
			}
			if geom.IsNull(dir) {
				dir = d
			} else if !geom.Equal(dir, d) {
				return geometryError("%s of prisms with different extrusions", op)
			}
			*into = append(*into, base)
		}
		return nil
	}
	if err := collect(sa, &fa); err != nil {
		return nil, err
	}
	if err := collect(sb, &fb); err != nil {
		return nil, err
	}
	faces, err := booleanFaces(fa, fb, op.clip())
	if err != nil {
		return nil, err
	}
	var solids []*Shape
	for _, f := range faces {
		s, err := extrudeFace(f, dir)
		if err != nil {
			return nil, err
		}
		solids = append(solids, s)
	}
	if len(solids) == 1 {
		return solids[0], nil
	}
	return MakeCompound(solids...), nil
}

// RemoveSplitter merges consecutive collinear line edges.
func (s *Shape) RemoveSplitter() *Shape {
	switch s.Type() {
	case WireShape:
		return mergeCollinear(s.wire).Shape()
	case FaceShape:
		return s.face.removeSplitter().Shape()
	case ShellShape:
		r := &Shape{typ: ShellShape}
		for _, f := range s.faces {
			r.faces = append(r.faces, f.removeSplitter())
		}
		return r
	case SolidShape:
		if s.prism != nil {
			if r, err := extrudeFace(s.prism.base.removeSplitter(), s.prism.dir); err == nil {
				return r
			}
		}
		r := &Shape{typ: SolidShape}
		for _, f := range s.faces {
			r.faces = append(r.faces, f.removeSplitter())
		}
		return r
	case CompoundShape:
		r := &Shape{typ: CompoundShape}
		for _, c := range s.children {
			r.children = append(r.children, c.RemoveSplitter())
		}
		return r
	}
	return s.Copy()
}

func (f *Face) removeSplitter() *Face {
	if !f.IsPlanar() {
		return f.Copy()
	}
	g := &Face{surface: PlaneSurface, outer: mergeCollinear(f.outer), normal: f.normal, origin: f.origin}
	for _, h := range f.holes {
		g.holes = append(g.holes, mergeCollinear(h))
	}
	return g
}

func mergeCollinear(w *Wire) *Wire {
	var out []*Edge
	for _, e := range w.edges {
		if len(out) > 0 && collinearEdges(out[len(out)-1], e) {
			last := out[len(out)-1]
			out[len(out)-1], _ = MakeLine(last.Start(), e.End())
			continue
		}
		out = append(out, e)
	}
	if w.IsClosed() && len(out) > 2 && collinearEdges(out[len(out)-1], out[0]) {
		first, _ := MakeLine(out[len(out)-1].Start(), out[0].End())
		out = append([]*Edge{first}, out[1:len(out)-1]...)
	}
	return &Wire{edges: out}
}

func collinearEdges(a, b *Edge) bool {
	if a.Type() != LineCurve || b.Type() != LineCurve {
		return false
	}
	return geom.Dot(a.TangentAt(0), b.TangentAt(0)) > 0 && geom.IsParallel(a.TangentAt(0), b.TangentAt(0))
}

// SewShape collects the faces of shapes into a shell. If the shell is
// closed, a solid is returned.
func SewShape(shapes ...*Shape) (*Shape, error) {
	var faces []*Face
	for _, s := range shapes {
		faces = append(faces, s.Faces()...)
	}
	shell, err := MakeShell(faces)
	if err != nil {
		return nil, err
	}
	if shell.IsClosed() {
		if solid, err := MakeSolid(shell); err == nil {
			return solid, nil
		}
	}
	return shell, nil
}
