package export

import (
	"math"
	"strconv"

	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/draft/engine/workingplane"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// View maps world coordinates to the 2D coordinates of a drawing. World
// points are projected along Direction onto the view plane and then
// transformed by the page matrix.
type View struct {
	Direction geom.Vector // points towards the viewer
	Page      matrix.Matrix
	proj      geom.Matrix
}

// NewView creates a view looking against dir. A null direction is taken
// from the active working plane. The page matrix is the identity.
func NewView(dir geom.Vector) *View {
	if geom.IsNull(dir) {
		dir = workingplane.Active().GetNormal()
	}
	dir = geom.Normalize(dir)
	return &View{
		Direction: dir,
		Page:      matrix.Identity,
		proj:      kernel.ViewMatrix(dir),
	}
}

// svgView creates a view for SVG output: Y grows downwards and the drawing
// is scaled by s.
func svgView(dir geom.Vector, s float64) *View {
	v := NewView(dir)
	if s <= 0 {
		s = 1
	}
	v.Page = matrix.Matrix{s, 0, 0, -s, 0, 0}
	return v
}

// Project returns the view plane coordinates of a world point, before the
// page matrix is applied.
func (v *View) Project(p geom.Vector) vec.Vec2 {
	q := v.proj.Apply(p)
	return vec.Vec2{X: q.X, Y: q.Y}
}

// Point returns the page coordinates of a world point.
func (v *View) Point(p geom.Vector) vec.Vec2 {
	return v.PagePoint(v.Project(p))
}

// PagePoint applies the page matrix to a point of the view plane.
func (v *View) PagePoint(q vec.Vec2) vec.Vec2 {
	x, y := v.Page.Apply(q.X, q.Y)
	return vec.Vec2{X: x, Y: y}
}

// ProjectEdges projects edges onto the view plane. The result lies in the
// XY plane, in view plane coordinates.
func (v *View) ProjectEdges(edges []*kernel.Edge) []*kernel.Edge {
	var proj []*kernel.Edge
	for _, e := range edges {
		proj = append(proj, kernel.ProjectEdge(e, v.Direction)...)
	}
	return proj
}

// Fit shifts the page matrix so that a bounding box of world points lands
// inside a page with the given margin. It returns the page size.
func (v *View) Fit(bb geom.BoundBox, margin float64) (w, h float64) {
	corners := []geom.Vector{
		bb.Min, bb.Max,
		geom.V(bb.Min.X, bb.Min.Y, bb.Max.Z), geom.V(bb.Min.X, bb.Max.Y, bb.Min.Z),
		geom.V(bb.Max.X, bb.Min.Y, bb.Min.Z), geom.V(bb.Max.X, bb.Max.Y, bb.Min.Z),
		geom.V(bb.Max.X, bb.Min.Y, bb.Max.Z), geom.V(bb.Min.X, bb.Max.Y, bb.Max.Z),
	}
	lo := vec.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi := vec.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, c := range corners {
		p := v.Point(c)
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	v.Page = v.Page.Mul(matrix.Translate(margin-lo.X, margin-lo.Y))
	return hi.X - lo.X + 2*margin, hi.Y - lo.Y + 2*margin
}

// num formats a coordinate with the precision of the parameter store.
func num(x float64) string {
	prec := parameters.Global().Int(parameters.Precision)
	f := math.Pow(10, float64(prec))
	x = math.Round(x*f) / f
	if x == 0 {
		x = 0 // no negative zero
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
