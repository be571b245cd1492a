package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
	"seehuhn.de/go/geom/vec"
)

// SVGOptions control SVG output.
type SVGOptions struct {
	Direction geom.Vector // viewing direction, null for the working plane axis
	Scale     float64     // page units per model unit, default 1
	LineScale float64     // factor for line widths, default 1
	Margin    float64     // page margin of SVGDocument
}

func (opts SVGOptions) lineScale() float64 {
	if opts.LineScale <= 0 {
		return 1
	}
	return opts.LineScale
}

// errWriter remembers the first write error. The SVG canvas does not
// report errors itself.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// SVG writes the SVG fragment of an object: a group holding its outline
// and its text. Objects of unknown type write nothing.
func SVG(w io.Writer, obj *document.Object, opts SVGOptions) error {
	if obj == nil {
		return core.Error(core.EPRECONDITION, "no object to export")
	}
	ew := &errWriter{w: w}
	e := &svgExporter{canvas: svg.New(ew), view: svgView(opts.Direction, opts.Scale), opts: opts}
	e.object(obj)
	return ew.err
}

// SVGDocument writes a complete SVG document showing all visible objects.
// The page is sized to the objects' bounds plus a margin.
func SVGDocument(w io.Writer, objs []*document.Object, opts SVGOptions) error {
	var visible []*document.Object
	var bb geom.BoundBox
	for _, obj := range objs {
		if obj == nil || (obj.View != nil && !obj.View.Visibility) {
			continue
		}
		visible = append(visible, obj)
		bb = bb.Union(bounds(obj))
	}
	if !bb.IsValid() {
		return core.Error(core.EPRECONDITION, "nothing to export")
	}
	ew := &errWriter{w: w}
	e := &svgExporter{canvas: svg.New(ew), view: svgView(opts.Direction, opts.Scale), opts: opts}
	width, height := e.view.Fit(bb, opts.Margin)
	e.canvas.Start(int(math.Ceil(width)), int(math.Ceil(height)))
	for _, obj := range visible {
		e.object(obj)
	}
	e.canvas.End()
	tracer().Debugf("exported %d objects to SVG", len(visible))
	return ew.err
}

// bounds returns the world bounding box of an object, including the anchor
// points of annotations.
func bounds(obj *document.Object) geom.BoundBox {
	var bb geom.BoundBox
	if obj.HasShape() {
		bb = obj.Shape.BoundBox()
	}
	switch p := obj.Proxy.(type) {
	case *draft.Text, *draft.Label:
		bb = bb.Add(obj.Placement.Base)
	case *draft.Dimension:
		bb = bb.Add(p.Start).Add(p.End).Add(p.Dimline)
	case *draft.AngularDimension:
		bb = bb.Add(p.Dimline)
	}
	return bb
}

type svgExporter struct {
	canvas *svg.SVG
	view   *View
	opts   SVGOptions
}

// scale returns the length scale of the page matrix.
func (e *svgExporter) scale() float64 {
	m := e.view.Page
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

func (e *svgExporter) object(obj *document.Object) {
	style := styleOf(obj)
	switch p := obj.Proxy.(type) {
	case *draft.Text:
		e.canvas.Gid(obj.Name)
		e.text(p.LinePositions(obj, style.FontSize, 1), p.Text, style)
		e.canvas.Gend()
	case *draft.Label:
		e.canvas.Gid(obj.Name)
		e.leader(p.Points, style)
		e.text(labelLines(obj, p, style.FontSize), p.Text, style)
		e.canvas.Gend()
	case *draft.Dimension:
		e.canvas.Gid(obj.Name)
		e.shape(obj.Shape, style, false)
		if obj.HasShape() && len(obj.Shape.Edges()) > 0 {
			e.text([]geom.Vector{obj.Shape.Edges()[0].Mid()}, []string{p.Text}, style)
		}
		e.canvas.Gend()
	case *draft.AngularDimension:
		e.canvas.Gid(obj.Name)
		e.shape(obj.Shape, style, false)
		e.text([]geom.Vector{p.Dimline}, []string{p.Text}, style)
		e.canvas.Gend()
	case *draft.Point:
		e.canvas.Gid(obj.Name)
		e.dot(p.Position(), style)
		e.canvas.Gend()
	default:
		if !obj.HasShape() {
			tracer().Errorf("no SVG export for %s of type %s", obj.Name, obj.ProxyType())
			return
		}
		e.canvas.Gid(obj.Name)
		e.shape(obj.Shape, style, style.DisplayMode != "Wireframe")
		e.canvas.Gend()
	}
}

// labelLines returns the baseline positions of the lines of a label.
func labelLines(obj *document.Object, l *draft.Label, size float64) []geom.Vector {
	down := obj.Placement.ApplyDir(geom.Neg(geom.YAxis))
	pts := make([]geom.Vector, len(l.Text))
	for i := range pts {
		pts[i] = geom.Add(obj.Placement.Base, geom.Scale(float64(i)*size, down))
	}
	return pts
}

func dashes(drawStyle string, width float64) string {
	var pattern []float64
	switch drawStyle {
	case "Dashed":
		pattern = []float64{0.09, 0.05}
	case "Dashdot":
		pattern = []float64{0.09, 0.05, 0.02, 0.05}
	case "Dotted":
		pattern = []float64{0.02, 0.02}
	default:
		return ""
	}
	s := make([]string, len(pattern))
	for i, p := range pattern {
		s[i] = num(p * 50 * width)
	}
	return ";stroke-dasharray:" + strings.Join(s, ",")
}

func (e *svgExporter) strokeStyle(style *document.ViewObject) string {
	w := style.LineWidth * e.opts.lineScale()
	return fmt.Sprintf("stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round%s",
		SvgColor(style.LineColor), num(w), dashes(style.DrawStyle, w))
}

// shape writes the outline of a shape as paths. With fill set, faces are
// filled with the shape colour.
func (e *svgExporter) shape(s *kernel.Shape, style *document.ViewObject, fill bool) {
	if s.IsNull() {
		return
	}
	stroke := e.strokeStyle(style)
	faces := s.Faces()
	if fill && len(faces) > 0 {
		fillStyle := fmt.Sprintf("fill:%s;fill-opacity:%s;fill-rule:evenodd;",
			SvgColor(style.ShapeColor), num(1-float64(style.Transparency)/100))
		for _, f := range faces {
			var d strings.Builder
			for _, w := range f.Wires() {
				d.WriteString(e.pathData(e.view.ProjectEdges(w.Edges())))
			}
			e.canvas.Path(strings.TrimSpace(d.String()), fillStyle+stroke)
		}
		return
	}
	d := e.pathData(e.view.ProjectEdges(s.Edges()))
	if d != "" {
		e.canvas.Path(strings.TrimSpace(d), "fill:none;"+stroke)
	}
}

func (e *svgExporter) page(p geom.Vector) vec.Vec2 {
	return e.view.PagePoint(vec.Vec2{X: p.X, Y: p.Y})
}

func pt(p vec.Vec2) string {
	return num(p.X) + " " + num(p.Y)
}

// turn is the cross product of the steps a→b and b→c.
func turn(a, b, c vec.Vec2) float64 {
	u, v := b.Sub(a), c.Sub(b)
	return u.X*v.Y - u.Y*v.X
}

// pathData converts projected edges to SVG path data. A new subpath starts
// wherever the edges are not connected; subpaths returning to their start
// are closed.
func (e *svgExporter) pathData(edges []*kernel.Edge) string {
	var d strings.Builder
	var start, cur geom.Vector
	open := false
	for _, edge := range edges {
		if !open || !geom.Coincident(cur, edge.Start()) {
			fmt.Fprintf(&d, "M%s ", pt(e.page(edge.Start())))
			start, open = edge.Start(), true
		}
		e.segment(&d, edge)
		cur = edge.End()
		if geom.Coincident(cur, start) {
			d.WriteString("Z ")
			open = false
		}
	}
	return d.String()
}

// segment appends the path command drawing an edge from its start point.
func (e *svgExporter) segment(d *strings.Builder, edge *kernel.Edge) {
	if _, ok := edge.Line(); ok {
		fmt.Fprintf(d, "L%s ", pt(e.page(edge.End())))
		return
	}
	if c, ok := edge.Circle(); ok && c.IsCircle() {
		r := num(c.Radius * e.scale())
		arc := func(from, via, to geom.Vector, large int) {
			sweep := 0
			if turn(e.page(from), e.page(via), e.page(to)) > 0 {
				sweep = 1
			}
			fmt.Fprintf(d, "A%s %s 0 %d %d %s ", r, r, large, sweep, pt(e.page(to)))
		}
		if edge.IsClosed() {
			// a full circle is drawn as two half arcs
			arc(edge.Start(), edge.PointAt(0.25), edge.PointAt(0.5), 0)
			arc(edge.PointAt(0.5), edge.PointAt(0.75), edge.End(), 0)
			return
		}
		a1, a2 := edge.Angles()
		large := 0
		if a2-a1 > math.Pi {
			large = 1
		}
		arc(edge.Start(), edge.Mid(), edge.End(), large)
		return
	}
	pts := edge.Polyline()
	for _, p := range pts[1:] {
		fmt.Fprintf(d, "L%s ", pt(e.page(p)))
	}
}

// leader draws the polyline of a label.
func (e *svgExporter) leader(pts []geom.Vector, style *document.ViewObject) {
	if len(pts) < 2 {
		return
	}
	var d strings.Builder
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&d, "%s%s ", cmd, pt(e.view.Point(p)))
	}
	e.canvas.Path(strings.TrimSpace(d.String()), "fill:none;"+e.strokeStyle(style))
}

// text writes lines of text, each starting at its own world position.
func (e *svgExporter) text(at []geom.Vector, lines []string, style *document.ViewObject) {
	font := style.FontName
	if font == "" {
		font = "sans-serif"
	}
	st := fmt.Sprintf("font-size:%s;font-family:%s;fill:%s;stroke:none",
		num(style.FontSize*e.scale()), font, SvgColor(style.TextColor))
	for i, line := range lines {
		if i >= len(at) {
			break
		}
		p := e.view.Point(at[i])
		e.canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", num(p.X), num(p.Y)))
		e.canvas.Text(0, 0, line, st)
		e.canvas.Gend()
	}
}

// dot draws a point as a small filled circle.
func (e *svgExporter) dot(p geom.Vector, style *document.ViewObject) {
	c := e.view.Point(p)
	r := style.PointSize / 2 * e.opts.lineScale()
	d := fmt.Sprintf("M%s %s A%s %s 0 1 0 %s %s A%s %s 0 1 0 %s %s Z",
		num(c.X-r), num(c.Y), num(r), num(r), num(c.X+r), num(c.Y),
		num(r), num(r), num(c.X-r), num(c.Y))
	e.canvas.Path(d, "fill:"+SvgColor(style.PointColor)+";stroke:none")
}
