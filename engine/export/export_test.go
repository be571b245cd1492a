package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

func TestViewFit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	v := svgView(geom.ZAxis, 2)
	bb := geom.BoundBox{}.Add(geom.V(0, 0, 0)).Add(geom.V(4, 3, 0))
	w, h := v.Fit(bb, 1)
	assert.InDelta(t, 10, w, 1e-9)
	assert.InDelta(t, 8, h, 1e-9)
	got := []vec.Vec2{v.Point(geom.V(0, 0, 0)), v.Point(geom.V(4, 3, 0))}
	want := []vec.Vec2{{X: 1, Y: 7}, {X: 9, Y: 1}}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("page points differ (-want +got):\n%s", diff)
	}
	//
	side := NewView(geom.XAxis)
	p := side.Project(geom.V(5, 1, 2))
	assert.InDelta(t, 1, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)
}

func TestSvgColor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	assert.Equal(t, "#ff0000", SvgColor(0xff0000ff))
	assert.Equal(t, "#000000", SvgColor(0xffffffff))
	regs := parameters.Global()
	regs.Begingroup()
	require.NoError(t, regs.Set(parameters.SvgLinesBlack, false))
	assert.Equal(t, "#ffffff", SvgColor(0xffffffff))
	regs.Endgroup()
}

func svgOf(t *testing.T, obj *document.Object) string {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, obj, SVGOptions{Direction: geom.ZAxis}))
	return buf.String()
}

func dxfOf(t *testing.T, obj *document.Object) string {
	var buf bytes.Buffer
	require.NoError(t, DXF(&buf, obj, geom.ZAxis))
	return buf.String()
}

func TestSVGLineAndCircle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	l, err := draft.MakeLine(doc, geom.V(0, 0, 0), geom.V(10, 0, 0))
	require.NoError(t, err)
	out := svgOf(t, l)
	assert.Contains(t, out, `d="M0 0 L10 0"`)
	assert.Contains(t, out, "fill:none;")
	//
	c, err := draft.MakeCircle(doc, 5, 0, 0)
	require.NoError(t, err)
	out = svgOf(t, c)
	assert.Contains(t, out, "A5 5")
	assert.Contains(t, out, "Z")
}

func TestSVGText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	txt, err := draft.MakeText(doc, []string{"Hello"}, geom.V(1, 2, 0))
	require.NoError(t, err)
	out := svgOf(t, txt)
	assert.Contains(t, out, ">Hello<")
	assert.Contains(t, out, "translate(1,-2)")
}

func TestSVGDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	r, err := draft.MakeRectangle(doc, 4, 3)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, SVGDocument(&buf, []*document.Object{r}, SVGOptions{Margin: 1}))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
	assert.Contains(t, out, "fill-rule:evenodd")
	//
	buf.Reset()
	err = SVGDocument(&buf, nil, SVGOptions{})
	assert.Equal(t, core.EPRECONDITION, core.Code(err))
}

func TestDXFLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	l, err := draft.MakeLine(doc, geom.V(0, 0, 0), geom.V(10, 0, 0))
	require.NoError(t, err)
	out := dxfOf(t, l)
	assert.Contains(t, out, "  0\nLINE\n")
	assert.Contains(t, out, " 10\n0\n 20\n0\n 30\n0\n 11\n10\n")
}

func TestDXFCircleAndArc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	c, err := draft.MakeCircle(doc, 5, 0, 0)
	require.NoError(t, err)
	out := dxfOf(t, c)
	assert.Contains(t, out, "CIRCLE")
	assert.Contains(t, out, " 40\n5\n")
	//
	a, err := draft.MakeCircle(doc, 5, 0, 90)
	require.NoError(t, err)
	out = dxfOf(t, a)
	assert.Contains(t, out, "ARC")
	assert.Contains(t, out, " 50\n0\n")
	assert.Contains(t, out, " 51\n90\n")
}

func TestDXFRectangle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	r, err := draft.MakeRectangle(doc, 4, 3)
	require.NoError(t, err)
	out := dxfOf(t, r)
	assert.Contains(t, out, "LWPOLYLINE")
	assert.Contains(t, out, " 90\n4\n")
	assert.Contains(t, out, " 70\n1\n")
	assert.NotContains(t, out, "\nLINE\n")
}

func TestDXFAnnotations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	dim, err := draft.MakeDimension(doc, geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(5, 2, 0))
	require.NoError(t, err)
	out := dxfOf(t, dim)
	assert.Contains(t, out, "DIMENSION")
	assert.Contains(t, out, "  8\n0\n")
	assert.Contains(t, out, "  3\nStandard\n")
	assert.Contains(t, out, " 70\n1\n")
	//
	txt, err := draft.MakeText(doc, []string{"one", "two"}, geom.V(0, 0, 0))
	require.NoError(t, err)
	out = dxfOf(t, txt)
	assert.Equal(t, 2, strings.Count(out, "\nTEXT\n"))
	assert.Contains(t, out, "  1\ntwo\n")
}

func TestUnknownObjectWritesNothing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	g := doc.AddGroup("Group")
	assert.Empty(t, dxfOf(t, g))
	assert.Empty(t, svgOf(t, g))
	//
	err := DXF(&bytes.Buffer{}, nil, geom.ZAxis)
	assert.Equal(t, core.EPRECONDITION, core.Code(err))
}

func TestDXFDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.export")
	defer teardown()
	//
	doc := document.New("test")
	l, err := draft.MakeLine(doc, geom.V(0, 0, 0), geom.V(1, 1, 0))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, DXFDocument(&buf, []*document.Object{l}, geom.ZAxis))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "  0\nSECTION\n  2\nENTITIES\n"))
	assert.True(t, strings.HasSuffix(out, "  0\nENDSEC\n  0\nEOF\n"))
}
