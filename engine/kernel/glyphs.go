package kernel

import (
	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// MakeWireString converts a text into glyph outlines in the XY plane,
// starting at the origin with the baseline on the X axis. size is the em
// size of the font in drawing units, tracking is additional space
// inserted after every character. The result holds one list of closed
// wires per character; white space yields empty lists.
func MakeWireString(text string, f *sfnt.Font, size, tracking float64) ([][]*Wire, error) {
	if f == nil {
		return nil, core.Error(core.EPRECONDITION, "no font to render %q", text)
	}
	if size <= 0 {
		return nil, geometryError("text size must be positive, is %g", size)
	}
	var buf sfnt.Buffer
	// load outlines in font units, scale them ourselves
	upem := fixed.I(int(f.UnitsPerEm()))
	scale := size / float64(f.UnitsPerEm())
	var chars [][]*Wire
	var prev sfnt.GlyphIndex
	x := 0.0
	for i, r := range text {
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil || gid == 0 {
			tracer().Infof("no glyph for %q, using .notdef", r)
		}
		if i > 0 {
			if k, err := f.Kern(&buf, prev, gid, upem, font.HintingNone); err == nil {
				x += fixed26(k) * scale
			}
		}
		segs, err := f.LoadGlyph(&buf, gid, upem, nil)
		if err != nil {
			return nil, core.WrapError(err, core.EGEOMETRY, "cannot load glyph for %q", r)
		}
		wires, err := glyphWires(segs, x, scale)
		if err != nil {
			return nil, err
		}
		chars = append(chars, wires)
		adv, err := f.GlyphAdvance(&buf, gid, upem, font.HintingNone)
		if err != nil {
			return nil, core.WrapError(err, core.EGEOMETRY, "cannot get advance for %q", r)
		}
		x += fixed26(adv)*scale + tracking
		prev = gid
	}
	tracer().Debugf("wire string %q: %d characters, width %.3f", text, len(chars), x)
	return chars, nil
}

func fixed26(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// glyphWires converts glyph segments into closed wires. Glyph coordinates
// have y pointing downwards.
func glyphWires(segs sfnt.Segments, x, scale float64) ([]*Wire, error) {
	pt := func(p fixed.Point26_6) geom.Vector {
		return geom.V(x+fixed26(p.X)*scale, -fixed26(p.Y)*scale, 0)
	}
	var wires []*Wire
	var edges []*Edge
	var start, cur geom.Vector
	closeContour := func() error {
		if len(edges) == 0 {
			return nil
		}
		if !geom.Coincident(cur, start) {
			if l, err := MakeLine(cur, start); err == nil {
				edges = append(edges, l)
			}
		}
		w, err := MakeWire(edges)
		edges = nil
		if err != nil {
			return err
		}
		if w.IsClosed() {
			wires = append(wires, w)
		}
		return nil
	}
	for _, s := range segs {
		var e *Edge
		var err error
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if err := closeContour(); err != nil {
				return nil, err
			}
			start, cur = pt(s.Args[0]), pt(s.Args[0])
			continue
		case sfnt.SegmentOpLineTo:
			p := pt(s.Args[0])
			e, err = MakeLine(cur, p)
			cur = p
		case sfnt.SegmentOpQuadTo:
			p := pt(s.Args[1])
			e, err = MakeBezier([]geom.Vector{cur, pt(s.Args[0]), p}, 2)
			cur = p
		case sfnt.SegmentOpCubeTo:
			p := pt(s.Args[2])
			e, err = MakeBezier([]geom.Vector{cur, pt(s.Args[0]), pt(s.Args[1]), p}, 3)
			cur = p
		}
		if err != nil {
			continue // zero length segment
		}
		edges = append(edges, e)
	}
	if err := closeContour(); err != nil {
		return nil, err
	}
	return wires, nil
}

// GlyphFaces builds faces from the outline wires of one character. Wires
// nested an even number of times are outer boundaries, the others are
// holes of the innermost outer boundary around them.
func GlyphFaces(wires []*Wire) ([]*Face, error) {
	pf := newPlaneFrame(geom.V(0, 0, 0), geom.ZAxis)
	contours := make([]polyclip.Contour, len(wires))
	for i, w := range wires {
		for _, p := range w.Polyline() {
			contours[i] = append(contours[i], pf.to2D(p))
		}
	}
	depth := make([]int, len(wires))
	parent := make([]int, len(wires))
	for i := range wires {
		parent[i] = -1
		for j := range wires {
			if i == j || !pointInContour(contours[i][0], contours[j]) {
				continue
			}
			depth[i]++
			if parent[i] < 0 || absArea(contours[j]) < absArea(contours[parent[i]]) {
				parent[i] = j
			}
		}
	}
	var faces []*Face
	for i, w := range wires {
		if depth[i]%2 != 0 {
			continue
		}
		group := []*Wire{w}
		for j, h := range wires {
			if depth[j]%2 != 0 && parent[j] == i {
				group = append(group, h)
			}
		}
		f, err := MakeFaceWithNormal(geom.ZAxis, group...)
		if err != nil {
			return nil, err
		}
		faces = append(faces, f)
	}
	return faces, nil
}

func absArea(c polyclip.Contour) float64 {
	a := contourArea(c)
	if a < 0 {
		return -a
	}
	return a
}
