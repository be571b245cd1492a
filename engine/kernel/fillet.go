package kernel

import (
	"math"

	"github.com/npillmayer/draft/core/geom"
)

// FilletPolyline creates the edges of a polyline with rounded corners of a
// given radius. Corners between collinear segments and corners without
// room for the rounding are left sharp.
func FilletPolyline(pts []geom.Vector, closed bool, radius float64) ([]*Edge, error) {
	return roundCorners(pts, closed, radius, false)
}

// ChamferPolyline creates the edges of a polyline with corners cut by a
// straight chamfer edge of the given length.
func ChamferPolyline(pts []geom.Vector, closed bool, size float64) ([]*Edge, error) {
	return roundCorners(pts, closed, size, true)
}

type corner struct {
	sharp  bool
	t1, t2 geom.Vector // tangent points on incoming and outgoing segment
	mid    geom.Vector // mid point of the rounding arc
}

func roundCorners(pts []geom.Vector, closed bool, size float64, chamfer bool) ([]*Edge, error) {
	pts = DedupPoints(pts, closed)
	n := len(pts)
	if n < 2 {
		return nil, geometryError("polyline needs at least 2 distinct points")
	}
	if closed && n < 3 {
		closed = false
	}
	corners := make([]corner, n)
	for i := range pts {
		corners[i] = corner{sharp: true}
		if !closed && (i == 0 || i == n-1) {
			continue
		}
		prev, c, next := pts[(i+n-1)%n], pts[i], pts[(i+1)%n]
		d1, d2 := geom.Sub(prev, c), geom.Sub(next, c)
		l1, l2 := geom.Length(d1), geom.Length(d2)
		d1, d2 = geom.Normalize(d1), geom.Normalize(d2)
		theta := geom.Angle(d1, d2)
		if theta < geom.Epsilon() || math.Pi-theta < geom.Epsilon() {
			continue // collinear or folded back
		}
		var t float64
		if chamfer {
			t = size / (2 * math.Sin(theta/2))
		} else {
			t = size / math.Tan(theta/2)
		}
		limit1, limit2 := l1/2, l2/2
		if !closed && i == 1 {
			limit1 = l1
		}
		if !closed && i == n-2 {
			limit2 = l2
		}
		if t > limit1+geom.Epsilon() || t > limit2+geom.Epsilon() {
			tracer().Infof("corner %d has no room for rounding of %g", i, size)
			continue
		}
		bis := geom.Normalize(geom.Add(d1, d2))
		center := geom.Add(c, geom.Scale(size/math.Sin(theta/2), bis))
		corners[i] = corner{
			t1:  geom.Add(c, geom.Scale(t, d1)),
			t2:  geom.Add(c, geom.Scale(t, d2)),
			mid: geom.Sub(center, geom.Scale(size, bis)),
		}
	}
	var edges []*Edge
	addLine := func(a, b geom.Vector) {
		if e, err := MakeLine(a, b); err == nil {
			edges = append(edges, e)
		}
	}
	exit := func(i int) geom.Vector { // where the path leaves corner i
		if corners[i].sharp {
			return pts[i]
		}
		return corners[i].t2
	}
	entry := func(i int) geom.Vector {
		if corners[i].sharp {
			return pts[i]
		}
		return corners[i].t1
	}
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		j := (i + 1) % n
		addLine(exit(i), entry(j))
		if corners[j].sharp || (!closed && j == n-1) {
			continue
		}
		if chamfer {
			addLine(corners[j].t1, corners[j].t2)
			continue
		}
		arc, err := MakeArc3Points(corners[j].t1, corners[j].mid, corners[j].t2)
		if err != nil {
			return nil, err
		}
		edges = append(edges, arc)
	}
	return edges, nil
}

// DedupPoints removes consecutive points closer than the tolerance. For
// closed polylines a trailing copy of the first point is removed as well.
func DedupPoints(pts []geom.Vector, closed bool) []geom.Vector {
	var out []geom.Vector
	for _, p := range pts {
		if len(out) > 0 && geom.Coincident(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	if closed && len(out) > 1 && geom.Coincident(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}
