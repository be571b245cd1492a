package sketch

import (
	"fmt"
	"math"

	"github.com/npillmayer/draft/core/geom"
)

// ConstraintType is the type of a sketch constraint.
type ConstraintType int

// Constraint types
const (
	Coincident ConstraintType = iota
	Horizontal
	Vertical
	Radius
	Equal
	InternalAlignment
)

func (ct ConstraintType) String() string {
	switch ct {
	case Coincident:
		return "Coincident"
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	case Radius:
		return "Radius"
	case Equal:
		return "Equal"
	case InternalAlignment:
		return "InternalAlignment"
	}
	return "<unknown constraint>"
}

// Constraint relates one or two geometries of a sketch. Unary constraints
// have Second set to -1. For internal alignments, First is a point
// geometry pinned to pole Index of the spline Second.
type Constraint struct {
	Type      ConstraintType
	First     int
	FirstPos  PointPos
	Second    int
	SecondPos PointPos
	Value     float64
	Index     int
}

func (c Constraint) String() string {
	if c.Second < 0 {
		return fmt.Sprintf("%s(%d)", c.Type, c.First)
	}
	return fmt.Sprintf("%s(%d:%d, %d:%d)", c.Type, c.First, c.FirstPos, c.Second, c.SecondPos)
}

// NewCoincident makes two points coincide.
func NewCoincident(g1 int, p1 PointPos, g2 int, p2 PointPos) Constraint {
	return Constraint{Type: Coincident, First: g1, FirstPos: p1, Second: g2, SecondPos: p2}
}

// NewHorizontal makes a line horizontal.
func NewHorizontal(g int) Constraint {
	return Constraint{Type: Horizontal, First: g, Second: -1}
}

// NewVertical makes a line vertical.
func NewVertical(g int) Constraint {
	return Constraint{Type: Vertical, First: g, Second: -1}
}

// NewRadius fixes the radius of a circle or arc.
func NewRadius(g int, r float64) Constraint {
	return Constraint{Type: Radius, First: g, Second: -1, Value: r}
}

// NewEqual makes two lines equally long or two circles equally large.
func NewEqual(g1, g2 int) Constraint {
	return Constraint{Type: Equal, First: g1, Second: g2}
}

// NewInternalAlignment pins a point geometry to a pole of a spline.
func NewInternalAlignment(point, spline, index int) Constraint {
	return Constraint{Type: InternalAlignment, First: point, FirstPos: Start, Second: spline, Index: index}
}

func (c Constraint) geometries() []int {
	if c.Second < 0 {
		return []int{c.First}
	}
	return []int{c.First, c.Second}
}

// IsSatisfied checks a constraint against the current geometry, within
// the configured tolerance.
func (s *Sketch) IsSatisfied(c Constraint) bool {
	tol := geom.Tolerance()
	for _, i := range c.geometries() {
		if i < 0 || i >= len(s.Geometry) {
			return false
		}
	}
	g := s.Geometry[c.First]
	switch c.Type {
	case Coincident:
		p, ok1 := g.At(c.FirstPos)
		q, ok2 := s.Geometry[c.Second].At(c.SecondPos)
		return ok1 && ok2 && dist(p, q) < tol
	case Horizontal, Vertical:
		if g.Kind != KindLine {
			return false
		}
		d := g.Points[1].C() - g.Points[0].C()
		if c.Type == Horizontal {
			return math.Abs(imag(d)) < tol
		}
		return math.Abs(real(d)) < tol
	case Radius:
		return (g.Kind == KindCircle || g.Kind == KindArc) && math.Abs(g.Radius-c.Value) < tol
	case Equal:
		h := s.Geometry[c.Second]
		switch {
		case g.Kind == KindLine && h.Kind == KindLine:
			return math.Abs(dist(g.Points[0], g.Points[1])-dist(h.Points[0], h.Points[1])) < tol
		case g.Kind != KindLine && h.Kind != KindLine:
			return math.Abs(g.Radius-h.Radius) < tol
		}
		return false
	case InternalAlignment:
		sp := s.Geometry[c.Second]
		if g.Kind != KindPoint || sp.Kind != KindSpline || c.Index < 0 || c.Index >= len(sp.Points) {
			return false
		}
		return dist(g.Points[0], sp.Points[c.Index]) < tol
	}
	return false
}
