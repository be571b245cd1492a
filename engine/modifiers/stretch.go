package modifiers

import (
	"math"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/sketch"
	"github.com/npillmayer/draft/engine/workingplane"
)

// Region is an axis-aligned rectangle in the coordinates of a working
// plane.
type Region struct {
	Min, Max arithm.Pair
	Plane    *workingplane.Plane
}

// NewRegion creates the region spanned by two corners on a working plane.
// A nil plane is taken to be the active working plane.
func NewRegion(a, b arithm.Pair, wp *workingplane.Plane) Region {
	if wp == nil {
		wp = workingplane.Active()
	}
	ca, cb := a.C(), b.C()
	lo := arithm.P(math.Min(real(ca), real(cb)), math.Min(imag(ca), imag(cb)))
	hi := arithm.P(math.Max(real(ca), real(cb)), math.Max(imag(ca), imag(cb)))
	return Region{Min: lo, Max: hi, Plane: wp}
}

// Contains is true if the projection of p onto the plane lies within the
// region.
func (rg Region) Contains(p geom.Vector) bool {
	c := rg.Plane.Project2D(p).C()
	lo, hi := rg.Min.C(), rg.Max.C()
	tol := geom.Tolerance()
	return real(c) >= real(lo)-tol && real(c) <= real(hi)+tol &&
		imag(c) >= imag(lo)-tol && imag(c) <= imag(hi)+tol
}

// Stretch moves all points of objects which lie inside a region by disp.
// Points outside stay where they are.
//
// Point based entities move their points; sketches move their vertices.
// A rectangle with one side inside changes its dimensions if the
// displacement is perpendicular to that side, and is converted into a
// closed wire otherwise. Other objects are moved as a whole if their base
// point lies inside the region.
func Stretch(objs []*document.Object, rg Region, disp geom.Vector) (*Result, error) {
	doc, err := documentOf(objs)
	if err != nil {
		return nil, err
	}
	if rg.Plane == nil {
		rg.Plane = workingplane.Active()
	}
	return run(doc, "Stretch", true, func(r *Result) error {
		for _, obj := range selection(objs) {
			if err := stretchObject(r, obj, rg, disp); err != nil {
				return err
			}
		}
		return nil
	})
}

func stretchObject(r *Result, obj *document.Object, rg Region, disp geom.Vector) error {
	if props, ok := annotationPoints[obj.ProxyType()]; ok {
		for _, name := range props {
			v, _ := obj.GetProperty(name)
			if p := v.(geom.Vector); rg.Contains(p) {
				if err := obj.SetProperty(name, geom.Add(p, disp)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	switch p := obj.Proxy.(type) {
	case *draft.Rectangle:
		return stretchRectangle(r, obj, p, rg, disp)
	case draft.PointList:
		pts := append([]geom.Vector(nil), *p.PointsRef()...)
		moved := false
		for i, q := range globalPoints(obj, pts) {
			if rg.Contains(q) {
				pts[i] = obj.Placement.ApplyInverse(geom.Add(q, disp))
				moved = true
			}
		}
		if !moved {
			return nil
		}
		return obj.SetProperty("Points", pts)
	case *sketch.Sketch:
		moved := false
		for _, v := range p.Vertices() {
			g := sketch.Global(obj, v.At)
			if !rg.Contains(g) {
				continue
			}
			if err := p.MovePoint(v.Geo, v.Pos, sketch.Local(obj, geom.Add(g, disp))); err != nil {
				tracer().Infof("%s: cannot move vertex %d of geometry %d: %v", obj.Name, v.Pos, v.Geo, err)
				continue
			}
			moved = true
		}
		if moved {
			obj.Touch()
		}
		return nil
	}
	if rg.Contains(obj.Placement.Base) {
		return moveObject(obj, disp)
	}
	return nil
}

// stretchRectangle handles the corners of a rectangle inside a region.
func stretchRectangle(r *Result, obj *document.Object, rect *draft.Rectangle, rg Region, disp geom.Vector) error {
	corners := globalPoints(obj, rect.Corners())
	var in []int
	for i, c := range corners {
		if rg.Contains(c) {
			in = append(in, i)
		}
	}
	switch len(in) {
	case 0:
		return nil
	case 4:
		return moveObject(obj, disp)
	case 2:
		d := obj.Placement.Inverse().ApplyDir(disp)
		side := in[0]*10 + in[1]
		zero := func(x float64) bool { return math.Abs(x) < geom.Epsilon() }
		switch {
		case side == 12 && zero(d.Y) && zero(d.Z):
			return obj.SetProperty("Length", rect.Length+d.X)
		case side == 23 && zero(d.X) && zero(d.Z):
			return obj.SetProperty("Height", rect.Height+d.Y)
		case side == 3 && zero(d.Y) && zero(d.Z): // corners 0 and 3
			if err := moveObject(obj, disp); err != nil {
				return err
			}
			return obj.SetProperty("Length", rect.Length-d.X)
		case side == 1 && zero(d.X) && zero(d.Z): // corners 0 and 1
			if err := moveObject(obj, disp); err != nil {
				return err
			}
			return obj.SetProperty("Height", rect.Height-d.Y)
		}
	}
	// no dimension change fits: turn the rectangle into a wire
	for _, i := range in {
		corners[i] = geom.Add(corners[i], disp)
	}
	w, err := draft.MakeWire(obj.Document(), corners, true,
		draft.WithPlacement(obj.Placement), draft.WithFace(rect.MakeFace))
	if err != nil {
		return core.WrapError(err, core.EGEOMETRY, "cannot convert %s to a wire", obj.Name)
	}
	inherit(w, obj)
	r.add(w)
	r.remove(obj)
	return nil
}
