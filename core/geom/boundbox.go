package geom

import (
	"fmt"
	"math"
)

// BoundBox is an axis-aligned bounding box. The zero value is an empty
// (invalid) box.
type BoundBox struct {
	Min, Max Vector
	valid    bool
}

// NewBoundBox creates a box enclosing a set of points.
func NewBoundBox(pts ...Vector) BoundBox {
	var bb BoundBox
	for _, p := range pts {
		bb = bb.Add(p)
	}
	return bb
}

// IsValid is false for an empty box.
func (bb BoundBox) IsValid() bool {
	return bb.valid
}

// Add returns the box enlarged to contain p.
func (bb BoundBox) Add(p Vector) BoundBox {
	if !bb.valid {
		return BoundBox{Min: p, Max: p, valid: true}
	}
	bb.Min = Vector{X: math.Min(bb.Min.X, p.X), Y: math.Min(bb.Min.Y, p.Y), Z: math.Min(bb.Min.Z, p.Z)}
	bb.Max = Vector{X: math.Max(bb.Max.X, p.X), Y: math.Max(bb.Max.Y, p.Y), Z: math.Max(bb.Max.Z, p.Z)}
	return bb
}

// Union returns the smallest box containing both boxes.
func (bb BoundBox) Union(o BoundBox) BoundBox {
	if !o.valid {
		return bb
	}
	return bb.Add(o.Min).Add(o.Max)
}

// Center returns the center of the box.
func (bb BoundBox) Center() Vector {
	return Mid(bb.Min, bb.Max)
}

// Size returns the extents along X, Y and Z.
func (bb BoundBox) Size() Vector {
	return Sub(bb.Max, bb.Min)
}

// DiagonalLength returns the length of the box diagonal.
func (bb BoundBox) DiagonalLength() float64 {
	if !bb.valid {
		return 0
	}
	return Dist(bb.Min, bb.Max)
}

// Contains checks if p lies inside the box, enlarged by tol.
func (bb BoundBox) Contains(p Vector, tol float64) bool {
	return bb.valid &&
		p.X >= bb.Min.X-tol && p.X <= bb.Max.X+tol &&
		p.Y >= bb.Min.Y-tol && p.Y <= bb.Max.Y+tol &&
		p.Z >= bb.Min.Z-tol && p.Z <= bb.Max.Z+tol
}

// Equal compares two boxes within tol.
func (bb BoundBox) Equal(o BoundBox, tol float64) bool {
	if bb.valid != o.valid {
		return false
	}
	return Dist(bb.Min, o.Min) < tol && Dist(bb.Max, o.Max) < tol
}

func (bb BoundBox) String() string {
	if !bb.valid {
		return "BoundBox[empty]"
	}
	return fmt.Sprintf("BoundBox[%s – %s]", VString(bb.Min), VString(bb.Max))
}
