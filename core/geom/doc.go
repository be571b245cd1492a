/*
Package geom provides the 3D basics of the drafting core: vectors,
rotations, placements, affine matrices and bounding boxes.

Vectors are gonum's r3.Vec, rotations are unit quaternions. Numeric
tolerances are not hard-coded but taken from the preference store:
Tolerance() (default 0.05 mm) decides whether two points coincide,
Epsilon() (10^-precision) decides whether two numbers are equal.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package geom

import (
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'draft.geom'.
func tracer() tracing.Trace {
	return tracing.Select("draft.geom")
}

// Tolerance is the linear tolerance for point coincidence.
func Tolerance() float64 {
	return parameters.Global().Tolerance()
}

// Epsilon is the tolerance for numeric near-equality.
func Epsilon() float64 {
	return parameters.Global().Epsilon()
}
