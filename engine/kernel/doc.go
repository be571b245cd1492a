/*
Package kernel is a small boundary-representation kernel for planar drafting.

Shapes are built from edges (lines, circles and ellipses, interpolating
B-splines and multi-segment Bézier curves), which are chained to wires.
Closed planar wires bound faces, faces are grouped to shells and solids.
Solids are restricted to what drafting needs: prisms, i.e. planar profiles
extruded along a vector, and closed shells of faces.

Booleans are supported for coplanar faces and for prisms sharing their base
plane and extrusion vector. Both reduce to polygon clipping in the plane of
the profile. Every other combination is reported as a geometry error,
callers are expected to fall back to compounds.

All coordinates are global; there is no placement attached to a shape.
Entities which carry a placement transform their local shape with
Transformed before publishing it.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package kernel

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

// tracer traces with key 'draft.kernel'.
func tracer() tracing.Trace {
	return tracing.Select("draft.kernel")
}

// ErrGeometry is the root cause of all kernel failures.
var ErrGeometry = errors.New("geometry kernel operation failed")

func geometryError(format string, args ...interface{}) error {
	return core.WrapError(errors.Wrapf(ErrGeometry, format, args...), core.EGEOMETRY, format, args...)
}
