/*
Package draft implements the parametric drafting entities.

Every entity is a document object carrying a proxy of this package. The
proxy holds the design properties of the entity and re-creates its shape
on recompute. Shapes are built in the local frame of the entity and
published in global coordinates, transformed by the object's placement.

Entities are created by Make functions, which take the document (nil
selects the active one), the geometric arguments and a list of options.
Creation runs in a transaction: the object is added, styled with the
current preferences, grouped into the active group of the document,
recomputed and selected. If the first recompute fails, the object is
not created.

Entities

	Wire, Rectangle, Circle, Ellipse, Polygon, BSpline, BezCurve, Point
	Clone, Array, PathArray, PointArray, Block
	Shape2DView, Facebinder
	Dimension, AngularDimension, Label, Text, ShapeString
	WorkingPlaneProxy, Layer

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package draft

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'draft.objects'.
func tracer() tracing.Trace {
	return tracing.Select("draft.objects")
}
