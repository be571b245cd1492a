/*
Package export turns drafting objects into vector text fragments: SVG
elements and DXF entities.

Shapes are projected along a viewing direction onto the plane of the
drawing. For SVG the projected coordinates go through a 2D page matrix,
which flips the Y axis and optionally scales and shifts the drawing onto
the page. DXF keeps the projected model coordinates.

Annotations (texts, labels, dimensions) are exported as text elements;
DXF dimensions become DIMENSION entities on layer 0 using style
"Standard". Objects of unknown type produce a warning and no output.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package export

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'draft.export'.
func tracer() tracing.Trace {
	return tracing.Select("draft.export")
}
