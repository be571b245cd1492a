/*
Package sketch implements sketch objects holding planar geometry and
constraints.

A sketch carries its geometry in 2D coordinates of its own frame; the
object's placement maps the frame into the world. Constraints are stored
and can be checked against the geometry, but are never solved.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sketch

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'draft.sketch'.
func tracer() tracing.Trace {
	return tracing.Select("draft.sketch")
}
