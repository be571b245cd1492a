/*
Package workingplane implements the Working Plane, the oriented 2D frame
in 3D space against which all drafting input is resolved.

A plane has an origin, two in-plane unit vectors u and v and a normal
axis = u × v. Tools convert between local (u, v, axis) coordinates and
world coordinates through the plane, snap points to its grid and project
points onto it.

A plane is weak as long as it has been inferred rather than set
explicitly. Tools may silently re-align a weak plane to the current view;
an explicit alignment makes the plane sticky. Tools bracket their work
with Setup and Restore, which push and pop the plane state on a stack.

The process-wide plane is available through Active. Like every other part
of the drafting core it is meant to be used from a single goroutine.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package workingplane

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'draft.wp'.
func tracer() tracing.Trace {
	return tracing.Select("draft.wp")
}
