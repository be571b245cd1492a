/*
Package fontfile locates and caches font files for glyph outlines.

A font is resolved by name or path. Absolute paths (and paths relative to the
working directory) are loaded directly, other names are looked up as system
fonts. If nothing can be found, a registry hands out the Go regular font as a
fallback, together with an error.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontfile

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'draft.fonts'
func tracer() tracing.Trace {
	return tracing.Select("draft.fonts")
}
