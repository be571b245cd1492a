/*
Package modifiers implements the operations which change existing drafting
objects: moving, rotating, scaling and mirroring, offsets, trimming and
stretching, and the conversions between parametric entities and plain
shapes (upgrade, downgrade, draftify, shapify).

Batch operations collect the objects they create and the objects they
make obsolete in a Result. The result is committed as one transaction:
all additions are recomputed before anything is deleted, and originals are
deleted only if the caller asks for it.

Upgrade and downgrade are ordered rule tables. The first rule whose
condition matches the selection fires; a rule which cannot produce a
result passes on to the next one. A rule may be forced by name.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package modifiers

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'draft.modifiers'.
func tracer() tracing.Trace {
	return tracing.Select("draft.modifiers")
}
