/*
Package document implements the host document the drafting objects live in.

A Document is an arena of objects. Objects are addressed by a Handle,
which stays valid as long as the object is part of the document; links
between objects are handles, never pointers. The incoming links of an
object (its InList) are derived by reverse-indexing the outgoing links of
all other objects.

Every object carries a proxy, which implements the behaviour of a concrete
object type. A proxy publishes its user properties as a static table of
property descriptors; the document offers type-checked access to them by
name. Changing a property touches the object, and Recompute re-executes
touched objects and their dependents in dependency order.

Changes to a document may be bracketed by transactions. Aborting a
transaction undoes object additions, removals and property changes.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package document

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'draft.doc'.
func tracer() tracing.Trace {
	return tracing.Select("draft.doc")
}
