/*
Package parameters is the typed preference store of the drafting workbench.

Every preference key has a fixed kind (int, float, string, bool or unsigned)
and a default value. Values may be overridden from a TOML preference file,
from a schuko configuration, or programmatically. Tools which need
temporary overrides open a group with Begingroup and drop their overrides
with Endgroup.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'draft.params'.
func tracer() tracing.Trace {
	return tracing.Select("draft.params")
}
