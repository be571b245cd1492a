package export

import (
	"fmt"

	"github.com/npillmayer/draft/core/parameters"
)

// SvgColor converts a colour given as 0xRRGGBBAA to "#rrggbb". If the
// preference svgLinesBlack is set, white becomes black, as white lines are
// invisible on paper.
func SvgColor(c uint32) string {
	rgb := c >> 8
	if rgb == 0xffffff && parameters.Global().Bool(parameters.SvgLinesBlack) {
		rgb = 0
	}
	return fmt.Sprintf("#%06x", rgb)
}
