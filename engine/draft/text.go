package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
)

// Text is a multi-line annotation. Lines are rendered top-down starting at
// the placement base.
type Text struct {
	Text []string
}

// Type is "Text".
func (t *Text) Type() string { return "Text" }

// Properties returns the property table.
func (t *Text) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropStringList, "Text", "Base", "The text displayed by this object, one line per entry", &t.Text),
	}
}

// Execute does nothing, texts have no shape.
func (t *Text) Execute(obj *document.Object) error { return nil }

// LinePositions returns the baseline start of each line for a given font
// size and line spacing factor.
func (t *Text) LinePositions(obj *document.Object, size, spacing float64) []geom.Vector {
	pts := make([]geom.Vector, len(t.Text))
	down := obj.Placement.ApplyDir(geom.Neg(geom.YAxis))
	for i := range pts {
		pts[i] = geom.Add(obj.Placement.Base, geom.Scale(float64(i)*size*spacing, down))
	}
	return pts
}

// MakeText creates a text annotation at point p.
func MakeText(doc *document.Document, lines []string, p geom.Vector, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, core.Error(core.EPRECONDITION, "text needs at least one line")
	}
	c := settings(opts)
	if c.placement == nil {
		pl := geom.Translation(p)
		c.placement = &pl
	}
	return create(doc, document.Annotation, &Text{Text: append([]string{}, lines...)}, c)
}
