package draft

import (
	"golang.org/x/text/unicode/norm"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/fontfile"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// ShapeString is a text rendered as glyph outlines.
type ShapeString struct {
	String   string
	FontFile string
	Size     float64
	Tracking float64
	MakeFace bool
}

// Type is "ShapeString".
func (ss *ShapeString) Type() string { return "ShapeString" }

// Properties returns the property table.
func (ss *ShapeString) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropString, "String", "Draft", "Text string", &ss.String),
		document.P(document.PropFont, "FontFile", "Draft", "Font file name", &ss.FontFile),
		document.P(document.PropLength, "Size", "Draft", "Height of text", &ss.Size),
		document.P(document.PropLength, "Tracking", "Draft", "Inter-character spacing", &ss.Tracking),
		document.P(document.PropBool, "MakeFace", "Draft", "Fill letters with faces", &ss.MakeFace),
	}
}

// Execute renders the string. A font which cannot be loaded is replaced
// by the fallback font.
func (ss *ShapeString) Execute(obj *document.Object) error {
	text := norm.NFC.String(ss.String)
	if text == "" {
		publish(obj, nil)
		return nil
	}
	font, err := fontfile.GlobalRegistry().Font(ss.FontFile)
	if err != nil {
		tracer().Infof("%s: font %q not available, using fallback: %v", obj.Name, ss.FontFile, err)
	}
	chars, err := kernel.MakeWireString(text, font, ss.Size, ss.Tracking)
	if err != nil {
		return core.WrapError(err, core.Code(err), "%s: cannot render text", obj.Name)
	}
	var parts []*kernel.Shape
	for _, wires := range chars {
		if len(wires) == 0 {
			continue
		}
		if ss.MakeFace {
			faces, err := kernel.GlyphFaces(wires)
			if err == nil {
				for _, f := range faces {
					parts = append(parts, f.Shape())
				}
				continue
			}
			tracer().Infof("%s: glyph outlines do not form faces: %v", obj.Name, err)
		}
		for _, w := range wires {
			parts = append(parts, w.Shape())
		}
	}
	if len(parts) == 0 {
		publish(obj, nil)
		return nil
	}
	publish(obj, kernel.MakeCompound(parts...))
	return nil
}

// MakeShapeString creates a text outline. An empty font file name uses the
// preferred font.
func MakeShapeString(doc *document.Document, text, fontFile string, size, tracking float64, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, core.Error(core.EPRECONDITION, "text size must be positive, is %g", size)
	}
	if fontFile == "" {
		fontFile = parameters.Global().String(parameters.FontFile)
	}
	c := settings(opts)
	ss := &ShapeString{String: text, FontFile: fontFile, Size: size, Tracking: tracking, MakeFace: c.makeFace()}
	return create(doc, document.Part2DObject, ss, c)
}
