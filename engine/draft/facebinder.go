package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Facebinder collects faces of other objects into one shape.
type Facebinder struct {
	Faces          []document.LinkSub
	Extrusion      float64
	Sew            bool
	RemoveSplitter bool
	Area           float64
}

// Type is "Facebinder".
func (fb *Facebinder) Type() string { return "Facebinder" }

// Properties returns the property table.
func (fb *Facebinder) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLinkSubList, "Faces", "Draft", "Linked faces", &fb.Faces),
		document.P(document.PropDistance, "Extrusion", "Draft", "An optional extrusion value to be applied to all faces", &fb.Extrusion),
		document.P(document.PropBool, "Sew", "Draft", "This specifies if the shapes sew", &fb.Sew),
		document.P(document.PropBool, "RemoveSplitter", "Draft", "Specifies if splitter lines must be removed", &fb.RemoveSplitter),
		document.P(document.PropArea, "Area", "Draft", "The area of the faces of this Facebinder", &fb.Area),
	}
}

// Execute resolves, extrudes and joins the faces.
func (fb *Facebinder) Execute(obj *document.Object) error {
	doc := obj.Document()
	var parts []*kernel.Shape
	area := 0.0
	for _, link := range fb.Faces {
		subs, err := SubShapes(doc, link)
		if err != nil {
			return core.WrapError(err, core.Code(err), "%s: %s", obj.Name, core.UserMessage(err))
		}
		for _, s := range subs {
			for _, f := range s.Faces() {
				area += f.Area()
				if fb.Extrusion != 0 {
					ex, err := kernel.Extrude(f.Shape(), geom.Scale(fb.Extrusion, f.Normal()))
					if err != nil {
						return core.WrapError(err, core.EGEOMETRY, "%s: cannot extrude face", obj.Name)
					}
					parts = append(parts, ex)
				} else {
					parts = append(parts, f.Shape())
				}
			}
		}
	}
	fb.Area = area
	if len(parts) == 0 {
		publish(obj, nil)
		return nil
	}
	shape := joinShapes(parts, true)
	if fb.Sew {
		if sewn, err := kernel.SewShape(shape); err == nil {
			shape = sewn
		} else {
			tracer().Infof("%s: cannot sew faces: %v", obj.Name, err)
		}
	}
	if fb.RemoveSplitter {
		shape = shape.RemoveSplitter()
	}
	publish(obj, shape)
	return nil
}

// MakeFacebinder binds the given faces. Each link names its faces as
// sub-elements.
func MakeFacebinder(doc *document.Document, faces []document.LinkSub, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, core.Error(core.EPRECONDITION, "facebinder needs faces")
	}
	fb := &Facebinder{Faces: append([]document.LinkSub{}, faces...)}
	return create(doc, document.PartFeature, fb, settings(opts))
}
