package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
)

// Block bundles the shapes of its components into one compound. The
// components are hidden but stay in the document.
type Block struct {
	Components []document.Handle
}

// Type is "Block".
func (b *Block) Type() string { return "Block" }

// Properties returns the property table.
func (b *Block) Properties() []document.Property {
	return []document.Property{
		document.P(document.PropLinkList, "Components", "Draft", "The components of this block", &b.Components),
	}
}

// Execute compounds the component shapes.
func (b *Block) Execute(obj *document.Object) error {
	var shapes []*kernel.Shape
	for _, c := range obj.Document().Resolve(b.Components) {
		if c.HasShape() {
			shapes = append(shapes, c.Shape)
		}
	}
	if len(shapes) == 0 {
		publish(obj, nil)
		return nil
	}
	publish(obj, kernel.MakeCompound(shapes...))
	return nil
}

// MakeBlock creates a block from objects and hides them.
func MakeBlock(doc *document.Document, objs []document.Handle, opts ...Option) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	if len(doc.Resolve(objs)) == 0 {
		return nil, core.Error(core.EPRECONDITION, "block needs at least one component")
	}
	obj, err := create(doc, document.Part2DObject, &Block{Components: append([]document.Handle{}, objs...)}, settings(opts))
	if err != nil {
		return nil, err
	}
	for _, c := range doc.Resolve(objs) {
		if c.View != nil {
			c.View.Visibility = false
		}
	}
	return obj, nil
}
