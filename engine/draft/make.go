package draft

import (
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/kernel"
	"github.com/npillmayer/draft/engine/workingplane"
)

// Option configures the creation of an entity.
type Option func(*creation)

type creation struct {
	name      string
	placement *geom.Placement
	support   document.LinkSub
	mapMode   bool
	face      *bool
	fillet    float64
	chamfer   float64
	unstyled  bool
	ungrouped bool
}

// WithName sets the name of the new object. It is made unique within the
// document.
func WithName(name string) Option {
	return func(c *creation) { c.name = name }
}

// WithPlacement sets the placement of the new object. Points given to a
// constructor are global and are converted to the local frame of this
// placement.
func WithPlacement(pl geom.Placement) Option {
	return func(c *creation) { c.placement = &pl }
}

// WithSupport attaches the new object to a support. With mapMode set, the
// placement is taken relative to the plane of the support's face.
func WithSupport(link document.LinkSub, mapMode bool) Option {
	return func(c *creation) {
		c.support = link
		c.mapMode = mapMode
	}
}

// WithFace overrides the `fillmode` preference for closed entities.
func WithFace(on bool) Option {
	return func(c *creation) { c.face = &on }
}

// WithFillet rounds the corners of polygonal entities.
func WithFillet(radius float64) Option {
	return func(c *creation) { c.fillet = radius }
}

// WithChamfer cuts the corners of polygonal entities.
func WithChamfer(size float64) Option {
	return func(c *creation) { c.chamfer = size }
}

// Unstyled skips applying the current style.
func Unstyled() Option {
	return func(c *creation) { c.unstyled = true }
}

// Ungrouped keeps the new object out of the active group.
func Ungrouped() Option {
	return func(c *creation) { c.ungrouped = true }
}

func settings(opts []Option) *creation {
	c := &creation{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *creation) makeFace() bool {
	if c.face != nil {
		return *c.face
	}
	return parameters.Global().Bool(parameters.FillMode)
}

func (c *creation) pl() geom.Placement {
	if c.placement != nil {
		return *c.placement
	}
	return geom.IdentityPlacement()
}

// local converts global points into the local frame of the placement.
func (c *creation) local(pts []geom.Vector) []geom.Vector {
	pl := c.pl()
	loc := make([]geom.Vector, len(pts))
	for i, p := range pts {
		loc[i] = pl.ApplyInverse(p)
	}
	return loc
}

// activeDocument returns doc or, if nil, the active document.
func activeDocument(doc *document.Document) (*document.Document, error) {
	if doc == nil {
		doc = document.Active()
	}
	if doc == nil {
		return nil, core.Error(core.EPRECONDITION, "no active document, aborting")
	}
	return doc, nil
}

// create adds an object for a proxy and performs the common creation
// steps in a single transaction.
func create(doc *document.Document, typeID string, proxy document.Proxy, c *creation) (*document.Object, error) {
	doc, err := activeDocument(doc)
	if err != nil {
		return nil, err
	}
	var obj *document.Object
	err = doc.Transact("Create "+proxy.Type(), func() error {
		obj = doc.AddObject(typeID, c.name, proxy)
		obj.Placement = c.pl()
		if c.support.Object != document.NoObject {
			obj.Support = c.support
			if c.mapMode {
				if err := mapToSupport(obj); err != nil {
					return err
				}
			}
		}
		if !c.unstyled {
			FormatObject(obj, nil)
		}
		if !c.ungrouped {
			autogroup(obj)
		}
		return doc.RecomputeObject(obj.Handle())
	})
	if err != nil {
		tracer().Errorf("cannot create %s: %v", proxy.Type(), err)
		return nil, err
	}
	doc.ClearSelection()
	doc.Select(obj.Handle())
	tracer().Debugf("created %s", obj)
	return obj, nil
}

// mapToSupport makes the placement of obj relative to the plane of its
// support face.
func mapToSupport(obj *document.Object) error {
	sup := obj.Document().Get(obj.Support.Object)
	if sup == nil || !sup.HasShape() {
		return core.Error(core.EPRECONDITION, "support of %s has no shape", obj.Name)
	}
	var face *kernel.Face
	for _, sub := range obj.Support.Subs {
		if s, err := SubElement(sup.Shape, sub); err == nil && s.Type() == kernel.FaceShape {
			face = s.Face()
			break
		}
	}
	if face == nil {
		if faces := sup.Shape.Faces(); len(faces) > 0 {
			face = faces[0]
		}
	}
	if face == nil {
		return core.Error(core.EPRECONDITION, "support of %s has no face", obj.Name)
	}
	wp := workingplane.New()
	if err := wp.AlignToFace(face, 0); err != nil {
		return err
	}
	obj.Placement = wp.GetPlacement().Multiply(obj.Placement)
	return nil
}

// autogroup puts a new object into the active group of its document.
func autogroup(obj *document.Object) {
	doc := obj.Document()
	if doc.ActiveGroup == document.NoObject {
		return
	}
	if err := doc.AddToGroup(doc.ActiveGroup, obj.Handle()); err != nil {
		tracer().Infof("cannot add %s to active group: %v", obj.Name, err)
	}
}

// FormatObject applies a style to an object. If origin is given, its view
// properties are copied, otherwise the current preferences are used.
func FormatObject(target, origin *document.Object) {
	if target.View == nil {
		target.View = document.NewViewObject()
	}
	if origin != nil && origin.View != nil {
		document.CopyValues(origin.View.Properties(), target.View.Properties(), "Visibility")
		return
	}
	regs := parameters.Global()
	v := target.View
	v.LineColor = regs.Uint(parameters.Color)
	v.PointColor = v.LineColor
	v.TextColor = v.LineColor
	v.LineWidth = float64(regs.Int(parameters.LineWidth))
	v.FontSize = regs.Float(parameters.TextHeight)
	v.FontName = regs.String(parameters.TextFont)
	v.ArrowSize = regs.Float(parameters.ArrowSize)
	if regs.Bool(parameters.FillMode) {
		v.DisplayMode = "Flat Lines"
	} else {
		v.DisplayMode = "Wireframe"
	}
}

// publish sets the shape of an object from a shape in its local frame.
func publish(obj *document.Object, local *kernel.Shape) {
	if local.IsNull() {
		obj.Shape = nil
		return
	}
	if obj.Placement.IsIdentity() {
		obj.Shape = local
		return
	}
	obj.Shape = local.Transformed(obj.Placement)
}

// linkedShape returns the shape of a linked object or an error if the
// link is broken.
func linkedShape(obj *document.Object, h document.Handle, role string) (*kernel.Shape, error) {
	o := obj.Document().Get(h)
	if o == nil {
		return nil, core.Error(core.EMISSING, "%s of %s is missing", role, obj.Name)
	}
	if !o.HasShape() {
		return nil, core.Error(core.EPRECONDITION, "%s %s of %s has no shape", role, o.Name, obj.Name)
	}
	return o.Shape, nil
}
