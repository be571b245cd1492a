package modifiers

import (
	"fmt"
	"reflect"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/kernel"
)

// Result lists the objects created by an operation and the objects it
// made obsolete. Messages tell the user what has been done.
type Result struct {
	Added    []document.Handle
	Deleted  []document.Handle
	Messages []string
}

// note records a message for the user.
func (r *Result) note(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	tracer().Infof("%s", msg)
	r.Messages = append(r.Messages, msg)
}

func (r *Result) add(objs ...*document.Object) {
	for _, obj := range objs {
		if obj != nil {
			r.Added = append(r.Added, obj.Handle())
		}
	}
}

func (r *Result) remove(objs ...*document.Object) {
	for _, obj := range objs {
		if obj != nil {
			r.Deleted = append(r.Deleted, obj.Handle())
		}
	}
}

// IsEmpty is true if the operation neither added nor obsoleted anything.
func (r *Result) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Deleted) == 0
}

// Objects returns the added objects which are still part of doc.
func (r *Result) Objects(doc *document.Document) []*document.Object {
	return doc.Resolve(r.Added)
}

// Commit publishes the result as one transaction. Additions are recomputed
// first; obsolete objects are removed only if del is set.
func (r *Result) Commit(doc *document.Document, name string, del bool) error {
	return doc.Commit(name, r.Added, r.Deleted, del)
}

// run executes an operation and commits its result, all within a single
// transaction. If the operation fails, the document is left unchanged.
func run(doc *document.Document, name string, del bool, op func(r *Result) error) (*Result, error) {
	r := &Result{}
	err := doc.Transact(name, func() error {
		if err := op(r); err != nil {
			return err
		}
		return r.Commit(doc, name, del)
	})
	if err != nil {
		tracer().Errorf("%s: %v", name, err)
		return nil, err
	}
	tracer().Debugf("%s: %d objects added, %d obsolete", name, len(r.Added), len(r.Deleted))
	return r, nil
}

// documentOf returns the common document of a selection.
func documentOf(objs []*document.Object) (*document.Document, error) {
	if len(objs) == 0 {
		return nil, core.Error(core.EPRECONDITION, "no objects selected")
	}
	var doc *document.Document
	for _, obj := range objs {
		if obj == nil || obj.Document() == nil {
			return nil, core.Error(core.EPRECONDITION, "object is not part of a document")
		}
		if doc != nil && obj.Document() != doc {
			return nil, core.Error(core.EPRECONDITION, "objects belong to different documents")
		}
		doc = obj.Document()
	}
	return doc, nil
}

// FilterObjectsForModifiers drops objects whose placement cannot be
// changed. An object with a read-only placement is replaced by its base
// object, if it has one with an editable placement.
func FilterObjectsForModifiers(objs []*document.Object) []*document.Object {
	var result []*document.Object
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		if obj.GetEditorMode("Placement")&document.ReadOnly == 0 {
			result = append(result, obj)
			continue
		}
		if base := baseObject(obj); base != nil && base.GetEditorMode("Placement")&document.ReadOnly == 0 {
			tracer().Infof("%s has a read-only placement, using its base %s", obj.Name, base.Name)
			result = append(result, base)
			continue
		}
		tracer().Errorf("%s has a read-only placement, skipped", obj.Name)
	}
	return result
}

// baseObject follows the Base link of an object.
func baseObject(obj *document.Object) *document.Object {
	v, err := obj.GetProperty("Base")
	if err != nil {
		return nil
	}
	if h, ok := v.(document.Handle); ok {
		return obj.Document().Get(h)
	}
	return nil
}

// isParametric is true for objects with a proxy which is derived from a
// base object.
func isParametric(obj *document.Object) bool {
	return baseObject(obj) != nil
}

// newFeature adds a plain feature carrying a fixed shape. The style and
// group are taken over from origin, if given.
func newFeature(doc *document.Document, name string, shape *kernel.Shape, origin *document.Object) *document.Object {
	obj := doc.AddObject(document.PartFeature, name, nil)
	obj.Shape = shape
	inherit(obj, origin)
	return obj
}

// inherit copies style and group membership from origin.
func inherit(obj, origin *document.Object) {
	draft.FormatObject(obj, origin)
	doc := obj.Document()
	group := doc.ActiveGroup
	if origin != nil {
		obj.View.Visibility = true
		if g := doc.GroupOf(origin.Handle()); g != nil {
			group = g.Handle()
		}
	}
	if group != document.NoObject {
		if err := doc.AddToGroup(group, obj.Handle()); err != nil {
			tracer().Infof("cannot group %s: %v", obj.Name, err)
		}
	}
}

// copyObject duplicates an object with a fresh proxy carrying the same
// property values.
func copyObject(obj *document.Object) *document.Object {
	doc := obj.Document()
	dup := doc.AddObject(obj.TypeID, obj.Name, cloneProxy(obj.Proxy))
	dup.Placement = obj.Placement
	dup.Support = obj.Support
	dup.Tag = obj.Tag
	dup.Material = obj.Material
	if obj.HasShape() {
		dup.Shape = obj.Shape.Copy()
	}
	inherit(dup, obj)
	tracer().Debugf("copied %s to %s", obj.Name, dup.Name)
	return dup
}

// cloneProxy creates a proxy of the same type and copies all property
// values into it.
func cloneProxy(p document.Proxy) document.Proxy {
	if p == nil {
		return nil
	}
	t := reflect.TypeOf(p)
	if t.Kind() != reflect.Ptr {
		return p
	}
	q := reflect.New(t.Elem()).Interface().(document.Proxy)
	document.CopyValues(p.Properties(), q.Properties())
	return q
}

func hide(objs ...*document.Object) {
	for _, obj := range objs {
		if obj != nil && obj.View != nil {
			obj.View.Visibility = false
		}
	}
}
