package document

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/engine/kernel"
)

// Proxy implements the behaviour of an object type.
type Proxy interface {
	Type() string              // type tag, e.g. "Wire" or "Rectangle"
	Properties() []Property    // static property table
	Execute(obj *Object) error // recompute the object's shape
}

// ChangeListener is implemented by proxies which react to property changes.
type ChangeListener interface {
	OnChanged(obj *Object, prop string)
}

// Type identifiers of host objects.
const (
	Part2DObject  = "Part::Part2DObjectPython"
	PartFeature   = "Part::Feature"
	FeaturePython = "Part::FeaturePython"
	GroupObject   = "App::DocumentObjectGroup"
	SketchObject  = "Sketcher::SketchObject"
	Annotation    = "App::FeaturePython"
	MeshFeature   = "Mesh::Feature"
)

// Object is an object of a document.
type Object struct {
	doc         *Document
	handle      Handle
	ID          uuid.UUID
	Name        string // unique within the document
	Label       string
	TypeID      string
	Placement   geom.Placement
	Shape       *kernel.Shape
	Proxy       Proxy
	View        *ViewObject
	Support     LinkSub
	Tag         string
	Material    string
	editorModes map[string]EditorMode
	touched     bool
	err         error
}

// Handle returns the object's handle.
func (obj *Object) Handle() Handle { return obj.handle }

// Document returns the document the object belongs to.
func (obj *Object) Document() *Document { return obj.doc }

// ProxyType returns the type tag of the proxy, or "" for plain features.
func (obj *Object) ProxyType() string {
	if obj.Proxy == nil {
		return ""
	}
	return obj.Proxy.Type()
}

// IsA checks the proxy type tag.
func (obj *Object) IsA(typ string) bool {
	return obj.ProxyType() == typ
}

// Touch marks an object for recompute.
func (obj *Object) Touch() { obj.touched = true }

// IsTouched is true if the object awaits recompute.
func (obj *Object) IsTouched() bool { return obj.touched }

// Error returns the error of the last recompute, if any.
func (obj *Object) Error() error { return obj.err }

// IsValid is true if the last recompute succeeded.
func (obj *Object) IsValid() bool { return obj.err == nil }

// InList returns the handles of all objects linking to obj.
func (obj *Object) InList() []Handle {
	if obj.doc == nil {
		return nil
	}
	return obj.doc.InList(obj.handle)
}

// HasShape is true if the object carries a non-null shape.
func (obj *Object) HasShape() bool {
	return !obj.Shape.IsNull()
}

func (obj *Object) String() string {
	return fmt.Sprintf("%s<%s %q>", obj.Name, obj.TypeID, obj.ProxyType())
}

// --- Document --------------------------------------------------------------

// Document is an arena of objects.
type Document struct {
	Name        string
	objects     []*Object // index is handle-1, removed objects are nil
	names       map[string]Handle
	tx          *transaction
	sink        RenderSink
	ActiveGroup Handle
	selection   []Handle
}

// New creates an empty document.
func New(name string) *Document {
	return &Document{Name: name, names: make(map[string]Handle)}
}

var active struct {
	sync.Mutex
	doc *Document
}

// Active returns the active document, which may be nil.
func Active() *Document {
	active.Lock()
	defer active.Unlock()
	return active.doc
}

// SetActive makes a document the active one.
func SetActive(doc *Document) {
	active.Lock()
	defer active.Unlock()
	active.doc = doc
}

// AddObject creates an object. The name is made unique by appending a
// running number; the label starts out as the name.
func (doc *Document) AddObject(typeID, name string, proxy Proxy) *Object {
	if name == "" {
		name = "Unnamed"
		if proxy != nil {
			name = proxy.Type()
		}
	}
	obj := &Object{
		doc:       doc,
		handle:    Handle(len(doc.objects) + 1),
		ID:        uuid.New(),
		Name:      doc.uniqueName(name),
		TypeID:    typeID,
		Placement: geom.IdentityPlacement(),
		Proxy:     proxy,
		View:      NewViewObject(),
		touched:   true,
	}
	obj.Label = obj.Name
	doc.objects = append(doc.objects, obj)
	doc.names[obj.Name] = obj.handle
	doc.logUndo(func() { doc.drop(obj) })
	tracer().Debugf("added %s", obj)
	return obj
}

func (doc *Document) uniqueName(name string) string {
	if _, taken := doc.names[name]; !taken {
		return name
	}
	for i := 1; ; i++ {
		n := fmt.Sprintf("%s%03d", name, i)
		if _, taken := doc.names[n]; !taken {
			return n
		}
	}
}

// Get returns the object for a handle, or nil.
func (doc *Document) Get(h Handle) *Object {
	if h <= NoObject || int(h) > len(doc.objects) {
		return nil
	}
	return doc.objects[h-1]
}

// GetByName finds an object by its unique name.
func (doc *Document) GetByName(name string) *Object {
	if h, ok := doc.names[name]; ok {
		return doc.Get(h)
	}
	return nil
}

// GetByLabel returns all objects with a given label.
func (doc *Document) GetByLabel(label string) []*Object {
	var objs []*Object
	for _, obj := range doc.Objects() {
		if obj.Label == label {
			objs = append(objs, obj)
		}
	}
	return objs
}

// Objects returns all objects in order of creation.
func (doc *Document) Objects() []*Object {
	var objs []*Object
	for _, obj := range doc.objects {
		if obj != nil {
			objs = append(objs, obj)
		}
	}
	return objs
}

// Len returns the number of objects.
func (doc *Document) Len() int {
	return len(doc.Objects())
}

// Resolve returns the objects for a list of handles, skipping stale ones.
func (doc *Document) Resolve(hs []Handle) []*Object {
	var objs []*Object
	for _, h := range hs {
		if obj := doc.Get(h); obj != nil {
			objs = append(objs, obj)
		}
	}
	return objs
}

// InList returns the handles of all objects linking to h.
func (doc *Document) InList(h Handle) []Handle {
	set := make(map[Handle]bool)
	for _, obj := range doc.Objects() {
		for _, o := range obj.OutList() {
			if o == h {
				set[obj.handle] = true
			}
		}
	}
	return sortedHandles(set)
}

// RemoveObject removes an object. Objects still referenced by others are
// not removed and an EDEPENDENCY error is returned, unless cascade is set,
// in which case all dependents are removed first.
func (doc *Document) RemoveObject(h Handle, cascade bool) error {
	obj := doc.Get(h)
	if obj == nil {
		return core.Error(core.EMISSING, "no object with handle %d", h)
	}
	if in := doc.dependents(h); len(in) > 0 {
		if !cascade {
			tracer().Errorf("%s is still referenced by %d objects, not removed", obj.Name, len(in))
			return core.Error(core.EDEPENDENCY, "%s is still referenced by %d objects", obj.Name, len(in))
		}
		for _, d := range in {
			if doc.Get(d) == nil {
				continue // removed by an earlier cascade
			}
			if err := doc.RemoveObject(d, true); err != nil {
				return err
			}
		}
	}
	doc.drop(obj)
	doc.logUndo(func() { doc.restore(obj) })
	tracer().Debugf("removed %s", obj.Name)
	return nil
}

// RemoveObjects removes a set of objects. Links among the removed objects
// do not block removal; objects referenced from outside the set are
// skipped and reported.
func (doc *Document) RemoveObjects(hs []Handle) error {
	doomed := make(map[Handle]bool)
	for _, h := range hs {
		if doc.Get(h) != nil {
			doomed[h] = true
		}
	}
	var blocked []string
	for changed := true; changed; {
		changed = false
		for _, h := range sortedHandles(doomed) {
			for _, in := range doc.dependents(h) {
				if !doomed[in] {
					blocked = append(blocked, doc.Get(h).Name)
					delete(doomed, h)
					changed = true
					break
				}
			}
		}
	}
	for _, h := range sortedHandles(doomed) {
		obj := doc.Get(h)
		doc.drop(obj)
		doc.logUndo(func() { doc.restore(obj) })
	}
	if len(blocked) > 0 {
		tracer().Errorf("objects still referenced, not removed: %v", blocked)
		return core.Error(core.EDEPENDENCY, "%d objects still referenced", len(blocked))
	}
	return nil
}

func (doc *Document) drop(obj *Object) {
	if doc.Get(obj.handle) != obj {
		return
	}
	doc.objects[obj.handle-1] = nil
	delete(doc.names, obj.Name)
	doc.Deselect(obj.handle)
	for _, g := range doc.Objects() {
		if c, ok := g.Proxy.(Container); ok {
			list := c.Contents()
			if i := removeMember(list, obj.handle); i >= 0 {
				doc.logUndo(func() { insertMember(list, i, obj.handle) })
			}
		}
	}
}

// dependents returns the objects linking to h, not counting containers.
func (doc *Document) dependents(h Handle) []Handle {
	var deps []Handle
	for _, in := range doc.InList(h) {
		if _, ok := doc.Get(in).Proxy.(Container); !ok {
			deps = append(deps, in)
		}
	}
	return deps
}

func (doc *Document) restore(obj *Object) {
	doc.objects[obj.handle-1] = obj
	doc.names[obj.Name] = obj.handle
}

// --- Selection -------------------------------------------------------------

// Select adds objects to the selection.
func (doc *Document) Select(hs ...Handle) {
	for _, h := range hs {
		if doc.Get(h) != nil && !doc.IsSelected(h) {
			doc.selection = append(doc.selection, h)
		}
	}
}

// Deselect removes an object from the selection.
func (doc *Document) Deselect(h Handle) {
	for i, s := range doc.selection {
		if s == h {
			doc.selection = append(doc.selection[:i], doc.selection[i+1:]...)
			return
		}
	}
}

// IsSelected checks if an object is selected.
func (doc *Document) IsSelected(h Handle) bool {
	for _, s := range doc.selection {
		if s == h {
			return true
		}
	}
	return false
}

// ClearSelection empties the selection.
func (doc *Document) ClearSelection() {
	doc.selection = nil
}

// Selection returns the selected objects in order of selection.
func (doc *Document) Selection() []*Object {
	return doc.Resolve(doc.selection)
}
