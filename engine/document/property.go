package document

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
)

// Handle addresses an object within its document. The zero handle never
// refers to an object.
type Handle int

// NoObject is the invalid handle.
const NoObject Handle = 0

// LinkSub is a link to an object together with sub-element names such as
// "Edge1" or "Vertex3".
type LinkSub struct {
	Object Handle
	Subs   []string
}

// Enum is an enumeration property value.
type Enum struct {
	Value   string
	Choices []string
}

// NewEnum creates an enumeration set to its first choice.
func NewEnum(choices ...string) Enum {
	e := Enum{Choices: choices}
	if len(choices) > 0 {
		e.Value = choices[0]
	}
	return e
}

// Is checks the current value.
func (e Enum) Is(v string) bool {
	return e.Value == v
}

func (e Enum) index(v string) int {
	for i, c := range e.Choices {
		if c == v {
			return i
		}
	}
	return -1
}

// PropertyType names the value type of a property.
type PropertyType string

// Property types
const (
	PropBool        PropertyType = "Bool"
	PropInteger     PropertyType = "Integer"
	PropFloat       PropertyType = "Float"
	PropLength      PropertyType = "Length"
	PropDistance    PropertyType = "Distance"
	PropAngle       PropertyType = "Angle"
	PropArea        PropertyType = "Area"
	PropVolume      PropertyType = "Volume"
	PropString      PropertyType = "String"
	PropStringList  PropertyType = "StringList"
	PropVector      PropertyType = "Vector"
	PropVectorList  PropertyType = "VectorList"
	PropPlacement   PropertyType = "Placement"
	PropPlaceList   PropertyType = "PlacementList"
	PropLink        PropertyType = "Link"
	PropLinkList    PropertyType = "LinkList"
	PropLinkSub     PropertyType = "LinkSub"
	PropLinkSubList PropertyType = "LinkSubList"
	PropEnum        PropertyType = "Enumeration"
	PropIntList     PropertyType = "IntegerList"
	PropFloatList   PropertyType = "FloatList"
	PropFont        PropertyType = "Font"
	PropPercent     PropertyType = "Percent"
	PropMap         PropertyType = "Map"
)

// Property describes a user property of an object. Value points to the
// field holding the property's value.
type Property struct {
	Name    string
	Type    PropertyType
	Group   string
	Tooltip string
	Value   interface{}
}

// P creates a property descriptor.
func P(typ PropertyType, name, group, tooltip string, value interface{}) Property {
	return Property{Name: name, Type: typ, Group: group, Tooltip: tooltip, Value: value}
}

// EditorMode flags control how property editors present a property.
type EditorMode uint8

// Editor modes
const (
	ReadOnly EditorMode = 1 << iota
	Hidden
)

// --- Access ----------------------------------------------------------------

// Properties returns the property table of an object: the base properties
// followed by the proxy's properties.
func (obj *Object) Properties() []Property {
	props := []Property{
		P(PropString, "Label", "Base", "User name of the object", &obj.Label),
		P(PropPlacement, "Placement", "Base", "Position and orientation", &obj.Placement),
	}
	if obj.Proxy != nil {
		props = append(props, obj.Proxy.Properties()...)
	}
	return props
}

// PropertiesList returns the names of all properties.
func (obj *Object) PropertiesList() []string {
	var names []string
	for _, p := range obj.Properties() {
		names = append(names, p.Name)
	}
	return names
}

// HasProperty checks for a property by name.
func (obj *Object) HasProperty(name string) bool {
	_, ok := obj.property(name)
	return ok
}

func (obj *Object) property(name string) (Property, bool) {
	for _, p := range obj.Properties() {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// GetProperty returns the current value of a property.
func (obj *Object) GetProperty(name string) (interface{}, error) {
	p, ok := obj.property(name)
	if !ok {
		return nil, core.Error(core.EMISSING, "%s has no property %s", obj.Name, name)
	}
	v := reflect.ValueOf(p.Value).Elem()
	if e, ok := p.Value.(*Enum); ok {
		return e.Value, nil
	}
	return v.Interface(), nil
}

// SetProperty assigns a property. The value must be assignable to the
// property's type; numbers are converted between int and float64, and
// enumerations accept one of their choices as a string. The object is
// touched and the proxy is notified.
func (obj *Object) SetProperty(name string, value interface{}) error {
	p, ok := obj.property(name)
	if !ok {
		return core.Error(core.EMISSING, "%s has no property %s", obj.Name, name)
	}
	target := reflect.ValueOf(p.Value).Elem()
	old := reflect.New(target.Type()).Elem()
	old.Set(target)
	if err := assign(p, target, value); err != nil {
		return err
	}
	if obj.doc != nil {
		obj.doc.logUndo(func() { target.Set(old) })
	}
	obj.Touch()
	if l, ok := obj.Proxy.(ChangeListener); ok {
		l.OnChanged(obj, name)
	}
	return nil
}

func assign(p Property, target reflect.Value, value interface{}) error {
	if e, ok := p.Value.(*Enum); ok {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case int:
			if v < 0 || v >= len(e.Choices) {
				return core.Error(core.EINVALID, "enumeration index %d out of range for %s", v, p.Name)
			}
			s = e.Choices[v]
		case Enum:
			*e = v
			return nil
		default:
			return core.Error(core.EINVALID, "cannot set enumeration %s from %T", p.Name, value)
		}
		if e.index(s) < 0 {
			return core.Error(core.EINVALID, "%q is not a valid value for %s", s, p.Name)
		}
		e.Value = s
		return nil
	}
	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(target.Type()):
		target.Set(v)
	case isNumber(v.Kind()) && isNumber(target.Kind()):
		target.Set(v.Convert(target.Type()))
	default:
		return core.Error(core.EINVALID, "property %s of type %s cannot take a %T", p.Name, p.Type, value)
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// SetEditorMode sets the editor flags of a property.
func (obj *Object) SetEditorMode(name string, mode EditorMode) {
	if obj.editorModes == nil {
		obj.editorModes = make(map[string]EditorMode)
	}
	obj.editorModes[name] = mode
}

// GetEditorMode returns the editor flags of a property.
func (obj *Object) GetEditorMode(name string) EditorMode {
	return obj.editorModes[name]
}

// GroupNames returns the property groups in order of first appearance.
func (obj *Object) GroupNames() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, p := range obj.Properties() {
		if !seen[p.Group] {
			seen[p.Group] = true
			groups = append(groups, p.Group)
		}
	}
	return groups
}

// --- Links -----------------------------------------------------------------

// OutList returns the handles of all objects this object links to,
// including its support.
func (obj *Object) OutList() []Handle {
	set := make(map[Handle]bool)
	add := func(h Handle) {
		if h != NoObject && h != obj.handle {
			set[h] = true
		}
	}
	add(obj.Support.Object)
	for _, p := range obj.Properties() {
		switch v := p.Value.(type) {
		case *Handle:
			add(*v)
		case *[]Handle:
			for _, h := range *v {
				add(h)
			}
		case *LinkSub:
			add(v.Object)
		case *[]LinkSub:
			for _, l := range *v {
				add(l.Object)
			}
		}
	}
	return sortedHandles(set)
}

func sortedHandles(set map[Handle]bool) []Handle {
	hs := make([]Handle, 0, len(set))
	for h := range set {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

// CopyProperties copies every property the target shares with the source,
// provided the types match. Properties listed in skip are left alone.
func CopyProperties(from, to *Object, skip ...string) {
	CopyValues(from.Properties(), to.Properties(), skip...)
	to.Touch()
}

// CopyValues copies values between two property tables, matching
// properties by name and type. Slices are copied, not shared.
func CopyValues(from, to []Property, skip ...string) {
	skipped := make(map[string]bool)
	for _, s := range skip {
		skipped[s] = true
	}
	for _, p := range from {
		if skipped[p.Name] {
			continue
		}
		var q *Property
		for i := range to {
			if to[i].Name == p.Name && to[i].Type == p.Type {
				q = &to[i]
				break
			}
		}
		if q == nil {
			continue
		}
		src := reflect.ValueOf(p.Value).Elem()
		dst := reflect.ValueOf(q.Value).Elem()
		if src.Type() != dst.Type() {
			continue
		}
		if src.Kind() == reflect.Slice && !src.IsNil() {
			dst.Set(reflect.AppendSlice(reflect.MakeSlice(src.Type(), 0, src.Len()), src))
			continue
		}
		dst.Set(src)
	}
}

// Describe returns a readable dump of all property values.
func (obj *Object) Describe() string {
	s := obj.String()
	for _, p := range obj.Properties() {
		v, _ := obj.GetProperty(p.Name)
		if vec, ok := v.(geom.Vector); ok {
			v = geom.VString(vec)
		}
		s += fmt.Sprintf("\n  %-18s %-12s %v", p.Name, p.Type, v)
	}
	return s
}
