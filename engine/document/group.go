package document

import "github.com/npillmayer/draft/core"

// GroupProxy makes an object a group of other objects.
type GroupProxy struct {
	Group []Handle
}

// Type is "Group".
func (g *GroupProxy) Type() string { return "Group" }

// Properties lists the group members.
func (g *GroupProxy) Properties() []Property {
	return []Property{
		P(PropLinkList, "Group", "Base", "Objects in this group", &g.Group),
	}
}

// Execute does nothing; groups have no shape.
func (g *GroupProxy) Execute(obj *Object) error { return nil }

// Contents returns the member list.
func (g *GroupProxy) Contents() *[]Handle { return &g.Group }

// Container is implemented by proxies of objects grouping other objects,
// such as groups and layers. Links from containers to their members do
// not count as dependencies.
type Container interface {
	Proxy
	Contents() *[]Handle
}

func removeMember(list *[]Handle, h Handle) int {
	for i, m := range *list {
		if m == h {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return i
		}
	}
	return -1
}

func insertMember(list *[]Handle, i int, h Handle) {
	*list = append(*list, NoObject)
	copy((*list)[i+1:], (*list)[i:])
	(*list)[i] = h
}

// AddGroup creates a group object.
func (doc *Document) AddGroup(name string) *Object {
	return doc.AddObject(GroupObject, name, &GroupProxy{})
}

// IsGroup checks if an object is a group or another container.
func IsGroup(obj *Object) bool {
	_, ok := obj.Proxy.(Container)
	return ok
}

// AddToGroup appends an object to a group. An object is member of at most
// one group; it is moved out of its former group.
func (doc *Document) AddToGroup(group, h Handle) error {
	g := doc.Get(group)
	if g == nil || !IsGroup(g) {
		return core.Error(core.EPRECONDITION, "handle %d is not a group", group)
	}
	if doc.Get(h) == nil || h == group {
		return core.Error(core.EPRECONDITION, "cannot add handle %d to group %s", h, g.Name)
	}
	if old := doc.GroupOf(h); old != nil {
		list := old.Proxy.(Container).Contents()
		if i := removeMember(list, h); i >= 0 {
			doc.logUndo(func() { insertMember(list, i, h) })
		}
	}
	list := g.Proxy.(Container).Contents()
	*list = append(*list, h)
	doc.logUndo(func() { removeMember(list, h) })
	g.Touch()
	return nil
}

// GroupOf returns the group containing an object, or nil.
func (doc *Document) GroupOf(h Handle) *Object {
	for _, obj := range doc.Objects() {
		if c, ok := obj.Proxy.(Container); ok {
			for _, m := range *c.Contents() {
				if m == h {
					return obj
				}
			}
		}
	}
	return nil
}

// GroupContents returns the members of a group. With recursive set, nested
// groups are replaced by their members.
func (doc *Document) GroupContents(group Handle, recursive bool) []*Object {
	g := doc.Get(group)
	if g == nil || !IsGroup(g) {
		return nil
	}
	var objs []*Object
	for _, m := range doc.Resolve(*g.Proxy.(Container).Contents()) {
		if recursive && IsGroup(m) {
			objs = append(objs, doc.GroupContents(m.handle, true)...)
			continue
		}
		objs = append(objs, m)
	}
	return objs
}
