package main

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/draft/engine/export"
	"github.com/npillmayer/draft/engine/modifiers"
	"github.com/npillmayer/draft/engine/workingplane"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object. It works on a single document.
type Intp struct {
	doc  *document.Document
	last []*document.Object // objects created by the last command
}

// NewIntp creates an interpreter for doc.
func NewIntp(doc *document.Document) *Intp {
	return &Intp{doc: doc}
}

type command struct {
	name  string
	usage string
	help  string
	exec  func(intp *Intp, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"line", "line p1 p2", "create a line", (*Intp).line},
		{"wire", "wire p1 p2 ... [closed]", "create a wire", (*Intp).wire},
		{"rect", "rect length height [at p]", "create a rectangle", (*Intp).rect},
		{"circle", "circle radius [first last] [at p]", "create a circle or arc", (*Intp).circle},
		{"polygon", "polygon corners radius [at p]", "create a regular polygon", (*Intp).polygon},
		{"point", "point p", "create a point", (*Intp).point},
		{"text", "text p word ...", "create a text", (*Intp).text},
		{"dim", "dim p1 p2 dimline", "create a linear dimension", (*Intp).dim},
		{"move", "move vector name ...", "move objects", (*Intp).move},
		{"copy", "copy vector name ...", "move copies of objects", (*Intp).copy},
		{"rotate", "rotate angle name ...", "rotate objects around the origin", (*Intp).rotate},
		{"scale", "scale factor name ...", "scale objects from the origin", (*Intp).scale},
		{"offset", "offset distance name", "offset a planar object", (*Intp).offset},
		{"upgrade", "upgrade name ...", "join objects into a more complex one", (*Intp).upgrade},
		{"downgrade", "downgrade name ...", "split objects into simpler ones", (*Intp).downgrade},
		{"array", "array nx ny dx dy name", "create an orthogonal array", (*Intp).array},
		{"delete", "delete name ...", "remove objects", (*Intp).remove},
		{"list", "list", "list the objects of the document", (*Intp).list},
		{"wp", "wp top|front|side", "align the working plane", (*Intp).wp},
		{"set", "set key value", "set a preference", (*Intp).set},
		{"get", "get key", "show a preference", (*Intp).get},
		{"svg", "svg file", "export visible objects as SVG", (*Intp).svg},
		{"dxf", "dxf file", "export visible objects as DXF", (*Intp).dxf},
	}
}

// Execute interprets a single command line. It returns true if the user
// wants to quit.
func (intp *Intp) Execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	tracer().Debugf("command %s %v", name, args)
	switch name {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		help()
		return false, nil
	}
	for _, c := range commands {
		if c.name == name {
			intp.last = nil
			err := c.exec(intp, args)
			if err != nil && core.Code(err) == core.EPRECONDITION && strings.HasPrefix(core.UserMessage(err), "usage") {
				return false, core.Error(core.EPRECONDITION, "usage: %s", c.usage)
			}
			return false, err
		}
	}
	return false, core.Error(core.EINVALID, "unknown command '%s', try \"help\"", name)
}

func help() {
	pterm.Info.Println("Commands")
	data := pterm.TableData{{"Command", "Usage", "Description"}}
	for _, c := range commands {
		data = append(data, []string{c.name, c.usage, c.help})
	}
	data = append(data, []string{"quit", "quit", "leave the CLI"})
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf("%v", err)
	}
	pterm.Println("Points are written x,y or x,y,z without blanks.")
}

func usage() error {
	return core.Error(core.EPRECONDITION, "usage")
}

// --- Argument parsing ------------------------------------------------------

// parsePoint reads a point written as "x,y" or "x,y,z".
func parsePoint(s string) (geom.Vector, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return geom.Vector{}, core.Error(core.EINVALID, "not a point: '%s'", s)
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return geom.Vector{}, core.WrapError(err, core.EINVALID, "not a point: '%s'", s)
		}
		c[i] = f
	}
	return geom.V(c[0], c[1], c[2]), nil
}

func parsePoints(args []string) ([]geom.Vector, error) {
	pts := make([]geom.Vector, len(args))
	for i, a := range args {
		p, err := parsePoint(a)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	return pts, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALID, "not a number: '%s'", s)
	}
	return f, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALID, "not an integer: '%s'", s)
	}
	return n, nil
}

// placementOpt splits off a trailing "at p" and returns the matching
// creation option.
func placementOpt(args []string) ([]string, []draft.Option, error) {
	n := len(args)
	if n < 2 || args[n-2] != "at" {
		return args, nil, nil
	}
	p, err := parsePoint(args[n-1])
	if err != nil {
		return nil, nil, err
	}
	return args[:n-2], []draft.Option{draft.WithPlacement(geom.Translation(p))}, nil
}

// objects resolves object names or labels.
func (intp *Intp) objects(names []string) ([]*document.Object, error) {
	if len(names) == 0 {
		return nil, core.Error(core.EPRECONDITION, "no objects named")
	}
	objs := make([]*document.Object, 0, len(names))
	for _, name := range names {
		obj := intp.doc.GetByName(name)
		if obj == nil {
			if l := intp.doc.GetByLabel(name); len(l) > 0 {
				obj = l[0]
			}
		}
		if obj == nil {
			return nil, core.Error(core.EMISSING, "no object '%s'", name)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// --- Creation --------------------------------------------------------------

func (intp *Intp) created(obj *document.Object, err error) error {
	if err != nil {
		return err
	}
	intp.last = append(intp.last, obj)
	pterm.Success.Printfln("created %s", obj.Name)
	return nil
}

func (intp *Intp) line(args []string) error {
	if len(args) != 2 {
		return usage()
	}
	pts, err := parsePoints(args)
	if err != nil {
		return err
	}
	return intp.created(draft.MakeLine(intp.doc, pts[0], pts[1]))
}

func (intp *Intp) wire(args []string) error {
	closed := false
	if n := len(args); n > 0 && args[n-1] == "closed" {
		closed, args = true, args[:n-1]
	}
	if len(args) < 2 {
		return usage()
	}
	pts, err := parsePoints(args)
	if err != nil {
		return err
	}
	return intp.created(draft.MakeWire(intp.doc, pts, closed))
}

func (intp *Intp) rect(args []string) error {
	args, opts, err := placementOpt(args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return usage()
	}
	l, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	h, err := parseFloat(args[1])
	if err != nil {
		return err
	}
	return intp.created(draft.MakeRectangle(intp.doc, l, h, opts...))
}

func (intp *Intp) circle(args []string) error {
	args, opts, err := placementOpt(args)
	if err != nil {
		return err
	}
	if len(args) != 1 && len(args) != 3 {
		return usage()
	}
	var v [3]float64
	for i, a := range args {
		if v[i], err = parseFloat(a); err != nil {
			return err
		}
	}
	return intp.created(draft.MakeCircle(intp.doc, v[0], v[1], v[2], opts...))
}

func (intp *Intp) polygon(args []string) error {
	args, opts, err := placementOpt(args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return usage()
	}
	n, err := parseInt(args[0])
	if err != nil {
		return err
	}
	r, err := parseFloat(args[1])
	if err != nil {
		return err
	}
	return intp.created(draft.MakePolygon(intp.doc, n, r, true, opts...))
}

func (intp *Intp) point(args []string) error {
	if len(args) != 1 {
		return usage()
	}
	p, err := parsePoint(args[0])
	if err != nil {
		return err
	}
	return intp.created(draft.MakePoint(intp.doc, p))
}

func (intp *Intp) text(args []string) error {
	if len(args) < 2 {
		return usage()
	}
	p, err := parsePoint(args[0])
	if err != nil {
		return err
	}
	lines := strings.Split(strings.Join(args[1:], " "), `\n`)
	return intp.created(draft.MakeText(intp.doc, lines, p))
}

func (intp *Intp) dim(args []string) error {
	if len(args) != 3 {
		return usage()
	}
	pts, err := parsePoints(args)
	if err != nil {
		return err
	}
	return intp.created(draft.MakeDimension(intp.doc, pts[0], pts[1], pts[2]))
}

// --- Modifiers -------------------------------------------------------------

// report prints the messages of a modifier and remembers the new objects.
func (intp *Intp) report(res *modifiers.Result, err error) error {
	if err != nil {
		return err
	}
	for _, msg := range res.Messages {
		pterm.Info.Println(msg)
	}
	intp.last = res.Objects(intp.doc)
	for _, obj := range intp.last {
		pterm.Success.Printfln("created %s", obj.Name)
	}
	return nil
}

func (intp *Intp) move(args []string) error {
	return intp.translate(args, false)
}

func (intp *Intp) copy(args []string) error {
	return intp.translate(args, true)
}

func (intp *Intp) translate(args []string, copy bool) error {
	if len(args) < 2 {
		return usage()
	}
	v, err := parsePoint(args[0])
	if err != nil {
		return err
	}
	objs, err := intp.objects(args[1:])
	if err != nil {
		return err
	}
	return intp.report(modifiers.Move(modifiers.FilterObjectsForModifiers(objs), v, copy))
}

func (intp *Intp) rotate(args []string) error {
	if len(args) < 2 {
		return usage()
	}
	a, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	objs, err := intp.objects(args[1:])
	if err != nil {
		return err
	}
	axis := workingplane.Active().GetNormal()
	return intp.report(modifiers.Rotate(modifiers.FilterObjectsForModifiers(objs), a, geom.Origin, axis, false))
}

func (intp *Intp) scale(args []string) error {
	if len(args) < 2 {
		return usage()
	}
	f, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	objs, err := intp.objects(args[1:])
	if err != nil {
		return err
	}
	return intp.report(modifiers.Scale(modifiers.FilterObjectsForModifiers(objs), geom.V(f, f, f), geom.Origin, false))
}

func (intp *Intp) offset(args []string) error {
	if len(args) != 2 {
		return usage()
	}
	d, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	objs, err := intp.objects(args[1:])
	if err != nil {
		return err
	}
	return intp.report(modifiers.Offset(objs[0], d, modifiers.OffsetOptions{}))
}

func (intp *Intp) upgrade(args []string) error {
	objs, err := intp.objects(args)
	if err != nil {
		return err
	}
	return intp.report(modifiers.Upgrade(objs, modifiers.Options{Delete: true}))
}

func (intp *Intp) downgrade(args []string) error {
	objs, err := intp.objects(args)
	if err != nil {
		return err
	}
	return intp.report(modifiers.Downgrade(objs, modifiers.Options{Delete: true}))
}

func (intp *Intp) array(args []string) error {
	if len(args) != 5 {
		return usage()
	}
	var n [2]int
	var d [2]float64
	var err error
	for i := 0; i < 2; i++ {
		if n[i], err = parseInt(args[i]); err != nil {
			return err
		}
		if d[i], err = parseFloat(args[i+2]); err != nil {
			return err
		}
	}
	objs, err := intp.objects(args[4:])
	if err != nil {
		return err
	}
	return intp.report(modifiers.MakeArray(objs[0], modifiers.ArrayParams{
		Kind:      modifiers.OrthoArray,
		IntervalX: geom.V(d[0], 0, 0),
		IntervalY: geom.V(0, d[1], 0),
		IntervalZ: geom.V(0, 0, 1),
		NumberX:   n[0],
		NumberY:   n[1],
		NumberZ:   1,
	}))
}

// --- Document --------------------------------------------------------------

func (intp *Intp) remove(args []string) error {
	objs, err := intp.objects(args)
	if err != nil {
		return err
	}
	hs := make([]document.Handle, len(objs))
	for i, obj := range objs {
		hs[i] = obj.Handle()
	}
	if err := intp.doc.RemoveObjects(hs); err != nil {
		return err
	}
	pterm.Success.Printfln("removed %d objects", len(hs))
	return nil
}

func (intp *Intp) list(args []string) error {
	objs := intp.doc.Objects()
	if len(objs) == 0 {
		pterm.Info.Println("document is empty")
		return nil
	}
	data := pterm.TableData{{"Name", "Label", "Type", "Visible"}}
	for _, obj := range objs {
		visible := obj.View == nil || obj.View.Visibility
		data = append(data, []string{obj.Name, obj.Label, obj.ProxyType(), strconv.FormatBool(visible)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (intp *Intp) wp(args []string) error {
	if len(args) != 1 {
		return usage()
	}
	var axis geom.Vector
	switch strings.ToLower(args[0]) {
	case "top":
		axis = geom.ZAxis
	case "front":
		axis = geom.Neg(geom.YAxis)
	case "side":
		axis = geom.XAxis
	default:
		return usage()
	}
	plane := workingplane.Active()
	if err := plane.AlignToPointAndAxis(geom.Origin, axis, 0); err != nil {
		return err
	}
	pterm.Info.Printfln("working plane: %s", plane)
	return nil
}

func (intp *Intp) set(args []string) error {
	if len(args) != 2 {
		return usage()
	}
	key, ok := parameters.KeyByName(args[0])
	if !ok {
		return core.Error(core.EMISSING, "unknown preference '%s'", args[0])
	}
	return parameters.Global().Set(key, args[1])
}

func (intp *Intp) get(args []string) error {
	if len(args) == 0 {
		keys := parameters.Keys()
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		sort.Strings(names)
		pterm.Println(strings.Join(names, " "))
		return nil
	}
	key, ok := parameters.KeyByName(args[0])
	if !ok {
		return core.Error(core.EMISSING, "unknown preference '%s'", args[0])
	}
	pterm.Printfln("%s = %v", key, parameters.Global().Get(key))
	return nil
}

// --- Export ----------------------------------------------------------------

func (intp *Intp) svg(args []string) error {
	return intp.export(args, func(f *os.File, objs []*document.Object) error {
		return export.SVGDocument(f, objs, export.SVGOptions{Scale: 1, Margin: 10})
	})
}

func (intp *Intp) dxf(args []string) error {
	return intp.export(args, func(f *os.File, objs []*document.Object) error {
		return export.DXFDocument(f, objs, geom.Vector{})
	})
}

func (intp *Intp) export(args []string, write func(*os.File, []*document.Object) error) (err error) {
	if len(args) != 1 {
		return usage()
	}
	f, err := os.Create(args[0])
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create %s", args[0])
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err = write(f, intp.doc.Objects()); err != nil {
		return err
	}
	pterm.Success.Printfln("exported to %s", args[0])
	return nil
}
