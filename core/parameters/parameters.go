package parameters

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/schuko"
)

// Key is a preference key.
type Key int

const (
	none Key = iota
	// integer keys
	DimSymbol
	DimPrecision
	Precision
	DefaultWP
	SnapRange
	GridEvery
	LineWidth
	ModConstrain
	ModSnap
	ModAlt
	DimStyle
	GridSize
	// string keys
	ConstructionGroupName
	TextFont
	PatternFile
	Template
	FontFile
	ClonePrefix
	LabelType
	// float keys
	TextHeight
	Tolerance
	GridSpacing
	ArrowSize
	ExtLines
	DimSpacing
	DimOvershoot
	ExtOvershoot
	// boolean keys
	SelectBaseObjects
	AlwaysSnap
	FillMode
	SaveOnExit
	ShowUnit
	UsePartPrimitives
	SvgLinesBlack
	KeepFaceNames
	KeepFaceColors
	// unsigned keys
	Color
	ConstructionColor
	SnapColor
	GridColor
	keyStopper
)

// Kind is the value kind of a preference key.
type Kind int8

// Kinds of preference values.
const (
	KindInt Kind = iota
	KindString
	KindFloat
	KindBool
	KindUnsigned
)

type keyInfo struct {
	name string
	kind Kind
	dflt interface{}
}

var keyTable = [keyStopper]keyInfo{
	none:                  {"", KindInt, 0},
	DimSymbol:             {"dimsymbol", KindInt, 0},
	DimPrecision:          {"dimPrecision", KindInt, 2},
	Precision:             {"precision", KindInt, 6},
	DefaultWP:             {"defaultWP", KindInt, 1},
	SnapRange:             {"snapRange", KindInt, 8},
	GridEvery:             {"gridEvery", KindInt, 10},
	LineWidth:             {"linewidth", KindInt, 2},
	ModConstrain:          {"modconstrain", KindInt, 0},
	ModSnap:               {"modsnap", KindInt, 1},
	ModAlt:                {"modalt", KindInt, 2},
	DimStyle:              {"dimstyle", KindInt, 0},
	GridSize:              {"gridSize", KindInt, 100},
	ConstructionGroupName: {"constructiongroupname", KindString, "Construction"},
	TextFont:              {"textfont", KindString, "Sans"},
	PatternFile:           {"patternFile", KindString, ""},
	Template:              {"template", KindString, ""},
	FontFile:              {"FontFile", KindString, ""},
	ClonePrefix:           {"ClonePrefix", KindString, ""},
	LabelType:             {"labeltype", KindString, "Custom"},
	TextHeight:            {"textheight", KindFloat, 0.20},
	Tolerance:             {"tolerance", KindFloat, 0.05},
	GridSpacing:           {"gridSpacing", KindFloat, 1.0},
	ArrowSize:             {"arrowsize", KindFloat, 0.1},
	ExtLines:              {"extlines", KindFloat, 0.3},
	DimSpacing:            {"dimspacing", KindFloat, 0.05},
	DimOvershoot:          {"dimovershoot", KindFloat, 0.0},
	ExtOvershoot:          {"extovershoot", KindFloat, 0.0},
	SelectBaseObjects:     {"selectBaseObjects", KindBool, false},
	AlwaysSnap:            {"alwaysSnap", KindBool, true},
	FillMode:              {"fillmode", KindBool, true},
	SaveOnExit:            {"saveonexit", KindBool, false},
	ShowUnit:              {"showUnit", KindBool, true},
	UsePartPrimitives:     {"UsePartPrimitives", KindBool, false},
	SvgLinesBlack:         {"svgLinesBlack", KindBool, true},
	KeepFaceNames:         {"keepFaceNames", KindBool, true},
	KeepFaceColors:        {"keepFaceColors", KindBool, true},
	Color:                 {"color", KindUnsigned, uint32(0x000000ff)},
	ConstructionColor:     {"constructioncolor", KindUnsigned, uint32(0x2c7de4ff)},
	SnapColor:             {"snapcolor", KindUnsigned, uint32(0xffffffff)},
	GridColor:             {"gridColor", KindUnsigned, uint32(0x323232ff)},
}

// String returns the preference name of a key.
func (k Key) String() string {
	if k <= none || k >= keyStopper {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyTable[k].name
}

// Kind returns the value kind of a key.
func (k Key) Kind() Kind {
	if k <= none || k >= keyStopper {
		return KindInt
	}
	return keyTable[k].kind
}

// KeyByName looks up a key by its preference name. Lookup is
// case-insensitive.
func KeyByName(name string) (Key, bool) {
	for k := none + 1; k < keyStopper; k++ {
		if strings.EqualFold(keyTable[k].name, name) {
			return k, true
		}
	}
	return none, false
}

// Keys returns all known keys in declaration order.
func Keys() []Key {
	keys := make([]Key, 0, keyStopper-1)
	for k := none + 1; k < keyStopper; k++ {
		keys = append(keys, k)
	}
	return keys
}

// --- Registry --------------------------------------------------------------

type parameterGroup struct {
	params map[Key]interface{}
	level  int
	next   *parameterGroup
}

// Registry holds preference values, organized in nested groups.
// Access is not synchronized: the drafting core runs single-threaded.
type Registry struct {
	base       [keyStopper]interface{}
	groups     *parameterGroup
	grouplevel int
}

var globalRegistry *Registry

var globalRegistryCreation sync.Once

// Global returns the application-wide preference store.
func Global() *Registry {
	globalRegistryCreation.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// NewRegistry creates a store holding the default values.
func NewRegistry() *Registry {
	regs := &Registry{}
	regs.Reset()
	return regs
}

// Reset drops all groups and restores default values.
func (regs *Registry) Reset() {
	for k := none + 1; k < keyStopper; k++ {
		regs.base[k] = keyTable[k].dflt
	}
	regs.groups = nil
	regs.grouplevel = 0
}

// Begingroup opens a new group level. Values set afterwards are dropped
// with the matching Endgroup.
func (regs *Registry) Begingroup() {
	regs.grouplevel++
}

// Endgroup closes the innermost group and forgets its values.
func (regs *Registry) Endgroup() {
	if regs.grouplevel > 0 {
		if regs.groups != nil && regs.groups.level == regs.grouplevel {
			regs.groups = regs.groups.next
		}
		regs.grouplevel--
	}
}

// Set sets the value of a key. The value is converted to the key's kind
// if possible; otherwise an EINVALID error is returned.
func (regs *Registry) Set(key Key, value interface{}) error {
	if key <= none || key >= keyStopper {
		return core.Error(core.EINVALID, "unknown preference key %d", int(key))
	}
	v, err := convert(key, value)
	if err != nil {
		return err
	}
	if regs.grouplevel > 0 {
		var g *parameterGroup
		if regs.groups == nil || regs.groups.level < regs.grouplevel {
			g = &parameterGroup{params: make(map[Key]interface{}), level: regs.grouplevel}
			g.next = regs.groups
			regs.groups = g
		} else {
			g = regs.groups
		}
		g.params[key] = v
	} else {
		regs.base[key] = v
	}
	return nil
}

// Get returns the current value of a key.
func (regs *Registry) Get(key Key) interface{} {
	if key <= none || key >= keyStopper {
		panic("parameter key outside range of draft parameters")
	}
	var value interface{}
	for g := regs.groups; g != nil; g = g.next {
		if v, ok := g.params[key]; ok {
			value = v
			break
		}
	}
	if value == nil {
		value = regs.base[key]
	}
	return value
}

// Int returns an integer preference.
func (regs *Registry) Int(key Key) int {
	return regs.Get(key).(int)
}

// Float returns a float preference.
func (regs *Registry) Float(key Key) float64 {
	return regs.Get(key).(float64)
}

// String returns a string preference.
func (regs *Registry) String(key Key) string {
	return regs.Get(key).(string)
}

// Bool returns a boolean preference.
func (regs *Registry) Bool(key Key) bool {
	return regs.Get(key).(bool)
}

// Uint returns an unsigned preference, e.g. a colour as 0xRRGGBBAA.
func (regs *Registry) Uint(key Key) uint32 {
	return regs.Get(key).(uint32)
}

// Tolerance returns the linear tolerance for geometric comparisons.
func (regs *Registry) Tolerance() float64 {
	return regs.Float(Tolerance)
}

// Epsilon returns 10^-precision, used for near-equality of numbers.
func (regs *Registry) Epsilon() float64 {
	return math.Pow(10, -float64(regs.Int(Precision)))
}

// --- Loading ---------------------------------------------------------------

// Load reads preferences from a TOML document. Top-level keys must match
// preference names; unknown keys are traced and skipped.
func (regs *Registry) Load(r io.Reader) error {
	var prefs map[string]interface{}
	if _, err := toml.DecodeReader(r, &prefs); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot decode preference file")
	}
	for name, value := range prefs {
		key, ok := KeyByName(name)
		if !ok {
			tracer().Errorf("unknown preference key '%s' ignored", name)
			continue
		}
		if err := regs.Set(key, value); err != nil {
			return err
		}
		tracer().Debugf("preference %s = %v", key, value)
	}
	return nil
}

// LoadFile reads preferences from a TOML file.
func (regs *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return core.WrapError(err, core.EMISSING, "preference file %s not found", path)
	}
	defer f.Close()
	return regs.Load(f)
}

// Overlay copies values from a schuko configuration. Keys are looked up
// as "draft.<name>"; empty values are skipped.
func (regs *Registry) Overlay(conf schuko.Configuration) error {
	for k := none + 1; k < keyStopper; k++ {
		s := conf.GetString("draft." + keyTable[k].name)
		if s == "" {
			continue
		}
		if err := regs.Set(k, s); err != nil {
			return err
		}
	}
	return nil
}

func convert(key Key, value interface{}) (interface{}, error) {
	bad := func() error {
		return core.Error(core.EINVALID, "preference %s: cannot use %v (%T) as %s",
			key, value, value, kindName(key.Kind()))
	}
	switch key.Kind() {
	case KindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v == math.Trunc(v) {
				return int(v), nil
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, nil
			}
		}
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, nil
			}
		}
	case KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case KindBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, nil
			}
		}
	case KindUnsigned:
		switch v := value.(type) {
		case uint32:
			return v, nil
		case int:
			if v >= 0 && int64(v) <= math.MaxUint32 {
				return uint32(v), nil
			}
		case int64:
			if v >= 0 && v <= math.MaxUint32 {
				return uint32(v), nil
			}
		case string:
			if n, err := strconv.ParseUint(strings.TrimSpace(v), 0, 32); err == nil {
				return uint32(n), nil
			}
		}
	}
	return nil, bad()
}

func kindName(k Kind) string {
	switch k {
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindUnsigned:
		return "unsigned"
	}
	return "unknown"
}
