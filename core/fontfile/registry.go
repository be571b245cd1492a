package fontfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Registry is a type for holding parsed fonts, keyed by normalized name.
type Registry struct {
	sync.Mutex
	fonts map[string]*sfnt.Font
	paths map[string]string
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold parsed fonts.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	return &Registry{
		fonts: make(map[string]*sfnt.Font),
		paths: make(map[string]string),
	}
}

// NotFound returns an application error for a missing font.
func NotFound(name string, cause error) error {
	if cause == nil {
		cause = fmt.Errorf("font missing: %v", name)
	}
	return core.WrapError(cause, core.EMISSING, "font not found: %s", name)
}

// NormalizeFontname strips directories and file extension from a font name
// and lower-cases it.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = filepath.Base(fname)
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ReplaceAll(fname, " ", "_")
	return strings.ToLower(fname)
}

// StoreFont pushes a font into the registry if it isn't contained yet.
func (fr *Registry) StoreFont(name string, f *sfnt.Font) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	key := NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[key]; !ok {
		tracer().Debugf("registry stores font %s as %s", name, key)
		fr.fonts[key] = f
	}
}

// Font returns a parsed font for a name or a file path. The lookup order is:
// fonts already in the registry, the file system path, system fonts. If no
// font can be found, the fallback font is returned together with an error.
func (fr *Registry) Font(name string) (*sfnt.Font, error) {
	key := NormalizeFontname(name)
	if key == "" {
		return fr.Fallback(), NotFound("<empty>", nil)
	}
	fr.Lock()
	if f, ok := fr.fonts[key]; ok {
		fr.Unlock()
		tracer().Debugf("registry found font %s", key)
		return f, nil
	}
	fr.Unlock()
	path, err := Locate(name)
	if err != nil {
		tracer().Infof("registry does not contain font %s, using fallback", name)
		return fr.Fallback(), err
	}
	f, err := LoadFont(path)
	if err != nil {
		return fr.Fallback(), err
	}
	fr.StoreFont(name, f)
	fr.Lock()
	fr.paths[key] = path
	fr.Unlock()
	return f, nil
}

// Path returns the file path a font has been loaded from, if any.
func (fr *Registry) Path(name string) (string, bool) {
	fr.Lock()
	defer fr.Unlock()
	p, ok := fr.paths[NormalizeFontname(name)]
	return p, ok
}

// Fallback returns the Go regular font. It is parsed once and cached.
func (fr *Registry) Fallback() *sfnt.Font {
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts["fallback"]; ok {
		return f
	}
	f, err := sfnt.Parse(goregular.TTF)
	if err != nil { // cannot happen with the packaged font
		panic(fmt.Sprintf("fallback font unreadable: %v", err))
	}
	tracer().Infof("font registry caches fallback font")
	fr.fonts["fallback"] = f
	return f
}

// LogFontList dumps the list of known fonts to the trace (level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	fr.Lock()
	defer fr.Unlock()
	tracer().Infof("--- registered fonts ---")
	for k := range fr.fonts {
		tracer().Infof("font [%s] = %s", k, fr.paths[k])
	}
	tracer().Infof("------------------------")
}

// Locate finds a font file for a name. Names containing a path separator or
// an existing file are taken as paths, all others are searched for as
// system fonts.
func Locate(name string) (string, error) {
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return name, nil
	}
	if filepath.IsAbs(name) {
		return "", NotFound(name, nil)
	}
	fpath, err := findfont.Find(name)
	if err != nil || fpath == "" {
		return "", NotFound(name, err)
	}
	tracer().Debugf("%s is a system font at %s", name, fpath)
	return fpath, nil
}

// LoadFont reads and parses a TrueType/OpenType font file.
func LoadFont(path string) (*sfnt.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NotFound(path, err)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font %s", path)
	}
	return f, nil
}
