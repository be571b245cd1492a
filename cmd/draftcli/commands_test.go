package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/draft/core"
	"github.com/npillmayer/draft/core/geom"
	"github.com/npillmayer/draft/core/parameters"
	"github.com/npillmayer/draft/engine/document"
	"github.com/npillmayer/draft/engine/draft"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, intp *Intp, lines ...string) {
	t.Helper()
	for _, line := range lines {
		quit, err := intp.Execute(line)
		require.NoError(t, err, line)
		require.False(t, quit)
	}
}

func TestParsePoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.cli")
	defer teardown()
	//
	p, err := parsePoint("1,2")
	require.NoError(t, err)
	assert.True(t, geom.Equal(geom.V(1, 2, 0), p))
	p, err = parsePoint("1,-2.5,3")
	require.NoError(t, err)
	assert.True(t, geom.Equal(geom.V(1, -2.5, 3), p))
	_, err = parsePoint("1")
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = parsePoint("1,x")
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestCreateAndModify(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.cli")
	defer teardown()
	//
	doc := document.New("cli")
	intp := NewIntp(doc)
	run(t, intp, "rect 4 3 at 1,1")
	require.Equal(t, 1, len(intp.last))
	r := intp.last[0]
	assert.True(t, geom.Equal(geom.V(1, 1, 0), r.Placement.Base))
	//
	run(t, intp, "move 2,0 "+r.Name)
	assert.True(t, geom.Equal(geom.V(3, 1, 0), r.Placement.Base))
	//
	run(t, intp, "copy 0,5 "+r.Name)
	require.Equal(t, 1, len(intp.last))
	assert.True(t, geom.Equal(geom.V(3, 6, 0), intp.last[0].Placement.Base))
	//
	run(t, intp, "circle 5 0 90", "line 0,0 1,1", "text 0,0 hello world")
	txt := intp.last[0].Proxy.(*draft.Text)
	assert.Equal(t, []string{"hello world"}, txt.Text)
}

func TestUsageAndErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.cli")
	defer teardown()
	//
	intp := NewIntp(document.New("cli"))
	_, err := intp.Execute("rect 4")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(core.UserMessage(err), "usage: rect"))
	_, err = intp.Execute("frobnicate")
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = intp.Execute("move 1,0 NoSuchObject")
	assert.Equal(t, core.EMISSING, core.Code(err))
	quit, err := intp.Execute("quit")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestPreferences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.cli")
	defer teardown()
	//
	regs := parameters.Global()
	regs.Begingroup()
	defer regs.Endgroup()
	intp := NewIntp(document.New("cli"))
	run(t, intp, "set precision 3")
	assert.Equal(t, 3, regs.Int(parameters.Precision))
	_, err := intp.Execute("set nosuchkey 1")
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestExportCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.cli")
	defer teardown()
	//
	dir := t.TempDir()
	intp := NewIntp(document.New("cli"))
	svgfile := filepath.Join(dir, "out.svg")
	dxffile := filepath.Join(dir, "out.dxf")
	run(t, intp, "line 0,0 10,0", "svg "+svgfile, "dxf "+dxffile)
	b, err := os.ReadFile(svgfile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")
	b, err = os.ReadFile(dxffile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "LINE")
}
