package units

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.core")
	defer teardown()
	//
	d, err := ParseLength("12mm")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12 {
		t.Errorf("(1) expected d to be 12mm, is %g", d)
	}
	//
	d, err = ParseLength("1.5 in")
	assert.NoError(t, err)
	assert.InDelta(t, 38.1, d, 1e-9)
	d, err = ParseLength("-3cm")
	assert.NoError(t, err)
	assert.InDelta(t, -30.0, d, 1e-9)
	d, err = ParseLength(".5")
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-9)
	_, err = ParseLength("12 furlong")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestAngles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.core")
	defer teardown()
	//
	assert.InDelta(t, 270.0, NormalizeDeg(-90), 1e-12)
	assert.InDelta(t, 0.0, NormalizeDeg(720), 1e-12)
	assert.InDelta(t, math.Pi, NormalizeRad(-math.Pi), 1e-12)
	assert.InDelta(t, math.Pi/2, Radians(90), 1e-12)
}

func TestFormatter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "draft.core")
	defer teardown()
	//
	f := NewFormatter(2, false)
	assert.Equal(t, "10", f.Number(10.0))
	assert.Equal(t, "7.85", f.Number(7.853981))
	assert.Equal(t, "0", f.Number(-0.0001))
	assert.Equal(t, "1234.5", f.Length(1234.5))
	f.ShowUnit = true
	assert.Equal(t, "10 mm", f.Length(10))
	assert.Equal(t, "800 mm²", f.Area(800))
	assert.Equal(t, "90°", f.Angle(90))
}
