// Package units implements lengths, angles and their textual representation.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package units

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/draft/core/parameters"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Lengths are float64 values in millimetres. Some pre-defined units:
const (
	UM = 0.001
	MM = 1.0
	CM = 10.0
	M  = 1000.0
	IN = 25.4
	FT = 304.8
)

var lengthPattern = regexp.MustCompile(`^\s*([+\-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+\-]?[0-9]+)?)\s*(mm|cm|m|um|µm|in|ft|"|')?\s*$`)

// ErrFormat signals a malformed length string.
var ErrFormat = errors.New("format error parsing length")

// ParseLength parses a string to a length in millimetres.
// A number without unit is taken as millimetres.
func ParseLength(s string) (float64, error) {
	d := lengthPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, ErrFormat
	}
	scale := MM
	if len(d) > 2 {
		switch strings.ToLower(d[2]) {
		case "mm", "":
			scale = MM
		case "cm":
			scale = CM
		case "m":
			scale = M
		case "um", "µm":
			scale = UM
		case "in", `"`:
			scale = IN
		case "ft", "'":
			scale = FT
		default:
			return 0, ErrFormat
		}
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, ErrFormat
	}
	return n * scale, nil
}

// --- Angles ----------------------------------------------------------------

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDeg maps an angle in degrees to [0, 360).
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// NormalizeRad maps an angle in radians to [0, 2π).
func NormalizeRad(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// --- Formatting ------------------------------------------------------------

// Formatter produces unit-formatted strings for annotations.
type Formatter struct {
	Precision int  // number of decimals
	ShowUnit  bool // append unit suffix
	printer   *message.Printer
}

// NewFormatter creates a formatter with a given number of decimals.
func NewFormatter(precision int, showUnit bool) *Formatter {
	if precision < 0 {
		precision = 0
	}
	return &Formatter{
		Precision: precision,
		ShowUnit:  showUnit,
		printer:   message.NewPrinter(language.English),
	}
}

// FromPreferences creates a formatter from the `dimPrecision` and
// `showUnit` preferences.
func FromPreferences(regs *parameters.Registry) *Formatter {
	return NewFormatter(regs.Int(parameters.DimPrecision), regs.Bool(parameters.ShowUnit))
}

// Number formats a plain number, suppressing trailing zeros.
func (f *Formatter) Number(v float64) string {
	if math.Abs(v) < 0.5*math.Pow(10, -float64(f.Precision)) {
		v = 0
	}
	return f.printer.Sprint(number.Decimal(v,
		number.MaxFractionDigits(f.Precision),
		number.NoSeparator()))
}

// Length formats a length given in millimetres.
func (f *Formatter) Length(v float64) string {
	return f.withUnit(f.Number(v), " mm")
}

// Area formats an area given in square millimetres.
func (f *Formatter) Area(v float64) string {
	return f.withUnit(f.Number(v), " mm²")
}

// Volume formats a volume given in cubic millimetres.
func (f *Formatter) Volume(v float64) string {
	return f.withUnit(f.Number(v), " mm³")
}

// Angle formats an angle given in degrees.
func (f *Formatter) Angle(deg float64) string {
	return f.withUnit(f.Number(deg), "°")
}

func (f *Formatter) withUnit(s, unit string) string {
	if f.ShowUnit {
		return s + unit
	}
	return s
}
