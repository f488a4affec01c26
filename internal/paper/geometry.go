// Package paper defines scan geometries and the named paper size table.
//
// All dimensions are millimeters. Geometry values are immutable; devices
// filter the size table by what their scan bed can cover.
package paper

import "fmt"

// Geometry is a scannable rectangle: width and height at an offset from the
// scan bed origin.
type Geometry struct {
	W int
	H int
	X int
	Y int
}

// String formats as WxH+X+Y, matching scanimage's region notation.
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", g.W, g.H, g.X, g.Y)
}

// Covers reports whether other fits entirely within g at other's offset.
func (g Geometry) Covers(other Geometry) bool {
	return g.X <= other.X &&
		g.Y <= other.Y &&
		g.H+g.Y >= other.H+other.Y &&
		g.W+g.X >= other.W+other.X
}

// Size is a named paper size: a Geometry with zero offset.
type Size struct {
	W int
	H int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Geometry returns the size as a zero-offset scan region.
func (s Size) Geometry() Geometry { return Geometry{W: s.W, H: s.H} }

// Sizes maps lowercase size names to their dimensions. ISO A/B/C series
// plus the common North American sizes.
var Sizes = map[string]Size{
	// ISO paper sizes:
	"a0":  {841, 1189},
	"a1":  {594, 841},
	"a2":  {420, 594},
	"a3":  {297, 420},
	"a4":  {210, 297},
	"a5":  {148, 210},
	"a6":  {105, 148},
	"a7":  {74, 105},
	"a8":  {52, 74},
	"a9":  {37, 52},
	"a10": {26, 37},
	"b0":  {1414, 1000},
	"b1":  {1000, 707},
	"b1+": {1020, 720},
	"b2":  {707, 500},
	"b2+": {720, 520},
	"b3":  {500, 353},
	"b4":  {353, 250},
	"b5":  {250, 176},
	"b6":  {176, 125},
	"b7":  {125, 88},
	"b8":  {88, 62},
	"b9":  {62, 44},
	"b10": {44, 31},
	"c0":  {1297, 917},
	"c1":  {917, 648},
	"c2":  {648, 458},
	"c3":  {458, 324},
	"c4":  {324, 229},
	"c5":  {229, 162},
	"c6":  {162, 114},
	"c7":  {114, 81},
	"c8":  {81, 57},
	"c9":  {57, 40},
	"c10": {40, 28},

	// North American paper sizes:
	"ledger":  {432, 279},
	"legal":   {216, 356},
	"letter":  {216, 279},
	"ltr":     {216, 279},
	"tabloid": {279, 432},
}

// CoverableBy returns the names of all sizes that fit within bed, for
// building a per-device papersize choice table.
func CoverableBy(bed Geometry) map[string]Size {
	out := make(map[string]Size)
	for name, s := range Sizes {
		if bed.Covers(s.Geometry()) {
			out[name] = s
		}
	}
	return out
}
