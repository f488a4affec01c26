// Package config holds runtime configuration: defaults, CLI flag parsing,
// and validation. Scanner geometry choices (papersize, mode, resolution,
// source) are only reported here when out of range; they become fatal at the
// point a command actually needs them, so the device package owns the
// authoritative tables.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Filter names accepted by --filter.
const (
	FilterUnpaper     = "unpaper"
	FilterImageMagick = "imagemagick"
	FilterTesseract   = "tesseract"
	FilterGhostscript = "ghostscript"
)

// FilterOrder fixes execution order independent of flag order: unpaper
// feeds convert, convert feeds tesseract, tesseract feeds gs.
var FilterOrder = []string{
	FilterUnpaper,
	FilterImageMagick,
	FilterTesseract,
	FilterGhostscript,
}

// Clean level thresholds. Levels are cumulative: each level includes the
// deletions of the levels below it.
const (
	CleanNothing       = 0 // Keep every file.
	CleanIntermediates = 1 // Delete intermediate stage files.
	CleanInputs        = 2 // Additionally delete the original scan set.
	CleanForceRescan   = 3 // Additionally force a fresh scan over cached output.
)

// Config holds all runtime settings. Populated by [DefaultConfig], then
// mutated by [ParseFlags] before being passed (by pointer) to packages that
// need it.
type Config struct {
	// Output (positional, optional). Empty means deliverables go to a
	// temporary holding area and are named interactively afterwards.
	OutputName string

	// Scanner selection.
	Backend string // Registered device backend. Default: "brother".
	Device  string // Device identifier override (e.g. "brother4:net1;dev0").

	// Scan geometry. Validated against the device's choice tables.
	Papersize  string // Default: "a4".
	Mode       string // Empty: device default.
	Resolution string // Default: "300".
	Source     string // Empty: device default (auto).

	// Behavior flags.
	DryRun     bool
	CleanLevel int  // 0-3, incremented per --clean occurrence.
	Verify     bool // Preview deliverables with an external viewer.
	Batch      bool // Interactive multi-batch acquisition loop.
	TrimLast   bool // Discard last scanned page (duplex tail).
	Separate   bool // Keep many-to-one stages per-file instead.
	Auto       bool // Force the recommended filter subset.

	// Pipeline filters, deduplicated, in flag order. Execution order is
	// fixed by FilterOrder regardless.
	Filters []string

	// Per-filter sub-options.
	Language    string // tesseract input language. Default: "deu".
	IMProfile   string // imagemagick postprocessing profile.
	IMQuality   string // imagemagick output quality.
	GSProfile   string // ghostscript compression profile. Empty: "high".
	GSBenchmark bool   // Render every ghostscript profile for comparison.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional append log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Backend:    "brother",
		Papersize:  "a4",
		Resolution: "300",
		Language:   "deu",
		ColorMode:  ColorAuto,
	}
}

// HasFilter reports whether name was selected (directly or via --auto).
func (c *Config) HasFilter(name string) bool {
	for _, f := range c.Filters {
		if f == name {
			return true
		}
	}
	return false
}

// AddFilter appends name unless already present.
func (c *Config) AddFilter(name string) {
	if !c.HasFilter(name) {
		c.Filters = append(c.Filters, name)
	}
}

// Validate checks the fields config itself is authoritative for: the color
// mode, the clean level range, and filter names. Scanner geometry values are
// deliberately not checked here (see package comment).
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CleanLevel < CleanNothing || c.CleanLevel > CleanForceRescan {
		return fmt.Errorf("clean level %d out of range (0-3)", c.CleanLevel)
	}

	for _, f := range c.Filters {
		if !knownFilter(f) {
			return fmt.Errorf("unknown filter %q (use one of %s)",
				f, strings.Join(FilterOrder, ", "))
		}
	}
	return nil
}

func knownFilter(name string) bool {
	for _, f := range FilterOrder {
		if f == name {
			return true
		}
	}
	return false
}

// ApplyAuto expands --auto into its fixed filter subset and raises the
// minimum clean level, then resolves the unpaper implication: unpaper emits
// PNM, and convert with default options turns that back into a lossless PNG
// the later stages can read.
func (c *Config) ApplyAuto() {
	if c.Auto {
		c.AddFilter(FilterTesseract)
		c.AddFilter(FilterGhostscript)
		if c.CleanLevel < CleanIntermediates {
			c.CleanLevel = CleanIntermediates
		}
	}
	if c.HasFilter(FilterUnpaper) {
		c.AddFilter(FilterImageMagick)
	}
}

// OrderedFilters returns the selected filters in fixed execution order.
func (c *Config) OrderedFilters() []string {
	var out []string
	for _, f := range FilterOrder {
		if c.HasFilter(f) {
			out = append(out, f)
		}
	}
	return out
}
