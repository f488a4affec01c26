// Package device wraps scanner backends behind capability-tagged
// descriptors: each device carries its own papersize, mode, resolution, and
// source choice tables, and knows how to build a scanimage invocation.
package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkfold/scanforge/internal/paper"
	"github.com/inkfold/scanforge/internal/stage"
)

// ScanConfig selects one value from each of the device's choice tables.
// Empty fields fall back to the device default. The value is immutable;
// batch-menu edits replace it wholesale via the With* methods.
type ScanConfig struct {
	Papersize  string
	Mode       string
	Resolution string
	Source     string
}

// WithSource returns a copy with the source replaced.
func (c ScanConfig) WithSource(source string) ScanConfig {
	c.Source = source
	return c
}

// WithPapersize returns a copy with the papersize replaced.
func (c ScanConfig) WithPapersize(size string) ScanConfig {
	c.Papersize = size
	return c
}

// Descriptor is the static capability table for one scanner model.
type Descriptor struct {
	Name    string // Human-readable model name.
	Backend string // Registry key.
	Device  string // Default SANE device identifier.

	Papersizes       map[string]paper.Size
	DefaultPapersize string
	Modes            stage.Option
	Resolutions      stage.Option
	Sources          stage.Option
}

// Scanner is one configured scanning collaborator: a descriptor plus the
// live identifier, output format, and scan configuration.
type Scanner struct {
	desc *Descriptor

	Device   string     // Identifier actually passed to scanimage.
	Filetype string     // Output format: tiff, or pnm when unpaper runs.
	Config   ScanConfig // Current selection, replaced on menu edits.
}

// Binary is the executable every scanner backend shells out to.
const Binary = "scanimage"

// registry maps backend names to descriptors. Ordered output comes from
// Backends.
var registry = map[string]*Descriptor{}

func register(d *Descriptor) { registry[d.Backend] = d }

// Backends returns the sorted registered backend names.
func Backends() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a scanner for the named backend with TIFF output and an
// empty configuration (device defaults apply).
func New(backend string) (*Scanner, error) {
	d, ok := registry[backend]
	if !ok {
		return nil, fmt.Errorf("unknown scanner backend %q (use one of %s)",
			backend, strings.Join(Backends(), ", "))
	}
	return &Scanner{
		desc:     d,
		Device:   d.Device,
		Filetype: "tiff",
	}, nil
}

// Name returns the human-readable model name.
func (s *Scanner) Name() string { return s.desc.Name }

// IsADF reports whether the configured source feeds pages automatically.
// Only an explicit flatbed selection is single-page; the device default
// (auto) lets the feeder win.
func (s *Scanner) IsADF() bool { return s.Config.Source != "flatbed" }

// SourceNames returns the legal source values for prompts.
func (s *Scanner) SourceNames() []string { return s.desc.Sources.Names() }

// PapersizeNames returns the legal papersize values for prompts.
func (s *Scanner) PapersizeNames() []string {
	names := make([]string, 0, len(s.desc.Papersizes))
	for name := range s.desc.Papersizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidSource reports whether value resolves against the source table.
func (s *Scanner) ValidSource(value string) bool { return s.desc.Sources.Valid(value) }

// ValidPapersize reports whether value resolves against the papersize table.
func (s *Scanner) ValidPapersize(value string) bool {
	if value == "" {
		return true
	}
	_, ok := s.desc.Papersizes[value]
	return ok
}

// CheckConfig reports every configured value that is outside its choice
// table, each with the legal set. Reported values only become fatal when a
// command is built.
func (s *Scanner) CheckConfig() []string {
	var warnings []string
	if !s.ValidPapersize(s.Config.Papersize) {
		warnings = append(warnings, fmt.Sprintf("papersize %q not supported (use one of %s)",
			s.Config.Papersize, strings.Join(s.PapersizeNames(), ", ")))
	}
	if !s.desc.Modes.Valid(s.Config.Mode) {
		warnings = append(warnings, fmt.Sprintf("mode %q not supported (use one of %s)",
			s.Config.Mode, strings.Join(s.desc.Modes.Names(), ", ")))
	}
	if !s.desc.Resolutions.Valid(s.Config.Resolution) {
		warnings = append(warnings, fmt.Sprintf("resolution %q not supported (use one of %s)",
			s.Config.Resolution, strings.Join(s.desc.Resolutions.Names(), ", ")))
	}
	if !s.desc.Sources.Valid(s.Config.Source) {
		warnings = append(warnings, fmt.Sprintf("source %q not supported (use one of %s)",
			s.Config.Source, strings.Join(s.SourceNames(), ", ")))
	}
	return warnings
}

// Command builds the scanimage argv for one acquisition. In ADF mode the
// output is passed as a printf-style --batch pattern; in flatbed mode the
// caller redirects stdout into the output file instead.
func (s *Scanner) Command(output string) ([]string, error) {
	argv := []string{
		Binary,
		"--device-name", s.Device,
		"--format", s.Filetype,
	}
	if s.IsADF() {
		argv = append(argv, "--batch="+output)
	}

	size, err := s.papersizeArgs()
	if err != nil {
		return nil, err
	}
	argv = append(argv, size...)

	for _, opt := range []struct {
		table stage.Option
		value string
	}{
		{s.desc.Modes, s.Config.Mode},
		{s.desc.Resolutions, s.Config.Resolution},
		{s.desc.Sources, s.Config.Source},
	} {
		args, err := opt.table.Args(opt.value)
		if err != nil {
			return nil, err
		}
		argv = append(argv, args...)
	}
	return argv, nil
}

// papersizeArgs resolves the papersize selection into scan-region flags.
func (s *Scanner) papersizeArgs() ([]string, error) {
	value := s.Config.Papersize
	if value == "" {
		value = s.desc.DefaultPapersize
	}
	if value == "" {
		return nil, nil
	}
	size, ok := s.desc.Papersizes[value]
	if !ok {
		return nil, fmt.Errorf("unknown option %q, require one of [%s]",
			value, strings.Join(s.PapersizeNames(), " "))
	}
	return geometryArgs(size.Geometry()), nil
}

// geometryArgs converts a scan region into scanimage flags. Offsets are
// omitted when zero.
func geometryArgs(g paper.Geometry) []string {
	args := []string{
		"-x", fmt.Sprintf("%d", g.W),
		"-y", fmt.Sprintf("%d", g.H),
	}
	if g.X != 0 {
		args = append(args, "-l", fmt.Sprintf("%d", g.X))
	}
	if g.Y != 0 {
		args = append(args, "-t", fmt.Sprintf("%d", g.Y))
	}
	return args
}
