// Package stage wraps the external transformation tools as pipeline stages
// with declared input/output arity and a build+run contract. The pipeline
// engine only sees the Stage interface; everything binary-specific (argv
// construction, option tables) lives here.
package stage

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Stage is one external transformation step. Name doubles as the binary
// invoked and as the tag appended to file names when the stage is applied.
type Stage interface {
	Name() string
	Filetype() string
	AcceptsMultiple() bool
	ProducesMultiple() bool

	// Command builds the argv for one invocation. Stages that accept
	// multiple inputs receive the whole current file set; all others are
	// invoked once per file with a single-element slice.
	Command(inputs []string, output string) ([]string, error)
}

// Invocation is one concrete external command with the output path it
// produces. Used for side outputs such as the ghostscript profile
// benchmark.
type Invocation struct {
	Argv   []string
	Output string
}

// Benchmarker is implemented by stages that render comparison side outputs
// before their main invocation.
type Benchmarker interface {
	BenchmarkInvocations(inputs []string, output string) ([]Invocation, error)
}

// ValidateArity rejects stages configured with incompatible arities.
// A stage taking multiple inputs must collapse them (many-to-one only);
// many-to-many has no defined output naming.
func ValidateArity(s Stage) error {
	if s.AcceptsMultiple() && s.ProducesMultiple() {
		return fmt.Errorf("stage %s: accepts multiple inputs and produces multiple outputs", s.Name())
	}
	return nil
}

// CheckBinary verifies the stage's executable is on PATH. Missing
// executables abort the whole run before any file is touched.
func CheckBinary(s Stage) error {
	if _, err := exec.LookPath(s.Name()); err != nil {
		return fmt.Errorf("cannot find executable %s", s.Name())
	}
	return nil
}

// Option is an enumerated choice table: a value selects a fixed argv
// fragment. An empty value falls back to the default; an empty default
// selects nothing.
type Option struct {
	Default string
	Choices map[string][]string
}

// Args resolves value against the table. Unknown values are an error that
// names the legal set, raised only here, at the point of use.
func (o Option) Args(value string) ([]string, error) {
	if value == "" {
		if o.Default == "" {
			return nil, nil
		}
		value = o.Default
	}
	args, ok := o.Choices[value]
	if !ok {
		return nil, fmt.Errorf("unknown option %q, require one of [%s]",
			value, strings.Join(o.Names(), " "))
	}
	return append([]string(nil), args...), nil
}

// Valid reports whether value resolves (empty counts as the default).
func (o Option) Valid(value string) bool {
	if value == "" {
		return true
	}
	_, ok := o.Choices[value]
	return ok
}

// Names returns the sorted choice names, for prompts and error messages.
func (o Option) Names() []string {
	names := make([]string, 0, len(o.Choices))
	for name := range o.Choices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
