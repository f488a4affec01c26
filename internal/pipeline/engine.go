// Package pipeline runs the acquired file set through the configured stage
// chain, one external process at a time, and moves the survivors to their
// final names. Intermediate file names carry the full processing history as
// appended tags; the engine only sheds them in the last step.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/inkfold/scanforge/internal/logging"
	"github.com/inkfold/scanforge/internal/naming"
	"github.com/inkfold/scanforge/internal/stage"
)

// Engine executes a fixed stage chain synchronously.
type Engine struct {
	Stages []stage.Stage
	Runner stage.Runner
	Log    *logging.Logger
	DryRun bool
	Clean  int
}

// Run processes files through every stage in order and returns the
// deliverable paths. With no stages configured the acquired set passes
// through unrenamed. Cleanup behavior by level:
//
//	1+  after each stage past the first, delete that stage's inputs
//	2+  additionally delete the original scan set at the end, provided it
//	    is fully disjoint from the deliverables
func (e *Engine) Run(ctx context.Context, files []string, outputName string) ([]string, error) {
	if len(e.Stages) == 0 {
		return files, nil
	}

	current := files
	for i, st := range e.Stages {
		next, err := e.runStage(ctx, st, current)
		if err != nil {
			return nil, err
		}
		if e.Clean > 0 && i >= 1 {
			if err := e.removeAll(current); err != nil {
				return nil, err
			}
		}
		current = next
	}

	deliverables, err := e.deliver(current, outputName)
	if err != nil {
		return nil, err
	}

	if e.Clean >= 2 {
		if err := e.cleanOriginals(files, deliverables); err != nil {
			return nil, err
		}
	}
	return deliverables, nil
}

// runStage applies one stage to the current file set. Many-to-one stages
// collapse everything into a single output named after the first input with
// its page index removed; all others run once per file.
func (e *Engine) runStage(ctx context.Context, st stage.Stage, current []string) ([]string, error) {
	if st.AcceptsMultiple() {
		output := naming.ApplyStage(naming.StripPageIndex(current[0]), st.Name(), st.Filetype())
		if err := e.benchmark(ctx, st, current, output); err != nil {
			return nil, err
		}
		if err := e.invoke(ctx, st, current, output); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	next := make([]string, 0, len(current))
	for _, in := range current {
		output := naming.ApplyStage(in, st.Name(), st.Filetype())
		if err := e.invoke(ctx, st, []string{in}, output); err != nil {
			return nil, err
		}
		next = append(next, output)
	}
	return next, nil
}

// benchmark runs a stage's comparison side outputs, if it declares any.
func (e *Engine) benchmark(ctx context.Context, st stage.Stage, inputs []string, output string) error {
	b, ok := st.(stage.Benchmarker)
	if !ok {
		return nil
	}
	invs, err := b.BenchmarkInvocations(inputs, output)
	if err != nil {
		return err
	}
	for _, inv := range invs {
		if err := e.run(ctx, inv.Argv); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) invoke(ctx context.Context, st stage.Stage, inputs []string, output string) error {
	argv, err := st.Command(inputs, output)
	if err != nil {
		return err
	}
	return e.run(ctx, argv)
}

// run echoes and executes one external command, honoring dry run.
func (e *Engine) run(ctx context.Context, argv []string) error {
	e.Log.Exec("%s", strings.Join(argv, " "))
	if e.DryRun {
		return nil
	}
	res := e.Runner.Run(ctx, argv, nil)
	if res.Err != nil {
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			e.Log.Error("Error:")
			for _, line := range strings.Split(msg, "\n") {
				e.Log.Error("  %s", line)
			}
		}
		return fmt.Errorf("%s failed: %w", argv[0], res.Err)
	}
	return nil
}

// deliver moves the surviving files to their final names, shedding all
// accumulated tags.
func (e *Engine) deliver(current []string, outputName string) ([]string, error) {
	ft := e.Stages[len(e.Stages)-1].Filetype()
	out := make([]string, 0, len(current))
	for i, file := range current {
		target := naming.DeliverablePath(outputName, i+1, len(current), ft)
		if file != target {
			e.Log.Exec("mv %s %s", file, target)
			if !e.DryRun {
				if err := os.Rename(file, target); err != nil {
					return nil, err
				}
			}
		}
		out = append(out, target)
	}
	return out, nil
}

// cleanOriginals deletes the original scan set once the deliverables are in
// place. A deliverable that is itself part of the scan set means the tag
// arithmetic went wrong somewhere, so any overlap is fatal.
func (e *Engine) cleanOriginals(originals, deliverables []string) error {
	if equalSets(originals, deliverables) {
		return nil
	}
	kept := make(map[string]bool, len(deliverables))
	for _, d := range deliverables {
		kept[d] = true
	}
	for _, f := range originals {
		if kept[f] {
			return fmt.Errorf("internal: deliverable %s is part of the original scan set", f)
		}
	}
	return e.removeAll(originals)
}

func (e *Engine) removeAll(files []string) error {
	for _, f := range files {
		e.Log.Exec("rm %s", f)
		if e.DryRun {
			continue
		}
		if err := os.Remove(f); err != nil {
			return err
		}
	}
	return nil
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
	}
	return true
}
