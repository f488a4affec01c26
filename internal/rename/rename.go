// Package rename drives the interactive naming loop at the end of a run:
// each deliverable is shown in an external viewer while the user types its
// final name, with filesystem completion on the prompt.
package rename

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/inkfold/scanforge/internal/logging"
	"github.com/inkfold/scanforge/internal/naming"
	"github.com/inkfold/scanforge/internal/term"
)

// Starter launches a viewer process without waiting for it and returns a
// stop function. The single implementation outside tests is ExecStarter.
type Starter interface {
	Start(argv []string) (stop func(), err error)
}

// ExecStarter spawns the viewer via os/exec and kills it on stop.
type ExecStarter struct{}

func (ExecStarter) Start(argv []string) (func(), error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}, nil
}

// viewerFor picks the preview program by file type.
func viewerFor(path string) string {
	if naming.HasExt(path, "pdf") {
		return "evince"
	}
	return "exo-open"
}

// Renamer runs the per-deliverable rename conversation.
type Renamer struct {
	Prompter term.Prompter
	Starter  Starter
	Log      *logging.Logger
	Preview  bool // Show each file in a viewer while its prompt is open.
	DryRun   bool
}

// Rename walks the deliverables and returns how many were given a new
// name. Empty input keeps a file under its current name; a taken target
// name reports the collision and asks again. With Preview set, a viewer
// stays open exactly as long as its file's prompt.
func (r *Renamer) Rename(files []string) (int, error) {
	renamed := 0
	for _, file := range files {
		stop := func() {}
		if r.Preview {
			var err error
			stop, err = r.preview(file)
			if err != nil {
				r.Log.Warn("Cannot preview %s: %v", file, err)
				stop = func() {}
			}
		}

		moved, err := r.renameOne(file)
		stop()
		if err != nil {
			return renamed, err
		}
		if moved {
			renamed++
		}
	}
	return renamed, nil
}

func (r *Renamer) renameOne(file string) (bool, error) {
	for {
		answer, err := r.Prompter.Prompt(
			fmt.Sprintf("New name for %s (empty keeps it)", file))
		if err != nil {
			return false, err
		}
		if answer == "" {
			return false, nil
		}

		target := naming.RenameTarget(file, answer)
		if _, err := os.Stat(target); err == nil {
			r.Log.Error("%s already exists, pick another name", target)
			continue
		}

		r.Log.Exec("mv %s %s", file, target)
		if !r.DryRun {
			if err := os.Rename(file, target); err != nil {
				return false, err
			}
		}
		return true, nil
	}
}

// Verify shows each deliverable and waits for Enter before moving on. Used
// when the final name is already fixed and the user only wants to inspect
// the result.
func (r *Renamer) Verify(files []string) error {
	for _, file := range files {
		stop, err := r.preview(file)
		if err != nil {
			r.Log.Warn("Cannot preview %s: %v", file, err)
			continue
		}
		_, err = r.Prompter.Prompt(fmt.Sprintf("Viewing %s, press enter to continue", file))
		stop()
		if err != nil {
			return err
		}
	}
	return nil
}

// preview opens file in the matching viewer. Dry runs echo the command and
// spawn nothing.
func (r *Renamer) preview(file string) (func(), error) {
	argv := []string{viewerFor(file), file}
	r.Log.Exec("%s", strings.Join(argv, " "))
	if r.DryRun {
		return func() {}, nil
	}
	return r.Starter.Start(argv)
}

// Finish settles the holding directory after the rename loop: fully drained
// and cleanup at input level or higher removes it, anything else reports
// where the leftovers live.
func (r *Renamer) Finish(dir string, total, renamed, clean int) error {
	if renamed == total && clean >= 2 {
		r.Log.Exec("rm -r %s", dir)
		if !r.DryRun {
			return os.RemoveAll(dir)
		}
		return nil
	}
	r.Log.Info("Remaining files are kept in %s", dir)
	return nil
}
