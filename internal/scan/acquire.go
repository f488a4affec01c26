// Package scan drives the scanner collaborator: single acquisitions, the
// trim policy for duplex tails, and the interactive multi-batch session.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inkfold/scanforge/internal/device"
	"github.com/inkfold/scanforge/internal/logging"
	"github.com/inkfold/scanforge/internal/naming"
	"github.com/inkfold/scanforge/internal/stage"
)

// Fatal acquisition faults.
var (
	// ErrNoOutput means an acquisition attempt produced nothing.
	ErrNoOutput = errors.New("expected output files from scanner, found nothing")
	// ErrTrimSingle means trim was requested on a single-page scan.
	ErrTrimSingle = errors.New("cannot trim the only file scanned")
	// ErrAborted is a user-initiated abort from the batch menu.
	ErrAborted = errors.New("abort by user request")
)

// Acquirer performs one scanner invocation at a time and reads back what it
// produced. Exactly one external process runs at any moment.
type Acquirer struct {
	Scanner *device.Scanner
	Runner  stage.Runner
	Log     *logging.Logger
	DryRun  bool
}

// Base resolves the acquisition base path for the scanner's output format.
func (a *Acquirer) Base(outputName string) string {
	return naming.WithExt(outputName, a.Scanner.Filetype)
}

// assertPrototype checks the placeholder invariant: an ADF prototype must
// carry the page marker, a flatbed prototype must not. A mismatch is a
// programming fault, not a user error.
func (a *Acquirer) assertPrototype(prototype string) error {
	if a.Scanner.IsADF() != naming.HasPlaceholder(prototype) {
		return fmt.Errorf("internal: prototype %q does not match source arity", prototype)
	}
	return nil
}

// Exists reports whether output from a previous acquisition is present.
// For ADF prototypes only page 1 is probed; higher stale indices without a
// page 1 do not count as existing output.
func (a *Acquirer) Exists(prototype string) (bool, error) {
	if err := a.assertPrototype(prototype); err != nil {
		return false, err
	}
	path := prototype
	if a.Scanner.IsADF() {
		path = naming.PageIndexPath(prototype, 1)
	}
	_, err := os.Stat(path)
	return err == nil, nil
}

// Enumerate returns the produced file set: the contiguous page run from
// index 1 for ADF (stopping at the first gap, ignoring stale higher
// indices), or the literal path for flatbed.
func (a *Acquirer) Enumerate(prototype string) ([]string, error) {
	if err := a.assertPrototype(prototype); err != nil {
		return nil, err
	}
	if !a.Scanner.IsADF() {
		if _, err := os.Stat(prototype); err != nil {
			return nil, nil
		}
		return []string{prototype}, nil
	}

	var files []string
	for index := 1; ; index++ {
		path := naming.PageIndexPath(prototype, index)
		if _, err := os.Stat(path); err != nil {
			break
		}
		files = append(files, path)
	}
	return files, nil
}

// Acquire performs one acquisition against base: scan if nothing exists yet
// or forceRescan is set, then enumerate. The returned scanned flag reports
// whether the scanner actually ran; reused cached output must never be
// trimmed, so callers pass it on to ApplyTrim.
func (a *Acquirer) Acquire(ctx context.Context, base string, forceRescan bool) (files []string, scanned bool, err error) {
	prototype := base
	if a.Scanner.IsADF() {
		prototype = naming.AppendTag(base, naming.Placeholder)
	}

	exists, err := a.Exists(prototype)
	if err != nil {
		return nil, false, err
	}

	if !exists || forceRescan {
		a.Log.Info("Scan from %s", a.Scanner.Name())
		if err := a.scanOnce(ctx, prototype); err != nil {
			return nil, false, err
		}
		scanned = true
	}

	files, err = a.Enumerate(prototype)
	if err != nil {
		return nil, false, err
	}
	if len(files) == 0 {
		if a.DryRun {
			// Nothing was spawned, so synthesize the minimal set the
			// planned scan would produce and keep computing names.
			return []string{naming.PageIndexPath(prototype, 1)}, scanned, nil
		}
		return nil, false, ErrNoOutput
	}
	return files, scanned, nil
}

// scanOnce spawns a single scanner invocation. Flatbed scans write image
// data to stdout, which is redirected into the output path; ADF scans get
// the batch pattern on the command line.
func (a *Acquirer) scanOnce(ctx context.Context, prototype string) error {
	argv, err := a.Scanner.Command(prototype)
	if err != nil {
		return err
	}

	if a.Scanner.IsADF() {
		a.Log.Exec("%s", strings.Join(argv, " "))
		if a.DryRun {
			return nil
		}
		return a.run(ctx, argv, nil)
	}

	a.Log.Exec("%s > %s", strings.Join(argv, " "), prototype)
	if a.DryRun {
		return nil
	}
	out, err := os.Create(prototype)
	if err != nil {
		return err
	}
	defer out.Close()
	return a.run(ctx, argv, out)
}

// run executes argv and surfaces the tool's stderr verbatim on failure.
func (a *Acquirer) run(ctx context.Context, argv []string, stdout io.Writer) error {
	res := a.Runner.Run(ctx, argv, stdout)
	if res.Err != nil {
		logStderr(a.Log, res.Stderr)
		return fmt.Errorf("%s failed: %w", argv[0], res.Err)
	}
	return nil
}

// logStderr prints a failing tool's captured output line by line.
func logStderr(log *logging.Logger, stderr string) {
	if strings.TrimSpace(stderr) == "" {
		return
	}
	log.Error("Error:")
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		log.Error("  %s", line)
	}
}
