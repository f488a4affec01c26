package stage

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// Result holds the outcome of a single external invocation. Stderr is
// always captured so a failing tool's output can be surfaced verbatim.
type Result struct {
	Stderr string
	Err    error
}

// Runner executes one external command to completion. The single
// implementation outside tests is ExecRunner; scan and pipeline code depend
// on the interface so tests can fake tool behavior on the filesystem.
type Runner interface {
	// Run executes argv and waits. When stdout is non-nil the child's
	// standard output is redirected there (flatbed scans write image data
	// to stdout).
	Run(ctx context.Context, argv []string, stdout io.Writer) Result
}

// ExecRunner runs commands via os/exec, one at a time, synchronously.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, argv []string, stdout io.Writer) Result {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf
	if stdout != nil {
		cmd.Stdout = stdout
	}

	err := cmd.Run()
	return Result{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
