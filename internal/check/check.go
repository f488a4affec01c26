// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation (CheckDeps) for scanimage and the configured
// processing tools.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/inkfold/scanforge/internal/device"
	"github.com/inkfold/scanforge/internal/stage"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrScanimageNotFound = errors.New("scanimage not found on PATH")
	ErrStageToolNotFound = errors.New("processing tool not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// so that check stays dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// versionArgs maps each known tool to the flag that prints its version.
var versionArgs = map[string][]string{
	device.Binary: {"--version"},
	"unpaper":     {"--version"},
	"convert":     {"--version"},
	"tesseract":   {"--version"},
	"gs":          {"--version"},
	"evince":      {"--version"},
}

// CheckDeps fails fast when the scanner binary or any configured stage
// tool is missing. Runs before anything is scanned so a long acquisition
// cannot die halfway through the chain.
func CheckDeps(stages []stage.Stage) error {
	if _, err := exec.LookPath(device.Binary); err != nil {
		return ErrScanimageNotFound
	}
	for _, s := range stages {
		if err := stage.CheckBinary(s); err != nil {
			return fmt.Errorf("%w: %s", ErrStageToolNotFound, s.Name())
		}
	}
	return nil
}

// RunCheck runs the informational --check flow: availability and version of
// every known tool, plus the registered scanner backends. It does not stop
// on failure.
func RunCheck(log Logger) {
	log.Info("=== System Check ===")

	for _, tool := range []string{device.Binary, "unpaper", "convert", "tesseract", "gs", "evince"} {
		checkTool(log, tool)
	}

	log.Info("Scanner backends:")
	for _, backend := range device.Backends() {
		sc, err := device.New(backend)
		if err != nil {
			continue
		}
		log.Info("  %s (%s)", backend, sc.Name())
	}
}

// checkTool verifies one binary is on PATH and logs its version line.
func checkTool(log Logger, tool string) {
	if _, err := exec.LookPath(tool); err != nil {
		log.Error("%s not found", tool)
		return
	}
	out, err := exec.Command(tool, versionArgs[tool]...).CombinedOutput()
	if err != nil {
		log.Warn("%s found but version query failed: %v", tool, err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", tool, strings.TrimSpace(firstLine))
}
