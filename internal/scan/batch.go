package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkfold/scanforge/internal/naming"
	"github.com/inkfold/scanforge/internal/term"
)

// State is the batch controller's position in its acquisition loop.
type State int

const (
	StateAcquiring State = iota
	StateMenu
	StateDone
	StateAborted
)

// menuChoices are the batch menu entries, matched by unambiguous prefix.
var menuChoices = []string{"source", "papersize", "continue", "finish", "abort"}

// Session is the interactive multi-batch acquisition loop:
// ACQUIRING -> MENU -> {ACQUIRING | DONE | ABORTED}. Every batch scans into
// a batch-tagged prototype so pages from distinct batches cannot collide,
// and the accumulated master list becomes the pipeline's initial input.
type Session struct {
	Acq      *Acquirer
	Prompter term.Prompter
	Force    bool // Force a fresh scan per batch (clean level 3).

	scannedAny bool
}

// Run drives the session until finish or abort. Scan configuration edits
// from the menu replace the scanner's live ScanConfig between batches.
func (s *Session) Run(ctx context.Context, base string) ([]string, error) {
	var (
		all       []string
		iteration int
	)
	s.scannedAny = false

	state := StateAcquiring
	for {
		switch state {
		case StateAcquiring:
			iteration++
			batchBase := naming.AppendTag(base, naming.BatchTag(iteration))
			files, didScan, err := s.Acq.Acquire(ctx, batchBase, s.Force)
			if err != nil {
				return nil, err
			}
			all = append(all, files...)
			s.scannedAny = s.scannedAny || didScan
			state = StateMenu

		case StateMenu:
			state = s.menu()

		case StateDone:
			if len(all) == 0 {
				return nil, ErrNoOutput
			}
			return all, nil

		case StateAborted:
			return nil, ErrAborted
		}
	}
}

// Scanned reports whether any batch in the last Run actually invoked the
// scanner (as opposed to reusing cached output). Valid after Run returns.
func (s *Session) Scanned() bool { return s.scannedAny }

// menu reads one action. Configuration edits and invalid input stay in the
// menu; prompt interruption counts as abort.
func (s *Session) menu() State {
	for {
		answer, err := s.Prompter.Prompt(
			"Select one of {source, papersize, continue, finish, abort}")
		if err != nil {
			return StateAborted
		}

		switch matchChoice(answer) {
		case "source":
			s.editSource()
		case "papersize":
			s.editPapersize()
		case "continue":
			return StateAcquiring
		case "finish":
			return StateDone
		case "abort":
			return StateAborted
		default:
			s.Acq.Log.Error("Invalid choice, try again.")
		}
	}
}

// matchChoice resolves answer to the unique menu entry it prefixes.
// Empty and ambiguous answers resolve to "".
func matchChoice(answer string) string {
	if answer == "" {
		return ""
	}
	var found string
	for _, choice := range menuChoices {
		if strings.HasPrefix(choice, answer) {
			if found != "" {
				return ""
			}
			found = choice
		}
	}
	return found
}

// editSource prompts for a new source and replaces the scanner config.
// Out-of-range answers are reported with the legal set and change nothing.
func (s *Session) editSource() {
	sc := s.Acq.Scanner
	answer, err := s.Prompter.Prompt(
		fmt.Sprintf("Select one of {%s}", strings.Join(sc.SourceNames(), ", ")))
	if err != nil {
		return
	}
	if !sc.ValidSource(answer) {
		s.Acq.Log.Error("Unknown source %q, keeping %q", answer, sc.Config.Source)
		return
	}
	sc.Config = sc.Config.WithSource(answer)
}

// editPapersize prompts for a new papersize and replaces the scanner
// config, with the same out-of-range handling as editSource.
func (s *Session) editPapersize() {
	sc := s.Acq.Scanner
	answer, err := s.Prompter.Prompt(
		fmt.Sprintf("Select one of {%s}", strings.Join(sc.PapersizeNames(), ", ")))
	if err != nil {
		return
	}
	if !sc.ValidPapersize(answer) {
		s.Acq.Log.Error("Unknown papersize %q, keeping %q", answer, sc.Config.Papersize)
		return
	}
	sc.Config = sc.Config.WithPapersize(answer)
}
