package term

import (
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// Prompter reads one line of user input. The batch menu and the rename loop
// depend on this interface only, so tests can script the conversation.
type Prompter interface {
	// Prompt displays msg and blocks until the user answers or interrupts.
	Prompt(msg string) (string, error)
	// Close releases terminal state. Safe to call more than once.
	Close() error
}

// LinePrompter is the production Prompter backed by liner, giving line
// editing and filesystem tab-completion on the rename prompt.
type LinePrompter struct {
	state *liner.State
}

// NewLinePrompter creates a prompter with filesystem completion enabled.
func NewLinePrompter() *LinePrompter {
	s := liner.NewLiner()
	s.SetCtrlCAborts(true)
	s.SetCompleter(completePath)
	return &LinePrompter{state: s}
}

// Prompt shows the green input marker used for all interactive questions.
func (p *LinePrompter) Prompt(msg string) (string, error) {
	line, err := p.state.Prompt(Green + "<-" + NC + " " + msg + ": ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Close restores the terminal mode.
func (p *LinePrompter) Close() error {
	if p.state == nil {
		return nil
	}
	p.state.Close()
	p.state = nil
	return nil
}

// completePath expands a partial path against the filesystem, one candidate
// per glob match, with directories kept open for further completion.
func completePath(text string) []string {
	matches, err := filepath.Glob(text + "*")
	if err != nil {
		return nil
	}
	return matches
}
