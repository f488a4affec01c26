package stage

import "fmt"

// Unpaper removes artifacts typically produced by scanning (shadows, page
// borders, rotation). It reads and writes PNM, so the scanner is switched
// to PNM output whenever this stage is selected.
type Unpaper struct{}

func (Unpaper) Name() string           { return "unpaper" }
func (Unpaper) Filetype() string       { return "pnm" }
func (Unpaper) AcceptsMultiple() bool  { return false }
func (Unpaper) ProducesMultiple() bool { return false }

func (u Unpaper) Command(inputs []string, output string) ([]string, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("unpaper: want exactly one input, got %d", len(inputs))
	}
	// The black filter tends to eat dense scan content, keep it off.
	return []string{u.Name(), inputs[0], output, "--no-blackfilter"}, nil
}
