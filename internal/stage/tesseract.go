package stage

import (
	"fmt"
	"strings"
)

// Tesseract creates a searchable PDF from a scanned image using OCR.
type Tesseract struct {
	Language string
}

func (Tesseract) Name() string           { return "tesseract" }
func (Tesseract) Filetype() string       { return "pdf" }
func (Tesseract) AcceptsMultiple() bool  { return false }
func (Tesseract) ProducesMultiple() bool { return false }

func (t Tesseract) Command(inputs []string, output string) ([]string, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("tesseract: want exactly one input, got %d", len(inputs))
	}

	// tesseract appends ".pdf" itself, so hand it the bare output stem.
	output = strings.TrimSuffix(output, "."+t.Filetype())

	lang := t.Language
	if lang == "" {
		lang = "deu"
	}

	return []string{
		t.Name(), inputs[0], output,
		"-l", lang,
		// The combined legacy+LSTM engine segfaults on some inputs, so
		// pin the neural-net engine.
		"--oem", "1",
		t.Filetype(),
	}, nil
}
