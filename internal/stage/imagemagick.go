package stage

import "fmt"

// ImageMagick compresses and post-processes single images via convert.
//
// Not appropriate for PDFs: display size does not stay constant and any
// text layer is discarded. PDF compression is Ghostscript's job.
type ImageMagick struct {
	Profile string
	Quality string
}

// IMProfiles maps postprocessing profiles to convert arguments.
var IMProfiles = Option{
	Default: "original",
	Choices: map[string][]string{
		"original": {},
		"scan":     {"-normalize", "-level", "10%,90%", "-sharpen", "0x1"},
		"highlight": {
			"-normalize", "-selective-blur", "0x4+10%",
			"-level", "10%,90%", "-sharpen", "0x1",
			"-brightness-contrast", "0x25",
		},
	},
}

// IMQualities maps output quality presets to resample/depth/density
// arguments.
var IMQualities = Option{
	Default: "original",
	Choices: map[string][]string{
		"original": {},
		"xl":       {"-depth", "8", "-quality", "50%", "-density", "300x300"},
		"l":        {"-resample", "50%", "-depth", "8", "-quality", "50%", "-density", "150x150"},
		"m":        {"-resample", "37%", "-depth", "8", "-quality", "50%", "-density", "111x111"},
		"s":        {"-resample", "25%", "-depth", "8", "-quality", "50%", "-density", "75x75"},
		"xs":       {"-resample", "20%", "-depth", "8", "-quality", "50%", "-density", "60x60"},
		"xxs":      {"-resample", "15%", "-depth", "8", "-quality", "50%", "-density", "45x45"},
		"xxxs":     {"-resample", "10%", "-depth", "8", "-quality", "50%", "-density", "30x30"},
	},
}

func (ImageMagick) Name() string           { return "convert" }
func (ImageMagick) Filetype() string       { return "png" }
func (ImageMagick) AcceptsMultiple() bool  { return false }
func (ImageMagick) ProducesMultiple() bool { return false }

func (m ImageMagick) Command(inputs []string, output string) ([]string, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("convert: want exactly one input, got %d", len(inputs))
	}
	if inputs[0] == output {
		return nil, fmt.Errorf("convert: input and output are both %s", output)
	}

	profile, err := IMProfiles.Args(m.Profile)
	if err != nil {
		return nil, err
	}
	quality, err := IMQualities.Args(m.Quality)
	if err != nil {
		return nil, err
	}

	argv := []string{m.Name(), inputs[0]}
	argv = append(argv, profile...)
	argv = append(argv, quality...)
	return append(argv, output), nil
}
