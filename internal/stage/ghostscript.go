package stage

import (
	"github.com/inkfold/scanforge/internal/naming"
)

// Ghostscript compresses PDFs while preserving any text layer, which makes
// it the right follow-up to tesseract. It is the one many-to-one stage:
// all current pages collapse into a single PDF unless Separate is set.
//
// See https://www.ghostscript.com/doc/9.26/VectorDevices.htm for the
// meaning of the device settings in the profile table.
type Ghostscript struct {
	Profile   string
	Separate  bool // Compress per file instead of merging.
	Benchmark bool // Render every profile to a tagged side output first.
}

// GSProfiles maps compression profiles to pdfwrite arguments.
//
//	low:     gray,  100dpi
//	medium:  color, 125dpi
//	high:    color, 150dpi
//	extreme: color, 300dpi
var GSProfiles = Option{
	Default: "high",
	Choices: map[string][]string{
		"low": {
			"-dPDFSETTINGS=/ebook",
			"-dEmbedAllFonts=false",
			"-dConvertCMYKImagesToRGB=true",
			"-dColorImageResolution=100",
			"-dGrayImageResolution=100",
			"-dMonoImageResolution=100",
			"-sColorConversionStrategy=Gray",
			"-sColorConversionStrategyForImages=Gray",
		},
		"medium": {
			"-dPDFSETTINGS=/ebook",
			"-dEmbedAllFonts=false",
			"-dConvertCMYKImagesToRGB=true",
			"-dColorImageResolution=125",
			"-dGrayImageResolution=125",
			"-dMonoImageResolution=125",
		},
		"high": {
			"-dPDFSETTINGS=/ebook",
			"-dEmbedAllFonts=false",
			"-dColorImageResolution=150",
			"-dGrayImageResolution=150",
			"-dMonoImageResolution=150",
		},
		"extreme": {
			"-dPDFSETTINGS=/printer",
		},
	},
}

func (Ghostscript) Name() string            { return "gs" }
func (Ghostscript) Filetype() string        { return "pdf" }
func (g Ghostscript) AcceptsMultiple() bool { return !g.Separate }
func (Ghostscript) ProducesMultiple() bool  { return false }

func (g Ghostscript) Command(inputs []string, output string) ([]string, error) {
	return g.command(inputs, output, g.Profile)
}

func (g Ghostscript) command(inputs []string, output, profile string) ([]string, error) {
	argv := []string{
		g.Name(),
		"-dNOPAUSE",
		"-dSAFER",
		"-dQUIET",
		"-dBATCH",
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.7",
		"-sOutputFile=" + output,
	}
	args, err := GSProfiles.Args(profile)
	if err != nil {
		return nil, err
	}
	argv = append(argv, args...)
	return append(argv, inputs...), nil
}

// BenchmarkInvocations renders one tagged side output per profile so the
// results can be compared by eye. The configured profile's regular output
// is still produced afterwards by the normal Command path.
func (g Ghostscript) BenchmarkInvocations(inputs []string, output string) ([]Invocation, error) {
	if !g.Benchmark {
		return nil, nil
	}
	var out []Invocation
	for _, profile := range GSProfiles.Names() {
		side := naming.AppendTag(output, profile)
		argv, err := g.command(inputs, side, profile)
		if err != nil {
			return nil, err
		}
		out = append(out, Invocation{Argv: argv, Output: side})
	}
	return out, nil
}
