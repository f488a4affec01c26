package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfold/scanforge/internal/config"
)

func TestOptionArgs(t *testing.T) {
	opt := Option{
		Default: "plain",
		Choices: map[string][]string{
			"plain": {},
			"fancy": {"--fancy", "on"},
		},
	}

	t.Run("empty value selects default", func(t *testing.T) {
		args, err := opt.Args("")
		require.NoError(t, err)
		assert.Empty(t, args)
	})

	t.Run("known value", func(t *testing.T) {
		args, err := opt.Args("fancy")
		require.NoError(t, err)
		assert.Equal(t, []string{"--fancy", "on"}, args)
	})

	t.Run("unknown value names the legal set", func(t *testing.T) {
		_, err := opt.Args("bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fancy")
		assert.Contains(t, err.Error(), "plain")
	})

	t.Run("no default selects nothing", func(t *testing.T) {
		args, err := Option{Choices: map[string][]string{"x": {"-x"}}}.Args("")
		require.NoError(t, err)
		assert.Nil(t, args)
	})
}

func TestValidateArity(t *testing.T) {
	assert.NoError(t, ValidateArity(Unpaper{}))
	assert.NoError(t, ValidateArity(Ghostscript{}))
	assert.NoError(t, ValidateArity(Ghostscript{Separate: true}))
	assert.Error(t, ValidateArity(badStage{}))
}

// badStage claims fan-in and fan-out at once.
type badStage struct{}

func (badStage) Name() string           { return "bad" }
func (badStage) Filetype() string       { return "x" }
func (badStage) AcceptsMultiple() bool  { return true }
func (badStage) ProducesMultiple() bool { return true }

func (badStage) Command([]string, string) ([]string, error) { return nil, nil }

func TestUnpaperCommand(t *testing.T) {
	argv, err := Unpaper{}.Command([]string{"scan.pnm"}, "scan.unpaper.pnm")
	require.NoError(t, err)
	assert.Equal(t, []string{"unpaper", "scan.pnm", "scan.unpaper.pnm", "--no-blackfilter"}, argv)

	_, err = Unpaper{}.Command([]string{"a", "b"}, "out")
	assert.Error(t, err)
}

func TestImageMagickCommand(t *testing.T) {
	m := ImageMagick{Profile: "scan", Quality: "s"}
	argv, err := m.Command([]string{"in.tiff"}, "out.png")
	require.NoError(t, err)

	assert.Equal(t, "convert", argv[0])
	assert.Equal(t, "in.tiff", argv[1])
	assert.Equal(t, "out.png", argv[len(argv)-1])
	assert.Contains(t, argv, "-normalize")
	assert.Contains(t, argv, "-resample")

	_, err = ImageMagick{}.Command([]string{"same.png"}, "same.png")
	assert.Error(t, err, "input must not equal output")

	_, err = ImageMagick{Profile: "vivid"}.Command([]string{"in.tiff"}, "out.png")
	assert.Error(t, err, "unknown profile is fatal at command build")
}

func TestTesseractCommand(t *testing.T) {
	argv, err := Tesseract{Language: "eng"}.Command([]string{"scan.png"}, "scan.tesseract.pdf")
	require.NoError(t, err)

	// The output stem is passed without its extension; tesseract adds it.
	assert.Equal(t, []string{
		"tesseract", "scan.png", "scan.tesseract",
		"-l", "eng", "--oem", "1", "pdf",
	}, argv)
}

func TestGhostscriptCommand(t *testing.T) {
	gs := Ghostscript{}
	argv, err := gs.Command([]string{"a.pdf", "b.pdf", "c.pdf"}, "merged.pdf")
	require.NoError(t, err)

	assert.Equal(t, "gs", argv[0])
	assert.Contains(t, argv, "-sOutputFile=merged.pdf")
	// Inputs come last, in order.
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, argv[len(argv)-3:])

	_, err = Ghostscript{Profile: "tiny"}.Command([]string{"a.pdf"}, "out.pdf")
	assert.Error(t, err)
}

func TestGhostscriptBenchmark(t *testing.T) {
	gs := Ghostscript{Benchmark: true}
	invs, err := gs.BenchmarkInvocations([]string{"a.pdf"}, "out.gs.pdf")
	require.NoError(t, err)
	require.Len(t, invs, len(GSProfiles.Choices))

	outputs := make(map[string]bool)
	for _, inv := range invs {
		outputs[inv.Output] = true
	}
	assert.Contains(t, outputs, "out.gs.low.pdf")
	assert.Contains(t, outputs, "out.gs.extreme.pdf")

	invs, err = Ghostscript{}.BenchmarkInvocations([]string{"a.pdf"}, "out.pdf")
	require.NoError(t, err)
	assert.Empty(t, invs, "no side outputs unless benchmark is requested")
}

func TestFromConfig_OrderFixedByRegistry(t *testing.T) {
	cfg := config.DefaultConfig()
	// Reverse of execution order on the command line.
	cfg.Filters = []string{
		config.FilterGhostscript,
		config.FilterTesseract,
		config.FilterImageMagick,
		config.FilterUnpaper,
	}

	stages, err := FromConfig(&cfg)
	require.NoError(t, err)
	require.Len(t, stages, 4)
	assert.Equal(t, "unpaper", stages[0].Name())
	assert.Equal(t, "convert", stages[1].Name())
	assert.Equal(t, "tesseract", stages[2].Name())
	assert.Equal(t, "gs", stages[3].Name())
}

func TestFromConfig_SeparateGhostscript(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Filters = []string{config.FilterGhostscript}
	cfg.Separate = true

	stages, err := FromConfig(&cfg)
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.False(t, stages[0].AcceptsMultiple())
}
