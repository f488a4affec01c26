package stage

import (
	"fmt"

	"github.com/inkfold/scanforge/internal/config"
)

// FromConfig builds the ordered stage list for the selected filters.
// Order comes from config.FilterOrder, never from flag order. Every stage
// is arity-checked before the list is returned.
func FromConfig(cfg *config.Config) ([]Stage, error) {
	var stages []Stage
	for _, name := range cfg.OrderedFilters() {
		var s Stage
		switch name {
		case config.FilterUnpaper:
			s = Unpaper{}
		case config.FilterImageMagick:
			s = ImageMagick{Profile: cfg.IMProfile, Quality: cfg.IMQuality}
		case config.FilterTesseract:
			s = Tesseract{Language: cfg.Language}
		case config.FilterGhostscript:
			s = Ghostscript{
				Profile:   cfg.GSProfile,
				Separate:  cfg.Separate,
				Benchmark: cfg.GSBenchmark,
			}
		default:
			return nil, fmt.Errorf("unknown filter %q", name)
		}
		if err := ValidateArity(s); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}
