package device

import (
	"github.com/inkfold/scanforge/internal/paper"
	"github.com/inkfold/scanforge/internal/stage"
)

// Brother MFC-J5730DW: network multifunction device with flatbed and a
// duplex-capable document feeder. The papersize table is everything the
// 228x302 mm bed can cover.
func init() {
	register(&Descriptor{
		Name:    "Brother MFC-J5730DW",
		Backend: "brother",
		Device:  "brother4:net1;dev0",

		Papersizes:       paper.CoverableBy(paper.Geometry{W: 228, H: 302}),
		DefaultPapersize: "a4",

		Modes: stage.Option{
			Default: "color",
			Choices: map[string][]string{
				"bw":      {"--mode", "Black & White"},
				"diffuse": {"--mode", "Gray[Error Diffusion]"},
				"gray":    {"--mode", "True Gray"},
				"color":   {"--mode", "24bit Color[Fast]"},
			},
		},

		Resolutions: stage.Option{
			Default: "200",
			Choices: map[string][]string{
				"100":  {"--resolution", "100"},
				"150":  {"--resolution", "150"},
				"200":  {"--resolution", "200"},
				"300":  {"--resolution", "300"},
				"400":  {"--resolution", "400"},
				"600":  {"--resolution", "600"},
				"1200": {"--resolution", "1200"},
				"2400": {"--resolution", "2400"},
				"4800": {"--resolution", "4800"},
				"9600": {"--resolution", "9600dpi"},
			},
		},

		Sources: stage.Option{
			Default: "auto",
			Choices: map[string][]string{
				"auto":              {},
				"flatbed":           {"--source", "FlatBed"},
				"adf":               {"--source", "Automatic Document Feeder(left aligned)"},
				"duplex":            {"--source", "Automatic Document Feeder(left aligned,Duplex)"},
				"adf-left":          {"--source", "Automatic Document Feeder(left aligned)"},
				"adf-left-duplex":   {"--source", "Automatic Document Feeder(left aligned,Duplex)"},
				"adf-center":        {"--source", "Automatic Document Feeder(centrally aligned)"},
				"adf-center-duplex": {"--source", "Automatic Document Feeder(centrally aligned,Duplex)"},
			},
		},
	})
}
