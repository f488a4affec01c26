package config

// This file implements CLI flag parsing and help text. Flags are grouped
// into scanner, acquisition, filter, display, and utility sections.
// The repeatable --clean counter and --filter list use flag.Value adapters
// registered with fs.Var.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseFlags parses argv (os.Args[1:] in production) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag or filter).
func ParseFlags(cfg *Config, argv []string, version string) error {
	fs := flag.NewFlagSet("scanforge", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var util utilityFlags

	defineScannerFlags(fs, cfg)
	defineAcquisitionFlags(fs, cfg)
	defineFilterFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &util)
	defineUtilityFlags(fs, &util)

	if err := fs.Parse(argv); err != nil {
		return err
	}

	if util.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if util.showVersion {
		fmt.Fprintln(os.Stdout, "scanforge v"+version)
		os.Exit(0)
	}
	if util.noColor {
		cfg.ColorMode = ColorNever
	} else if util.forceColor {
		cfg.ColorMode = ColorAlways
	}

	if args := fs.Args(); len(args) > 1 {
		return fmt.Errorf("expected at most one output name, got %d arguments", len(args))
	} else if len(args) == 1 {
		cfg.OutputName = args[0]
	}

	cfg.ApplyAuto()
	return nil
}

// utilityFlags holds flags applied after Parse (color overrides) or that
// trigger exit (help, version).
type utilityFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineScannerFlags registers -b/--backend, -d/--device and the geometry
// selections -p, -m, -r, -s.
func defineScannerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Backend scanner device")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "Same as --backend")
	fs.StringVar(&cfg.Device, "device", "", "Scanner device identifier override")
	fs.StringVar(&cfg.Device, "d", "", "Same as --device")
	fs.StringVar(&cfg.Papersize, "papersize", cfg.Papersize, "Scan area as paper size")
	fs.StringVar(&cfg.Papersize, "p", cfg.Papersize, "Same as --papersize")
	fs.StringVar(&cfg.Mode, "mode", "", "Scan mode (bw, gray, color, ...)")
	fs.StringVar(&cfg.Mode, "m", "", "Same as --mode")
	fs.StringVar(&cfg.Resolution, "resolution", cfg.Resolution, "Scan resolution in DPI")
	fs.StringVar(&cfg.Resolution, "r", cfg.Resolution, "Same as --resolution")
	fs.StringVar(&cfg.Source, "source", "", "Scan source (flatbed, adf, duplex, ...)")
	fs.StringVar(&cfg.Source, "s", "", "Same as --source")
}

// defineAcquisitionFlags registers dry-run, clean, batch, trim, separate.
func defineAcquisitionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Show commands without executing")
	fs.BoolVar(&cfg.DryRun, "n", false, "Same as --dry-run")
	fs.Var(&countValue{&cfg.CleanLevel}, "clean", "Clean up intermediates (1), inputs (2), force rescan (3)")
	fs.Var(&countValue{&cfg.CleanLevel}, "c", "Same as --clean")
	fs.BoolVar(&cfg.Batch, "batch", false, "Scan multiple times interactively")
	fs.BoolVar(&cfg.Batch, "x", false, "Same as --batch")
	fs.BoolVar(&cfg.TrimLast, "trim-last", false, "Discard last page of scan (duplex tail)")
	fs.BoolVar(&cfg.TrimLast, "t", false, "Same as --trim-last")
	fs.BoolVar(&cfg.Separate, "separate", false, "Save each scanned file separately")
	fs.BoolVar(&cfg.Separate, "z", false, "Same as --separate")
	fs.BoolVar(&cfg.Verify, "verify", false, "Preview output files with an external viewer")
	fs.BoolVar(&cfg.Verify, "v", false, "Same as --verify")
}

// defineFilterFlags registers -f/--filter and the per-filter sub-options.
func defineFilterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&filterListValue{&cfg.Filters}, "filter", "Post-processing filter (repeatable)")
	fs.Var(&filterListValue{&cfg.Filters}, "f", "Same as --filter")
	fs.BoolVar(&cfg.Auto, "auto", false, "Enable recommended post-processing filters")
	fs.BoolVar(&cfg.Auto, "a", false, "Same as --auto")
	fs.StringVar(&cfg.Language, "language", cfg.Language, "Input language [tesseract]")
	fs.StringVar(&cfg.Language, "l", cfg.Language, "Same as --language")
	fs.StringVar(&cfg.IMProfile, "im-profile", "", "Postprocessing profile [imagemagick]")
	fs.StringVar(&cfg.IMProfile, "i", "", "Same as --im-profile")
	fs.StringVar(&cfg.IMQuality, "im-quality", "", "Output quality [imagemagick]")
	fs.StringVar(&cfg.IMQuality, "q", "", "Same as --im-quality")
	fs.StringVar(&cfg.GSProfile, "gs-profile", "", "PDF compression profile [ghostscript]")
	fs.StringVar(&cfg.GSProfile, "g", "", "Same as --gs-profile")
	fs.BoolVar(&cfg.GSBenchmark, "gs-benchmark", false, "Benchmark the suite of profiles [ghostscript]")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVar(&u.forceColor, "color", false, "Force colored output")
	fs.BoolVar(&u.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Check external tools and exit")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, u *utilityFlags) {
	fs.BoolVar(&u.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&u.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&u.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&u.showHelp, "h", false, "Same as --help")
}

// countValue increments its target each time the flag appears, so
// "-c -c" yields 2. An explicit numeric value ("--clean=3") sets it
// directly.
type countValue struct{ p *int }

func (c *countValue) String() string {
	if c.p == nil {
		return "0"
	}
	return strconv.Itoa(*c.p)
}

func (c *countValue) Set(s string) error {
	if s == "true" || s == "" {
		*c.p++
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid count %q", s)
	}
	*c.p = n
	return nil
}

// IsBoolFlag lets the flag package accept the bare form without a value.
func (c *countValue) IsBoolFlag() bool { return true }

// filterListValue appends validated filter names, skipping duplicates.
type filterListValue struct{ p *[]string }

func (f *filterListValue) String() string {
	if f.p == nil {
		return ""
	}
	return strings.Join(*f.p, ",")
}

func (f *filterListValue) Set(s string) error {
	name := strings.ToLower(strings.TrimSpace(s))
	if !knownFilter(name) {
		return fmt.Errorf("unknown filter %q (use one of %s)",
			name, strings.Join(FilterOrder, ", "))
	}
	for _, have := range *f.p {
		if have == name {
			return nil
		}
	}
	*f.p = append(*f.p, name)
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "scanforge v" + version + " - scan from your scanner to searchable PDF"},
		{"", ""},
		{"  scanforge [OPTIONS] [output]", ""},
		{"", ""},
		{"Scanner", ""},
		{"  -b, --backend <name>", "Backend scanner device (default: brother)"},
		{"  -d, --device <id>", "Scanner device identifier override"},
		{"  -p, --papersize <size>", "Scan area as paper size (default: a4)"},
		{"  -m, --mode <mode>", "Scan mode, such as bw or color"},
		{"  -r, --resolution <dpi>", "Scan resolution in DPI (default: 300)"},
		{"  -s, --source <source>", "Scan source, such as flatbed or adf"},
		{"", ""},
		{"Acquisition", ""},
		{"  -x, --batch", "Scan multiple times interactively"},
		{"  -t, --trim-last", "Discard last page of scan, useful for duplex"},
		{"  -z, --separate", "Save each scanned file separately"},
		{"  -c, --clean", "Repeatable: intermediates (1), inputs (2), rescan (3)"},
		{"  -n, --dry-run", "Show which commands would be executed"},
		{"", ""},
		{"Filters", ""},
		{"  -f, --filter <name>", "Post-processing filter (repeatable):"},
		{"", "  unpaper | imagemagick | tesseract | ghostscript"},
		{"  -a, --auto", "Enable recommended filters (tesseract, ghostscript)"},
		{"  -l, --language <lang>", "Input language (default: deu) [tesseract]"},
		{"  -i, --im-profile <name>", "Postprocessing profile [imagemagick]"},
		{"  -q, --im-quality <name>", "Output quality [imagemagick]"},
		{"  -g, --gs-profile <name>", "PDF compression profile (default: high) [ghostscript]"},
		{"  --gs-benchmark", "Benchmark the suite of profiles [ghostscript]"},
		{"", ""},
		{"Display", ""},
		{"  -v, --verify", "Preview output files with an external viewer"},
		{"  --color / --no-color", "Force or disable colored output"},
		{"  --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --log <path>", "Append logs to file"},
		{"  --check", "Check availability of external tools"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintf(os.Stderr, "%*s%s\n", col1, "", l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
