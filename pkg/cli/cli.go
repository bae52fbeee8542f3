package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Fepozopo/logostrip/pkg/pipeline"
	"github.com/Fepozopo/logostrip/pkg/preset"
	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
)

// Process exit codes.
const (
	exitOK     = 0
	exitFailed = 1 // at least one image failed
	exitUsage  = 2 // bad flags, unknown preset or invalid presets file
)

func usage(fs *flag.FlagSet, w io.Writer) func() {
	return func() {
		fmt.Fprintln(w, "Usage: logostrip [flags] image|dir...")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Removes the background around a logo and crops it to content.")
		fmt.Fprintln(w, "Output is always PNG. Run with -list to see presets and rule kinds.")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Flags:")
		fs.PrintDefaults()
	}
}

// RunCLI runs logostrip with the given arguments (without the program name)
// and returns the process exit code.
func RunCLI(args []string) int {
	return Run(args, os.Stdout, os.Stderr)
}

// Run is RunCLI with explicit output streams.
func Run(args []string, stdout, stderr io.Writer) int {
	loadEnv()

	fs := flag.NewFlagSet("logostrip", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs, stderr)

	var (
		presetName = fs.String("preset", preset.DefaultName, "preset to apply")
		configPath = fs.String("config", os.Getenv("LOGOSTRIP_PRESETS"), "JSON presets file merged over the built-in presets (env LOGOSTRIP_PRESETS, default $XDG_CONFIG_HOME/"+userPresetsFile+" if present)")
		outPath    = fs.String("o", "", "output path, only with a single input")
		inPlace    = fs.Bool("inplace", false, "overwrite each input with its result")
		suffix     = fs.String("suffix", "_fixed", "suffix added to the input name to form the output name")
		workers    = fs.Int("workers", 0, "goroutines per pass, 0 uses every CPU")
		preview    = fs.Bool("preview", false, "show each result in the terminal (kitty, iTerm2 inline or chafa)")
		sheet      = fs.Bool("sheet", false, "also write <output>_compare.png with the input and result side by side")
		list       = fs.Bool("list", false, "list presets and rule kinds, then exit")
		dump       = fs.Bool("dump", false, "print the selected preset as a presets file, then exit")
		pick       = fs.Bool("pick", false, "pick input images with fzf")
		update     = fs.Bool("update", false, "check GitHub for a newer release and update")
		version    = fs.Bool("version", false, "print the version and exit")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *version {
		fmt.Fprintf(stdout, "logostrip %s\n", Version)
		return exitOK
	}
	if *update {
		if err := CheckForUpdates(stdout); err != nil {
			fmt.Fprintf(stderr, "update check error: %v\n", err)
			return exitFailed
		}
		return exitOK
	}

	set, err := loadPresets(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "presets: %v\n", err)
		return exitUsage
	}
	if *list {
		printList(stdout, set)
		return exitOK
	}

	p, err := set.Get(*presetName)
	if err != nil {
		fmt.Fprintf(stderr, "%v (available: %s)\n", err, strings.Join(set.Names(), ", "))
		return exitUsage
	}
	if *dump {
		b, err := preset.Marshal(preset.Set{p.Name: p})
		if err != nil {
			fmt.Fprintf(stderr, "dump: %v\n", err)
			return exitFailed
		}
		fmt.Fprintln(stdout, string(b))
		return exitOK
	}

	inputs, err := expandInputs(fs.Args(), *suffix)
	if err != nil {
		fmt.Fprintf(stderr, "inputs: %v\n", err)
		return exitUsage
	}
	if *pick {
		picked, err := SelectFilesWithFzf(".")
		if err != nil {
			fmt.Fprintf(stderr, "pick: %v\n", err)
		}
		inputs = append(inputs, picked...)
	}
	if len(inputs) == 0 {
		fs.Usage()
		return exitUsage
	}
	if *outPath != "" && len(inputs) > 1 {
		fmt.Fprintln(stderr, "-o needs exactly one input")
		return exitUsage
	}
	if *outPath != "" && *inPlace {
		fmt.Fprintln(stderr, "-o and -inplace are mutually exclusive")
		return exitUsage
	}
	if !*inPlace && *outPath == "" && *suffix == "" {
		fmt.Fprintln(stderr, "empty -suffix would overwrite the inputs; use -inplace for that")
		return exitUsage
	}

	jobs := make([]pipeline.Job, 0, len(inputs))
	for _, in := range inputs {
		out := *outPath
		switch {
		case *inPlace:
			out = in
		case out == "":
			out = OutputPath(in, *suffix)
		}
		jobs = append(jobs, pipeline.Job{In: in, Out: out})
	}

	if *preview {
		switch {
		case !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()):
			fmt.Fprintln(stderr, "warning: stdout is not a terminal, -preview ignored")
			*preview = false
		case !PreviewSupported():
			fmt.Fprintln(stderr, "warning: no terminal preview backend detected, trying anyway")
		}
	}

	opts := pipeline.Options{Workers: *workers, KeepOriginal: *sheet}
	fmt.Fprintf(stdout, "preset %s (%s input): %s\n", p.Name, p.Source, p.Description)

	failed, sheetErrs := 0, 0
	pipeline.ProcessAll(jobs, p, opts, func(_ pipeline.Job, rep *pipeline.Report, err error) {
		if err != nil {
			failed++
			fmt.Fprintf(stderr, "error: %v\n", err)
			if rep != nil {
				fmt.Fprintf(stderr, "  corners: %s\n", formatCorners(rep.Corners))
			}
			return
		}
		printReport(stdout, rep)
		if *sheet {
			path, err := writeSheet(rep)
			if err != nil {
				sheetErrs++
				fmt.Fprintf(stderr, "error: sheet for %s: %v\n", rep.Input, err)
			} else {
				fmt.Fprintf(stdout, "  sheet: %s\n", path)
			}
		}
		if *preview {
			if err := PreviewImage(rep.Image); err != nil {
				debugf("preview %s: %v", rep.Output, err)
			}
		}
	})

	fmt.Fprintf(stdout, "done: %d ok, %d failed\n", len(jobs)-failed, failed)
	if failed > 0 || sheetErrs > 0 {
		return exitFailed
	}
	return exitOK
}

// userPresetsFile is looked up in the XDG config directories when neither
// -config nor LOGOSTRIP_PRESETS is set.
const userPresetsFile = "logostrip/presets.json"

// loadPresets returns the built-in presets with the optional file merged
// over them.
func loadPresets(path string) (preset.Set, error) {
	set := preset.Builtin()
	if path == "" {
		found, err := xdg.SearchConfigFile(userPresetsFile)
		if err != nil {
			return set, nil
		}
		path = found
	}
	extra, err := preset.Load(path)
	if err != nil {
		return nil, err
	}
	debugf("loaded %d presets from %s", len(extra), path)
	set.Merge(extra)
	return set, nil
}
