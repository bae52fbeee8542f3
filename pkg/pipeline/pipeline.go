// Package pipeline wires a preset to an image: passes, then crop and pad,
// then PNG output. Each image is processed start to finish on its own and
// a failure never leaks into the next image.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/Fepozopo/logostrip/pkg/mask"
	"github.com/Fepozopo/logostrip/pkg/preset"
	"github.com/Fepozopo/logostrip/pkg/stdimg"
)

// Options tune how a preset is executed. The zero value is ready to use.
type Options struct {
	// Workers is the number of goroutines scanning rows within a pass.
	// <= 0 uses runtime.NumCPU().
	Workers int
	// KeepOriginal retains a copy of the decoded input in the Report.
	KeepOriginal bool
}

// Result is the in-memory outcome of Run.
type Result struct {
	Image    *image.NRGBA
	Stats    []mask.Stats
	Bounds   image.Rectangle // extent of Image before padding, in input coordinates
	Cropped  bool
	Warnings []string
}

// Run applies p to img. img is modified in place by the passes; the
// returned Result.Image is img itself when no crop happens and a new buffer
// otherwise. A pass marked Crop first crops the buffer to its content, so
// later border rules measure from the content edge.
func Run(img *image.NRGBA, p preset.Preset, opts Options) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	for _, pass := range p.Passes {
		if _, err := pass.Compile(); err != nil {
			return nil, err
		}
	}
	res := &Result{Warnings: sourceWarnings(img, p.Source)}
	passes := namedPasses(p.Passes)

	// box is the extent of img in input coordinates.
	box := img.Bounds()
	crop := func(step string) error {
		b, ok := stdimg.ContentBounds(img)
		if !ok {
			return stdimg.ErrEmptyContent
		}
		box = b.Sub(img.Bounds().Min).Add(box.Min)
		img = stdimg.Crop(img, b)
		res.Cropped = true
		Debugf("cropped to %v before %s", box, step)
		return nil
	}

	run := func(segment []mask.Pass) error {
		stats, err := mask.RunPasses(img, segment, opts.Workers)
		res.Stats = append(res.Stats, stats...)
		return err
	}
	start := 0
	for i, pass := range passes {
		if !pass.Crop {
			continue
		}
		if err := run(passes[start:i]); err != nil {
			return nil, err
		}
		if err := crop(pass.Name); err != nil {
			return nil, err
		}
		start = i
	}
	if err := run(passes[start:]); err != nil {
		return nil, err
	}

	if !p.Crop.Enabled {
		if _, ok := stdimg.ContentBounds(img); !ok {
			return nil, stdimg.ErrEmptyContent
		}
		res.Bounds = box
		res.Image = img
		return res, nil
	}
	if err := crop("output"); err != nil {
		return nil, err
	}
	res.Bounds = box
	res.Image = stdimg.Pad(img, p.Crop.Pad)
	return res, nil
}

// namedPasses returns a copy of passes where unnamed passes are called
// "pass N" by their position in the preset.
func namedPasses(passes []mask.Pass) []mask.Pass {
	out := make([]mask.Pass, len(passes))
	for i, p := range passes {
		if p.Name == "" {
			p.Name = fmt.Sprintf("pass %d", i+1)
		}
		out[i] = p
	}
	return out
}

// sourceWarnings compares the declared input state of a preset with what
// the buffer looks like. Erased pixels are exactly (0,0,0,0). A raw export
// with transparency has such pixels too, so that case is only logged.
func sourceWarnings(img *image.NRGBA, src preset.Source) []string {
	erased := stdimg.CountErased(img)
	switch {
	case src == preset.SourceRaw && erased > 0:
		Debugf("raw input already has %d transparent black pixels", erased)
	case src == preset.SourceProcessed && erased == 0:
		return []string{"preset expects an already processed image but no pixel is erased yet"}
	}
	return nil
}

// Report describes what ProcessFile did to one file.
type Report struct {
	Input      string
	Output     string
	Format     string
	SourceSize image.Point
	Corners    [4]color.NRGBA
	Stats      []mask.Stats
	Bounds     image.Rectangle
	Cropped    bool
	FinalSize  image.Point
	Bytes      int64 // size of the written PNG
	Warnings   []string
	Original   *image.NRGBA // set when Options.KeepOriginal
	Image      *image.NRGBA
}

// ProcessFile reads in, runs p and writes the PNG result to out. The input
// is read and decoded completely before anything is written, so out may be
// equal to in. Errors are *FileError values.
func ProcessFile(in, out string, p preset.Preset, opts Options) (*Report, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return nil, readError(in, err)
	}
	img, format, err := stdimg.DecodeBytes(data)
	if err != nil {
		return nil, &FileError{Path: in, Kind: KindDecode, Err: err}
	}
	Debugf("decoded %s (%s, %dx%d)", in, format, img.Bounds().Dx(), img.Bounds().Dy())

	rep := &Report{
		Input:      in,
		Output:     out,
		Format:     format,
		SourceSize: img.Bounds().Size(),
		Corners:    stdimg.Corners(img),
	}
	if opts.KeepOriginal {
		rep.Original = stdimg.ToNRGBA(img)
	}

	res, err := Run(img, p, opts)
	if err != nil {
		if errors.Is(err, stdimg.ErrEmptyContent) {
			return rep, &FileError{Path: in, Kind: KindEmptyContent, Err: err}
		}
		return rep, &FileError{Path: in, Kind: KindConfig, Err: err}
	}
	rep.Stats = res.Stats
	rep.Bounds = res.Bounds
	rep.Cropped = res.Cropped
	rep.Warnings = res.Warnings
	rep.Image = res.Image
	rep.FinalSize = res.Image.Bounds().Size()

	if err := stdimg.WritePNGFile(out, res.Image); err != nil {
		var ee *stdimg.EncodeError
		if errors.As(err, &ee) {
			return rep, &FileError{Path: out, Kind: KindEncode, Err: err}
		}
		return rep, &FileError{Path: out, Kind: KindIO, Err: err}
	}
	if fi, err := os.Stat(out); err == nil {
		rep.Bytes = fi.Size()
	}
	Debugf("wrote %s (%dx%d, %d bytes)", out, rep.FinalSize.X, rep.FinalSize.Y, rep.Bytes)
	return rep, nil
}

// Job pairs an input path with its output path.
type Job struct {
	In  string
	Out string
}

// ProcessAll runs every job in order. A failing job is reported through
// onDone and does not stop the remaining jobs. It returns the errors of the
// failed jobs.
func ProcessAll(jobs []Job, p preset.Preset, opts Options, onDone func(Job, *Report, error)) []error {
	var failed []error
	for _, j := range jobs {
		rep, err := ProcessFile(j.In, j.Out, p, opts)
		if onDone != nil {
			onDone(j, rep, err)
		}
		if err != nil {
			failed = append(failed, err)
		}
	}
	return failed
}
