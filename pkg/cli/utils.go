package cli

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fepozopo/logostrip/pkg/pipeline"
	"github.com/Fepozopo/logostrip/pkg/stdimg"
	"github.com/dustin/go-humanize"
)

// sheetPanelHeight is the height every image is scaled to on a comparison
// sheet.
const sheetPanelHeight = 240

// PromptLine displays a prompt and reads a full line of input from the user.
// The returned string is trimmed of surrounding whitespace (including the newline).
func PromptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// OutputPath derives the output name for in: the extension is replaced with
// .png and suffix is inserted before it, so "logo.jpg" becomes
// "logo_fixed.png".
func OutputPath(in, suffix string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + suffix + ".png"
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

func isImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// expandInputs replaces every directory argument by the images directly
// inside it, sorted by name. Hidden files and earlier results (names ending
// in suffix or "_compare") are skipped. File arguments are passed through
// untouched, even when they do not exist, so they fail per file later.
func expandInputs(args []string, suffix string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || !isImageFile(name) {
				continue
			}
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			if (suffix != "" && strings.HasSuffix(stem, suffix)) || strings.HasSuffix(stem, "_compare") {
				continue
			}
			out = append(out, filepath.Join(arg, name))
		}
	}
	return out, nil
}

// sheetPath is the comparison sheet written next to out.
func sheetPath(out string) string {
	return OutputPath(out, "_compare")
}

func writeSheet(rep *pipeline.Report) (string, error) {
	if rep.Original == nil || rep.Image == nil {
		return "", fmt.Errorf("no images to compare")
	}
	sheet, err := stdimg.ComparisonSheet(sheetPanelHeight,
		stdimg.Panel{Label: "before", Image: rep.Original},
		stdimg.Panel{Label: "after", Image: rep.Image},
	)
	if err != nil {
		return "", err
	}
	path := sheetPath(rep.Output)
	if err := stdimg.WritePNGFile(path, sheet); err != nil {
		return "", err
	}
	return path, nil
}

func formatColor(c color.NRGBA) string {
	return fmt.Sprintf("(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

// formatCorners prints the corner samples in TL, TR, BL, BR order.
func formatCorners(c [4]color.NRGBA) string {
	return fmt.Sprintf("TL%s TR%s BL%s BR%s", formatColor(c[0]), formatColor(c[1]), formatColor(c[2]), formatColor(c[3]))
}

func formatSize(p image.Point) string {
	return fmt.Sprintf("%dx%d", p.X, p.Y)
}

// printReport writes the per-file summary: in -> out, source format and
// size, corner samples, one line per pass, content box and final size.
func printReport(w io.Writer, rep *pipeline.Report) {
	fmt.Fprintf(w, "%s -> %s\n", rep.Input, rep.Output)
	fmt.Fprintf(w, "  source: %s %s\n", rep.Format, formatSize(rep.SourceSize))
	fmt.Fprintf(w, "  corners: %s\n", formatCorners(rep.Corners))
	for _, st := range rep.Stats {
		fmt.Fprintf(w, "  pass %s\n", st)
	}
	if rep.Cropped {
		b := stdimg.Inclusive(rep.Bounds)
		fmt.Fprintf(w, "  content: (%d,%d)-(%d,%d)\n", b[0], b[1], b[2], b[3])
	}
	fmt.Fprintf(w, "  final: %s, %s\n", formatSize(rep.FinalSize), humanize.Bytes(uint64(rep.Bytes)))
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
}
