package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
)

// Terminal preview of a processed logo.
//
// Backends, in order of preference:
//   - iTerm2 style inline images (OSC 1337) for iTerm2, WezTerm, Warp, VSCode and friends.
//   - the kitty graphics protocol (chunked base64 inside ESC _G ... ESC \).
//   - chafa on PATH, rendering block characters in any terminal.
//
// PREVIEW_BACKEND=kitty|inline|chafa tries that backend first.

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	// ghostty speaks the kitty protocol too
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "ghostty") {
		return true
	}
	return os.Getenv("KONSOLE_VERSION") != ""
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "wezterm") || strings.Contains(term, "tabby") || strings.Contains(term, "vscode") {
		return true
	}
	return os.Getenv("ITERM_SESSION_ID") != ""
}

func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported reports whether any preview backend is likely to work.
func PreviewSupported() bool {
	ok := isKitty() || isInlineImageCapable() || hasChafa()
	debugf("PreviewSupported -> %v (kitty=%v inline=%v chafa=%v)", ok, isKitty(), isInlineImageCapable(), hasChafa())
	return ok
}

// PreviewSize is the placement of a preview in terminal cells.
type PreviewSize struct {
	Cols        int
	Rows        int
	PixelWidth  int
	PixelHeight int
}

// computePreviewSize fits img into at most 80x40 cells (8x16 px each)
// keeping the aspect ratio and never scaling up.
func computePreviewSize(img image.Image) PreviewSize {
	const (
		charW   = 8
		charH   = 16
		minCols = 6
		minRows = 3
		maxCols = 80
		maxRows = 40
	)
	w := max(img.Bounds().Dx(), 1)
	h := max(img.Bounds().Dy(), 1)

	scale := math.Min(1.0, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	cols := int(math.Round(float64(w) * scale / charW))
	rows := int(math.Round(float64(h) * scale / charH))
	cols = min(max(cols, minCols), maxCols)
	rows = min(max(rows, minRows), maxRows)

	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

// trailingNewlines is how many lines to print after an image so the next
// report line lands below it.
func trailingNewlines(rows int) int {
	switch {
	case rows <= 2:
		return 1
	case rows <= 6:
		return 2
	case rows <= 20:
		return 3
	}
	return 4
}

// PreviewImage renders img in the terminal as PNG, so erased pixels show
// the terminal background. Images larger than the placement are shrunk
// first to keep the escape sequences small.
func PreviewImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	size := computePreviewSize(img)
	if b := img.Bounds(); b.Dx() > size.PixelWidth || b.Dy() > size.PixelHeight {
		img = imaging.Fit(img, size.PixelWidth, size.PixelHeight, imaging.Lanczos)
		debugf("preview downscaled to %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	return previewBytes(buf.Bytes(), size)
}

type previewBackend struct {
	name      string
	available func() bool
	send      func([]byte, PreviewSize) error
}

var previewBackends = []previewBackend{
	{"inline", isInlineImageCapable, sendInlineImage},
	{"kitty", isKitty, sendKittyImage},
	{"chafa", hasChafa, sendChafaImage},
}

func previewBytes(blob []byte, size PreviewSize) error {
	if len(blob) == 0 {
		return fmt.Errorf("empty image blob")
	}

	if v := strings.ToLower(os.Getenv("PREVIEW_BACKEND")); v != "" {
		if v == "iterm" || v == "wezterm" {
			v = "inline"
		}
		for _, b := range previewBackends {
			if b.name != v {
				continue
			}
			err := b.send(blob, size)
			if err == nil {
				return nil
			}
			debugf("PREVIEW_BACKEND=%s failed: %v", v, err)
		}
	}

	var lastErr error
	for _, b := range previewBackends {
		if !b.available() {
			continue
		}
		debugf("attempting %s preview", b.name)
		if err := b.send(blob, size); err != nil {
			debugf("%s preview failed: %v", b.name, err)
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("preview failed: %w", lastErr)
	}
	return fmt.Errorf("no preview protocol matched")
}

// sendKittyImage transmits PNG bytes with the kitty graphics protocol in
// base64 chunks of at most 4096 bytes. The first chunk carries the
// placement (c columns, r rows); q=2 suppresses terminal responses.
func sendKittyImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096

	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := os.Stdout.WriteString(seq); err != nil {
			return err
		}
	}
	fmt.Print(strings.Repeat("\n", trailingNewlines(size.Rows)))
	return nil
}

// sendInlineImage emits the iTerm2 inline file sequence (OSC 1337).
func sendInlineImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=preview.png;inline=1;" + meta + ":" + base64.StdEncoding.EncodeToString(data) + "\a"
	if _, err := os.Stdout.WriteString(seq); err != nil {
		return err
	}
	fmt.Print(strings.Repeat("\n", trailingNewlines(0)))
	return nil
}

// sendChafaImage pipes the PNG to chafa. CHAFA_FILL and CHAFA_SYMBOLS
// override the block defaults.
func sendChafaImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	if _, err := exec.LookPath("chafa"); err != nil {
		return fmt.Errorf("chafa not found in PATH: %w", err)
	}
	fill, symbols := "block", "block"
	if f := os.Getenv("CHAFA_FILL"); f != "" {
		fill = f
	}
	if s := os.Getenv("CHAFA_SYMBOLS"); s != "" {
		symbols = s
	}
	cmd := exec.Command("chafa", "--fill="+fill, "--symbols="+symbols, "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}
	fmt.Print(strings.Repeat("\n", trailingNewlines(size.Rows)))
	return nil
}
