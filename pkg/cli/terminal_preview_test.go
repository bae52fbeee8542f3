package cli

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns what
// was written.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	os.Stdout = w
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()
	fn()
	w.Close()
	os.Stdout = oldStdout
	return <-done
}

func tinyLogo() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{20, 220, 220, 255})
	img.SetNRGBA(1, 1, color.NRGBA{20, 220, 220, 128})
	return img
}

// TestPreviewInlineSequence verifies that PreviewImage emits an inline-image
// OSC sequence carrying PNG bytes when TERM_PROGRAM indicates an
// inline-capable terminal.
func TestPreviewInlineSequence(t *testing.T) {
	t.Setenv("TERM_PROGRAM", "WezTerm")
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("KITTY_WINDOW_ID", "")
	t.Setenv("PREVIEW_BACKEND", "")

	var perr error
	out := captureStdout(t, func() { perr = PreviewImage(tinyLogo()) })
	if perr != nil {
		t.Fatalf("PreviewImage error: %v", perr)
	}
	if !strings.Contains(out, "\x1b]1337;File=") {
		t.Fatalf("expected inline 1337 sequence in output, got: %q", out)
	}

	idx := strings.Index(out, ":")
	if idx < 0 {
		t.Fatalf("no ':' found in output: %q", out)
	}
	payload := out[idx+1:]
	if bi := strings.Index(payload, "\a"); bi >= 0 {
		payload = payload[:bi]
	}
	dec, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("base64 decode failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(dec))
	if err != nil {
		t.Fatalf("payload is not a PNG: %v", err)
	}
	if _, _, _, a := img.At(0, 1).RGBA(); a != 0 {
		t.Fatalf("transparent pixel lost in preview payload")
	}
}

// TestKittyChunks checks that payloads above 4096 base64 bytes are split and
// only the first chunk carries the placement keys.
func TestKittyChunks(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 5000)
	size := PreviewSize{Cols: 10, Rows: 5}

	var serr error
	out := captureStdout(t, func() { serr = sendKittyImage(data, size) })
	if serr != nil {
		t.Fatalf("sendKittyImage: %v", serr)
	}
	chunks := strings.Split(strings.TrimRight(out, "\n"), "\x1b\\")
	chunks = chunks[:len(chunks)-1]
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], "\x1b_Ga=T,f=100,t=d,q=2,c=10,r=5,m=1;") {
		t.Fatalf("first chunk header wrong: %q", chunks[0][:40])
	}
	if !strings.HasPrefix(chunks[1], "\x1b_Gm=0;") {
		t.Fatalf("last chunk header wrong: %q", chunks[1][:10])
	}
}

func TestComputePreviewSize(t *testing.T) {
	cases := []struct {
		w, h       int
		cols, rows int
	}{
		{2, 2, 6, 3},         // tiny logos are clamped up to the minimum
		{160, 64, 20, 4},     // never scaled up
		{4000, 1000, 80, 10}, // wide banner scaled to 80 columns
		{500, 2000, 20, 40},  // tall image scaled to 40 rows
	}
	for _, c := range cases {
		got := computePreviewSize(image.NewNRGBA(image.Rect(0, 0, c.w, c.h)))
		if got.Cols != c.cols || got.Rows != c.rows {
			t.Fatalf("%dx%d: got %dx%d cells; want %dx%d", c.w, c.h, got.Cols, got.Rows, c.cols, c.rows)
		}
		if got.PixelWidth != got.Cols*8 || got.PixelHeight != got.Rows*16 {
			t.Fatalf("%dx%d: pixel size %dx%d inconsistent", c.w, c.h, got.PixelWidth, got.PixelHeight)
		}
	}
}
