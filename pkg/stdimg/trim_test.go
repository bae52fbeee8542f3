package stdimg

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

var cyan = color.NRGBA{20, 220, 220, 255}

func TestContentBoundsTight(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 9))
	img.SetNRGBA(3, 2, cyan)
	img.SetNRGBA(7, 6, color.NRGBA{1, 2, 3, 1})

	r, ok := ContentBounds(img)
	if !ok {
		t.Fatalf("expected content")
	}
	if want := image.Rect(3, 2, 8, 7); r != want {
		t.Fatalf("ContentBounds = %v; want %v", r, want)
	}
	if got := Inclusive(r); got != [4]int{3, 2, 7, 6} {
		t.Fatalf("Inclusive = %v", got)
	}

	out, err := CropToContent(img)
	if err != nil {
		t.Fatalf("CropToContent: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Fatalf("cropped bounds %v; want 5x5 at origin", out.Bounds())
	}
	again, ok := ContentBounds(out)
	if !ok || again != out.Bounds() {
		t.Fatalf("crop is not tight: content %v, bounds %v", again, out.Bounds())
	}
	if out.NRGBAAt(0, 0) != cyan {
		t.Fatalf("top-left pixel %v; want %v", out.NRGBAAt(0, 0), cyan)
	}
	if out.NRGBAAt(4, 4) != (color.NRGBA{1, 2, 3, 1}) {
		t.Fatalf("bottom-right pixel not copied verbatim: %v", out.NRGBAAt(4, 4))
	}
}

func TestCropIgnoresColorOfTransparentPixels(t *testing.T) {
	// alpha 0 with non-zero color still counts as empty
	img := makeSolidNRGBA(6, 6, color.NRGBA{200, 200, 200, 0})
	img.SetNRGBA(2, 3, cyan)
	out, err := CropToContent(img)
	if err != nil {
		t.Fatalf("CropToContent: %v", err)
	}
	if out.Bounds().Dx() != 1 || out.Bounds().Dy() != 1 {
		t.Fatalf("expected 1x1 crop, got %v", out.Bounds())
	}
}

func TestCropToContentEmpty(t *testing.T) {
	img := makeSolidNRGBA(40, 40, color.NRGBA{})
	out, err := CropToContent(img)
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil image on empty content")
	}
	if _, ok := ContentBounds(nil); ok {
		t.Fatalf("nil image has no content")
	}
}

func TestPadRing(t *testing.T) {
	src := makeSolidNRGBA(3, 2, cyan)
	src.SetNRGBA(1, 1, color.NRGBA{9, 8, 7, 255})
	out := Pad(src, 2)
	if out.Bounds() != image.Rect(0, 0, 7, 6) {
		t.Fatalf("padded bounds %v; want 7x6", out.Bounds())
	}
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			inner := x >= 2 && x < 5 && y >= 2 && y < 4
			if !inner && out.NRGBAAt(x, y) != (color.NRGBA{}) {
				t.Fatalf("ring pixel (%d,%d) = %v; want transparent black", x, y, out.NRGBAAt(x, y))
			}
		}
	}
	back := Crop(out, image.Rect(2, 2, 5, 4))
	for i := range src.Pix {
		if back.Pix[i] != src.Pix[i] {
			t.Fatalf("content not recoverable after removing the ring (byte %d)", i)
		}
	}
	if Pad(src, 0).Bounds() != src.Bounds() {
		t.Fatalf("pad 0 should keep size")
	}
}

func TestToNRGBARebases(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	src.SetNRGBA(5, 5, cyan)
	out := ToNRGBA(src)
	if out.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds %v; want origin based", out.Bounds())
	}
	if out.NRGBAAt(0, 0) != cyan {
		t.Fatalf("pixel not copied: %v", out.NRGBAAt(0, 0))
	}
	out.SetNRGBA(0, 0, color.NRGBA{})
	if src.NRGBAAt(5, 5) != cyan {
		t.Fatalf("ToNRGBA aliased its source")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.RGBA{100, 50, 0, 255})
	if got := ToNRGBA(rgba).NRGBAAt(0, 0); got != (color.NRGBA{100, 50, 0, 255}) {
		t.Fatalf("RGBA conversion = %v", got)
	}
}

func TestCornersAndCountErased(t *testing.T) {
	img := makeSolidNRGBA(4, 3, color.NRGBA{30, 30, 30, 255})
	img.SetNRGBA(3, 0, cyan)
	img.SetNRGBA(0, 2, color.NRGBA{})
	c := Corners(img)
	if c[0] != (color.NRGBA{30, 30, 30, 255}) || c[1] != cyan || c[2] != (color.NRGBA{}) {
		t.Fatalf("unexpected corners %v", c)
	}
	if n := CountErased(img); n != 1 {
		t.Fatalf("CountErased = %d; want 1", n)
	}
}

func TestComparisonSheet(t *testing.T) {
	before := makeSolidNRGBA(20, 10, color.NRGBA{30, 30, 30, 255})
	after := makeSolidNRGBA(4, 4, cyan)
	sheet, err := ComparisonSheet(40, Panel{"before", before}, Panel{"after", after}, Panel{"empty", nil})
	if err != nil {
		t.Fatalf("ComparisonSheet: %v", err)
	}
	wantW := sheetGap + 80 + sheetGap + 40 + sheetGap + 40 + sheetGap
	if sheet.Bounds().Dx() != wantW {
		t.Fatalf("sheet width %d; want %d", sheet.Bounds().Dx(), wantW)
	}
	// the middle of the second panel shows the opaque cyan image
	if got := sheet.NRGBAAt(sheetGap+80+sheetGap+20, sheetGap+20); got != cyan {
		t.Fatalf("after panel pixel %v; want %v", got, cyan)
	}
	if _, err := ComparisonSheet(40); err == nil {
		t.Fatalf("expected error without panels")
	}
}

// makeSolidNRGBA returns a w x h image filled with c.
func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}
