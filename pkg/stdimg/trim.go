package stdimg

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// ErrEmptyContent is returned when every pixel is fully transparent, so there
// is no content box to crop to.
var ErrEmptyContent = errors.New("no pixel with alpha > 0: image is empty")

// ContentBounds returns the smallest rectangle containing every pixel with
// alpha > 0. ok is false when there is none.
func ContentBounds(src *image.NRGBA) (r image.Rectangle, ok bool) {
	if src == nil {
		return image.Rectangle{}, false
	}
	b := src.Bounds()
	minX := b.Max.X
	minY := b.Max.Y
	maxX := b.Min.X - 1
	maxY := b.Min.Y - 1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.Pix[src.PixOffset(x, y)+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// CropToContent copies the content box of src into a new image rebased at
// the origin. Pixels are copied verbatim.
func CropToContent(src *image.NRGBA) (*image.NRGBA, error) {
	rect, ok := ContentBounds(src)
	if !ok {
		return nil, ErrEmptyContent
	}
	return Crop(src, rect), nil
}

// Crop copies rect (clipped to src) into a new image whose bounds start at
// (0,0).
func Crop(src *image.NRGBA, rect image.Rectangle) *image.NRGBA {
	rect = rect.Intersect(src.Bounds())
	out := image.NewNRGBA(rect.Sub(rect.Min))
	draw.Draw(out, out.Bounds(), src, rect.Min, draw.Src)
	return out
}

// Pad returns src surrounded by pad pixels of transparent black. The result
// is (w+2*pad) x (h+2*pad) with src at (pad,pad). pad <= 0 returns a copy.
func Pad(src *image.NRGBA, pad int) *image.NRGBA {
	if src == nil {
		return nil
	}
	if pad <= 0 {
		return Crop(src, src.Bounds())
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()+2*pad, b.Dy()+2*pad))
	dst := image.Rect(pad, pad, pad+b.Dx(), pad+b.Dy())
	draw.Draw(out, dst, src, b.Min, draw.Src)
	return out
}

// Inclusive converts a half-open rectangle to the (minX, minY, maxX, maxY)
// form printed in reports.
func Inclusive(r image.Rectangle) [4]int {
	return [4]int{r.Min.X, r.Min.Y, r.Max.X - 1, r.Max.Y - 1}
}
