package stdimg

import (
	"image"
	"image/color"
)

// ToNRGBA converts any image.Image to a fresh *image.NRGBA rebased at the
// origin. The source is never aliased, so callers may mutate the result.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok {
		out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			di := out.PixOffset(0, y)
			copy(out.Pix[di:di+4*b.Dx()], n.Pix[si:si+4*b.Dx()])
		}
		return out
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.Pix[idx+0] = c.R
			out.Pix[idx+1] = c.G
			out.Pix[idx+2] = c.B
			out.Pix[idx+3] = c.A
			idx += 4
		}
	}
	return out
}

// Corners samples the four corner pixels in the order top-left, top-right,
// bottom-left, bottom-right. An empty image yields zero colors.
func Corners(img *image.NRGBA) [4]color.NRGBA {
	var out [4]color.NRGBA
	if img == nil || img.Bounds().Empty() {
		return out
	}
	b := img.Bounds()
	out[0] = img.NRGBAAt(b.Min.X, b.Min.Y)
	out[1] = img.NRGBAAt(b.Max.X-1, b.Min.Y)
	out[2] = img.NRGBAAt(b.Min.X, b.Max.Y-1)
	out[3] = img.NRGBAAt(b.Max.X-1, b.Max.Y-1)
	return out
}

// CountErased returns how many pixels are exactly transparent black, the
// value every erase pass writes.
func CountErased(img *image.NRGBA) int {
	if img == nil {
		return 0
	}
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		row := img.Pix[i : i+4*b.Dx()]
		for j := 0; j < len(row); j += 4 {
			if row[j] == 0 && row[j+1] == 0 && row[j+2] == 0 && row[j+3] == 0 {
				n++
			}
		}
	}
	return n
}
