package stdimg

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	sheetGap    = 8
	sheetLabelH = 18
	checkerSize = 8
)

var (
	checkerLight = color.NRGBA{0xcc, 0xcc, 0xcc, 0xff}
	checkerDark  = color.NRGBA{0x99, 0x99, 0x99, 0xff}
	sheetBG      = color.NRGBA{0x20, 0x20, 0x20, 0xff}
	labelColor   = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

// Panel is one labelled image on a comparison sheet.
type Panel struct {
	Label string
	Image *image.NRGBA
}

// ComparisonSheet lays panels out left to right on a dark background. Each
// image is drawn over a checkerboard so erased pixels are visible, scaled
// with nearest-neighbour to panelHeight (pixels stay crisp), and captioned
// with its label and original size.
func ComparisonSheet(panelHeight int, panels ...Panel) (*image.NRGBA, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("no panels to draw")
	}
	if panelHeight <= 0 {
		return nil, fmt.Errorf("invalid panel height %d", panelHeight)
	}

	widths := make([]int, len(panels))
	total := sheetGap
	for i, p := range panels {
		if p.Image == nil || p.Image.Bounds().Empty() {
			widths[i] = panelHeight
		} else {
			b := p.Image.Bounds()
			widths[i] = max(1, b.Dx()*panelHeight/b.Dy())
		}
		total += widths[i] + sheetGap
	}

	out := image.NewNRGBA(image.Rect(0, 0, total, panelHeight+sheetLabelH+2*sheetGap))
	draw.Draw(out, out.Bounds(), image.NewUniform(sheetBG), image.Point{}, draw.Src)

	x := sheetGap
	for i, p := range panels {
		dst := image.Rect(x, sheetGap, x+widths[i], sheetGap+panelHeight)
		drawChecker(out, dst)
		caption := p.Label + " (empty)"
		if p.Image != nil && !p.Image.Bounds().Empty() {
			draw.NearestNeighbor.Scale(out, dst, p.Image, p.Image.Bounds(), draw.Over, nil)
			caption = fmt.Sprintf("%s %dx%d", p.Label, p.Image.Bounds().Dx(), p.Image.Bounds().Dy())
		}
		drawLabel(out, caption, x, dst.Max.Y+sheetLabelH-4)
		x += widths[i] + sheetGap
	}
	return out, nil
}

func drawChecker(dst *image.NRGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := checkerLight
			if ((x-r.Min.X)/checkerSize+(y-r.Min.Y)/checkerSize)%2 == 1 {
				c = checkerDark
			}
			dst.SetNRGBA(x, y, c)
		}
	}
}

// drawLabel writes text with its baseline at y using the built-in 7x13 face.
func drawLabel(dst *image.NRGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
