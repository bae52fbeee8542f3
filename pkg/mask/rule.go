// Package mask decides, pixel by pixel, whether a logo pixel is background
// to erase or foreground to keep.
//
// A Classifier OR-combines any number of Rules. Rules are pure functions of a
// single Sample, so a pass can visit pixels in any order.
package mask

// Sample is everything a Rule may look at: one pixel's channels, its
// position and the dimensions of the image it belongs to.
type Sample struct {
	R, G, B, A uint8
	X, Y       int
	W, H       int
}

// Mean returns (r+g+b)/3 without rounding.
func (s Sample) Mean() float64 {
	return float64(int(s.R)+int(s.G)+int(s.B)) / 3.0
}

// Rule votes on a single sample. true means erase.
type Rule interface {
	Erase(s Sample) bool
}

// BrightnessBelow erases pixels whose mean brightness is under Threshold.
type BrightnessBelow struct {
	Threshold float64
}

func (r BrightnessBelow) Erase(s Sample) bool {
	return s.Mean() < r.Threshold
}

// NearGrayscaleDark targets muddy, nearly neutral boxes: the channels are
// within ColorDelta of each other, the pixel is darker than Threshold and
// every channel is under its Max ceiling. A zero Threshold skips the
// brightness test.
type NearGrayscaleDark struct {
	ColorDelta int
	Threshold  float64
	Max        Ceiling
}

func (r NearGrayscaleDark) Erase(s Sample) bool {
	if absDiff(s.R, s.G) >= r.ColorDelta || absDiff(s.G, s.B) >= r.ColorDelta {
		return false
	}
	if r.Threshold > 0 && s.Mean() >= r.Threshold {
		return false
	}
	return r.Max.Match(s.R, s.G, s.B)
}

// Ceiling holds per-channel upper bounds. Each non-zero bound requires the
// channel to be strictly below it; zero bounds are ignored.
type Ceiling struct {
	R int `json:"r,omitempty"`
	G int `json:"g,omitempty"`
	B int `json:"b,omitempty"`
}

// Match reports whether the channels are under every configured bound.
func (c Ceiling) Match(r, g, b uint8) bool {
	if c.R > 0 && int(r) >= c.R {
		return false
	}
	if c.G > 0 && int(g) >= c.G {
		return false
	}
	if c.B > 0 && int(b) >= c.B {
		return false
	}
	return true
}

// LowAlpha erases near-transparent ghosting left by earlier passes.
type LowAlpha struct {
	Threshold int
}

func (r LowAlpha) Erase(s Sample) bool {
	return int(s.A) < r.Threshold
}

// NeonTest is a loose proxy for "looks like the glow color". Each non-zero
// floor requires the channel to be strictly above it; zero floors are
// ignored.
type NeonTest struct {
	R int `json:"r,omitempty"`
	G int `json:"g,omitempty"`
	B int `json:"b,omitempty"`
}

// Match reports whether the channels pass every configured floor.
func (n NeonTest) Match(r, g, b uint8) bool {
	if n.R > 0 && int(r) <= n.R {
		return false
	}
	if n.G > 0 && int(g) <= n.G {
		return false
	}
	if n.B > 0 && int(b) <= n.B {
		return false
	}
	return true
}

// NotNeonDark erases dark pixels that fail the neon test.
type NotNeonDark struct {
	Neon      NeonTest
	Threshold float64
}

func (r NotNeonDark) Erase(s Sample) bool {
	return !r.Neon.Match(s.R, s.G, s.B) && s.Mean() < r.Threshold
}

// BorderMargin erases pixels within Margin of any edge. With Threshold > 0
// only pixels darker than Threshold are erased; otherwise the band is
// cleared unconditionally.
type BorderMargin struct {
	Margin    int
	Threshold float64
}

func (r BorderMargin) Erase(s Sample) bool {
	if !InMargin(s.X, s.Y, s.W, s.H, r.Margin) {
		return false
	}
	if r.Threshold <= 0 {
		return true
	}
	return s.Mean() < r.Threshold
}

// InMargin reports whether (x,y) lies within m pixels of an edge of a w×h
// image.
func InMargin(x, y, w, h, m int) bool {
	if m <= 0 {
		return false
	}
	return x < m || y < m || x >= w-m || y >= h-m
}

// OffHue removes reddish/yellowish noise. A white core has r close to g and
// b, so it survives the Delta test.
type OffHue struct {
	RedFloor int
	Delta    int
}

func (r OffHue) Erase(s Sample) bool {
	if s.R <= s.G || int(s.R) <= r.RedFloor {
		return false
	}
	return absDiff(s.R, s.G) > r.Delta && absDiff(s.R, s.B) > r.Delta
}

// NearWhite erases pixels where every channel is above Threshold.
type NearWhite struct {
	Threshold int
}

func (r NearWhite) Erase(s Sample) bool {
	t := r.Threshold
	return int(s.R) > t && int(s.G) > t && int(s.B) > t
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
