package mask

import (
	"fmt"
	"image"
	"runtime"
	"sync"
)

// Classifier OR-combines its rules: a sample is erased as soon as any rule
// votes for it.
type Classifier struct {
	rules []Rule
}

// New returns a Classifier over rules. A Classifier without rules never
// erases anything.
func New(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Erase reports whether s is background.
func (c *Classifier) Erase(s Sample) bool {
	for _, r := range c.rules {
		if r.Erase(s) {
			return true
		}
	}
	return false
}

// Len returns the number of rules.
func (c *Classifier) Len() int { return len(c.rules) }

// Stats summarizes one pass over an image.
type Stats struct {
	Pass         string
	Visited      int
	Erased       int // pixels turned transparent by this pass
	AlreadyClear int // pixels that were (0,0,0,0) before the pass
}

func (s Stats) String() string {
	return fmt.Sprintf("%s: erased %d of %d px (%d already clear)", s.Pass, s.Erased, s.Visited, s.AlreadyClear)
}

// Apply runs c over every pixel of img and overwrites erased pixels with
// transparent black in place. Kept pixels are never written. Rows are split
// across workers goroutines (workers <= 0 means runtime.NumCPU()); Apply
// returns only after every row has been visited.
func Apply(img *image.NRGBA, c *Classifier, workers int) Stats {
	var st Stats
	if img == nil || c == nil {
		return st
	}
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	st.Visited = w * h
	if w == 0 || h == 0 {
		return st
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}

	scan := func(y0, y1 int) (erased, cleared int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
				p := img.Pix[i : i+4 : i+4]
				if p[0] == 0 && p[1] == 0 && p[2] == 0 && p[3] == 0 {
					cleared++
					continue
				}
				s := Sample{R: p[0], G: p[1], B: p[2], A: p[3], X: x, Y: y, W: w, H: h}
				if c.Erase(s) {
					p[0], p[1], p[2], p[3] = 0, 0, 0, 0
					erased++
				}
			}
		}
		return erased, cleared
	}

	if workers == 1 {
		st.Erased, st.AlreadyClear = scan(0, h)
		return st
	}

	chunk := (h + workers - 1) / workers
	erased := make([]int, workers)
	cleared := make([]int, workers)
	var wg sync.WaitGroup
	for wi := 0; wi < workers; wi++ {
		y0 := wi * chunk
		y1 := y0 + chunk
		if y1 > h {
			y1 = h
		}
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(wi, y0, y1 int) {
			defer wg.Done()
			erased[wi], cleared[wi] = scan(y0, y1)
		}(wi, y0, y1)
	}
	wg.Wait()
	for wi := range erased {
		st.Erased += erased[wi]
		st.AlreadyClear += cleared[wi]
	}
	return st
}

// RunPasses compiles and applies passes to img in order. A pass starts only
// after the previous one has finished, so later passes see the partially
// erased buffer.
func RunPasses(img *image.NRGBA, passes []Pass, workers int) ([]Stats, error) {
	classifiers := make([]*Classifier, len(passes))
	for i, p := range passes {
		c, err := p.Compile()
		if err != nil {
			return nil, err
		}
		classifiers[i] = c
	}
	stats := make([]Stats, 0, len(passes))
	for i, c := range classifiers {
		st := Apply(img, c, workers)
		st.Pass = passes[i].Name
		if st.Pass == "" {
			st.Pass = fmt.Sprintf("pass %d", i+1)
		}
		stats = append(stats, st)
	}
	return stats, nil
}
