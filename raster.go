package tid

import "math"

// Block is a transient rectangle of pixels produced by rasterizing one
// element and consumed by the compositor within the same redraw.
type Block struct {
	height int
	pixels []Pixel // row-major, height*width
}

// Height is the block's pixel height.
func (b Block) Height() int { return b.height }

// Width is derived from the flat buffer length.
func (b Block) Width() int {
	if b.height == 0 {
		return 0
	}
	return len(b.pixels) / b.height
}

// At returns the pixel at (x, y).
func (b Block) At(x, y int) Pixel { return b.pixels[y*b.Width()+x] }

func newBlock(width, height int, bg Pixel) Block {
	pixels := make([]Pixel, width*height)
	for i := range pixels {
		pixels[i] = bg
	}
	return Block{height: height, pixels: pixels}
}

// DrawText rasterizes s left to right in the given font. Runes the font
// does not map are skipped entirely and contribute no columns, so the
// block width equals the sum of the rendered glyph widths.
func DrawText(f Font, s string, fg, bg Pixel) Block {
	height := f.Height()
	var glyphs []Glyph
	width := 0
	for _, r := range s {
		g, ok := f.Glyph(r)
		if !ok {
			continue
		}
		glyphs = append(glyphs, g)
		width += g.Width()
	}

	b := newBlock(width, height, bg)
	x0 := 0
	for _, g := range glyphs {
		y := 0
		for row := range g.Rows() {
			if y == height {
				break // uf2 cells store rows below the layout band
			}
			for xg, set := range row {
				if set {
					b.pixels[y*width+x0+xg] = fg
				}
			}
			y++
		}
		x0 += g.Width()
	}
	return b
}

// DrawGraph rasterizes a percentage history, one column per sample with
// the most recent sample leftmost. A column fills bottom-up in proportion
// to its value; a not-a-number sample leaves its column empty.
func DrawGraph(hist *History[float64], height int, fg, bg Pixel) Block {
	width := hist.Len()
	b := newBlock(width, height, bg)
	x := 0
	for v := range hist.Values() {
		blank := height
		if !math.IsNaN(v) {
			blank = height - int(math.Round(v/100*float64(height)))
		}
		if blank < 0 {
			blank = 0
		}
		if blank > height {
			blank = height
		}
		for y := blank; y < height; y++ {
			b.pixels[y*width+x] = fg
		}
		x++
	}
	return b
}

// BlitTo copies the block into surface, a flat RGBA buffer surfaceWidth
// pixels wide, with the block's left edge at x. The caller guarantees the
// block fits; rows are copied wholesale and nothing outside the block's
// rectangle is touched.
func (b Block) BlitTo(surface []byte, surfaceWidth, x int) {
	width := b.Width()
	for y := 0; y < b.height; y++ {
		off := (y*surfaceWidth + x) * PixelSize
		for bx := 0; bx < width; bx++ {
			copy(surface[off+bx*PixelSize:], b.pixels[y*width+bx][:])
		}
	}
}
