package tid

import (
	"errors"
	"fmt"
	"iter"
)

// PixelSize is the byte width of one surface pixel.
const PixelSize = 4

// Pixel is one pixel in the surface byte order: straight RGBA. Glyph pixels
// are fully opaque; alpha only enters through the configured color values,
// never through per-pixel blending.
type Pixel [PixelSize]byte

// Font is the capability set shared by the two decoder backends.
//
// Font values are immutable after loading and safe for concurrent use.
type Font interface {
	// Height is the layout height of a text line in pixels.
	Height() int

	// DetermineWidth measures s in pixels. Runes the font does not map
	// contribute nothing.
	DetermineWidth(s string) int

	// Glyph returns the glyph for r, reporting whether the font maps it.
	Glyph(r rune) (Glyph, bool)
}

// Glyph is the rasterized shape of one character: a boolean pixel grid
// owned by the glyph itself, copied out of the parent font on lookup.
//
// A glyph's height is format-determined and may exceed the font's layout
// height (uf2 cells reserve 16 rows but lay text out in 8).
type Glyph struct {
	width, height int
	bits          []bool // row-major, width*height, true = foreground
}

// Width is the glyph's advance width in pixels.
func (g Glyph) Width() int { return g.width }

// Height is the number of rows the glyph stores.
func (g Glyph) Height() int { return g.height }

// Rows yields the glyph's rows top to bottom, each exactly Width cells
// wide. The sequence can be ranged over any number of times.
func (g Glyph) Rows() iter.Seq[[]bool] {
	return func(yield func([]bool) bool) {
		for y := 0; y < g.height; y++ {
			if !yield(g.bits[y*g.width : (y+1)*g.width]) {
				return
			}
		}
	}
}

// ErrBadFontFormat is returned when a font file is malformed or has the
// wrong size. Decode failures are fatal to the program: nothing can be
// drawn without a font.
var ErrBadFontFormat = errors.New("bad font format")

// FormatError describes why a font file failed to decode. It matches
// ErrBadFontFormat under errors.Is.
type FormatError struct {
	Format string // "uf2" or "psf2"
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("decode %s font: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrBadFontFormat }
