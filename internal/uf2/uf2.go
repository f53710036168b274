// Package uf2 decodes the uf2 tile-based bitmap font format.
//
// A uf2 file is exactly 0x2100 bytes: 256 per-glyph advance widths followed
// by 8192 bytes of tile data. Each glyph owns four 8x8 tiles arranged in a
// 2x2 grid, one bit per pixel with the most significant bit leftmost.
// Glyphs are addressed by ASCII value. Details on the format can be found
// at https://wiki.xxiivv.com/site/ufx_format.html and related repositories.
package uf2

import "fmt"

const (
	// FileSize is the exact byte length of a uf2 font file.
	FileSize = 0x2100

	tileRows  = 8
	tileCount = 4
	cellBytes = tileCount * tileRows
	numGlyphs = 256

	// CellSize is the pixel span of the 2x2 tile grid in both directions.
	// Rendering only uses the upper tileRows band; see Font.Height.
	CellSize = 16
)

// Font is a decoded uf2 font. It owns a copy of the file bytes and is
// immutable after Decode, so it can be shared freely.
type Font struct {
	widths [numGlyphs]byte
	tiles  [numGlyphs * cellBytes]byte
}

// Decode builds a Font from the raw bytes of a uf2 file. Decode fails on a
// size mismatch or on an advance width wider than the 16-pixel cell, so
// every glyph a decoded Font hands out addresses inside its tile grid.
func Decode(data []byte) (*Font, error) {
	if len(data) != FileSize {
		return nil, fmt.Errorf("font must be exactly %d bytes, got %d", FileSize, len(data))
	}
	f := &Font{}
	copy(f.widths[:], data[:numGlyphs])
	for ch, w := range f.widths {
		if int(w) > CellSize {
			return nil, fmt.Errorf("glyph %d declares width %d, wider than the %d-pixel cell", ch, w, CellSize)
		}
	}
	copy(f.tiles[:], data[numGlyphs:])
	return f, nil
}

// Height is the rendered line height in pixels. The format reserves a
// 16-row cell per glyph, but the fonts this was verified against keep all
// strokes in the upper 8-row band and leave the lower tiles blank, so
// layout uses 8. Glyph rows still expose the full cell.
func (f *Font) Height() int { return tileRows }

// Width returns the advance width declared for ch. Unmapped slots declare
// width 0 and so contribute nothing to text measurement.
func (f *Font) Width(ch byte) int { return int(f.widths[ch]) }

// Glyph returns the glyph cell for ch. The glyph borrows the font's tile
// storage and must not outlive it.
func (f *Font) Glyph(ch byte) Glyph {
	off := int(ch) * cellBytes
	return Glyph{
		Width: int(f.widths[ch]),
		cell:  f.tiles[off : off+cellBytes],
	}
}

// Glyph is one character cell: four row-major 8-byte tiles plus the
// declared advance width. Only the left Width columns are meaningful.
type Glyph struct {
	Width int
	cell  []byte
}

// Pixel reports whether the cell bit at (x, y) is set, for x and y in
// 0..16. Tiles cover the cell column-major: tile (x/8)*2 + y/8, byte row
// y%8 within the tile, bit 7-(x%8).
func (g Glyph) Pixel(x, y int) bool {
	tile := (x/8)*2 + y/8
	row := g.cell[tile*tileRows+y%8]
	return row>>(7-x%8)&1 != 0
}

// Row returns cell row y truncated to the declared width, so that callers
// measuring or blitting never see padding columns.
func (g Glyph) Row(y int) []bool {
	row := make([]bool, g.Width)
	for x := range row {
		row[x] = g.Pixel(x, y)
	}
	return row
}
