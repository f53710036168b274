// Package psf2 decodes PC Screen Font version 2 files.
//
// A PSF2 file is a 32-byte little-endian header, a run of fixed-size glyph
// bitmaps, and optionally a unicode table mapping code points to glyph
// indices. Glyph rows are packed one bit per pixel, most significant bit
// leftmost, padded to whole bytes.
package psf2

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

const (
	// Magic identifies a PSF2 file.
	Magic = 0x864ab572

	headerSize  = 32
	flagUnicode = 0x01

	// Unicode table separators.
	sepSequence = 0xfe
	sepGlyph    = 0xff
)

type header struct {
	version    uint32
	headerSize uint32
	flags      uint32
	length     uint32 // glyph count
	charSize   uint32 // bytes per glyph bitmap
	height     uint32
	width      uint32
}

// Font is a decoded PSF2 font. The glyph region and unicode table are
// validated against the header at decode time, so lookups cannot fail
// structurally afterwards.
type Font struct {
	h      header
	glyphs []byte
	table  map[rune]uint32 // nil when the file carries no unicode table
}

// Decode parses the raw bytes of a PSF2 file.
func Decode(data []byte) (*Font, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%d bytes is too short for a header", len(data))
	}
	if m := binary.LittleEndian.Uint32(data[0:]); m != Magic {
		return nil, fmt.Errorf("bad magic 0x%08x", m)
	}
	h := header{
		version:    binary.LittleEndian.Uint32(data[4:]),
		headerSize: binary.LittleEndian.Uint32(data[8:]),
		flags:      binary.LittleEndian.Uint32(data[12:]),
		length:     binary.LittleEndian.Uint32(data[16:]),
		charSize:   binary.LittleEndian.Uint32(data[20:]),
		height:     binary.LittleEndian.Uint32(data[24:]),
		width:      binary.LittleEndian.Uint32(data[28:]),
	}
	if h.version != 0 {
		return nil, fmt.Errorf("unsupported version %d", h.version)
	}
	if h.headerSize < headerSize || uint64(h.headerSize) > uint64(len(data)) {
		return nil, fmt.Errorf("header size %d out of range", h.headerSize)
	}
	if h.width == 0 || h.height == 0 {
		return nil, fmt.Errorf("glyph dimensions %dx%d", h.width, h.height)
	}
	if h.charSize < (h.width+7)/8*h.height {
		return nil, fmt.Errorf("%d bytes per glyph cannot hold %dx%d pixels", h.charSize, h.width, h.height)
	}
	glyphEnd := uint64(h.headerSize) + uint64(h.length)*uint64(h.charSize)
	if glyphEnd > uint64(len(data)) {
		return nil, fmt.Errorf("glyph region truncated: need %d bytes, have %d", glyphEnd, len(data))
	}

	f := &Font{h: h, glyphs: append([]byte(nil), data[h.headerSize:glyphEnd]...)}
	if h.flags&flagUnicode != 0 {
		table, err := parseUnicodeTable(data[glyphEnd:], h.length)
		if err != nil {
			return nil, err
		}
		f.table = table
	}
	return f, nil
}

// parseUnicodeTable reads the per-glyph code point entries. Each glyph gets
// a run of UTF-8 sequences terminated by 0xff; 0xfe introduces a combining
// sequence, which maps multiple code points to one glyph and is skipped
// here since text layout draws single runes.
func parseUnicodeTable(data []byte, glyphs uint32) (map[rune]uint32, error) {
	table := make(map[rune]uint32)
	idx := uint32(0)
	for i := 0; i < len(data); {
		switch data[i] {
		case sepGlyph:
			idx++
			i++
		case sepSequence:
			for i < len(data) && data[i] != sepGlyph {
				i++
			}
		default:
			if idx >= glyphs {
				return nil, fmt.Errorf("unicode table describes more than %d glyphs", glyphs)
			}
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size <= 1 {
				return nil, fmt.Errorf("invalid UTF-8 in unicode table at offset %d", i)
			}
			if _, dup := table[r]; !dup {
				table[r] = idx
			}
			i += size
		}
	}
	if idx > glyphs {
		return nil, fmt.Errorf("unicode table describes %d glyphs, header declares %d", idx, glyphs)
	}
	return table, nil
}

// Width is the fixed glyph width in pixels.
func (f *Font) Width() int { return int(f.h.width) }

// Height is the glyph height in pixels.
func (f *Font) Height() int { return int(f.h.height) }

// Glyphs is the number of glyph bitmaps in the font.
func (f *Font) Glyphs() int { return int(f.h.length) }

// Index resolves a rune to its glyph index. Without a unicode table the
// code point addresses the glyph array directly.
func (f *Font) Index(r rune) (int, bool) {
	if f.table != nil {
		idx, ok := f.table[r]
		return int(idx), ok
	}
	if r < 0 || uint32(r) >= f.h.length {
		return 0, false
	}
	return int(r), true
}

// Glyph returns glyph bitmap number idx. The index must come from Index.
func (f *Font) Glyph(idx int) Glyph {
	off := idx * int(f.h.charSize)
	return Glyph{
		Width:  int(f.h.width),
		Height: int(f.h.height),
		stride: int(f.h.width+7) / 8,
		bits:   f.glyphs[off : off+int(f.h.charSize)],
	}
}

// Glyph is one fixed-size character bitmap borrowed from its parent Font.
type Glyph struct {
	Width  int
	Height int
	stride int
	bits   []byte
}

// Pixel reports whether the bit at (x, y) is set.
func (g Glyph) Pixel(x, y int) bool {
	return g.bits[y*g.stride+x/8]>>(7-x%8)&1 != 0
}

// Row returns bitmap row y as booleans, exactly Width cells wide; the
// byte-padding bits past the declared width are dropped.
func (g Glyph) Row(y int) []bool {
	row := make([]bool, g.Width)
	for x := range row {
		row[x] = g.Pixel(x, y)
	}
	return row
}
