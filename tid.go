// Package tid renders host status into a fixed-size RGBA pixel strip using
// 1-bit bitmap fonts.
//
// The package decodes two font formats behind one Font interface: the uf2
// tile format (selected by the .uf2 extension) and PSF2 (everything else).
// A State owns the loaded font, the colors, and a list of Elements — clock,
// memory and cpu percentages, a scrolling usage graph — and rasterizes them
// into a caller-owned pixel surface on every redraw tick. The surrounding
// window, timer, and metric providers are supplied by the caller.
package tid

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dwynings/tid/internal/psf2"
	"github.com/dwynings/tid/internal/uf2"
)

// LoadFont reads and decodes the font file at fontPath. The decoder is
// chosen by extension: ".uf2" selects the tile font decoder, anything else
// is attempted as PSF2. The returned Font is immutable, lives for the
// process, and is safe for concurrent reads.
func LoadFont(fontPath string) (Font, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return decodeFont(filepath.Ext(fontPath), data)
}

// LoadFontFS loads a font from a filesystem at the specified path, for
// embedded fonts and tests. Path traversal (e.g. "../") is not allowed.
func LoadFontFS(fsys fs.FS, fontPath string) (Font, error) {
	if fsys == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	clean, err := cleanFSPath(fontPath)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return decodeFont(path.Ext(clean), data)
}

// cleanFSPath validates and cleans a path for use with fs.FS.
func cleanFSPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	// fs.FS disallows leading slash and uses '/' only
	if strings.HasPrefix(p, "/") {
		return "", errors.New("absolute paths not allowed")
	}
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid fs path: %s", p)
	}
	clean := path.Clean(p)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("path traversal not allowed")
	}
	return clean, nil
}

func decodeFont(ext string, data []byte) (Font, error) {
	if strings.EqualFold(ext, ".uf2") {
		f, err := uf2.Decode(data)
		if err != nil {
			return nil, &FormatError{Format: "uf2", Err: err}
		}
		return &uf2Font{f}, nil
	}
	f, err := psf2.Decode(data)
	if err != nil {
		return nil, &FormatError{Format: "psf2", Err: err}
	}
	return &psf2Font{f}, nil
}

// uf2Font adapts the tile decoder to the Font interface.
type uf2Font struct {
	f *uf2.Font
}

func (w *uf2Font) Height() int { return w.f.Height() }

func (w *uf2Font) DetermineWidth(s string) int {
	total := 0
	for _, r := range s {
		if r <= unicode.MaxASCII {
			total += w.f.Width(byte(r))
		}
	}
	return total
}

func (w *uf2Font) Glyph(r rune) (Glyph, bool) {
	if r < 0 || r > unicode.MaxASCII {
		return Glyph{}, false
	}
	g := w.f.Glyph(byte(r))
	return copyGlyph(g.Width, uf2.CellSize, g.Row), true
}

// psf2Font adapts the PSF2 decoder to the Font interface.
type psf2Font struct {
	f *psf2.Font
}

func (w *psf2Font) Height() int { return w.f.Height() }

// PSF2 fonts are fixed width, so measuring is a rune count.
func (w *psf2Font) DetermineWidth(s string) int {
	return utf8.RuneCountInString(s) * w.f.Width()
}

func (w *psf2Font) Glyph(r rune) (Glyph, bool) {
	idx, ok := w.f.Index(r)
	if !ok {
		return Glyph{}, false
	}
	g := w.f.Glyph(idx)
	return copyGlyph(g.Width, g.Height, g.Row), true
}

// copyGlyph materializes an owned boolean grid from a decoder row accessor,
// so that the returned Glyph does not alias decoder storage.
func copyGlyph(width, height int, row func(y int) []bool) Glyph {
	bits := make([]bool, 0, width*height)
	for y := 0; y < height; y++ {
		bits = append(bits, row(y)...)
	}
	return Glyph{width: width, height: height, bits: bits}
}
