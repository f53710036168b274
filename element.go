package tid

import (
	"math"
	"time"
)

// Alignment places a rendered block within its reserved slot.
type Alignment int

const (
	// AlignLeft blits at the cursor and pads after the block.
	AlignLeft Alignment = iota

	// AlignRight pads before the block, pinning its right edge to the end
	// of the slot. Percentages and other fluctuating-width values use this
	// so their neighbors do not jitter when a numeral shrinks.
	AlignRight
)

// PlaybackState mirrors the music player's transport state.
type PlaybackState int

const (
	Stop PlaybackState = iota
	Play
	Pause
)

// Symbol is the single-character rendering of the state.
func (s PlaybackState) Symbol() string {
	switch s {
	case Play:
		return ">"
	case Pause:
		return "\""
	default:
		return "#"
	}
}

// Element is one field of the status line. A slot of SlotWidth pixels is
// reserved for it in the layout regardless of how wide its current value
// renders. Elements are created once at configuration time and mutated in
// place by State.Update until the process exits.
type Element interface {
	// SlotWidth is the widest rendering this element can ever need.
	SlotWidth(f Font) int

	// Alignment places the rendered block within the slot.
	Alignment() Alignment
}

// Padding advances the layout cursor by a fixed pixel amount and draws
// nothing.
type Padding struct {
	Pixels int
}

func (p *Padding) SlotWidth(Font) int   { return p.Pixels }
func (p *Padding) Alignment() Alignment { return AlignRight }

// Space advances by the width of two spaces in the active font and draws
// nothing.
type Space struct{}

func (*Space) SlotWidth(f Font) int { return f.DetermineWidth("  ") }
func (*Space) Alignment() Alignment { return AlignRight }

// Label is a static string.
type Label struct {
	Text string
}

func (l *Label) SlotWidth(f Font) int { return f.DetermineWidth(l.Text) }
func (l *Label) Alignment() Alignment { return AlignRight }

// Date shows the current date as 0000-00-00.
type Date struct {
	now time.Time
}

func (*Date) SlotWidth(f Font) int { return f.DetermineWidth("0000-00-00") }

// Leading zeros keep the rendering full width, so left alignment never
// jitters here.
func (*Date) Alignment() Alignment { return AlignLeft }

// Time shows the current wall clock as 00:00:00.
type Time struct {
	now time.Time
}

func (*Time) SlotWidth(f Font) int { return f.DetermineWidth("00:00:00") }
func (*Time) Alignment() Alignment { return AlignLeft }

// percentSlot is the widest rendering of any percentage element.
const percentSlot = "000%"

// Mem shows used memory as a percentage of available memory.
type Mem struct {
	pct float64
}

// NewMem returns a memory element with no sample yet.
func NewMem() *Mem { return &Mem{pct: math.NaN()} }

func (*Mem) SlotWidth(f Font) int { return f.DetermineWidth(percentSlot) }
func (*Mem) Alignment() Alignment { return AlignRight }

// CPU shows usage averaged across all cores.
type CPU struct {
	pct float64
}

// NewCPU returns a cpu element with no sample yet.
func NewCPU() *CPU { return &CPU{pct: math.NaN()} }

func (*CPU) SlotWidth(f Font) int { return f.DetermineWidth(percentSlot) }
func (*CPU) Alignment() Alignment { return AlignRight }

// Battery shows the battery state of charge.
type Battery struct {
	pct float64
}

// NewBattery returns a battery element with no sample yet.
func NewBattery() *Battery { return &Battery{pct: math.NaN()} }

func (*Battery) SlotWidth(f Font) int { return f.DetermineWidth(percentSlot) }
func (*Battery) Alignment() Alignment { return AlignRight }

// CPUGraph scrolls a column-per-sample usage history. Its width in pixels
// equals the sample capacity.
type CPUGraph struct {
	hist *History[float64]
}

// NewCPUGraph returns a graph over the given number of samples.
func NewCPUGraph(samples int) *CPUGraph {
	return &CPUGraph{hist: NewHistory[float64](samples)}
}

// History exposes the graph's backing buffer.
func (g *CPUGraph) History() *History[float64] { return g.hist }

func (g *CPUGraph) SlotWidth(Font) int   { return g.hist.Len() }
func (g *CPUGraph) Alignment() Alignment { return AlignRight }

// Playback shows the music player transport symbol.
type Playback struct {
	state PlaybackState
}

// NewPlayback returns a playback element in the Stop state.
func NewPlayback() *Playback { return &Playback{} }

// SlotWidth reserves room for the widest of the three symbols, since the
// state glyphs need not be equally wide.
func (*Playback) SlotWidth(f Font) int {
	widest := 0
	for _, s := range []PlaybackState{Stop, Play, Pause} {
		if w := f.DetermineWidth(s.Symbol()); w > widest {
			widest = w
		}
	}
	return widest
}

func (*Playback) Alignment() Alignment { return AlignRight }
