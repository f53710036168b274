package tid

import (
	"fmt"
	"math"
	"time"
)

// Metrics supplies host CPU and memory readings.
type Metrics interface {
	// CPUPercent is the average usage across all cores, 0-100.
	CPUPercent() (float64, error)

	// MemoryPercent is used memory as a percentage of available memory.
	MemoryPercent() (float64, error)
}

// BatteryGauge supplies the battery state of charge, 0-100.
type BatteryGauge interface {
	Percent() (float64, error)
}

// Player reports the music player transport state. ok is false while the
// player is unreachable.
type Player interface {
	Status() (state PlaybackState, ok bool)
}

// NaNPolicy selects how percentage elements handle a not-a-number sample.
type NaNPolicy int

const (
	// NaNPlaceholder renders a fixed dash string for the sample.
	NaNPlaceholder NaNPolicy = iota

	// NaNHoldLast keeps showing the previous valid value.
	NaNHoldLast
)

// percentPlaceholder is rendered when no valid sample is available.
const percentPlaceholder = "--%"

// State owns the font, the colors, and the element list, and drives one
// redraw at a time: Update refreshes element values from the providers,
// Draw rasterizes them into a caller-owned surface. Both are synchronous
// and deterministic for a given element state; the only state carried
// across redraws is the elements' own values.
type State struct {
	font       Font
	foreground Pixel
	background Pixel
	elements   []Element
	nanPolicy  NaNPolicy

	now     func() time.Time
	metrics Metrics
	battery BatteryGauge
	player  Player
}

// StateOption configures a State.
type StateOption func(*State)

// WithColors sets the foreground and background colors.
func WithColors(fg, bg Pixel) StateOption {
	return func(s *State) {
		s.foreground = fg
		s.background = bg
	}
}

// WithElements sets the element list, replacing the default status line.
func WithElements(elements ...Element) StateOption {
	return func(s *State) { s.elements = elements }
}

// WithMetrics supplies the CPU and memory provider.
func WithMetrics(m Metrics) StateOption {
	return func(s *State) { s.metrics = m }
}

// WithBattery supplies the battery provider.
func WithBattery(b BatteryGauge) StateOption {
	return func(s *State) { s.battery = b }
}

// WithPlayer supplies the music player provider.
func WithPlayer(p Player) StateOption {
	return func(s *State) { s.player = p }
}

// WithClock overrides the wall clock source.
func WithClock(now func() time.Time) StateOption {
	return func(s *State) { s.now = now }
}

// WithNaNPolicy selects the not-a-number handling for percentage elements.
func WithNaNPolicy(p NaNPolicy) StateOption {
	return func(s *State) { s.nanPolicy = p }
}

// NewState builds a State around a loaded font. Without options it shows
// white-on-transparent with the default element line.
func NewState(font Font, opts ...StateOption) *State {
	s := &State{
		font:       font,
		foreground: Pixel{0xff, 0xff, 0xff, 0xff},
		background: Pixel{0x00, 0x00, 0x00, 0x00},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.elements == nil {
		s.elements = DefaultElements(100)
	}
	return s
}

// DefaultElements is the classic status line: clock, memory, cpu, and a
// scrolling usage graph of the given width.
func DefaultElements(graphWidth int) []Element {
	return []Element{
		&Time{},
		&Space{},
		&Label{Text: "m"},
		NewMem(),
		&Space{},
		&Label{Text: "c"},
		NewCPU(),
		&Space{},
		NewCPUGraph(graphWidth),
	}
}

// Font returns the state's font.
func (s *State) Font() Font { return s.font }

// WindowSize is the surface size the element line needs: the sum of the
// slot widths by the font's line height.
func (s *State) WindowSize() (width, height int) {
	for _, e := range s.elements {
		width += e.SlotWidth(s.font)
	}
	return width, s.font.Height()
}

// Update refreshes every element's value from its provider. A provider
// error leaves the previous value in place until the next tick; absent
// providers leave their elements untouched.
//
// CPU is sampled at most once per tick and the reading is shared between
// the percentage element and the graph: the provider measures usage since
// its previous call, so a second read in the same tick would cover a
// near-empty window and report close to zero.
func (s *State) Update() {
	cpuSampled := false
	var cpuPct float64
	var cpuErr error
	sampleCPU := func() (float64, error) {
		if !cpuSampled {
			cpuSampled = true
			cpuPct, cpuErr = s.metrics.CPUPercent()
		}
		return cpuPct, cpuErr
	}

	for _, e := range s.elements {
		switch e := e.(type) {
		case *Date:
			e.now = s.now()
		case *Time:
			e.now = s.now()
		case *Mem:
			if s.metrics == nil {
				continue
			}
			if pct, err := s.metrics.MemoryPercent(); err == nil {
				s.storePercent(&e.pct, pct)
			}
		case *CPU:
			if s.metrics == nil {
				continue
			}
			if pct, err := sampleCPU(); err == nil {
				s.storePercent(&e.pct, pct)
			}
		case *Battery:
			if s.battery == nil {
				continue
			}
			if pct, err := s.battery.Percent(); err == nil {
				s.storePercent(&e.pct, pct)
			}
		case *CPUGraph:
			if s.metrics == nil {
				continue
			}
			if pct, err := sampleCPU(); err == nil {
				e.hist.Push(pct)
			}
		case *Playback:
			if s.player == nil {
				continue
			}
			if state, ok := s.player.Status(); ok {
				e.state = state
			}
		}
	}
}

// storePercent applies the NaN policy on write: under NaNHoldLast a NaN
// sample leaves the previous value in place.
func (s *State) storePercent(dst *float64, v float64) {
	if math.IsNaN(v) && s.nanPolicy == NaNHoldLast {
		return
	}
	*dst = v
}

// formatPercent renders a percentage value right-padded to three digits.
// NaN means no valid sample exists yet (under NaNHoldLast nothing valid
// was ever stored), so the placeholder covers both policies.
func (s *State) formatPercent(v float64) string {
	if math.IsNaN(v) {
		return percentPlaceholder
	}
	return fmt.Sprintf("%3.0f%%", v)
}

// Draw rasterizes every element into surface, a flat RGBA buffer of the
// size advertised by WindowSize. Draw cannot fail once the font is loaded:
// runes the font does not map are skipped, and elements only ever blit
// inside their own slot.
func (s *State) Draw(surface []byte) {
	width, _ := s.WindowSize()
	x := 0
	for _, e := range s.elements {
		slot := e.SlotWidth(s.font)
		var block Block
		switch e := e.(type) {
		case *Padding, *Space:
			x += slot
			continue
		case *Label:
			block = DrawText(s.font, e.Text, s.foreground, s.background)
		case *Date:
			text := fmt.Sprintf("%04d-%02d-%02d", e.now.Year(), e.now.Month(), e.now.Day())
			block = DrawText(s.font, text, s.foreground, s.background)
		case *Time:
			text := fmt.Sprintf("%02d:%02d:%02d", e.now.Hour(), e.now.Minute(), e.now.Second())
			block = DrawText(s.font, text, s.foreground, s.background)
		case *Mem:
			block = DrawText(s.font, s.formatPercent(e.pct), s.foreground, s.background)
		case *CPU:
			block = DrawText(s.font, s.formatPercent(e.pct), s.foreground, s.background)
		case *Battery:
			block = DrawText(s.font, s.formatPercent(e.pct), s.foreground, s.background)
		case *CPUGraph:
			block = DrawGraph(e.hist, s.font.Height(), s.foreground, s.background)
		case *Playback:
			block = DrawText(s.font, e.state.Symbol(), s.foreground, s.background)
		}

		// The slot reserves room for the widest possible rendering; the
		// overshoot is the room the current value does not use.
		overshoot := slot - block.Width()
		if overshoot < 0 {
			overshoot = 0
		}
		switch e.Alignment() {
		case AlignLeft:
			block.BlitTo(surface, width, x)
			x += overshoot
		case AlignRight:
			x += overshoot
			block.BlitTo(surface, width, x)
		}
		x += block.Width()
	}
}
