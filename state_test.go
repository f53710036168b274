package tid

import (
	"errors"
	"math"
	"testing"
	"time"
)

type stubMetrics struct {
	cpu, mem float64
	err      error
}

func (m *stubMetrics) CPUPercent() (float64, error)    { return m.cpu, m.err }
func (m *stubMetrics) MemoryPercent() (float64, error) { return m.mem, m.err }

type stubBattery struct {
	pct float64
	err error
}

func (b *stubBattery) Percent() (float64, error) { return b.pct, b.err }

type stubPlayer struct {
	state PlaybackState
	ok    bool
}

func (p *stubPlayer) Status() (PlaybackState, bool) { return p.state, p.ok }

func TestState_WindowSize(t *testing.T) {
	font := &fakeFont{height: 8, widths: map[rune]int{'0': 2, ':': 1, ' ': 3, '%': 2}}
	st := NewState(font, WithElements(
		&Time{},           // "00:00:00" = 6*2 + 2*1 = 14
		&Space{},          // "  " = 6
		&Padding{Pixels: 10},
		NewCPUGraph(25),
	))

	width, height := st.WindowSize()
	if want := 14 + 6 + 10 + 25; width != want {
		t.Errorf("WindowSize() width = %d, want %d", width, want)
	}
	if height != 8 {
		t.Errorf("WindowSize() height = %d, want 8", height)
	}
}

func TestState_Update(t *testing.T) {
	metrics := &stubMetrics{cpu: 42, mem: 61}
	battery := &stubBattery{pct: 88}
	player := &stubPlayer{state: Pause, ok: true}

	mem := NewMem()
	cpu := NewCPU()
	bat := NewBattery()
	graph := NewCPUGraph(3)
	play := NewPlayback()
	clock := &Time{}
	date := &Date{}

	at := time.Date(2023, 11, 5, 13, 37, 42, 0, time.UTC)
	st := NewState(
		&fakeFont{height: 8, widths: map[rune]int{}},
		WithElements(clock, date, mem, cpu, bat, graph, play),
		WithMetrics(metrics),
		WithBattery(battery),
		WithPlayer(player),
		WithClock(func() time.Time { return at }),
	)
	st.Update()

	if !clock.now.Equal(at) || !date.now.Equal(at) {
		t.Errorf("clock/date = %v/%v, want %v", clock.now, date.now, at)
	}
	if mem.pct != 61 || cpu.pct != 42 || bat.pct != 88 {
		t.Errorf("mem/cpu/battery = %v/%v/%v, want 61/42/88", mem.pct, cpu.pct, bat.pct)
	}
	if got := graph.History().At(0); got != 42 {
		t.Errorf("graph newest sample = %v, want 42", got)
	}
	if play.state != Pause {
		t.Errorf("playback state = %v, want Pause", play.state)
	}
}

func TestState_UpdateRetainsOnError(t *testing.T) {
	metrics := &stubMetrics{cpu: 42, mem: 61}
	cpu := NewCPU()
	st := NewState(
		&fakeFont{height: 8, widths: map[rune]int{}},
		WithElements(cpu),
		WithMetrics(metrics),
	)

	st.Update()
	if cpu.pct != 42 {
		t.Fatalf("cpu = %v, want 42", cpu.pct)
	}

	metrics.err = errors.New("provider down")
	metrics.cpu = 99
	st.Update()
	if cpu.pct != 42 {
		t.Errorf("cpu after provider error = %v, want retained 42", cpu.pct)
	}
}

// windowedMetrics mimics a CPU provider that measures usage since its
// previous call: the first read in a burst reports the real load, an
// immediate re-read covers a near-empty window and sees zero.
type windowedMetrics struct {
	cpu   float64
	calls int
}

func (m *windowedMetrics) CPUPercent() (float64, error) {
	m.calls++
	if m.calls > 1 {
		return 0, nil
	}
	return m.cpu, nil
}

func (m *windowedMetrics) MemoryPercent() (float64, error) { return 0, nil }

func TestState_UpdateSamplesCPUOncePerTick(t *testing.T) {
	metrics := &windowedMetrics{cpu: 87}
	cpu := NewCPU()
	graph := NewCPUGraph(3)
	st := NewState(
		&fakeFont{height: 8, widths: map[rune]int{}},
		WithElements(cpu, graph),
		WithMetrics(metrics),
	)

	st.Update()

	if metrics.calls != 1 {
		t.Errorf("CPUPercent calls per tick = %d, want 1", metrics.calls)
	}
	if cpu.pct != 87 {
		t.Errorf("cpu element = %v, want 87", cpu.pct)
	}
	if got := graph.History().At(0); got != 87 {
		t.Errorf("graph newest sample = %v, want the shared reading 87", got)
	}
}

func TestState_UpdateWithoutProviders(t *testing.T) {
	st := NewState(&fakeFont{height: 8, widths: map[rune]int{}})
	st.Update() // no metrics, battery, or player wired: must not panic
}

func TestState_NaNPolicies(t *testing.T) {
	metrics := &stubMetrics{cpu: 42}

	t.Run("placeholder", func(t *testing.T) {
		cpu := NewCPU()
		st := NewState(
			&fakeFont{height: 8, widths: map[rune]int{}},
			WithElements(cpu),
			WithMetrics(metrics),
			WithNaNPolicy(NaNPlaceholder),
		)
		st.Update()
		metrics.cpu = math.NaN()
		st.Update()
		if !math.IsNaN(cpu.pct) {
			t.Errorf("cpu = %v, want NaN stored under placeholder policy", cpu.pct)
		}
		if got := st.formatPercent(cpu.pct); got != "--%" {
			t.Errorf("formatPercent(NaN) = %q, want \"--%%\"", got)
		}
	})

	t.Run("hold last", func(t *testing.T) {
		metrics.cpu = 42
		cpu := NewCPU()
		st := NewState(
			&fakeFont{height: 8, widths: map[rune]int{}},
			WithElements(cpu),
			WithMetrics(metrics),
			WithNaNPolicy(NaNHoldLast),
		)
		st.Update()
		metrics.cpu = math.NaN()
		st.Update()
		if cpu.pct != 42 {
			t.Errorf("cpu = %v, want held 42 under hold-last policy", cpu.pct)
		}
	})
}

func TestState_FormatPercent(t *testing.T) {
	st := NewState(&fakeFont{height: 8, widths: map[rune]int{}})
	tests := []struct {
		v    float64
		want string
	}{
		{0, "  0%"},
		{5, "  5%"},
		{42, " 42%"},
		{100, "100%"},
		{math.NaN(), "--%"},
	}
	for _, tt := range tests {
		if got := st.formatPercent(tt.v); got != tt.want {
			t.Errorf("formatPercent(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

// TestState_RightAlignment pins the slot semantics: a block narrower than
// its slot is blitted at x + overshoot, and the cursor still ends at the
// slot boundary so the next element does not drift.
func TestState_RightAlignment(t *testing.T) {
	// No space glyph: "  5%" renders 2 columns wide against a 4-column
	// slot ("000%"), so the overshoot is 2.
	font := &fakeFont{height: 2, widths: map[rune]int{
		'0': 1, '5': 1, '%': 1, 'a': 1,
	}}
	cpu := NewCPU()
	cpu.pct = 5
	st := NewState(font,
		WithElements(cpu, &Label{Text: "a"}),
		WithColors(white, clear),
	)

	width, height := st.WindowSize()
	if width != 5 || height != 2 {
		t.Fatalf("WindowSize() = %dx%d, want 5x2", width, height)
	}

	surface := make([]byte, width*height*PixelSize)
	st.Draw(surface)

	// Columns: 0-1 untouched overshoot, 2-3 the "5%" glyphs, 4 the label.
	wantLit := []bool{false, false, true, true, true}
	for x, lit := range wantLit {
		for y := 0; y < height; y++ {
			off := (y*width + x) * PixelSize
			var got Pixel
			copy(got[:], surface[off:off+PixelSize])
			want := Pixel{}
			if lit {
				want = white
			}
			if got != want {
				t.Errorf("surface(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// TestState_LeftAlignment checks that a left-aligned element is blitted at
// the running cursor and the cursor advances by the full slot width.
func TestState_LeftAlignment(t *testing.T) {
	font := &fakeFont{height: 1, widths: map[rune]int{
		'0': 1, '1': 1, '2': 1, '3': 1, '4': 1, '5': 1, ':': 1, 'a': 1,
	}}
	clock := &Time{now: time.Date(2023, 1, 1, 12, 34, 50, 0, time.UTC)}
	st := NewState(font,
		WithElements(clock, &Label{Text: "a"}),
		WithColors(white, clear),
	)

	width, _ := st.WindowSize()
	if width != 9 {
		t.Fatalf("WindowSize() width = %d, want 9", width)
	}

	surface := make([]byte, width*PixelSize)
	st.Draw(surface)

	// All eight clock columns plus the trailing label must be lit.
	for x := 0; x < width; x++ {
		off := x * PixelSize
		var got Pixel
		copy(got[:], surface[off:off+PixelSize])
		if got != white {
			t.Errorf("surface(%d, 0) = %v, want foreground", x, got)
		}
	}
}

func TestState_DrawGraphElement(t *testing.T) {
	font := &fakeFont{height: 4, widths: map[rune]int{}}
	graph := NewCPUGraph(2)
	graph.History().Push(0)
	graph.History().Push(100)

	st := NewState(font, WithElements(graph), WithColors(white, clear))
	width, height := st.WindowSize()
	if width != 2 || height != 4 {
		t.Fatalf("WindowSize() = %dx%d, want 2x4", width, height)
	}

	surface := make([]byte, width*height*PixelSize)
	st.Draw(surface)

	for y := 0; y < height; y++ {
		off := (y*width + 0) * PixelSize
		var got Pixel
		copy(got[:], surface[off:off+PixelSize])
		if got != white {
			t.Errorf("full column surface(0, %d) = %v, want foreground", y, got)
		}
		off = (y*width + 1) * PixelSize
		copy(got[:], surface[off:off+PixelSize])
		if got != clear {
			t.Errorf("empty column surface(1, %d) = %v, want background", y, got)
		}
	}
}

func TestPlaybackState_Symbols(t *testing.T) {
	tests := []struct {
		state PlaybackState
		want  string
	}{
		{Stop, "#"},
		{Play, ">"},
		{Pause, "\""},
	}
	for _, tt := range tests {
		if got := tt.state.Symbol(); got != tt.want {
			t.Errorf("%v.Symbol() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestPlayback_SlotWidth(t *testing.T) {
	font := &fakeFont{height: 8, widths: map[rune]int{'#': 5, '>': 3, '"': 4}}
	p := NewPlayback()
	if got := p.SlotWidth(font); got != 5 {
		t.Errorf("SlotWidth() = %d, want widest symbol width 5", got)
	}
}
