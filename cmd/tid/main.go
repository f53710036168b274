// Command tid is a tiny borderless always-on-top status bar: clock, memory
// and cpu percentages, and a scrolling usage graph, rendered with a 1-bit
// bitmap font into a window exactly one text line tall.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/dwynings/tid"
	"github.com/dwynings/tid/internal/config"
	"github.com/dwynings/tid/internal/music"
	"github.com/dwynings/tid/internal/sysmon"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		fontName    string
		fontPath    string
		fgHex       string
		bgHex       string
		mpdAddr     string
		configPath  string
		showBattery bool
		showMusic   bool
		holdOnNaN   bool
		debugMode   bool
		showVersion bool
		showHelp    bool
	)

	pflag.StringVarP(&fontName, "font-name", "n", "", "Font file name resolved in "+config.DefaultFontDir)
	pflag.StringVarP(&fontPath, "font-path", "p", "", "Full path to a .uf2 or PSF2 font file")
	pflag.StringVar(&fgHex, "fg", "", "Foreground color as a 0x-prefixed RGBA hex string")
	pflag.StringVar(&bgHex, "bg", "", "Background color as a 0x-prefixed RGBA hex string")
	pflag.StringVar(&mpdAddr, "mpd-address", "", "Address of the mpd server (host:port)")
	pflag.StringVar(&configPath, "config", config.DefaultPath, "Path to the config file")
	pflag.BoolVar(&showBattery, "battery", false, "Show the battery charge percentage")
	pflag.BoolVar(&showMusic, "music", false, "Show the mpd playback state")
	pflag.BoolVar(&holdOnNaN, "hold-on-nan", false, "Keep the last valid percentage instead of showing a placeholder")
	pflag.BoolVar(&debugMode, "debug", false, "Log startup timings to stderr")
	pflag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help message")
	pflag.Parse()

	if showHelp {
		printHelp()
		return 0
	}
	if showVersion {
		fmt.Printf("tid version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}
	if os.Getenv("TID_DEBUG") == "1" {
		debugMode = true
	}

	cfg := config.Default()
	if err := cfg.Load(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if err := applyFlags(&cfg, fontName, fontPath, fgHex, bgHex, mpdAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	start := time.Now()
	font, err := tid.LoadFont(cfg.FontPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading font %s: %v\n", cfg.FontPath, err)
		return 1
	}
	if debugMode {
		reportTime(start, "loaded font")
	}

	opts := []tid.StateOption{
		tid.WithColors(cfg.Foreground, cfg.Background),
		tid.WithMetrics(sysmon.New()),
	}
	if holdOnNaN {
		opts = append(opts, tid.WithNaNPolicy(tid.NaNHoldLast))
	}

	elements := tid.DefaultElements(cfg.GraphWidth)
	if showBattery {
		gauge, err := sysmon.FindBattery()
		if err != nil {
			fmt.Fprintf(os.Stderr, "INFO:  no battery found: %v\n", err)
		} else {
			opts = append(opts, tid.WithBattery(gauge))
			elements = append(elements, &tid.Space{}, &tid.Label{Text: "b"}, tid.NewBattery())
		}
	}
	if showMusic {
		client, err := music.Dial(cfg.MPDAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "INFO:  mpd unreachable at %s: %v\n", cfg.MPDAddr, err)
		} else {
			defer client.Close()
			opts = append(opts, tid.WithPlayer(client))
			elements = append(elements, &tid.Space{}, tid.NewPlayback())
		}
	}
	opts = append(opts, tid.WithElements(elements...))

	st := tid.NewState(font, opts...)
	st.Update()

	width, height := st.WindowSize()
	ebiten.SetWindowTitle("tid")
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowPosition(0, 0)
	ebiten.SetTPS(tpsFor(cfg.Tick))
	if debugMode {
		reportTime(start, "window configured")
	}

	game := &game{
		st:     st,
		width:  width,
		height: height,
		frame:  make([]byte, width*height*tid.PixelSize),
	}
	runOpts := &ebiten.RunGameOptions{
		ScreenTransparent: true,
		InitUnfocused:     true,
	}
	if err := ebiten.RunGameWithOptions(game, runOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// game adapts State to the ebiten loop: each tick refreshes the elements,
// each frame rasterizes them and hands the buffer to the screen.
type game struct {
	st     *tid.State
	width  int
	height int
	frame  []byte
}

func (g *game) Update() error {
	g.st.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	// Clear the frame before drawing so padding stays transparent.
	for i := range g.frame {
		g.frame[i] = 0
	}
	g.st.Draw(g.frame)
	screen.WritePixels(g.frame)
}

func (g *game) Layout(_, _ int) (int, int) { return g.width, g.height }

// tpsFor converts the redraw interval into ebiten ticks per second.
func tpsFor(tick time.Duration) int {
	if tick <= 0 {
		return 2
	}
	tps := int(time.Second / tick)
	if tps < 1 {
		tps = 1
	}
	return tps
}

// applyFlags overlays the command-line values, the outermost configuration
// layer, onto cfg.
func applyFlags(cfg *config.Config, fontName, fontPath, fgHex, bgHex, mpdAddr string) error {
	if fontName != "" {
		cfg.FontPath = filepath.Join(config.DefaultFontDir, fontName)
	}
	if fontPath != "" {
		cfg.FontPath = fontPath
	}
	if fgHex != "" {
		px, err := config.ParseColor(fgHex)
		if err != nil {
			return err
		}
		cfg.Foreground = px
	}
	if bgHex != "" {
		px, err := config.ParseColor(bgHex)
		if err != nil {
			return err
		}
		cfg.Background = px
	}
	if mpdAddr != "" {
		cfg.MPDAddr = mpdAddr
	}
	return nil
}

func reportTime(start time.Time, msg string) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	fmt.Fprintf(os.Stderr, "%9.3f ms: %s\n", ms, msg)
}

func printHelp() {
	fmt.Println("tid - a tiny bitmap-font status bar")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tid [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	pflag.PrintDefaults()
	fmt.Println()
	fmt.Println("Colors are straight RGBA, e.g. --fg 0xffffffff --bg 0x00000000.")
	fmt.Println("The config file (" + config.DefaultPath + ") takes the same settings as")
	fmt.Println("YAML keys: font_name, font_path, foreground, background, mpd_addr,")
	fmt.Println("graph_width, tick_ms. Flags override the file.")
}
