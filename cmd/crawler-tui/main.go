package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Garsondee/Bug-In-Dashboard/internal/game"
	"github.com/Garsondee/Bug-In-Dashboard/internal/logging"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

type viewer struct {
	screen tcell.Screen
	scene  *game.Scene
	fps    int
	paused bool
}

func main() {
	configPath := flag.String("config", "", "scene config YAML (default: built-in dashboard)")
	fps := flag.Int("fps", 30, "frames per second")
	crawlers := flag.Int("crawlers", 3, "crawlers spawned at start")
	logFile := flag.String("log-file", "", "write JSON logs here (the terminal is taken by the view)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	if *fps <= 0 {
		fmt.Fprintln(os.Stderr, "error: -fps must be > 0")
		os.Exit(2)
	}
	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfigFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}

	logger := zap.NewNop()
	if *logFile != "" {
		var err error
		if logger, err = logging.New(*logLevel, logging.FormatJSON, *logFile); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}
	defer func() { _ = logger.Sync() }()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	v := &viewer{
		screen: screen,
		scene:  game.NewScene(game.NewArena(cfg), cfg.Seed, game.WithLogger(logger)),
		fps:    *fps,
	}
	for i := 0; i < *crawlers; i++ {
		v.scene.Spawn()
	}
	v.run()
}

func (v *viewer) run() {
	ticker := time.NewTicker(time.Second / time.Duration(v.fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- v.screen.PollEvent()
		}
	}()

	delta := 1 / float64(v.fps)
	for {
		select {
		case ev := <-eventChan:
			if !v.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			if !v.paused {
				v.scene.Tick(delta)
			}
			v.draw()
		}
	}
}

// handleEvent returns false when the viewer should exit.
func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.scene.Spawn()
			case 'p':
				v.paused = !v.paused
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	vp := newViewport(v.scene.Arena().Floor, w, h)
	drawScene(v.screen, v.scene, vp)

	status := fmt.Sprintf(" Bug in Dashboard  crawlers=%d  t=%.1fs", len(v.scene.Crawlers()), v.scene.Elapsed())
	if v.paused {
		status += "  PAUSED"
	}
	drawText(v.screen, 0, h-2, tcell.StyleDefault.Bold(true), status)
	drawText(v.screen, 0, h-1, tcell.StyleDefault, " space=spawn  p=pause  q=quit")
	v.screen.Show()
}
