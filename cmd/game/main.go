package main

import (
	"flag"
	"log"

	"github.com/Garsondee/Bug-In-Dashboard/internal/audio"
	"github.com/Garsondee/Bug-In-Dashboard/internal/game"
	"github.com/Garsondee/Bug-In-Dashboard/internal/logging"
	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "scene config YAML (default: built-in dashboard)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", logging.FormatConsole, "console or json")
	seed := flag.Int64("seed", 0, "random seed (0 = config seed, else clock)")
	flag.Parse()

	logger, err := logging.New(*logLevel, *logFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := game.DefaultConfig()
	if *configPath != "" {
		cfg, err = game.LoadConfigFile(*configPath)
		if err != nil {
			logger.Fatal("load config", zap.String("path", *configPath), zap.Error(err))
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	// Audio failure leaves the scene running without music.
	var player audio.Player
	if p, err := audio.NewAmbiencePlayer(ebaudio.NewContext(int(audio.SampleRate))); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
	} else {
		player = p
	}
	music := audio.NewController(player, logger.Named("audio"))

	g, err := game.New(cfg, game.WithGameLogger(logger), game.WithMusic(music))
	if err != nil {
		logger.Fatal("build scene", zap.Error(err))
	}

	w, h := g.WindowSize()
	ebiten.SetWindowTitle("Bug in Dashboard")
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}
