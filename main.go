package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/hajimehoshi/ebiten/v2"
)

// config is the process configuration. Flags are parsed first; any of the
// environment variables that is set overrides its flag.
type config struct {
	Level string `env:"LEDGERUNNER_LEVEL"`
	Debug bool   `env:"LEDGERUNNER_DEBUG"`
	Watch bool   `env:"LEDGERUNNER_WATCH"`
	TPS   int    `env:"LEDGERUNNER_TPS"`
}

func loadConfig(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("ledgerunner", flag.ContinueOnError)
	fs.StringVar(&cfg.Level, "level", "warehouse", "level name in prefabs/levels (basename, .yaml optional)")
	fs.BoolVar(&cfg.Debug, "debug", false, "draw the navigation plane and log at debug level")
	fs.BoolVar(&cfg.Watch, "watch", false, "hot reload prefabs/ from disk")
	fs.IntVar(&cfg.TPS, "tps", 60, "simulation ticks per second")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		slog.Error("ledgerunner", "err", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("ledgerunner")
	ebiten.SetTPS(cfg.TPS)

	game, err := NewGame(cfg, logger)
	if err != nil {
		return err
	}
	defer game.Close()

	return ebiten.RunGame(game)
}
