package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/dudk/oscillo/config"
	"github.com/dudk/oscillo/log"
	"github.com/dudk/oscillo/scope"
)

type playCommand struct {
	config    string
	backend   string
	generator string
	renderer  string
	volume    uint
	duration  time.Duration
	debug     bool

	fs *flag.FlagSet
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Draw the beam and play it until interrupted"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.config, "config", "", "yaml config file")
	fs.StringVar(&cmd.backend, "backend", "", "audio backend, see list command")
	fs.StringVar(&cmd.generator, "generator", "", "path generator, see list command")
	fs.StringVar(&cmd.renderer, "renderer", "", "renderer: terminal or none")
	fs.UintVar(&cmd.volume, "volume", 0, "output volume 0..255")
	fs.DurationVar(&cmd.duration, "duration", 0, "stop after duration")
	fs.BoolVar(&cmd.debug, "debug", false, "debug logging")
	cmd.fs = fs
}

func (cmd *playCommand) Run(out io.Writer) error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	if cmd.debug {
		log.SetDebug(true)
	}
	log.GetLogger().Debug(spew.Sdump(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := scope.New(cfg)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// load reads config and applies explicitly set flags.
func (cmd *playCommand) load() (config.Config, error) {
	cfg, err := config.Load(cmd.config)
	if err != nil {
		return config.Config{}, err
	}
	var flagErr error
	cmd.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Audio.Backend = cmd.backend
		case "generator":
			cfg.Generator.Name = cmd.generator
		case "renderer":
			cfg.Display.Renderer = cmd.renderer
		case "volume":
			if cmd.volume > 255 {
				flagErr = fmt.Errorf("%w: volume %d is out of range", config.ErrInvalid, cmd.volume)
				return
			}
			cfg.Audio.Volume = uint8(cmd.volume)
		case "duration":
			cfg.Display.Duration = cmd.duration
		}
	})
	if flagErr != nil {
		return config.Config{}, flagErr
	}
	return cfg, cfg.Validate()
}
