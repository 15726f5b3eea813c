// Package scope runs an oscilloscope session: the display loop simulates
// the beam once per frame, draws it and hands the segment to the audio
// device through the ring buffer.
package scope

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/beam"
	"github.com/dudk/oscillo/config"
	"github.com/dudk/oscillo/device"
	"github.com/dudk/oscillo/generator"
	"github.com/dudk/oscillo/log"
	"github.com/dudk/oscillo/metric"
	"github.com/dudk/oscillo/render"
	"github.com/dudk/oscillo/ring"
	"github.com/dudk/oscillo/synth"
)

// volumeStep is the volume change of a single user request.
const volumeStep = 8

// Scope is a single session. It owns the device and the renderer.
type Scope struct {
	id     string
	cfg    config.Config
	log    *logrus.Entry
	beam   *beam.Beam
	gen    oscillo.Generator
	buf    *ring.Buffer
	synth  *synth.Synth
	open   device.OpenFunc
	device device.Device
	render render.Renderer
	paused bool

	once     sync.Once
	closeErr error
}

// Option provides a way to set functional parameters to scope.
type Option func(*Scope)

// WithDevice opens device with provided function instead of configured
// backend.
func WithDevice(open device.OpenFunc) Option {
	return func(s *Scope) {
		s.open = open
	}
}

// WithRenderer uses provided renderer instead of configured one. Scope
// takes ownership of the renderer.
func WithRenderer(r render.Renderer) Option {
	return func(s *Scope) {
		s.render = r
	}
}

// WithLogger sets session logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Scope) {
		s.log = l.WithFields(s.log.Data)
	}
}

// New creates the session and opens its device and renderer. Device is
// not started until Run.
func New(cfg config.Config, options ...Option) (*Scope, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scope{
		id:  xid.New().String(),
		cfg: cfg,
	}
	s.log = log.GetLogger().WithFields(logrus.Fields{
		"session":   s.id,
		"backend":   cfg.Audio.Backend,
		"generator": cfg.Generator.Name,
	})
	for _, option := range options {
		option(s)
	}
	if err := s.init(); err != nil {
		if s.render != nil {
			s.render.Close()
		}
		return nil, err
	}
	return s, nil
}

func (s *Scope) init() error {
	var err error
	if s.beam, err = beam.New(s.cfg.Beam.Edges, s.cfg.BeamOptions()...); err != nil {
		return err
	}
	if s.gen, err = generator.Lookup(s.cfg.Generator.Name, s.cfg.Generator.Params); err != nil {
		return err
	}
	if s.buf, err = ring.New(s.cfg.Audio.Capacity); err != nil {
		return err
	}
	s.synth = synth.New(s.buf, s.cfg.SynthOptions()...)

	devCfg := device.Config{
		SampleRate:  s.cfg.Audio.SampleRate,
		NumChannels: s.cfg.Audio.Channels,
		BufferSize:  s.cfg.Audio.BufferSize,
	}
	if s.open != nil {
		if err = devCfg.Validate(); err != nil {
			return err
		}
		if s.device, err = s.open(devCfg, s.synth); err != nil {
			return fmt.Errorf("open device: %w", err)
		}
	} else if s.device, err = device.Open(s.cfg.Audio.Backend, devCfg, s.synth); err != nil {
		return err
	}

	if s.render == nil {
		if s.render, err = render.Open(s.cfg.Display.Renderer); err != nil {
			s.device.Close()
			return err
		}
	}
	s.log.WithFields(logrus.Fields{
		"sample_rate": devCfg.SampleRate,
		"buffer_size": devCfg.BufferSize,
		"capacity":    s.cfg.Audio.Capacity,
		"edges":       s.cfg.Beam.Edges,
	}).Debug("session created")
	return nil
}

// ID returns session id.
func (s *Scope) ID() string {
	return s.id
}

// Volume returns current output volume.
func (s *Scope) Volume() uint8 {
	return s.synth.Volume()
}

// Run starts the device and runs display loop until context is done,
// configured duration passes or user quits. Device and renderer are
// closed when Run returns.
func (s *Scope) Run(ctx context.Context) (err error) {
	defer func() {
		if closeErr := s.Close(); err == nil {
			err = closeErr
		}
	}()
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("start device: %w", err)
	}
	if d := s.cfg.Display.Duration; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	s.log.Info("session started")

	ticker := time.NewTicker(s.cfg.FramePeriod())
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.frame(now.Sub(last))
			last = now
		case e := <-s.render.Events():
			if e.Type == render.Quit {
				s.log.Debug("quit requested")
				return nil
			}
			s.handle(e)
		}
	}
}

// frame simulates the beam for elapsed time, draws the segment and
// passes it to the audio side.
func (s *Scope) frame(elapsed time.Duration) {
	seg := s.beam.SimulateDuration(elapsed, s.gen)
	if err := s.render.Draw(s.beam, seg); err != nil {
		s.log.WithError(err).Warn("draw failed")
	}
	s.buf.Push(seg)
}

func (s *Scope) handle(e render.Event) {
	switch e.Type {
	case render.VolumeUp:
		v := s.synth.Volume()
		if v > 255-volumeStep {
			v = 255
		} else {
			v += volumeStep
		}
		s.synth.SetVolume(v)
		s.log.WithField("volume", v).Debug("volume changed")
	case render.VolumeDown:
		v := s.synth.Volume()
		if v < volumeStep {
			v = 0
		} else {
			v -= volumeStep
		}
		s.synth.SetVolume(v)
		s.log.WithField("volume", v).Debug("volume changed")
	case render.TogglePause:
		s.paused = !s.paused
		if err := s.device.Pause(s.paused); err != nil {
			s.log.WithError(err).Warn("pause failed")
			s.paused = !s.paused
			return
		}
		s.log.WithField("paused", s.paused).Debug("pause toggled")
	case render.Resize:
		s.beam.Resize(e.Width, e.Height)
		s.log.WithField("radius", s.beam.Radius).Debug("beam resized")
	}
}

// Close stops the device, releases the renderer and all buffered
// segments. It's safe to call Close multiple times.
func (s *Scope) Close() error {
	s.once.Do(func() {
		var e CloseError
		e.ErrDevice = s.device.Close()
		e.ErrRenderer = s.render.Close()
		s.buf.Reset()
		s.log.WithFields(logrus.Fields{
			"overflows": s.buf.Overflows(),
			"synth":     metric.Get(s.synth),
		}).Info("session stopped")
		s.closeErr = e.ret()
	})
	return s.closeErr
}
