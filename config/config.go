// Package config loads oscillo settings from a yaml file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/beam"
	"github.com/dudk/oscillo/generator"
	"github.com/dudk/oscillo/synth"
)

// ErrInvalid is returned when config value is out of range.
var ErrInvalid = errors.New("invalid config")

// Config is the complete session configuration.
type Config struct {
	Audio     Audio     `yaml:"audio"`
	Beam      Beam      `yaml:"beam"`
	Generator Generator `yaml:"generator"`
	Display   Display   `yaml:"display"`
}

// Audio configures the device and the synthesizer.
type Audio struct {
	Backend    string `yaml:"backend"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	BufferSize int    `yaml:"buffer_size"`
	Capacity   int    `yaml:"capacity"`
	Volume     uint8  `yaml:"volume"`
}

// Beam configures the simulated path.
type Beam struct {
	Edges     int        `yaml:"edges"`
	DecayTime float64    `yaml:"decay_time"`
	Radius    float64    `yaml:"radius"`
	Intensity float32    `yaml:"intensity"`
	Color     [3]float32 `yaml:"color"`
}

// Generator selects the path formula.
type Generator struct {
	Name             string `yaml:"name"`
	generator.Params `yaml:",inline"`
}

// Display configures the renderer and the frame loop.
type Display struct {
	Renderer  string `yaml:"renderer"`
	FrameRate int    `yaml:"frame_rate"`
	// Duration limits the session, zero means until interrupted.
	Duration time.Duration `yaml:"duration"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Audio: Audio{
			Backend:    "oto",
			SampleRate: oscillo.SampleRate,
			Channels:   oscillo.NumChannels,
			BufferSize: oscillo.BufferSize,
			Capacity:   oscillo.Capacity,
			Volume:     120,
		},
		Beam: Beam{
			Edges:     beam.DefaultEdges,
			DecayTime: beam.DefaultDecayTime,
			Radius:    beam.DefaultRadius,
			Intensity: beam.DefaultIntensity,
			Color:     beam.DefaultColor,
		},
		Generator: Generator{
			Name: "tone",
			Params: generator.Params{
				Frequency: generator.DefaultFrequency,
				Radius:    generator.DefaultRadius,
			},
		},
		Display: Display{
			Renderer:  "terminal",
			FrameRate: 60,
		},
	}
}

// Load reads config file at path over the defaults and applies
// environment overrides. Empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.FromEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv applies OSCILLO_* environment variables.
func (c *Config) FromEnv() error {
	if v := os.Getenv("OSCILLO_BACKEND"); v != "" {
		c.Audio.Backend = v
	}
	if v := os.Getenv("OSCILLO_GENERATOR"); v != "" {
		c.Generator.Name = v
	}
	if v := os.Getenv("OSCILLO_RENDERER"); v != "" {
		c.Display.Renderer = v
	}
	if v := os.Getenv("OSCILLO_VOLUME"); v != "" {
		volume, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: OSCILLO_VOLUME: %v", ErrInvalid, err)
		}
		c.Audio.Volume = uint8(volume)
	}
	if v := os.Getenv("OSCILLO_EDGES"); v != "" {
		edges, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: OSCILLO_EDGES: %v", ErrInvalid, err)
		}
		c.Beam.Edges = edges
	}
	if v := os.Getenv("OSCILLO_CAPACITY"); v != "" {
		capacity, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: OSCILLO_CAPACITY: %v", ErrInvalid, err)
		}
		c.Audio.Capacity = capacity
	}
	return nil
}

// Validate checks ranges of all values.
func (c Config) Validate() error {
	switch {
	case c.Audio.Channels != oscillo.NumChannels:
		return fmt.Errorf("%w: channels must be %d", ErrInvalid, oscillo.NumChannels)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalid)
	case c.Audio.BufferSize <= 0:
		return fmt.Errorf("%w: buffer size must be positive", ErrInvalid)
	case c.Audio.Capacity < 2:
		return fmt.Errorf("%w: capacity must be at least 2", ErrInvalid)
	case c.Beam.Edges < 1:
		return fmt.Errorf("%w: beam must have at least one edge", ErrInvalid)
	case c.Display.FrameRate <= 0:
		return fmt.Errorf("%w: frame rate must be positive", ErrInvalid)
	case c.Display.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative", ErrInvalid)
	}
	return nil
}

// BeamOptions returns options for beam.New.
func (c Config) BeamOptions() []beam.Option {
	return []beam.Option{
		beam.DecayTime(c.Beam.DecayTime),
		beam.Radius(c.Beam.Radius),
		beam.Intensity(c.Beam.Intensity),
		beam.Color(c.Beam.Color[0], c.Beam.Color[1], c.Beam.Color[2]),
	}
}

// SynthOptions returns options for synth.New.
func (c Config) SynthOptions() []synth.Option {
	return []synth.Option{
		synth.SampleRate(c.Audio.SampleRate),
		synth.Volume(c.Audio.Volume),
	}
}

// FramePeriod returns duration of a single display frame.
func (c Config) FramePeriod() time.Duration {
	return time.Second / time.Duration(c.Display.FrameRate)
}
