package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/oscillo/config"
)

const sample = `
audio:
  backend: loopback
  volume: 200
  capacity: 4
beam:
  edges: 1000
  color: [1, 0.5, 0]
generator:
  name: lissajous
  frequency: 110
  ratio: 1.5
  phase: 0.25
display:
  renderer: none
  frame_rate: 30
  duration: 2s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oscillo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 2, cfg.Audio.Channels)
	assert.Equal(t, 10, cfg.Audio.Capacity)
	assert.Equal(t, uint8(120), cfg.Audio.Volume)
	assert.Equal(t, 5000, cfg.Beam.Edges)
	assert.Equal(t, "tone", cfg.Generator.Name)
	assert.Equal(t, time.Second/60, cfg.FramePeriod())
	assert.Len(t, cfg.BeamOptions(), 4)
	assert.Len(t, cfg.SynthOptions(), 2)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "loopback", cfg.Audio.Backend)
	assert.Equal(t, uint8(200), cfg.Audio.Volume)
	assert.Equal(t, 4, cfg.Audio.Capacity)
	// values missing in the file keep defaults.
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 512, cfg.Audio.BufferSize)

	assert.Equal(t, 1000, cfg.Beam.Edges)
	assert.Equal(t, [3]float32{1, 0.5, 0}, cfg.Beam.Color)

	assert.Equal(t, "lissajous", cfg.Generator.Name)
	assert.Equal(t, 110.0, cfg.Generator.Frequency)
	assert.Equal(t, 1.5, cfg.Generator.Ratio)
	assert.Equal(t, 0.25, cfg.Generator.Phase)

	assert.Equal(t, "none", cfg.Display.Renderer)
	assert.Equal(t, 30, cfg.Display.FrameRate)
	assert.Equal(t, 2*time.Second, cfg.Display.Duration)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = config.Load(writeConfig(t, "audio: [1, 2"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "audio:\n  channels: 1\n"))
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestEnv(t *testing.T) {
	t.Setenv("OSCILLO_BACKEND", "beep")
	t.Setenv("OSCILLO_GENERATOR", "circle")
	t.Setenv("OSCILLO_RENDERER", "none")
	t.Setenv("OSCILLO_VOLUME", "255")
	t.Setenv("OSCILLO_EDGES", "64")
	t.Setenv("OSCILLO_CAPACITY", "3")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "beep", cfg.Audio.Backend)
	assert.Equal(t, "circle", cfg.Generator.Name)
	assert.Equal(t, "none", cfg.Display.Renderer)
	assert.Equal(t, uint8(255), cfg.Audio.Volume)
	assert.Equal(t, 64, cfg.Beam.Edges)
	assert.Equal(t, 3, cfg.Audio.Capacity)
}

func TestEnvErrors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "OSCILLO_VOLUME", value: "256"},
		{key: "OSCILLO_VOLUME", value: "loud"},
		{key: "OSCILLO_EDGES", value: "many"},
		{key: "OSCILLO_CAPACITY", value: "1.5"},
	}
	for _, test := range tests {
		t.Run(test.key+"="+test.value, func(t *testing.T) {
			t.Setenv(test.key, test.value)
			_, err := config.Load("")
			assert.True(t, errors.Is(err, config.ErrInvalid))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		description string
		mutate      func(*config.Config)
	}{
		{"sample rate", func(c *config.Config) { c.Audio.SampleRate = 0 }},
		{"buffer size", func(c *config.Config) { c.Audio.BufferSize = -1 }},
		{"capacity", func(c *config.Config) { c.Audio.Capacity = 1 }},
		{"edges", func(c *config.Config) { c.Beam.Edges = 0 }},
		{"frame rate", func(c *config.Config) { c.Display.FrameRate = 0 }},
		{"duration", func(c *config.Config) { c.Display.Duration = -time.Second }},
		{"channels", func(c *config.Config) { c.Audio.Channels = 4 }},
	}
	for _, test := range tests {
		cfg := config.Default()
		test.mutate(&cfg)
		assert.True(t, errors.Is(cfg.Validate(), config.ErrInvalid), test.description)
	}
}
