package scope_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dudk/oscillo/config"
	"github.com/dudk/oscillo/device"
	"github.com/dudk/oscillo/generator"
	"github.com/dudk/oscillo/mock"
	"github.com/dudk/oscillo/render"
	"github.com/dudk/oscillo/scope"
)

var errTest = errors.New("test error")

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Audio.Volume = 255
	cfg.Audio.BufferSize = 64
	cfg.Beam.Edges = 100
	cfg.Generator.Name = "circle"
	cfg.Display.Renderer = "none"
	cfg.Display.FrameRate = 200
	return cfg
}

func TestRun(t *testing.T) {
	defer goleak.VerifyNoLeaks(t)

	dev := &mock.Device{}
	r := mock.NewRenderer()
	s, err := scope.New(testConfig(), scope.WithDevice(dev.Open()), scope.WithRenderer(r))
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())

	errc := make(chan error, 1)
	go func() {
		errc <- s.Run(context.Background())
	}()

	assert.Eventually(t, func() bool {
		calls, _ := r.Count()
		return calls >= 3
	}, time.Second, time.Millisecond)
	_, points := r.Count()
	assert.Equal(t, 0, points%101, "every segment has edges+1 points")

	frames := dev.Tick()
	require.Len(t, frames, 64)
	var sum float64
	for _, frame := range frames {
		sum += frame[0]*frame[0] + frame[1]*frame[1]
	}
	assert.Greater(t, sum, 0.0, "device must receive the beam")

	r.Input <- render.Event{Type: render.VolumeDown}
	assert.Eventually(t, func() bool {
		return s.Volume() == 247
	}, time.Second, time.Millisecond)
	r.Input <- render.Event{Type: render.VolumeUp}
	r.Input <- render.Event{Type: render.VolumeUp}
	assert.Eventually(t, func() bool {
		return s.Volume() == 255
	}, time.Second, time.Millisecond)

	r.Input <- render.Event{Type: render.TogglePause}
	assert.Eventually(t, func() bool {
		return dev.State().Paused
	}, time.Second, time.Millisecond)
	assert.Nil(t, dev.Tick())

	r.Input <- render.Event{Type: render.Resize, Width: 1400, Height: 1400}
	r.Input <- render.Event{Type: render.Quit}
	require.NoError(t, <-errc)

	assert.True(t, dev.State().Closed)
	assert.True(t, r.State().Closed)
	// closed session ignores second close.
	assert.NoError(t, s.Close())
}

func TestRunDuration(t *testing.T) {
	defer goleak.VerifyNoLeaks(t)

	cfg := testConfig()
	cfg.Display.Duration = 50 * time.Millisecond
	dev := &mock.Device{}
	s, err := scope.New(cfg, scope.WithDevice(dev.Open()))
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, s.Run(context.Background()))
	assert.GreaterOrEqual(t, int64(time.Since(start)), int64(cfg.Display.Duration))
	assert.True(t, dev.State().Started)
	assert.True(t, dev.State().Closed)
}

func TestRunCancel(t *testing.T) {
	defer goleak.VerifyNoLeaks(t)

	s, err := scope.New(testConfig(), scope.WithDevice((&mock.Device{}).Open()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}

func TestLoopbackSession(t *testing.T) {
	defer goleak.VerifyNoLeaks(t)

	cfg := testConfig()
	cfg.Audio.Backend = "loopback"
	cfg.Display.Duration = 30 * time.Millisecond
	s, err := scope.New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		description string
		config      func(config.Config) config.Config
		device      *mock.Device
		err         error
	}{
		{
			description: "invalid config",
			config: func(c config.Config) config.Config {
				c.Audio.Capacity = 1
				return c
			},
			device: &mock.Device{},
			err:    config.ErrInvalid,
		},
		{
			description: "unknown generator",
			config: func(c config.Config) config.Config {
				c.Generator.Name = "sawtooth"
				return c
			},
			device: &mock.Device{},
			err:    generator.ErrUnknown,
		},
		{
			description: "device failure",
			config:      func(c config.Config) config.Config { return c },
			device:      &mock.Device{ErrorOnOpen: errTest},
			err:         errTest,
		},
		{
			description: "unknown renderer",
			config: func(c config.Config) config.Config {
				c.Display.Renderer = "canvas"
				return c
			},
			err: render.ErrUnknown,
		},
		{
			description: "unknown backend",
			config: func(c config.Config) config.Config {
				c.Audio.Backend = "alsa"
				return c
			},
			err: device.ErrUnknownBackend,
		},
	}
	for _, test := range tests {
		cfg := testConfig()
		cfg.Audio.Backend = "loopback"
		cfg = test.config(cfg)
		var options []scope.Option
		if test.device != nil {
			options = append(options, scope.WithDevice(test.device.Open()))
		}
		_, err := scope.New(cfg, options...)
		assert.True(t, errors.Is(err, test.err), "%s: %v", test.description, err)
	}
}

func TestNewClosesRenderer(t *testing.T) {
	r := mock.NewRenderer()
	_, err := scope.New(testConfig(), scope.WithDevice((&mock.Device{ErrorOnOpen: errTest}).Open()), scope.WithRenderer(r))
	assert.True(t, errors.Is(err, errTest))
	assert.True(t, r.State().Closed)
}

func TestRunErrors(t *testing.T) {
	defer goleak.VerifyNoLeaks(t)

	dev := &mock.Device{ErrorOnStart: errTest}
	s, err := scope.New(testConfig(), scope.WithDevice(dev.Open()))
	require.NoError(t, err)
	err = s.Run(context.Background())
	assert.True(t, errors.Is(err, errTest))
	assert.True(t, dev.State().Closed, "device closed after failed start")

	closeErr := errors.New("close error")
	dev = &mock.Device{}
	dev.ErrorOnClose = closeErr
	r := mock.NewRenderer()
	r.ErrorOnClose = errTest
	s, err = scope.New(testConfig(), scope.WithDevice(dev.Open()), scope.WithRenderer(r))
	require.NoError(t, err)
	r.Input <- render.Event{Type: render.Quit}
	err = s.Run(context.Background())

	var e *scope.CloseError
	require.True(t, errors.As(err, &e))
	assert.Equal(t, closeErr, e.ErrDevice)
	assert.Equal(t, errTest, e.ErrRenderer)
	assert.True(t, errors.Is(err, closeErr))
	assert.True(t, errors.Is(err, errTest))
	assert.Contains(t, err.Error(), "close renderer error")
}
