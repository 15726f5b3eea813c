// Package device provides audio output backends. Every backend owns the
// device runtime and periodically asks a Filler for the next buffer of
// stereo frames.
package device

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-audio/audio"

	"github.com/dudk/oscillo"
)

var (
	// ErrUnknownBackend is returned when backend with provided name is
	// not registered.
	ErrUnknownBackend = errors.New("unknown audio backend")
	// ErrChannels is returned when device is configured with other than
	// two channels.
	ErrChannels = errors.New("only stereo output is supported")
	// ErrConfig is returned when sample rate or buffer size is not
	// positive.
	ErrConfig = errors.New("invalid device config")
)

// Filler fills device buffers. It's called from the device runtime
// thread.
type Filler interface {
	Fill(frames [][2]float64)
}

// FillerFunc allows to use ordinary functions as fillers.
type FillerFunc func(frames [][2]float64)

// Fill calls fn(frames).
func (fn FillerFunc) Fill(frames [][2]float64) {
	fn(frames)
}

// Device is an opened audio output.
type Device interface {
	// Start begins playback. Filler is called after Start.
	Start() error
	// Pause stops or resumes the playback.
	Pause(bool) error
	// Close releases the device.
	Close() error
}

// Config defines the output format.
type Config struct {
	SampleRate  int
	NumChannels int
	// BufferSize is the number of frames per device buffer.
	BufferSize int
}

// DefaultConfig returns 44100 Hz stereo config with 512 frames buffers.
func DefaultConfig() Config {
	return Config{
		SampleRate:  oscillo.SampleRate,
		NumChannels: oscillo.NumChannels,
		BufferSize:  oscillo.BufferSize,
	}
}

// Validate checks if the config can be used to open a device.
func (c Config) Validate() error {
	if c.NumChannels != oscillo.NumChannels {
		return fmt.Errorf("%w: got %d channels", ErrChannels, c.NumChannels)
	}
	if c.SampleRate <= 0 || c.BufferSize <= 0 {
		return fmt.Errorf("%w: sample rate %d buffer size %d", ErrConfig, c.SampleRate, c.BufferSize)
	}
	return nil
}

// Format returns PCM format of the config.
func (c Config) Format() *audio.Format {
	return &audio.Format{
		NumChannels: c.NumChannels,
		SampleRate:  c.SampleRate,
	}
}

// Period returns duration of a single device buffer.
func (c Config) Period() time.Duration {
	return time.Duration(float64(c.BufferSize) / float64(c.SampleRate) * float64(time.Second))
}

// OpenFunc opens the device of a single backend.
type OpenFunc func(Config, Filler) (Device, error)

var backends = struct {
	sync.Mutex
	m map[string]OpenFunc
}{
	m: map[string]OpenFunc{},
}

// Register makes backend available by name. Backends register
// themselves in init.
func Register(name string, fn OpenFunc) {
	backends.Lock()
	defer backends.Unlock()
	backends.m[name] = fn
}

// Backends returns sorted names of registered backends.
func Backends() []string {
	backends.Lock()
	defer backends.Unlock()
	names := make([]string, 0, len(backends.m))
	for name := range backends.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the device with backend name. Returned device is not
// started.
func Open(name string, cfg Config, fill Filler) (Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backends.Lock()
	fn, ok := backends.m[name]
	backends.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	d, err := fn(cfg, fill)
	if err != nil {
		return nil, fmt.Errorf("open %s device: %w", name, err)
	}
	return d, nil
}

// interleave converts frames into interleaved float32 samples. Returns
// number of written samples.
func interleave(dst []float32, frames [][2]float64) int {
	n := 0
	for _, frame := range frames {
		if n+1 >= len(dst) {
			break
		}
		dst[n] = float32(frame[0])
		dst[n+1] = float32(frame[1])
		n += 2
	}
	return n
}

// frameBuffer reuses frames slice between device callbacks.
type frameBuffer [][2]float64

// get returns slice of n frames, allocating only if capacity is too
// small.
func (b *frameBuffer) get(n int) [][2]float64 {
	if cap(*b) < n {
		*b = make([][2]float64, n)
	}
	*b = (*b)[:n]
	return *b
}

// closeAll calls every close function and joins their errors.
func closeAll(fns ...func() error) error {
	var errs []error
	for _, fn := range fns {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
