// Package mock provides mocks for devices and renderers and allows to
// execute sessions without audio hardware and terminal.
package mock

import (
	"sync"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/beam"
	"github.com/dudk/oscillo/device"
	"github.com/dudk/oscillo/render"
)

// Device mocks a device.Device interface. It never calls the filler on
// its own, every Tick fills a single device buffer.
type Device struct {
	mu sync.Mutex
	counter
	Hooks
	cfg  device.Config
	fill device.Filler

	ErrorOnOpen  error
	ErrorOnStart error
}

// Open returns the backend which opens this device.
func (m *Device) Open() device.OpenFunc {
	return func(cfg device.Config, fill device.Filler) (device.Device, error) {
		if m.ErrorOnOpen != nil {
			return nil, m.ErrorOnOpen
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		m.cfg = cfg
		m.fill = fill
		return m, nil
	}
}

// Start implements device.Device.
func (m *Device) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = true
	return m.ErrorOnStart
}

// Pause implements device.Device.
func (m *Device) Pause(paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Paused = paused
	return nil
}

// Close implements device.Device.
func (m *Device) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.ErrorOnClose
}

// Tick fills a single device buffer. Nothing is filled until device is
// started or while it's paused.
func (m *Device) Tick() [][2]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Started || m.Paused || m.Closed {
		return nil
	}
	frames := make([][2]float64, m.cfg.BufferSize)
	m.fill.Fill(frames)
	m.advance(len(frames))
	return frames
}

// State returns a copy of device hooks.
func (m *Device) State() Hooks {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Hooks
}

// Count returns number of ticks and filled frames.
func (m *Device) Count() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter.Count()
}

// Renderer mocks a render.Renderer interface. Events sent to Input are
// delivered to the session.
type Renderer struct {
	mu sync.Mutex
	counter
	Hooks
	durations []float64

	Input       chan render.Event
	ErrorOnDraw error
}

// NewRenderer returns renderer with buffered input.
func NewRenderer() *Renderer {
	return &Renderer{
		Input: make(chan render.Event, 16),
	}
}

// Draw implements render.Renderer. Only segment durations are kept.
func (m *Renderer) Draw(b *beam.Beam, seg oscillo.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ErrorOnDraw != nil {
		return m.ErrorOnDraw
	}
	m.durations = append(m.durations, seg.Duration())
	m.advance(len(seg.Points))
	return nil
}

// Events implements render.Renderer.
func (m *Renderer) Events() <-chan render.Event {
	return m.Input
}

// Close implements render.Renderer.
func (m *Renderer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.ErrorOnClose
}

// Durations returns durations of drawn segments.
func (m *Renderer) Durations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]float64, len(m.durations))
	copy(result, m.durations)
	return result
}

// State returns a copy of renderer hooks.
func (m *Renderer) State() Hooks {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Hooks
}

// Count returns number of draws and drawn points.
func (m *Renderer) Count() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter.Count()
}

// Hooks allows to mock components hooks.
type Hooks struct {
	Started bool
	Paused  bool
	Closed  bool

	ErrorOnClose error
}

// counter counts calls and items.
type counter struct {
	calls int
	items int
}

// advance counter's metrics.
func (c *counter) advance(size int) {
	c.calls++
	c.items = c.items + size
}

// Count returns calls and items metrics.
func (c *counter) Count() (int, int) {
	return c.calls, c.items
}
