package device

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
)

func init() {
	Register("loopback", func(cfg Config, fill Filler) (Device, error) {
		return NewLoopback(cfg, fill, nil), nil
	})
}

// TapFunc receives every filled device buffer. Buffer is reused between
// calls.
type TapFunc func(*audio.FloatBuffer)

// Loopback is a device without audio hardware. It calls filler from its
// own goroutine with the period of device buffer and passes the result to
// the tap.
type Loopback struct {
	cfg    Config
	fill   Filler
	tap    TapFunc
	frames frameBuffer
	buf    *audio.FloatBuffer

	paused atomic.Bool
	once   sync.Once
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewLoopback returns new loopback device. Tap can be nil.
func NewLoopback(cfg Config, fill Filler, tap TapFunc) *Loopback {
	return &Loopback{
		cfg:  cfg,
		fill: fill,
		tap:  tap,
		buf: &audio.FloatBuffer{
			Format: cfg.Format(),
			Data:   make([]float64, cfg.BufferSize*cfg.NumChannels),
		},
		done: make(chan struct{}),
	}
}

// Start launches the device goroutine.
func (d *Loopback) Start() error {
	d.wg.Add(1)
	go d.run()
	return nil
}

func (d *Loopback) run() {
	defer d.wg.Done()
	ticker := time.NewTicker(d.cfg.Period())
	defer ticker.Stop()
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			if d.paused.Load() {
				continue
			}
			d.update()
		}
	}
}

func (d *Loopback) update() {
	frames := d.frames.get(d.cfg.BufferSize)
	d.fill.Fill(frames)
	if d.tap == nil {
		return
	}
	for i, frame := range frames {
		d.buf.Data[2*i] = frame[0]
		d.buf.Data[2*i+1] = frame[1]
	}
	d.tap(d.buf)
}

// Pause stops calling the filler until resumed.
func (d *Loopback) Pause(paused bool) error {
	d.paused.Store(paused)
	return nil
}

// Close stops the device goroutine and waits for it to exit.
func (d *Loopback) Close() error {
	d.once.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
	return nil
}
