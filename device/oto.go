//go:build !headless

package device

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

func init() {
	Register("oto", openOto)
}

// Oto plays frames with oto player. Oto pulls float32 little endian
// samples from a reader, which fills them on demand.
type Oto struct {
	ctx    *oto.Context
	player *oto.Player
	mu     sync.Mutex
}

func openOto(cfg Config, fill Filler) (Device, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.NumChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.Period(),
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &Oto{
		ctx:    ctx,
		player: ctx.NewPlayer(&otoReader{fill: fill}),
	}, nil
}

// Start starts the player.
func (d *Oto) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.player.Play()
	return nil
}

// Pause pauses or resumes the player.
func (d *Oto) Pause(paused bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if paused {
		d.player.Pause()
		return nil
	}
	d.player.Play()
	return nil
}

// Close closes the player. Oto context lives until the process exits.
func (d *Oto) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.player.Close()
}

// otoReader encodes filled frames as float32 little endian.
type otoReader struct {
	fill   Filler
	frames frameBuffer
}

const bytesPerFrame = 8

func (r *otoReader) Read(p []byte) (int, error) {
	n := len(p) / bytesPerFrame
	frames := r.frames.get(n)
	r.fill.Fill(frames)
	for i, frame := range frames {
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame:], math.Float32bits(float32(frame[0])))
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame+4:], math.Float32bits(float32(frame[1])))
	}
	return n * bytesPerFrame, nil
}
