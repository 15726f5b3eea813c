//go:build portaudio

package device

import (
	"github.com/gordonklaus/portaudio"
)

func init() {
	Register("portaudio", openPortaudio)
}

// Portaudio plays frames with the default portaudio output stream. The
// stream runs in callback mode.
type Portaudio struct {
	stream *portaudio.Stream
	fill   Filler
	frames frameBuffer
}

func openPortaudio(cfg Config, fill Filler) (Device, error) {
	err := portaudio.Initialize()
	if err != nil {
		return nil, err
	}
	d := &Portaudio{
		fill: fill,
	}
	d.frames.get(cfg.BufferSize)
	d.stream, err = portaudio.OpenDefaultStream(0, cfg.NumChannels, float64(cfg.SampleRate), cfg.BufferSize, d.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return d, nil
}

// callback is called by portaudio with interleaved output buffer.
func (d *Portaudio) callback(out []float32) {
	frames := d.frames.get(len(out) / 2)
	d.fill.Fill(frames)
	interleave(out, frames)
}

// Start starts the stream.
func (d *Portaudio) Start() error {
	return d.stream.Start()
}

// Pause stops or restarts the stream.
func (d *Portaudio) Pause(paused bool) error {
	if paused {
		return d.stream.Stop()
	}
	return d.stream.Start()
}

// Close closes the stream and terminates portaudio, even if the stream
// failed to close.
func (d *Portaudio) Close() error {
	return closeAll(d.stream.Close, portaudio.Terminate)
}
