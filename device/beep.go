//go:build !headless

package device

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

func init() {
	Register("beep", openBeep)
}

// Beep plays frames with the beep speaker.
type Beep struct {
	ctrl *beep.Ctrl
}

func openBeep(cfg Config, fill Filler) (Device, error) {
	if err := speaker.Init(beep.SampleRate(cfg.SampleRate), cfg.BufferSize); err != nil {
		return nil, err
	}
	streamer, ok := fill.(beep.Streamer)
	if !ok {
		streamer = beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
			fill.Fill(samples)
			return len(samples), true
		})
	}
	return &Beep{
		ctrl: &beep.Ctrl{Streamer: streamer},
	}, nil
}

// Start adds the streamer to the speaker.
func (d *Beep) Start() error {
	speaker.Play(d.ctrl)
	return nil
}

// Pause pauses or resumes the streamer.
func (d *Beep) Pause(paused bool) error {
	speaker.Lock()
	d.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

// Close removes the streamer and closes the speaker.
func (d *Beep) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}
