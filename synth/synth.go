// Package synth converts simulated beam segments into stereo samples.
package synth

import (
	"sync/atomic"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/metric"
	"github.com/dudk/oscillo/ring"
)

// DefaultVolume is the volume of a new synthesizer.
const DefaultVolume uint8 = 64

// Synth fills device buffers with the beam path: x goes to the left
// channel and y to the right one. Points of segments are linearly
// interpolated at device sample times.
//
// Synth keeps the playback position across calls, so the signal phase is
// continuous between device buffers and segments of different length.
// If the buffer runs out of segments, the rest of device buffer is silent
// and playback resumes from the same position once new segments arrive.
type Synth struct {
	buf        *ring.Buffer
	sampleRate int
	period     float64
	volume     atomic.Uint32
	measure    metric.MeasureFunc

	// timeProcessed is the playback offset into the current segment.
	// Guarded by buf.
	timeProcessed float64
}

// Option provides a way to set functional parameters to synth.
type Option func(*Synth)

// SampleRate sets the device sample rate.
func SampleRate(sampleRate int) Option {
	return func(s *Synth) {
		if sampleRate > 0 {
			s.sampleRate = sampleRate
		}
	}
}

// Volume sets the initial volume.
func Volume(v uint8) Option {
	return func(s *Synth) {
		s.volume.Store(uint32(v))
	}
}

// New returns synthesizer which consumes segments from the buffer.
func New(buf *ring.Buffer, options ...Option) *Synth {
	s := &Synth{
		buf:        buf,
		sampleRate: oscillo.SampleRate,
	}
	s.volume.Store(uint32(DefaultVolume))
	for _, option := range options {
		option(s)
	}
	s.period = 1 / float64(s.sampleRate)
	s.measure = metric.Meter(s, s.sampleRate)()
	return s
}

// SampleRate returns the device sample rate.
func (s *Synth) SampleRate() int {
	return s.sampleRate
}

// SetVolume sets the output volume. 255 is unattenuated signal.
func (s *Synth) SetVolume(v uint8) {
	s.volume.Store(uint32(v))
}

// Volume returns current volume.
func (s *Synth) Volume() uint8 {
	return uint8(s.volume.Load())
}

// TimeProcessed returns the playback offset into the current segment in
// seconds.
func (s *Synth) TimeProcessed() (t float64) {
	s.buf.Consume(func(*ring.Reader) {
		t = s.timeProcessed
	})
	return
}

// Fill fills all frames. Frames which cannot be produced because the
// buffer is starved are set to zero.
func (s *Synth) Fill(frames [][2]float64) {
	volume := float64(s.volume.Load()) / 255.0
	s.buf.Consume(func(r *ring.Reader) {
		n := s.fill(r, frames, volume)
		for i := n; i < len(frames); i++ {
			frames[i] = [2]float64{}
		}
		s.measure(int64(len(frames)), n < len(frames))
	})
}

// fill returns number of produced frames.
func (s *Synth) fill(r *ring.Reader, frames [][2]float64, volume float64) int {
	seg := r.Current()
	for i := 0; i < len(frames); {
		// nothing was pushed since the last starvation.
		if seg.IsEmpty() && r.Starved() {
			return i
		}

		t := s.timeProcessed + float64(i)*s.period
		if d := seg.Duration(); d > 0 && t < d {
			frames[i] = sample(seg, t, volume)
			i++
			continue
		}

		// segment is exhausted, move to the next one.
		s.timeProcessed -= seg.Duration()
		if r.Advance() {
			// keep the time of produced frames, so playback resumes
			// from this position.
			s.timeProcessed += float64(i) * s.period
			return i
		}
		seg = r.Current()
	}
	s.timeProcessed += float64(len(frames)) * s.period
	return len(frames)
}

// sample interpolates segment at time t. Segment must not be empty and t
// must be within its duration.
func sample(seg oscillo.Segment, t, volume float64) [2]float64 {
	pid := int(t / seg.Dt)
	if pid < 0 {
		pid = 0
	} else if last := len(seg.Points) - 2; pid > last {
		pid = last
	}
	f := (t - float64(pid)*seg.Dt) / seg.Dt
	p := seg.Points[pid].Lerp(seg.Points[pid+1], f)
	return [2]float64{volume * p.X, volume * p.Y}
}

// Stream fills samples. It implements beep.Streamer, so synth can be
// played by the beep speaker. Stream never drains.
func (s *Synth) Stream(samples [][2]float64) (int, bool) {
	s.Fill(samples)
	return len(samples), true
}

// Err implements beep.Streamer.
func (s *Synth) Err() error {
	return nil
}
