/*
Package oscillo renders a continuously evolving 2D path, a beam, and
sonifies the same path as a stereo signal, so the sound matches the
picture.

Concept

The path is driven by two clocks. The display loop produces path data
once per frame and the audio device consumes it once per device buffer:

    Beam - simulates the path for the elapsed frame time;
    Buffer - fixed-size ring of simulated segments;
    Synth - interpolates segments into device samples.

Every frame the beam is advanced by a fixed number of equal sub-steps
with the injected Generator function. The result is a Segment:

    seg := b.Simulate(elapsed, generator.Tone(200, 0.8))

Segment is drawn by the renderer and pushed into the buffer:

    buf.Push(seg)

Audio device calls the synthesizer with its own cadence. Synthesizer
keeps the fractional playback position across segments and device
buffers, so the output phase is continuous:

    s := synth.New(buf, synth.Volume(120))
    s.Fill(frames)

Overflow and underrun

When the display loop produces faster than audio is consumed, the oldest
segment is overwritten. When audio consumes faster than produced, the
remaining output is silence and the playback position is frozen until new
data arrives. Neither is reported as an error, both are counted by the
metric package.

Session

Package scope wires all parts together with device backends and a
renderer:

    s, err := scope.New(cfg)
    err = s.Run(ctx)
*/
package oscillo
