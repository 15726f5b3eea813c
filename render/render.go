// Package render draws simulated beam segments and reports user input.
//
// Renderer is the display side of the pipeline: it receives every segment
// right after simulation and before the segment is handed to the audio
// buffer. Renderers must not keep references to segment points after Draw
// returns, because points are recycled once the audio side is done with
// them.
package render

import (
	"errors"
	"fmt"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/beam"
)

// ErrUnknown is returned when renderer with provided name doesn't exist.
var ErrUnknown = errors.New("unknown renderer")

// EventType defines user requests emitted by renderers.
type EventType int

// Types of events.
const (
	// Quit requests the session to stop.
	Quit EventType = iota
	// VolumeUp requests louder output.
	VolumeUp
	// VolumeDown requests quieter output.
	VolumeDown
	// TogglePause requests to pause or resume audio.
	TogglePause
	// Resize reports new drawable size.
	Resize
)

func (t EventType) String() string {
	switch t {
	case Quit:
		return "quit"
	case VolumeUp:
		return "volume up"
	case VolumeDown:
		return "volume down"
	case TogglePause:
		return "toggle pause"
	case Resize:
		return "resize"
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is a user request. Width and Height are set only for Resize.
type Event struct {
	Type          EventType
	Width, Height int
}

// Renderer draws the beam.
type Renderer interface {
	// Draw renders the segment produced by the last simulation step.
	Draw(b *beam.Beam, seg oscillo.Segment) error
	// Events returns channel of user requests. It can be nil.
	Events() <-chan Event
	// Close releases the display.
	Close() error
}

// Open returns renderer by name. Known names are "terminal" and "none".
func Open(name string) (Renderer, error) {
	switch name {
	case "terminal":
		return NewTerminal()
	case "none", "":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Nop renderer discards segments. Used for headless sessions.
type Nop struct{}

// Draw does nothing.
func (Nop) Draw(*beam.Beam, oscillo.Segment) error { return nil }

// Events returns nil channel, Nop never emits events.
func (Nop) Events() <-chan Event { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
