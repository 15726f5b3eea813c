package oscillo

const (
	// SampleRate is the device sample rate in Hz.
	SampleRate = 44100
	// NumChannels is the number of output channels. Left channel carries
	// the x coordinate of the beam, right channel carries y.
	NumChannels = 2
	// BufferSize is the default number of frames per device buffer.
	BufferSize = 512
	// Capacity is the default number of segment buffer slots.
	Capacity = 10
)

// Generator maps absolute simulation time in seconds to the beam position.
// Implementations must be pure functions of time.
type Generator func(t float64) (x, y float64)

// Point is a single simulated beam position.
type Point struct {
	X, Y float64
}

// Lerp returns linear interpolation between p and q, where f is in [0, 1].
func (p Point) Lerp(q Point, f float64) Point {
	return Point{
		X: (1-f)*p.X + f*q.X,
		Y: (1-f)*p.Y + f*q.Y,
	}
}

// Segment is a single simulated slice of the beam path. Points are spaced
// by Dt seconds. The last point duplicates the first point of the segment
// simulated next, so consumers can interpolate through the boundary.
//
// Segment with no points is an empty segment.
type Segment struct {
	Points []Point
	Dt     float64
}

// IsEmpty returns true if segment has no points.
func (s Segment) IsEmpty() bool {
	return len(s.Points) == 0
}

// NumEdges returns number of intervals between points.
func (s Segment) NumEdges() int {
	if len(s.Points) == 0 {
		return 0
	}
	return len(s.Points) - 1
}

// Duration returns the simulated time covered by the segment in seconds.
func (s Segment) Duration() float64 {
	return float64(s.NumEdges()) * s.Dt
}
