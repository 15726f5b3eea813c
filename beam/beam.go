// Package beam simulates the beam path.
package beam

import (
	"errors"
	"math"
	"time"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/pool"
)

// Default beam properties.
const (
	DefaultEdges     = 5000
	DefaultDecayTime = 4e-2
	DefaultRadius    = 1e-2
	DefaultIntensity = 25.0 * (1 << 5)

	// referenceSize is the drawable size for which DefaultRadius is tuned.
	referenceSize = 700.0
)

// DefaultColor is a phosphor green.
var DefaultColor = [3]float32{0.05, 1.0, 0.05}

// ErrEdges is returned when beam is created with less than one edge.
var ErrEdges = errors.New("beam must have at least one edge")

// Beam holds the simulated path state. Decay time, radius, intensity and
// color are only used to draw the beam.
type Beam struct {
	Edges     int
	DecayTime float64
	Radius    float64
	Intensity float32
	Color     [3]float32

	SimTime float64
	X, Y    float64
}

// Option provides a way to set functional parameters to beam.
type Option func(*Beam)

// DecayTime sets the time it takes for the drawn beam to fade.
func DecayTime(d float64) Option {
	return func(b *Beam) {
		b.DecayTime = d
	}
}

// Radius sets the drawn beam radius.
func Radius(r float64) Option {
	return func(b *Beam) {
		b.Radius = r
	}
}

// Intensity sets the drawn beam intensity.
func Intensity(i float32) Option {
	return func(b *Beam) {
		b.Intensity = i
	}
}

// Color sets the drawn beam color.
func Color(r, g, bl float32) Option {
	return func(b *Beam) {
		b.Color = [3]float32{r, g, bl}
	}
}

// New returns a beam at origin with default visual properties.
func New(edges int, options ...Option) (*Beam, error) {
	if edges < 1 {
		return nil, ErrEdges
	}
	b := &Beam{
		Edges:     edges,
		DecayTime: DefaultDecayTime,
		Radius:    DefaultRadius,
		Intensity: DefaultIntensity,
		Color:     DefaultColor,
	}
	for _, option := range options {
		option(b)
	}
	return b, nil
}

// Simulate advances the beam by elapsed seconds split into Edges equal
// steps. Position before every step is recorded and the position after
// the last step is appended, so the returned segment has Edges+1 points.
// Negative elapsed is treated as zero.
func (b *Beam) Simulate(elapsed float64, gen oscillo.Generator) oscillo.Segment {
	if b.Edges < 1 {
		return oscillo.Segment{}
	}
	if elapsed < 0 || math.IsNaN(elapsed) {
		elapsed = 0
	}
	dt := elapsed / float64(b.Edges)
	points := pool.Get(b.Edges + 1).Alloc()

	t := b.SimTime
	for n := 0; n < b.Edges; n++ {
		points[n] = oscillo.Point{X: b.X, Y: b.Y}
		t += dt
		b.X, b.Y = gen(t)
	}
	points[b.Edges] = oscillo.Point{X: b.X, Y: b.Y}
	b.SimTime = t

	return oscillo.Segment{
		Points: points,
		Dt:     dt,
	}
}

// SimulateDuration advances the beam by wall-clock duration.
func (b *Beam) SimulateDuration(elapsed time.Duration, gen oscillo.Generator) oscillo.Segment {
	return b.Simulate(elapsed.Seconds(), gen)
}

// Resize keeps the drawn beam at fixed size regardless of drawable
// resolution.
func (b *Beam) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.Radius = DefaultRadius * referenceSize / math.Min(float64(width), float64(height))
}
