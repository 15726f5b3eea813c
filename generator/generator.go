// Package generator provides beam path formulas.
package generator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/dudk/oscillo"
)

// Default tone properties.
const (
	DefaultFrequency = 200.0
	DefaultRadius    = 0.8
)

// ErrUnknown is returned when generator with provided name is not
// registered.
var ErrUnknown = errors.New("unknown generator")

// Params are the generator parameters that can be configured by name.
type Params struct {
	Frequency float64 `yaml:"frequency"`
	Radius    float64 `yaml:"radius"`
	Ratio     float64 `yaml:"ratio"`
	Phase     float64 `yaml:"phase"`
}

// AllocatorFunc creates generator for provided params.
type AllocatorFunc func(Params) oscillo.Generator

var registry = map[string]AllocatorFunc{
	"tone": func(p Params) oscillo.Generator {
		return Tone(p.Frequency, p.Radius)
	},
	"circle": func(p Params) oscillo.Generator {
		return Circle(p.Frequency, p.Radius)
	},
	"lissajous": func(p Params) oscillo.Generator {
		return Lissajous(p.Frequency, p.Ratio, p.Phase, p.Radius)
	},
}

// Lookup returns generator registered with name.
func Lookup(name string, p Params) (oscillo.Generator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return fn(p.withDefaults()), nil
}

// Names returns sorted names of registered generators.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Params) withDefaults() Params {
	if p.Frequency == 0 {
		p.Frequency = DefaultFrequency
	}
	if p.Radius == 0 {
		p.Radius = DefaultRadius
	}
	if p.Ratio == 0 {
		p.Ratio = 1
	}
	return p
}

// Tone draws a circle with frequency. Radius ramps up during the first
// second to avoid a click at start.
func Tone(frequency, radius float64) oscillo.Generator {
	return func(t float64) (float64, float64) {
		u := frequency * 2.0 * math.Pi * t
		ramp := 1.0
		if t <= 1.0 {
			ramp = t * t * t
		}
		return radius * ramp * math.Cos(u), radius * ramp * math.Sin(u)
	}
}

// Circle draws a circle with frequency.
func Circle(frequency, radius float64) oscillo.Generator {
	return func(t float64) (float64, float64) {
		u := frequency * 2.0 * math.Pi * t
		return radius * math.Cos(u), radius * math.Sin(u)
	}
}

// Lissajous draws a lissajous figure. Left channel oscillates with
// frequency, right channel with frequency*ratio shifted by phase radians.
func Lissajous(frequency, ratio, phase, radius float64) oscillo.Generator {
	return func(t float64) (float64, float64) {
		u := frequency * 2.0 * math.Pi * t
		return radius * math.Sin(u), radius * math.Sin(u*ratio+phase)
	}
}
