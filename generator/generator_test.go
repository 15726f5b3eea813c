package generator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/oscillo/generator"
)

func TestTone(t *testing.T) {
	gen := generator.Tone(200, 0.8)

	x, y := gen(0)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	// ramp is cubic during the first second.
	x, y = gen(0.5)
	assert.InDelta(t, 0.8*0.125*math.Cos(200*2*math.Pi*0.5), x, 1e-12)
	assert.InDelta(t, 0.8*0.125*math.Sin(200*2*math.Pi*0.5), y, 1e-12)

	// full radius after the first second.
	for _, tm := range []float64{1.1, 2.37, 10} {
		x, y = gen(tm)
		assert.InDelta(t, 0.8, math.Hypot(x, y), 1e-12)
	}
}

func TestCircle(t *testing.T) {
	gen := generator.Circle(50, 1)
	x, y := gen(0)
	assert.InDelta(t, 1.0, x, 1e-12)
	assert.InDelta(t, 0.0, y, 1e-12)
	x, y = gen(0.005)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, 1.0, y, 1e-12)
}

func TestLissajous(t *testing.T) {
	gen := generator.Lissajous(100, 2, math.Pi/2, 0.5)
	x, y := gen(0)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, 0.5, y, 1e-12)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "tone"},
		{name: "circle"},
		{name: "lissajous"},
		{name: "saw", err: generator.ErrUnknown},
	}
	for _, test := range tests {
		gen, err := generator.Lookup(test.name, generator.Params{})
		if test.err != nil {
			assert.True(t, errors.Is(err, test.err))
			assert.Nil(t, gen)
			continue
		}
		require.NoError(t, err)
		assert.NotNil(t, gen)
	}
	assert.Equal(t, []string{"circle", "lissajous", "tone"}, generator.Names())
}

func TestLookupDefaults(t *testing.T) {
	gen, err := generator.Lookup("circle", generator.Params{})
	require.NoError(t, err)
	x, y := gen(1.0 / generator.DefaultFrequency / 4)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, generator.DefaultRadius, y, 1e-12)
}
