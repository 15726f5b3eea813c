package ring_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/ring"
)

// marked returns a two-point segment with x set to mark.
func marked(mark float64) oscillo.Segment {
	return oscillo.Segment{
		Points: []oscillo.Point{{X: mark}, {X: mark}},
		Dt:     0.01,
	}
}

// drain consumes all unread segments and returns their marks.
func drain(b *ring.Buffer) []float64 {
	var marks []float64
	b.Consume(func(r *ring.Reader) {
		for !r.Starved() {
			marks = append(marks, r.Current().Points[0].X)
			r.Advance()
		}
	})
	return marks
}

func TestNew(t *testing.T) {
	tests := []struct {
		capacity int
		err      error
	}{
		{capacity: -1, err: ring.ErrCapacity},
		{capacity: 0, err: ring.ErrCapacity},
		{capacity: 1, err: ring.ErrCapacity},
		{capacity: 2},
		{capacity: oscillo.Capacity},
	}
	for _, test := range tests {
		b, err := ring.New(test.capacity)
		if test.err != nil {
			assert.Equal(t, test.err, err)
			assert.Nil(t, b)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, test.capacity, b.Cap())
		assert.Equal(t, 0, b.Len())
	}
}

func TestStarved(t *testing.T) {
	b, err := ring.New(3)
	require.NoError(t, err)

	b.Consume(func(r *ring.Reader) {
		assert.True(t, r.Starved())
		assert.True(t, r.Current().IsEmpty())
		// advancing starved buffer is a no-op.
		assert.True(t, r.Advance())
		assert.True(t, r.Current().IsEmpty())
	})

	b.Push(marked(1))
	b.Consume(func(r *ring.Reader) {
		assert.False(t, r.Starved())
		assert.Equal(t, 1.0, r.Current().Points[0].X)
		assert.True(t, r.Advance())
		assert.True(t, r.Current().IsEmpty())
	})
	assert.Equal(t, 0, b.Len())
}

func TestOrder(t *testing.T) {
	b, err := ring.New(4)
	require.NoError(t, err)

	// wrap around a few times.
	for round := 0; round < 3; round++ {
		for i := 0; i < 3; i++ {
			b.Push(marked(float64(round*10 + i)))
		}
		assert.Equal(t, 3, b.Len())
		assert.Equal(t, []float64{
			float64(round * 10),
			float64(round*10 + 1),
			float64(round*10 + 2),
		}, drain(b))
	}
	assert.Equal(t, uint64(0), b.Overflows())
}

func TestOverwrite(t *testing.T) {
	tests := []struct {
		capacity  int
		pushes    int
		expected  []float64
		overflows uint64
	}{
		{
			capacity: 3,
			pushes:   3,
			expected: []float64{0, 1, 2},
		},
		{
			capacity:  3,
			pushes:    4,
			expected:  []float64{1, 2, 3},
			overflows: 1,
		},
		{
			capacity:  oscillo.Capacity,
			pushes:    oscillo.Capacity + 1,
			expected:  []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			overflows: 1,
		},
		{
			capacity:  2,
			pushes:    7,
			expected:  []float64{5, 6},
			overflows: 5,
		},
	}
	for _, test := range tests {
		b, err := ring.New(test.capacity)
		require.NoError(t, err)
		for i := 0; i < test.pushes; i++ {
			b.Push(marked(float64(i)))
		}
		assert.Equal(t, test.capacity, b.Len())
		assert.Equal(t, test.overflows, b.Overflows())
		assert.Equal(t, test.expected, drain(b))
	}
}

func TestOverwritePartiallyConsumed(t *testing.T) {
	b, err := ring.New(3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		b.Push(marked(float64(i)))
	}
	b.Consume(func(r *ring.Reader) {
		r.Advance()
	})
	// one free slot, then one overflow.
	b.Push(marked(3))
	b.Push(marked(4))
	assert.Equal(t, uint64(1), b.Overflows())
	assert.Equal(t, []float64{2, 3, 4}, drain(b))
}

func TestReset(t *testing.T) {
	b, err := ring.New(3)
	require.NoError(t, err)
	b.Push(marked(1))
	b.Push(marked(2))
	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, drain(b))

	b.Push(marked(3))
	assert.Equal(t, []float64{3}, drain(b))
}

func TestConcurrentAccess(t *testing.T) {
	b, err := ring.New(oscillo.Capacity)
	require.NoError(t, err)

	pushes := 1000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < pushes; i++ {
			b.Push(marked(float64(i)))
		}
	}()
	consumed := 0
	go func() {
		defer wg.Done()
		for i := 0; i < pushes; i++ {
			consumed += len(drain(b))
		}
	}()
	wg.Wait()
	consumed += len(drain(b))
	assert.Equal(t, pushes, consumed+int(b.Overflows()))
}
