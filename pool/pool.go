/*
Package pool provides cache for point pools.

Every simulated segment allocates a slice of points. Segments are produced
once per frame and released once the ring buffer slot is overwritten, so
slices of the same length are recycled instead of allocated.
*/
package pool

import (
	"sync"

	"github.com/dudk/oscillo"
)

var m = struct {
	sync.Mutex
	pools map[int]*Pool
}{
	pools: map[int]*Pool{},
}

// Pool allocates point slices of the same length.
type Pool struct {
	length int
	pool   sync.Pool
}

// Get returns pool for provided number of points. Pools are cached
// internally, so multiple calls for same length will return the same pool
// instance.
func Get(length int) *Pool {
	m.Lock()
	defer m.Unlock()
	if p, ok := m.pools[length]; ok {
		return p
	}

	p := &Pool{length: length}
	p.pool.New = func() interface{} {
		points := make([]oscillo.Point, p.length)
		return &points
	}
	m.pools[length] = p
	return p
}

// Alloc returns a slice of points with pool length. Values are not reset.
func (p *Pool) Alloc() []oscillo.Point {
	return *p.pool.Get().(*[]oscillo.Point)
}

// Free puts points back to the pool. Slices of different length are
// ignored.
func (p *Pool) Free(points []oscillo.Point) {
	if len(points) != p.length {
		return
	}
	points = points[:p.length]
	p.pool.Put(&points)
}

// Release returns points to the pool of matching length.
func Release(points []oscillo.Point) {
	if len(points) == 0 {
		return
	}
	Get(len(points)).Free(points)
}

// Wipe cleans up internal cache of pools.
func Wipe() {
	m.Lock()
	defer m.Unlock()
	m.pools = map[int]*Pool{}
}
