package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

const componentsLabel = "oscillo.components"

const (
	// FillCounter measures number of device buffer fills.
	FillCounter = "Fills"
	// FrameCounter measures number of filled frames.
	FrameCounter = "Frames"
	// UnderrunCounter measures number of fills which ran out of segments.
	UnderrunCounter = "Underruns"
	// PushCounter measures number of pushed segments.
	PushCounter = "Pushes"
	// OverflowCounter measures number of overwritten unread segments.
	OverflowCounter = "Overflows"
	// LatencyCounter measures latency between fill calls.
	LatencyCounter = "Latency"
	// DurationCounter counts what's the duration of filled signal.
	DurationCounter = "Duration"
	// ComponentCounter counts number of metered components.
	ComponentCounter = "Components"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		FillCounter,
		FrameCounter,
		UnderrunCounter,
		PushCounter,
		OverflowCounter,
		LatencyCounter,
		DurationCounter,
		ComponentCounter,
	}
)

// Get metrics values for provided component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(componentType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(componentType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure closure. This closure is needed to postpone metrics
// capture until component is actually running.
type ResetFunc func() MeasureFunc

// MeasureFunc captures metrics when device buffer is filled. Underrun is
// true if the fill ran out of data.
type MeasureFunc func(frames int64, underrun bool)

// PushFunc captures metrics when segment is pushed. Overflow is true if
// the push has overwritten unread segment.
type PushFunc func(overflow bool)

// Meter creates new meter closure to capture consumer counters.
func Meter(component interface{}, sampleRate int) ResetFunc {
	t := getType(component)
	metric := components.get(t)
	metric.components.Add(1)
	return func() MeasureFunc {
		calledAt := time.Now()
		var (
			bufferSize     int64
			bufferDuration time.Duration
		)
		return func(s int64, underrun bool) {
			metric.latency.set(time.Since(calledAt))
			metric.fills.Add(1)
			metric.frames.Add(s)
			if underrun {
				metric.underruns.Add(1)
			}
			// recalculate buffer duration only when buffer size has changed
			if bufferSize != s {
				bufferSize = s
				bufferDuration = DurationOf(sampleRate, s)
			}
			metric.duration.add(bufferDuration)
			calledAt = time.Now()
		}
	}
}

// Pusher creates new closure to capture producer counters.
func Pusher(component interface{}) PushFunc {
	t := getType(component)
	metric := components.get(t)
	metric.components.Add(1)
	return func(overflow bool) {
		metric.pushes.Add(1)
		if overflow {
			metric.overflows.Add(1)
		}
	}
}

// DurationOf returns time duration of passed frames for this sample rate.
func DurationOf(sampleRate int, frames int64) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(componentType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[componentType]; ok {
		// return existing metric if available
		return metric
	}
	// create new metric
	metric := newMetric(componentType)
	m.m[componentType] = metric
	return metric
}

type metric struct {
	key        string
	components *expvar.Int
	fills      *expvar.Int
	frames     *expvar.Int
	underruns  *expvar.Int
	pushes     *expvar.Int
	overflows  *expvar.Int
	latency    *duration
	duration   *duration
}

func newMetric(componentType string) metric {
	m := metric{
		key:        componentType,
		components: expvar.NewInt(key(componentType, ComponentCounter)),
		fills:      expvar.NewInt(key(componentType, FillCounter)),
		frames:     expvar.NewInt(key(componentType, FrameCounter)),
		underruns:  expvar.NewInt(key(componentType, UnderrunCounter)),
		pushes:     expvar.NewInt(key(componentType, PushCounter)),
		overflows:  expvar.NewInt(key(componentType, OverflowCounter)),
		latency:    &duration{},
		duration:   &duration{},
	}
	expvar.Publish(key(componentType, LatencyCounter), m.latency)
	expvar.Publish(key(componentType, DurationCounter), m.duration)
	return m
}

func key(componentType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, componentType, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%q", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
