package render

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dudk/oscillo"
	"github.com/dudk/oscillo/beam"
)

// ErrClosed is returned when Draw is called after Close.
var ErrClosed = errors.New("renderer is closed")

const (
	// exposure converts accumulated beam energy into cell brightness.
	// Terminal cells are much larger than pixels.
	exposure = 4.0
	// threshold is the lowest brightness drawn.
	threshold = 0.02
	// eventsBuffer is the size of events channel.
	eventsBuffer = 16
)

// shades from dim to bright.
var shades = []rune(".:+*#@")

// Terminal draws the beam as a phosphor screen on a terminal. Every cell
// accumulates the time beam spent inside of it and fades exponentially
// with beam decay time.
type Terminal struct {
	screen tcell.Screen
	events chan Event

	// grid holds the energy of viewport cells.
	grid          []float64
	width, height int
	// cells is reused by spread.
	cells []int

	once sync.Once
	done chan struct{}
	wg   sync.WaitGroup
}

// NewTerminal initializes the terminal screen.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal screen: %w", err)
	}
	return NewTerminalScreen(screen), nil
}

// NewTerminalScreen returns renderer for initialized screen. Renderer owns
// the screen and finalizes it on Close.
func NewTerminalScreen(screen tcell.Screen) *Terminal {
	screen.HideCursor()
	screen.Clear()
	t := &Terminal{
		screen: screen,
		events: make(chan Event, eventsBuffer),
		done:   make(chan struct{}),
	}
	t.wg.Add(1)
	go t.poll()
	return t
}

// poll translates screen events until screen is finalized.
func (t *Terminal) poll() {
	defer t.wg.Done()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		e, ok := translate(ev)
		if !ok {
			continue
		}
		select {
		case t.events <- e:
		case <-t.done:
			return
		}
	}
}

func translate(ev tcell.Event) (Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return Event{Type: Quit}, true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return Event{Type: Quit}, true
			case '+', '=':
				return Event{Type: VolumeUp}, true
			case '-', '_':
				return Event{Type: VolumeDown}, true
			case ' ':
				return Event{Type: TogglePause}, true
			}
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		return Event{Type: Resize, Width: w, Height: h}, true
	}
	return Event{}, false
}

// Events returns user requests.
func (t *Terminal) Events() <-chan Event {
	return t.events
}

// Draw fades the screen by segment duration and exposes cells the beam
// passed through.
func (t *Terminal) Draw(b *beam.Beam, seg oscillo.Segment) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	x0, y0, w, h := t.viewport()
	if w != t.width || h != t.height {
		t.width, t.height = w, h
		t.grid = make([]float64, w*h)
	}
	t.fade(b.DecayTime, seg.Duration())
	t.expose(b, seg)

	t.screen.Clear()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			level := 1 - math.Exp(-exposure*t.grid[row*w+col])
			if level < threshold {
				continue
			}
			t.screen.SetContent(x0+col, y0+row, shade(level), nil, style(b.Color, level))
		}
	}
	t.screen.Show()
	return nil
}

// viewport returns square drawing area in the middle of the screen.
// Terminal cells are twice as high as wide.
func (t *Terminal) viewport() (x0, y0, w, h int) {
	sw, sh := t.screen.Size()
	w = min(sw, 2*sh)
	h = w / 2
	return (sw - w) / 2, (sh - h) / 2, w, h
}

func (t *Terminal) fade(decayTime, elapsed float64) {
	f := 0.0
	if decayTime > 0 {
		f = math.Exp(-elapsed / decayTime)
	}
	for i := range t.grid {
		t.grid[i] *= f
	}
}

// expose adds energy of every segment edge around its start point. The
// last point belongs to the next segment.
func (t *Terminal) expose(b *beam.Beam, seg oscillo.Segment) {
	if t.width == 0 || t.height == 0 {
		return
	}
	energy := float64(b.Intensity) * seg.Dt
	// beam radius is relative to the half of viewport.
	rx := b.Radius * float64(t.width) / 2
	ry := b.Radius * float64(t.height) / 2
	if rx <= 0 || ry <= 0 {
		rx, ry = 0, 0
	}
	for _, p := range seg.Points[:seg.NumEdges()] {
		x := (p.X + 1) / 2 * float64(t.width)
		y := (1 - p.Y) / 2 * float64(t.height)
		t.spread(x, y, rx, ry, energy)
	}
}

// spread splits energy between cells with centers inside of the beam
// spot at (x, y). The cell under the point is always lit.
func (t *Terminal) spread(x, y, rx, ry, energy float64) {
	col0, row0 := int(math.Floor(x)), int(math.Floor(y))
	cells := t.cells[:0]
	for row := int(math.Floor(y - ry)); row <= int(math.Floor(y+ry)); row++ {
		for col := int(math.Floor(x - rx)); col <= int(math.Floor(x+rx)); col++ {
			if col < 0 || col >= t.width || row < 0 || row >= t.height {
				continue
			}
			if col != col0 || row != row0 {
				dx := (float64(col) + 0.5 - x) / rx
				dy := (float64(row) + 0.5 - y) / ry
				if dx*dx+dy*dy > 1 {
					continue
				}
			}
			cells = append(cells, row*t.width+col)
		}
	}
	t.cells = cells
	for _, i := range cells {
		t.grid[i] += energy / float64(len(cells))
	}
}

// Close finalizes the screen and waits for events goroutine to exit.
func (t *Terminal) Close() error {
	t.once.Do(func() {
		close(t.done)
		t.screen.Fini()
	})
	t.wg.Wait()
	return nil
}

func shade(level float64) rune {
	i := int(level * float64(len(shades)))
	if i >= len(shades) {
		i = len(shades) - 1
	}
	return shades[i]
}

func style(color [3]float32, level float64) tcell.Style {
	c := func(v float32) int32 {
		return int32(math.Round(float64(v) * level * 255))
	}
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(c(color[0]), c(color[1]), c(color[2])))
}
