package animation

import (
	"context"

	"github.com/rileyhilliard/pixelbar/internal/frame"
)

// Direction is where a matrix point is heading.
type Direction int

const (
	Down Direction = iota
	Right
	Up
	Left
)

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Right:
		return "right"
	case Up:
		return "up"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

func (d Direction) delta() (int, int) {
	switch d {
	case Down:
		return 0, 1
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	default:
		return -1, 0
	}
}

// Point is one moving matrix pixel.
type Point struct {
	X, Y  int
	Dir   Direction
	Color frame.Color
}

// Matrix moves points in straight lines from one edge of the region until
// they fall off the other. At most a third of the region's pixels are in
// flight.
type Matrix struct {
	env       Env
	points    []Point
	maxPoints int
}

// NewMatrix creates a matrix routine with no points in flight.
func NewMatrix(env Env) *Matrix {
	env = env.withDefaults("matrix")
	return &Matrix{
		env:       env,
		maxPoints: env.Surface.Region().Width() * env.Surface.Height() / 3,
	}
}

func (m *Matrix) Name() string { return "matrix" }

// Points returns a copy of the points in flight.
func (m *Matrix) Points() []Point {
	return append([]Point(nil), m.points...)
}

// Capacity is the most points that may be in flight at once.
func (m *Matrix) Capacity() int { return m.maxPoints }

func (m *Matrix) inside(x, y int) bool {
	return m.env.Surface.Region().Contains(x) && y >= 0 && y < m.env.Surface.Height()
}

func (m *Matrix) spawn() Point {
	reg := m.env.Surface.Region()
	h := m.env.Surface.Height()
	rnd := m.env.Rand
	p := Point{
		Dir: Direction(rnd.IntN(4)),
		Color: frame.Color{
			R: uint8(100 + rnd.IntN(156)),
			G: uint8(100 + rnd.IntN(156)),
			B: uint8(100 + rnd.IntN(156)),
		},
	}
	switch p.Dir {
	case Down:
		p.X, p.Y = reg.XStart+rnd.IntN(reg.Width()), 0
	case Right:
		p.X, p.Y = reg.XStart, rnd.IntN(h)
	case Up:
		p.X, p.Y = reg.XStart+rnd.IntN(reg.Width()), h-1
	case Left:
		p.X, p.Y = reg.XEnd-1, rnd.IntN(h)
	}
	return p
}

// Step clears every point, moves it one pixel, drops the ones that left
// the region, maybe spawns a new one at an edge and draws the rest.
func (m *Matrix) Step() error {
	surf := m.env.Surface
	for _, p := range m.points {
		if err := surf.SetPixel(p.X, p.Y, frame.Black); err != nil {
			return err
		}
	}

	kept := m.points[:0]
	for _, p := range m.points {
		dx, dy := p.Dir.delta()
		p.X += dx
		p.Y += dy
		if m.inside(p.X, p.Y) {
			kept = append(kept, p)
		}
	}
	m.points = kept

	// Two in three odds keep the rain sparse while the region fills up.
	if len(m.points) < m.maxPoints && m.env.Rand.IntN(6) > 1 {
		m.points = append(m.points, m.spawn())
	}

	for _, p := range m.points {
		if err := surf.SetPixel(p.X, p.Y, p.Color); err != nil {
			return err
		}
	}
	return nil
}

// Run steps and presents until ctx is cancelled.
func (m *Matrix) Run(ctx context.Context) error {
	for {
		tick := MatrixTick(m.env.Load.Value())
		n := iterations(m.env.UpdateRate, tick)
		for i := 0; i < n; i++ {
			if err := m.Step(); err != nil {
				return err
			}
			if err := m.env.Surface.Present(); err != nil {
				return err
			}
			if !sleep(ctx, tick) {
				return nil
			}
		}
	}
}
