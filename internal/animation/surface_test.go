package animation

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/frame"
	"github.com/rileyhilliard/pixelbar/internal/logger"
	"github.com/rileyhilliard/pixelbar/internal/metric"
	"github.com/rileyhilliard/pixelbar/internal/region"
)

type pixelKey struct{ x, y int }

// recordingSurface keeps every color each pixel was set to, in order.
type recordingSurface struct {
	mu         sync.Mutex
	region     region.Region
	height     int
	pixels     map[pixelKey]frame.Color
	history    map[pixelKey][]frame.Color
	presents   int
	presentErr error
}

func newRecordingSurface(r region.Region, height int) *recordingSurface {
	return &recordingSurface{
		region:  r,
		height:  height,
		pixels:  make(map[pixelKey]frame.Color),
		history: make(map[pixelKey][]frame.Color),
	}
}

func (s *recordingSurface) Region() region.Region { return s.region }
func (s *recordingSurface) Height() int           { return s.height }

func (s *recordingSurface) check(x, y int) error {
	if !s.region.Contains(x) || y < 0 || y >= s.height {
		return errors.NewOutOfBounds(x, y, fmt.Sprintf("%s x %d rows", s.region, s.height))
	}
	return nil
}

func (s *recordingSurface) SetPixel(x, y int, c frame.Color) error {
	if err := s.check(x, y); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pixelKey{x, y}
	s.pixels[k] = c
	s.history[k] = append(s.history[k], c)
	return nil
}

func (s *recordingSurface) Pixel(x, y int) (frame.Color, error) {
	if err := s.check(x, y); err != nil {
		return frame.Black, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pixels[pixelKey{x, y}], nil
}

func (s *recordingSurface) Fill(c frame.Color) {
	for y := 0; y < s.height; y++ {
		for x := s.region.XStart; x < s.region.XEnd; x++ {
			_ = s.SetPixel(x, y, c)
		}
	}
}

func (s *recordingSurface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presentErr != nil {
		return s.presentErr
	}
	s.presents++
	return nil
}

func (s *recordingSurface) presentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

func (s *recordingSurface) lit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.pixels {
		if c.IsLit() {
			n++
		}
	}
	return n
}

func testEnv(surf Surface, load float64) Env {
	conn := metric.NewSlot(metric.KindConnectivity, 1)
	return Env{
		Surface:      surf,
		Load:         metric.NewSlot(metric.KindLoad, load),
		Connectivity: conn,
		Rand:         rand.New(rand.NewPCG(1, 2)),
		Log:          logger.Noop(),
	}
}
