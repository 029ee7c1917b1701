package animation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/frame"
)

// ColorFunc produces a sparkle color.
type ColorFunc func(r *rand.Rand) frame.Color

// RandomColor picks every channel uniformly from [0,255].
func RandomColor(r *rand.Rand) frame.Color {
	return frame.Color{R: uint8(r.IntN(256)), G: uint8(r.IntN(256)), B: uint8(r.IntN(256))}
}

// HueColor picks a random fully saturated, full brightness hue.
func HueColor(r *rand.Rand) frame.Color {
	return frame.HSV(r.Float64()*360, 1, 1)
}

var colorFuncs = map[string]ColorFunc{
	"random": RandomColor,
	"hue":    HueColor,
}

// ColorFuncNames lists the selectable sparkle color functions.
func ColorFuncNames() []string {
	names := make([]string, 0, len(colorFuncs))
	for n := range colorFuncs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupColorFunc returns the named color function.
func LookupColorFunc(name string) (ColorFunc, error) {
	if name == "" {
		return RandomColor, nil
	}
	fn, ok := colorFuncs[name]
	if !ok {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown sparkle color '%s'", name),
			fmt.Sprintf("Pick one of: %v", ColorFuncNames()))
	}
	return fn, nil
}

var (
	loadCool = colorful.Color{R: 0.21, G: 1, B: 0.12}
	loadHot  = colorful.Color{R: 1, G: 0.12, B: 0.08}
)

// LoadColor maps load, normalized by CPU count, onto a green to red
// gradient. A fully loaded machine is solid red.
func LoadColor(load float64, cpus int) frame.Color {
	if cpus <= 0 {
		cpus = runtime.NumCPU()
	}
	t := load / float64(cpus)
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return frame.FromColorful(loadCool.BlendHcl(loadHot, t))
}
