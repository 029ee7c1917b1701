package animation

import (
	"fmt"
	"sort"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/metric"
)

// Role says which part of the grid a routine can occupy.
type Role string

const (
	RoleFiller Role = "filler"
	RoleBar    Role = "bar"
)

// Factory describes a routine that can be placed on the grid.
type Factory struct {
	Name        string
	Role        Role
	Description string
	// Metrics lists the slots the routine reads. The supervisor starts a
	// sampler for each before the routine runs.
	Metrics []metric.Kind
	New     func(env Env) Routine
}

var factories = map[string]Factory{
	"sparkle": {
		Name:        "sparkle",
		Role:        RoleFiller,
		Description: "random pixels light up, faster under load",
		Metrics:     []metric.Kind{metric.KindLoad},
		New:         func(env Env) Routine { return NewSparkle(env) },
	},
	"rainbow": {
		Name:        "rainbow",
		Role:        RoleFiller,
		Description: "scrolling color field, scroll speed follows load",
		Metrics:     []metric.Kind{metric.KindLoad},
		New:         func(env Env) Routine { return NewRainbow(env) },
	},
	"matrix": {
		Name:        "matrix",
		Role:        RoleFiller,
		Description: "points streak in from the edges, faster under load",
		Metrics:     []metric.Kind{metric.KindLoad},
		New:         func(env Env) Routine { return NewMatrix(env) },
	},
	"internet": {
		Name:        "internet",
		Role:        RoleBar,
		Description: "white while the ping target answers, coral while it does not",
		Metrics:     []metric.Kind{metric.KindConnectivity},
		New:         func(env Env) Routine { return NewConnectivityBar(env) },
	},
	"load": {
		Name:        "load",
		Role:        RoleBar,
		Description: "green to red with the load average per CPU",
		Metrics:     []metric.Kind{metric.KindLoad},
		New:         func(env Env) Routine { return NewLoadBar(env) },
	},
}

// Lookup returns the factory for name, checking it can take the given role.
func Lookup(name string, role Role) (Factory, error) {
	f, ok := factories[name]
	if !ok {
		return Factory{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown %s '%s'", role, name),
			fmt.Sprintf("Available: %v (run 'pixelbar routines')", Names(role)))
	}
	if f.Role != role {
		return Factory{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is a %s, not a %s", name, f.Role, role),
			fmt.Sprintf("Available %ss: %v", role, Names(role)))
	}
	return f, nil
}

// Factories returns every registered routine of the role, sorted by name.
// An empty role returns all of them.
func Factories(role Role) []Factory {
	var out []Factory
	for _, f := range factories {
		if role == "" || f.Role == role {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted names of the role's routines.
func Names(role Role) []string {
	fs := Factories(role)
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}
