package metric

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/load"
)

// Probe reads one value from a metric source.
type Probe interface {
	Sample(ctx context.Context) (float64, error)
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) (float64, error)

// Sample calls f.
func (f ProbeFunc) Sample(ctx context.Context) (float64, error) {
	return f(ctx)
}

// LoadProbe reads the 1-minute load average.
type LoadProbe struct{}

// Sample returns the current 1-minute load average.
func (LoadProbe) Sample(ctx context.Context) (float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, categorizeProbeError("loadavg", err)
	}
	if avg.Load1 < 0 {
		return 0, nil
	}
	return avg.Load1, nil
}

// ProbeFailReason says what a failed probe means for the metric.
type ProbeFailReason int

const (
	ProbeFailUnknown ProbeFailReason = iota
	// ProbeFailOffline covers timeouts, unreachable routes and failed
	// lookups. The network is down; the probe itself works.
	ProbeFailOffline
	// ProbeFailPermission means the OS refused the ICMP socket. It will
	// not go away on the next poll.
	ProbeFailPermission
)

func (r ProbeFailReason) String() string {
	switch r {
	case ProbeFailOffline:
		return "offline"
	case ProbeFailPermission:
		return "permission denied"
	default:
		return "unknown error"
	}
}

// failMarkers maps error text fragments to a reason, checked in order.
var failMarkers = []struct {
	reason    ProbeFailReason
	fragments []string
}{
	{ProbeFailPermission, []string{"operation not permitted", "permission denied"}},
	{ProbeFailOffline, []string{"timeout", "no route to host", "network is unreachable", "host is down", "no such host", "server misbehaving"}},
}

// ProbeError is a failed sample with its reason.
type ProbeError struct {
	Target string
	Reason ProbeFailReason
	Cause  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s probe: %s (%v)", e.Target, e.Reason, e.Cause)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

func categorizeProbeError(target string, err error) *ProbeError {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, m := range failMarkers {
		for _, f := range m.fragments {
			if strings.Contains(msg, f) {
				return &ProbeError{Target: target, Reason: m.reason, Cause: err}
			}
		}
	}
	return &ProbeError{Target: target, Cause: err}
}
