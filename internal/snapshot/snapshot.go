// Package snapshot is the GUI-facing view of a race tick: a flat, renderer
// friendly summary pushed at most MaxUpdateFrequency times per second,
// independent of the engine's internal Race/Car types.
package snapshot

import (
	"fmt"

	"github.com/pkg/errors"
)

// MaxUpdateFrequency is the snapshot stream's rate ceiling, matching the
// original gui_interface.rs's MAX_GUI_UPDATE_FREQUENCY.
const MaxUpdateFrequency = 20.0

// RGBColor is a renderer-friendly 8-bit color.
type RGBColor struct {
	R, G, B uint8
}

// ParseHexColor parses a "#rrggbb" string into an RGBColor.
func ParseHexColor(s string) (RGBColor, error) {
	var c RGBColor
	if len(s) != 7 || s[0] != '#' {
		return c, errors.Errorf("snapshot: invalid color %q, want #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, errors.Wrapf(err, "snapshot: parsing color %q", s)
	}
	return c, nil
}

// CarState is one car's renderer-facing state for a single tick.
type CarState struct {
	CarNo          int
	DriverInitials string
	Color          RGBColor
	RaceProg       float64 // completed laps + lap fraction
}

// RaceState is the full per-tick snapshot broadcast to subscribers.
type RaceState struct {
	FlagState string
	CarStates []CarState
}

// Sink is anything a Race can push per-tick snapshots to. Implementations
// (e.g. the gRPC server in internal/server) must not block the simulation
// loop: a full buffer should drop the snapshot rather than stall the tick.
type Sink interface {
	Publish(RaceState)
}

// Throttle wraps a Sink so it only forwards at most MaxUpdateFrequency
// snapshots per simulated second, tracked against the race's own clock so
// it stays deterministic across real-time and batch runs.
type Throttle struct {
	Sink
	minInterval  float64
	lastSentTime float64
	started      bool
}

// NewThrottle wraps sink at MaxUpdateFrequency.
func NewThrottle(sink Sink) *Throttle {
	return &Throttle{Sink: sink, minInterval: 1.0 / MaxUpdateFrequency}
}

// PublishAt forwards state to the wrapped Sink if at least minInterval
// simulated seconds have passed since the last forwarded snapshot.
func (t *Throttle) PublishAt(racetime float64, state RaceState) {
	if t.started && racetime-t.lastSentTime < t.minInterval {
		return
	}
	t.started = true
	t.lastSentTime = racetime
	t.Sink.Publish(state)
}
