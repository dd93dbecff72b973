package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	received []RaceState
}

func (r *recordingSink) Publish(s RaceState) {
	r.received = append(r.received, s)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, RGBColor{R: 0xff, G: 0x80, B: 0x00}, c)
}

func TestParseHexColorRejectsBadInput(t *testing.T) {
	_, err := ParseHexColor("red")
	require.Error(t, err)
}

func TestThrottleDropsSnapshotsFasterThanMaxRate(t *testing.T) {
	sink := &recordingSink{}
	th := NewThrottle(sink)

	th.PublishAt(0.0, RaceState{})
	th.PublishAt(0.01, RaceState{}) // too soon, dropped
	th.PublishAt(0.06, RaceState{}) // > 1/20s later, forwarded

	assert.Len(t, sink.received, 2)
}
