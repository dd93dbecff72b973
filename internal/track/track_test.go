package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basePars() Pars {
	return Pars{
		Name:              "test",
		Length:            1000,
		PitZone:           [2]float64{950, 50}, // wraps across finish line
		PitSpeedlimit:     16.7,
		RealLengthPitZone: 120, // physical pit lane longer than its track-s projection
		Turn1:             120,
		DFirstGridpos:     20,
		OvertakingZones: [][2]float64{
			{100, 300},
			{900, 100}, // wraps
		},
	}
}

func TestNewDerivesWrappingLengths(t *testing.T) {
	tr, err := New(basePars())
	require.NoError(t, err)
	assert.Equal(t, 100.0, tr.LengthPitZone) // 1000-950+50
	assert.InDelta(t, (200.0+200.0)/1000.0, tr.OvertakingZonesLapFrac, 1e-9)
	assert.InDelta(t, (120.0-20.0)/1000.0, tr.Turn1LapFrac, 1e-9)
}

func TestNewRejectsOutOfRangeZone(t *testing.T) {
	p := basePars()
	p.PitZone = [2]float64{-1, 50}
	_, err := New(p)
	require.Error(t, err)
}

func TestInZoneHandlesWraparound(t *testing.T) {
	zone := [2]float64{950, 50}
	assert.True(t, InZone(980, zone))
	assert.True(t, InZone(10, zone))
	assert.False(t, InZone(500, zone))
}

func TestPitDriveTimeLoss(t *testing.T) {
	tr, err := New(basePars())
	require.NoError(t, err)
	// real_length_pit_zone/pit_speedlimit - t_theoretical*1.04*(track_length_pit_zone/length)
	want := 120.0/16.7 - 90.0*1.04*(100.0/1000.0)
	assert.InDelta(t, want, tr.PitDriveTimeLoss(90.0), 1e-9)
}
