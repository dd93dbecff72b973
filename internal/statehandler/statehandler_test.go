package statehandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *StateHandler {
	return New(true, 120, []float64{50, 110}, 1.0,
		[][2]float64{{150, 300}, {900, 50}}, // second zone wraps
		[2]float64{950, 40}, 1000, 0)
}

func TestRacestartTransitionsAtTurn1(t *testing.T) {
	sh := newTestHandler()
	assert.Equal(t, Racestart, sh.State)
	assert.True(t, sh.StartAct)

	sh.STrackPrev = 100
	sh.STrackCur = 130
	sh.CheckStateTransition(100, 100, false, false, false, false, 0, 0)

	assert.False(t, sh.StartAct)
	assert.Equal(t, NormalZone, sh.State)
	assert.False(t, sh.OvertakingAct)
}

func TestEntersOvertakingZone(t *testing.T) {
	sh := newTestHandler()
	sh.State = NormalZone
	sh.ActZoneIdx = 0
	sh.STrackPrev = 140
	sh.STrackCur = 160
	sh.CheckStateTransition(100, 100, false, false, false, false, 0, 0)
	assert.Equal(t, OvertakingZone, sh.State)
	assert.True(t, sh.OvertakingAct)
	assert.Equal(t, 0, sh.ActZoneIdx)
}

func TestDRSActivatesWhenInWindowAndAllowed(t *testing.T) {
	sh := newTestHandler()
	sh.UseDRS = true
	sh.State = NormalZone
	sh.ActZoneIdx = 0

	// pass the DRS measurement point (50) within the window, then the zone
	// boundary (150) on a later tick.
	sh.STrackPrev = 40
	sh.STrackCur = 60
	sh.CheckStateTransition(0.5, 100, false, false, false, false, 2, 1)
	assert.True(t, sh.InDRSWindow)

	sh.STrackPrev = 140
	sh.STrackCur = 160
	sh.CheckStateTransition(100, 100, false, false, false, false, 2, 1)
	assert.Equal(t, OvertakingZone, sh.State)
	assert.True(t, sh.DRSAct)
}

func TestDRSDoesNotActivateBeforeAllowedLap(t *testing.T) {
	sh := newTestHandler()
	sh.UseDRS = true
	sh.State = NormalZone
	sh.ActZoneIdx = 0

	sh.STrackPrev = 40
	sh.STrackCur = 60
	sh.CheckStateTransition(0.5, 100, false, false, false, false, 0, 3)
	sh.STrackPrev = 140
	sh.STrackCur = 160
	sh.CheckStateTransition(100, 100, false, false, false, false, 0, 3)
	assert.False(t, sh.DRSAct)
}

func TestDuelActivatesOnCloseNeighborNotLapping(t *testing.T) {
	sh := newTestHandler()
	sh.State = NormalZone
	sh.ActZoneIdx = 0
	sh.STrackPrev = 140
	sh.STrackCur = 160
	sh.CheckStateTransition(0.3, 100, false, false, false, false, 0, 0)
	assert.True(t, sh.DuelAct)
}

func TestDuelSuppressedWhenNeighborIsBeingLapped(t *testing.T) {
	sh := newTestHandler()
	sh.State = NormalZone
	sh.ActZoneIdx = 0
	sh.STrackPrev = 140
	sh.STrackCur = 160
	sh.CheckStateTransition(0.3, 100, false, true, false, false, 0, 0)
	assert.False(t, sh.DuelAct)
}

func TestSafetyCarSuppressesOvertakingAndForcesNormalZone(t *testing.T) {
	sh := newTestHandler()
	sh.State = OvertakingZone
	sh.ActZoneIdx = 0
	sh.OvertakingAct = true
	sh.STrackPrev = 151
	sh.STrackCur = 152
	sh.CheckStateTransition(100, 100, false, false, false, true, 0, 0)
	assert.Equal(t, NormalZone, sh.State)
	assert.False(t, sh.OvertakingAct)
}

func TestSafetyCarSuppressesFlagsOnEnteringOvertakingZone(t *testing.T) {
	sh := newTestHandler()
	sh.State = NormalZone
	sh.ActZoneIdx = 0
	sh.STrackPrev = 140
	sh.STrackCur = 160
	sh.CheckStateTransition(0.3, 0.3, false, false, false, true, 0, 0)
	assert.Equal(t, OvertakingZone, sh.State)
	assert.False(t, sh.OvertakingAct)
	assert.False(t, sh.DuelAct)
	assert.False(t, sh.DRSAct)
}

func TestPitStandstillLifecycle(t *testing.T) {
	sh := newTestHandler()
	sh.State = Pitlane

	require.NoError(t, sh.ActPitStandstill(0, 20.0))
	assert.Equal(t, PitStandstill, sh.State)

	_, leaves, err := sh.CheckLeavesStandstill(5.0)
	require.NoError(t, err)
	assert.False(t, leaves)

	require.NoError(t, sh.IncrementTStandstill(25.0))
	tDriving, leaves, err := sh.CheckLeavesStandstill(1.0)
	require.NoError(t, err)
	assert.True(t, leaves)
	assert.InDelta(t, 6.0, tDriving, 1e-9)

	require.NoError(t, sh.DeactPitStandstill())
	assert.Equal(t, Pitlane, sh.State)
}

func TestActPitStandstillWrongStateErrors(t *testing.T) {
	sh := newTestHandler()
	err := sh.ActPitStandstill(0, 10.0)
	require.Error(t, err)
}

func TestCheckLeavesStandstillWrongStateErrors(t *testing.T) {
	sh := newTestHandler()
	_, _, err := sh.CheckLeavesStandstill(1.0)
	require.Error(t, err)
}

func TestGetLapFracSymmetricForNegativeS(t *testing.T) {
	sh := newTestHandler()
	sh.STrackCur = -10
	sh.TrackLength = 1000
	assert.InDelta(t, 990.0/1000.0, sh.GetLapFrac(true), 1e-9)
}

func TestGetSTrackPassedHandlesWrap(t *testing.T) {
	sh := newTestHandler()
	sh.STrackPrev = 990
	sh.STrackCur = 10
	assert.InDelta(t, 20.0, sh.GetSTrackPassed(), 1e-9)
	assert.True(t, sh.GetNewLap())
}
