// Package statehandler implements the per-car state machine that spec.md
// §4.3 describes: Racestart -> {NormalZone, OvertakingZone} <-> Pitlane ->
// PitStandstill, driven purely off track position (s_track) each tick.
package statehandler

import (
	"math"

	"github.com/pkg/errors"
)

// State is one node of the per-car finite state machine.
type State int

const (
	Racestart State = iota
	NormalZone
	OvertakingZone
	Pitlane
	PitStandstill
)

func (s State) String() string {
	switch s {
	case Racestart:
		return "Racestart"
	case NormalZone:
		return "NormalZone"
	case OvertakingZone:
		return "OvertakingZone"
	case Pitlane:
		return "Pitlane"
	case PitStandstill:
		return "PitStandstill"
	default:
		return "Unknown"
	}
}

// ZoneInfo identifies the first overtaking-zone boundary after the finish
// line: which zone, and which side of it (0 = zone start, 1 = zone end).
type ZoneInfo struct {
	ZoneIdx int
	Side    int
}

// StateHandler is the per-car FSM plus the track geometry it was built
// against. TrackLength and the zone lists are shared read-only config;
// everything else is this car's mutable state.
type StateHandler struct {
	UseDRS               bool
	Turn1                float64
	DRSMeasurementPoints []float64
	DRSWindow            float64
	OvertakingZones      [][2]float64
	PitZone              [2]float64
	TrackLength          float64

	STrackPrev float64
	STrackCur  float64
	// ActZoneIdx is the overtaking zone that is active next (state
	// NormalZone) or currently (state OvertakingZone). It is meaningless
	// while State is Racestart, Pitlane, or PitStandstill.
	ActZoneIdx int

	// FirstZoneInfo is the first zone boundary (start or end, whichever
	// has the smaller s) on the track after the finish line, the anchor
	// the walk in GetActStateAndZone starts from.
	FirstZoneInfo ZoneInfo

	State State

	TStandstill       float64
	TStandstillTarget float64
	InDRSWindow       bool

	StartAct         bool
	DRSAct           bool
	OvertakingAct    bool
	PitAct           bool
	PitStandstillAct bool
	DuelAct          bool

	ComplLapPrev int
	ComplLapCur  int
}

// New builds a StateHandler at its Racestart default, s_track set to the
// car's grid starting coordinate.
func New(useDRS bool, turn1 float64, drsPoints []float64, drsWindow float64, overtakingZones [][2]float64, pitZone [2]float64, trackLength, sTrackStart float64) *StateHandler {
	sh := &StateHandler{
		UseDRS:               useDRS,
		Turn1:                turn1,
		DRSMeasurementPoints: drsPoints,
		DRSWindow:            drsWindow,
		OvertakingZones:      overtakingZones,
		PitZone:              pitZone,
		TrackLength:          trackLength,
		STrackPrev:           sTrackStart,
		STrackCur:            sTrackStart,
		ActZoneIdx:           0,
		State:                Racestart,
		OvertakingAct:        true,
		StartAct:             true,
	}
	sh.FirstZoneInfo = sh.initFirstZoneInfo()
	return sh
}

// initFirstZoneInfo finds the first overtaking-zone boundary (start or
// end) after the finish line, considering both sides of every zone.
func (sh *StateHandler) initFirstZoneInfo() ZoneInfo {
	var best ZoneInfo
	sMin := math.Inf(1)
	for i, z := range sh.OvertakingZones {
		for j, s := range z {
			if s < sMin {
				sMin = s
				best = ZoneInfo{ZoneIdx: i, Side: j}
			}
		}
	}
	return best
}

// SetSTrack sets s_track_cur, validating it lies in [0, TrackLength).
func (sh *StateHandler) SetSTrack(s float64) error {
	if s < 0 || s >= sh.TrackLength {
		return errors.Errorf("statehandler: s_track %f out of [0, %f) range", s, sh.TrackLength)
	}
	sh.STrackCur = s
	return nil
}

// GetNewLap reports whether the car crossed the finish line going from
// STrackPrev to STrackCur this step (s_cur < s_prev after accounting for
// the step's forward motion).
func (sh *StateHandler) GetNewLap() bool {
	return sh.STrackCur < sh.STrackPrev
}

// GetSTrackPassed returns the distance covered this step, unwrapping a
// finish-line crossing.
func (sh *StateHandler) GetSTrackPassed() float64 {
	if sh.GetNewLap() {
		return sh.TrackLength - sh.STrackPrev + sh.STrackCur
	}
	return sh.STrackCur - sh.STrackPrev
}

// PassedBoundary reports whether the step from STrackPrev to STrackCur
// crossed boundary s, honoring a finish-line wrap in the step itself.
func (sh *StateHandler) PassedBoundary(s float64) bool {
	if !sh.GetNewLap() {
		return sh.STrackPrev < s && s <= sh.STrackCur
	}
	return s > sh.STrackPrev || s <= sh.STrackCur
}

// GetLapFrac returns s_track_cur (or s_track_prev if useCur is false) as a
// fraction of lap distance. Both branches use s + L symmetrically for
// negative s; the original Rust's asymmetric s_cur+s_cur expression for the
// negative branch is not reproduced (see Open Question resolution).
func (sh *StateHandler) GetLapFrac(useCur bool) float64 {
	s := sh.STrackPrev
	if useCur {
		s = sh.STrackCur
	}
	if s < 0 {
		s += sh.TrackLength
	}
	return s / sh.TrackLength
}

// GetComplLap returns the count of fully completed laps, current or
// previous tick.
func (sh *StateHandler) GetComplLap(useCur bool) int {
	if useCur {
		return sh.ComplLapCur
	}
	return sh.ComplLapPrev
}

// GetRaceProg returns completed laps plus s_track_cur as a fraction of the
// track length, the monotonic progress measure used for classification
// ordering. It is negative while a car that started behind the finish line
// has not yet reached it.
func (sh *StateHandler) GetRaceProg() float64 {
	return float64(sh.ComplLapCur) + sh.STrackCur/sh.TrackLength
}

// UpdateRaceProg advances s_track_prev/cur for one tick given the new
// s_track position (computed by the caller from this tick's lap time) and
// updates completed-lap counters on a finish-line crossing.
func (sh *StateHandler) UpdateRaceProg(sTrackNew float64) {
	sh.STrackPrev = sh.STrackCur
	sh.ComplLapPrev = sh.ComplLapCur
	sh.STrackCur = sTrackNew
	if sh.GetNewLap() {
		sh.ComplLapCur++
	}
}

// GetActStateAndZone resolves the state and active overtaking-zone index a
// car re-entering open track (post-start, post-pit) should have, by
// walking zone boundaries starting at FirstZoneInfo until STrackCur is
// found to lie in front of one. It never returns Pitlane: the caller only
// invokes it at moments the car is already known to be outside the pit
// zone.
func (sh *StateHandler) GetActStateAndZone() (State, int) {
	if len(sh.OvertakingZones) == 0 {
		return NormalZone, 0
	}

	zoneIdx, side := sh.FirstZoneInfo.ZoneIdx, sh.FirstZoneInfo.Side
	for {
		if sh.STrackCur < sh.OvertakingZones[zoneIdx][side] {
			break
		}
		side = (side + 1) % 2
		if side == 0 {
			zoneIdx = (zoneIdx + 1) % len(sh.OvertakingZones)
		}
		if zoneIdx == sh.FirstZoneInfo.ZoneIdx && side == sh.FirstZoneInfo.Side {
			break
		}
	}

	if side == 0 {
		return NormalZone, zoneIdx
	}
	return OvertakingZone, zoneIdx
}

// CheckStateTransition runs one tick of the FSM. pitThisLap tells the
// handler whether strategy calls for a pit stop on the lap now starting.
// deltaTFront/deltaTRear are the current temporal gaps to the cars
// immediately ahead/behind on track, lappingFront/lappingRear report
// whether that neighbor is a lap down (or up) rather than a genuine
// on-track rival, safetyCarActive is true under VSC or SC (which forces
// every car back to NormalZone and suppresses new duels/overtakes), and
// curLapLeader/drsAllowedLap gate DRS activation.
func (sh *StateHandler) CheckStateTransition(
	deltaTFront, deltaTRear float64,
	pitThisLap bool,
	lappingFront, lappingRear bool,
	safetyCarActive bool,
	curLapLeader, drsAllowedLap int,
) {
	switch sh.State {
	case Racestart:
		if sh.PassedBoundary(sh.Turn1) {
			sh.StartAct = false
			st, zone := sh.GetActStateAndZone()
			sh.State = st
			sh.ActZoneIdx = zone
			sh.OvertakingAct = false
		}

	case NormalZone:
		if sh.PassedBoundary(sh.DRSMeasurementPoints[sh.ActZoneIdx]) && deltaTFront <= sh.DRSWindow {
			sh.InDRSWindow = true
		}
		if pitThisLap && sh.PassedBoundary(sh.PitZone[0]) {
			sh.State = Pitlane
			sh.PitAct = true
			sh.InDRSWindow = false
		} else if sh.PassedBoundary(sh.OvertakingZones[sh.ActZoneIdx][0]) {
			sh.State = OvertakingZone
			if !safetyCarActive {
				sh.OvertakingAct = true
				if sh.UseDRS && curLapLeader >= drsAllowedLap && sh.InDRSWindow {
					sh.DRSAct = true
				}
				if (deltaTFront <= sh.DRSWindow && !lappingFront) || (deltaTRear <= sh.DRSWindow && !lappingRear) {
					sh.DuelAct = true
				}
			}
			sh.InDRSWindow = false
		}

	case OvertakingZone:
		if pitThisLap && sh.PassedBoundary(sh.PitZone[0]) {
			sh.State = Pitlane
			sh.PitAct = true
			sh.DRSAct = false
			sh.OvertakingAct = false
			sh.DuelAct = false
		} else if sh.PassedBoundary(sh.OvertakingZones[sh.ActZoneIdx][1]) || safetyCarActive {
			sh.State = NormalZone
			sh.ActZoneIdx = (sh.ActZoneIdx + 1) % len(sh.OvertakingZones)
			sh.DRSAct = false
			sh.OvertakingAct = false
			sh.DuelAct = false
		}

	case Pitlane:
		if sh.PassedBoundary(sh.PitZone[1]) {
			sh.PitAct = false
			st, zone := sh.GetActStateAndZone()
			sh.State = st
			sh.ActZoneIdx = zone
		}

	case PitStandstill:
		// Left entirely through ActPitStandstill/CheckLeavesStandstill,
		// driven by the race's tick-splitting pit handling.
	}
}

// ActPitStandstill enters PitStandstill with the given target duration.
// tStandstillAlready seeds the standstill clock with time already spent
// stopped this tick, for a car that reached its pit box partway through
// the tick rather than exactly on a tick boundary. Calling it outside
// Pitlane is a caller bug.
func (sh *StateHandler) ActPitStandstill(tStandstillAlready, target float64) error {
	if sh.State != Pitlane {
		return errors.Errorf("statehandler: ActPitStandstill called from state %s, want Pitlane", sh.State)
	}
	sh.State = PitStandstill
	sh.PitStandstillAct = true
	sh.TStandstill = tStandstillAlready
	sh.TStandstillTarget = target
	return nil
}

// IncrementTStandstill advances the standstill clock by dt.
func (sh *StateHandler) IncrementTStandstill(dt float64) error {
	if sh.State != PitStandstill {
		return errors.Errorf("statehandler: IncrementTStandstill called from state %s, want PitStandstill", sh.State)
	}
	sh.TStandstill += dt
	return nil
}

// CheckLeavesStandstill reports, for a tick of length dt about to be
// applied, whether the car leaves standstill partway through it. It does
// not mutate state: a false return means the car stays in standstill for
// the whole tick; a true return means it leaves after dt-tDriving seconds
// of dt have been spent standing still, with tDriving seconds left to
// actually drive this tick. Calling it outside PitStandstill is a
// caller bug.
func (sh *StateHandler) CheckLeavesStandstill(dt float64) (tDriving float64, leaves bool, err error) {
	if sh.State != PitStandstill {
		return 0, false, errors.Errorf("statehandler: CheckLeavesStandstill called from state %s, want PitStandstill", sh.State)
	}
	if sh.TStandstill+dt < sh.TStandstillTarget {
		return 0, false, nil
	}
	return sh.TStandstill + dt - sh.TStandstillTarget, true, nil
}

// DeactPitStandstill returns the car to Pitlane driving after standstill.
func (sh *StateHandler) DeactPitStandstill() error {
	if sh.State != PitStandstill {
		return errors.Errorf("statehandler: DeactPitStandstill called from state %s, want PitStandstill", sh.State)
	}
	sh.State = Pitlane
	sh.PitStandstillAct = false
	return nil
}
