// Package track models the closed-loop centerline, its DRS/overtaking/pit
// zones, and the derived quantities the race engine needs every tick.
package track

import "github.com/pkg/errors"

// Pars is the JSON-serializable track description.
type Pars struct {
	Name              string       `json:"name"`
	Length            float64      `json:"length"`
	PitZone           [2]float64   `json:"pit_zone"`
	PitsAftFinishline bool         `json:"pits_aft_finishline"`
	PitSpeedlimit     float64      `json:"pit_speedlimit"`
	RealLengthPitZone float64      `json:"real_length_pit_zone"`
	Turn1             float64      `json:"turn_1"`
	DRSMeasurementPoints []float64 `json:"drs_measurement_points"`
	DRSWindow         float64      `json:"drs_window"`
	OvertakingZones   [][2]float64 `json:"overtaking_zones"`
	DFirstGridpos     float64      `json:"d_first_gridpos"`
	DPerGridpos       float64      `json:"d_per_gridpos"`
	SMass             float64      `json:"s_mass"`
	TDRSEffect        float64      `json:"t_drseffect"`
	TLossFirstlap     float64      `json:"t_loss_firstlap"`
}

// Track is Pars plus quantities derived once at construction time.
type Track struct {
	Pars Pars

	// LengthPitZone is the pit zone's driven length, accounting for
	// wraparound across the finish line.
	LengthPitZone float64
	// OvertakingZonesLapFrac is the sum of overtaking-zone lengths divided
	// by track length.
	OvertakingZonesLapFrac float64
	// Turn1LapFrac is the distance from the first grid position to turn 1,
	// expressed as a lap fraction.
	Turn1LapFrac float64
}

// New validates pars and builds the derived Track.
func New(pars Pars) (*Track, error) {
	if pars.Length <= 0 {
		return nil, errors.New("track: length must be positive")
	}
	if pars.PitZone[0] < 0 || pars.PitZone[0] >= pars.Length ||
		pars.PitZone[1] < 0 || pars.PitZone[1] >= pars.Length {
		return nil, errors.New("track: pit_zone out of [0, length) range")
	}
	for _, z := range pars.OvertakingZones {
		if z[0] < 0 || z[0] >= pars.Length || z[1] < 0 || z[1] >= pars.Length {
			return nil, errors.New("track: overtaking zone out of [0, length) range")
		}
	}

	t := &Track{Pars: pars}
	t.LengthPitZone = zoneLength(pars.PitZone, pars.Length)

	var sum float64
	for _, z := range pars.OvertakingZones {
		sum += zoneLength(z, pars.Length)
	}
	t.OvertakingZonesLapFrac = sum / pars.Length

	t.Turn1LapFrac = (pars.Turn1 - pars.DFirstGridpos) / pars.Length

	return t, nil
}

// zoneLength returns a zone's driven length, handling the case where the
// zone end wraps across the finish line (end < start).
func zoneLength(zone [2]float64, trackLength float64) float64 {
	if zone[1] >= zone[0] {
		return zone[1] - zone[0]
	}
	return trackLength - zone[0] + zone[1]
}

// InZone reports whether s (in [0, length)) lies within zone, honoring
// finish-line wraparound.
func InZone(s float64, zone [2]float64) bool {
	if zone[1] >= zone[0] {
		return s >= zone[0] && s < zone[1]
	}
	return s >= zone[0] || s < zone[1]
}

// PitDriveTimeLoss estimates the time lost driving through the pit lane at
// the speed limit without stopping, relative to the theoretical racing lap
// time tTheoretical. Debug-only diagnostic, not used by simulate_timestep.
// RealLengthPitZone (the pit lane's actual physical length, which can differ
// from the main straight it runs alongside) and LengthPitZone (that zone's
// projection onto the track's s coordinate) are deliberately distinct
// quantities here, matching real_length_pit_zone vs. track_length_pit_zone.
func (t *Track) PitDriveTimeLoss(tTheoretical float64) float64 {
	if t.Pars.PitSpeedlimit <= 0 {
		return 0
	}
	pitZoneLapFrac := t.LengthPitZone / t.Pars.Length
	return t.Pars.RealLengthPitZone/t.Pars.PitSpeedlimit - tTheoretical*1.04*pitZoneLapFrac
}
