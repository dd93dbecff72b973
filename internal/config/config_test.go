package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racesim/internal/car"
	"racesim/internal/driver"
	"racesim/internal/race"
	"racesim/internal/tireset"
	"racesim/internal/track"
)

func samplePars() SimPars {
	return SimPars{
		RacePars: race.Pars{
			TotNoLaps:    2,
			TimestepSize: 0.2,
			TQ:           80,
			TGapRacepace: 5,
			MinTDist:     0.02,
		},
		TrackPars: track.Pars{
			Length:        4000,
			PitZone:       [2]float64{3900, 100},
			Turn1:         150,
			DFirstGridpos: 10,
			DPerGridpos:   8,
			OvertakingZones: [][2]float64{{500, 800}},
		},
		DriverParsAll: map[string]driver.Pars{
			"ABC": {
				Initials: "ABC",
				TDriver:  0.1,
				DegrPars: map[string]tireset.DegrPars{
					"soft": {Model: tireset.Linear, K0: 0, K1Lin: 0.02},
				},
			},
		},
		CarParsAll: []car.Pars{
			{
				CarNo:          1,
				DriverInitials: "ABC",
				TCar:           0.3,
				MFuel:          100,
				BFuelPerLap:    1.5,
				TPitTirechange: 2.5,
				PitLocation:    3950,
				PGrid:          1,
				Strategy:       []car.StrategyEntry{{Inlap: 0, Compound: "soft"}},
			},
		},
	}
}

func TestValidateAcceptsWellFormedPars(t *testing.T) {
	pars := samplePars()
	assert.NoError(t, Validate(&pars))
}

func TestValidateRejectsBadTimestep(t *testing.T) {
	pars := samplePars()
	pars.RacePars.TimestepSize = 5
	assert.Error(t, Validate(&pars))
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	pars := samplePars()
	pars.CarParsAll[0].DriverInitials = "ZZZ"
	assert.Error(t, Validate(&pars))
}

func TestValidateRejectsNonIncreasingInlaps(t *testing.T) {
	pars := samplePars()
	pars.CarParsAll[0].Strategy = []car.StrategyEntry{
		{Inlap: 0, Compound: "soft"},
		{Inlap: 0, Compound: "medium"},
	}
	assert.Error(t, Validate(&pars))
}

func TestLoadRoundTripsFromDisk(t *testing.T) {
	pars := samplePars()
	data, err := json.Marshal(pars)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pars.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pars.RacePars.TotNoLaps, loaded.RacePars.TotNoLaps)
}

func TestBuildRaceProducesRunnableRace(t *testing.T) {
	pars := samplePars()
	r, err := BuildRace(&pars)
	require.NoError(t, err)
	require.NoError(t, r.SimulateTimestep())
}
