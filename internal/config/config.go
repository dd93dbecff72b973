// Package config loads and validates the JSON parameter file a race is
// built from (race/track/driver/car parameters), mirroring the original's
// read_sim_pars.rs / check_sim_opts_pars.rs, and wires the result into a
// runnable race.Race.
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"racesim/internal/car"
	"racesim/internal/driver"
	"racesim/internal/race"
	"racesim/internal/statehandler"
	"racesim/internal/track"
)

// SimPars is the top-level parameter file shape.
type SimPars struct {
	RacePars      race.Pars            `json:"race_pars"`
	TrackPars     track.Pars           `json:"track_pars"`
	DriverParsAll map[string]driver.Pars `json:"driver_pars_all"`
	CarParsAll    []car.Pars           `json:"car_pars_all"`
}

// Load reads and decodes a SimPars JSON file, then validates it.
func Load(path string) (*SimPars, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", path)
	}
	defer f.Close()

	var pars SimPars
	if err := json.NewDecoder(f).Decode(&pars); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}

	if err := Validate(&pars); err != nil {
		return nil, errors.Wrapf(err, "config: invalid parameter file %s", path)
	}

	return &pars, nil
}

// Validate checks range and consistency constraints the original's
// check_sim_opts_pars enforced: timestep range, per-car strategy shape,
// and driver references.
func Validate(pars *SimPars) error {
	if pars.RacePars.TimestepSize < 0.001 || pars.RacePars.TimestepSize > 1.0 {
		return errors.Errorf("timestep_size %f out of [0.001, 1.0]", pars.RacePars.TimestepSize)
	}
	if pars.RacePars.TotNoLaps <= 0 {
		return errors.New("tot_no_laps must be positive")
	}
	if len(pars.CarParsAll) == 0 {
		return errors.New("car_pars_all must not be empty")
	}

	for _, cp := range pars.CarParsAll {
		if len(cp.Strategy) == 0 {
			return errors.Errorf("car %d: strategy must have at least one entry", cp.CarNo)
		}
		if cp.Strategy[0].Inlap != 0 {
			return errors.Errorf("car %d: strategy[0] must start at inlap 0", cp.CarNo)
		}
		prevInlap := -1
		for _, e := range cp.Strategy {
			if e.Inlap <= prevInlap {
				return errors.Errorf("car %d: strategy inlaps must be strictly increasing", cp.CarNo)
			}
			prevInlap = e.Inlap
		}
		if _, ok := pars.DriverParsAll[cp.DriverInitials]; !ok {
			return errors.Errorf("car %d: no driver parameters for %q", cp.CarNo, cp.DriverInitials)
		}
	}

	return nil
}

// BuildRace constructs a runnable race.Race from validated parameters.
func BuildRace(pars *SimPars) (*race.Race, error) {
	trk, err := track.New(pars.TrackPars)
	if err != nil {
		return nil, err
	}

	// driversByInitials covers the full roster, not just drivers starting a
	// car, since a pit stop can hand a car to a driver who wasn't in any car
	// at the green flag.
	driversByInitials := make(map[string]*driver.Driver, len(pars.DriverParsAll))
	for initials, drvPars := range pars.DriverParsAll {
		driversByInitials[initials] = driver.New(drvPars)
	}

	cars := make([]*car.Car, len(pars.CarParsAll))
	for i, cp := range pars.CarParsAll {
		drv, ok := driversByInitials[cp.DriverInitials]
		if !ok {
			return nil, errors.Errorf("car %d: no driver parameters for %q", cp.CarNo, cp.DriverInitials)
		}

		sTrackStart := trk.Pars.DFirstGridpos + float64(cp.PGrid-1)*trk.Pars.DPerGridpos
		sh := statehandler.New(
			pars.RacePars.UseDRS,
			trk.Pars.Turn1,
			trk.Pars.DRSMeasurementPoints,
			trk.Pars.DRSWindow,
			trk.Pars.OvertakingZones,
			trk.Pars.PitZone,
			trk.Pars.Length,
			sTrackStart,
		)

		c, err := car.New(cp, drv, sh)
		if err != nil {
			return nil, err
		}
		cars[i] = c
	}

	return race.New(pars.RacePars, trk, cars, driversByInitials)
}
