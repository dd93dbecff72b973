// Package car ties a driver, tireset, and state machine together into one
// simulated competitor, and carries the per-car static race parameters
// (mass, pit-stop costs, strategy) loaded from a parameter file.
package car

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"racesim/internal/driver"
	"racesim/internal/statehandler"
	"racesim/internal/tireset"
)

// StrategyEntry is one planned pit stop: which lap it happens on, what the
// car switches to, and (optionally) who takes over driving.
type StrategyEntry struct {
	Inlap          int     `json:"inlap"`
	TireStartAge   int     `json:"tire_start_age"`
	Compound       string  `json:"compound"`
	RefuelMass     float64 `json:"refuel_mass"`
	DriverInitials string  `json:"driver_initials,omitempty"`
}

// Pars is the JSON-serializable per-car race configuration.
type Pars struct {
	CarNo            int              `json:"car_no"`
	Team             string           `json:"team"`
	Manufacturer     string           `json:"manufacturer"`
	Color            string           `json:"color"`
	DriverInitials   string           `json:"driver_initials"`
	TCar             float64          `json:"t_car"`
	MFuel            float64          `json:"m_fuel"`
	BFuelPerLap      float64          `json:"b_fuel_per_lap"`
	TPitRefuelPerKg  *float64         `json:"t_pit_refuel_per_kg,omitempty"`
	TPitTirechange   float64          `json:"t_pit_tirechange"`
	TPitDriverchange *float64         `json:"t_pit_driverchange,omitempty"`
	PitLocation      float64          `json:"pit_location"`
	Strategy         []StrategyEntry  `json:"strategy"`
	PGrid            int              `json:"p_grid"`
}

// Car is one simulated competitor.
type Car struct {
	Pars    Pars
	Driver  *driver.Driver
	SH      *statehandler.StateHandler
	Tireset tireset.Tireset

	mFuelCur float64
}

// New builds a Car at its grid slot, fuel load, and starting tireset.
func New(pars Pars, drv *driver.Driver, sh *statehandler.StateHandler) (*Car, error) {
	if len(pars.Strategy) == 0 {
		return nil, errors.Errorf("car %d: strategy must have at least one entry", pars.CarNo)
	}
	return &Car{
		Pars:     pars,
		Driver:   drv,
		SH:       sh,
		Tireset:  tireset.New(pars.Strategy[0].Compound),
		mFuelCur: pars.MFuel,
	}, nil
}

// CalcBasicTimeloss returns the car's base per-lap time loss before
// degradation: fixed car loss, driver loss, cold-tire loss, and the
// fuel-mass penalty for the fuel currently carried. sMass is the track's
// lap time mass sensitivity (s per kg), since the same car carries
// different time losses on different circuits.
func (c *Car) CalcBasicTimeloss(degr tireset.DegrPars, sMass float64) float64 {
	return c.Pars.TCar + c.Driver.Pars.TDriver + c.Tireset.AddTireset(degr) + c.mFuelCur*sMass
}

// DriveLap burns one lap's fuel (clamped at zero, with a warning on
// underflow since that indicates a strategy/parameter mismatch) and ages
// the tireset.
func (c *Car) DriveLap() {
	c.mFuelCur -= c.Pars.BFuelPerLap
	if c.mFuelCur < 0 {
		log.Warn().Int("car_no", c.Pars.CarNo).Float64("deficit", -c.mFuelCur).
			Msg("fuel went negative, clamping to zero")
		c.mFuelCur = 0
	}
	c.Tireset.DriveLap()
}

// FuelRemaining returns the fuel mass currently carried.
func (c *Car) FuelRemaining() float64 {
	return c.mFuelCur
}

// PitThisLap reports whether the strategy schedules a pit stop on the
// given (1-indexed) lap.
func (c *Car) PitThisLap(lap int) bool {
	for _, e := range c.Pars.Strategy {
		if e.Inlap == lap {
			return true
		}
	}
	return false
}

// GetStrategyEntry returns the strategy entry for the given inlap.
func (c *Car) GetStrategyEntry(lap int) (StrategyEntry, error) {
	for _, e := range c.Pars.Strategy {
		if e.Inlap == lap {
			return e, nil
		}
	}
	return StrategyEntry{}, errors.Errorf("car %d: no strategy entry for inlap %d", c.Pars.CarNo, lap)
}

// PerformPitstop applies a strategy entry's tire change, refuel, and driver
// change (whichever of the three the entry requests). driversByInitials is
// the full roster of configured drivers, not just those starting the race,
// since a pit stop can hand the car to a driver who wasn't in any car at
// the green flag.
func (c *Car) PerformPitstop(entry StrategyEntry, driversByInitials map[string]*driver.Driver) error {
	if entry.Compound != "" {
		c.Tireset = tireset.New(entry.Compound)
		c.Tireset.AgeTot = entry.TireStartAge
	}
	if entry.RefuelMass > 0 {
		c.mFuelCur += entry.RefuelMass
	}
	if entry.DriverInitials != "" {
		drv, ok := driversByInitials[entry.DriverInitials]
		if !ok {
			return errors.Errorf("car %d: no driver parameters for %q", c.Pars.CarNo, entry.DriverInitials)
		}
		c.Driver = drv
	}
	return nil
}

// TAddPitStandstill returns the standstill duration for the pit stop
// described by entry, the maximum of whichever services the strategy entry
// requests: tire change, refueling, or driver change.
func (c *Car) TAddPitStandstill(entry StrategyEntry) (float64, error) {
	var t float64
	if entry.Compound != "" {
		t = c.Pars.TPitTirechange
	}

	if entry.RefuelMass > 0 {
		if c.Pars.TPitRefuelPerKg == nil {
			return 0, errors.Errorf("car %d: refuel requested but t_pit_refuel_per_kg not configured", c.Pars.CarNo)
		}
		if refuel := entry.RefuelMass * *c.Pars.TPitRefuelPerKg; refuel > t {
			t = refuel
		}
	}

	if entry.DriverInitials != "" {
		if c.Pars.TPitDriverchange == nil {
			return 0, errors.Errorf("car %d: driver change requested but t_pit_driverchange not configured", c.Pars.CarNo)
		}
		if *c.Pars.TPitDriverchange > t {
			t = *c.Pars.TPitDriverchange
		}
	}

	return t, nil
}
