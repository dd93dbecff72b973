package car

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racesim/internal/driver"
	"racesim/internal/statehandler"
	"racesim/internal/tireset"
)

func newTestCar(t *testing.T) *Car {
	t.Helper()
	refuel := 0.25
	drv := driver.New(driver.Pars{
		Initials: "ABC",
		TDriver:  0.1,
		DegrPars: map[string]tireset.DegrPars{
			"soft": {Model: tireset.Linear, K0: 1, K1Lin: 0.05},
		},
	})
	sh := statehandler.New(false, 100, []float64{0, 0}, 1, nil, [2]float64{900, 950}, 1000, 0)
	pars := Pars{
		CarNo:           1,
		TCar:            0.5,
		MFuel:           100,
		BFuelPerLap:     1.8,
		TPitTirechange:  2.5,
		TPitRefuelPerKg: &refuel,
		PitLocation:     920,
		Strategy: []StrategyEntry{
			{Inlap: 0, Compound: "soft"},
			{Inlap: 20, Compound: "medium", RefuelMass: 40},
		},
	}
	c, err := New(pars, drv, sh)
	require.NoError(t, err)
	return c
}

func TestCalcBasicTimeloss(t *testing.T) {
	c := newTestCar(t)
	degr, err := c.Driver.DegrParsFor("soft")
	require.NoError(t, err)
	loss := c.CalcBasicTimeloss(degr, 0.03)
	assert.Greater(t, loss, 0.0)
}

func TestDriveLapClampsFuelAtZero(t *testing.T) {
	c := newTestCar(t)
	c.mFuelCur = 1.0
	c.DriveLap()
	assert.Equal(t, 0.0, c.FuelRemaining())
}

func TestPitThisLapAndStrategyLookup(t *testing.T) {
	c := newTestCar(t)
	assert.True(t, c.PitThisLap(20))
	assert.False(t, c.PitThisLap(5))

	entry, err := c.GetStrategyEntry(20)
	require.NoError(t, err)
	assert.Equal(t, "medium", entry.Compound)
}

func TestPerformPitstopSwapsTiresAndRefuels(t *testing.T) {
	c := newTestCar(t)
	c.mFuelCur = 5
	entry, err := c.GetStrategyEntry(20)
	require.NoError(t, err)
	require.NoError(t, c.PerformPitstop(entry, nil))
	assert.Equal(t, "medium", c.Tireset.Compound)
	assert.Equal(t, 45.0, c.mFuelCur)
}

func TestPerformPitstopSwitchesDriver(t *testing.T) {
	c := newTestCar(t)
	c.Pars.Strategy = append(c.Pars.Strategy, StrategyEntry{Inlap: 30, DriverInitials: "XYZ"})
	entry, err := c.GetStrategyEntry(30)
	require.NoError(t, err)

	replacement := driver.New(driver.Pars{Initials: "XYZ", TDriver: 0.2})
	require.NoError(t, c.PerformPitstop(entry, map[string]*driver.Driver{"XYZ": replacement}))
	assert.Same(t, replacement, c.Driver)
}

func TestPerformPitstopErrorsOnUnknownDriver(t *testing.T) {
	c := newTestCar(t)
	c.Pars.Strategy = append(c.Pars.Strategy, StrategyEntry{Inlap: 30, DriverInitials: "ZZZ"})
	entry, err := c.GetStrategyEntry(30)
	require.NoError(t, err)

	require.Error(t, c.PerformPitstop(entry, map[string]*driver.Driver{}))
}

func TestTAddPitStandstillRequiresRefuelRateConfigured(t *testing.T) {
	c := newTestCar(t)
	c.Pars.TPitRefuelPerKg = nil
	entry, err := c.GetStrategyEntry(20)
	require.NoError(t, err)
	_, err = c.TAddPitStandstill(entry)
	require.Error(t, err)
}
