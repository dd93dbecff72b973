// Package tireset models tire compound age and the lap-time degradation it
// adds over a stint.
package tireset

import (
	"math"

	"github.com/pkg/errors"
)

// DegrModel selects the functional form used to convert stint age into an
// added lap-time penalty.
type DegrModel string

const (
	Linear      DegrModel = "linear"
	Quadratic   DegrModel = "quadratic"
	Cubic       DegrModel = "cubic"
	Logarithmic DegrModel = "logarithmic"
)

// DegrPars holds the coefficients for one compound's degradation curve.
// Only the coefficients required by DegrModel need to be set; Coeffs not
// required by the selected model are ignored.
type DegrPars struct {
	Model        DegrModel `json:"degr_model"`
	AddColdTires float64   `json:"t_add_coldtires"`
	K0           float64   `json:"k_0"`

	K1Lin float64 `json:"k_1_lin,omitempty"`

	K1Quad float64 `json:"k_1_quad,omitempty"`
	K2Quad float64 `json:"k_2_quad,omitempty"`

	K1Cub float64 `json:"k_1_cub,omitempty"`
	K2Cub float64 `json:"k_2_cub,omitempty"`
	K3Cub float64 `json:"k_3_cub,omitempty"`

	K1Ln float64 `json:"k_1_ln,omitempty"`
	K2Ln float64 `json:"k_2_ln,omitempty"`
}

// Tireset tracks one physical set of tires through its life on the car.
type Tireset struct {
	Compound    string
	AgeTot      int // total age of this set in laps, including its age when fitted
	AgeCurStint int // laps driven since the last pit stop that changed tires
}

// New creates a fresh Tireset of the given compound, age zero.
func New(compound string) Tireset {
	return Tireset{Compound: compound}
}

// DriveLap advances both age counters by one lap.
func (t *Tireset) DriveLap() {
	t.AgeTot++
	t.AgeCurStint++
}

// AddTireset returns the cold-tire penalty added on top of degradation when
// the current stint has not yet completed a lap.
func (t *Tireset) AddTireset(pars DegrPars) float64 {
	if t.AgeCurStint == 0 {
		return pars.AddColdTires
	}
	return 0
}

// CalcDegr returns the lap-time penalty contributed by tire wear at the
// given total tire age, per pars.Model.
func CalcDegr(pars DegrPars, ageTot int) (float64, error) {
	age := float64(ageTot)

	switch pars.Model {
	case Linear:
		return pars.K0 + pars.K1Lin*age, nil
	case Quadratic:
		return pars.K0 + pars.K1Quad*age + pars.K2Quad*age*age, nil
	case Cubic:
		return pars.K0 + pars.K1Cub*age + pars.K2Cub*age*age + pars.K3Cub*age*age*age, nil
	case Logarithmic:
		// k_2_ln shifts the argument so ln stays defined at age 0.
		return pars.K0 + pars.K1Ln*math.Log(age+pars.K2Ln), nil
	default:
		return 0, errors.Errorf("tireset: unknown degradation model %q", pars.Model)
	}
}
