// Package driver models the human (or AI) driver assigned to a car: base
// pace, and per-compound degradation parameters.
package driver

import (
	"github.com/pkg/errors"

	"racesim/internal/tireset"
)

// Pars is the JSON-serializable description of one driver, as loaded from a
// parameter file.
type Pars struct {
	Initials string                        `json:"initials"`
	Name     string                        `json:"name"`
	TDriver  float64                       `json:"t_driver"`
	VelMax   float64                       `json:"vel_max"`
	DegrPars map[string]tireset.DegrPars    `json:"degr_pars_all"`
	// TTeamorder carries a signed time delta ("team order") from the
	// original parameter format. No operation in this simulator reads it;
	// it is kept only so existing parameter files still decode cleanly.
	TTeamorder float64 `json:"t_teamorder,omitempty"`
}

// Driver is the runtime handle wrapping Pars with lookup helpers.
type Driver struct {
	Pars Pars
}

// New wraps driver parameters for use by a Car.
func New(pars Pars) *Driver {
	return &Driver{Pars: pars}
}

// DegrParsFor returns the degradation parameters for compound, erroring if
// the driver has no entry for it (a driver's race engineer must have
// modeled every compound strategy touches).
func (d *Driver) DegrParsFor(compound string) (tireset.DegrPars, error) {
	p, ok := d.Pars.DegrPars[compound]
	if !ok {
		return tireset.DegrPars{}, errors.Errorf("driver %s: no degradation parameters for compound %q", d.Pars.Initials, compound)
	}
	return p, nil
}
