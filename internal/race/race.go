// Package race implements the fixed-timestep simulation loop: per-tick
// progress advance, pit-standstill handling, lap transitions, and state
// transitions, in the exact order spec.md §4.4 requires.
package race

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"racesim/internal/car"
	"racesim/internal/driver"
	"racesim/internal/snapshot"
	"racesim/internal/tireset"
	"racesim/internal/track"
)

// FlagState is the race-control flag in effect, each carrying a minimum
// lap-time multiplier applied uniformly to every car.
type FlagState int

const (
	Green FlagState = iota
	Yellow
	VSC
	SC
	Chequered
)

func (f FlagState) String() string {
	switch f {
	case Yellow:
		return "Yellow"
	case VSC:
		return "VSC"
	case SC:
		return "SC"
	case Chequered:
		return "Chequered"
	default:
		return "Green"
	}
}

// minLaptimeMultiplier returns the flag's minimum pace multiplier, 0
// meaning "no floor" (Green, Chequered).
func (f FlagState) minLaptimeMultiplier() float64 {
	switch f {
	case Yellow:
		return 1.1
	case VSC, SC:
		return 1.4
	default:
		return 0
	}
}

// Pars is the JSON-serializable race-wide configuration.
type Pars struct {
	Season         string  `json:"season"`
	TotNoLaps      int     `json:"tot_no_laps"`
	DRSAllowedLap  int     `json:"drs_allowed_lap"`
	MinTDist       float64 `json:"min_t_dist"`
	TDuel          float64 `json:"t_duel"`
	TOvertakeLoser float64 `json:"t_overtake_loser"`
	DRSWindow      float64 `json:"drs_window"`
	UseDRS         bool    `json:"use_drs"`
	TQ             float64 `json:"t_q"`
	TGapRacepace   float64 `json:"t_gap_racepace"`
	TimestepSize   float64 `json:"timestep_size"`
}

// Race owns every car and advances them tick by tick.
type Race struct {
	Pars  Pars
	Track *track.Track
	Cars  []*car.Car

	// DriversByInitials is the full driver roster, not just those in Cars
	// at the green flag, since a pit stop can hand a car to a driver who
	// wasn't driving anything at race start.
	DriversByInitials map[string]*driver.Driver

	CurRacetime  float64
	CurLapLeader int
	FlagState    FlagState

	RaceFinished []bool
	Laptimes     [][]float64 // [car][lap]
	Racetimes    [][]float64 // [car][lap]
	CurLaptimes  []float64
	CurThLaptime []float64

	// lapStartRacetime is race time at the start of each car's
	// currently-running lap, so a finished lap's duration is simply the
	// delta to CurRacetime regardless of how many ticks it spanned.
	lapStartRacetime []float64
}

// New builds a Race from already-constructed cars (the caller wires each
// car's driver/tireset/state handler, e.g. via config.BuildRace).
// driversByInitials is the full roster referenced by pit-stop driver
// changes, and may include drivers not currently assigned to any car.
func New(pars Pars, trk *track.Track, cars []*car.Car, driversByInitials map[string]*driver.Driver) (*Race, error) {
	if pars.TotNoLaps <= 0 {
		return nil, errors.New("race: tot_no_laps must be positive")
	}
	if len(cars) == 0 {
		return nil, errors.New("race: at least one car required")
	}

	n := len(cars)
	laptimes := make([][]float64, n)
	racetimes := make([][]float64, n)
	for i := range laptimes {
		laptimes[i] = make([]float64, pars.TotNoLaps+1)
		racetimes[i] = make([]float64, pars.TotNoLaps+1)
	}

	r := &Race{
		Pars:              pars,
		Track:             trk,
		Cars:              cars,
		DriversByInitials: driversByInitials,
		CurLapLeader:      1,
		RaceFinished:      make([]bool, n),
		Laptimes:          laptimes,
		Racetimes:         racetimes,
		CurLaptimes:       make([]float64, n),
		CurThLaptime:      make([]float64, n),
		lapStartRacetime:  make([]float64, n),
	}

	for i, c := range cars {
		th, err := r.calcThLaptime(c)
		if err != nil {
			return nil, err
		}
		r.CurThLaptime[i] = th
	}

	return r, nil
}

func (r *Race) calcThLaptime(c *car.Car) (float64, error) {
	degr, err := c.Driver.DegrParsFor(c.Tireset.Compound)
	if err != nil {
		return 0, err
	}
	tDegr, err := tireset.CalcDegr(degr, c.Tireset.AgeTot)
	if err != nil {
		return 0, err
	}
	return r.Pars.TQ + r.Pars.TGapRacepace + c.CalcBasicTimeloss(degr, r.Track.Pars.SMass) + tDegr, nil
}

// minLaptimeFlagState returns the flag-state floor lap time, 0 meaning "no
// floor". It is a fixed value based on qualifying pace, not a per-car
// value, so a degraded or heavy car is still held to the same floor as a
// fresh one.
func (r *Race) minLaptimeFlagState() float64 {
	mult := r.FlagState.minLaptimeMultiplier()
	if mult == 0 {
		return 0
	}
	return (r.Pars.TQ + r.Pars.TGapRacepace) * mult
}

// SimulateTimestep advances the race by one tick, in the fixed order:
// increment racetime, compute this tick's effective lap times, advance per-car
// progress, handle any pit standstill split before the finish line,
// handle lap transitions, handle any pit standstill split after the
// finish line, then resolve state transitions.
func (r *Race) SimulateTimestep() error {
	r.CurRacetime += r.Pars.TimestepSize

	if err := r.calcCurLaptimes(); err != nil {
		return err
	}

	for i, c := range r.Cars {
		sNew := c.SH.STrackCur + r.Track.Pars.Length*r.Pars.TimestepSize/r.CurLaptimes[i]
		for sNew >= r.Track.Pars.Length {
			sNew -= r.Track.Pars.Length
		}
		c.SH.UpdateRaceProg(sNew)
	}

	if !r.Track.Pars.PitsAftFinishline {
		if err := r.handlePitStandstill(); err != nil {
			return err
		}
	}

	if err := r.handleLapTransitions(); err != nil {
		return err
	}

	if r.Track.Pars.PitsAftFinishline {
		if err := r.handlePitStandstill(); err != nil {
			return err
		}
	}

	r.handleStateTransitions()
	r.logTick()

	return nil
}

// calcCurLaptimes computes this tick's effective lap time per car: the
// theoretical pace plus start/duel/DRS modifiers, a pit overwrite when
// applicable, the flag-state minimum floor, then the minimum
// following-distance correction. t_overtake_loser is parsed into Pars but
// never read here, matching the original, which defines the field but
// never consults it in this calculation either.
func (r *Race) calcCurLaptimes() error {
	for i, c := range r.Cars {
		t := r.CurThLaptime[i]

		// race-start loss from a standing start; the grid-position time
		// loss is separately already folded into the negative s_track
		// start coordinate, not here.
		if c.SH.StartAct {
			t += r.Track.Pars.TLossFirstlap / r.Track.Turn1LapFrac
		}

		if c.SH.DuelAct {
			t += r.Pars.TDuel / r.Track.OvertakingZonesLapFrac
		}

		if c.SH.DRSAct {
			t += r.Track.Pars.TDRSEffect / r.Track.OvertakingZonesLapFrac
		}

		if c.SH.PitAct {
			if !c.SH.PitStandstillAct {
				// driving through the pit lane: the pit lane's real length
				// can differ from its projection onto the s coordinate.
				t = r.Track.Pars.Length / r.Track.Pars.PitSpeedlimit *
					r.Track.Pars.RealLengthPitZone / r.Track.LengthPitZone
			} else {
				tDriving, leaves, err := c.SH.CheckLeavesStandstill(r.Pars.TimestepSize)
				if err != nil {
					return err
				}
				if leaves {
					t = r.Track.Pars.Length / r.Track.Pars.PitSpeedlimit *
						r.Track.Pars.RealLengthPitZone / r.Track.LengthPitZone *
						r.Pars.TimestepSize / tDriving
				} else {
					t = math.Inf(1)
				}
			}
		} else if floor := r.minLaptimeFlagState(); floor > 0 && t < floor {
			t = floor
		}

		r.CurLaptimes[i] = t
	}

	r.applyMinFollowingDistance()
	return nil
}

// applyMinFollowingDistance corrects lap times so no car closes to within
// MinTDist of the car ahead within this tick, processing car pairs ordered
// by biggest current gap first, in a single forward pass.
func (r *Race) applyMinFollowingDistance() {
	order := r.getCarOrderOnTrack()
	pairs := r.getCarPairIdxsList(order)

	sort.Slice(pairs, func(a, b int) bool {
		return r.projectedDeltaT(pairs[a]) > r.projectedDeltaT(pairs[b])
	})

	for _, pair := range pairs {
		rear := pair[1]
		deltaT := r.projectedDeltaT(pair)
		if deltaT >= r.Pars.MinTDist {
			continue
		}
		add := (r.Pars.MinTDist - deltaT) / 3.0 * r.CurLaptimes[rear]
		if add > 0 {
			r.CurLaptimes[rear] += add
		}
	}
}

// getCarOrderOnTrack returns car indices sorted by descending track
// progress (race leader first).
func (r *Race) getCarOrderOnTrack() []int {
	idx := make([]int, len(r.Cars))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return r.Cars[idx[a]].SH.GetRaceProg() > r.Cars[idx[b]].SH.GetRaceProg()
	})
	return idx
}

// getCarPairIdxsList builds consecutive (front, rear) index pairs from the
// track order, dropping the wraparound pair from the last car back to the
// leader.
func (r *Race) getCarPairIdxsList(order []int) [][2]int {
	pairs := make([][2]int, 0, len(order)-1)
	for i := 0; i+1 < len(order); i++ {
		pairs = append(pairs, [2]int{order[i], order[i+1]})
	}
	return pairs
}

// getCarPairIdxsListFull builds the full circular (front, rear) index
// pairing, including the wraparound pair from the last car back to the
// leader.
func (r *Race) getCarPairIdxsListFull(order []int) [][2]int {
	n := len(order)
	pairs := make([][2]int, n)
	for i := range order {
		pairs[i] = [2]int{order[i], order[(i+1)%n]}
	}
	return pairs
}

// projectedDeltaT estimates the time gap between a car pair at this tick's
// lap-time values, wrapping at 1.0 lap fraction for same-lap comparisons.
func (r *Race) projectedDeltaT(pair [2]int) float64 {
	front, rear := pair[0], pair[1]
	fracFront := r.Cars[front].SH.GetLapFrac(true)
	fracRear := r.Cars[rear].SH.GetLapFrac(true)
	deltaFrac := fracFront - fracRear
	if deltaFrac < 0 {
		deltaFrac += 1.0
	}
	return deltaFrac * r.CurLaptimes[rear]
}

// handlePitStandstill enters standstill for any car that reached its pit
// box this tick, and advances/releases cars already standing still. It is
// called once per tick, before handleLapTransitions when the pit box sits
// before the finish line and after it when PitsAftFinishline is set, so the
// standstill time is charged to the correct side of the lap boundary.
func (r *Race) handlePitStandstill() error {
	for i, c := range r.Cars {
		if c.SH.PitAct && !c.SH.PitStandstillAct {
			if !c.SH.PassedBoundary(c.Pars.PitLocation) {
				continue
			}

			// time part of this tick that was driven before crossing the
			// pit location, known without issue from a possible lap
			// transition since the pit location and finish line cannot
			// both fall within the same tick.
			var tPartDrive float64
			if !r.Track.Pars.PitsAftFinishline {
				tPartDrive = (c.Pars.PitLocation - c.SH.STrackPrev) / r.Track.Pars.Length * r.CurLaptimes[i]
			} else {
				tPartDrive = r.Pars.TimestepSize - (c.SH.STrackCur-c.Pars.PitLocation)/r.Track.Pars.Length*r.CurLaptimes[i]
			}

			inlap := c.SH.ComplLapCur + 1
			if r.Track.Pars.PitsAftFinishline {
				inlap = c.SH.ComplLapCur
			}
			entry, err := c.GetStrategyEntry(inlap)
			if err != nil {
				return err
			}
			target, err := c.TAddPitStandstill(entry)
			if err != nil {
				return err
			}
			if err := c.SH.ActPitStandstill(r.Pars.TimestepSize-tPartDrive, target); err != nil {
				return err
			}
			if err := c.SH.SetSTrack(c.Pars.PitLocation); err != nil {
				return err
			}
		} else if c.SH.PitStandstillAct {
			_, leaves, err := c.SH.CheckLeavesStandstill(r.Pars.TimestepSize)
			if err != nil {
				return err
			}
			if !leaves {
				if err := c.SH.IncrementTStandstill(r.Pars.TimestepSize); err != nil {
					return err
				}
			} else {
				if err := c.SH.DeactPitStandstill(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// handleLapTransitions records a finished lap for any car that crossed the
// finish line this tick, updates the race leader, applies the pit stop
// strategy for cars pitting this lap, and recomputes theoretical pace.
func (r *Race) handleLapTransitions() error {
	for i, c := range r.Cars {
		if !c.SH.GetNewLap() {
			continue
		}

		lap := c.SH.ComplLapCur
		r.Laptimes[i][lap] = r.CurRacetime - r.lapStartRacetime[i]
		r.Racetimes[i][lap] = r.CurRacetime
		r.lapStartRacetime[i] = r.CurRacetime

		if lap >= r.Pars.TotNoLaps {
			r.FlagState = Chequered
			r.RaceFinished[i] = true
		}

		c.DriveLap()

		// the pit stop itself (tire change, refuel, driver change) is
		// performed here, at the finish line, to avoid wrong tire ages
		// even though the standstill time was charged on whichever side
		// of the finish line the pit box actually sits.
		if c.SH.PitAct {
			entry, err := c.GetStrategyEntry(lap)
			if err != nil {
				return err
			}
			if err := c.PerformPitstop(entry, r.DriversByInitials); err != nil {
				return err
			}
		}

		th, err := r.calcThLaptime(c)
		if err != nil {
			return err
		}
		r.CurThLaptime[i] = th
	}

	r.CurLapLeader = r.leaderLap()
	return nil
}

// leaderLap returns the lap currently in progress for the race leader
// (1-indexed): one more than the highest completed-lap count among all
// cars, or 1 before anyone has finished a lap.
func (r *Race) leaderLap() int {
	max := 0
	for _, c := range r.Cars {
		if c.SH.ComplLapCur > max {
			max = c.SH.ComplLapCur
		}
	}
	return max + 1
}

// handleStateTransitions prepares the gaps and lapping flags the per-car
// state machine needs, then resolves each car's FSM transition for this
// tick given its up-to-date track position.
func (r *Race) handleStateTransitions() {
	order := r.getCarOrderOnTrack()
	pairs := r.getCarPairIdxsListFull(order)
	n := len(pairs)

	deltaTs := make([]float64, n)
	lapping := make([]bool, n)
	for i, pair := range pairs {
		deltaTs[i] = r.projectedDeltaT(pair)
		front, rear := pair[0], pair[1]
		if r.Cars[front].SH.GetRaceProg() < r.Cars[rear].SH.GetRaceProg() {
			lapping[i] = true
		}
	}

	safetyCarActive := r.FlagState == VSC || r.FlagState == SC

	for i, pair := range pairs {
		rear := pair[1]
		c := r.Cars[rear]
		j := (i + 1) % n
		pitThisLap := c.PitThisLap(c.SH.ComplLapCur + 1)
		c.SH.CheckStateTransition(deltaTs[i], deltaTs[j], pitThisLap, lapping[i], lapping[j],
			safetyCarActive, r.CurLapLeader, r.Pars.DRSAllowedLap)
	}
}

// Snapshot renders the current tick into the renderer-facing snapshot
// shape, used as the payload for the gRPC snapshot stream.
func (r *Race) Snapshot() snapshot.RaceState {
	cars := make([]snapshot.CarState, len(r.Cars))
	for i, c := range r.Cars {
		color, err := snapshot.ParseHexColor(c.Pars.Color)
		if err != nil {
			log.Warn().Str("car_color", c.Pars.Color).Err(err).Msg("falling back to black")
		}
		cars[i] = snapshot.CarState{
			CarNo:          c.Pars.CarNo,
			DriverInitials: c.Driver.Pars.Initials,
			Color:          color,
			RaceProg:       c.SH.GetRaceProg(),
		}
	}
	return snapshot.RaceState{FlagState: r.FlagState.String(), CarStates: cars}
}

// GetAllFinished reports whether every car has finished.
func (r *Race) GetAllFinished() bool {
	return lo.EveryBy(r.RaceFinished, func(f bool) bool { return f })
}

// logTick emits a structured debug record for one simulated tick.
func (r *Race) logTick() {
	log.Debug().Float64("racetime", r.CurRacetime).Int("leader_lap", r.CurLapLeader).Msg("tick")
}

