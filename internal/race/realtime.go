package race

import (
	"time"

	"github.com/rs/zerolog/log"

	"racesim/internal/snapshot"
)

// RunRealtime drives the race tick by tick, pacing ticks against wall-clock
// time at realtimeFactor (1.0 = real time, >1.0 faster than real time),
// printing a status line at most once per simulated second, and pushing a
// throttled snapshot to sink (if non-nil) at up to snapshot.MaxUpdateFrequency
// per second. It restores the original implementation's real-time loop
// (handle_race.rs), dropped by the distillation but still useful for
// interactive/CLI observation and for driving a live gRPC subscriber.
func (r *Race) RunRealtime(realtimeFactor float64, sink snapshot.Sink) error {
	var lastPrintedAt float64
	var throttle *snapshot.Throttle
	if sink != nil {
		throttle = snapshot.NewThrottle(sink)
	}

	for !r.GetAllFinished() {
		tickStart := time.Now()

		if err := r.SimulateTimestep(); err != nil {
			return err
		}

		if r.CurRacetime > lastPrintedAt+0.9999 {
			log.Info().Float64("racetime", r.CurRacetime).Int("leader_lap", r.CurLapLeader).
				Msg("race status")
			lastPrintedAt = r.CurRacetime
		}

		if throttle != nil {
			throttle.PublishAt(r.CurRacetime, r.Snapshot())
		}

		elapsed := time.Since(tickStart)
		wantDuration := time.Duration(r.Pars.TimestepSize * float64(time.Second) / realtimeFactor)
		if sleep := wantDuration - elapsed; sleep > 0 {
			time.Sleep(sleep)
		} else if sleep < 0 {
			log.Warn().Dur("behind_by", -sleep).Msg("could not keep up with real-time")
		}
	}

	return nil
}
