// Command racesim runs the time-discrete race simulation engine, either
// as a single real-time run serving a gRPC snapshot stream (--gui), or as
// a batch of independent runs (--no-sim-runs) for result comparison.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"racesim/internal/config"
	pb "racesim/internal/proto"
	"racesim/internal/race"
	"racesim/internal/result"
	"racesim/internal/server"
	"racesim/internal/track"
)

func main() {
	var (
		debug          = flag.Bool("debug", false, "print pit-drive time-loss diagnostics")
		gui            = flag.Bool("gui", false, "serve a live gRPC snapshot stream instead of running headless")
		noSimRuns      = flag.Int("no-sim-runs", 1, "number of independent simulation runs (batch mode only)")
		parfilePath    = flag.String("parfile-path", "", "path to the JSON simulation parameter file")
		realtimeFactor = flag.Float64("realtime-factor", 1.0, "real-time pacing factor (gui mode only)")
		trackCSV       = flag.String("track-csv", "", "optional centerline CSV for the gRPC GetTrack boundary geometry (gui mode only)")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(*debug, *gui, *noSimRuns, *parfilePath, *realtimeFactor, *trackCSV); err != nil {
		log.Fatal().Err(err).Msg("racesim failed")
	}
}

func run(debug, gui bool, noSimRuns int, parfilePath string, realtimeFactor float64, trackCSV string) error {
	if gui && noSimRuns != 1 {
		return errors.New("--gui requires --no-sim-runs=1")
	}
	if parfilePath == "" {
		return errors.New("--parfile-path is required")
	}

	pars, err := config.Load(parfilePath)
	if err != nil {
		return err
	}

	if gui {
		return runGUI(pars, realtimeFactor, trackCSV)
	}
	return runBatch(pars, noSimRuns, debug)
}

func runGUI(pars *config.SimPars, realtimeFactor float64, trackCSV string) error {
	r, err := config.BuildRace(pars)
	if err != nil {
		return err
	}

	boundaries := &track.Boundaries{Name: pars.TrackPars.Name}
	if trackCSV != "" {
		b, err := track.LoadBoundariesCSV(pars.TrackPars.Name, trackCSV)
		if err != nil {
			return err
		}
		boundaries = b
	}

	srv := server.New(r, boundaries)

	lis, err := net.Listen("tcp", ":50051")
	if err != nil {
		return errors.Wrap(err, "listen")
	}

	grpcServer := grpc.NewServer()
	pb.RegisterCarServiceServer(grpcServer, srv)

	go func() {
		log.Info().Str("addr", lis.Addr().String()).Msg("serving snapshot stream")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc server stopped")
		}
	}()

	return srv.Run(realtimeFactor)
}

func runBatch(pars *config.SimPars, noSimRuns int, debug bool) error {
	results := make([]*result.Result, noSimRuns)
	errs := make([]error, noSimRuns)

	var wg sync.WaitGroup
	for i := 0; i < noSimRuns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			runID := uuid.New()

			r, err := config.BuildRace(pars)
			if err != nil {
				errs[i] = err
				return
			}

			for !r.GetAllFinished() {
				if err := r.SimulateTimestep(); err != nil {
					errs[i] = err
					return
				}
			}

			log.Info().Str("run_id", runID.String()).Float64("racetime", r.CurRacetime).Msg("run finished")
			results[i] = toResult(r)

			if debug {
				trk := r.Track
				th := pars.RacePars.TQ + pars.RacePars.TGapRacepace
				fmt.Fprintf(os.Stderr, "run %s: pit drive time loss estimate: %.3fs\n",
					runID, trk.PitDriveTimeLoss(th))
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for _, res := range results {
		res.Print(os.Stdout)
	}
	return nil
}

func toResult(r *race.Race) *result.Result {
	pairs := make([]result.CarDriverPair, len(r.Cars))
	for i, c := range r.Cars {
		pairs[i] = result.CarDriverPair{CarNo: c.Pars.CarNo, DriverInitials: c.Driver.Pars.Initials}
	}
	return &result.Result{
		TotNoLaps:      r.Pars.TotNoLaps,
		CarDriverPairs: pairs,
		Laptimes:       r.Laptimes,
		Racetimes:      r.Racetimes,
	}
}
