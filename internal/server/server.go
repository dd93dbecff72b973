// Package server exposes a running race.Race over gRPC: static track
// geometry via GetTrack, and a per-tick snapshot stream via
// StreamSnapshots, one buffered channel per subscriber exactly as the
// teacher's CarServer/StreamRaceUpdates does.
package server

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	pb "racesim/internal/proto"
	"racesim/internal/race"
	"racesim/internal/snapshot"
	"racesim/internal/track"
)

// clientBufferSize is the per-subscriber channel depth. A slow subscriber
// that can't keep up has its update dropped rather than stalling the
// simulation loop, the same trade-off as the teacher's non-blocking send.
const clientBufferSize = 10

// CarServer implements pb.CarServiceServer over a live race.Race.
type CarServer struct {
	pb.UnimplementedCarServiceServer

	mu      sync.RWMutex
	race    *race.Race
	track   *pb.TrackInfo
	clients map[chan *pb.RaceSnapshot]struct{}
}

// New builds a CarServer around an already-constructed race and track
// boundary geometry (for GetTrack).
func New(r *race.Race, boundaries *track.Boundaries) *CarServer {
	return &CarServer{
		race:    r,
		track:   toTrackInfo(boundaries),
		clients: make(map[chan *pb.RaceSnapshot]struct{}),
	}
}

func toTrackInfo(b *track.Boundaries) *pb.TrackInfo {
	info := &pb.TrackInfo{
		TrackId:       b.Name,
		Name:          b.Name,
		LeftBoundary:  make([]*pb.Point3D, len(b.Left)),
		RightBoundary: make([]*pb.Point3D, len(b.Right)),
	}
	for i, p := range b.Left {
		info.LeftBoundary[i] = &pb.Point3D{X: p.X, Y: p.Y, Z: p.Z}
	}
	for i, p := range b.Right {
		info.RightBoundary[i] = &pb.Point3D{X: p.X, Y: p.Y, Z: p.Z}
	}
	return info
}

// Run drives the wrapped race in real time, publishing a throttled
// snapshot to every StreamSnapshots subscriber each tick. It blocks until
// the race finishes.
func (s *CarServer) Run(realtimeFactor float64) error {
	return s.race.RunRealtime(realtimeFactor, s)
}

// GetTrack returns the static track geometry, no authentication required.
func (s *CarServer) GetTrack(ctx context.Context, req *pb.Empty) (*pb.TrackInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.track, nil
}

// StreamSnapshots registers a subscriber channel and blocks forwarding
// snapshots to the client until the stream's context is done.
func (s *CarServer) StreamSnapshots(req *pb.Empty, stream pb.CarService_StreamSnapshotsServer) error {
	ch := make(chan *pb.RaceSnapshot, clientBufferSize)

	s.mu.Lock()
	s.clients[ch] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()

	for {
		select {
		case update := <-ch:
			if err := stream.Send(update); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

// Publish implements snapshot.Sink, broadcasting a tick's snapshot to
// every subscriber without blocking on a slow one.
func (s *CarServer) Publish(state snapshot.RaceState) {
	update := toRaceSnapshot(state)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.clients {
		select {
		case ch <- update:
		default:
			log.Warn().Msg("snapshot subscriber buffer full, dropping update")
		}
	}
}

func toRaceSnapshot(state snapshot.RaceState) *pb.RaceSnapshot {
	cars := make([]*pb.CarSnapshot, len(state.CarStates))
	for i, c := range state.CarStates {
		cars[i] = &pb.CarSnapshot{
			CarNo:          uint32(c.CarNo),
			DriverInitials: c.DriverInitials,
			Color:          &pb.RgbColor{R: uint32(c.Color.R), G: uint32(c.Color.G), B: uint32(c.Color.B)},
			RaceProg:       c.RaceProg,
		}
	}
	return &pb.RaceSnapshot{FlagState: state.FlagState, CarStates: cars}
}
