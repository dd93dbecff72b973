// Code generated by protoc-gen-go-grpc from race.proto; hand-maintained
// here since no protoc toolchain runs as part of this build. Shape
// follows the standard protoc-gen-go-grpc client/server stub pattern.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type CarServiceClient interface {
	GetTrack(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TrackInfo, error)
	StreamSnapshots(ctx context.Context, in *Empty, opts ...grpc.CallOption) (CarService_StreamSnapshotsClient, error)
}

type carServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCarServiceClient(cc grpc.ClientConnInterface) CarServiceClient {
	return &carServiceClient{cc}
}

func (c *carServiceClient) GetTrack(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TrackInfo, error) {
	out := new(TrackInfo)
	if err := c.cc.Invoke(ctx, "/pb.CarService/GetTrack", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *carServiceClient) StreamSnapshots(ctx context.Context, in *Empty, opts ...grpc.CallOption) (CarService_StreamSnapshotsClient, error) {
	stream, err := c.cc.NewStream(ctx, &carServiceServiceDesc.Streams[0], "/pb.CarService/StreamSnapshots", opts...)
	if err != nil {
		return nil, err
	}
	x := &carServiceStreamSnapshotsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type CarService_StreamSnapshotsClient interface {
	Recv() (*RaceSnapshot, error)
	grpc.ClientStream
}

type carServiceStreamSnapshotsClient struct {
	grpc.ClientStream
}

func (x *carServiceStreamSnapshotsClient) Recv() (*RaceSnapshot, error) {
	m := new(RaceSnapshot)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// CarServiceServer is the service implementation interface.
type CarServiceServer interface {
	GetTrack(context.Context, *Empty) (*TrackInfo, error)
	StreamSnapshots(*Empty, CarService_StreamSnapshotsServer) error
}

// UnimplementedCarServiceServer can be embedded for forward compatibility.
type UnimplementedCarServiceServer struct{}

func (UnimplementedCarServiceServer) GetTrack(context.Context, *Empty) (*TrackInfo, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTrack not implemented")
}

func (UnimplementedCarServiceServer) StreamSnapshots(*Empty, CarService_StreamSnapshotsServer) error {
	return status.Errorf(codes.Unimplemented, "method StreamSnapshots not implemented")
}

func RegisterCarServiceServer(s grpc.ServiceRegistrar, srv CarServiceServer) {
	s.RegisterService(&carServiceServiceDesc, srv)
}

func carServiceGetTrackHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CarServiceServer).GetTrack(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/pb.CarService/GetTrack"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CarServiceServer).GetTrack(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func carServiceStreamSnapshotsHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(CarServiceServer).StreamSnapshots(m, &carServiceStreamSnapshotsServer{stream})
}

type CarService_StreamSnapshotsServer interface {
	Send(*RaceSnapshot) error
	grpc.ServerStream
}

type carServiceStreamSnapshotsServer struct {
	grpc.ServerStream
}

func (x *carServiceStreamSnapshotsServer) Send(m *RaceSnapshot) error {
	return x.ServerStream.SendMsg(m)
}

var carServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: "pb.CarService",
	HandlerType: (*CarServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetTrack",
			Handler:    carServiceGetTrackHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamSnapshots",
			Handler:       carServiceStreamSnapshotsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "race.proto",
}
