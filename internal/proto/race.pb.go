// Code generated by protoc-gen-go from race.proto; hand-maintained here
// since no protoc toolchain runs as part of this build. The struct shape
// (Reset/String/ProtoMessage + protobuf struct tags) matches what
// protoc-gen-go would emit; the wire codec registered in codec.go
// marshals these as JSON rather than binary protobuf, since no compiled
// file descriptor exists to do the latter safely by hand.
package pb

import "fmt"

type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return "Empty{}" }
func (*Empty) ProtoMessage()    {}

type Point3D struct {
	X float32 `protobuf:"fixed32,1,opt,name=x,proto3" json:"x,omitempty"`
	Y float32 `protobuf:"fixed32,2,opt,name=y,proto3" json:"y,omitempty"`
	Z float32 `protobuf:"fixed32,3,opt,name=z,proto3" json:"z,omitempty"`
}

func (m *Point3D) Reset()         { *m = Point3D{} }
func (m *Point3D) String() string { return fmt.Sprintf("%+v", *m) }
func (*Point3D) ProtoMessage()    {}

type TrackInfo struct {
	TrackId       string     `protobuf:"bytes,1,opt,name=track_id,json=trackId,proto3" json:"track_id,omitempty"`
	Name          string     `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	LeftBoundary  []*Point3D `protobuf:"bytes,3,rep,name=left_boundary,json=leftBoundary,proto3" json:"left_boundary,omitempty"`
	RightBoundary []*Point3D `protobuf:"bytes,4,rep,name=right_boundary,json=rightBoundary,proto3" json:"right_boundary,omitempty"`
}

func (m *TrackInfo) Reset()         { *m = TrackInfo{} }
func (m *TrackInfo) String() string { return fmt.Sprintf("%+v", *m) }
func (*TrackInfo) ProtoMessage()    {}

type RgbColor struct {
	R uint32 `protobuf:"varint,1,opt,name=r,proto3" json:"r,omitempty"`
	G uint32 `protobuf:"varint,2,opt,name=g,proto3" json:"g,omitempty"`
	B uint32 `protobuf:"varint,3,opt,name=b,proto3" json:"b,omitempty"`
}

func (m *RgbColor) Reset()         { *m = RgbColor{} }
func (m *RgbColor) String() string { return fmt.Sprintf("%+v", *m) }
func (*RgbColor) ProtoMessage()    {}

type CarSnapshot struct {
	CarNo          uint32    `protobuf:"varint,1,opt,name=car_no,json=carNo,proto3" json:"car_no,omitempty"`
	DriverInitials string    `protobuf:"bytes,2,opt,name=driver_initials,json=driverInitials,proto3" json:"driver_initials,omitempty"`
	Color          *RgbColor `protobuf:"bytes,3,opt,name=color,proto3" json:"color,omitempty"`
	RaceProg       float64   `protobuf:"fixed64,4,opt,name=race_prog,json=raceProg,proto3" json:"race_prog,omitempty"`
}

func (m *CarSnapshot) Reset()         { *m = CarSnapshot{} }
func (m *CarSnapshot) String() string { return fmt.Sprintf("%+v", *m) }
func (*CarSnapshot) ProtoMessage()    {}

type RaceSnapshot struct {
	FlagState string         `protobuf:"bytes,1,opt,name=flag_state,json=flagState,proto3" json:"flag_state,omitempty"`
	CarStates []*CarSnapshot `protobuf:"bytes,2,rep,name=car_states,json=carStates,proto3" json:"car_states,omitempty"`
}

func (m *RaceSnapshot) Reset()         { *m = RaceSnapshot{} }
func (m *RaceSnapshot) String() string { return fmt.Sprintf("%+v", *m) }
func (*RaceSnapshot) ProtoMessage()    {}
