package rendezvouspb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	Rendezvous_Write_FullMethodName = "/rendezvous.v1.Rendezvous/Write"
	Rendezvous_Read_FullMethodName  = "/rendezvous.v1.Rendezvous/Read"
	Rendezvous_Stats_FullMethodName = "/rendezvous.v1.Rendezvous/Stats"
)

// RendezvousClient is the client API for the Rendezvous service.
type RendezvousClient interface {
	// Write sends a value on the channel named by the key header.
	Write(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Read waits for a value on the channel named by the key header.
	Read(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	// Stats reports the queue depths of the channel named by the key header.
	Stats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type rendezvousClient struct {
	cc grpc.ClientConnInterface
}

func NewRendezvousClient(cc grpc.ClientConnInterface) RendezvousClient {
	return &rendezvousClient{cc}
}

func (c *rendezvousClient) Write(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, Rendezvous_Write_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rendezvousClient) Read(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, Rendezvous_Read_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rendezvousClient) Stats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Rendezvous_Stats_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RendezvousServer is the server API for the Rendezvous service.
// All implementations must embed UnimplementedRendezvousServer.
type RendezvousServer interface {
	Write(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	Read(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
	Stats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	mustEmbedUnimplementedRendezvousServer()
}

// UnimplementedRendezvousServer must be embedded to have forward compatible implementations.
type UnimplementedRendezvousServer struct{}

func (UnimplementedRendezvousServer) Write(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Write not implemented")
}
func (UnimplementedRendezvousServer) Read(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Read not implemented")
}
func (UnimplementedRendezvousServer) Stats(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Stats not implemented")
}
func (UnimplementedRendezvousServer) mustEmbedUnimplementedRendezvousServer() {}

func RegisterRendezvousServer(s grpc.ServiceRegistrar, srv RendezvousServer) {
	s.RegisterService(&Rendezvous_ServiceDesc, srv)
}

func _Rendezvous_Write_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RendezvousServer).Write(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Rendezvous_Write_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RendezvousServer).Write(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Rendezvous_Read_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RendezvousServer).Read(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Rendezvous_Read_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RendezvousServer).Read(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Rendezvous_Stats_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RendezvousServer).Stats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Rendezvous_Stats_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RendezvousServer).Stats(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Rendezvous_ServiceDesc is the grpc.ServiceDesc for the Rendezvous service.
var Rendezvous_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "rendezvous.v1.Rendezvous",
	HandlerType: (*RendezvousServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Write",
			Handler:    _Rendezvous_Write_Handler,
		},
		{
			MethodName: "Read",
			Handler:    _Rendezvous_Read_Handler,
		},
		{
			MethodName: "Stats",
			Handler:    _Rendezvous_Stats_Handler,
		},
	},
	Streams: []grpc.StreamDesc{},
}
