package stats_service_api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "flightroutes.v1.StatsService"

const (
	summaryMethod   = "/" + ServiceName + "/Summary"
	topRoutesMethod = "/" + ServiceName + "/TopRoutes"
)

// StatsServiceServer answers selection-scoped statistics. Requests and
// responses are free-form structs:
//
//	{"years": [2019, 2020], "types": ["Domestic"], "n": 10}
//
// An absent years or types key selects every value on that dimension.
type StatsServiceServer interface {
	Summary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	TopRoutes(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterStatsServiceServer(s grpc.ServiceRegistrar, srv StatsServiceServer) {
	s.RegisterService(&StatsService_ServiceDesc, srv)
}

var StatsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StatsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Summary", Handler: summaryHandler},
		{MethodName: "TopRoutes", Handler: topRoutesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flightroutes/v1/stats.proto",
}

func summaryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatsServiceServer).Summary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: summaryMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatsServiceServer).Summary(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func topRoutesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatsServiceServer).TopRoutes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: topRoutesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatsServiceServer).TopRoutes(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type StatsServiceClient interface {
	Summary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	TopRoutes(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type statsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStatsServiceClient(cc grpc.ClientConnInterface) StatsServiceClient {
	return &statsServiceClient{cc: cc}
}

func (c *statsServiceClient) Summary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, summaryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *statsServiceClient) TopRoutes(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, topRoutesMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
