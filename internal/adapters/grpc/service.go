package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are google.protobuf.Struct, so the service needs no generated code.
const (
	ServiceName          = "bitterness.v1.BitternessService"
	EstimateMethod       = "/" + ServiceName + "/Estimate"
	GetCalculationMethod = "/" + ServiceName + "/GetCalculation"
	GetLatestMethod      = "/" + ServiceName + "/GetLatest"
	GetHistoryMethod     = "/" + ServiceName + "/GetHistory"
)

// BitternessServiceServer is the server API for the bitterness service
type BitternessServiceServer interface {
	Estimate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCalculation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLatest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(BitternessServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BitternessServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BitternessServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the bitterness service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BitternessServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Estimate", Handler: unaryHandler(EstimateMethod, BitternessServiceServer.Estimate)},
		{MethodName: "GetCalculation", Handler: unaryHandler(GetCalculationMethod, BitternessServiceServer.GetCalculation)},
		{MethodName: "GetLatest", Handler: unaryHandler(GetLatestMethod, BitternessServiceServer.GetLatest)},
		{MethodName: "GetHistory", Handler: unaryHandler(GetHistoryMethod, BitternessServiceServer.GetHistory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bitterness/v1/bitterness.proto",
}

// RegisterBitternessServiceServer registers srv on s
func RegisterBitternessServiceServer(s grpc.ServiceRegistrar, srv BitternessServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// BitternessServiceClient calls the bitterness service over a connection
type BitternessServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBitternessServiceClient creates a client on cc
func NewBitternessServiceClient(cc grpc.ClientConnInterface) *BitternessServiceClient {
	return &BitternessServiceClient{cc: cc}
}

func (c *BitternessServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BitternessServiceClient) Estimate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EstimateMethod, in, opts...)
}

func (c *BitternessServiceClient) GetCalculation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetCalculationMethod, in, opts...)
}

func (c *BitternessServiceClient) GetLatest(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetLatestMethod, in, opts...)
}

func (c *BitternessServiceClient) GetHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetHistoryMethod, in, opts...)
}
