package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "coinflow.v1.LedgerService"

// LedgerServiceServer is the server API for the LedgerService
type LedgerServiceServer interface {
	AddBRLMovement(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateBRLMovement(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddAssetTrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateAssetTrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddAssetMovement(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateAssetMovement(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteRecord(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	ListRecords(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PreviewTrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ LedgerServiceServer = (*Server)(nil)

// LedgerServiceDesc describes the LedgerService for grpc.Server.RegisterService
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("AddBRLMovement", LedgerServiceServer.AddBRLMovement),
		unaryMethod("UpdateBRLMovement", LedgerServiceServer.UpdateBRLMovement),
		unaryMethod("AddAssetTrade", LedgerServiceServer.AddAssetTrade),
		unaryMethod("UpdateAssetTrade", LedgerServiceServer.UpdateAssetTrade),
		unaryMethod("AddAssetMovement", LedgerServiceServer.AddAssetMovement),
		unaryMethod("UpdateAssetMovement", LedgerServiceServer.UpdateAssetMovement),
		unaryMethod("DeleteRecord", LedgerServiceServer.DeleteRecord),
		unaryMethod("ListRecords", LedgerServiceServer.ListRecords),
		unaryMethod("PreviewTrade", LedgerServiceServer.PreviewTrade),
		unaryMethod("GetDashboard", LedgerServiceServer.GetDashboard),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "coinflow/v1/ledger.proto",
}

// RegisterLedgerServiceServer registers srv on s
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// unaryMethod builds the method handler for a Struct-in RPC, running the server interceptor chain
func unaryMethod[Resp proto.Message](
	name string,
	call func(LedgerServiceServer, context.Context, *structpb.Struct) (Resp, error),
) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			handler := func(ctx context.Context, req any) (any, error) {
				resp, err := call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
				if err != nil {
					return nil, err
				}
				return resp, nil
			}

			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls the LedgerService on an existing connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a new LedgerService client
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with fields as the request Struct
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete invokes DeleteRecord
func (c *Client) Delete(ctx context.Context, kind, id string, opts ...grpc.CallOption) error {
	req, err := structpb.NewStruct(map[string]any{"kind": kind, "id": id})
	if err != nil {
		return err
	}
	return c.cc.Invoke(ctx, "/"+ServiceName+"/DeleteRecord", req, new(emptypb.Empty), opts...)
}
