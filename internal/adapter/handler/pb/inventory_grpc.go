// Package pb describes the pantry.v1.InventoryService gRPC contract. Messages
// are protobuf well-known types, so no generated message code is needed.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	InventoryServiceName = "pantry.v1.InventoryService"

	InventoryService_ListItems_FullMethodName  = "/pantry.v1.InventoryService/ListItems"
	InventoryService_AddItem_FullMethodName    = "/pantry.v1.InventoryService/AddItem"
	InventoryService_RemoveItem_FullMethodName = "/pantry.v1.InventoryService/RemoveItem"
)

// InventoryServiceClient is the client API for InventoryService.
type InventoryServiceClient interface {
	// ListItems returns {"items": [{"name", "quantity"}...]} filtered by the search text.
	ListItems(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	// AddItem increments or creates the named item and returns the reloaded list.
	AddItem(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	// RemoveItem decrements or deletes the named item and returns the reloaded list.
	RemoveItem(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type inventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) InventoryServiceClient {
	return &inventoryServiceClient{cc}
}

func (c *inventoryServiceClient) ListItems(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InventoryService_ListItems_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) AddItem(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InventoryService_AddItem_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) RemoveItem(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InventoryService_RemoveItem_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// InventoryServiceServer is the server API for InventoryService.
type InventoryServiceServer interface {
	ListItems(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	AddItem(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	RemoveItem(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// UnimplementedInventoryServiceServer can be embedded for forward compatibility.
type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) ListItems(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListItems not implemented")
}

func (UnimplementedInventoryServiceServer) AddItem(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddItem not implemented")
}

func (UnimplementedInventoryServiceServer) RemoveItem(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RemoveItem not implemented")
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

func unaryHandler(
	fullMethod string,
	call func(InventoryServiceServer, context.Context, *wrapperspb.StringValue) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InventoryServiceServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// InventoryService_ServiceDesc is the grpc.ServiceDesc for InventoryService.
var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListItems",
			Handler:    unaryHandler(InventoryService_ListItems_FullMethodName, InventoryServiceServer.ListItems),
		},
		{
			MethodName: "AddItem",
			Handler:    unaryHandler(InventoryService_AddItem_FullMethodName, InventoryServiceServer.AddItem),
		},
		{
			MethodName: "RemoveItem",
			Handler:    unaryHandler(InventoryService_RemoveItem_FullMethodName, InventoryServiceServer.RemoveItem),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pantry/v1/inventory.proto",
}
