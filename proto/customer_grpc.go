// Package proto holds gRPC stubs of customers.v1.CustomerService.
// Messages are protobuf well-known types, a customer travels as google.protobuf.Struct
// with fields id, firstName, lastName, email, phoneNumber, address.
package proto

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
	structpb "google.golang.org/protobuf/types/known/structpb"
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"
)

// CustomerServiceName is the fully-qualified name of the customers service
const CustomerServiceName = "customers.v1.CustomerService"

const (
	customerServiceGetAllMethod     = "/customers.v1.CustomerService/GetAll"
	customerServiceGetByIDMethod    = "/customers.v1.CustomerService/GetByID"
	customerServiceCreateMethod     = "/customers.v1.CustomerService/Create"
	customerServiceUpdateMethod     = "/customers.v1.CustomerService/Update"
	customerServiceDeleteByIDMethod = "/customers.v1.CustomerService/DeleteByID"
)

// CustomerServiceClient is the client API for CustomerService service.
type CustomerServiceClient interface {
	GetAll(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetByID(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteByID(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type customerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCustomerServiceClient builds CustomerServiceClient on top of provided connection
func NewCustomerServiceClient(cc grpc.ClientConnInterface) CustomerServiceClient {
	return &customerServiceClient{cc}
}

func (c *customerServiceClient) GetAll(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, customerServiceGetAllMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *customerServiceClient) GetByID(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, customerServiceGetByIDMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *customerServiceClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, customerServiceCreateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *customerServiceClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, customerServiceUpdateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *customerServiceClient) DeleteByID(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, customerServiceDeleteByIDMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomerServiceServer is the server API for CustomerService service.
// All implementations must embed UnimplementedCustomerServiceServer
// for forward compatibility
type CustomerServiceServer interface {
	GetAll(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetByID(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteByID(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
	mustEmbedUnimplementedCustomerServiceServer()
}

// UnimplementedCustomerServiceServer must be embedded to have forward compatible implementations.
type UnimplementedCustomerServiceServer struct{}

func (UnimplementedCustomerServiceServer) GetAll(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAll not implemented")
}
func (UnimplementedCustomerServiceServer) GetByID(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetByID not implemented")
}
func (UnimplementedCustomerServiceServer) Create(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedCustomerServiceServer) Update(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Update not implemented")
}
func (UnimplementedCustomerServiceServer) DeleteByID(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteByID not implemented")
}
func (UnimplementedCustomerServiceServer) mustEmbedUnimplementedCustomerServiceServer() {}

// RegisterCustomerServiceServer registers CustomerServiceServer implementation on gRPC server
func RegisterCustomerServiceServer(s grpc.ServiceRegistrar, srv CustomerServiceServer) {
	s.RegisterService(&CustomerServiceDesc, srv)
}

func customerServiceGetAllHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CustomerServiceServer).GetAll(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: customerServiceGetAllMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CustomerServiceServer).GetAll(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func customerServiceGetByIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CustomerServiceServer).GetByID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: customerServiceGetByIDMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CustomerServiceServer).GetByID(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func customerServiceCreateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CustomerServiceServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: customerServiceCreateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CustomerServiceServer).Create(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func customerServiceUpdateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CustomerServiceServer).Update(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: customerServiceUpdateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CustomerServiceServer).Update(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func customerServiceDeleteByIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CustomerServiceServer).DeleteByID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: customerServiceDeleteByIDMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CustomerServiceServer).DeleteByID(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

// CustomerServiceDesc is the grpc.ServiceDesc for CustomerService service.
var CustomerServiceDesc = grpc.ServiceDesc{
	ServiceName: CustomerServiceName,
	HandlerType: (*CustomerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAll", Handler: customerServiceGetAllHandler},
		{MethodName: "GetByID", Handler: customerServiceGetByIDHandler},
		{MethodName: "Create", Handler: customerServiceCreateHandler},
		{MethodName: "Update", Handler: customerServiceUpdateHandler},
		{MethodName: "DeleteByID", Handler: customerServiceDeleteByIDHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "customers/v1/customer.proto",
}
