// Package employeev1 は employee.v1.EmployeeService の gRPC サービス定義です。
// メッセージには protobuf の well-known types を用いるため、既定の proto コーデックでそのまま送受信できます。
//
//	HireEmployee     Struct{firstName,lastName,position,department,salary} -> Struct(employee)
//	GetEmployee      StringValue(id)                                        -> Struct(employee)
//	GetEmployees     Empty                                                  -> ListValue(employees)
//	SearchEmployees  StringValue(query)                                     -> ListValue(employees)
//	UpdateEmployee   Struct{id, employee}                                   -> Struct(employee)
//	FireEmployee     StringValue(id)                                        -> Struct(employee)
//	PromoteEmployee  StringValue(id)                                        -> Struct(employee)
//	DemoteEmployee   StringValue(id)                                        -> Struct(employee)
//	IncreaseSalary   Struct{id, amount}                                     -> Struct(employee)
//	DeleteEmployee   StringValue(id)                                        -> Struct(employee)
package employeev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName は完全修飾サービス名です。
const ServiceName = "employee.v1.EmployeeService"

const (
	EmployeeService_HireEmployee_FullMethodName    = "/" + ServiceName + "/HireEmployee"
	EmployeeService_GetEmployee_FullMethodName     = "/" + ServiceName + "/GetEmployee"
	EmployeeService_GetEmployees_FullMethodName    = "/" + ServiceName + "/GetEmployees"
	EmployeeService_SearchEmployees_FullMethodName = "/" + ServiceName + "/SearchEmployees"
	EmployeeService_UpdateEmployee_FullMethodName  = "/" + ServiceName + "/UpdateEmployee"
	EmployeeService_FireEmployee_FullMethodName    = "/" + ServiceName + "/FireEmployee"
	EmployeeService_PromoteEmployee_FullMethodName = "/" + ServiceName + "/PromoteEmployee"
	EmployeeService_DemoteEmployee_FullMethodName  = "/" + ServiceName + "/DemoteEmployee"
	EmployeeService_IncreaseSalary_FullMethodName  = "/" + ServiceName + "/IncreaseSalary"
	EmployeeService_DeleteEmployee_FullMethodName  = "/" + ServiceName + "/DeleteEmployee"
)

// EmployeeServiceServer はサーバー側の実装インターフェースです。
type EmployeeServiceServer interface {
	HireEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetEmployees(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	SearchEmployees(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	UpdateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FireEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	PromoteEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	DemoteEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	IncreaseSalary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// UnimplementedEmployeeServiceServer は前方互換のため埋め込む既定実装です。
type UnimplementedEmployeeServiceServer struct{}

func (UnimplementedEmployeeServiceServer) HireEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method HireEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) GetEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) GetEmployees(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEmployees not implemented")
}
func (UnimplementedEmployeeServiceServer) SearchEmployees(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchEmployees not implemented")
}
func (UnimplementedEmployeeServiceServer) UpdateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) FireEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method FireEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) PromoteEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PromoteEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) DemoteEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method DemoteEmployee not implemented")
}
func (UnimplementedEmployeeServiceServer) IncreaseSalary(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method IncreaseSalary not implemented")
}
func (UnimplementedEmployeeServiceServer) DeleteEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteEmployee not implemented")
}

// RegisterEmployeeServiceServer はサービスを登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeService_ServiceDesc, srv)
}

func newStruct() *structpb.Struct        { return &structpb.Struct{} }
func newString() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }
func newEmpty() *emptypb.Empty           { return &emptypb.Empty{} }
func newListValue() *structpb.ListValue  { return &structpb.ListValue{} }
func fullMethod(method string) string    { return "/" + ServiceName + "/" + method }

func unary[Req proto.Message, Resp proto.Message](
	method string,
	newReq func() Req,
	call func(EmployeeServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(EmployeeServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// EmployeeService_ServiceDesc は grpc.ServiceDesc です。
var EmployeeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("HireEmployee", newStruct, EmployeeServiceServer.HireEmployee),
		unary("GetEmployee", newString, EmployeeServiceServer.GetEmployee),
		unary("GetEmployees", newEmpty, EmployeeServiceServer.GetEmployees),
		unary("SearchEmployees", newString, EmployeeServiceServer.SearchEmployees),
		unary("UpdateEmployee", newStruct, EmployeeServiceServer.UpdateEmployee),
		unary("FireEmployee", newString, EmployeeServiceServer.FireEmployee),
		unary("PromoteEmployee", newString, EmployeeServiceServer.PromoteEmployee),
		unary("DemoteEmployee", newString, EmployeeServiceServer.DemoteEmployee),
		unary("IncreaseSalary", newStruct, EmployeeServiceServer.IncreaseSalary),
		unary("DeleteEmployee", newString, EmployeeServiceServer.DeleteEmployee),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "employee/v1/employee_service",
}

// EmployeeServiceClient はクライアント側のインターフェースです。
type EmployeeServiceClient interface {
	HireEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetEmployees(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	SearchEmployees(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	UpdateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	FireEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	PromoteEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	DemoteEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	IncreaseSalary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type employeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient はクライアントを生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) EmployeeServiceClient {
	return &employeeServiceClient{cc: cc}
}

func invoke[Resp proto.Message](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, out Resp, opts []grpc.CallOption) (Resp, error) {
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}

func (c *employeeServiceClient) HireEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeService_HireEmployee_FullMethodName, in, newStruct(), opts)
}

func (c *employeeServiceClient) GetEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeService_GetEmployee_FullMethodName, in, newStruct(), opts)
}

func (c *employeeServiceClient) GetEmployees(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, EmployeeService_GetEmployees_FullMethodName, in, newListValue(), opts)
}

func (c *employeeServiceClient) SearchEmployees(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, EmployeeService_SearchEmployees_FullMethodName, in, newListValue(), opts)
}

func (c *employeeServiceClient) UpdateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeService_UpdateEmployee_FullMethodName, in, newStruct(), opts)
}

func (c *employeeServiceClient) FireEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeService_FireEmployee_FullMethodName, in, newStruct(), opts)
}

func (c *employeeServiceClient) PromoteEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeService_PromoteEmployee_FullMethodName, in, newStruct(), opts)
}

func (c *employeeServiceClient) DemoteEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeService_DemoteEmployee_FullMethodName, in, newStruct(), opts)
}

func (c *employeeServiceClient) IncreaseSalary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeService_IncreaseSalary_FullMethodName, in, newStruct(), opts)
}

func (c *employeeServiceClient) DeleteEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, EmployeeService_DeleteEmployee_FullMethodName, in, newStruct(), opts)
}
