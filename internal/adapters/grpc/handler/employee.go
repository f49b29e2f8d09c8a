package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/ogurasousui/grpc-employee-records/internal/adapters/grpc/employeev1"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
	employeev1.UnimplementedEmployeeServiceServer
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// HireEmployee は社員を採用します。
func (h *EmployeeGrpcHandler) HireEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	hired, err := h.svc.HireEmployee(ctx, fieldsFromStruct(req))
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(hired)
}

// GetEmployee は ID で社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	found, err := h.svc.GetEmployee(ctx, req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(found)
}

// GetEmployees は全社員を挿入順で返します。
func (h *EmployeeGrpcHandler) GetEmployees(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	employees, err := h.svc.GetEmployees(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployees(employees)
}

// SearchEmployees は名前・役職・部署で社員を検索します。
func (h *EmployeeGrpcHandler) SearchEmployees(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	employees, err := h.svc.SearchEmployees(ctx, req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployees(employees)
}

// UpdateEmployee は {id, employee} を受け取り社員情報を更新します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var patch employee.Fields
	if v, ok := req.GetFields()["employee"]; ok && v.GetStructValue() != nil {
		patch = fieldsFromStruct(v.GetStructValue())
	}

	updated, err := h.svc.UpdateEmployee(ctx, employee.UpdateEmployeeInput{
		ID:    stringField(req, "id"),
		Patch: patch,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(updated)
}

// FireEmployee は社員を退職状態にします。
func (h *EmployeeGrpcHandler) FireEmployee(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	fired, err := h.svc.FireEmployee(ctx, req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(fired)
}

// PromoteEmployee は役職に Senior を付与します。
func (h *EmployeeGrpcHandler) PromoteEmployee(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	promoted, err := h.svc.PromoteEmployee(ctx, req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(promoted)
}

// DemoteEmployee は役職から Senior を外します。
func (h *EmployeeGrpcHandler) DemoteEmployee(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	demoted, err := h.svc.DemoteEmployee(ctx, req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(demoted)
}

// IncreaseSalary は {id, amount} を受け取り給与を加算します。
func (h *EmployeeGrpcHandler) IncreaseSalary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, ok := req.GetFields()["amount"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "amount must be a number")
	}

	updated, err := h.svc.IncreaseSalary(ctx, employee.IncreaseSalaryInput{
		ID:     stringField(req, "id"),
		Amount: amount.NumberValue,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(updated)
}

// DeleteEmployee は社員を削除し、削除したレコードを返します。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	deleted, err := h.svc.DeleteEmployee(ctx, req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(deleted)
}

// fieldsFromStruct は型の合わない項目をゼロ値として扱い、検証はサービスに委ねます。
func fieldsFromStruct(s *structpb.Struct) employee.Fields {
	fields := employee.Fields{
		FirstName:  stringField(s, "firstName"),
		LastName:   stringField(s, "lastName"),
		Position:   stringField(s, "position"),
		Department: stringField(s, "department"),
	}
	if v, ok := s.GetFields()["salary"].GetKind().(*structpb.Value_NumberValue); ok {
		fields.Salary = v.NumberValue
	}
	return fields
}

func stringField(s *structpb.Struct, key string) string {
	if v, ok := s.GetFields()[key].GetKind().(*structpb.Value_StringValue); ok {
		return v.StringValue
	}
	return ""
}

func toProtoEmployee(e *employee.Employee) (*structpb.Struct, error) {
	if e == nil {
		return nil, status.Error(codes.Internal, "employee is nil")
	}

	var updatedAt any
	if e.UpdatedAt != nil {
		updatedAt = e.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	s, err := structpb.NewStruct(map[string]any{
		"id":         e.ID,
		"firstName":  e.FirstName,
		"lastName":   e.LastName,
		"position":   e.Position,
		"department": e.Department,
		"salary":     e.Salary,
		"isEmployed": e.IsEmployed,
		"updatedAt":  updatedAt,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode employee: %v", err))
	}
	return s, nil
}

func toProtoEmployees(employees []*employee.Employee) (*structpb.ListValue, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(employees))}
	for _, e := range employees {
		s, err := toProtoEmployee(e)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, structpb.NewStructValue(s))
	}
	return list, nil
}
