package handler

import (
	"errors"

	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	// 内部エラーは原因に関わらず Internal とする
	case errors.Is(err, employee.ErrInternal):
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, employee.ErrValidationFailed),
		errors.Is(err, employee.ErrInvalidID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrAlreadyTerminated),
		errors.Is(err, employee.ErrAlreadyPromoted),
		errors.Is(err, employee.ErrNotPromoted):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
