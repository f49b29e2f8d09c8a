package employee

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID         = errors.New("employee: invalid id")
	ErrValidationFailed  = errors.New("employee: validation failed")
	ErrEmployeeNotFound  = errors.New("employee: not found")
	ErrAlreadyTerminated = errors.New("employee: already terminated")
	ErrAlreadyPromoted   = errors.New("employee: already promoted")
	ErrNotPromoted       = errors.New("employee: not promoted")
	ErrInternal          = errors.New("employee: internal error")
)

// Error は呼び出し元へ返すメッセージと種別を保持するエラーです。
// errors.Is で種別の sentinel エラーと比較できます。
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(id string) error {
	return newError(ErrEmployeeNotFound, "Employee with id=%s not found", id)
}

func missingFields() error {
	return newError(ErrValidationFailed, "Missing required fields in the employee object")
}

func internal(prefix string, cause error) error {
	return &Error{
		Kind:    ErrInternal,
		Message: fmt.Sprintf("%s: %v", prefix, cause),
		Cause:   cause,
	}
}
