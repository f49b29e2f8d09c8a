package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator は社員 ID を採番します。
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	opHire     = "Error hiring employee"
	opGet      = "Error getting employee"
	opList     = "Error getting employees"
	opSearch   = "Error searching for an employee"
	opUpdate   = "Error updating employee"
	opFire     = "Error firing employee"
	opPromote  = "Error promoting employee"
	opDemote   = "Error demoting employee"
	opIncrease = "Error increasing salary"
	opDelete   = "Error deleting employee"
)

// Service は社員レコードに関するユースケースをまとめます。
type Service struct {
	repo      Repository
	clock     Clock
	tx        TransactionManager
	ids       IDGenerator
	publisher EventPublisher
	validate  *validator.Validate
	logger    *zap.Logger
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	HireEmployee(ctx context.Context, in Fields) (*Employee, error)
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	GetEmployees(ctx context.Context) ([]*Employee, error)
	SearchEmployees(ctx context.Context, query string) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	FireEmployee(ctx context.Context, id string) (*Employee, error)
	PromoteEmployee(ctx context.Context, id string) (*Employee, error)
	DemoteEmployee(ctx context.Context, id string) (*Employee, error)
	IncreaseSalary(ctx context.Context, in IncreaseSalaryInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, id string) (*Employee, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithEventPublisher はイベント発行先を設定します。
func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithIDGenerator は ID 採番を差し替えます。
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.Named("employee.service")
		}
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		repo:      repo,
		clock:     clock,
		tx:        tx,
		ids:       uuidGenerator{},
		publisher: noopEventPublisher{},
		validate:  newValidator(),
		logger:    zap.L().Named("employee.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateEmployeeInput は社員更新時の入力です。
type UpdateEmployeeInput struct {
	ID    string
	Patch Fields
}

// IncreaseSalaryInput は昇給時の入力です。amount の符号は検証しません。
type IncreaseSalaryInput struct {
	ID     string
	Amount float64
}

// HireEmployee は新しい社員を採用します。クライアント指定の ID と在籍状態は無視されます。
func (s *Service) HireEmployee(ctx context.Context, in Fields) (result *Employee, err error) {
	defer guard(s.logger, opHire, &result, &err)

	if err := s.validateFields(in); err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		emp := &Employee{
			ID:         s.ids.NewID(),
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			Position:   in.Position,
			Department: in.Department,
			Salary:     in.Salary,
			IsEmployed: true,
			UpdatedAt:  &now,
		}

		res, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}
		created = res
		return nil
	}); err != nil {
		return nil, s.fail(opHire, err)
	}

	s.logger.Info("employee hired", zap.String("employee_id", created.ID))
	s.publish(ctx, EventHired, created)
	return created, nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, id string) (result *Employee, err error) {
	defer guard(s.logger, opGet, &result, &err)

	var found *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, ErrEmployeeNotFound) {
				return notFound(id)
			}
			return err
		}
		found = emp
		return nil
	}); err != nil {
		return nil, s.fail(opGet, err)
	}

	return found, nil
}

// GetEmployees は全社員をストアの順序で返します。
func (s *Service) GetEmployees(ctx context.Context) (result []*Employee, err error) {
	defer guard(s.logger, opList, &result, &err)

	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		list, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		employees = list
		return nil
	}); err != nil {
		return nil, s.fail(opList, err)
	}

	if employees == nil {
		employees = []*Employee{}
	}
	return employees, nil
}

// SearchEmployees は名前・役職・部署に query を含む社員を返します。空文字列は全件に一致します。
func (s *Service) SearchEmployees(ctx context.Context, query string) (result []*Employee, err error) {
	defer guard(s.logger, opSearch, &result, &err)

	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		list, err := s.repo.Search(txCtx, query)
		if err != nil {
			return err
		}
		employees = list
		return nil
	}); err != nil {
		return nil, s.fail(opSearch, err)
	}

	if employees == nil {
		employees = []*Employee{}
	}
	return employees, nil
}

// UpdateEmployee は既存レコードに patch を上書きします。
// 検証はマージ後ではなく patch 自体に対して行います。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (result *Employee, err error) {
	defer guard(s.logger, opUpdate, &result, &err)

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			if errors.Is(err, ErrEmployeeNotFound) {
				return newError(ErrEmployeeNotFound, "Employee with id=%s does not exist", in.ID)
			}
			return err
		}

		if err := s.validateFields(in.Patch); err != nil {
			return err
		}

		now := s.clock.Now()
		existing.FirstName = in.Patch.FirstName
		existing.LastName = in.Patch.LastName
		existing.Position = in.Patch.Position
		existing.Department = in.Patch.Department
		existing.Salary = in.Patch.Salary
		existing.UpdatedAt = &now

		res, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = res
		return nil
	}); err != nil {
		return nil, s.fail(opUpdate, err)
	}

	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

// FireEmployee は社員を退職状態にします。レコードは削除されず、UpdatedAt も変更されません。
func (s *Service) FireEmployee(ctx context.Context, id string) (*Employee, error) {
	return s.mutate(ctx, id, opFire, EventFired, func(emp *Employee) error {
		if !emp.IsEmployed {
			return newError(ErrAlreadyTerminated, "Employee with id=%s is already terminated", id)
		}
		emp.IsEmployed = false
		return nil
	})
}

// PromoteEmployee は役職に SeniorPrefix を付与します。
func (s *Service) PromoteEmployee(ctx context.Context, id string) (*Employee, error) {
	return s.mutate(ctx, id, opPromote, EventPromoted, func(emp *Employee) error {
		if emp.IsPromoted() {
			return newError(ErrAlreadyPromoted, "Employee with id=%s is already promoted", id)
		}
		emp.Position = SeniorPrefix + emp.Position
		return nil
	})
}

// DemoteEmployee は役職から SeniorPrefix を取り除きます。
func (s *Service) DemoteEmployee(ctx context.Context, id string) (*Employee, error) {
	return s.mutate(ctx, id, opDemote, EventDemoted, func(emp *Employee) error {
		if !emp.IsPromoted() {
			return newError(ErrNotPromoted, "Employee with id=%s is not promoted", id)
		}
		emp.Position = strings.TrimPrefix(emp.Position, SeniorPrefix)
		return nil
	})
}

// IncreaseSalary は給与に amount を加算します。負の値も受け付けます。
func (s *Service) IncreaseSalary(ctx context.Context, in IncreaseSalaryInput) (*Employee, error) {
	return s.mutate(ctx, in.ID, opIncrease, EventSalaryIncreased, func(emp *Employee) error {
		emp.Salary += in.Amount
		return nil
	})
}

// DeleteEmployee はレコードを物理削除し、削除したレコードを返します。
func (s *Service) DeleteEmployee(ctx context.Context, id string) (result *Employee, err error) {
	defer guard(s.logger, opDelete, &result, &err)

	if !IsValidID(id) {
		return nil, newError(ErrInvalidID, "Invalid employee ID")
	}

	var deleted *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.Delete(txCtx, id)
		if err != nil {
			if errors.Is(err, ErrEmployeeNotFound) {
				return newError(ErrEmployeeNotFound, "Employee with ID %s does not exist", id)
			}
			return err
		}
		deleted = emp
		return nil
	}); err != nil {
		return nil, s.fail(opDelete, err)
	}

	s.logger.Info("employee deleted", zap.String("employee_id", id))
	s.publish(ctx, EventDeleted, deleted)
	return deleted, nil
}

// mutate は取得・変更・保存を 1 トランザクションで行います。UpdatedAt は変更しません。
func (s *Service) mutate(ctx context.Context, id, op string, event EventType, apply func(*Employee) error) (result *Employee, err error) {
	defer guard(s.logger, op, &result, &err)

	var saved *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, ErrEmployeeNotFound) {
				return notFound(id)
			}
			return err
		}

		if err := apply(existing); err != nil {
			return err
		}

		res, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		saved = res
		return nil
	}); err != nil {
		return nil, s.fail(op, err)
	}

	s.publish(ctx, event, saved)
	return saved, nil
}

// fail はドメインエラーをそのまま返し、それ以外を内部エラーに変換します。
func (s *Service) fail(op string, err error) error {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	s.logger.Error("repository failure", zap.String("operation", op), zap.Error(err))
	return internal(op, err)
}

func (s *Service) publish(ctx context.Context, eventType EventType, emp *Employee) {
	if emp == nil {
		return
	}
	event := Event{
		Type:       eventType,
		EmployeeID: emp.ID,
		Employee:   emp.Clone(),
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish employee event failed",
			zap.String("event_type", string(eventType)),
			zap.String("employee_id", emp.ID),
			zap.Error(err),
		)
	}
}

// guard は panic を内部エラーへ変換し、結果をゼロ値に戻します。
func guard[T any](logger *zap.Logger, op string, result *T, err *error) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error("recovered from panic", zap.String("operation", op), zap.Any("panic", r))
	var zero T
	*result = zero
	*err = internal(op, fmt.Errorf("panic: %v", r))
}
