// Package memory は挿入順を保持するインメモリの社員ストアを提供します。
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
)

// ErrReadOnly は読み取り専用スコープ内で書き込みが行われた場合に返されます。
var ErrReadOnly = errors.New("memory: write inside read-only scope")

type scopeContextKey struct{}

type scope struct {
	store    *EmployeeRepository
	readOnly bool
}

// EmployeeRepository は id をキーとする順序付きマップです。
// 上書きは元の位置を保持し、削除のみが順序から取り除きます。
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]*employee.Employee
	order     []string
}

// NewEmployeeRepository は空のストアを生成します。
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]*employee.Employee)}
}

// Create は新しいキーでレコードを挿入します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	unlock, err := r.lockWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, exists := r.employees[e.ID]; !exists {
		r.order = append(r.order, e.ID)
	}
	r.employees[e.ID] = e.Clone()
	return e.Clone(), nil
}

// Update は既存レコードを上書きします。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	unlock, err := r.lockWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, exists := r.employees[e.ID]; !exists {
		return nil, employee.ErrEmployeeNotFound
	}
	r.employees[e.ID] = e.Clone()
	return e.Clone(), nil
}

// Delete はレコードを取り除き、取り除いたレコードを返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*employee.Employee, error) {
	unlock, err := r.lockWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	emp, exists := r.employees[id]
	if !exists {
		return nil, employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	for idx, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return emp, nil
}

// FindByID は id でレコードを取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	unlock := r.lockRead(ctx)
	defer unlock()

	emp, exists := r.employees[id]
	if !exists {
		return nil, employee.ErrEmployeeNotFound
	}
	return emp.Clone(), nil
}

// List は全レコードを挿入順で返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	unlock := r.lockRead(ctx)
	defer unlock()

	out := make([]*employee.Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.employees[id].Clone())
	}
	return out, nil
}

// Search は query に一致するレコードを挿入順で返します。
func (r *EmployeeRepository) Search(ctx context.Context, query string) ([]*employee.Employee, error) {
	unlock := r.lockRead(ctx)
	defer unlock()

	out := make([]*employee.Employee, 0)
	for _, id := range r.order {
		emp := r.employees[id]
		if emp.Matches(query) {
			out = append(out, emp.Clone())
		}
	}
	return out, nil
}

// Len は保持しているレコード数を返します。
func (r *EmployeeRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.employees)
}

func (r *EmployeeRepository) lockRead(ctx context.Context) func() {
	if s, ok := scopeFromContext(ctx); ok && s.store == r {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

func (r *EmployeeRepository) lockWrite(ctx context.Context) (func(), error) {
	if s, ok := scopeFromContext(ctx); ok && s.store == r {
		if s.readOnly {
			return nil, ErrReadOnly
		}
		return func() {}, nil
	}
	r.mu.Lock()
	return r.mu.Unlock, nil
}

func scopeFromContext(ctx context.Context) (scope, bool) {
	if ctx == nil {
		return scope{}, false
	}
	s, ok := ctx.Value(scopeContextKey{}).(scope)
	return s, ok
}
