// Package redis は Redis のハッシュとソート済みセットを用いた社員ストアを提供します。
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	goredis "github.com/redis/go-redis/v9"
)

// record は Redis に保存する社員レコードの JSON 表現です。
type record struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	Salary     float64    `json:"salary"`
	IsEmployed bool       `json:"isEmployed"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// EmployeeRepository はレコードを <prefix>:employees ハッシュに、
// 挿入順を <prefix>:employees:order のスコアで保持します。
type EmployeeRepository struct {
	client goredis.UniversalClient
	prefix string
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(client goredis.UniversalClient, prefix string) *EmployeeRepository {
	return &EmployeeRepository{client: client, prefix: prefix}
}

func (r *EmployeeRepository) hashKey() string  { return r.prefix + ":employees" }
func (r *EmployeeRepository) orderKey() string { return r.prefix + ":employees:order" }
func (r *EmployeeRepository) seqKey() string   { return r.prefix + ":employees:seq" }

// Create はレコードを保存します。既存 ID の場合は順序を変えずに上書きします。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	payload, err := encodeRecord(e)
	if err != nil {
		return nil, err
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: next sequence: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, r.hashKey(), e.ID, payload)
		pipe.ZAddNX(ctx, r.orderKey(), goredis.Z{Score: float64(seq), Member: e.ID})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis: create employee: %w", err)
	}

	return e.Clone(), nil
}

// Update は既存レコードを上書きします。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exists, err := r.client.HExists(ctx, r.hashKey(), e.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: check employee: %w", err)
	}
	if !exists {
		return nil, employee.ErrEmployeeNotFound
	}

	payload, err := encodeRecord(e)
	if err != nil {
		return nil, err
	}

	if err := r.client.HSet(ctx, r.hashKey(), e.ID, payload).Err(); err != nil {
		return nil, fmt.Errorf("redis: update employee: %w", err)
	}
	return e.Clone(), nil
}

// Delete はレコードと順序エントリを削除し、削除したレコードを返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*employee.Employee, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HDel(ctx, r.hashKey(), id)
		pipe.ZRem(ctx, r.orderKey(), id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis: delete employee: %w", err)
	}

	return existing, nil
}

// FindByID は ID でレコードを取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	raw, err := r.client.HGet(ctx, r.hashKey(), id).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, employee.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get employee: %w", err)
	}
	return decodeRecord(raw)
}

// List は全レコードを挿入順で返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	ids, err := r.client.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list order: %w", err)
	}

	employees := make([]*employee.Employee, 0, len(ids))
	if len(ids) == 0 {
		return employees, nil
	}

	values, err := r.client.HMGet(ctx, r.hashKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list employees: %w", err)
	}

	for _, value := range values {
		// 順序エントリだけが残っている場合は読み飛ばす
		raw, ok := value.(string)
		if !ok {
			continue
		}
		emp, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

// Search は List の結果を Employee.Matches で絞り込みます。
func (r *EmployeeRepository) Search(ctx context.Context, query string) ([]*employee.Employee, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*employee.Employee, 0, len(all))
	for _, emp := range all {
		if emp.Matches(query) {
			matched = append(matched, emp)
		}
	}
	return matched, nil
}

func encodeRecord(e *employee.Employee) (string, error) {
	rec := record{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Position:   e.Position,
		Department: e.Department,
		Salary:     e.Salary,
		IsEmployed: e.IsEmployed,
	}
	if e.UpdatedAt != nil {
		updated := e.UpdatedAt.UTC()
		rec.UpdatedAt = &updated
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("redis: encode employee %s: %w", e.ID, err)
	}
	return string(b), nil
}

func decodeRecord(raw string) (*employee.Employee, error) {
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("redis: decode employee: %w", err)
	}

	return &employee.Employee{
		ID:         rec.ID,
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Position:   rec.Position,
		Department: rec.Department,
		Salary:     rec.Salary,
		IsEmployed: rec.IsEmployed,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}
