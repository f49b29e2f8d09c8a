package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	pgdb "github.com/ogurasousui/grpc-employee-records/internal/platform/db/postgres"
)

const employeeUniqueViolationCode = "23505"

// ErrDuplicateID は同じ ID のレコードが既に存在する場合に返されます。
var ErrDuplicateID = errors.New("postgres: duplicate employee id")

const employeeColumns = `id, first_name, last_name, position, department, salary, is_employed, updated_at`

const (
	insertEmployeeSQL = `
        INSERT INTO employees (` + employeeColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + employeeColumns

	updateEmployeeSQL = `
        UPDATE employees
           SET first_name = $1,
               last_name = $2,
               position = $3,
               department = $4,
               salary = $5,
               is_employed = $6,
               updated_at = $7
         WHERE id = $8
        RETURNING ` + employeeColumns

	deleteEmployeeSQL = `DELETE FROM employees WHERE id = $1 RETURNING ` + employeeColumns

	findEmployeeSQL = `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	listEmployeesSQL = `SELECT ` + employeeColumns + ` FROM employees ORDER BY seq`

	// strpos は LIKE と異なりワイルドカードを解釈しない
	searchEmployeesSQL = `
        SELECT ` + employeeColumns + `
          FROM employees
         WHERE strpos(lower(first_name), lower($1)) > 0
            OR strpos(lower(last_name), lower($1)) > 0
            OR strpos(lower(position), lower($1)) > 0
            OR strpos(lower(department), lower($1)) > 0
         ORDER BY seq`
)

// EmployeeRepository は PostgreSQL を利用した社員ストアの実装です。
// 挿入順は seq 列で保持します。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, insertEmployeeSQL,
		e.ID,
		e.FirstName,
		e.LastName,
		e.Position,
		e.Department,
		e.Salary,
		e.IsEmployed,
		nullableTime(e.UpdatedAt),
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員レコードを上書きします。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, updateEmployeeSQL,
		e.FirstName,
		e.LastName,
		e.Position,
		e.Department,
		e.Salary,
		e.IsEmployed,
		nullableTime(e.UpdatedAt),
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除し、削除した行を返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	deleted, err := scanEmployee(exec.QueryRow(ctx, deleteEmployeeSQL, id))
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return deleted, nil
}

// FindByID は ID で社員を取得します。読み書きトランザクション内では行ロックを取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	query := findEmployeeSQL
	if pgdb.InReadWriteTx(ctx) {
		query += " FOR UPDATE"
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanEmployee(exec.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は全社員を挿入順で取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	return r.query(ctx, listEmployeesSQL)
}

// Search は名前・役職・部署に query を含む社員を挿入順で取得します。
func (r *EmployeeRepository) Search(ctx context.Context, query string) ([]*employee.Employee, error) {
	return r.query(ctx, searchEmployeesSQL, query)
}

func (r *EmployeeRepository) query(ctx context.Context, sql string, args ...any) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		emp       employee.Employee
		updatedAt sql.NullTime
	)

	if err := row.Scan(
		&emp.ID,
		&emp.FirstName,
		&emp.LastName,
		&emp.Position,
		&emp.Department,
		&emp.Salary,
		&emp.IsEmployed,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		emp.UpdatedAt = &t
	}

	return &emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == employeeUniqueViolationCode {
		return fmt.Errorf("%w: %s", ErrDuplicateID, pgErr.Detail)
	}

	return err
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}
