package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	pgdb "github.com/ogurasousui/grpc-employee-records/internal/platform/db/postgres"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var employeeColumnNames = []string{"id", "first_name", "last_name", "position", "department", "salary", "is_employed", "updated_at"}

const testEmployeeID = "0f8fad5b-d9cb-469f-a165-70867728950e"

type stubEmployeeRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubEmployeeRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	updatedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*60*60))

	row := stubEmployeeRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 8 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = testEmployeeID
		*(dest[1].(*string)) = "John"
		*(dest[2].(*string)) = "Doe"
		*(dest[3].(*string)) = "Senior Engineer"
		*(dest[4].(*string)) = "IT"
		*(dest[5].(*float64)) = 50000
		*(dest[6].(*bool)) = true

		updatedDest := dest[7].(*sql.NullTime)
		updatedDest.Time = updatedAt
		updatedDest.Valid = true
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}

	if emp.ID != testEmployeeID || emp.Position != "Senior Engineer" || emp.Salary != 50000 || !emp.IsEmployed {
		t.Fatalf("unexpected employee: %+v", emp)
	}
	if emp.UpdatedAt == nil || !emp.UpdatedAt.Equal(updatedAt) || emp.UpdatedAt.Location() != time.UTC {
		t.Fatalf("expected updatedAt normalized to UTC, got %+v", emp.UpdatedAt)
	}
}

func TestScanEmployee_NullUpdatedAt(t *testing.T) {
	t.Parallel()

	row := stubEmployeeRow{scanFn: func(dest ...interface{}) error {
		*(dest[0].(*string)) = testEmployeeID
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}
	if emp.UpdatedAt != nil {
		t.Fatalf("expected nil updatedAt, got %v", emp.UpdatedAt)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubEmployeeRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: employeeUniqueViolationCode, Detail: "Key (id) already exists."}
	if !errors.Is(translateEmployeePgError(uniqueErr), ErrDuplicateID) {
		t.Fatalf("expected unique violation to map to ErrDuplicateID")
	}

	if !errors.Is(translateEmployeePgError(pgx.ErrNoRows), employee.ErrEmployeeNotFound) {
		t.Fatalf("expected no rows to map to ErrEmployeeNotFound")
	}

	other := errors.New("other")
	if translateEmployeePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}

	if translateEmployeePgError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	input := &employee.Employee{
		ID:         testEmployeeID,
		FirstName:  "John",
		LastName:   "Doe",
		Position:   "Engineer",
		Department: "IT",
		Salary:     50000,
		IsEmployed: true,
	}

	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeSQL)).
		WithArgs(testEmployeeID, "John", "Doe", "Engineer", "IT", 50000.0, true, nil).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow(testEmployeeID, "John", "Doe", "Engineer", "IT", 50000.0, true, nil))

	created, err := repo.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != testEmployeeID || created.UpdatedAt != nil {
		t.Fatalf("unexpected created employee: %+v", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Create_Duplicate(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeSQL)).
		WithArgs(testEmployeeID, "John", "Doe", "Engineer", "IT", 1.0, true, nil).
		WillReturnError(&pgconn.PgError{Code: employeeUniqueViolationCode})

	_, err := repo.Create(context.Background(), &employee.Employee{
		ID: testEmployeeID, FirstName: "John", LastName: "Doe", Position: "Engineer", Department: "IT", Salary: 1, IsEmployed: true,
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestEmployeeRepository_Update(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	updatedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	input := &employee.Employee{
		ID:         testEmployeeID,
		FirstName:  "Jane",
		LastName:   "Doe",
		Position:   "Manager",
		Department: "HR",
		Salary:     60000,
		IsEmployed: true,
		UpdatedAt:  &updatedAt,
	}

	mock.ExpectQuery(regexp.QuoteMeta(updateEmployeeSQL)).
		WithArgs("Jane", "Doe", "Manager", "HR", 60000.0, true, updatedAt, testEmployeeID).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow(testEmployeeID, "Jane", "Doe", "Manager", "HR", 60000.0, true, updatedAt))

	updated, err := repo.Update(context.Background(), input)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.UpdatedAt == nil || !updated.UpdatedAt.Equal(updatedAt) {
		t.Fatalf("expected updatedAt to be returned, got %+v", updated.UpdatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Update_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(updateEmployeeSQL)).
		WithArgs("Jane", "Doe", "Manager", "HR", 1.0, false, nil, testEmployeeID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(context.Background(), &employee.Employee{
		ID: testEmployeeID, FirstName: "Jane", LastName: "Doe", Position: "Manager", Department: "HR", Salary: 1,
	})
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestEmployeeRepository_Delete(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(deleteEmployeeSQL)).
		WithArgs(testEmployeeID).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow(testEmployeeID, "John", "Doe", "Engineer", "IT", 50000.0, false, nil))

	deleted, err := repo.Delete(context.Background(), testEmployeeID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deleted.ID != testEmployeeID || deleted.IsEmployed {
		t.Fatalf("unexpected deleted employee: %+v", deleted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindByID_OutsideTx(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(findEmployeeSQL) + `$`).
		WithArgs(testEmployeeID).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.FindByID(context.Background(), testEmployeeID); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindByID_LocksRowInReadWriteTx(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	tm := pgdb.NewTransactionManager(mock)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery(regexp.QuoteMeta(findEmployeeSQL + " FOR UPDATE")).
		WithArgs(testEmployeeID).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow(testEmployeeID, "John", "Doe", "Engineer", "IT", 50000.0, true, nil))
	mock.ExpectCommit()

	err := tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		found, err := repo.FindByID(ctx, testEmployeeID)
		if err != nil {
			return err
		}
		if found.FirstName != "John" {
			t.Errorf("unexpected employee: %+v", found)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinReadWrite returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_List_PreservesOrder(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesSQL)).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow("id-1", "John", "Doe", "Engineer", "IT", 1.0, true, nil).
			AddRow("id-2", "Jane", "Roe", "Manager", "HR", 2.0, true, nil))

	employees, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(employees) != 2 || employees[0].ID != "id-1" || employees[1].ID != "id-2" {
		t.Fatalf("unexpected employees: %+v", employees)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_List_Empty(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesSQL)).
		WillReturnRows(pgxmock.NewRows(employeeColumnNames))

	employees, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if employees == nil || len(employees) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", employees)
	}
}

func TestEmployeeRepository_Search(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(searchEmployeesSQL)).
		WithArgs("eng").
		WillReturnRows(pgxmock.NewRows(employeeColumnNames).
			AddRow("id-1", "John", "Doe", "Engineer", "IT", 1.0, true, nil))

	employees, err := repo.Search(context.Background(), "eng")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(employees) != 1 || employees[0].Position != "Engineer" {
		t.Fatalf("unexpected employees: %+v", employees)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Search_QueryError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	queryErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(searchEmployeesSQL)).
		WithArgs("x").
		WillReturnError(queryErr)

	if _, err := repo.Search(context.Background(), "x"); !errors.Is(err, queryErr) {
		t.Fatalf("expected query error, got %v", err)
	}
}
