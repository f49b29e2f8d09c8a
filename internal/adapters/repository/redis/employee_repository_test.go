package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrefix = "hr"
	hashKey    = "hr:employees"
	orderKey   = "hr:employees:order"
	seqKey     = "hr:employees:seq"
)

func sampleEmployee(id string) *employee.Employee {
	return &employee.Employee{
		ID:         id,
		FirstName:  "John",
		LastName:   "Doe",
		Position:   "Engineer",
		Department: "IT",
		Salary:     50000,
		IsEmployed: true,
	}
}

func mustEncode(t *testing.T, e *employee.Employee) string {
	t.Helper()
	payload, err := encodeRecord(e)
	require.NoError(t, err)
	return payload
}

func TestEmployeeRepository_Create(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)
	emp := sampleEmployee("id-1")

	mock.ExpectIncr(seqKey).SetVal(7)
	mock.ExpectTxPipeline()
	mock.ExpectHSet(hashKey, "id-1", mustEncode(t, emp)).SetVal(1)
	mock.ExpectZAddNX(orderKey, goredis.Z{Score: 7, Member: "id-1"}).SetVal(1)
	mock.ExpectTxPipelineExec()

	created, err := repo.Create(context.Background(), emp)
	require.NoError(t, err)
	assert.Equal(t, emp, created)
	assert.NotSame(t, emp, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_SequenceError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)

	mock.ExpectIncr(seqKey).SetErr(errors.New("connection refused"))

	_, err := repo.Create(context.Background(), sampleEmployee("id-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next sequence")
}

func TestEmployeeRepository_Update(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)

	updatedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	emp := sampleEmployee("id-1")
	emp.Position = "Manager"
	emp.UpdatedAt = &updatedAt

	mock.ExpectHExists(hashKey, "id-1").SetVal(true)
	mock.ExpectHSet(hashKey, "id-1", mustEncode(t, emp)).SetVal(0)

	updated, err := repo.Update(context.Background(), emp)
	require.NoError(t, err)
	assert.Equal(t, "Manager", updated.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Update_NotFound(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)

	mock.ExpectHExists(hashKey, "missing").SetVal(false)

	_, err := repo.Update(context.Background(), sampleEmployee("missing"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_FindByID(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)

	updatedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	emp := sampleEmployee("id-1")
	emp.UpdatedAt = &updatedAt

	mock.ExpectHGet(hashKey, "id-1").SetVal(mustEncode(t, emp))
	mock.ExpectHGet(hashKey, "missing").RedisNil()

	found, err := repo.FindByID(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "John", found.FirstName)
	require.NotNil(t, found.UpdatedAt)
	assert.True(t, found.UpdatedAt.Equal(updatedAt))

	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)
	emp := sampleEmployee("id-1")

	mock.ExpectHGet(hashKey, "id-1").SetVal(mustEncode(t, emp))
	mock.ExpectTxPipeline()
	mock.ExpectHDel(hashKey, "id-1").SetVal(1)
	mock.ExpectZRem(orderKey, "id-1").SetVal(1)
	mock.ExpectTxPipelineExec()

	deleted, err := repo.Delete(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", deleted.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Delete_NotFound(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)

	mock.ExpectHGet(hashKey, "missing").RedisNil()

	_, err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_List_PreservesOrderAndSkipsDangling(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)

	first := sampleEmployee("id-2")
	second := sampleEmployee("id-1")
	second.FirstName = "Jane"

	mock.ExpectZRange(orderKey, 0, -1).SetVal([]string{"id-2", "gone", "id-1"})
	mock.ExpectHMGet(hashKey, "id-2", "gone", "id-1").
		SetVal([]interface{}{mustEncode(t, first), nil, mustEncode(t, second)})

	employees, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "id-2", employees[0].ID)
	assert.Equal(t, "id-1", employees[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_List_Empty(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)

	mock.ExpectZRange(orderKey, 0, -1).SetVal([]string{})

	employees, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Search(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewEmployeeRepository(client, testPrefix)

	engineer := sampleEmployee("id-1")
	manager := sampleEmployee("id-2")
	manager.Position = "Manager"
	manager.Department = "HR"
	manager.FirstName = "Jane"
	manager.LastName = "Roe"

	mock.ExpectZRange(orderKey, 0, -1).SetVal([]string{"id-1", "id-2"})
	mock.ExpectHMGet(hashKey, "id-1", "id-2").
		SetVal([]interface{}{mustEncode(t, engineer), mustEncode(t, manager)})

	employees, err := repo.Search(context.Background(), "MANAG")
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "id-2", employees[0].ID)
}

func TestDecodeRecord_Invalid(t *testing.T) {
	_, err := decodeRecord("{not json")
	assert.Error(t, err)
}
