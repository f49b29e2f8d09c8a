package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	occurred := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("JST", 9*60*60))

	b, err := Encode(employee.Event{
		Type:       employee.EventPromoted,
		EmployeeID: "id-1",
		OccurredAt: occurred,
		Employee: &employee.Employee{
			ID:         "id-1",
			FirstName:  "John",
			LastName:   "Doe",
			Position:   "Senior Engineer",
			Department: "IT",
			Salary:     50000,
			IsEmployed: true,
		},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "employee.promoted", decoded["type"])
	assert.Equal(t, "id-1", decoded["employeeId"])
	assert.Equal(t, "2024-01-01T18:04:05Z", decoded["occurredAt"])

	snapshot, ok := decoded["employee"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Senior Engineer", snapshot["position"])
	assert.Nil(t, snapshot["updatedAt"])
}

func TestEncode_WithoutEmployee(t *testing.T) {
	b, err := Encode(employee.Event{Type: employee.EventDeleted, EmployeeID: "id-1"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"employee":`)
}
