// Package events は社員ライフサイクルイベントのメッセージ形式を定義します。
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
)

// ContentType はメッセージ本文の形式です。
const ContentType = "application/json"

// EmployeeSnapshot はイベント時点の社員レコードです。
type EmployeeSnapshot struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	Salary     float64    `json:"salary"`
	IsEmployed bool       `json:"isEmployed"`
	UpdatedAt  *time.Time `json:"updatedAt"`
}

// Payload はブローカーへ送信するイベント本文です。
type Payload struct {
	Type       string            `json:"type"`
	EmployeeID string            `json:"employeeId"`
	OccurredAt time.Time         `json:"occurredAt"`
	Employee   *EmployeeSnapshot `json:"employee,omitempty"`
}

// Encode はイベントを JSON にエンコードします。
func Encode(event employee.Event) ([]byte, error) {
	payload := Payload{
		Type:       string(event.Type),
		EmployeeID: event.EmployeeID,
		OccurredAt: event.OccurredAt.UTC(),
	}

	if e := event.Employee; e != nil {
		payload.Employee = &EmployeeSnapshot{
			ID:         e.ID,
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Position:   e.Position,
			Department: e.Department,
			Salary:     e.Salary,
			IsEmployed: e.IsEmployed,
			UpdatedAt:  e.UpdatedAt,
		}
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: encode %s: %w", event.Type, err)
	}
	return b, nil
}
