package employee

import (
	"context"
	"time"
)

// EventType は社員ライフサイクルイベントの種別です。
type EventType string

const (
	EventHired           EventType = "employee.hired"
	EventUpdated         EventType = "employee.updated"
	EventFired           EventType = "employee.fired"
	EventPromoted        EventType = "employee.promoted"
	EventDemoted         EventType = "employee.demoted"
	EventSalaryIncreased EventType = "employee.salary_increased"
	EventDeleted         EventType = "employee.deleted"
)

// Event は変更操作の成功後に発行されるイベントです。
type Event struct {
	Type       EventType
	EmployeeID string
	Employee   *Employee
	OccurredAt time.Time
}

// EventPublisher はイベント発行の抽象です。
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, Event) error {
	return nil
}
