package employee

import (
	"strings"
	"time"
)

// SeniorPrefix は昇進済みの役職に付与される接頭辞です。
const SeniorPrefix = "Senior "

// Employee は社員レコードです。
type Employee struct {
	ID         string
	FirstName  string
	LastName   string
	Position   string
	Department string
	Salary     float64
	IsEmployed bool
	// UpdatedAt は採用時と更新時にのみ設定されます。
	UpdatedAt *time.Time
}

// Fields は採用・更新時にクライアントが指定できる項目です。
type Fields struct {
	FirstName  string  `validate:"notblank"`
	LastName   string  `validate:"notblank"`
	Position   string  `validate:"notblank"`
	Department string  `validate:"notblank"`
	Salary     float64 `validate:"nonzero"`
}

// Clone は Employee のディープコピーを返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	clone := *e
	if e.UpdatedAt != nil {
		updated := *e.UpdatedAt
		clone.UpdatedAt = &updated
	}
	return &clone
}

// IsPromoted は役職が SeniorPrefix で始まるかを返します。
func (e *Employee) IsPromoted() bool {
	return strings.HasPrefix(e.Position, SeniorPrefix)
}

// Matches は名前・役職・部署のいずれかに query が大文字小文字を区別せず含まれるかを判定します。
func (e *Employee) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.FirstName), q) ||
		strings.Contains(strings.ToLower(e.LastName), q) ||
		strings.Contains(strings.ToLower(e.Position), q) ||
		strings.Contains(strings.ToLower(e.Department), q)
}
