package memory

import (
	"context"
	"fmt"
)

// TransactionManager はストアのロックを 1 操作の間保持することで読み取りから書き込みまでを直列化します。
type TransactionManager struct {
	store *EmployeeRepository
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(store *EmployeeRepository) *TransactionManager {
	return &TransactionManager{store: store}
}

// WithinReadOnly は共有ロックを取得して fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return m.within(ctx, true, fn)
}

// WithinReadWrite は排他ロックを取得して fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return m.within(ctx, false, fn)
}

func (m *TransactionManager) within(ctx context.Context, readOnly bool, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("memory: transaction function is required")
	}

	if s, ok := scopeFromContext(ctx); ok && s.store == m.store {
		if s.readOnly && !readOnly {
			return ErrReadOnly
		}
		return fn(ctx)
	}

	if readOnly {
		m.store.mu.RLock()
		defer m.store.mu.RUnlock()
	} else {
		m.store.mu.Lock()
		defer m.store.mu.Unlock()
	}

	return fn(context.WithValue(ctx, scopeContextKey{}, scope{store: m.store, readOnly: readOnly}))
}
