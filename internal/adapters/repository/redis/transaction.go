package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 5 * time.Second
	defaultLockRetry = 20 * time.Millisecond
)

// ErrLockNotAcquired はロックを取得する前にコンテキストが終了した場合に返されます。
var ErrLockNotAcquired = errors.New("redis: employee lock not acquired")

// 自分のトークンを持つ場合のみ解放する
var releaseLockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type lockContextKey struct{}

// TransactionManager は <prefix>:employees:lock による排他で読み書き操作を直列化します。
// 複数のサーバープロセスが同じ Redis を共有しても読み取りから書き込みまでが競合しません。
type TransactionManager struct {
	client  goredis.UniversalClient
	lockKey string
	ttl     time.Duration
	retry   time.Duration
	tokens  func() string
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(client goredis.UniversalClient, prefix string) *TransactionManager {
	return &TransactionManager{
		client:  client,
		lockKey: prefix + ":employees:lock",
		ttl:     defaultLockTTL,
		retry:   defaultLockRetry,
		tokens:  uuid.NewString,
	}
}

// WithinReadOnly は fn をそのまま実行します。各読み取りは単一コマンドで完結します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("redis: transaction function is required")
	}
	return fn(ctx)
}

// WithinReadWrite はロックを取得して fn を実行し、終了後 (panic を含む) に解放します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) (err error) {
	if fn == nil {
		return fmt.Errorf("redis: transaction function is required")
	}

	if held, _ := ctx.Value(lockContextKey{}).(string); held == m.lockKey {
		return fn(ctx)
	}

	token := m.tokens()
	if err := m.acquire(ctx, token); err != nil {
		return err
	}

	defer func() {
		// 呼び出し元のキャンセルに関係なく解放する
		releaseCtx := context.WithoutCancel(ctx)
		if releaseErr := releaseLockScript.Run(releaseCtx, m.client, []string{m.lockKey}, token).Err(); releaseErr != nil {
			err = errors.Join(err, fmt.Errorf("redis: release lock: %w", releaseErr))
		}
	}()

	return fn(context.WithValue(ctx, lockContextKey{}, m.lockKey))
}

func (m *TransactionManager) acquire(ctx context.Context, token string) error {
	ticker := time.NewTicker(m.retry)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrLockNotAcquired, err)
		}

		ok, err := m.client.SetNX(ctx, m.lockKey, token, m.ttl).Result()
		if err != nil {
			return fmt.Errorf("redis: acquire lock: %w", err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrLockNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}
