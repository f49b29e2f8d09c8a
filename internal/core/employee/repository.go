package employee

import "context"

// Repository は社員レコードを挿入順で保持するストアの抽象です。
// 対象が存在しない場合、各メソッドは ErrEmployeeNotFound を返します。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	// Delete は削除したレコードを返します。
	Delete(ctx context.Context, id string) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	Search(ctx context.Context, query string) ([]*Employee, error)
}
