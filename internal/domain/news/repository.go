package news

import (
	"context"

	"cendra-go/internal/domain/access"
)

type Repository interface {
	List(ctx context.Context, scope access.Scope, filter ListFilter) ([]Record, error)
	Get(ctx context.Context, scope access.Scope, id int64) (*Record, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, scope access.Scope, item *Item) error
	Delete(ctx context.Context, scope access.Scope, id int64) error
	Count(ctx context.Context, scope access.Scope) (int64, error)
}
