package directorate

import (
	"context"

	"cendra-go/internal/domain/access"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListPositions(ctx context.Context, scope access.Scope) ([]Position, error)
	GetPosition(ctx context.Context, scope access.Scope, id int64) (*Position, error)
	CreatePosition(ctx context.Context, position *Position) error
	UpdatePosition(ctx context.Context, scope access.Scope, position *Position) error
	DeletePosition(ctx context.Context, scope access.Scope, id int64) error
	CountByPosition(ctx context.Context, scope access.Scope, positionID int64) (int64, error)

	AffiliateExists(ctx context.Context, scope access.Scope, affiliateID int64) (bool, error)

	ListDirectorates(ctx context.Context, scope access.Scope) ([]Record, error)
	GetDirectorate(ctx context.Context, scope access.Scope, id int64) (*Directorate, error)
	GetByAffiliate(ctx context.Context, scope access.Scope, affiliateID int64) (*Directorate, error)
	CreateDirectorate(ctx context.Context, directorate *Directorate) error
	UpdateDirectorate(ctx context.Context, scope access.Scope, directorate *Directorate) error
	DeleteDirectorate(ctx context.Context, scope access.Scope, id int64) error
}
