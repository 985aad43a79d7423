package treasury

import (
	"context"

	"cendra-go/internal/domain/access"
)

type Repository interface {
	CreateAccount(ctx context.Context, account *Account) error
	ListAccounts(ctx context.Context, scope access.Scope) ([]Account, error)
	GetAccount(ctx context.Context, scope access.Scope, id int64) (*Account, error)
	Totals(ctx context.Context, accountIDs []int64) (map[int64]Totals, error)
	AddMovement(ctx context.Context, movement *Movement) error
	ListMovements(ctx context.Context, accountID int64) ([]Movement, error)
	CountMovements(ctx context.Context, scope access.Scope) (int64, error)
}
