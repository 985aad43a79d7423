package dashboard

import (
	"context"

	"cendra-go/internal/domain/access"
	"cendra-go/internal/domain/treasury"
)

type Repository interface {
	CountActiveAffiliates(ctx context.Context, scope access.Scope) (int64, error)
	CountNews(ctx context.Context, scope access.Scope) (int64, error)
	AffiliateName(ctx context.Context, scope access.Scope, affiliateID int64) (*string, error)
}

// Ledger is the part of the treasury the dashboard reads.
type Ledger interface {
	ListAccounts(ctx context.Context, p access.Principal) ([]treasury.AccountBalance, error)
	CountMovements(ctx context.Context, p access.Principal) (int64, error)
}
