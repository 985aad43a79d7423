package census

import (
	"context"

	"cendra-go/internal/domain/access"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	DeleteByYear(ctx context.Context, scope access.Scope, year int) error
	Create(ctx context.Context, census *Census) error
	CreateEntries(ctx context.Context, entries []Entry) error
	ActiveMembers(ctx context.Context, scope access.Scope) ([]Member, error)
	List(ctx context.Context, scope access.Scope) ([]Summary, error)
	GetByYear(ctx context.Context, scope access.Scope, year int) (*Census, error)
	ListEntries(ctx context.Context, censusID int64) ([]Entry, error)
}
