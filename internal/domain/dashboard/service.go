package dashboard

import (
	"context"
	"time"

	"cendra-go/internal/domain/access"
)

type Service struct {
	repo   Repository
	ledger Ledger
	cache  Cache
	ttl    time.Duration
}

func NewService(repo Repository, ledger Ledger, cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, ledger: ledger, cache: cache, ttl: ttl}
}

func (s *Service) Get(ctx context.Context, p access.Principal) (*Dashboard, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}

	overview, err := s.overview(ctx, p, scope)
	if err != nil {
		return nil, err
	}

	result := Dashboard{Overview: *overview}
	if p.HasAffiliate() {
		name, err := s.repo.AffiliateName(ctx, scope, *p.AffiliateID)
		if err != nil {
			return nil, err
		}
		result.AffiliateName = name
	}
	return &result, nil
}

// Invalidate drops the cached overview of the principal's entity.
func (s *Service) Invalidate(ctx context.Context, p access.Principal) {
	if scope, err := p.Scope(); err == nil {
		s.cache.DeleteByEntityID(ctx, scope.EntityID())
	}
}

func (s *Service) overview(ctx context.Context, p access.Principal, scope access.Scope) (*Overview, error) {
	if s.ttl > 0 {
		if cached, ok := s.cache.GetByEntityID(ctx, scope.EntityID()); ok {
			return cached, nil
		}
	}

	members, err := s.repo.CountActiveAffiliates(ctx, scope)
	if err != nil {
		return nil, err
	}
	news, err := s.repo.CountNews(ctx, scope)
	if err != nil {
		return nil, err
	}
	movements, err := s.ledger.CountMovements(ctx, p)
	if err != nil {
		return nil, err
	}
	accounts, err := s.ledger.ListAccounts(ctx, p)
	if err != nil {
		return nil, err
	}

	overview := Overview{
		Members:   members,
		News:      news,
		Movements: movements,
		Accounts:  make([]AccountBalance, 0, len(accounts)),
	}
	for _, account := range accounts {
		overview.Accounts = append(overview.Accounts, AccountBalance{
			ID:      account.ID,
			Name:    account.Name,
			Balance: account.Balance,
		})
	}

	if s.ttl > 0 {
		s.cache.SetByEntityID(ctx, scope.EntityID(), &overview, s.ttl)
	}
	return &overview, nil
}
