package news

import (
	"context"
	"strings"

	"cendra-go/internal/domain"
	"cendra-go/internal/domain/access"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, p access.Principal, filter ListFilter) ([]Record, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope, filter)
}

func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (*Record, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, scope, id)
}

// Create publishes a news item authored by the principal's affiliate.
func (s *Service) Create(ctx context.Context, p access.Principal, input CreateInput) (*Record, error) {
	scope, err := access.AdminScope(p, access.KindNewsItem)
	if err != nil {
		return nil, err
	}
	if !p.HasAffiliate() {
		return nil, domain.NewValidationError("author", "the current user has no affiliate")
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	item := Item{
		EntityID: scope.EntityID(),
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: *p.AffiliateID,
		Photo:    input.Photo,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, scope, item.ID)
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, input UpdateInput) (*Record, error) {
	scope, err := access.AdminScope(p, access.KindNewsItem)
	if err != nil {
		return nil, err
	}

	for _, field := range []*string{input.Title, input.Content} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	item := record.Item
	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Content != nil {
		item.Content = *input.Content
	}
	if input.Photo != nil {
		item.Photo = input.Photo
	}
	if err := s.repo.Update(ctx, scope, &item); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, scope, id)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	scope, err := access.AdminScope(p, access.KindNewsItem)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}
