package directorate

import (
	"context"
	"errors"
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

func (s *Service) ListPositions(ctx context.Context, p access.Principal) ([]Position, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.repo.ListPositions(ctx, scope)
}

func (s *Service) CreatePosition(ctx context.Context, p access.Principal, input PositionInput) (*Position, error) {
	scope, err := access.AdminScope(p, access.KindPosition)
	if err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	position := Position{EntityID: scope.EntityID(), Name: input.Name, Priority: input.Priority}
	if err := s.repo.CreatePosition(ctx, &position); err != nil {
		return nil, err
	}
	return &position, nil
}

func (s *Service) UpdatePosition(ctx context.Context, p access.Principal, id int64, input PositionUpdate) (*Position, error) {
	scope, err := access.AdminScope(p, access.KindPosition)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	position, err := s.repo.GetPosition(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		position.Name = *input.Name
	}
	if input.Priority != nil {
		position.Priority = *input.Priority
	}
	if err := s.repo.UpdatePosition(ctx, scope, position); err != nil {
		return nil, err
	}
	return position, nil
}

// RemovePosition deletes a position no directorate refers to.
func (s *Service) RemovePosition(ctx context.Context, p access.Principal, id int64) error {
	scope, err := access.AdminScope(p, access.KindPosition)
	if err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetPosition(ctx, scope, id); err != nil {
			return err
		}
		count, err := tx.CountByPosition(ctx, scope, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrPositionInUse
		}
		return tx.DeletePosition(ctx, scope, id)
	})
}

func (s *Service) ListDirectorates(ctx context.Context, p access.Principal) ([]Record, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.repo.ListDirectorates(ctx, scope)
}

// AssignDirectorate gives an affiliate a position. An affiliate holds at most
// one directorate.
func (s *Service) AssignDirectorate(ctx context.Context, p access.Principal, input AssignInput) (*Directorate, error) {
	scope, err := access.AdminScope(p, access.KindDirectorate)
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	var result Directorate
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := checkReferences(ctx, tx, scope, input); err != nil {
			return err
		}

		_, err := tx.GetByAffiliate(ctx, scope, input.AffiliateID)
		if err == nil {
			return ErrAffiliateHasDirectorate
		}
		if !errors.Is(err, ErrDirectorateNotFound) {
			return err
		}

		result = Directorate{
			EntityID:    scope.EntityID(),
			AffiliateID: input.AffiliateID,
			PositionID:  input.PositionID,
		}
		return tx.CreateDirectorate(ctx, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) UpdateDirectorate(ctx context.Context, p access.Principal, id int64, input AssignInput) (*Directorate, error) {
	scope, err := access.AdminScope(p, access.KindDirectorate)
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	var result Directorate
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetDirectorate(ctx, scope, id)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, scope, input); err != nil {
			return err
		}

		holder, err := tx.GetByAffiliate(ctx, scope, input.AffiliateID)
		switch {
		case err == nil && holder.ID != current.ID:
			return ErrAffiliateHasDirectorate
		case err != nil && !errors.Is(err, ErrDirectorateNotFound):
			return err
		}

		current.AffiliateID = input.AffiliateID
		current.PositionID = input.PositionID
		if err := tx.UpdateDirectorate(ctx, scope, current); err != nil {
			return err
		}
		result = *current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) RemoveDirectorate(ctx context.Context, p access.Principal, id int64) error {
	scope, err := access.AdminScope(p, access.KindDirectorate)
	if err != nil {
		return err
	}
	return s.repo.DeleteDirectorate(ctx, scope, id)
}

func checkReferences(ctx context.Context, repo Repository, scope access.Scope, input AssignInput) error {
	exists, err := repo.AffiliateExists(ctx, scope, input.AffiliateID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAffiliateNotFound
	}
	_, err = repo.GetPosition(ctx, scope, input.PositionID)
	return err
}
