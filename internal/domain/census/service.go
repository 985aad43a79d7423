package census

import (
	"context"
	"time"

	"cendra-go/internal/domain"
	"cendra-go/internal/domain/access"
)

const (
	minYear = 1900
	maxYear = 9999
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// GenerateCensus replaces the census of year with a snapshot of the active
// affiliates. The whole replacement runs in one transaction.
func (s *Service) GenerateCensus(ctx context.Context, p access.Principal, year int) (*Detail, error) {
	scope, err := access.AdminScope(p, access.KindCensus)
	if err != nil {
		return nil, err
	}
	if year < minYear || year > maxYear {
		return nil, domain.NewValidationError("year", "must be a four digit year")
	}

	generatedAt := s.now()
	var result Detail
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteByYear(ctx, scope, year); err != nil {
			return err
		}

		census := Census{EntityID: scope.EntityID(), Year: year, CreatedAt: generatedAt}
		if err := tx.Create(ctx, &census); err != nil {
			return err
		}

		members, err := tx.ActiveMembers(ctx, scope)
		if err != nil {
			return err
		}

		entries := make([]Entry, 0, len(members))
		for _, member := range members {
			entries = append(entries, newEntry(census.ID, member, Classify(member.Birthday, year, generatedAt)))
		}
		if len(entries) > 0 {
			if err := tx.CreateEntries(ctx, entries); err != nil {
				return err
			}
		}

		result = Detail{Census: census, Entries: entries}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListCensuses(ctx context.Context, p access.Principal) ([]Summary, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope)
}

// GetCensus returns a census with its entries. Entries carry identity data,
// so only admins may read them.
func (s *Service) GetCensus(ctx context.Context, p access.Principal, year int) (*Detail, error) {
	scope, err := access.AdminScope(p, access.KindCensus)
	if err != nil {
		return nil, err
	}

	census, err := s.repo.GetByYear(ctx, scope, year)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, census.ID)
	if err != nil {
		return nil, err
	}
	return &Detail{Census: *census, Entries: entries}, nil
}

// ExportCensus returns the entries of the census of year in export order.
func (s *Service) ExportCensus(ctx context.Context, p access.Principal, year int) ([]Entry, error) {
	detail, err := s.GetCensus(ctx, p, year)
	if err != nil {
		return nil, err
	}
	return detail.Entries, nil
}

func newEntry(censusID int64, member Member, commission string) Entry {
	affiliateID := member.AffiliateID
	return Entry{
		CensusID:     censusID,
		AffiliateID:  &affiliateID,
		JCFNumber:    member.JCFNumber,
		CensusNumber: member.CensusNumber,
		Commission:   commission,
		Surnames:     member.Surnames,
		Name:         member.Name,
		Address:      member.Address,
		City:         member.City,
		PostalCode:   member.PostalCode,
		Phone:        member.Phone,
		Birthday:     member.Birthday,
		Gender:       member.Gender,
		DocumentID:   member.DocumentID,
		Position:     member.Position,
	}
}
