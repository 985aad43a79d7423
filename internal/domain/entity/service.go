package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cendra-go/internal/domain"
	"cendra-go/internal/domain/access"
)

type Service struct {
	repo    Repository
	secrets SecretHasher
	uploads Uploads
}

func NewService(repo Repository, secrets SecretHasher, uploads Uploads) *Service {
	return &Service{repo: repo, secrets: secrets, uploads: uploads}
}

func (s *Service) ListPublic(ctx context.Context, filter PublicFilter) ([]PublicEntity, error) {
	return s.repo.ListPublic(ctx, filter)
}

// CreateEntity registers a new entity and makes the principal its admin.
func (s *Service) CreateEntity(ctx context.Context, p access.Principal, input CreateInput) (*Entity, error) {
	if p.HasEntity() {
		return nil, ErrAlreadyMember
	}

	entity := input.toEntity()
	entity.Normalize()
	if err := validateCreate(input, entity); err != nil {
		return nil, err
	}

	hash, err := s.secrets.Hash(input.JoinPassword)
	if err != nil {
		return nil, err
	}
	entity.JoinPasswordHash = hash

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &entity); err != nil {
			return err
		}
		return tx.AttachUser(ctx, p.UserID, entity.ID, true, p.Onboarding.Advance(access.StageAffiliateSetup))
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *Service) GetEntity(ctx context.Context, p access.Principal) (*Entity, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, scope)
}

func (s *Service) UpdateEntity(ctx context.Context, p access.Principal, input UpdateInput) (*Entity, error) {
	scope, err := access.AdminScope(p, access.KindEntity)
	if err != nil {
		return nil, err
	}

	input.trim()
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	entity, err := s.repo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	input.apply(entity)
	entity.Normalize()
	if err := validateFiscal(*entity); err != nil {
		return nil, err
	}

	if input.JoinPassword != nil {
		hash, err := s.secrets.Hash(*input.JoinPassword)
		if err != nil {
			return nil, err
		}
		entity.JoinPasswordHash = hash
	}

	if err := s.repo.Update(ctx, scope, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// JoinEntity adds the principal to an existing entity as a regular member.
// An unknown entity and a wrong password fail the same way.
func (s *Service) JoinEntity(ctx context.Context, p access.Principal, input JoinInput) (*Entity, error) {
	if p.HasEntity() {
		return nil, ErrAlreadyMember
	}
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	var result Entity
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		entity, err := tx.GetByID(ctx, input.EntityID)
		if errors.Is(err, ErrEntityNotFound) {
			return ErrIncorrectPassword
		}
		if err != nil {
			return err
		}

		ok, err := s.secrets.Verify(input.Password, entity.JoinPasswordHash)
		if err != nil {
			return err
		}
		if !ok {
			return ErrIncorrectPassword
		}

		if err := tx.AttachUser(ctx, p.UserID, entity.ID, false, p.Onboarding.Advance(access.StageAffiliateSetup)); err != nil {
			return err
		}
		result = *entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) SetLogo(ctx context.Context, p access.Principal) (*LogoUpload, error) {
	scope, err := access.AdminScope(p, access.KindEntity)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("entities/%d/logo-%s", scope.EntityID(), uuid.NewString())
	url, err := s.uploads.PresignUpload(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLogo(ctx, scope, key); err != nil {
		return nil, err
	}
	return &LogoUpload{EntityID: scope.EntityID(), Key: key, UploadURL: url}, nil
}

func validateCreate(input CreateInput, entity Entity) error {
	verr := &domain.ValidationError{}
	if err := verr.Merge(domain.Validate(input)); err != nil {
		return err
	}
	if err := verr.Merge(validateFiscal(entity)); err != nil {
		return err
	}
	return verr.OrNil()
}

// validateFiscal requires a full fiscal address when it differs from the
// social one.
func validateFiscal(entity Entity) error {
	if entity.IsSameAddress {
		return nil
	}
	verr := &domain.ValidationError{}
	for field, value := range map[string]string{
		"fiscal_address":     entity.FiscalAddress,
		"fiscal_postal_code": entity.FiscalPostalCode,
		"fiscal_city":        entity.FiscalCity,
		"fiscal_province":    entity.FiscalProvince,
		"fiscal_country":     entity.FiscalCountry,
	} {
		if value == "" {
			verr.Add(field, "is required when the fiscal address differs")
		}
	}
	return verr.OrNil()
}

func (in CreateInput) toEntity() Entity {
	sameAddress := true
	if in.IsSameAddress != nil {
		sameAddress = *in.IsSameAddress
	}
	return Entity{
		Name:             strings.TrimSpace(in.Name),
		Phone:            strings.TrimSpace(in.Phone),
		Email:            strings.TrimSpace(in.Email),
		BusinessName:     strings.TrimSpace(in.BusinessName),
		NIF:              strings.ToUpper(strings.TrimSpace(in.NIF)),
		RegistryNumber:   strings.TrimSpace(in.RegistryNumber),
		SocialAddress:    strings.TrimSpace(in.SocialAddress),
		PostalCode:       strings.TrimSpace(in.PostalCode),
		City:             strings.TrimSpace(in.City),
		Province:         strings.TrimSpace(in.Province),
		Country:          strings.TrimSpace(in.Country),
		IsSameAddress:    sameAddress,
		FiscalAddress:    strings.TrimSpace(in.FiscalAddress),
		FiscalPostalCode: strings.TrimSpace(in.FiscalPostalCode),
		FiscalCity:       strings.TrimSpace(in.FiscalCity),
		FiscalProvince:   strings.TrimSpace(in.FiscalProvince),
		FiscalCountry:    strings.TrimSpace(in.FiscalCountry),
	}
}

func (in *UpdateInput) trim() {
	for _, field := range []*string{
		in.Name, in.Phone, in.Email, in.BusinessName, in.NIF, in.RegistryNumber,
		in.SocialAddress, in.PostalCode, in.City, in.Province, in.Country,
		in.FiscalAddress, in.FiscalPostalCode, in.FiscalCity, in.FiscalProvince, in.FiscalCountry,
	} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if in.NIF != nil {
		*in.NIF = strings.ToUpper(*in.NIF)
	}
}

func (in UpdateInput) apply(e *Entity) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.Name, in.Name)
	set(&e.Phone, in.Phone)
	set(&e.Email, in.Email)
	set(&e.BusinessName, in.BusinessName)
	set(&e.NIF, in.NIF)
	set(&e.RegistryNumber, in.RegistryNumber)
	set(&e.SocialAddress, in.SocialAddress)
	set(&e.PostalCode, in.PostalCode)
	set(&e.City, in.City)
	set(&e.Province, in.Province)
	set(&e.Country, in.Country)
	set(&e.FiscalAddress, in.FiscalAddress)
	set(&e.FiscalPostalCode, in.FiscalPostalCode)
	set(&e.FiscalCity, in.FiscalCity)
	set(&e.FiscalProvince, in.FiscalProvince)
	set(&e.FiscalCountry, in.FiscalCountry)
	if in.IsSameAddress != nil {
		e.IsSameAddress = *in.IsSameAddress
	}
}
