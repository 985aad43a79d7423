package affiliate

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
	uploads Uploads
}

func NewService(repo Repository, uploads Uploads) *Service {
	return &Service{repo: repo, uploads: uploads}
}

func (s *Service) CreateAffiliate(ctx context.Context, p access.Principal, input CreateInput) (*Record, error) {
	scope, err := access.AdminScope(p, access.KindAffiliate)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, scope, input, nil)
}

// RegisterSelf lets a principal in onboarding create its own affiliate and
// completes the onboarding.
func (s *Service) RegisterSelf(ctx context.Context, p access.Principal, input CreateInput) (*Record, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	if p.HasAffiliate() {
		return nil, ErrAlreadyRegistered
	}
	return s.create(ctx, scope, input, &p)
}

func (s *Service) create(ctx context.Context, scope access.Scope, input CreateInput, owner *access.Principal) (*Record, error) {
	normalizeCreate(&input)
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	affiliate := Affiliate{
		EntityID:      scope.EntityID(),
		CensusNumber:  input.CensusNumber,
		JCFNumber:     input.JCFNumber,
		Name:          input.Name,
		Surnames:      input.Surnames,
		DocumentType:  input.DocumentType,
		DocumentID:    input.DocumentID,
		Email:         input.Email,
		Phone:         input.Phone,
		Photo:         DefaultPhoto,
		Birthday:      input.Birthday,
		Gender:        input.Gender,
		Address:       input.Address,
		PostalCode:    input.PostalCode,
		City:          input.City,
		Province:      input.Province,
		Country:       input.Country,
		HasLegalTutor: input.HasLegalTutor,
		LegalTutorID:  input.LegalTutorID,
		Active:        true,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := checkLegalTutor(ctx, tx, scope, 0, affiliate.LegalTutorID); err != nil {
			return err
		}
		if err := tx.Create(ctx, &affiliate); err != nil {
			return err
		}
		if input.PaymentChoice != nil {
			choice := PaymentChoice{AffiliateID: affiliate.ID}
			input.PaymentChoice.apply(&choice)
			if err := tx.SavePaymentChoice(ctx, &choice); err != nil {
				return err
			}
		}
		if owner != nil {
			stage := owner.Onboarding.Advance(access.StageCompleted)
			if err := tx.LinkPrincipal(ctx, owner.UserID, affiliate.ID, stage); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, scope, affiliate.ID)
}

func (s *Service) UpdateAffiliate(ctx context.Context, p access.Principal, id int64, input UpdateInput) (*Record, error) {
	scope, err := access.AdminScope(p, access.KindAffiliate)
	if err != nil {
		return nil, err
	}

	normalizeUpdate(&input)
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.Get(ctx, scope, id)
		if err != nil {
			return err
		}

		affiliate := record.Affiliate
		input.apply(&affiliate)
		if err := ValidateDocument(affiliate.DocumentType, affiliate.DocumentID); err != nil {
			return err
		}
		if err := checkLegalTutor(ctx, tx, scope, id, affiliate.LegalTutorID); err != nil {
			return err
		}
		return tx.Update(ctx, scope, &affiliate)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, scope, id)
}

// DeactivateAffiliate soft deletes an affiliate. Deactivating twice is not an
// error.
func (s *Service) DeactivateAffiliate(ctx context.Context, p access.Principal, id int64) error {
	scope, err := access.AdminScope(p, access.KindAffiliate)
	if err != nil {
		return err
	}
	return s.repo.SetActive(ctx, scope, id, false)
}

func (s *Service) ListAffiliates(ctx context.Context, p access.Principal, filter ListFilter) ([]View, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	if !p.IsEntityAdmin {
		filter.IncludeInactive = false
	}

	records, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(records))
	for _, record := range records {
		views = append(views, ViewFor(p.IsEntityAdmin, record))
	}
	return views, nil
}

func (s *Service) GetAffiliate(ctx context.Context, p access.Principal, id int64) (View, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !record.Active && !p.IsEntityAdmin {
		return nil, ErrAffiliateNotFound
	}
	return ViewFor(p.IsEntityAdmin, *record), nil
}

// ResolvePosition returns the directorate position of an affiliate, or the
// default label when it holds none.
func (s *Service) ResolvePosition(ctx context.Context, p access.Principal, id int64) (string, error) {
	scope, err := p.Scope()
	if err != nil {
		return "", err
	}
	name, err := s.repo.GetPositionName(ctx, scope, id)
	if err != nil {
		return "", err
	}
	return PositionLabel(name), nil
}

// ExportAffiliates returns the full projection of every active affiliate.
func (s *Service) ExportAffiliates(ctx context.Context, p access.Principal) ([]FullView, error) {
	scope, err := access.AdminScope(p, access.KindAffiliate)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, scope, ListFilter{})
	if err != nil {
		return nil, err
	}

	views := make([]FullView, 0, len(records))
	for _, record := range records {
		views = append(views, NewFullView(record))
	}
	return views, nil
}

func (s *Service) GetPaymentChoice(ctx context.Context, p access.Principal, affiliateID int64) (*PaymentChoice, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	if err := s.requireAffiliate(ctx, scope, affiliateID); err != nil {
		return nil, err
	}
	if err := access.Require(p, access.ActionRead, access.PaymentChoiceTarget(scope.EntityID(), affiliateID)); err != nil {
		return nil, err
	}
	return s.repo.GetPaymentChoice(ctx, affiliateID)
}

// SavePaymentChoice creates or replaces the payment choice of an affiliate.
// Admins and the affiliate itself may do so.
func (s *Service) SavePaymentChoice(ctx context.Context, p access.Principal, affiliateID int64, input PaymentChoiceInput) (*PaymentChoice, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	if err := s.requireAffiliate(ctx, scope, affiliateID); err != nil {
		return nil, err
	}
	if err := access.Require(p, access.ActionWrite, access.PaymentChoiceTarget(scope.EntityID(), affiliateID)); err != nil {
		return nil, err
	}

	normalizePaymentChoice(&input)
	if err := validatePaymentChoice(input); err != nil {
		return nil, err
	}

	var result PaymentChoice
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		choice, err := tx.GetPaymentChoice(ctx, affiliateID)
		if errors.Is(err, ErrPaymentChoiceNotFound) {
			choice = &PaymentChoice{AffiliateID: affiliateID}
		} else if err != nil {
			return err
		}

		input.apply(choice)
		if err := tx.SavePaymentChoice(ctx, choice); err != nil {
			return err
		}
		result = *choice
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// SetPhoto assigns a fresh storage key to an affiliate photo and returns the
// URL to upload it to. A nil affiliateID targets the principal's own
// affiliate.
func (s *Service) SetPhoto(ctx context.Context, p access.Principal, affiliateID *int64) (*PhotoUpload, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}

	var id int64
	switch {
	case affiliateID == nil:
		if !p.HasAffiliate() {
			return nil, ErrNoAffiliate
		}
		id = *p.AffiliateID
	case p.OwnsAffiliate(*affiliateID):
		id = *affiliateID
	default:
		if err := access.Require(p, access.ActionWrite, access.RecordTarget(access.KindAffiliate, scope.EntityID())); err != nil {
			return nil, err
		}
		id = *affiliateID
	}

	if err := s.requireAffiliate(ctx, scope, id); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("affiliates/%d/photo-%s", id, uuid.NewString())
	url, err := s.uploads.PresignUpload(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPhoto(ctx, scope, id, key); err != nil {
		return nil, err
	}

	return &PhotoUpload{AffiliateID: id, Key: key, UploadURL: url}, nil
}

func (s *Service) requireAffiliate(ctx context.Context, scope access.Scope, id int64) error {
	exists, err := s.repo.Exists(ctx, scope, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAffiliateNotFound
	}
	return nil
}

func checkLegalTutor(ctx context.Context, repo Repository, scope access.Scope, self int64, tutorID *int64) error {
	if tutorID == nil {
		return nil
	}
	if *tutorID == self {
		return domain.NewValidationError("legal_tutor_id", "an affiliate cannot be its own legal tutor")
	}
	exists, err := repo.Exists(ctx, scope, *tutorID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewValidationError("legal_tutor_id", "legal tutor not found")
	}
	return nil
}

func validateCreate(input CreateInput) error {
	verr := &domain.ValidationError{}
	if err := verr.Merge(domain.Validate(input)); err != nil {
		return err
	}
	if input.DocumentID != "" && input.DocumentType != 0 {
		_ = verr.Merge(ValidateDocument(input.DocumentType, input.DocumentID))
	}
	if input.PaymentChoice != nil {
		if err := verr.Merge(validatePaymentChoice(*input.PaymentChoice)); err != nil {
			return err
		}
	}
	return verr.OrNil()
}

func validatePaymentChoice(input PaymentChoiceInput) error {
	verr := &domain.ValidationError{}
	if err := verr.Merge(domain.Validate(input)); err != nil {
		return err
	}
	if input.PaymentType.RequiresIBAN() && (input.AccountIBAN == nil || *input.AccountIBAN == "") {
		verr.Add("account_iban", "is required for domiciliation and transfer payments")
	}
	return verr.OrNil()
}

func normalizeCreate(input *CreateInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Surnames = strings.TrimSpace(input.Surnames)
	input.DocumentID = NormalizeDocumentID(input.DocumentID)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Gender = Gender(strings.ToUpper(strings.TrimSpace(string(input.Gender))))
	input.Address = strings.TrimSpace(input.Address)
	input.PostalCode = strings.TrimSpace(input.PostalCode)
	input.City = strings.TrimSpace(input.City)
	input.Province = strings.TrimSpace(input.Province)
	input.Country = strings.TrimSpace(input.Country)
	if input.Country == "" {
		input.Country = DefaultCountry
	}
	if !input.HasLegalTutor {
		input.LegalTutorID = nil
	}
	if input.PaymentChoice != nil {
		normalizePaymentChoice(input.PaymentChoice)
	}
}

func normalizeUpdate(input *UpdateInput) {
	for _, field := range []*string{
		input.Name, input.Surnames, input.Email, input.Phone,
		input.Address, input.PostalCode, input.City, input.Province, input.Country,
	} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if input.DocumentID != nil {
		id := NormalizeDocumentID(*input.DocumentID)
		input.DocumentID = &id
	}
	if input.Gender != nil {
		gender := Gender(strings.ToUpper(strings.TrimSpace(string(*input.Gender))))
		input.Gender = &gender
	}
}

func normalizePaymentChoice(input *PaymentChoiceInput) {
	if input.AccountHolder != nil {
		holder := strings.TrimSpace(*input.AccountHolder)
		input.AccountHolder = &holder
	}
	if input.AccountIBAN != nil {
		iban := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(*input.AccountIBAN), " ", ""))
		input.AccountIBAN = &iban
	}
}

func (in UpdateInput) apply(a *Affiliate) {
	if in.CensusNumber != nil {
		a.CensusNumber = in.CensusNumber
	}
	if in.JCFNumber != nil {
		a.JCFNumber = in.JCFNumber
	}
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.Surnames != nil {
		a.Surnames = *in.Surnames
	}
	if in.DocumentType != nil {
		a.DocumentType = *in.DocumentType
	}
	if in.DocumentID != nil {
		a.DocumentID = *in.DocumentID
	}
	if in.Email != nil {
		a.Email = *in.Email
	}
	if in.Phone != nil {
		a.Phone = *in.Phone
	}
	if in.Birthday != nil {
		a.Birthday = *in.Birthday
	}
	if in.Gender != nil {
		a.Gender = *in.Gender
	}
	if in.Address != nil {
		a.Address = *in.Address
	}
	if in.PostalCode != nil {
		a.PostalCode = *in.PostalCode
	}
	if in.City != nil {
		a.City = *in.City
	}
	if in.Province != nil {
		a.Province = *in.Province
	}
	if in.Country != nil {
		a.Country = *in.Country
	}
	if in.HasLegalTutor != nil {
		a.HasLegalTutor = *in.HasLegalTutor
		if !a.HasLegalTutor {
			a.LegalTutorID = nil
		}
	}
	if in.LegalTutorID != nil && a.HasLegalTutor {
		a.LegalTutorID = in.LegalTutorID
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
}

func (in PaymentChoiceInput) apply(choice *PaymentChoice) {
	choice.PaymentType = in.PaymentType
	choice.AccountHolder = in.AccountHolder
	choice.AccountIBAN = in.AccountIBAN
	if !in.PaymentType.RequiresIBAN() {
		choice.AccountIBAN = nil
	}
}
