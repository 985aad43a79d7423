package treasury

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

func (s *Service) CreateAccount(ctx context.Context, p access.Principal, input AccountInput) (*AccountBalance, error) {
	scope, err := access.AdminScope(p, access.KindBankAccount)
	if err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.IBAN != nil {
		iban := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(*input.IBAN), " ", ""))
		input.IBAN = &iban
		if iban == "" {
			input.IBAN = nil
		}
	}

	verr := &domain.ValidationError{}
	if err := verr.Merge(domain.Validate(input)); err != nil {
		return nil, err
	}
	if !validInitialAmount(input.InitialAmount) {
		verr.Add("initial_amount", "must be a non negative amount below 10000000000 with at most 2 decimals")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	account := Account{
		EntityID:      scope.EntityID(),
		Name:          input.Name,
		IBAN:          input.IBAN,
		InitialAmount: input.InitialAmount,
	}
	if err := s.repo.CreateAccount(ctx, &account); err != nil {
		return nil, err
	}
	return &AccountBalance{Account: account, Balance: Balance(account.InitialAmount, Totals{})}, nil
}

func (s *Service) ListAccounts(ctx context.Context, p access.Principal) ([]AccountBalance, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.ListAccounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.withBalances(ctx, accounts)
}

func (s *Service) GetAccount(ctx context.Context, p access.Principal, id int64) (*AccountBalance, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}

	account, err := s.repo.GetAccount(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	balances, err := s.withBalances(ctx, []Account{*account})
	if err != nil {
		return nil, err
	}
	return &balances[0], nil
}

func (s *Service) RecordIncome(ctx context.Context, p access.Principal, accountID int64, input MovementInput) (*Movement, error) {
	return s.record(ctx, p, accountID, DirectionIncome, input)
}

func (s *Service) RecordOutcome(ctx context.Context, p access.Principal, accountID int64, input MovementInput) (*Movement, error) {
	return s.record(ctx, p, accountID, DirectionOutcome, input)
}

func (s *Service) record(ctx context.Context, p access.Principal, accountID int64, direction Direction, input MovementInput) (*Movement, error) {
	scope, err := access.AdminScope(p, access.KindLedgerEntry)
	if err != nil {
		return nil, err
	}

	input.Concept = strings.TrimSpace(input.Concept)
	verr := &domain.ValidationError{}
	if err := verr.Merge(domain.Validate(input)); err != nil {
		return nil, err
	}
	if !validAmount(input.Amount) {
		verr.Add("amount", "must be a positive amount below 10000000000 with at most 2 decimals")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetAccount(ctx, scope, accountID); err != nil {
		return nil, err
	}

	movement := Movement{
		AccountID: accountID,
		Concept:   input.Concept,
		Amount:    input.Amount,
		Date:      input.Date,
		Direction: direction,
	}
	if err := s.repo.AddMovement(ctx, &movement); err != nil {
		return nil, err
	}
	return &movement, nil
}

// ListTransactions returns the incomes and outcomes of an account.
func (s *Service) ListTransactions(ctx context.Context, p access.Principal, accountID int64) ([]Movement, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetAccount(ctx, scope, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListMovements(ctx, accountID)
}

// CountMovements returns how many incomes and outcomes the entity recorded.
func (s *Service) CountMovements(ctx context.Context, p access.Principal) (int64, error) {
	scope, err := p.Scope()
	if err != nil {
		return 0, err
	}
	return s.repo.CountMovements(ctx, scope)
}

func (s *Service) withBalances(ctx context.Context, accounts []Account) ([]AccountBalance, error) {
	ids := make([]int64, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, account.ID)
	}

	totals, err := s.repo.Totals(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, AccountBalance{
			Account: account,
			Balance: Balance(account.InitialAmount, totals[account.ID]),
		})
	}
	return result, nil
}
