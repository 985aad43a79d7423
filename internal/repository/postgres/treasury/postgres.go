package treasury

import (
	"context"
	"errors"
	"sort"

	"cendra-go/internal/domain/access"
	treasurydomain "cendra-go/internal/domain/treasury"
	pg "cendra-go/internal/repository/postgres"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	incomesTable  = "incomes"
	outcomesTable = "outcomes"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, account *treasurydomain.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *PostgresRepository) ListAccounts(ctx context.Context, scope access.Scope) ([]treasurydomain.Account, error) {
	var accounts []treasurydomain.Account
	if err := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "bank_accounts")).
		Order("id asc").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *PostgresRepository) GetAccount(ctx context.Context, scope access.Scope, id int64) (*treasurydomain.Account, error) {
	var account treasurydomain.Account
	if err := r.db.WithContext(ctx).
		Scopes(pg.InEntity(scope, "bank_accounts")).
		Where("id = ?", id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, treasurydomain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Totals sums incomes and outcomes per account. Accounts without movements
// are absent from the result.
func (r *PostgresRepository) Totals(ctx context.Context, accountIDs []int64) (map[int64]treasurydomain.Totals, error) {
	totals := make(map[int64]treasurydomain.Totals, len(accountIDs))
	if len(accountIDs) == 0 {
		return totals, nil
	}

	incomes, err := r.sumByAccount(ctx, incomesTable, accountIDs)
	if err != nil {
		return nil, err
	}
	outcomes, err := r.sumByAccount(ctx, outcomesTable, accountIDs)
	if err != nil {
		return nil, err
	}

	for id, amount := range incomes {
		t := totals[id]
		t.Incomes = amount
		totals[id] = t
	}
	for id, amount := range outcomes {
		t := totals[id]
		t.Outcomes = amount
		totals[id] = t
	}
	return totals, nil
}

func (r *PostgresRepository) sumByAccount(ctx context.Context, table string, accountIDs []int64) (map[int64]decimal.Decimal, error) {
	type sumRow struct {
		AccountID int64           `gorm:"column:account_id"`
		Total     decimal.Decimal `gorm:"column:total"`
	}

	var rows []sumRow
	if err := r.db.WithContext(ctx).
		Table(table).
		Select("account_id, coalesce(sum(amount), 0) AS total").
		Where("account_id IN ?", accountIDs).
		Group("account_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.AccountID] = row.Total
	}
	return sums, nil
}

func (r *PostgresRepository) AddMovement(ctx context.Context, movement *treasurydomain.Movement) error {
	table, err := movementTable(movement.Direction)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).Create(movement).Error
}

func movementTable(direction treasurydomain.Direction) (string, error) {
	switch direction {
	case treasurydomain.DirectionIncome:
		return incomesTable, nil
	case treasurydomain.DirectionOutcome:
		return outcomesTable, nil
	}
	return "", errors.New("unknown movement direction " + string(direction))
}

// ListMovements merges incomes and outcomes of the account, newest first.
func (r *PostgresRepository) ListMovements(ctx context.Context, accountID int64) ([]treasurydomain.Movement, error) {
	var movements []treasurydomain.Movement
	for _, direction := range []treasurydomain.Direction{treasurydomain.DirectionIncome, treasurydomain.DirectionOutcome} {
		table, _ := movementTable(direction)

		var rows []treasurydomain.Movement
		if err := r.db.WithContext(ctx).
			Table(table).
			Where("account_id = ?", accountID).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].Direction = direction
		}
		movements = append(movements, rows...)
	}

	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].Date.Equal(movements[j].Date) {
			return movements[i].Date.After(movements[j].Date)
		}
		return movements[i].CreatedAt.After(movements[j].CreatedAt)
	})
	return movements, nil
}

func (r *PostgresRepository) CountMovements(ctx context.Context, scope access.Scope) (int64, error) {
	var total int64
	for _, table := range []string{incomesTable, outcomesTable} {
		var count int64
		if err := r.db.WithContext(ctx).
			Table(table).
			Joins("join bank_accounts on bank_accounts.id = " + table + ".account_id").
			Scopes(pg.InEntity(scope, "bank_accounts")).
			Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}
