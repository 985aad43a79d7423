package treasury

import (
	"time"

	"github.com/shopspring/decimal"
)

const amountPlaces = 2

type Account struct {
	ID            int64           `gorm:"primaryKey"`
	EntityID      int64           `gorm:"not null;index"`
	Name          string          `gorm:"size:100;not null"`
	IBAN          *string         `gorm:"column:iban;size:34"`
	InitialAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (Account) TableName() string { return "bank_accounts" }

// Totals are the summed movements of an account.
type Totals struct {
	Incomes  decimal.Decimal
	Outcomes decimal.Decimal
}

type AccountBalance struct {
	Account
	Balance decimal.Decimal
}

type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionOutcome Direction = "outcome"
)

// Movement is an income or an outcome of an account. Both share one shape
// and are stored in their own tables.
type Movement struct {
	ID        int64           `gorm:"primaryKey"`
	AccountID int64           `gorm:"not null;index"`
	Concept   string          `gorm:"size:100;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Date      time.Time       `gorm:"type:date;not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	Direction Direction       `gorm:"-"`
}

type AccountInput struct {
	Name          string          `validate:"required,max=100"`
	IBAN          *string         `validate:"omitempty,iban"`
	InitialAmount decimal.Decimal `validate:"-"`
}

type MovementInput struct {
	Concept string          `validate:"required,max=100"`
	Amount  decimal.Decimal `validate:"-"`
	Date    time.Time       `validate:"required"`
}
