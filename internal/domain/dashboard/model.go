package dashboard

import "github.com/shopspring/decimal"

type AccountBalance struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// Overview is the entity wide part of the dashboard, shared by all its
// members and cached per entity.
type Overview struct {
	Members   int64            `json:"members"`
	News      int64            `json:"news"`
	Movements int64            `json:"movements"`
	Accounts  []AccountBalance `json:"accounts"`
}

type Dashboard struct {
	AffiliateName *string
	Overview
}
