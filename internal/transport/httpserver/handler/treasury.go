package handler

import (
	"net/http"

	treasurydomain "cendra-go/internal/domain/treasury"
	"github.com/shopspring/decimal"
)

const amountPlaces = 2

type accountRequest struct {
	Name          string          `json:"name"`
	IBAN          *string         `json:"iban"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

type movementRequest struct {
	Concept string          `json:"concept"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date"`
}

type accountResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	IBAN          *string `json:"iban"`
	InitialAmount string  `json:"initial_amount"`
	Balance       string  `json:"balance"`
}

type movementResponse struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Type      string `json:"type"`
	Concept   string `json:"concept"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
}

func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	accounts, err := h.Treasury.ListAccounts(r.Context(), p)
	if err != nil {
		h.fail(w, "treasury.list", err, "user_id", p.UserID)
		return
	}

	response := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, toAccountResponse(account))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	account, err := h.Treasury.GetAccount(r.Context(), p, id)
	if err != nil {
		h.fail(w, "treasury.get", err, "user_id", p.UserID, "account_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(*account))
}

func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	account, err := h.Treasury.CreateAccount(r.Context(), p, treasurydomain.AccountInput{
		Name:          req.Name,
		IBAN:          req.IBAN,
		InitialAmount: req.InitialAmount,
	})
	if err != nil {
		h.fail(w, "treasury.create", err, "user_id", p.UserID)
		return
	}
	h.Dashboard.Invalidate(r.Context(), p)

	writeJSON(w, http.StatusCreated, toAccountResponse(*account))
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	movements, err := h.Treasury.ListTransactions(r.Context(), p, id)
	if err != nil {
		h.fail(w, "treasury.transactions", err, "user_id", p.UserID, "account_id", id)
		return
	}

	response := make([]movementResponse, 0, len(movements))
	for _, movement := range movements {
		response = append(response, toMovementResponse(movement))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RecordIncome(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, treasurydomain.DirectionIncome)
}

func (h *Handlers) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, treasurydomain.DirectionOutcome)
}

func (h *Handlers) recordMovement(w http.ResponseWriter, r *http.Request, direction treasurydomain.Direction) {
	op := "treasury." + string(direction)
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req movementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	input := treasurydomain.MovementInput{Concept: req.Concept, Amount: req.Amount}
	if req.Date != "" {
		date, err := parseDateRequired(req.Date)
		if err != nil {
			writeFieldErrors(w, map[string]string{"date": "must be a date formatted YYYY-MM-DD"})
			return
		}
		input.Date = date
	}

	var (
		movement *treasurydomain.Movement
		err      error
	)
	if direction == treasurydomain.DirectionIncome {
		movement, err = h.Treasury.RecordIncome(r.Context(), p, id, input)
	} else {
		movement, err = h.Treasury.RecordOutcome(r.Context(), p, id, input)
	}
	if err != nil {
		h.fail(w, op, err, "user_id", p.UserID, "account_id", id)
		return
	}
	h.Dashboard.Invalidate(r.Context(), p)

	writeJSON(w, http.StatusCreated, toMovementResponse(*movement))
}

func toAccountResponse(account treasurydomain.AccountBalance) accountResponse {
	return accountResponse{
		ID:            account.ID,
		Name:          account.Name,
		IBAN:          account.IBAN,
		InitialAmount: account.InitialAmount.StringFixed(amountPlaces),
		Balance:       account.Balance.StringFixed(amountPlaces),
	}
}

func toMovementResponse(movement treasurydomain.Movement) movementResponse {
	return movementResponse{
		ID:        movement.ID,
		AccountID: movement.AccountID,
		Type:      string(movement.Direction),
		Concept:   movement.Concept,
		Amount:    movement.Amount.StringFixed(amountPlaces),
		Date:      formatDate(movement.Date),
	}
}
