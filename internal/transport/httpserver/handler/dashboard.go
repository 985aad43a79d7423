package handler

import (
	"net/http"
)

type dashboardAccountResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

type dashboardResponse struct {
	AffiliateName *string                    `json:"affiliate_name"`
	Members       int64                      `json:"members"`
	News          int64                      `json:"news"`
	Movements     int64                      `json:"movements"`
	Accounts      []dashboardAccountResponse `json:"accounts"`
}

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	dashboard, err := h.Dashboard.Get(r.Context(), p)
	if err != nil {
		h.fail(w, "dashboard.get", err, "user_id", p.UserID)
		return
	}

	accounts := make([]dashboardAccountResponse, 0, len(dashboard.Accounts))
	for _, account := range dashboard.Accounts {
		accounts = append(accounts, dashboardAccountResponse{
			ID:      account.ID,
			Name:    account.Name,
			Balance: account.Balance.StringFixed(amountPlaces),
		})
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		AffiliateName: dashboard.AffiliateName,
		Members:       dashboard.Members,
		News:          dashboard.News,
		Movements:     dashboard.Movements,
		Accounts:      accounts,
	})
}
