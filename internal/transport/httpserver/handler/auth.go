package handler

import (
	"net/http"

	userdomain "cendra-go/internal/domain/user"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	session, err := h.Users.Register(r.Context(), userdomain.RegisterInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(w, "users.register", err, "email", req.Email)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	session, err := h.Users.Login(r.Context(), userdomain.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(w, "users.login", err, "email", req.Email)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func toSessionResponse(session *userdomain.Session) sessionResponse {
	return sessionResponse{
		Token:  session.Token,
		UserID: session.User.ID,
		Email:  session.User.Email,
	}
}
