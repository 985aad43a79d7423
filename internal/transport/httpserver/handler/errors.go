package handler

import (
	"errors"
	"net/http"

	"cendra-go/internal/domain"
	"cendra-go/internal/domain/access"
	entitydomain "cendra-go/internal/domain/entity"
	userdomain "cendra-go/internal/domain/user"
	"cendra-go/internal/storage"
)

// fail maps a domain error onto the response. Business errors are logged at
// warn level, anything unexpected at error level.
func (h *Handlers) fail(w http.ResponseWriter, op string, err error, args ...any) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeFieldErrors(w, validation.Fields)
	case errors.Is(err, domain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, entitydomain.ErrIncorrectPassword):
		h.log.BusinessError(op+": incorrect password", err, args...)
		writeError(w, http.StatusUnauthorized, "incorrect_secret", "incorrect password")
	case errors.Is(err, userdomain.ErrInvalidCredentials):
		h.log.BusinessError(op+": invalid credentials", err, args...)
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, domain.ErrIncorrectSecret):
		h.log.BusinessError(op+": incorrect secret", err, args...)
		writeError(w, http.StatusUnauthorized, "incorrect_secret", "incorrect secret")
	case errors.Is(err, access.ErrAdminRequired):
		h.log.BusinessError(op+": admin required", err, args...)
		writeError(w, http.StatusForbidden, "admin_required", "entity admin required")
	case errors.Is(err, access.ErrNoEntity):
		h.log.BusinessError(op+": no entity", err, args...)
		writeError(w, http.StatusForbidden, "no_entity", "user has no entity")
	case errors.Is(err, domain.ErrUnauthorized):
		h.log.BusinessError(op+": unauthorized", err, args...)
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		h.log.BusinessError(op+": not found", err, args...)
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		h.log.BusinessError(op+": conflict", err, args...)
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, storage.ErrNotConfigured):
		h.log.InternalError(op+": storage unavailable", err, args...)
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "file storage unavailable")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
