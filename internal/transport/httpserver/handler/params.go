package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cendra-go/internal/domain/access"
	"cendra-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

func principalFrom(w http.ResponseWriter, r *http.Request) (access.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return access.Principal{}, false
	}
	return p, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid "+name)
		return 0, false
	}
	return id, true
}

func parseDateRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return time.Parse(dateLayout, value)
}

func parseDateParam(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := parseDateRequired(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseInt64Param(value string) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return nil, fmt.Errorf("invalid id")
	}
	return &parsed, nil
}

func parseBoolParam(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
