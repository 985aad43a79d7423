package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cendra-go/internal/auth"
	"cendra-go/internal/domain/access"
	userdomain "cendra-go/internal/domain/user"
	"cendra-go/pkg/logger"
)

type contextKey int

const principalKey contextKey = iota

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// PrincipalLoader resolves the current access state of a user. It is read
// on every request so entity or admin changes apply without a new token.
type PrincipalLoader interface {
	Principal(ctx context.Context, userID int64) (access.Principal, error)
}

type JWTAuth struct {
	tokens     TokenValidator
	principals PrincipalLoader
	log        logger.Logger
}

func NewJWTAuth(tokens TokenValidator, principals PrincipalLoader, log logger.Logger) *JWTAuth {
	return &JWTAuth{tokens: tokens, principals: principals, log: log}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			a.log.BusinessError("auth.middleware: token rejected", err)
			unauthorized(w)
			return
		}

		principal, err := a.principals.Principal(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				a.log.BusinessError("auth.middleware: user not found", err, "user_id", claims.UserID)
				unauthorized(w)
				return
			}
			a.log.InternalError("auth.middleware: load principal failed", err, "user_id", claims.UserID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithPrincipal(ctx context.Context, principal access.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (access.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(access.Principal)
	if !ok || principal.UserID == 0 {
		return access.Principal{}, false
	}
	return principal, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
