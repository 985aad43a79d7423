package user

import (
	"fmt"

	"cendra-go/internal/domain"
)

var (
	ErrUserNotFound       = fmt.Errorf("user not found: %w", domain.ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", domain.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
)
